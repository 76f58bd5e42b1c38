package factories

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/proto"
)

var equalOpts = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmp.Comparer(proto.Equal),
}

// Equal reports whether a and b are equal values.
// Equal methods are honoured, unexported fields are compared and protobuf
// messages are compared with proto.Equal.
//
// A nil value only equals a nil value of the same type; Equal methods are
// never called with a nil argument at the top level. An Equal method that
// panics deeper in the value makes the two values unequal.
func Equal(a, b any) (eq bool) {
	if an, bn := isNil(a), isNil(b); an || bn {
		return an && bn && reflect.TypeOf(a) == reflect.TypeOf(b)
	}

	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return cmp.Equal(a, b, equalOpts...)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
