package protoreg

import (
	"fmt"
	"reflect"
	"slices"

	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
	"go.trai.ch/prefab/internal/engine/factories"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// Registrar accepts factory registrations.
type Registrar interface {
	Register(t reflect.Type, f ports.Factory) error
}

// Register binds MessageFactory to every message type in types.
// A nil registry means the global one.
func Register(r Registrar, types *protoregistry.Types) error {
	if types == nil {
		types = protoregistry.GlobalTypes
	}

	f := MessageFactory()
	var err error
	types.RangeMessages(func(mt protoreflect.MessageType) bool {
		err = r.Register(goType(mt), f)
		return err == nil
	})
	return err
}

// MessageFactory returns a factory for generated protobuf messages.
//
// Scalar and enum fields get fixed red and black values. Singular message
// fields are resolved through the engine. Repeated and map fields are left
// empty, and only the first field of each oneof is populated.
func MessageFactory() ports.Factory {
	return ports.FactoryFunc(createMessage)
}

func createMessage(tag domain.TypeTag, r ports.Resolver, stack domain.TypeStack) (tup domain.Tuple, err error) {
	t := tag.Type()
	m, ok := zeroMessage(t)
	if !ok {
		return domain.Tuple{}, factories.InvalidFactory(t, factories.TypeName(t)+" is not a generated protobuf message")
	}

	defer func() {
		if p := recover(); p != nil {
			tup, err = domain.Tuple{}, factories.InvocationError(t, "protoreflect", fmt.Errorf("panic: %v", p))
		}
	}()

	red := m.Type().New()
	black := m.Type().New()
	redCopy := m.Type().New()

	fields := m.Descriptor().Fields()
	seen := make(map[protoreflect.FullName]bool)
	for i := range fields.Len() {
		fd := fields.Get(i)
		if fd.IsList() || fd.IsMap() {
			continue
		}
		if od := fd.ContainingOneof(); od != nil && !od.IsSynthetic() {
			if seen[od.FullName()] {
				continue
			}
			seen[od.FullName()] = true
		}

		var rv, bv, cv protoreflect.Value
		switch fd.Kind() {
		case protoreflect.MessageKind, protoreflect.GroupKind:
			sub, err := r.Resolve(domain.NewTypeTag(fieldType(red, fd)), stack)
			if err != nil {
				return domain.Tuple{}, err
			}
			var ok bool
			if rv, ok = messageValue(sub.Red); !ok {
				continue
			}
			if bv, ok = messageValue(sub.Black); !ok {
				continue
			}
			if cv, ok = messageValue(sub.RedCopy); !ok {
				continue
			}
		case protoreflect.BytesKind:
			rv, bv = scalars(fd)
			cv = protoreflect.ValueOfBytes(slices.Clone(rv.Bytes()))
		default:
			rv, bv = scalars(fd)
			cv = rv
		}
		red.Set(fd, rv)
		black.Set(fd, bv)
		redCopy.Set(fd, cv)
	}

	return domain.NewTuple(red.Interface(), black.Interface(), redCopy.Interface()), nil
}

func zeroMessage(t reflect.Type) (protoreflect.Message, bool) {
	if t == nil {
		return nil, false
	}
	m, ok := reflect.Zero(t).Interface().(proto.Message)
	if !ok {
		return nil, false
	}
	return m.ProtoReflect(), true
}

func fieldType(m protoreflect.Message, fd protoreflect.FieldDescriptor) reflect.Type {
	return reflect.TypeOf(m.NewField(fd).Message().Interface())
}

// messageValue rejects the nil stand-ins produced for recursive messages.
func messageValue(v any) (protoreflect.Value, bool) {
	m, ok := v.(proto.Message)
	if !ok || reflect.ValueOf(m).IsNil() {
		return protoreflect.Value{}, false
	}
	return protoreflect.ValueOfMessage(m.ProtoReflect()), true
}

func scalars(fd protoreflect.FieldDescriptor) (protoreflect.Value, protoreflect.Value) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return protoreflect.ValueOfBool(true), protoreflect.ValueOfBool(false)
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return protoreflect.ValueOfInt32(1), protoreflect.ValueOfInt32(2)
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return protoreflect.ValueOfInt64(1), protoreflect.ValueOfInt64(2)
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return protoreflect.ValueOfUint32(1), protoreflect.ValueOfUint32(2)
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return protoreflect.ValueOfUint64(1), protoreflect.ValueOfUint64(2)
	case protoreflect.FloatKind:
		return protoreflect.ValueOfFloat32(0.5), protoreflect.ValueOfFloat32(1)
	case protoreflect.DoubleKind:
		return protoreflect.ValueOfFloat64(0.5), protoreflect.ValueOfFloat64(1)
	case protoreflect.StringKind:
		return protoreflect.ValueOfString("one"), protoreflect.ValueOfString("two")
	case protoreflect.BytesKind:
		return protoreflect.ValueOfBytes([]byte("one")), protoreflect.ValueOfBytes([]byte("two"))
	case protoreflect.EnumKind:
		values := fd.Enum().Values()
		red := values.Get(0).Number()
		black := red
		if values.Len() > 1 {
			black = values.Get(1).Number()
		}
		return protoreflect.ValueOfEnum(red), protoreflect.ValueOfEnum(black)
	}
	return fd.Default(), fd.Default()
}
