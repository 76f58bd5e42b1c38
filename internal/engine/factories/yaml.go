package factories

import (
	"fmt"
	"reflect"

	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FromYAML returns a factory that decodes red and black from YAML documents
// into fresh instances of the requested type. redCopy is decoded from the red
// document separately, so it shares no memory with red.
func FromYAML(red, black *yaml.Node) ports.Factory {
	return ports.FactoryFunc(func(tag domain.TypeTag, _ ports.Resolver, _ domain.TypeStack) (domain.Tuple, error) {
		t := tag.Type()
		if t == nil {
			return domain.Tuple{}, InvalidFactory(t, "fixtures need a concrete type")
		}

		r, err := decode(t, red, "red")
		if err != nil {
			return domain.Tuple{}, err
		}
		b, err := decode(t, black, "black")
		if err != nil {
			return domain.Tuple{}, err
		}
		rc, err := decode(t, red, "red")
		if err != nil {
			return domain.Tuple{}, err
		}
		return domain.NewTuple(r, b, rc), nil
	})
}

func decode(t reflect.Type, node *yaml.Node, which string) (any, error) {
	if node == nil {
		return nil, InvalidFactory(t, "fixture has no "+which+" value")
	}

	ptr := reflect.New(t)
	if err := node.Decode(ptr.Interface()); err != nil {
		err = zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "decoding "+which+" fixture")
		err = zerr.With(err, "type", TypeName(t))
		return nil, zerr.With(err, "line", node.Line)
	}
	return ptr.Elem().Interface(), nil
}
