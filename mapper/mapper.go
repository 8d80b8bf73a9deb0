// Package mapper populates Go values from a parsed document tree via
// reflection. Constructors map onto struct fields and map entries; groups of
// plain values map onto slices.
package mapper

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pdxkit/pdxscript/ast"
)

// container is the shared surface of *ast.Root and *ast.Group.
type container interface {
	Values() []ast.Value
	Constructors(name string) []*ast.Constructor
}

// Map walks the tree from root and populates the Go value pointed to by v.
func Map(root *ast.Root, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("pdxscript: Unmarshal(non-pointer %T or nil)", v)
	}
	m := &mapper{}
	return m.mapContainer(root, rv.Elem())
}

type mapper struct{}

// mapValue maps one tree node onto a settable reflect value.
func (m *mapper) mapValue(val ast.Value, rv reflect.Value) error {
	if !rv.CanSet() {
		return fmt.Errorf("pdxscript: cannot set value of type %s", rv.Type())
	}

	switch node := val.(type) {
	case *ast.Integer:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.OverflowInt(node.Value) {
				return fmt.Errorf("pdxscript: integer value %d overflows Go value of type %s", node.Value, rv.Type())
			}
			rv.SetInt(node.Value)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if node.Value < 0 || rv.OverflowUint(uint64(node.Value)) {
				return fmt.Errorf("pdxscript: integer value %d overflows Go value of type %s", node.Value, rv.Type())
			}
			rv.SetUint(uint64(node.Value))
			return nil
		case reflect.Float32, reflect.Float64:
			rv.SetFloat(float64(node.Value))
			return nil
		default:
			return fmt.Errorf("pdxscript: cannot unmarshal integer into Go value of type %s", rv.Type())
		}
	case *ast.Float:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			rv.SetFloat(float64(node.Value))
			return nil
		default:
			return fmt.Errorf("pdxscript: cannot unmarshal float into Go value of type %s", rv.Type())
		}
	case *ast.Text:
		if rv.Kind() != reflect.String {
			return fmt.Errorf("pdxscript: cannot unmarshal text into Go value of type %s", rv.Type())
		}
		rv.SetString(node.Value())
		return nil
	case *ast.Date:
		if rv.Kind() != reflect.String {
			return fmt.Errorf("pdxscript: cannot unmarshal date into Go value of type %s", rv.Type())
		}
		s, err := node.Render()
		if err != nil {
			return err
		}
		rv.SetString(s)
		return nil
	case *ast.Color:
		return m.mapColor(node, rv)
	case *ast.Group:
		if rv.Kind() == reflect.Slice {
			return m.mapSlice(node, rv)
		}
		return m.mapContainer(node, rv)
	default:
		return fmt.Errorf("pdxscript: cannot unmarshal %s value into Go value of type %s", val.Kind(), rv.Type())
	}
}

func (m *mapper) mapColor(c *ast.Color, rv reflect.Value) error {
	comps := [3]uint8{c.R, c.G, c.B}
	switch {
	case rv.Kind() == reflect.Array && rv.Len() == 3 && rv.Type().Elem().Kind() == reflect.Uint8:
		for i, b := range comps {
			rv.Index(i).SetUint(uint64(b))
		}
		return nil
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		rv.SetBytes([]byte{comps[0], comps[1], comps[2]})
		return nil
	default:
		return fmt.Errorf("pdxscript: cannot unmarshal color into Go value of type %s", rv.Type())
	}
}

func (m *mapper) mapSlice(g *ast.Group, rv reflect.Value) error {
	elems := g.Values()
	out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
	for i, elem := range elems {
		if err := m.mapValue(elem, out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

// mapContainer maps a root or group whose children are constructors onto a
// struct or a string-keyed map.
func (m *mapper) mapContainer(c container, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Struct:
		return m.mapStruct(c, rv)
	case reflect.Map:
		return m.mapMap(c, rv)
	default:
		return fmt.Errorf("pdxscript: cannot unmarshal container into Go value of type %s", rv.Type())
	}
}

func (m *mapper) mapStruct(c container, rv reflect.Value) error {
	for _, ctor := range c.Constructors("") {
		field := structField(rv, ctor.Name().Value())
		if !field.IsValid() || !field.CanSet() {
			continue // unknown keys are skipped
		}
		if err := m.mapValue(ctor.Value(), field); err != nil {
			return err
		}
	}
	return nil
}

func (m *mapper) mapMap(c container, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("pdxscript: cannot unmarshal container into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mapType))
	}
	elemType := mapType.Elem()
	for _, ctor := range c.Constructors("") {
		newVal := reflect.New(elemType).Elem()
		if err := m.mapValue(ctor.Value(), newVal); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(ctor.Name().Value()), newVal)
	}
	return nil
}

// structField locates the field for a constructor name: a `pdx` tag match
// first, then a case-insensitive field name match. Definition file keys are
// conventionally lowercase, so exact-name lookup would miss exported fields.
func structField(rv reflect.Value, name string) reflect.Value {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		if tag, ok := t.Field(i).Tag.Lookup("pdx"); ok && tag == name {
			return rv.Field(i)
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if _, ok := f.Tag.Lookup("pdx"); ok {
			continue
		}
		if strings.EqualFold(f.Name, name) {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}
