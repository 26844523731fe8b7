package confreader

import (
	"reflect"
)

const confTag = "conf"

// Variable describes one data-bearing field of an Extractor.
type Variable struct {
	Name        string
	Type        string
	Implemented bool
	Populated   bool
}

// Variables lists the parameter fields of the extractor in declaration
// order, leaving out the file path and session name it was built from.
func (e *Extractor) Variables() []Variable {
	t := reflect.TypeOf(*e)
	v := reflect.ValueOf(*e)
	n := t.NumField()

	variables := make([]Variable, 0, n)
	for i := 0; i < n; i++ {
		f := t.Field(i)
		name := f.Tag.Get(confTag)
		if name == "" || name == "-" {
			continue
		}
		value := v.Field(i)
		variable := Variable{Name: name, Type: f.Type.String(), Implemented: true}
		switch value.Kind() {
		case reflect.Map, reflect.Slice:
			variable.Populated = !value.IsNil()
		case reflect.Struct:
			variable.Implemented = !IsReserved(value.Interface())
		}
		variables = append(variables, variable)
	}
	return variables
}

// Lookup returns the value of the parameter field called name. Reserved
// fields return their Reserved placeholder.
func (e *Extractor) Lookup(name string) (any, bool) {
	t := reflect.TypeOf(*e)
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get(confTag); tag != "" && tag != "-" && tag == name {
			return reflect.ValueOf(*e).Field(i).Interface(), true
		}
	}
	return nil, false
}
