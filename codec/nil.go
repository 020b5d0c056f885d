package codec

import "reflect"

// isNil returns true for nil and for a typed nil pointer.
func isNil(m Marshaller) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
