package runtime

import (
	"math"
	"reflect"
)

// valuesEqual is the identity test used by state setters, dependency lists,
// and attribute diffing. Semantics follow reference/primitive identity:
// comparable values compare with ==, NaN equals NaN, and slices, maps, and
// functions compare by referenced object, never structurally.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			if math.IsNaN(af) && math.IsNaN(bf) {
				return true
			}
			return af == bf
		}
		return false
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Map, reflect.Func, reflect.Chan:
		return ra.Pointer() == rb.Pointer()
	}
	if !ra.Type().Comparable() {
		return false
	}
	return a == b
}

// depsChanged reports whether a dependency list fails the memoization
// equality rule: a length change or any element failing valuesEqual.
func depsChanged(old, new []any) bool {
	if len(old) != len(new) {
		return true
	}
	for i := range new {
		if !valuesEqual(old[i], new[i]) {
			return true
		}
	}
	return false
}
