package reactivity

import (
	"math"
	"reflect"
)

// identical reports whether a and b are the same value. Comparable values
// use ==; maps, slices and funcs compare by identity. Values of uncomparable
// struct or array types are never identical, since they have no identity
// once copied into an interface. Pointers to them compare by address. It
// never panics.
func identical(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		defer func() {
			// Interface-typed fields holding uncomparable values panic on ==.
			if recover() != nil {
				same = false
			}
		}()
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		if va.Kind() == reflect.Slice && va.Len() != vb.Len() {
			return false
		}
		return va.Pointer() == vb.Pointer()
	}
	return false
}

// hasChanged reports whether replacing old with v is a change. NaN is
// considered unchanged from NaN.
func hasChanged(v, old any) bool {
	if identical(v, old) {
		return false
	}
	return !(isNaN(v) && isNaN(old))
}

// sameValueZero is identity with NaN equal to NaN, used by membership
// lookups.
func sameValueZero(a, b any) bool {
	return identical(a, b) || (isNaN(a) && isNaN(b))
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}
