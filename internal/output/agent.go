package output

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ApplyAgentOptions applies --result-limit and --result-sort-by to list output.
// Slices are handled directly; structs are handled through a slice field
// named Results. Anything else is returned unchanged.
func ApplyAgentOptions(ctx context.Context, data interface{}) interface{} {
	limit := LimitFromContext(ctx)
	sortBy, desc := SortFromContext(ctx)
	if data == nil || (limit == 0 && sortBy == "") {
		return data
	}

	v := reflect.ValueOf(data)
	isPtr := v.Kind() == reflect.Ptr
	if isPtr {
		if v.IsNil() {
			return data
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return applyToSlice(v, limit, sortBy, desc).Interface()
	case reflect.Struct:
		results := v.FieldByName("Results")
		if !results.IsValid() || results.Kind() != reflect.Slice {
			return data
		}
		updated := applyToSlice(results, limit, sortBy, desc)
		if isPtr && results.CanSet() {
			results.Set(updated)
			return data
		}
		copyVal := reflect.New(v.Type()).Elem()
		copyVal.Set(v)
		copyVal.FieldByName("Results").Set(updated)
		return copyVal.Interface()
	}
	return data
}

// applyToSlice returns a sorted, limited copy of v.
func applyToSlice(v reflect.Value, limit int, sortBy string, desc bool) reflect.Value {
	typ := v.Type()
	if typ.Kind() == reflect.Array {
		typ = reflect.SliceOf(typ.Elem())
	}
	out := reflect.MakeSlice(typ, v.Len(), v.Len())
	reflect.Copy(out, v)

	if sortBy != "" {
		path := strings.Split(sortBy, ".")
		sort.SliceStable(out.Interface(), func(i, j int) bool {
			a, aok := lookupField(out.Index(i), path)
			b, bok := lookupField(out.Index(j), path)
			switch {
			case !aok:
				return false
			case !bok:
				return true
			case desc:
				return compareValues(a, b) > 0
			default:
				return compareValues(a, b) < 0
			}
		})
	}

	if limit > 0 && limit < out.Len() {
		return out.Slice(0, limit)
	}
	return out
}

// lookupField follows a dotted path through maps and structs, matching
// names without regard to case, dashes or underscores.
func lookupField(v reflect.Value, path []string) (interface{}, bool) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if len(path) == 0 {
		return v.Interface(), true
	}

	want := normalizeName(path[0])
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		for _, key := range v.MapKeys() {
			if normalizeName(key.String()) == want {
				return lookupField(v.MapIndex(key), path[1:])
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			f := v.Type().Field(i)
			if f.IsExported() && normalizeName(fieldLabel(f)) == want {
				return lookupField(v.Field(i), path[1:])
			}
		}
	}
	return nil, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(s))
}

func compareValues(a, b interface{}) int {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case av.CanInt() && bv.CanInt():
		return cmpOrdered(av.Int(), bv.Int())
	case av.CanUint() && bv.CanUint():
		return cmpOrdered(av.Uint(), bv.Uint())
	case av.CanFloat() && bv.CanFloat():
		return cmpOrdered(av.Float(), bv.Float())
	case av.Kind() == reflect.Bool && bv.Kind() == reflect.Bool:
		return cmpOrdered(boolInt(av.Bool()), boolInt(bv.Bool()))
	case av.Kind() == reflect.String && bv.Kind() == reflect.String:
		return strings.Compare(av.String(), bv.String())
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func cmpOrdered[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
