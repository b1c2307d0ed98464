package interpreter

import "strconv"

// GetProperty walks path through nested arrays and objects starting at target.
// Array steps accept numeric keys, negative ones counting from the end.
func GetProperty(target Value, path *Array) (Value, bool) {
	current := target
	for _, key := range path.Items {
		switch current.Kind {
		case KindObject:
			next, ok := current.Object[key.String()]
			if !ok {
				return Value{}, false
			}
			current = next

		case KindArray:
			index, ok := propertyIndex(key)
			if !ok {
				return Value{}, false
			}
			next, ok := current.Array.Get(index)
			if !ok {
				return Value{}, false
			}
			current = next

		default:
			return Value{}, false
		}
	}

	return current, true
}

func propertyIndex(key Value) (int, bool) {
	switch key.Kind {
	case KindNumber:
		return int(key.Number), true
	case KindString:
		n, err := strconv.Atoi(key.Str)
		return n, err == nil
	default:
		return 0, false
	}
}
