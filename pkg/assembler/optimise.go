package assembler

import (
	"strings"

	"lysithea/pkg/ast"
	"lysithea/pkg/interpreter"
)

// splitPropertyPath splits `parent.a.b` into the parent name and the path [a b].
// path is nil when name has no property part.
func splitPropertyPath(name string) (string, *interpreter.Array) {
	parts := strings.Split(name, ".")
	if len(parts) == 1 {
		return name, nil
	}

	path := &interpreter.Array{Items: make([]interpreter.Value, 0, len(parts)-1)}
	for _, part := range parts[1:] {
		path.Items = append(path.Items, interpreter.NewString(part))
	}
	return parts[0], path
}

// lookupBuiltin resolves name in the builtin scope at compile time
func (a *Assembler) lookupBuiltin(name string) (interpreter.Value, bool) {
	if a.BuiltinScope == nil {
		return interpreter.Value{}, false
	}
	return a.BuiltinScope.TryGet(name)
}

// optimiseCallSymbolValue emits the call for a symbol head. Functions known at
// compile time are embedded in a callDirect; anything else is looked up at run time.
func (a *Assembler) optimiseCallSymbolValue(head *ast.Token, name string, numArgs int) ([]tempCodeLine, error) {
	count := interpreter.NewNumber(float64(numArgs))
	parentKey, path := splitPropertyPath(name)

	if parent, ok := a.lookupBuiltin(parentKey); ok {
		target, found := parent, path == nil
		if path != nil {
			target, found = interpreter.GetProperty(parent, path)
		}

		if found {
			if !target.IsFunction() {
				return nil, a.errorf(head, "Attempting to call %s which is a %s, not a function", name, target.TypeName())
			}
			return []tempCodeLine{
				codeLine(interpreter.OpCallDirect, head.Copy(interpreter.NewArray(target, count))),
			}, nil
		}
	}

	result := []tempCodeLine{codeLine(interpreter.OpGet, head.Copy(interpreter.NewString(parentKey)))}
	if path != nil {
		result = append(result, codeLine(interpreter.OpGetProperty, head.Copy(interpreter.Value{Kind: interpreter.KindArray, Array: path})))
	}
	return append(result, codeLine(interpreter.OpCall, head.Copy(count))), nil
}

// optimiseGetSymbolValue emits the lookup of a bare symbol, pushing values known
// at compile time directly. A `...name` symbol is also marked as a spread argument.
func (a *Assembler) optimiseGetSymbolValue(t *ast.Token, name string) ([]tempCodeLine, error) {
	getName, unpack := strings.CutPrefix(name, interpreter.UnpackPrefix)
	if unpack && getName == "" {
		return nil, a.errorf(t, "Unpack needs a variable name")
	}

	parentKey, path := splitPropertyPath(getName)
	pathValue := interpreter.Value{Kind: interpreter.KindArray, Array: path}

	var result []tempCodeLine
	if parent, ok := a.lookupBuiltin(parentKey); ok {
		switch {
		case path == nil:
			result = append(result, codeLine(interpreter.OpPush, t.Copy(parent)))
		default:
			if found, ok := interpreter.GetProperty(parent, path); ok {
				result = append(result, codeLine(interpreter.OpPush, t.Copy(found)))
			} else {
				result = append(result,
					codeLine(interpreter.OpPush, t.Copy(parent)),
					codeLine(interpreter.OpGetProperty, t.Copy(pathValue)),
				)
			}
		}
	} else {
		result = append(result, codeLine(interpreter.OpGet, t.Copy(interpreter.NewString(parentKey))))
		if path != nil {
			result = append(result, codeLine(interpreter.OpGetProperty, t.Copy(pathValue)))
		}
	}

	if unpack {
		result = append(result, codeLine(interpreter.OpToArgument, t.ToEmpty()))
	}
	return result, nil
}
