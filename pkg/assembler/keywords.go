package assembler

import (
	"fmt"
	"strings"

	"lysithea/pkg/ast"
	"lysithea/pkg/interpreter"
	"lysithea/pkg/stack"
)

const (
	keywordFunction     = "function"
	keywordLoop         = "loop"
	keywordContinue     = "continue"
	keywordBreak        = "break"
	keywordIf           = "if"
	keywordUnless       = "unless"
	keywordSet          = "set"
	keywordDefine       = "define"
	keywordJump         = "jump"
	keywordReturn       = "return"
	keywordFunctionCall = "func-call" // marks call arguments on the keyword stack
)

// binary operators folded left to right
var operators = map[string]interpreter.Opcode{
	"+":  interpreter.OpAdd,
	"*":  interpreter.OpMultiply,
	"/":  interpreter.OpDivide,
	"<":  interpreter.OpLessThan,
	"<=": interpreter.OpLessThanEquals,
	"==": interpreter.OpEquals,
	"!=": interpreter.OpNotEquals,
	">":  interpreter.OpGreaterThan,
	">=": interpreter.OpGreaterThanEquals,
	"&&": interpreter.OpAnd,
	"||": interpreter.OpOr,
}

var assignmentOperators = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true,
	"&&=": true, "||=": true, "$=": true,
}

// IsKeyword reports whether name triggers a special form
func IsKeyword(name string) bool {
	switch name {
	case keywordFunction, keywordLoop, keywordContinue, keywordBreak, keywordIf, keywordUnless,
		keywordSet, keywordDefine, keywordJump, keywordReturn, "-", "!", "++", "--", "$":
		return true
	}
	_, isOperator := operators[name]
	return isOperator || assignmentOperators[name]
}

// Keywords lists the special form names
func Keywords() []string {
	return []string{
		keywordFunction, keywordLoop, keywordContinue, keywordBreak, keywordIf, keywordUnless,
		keywordSet, keywordDefine, keywordJump, keywordReturn,
	}
}

// parseKeyword dispatches a special form. handled is false when keyword is a plain call.
func (a *Assembler) parseKeyword(keyword string, t *ast.Token) (lines []tempCodeLine, handled bool, err error) {
	if !IsKeyword(keyword) {
		return nil, false, nil
	}

	_ = a.keywords.Push(keyword)
	defer a.keywords.Pop()

	switch keyword {
	case keywordFunction:
		lines, err = a.parseFunctionKeyword(t)
	case keywordContinue:
		lines, err = a.parseLoopJump(t, true)
	case keywordBreak:
		lines, err = a.parseLoopJump(t, false)
	case keywordSet:
		lines, err = a.parseDefineSet(t, false)
	case keywordDefine:
		lines, err = a.parseDefineSet(t, true)
	case keywordLoop:
		lines, err = a.parseLoop(t)
	case keywordIf:
		lines, err = a.parseCond(t, true)
	case keywordUnless:
		lines, err = a.parseCond(t, false)
	case keywordJump:
		lines, err = a.parseJump(t)
	case keywordReturn:
		lines, err = a.parseReturn(t)
	case "-":
		lines, err = a.parseNegative(t)
	case "!":
		lines, err = a.parseOnePushInput(interpreter.OpNot, t)
	case "++":
		lines, err = a.parseOneVariableUpdate(interpreter.OpInc, t)
	case "--":
		lines, err = a.parseOneVariableUpdate(interpreter.OpDec, t)
	case "$":
		lines, err = a.parseStringConcat(t)
	default:
		if op, ok := operators[keyword]; ok {
			lines, err = a.parseOperator(op, t)
		} else {
			lines, err = a.transformAssignmentOperator(t)
		}
	}

	return lines, true, err
}

// enclosingKeyword returns the special form that contains the one being parsed
func (a *Assembler) enclosingKeyword() string {
	keywords := a.keywords.Array()
	if len(keywords) < 2 {
		return keywordFunction
	}
	return keywords[len(keywords)-2]
}

func (a *Assembler) parseFunctionKeyword(t *ast.Token) ([]tempCodeLine, error) {
	fn, err := a.parseFunction(t)
	if err != nil {
		return nil, err
	}

	result := []tempCodeLine{codeLine(interpreter.OpPush, t.Copy(interpreter.NewFunction(fn)))}

	// named functions in statement position bind themselves
	if fn.HasName && a.enclosingKeyword() == keywordFunction {
		result = append(result, codeLine(interpreter.OpDefine, t.Copy(interpreter.NewString(fn.Name))))
	}
	return result, nil
}

func (a *Assembler) parseFunction(t *ast.Token) (*interpreter.Function, error) {
	if len(t.List) < 2 {
		return nil, a.errorf(t, "Function needs a parameter list")
	}

	name := ""
	offset := 0
	if t.List[1].Kind == ast.Value {
		switch t.List[1].Value.Kind {
		case interpreter.KindVariable, interpreter.KindString:
			name = t.List[1].Value.Str
			offset = 1
		default:
			return nil, a.errorf(t.List[1], "Function name needs to be a symbol or string")
		}
	}

	if len(t.List) < 2+offset {
		return nil, a.errorf(t, "Function %s needs a parameter list", name)
	}

	paramsToken := t.List[1+offset]
	if paramsToken.Kind != ast.List {
		return nil, a.errorf(paramsToken, "Function parameters need to be a list")
	}

	parameters := make([]string, 0, len(paramsToken.List))
	for i, param := range paramsToken.List {
		if param.Kind != ast.Value || (param.Value.Kind != interpreter.KindVariable && param.Value.Kind != interpreter.KindString) {
			return nil, a.errorf(param, "Function parameter needs to be a name")
		}
		if strings.HasPrefix(param.Value.Str, interpreter.UnpackPrefix) && i != len(paramsToken.List)-1 {
			return nil, a.errorf(param, "Variadic parameter %s needs to be last", param.Value.Str)
		}
		parameters = append(parameters, param.Value.Str)
	}

	// loops do not cross function boundaries
	outerLoops := a.loops
	a.loops = stack.NewStack[loopLabels]()
	defer func() { a.loops = outerLoops }()

	var lines []tempCodeLine
	for _, item := range t.List[2+offset:] {
		parsed, err := a.parse(item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, parsed...)
	}

	return a.processTempFunction(parameters, lines, name)
}

func (a *Assembler) parseLoop(t *ast.Token) ([]tempCodeLine, error) {
	if len(t.List) < 3 {
		return nil, a.errorf(t, "Loop input has too few inputs")
	}

	comparison := t.List[1]
	if comparison.Kind != ast.List {
		return nil, a.errorf(comparison, "Loop comparison input needs to be a list")
	}

	n := a.nextLabelNumber()
	labels := loopLabels{
		start: fmt.Sprintf(":LoopStart_%d", n),
		end:   fmt.Sprintf(":LoopEnd_%d", n),
	}

	_ = a.loops.Push(labels)
	defer a.loops.Pop()

	result := []tempCodeLine{labelLine(labels.start, t)}

	cond, err := a.parse(comparison)
	if err != nil {
		return nil, err
	}
	result = append(result, cond...)
	result = append(result, codeLine(interpreter.OpJumpFalse, comparison.Copy(interpreter.NewString(labels.end))))

	for _, item := range t.List[2:] {
		lines, err := a.parse(item)
		if err != nil {
			return nil, err
		}
		result = append(result, lines...)
	}

	result = append(result,
		codeLine(interpreter.OpJump, comparison.Copy(interpreter.NewString(labels.start))),
		labelLine(labels.end, t),
	)
	return result, nil
}

func (a *Assembler) parseLoopJump(t *ast.Token, toStart bool) ([]tempCodeLine, error) {
	labels, err := a.loops.Peek()
	if err != nil {
		return nil, a.errorf(t, "Unexpected keyword outside of loop")
	}

	target := labels.end
	if toStart {
		target = labels.start
	}
	return []tempCodeLine{codeLine(interpreter.OpJump, t.Copy(interpreter.NewString(target)))}, nil
}

func (a *Assembler) parseCond(t *ast.Token, isIf bool) ([]tempCodeLine, error) {
	if len(t.List) < 3 {
		return nil, a.errorf(t, "Condition input has too few inputs")
	}
	if len(t.List) > 4 {
		return nil, a.errorf(t, "Condition input has too many inputs")
	}

	comparison := t.List[1]
	if comparison.Kind != ast.List {
		return nil, a.errorf(comparison, "Condition needs comparison to be a list")
	}

	firstBlock := t.List[2]
	if firstBlock.Kind != ast.List {
		return nil, a.errorf(firstBlock, "Condition needs first block to be a list")
	}

	n := a.nextLabelNumber()
	labelElse := fmt.Sprintf(":CondElse_%d", n)
	labelEnd := fmt.Sprintf(":CondEnd_%d", n)

	jumpOp := interpreter.OpJumpFalse
	if !isIf {
		jumpOp = interpreter.OpJumpTrue
	}

	result, err := a.parse(comparison)
	if err != nil {
		return nil, err
	}

	first, err := a.parseFlatten(firstBlock)
	if err != nil {
		return nil, err
	}

	if len(t.List) == 3 {
		result = append(result, codeLine(jumpOp, comparison.Copy(interpreter.NewString(labelEnd))))
		result = append(result, first...)
		return append(result, labelLine(labelEnd, t)), nil
	}

	secondBlock := t.List[3]
	if secondBlock.Kind != ast.List {
		return nil, a.errorf(secondBlock, "Condition else needs second block to be a list")
	}
	second, err := a.parseFlatten(secondBlock)
	if err != nil {
		return nil, err
	}

	result = append(result, codeLine(jumpOp, comparison.Copy(interpreter.NewString(labelElse))))
	result = append(result, first...)
	result = append(result,
		codeLine(interpreter.OpJump, firstBlock.Copy(interpreter.NewString(labelEnd))),
		labelLine(labelElse, t),
	)
	result = append(result, second...)
	return append(result, labelLine(labelEnd, t)), nil
}

func (a *Assembler) parseDefineSet(t *ast.Token, isDefine bool) ([]tempCodeLine, error) {
	op := interpreter.OpSet
	if isDefine {
		op = interpreter.OpDefine
	}

	if len(t.List) < 3 {
		return nil, a.errorf(t, "%s needs a name and a value", op)
	}

	result, err := a.parse(t.List[len(t.List)-1])
	if err != nil {
		return nil, err
	}

	// several names take several results, last name first
	for i := len(t.List) - 2; i >= 1; i-- {
		target := t.List[i]
		if target.Kind != ast.Value || (target.Value.Kind != interpreter.KindVariable && target.Value.Kind != interpreter.KindString) {
			return nil, a.errorf(target, "%s target needs to be a name", op)
		}
		result = append(result, codeLine(op, target.Copy(interpreter.NewString(target.Value.Str))))
	}
	return result, nil
}

func (a *Assembler) parseJump(t *ast.Token) ([]tempCodeLine, error) {
	if len(t.List) != 2 {
		return nil, a.errorf(t, "Jump needs exactly one target")
	}

	result, err := a.parse(t.List[1])
	if err != nil {
		return nil, err
	}

	if len(result) == 1 && result[0].label == "" && result[0].op == interpreter.OpPush {
		if target := result[0].token; target.Kind == ast.Value && !target.Value.IsUndefined() {
			return []tempCodeLine{codeLine(interpreter.OpJump, target)}, nil
		}
	}

	return append(result, codeLine(interpreter.OpJump, t.ToEmpty())), nil
}

func (a *Assembler) parseReturn(t *ast.Token) ([]tempCodeLine, error) {
	var result []tempCodeLine
	for _, item := range t.List[1:] {
		lines, err := a.parse(item)
		if err != nil {
			return nil, err
		}
		result = append(result, lines...)
	}
	return append(result, codeLine(interpreter.OpCallReturn, t.ToEmpty())), nil
}

// parseOperator folds operands left to right, embedding numeric literals in the opcode
func (a *Assembler) parseOperator(op interpreter.Opcode, t *ast.Token) ([]tempCodeLine, error) {
	if len(t.List) < 3 {
		return nil, a.errorf(t, "Operator %s expects at least 2 inputs", op)
	}

	result, err := a.parse(t.List[1])
	if err != nil {
		return nil, err
	}

	for _, item := range t.List[2:] {
		if item.Kind == ast.Value && item.Value.IsNumber() {
			result = append(result, codeLine(op, item))
			continue
		}

		lines, err := a.parse(item)
		if err != nil {
			return nil, err
		}
		result = append(result, lines...)
		result = append(result, codeLine(op, t.ToEmpty()))
	}
	return result, nil
}

func (a *Assembler) parseNegative(t *ast.Token) ([]tempCodeLine, error) {
	switch {
	case len(t.List) >= 3:
		return a.parseOperator(interpreter.OpSub, t)

	case len(t.List) == 2:
		operand := t.List[1]
		if operand.Kind == ast.Value && operand.Value.IsNumber() {
			return []tempCodeLine{codeLine(interpreter.OpPush, operand.Copy(interpreter.NewNumber(-operand.Value.Number)))}, nil
		}

		result, err := a.parse(operand)
		if err != nil {
			return nil, err
		}
		return append(result, codeLine(interpreter.OpUnaryNegative, operand.ToEmpty())), nil
	}

	return nil, a.errorf(t, "Negative/Sub operator expects 1 or more inputs")
}

// parseOnePushInput applies op to each operand, leaving one result per operand
func (a *Assembler) parseOnePushInput(op interpreter.Opcode, t *ast.Token) ([]tempCodeLine, error) {
	if len(t.List) < 2 {
		return nil, a.errorf(t, "Operator %s expects at least 1 input", op)
	}

	var result []tempCodeLine
	for _, item := range t.List[1:] {
		lines, err := a.parse(item)
		if err != nil {
			return nil, err
		}
		result = append(result, lines...)
		result = append(result, codeLine(op, item.ToEmpty()))
	}
	return result, nil
}

func (a *Assembler) parseOneVariableUpdate(op interpreter.Opcode, t *ast.Token) ([]tempCodeLine, error) {
	if len(t.List) < 2 {
		return nil, a.errorf(t, "Operator %s expects at least 1 input", op)
	}

	result := make([]tempCodeLine, 0, len(t.List)-1)
	for _, item := range t.List[1:] {
		name, ok := item.Symbol()
		if !ok {
			return nil, a.errorf(item, "Operator %s needs a variable name", op)
		}
		result = append(result, codeLine(op, item.Copy(interpreter.NewString(name))))
	}
	return result, nil
}

func (a *Assembler) parseStringConcat(t *ast.Token) ([]tempCodeLine, error) {
	var result []tempCodeLine
	for _, item := range t.List[1:] {
		lines, err := a.parse(item)
		if err != nil {
			return nil, err
		}
		result = append(result, lines...)
	}
	return append(result, codeLine(interpreter.OpStringConcat, t.Copy(interpreter.NewNumber(float64(len(t.List)-1))))), nil
}

// transformAssignmentOperator rewrites (op= x rest...) as (set x (op x rest...))
func (a *Assembler) transformAssignmentOperator(t *ast.Token) ([]tempCodeLine, error) {
	if len(t.List) < 3 {
		return nil, a.errorf(t, "Assignment operator expects a variable and a value")
	}

	keyword, _ := t.List[0].Symbol()
	op := strings.TrimSuffix(keyword, "=")

	target := t.List[1]
	name, ok := target.Symbol()
	if !ok {
		return nil, a.errorf(target, "Assignment operator needs a variable name")
	}

	operation := make([]*ast.Token, len(t.List))
	copy(operation, t.List)
	operation[0] = t.List[0].Copy(interpreter.NewVariable(op))

	wrapped := ast.NewList(t.Location, []*ast.Token{
		t.Copy(interpreter.NewVariable(keywordSet)),
		target.Copy(interpreter.NewVariable(name)),
		ast.NewList(t.Location, operation),
	})
	return a.parse(wrapped)
}
