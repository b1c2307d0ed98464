package runner

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"lysithea/pkg/color"
	"lysithea/pkg/interpreter"
)

// Disassemble prints fn and every function nested in its instructions.
func Disassemble(w io.Writer, fn *interpreter.Function) {
	seen := map[*interpreter.Function]bool{}
	queue := []*interpreter.Function{fn}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true

		disassembleFunction(w, next)
		for _, in := range next.Code {
			queue = append(queue, nestedFunctions(in.Arg)...)
		}
	}
}

func disassembleFunction(w io.Writer, fn *interpreter.Function) {
	fmt.Fprintf(w, "%s %s", color.MagentaText("function"), fn.Name)
	if len(fn.Parameters) > 0 {
		fmt.Fprintf(w, " %v", fn.Parameters)
	}
	fmt.Fprintln(w)

	labels := make(map[int][]string, len(fn.Labels))
	for _, name := range slices.Sorted(maps.Keys(fn.Labels)) {
		pc := fn.Labels[name]
		labels[pc] = append(labels[pc], name)
	}

	for pc, in := range fn.Code {
		for _, label := range labels[pc] {
			fmt.Fprintln(w, color.BlueText(label))
		}

		line := fmt.Sprintf("  %s  %s", color.CyanText(fmt.Sprintf("%04d", pc)), color.YellowText(string(in.Op)))
		if !in.Arg.IsUndefined() {
			line += " " + in.Arg.String()
		}
		if pos, ok := fn.Debug.Location(pc); ok {
			line += color.GrayText(fmt.Sprintf("  ; %s", pos))
		}
		fmt.Fprintln(w, line)
	}

	// labels past the last instruction
	for _, label := range labels[len(fn.Code)] {
		fmt.Fprintln(w, color.BlueText(label))
	}
}

func nestedFunctions(v interpreter.Value) []*interpreter.Function {
	switch v.Kind {
	case interpreter.KindFunction:
		return []*interpreter.Function{v.Function}
	case interpreter.KindArray:
		var fns []*interpreter.Function
		for _, item := range v.Array.Items {
			fns = append(fns, nestedFunctions(item)...)
		}
		return fns
	}
	return nil
}
