package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"lysithea/pkg/stack"
)

const (
	DefaultStackSize     = 64
	DefaultCallStackSize = 64
)

// VirtualMachine executes compiled functions one instruction at a time.
type VirtualMachine struct {
	id uuid.UUID

	stack     *stack.Stack[Value] // operand stack (fixed capacity)
	callStack *stack.Stack[Frame] // call frames (fixed capacity)

	stackSize     int
	callStackSize int

	builtins *Scope // read-only scope consulted after the lexical chain
	globals  *Scope // scope of the running script
	scope    *Scope // innermost scope

	entry    *Function // entry function of the loaded script
	function *Function // function being executed
	pc       int       // index of the next instruction in function.Code

	running bool
	paused  bool
	debug   bool

	out io.Writer // output writer for print

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed
}

type Option func(*VirtualMachine)

// WithStackSize sets the operand stack capacity. Non-positive sizes keep the default.
func WithStackSize(n int) Option {
	return func(i *VirtualMachine) { i.stackSize = n }
}

// WithCallStackSize sets the call stack capacity. Non-positive sizes keep the default.
func WithCallStackSize(n int) Option {
	return func(i *VirtualMachine) { i.callStackSize = n }
}

// WithWriter sets the output writer used by host print functions
func WithWriter(w io.Writer) Option {
	return func(i *VirtualMachine) { i.out = w }
}

// WithMaxSteps sets a maximum number of steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *VirtualMachine) { i.maxSteps = n }
}

// WithBuiltinScope sets a read-only scope consulted when a name is not found lexically.
// The same scope may be shared by several virtual machines.
func WithBuiltinScope(s *Scope) Option {
	return func(i *VirtualMachine) { i.builtins = s }
}

// WithDebug logs every executed instruction at debug level
func WithDebug(debug bool) Option {
	return func(i *VirtualMachine) { i.debug = debug }
}

// NewVirtualMachine creates a new VirtualMachine instance
func NewVirtualMachine(opts ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		id:            uuid.New(),
		stackSize:     DefaultStackSize,
		callStackSize: DefaultCallStackSize,
		out:           nil, // caller should set, or use WithWriter
		maxSteps:      0,   // 0 => unlimited
	}

	for _, o := range opts {
		o(vm)
	}

	if vm.out == nil {
		vm.out = os.Stdout
	}

	if vm.stackSize <= 0 {
		vm.stackSize = DefaultStackSize
	}
	if vm.callStackSize <= 0 {
		vm.callStackSize = DefaultCallStackSize
	}

	vm.stack = stack.NewFixed[Value](vm.stackSize)
	vm.callStack = stack.NewFixed[Frame](vm.callStackSize)

	return vm
}

// ID identifies this machine in logs
func (i *VirtualMachine) ID() uuid.UUID {
	return i.id
}

// Reset clears runtime state (stacks, PC, counters) and rewinds to the start of the loaded script
func (i *VirtualMachine) Reset() {
	i.function = i.entry
	i.pc = 0
	i.stack.Clear()
	i.callStack.Clear()
	i.scope = i.globals
	i.running = false
	i.paused = false
	i.steps = 0
}

// ChangeToScript loads script and prepares to run it from the first instruction
func (i *VirtualMachine) ChangeToScript(script *Script) {
	i.globals = script.Scope
	if i.globals == nil {
		i.globals = NewScope(nil)
	}
	i.entry = script.Code
	i.Reset()
	i.running = true
}

// Execute loads script and runs it until it halts, pauses or fails
func (i *VirtualMachine) Execute(script *Script) error {
	i.ChangeToScript(script)
	return i.Run()
}

// Run executes until halt, pause or error
func (i *VirtualMachine) Run() error {
	if i.function == nil {
		return ErrNoScript
	}

	log.Debug("Running", "vm", i.id, "function", i.function.Name, "pc", i.pc)

	i.running = true
	i.paused = false
	for i.running && !i.paused {
		if _, err := i.Step(); err != nil {
			return err
		}
	}

	log.Debug("Stopped", "vm", i.id, "steps", i.steps, "paused", i.paused, "stack", i.stack.Size())
	return nil
}

// Step executes a single instruction and reports whether execution should continue
func (i *VirtualMachine) Step() (bool, error) {
	if i.function == nil {
		return false, ErrNoScript
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		i.running = false
		return false, ErrMaxStepsExceeded
	}

	if i.pc >= len(i.function.Code) {
		// falling off the end of a function body returns to the caller
		if i.callStack.Size() > 0 {
			i.steps++
			return true, i.callReturn()
		}

		i.running = false
		return false, nil
	}

	fn, pc := i.function, i.pc
	in := fn.Code[pc]
	i.pc++

	if i.debug {
		log.Debug("Step", "vm", i.id, "function", fn.Name, "pc", pc, "op", in.Op, "arg", in.Arg, "stack", i.stack.Size())
	}

	err := coreStep(i, in)
	i.steps++
	if err != nil {
		i.running = false
		return false, i.runtimeError(err, fn, pc)
	}

	return i.running, nil
}

// Stop halts execution after the current instruction
func (i *VirtualMachine) Stop() {
	i.running = false
}

// Pause stops Run at the next instruction boundary; Run resumes
func (i *VirtualMachine) Pause() {
	i.paused = true
}

// Running reports whether the machine has not yet halted
func (i *VirtualMachine) Running() bool {
	return i.running
}

// Paused reports whether Pause was called since the last Run
func (i *VirtualMachine) Paused() bool {
	return i.paused
}

// PC returns the index of the next instruction in the current function
func (i *VirtualMachine) PC() int {
	return i.pc
}

// Steps returns the number of instructions executed since the last reset
func (i *VirtualMachine) Steps() int {
	return i.steps
}

// CurrentFunction returns the function being executed
func (i *VirtualMachine) CurrentFunction() *Function {
	return i.function
}

// CurrentScope returns the innermost scope
func (i *VirtualMachine) CurrentScope() *Scope {
	return i.scope
}

// GlobalScope returns the scope of the loaded script
func (i *VirtualMachine) GlobalScope() *Scope {
	return i.globals
}

// BuiltinScope returns the shared builtin scope, if any
func (i *VirtualMachine) BuiltinScope() *Scope {
	return i.builtins
}

// Output returns the output writer used for print
func (i *VirtualMachine) Output() io.Writer {
	return i.out
}

// PushOperand pushes v onto the operand stack
func (i *VirtualMachine) PushOperand(v Value) error {
	return i.stack.Push(v)
}

// PopOperand removes and returns the top of the operand stack
func (i *VirtualMachine) PopOperand() (Value, error) {
	return i.stack.Pop()
}

// PeekOperand returns the top of the operand stack without removing it
func (i *VirtualMachine) PeekOperand() (Value, error) {
	return i.stack.Peek()
}

// OperandCount returns the number of values on the operand stack
func (i *VirtualMachine) OperandCount() int {
	return i.stack.Size()
}

// Operands returns the operand stack, bottom first
func (i *VirtualMachine) Operands() []Value {
	return i.stack.Array()
}

// CallDepth returns the number of active call frames
func (i *VirtualMachine) CallDepth() int {
	return i.callStack.Size()
}

// StackTrace describes the current instruction followed by each caller
func (i *VirtualMachine) StackTrace() []string {
	if i.function == nil {
		return nil
	}

	trace := []string{i.function.Describe(max(i.pc-1, 0))}
	frames := i.callStack.Array()
	for idx := len(frames) - 1; idx >= 0; idx-- {
		f := frames[idx]
		if f.Function == nil {
			continue
		}
		trace = append(trace, f.Function.Describe(max(f.ReturnPC-1, 0)))
	}
	return trace
}

// runtimeError attaches the debug symbol of the failing instruction to err
func (i *VirtualMachine) runtimeError(err error, fn *Function, pc int) error {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return err
	}

	rtErr = &RuntimeError{
		Err:   err,
		Trace: i.StackTrace(),
	}
	if fn.Debug != nil {
		rtErr.SourceName = fn.Debug.SourceName
		if pos, ok := fn.Debug.Location(pc); ok {
			rtErr.Location = pos
			rtErr.SourceLine = fn.Debug.Line(pos.Line)
		}
	}
	return rtErr
}

// lookup resolves name through the scope chain and then the builtin scope
func (i *VirtualMachine) lookup(name string) (Value, error) {
	if v, ok := i.scope.TryGet(name); ok {
		return v, nil
	}
	if i.builtins != nil {
		if v, ok := i.builtins.TryGet(name); ok {
			return v, nil
		}
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
}
