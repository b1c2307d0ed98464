package interpreter

// Frame saves the caller state while a user-defined function runs.
type Frame struct {
	ReturnPC int       // instruction to resume at in the caller
	Function *Function // caller function
	Scope    *Scope    // caller scope
}
