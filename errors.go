package biplan

import "fmt"

// ErrorKind names a fatal interpreter condition (spec §4.H). The zero value
// is never reported; it exists only so a zeroed ErrorFunc call site is
// obviously a bug.
type ErrorKind string

// The complete set of error kinds the core reports (spec §4.H).
const (
	ErrSymbol       ErrorKind = "SYMBOL"
	ErrVariableGet  ErrorKind = "VARIABLE_GET"
	ErrVariableSet  ErrorKind = "VARIABLE_SET"
	ErrFunctionCall ErrorKind = "FUNCTION_CALL"
	ErrFunctionEnd  ErrorKind = "FUNCTION_END"
	ErrParameters   ErrorKind = "PARAMETERS"
	ErrReturn       ErrorKind = "RETURN"
	ErrBlock        ErrorKind = "BLOCK"
	ErrStatement    ErrorKind = "STATEMENT"
	ErrCycleMax     ErrorKind = "CYCLE_MAX"
	ErrCycleNext    ErrorKind = "CYCLE_NEXT"
	ErrWhileMax     ErrorKind = "WHILE_MAX"
	ErrRedo         ErrorKind = "REDO"
)

// ErrorFunc is the error callback signature of spec §6: invoked at most once
// per execution, with the stream position of the offending opcode and a
// stable kind tag. The engine does not format a message; display is the
// embedder's job.
type ErrorFunc func(pos Addr, kind ErrorKind)

// haltSignal is panicked by Interpreter.fatal once the error callback has
// already run, to unwind straight back to Run without executing any more of
// the current (or any future) statement. It carries no payload: by the time
// it is panicked, the embedder has already been told everything it needs to
// know through the ErrorFunc call.
type haltSignal struct{}

// fatal reports kind at the decoder's current position through the error
// callback, marks the interpreter Ended, and unwinds to Run via haltSignal.
// This is the sole place spec §4.H's error(position, kind) is implemented;
// every other fatal condition in the engine calls through here.
func (ip *Interpreter) fatal(kind ErrorKind) {
	ip.fatalAt(ip.dec.Position(), kind)
}

func (ip *Interpreter) fatalAt(pos Addr, kind ErrorKind) {
	if ip.Ended {
		panic(haltSignal{})
	}
	ip.Ended = true
	if ip.onError != nil {
		ip.onError(pos, kind)
	}
	panic(haltSignal{})
}

// unexpectedPanicError wraps a panic value that was not a haltSignal,
// surfaced to the embedder by internal/panicerr when driving Run from
// cmd/biplan. The engine itself never raises one on purpose; seeing this
// error means a Host or Decoder implementation misbehaved (e.g. panicked out
// of a callback) rather than the program itself hitting a reported error.
type unexpectedPanicError struct {
	value interface{}
}

func (e unexpectedPanicError) Error() string {
	return fmt.Sprintf("biplan: unexpected panic: %v", e.value)
}
