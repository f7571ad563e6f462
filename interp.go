package biplan

// Interpreter is the engine of spec §2 components C–H: the state store plus
// the evaluator, executor, control flow, and function machinery that walk a
// Decoder and call out to a Host. The zero value is not ready to run;
// construct one with New.
type Interpreter struct {
	State

	dec  Decoder
	host Host

	onError ErrorFunc
	logfn   func(mess string, args ...interface{})
	logDent string

	// retval carries a function call's return value from returnCall back up
	// to the functionCall frame that is waiting on it.
	retval Cell
}

// Option configures an Interpreter at construction time, following the
// teacher's VMOption/apply pattern.
type Option interface{ apply(ip *Interpreter) }

type optionFunc func(ip *Interpreter)

func (f optionFunc) apply(ip *Interpreter) { f(ip) }

// WithHost binds the side-effecting Host an Interpreter calls out to.
func WithHost(host Host) Option {
	return optionFunc(func(ip *Interpreter) { ip.host = host })
}

// WithErrorFunc binds the fatal-error callback (spec §4.H, §6).
func WithErrorFunc(fn ErrorFunc) Option {
	return optionFunc(func(ip *Interpreter) { ip.onError = fn })
}

// WithLogf enables trace logging of statement dispatch and user-function
// calls, mirroring the teacher's WithLogf/logfn idiom.
func WithLogf(logf func(mess string, args ...interface{})) Option {
	return optionFunc(func(ip *Interpreter) { ip.logfn = logf })
}

// New constructs an Interpreter ready for Initialize.
func New(opts ...Option) *Interpreter {
	ip := &Interpreter{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(ip)
		}
	}
	return ip
}

// Initialize binds program as the Decoder this Interpreter walks, indexes
// every function definition in the stream once (spec §4.C), and records the
// program's start address for RestartCall. It is the Go analog of spec §6's
// initialize(program, on_error, print_sink, input_source, serial_handle):
// print_sink/input_source/serial_handle are already unified into the bound
// Host, since spec §4.B's Host interface is itself their superset.
func (ip *Interpreter) Initialize(program Decoder, host Host, onError ErrorFunc) {
	ip.dec = program
	ip.host = host
	ip.onError = onError

	ip.State = State{}
	ip.programStart = program.Position()
	ip.indexFunctionDefinitions()
}

// Finished reports whether the Interpreter has halted on an error, reached
// END, or run the decoder to the end of the stream (spec §6).
func (ip *Interpreter) Finished() bool {
	return ip.Ended || ip.dec.Finished()
}

// Run executes at most one statement; a no-op once Finished. The embedder
// calls Run in a loop (spec §5 "Scheduling"). Any fatal condition inside the
// statement reports through the bound ErrorFunc exactly once and sets Ended
// before Run returns; an unrelated panic from a misbehaving Host or Decoder
// is not swallowed here — see RunProtected for a recovering variant.
func (ip *Interpreter) Run() {
	if ip.Finished() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(haltSignal); ok {
				return
			}
			panic(r)
		}
	}()
	ip.statement()
}

// RunProtected calls Run, additionally recovering any panic that escapes it
// (a misbehaving Host or Decoder, not a reported fatal condition, which Run
// already turns into a quiet return) into an error. cmd/biplan wraps its
// whole run loop in this rather than Run directly, so one bad Host call
// can't take the process down with an unformatted stack trace.
func (ip *Interpreter) RunProtected() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = unexpectedPanicError{value: r}
		}
	}()
	ip.Run()
	return nil
}

// RestartCall resets execution state and repositions the decoder at the
// program's start address (spec §4 RESTART opcode, §6 restart_call).
func (ip *Interpreter) RestartCall() {
	ip.cycleID = 0
	ip.funID = 0
	ip.Ended = false
	ip.dec.Goto(ip.programStart)
}

// endCall implements the END statement: expects the opcode, then sets Ended
// without reporting through the error callback (a normal, non-error halt).
func (ip *Interpreter) endCall() {
	ip.expect(END)
	ip.Ended = true
}

func (ip *Interpreter) logf(mess string, args ...interface{}) {
	if ip.logfn != nil {
		ip.logfn(ip.logDent+mess, args...)
	}
}

func (ip *Interpreter) withLogIndent() func() {
	prior := ip.logDent
	ip.logDent = prior + "  "
	return func() { ip.logDent = prior }
}

// expect consumes op if it is the current opcode, otherwise reports
// ErrSymbol (spec §4's "expect" helper, ubiquitous in the original).
func (ip *Interpreter) expect(op Op) {
	if ip.dec.Peek() != op {
		ip.fatal(ErrSymbol)
	}
	ip.dec.Advance()
}

// ignore consumes op if it is the current opcode, and reports whether it did.
func (ip *Interpreter) ignore(op Op) bool {
	if ip.dec.Peek() == op {
		ip.dec.Advance()
		return true
	}
	return false
}

// payloadID reads the single id byte consumed by the most recent Advance
// past an ADDRESS/S_ADDRESS/FUNCTION opcode, undoing AddressOffset.
func (ip *Interpreter) payloadID() uint8 {
	return ip.dec.PrevByte() - AddressOffset
}
