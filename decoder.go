package biplan

// Addr is an opaque position into a byte-coded program, stable across the
// program's lifetime and usable for jump-and-resume (spec §3 glossary).
type Addr uint32

// Decoder is the consumed interface over a positioned cursor on the
// byte-coded program stream (spec §4.A). The engine never produces or
// validates the stream itself; a Decoder is handed to Initialize already
// positioned at the start of a program.
//
// The contract around literal payloads: Advance consumes the current
// opcode's entire on-stream footprint, including any payload bytes (the one
// id byte following ADDRESS/S_ADDRESS/FUNCTION, the ASCII digits following
// NUMBER, the delimited bytes following STRING). After Advance moves past
// such an opcode, PrevByte reports the payload byte just consumed, letting
// the executor recover an id without a second decode pass.
type Decoder interface {
	// Peek returns the opcode at the current position without advancing.
	Peek() Op

	// Advance moves past the current opcode and any payload bytes it owns.
	Advance()

	// Position returns the current cursor position.
	Position() Addr

	// Goto repositions the cursor to addr.
	Goto(addr Addr)

	// Finished reports whether the stream is exhausted.
	Finished() bool

	// PrevByte returns the single payload byte most recently consumed by
	// Advance, for an ADDRESS/S_ADDRESS/FUNCTION opcode.
	PrevByte() byte

	// ExtractNumber decodes the ASCII decimal integer literal starting at
	// addr, stopping at the first non-digit byte.
	ExtractNumber(addr Addr) Cell

	// ExtractString copies the STRING literal at the current position into
	// out, null-terminated, truncated to len(out). It does not advance the
	// cursor; pair it with Advance to move past the literal.
	ExtractString(out []byte) int
}
