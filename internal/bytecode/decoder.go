// Package bytecode provides a concrete Decoder over a flat, pre-tokenized
// byte slice: the one piece spec §1 explicitly calls "assumed to exist" and
// leaves external. Grounded on the teacher's own load/scan cursor discipline
// (gothird's vm.load/vm.loadProg/vm.scan in internals.go), adapted from a
// growable word-oriented memory onto a flat, fixed byte stream, since
// BIPLAN's Decoder walks pre-tokenized opcodes rather than FIRST source text.
package bytecode

import "github.com/gioscarab/biplan"

// Stream is a Decoder over an in-memory byte slice. The encoding it reads
// (and Assembler writes) is this package's own concrete choice, since
// spec §6 leaves "delimiter convention" to the decoder:
//
//   - ADDRESS / S_ADDRESS / FUNCTION / FUN_DEF: opcode byte, then one id byte
//     biased by biplan.AddressOffset.
//   - NUMBER: opcode byte, then a run of ASCII digit bytes (no sign; BIPLAN
//     has a MINUS operator for negation, so literals never need one).
//   - STRING: opcode byte, then one length byte, then that many raw bytes.
//   - every other opcode: the tag byte alone.
type Stream struct {
	buf  []byte
	pos  int
	prev byte
}

// NewStream wraps buf for decoding. buf is not copied; the caller must not
// mutate it while a Stream is in use.
func NewStream(buf []byte) *Stream {
	return &Stream{buf: buf}
}

func (s *Stream) Peek() biplan.Op {
	if s.pos >= len(s.buf) {
		return biplan.ENDOFINPUT
	}
	return biplan.Op(s.buf[s.pos])
}

func (s *Stream) Advance() {
	if s.pos >= len(s.buf) {
		return
	}
	op := biplan.Op(s.buf[s.pos])
	s.pos++
	switch op {
	case biplan.ADDRESS, biplan.S_ADDRESS, biplan.FUNCTION, biplan.FUN_DEF:
		if s.pos < len(s.buf) {
			s.prev = s.buf[s.pos]
			s.pos++
		}
	case biplan.NUMBER:
		for s.pos < len(s.buf) && isDigit(s.buf[s.pos]) {
			s.pos++
		}
	case biplan.STRING:
		if s.pos < len(s.buf) {
			n := int(s.buf[s.pos])
			s.pos++
			s.pos += n
			if s.pos > len(s.buf) {
				s.pos = len(s.buf)
			}
		}
	}
}

func (s *Stream) Position() biplan.Addr { return biplan.Addr(s.pos) }

func (s *Stream) Goto(addr biplan.Addr) { s.pos = int(addr) }

func (s *Stream) Finished() bool {
	return s.pos >= len(s.buf) || biplan.Op(s.buf[s.pos]) == biplan.ENDOFINPUT
}

func (s *Stream) PrevByte() byte { return s.prev }

// ExtractNumber decodes the ASCII digit run following the NUMBER opcode at
// addr. addr must point at the opcode tag itself, not past it, mirroring
// how ExtractString always reads from the decoder's own current position.
func (s *Stream) ExtractNumber(addr biplan.Addr) biplan.Cell {
	i := int(addr)
	if i >= len(s.buf) || biplan.Op(s.buf[i]) != biplan.NUMBER {
		return 0
	}
	i++
	var v int64
	for i < len(s.buf) && isDigit(s.buf[i]) {
		v = v*10 + int64(s.buf[i]-'0')
		i++
	}
	return biplan.Cell(v)
}

// ExtractString copies the STRING literal at the decoder's current position
// into out, NUL-terminated and truncated to len(out), and reports how many
// payload bytes were copied (excluding the terminator). It does not advance
// the decoder; callers call Advance afterward to skip the literal.
func (s *Stream) ExtractString(out []byte) int {
	if len(out) == 0 {
		return 0
	}
	i := s.pos
	if i >= len(s.buf) || biplan.Op(s.buf[i]) != biplan.STRING {
		out[0] = 0
		return 0
	}
	i++
	if i >= len(s.buf) {
		out[0] = 0
		return 0
	}
	n := int(s.buf[i])
	i++

	count := n
	if count > len(out)-1 {
		count = len(out) - 1
	}
	copy(out, s.buf[i:i+count])
	for j := count; j < len(out); j++ {
		out[j] = 0
	}
	return count
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
