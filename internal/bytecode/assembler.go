package bytecode

import "github.com/gioscarab/biplan"

// Assembler builds a byte-coded program one opcode at a time, matching
// Stream's encoding exactly. It stands in for the upstream tokenizer spec §1
// assumes exists, used by this module's own tests. Grounded on the teacher's thirdSource line-by-line
// program construction (third.go), adapted from emitting FORTH words to
// emitting opcode bytes directly, since BIPLAN has no textual front end in
// scope.
type Assembler struct {
	buf []byte
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler { return &Assembler{} }

// Bytes finalizes the program, appending a trailing ENDOFINPUT.
func (a *Assembler) Bytes() []byte {
	out := make([]byte, len(a.buf)+1)
	copy(out, a.buf)
	out[len(a.buf)] = byte(biplan.ENDOFINPUT)
	return out
}

// Stream finalizes the program and wraps it in a Stream decoder.
func (a *Assembler) Stream() *Stream { return NewStream(a.Bytes()) }

func (a *Assembler) op(o biplan.Op) *Assembler {
	a.buf = append(a.buf, byte(o))
	return a
}

func (a *Assembler) id(o biplan.Op, id uint8) *Assembler {
	a.buf = append(a.buf, byte(o), id+biplan.AddressOffset)
	return a
}

// Number emits a NUMBER literal. n must be non-negative: BIPLAN has no
// signed-literal encoding, only a MINUS operator applied at the expression
// level.
func (a *Assembler) Number(n int) *Assembler {
	a.op(biplan.NUMBER)
	if n == 0 {
		a.buf = append(a.buf, '0')
		return a
	}
	start := len(a.buf)
	for n > 0 {
		a.buf = append(a.buf, byte('0'+n%10))
		n /= 10
	}
	for l, r := start, len(a.buf)-1; l < r; l, r = l+1, r-1 {
		a.buf[l], a.buf[r] = a.buf[r], a.buf[l]
	}
	return a
}

// String emits a STRING literal. s must be at most 255 bytes, matching
// Stream's one-byte length prefix.
func (a *Assembler) String(s string) *Assembler {
	a.buf = append(a.buf, byte(biplan.STRING), byte(len(s)))
	a.buf = append(a.buf, s...)
	return a
}

func (a *Assembler) Address(id uint8) *Assembler  { return a.id(biplan.ADDRESS, id) }
func (a *Assembler) SAddress(id uint8) *Assembler { return a.id(biplan.S_ADDRESS, id) }
func (a *Assembler) Function(id uint8) *Assembler { return a.id(biplan.FUNCTION, id) }
func (a *Assembler) FunDef(id uint8) *Assembler   { return a.id(biplan.FUN_DEF, id) }

func (a *Assembler) CR() *Assembler        { return a.op(biplan.CR) }
func (a *Assembler) Semicolon() *Assembler { return a.op(biplan.SEMICOLON) }
func (a *Assembler) Char() *Assembler      { return a.op(biplan.CHAR) }

func (a *Assembler) VarAccess() *Assembler { return a.op(biplan.VAR_ACCESS) }
func (a *Assembler) StrAccess() *Assembler { return a.op(biplan.STR_ACCESS) }
func (a *Assembler) Access() *Assembler    { return a.op(biplan.ACCESS) }
func (a *Assembler) AccessEnd() *Assembler { return a.op(biplan.ACCESS_END) }

func (a *Assembler) Increment() *Assembler  { return a.op(biplan.INCREMENT) }
func (a *Assembler) Decrement() *Assembler  { return a.op(biplan.DECREMENT) }
func (a *Assembler) Plus() *Assembler       { return a.op(biplan.PLUS) }
func (a *Assembler) Minus() *Assembler      { return a.op(biplan.MINUS) }
func (a *Assembler) Mult() *Assembler       { return a.op(biplan.MULT) }
func (a *Assembler) Div() *Assembler        { return a.op(biplan.DIV) }
func (a *Assembler) Mod() *Assembler        { return a.op(biplan.MOD) }
func (a *Assembler) And() *Assembler        { return a.op(biplan.AND) }
func (a *Assembler) Or() *Assembler         { return a.op(biplan.OR) }
func (a *Assembler) Xor() *Assembler        { return a.op(biplan.XOR) }
func (a *Assembler) LShift() *Assembler     { return a.op(biplan.L_SHIFT) }
func (a *Assembler) RShift() *Assembler     { return a.op(biplan.R_SHIFT) }
func (a *Assembler) Not() *Assembler        { return a.op(biplan.BITWISE_NOT) }
func (a *Assembler) Eq() *Assembler         { return a.op(biplan.EQ) }
func (a *Assembler) NotEq() *Assembler      { return a.op(biplan.NOT_EQ) }
func (a *Assembler) Lt() *Assembler         { return a.op(biplan.LT) }
func (a *Assembler) Gt() *Assembler         { return a.op(biplan.GT) }
func (a *Assembler) LtOrEq() *Assembler     { return a.op(biplan.LTOEQ) }
func (a *Assembler) GtOrEq() *Assembler     { return a.op(biplan.GTOEQ) }
func (a *Assembler) LogicAnd() *Assembler   { return a.op(biplan.LOGIC_AND) }
func (a *Assembler) LogicOr() *Assembler    { return a.op(biplan.LOGIC_OR) }

func (a *Assembler) LParen() *Assembler { return a.op(biplan.L_RPARENT) }
func (a *Assembler) RParen() *Assembler { return a.op(biplan.R_RPARENT) }
func (a *Assembler) Comma() *Assembler  { return a.op(biplan.COMMA) }

func (a *Assembler) If() *Assembler       { return a.op(biplan.IF) }
func (a *Assembler) Else() *Assembler     { return a.op(biplan.ELSE) }
func (a *Assembler) EndIf() *Assembler    { return a.op(biplan.ENDIF) }
func (a *Assembler) For() *Assembler      { return a.op(biplan.FOR) }
func (a *Assembler) Next() *Assembler     { return a.op(biplan.NEXT) }
func (a *Assembler) While() *Assembler    { return a.op(biplan.WHILE) }
func (a *Assembler) Redo() *Assembler     { return a.op(biplan.REDO) }
func (a *Assembler) Break() *Assembler    { return a.op(biplan.BREAK) }
func (a *Assembler) Continue() *Assembler { return a.op(biplan.CONTINUE) }
func (a *Assembler) Return() *Assembler   { return a.op(biplan.RETURN) }
func (a *Assembler) Print() *Assembler    { return a.op(biplan.PRINT) }
func (a *Assembler) End() *Assembler      { return a.op(biplan.END) }
func (a *Assembler) Restart() *Assembler  { return a.op(biplan.RESTART) }

func (a *Assembler) Dwrite() *Assembler   { return a.op(biplan.DWRITE) }
func (a *Assembler) Dread() *Assembler    { return a.op(biplan.DREAD) }
func (a *Assembler) Pinmode() *Assembler  { return a.op(biplan.PINMODE) }
func (a *Assembler) Aget() *Assembler     { return a.op(biplan.AGET) }
func (a *Assembler) Delay() *Assembler    { return a.op(biplan.DELAY) }
func (a *Assembler) Millis() *Assembler   { return a.op(biplan.MILLIS) }
func (a *Assembler) Rnd() *Assembler      { return a.op(biplan.RND) }
func (a *Assembler) Sqrt() *Assembler     { return a.op(biplan.SQRT) }
func (a *Assembler) Sizeof() *Assembler   { return a.op(biplan.SIZEOF) }
func (a *Assembler) Stoi() *Assembler     { return a.op(biplan.STOI) }
func (a *Assembler) SerialTx() *Assembler { return a.op(biplan.SERIAL_TX) }
func (a *Assembler) SerialRx() *Assembler { return a.op(biplan.SERIAL_RX) }
func (a *Assembler) SerialAv() *Assembler { return a.op(biplan.SERIAL_AV) }
func (a *Assembler) Input() *Assembler    { return a.op(biplan.INPUT) }
func (a *Assembler) InputAv() *Assembler  { return a.op(biplan.INPUT_AV) }
