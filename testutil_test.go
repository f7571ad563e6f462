package biplan

import "bytes"

// fakeOp is one pre-decoded program step: white-box tests build a program
// as a slice of these directly, the same way the teacher's own VM tests
// poke raw stack/memory values rather than going through a real decoder.
type fakeOp struct {
	op  Op
	num Cell
	str string
}

func op(o Op) fakeOp         { return fakeOp{op: o} }
func num(n int) fakeOp       { return fakeOp{op: NUMBER, num: Cell(n)} }
func strLit(s string) fakeOp { return fakeOp{op: STRING, str: s} }
func addrOp(id uint8) fakeOp { return fakeOp{op: ADDRESS, num: Cell(id)} }
func saddrOp(id uint8) fakeOp { return fakeOp{op: S_ADDRESS, num: Cell(id)} }
func fnOp(id uint8) fakeOp   { return fakeOp{op: FUNCTION, num: Cell(id)} }
func defOp(id uint8) fakeOp  { return fakeOp{op: FUN_DEF, num: Cell(id)} }

// fakeDecoder is a minimal in-memory Decoder over a fakeOp slice.
type fakeDecoder struct {
	ops  []fakeOp
	pos  int
	prev byte
}

func program(items ...fakeOp) *fakeDecoder { return &fakeDecoder{ops: items} }

func (d *fakeDecoder) Peek() Op {
	if d.pos < 0 || d.pos >= len(d.ops) {
		return ENDOFINPUT
	}
	return d.ops[d.pos].op
}

func (d *fakeDecoder) Advance() {
	if d.pos >= len(d.ops) {
		return
	}
	o := d.ops[d.pos]
	d.pos++
	switch o.op {
	case ADDRESS, S_ADDRESS, FUNCTION, FUN_DEF:
		d.prev = byte(o.num) + AddressOffset
	}
}

func (d *fakeDecoder) Position() Addr { return Addr(d.pos) }
func (d *fakeDecoder) Goto(addr Addr) { d.pos = int(addr) }

func (d *fakeDecoder) Finished() bool {
	return d.pos >= len(d.ops) || d.ops[d.pos].op == ENDOFINPUT
}

func (d *fakeDecoder) PrevByte() byte { return d.prev }

func (d *fakeDecoder) ExtractNumber(addr Addr) Cell {
	i := int(addr)
	if i < 0 || i >= len(d.ops) || d.ops[i].op != NUMBER {
		return 0
	}
	return d.ops[i].num
}

func (d *fakeDecoder) ExtractString(out []byte) int {
	if len(out) == 0 {
		return 0
	}
	if d.pos >= len(d.ops) || d.ops[d.pos].op != STRING {
		out[0] = 0
		return 0
	}
	s := d.ops[d.pos].str
	n := len(s)
	if n > len(out)-1 {
		n = len(out) - 1
	}
	copy(out, s[:n])
	for j := n; j < len(out); j++ {
		out[j] = 0
	}
	return n
}

// fakeHost is a scriptable Host recording every call a test cares about.
type fakeHost struct {
	out bytes.Buffer

	digital  [8]Cell
	analog   [8]Cell
	pinModes [8]Cell

	serialIn  []byte
	serialOut []byte

	inputIn []byte

	millisVal Cell
	randVal   Cell
	rangeVal  Cell
	delays    []Cell
	sqrtFn    func(Cell) Cell
	stoiFn    func([]byte) Cell

	randCalls []Cell
	rangeCalls [][2]Cell
}

func (h *fakeHost) PrintByte(b byte)      { h.out.WriteByte(b) }
func (h *fakeHost) PrintInt(n Cell)       { writeInt(&h.out, n) }
func (h *fakeHost) PrintCString(s []byte) {
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	h.out.Write(s)
}

func (h *fakeHost) SerialRead() byte {
	if len(h.serialIn) == 0 {
		return 0
	}
	b := h.serialIn[0]
	h.serialIn = h.serialIn[1:]
	return b
}
func (h *fakeHost) SerialWrite(b byte)    { h.serialOut = append(h.serialOut, b) }
func (h *fakeHost) SerialAvailable() bool { return len(h.serialIn) > 0 }

func (h *fakeHost) Input() byte {
	if len(h.inputIn) == 0 {
		return 0
	}
	b := h.inputIn[0]
	h.inputIn = h.inputIn[1:]
	return b
}
func (h *fakeHost) InputAvailable() bool { return len(h.inputIn) > 0 }

func (h *fakeHost) DigitalWrite(pin, v Cell) { h.digital[pin%8] = v }
func (h *fakeHost) DigitalRead(pin Cell) Cell { return h.digital[pin%8] }
func (h *fakeHost) AnalogRead(pin Cell) Cell  { return h.analog[pin%8] }
func (h *fakeHost) PinMode(pin, v Cell)       { h.pinModes[pin%8] = v }

func (h *fakeHost) Delay(ms Cell) { h.delays = append(h.delays, ms) }
func (h *fakeHost) Millis() Cell  { return h.millisVal }

func (h *fakeHost) Random(a Cell) Cell {
	h.randCalls = append(h.randCalls, a)
	return h.randVal
}

func (h *fakeHost) RandomRange(a, b Cell) Cell {
	h.rangeCalls = append(h.rangeCalls, [2]Cell{a, b})
	return h.rangeVal
}

func (h *fakeHost) Stoi(cstr []byte) Cell {
	if h.stoiFn != nil {
		return h.stoiFn(cstr)
	}
	if i := bytes.IndexByte(cstr, 0); i >= 0 {
		cstr = cstr[:i]
	}
	var v int64
	neg := false
	i := 0
	if i < len(cstr) && (cstr[i] == '+' || cstr[i] == '-') {
		neg = cstr[i] == '-'
		i++
	}
	for ; i < len(cstr) && cstr[i] >= '0' && cstr[i] <= '9'; i++ {
		v = v*10 + int64(cstr[i]-'0')
	}
	if neg {
		v = -v
	}
	return Cell(v)
}

func (h *fakeHost) Sqrt(x Cell) Cell {
	if h.sqrtFn != nil {
		return h.sqrtFn(x)
	}
	if x <= 0 {
		return 0
	}
	var r Cell
	for (r+1)*(r+1) <= x {
		r++
	}
	return r
}

func writeInt(buf *bytes.Buffer, n Cell) {
	if n < 0 {
		buf.WriteByte('-')
		n = -n
	}
	if n == 0 {
		buf.WriteByte('0')
		return
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	buf.Write(digits[i:])
}

// newTestInterpreter wires dec/host directly, bypassing Initialize's
// indexFunctionDefinitions scan, for tests that hand-build a decoder not
// meant to be rescanned from position zero.
func newTestInterpreter(dec Decoder, host Host) *Interpreter {
	ip := &Interpreter{}
	ip.dec = dec
	ip.host = host
	return ip
}
