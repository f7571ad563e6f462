// Package simhost provides Board, a reference biplan.Host: an in-memory pin
// board, a serial/input byte queue pair, and a buffered print sink. It
// stands in for the real microcontroller hardware spec §4.B's Host
// interface is written against. Grounded on the teacher's ioCore/
// writeFlusher buffered-output pattern (gothird's io.go) for the print-sink
// half; the pin/serial half has no analog anywhere in the retrieved
// examples (none touch GPIO), so it is built directly from spec §4.B's
// contract.
package simhost

import (
	"bytes"
	"io"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/gioscarab/biplan"
)

const pinCount = 64

// Board is a software-simulated host: every call is in-memory and
// deterministic except Millis (wall clock) and Random/RandomRange (a
// seeded math/rand source, replaceable via SetRandSource for repeatable
// tests). The input and serial-in queues are guarded by a mutex because
// cmd/biplan feeds them from a background stdin reader while the
// interpreter drains them from its own run loop; every other field is
// touched only from the single goroutine driving Run.
type Board struct {
	Out io.Writer

	pinValues [pinCount]biplan.Cell
	pinModes  [pinCount]biplan.Cell
	analog    [pinCount]biplan.Cell

	serialOut bytes.Buffer

	ioMu     sync.Mutex
	serialIn bytes.Buffer
	inputBuf bytes.Buffer

	rng   *rand.Rand
	epoch time.Time
}

// NewBoard returns a Board that writes print output to out (nil discards
// it) and seeds its random source from the wall clock.
func NewBoard(out io.Writer) *Board {
	return &Board{
		Out:   out,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		epoch: time.Now(),
	}
}

// SetRandSource replaces the board's random source, for repeatable tests.
func (b *Board) SetRandSource(src rand.Source) { b.rng = rand.New(src) }

// SetAnalog fixes the value AnalogRead(pin) returns until changed again.
func (b *Board) SetAnalog(pin biplan.Cell, v biplan.Cell) {
	b.analog[clampPin(pin)] = v
}

// SetSerialInput discards whatever is queued and replaces it with data.
func (b *Board) SetSerialInput(data []byte) {
	b.ioMu.Lock()
	defer b.ioMu.Unlock()
	b.serialIn.Reset()
	b.serialIn.Write(data)
}

// FeedSerial appends data to the queue SerialRead/SerialAvailable drain,
// for a background reader goroutine to call concurrently with Run.
func (b *Board) FeedSerial(data []byte) {
	b.ioMu.Lock()
	defer b.ioMu.Unlock()
	b.serialIn.Write(data)
}

// SerialOutput returns everything written via SerialWrite so far.
func (b *Board) SerialOutput() []byte { return b.serialOut.Bytes() }

// SetInput discards whatever is queued and replaces it with data.
func (b *Board) SetInput(data []byte) {
	b.ioMu.Lock()
	defer b.ioMu.Unlock()
	b.inputBuf.Reset()
	b.inputBuf.Write(data)
}

// FeedInput appends data to the queue Input/InputAvailable drain, for a
// background reader goroutine to call concurrently with Run.
func (b *Board) FeedInput(data []byte) {
	b.ioMu.Lock()
	defer b.ioMu.Unlock()
	b.inputBuf.Write(data)
}

// DigitalPin reports the value last written via DigitalWrite.
func (b *Board) DigitalPin(pin biplan.Cell) biplan.Cell { return b.pinValues[clampPin(pin)] }

// PinModeOf reports the mode last set via PinMode.
func (b *Board) PinModeOf(pin biplan.Cell) biplan.Cell { return b.pinModes[clampPin(pin)] }

func clampPin(pin biplan.Cell) int {
	i := int(pin) % pinCount
	if i < 0 {
		i += pinCount
	}
	return i
}

func (b *Board) PrintByte(v byte) {
	if b.Out != nil {
		b.Out.Write([]byte{v})
	}
}

func (b *Board) PrintInt(n biplan.Cell) {
	if b.Out != nil {
		io.WriteString(b.Out, strconv.FormatInt(int64(n), 10))
	}
}

func (b *Board) PrintCString(s []byte) {
	if b.Out == nil {
		return
	}
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	b.Out.Write(s)
}

func (b *Board) SerialAvailable() bool {
	b.ioMu.Lock()
	defer b.ioMu.Unlock()
	return b.serialIn.Len() > 0
}

func (b *Board) SerialRead() byte {
	b.ioMu.Lock()
	defer b.ioMu.Unlock()
	v, err := b.serialIn.ReadByte()
	if err != nil {
		return 0
	}
	return v
}

func (b *Board) SerialWrite(v byte) { b.serialOut.WriteByte(v) }

func (b *Board) InputAvailable() bool {
	b.ioMu.Lock()
	defer b.ioMu.Unlock()
	return b.inputBuf.Len() > 0
}

func (b *Board) Input() byte {
	b.ioMu.Lock()
	defer b.ioMu.Unlock()
	v, err := b.inputBuf.ReadByte()
	if err != nil {
		return 0
	}
	return v
}

func (b *Board) DigitalWrite(pin biplan.Cell, v biplan.Cell) { b.pinValues[clampPin(pin)] = v }

func (b *Board) DigitalRead(pin biplan.Cell) biplan.Cell { return b.pinValues[clampPin(pin)] }

func (b *Board) AnalogRead(pin biplan.Cell) biplan.Cell { return b.analog[clampPin(pin)] }

func (b *Board) PinMode(pin biplan.Cell, v biplan.Cell) { b.pinModes[clampPin(pin)] = v }

func (b *Board) Delay(ms biplan.Cell) {
	if ms > 0 {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	}
}

func (b *Board) Millis() biplan.Cell {
	return biplan.Cell(time.Since(b.epoch).Milliseconds())
}

func (b *Board) Random(a biplan.Cell) biplan.Cell {
	if a <= 0 {
		return 0
	}
	return biplan.Cell(b.rng.Int63n(int64(a)))
}

func (b *Board) RandomRange(a, c biplan.Cell) biplan.Cell {
	lo, hi := a, c
	if lo > hi {
		lo, hi = hi, lo
	}
	span := int64(hi-lo) + 1
	if span <= 0 {
		return lo
	}
	return lo + biplan.Cell(b.rng.Int63n(span))
}

// Stoi parses a leading, optionally signed, run of ASCII decimal digits out
// of a NUL-terminated (or NUL-free) byte buffer, matching the host contract
// of original_source's BPM_STOI (a thin wrapper over C's atoi).
func (b *Board) Stoi(cstr []byte) biplan.Cell {
	if i := bytes.IndexByte(cstr, 0); i >= 0 {
		cstr = cstr[:i]
	}
	i := 0
	for i < len(cstr) && (cstr[i] == ' ' || cstr[i] == '\t') {
		i++
	}
	neg := false
	if i < len(cstr) && (cstr[i] == '+' || cstr[i] == '-') {
		neg = cstr[i] == '-'
		i++
	}
	var v int64
	for i < len(cstr) && cstr[i] >= '0' && cstr[i] <= '9' {
		v = v*10 + int64(cstr[i]-'0')
		i++
	}
	if neg {
		v = -v
	}
	return biplan.Cell(v)
}

func (b *Board) Sqrt(x biplan.Cell) biplan.Cell {
	if x <= 0 {
		return 0
	}
	return biplan.Cell(math.Sqrt(float64(x)))
}
