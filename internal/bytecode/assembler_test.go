package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gioscarab/biplan"
)

func TestAssembler_Bytes_AppendsEndOfInput(t *testing.T) {
	a := NewAssembler().CR()
	got := a.Bytes()
	assert.Equal(t, []byte{byte(biplan.CR), byte(biplan.ENDOFINPUT)}, got)
}

func TestAssembler_Number_ZeroAndMultiDigit(t *testing.T) {
	a := NewAssembler().Number(0)
	assert.Equal(t, []byte{byte(biplan.NUMBER), '0', byte(biplan.ENDOFINPUT)}, a.Bytes())

	b := NewAssembler().Number(42)
	assert.Equal(t, []byte{byte(biplan.NUMBER), '4', '2', byte(biplan.ENDOFINPUT)}, b.Bytes())
}

func TestAssembler_String_LengthPrefixed(t *testing.T) {
	a := NewAssembler().String("Hi")
	assert.Equal(t, []byte{byte(biplan.STRING), 2, 'H', 'i', byte(biplan.ENDOFINPUT)}, a.Bytes())
}

func TestAssembler_Address_BiasesIDByAddressOffset(t *testing.T) {
	a := NewAssembler().Address(5)
	assert.Equal(t, []byte{byte(biplan.ADDRESS), 5 + biplan.AddressOffset, byte(biplan.ENDOFINPUT)}, a.Bytes())
}

func TestAssembler_SAddressFunctionFunDef_ShareIDEncoding(t *testing.T) {
	sa := NewAssembler().SAddress(1)
	assert.Equal(t, []byte{byte(biplan.S_ADDRESS), 1 + biplan.AddressOffset, byte(biplan.ENDOFINPUT)}, sa.Bytes())

	fn := NewAssembler().Function(2)
	assert.Equal(t, []byte{byte(biplan.FUNCTION), 2 + biplan.AddressOffset, byte(biplan.ENDOFINPUT)}, fn.Bytes())

	fd := NewAssembler().FunDef(3)
	assert.Equal(t, []byte{byte(biplan.FUN_DEF), 3 + biplan.AddressOffset, byte(biplan.ENDOFINPUT)}, fd.Bytes())
}

func TestAssembler_RoundTripsThroughStream(t *testing.T) {
	a := NewAssembler().
		Address(0).Eq().Number(3).CR().
		String("Hi").CR()
	s := a.Stream()

	assert.Equal(t, biplan.ADDRESS, s.Peek())
	s.Advance()
	assert.Equal(t, uint8(0), s.PrevByte()-biplan.AddressOffset)

	assert.Equal(t, biplan.EQ, s.Peek())
	s.Advance()

	assert.Equal(t, biplan.Cell(3), s.ExtractNumber(s.Position()))
	assert.Equal(t, biplan.NUMBER, s.Peek())
	s.Advance()

	assert.Equal(t, biplan.CR, s.Peek())
	s.Advance()

	out := make([]byte, 8)
	n := s.ExtractString(out)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Hi", string(out[:n]))
	assert.Equal(t, biplan.STRING, s.Peek())
	s.Advance()

	assert.Equal(t, biplan.CR, s.Peek())
	s.Advance()

	assert.True(t, s.Finished())
}

func TestAssembler_FluentChainingBuildsACompleteStatement(t *testing.T) {
	// a = 1 + 2
	a := NewAssembler().Address(0).Number(1).Plus().Number(2).CR()
	want := []byte{
		byte(biplan.ADDRESS), 0 + biplan.AddressOffset,
		byte(biplan.NUMBER), '1',
		byte(biplan.PLUS),
		byte(biplan.NUMBER), '2',
		byte(biplan.CR),
		byte(biplan.ENDOFINPUT),
	}
	assert.Equal(t, want, a.Bytes())
}
