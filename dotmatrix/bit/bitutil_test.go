package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.Equal(t, uint16(0x1234), Combine(0x12, 0x34))
}

func TestHighLow(t *testing.T) {
	assert.Equal(t, uint8(0x12), High(0x1234))
	assert.Equal(t, uint8(0x34), Low(0x1234))
}

func TestSetResetIsSet(t *testing.T) {
	value := uint8(0)

	value = Set(3, value)
	assert.True(t, IsSet(3, value))
	assert.Equal(t, uint8(0x08), value)

	value = Reset(3, value)
	assert.False(t, IsSet(3, value))
	assert.Equal(t, uint8(0x00), value)
}

func TestIsSet16(t *testing.T) {
	assert.True(t, IsSet16(12, 0x1000))
	assert.False(t, IsSet16(12, 0x0FFF))
}

func TestGetBitValue(t *testing.T) {
	assert.Equal(t, uint8(1), GetBitValue(7, 0x80))
	assert.Equal(t, uint8(0), GetBitValue(6, 0x80))
}

func TestExtractBits(t *testing.T) {
	assert.Equal(t, uint8(0b101), ExtractBits(0b11010110, 6, 4))
	assert.Equal(t, uint8(0b10), ExtractBits(0xBF, 7, 6))
	assert.Equal(t, uint8(0x3F), ExtractBits(0xFF, 5, 0))
}
