package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoypad_ColumnSelection(t *testing.T) {
	joypad := NewJoypad(nil)
	joypad.Press(JoypadA)
	joypad.Press(JoypadUp)

	t.Run("no column selected reads all released", func(t *testing.T) {
		joypad.Write(0x30)
		assert.Equal(t, uint8(0x0F), joypad.Read()&0x0F)
	})

	t.Run("button column", func(t *testing.T) {
		joypad.Write(0x10) // bit 5 low selects buttons
		assert.Equal(t, uint8(0x0E), joypad.Read()&0x0F)
	})

	t.Run("dpad column", func(t *testing.T) {
		joypad.Write(0x20) // bit 4 low selects the d-pad
		assert.Equal(t, uint8(0x0B), joypad.Read()&0x0F)
	})

	t.Run("both columns AND together", func(t *testing.T) {
		joypad.Write(0x00)
		assert.Equal(t, uint8(0x0A), joypad.Read()&0x0F)
	})

	t.Run("release restores the line", func(t *testing.T) {
		joypad.Release(JoypadA)
		joypad.Release(JoypadUp)
		joypad.Write(0x00)
		assert.Equal(t, uint8(0x0F), joypad.Read()&0x0F)
	})
}

func TestJoypad_InterruptOnFallingEdge(t *testing.T) {
	fired := 0
	joypad := NewJoypad(func() { fired++ })

	joypad.Press(JoypadStart)
	assert.Equal(t, 1, fired)

	// pressing the same key again is not an edge
	joypad.Press(JoypadStart)
	assert.Equal(t, 1, fired)

	joypad.Release(JoypadStart)
	joypad.Press(JoypadStart)
	assert.Equal(t, 2, fired)
}
