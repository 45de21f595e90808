package memory

import "github.com/valerio/go-dotmatrix/dotmatrix/bit"

// JoypadKey represents a key on the Gameboy joypad
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// Joypad tracks the state of the button matrix. The hardware register P1 is
// just a column selector (bits 4-5) that maps one of the two button groups
// onto the low nibble. A bit of 0 means pressed.
type Joypad struct {
	buttons uint8
	dpad    uint8
	line    uint8

	// interruptHandler fires on a high-to-low transition of any key line.
	interruptHandler func()
}

// NewJoypad creates a new Joypad with all keys released.
func NewJoypad(interruptHandler func()) *Joypad {
	return &Joypad{
		buttons:          0x0F,
		dpad:             0x0F,
		line:             0x30,
		interruptHandler: interruptHandler,
	}
}

// Read composes the P1 byte for the currently selected column.
// Bits 6-7 are unused and always read as 1.
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | j.line

	selectDpad := !bit.IsSet(4, j.line)
	selectButtons := !bit.IsSet(5, j.line)

	switch {
	case selectDpad && !selectButtons:
		result |= j.dpad & 0x0F
	case selectButtons && !selectDpad:
		result |= j.buttons & 0x0F
	case selectDpad && selectButtons:
		result |= j.dpad & j.buttons & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

// Write updates the column selection. Only bits 4-5 are writable.
func (j *Joypad) Write(value uint8) {
	j.line = value & 0x30
}

// Press updates the joypad state when a key is pressed and requests the
// Joypad interrupt on the falling edge.
func (j *Joypad) Press(key JoypadKey) {
	before := j.dpad & j.buttons

	switch key {
	case JoypadRight:
		j.dpad = bit.Reset(0, j.dpad)
	case JoypadLeft:
		j.dpad = bit.Reset(1, j.dpad)
	case JoypadUp:
		j.dpad = bit.Reset(2, j.dpad)
	case JoypadDown:
		j.dpad = bit.Reset(3, j.dpad)
	case JoypadA:
		j.buttons = bit.Reset(0, j.buttons)
	case JoypadB:
		j.buttons = bit.Reset(1, j.buttons)
	case JoypadSelect:
		j.buttons = bit.Reset(2, j.buttons)
	case JoypadStart:
		j.buttons = bit.Reset(3, j.buttons)
	}

	if before != j.dpad&j.buttons && j.interruptHandler != nil {
		j.interruptHandler()
	}
}

// Release updates the joypad state when a key is released.
func (j *Joypad) Release(key JoypadKey) {
	switch key {
	case JoypadRight:
		j.dpad = bit.Set(0, j.dpad)
	case JoypadLeft:
		j.dpad = bit.Set(1, j.dpad)
	case JoypadUp:
		j.dpad = bit.Set(2, j.dpad)
	case JoypadDown:
		j.dpad = bit.Set(3, j.dpad)
	case JoypadA:
		j.buttons = bit.Set(0, j.buttons)
	case JoypadB:
		j.buttons = bit.Set(1, j.buttons)
	case JoypadSelect:
		j.buttons = bit.Set(2, j.buttons)
	case JoypadStart:
		j.buttons = bit.Set(3, j.buttons)
	}
}
