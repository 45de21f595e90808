package serial

import (
	"log/slog"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
)

// LogSink implements a dummy serial device that just logs outgoing bytes as
// text. Handy for debugging test roms that report over the link port:
// writing 0x81 to SC transmits the SB byte, the transfer completes at once
// and SC drops back to 0x01.
type LogSink struct {
	irqHandler func()
	sb, sc     uint8
	logger     *slog.Logger

	// line buffers outgoing bytes until a terminator for readable output.
	line []byte
	// tail keeps the most recent completed lines for debug surfaces.
	tail []string
}

// NewLogSink creates a new logging serial device. The passed function is
// called when a transfer completes, wire it to request the Serial interrupt.
func NewLogSink(irq func()) *LogSink {
	s := &LogSink{
		irqHandler: irq,
		logger:     slog.Default(),
	}
	s.Reset()
	return s
}

func (s *LogSink) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		if value == 0x81 {
			s.completeTransfer()
		}
	default:
		panic("serial.LogSink: invalid write address")
	}
}

func (s *LogSink) Read(address uint16) uint8 {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		panic("serial.LogSink: invalid read address")
	}
}

// Tick is a no-op: the sink completes transfers immediately.
func (s *LogSink) Tick(cycles int) {}

func (s *LogSink) Reset() {
	s.sb = 0x00
	s.sc = 0x00
	s.line = s.line[:0]
	s.tail = s.tail[:0]
}

// Tail returns the most recent completed output lines, newest last.
func (s *LogSink) Tail() []string {
	return s.tail
}

func (s *LogSink) completeTransfer() {
	b := s.sb

	if b == 0 || b == '\n' || b == '\r' {
		s.flushLine()
	} else {
		s.line = append(s.line, b)
	}

	// There is no peer, so the received byte is open bus.
	s.sb = 0xFF
	s.sc = 0x01

	if s.irqHandler != nil {
		s.irqHandler()
	}
}

func (s *LogSink) flushLine() {
	if len(s.line) == 0 {
		return
	}
	line := string(s.line)
	s.logger.Info("serial", "line", line)
	s.tail = append(s.tail, line)
	if len(s.tail) > 16 {
		s.tail = s.tail[len(s.tail)-16:]
	}
	s.line = s.line[:0]
}
