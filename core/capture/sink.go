package capture

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Mode selects how a sink treats incoming bytes.
type Mode uint8

const (
	// Text sinks hold valid UTF-8 only.
	Text Mode = iota
	// Binary sinks store bytes verbatim.
	Binary
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Text:
		return "text"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Sink is a growable output buffer.
// A sink is owned by exactly one scope stack while active.
type Sink struct {
	mode Mode
	buf  bytes.Buffer
	text *transform.Writer
}

// NewSink returns an empty sink in the given mode.
func NewSink(mode Mode) *Sink {
	s := &Sink{mode: mode}
	if mode == Text {
		s.text = transform.NewWriter(&s.buf, unicode.UTF8.NewDecoder())
	}
	return s
}

// Mode reports the sink mode.
func (s *Sink) Mode() Mode {
	return s.mode
}

// Write appends p to the sink.
func (s *Sink) Write(p []byte) (int, error) {
	if s.text != nil {
		return s.text.Write(p)
	}
	return s.buf.Write(p)
}

// WriteString appends str to the sink.
func (s *Sink) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Len returns the number of bytes accumulated so far.
// A trailing incomplete UTF-8 sequence in a text sink is not counted until flushed.
func (s *Sink) Len() int {
	return s.buf.Len()
}

// Bytes returns the accumulated output.
// The returned slice aliases the sink and is valid until the next write.
func (s *Sink) Bytes() []byte {
	return s.buf.Bytes()
}

// String returns the accumulated output as a string.
func (s *Sink) String() string {
	return s.buf.String()
}

// Reset drops everything written so far, including pending partial runes.
func (s *Sink) Reset() {
	s.buf.Reset()
	if s.text != nil {
		s.text = transform.NewWriter(&s.buf, unicode.UTF8.NewDecoder())
	}
}

// flush finalizes the sink. Pending incomplete UTF-8 becomes U+FFFD.
func (s *Sink) flush() error {
	if s.text == nil {
		return nil
	}
	err := s.text.Close()
	s.text = transform.NewWriter(&s.buf, unicode.UTF8.NewDecoder())
	return err
}
