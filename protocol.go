package vending

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

const frameMaxSize = 256

// Frame is one command or response exchanged over the serial line.
// The wire form is the byte slice itself, Hex gives the loggable form.
type Frame []byte

// ParseFrame decodes a hex command such as "A1 02 FF".
// Whitespace is ignored and digits are case-insensitive. An odd number of
// digits is rejected instead of being padded with a zero nibble.
func ParseFrame(command string) (Frame, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, command)
	if digits == "" {
		return nil, &DecodeError{Command: command, Err: ErrEmptyCommand}
	}
	if len(digits)%2 != 0 {
		return nil, &DecodeError{Command: command, Err: ErrOddLength}
	}
	if len(digits)/2 > frameMaxSize {
		return nil, &DecodeError{Command: command, Err: ErrFrameTooLarge}
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, &DecodeError{Command: command, Err: err}
	}
	return Frame(b), nil
}

// Hex returns the lower case hex form, two digits per byte.
func (f Frame) Hex() string {
	return hex.EncodeToString(f)
}

// String implements fmt.Stringer.
func (f Frame) String() string {
	return fmt.Sprintf("% x", []byte(f))
}

// Packager converts between configured commands and wire frames.
type Packager interface {
	Encode(command string) (Frame, error)
	Decode(frame Frame) (hex string)
}

// Transporter specifies the transport layer. Every exchange gets its own
// session; sessions are never reused.
type Transporter interface {
	// Connect opens a fresh session with the configured line parameters.
	Connect() (*Session, error)
	// Wait blocks until a reply to request may be read.
	Wait(request Frame)
}

// hexPackager implements Packager interface.
type hexPackager struct{}

// Encode strips whitespace from command and decodes it as hex.
func (hexPackager) Encode(command string) (Frame, error) {
	return ParseFrame(command)
}

// Decode returns the hex form of a response frame.
func (hexPackager) Decode(frame Frame) string {
	return frame.Hex()
}
