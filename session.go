package vending

import (
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// SessionState is the lifecycle state of a Session.
type SessionState int

// Session states. A session only moves forward.
const (
	StateUnopened SessionState = iota
	StateOpen
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// Session owns one serial connection for a single exchange.
type Session struct {
	driver Driver
	line   LineConfig
	port   io.ReadWriteCloser
	state  SessionState
}

// NewSession creates an unopened session on driver.
func NewSession(driver Driver) *Session {
	return &Session{driver: driver}
}

// State gets the state.
func (s *Session) State() SessionState {
	return s.state
}

// Device returns the device path once configured.
func (s *Session) Device() string {
	return s.line.Device
}

// Open applies device, baud rate, parity, character length, stop bits and
// flow control in that order, then opens the device for read/write.
func (s *Session) Open(c *LineConfig) error {
	switch s.state {
	case StateOpen:
		return &DeviceError{Device: s.line.Device, Step: "open", Err: errors.New("already open")}
	case StateClosed:
		return &DeviceError{Device: s.line.Device, Step: "open", Err: ErrClosed}
	}
	if c == nil {
		return &DeviceError{Step: "device", Err: errors.New("line config missing")}
	}
	var line LineConfig
	if err := configure(&line, c); err != nil {
		return err
	}
	line.Driver, line.ReadTimeout, line.ReplyDelay = c.Driver, c.ReadTimeout, c.ReplyDelay
	if s.driver == nil {
		return &DeviceError{Device: line.Device, Step: "open", Err: errors.New("no driver")}
	}
	port, err := s.driver.Open(&line)
	if err != nil {
		return &DeviceError{Device: line.Device, Step: "open", Err: err}
	}
	s.line, s.port, s.state = line, port, StateOpen
	glog.V(3).Infof("serial: %s opened", line.Device)
	return nil
}

// Write sends the wire form of frame.
func (s *Session) Write(frame Frame) error {
	if s.state != StateOpen {
		return &WriteError{Device: s.line.Device, Err: s.misuse()}
	}
	glog.V(2).Infof("serial: sending % x", []byte(frame))
	n, err := s.port.Write(frame)
	if err == nil && n < len(frame) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &WriteError{Device: s.line.Device, Err: err}
	}
	return nil
}

// Read performs one blocking read of whatever the device has available.
// How long it blocks is up to the driver's read timeout. An empty frame
// means the device sent nothing and is not an error. Bytes returned together
// with an error are kept and the error is only logged.
func (s *Session) Read() (Frame, error) {
	if s.state != StateOpen {
		return nil, s.misuse()
	}
	var data [frameMaxSize]byte
	n, err := s.port.Read(data[:])
	if err != nil {
		if n == 0 {
			return nil, fmt.Errorf("serial: read %s: %w", s.line.Device, err)
		}
		glog.Warningf("serial: read %s: %v after %d bytes", s.line.Device, err, n)
	}
	glog.V(2).Infof("serial: received % x", data[:n])
	frame := make(Frame, n)
	copy(frame, data[:n])
	return frame, nil
}

// Close closes the device and reports whether that succeeded. Closing a
// closed or never opened session is a no-op that returns true.
// Failures are logged and never returned.
func (s *Session) Close() bool {
	if s.state != StateOpen {
		s.state = StateClosed
		return true
	}
	port := s.port
	s.port, s.state = nil, StateClosed
	if err := closePort(port); err != nil {
		glog.Warningf("serial: close %s: %v", s.line.Device, err)
		return false
	}
	glog.V(3).Infof("serial: %s closed", s.line.Device)
	return true
}

func (s *Session) misuse() error {
	if s.state == StateClosed {
		return ErrClosed
	}
	return ErrNotOpen
}

func closePort(port io.Closer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("close panicked: %v", r)
		}
	}()
	return port.Close()
}

// Baud rates accepted by the configure step.
var validBaudRates = map[int]bool{
	110: true, 150: true, 300: true, 600: true, 1200: true, 2400: true,
	4800: true, 9600: true, 19200: true, 38400: true, 57600: true, 115200: true,
}

type configureStep struct {
	name  string
	apply func(dst, src *LineConfig) error
}

// configureSteps run in order, the first failure aborts the open.
var configureSteps = []configureStep{
	{"device", func(dst, src *LineConfig) error {
		if src.Device == "" {
			return errors.New("device path not set")
		}
		dst.Device = src.Device
		return nil
	}},
	{"baudrate", func(dst, src *LineConfig) error {
		if !validBaudRates[src.BaudRate] {
			return fmt.Errorf("unsupported baud rate %d", src.BaudRate)
		}
		dst.BaudRate = src.BaudRate
		return nil
	}},
	{"parity", func(dst, src *LineConfig) error {
		switch src.Parity {
		case ParityNone, ParityOdd, ParityEven:
			dst.Parity = src.Parity
			return nil
		}
		return fmt.Errorf("unsupported parity %q", src.Parity)
	}},
	{"character_length", func(dst, src *LineConfig) error {
		if src.CharacterLength < 5 || src.CharacterLength > 8 {
			return fmt.Errorf("unsupported character length %d", src.CharacterLength)
		}
		dst.CharacterLength = src.CharacterLength
		return nil
	}},
	{"stop_bits", func(dst, src *LineConfig) error {
		if src.StopBits != 1 && src.StopBits != 2 {
			return fmt.Errorf("unsupported stop bits %d", src.StopBits)
		}
		dst.StopBits = src.StopBits
		return nil
	}},
	{"flow_control", func(dst, src *LineConfig) error {
		switch src.FlowControl {
		case FlowNone, FlowRTSCTS, FlowXonXoff:
			dst.FlowControl = src.FlowControl
			return nil
		}
		return fmt.Errorf("unsupported flow control %q", src.FlowControl)
	}},
}

func configure(dst, src *LineConfig) error {
	for _, step := range configureSteps {
		if err := step.apply(dst, src); err != nil {
			return &DeviceError{Device: src.Device, Step: step.name, Err: err}
		}
	}
	return nil
}
