package vending

import (
	"errors"
	"fmt"
	"io"

	gbserial "github.com/goburrow/serial"
	tarm "github.com/tarm/serial"
)

// Driver names accepted in LineConfig.Driver.
const (
	DriverGoburrow = "goburrow"
	DriverTarm     = "tarm"
)

// Driver opens the serial device described by a validated LineConfig.
// Read on the returned port must report a driver read timeout as (0, nil).
type Driver interface {
	Open(line *LineConfig) (io.ReadWriteCloser, error)
}

// DriverFunc is func type of Driver.
type DriverFunc func(line *LineConfig) (io.ReadWriteCloser, error)

// Open implements Driver.
func (f DriverFunc) Open(line *LineConfig) (io.ReadWriteCloser, error) {
	return f(line)
}

// NewDriver returns the driver registered under name, "" selects goburrow.
func NewDriver(name string) (Driver, error) {
	switch name {
	case "", DriverGoburrow:
		return DriverFunc(openGoburrow), nil
	case DriverTarm:
		return DriverFunc(openTarm), nil
	}
	return nil, &DeviceError{Step: "driver", Err: fmt.Errorf("unknown driver %q", name)}
}

var errFlowControl = errors.New("flow control not supported by driver")

func parityCode(p Parity) byte {
	switch p {
	case ParityOdd:
		return 'O'
	case ParityEven:
		return 'E'
	}
	return 'N'
}

func openGoburrow(line *LineConfig) (io.ReadWriteCloser, error) {
	if line.FlowControl != FlowNone {
		return nil, fmt.Errorf("goburrow: %w: %s", errFlowControl, line.FlowControl)
	}
	port, err := gbserial.Open(&gbserial.Config{
		Address:  line.Device,
		BaudRate: line.BaudRate,
		DataBits: line.CharacterLength,
		StopBits: line.StopBits,
		Parity:   string(parityCode(line.Parity)),
		Timeout:  line.ReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &timeoutPort{ReadWriteCloser: port, isTimeout: func(err error) bool {
		return err == gbserial.ErrTimeout
	}}, nil
}

func openTarm(line *LineConfig) (io.ReadWriteCloser, error) {
	if line.FlowControl != FlowNone {
		return nil, fmt.Errorf("tarm: %w: %s", errFlowControl, line.FlowControl)
	}
	port, err := tarm.OpenPort(&tarm.Config{
		Name:        line.Device,
		Baud:        line.BaudRate,
		ReadTimeout: line.ReadTimeout,
		Size:        byte(line.CharacterLength),
		Parity:      tarm.Parity(parityCode(line.Parity)),
		StopBits:    tarm.StopBits(line.StopBits),
	})
	if err != nil {
		return nil, err
	}
	// tarm reports an expired VTIME read as io.EOF.
	return &timeoutPort{ReadWriteCloser: port, isTimeout: func(err error) bool {
		return err == io.EOF
	}}, nil
}

// timeoutPort turns a driver's read timeout into an empty read.
type timeoutPort struct {
	io.ReadWriteCloser
	isTimeout func(error) bool
}

func (p *timeoutPort) Read(b []byte) (int, error) {
	n, err := p.ReadWriteCloser.Read(b)
	if err != nil && n == 0 && p.isTimeout(err) {
		return 0, nil
	}
	return n, err
}
