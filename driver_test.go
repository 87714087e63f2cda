package vending

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDriver(t *testing.T) {
	for _, name := range []string{"", DriverGoburrow, DriverTarm} {
		d, err := NewDriver(name)
		require.NoError(t, err, name)
		require.NotNil(t, d)
	}
	_, err := NewDriver("usb")
	var devErr *DeviceError
	require.ErrorAs(t, err, &devErr)
}

func TestDriverFlowControlUnsupported(t *testing.T) {
	line := testLine()
	line.FlowControl = FlowRTSCTS
	for _, open := range []DriverFunc{openGoburrow, openTarm} {
		_, err := open.Open(&line)
		require.ErrorIs(t, err, errFlowControl)
	}
}

func TestParityCode(t *testing.T) {
	require.Equal(t, byte('N'), parityCode(ParityNone))
	require.Equal(t, byte('O'), parityCode(ParityOdd))
	require.Equal(t, byte('E'), parityCode(ParityEven))
}

type readResult struct {
	n   int
	err error
}

type scriptedReader struct {
	fakePort
	results []readResult
}

func (r *scriptedReader) Read(b []byte) (int, error) {
	res := r.results[0]
	r.results = r.results[1:]
	return res.n, res.err
}

func TestTimeoutPort(t *testing.T) {
	errTimeout := errors.New("timeout")
	inner := &scriptedReader{results: []readResult{
		{0, errTimeout},
		{2, nil},
		{0, io.ErrUnexpectedEOF},
		{1, errTimeout},
	}}
	port := &timeoutPort{ReadWriteCloser: inner, isTimeout: func(err error) bool { return err == errTimeout }}
	buf := make([]byte, 4)

	n, err := port.Read(buf)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = port.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = port.Read(buf)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	n, err = port.Read(buf)
	require.Equal(t, 1, n)
	require.ErrorIs(t, err, errTimeout)
}
