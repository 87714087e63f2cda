package vending

import (
	"bytes"
	"io"
	"strings"
	"time"
)

type fakePort struct {
	written  bytes.Buffer
	reads    [][]byte
	readErr  error
	writeErr error
	closeErr error
	panicMsg string

	readCalls int
	closed    int
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.readCalls++
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	if len(p.reads) == 0 {
		return 0, p.readErr
	}
	n := copy(b, p.reads[0])
	p.reads = p.reads[1:]
	return n, p.readErr
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.closed++
	return p.closeErr
}

type shortWriter struct {
	fakePort
}

func (w *shortWriter) Write(b []byte) (int, error) {
	return len(b) - 1, nil
}

type fakeDriver struct {
	port   *fakePort
	err    error
	opened int
	line   LineConfig
}

func (d *fakeDriver) Open(line *LineConfig) (io.ReadWriteCloser, error) {
	d.opened++
	d.line = *line
	if d.err != nil {
		return nil, d.err
	}
	return d.port, nil
}

type memLogger struct {
	lines []string
}

func (l *memLogger) Log(msg ...string) {
	l.lines = append(l.lines, strings.Join(msg, " "))
}

func testLine() LineConfig {
	return LineConfig{
		Device:          "/dev/ttyS0",
		BaudRate:        9600,
		Parity:          ParityNone,
		CharacterLength: 8,
		StopBits:        1,
		FlowControl:     FlowNone,
		ReplyDelay:      DefaultReplyDelay,
	}
}

type clientTestEnv struct {
	port   *fakePort
	driver *fakeDriver
	logger *memLogger
	delays []time.Duration
	client *Client
}

func newClientTestEnv(line LineConfig, commands CommandTable) *clientTestEnv {
	env := &clientTestEnv{port: &fakePort{}, logger: &memLogger{}}
	env.driver = &fakeDriver{port: env.port}
	handler := NewHandler(line)
	handler.Driver = env.driver
	handler.sleep = func(d time.Duration) { env.delays = append(env.delays, d) }
	env.client = NewClient(handler, commands, env.logger)
	return env
}
