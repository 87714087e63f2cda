package vending

import (
	"fmt"
	"path/filepath"
)

// Client resolves rows to commands and runs one serial exchange per request.
// Requests must be serialized by the caller, the client does no locking.
type Client struct {
	packager    Packager
	transporter Transporter
	commands    CommandTable
	logger      Logger
}

// NewClient creates a vending client with given backend handler.
func NewClient(handler *Handler, commands CommandTable, logger Logger) *Client {
	if logger == nil {
		logger = NopLogger
	}
	return &Client{
		packager:    handler,
		transporter: handler,
		commands:    commands,
		logger:      logger,
	}
}

// NewDefaultClient wires a client from conf with an audit log in conf.LogDir.
func NewDefaultClient(conf *Config) *Client {
	dir := conf.LogDir
	if dir == "" {
		dir = "."
	}
	return NewClient(NewHandler(conf.Line), conf.Commands, NewFileLogger(filepath.Clean(dir)))
}

// Rows returns the configured rows.
func (c *Client) Rows() []int {
	return c.commands.Rows()
}

// Dispense 出货: sends the command of row and reports the device answer.
// It never panics and never returns nil.
func (c *Client) Dispense(row int) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("vending: dispense row %d: %v", row, r)
			c.logger.Log(err.Error())
			res = Failure(err)
		}
	}()
	if row == 0 {
		c.logger.Log(ReasonInvalidRow)
		return Fail(ReasonInvalidRow, ErrInvalidRow)
	}
	command, err := c.commands.Lookup(row)
	if err != nil {
		c.logger.Log(ReasonInvalidRow, err.Error())
		return Failure(err)
	}
	request, err := c.packager.Encode(command)
	if err != nil {
		c.logger.Log(err.Error())
		return Failure(err)
	}
	return c.send(request)
}

//send 发送并读取返回数据
func (c *Client) send(request Frame) *Result {
	session, err := c.transporter.Connect()
	if err != nil {
		c.logger.Log(err.Error())
		return Failure(err)
	}
	defer c.close(session)

	if err = session.Write(request); err != nil {
		c.logger.Log(err.Error())
		return Failure(err)
	}
	c.transporter.Wait(request)
	response, err := session.Read()
	if err != nil {
		c.logger.Log(err.Error())
		return Failure(err)
	}
	if len(response) == 0 {
		c.logger.Log(ReasonNoData)
		return Fail(ReasonNoData, ErrNoData)
	}
	hex := c.packager.Decode(response)
	c.logger.Log(LogReceived)
	c.logger.Log(hex)
	return Success(LogReceived, hex)
}

//关闭串口
func (c *Client) close(session *Session) {
	if session.Close() {
		c.logger.Log("Device is closed")
		return
	}
	c.logger.Log("Device is not closed")
}
