// Copyright 2014 Quoc-Viet Nguyen. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD license. See the LICENSE file for details.

package vending

import (
	"time"
)

// Handler implements Packager and Transporter interface.
type Handler struct {
	hexPackager
	serialTransporter
}

// NewHandler allocates and initializes a Handler for line.
// The driver named by line.Driver is resolved on first Connect.
func NewHandler(line LineConfig) *Handler {
	handler := &Handler{}
	handler.Line = line
	return handler
}

// serialTransporter implements Transporter interface.
type serialTransporter struct {
	Line   LineConfig
	Driver Driver

	sleep func(time.Duration)
}

// Connect opens a new session.
func (t *serialTransporter) Connect() (*Session, error) {
	driver := t.Driver
	if driver == nil {
		var err error
		if driver, err = NewDriver(t.Line.Driver); err != nil {
			return nil, err
		}
	}
	session := NewSession(driver)
	if err := session.Open(&t.Line); err != nil {
		return nil, err
	}
	return session, nil
}

// Wait sleeps for the configured reply delay, but never less than the time
// the request needs on the wire.
func (t *serialTransporter) Wait(request Frame) {
	delay := t.Line.ReplyDelay
	if min := t.calculateDelay(len(request)); delay < min {
		delay = min
	}
	sleep := t.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(delay)
}

// calculateDelay roughly calculates time needed to put chars on the wire
// plus an inter-frame gap of 3.5 characters.
func (t *serialTransporter) calculateDelay(chars int) time.Duration {
	var characterDelay, frameDelay int // us

	if t.Line.BaudRate <= 0 || t.Line.BaudRate > 19200 {
		characterDelay = 750
		frameDelay = 1750
	} else {
		characterDelay = 15000000 / t.Line.BaudRate
		frameDelay = 35000000 / t.Line.BaudRate
	}
	return time.Duration(characterDelay*chars+frameDelay) * time.Microsecond
}
