// Package kiosk exposes a vending client over MQTT.
//
// A request published to <prefix><id>/dispense as {"id":"..","row":3} is
// answered on <prefix><id>/result with the request id and the dispense
// result. Only one request is in flight at a time; a request arriving while
// the unit is busy is answered immediately with a "busy" failure.
package kiosk

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	vending "github.com/zing-dev/vending-fmt-sdk"
)

// Topic suffixes.
const (
	TopicDispense = "dispense"
	TopicResult   = "result"
	TopicMeta     = "meta"
)

// ReasonBusy is the failure reason while another request is in flight.
const ReasonBusy = "busy"

// ErrBusy is the error behind ReasonBusy.
var ErrBusy = errors.New("kiosk: busy")

// Dispenser is implemented by *vending.Client.
type Dispenser interface {
	Dispense(row int) *vending.Result
	Rows() []int
}

// Request asks the kiosk to dispense a row.
type Request struct {
	ID  string `json:"id"`
	Row int    `json:"row"`
}

// Reply answers a Request.
type Reply struct {
	ID     string          `json:"id"`
	Row    int             `json:"row"`
	Result *vending.Result `json:"result"`
}

// Meta is published retained on connect.
type Meta struct {
	ID   string `json:"id"`
	Rows []int  `json:"rows"`
}

var (
	brokerURL string
	kioskID   string
)

// SetupFlags sets command line flags overriding the kiosk config block.
func SetupFlags() {
	flag.StringVar(&brokerURL, "mqtt", brokerURL, "MQTT broker URL, overrides kiosk.broker_url.")
	flag.StringVar(&kioskID, "id", kioskID, "Kiosk ID, overrides kiosk.id.")
}

// ApplyFlags merges command line overrides into conf and fills the id.
func ApplyFlags(conf vending.KioskConfig) vending.KioskConfig {
	if brokerURL != "" {
		conf.BrokerURL = brokerURL
	}
	if kioskID != "" {
		conf.ID = kioskID
	}
	if conf.ID == "" {
		conf.ID = MachineID()
	}
	return conf
}

// Service runs dispense requests received over MQTT.
type Service struct {
	ID        string
	Dispenser Dispenser

	client      paho.Client
	topicPrefix string
	requests    chan Request
	busyWait    time.Duration
}

// New creates a Service for conf.
func New(conf vending.KioskConfig, dispenser Dispenser) (*Service, error) {
	if conf.BrokerURL == "" {
		return nil, errors.New("kiosk: broker URL required")
	}
	if conf.ID == "" {
		return nil, errors.New("kiosk: id required")
	}
	opts, prefix, err := ClientOptionsFromURL(conf.BrokerURL)
	if err != nil {
		return nil, fmt.Errorf("kiosk: broker URL: %w", err)
	}
	s := &Service{
		ID:          conf.ID,
		Dispenser:   dispenser,
		topicPrefix: prefix,
		requests:    make(chan Request),
		busyWait:    10 * time.Millisecond,
	}
	opts.SetOnConnectHandler(s.onConnect)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		glog.Warningf("kiosk: connection lost: %v", err)
	})
	s.client = paho.NewClient(opts)
	return s, nil
}

// Topic returns the full topic for suffix.
func (s *Service) Topic(suffix string) string {
	return s.topicPrefix + s.ID + "/" + suffix
}

// Run connects and serves requests until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	token := s.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("kiosk: connect: %w", err)
	}
	defer s.client.Disconnect(250)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-s.requests:
			s.publish(s.Handle(req))
		}
	}
}

// Handle runs one request.
func (s *Service) Handle(req Request) *Reply {
	glog.V(1).Infof("kiosk: request %q row %d", req.ID, req.Row)
	return &Reply{ID: req.ID, Row: req.Row, Result: s.Dispenser.Dispense(req.Row)}
}

// MetaPayload returns the retained meta message.
func (s *Service) MetaPayload() []byte {
	payload, _ := json.Marshal(&Meta{ID: s.ID, Rows: s.Dispenser.Rows()})
	return payload
}

func (s *Service) onConnect(c paho.Client) {
	glog.Info("kiosk: connected")
	c.Publish(s.Topic(TopicMeta), 1, true, s.MetaPayload())
	token := c.Subscribe(s.Topic(TopicDispense), 1, s.dispatch)
	token.Wait()
	if err := token.Error(); err != nil {
		glog.Errorf("kiosk: subscribe %s: %v", s.Topic(TopicDispense), err)
	}
}

func (s *Service) dispatch(_ paho.Client, msg paho.Message) {
	req, reply := s.accept(msg.Payload())
	if reply != nil {
		s.publish(reply)
		return
	}
	select {
	case s.requests <- req:
	case <-time.After(s.busyWait):
		s.publish(&Reply{ID: req.ID, Row: req.Row, Result: vending.Fail(ReasonBusy, ErrBusy)})
	}
}

// accept decodes payload, returning a reply when it must be rejected.
func (s *Service) accept(payload []byte) (Request, *Reply) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		glog.Warningf("kiosk: bad request %q: %v", payload, err)
		return req, &Reply{Result: vending.Failure(fmt.Errorf("kiosk: bad request: %w", err))}
	}
	return req, nil
}

func (s *Service) publish(reply *Reply) {
	payload, err := json.Marshal(reply)
	if err != nil {
		glog.Errorf("kiosk: encode reply: %v", err)
		return
	}
	s.client.Publish(s.Topic(TopicResult), 1, false, payload)
}
