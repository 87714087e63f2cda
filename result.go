package vending

import "encoding/json"

// Messages written to the audit log and carried in results.
const (
	ReasonInvalidRow = "Invalid row number"
	ReasonNoData     = "No data received"
	LogReceived      = "Data has been received."
)

// Result is the outcome of one dispense exchange. Status tells which
// variant it is: on success Log and Hex are set, on failure Reason and Err.
type Result struct {
	Status bool
	Log    string
	Hex    string
	Reason string
	Err    error
}

// Success creates a successful result.
func Success(log, hex string) *Result {
	return &Result{Status: true, Log: log, Hex: hex}
}

// Failure creates a failed result from err.
func Failure(err error) *Result {
	return &Result{Reason: err.Error(), Err: err}
}

// Fail creates a failed result carrying reason instead of err's message.
func Fail(reason string, err error) *Result {
	return &Result{Reason: reason, Err: err}
}

type resultData struct {
	Log string `json:"log"`
	Hex string `json:"hex"`
}

type resultJSON struct {
	Status bool        `json:"status"`
	Data   *resultData `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// MarshalJSON encodes {"status":true,"data":{"log":..,"hex":..}} on success
// and {"status":false,"error":..} on failure.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Status {
		return json.Marshal(resultJSON{Status: true, Data: &resultData{Log: r.Log, Hex: r.Hex}})
	}
	return json.Marshal(resultJSON{Error: r.Reason})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Result) UnmarshalJSON(b []byte) error {
	var v resultJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Result{Status: v.Status, Reason: v.Error}
	if v.Data != nil {
		r.Log, r.Hex = v.Data.Log, v.Data.Hex
	}
	return nil
}
