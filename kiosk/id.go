package kiosk

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const appID = "fmt-vending"

// MachineID returns a stable kiosk id derived from the machine id.
// It falls back to the host name when the machine id is unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id[:12]
	}
	glog.Warningf("kiosk: machine id: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "kiosk"
}
