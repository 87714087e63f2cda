package main

import (
	"flag"

	"github.com/golang/glog"

	vending "github.com/zing-dev/vending-fmt-sdk"
)

func init() {
	vending.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := vending.MustLoadConfig(vending.ConfigPath())
	New(conf, vending.NewDefaultClient(conf)).Run(flag.Args()...)
}
