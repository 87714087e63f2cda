package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	vending "github.com/zing-dev/vending-fmt-sdk"
	"github.com/zing-dev/vending-fmt-sdk/kiosk"
)

func init() {
	vending.SetupFlags()
	kiosk.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := vending.MustLoadConfig(vending.ConfigPath())
	client := vending.NewDefaultClient(conf)
	svc, err := kiosk.New(kiosk.ApplyFlags(conf.Kiosk), client)
	if err != nil {
		glog.Fatalln(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	glog.Infof("kiosk %s serving %d rows on %s", svc.ID, len(client.Rows()), svc.Topic(kiosk.TopicDispense))
	if err = svc.Run(ctx); err != nil && err != context.Canceled {
		glog.Errorln(err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Info("stop requested")
}
