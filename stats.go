package main

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

const statsURL = "/debug/statsview"

// LaunchStats starts the runtime statistics server (heap, goroutines, GC)
// in the background.
func LaunchStats(addr string, logger *log.Logger) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	logger.Info("Stats server available", log.String("url", "http://"+addr+statsURL))
}
