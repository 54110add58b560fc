package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ambiglow/ambiglow/ambilight"
	"github.com/ambiglow/ambiglow/internal/lights"
	"github.com/ambiglow/ambiglow/internal/logging"
	"github.com/ambiglow/ambiglow/internal/screen"
)

var logger = logging.New("main")

func main() {
	defer logger.Sync()

	cfg, err := ambilight.FromEnv()
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to parse environment variables")
	}

	flag.StringVar(&cfg.Port, "port", cfg.Port, `serial device, or "auto" to detect`)
	flag.IntVar(&cfg.Monitor, "monitor", cfg.Monitor, "monitor index (0 = primary)")
	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "target output frame rate (max 60)")
	flag.IntVar(&cfg.Brightness, "brightness", cfg.Brightness, "brightness 0-255")
	flag.Float64Var(&cfg.Saturation, "saturation", cfg.Saturation, "saturation boost factor")
	flag.Float64Var(&cfg.Smoothing, "smoothing", cfg.Smoothing, "temporal smoothing coefficient in (0,1]")
	listPorts := flag.Bool("list-ports", false, "list detected serial ports and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logging.SetDebug(*debug)

	if *listPorts {
		printPorts()
		return
	}

	if err := cfg.Validate(); err != nil {
		logger.With(zap.Error(err)).Fatal("Invalid configuration")
	}

	logger.With(zap.Any("config", cfg)).Info("Starting ambient lighting")
	logger.Info("Press Ctrl+C to stop")

	bounds := screen.DisplayBounds(cfg.Monitor)
	geo := screen.NewGeometry(bounds, cfg.CaptureDepth, cfg.LeftLEDs, cfg.TopLEDs, cfg.RightLEDs)

	tx := lights.NewTransmitter(geo.LEDCount())
	if err := tx.Open(cfg.Port); err != nil {
		printPorts()
		logger.With(zap.Error(err)).Fatal("Failed to open serial port")
	}

	ctx, cancel := context.WithCancel(context.Background())
	pipeline := ambilight.NewPipeline(cfg, geo, screen.NewDisplayGrabber(), tx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- pipeline.Run(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-shutdown:
		logger.Info("Shutting down")
		cancel()
		if err := <-errCh; err != nil {
			logger.With(zap.Error(err)).Fatal("Pipeline failed during shutdown")
		}
	case err := <-errCh:
		cancel()
		if err != nil {
			logger.With(zap.Error(err)).Fatal("Pipeline failed")
		}
	}
	logger.Info("Shutdown complete")
}

func printPorts() {
	ports, err := lights.ListPorts()
	if err != nil {
		logger.With(zap.Error(err)).Error("Failed to enumerate serial ports")
		return
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return
	}
	fmt.Println("Available ports:")
	for _, p := range ports {
		if p.Description != "" {
			fmt.Printf("  %s: %s\n", p.Device, p.Description)
		} else {
			fmt.Printf("  %s\n", p.Device)
		}
	}
}
