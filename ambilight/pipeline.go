// Package ambilight runs the capture-to-serial pipeline: edge sampling
// on one goroutine, color processing and transmission on another, with
// a latest-wins handoff in between.
package ambilight

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ambiglow/ambiglow/internal/colors"
	"github.com/ambiglow/ambiglow/internal/exchange"
	"github.com/ambiglow/ambiglow/internal/logging"
	"github.com/ambiglow/ambiglow/internal/screen"
)

var logger = logging.New("ambilight")

const (
	// Slot count of the sample exchange (triple buffering).
	exchangeCapacity = 3

	// Shaved off the per-frame sleep so OS timer slop does not push the
	// output rate below target.
	paceSafetyMargin = 500 * time.Microsecond

	// Consumer retry interval when no fresh sample is available yet.
	emptyRetry = time.Millisecond

	statsInterval = 3 * time.Second

	captureJoinTimeout = time.Second
)

// Sender is the device-facing side of the pipeline. The serial
// transmitter implements it; tests substitute a recorder.
type Sender interface {
	Send(payload []byte) error
	Close() error
}

// Pipeline owns the two loops and their shared state. SmoothingState
// (inside the processor) and the sender are touched only by the
// consumer side.
type Pipeline struct {
	cfg     Config
	geo     *screen.Geometry
	grabber screen.Grabber
	sampler *screen.Sampler
	exch    *exchange.Exchange
	proc    *colors.Processor
	sender  Sender

	captureNanos atomic.Int64 // last capture+sample duration, for stats

	mu       sync.Mutex
	fatalErr error
}

// NewPipeline wires the pipeline for a validated config and derived
// geometry. The sender must already be connected.
func NewPipeline(cfg Config, geo *screen.Geometry, grabber screen.Grabber, sender Sender) *Pipeline {
	sampler := screen.NewSampler(geo, cfg.SampleStride)
	return &Pipeline{
		cfg:     cfg,
		geo:     geo,
		grabber: grabber,
		sampler: sampler,
		exch:    exchange.New(exchangeCapacity, sampler.SampleLen()),
		proc:    colors.NewProcessor(geo.LEDCount(), cfg.BrightnessFactor(), cfg.Saturation, cfg.Smoothing),
		sender:  sender,
	}
}

func (p *Pipeline) setFatal(err error) {
	p.mu.Lock()
	if p.fatalErr == nil {
		p.fatalErr = err
	}
	p.mu.Unlock()
}

func (p *Pipeline) fatal() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fatalErr
}

// Run drives the pipeline until ctx is cancelled or a fatal error
// occurs. It always drives the sender to Closed before returning.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.With(
		zap.Int("totalLEDs", p.geo.LEDCount()),
		zap.Int("fps", p.cfg.FPS),
		zap.Int("stride", p.cfg.SampleStride),
		zap.Any("display", p.geo.Display)).
		Info("Starting pipeline")

	captureDone := make(chan struct{})
	go func() {
		defer close(captureDone)
		p.captureLoop(ctx, cancel)
	}()

	err := p.consumeLoop(ctx)
	cancel()

	select {
	case <-captureDone:
	case <-time.After(captureJoinTimeout):
		logger.Warn("capture loop did not stop in time")
	}

	if closeErr := p.sender.Close(); closeErr != nil {
		logger.With(zap.Error(closeErr)).Debug("error closing sender")
	}

	if err != nil {
		return err
	}
	return p.fatal()
}

// captureLoop grabs the three edge regions, samples them, and publishes
// the result. Its rate is capped at roughly twice the target output
// rate; that is only a ceiling to keep the exchange fresh without
// spinning — the consumer loop drives the output cadence.
func (p *Pipeline) captureLoop(ctx context.Context, cancel context.CancelFunc) {
	var left, top, right screen.Frame
	sample := make([]float64, p.sampler.SampleLen())
	ceiling := p.cfg.FramePeriod() / 2

	for ctx.Err() == nil {
		start := time.Now()

		err := p.grabber.Grab(p.geo.Left, &left)
		if err == nil {
			err = p.grabber.Grab(p.geo.Top, &top)
		}
		if err == nil {
			err = p.grabber.Grab(p.geo.Right, &right)
		}
		if err != nil {
			logger.With(zap.Error(err)).Error("Failed to capture screen")
			sleepRemainder(start, ceiling)
			continue
		}

		if err := p.sampler.Sample(&left, &top, &right, sample); err != nil {
			// Dimension mismatch means the geometry no longer describes
			// what the grabber returns. Config bug, not retryable.
			logger.With(zap.Error(err)).Error("Capture geometry violation")
			p.setFatal(err)
			cancel()
			return
		}

		p.exch.Publish(sample)
		p.captureNanos.Store(int64(time.Since(start)))

		sleepRemainder(start, ceiling)
	}
}

// consumeLoop pulls the freshest sample, processes and sends it, and
// paces itself to the target frame period.
func (p *Pipeline) consumeLoop(ctx context.Context) error {
	sample := make([]float64, p.sampler.SampleLen())
	period := p.cfg.FramePeriod()

	var processDur, sendDur time.Duration
	frames := 0
	lastStats := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()

		if !p.exch.TakeLatest(sample) {
			time.Sleep(emptyRetry)
			continue
		}

		processStart := time.Now()
		payload := p.proc.Process(sample)
		processDur = time.Since(processStart)

		sendStart := time.Now()
		if err := p.sender.Send(payload); err != nil {
			logger.With(zap.Error(err)).Error("Send failed, shutting down")
			return err
		}
		sendDur = time.Since(sendStart)

		frames++
		if since := time.Since(lastStats); since > statsInterval {
			logger.With(
				zap.Float64("fps", float64(frames)/since.Seconds()),
				zap.Duration("capture", time.Duration(p.captureNanos.Load())),
				zap.Duration("process", processDur),
				zap.Duration("send", sendDur)).
				Info("Pipeline stats")
			frames = 0
			lastStats = time.Now()
		}

		if remaining := period - time.Since(start) - paceSafetyMargin; remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func sleepRemainder(start time.Time, budget time.Duration) {
	if remaining := budget - time.Since(start); remaining > 0 {
		time.Sleep(remaining)
	}
}
