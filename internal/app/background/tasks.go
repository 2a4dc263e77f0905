package background

import (
	"context"
	"log/slog"
	"time"
)

// Prober is anything that checks a dependency and records the result.
type Prober interface {
	Probe(ctx context.Context) error
}

type BackgroundTasks struct {
	Health        Prober
	ProbeInterval time.Duration
}

func NewBackgroundTasks(health Prober, interval time.Duration) *BackgroundTasks {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &BackgroundTasks{Health: health, ProbeInterval: interval}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startHealthProbe(ctx)
}

func (bt *BackgroundTasks) startHealthProbe(ctx context.Context) {
	bt.probe(ctx)

	ticker := time.NewTicker(bt.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.probe(ctx)
		}
	}
}

func (bt *BackgroundTasks) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, bt.ProbeInterval/2)
	defer cancel()
	if err := bt.Health.Probe(probeCtx); err != nil {
		slog.Warn("health probe failed", "error", err)
	}
}
