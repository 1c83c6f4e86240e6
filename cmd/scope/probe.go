package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/tui/app"
)

// probe logs every readable setting. The first failure aborts, since
// later reads would fail the same way.
func probe(ctx context.Context, inst instrument.Instrument, addr string) error {
	delay, err := inst.TriggerDelay(ctx)
	if err != nil {
		return fmt.Errorf("failed to read trigger delay from %s: %w", addr, err)
	}

	level, err := inst.TriggerLevel(ctx)
	if err != nil {
		return fmt.Errorf("failed to read trigger level from %s: %w", addr, err)
	}

	slog.Info("Trigger", "addr", addr, "delay", delay, "level", level, "acquiring", inst.IsStarted())

	for _, src := range instrument.Sources() {
		form, err := inst.Form(ctx, src)
		if err != nil {
			return fmt.Errorf("failed to read %v form: %w", src, err)
		}

		amplitude, err := inst.Amplitude(ctx, src)
		if err != nil {
			return fmt.Errorf("failed to read %v amplitude: %w", src, err)
		}

		offset, err := inst.Offset(ctx, src)
		if err != nil {
			return fmt.Errorf("failed to read %v offset: %w", src, err)
		}

		freq, err := inst.Frequency(ctx, src)
		if err != nil {
			return fmt.Errorf("failed to read %v frequency: %w", src, err)
		}

		enabled, err := inst.OutputEnabled(ctx, src)
		if err != nil {
			return fmt.Errorf("failed to read %v output: %w", src, err)
		}

		slog.Info("Generator",
			"source", src,
			"enabled", enabled,
			"form", form.Label(),
			"amplitude", amplitude,
			"offset", offset,
			"frequency", freq,
		)
	}

	return nil
}

// logStatusChanges writes a debug record whenever the status line changes.
func logStatusChanges(ctx context.Context, log *slog.Logger, snapshots <-chan app.Snapshot) {
	var last string

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}

			if snap.Status == last {
				continue
			}

			last = snap.Status
			log.Debug("Status changed",
				"status", snap.Status,
				"acquiring", snap.Acquiring,
				"samples", snap.Samples,
				"frames", snap.Frames,
			)
		}
	}
}
