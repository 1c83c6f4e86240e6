package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alkime/scope/internal/instrument/sim"
	"github.com/alkime/scope/internal/tui/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	inst := sim.New()
	require.NoError(t, probe(t.Context(), inst, "sim"))

	assert.Contains(t, inst.Calls(), "trigger.delay")
	assert.Contains(t, inst.Calls(), "generator.output OUT2")

	boom := errors.New("boom")
	inst.Fail("generator.frequency OUT1", boom)
	require.ErrorIs(t, probe(t.Context(), inst, "sim"), boom)
}

func TestLogStatusChanges(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ch := make(chan app.Snapshot, 3)
	ch <- app.Snapshot{Status: "acquire start: ok"}
	ch <- app.Snapshot{Status: "acquire start: ok"}
	ch <- app.Snapshot{Status: "acquire stop: ok"}
	close(ch)

	logStatusChanges(context.Background(), log, ch)

	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("Status changed")))
}
