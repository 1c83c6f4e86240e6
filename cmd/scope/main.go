package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/alkime/scope/internal/api"
	"github.com/alkime/scope/internal/config"
	"github.com/alkime/scope/internal/instrument"
	"github.com/alkime/scope/internal/instrument/scpi"
	"github.com/alkime/scope/internal/instrument/sim"
	"github.com/alkime/scope/internal/logger"
	"github.com/alkime/scope/internal/scales"
	"github.com/alkime/scope/internal/tui/app"
	"github.com/alkime/scope/pkg/channels"
	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// CLI defines the scope command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch the operator console"`

	Probe   ProbeCmd   `cmd:"" help:"Print the instrument state and exit"`
	Version VersionCmd `cmd:"" help:"Print the version"`
}

// TUICmd is the default command that runs the console.
type TUICmd struct {
	Addr     string `flag:"" optional:"" help:"Instrument address host:port (overrides SCOPE_ADDR)"`
	Simulate bool   `flag:"" help:"Drive a simulated instrument instead of a real one"`
	Listen   string `flag:"" optional:"" help:"Remote control API address (overrides SCOPE_API_LISTEN)"`
}

// Run executes the TUI command.
//
//nolint:funlen // CLI command with multiple setup steps
func (c *TUICmd) Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	if c.Listen != "" {
		cfg.APIListen = c.Listen
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	log := logger.SetupLogger(cfg, logFile)
	log.Info("Starting console", "addr", cfg.Addr, "simulate", c.Simulate, "api", cfg.APIListen)

	inst := openInstrument(cfg.Addr, c.Simulate, log)
	defer func() {
		if err := inst.Close(); err != nil {
			log.Error("Failed to close instrument", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := sync.WaitGroup{}

	// Snapshots fan out to the API status store and the debug log.
	snapshots := channels.NewBroadcaster[app.Snapshot](16)
	storeC := make(chan app.Snapshot, 1)
	debugC := make(chan app.Snapshot, 1)

	if err := snapshots.Subscribe(storeC); err != nil {
		return fmt.Errorf("failed to subscribe status store: %w", err)
	}

	if err := snapshots.Subscribe(debugC); err != nil {
		return fmt.Errorf("failed to subscribe debug log: %w", err)
	}

	if err := snapshots.Run(ctx); err != nil {
		return fmt.Errorf("failed to start snapshot broadcaster: %w", err)
	}

	var status channels.Latest[app.Snapshot]
	wg.Go(func() { status.Run(ctx, storeC) })
	wg.Go(func() { logStatusChanges(ctx, log, debugC) })

	model, err := app.New(inst, app.Options{
		Addr:         displayAddr(cfg.Addr, c.Simulate),
		TickInterval: cfg.TickInterval,
		Timeout:      cfg.Timeout,
		Logger:       log,
		Publish: func(s app.Snapshot) {
			snapshots.Publish(s)
		},
	})
	if errors.Is(err, scales.ErrInvalidScale) {
		log.Error("Invalid instrument scales", "error", err)
		return err
	}

	if err != nil {
		return fmt.Errorf("failed to build console: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())

	if cfg.APIListen != "" {
		srv := api.New(cfg, log, p, &status)
		wg.Go(func() {
			if err := srv.Run(ctx); err != nil {
				log.Error("API server error", "error", err)
			}
		})
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run console: %w", err)
	}

	cancel()
	wg.Wait()
	snapshots.Wait()

	if stats := snapshots.Stats(); len(stats) > 0 {
		log.Debug("Snapshot delivery", "overflow", snapshots.Overflow(), "subscribers", stats)
	}

	log.Info("Console stopped")

	return nil
}

// ProbeCmd reads the instrument state without starting the console.
type ProbeCmd struct {
	Addr     string `flag:"" optional:"" help:"Instrument address host:port (overrides SCOPE_ADDR)"`
	Simulate bool   `flag:"" help:"Probe a simulated instrument"`
}

// Run executes the probe command.
func (c *ProbeCmd) Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	inst := openInstrument(cfg.Addr, c.Simulate, slog.Default())
	defer inst.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*4)
	defer cancel()

	return probe(ctx, inst, cfg.Addr)
}

// VersionCmd prints the build version.
type VersionCmd struct{}

// Run executes the version command.
//
//nolint:unparam // error return required by Kong interface
func (c *VersionCmd) Run() error {
	fmt.Println(version)

	return nil
}

func main() {
	// Set up text-based logger for CLI output
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("scope"),
		kong.Description("Operator console for a networked oscilloscope and signal generator."),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}

func openInstrument(addr string, simulate bool, log *slog.Logger) instrument.Instrument {
	if simulate {
		log.Info("Using simulated instrument")
		return sim.New()
	}

	return scpi.New(addr, scpi.WithLogger(log))
}

func displayAddr(addr string, simulate bool) string {
	if simulate {
		return "simulator"
	}

	return addr
}
