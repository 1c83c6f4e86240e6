// Package scpi talks to a Red Pitaya style instrument over its SCPI TCP
// server.
package scpi

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alkime/scope/internal/instrument"
)

const (
	// DefaultTimeout bounds a call whose context carries no deadline.
	DefaultTimeout = 2 * time.Second

	terminator = "\r\n"
)

var _ instrument.Instrument = (*Client)(nil)

// Client is an instrument.Instrument backed by one TCP connection. The
// connection is dialed on first use and redialed after a transport error.
type Client struct {
	addr   string
	dialer net.Dialer
	logger *slog.Logger

	mu      sync.Mutex
	conn    net.Conn
	reader  *bufio.Reader
	started bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger routes command traces to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New returns a client for addr ("host:port"). No connection is made until
// the first command.
func New(addr string, opts ...Option) *Client {
	c := &Client{
		addr:   addr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Addr returns the instrument address.
func (c *Client) Addr() string {
	return c.addr
}

// Close drops the connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dropLocked()
}

func (c *Client) dropLocked() error {
	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	c.reader = nil

	return err
}

func (c *Client) connLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", instrument.ErrUnreachable, c.addr, err)
	}

	c.logger.Debug("instrument connected", "addr", c.addr)
	c.conn = conn
	c.reader = bufio.NewReader(conn)

	return nil
}

func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}

	return time.Now().Add(DefaultTimeout)
}

// exchange writes cmd and, when wantReply is set, reads one reply line.
func (c *Client) exchange(ctx context.Context, cmd string, wantReply bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", instrument.ErrUnreachable, err)
	}

	if err := c.connLocked(ctx); err != nil {
		return "", err
	}

	if err := c.conn.SetDeadline(deadline(ctx)); err != nil {
		_ = c.dropLocked()
		return "", fmt.Errorf("%w: %w", instrument.ErrUnreachable, err)
	}

	c.logger.Debug("scpi send", "cmd", cmd)

	if _, err := c.conn.Write([]byte(cmd + terminator)); err != nil {
		_ = c.dropLocked()
		return "", fmt.Errorf("%w: write %q: %w", instrument.ErrUnreachable, cmd, err)
	}

	if !wantReply {
		return "", nil
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		_ = c.dropLocked()
		return "", fmt.Errorf("%w: read reply to %q: %w", instrument.ErrUnreachable, cmd, err)
	}

	return strings.TrimRight(line, terminator), nil
}

func (c *Client) send(ctx context.Context, format string, args ...any) error {
	_, err := c.exchange(ctx, fmt.Sprintf(format, args...), false)
	return err
}

func (c *Client) query(ctx context.Context, format string, args ...any) (string, error) {
	return c.exchange(ctx, fmt.Sprintf(format, args...), true)
}

func (c *Client) queryFloat(ctx context.Context, cmd string) (float32, error) {
	reply, err := c.query(ctx, "%s", cmd)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(reply), 32)
	if err != nil {
		return 0, &instrument.ProtocolError{Command: cmd, Reply: reply, Err: err}
	}

	return float32(v), nil
}

func (c *Client) queryUint(ctx context.Context, cmd string, bits int) (uint64, error) {
	reply, err := c.query(ctx, "%s", cmd)
	if err != nil {
		return 0, err
	}

	s := strings.TrimSpace(reply)

	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		// Some firmware replies "1000.0" for integral settings.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f < 0 {
			return 0, &instrument.ProtocolError{Command: cmd, Reply: reply, Err: err}
		}

		v = uint64(f)
		if bits < 64 && v >= 1<<bits {
			return 0, &instrument.ProtocolError{Command: cmd, Reply: reply, Err: err}
		}
	}

	return v, nil
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// Start begins acquisition.
func (c *Client) Start(ctx context.Context) error {
	if err := c.send(ctx, "ACQ:START"); err != nil {
		return err
	}

	c.mu.Lock()
	c.started = true
	c.mu.Unlock()

	return nil
}

// Stop halts acquisition.
func (c *Client) Stop(ctx context.Context) error {
	if err := c.send(ctx, "ACQ:STOP"); err != nil {
		return err
	}

	c.mu.Lock()
	c.started = false
	c.mu.Unlock()

	return nil
}

// IsStarted reports the state after the last successful Start or Stop.
func (c *Client) IsStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.started
}

func (c *Client) Amplitude(ctx context.Context, src instrument.Source) (float32, error) {
	return c.queryFloat(ctx, fmt.Sprintf("SOUR%d:VOLT?", src))
}

func (c *Client) SetAmplitude(ctx context.Context, src instrument.Source, v float32) error {
	return c.send(ctx, "SOUR%d:VOLT %s", src, formatFloat(v))
}

func (c *Client) Offset(ctx context.Context, src instrument.Source) (float32, error) {
	return c.queryFloat(ctx, fmt.Sprintf("SOUR%d:VOLT:OFFS?", src))
}

func (c *Client) SetOffset(ctx context.Context, src instrument.Source, v float32) error {
	return c.send(ctx, "SOUR%d:VOLT:OFFS %s", src, formatFloat(v))
}

func (c *Client) Frequency(ctx context.Context, src instrument.Source) (uint32, error) {
	v, err := c.queryUint(ctx, fmt.Sprintf("SOUR%d:FREQ:FIX?", src), 32)
	return uint32(v), err
}

func (c *Client) SetFrequency(ctx context.Context, src instrument.Source, v uint32) error {
	return c.send(ctx, "SOUR%d:FREQ:FIX %d", src, v)
}

func (c *Client) DutyCycle(ctx context.Context, src instrument.Source) (float32, error) {
	return c.queryFloat(ctx, fmt.Sprintf("SOUR%d:DCYC?", src))
}

func (c *Client) SetDutyCycle(ctx context.Context, src instrument.Source, v float32) error {
	return c.send(ctx, "SOUR%d:DCYC %s", src, formatFloat(v))
}

func (c *Client) Form(ctx context.Context, src instrument.Source) (instrument.Form, error) {
	cmd := fmt.Sprintf("SOUR%d:FUNC?", src)

	reply, err := c.query(ctx, "%s", cmd)
	if err != nil {
		return "", err
	}

	f, err := instrument.ParseForm(reply)
	if err != nil {
		return "", &instrument.ProtocolError{Command: cmd, Reply: reply, Err: err}
	}

	return f, nil
}

func (c *Client) SetForm(ctx context.Context, src instrument.Source, f instrument.Form) error {
	return c.send(ctx, "SOUR%d:FUNC %s", src, f)
}

func (c *Client) OutputEnabled(ctx context.Context, src instrument.Source) (bool, error) {
	cmd := fmt.Sprintf("OUTPUT%d:STATE?", src)

	reply, err := c.query(ctx, "%s", cmd)
	if err != nil {
		return false, err
	}

	switch strings.ToUpper(strings.TrimSpace(reply)) {
	case "ON", "1":
		return true, nil
	case "OFF", "0":
		return false, nil
	default:
		return false, &instrument.ProtocolError{Command: cmd, Reply: reply}
	}
}

func (c *Client) StartOutput(ctx context.Context, src instrument.Source) error {
	return c.send(ctx, "OUTPUT%d:STATE ON", src)
}

func (c *Client) StopOutput(ctx context.Context, src instrument.Source) error {
	return c.send(ctx, "OUTPUT%d:STATE OFF", src)
}

// TriggerDelay returns the trigger delay in samples.
func (c *Client) TriggerDelay(ctx context.Context) (uint16, error) {
	v, err := c.queryUint(ctx, "ACQ:TRIG:DLY?", 16)
	return uint16(v), err
}

func (c *Client) SetTriggerDelay(ctx context.Context, v uint16) error {
	return c.send(ctx, "ACQ:TRIG:DLY %d", v)
}

// TriggerLevel returns the trigger level in volts.
func (c *Client) TriggerLevel(ctx context.Context) (float32, error) {
	return c.queryFloat(ctx, "ACQ:TRIG:LEV?")
}

func (c *Client) SetTriggerLevel(ctx context.Context, v float32) error {
	return c.send(ctx, "ACQ:TRIG:LEV %s", formatFloat(v))
}

// ReadAll fetches the whole acquisition buffer of ch.
func (c *Client) ReadAll(ctx context.Context, ch instrument.Channel) ([]float64, error) {
	cmd := fmt.Sprintf("ACQ:SOUR%d:DATA?", ch)

	reply, err := c.query(ctx, "%s", cmd)
	if err != nil {
		return nil, err
	}

	samples, err := ParseSamples(reply)
	if err != nil {
		return nil, &instrument.ProtocolError{Command: cmd, Reply: truncate(reply), Err: err}
	}

	return samples, nil
}

var errNotBraced = errors.New("reply is not a braced list")

// ParseSamples decodes a "{v,v,...}" sample list.
func ParseSamples(reply string) ([]float64, error) {
	s := strings.TrimSpace(reply)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, errNotBraced
	}

	s = strings.TrimSpace(s[1 : len(s)-1])
	if s == "" {
		return []float64{}, nil
	}

	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))

	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}

		out = append(out, v)
	}

	return out, nil
}

func truncate(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}
