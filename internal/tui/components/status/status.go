// Package status is the notification line under the console. Failed
// instrument commands are reported here.
package status

import (
	"fmt"
	"time"

	"github.com/alkime/scope/internal/tui/style"
)

// Model holds the latest notification.
type Model struct {
	op   string
	err  error
	at   time.Time
	now  func() time.Time
	addr string
}

func New(addr string) *Model {
	return &Model{addr: addr, now: time.Now}
}

// Report records the outcome of op. A nil err clears a previous failure.
func (m *Model) Report(op string, err error) {
	m.op = op
	m.err = err
	m.at = m.now()
}

// Err returns the failure being shown, if any.
func (m *Model) Err() error {
	return m.err
}

// Message returns the plain text of the notification.
func (m *Model) Message() string {
	switch {
	case m.op == "":
		return "instrument " + m.addr
	case m.err == nil:
		return m.op + ": ok"
	default:
		return fmt.Sprintf("%s failed: %v", m.op, m.err)
	}
}

func (m *Model) View(width int) string {
	line := style.Muted
	if m.err != nil {
		line = style.Error
	}

	stamp := ""
	if !m.at.IsZero() {
		stamp = m.at.Format("15:04:05") + " "
	}

	return line.MaxWidth(width).Render(stamp + m.Message())
}

