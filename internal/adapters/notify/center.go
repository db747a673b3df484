package notify

import (
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
)

// Center is the toast queue. Entries are append-only, never merged, and each
// self-removes once its TTL passes unless dismissed first. Flush renders
// whatever is pending and drains the queue, which is how one-shot commands
// surface their outcome.
type Center struct {
	clock ports.Clock

	mu      sync.Mutex
	notices []domain.Notification
	failed  bool
}

var _ ports.Notifier = (*Center)(nil)

type styles struct {
	success lipgloss.Style
	error   lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	message lipgloss.Style
}

func newStyles() styles {
	return styles{
		success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		info:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		message: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

func NewCenter(clock ports.Clock) *Center {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Center{clock: clock}
}

func (c *Center) Success(title, message string) {
	c.push(domain.SeveritySuccess, title, message)
}

func (c *Center) Error(title, message string) {
	c.push(domain.SeverityError, title, message)
}

func (c *Center) Warning(title, message string) {
	c.push(domain.SeverityWarning, title, message)
}

func (c *Center) Info(title, message string) {
	c.push(domain.SeverityInfo, title, message)
}

func (c *Center) push(severity domain.Severity, title, message string) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.notices = append(c.notices, domain.Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Title:     title,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.NotificationTTL),
	})
	if severity == domain.SeverityError {
		c.failed = true
	}
}

func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.notices[:0]
	for _, notice := range c.notices {
		if notice.ID != id {
			kept = append(kept, notice)
		}
	}
	c.notices = kept
}

// Pending prunes expired entries and returns the live ones in arrival order.
func (c *Center) Pending() []domain.Notification {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.notices[:0]
	for _, notice := range c.notices {
		if !notice.Expired(now) {
			kept = append(kept, notice)
		}
	}
	c.notices = kept

	out := make([]domain.Notification, len(c.notices))
	copy(out, c.notices)
	return out
}

// Failed reports whether any error-severity notice arrived since the last
// Flush. Commands use it to pick their exit status.
func (c *Center) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.failed
}

// Flush writes all pending notices to w and empties the queue.
func (c *Center) Flush(w io.Writer) {
	pending := c.Pending()

	c.mu.Lock()
	c.notices = nil
	c.failed = false
	c.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	s := newStyles()
	for _, notice := range pending {
		line := renderNotice(notice, s)
		_, _ = io.WriteString(w, line+"\n")
	}
}

func renderNotice(notice domain.Notification, s styles) string {
	var style lipgloss.Style
	switch notice.Severity {
	case domain.SeveritySuccess:
		style = s.success
	case domain.SeverityError:
		style = s.error
	case domain.SeverityWarning:
		style = s.warning
	default:
		style = s.info
	}

	line := style.Render(notice.Title)
	if notice.Message != "" {
		line += " " + s.message.Render(notice.Message)
	}
	return line
}
