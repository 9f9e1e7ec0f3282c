package health

import (
	"log/slog"
	"time"

	"bimbuddy/internal/domain"
)

// DefaultInterval is how often the dictionary service is probed.
const DefaultInterval = 10 * time.Second

// Status is the connectivity of the dictionary service.
type Status int

const (
	Connecting Status = iota
	Connected
	Disconnected
)

func (s Status) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "connecting"
	}
}

// Snapshot is the last known health of the service.
type Snapshot struct {
	Status         Status
	DictionarySize int
	AIModel        string
	CheckedAt      time.Time
}

// Monitor owns the connection state shown by the main screen.
// It is not safe for concurrent use.
type Monitor struct {
	snap Snapshot
	log  *slog.Logger
	now  func() time.Time
}

// NewMonitor creates a monitor in the Connecting state.
func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Monitor{log: logger.With("component", "health"), now: time.Now}
}

// Snapshot returns the current state.
func (m *Monitor) Snapshot() Snapshot { return m.snap }

// Observe classifies the outcome of one probe and stores it.
func (m *Monitor) Observe(resp domain.HealthResponse, err error) Snapshot {
	prev := m.snap.Status
	next := Snapshot{CheckedAt: m.now()}
	switch {
	case err != nil:
		next.Status = Disconnected
		m.log.Debug("health probe failed", slog.String("error", err.Error()))
	case resp.Status != "healthy":
		next.Status = Disconnected
		m.log.Debug("backend not healthy", slog.String("status", resp.Status))
	default:
		next.Status = Connected
		next.DictionarySize = resp.DictionarySize
		next.AIModel = resp.AIModel
	}
	if next.Status != prev {
		m.log.Info("backend status changed",
			slog.String("from", prev.String()),
			slog.String("to", next.Status.String()),
			slog.Int("dictionary_size", next.DictionarySize),
		)
	}
	m.snap = next
	return next
}

// Reset returns the monitor to Connecting, as when the main screen reopens.
func (m *Monitor) Reset() { m.snap = Snapshot{} }

