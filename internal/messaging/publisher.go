package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pixil98/sms-tracker/internal/tracker"
)

const (
	SubjectReport = "tracker.report"
	SubjectGate   = "tracker.gate"
)

type Publisher interface {
	Publish(subject string, data []byte) error
}

// GateEvent is published when the boss gate opens or closes.
type GateEvent struct {
	Open   bool                `json:"open"`
	Checks []tracker.GateCheck `json:"checks"`
	At     time.Time           `json:"at"`
}

// TrackerPublisher forwards tracker updates onto nats subjects.
type TrackerPublisher struct {
	pub Publisher
}

func NewTrackerPublisher(pub Publisher) *TrackerPublisher {
	return &TrackerPublisher{pub: pub}
}

// TrackerUpdated satisfies tracker.Observer. Publish failures are logged;
// a missing subscriber or server must not block tracking.
func (p *TrackerPublisher) TrackerUpdated(ctx context.Context, u tracker.Update) {
	if u.Report == nil {
		return
	}

	p.send(ctx, SubjectReport, u)

	if u.GateChanged {
		p.send(ctx, SubjectGate, GateEvent{
			Open:   u.Report.Gate.Open,
			Checks: u.Report.Gate.Checks,
			At:     u.Report.GeneratedAt,
		})
	}
}

func (p *TrackerPublisher) send(ctx context.Context, subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "marshalling tracker message", "subject", subject, "error", err)
		return
	}
	if err := p.pub.Publish(subject, data); err != nil {
		slog.DebugContext(ctx, "publishing tracker message", "subject", subject, "error", err)
	}
}
