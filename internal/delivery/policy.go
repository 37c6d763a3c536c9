package delivery

import (
	"context"
	"time"

	"ftour-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Quote is the fee decision for one instant.
type Quote struct {
	Fee    decimal.Decimal `json:"fee"`
	Window Window          `json:"window"`
	At     time.Time       `json:"at"`
}

// Status tells whether ordering is open and when that changes next.
type Status struct {
	Open  bool      `json:"open"`
	Until time.Time `json:"until"`
}

// QuoteFee returns the fee of the first window containing now's hour, or
// ErrOrderingClosed when no window matches. Boundaries are half-open: the
// end hour belongs to the following window, or to closed if none follows.
func QuoteFee(now time.Time, windows Windows) (Quote, error) {
	hour := now.Hour()
	for _, w := range windows {
		if w.Contains(hour) {
			return Quote{Fee: w.Fee, Window: w, At: now}, nil
		}
	}
	return Quote{At: now}, ErrOrderingClosed
}

// IsOrderingAllowed reports whether QuoteFee would accept an order at now.
func IsOrderingAllowed(now time.Time, windows Windows) bool {
	_, err := QuoteFee(now, windows)
	return err == nil
}

// NextChange reports whether ordering is open at now and the instant at which
// it next closes (when open) or opens (when closed). Adjacent windows form one
// open span. Windows must be ascending.
func NextChange(now time.Time, windows Windows) Status {
	if len(windows) == 0 {
		return Status{}
	}
	hour := now.Hour()
	at := func(day, h int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day()+day, h, 0, 0, 0, now.Location())
	}

	for i, w := range windows {
		if !w.Contains(hour) {
			continue
		}
		end := w.EndHour
		for _, next := range windows[i+1:] {
			if next.StartHour != end {
				break
			}
			end = next.EndHour
		}
		return Status{Open: true, Until: at(0, end)}
	}

	for _, w := range windows {
		if w.StartHour > hour {
			return Status{Open: false, Until: at(0, w.StartHour)}
		}
	}
	return Status{Open: false, Until: at(1, windows[0].StartHour)}
}

// Policy binds windows to a time zone and a clock.
type Policy struct {
	windows Windows
	loc     *time.Location
	now     func() time.Time
}

type Option func(*Policy)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Policy) { p.now = now }
}

func NewPolicy(windows Windows, loc *time.Location, opts ...Option) (*Policy, error) {
	if err := windows.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	p := &Policy{windows: windows, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Policy) Windows() Windows {
	out := make(Windows, len(p.windows))
	copy(out, p.windows)
	return out
}

// Now returns the current instant in the policy time zone.
func (p *Policy) Now() time.Time {
	return p.now().In(p.loc)
}

// Quote prices delivery for the current instant.
func (p *Policy) Quote(ctx context.Context) (Quote, error) {
	now := p.Now()
	q, err := QuoteFee(now, p.windows)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "delivery"),
		zap.Time("at", now),
	)
	if err != nil {
		log.Info("ordering closed", zap.String("windows", p.windows.String()))
		return q, err
	}
	log.Debug("delivery fee quoted", zap.String("fee", q.Fee.String()))
	return q, nil
}

func (p *Policy) Status(ctx context.Context) Status {
	return NextChange(p.Now(), p.windows)
}
