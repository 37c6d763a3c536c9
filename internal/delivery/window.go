package delivery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Window is an hour range [StartHour, EndHour) during which orders are
// accepted for Fee.
type Window struct {
	StartHour int             `json:"startHour"`
	EndHour   int             `json:"endHour"`
	Fee       decimal.Decimal `json:"fee"`
}

// Contains reports whether hour falls inside the half-open window.
func (w Window) Contains(hour int) bool {
	return w.StartHour <= hour && hour < w.EndHour
}

func (w Window) String() string {
	return fmt.Sprintf("%d-%d:%s", w.StartHour, w.EndHour, w.Fee.String())
}

// Windows is an ordered list of delivery windows.
type Windows []Window

// Validate checks hour bounds, fees and that windows are ascending and
// do not overlap.
func (ws Windows) Validate() error {
	if len(ws) == 0 {
		return ErrNoWindows
	}
	for i, w := range ws {
		if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
			return fmt.Errorf("%w: %s", ErrInvalidWindow, w)
		}
		if w.Fee.IsNegative() {
			return fmt.Errorf("%w: negative fee in %s", ErrInvalidWindow, w)
		}
		if i > 0 && w.StartHour < ws[i-1].EndHour {
			return fmt.Errorf("%w: %s and %s", ErrOverlappingWindow, ws[i-1], w)
		}
	}
	return nil
}

// String renders the windows in the same text form UnmarshalText accepts.
func (ws Windows) String() string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.String()
	}
	return strings.Join(parts, ",")
}

// UnmarshalText parses "8-13:10,13-15:15" into windows.
func (ws *Windows) UnmarshalText(text []byte) error {
	parsed, err := ParseWindows(string(text))
	if err != nil {
		return err
	}
	*ws = parsed
	return nil
}

// ParseWindows parses a comma separated list of "start-end:fee" entries.
func ParseWindows(s string) (Windows, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrNoWindows
	}

	var ws Windows
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		hours, fee, ok := strings.Cut(raw, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q missing fee", ErrInvalidWindow, raw)
		}
		start, end, ok := strings.Cut(hours, "-")
		if !ok {
			return nil, fmt.Errorf("%w: %q missing hour range", ErrInvalidWindow, raw)
		}

		startHour, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return nil, fmt.Errorf("%w: start hour %q", ErrInvalidWindow, start)
		}
		endHour, err := strconv.Atoi(strings.TrimSpace(end))
		if err != nil {
			return nil, fmt.Errorf("%w: end hour %q", ErrInvalidWindow, end)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(fee))
		if err != nil {
			return nil, fmt.Errorf("%w: fee %q", ErrInvalidWindow, fee)
		}

		ws = append(ws, Window{StartHour: startHour, EndHour: endHour, Fee: amount})
	}

	if err := ws.Validate(); err != nil {
		return nil, err
	}
	return ws, nil
}
