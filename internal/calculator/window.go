package calculator

import (
	"time"

	"github.com/sdpower/ahelpstats/internal/types"
)

// Window limits aggregation to records between Start and End, both
// inclusive. A zero bound is open.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) (*Window, error) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, types.ValidationError{
			Field:   "window",
			Message: types.ErrInvalidWindow.Error() + ": end is before start",
		}
	}
	return &Window{Start: start, End: end}, nil
}

// Active reports whether the window filters anything. A nil window is inactive.
func (w *Window) Active() bool {
	return w != nil && (!w.Start.IsZero() || !w.End.IsZero())
}

func (w *Window) Contains(t time.Time) bool {
	if !w.Active() {
		return true
	}
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}
