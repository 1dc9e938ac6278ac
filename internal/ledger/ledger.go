// Package ledger owns credit accounting and the completed-load history.
//
// Credit is only ever increased here, half a point per step; the single
// exception is ResetAll, which the caller must confirm out of band.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/mquinn/chorewheel/internal/models"
)

// StepCredit is the credit awarded for one step of a load (a run or an
// unload). A member doing both steps earns twice this.
const StepCredit = 0.5

// HistoryCap bounds the history log. Older entries fall off silently.
const HistoryCap = 200

// RecordCompletion credits ranBy and unloadedBy with half a point each
// and prepends a history entry. When one member did both steps they
// receive the full point. Missing credit entries are created on demand,
// so this never fails.
func RecordCompletion(s models.State, kind models.Kind, ranBy, unloadedBy string, now time.Time) models.State {
	out := s.Clone()
	out.Credits[ranBy] += StepCredit
	out.Credits[unloadedBy] += StepCredit

	entry := models.Entry{
		ID:           uuid.New().String(),
		Timestamp:    now.Unix(),
		Kind:         kind,
		RanBy:        ranBy,
		UnloadedBy:   unloadedBy,
		RunCredit:    StepCredit,
		UnloadCredit: StepCredit,
	}
	out.History = append([]models.Entry{entry}, out.History...)
	if len(out.History) > HistoryCap {
		out.History = out.History[:HistoryCap]
	}
	return out
}

// ResetAll zeroes every roster member's credit. The history log is kept.
// This is destructive and irreversible; callers are expected to have
// confirmed the action with the user first.
func ResetAll(s models.State) models.State {
	out := s.Clone()
	for _, name := range out.Roster {
		out.Credits[name] = 0
	}
	return out
}

// Recent returns up to n history entries, newest first, for display.
func Recent(s models.State, n int) []models.Entry {
	if n > len(s.History) {
		n = len(s.History)
	}
	out := make([]models.Entry, n)
	copy(out, s.History[:n])
	return out
}
