// Package rotation owns the rotation queue: roster replacement, manual
// reordering, pausing and the advance step after a completed load.
//
// Every function takes a State value and returns a new one; nothing here
// mutates its input or touches storage.
package rotation

import (
	"errors"
	"strings"

	"github.com/mquinn/chorewheel/internal/models"
)

var (
	// ErrEmptyRoster is returned when a roster replacement contains no
	// usable names after trimming and deduplication.
	ErrEmptyRoster = errors.New("roster must contain at least one name")

	// ErrUnknownParticipant is returned when an operation references a
	// name that is not on the roster.
	ErrUnknownParticipant = errors.New("participant is not on the roster")

	// ErrIndexOutOfRange is returned by Reorder when a position falls
	// outside the active part of the queue.
	ErrIndexOutOfRange = errors.New("position is outside the active queue")
)

// Partition splits the queue into its active and paused parts, in queue
// order. The active part determines the next assignee.
func Partition(s models.State) (active, paused []string) {
	for _, name := range s.Queue {
		if s.Paused[name] {
			paused = append(paused, name)
		} else {
			active = append(active, name)
		}
	}
	return active, paused
}

// CurrentAssignee returns the member expected to run the next load: the
// head of the active queue. ok is false when everyone is paused or the
// roster is empty.
func CurrentAssignee(s models.State) (name string, ok bool) {
	active, _ := Partition(s)
	if len(active) == 0 {
		return "", false
	}
	return active[0], true
}

// NextAssignee returns the member after the current assignee, if any.
func NextAssignee(s models.State) (name string, ok bool) {
	active, _ := Partition(s)
	if len(active) < 2 {
		return "", false
	}
	return active[1], true
}

// SetRoster replaces the roster wholesale. Names are trimmed and
// deduplicated preserving first occurrence; blanks are dropped. The
// queue is rebuilt in roster order (active members first), and credit,
// PIN and paused entries are carried over for names that persist while
// new names start with zero credit and no PIN.
func SetRoster(s models.State, names []string) (models.State, error) {
	var roster []string
	seen := make(map[string]bool, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		roster = append(roster, name)
	}
	if len(roster) == 0 {
		return s, ErrEmptyRoster
	}

	out := s.Clone()
	out.Roster = roster

	// Derived maps keep entries only for surviving names.
	out.Paused = pruneBool(out.Paused, seen)
	out.PINs = pruneString(out.PINs, seen)
	credits := make(map[string]float64, len(roster))
	for _, name := range roster {
		credits[name] = out.Credits[name]
	}
	out.Credits = credits

	// Queue in roster order, partitioned active-then-paused.
	out.Queue = out.Queue[:0]
	for _, name := range roster {
		if !out.Paused[name] {
			out.Queue = append(out.Queue, name)
		}
	}
	for _, name := range roster {
		if out.Paused[name] {
			out.Queue = append(out.Queue, name)
		}
	}
	return out, nil
}

// Reorder moves the active member at position from to position to. The
// paused tail of the queue is untouched. Equal positions are a no-op.
func Reorder(s models.State, from, to int) (models.State, error) {
	active, paused := Partition(s)
	if from < 0 || from >= len(active) || to < 0 || to >= len(active) {
		return s, ErrIndexOutOfRange
	}
	if from == to {
		return s, nil
	}

	out := s.Clone()
	moved := active[from]
	active = append(active[:from], active[from+1:]...)
	active = append(active[:to], append([]string{moved}, active[to:]...)...)
	out.Queue = append(active, paused...)
	return out, nil
}

// Advance rotates the active queue left by one, moving the head to the
// back. Paused members keep their places. A fully paused or empty queue
// is left as is.
func Advance(s models.State) models.State {
	active, paused := Partition(s)
	if len(active) < 2 {
		return s
	}
	out := s.Clone()
	rotated := append(active[1:], active[0])
	out.Queue = append(rotated, paused...)
	return out
}

// TogglePause flips the paused flag for name and repartitions the queue
// active-first, preserving relative order within each part. An unpaused
// member therefore re-enters at the end of the active queue, not at
// their old position.
func TogglePause(s models.State, name string) (models.State, error) {
	if !s.HasMember(name) {
		return s, ErrUnknownParticipant
	}
	out := s.Clone()
	if out.Paused[name] {
		delete(out.Paused, name)
	} else {
		out.Paused[name] = true
	}
	active, paused := Partition(out)
	out.Queue = append(active, paused...)
	return out, nil
}

func pruneBool(m map[string]bool, keep map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		if keep[k] && v {
			out[k] = v
		}
	}
	return out
}

func pruneString(m map[string]string, keep map[string]bool) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if keep[k] {
			out[k] = v
		}
	}
	return out
}
