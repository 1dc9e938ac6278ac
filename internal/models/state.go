package models

import (
	"fmt"
	"slices"
)

// Kind identifies which daily load a history entry records.
type Kind string

const (
	// KindAfternoon is the after-lunch load.
	KindAfternoon Kind = "afternoon"
	// KindNight is the after-dinner load.
	KindNight Kind = "night"
)

// ParseKind validates a load kind supplied by a client.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAfternoon, KindNight:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown load kind %q (want %q or %q)", s, KindAfternoon, KindNight)
}

// Entry is one completed load in the history log. Entries are immutable
// once recorded.
type Entry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string `json:"id"`

	// Timestamp is the Unix timestamp when the load was recorded.
	Timestamp int64 `json:"ts"`

	// Kind is which load this was, afternoon or night.
	Kind Kind `json:"kind"`

	// RanBy is the member who started the load.
	RanBy string `json:"ran_by"`

	// UnloadedBy is the member who emptied it. May equal RanBy.
	UnloadedBy string `json:"unloaded_by"`

	// RunCredit and UnloadCredit record the credit awarded for each
	// step at the time of completion.
	RunCredit    float64 `json:"run_credit"`
	UnloadCredit float64 `json:"unload_credit"`
}

// State is the whole application document. See the package doc for the
// relationships between fields.
type State struct {
	// Roster is the ordered list of member names. Names are unique and
	// non-blank.
	Roster []string `json:"roster"`

	// Queue is a permutation of Roster: an active prefix in rotation
	// order followed by the paused members.
	Queue []string `json:"queue"`

	// Paused marks members excluded from the active rotation. Only
	// true entries are meaningful; absent means active.
	Paused map[string]bool `json:"paused"`

	// Credits is the accumulated credit per member, in 0.5 increments.
	Credits map[string]float64 `json:"credits"`

	// History is the completed-load log, newest first, capped by the
	// ledger package.
	History []Entry `json:"history"`

	// PINs maps a member name to their numeric PIN. No entry means the
	// member has no PIN and their actions are not gated.
	PINs map[string]string `json:"pins"`
}

// DefaultRoster is the placeholder roster used on first run, before the
// household replaces it with real names.
var DefaultRoster = []string{"Alex", "Bailey", "Casey", "Drew"}

// Default returns the document used when no state has been stored yet.
func Default() State {
	roster := slices.Clone(DefaultRoster)
	return State{
		Roster:  roster,
		Queue:   slices.Clone(roster),
		Paused:  map[string]bool{},
		Credits: map[string]float64{},
		History: []Entry{},
		PINs:    map[string]string{},
	}
}

// Clone returns a deep copy of the document. Transitions copy first and
// modify the copy, so callers can hold the old value safely.
func (s State) Clone() State {
	out := State{
		Roster:  slices.Clone(s.Roster),
		Queue:   slices.Clone(s.Queue),
		Paused:  make(map[string]bool, len(s.Paused)),
		Credits: make(map[string]float64, len(s.Credits)),
		History: slices.Clone(s.History),
		PINs:    make(map[string]string, len(s.PINs)),
	}
	for k, v := range s.Paused {
		out.Paused[k] = v
	}
	for k, v := range s.Credits {
		out.Credits[k] = v
	}
	for k, v := range s.PINs {
		out.PINs[k] = v
	}
	return out
}

// HasMember reports whether name is on the roster.
func (s State) HasMember(name string) bool {
	return slices.Contains(s.Roster, name)
}

// Normalize repairs a freshly loaded document: nil maps become empty
// maps and the queue is rebuilt if it is not a permutation of the
// roster (for example after a hand-edited or partially written file).
func (s State) Normalize() State {
	out := s.Clone()
	if out.Paused == nil {
		out.Paused = map[string]bool{}
	}
	if out.Credits == nil {
		out.Credits = map[string]float64{}
	}
	if out.PINs == nil {
		out.PINs = map[string]string{}
	}
	if out.History == nil {
		out.History = []Entry{}
	}
	if !isPermutation(out.Queue, out.Roster) {
		out.Queue = slices.Clone(out.Roster)
	}
	return out
}

func isPermutation(queue, roster []string) bool {
	if len(queue) != len(roster) {
		return false
	}
	seen := make(map[string]bool, len(roster))
	for _, name := range roster {
		seen[name] = true
	}
	for _, name := range queue {
		if !seen[name] {
			return false
		}
		delete(seen, name)
	}
	return len(seen) == 0
}
