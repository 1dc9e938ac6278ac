// Package service orchestrates the application: it owns the in-memory
// state document, applies transitions from the rotation, ledger and auth
// packages, and mirrors every committed change to storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mquinn/chorewheel/internal/auth"
	"github.com/mquinn/chorewheel/internal/ledger"
	"github.com/mquinn/chorewheel/internal/models"
	"github.com/mquinn/chorewheel/internal/rotation"
	"github.com/mquinn/chorewheel/internal/storage"
)

var (
	// ErrConfirmationRequired is returned by ResetCredits when the
	// caller has not confirmed the destructive reset.
	ErrConfirmationRequired = errors.New("credit reset requires confirmation")

	// ErrPersistence wraps storage failures after a committed change.
	// The in-memory document remains the source of truth for the
	// session; the change is not rolled back.
	ErrPersistence = errors.New("failed to persist state")
)

// RecentHistory is how many history entries a snapshot carries for
// display. The full log (up to the ledger cap) stays persisted.
const RecentHistory = 20

// Service owns the state document and coordinates all mutations.
type Service struct {
	// mu guards state. The product assumes a single active user, but
	// HTTP handlers still run concurrently.
	mu    sync.Mutex
	state models.State
	store storage.Store
}

// New loads the stored document, falling back to the default document
// when nothing is stored yet or the stored bytes are unreadable.
func New(ctx context.Context, store storage.Store) (*Service, error) {
	state, err := store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		slog.Info("No stored state, starting with default roster")
		state = models.Default()
	case errors.Is(err, storage.ErrCorrupt):
		slog.Warn("Stored state unreadable, replacing with default", "error", err)
		state = models.Default()
	default:
		slog.Error("Failed to load state, running in memory only", "error", err)
		state = models.Default()
	}
	return &Service{state: state, store: store}, nil
}

// Snapshot is the read model served to the UI.
type Snapshot struct {
	Roster  []string           `json:"roster"`
	Active  []string           `json:"active"`
	Paused  []string           `json:"paused"`
	Current string             `json:"current"`
	Next    string             `json:"next"`
	Credits map[string]float64 `json:"credits"`
	History []models.Entry     `json:"history"`
	PINSet  map[string]bool    `json:"pin_set"`
}

// Snapshot returns the current read model: roster, queue partitions,
// assignees, credits and the most recent history entries. PINs are
// reported only as set/unset.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	st := s.state
	active, paused := rotation.Partition(st)
	current, _ := rotation.CurrentAssignee(st)
	next, _ := rotation.NextAssignee(st)

	credits := make(map[string]float64, len(st.Roster))
	pinSet := make(map[string]bool, len(st.Roster))
	for _, name := range st.Roster {
		credits[name] = st.Credits[name]
		_, pinSet[name] = st.PINs[name]
	}

	return Snapshot{
		Roster:  append([]string(nil), st.Roster...),
		Active:  active,
		Paused:  paused,
		Current: current,
		Next:    next,
		Credits: credits,
		History: ledger.Recent(st, RecentHistory),
		PINSet:  pinSet,
	}
}

// SetRoster replaces the roster. See rotation.SetRoster for the
// re-derivation rules.
func (s *Service) SetRoster(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := rotation.SetRoster(s.state, names)
	if err != nil {
		return err
	}
	slog.Info("Roster replaced", "members", next.Roster)
	return s.persistLocked(ctx, next)
}

// Reorder moves an active queue member from one position to another.
func (s *Service) Reorder(ctx context.Context, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := rotation.Reorder(s.state, from, to)
	if err != nil {
		return err
	}
	return s.persistLocked(ctx, next)
}

// TogglePause pauses or resumes a member.
func (s *Service) TogglePause(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := rotation.TogglePause(s.state, name)
	if err != nil {
		return err
	}
	slog.Info("Pause toggled", "member", name, "paused", next.Paused[name])
	return s.persistLocked(ctx, next)
}

// SetPIN sets or clears a member's PIN.
func (s *Service) SetPIN(ctx context.Context, name, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := auth.SetPIN(s.state, name, pin)
	if err != nil {
		return err
	}
	_, set := next.PINs[name]
	slog.Info("PIN updated", "member", name, "set", set)
	return s.persistLocked(ctx, next)
}

// Authorize checks a member's PIN without changing any state. It is the
// first phase of the two-phase completion flow.
func (s *Service) Authorize(name, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.HasMember(name) {
		return rotation.ErrUnknownParticipant
	}
	if !auth.Authorize(s.state, name, secret) {
		return auth.ErrPINMismatch
	}
	return nil
}

// DefaultRunner returns the member a new load defaults to: the head of
// the active queue, or the first roster member when everyone is paused.
func (s *Service) DefaultRunner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return defaultRunner(s.state)
}

func defaultRunner(st models.State) string {
	if name, ok := rotation.CurrentAssignee(st); ok {
		return name
	}
	if len(st.Roster) > 0 {
		return st.Roster[0]
	}
	return ""
}

// CompleteLoad records a completed load as one all-or-nothing action:
// both identities are authorized before any credit is recorded or the
// queue advances. An empty ranBy defaults to the current assignee; an
// empty unloadedBy defaults to ranBy.
func (s *Service) CompleteLoad(ctx context.Context, kind models.Kind, ranBy, runSecret, unloadedBy, unloadSecret string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranBy, unloadedBy, err := s.resolveLocked(ranBy, unloadedBy)
	if err != nil {
		return models.Entry{}, err
	}
	if !auth.Authorize(s.state, ranBy, runSecret) {
		return models.Entry{}, fmt.Errorf("runner %s: %w", ranBy, auth.ErrPINMismatch)
	}
	if !auth.Authorize(s.state, unloadedBy, unloadSecret) {
		return models.Entry{}, fmt.Errorf("unloader %s: %w", unloadedBy, auth.ErrPINMismatch)
	}
	return s.commitLocked(ctx, kind, ranBy, unloadedBy)
}

// CompleteLoadAuthorized records a completed load for identities whose
// PIN checks already happened, e.g. via grant tokens. Defaulting rules
// match CompleteLoad.
func (s *Service) CompleteLoadAuthorized(ctx context.Context, kind models.Kind, ranBy, unloadedBy string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranBy, unloadedBy, err := s.resolveLocked(ranBy, unloadedBy)
	if err != nil {
		return models.Entry{}, err
	}
	return s.commitLocked(ctx, kind, ranBy, unloadedBy)
}

// QuickClaim records a load where a single member claims one step. For
// a run claim the claimant also takes the unload; for an unload claim
// the run defaults to the current assignee. Only the claimant's PIN is
// checked.
func (s *Service) QuickClaim(ctx context.Context, kind models.Kind, role auth.Role, name, secret string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.HasMember(name) {
		return models.Entry{}, rotation.ErrUnknownParticipant
	}
	if !auth.Authorize(s.state, name, secret) {
		return models.Entry{}, fmt.Errorf("%s: %w", name, auth.ErrPINMismatch)
	}
	ranBy, unloadedBy := s.claimPairLocked(role, name)
	return s.commitLocked(ctx, kind, ranBy, unloadedBy)
}

// QuickClaimAuthorized is QuickClaim for a claimant holding a grant.
func (s *Service) QuickClaimAuthorized(ctx context.Context, kind models.Kind, role auth.Role, name string) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.HasMember(name) {
		return models.Entry{}, rotation.ErrUnknownParticipant
	}
	ranBy, unloadedBy := s.claimPairLocked(role, name)
	return s.commitLocked(ctx, kind, ranBy, unloadedBy)
}

func (s *Service) claimPairLocked(role auth.Role, name string) (ranBy, unloadedBy string) {
	if role == auth.RoleUnload {
		// The nominal assignee is assumed to have run it. This can
		// credit the assignee without an explicit run event; the
		// household treats that as close enough.
		return defaultRunner(s.state), name
	}
	return name, name
}

func (s *Service) resolveLocked(ranBy, unloadedBy string) (string, string, error) {
	if ranBy == "" {
		ranBy = defaultRunner(s.state)
	}
	if unloadedBy == "" {
		unloadedBy = ranBy
	}
	if !s.state.HasMember(ranBy) {
		return "", "", fmt.Errorf("runner %s: %w", ranBy, rotation.ErrUnknownParticipant)
	}
	if !s.state.HasMember(unloadedBy) {
		return "", "", fmt.Errorf("unloader %s: %w", unloadedBy, rotation.ErrUnknownParticipant)
	}
	return ranBy, unloadedBy, nil
}

func (s *Service) commitLocked(ctx context.Context, kind models.Kind, ranBy, unloadedBy string) (models.Entry, error) {
	next := ledger.RecordCompletion(s.state, kind, ranBy, unloadedBy, time.Now())
	entry := next.History[0]
	next = rotation.Advance(next)

	slog.Info("Load completed",
		"kind", kind,
		"ran_by", ranBy,
		"unloaded_by", unloadedBy,
		"entry_id", entry.ID,
	)
	if err := s.persistLocked(ctx, next); err != nil {
		return entry, err
	}
	return entry, nil
}

// ResetCredits zeroes every member's credit. confirm must be true; the
// caller is responsible for having asked the user.
func (s *Service) ResetCredits(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	slog.Warn("Resetting all credits")
	return s.persistLocked(ctx, ledger.ResetAll(s.state))
}

// persistLocked installs the new document and mirrors it to storage.
// On a storage failure the new document stays installed and the error
// is surfaced wrapped in ErrPersistence.
func (s *Service) persistLocked(ctx context.Context, next models.State) error {
	s.state = next
	if err := s.store.Save(ctx, next); err != nil {
		slog.Error("Failed to persist state, keeping in-memory document", "error", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
