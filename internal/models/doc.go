// Package models defines the core domain models for Chorewheel.
//
// # The state document
//
// All application state lives in a single State document:
//   - Roster: the ordered list of household members
//   - Queue: rotation order, active members first, paused members after
//   - Paused: which members are temporarily out of the rotation
//   - Credits: accumulated credit per member (0.5 per run or unload)
//   - History: the most recent completed loads, newest first
//   - PINs: per-member numeric PINs guarding load completion
//
// The document is persisted as a whole after every mutation and reloaded
// as a whole on startup. Members are identified by name strings; there
// are no user accounts.
//
// # Design principles
//
//  1. **Single document**: one value owns everything, so snapshotting and
//     persistence are trivial.
//  2. **Value semantics**: transitions in the rotation, ledger and auth
//     packages return a fresh copy instead of mutating in place.
//  3. **Absence over sentinels**: a member with no PIN has no entry in
//     PINs rather than an empty-string entry.
package models
