// Package services contains the application services of the Ephemeral
// client.
//
// # Overview
//
//   - AuthService owns the authenticated identity and its lifecycle:
//     restore of a persisted session, sign-up/sign-in/sign-out, and a
//     subscription channel delivering every identity transition.
//   - EntryService mediates all reads and writes between the in-memory
//     entry cache and the remote store, enforcing the per-owner/per-date
//     uniqueness contract and the one-writer rule for the cache.
//   - DraftService holds the in-progress mood/note/attachment state for
//     today (or a past entry being edited) and commits it through
//     EntryService.
//   - JournalService wires the three together: it reacts to identity
//     transitions by refetching or tearing down the cache and reseeding
//     the draft, and exposes the read surface the presentation layer uses.
//
// # Error Handling
//
// Services return sentinel-wrapped errors matched with errors.Is:
// common.ErrorValidation for local precondition failures (no remote call is
// made), remote.ErrUnavailable for transient transport failures (local
// state is left at last-known-good), remote.ErrUnauthorized and friends for
// auth conditions.
//
// All blocking methods accept context.Context and honor cancellation.
package services
