// Package remote defines the contract with the Ephemeral backend and its
// HTTP implementation.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Store interface) covering the
//     auth collaborator (SignUp/SignIn/RefreshSession/SignOut) and the
//     entries table (SelectEntries/UpsertEntry/DeleteEntry).
//  2. A concrete implementation (see HTTPStore) speaking JSON over HTTP to
//     a Supabase-style API, holding the access/refresh token pair,
//     transparently refreshing an expired session once per call, and
//     mapping transport and status failures to sentinel errors.
//
// # Error Handling
//
// Conditions callers are expected to branch on are sentinel errors matched
// with errors.Is: ErrUnavailable (transient, retryable), ErrUnauthorized,
// ErrInvalidCredentials, ErrDuplicateAccount.
//
// All operations accept context.Context and honor cancellation/timeouts.
package remote
