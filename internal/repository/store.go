// Package repository defines the contract for the persisted store shared
// between the app process and the OS monitoring extension.
package repository

import (
	"context"

	"github.com/astralis-app/astralis/internal/domain"
)

// Aggregate keys in the shared store. One serialized blob per aggregate.
const (
	KeyLedger      = "ledger"
	KeyProgress    = "progress"
	KeyCollection  = "collection"
	KeyPity        = "pity"
	KeyPullHistory = "pull_history"
	KeySession     = "session"
	KeyLimits      = "limits"
	KeySchedules   = "schedules"
	KeyUsage       = "usage_records"
)

// Store persists one blob per aggregate with last-writer-wins semantics;
// true cross-process locking is unavailable on the target platform.
//
// Externally-writable subset: the OS extension mutates the session snapshot
// (Active, EndedEarly) and usage records while the app is backgrounded.
// Consumers must reload those on every foreground instead of trusting a
// cached copy. All other aggregates are only ever written by this process.
//
// Implementations treat deserialize failures as "use the default empty
// aggregate": the reward economy degrades to zero rather than crashing.
type Store interface {
	LoadLedger(ctx context.Context) (domain.StardustBalance, error)
	SaveLedger(ctx context.Context, b domain.StardustBalance) error

	LoadProgress(ctx context.Context) (domain.UserProgress, error)
	SaveProgress(ctx context.Context, p domain.UserProgress) error

	LoadCollection(ctx context.Context) (domain.UserCollection, error)
	SaveCollection(ctx context.Context, c domain.UserCollection) error

	LoadPity(ctx context.Context) (domain.PityCounter, error)
	SavePity(ctx context.Context, p domain.PityCounter) error

	LoadPullHistory(ctx context.Context) ([]domain.PullRecord, error)
	SavePullHistory(ctx context.Context, records []domain.PullRecord) error

	LoadSession(ctx context.Context) (domain.SessionSnapshot, error)
	SaveSession(ctx context.Context, s domain.SessionSnapshot) error

	LoadLimits(ctx context.Context) ([]domain.AppLimit, error)
	SaveLimits(ctx context.Context, limits []domain.AppLimit) error

	LoadSchedules(ctx context.Context) ([]domain.TimeSchedule, error)
	SaveSchedules(ctx context.Context, schedules []domain.TimeSchedule) error

	// Usage records are keyed by limit ID string.
	LoadUsageRecords(ctx context.Context) (map[string]domain.UsageRecord, error)
	SaveUsageRecords(ctx context.Context, records map[string]domain.UsageRecord) error
}
