// Package sqlite implements the shared aggregate store on the on-device
// SQLite database both processes open.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/logger"
	"github.com/astralis-app/astralis/internal/repository"
)

// Store persists one JSON blob per aggregate in the aggregates table.
// Writes are last-writer-wins by design; see repository.Store.
type Store struct {
	db *sql.DB
}

// NewStore wraps an opened database. Callers run Migrate first.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) saveBlob(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO aggregates (key, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// loadBlob unmarshals the stored blob for key into out. A missing row leaves
// out at its default. A corrupt blob is logged and treated as missing: the
// economy degrades to the empty aggregate rather than crashing.
func (s *Store) loadBlob(ctx context.Context, key string, out interface{}) error {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM aggregates WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		logger.Error("Corrupt aggregate blob, falling back to defaults", "key", key, "error", err)
	}
	return nil
}

func (s *Store) LoadLedger(ctx context.Context) (domain.StardustBalance, error) {
	var b domain.StardustBalance
	err := s.loadBlob(ctx, repository.KeyLedger, &b)
	return b, err
}

func (s *Store) SaveLedger(ctx context.Context, b domain.StardustBalance) error {
	return s.saveBlob(ctx, repository.KeyLedger, b)
}

func (s *Store) LoadProgress(ctx context.Context) (domain.UserProgress, error) {
	p := domain.NewUserProgress()
	err := s.loadBlob(ctx, repository.KeyProgress, &p)
	if p.AchievedMilestones == nil {
		p.AchievedMilestones = make(map[domain.MilestoneID]bool)
	}
	return p, err
}

func (s *Store) SaveProgress(ctx context.Context, p domain.UserProgress) error {
	return s.saveBlob(ctx, repository.KeyProgress, p)
}

func (s *Store) LoadCollection(ctx context.Context) (domain.UserCollection, error) {
	c := domain.NewUserCollection()
	err := s.loadBlob(ctx, repository.KeyCollection, &c)
	// First launch or corrupt blob: fall back to the default collection so
	// the equipped-style invariant holds.
	if len(c.OwnedStyleIDs) == 0 || !c.Owns(c.EquippedStyleID) {
		c = domain.NewUserCollection()
	}
	return c, err
}

func (s *Store) SaveCollection(ctx context.Context, c domain.UserCollection) error {
	return s.saveBlob(ctx, repository.KeyCollection, c)
}

func (s *Store) LoadPity(ctx context.Context) (domain.PityCounter, error) {
	var p domain.PityCounter
	err := s.loadBlob(ctx, repository.KeyPity, &p)
	return p, err
}

func (s *Store) SavePity(ctx context.Context, p domain.PityCounter) error {
	return s.saveBlob(ctx, repository.KeyPity, p)
}

func (s *Store) LoadPullHistory(ctx context.Context) ([]domain.PullRecord, error) {
	var records []domain.PullRecord
	err := s.loadBlob(ctx, repository.KeyPullHistory, &records)
	return records, err
}

func (s *Store) SavePullHistory(ctx context.Context, records []domain.PullRecord) error {
	return s.saveBlob(ctx, repository.KeyPullHistory, records)
}

func (s *Store) LoadSession(ctx context.Context) (domain.SessionSnapshot, error) {
	var snap domain.SessionSnapshot
	err := s.loadBlob(ctx, repository.KeySession, &snap)
	return snap, err
}

func (s *Store) SaveSession(ctx context.Context, snap domain.SessionSnapshot) error {
	return s.saveBlob(ctx, repository.KeySession, snap)
}

func (s *Store) LoadLimits(ctx context.Context) ([]domain.AppLimit, error) {
	var limits []domain.AppLimit
	err := s.loadBlob(ctx, repository.KeyLimits, &limits)
	return limits, err
}

func (s *Store) SaveLimits(ctx context.Context, limits []domain.AppLimit) error {
	return s.saveBlob(ctx, repository.KeyLimits, limits)
}

func (s *Store) LoadSchedules(ctx context.Context) ([]domain.TimeSchedule, error) {
	var schedules []domain.TimeSchedule
	err := s.loadBlob(ctx, repository.KeySchedules, &schedules)
	return schedules, err
}

func (s *Store) SaveSchedules(ctx context.Context, schedules []domain.TimeSchedule) error {
	return s.saveBlob(ctx, repository.KeySchedules, schedules)
}

func (s *Store) LoadUsageRecords(ctx context.Context) (map[string]domain.UsageRecord, error) {
	records := make(map[string]domain.UsageRecord)
	err := s.loadBlob(ctx, repository.KeyUsage, &records)
	return records, err
}

func (s *Store) SaveUsageRecords(ctx context.Context, records map[string]domain.UsageRecord) error {
	return s.saveBlob(ctx, repository.KeyUsage, records)
}

var _ repository.Store = (*Store)(nil)
