package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/astralis-app/astralis/internal/domain"
)

// MemoryStore is an in-memory Store for tests and development. It round-trips
// every aggregate through JSON so serialization bugs surface in unit tests too.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return nil
}

// load unmarshals into out and reports nothing on a missing or corrupt blob,
// leaving out at its default value.
func (s *MemoryStore) load(key string, out interface{}) {
	s.mu.RLock()
	data, ok := s.blobs[key]
	s.mu.RUnlock()
	if !ok {
		return
	}
	_ = json.Unmarshal(data, out)
}

func (s *MemoryStore) LoadLedger(context.Context) (domain.StardustBalance, error) {
	var b domain.StardustBalance
	s.load(KeyLedger, &b)
	return b, nil
}

func (s *MemoryStore) SaveLedger(_ context.Context, b domain.StardustBalance) error {
	return s.save(KeyLedger, b)
}

func (s *MemoryStore) LoadProgress(context.Context) (domain.UserProgress, error) {
	p := domain.NewUserProgress()
	s.load(KeyProgress, &p)
	return p, nil
}

func (s *MemoryStore) SaveProgress(_ context.Context, p domain.UserProgress) error {
	return s.save(KeyProgress, p)
}

func (s *MemoryStore) LoadCollection(context.Context) (domain.UserCollection, error) {
	s.mu.RLock()
	_, ok := s.blobs[KeyCollection]
	s.mu.RUnlock()
	if !ok {
		return domain.NewUserCollection(), nil
	}
	var c domain.UserCollection
	s.load(KeyCollection, &c)
	return c, nil
}

func (s *MemoryStore) SaveCollection(_ context.Context, c domain.UserCollection) error {
	return s.save(KeyCollection, c)
}

func (s *MemoryStore) LoadPity(context.Context) (domain.PityCounter, error) {
	var p domain.PityCounter
	s.load(KeyPity, &p)
	return p, nil
}

func (s *MemoryStore) SavePity(_ context.Context, p domain.PityCounter) error {
	return s.save(KeyPity, p)
}

func (s *MemoryStore) LoadPullHistory(context.Context) ([]domain.PullRecord, error) {
	var records []domain.PullRecord
	s.load(KeyPullHistory, &records)
	return records, nil
}

func (s *MemoryStore) SavePullHistory(_ context.Context, records []domain.PullRecord) error {
	return s.save(KeyPullHistory, records)
}

func (s *MemoryStore) LoadSession(context.Context) (domain.SessionSnapshot, error) {
	var snap domain.SessionSnapshot
	s.load(KeySession, &snap)
	return snap, nil
}

func (s *MemoryStore) SaveSession(_ context.Context, snap domain.SessionSnapshot) error {
	return s.save(KeySession, snap)
}

func (s *MemoryStore) LoadLimits(context.Context) ([]domain.AppLimit, error) {
	var limits []domain.AppLimit
	s.load(KeyLimits, &limits)
	return limits, nil
}

func (s *MemoryStore) SaveLimits(_ context.Context, limits []domain.AppLimit) error {
	return s.save(KeyLimits, limits)
}

func (s *MemoryStore) LoadSchedules(context.Context) ([]domain.TimeSchedule, error) {
	var schedules []domain.TimeSchedule
	s.load(KeySchedules, &schedules)
	return schedules, nil
}

func (s *MemoryStore) SaveSchedules(_ context.Context, schedules []domain.TimeSchedule) error {
	return s.save(KeySchedules, schedules)
}

func (s *MemoryStore) LoadUsageRecords(context.Context) (map[string]domain.UsageRecord, error) {
	records := make(map[string]domain.UsageRecord)
	s.load(KeyUsage, &records)
	return records, nil
}

func (s *MemoryStore) SaveUsageRecords(_ context.Context, records map[string]domain.UsageRecord) error {
	return s.save(KeyUsage, records)
}
