package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trustguard/internal/domain/models"
)

// fakeStore is an in-memory Store with copy-on-failure transaction
// semantics: a failed InTx restores the previous state.
type fakeStore struct {
	entities map[uuid.UUID]*models.Entity
	byKey    map[string]uuid.UUID
	reports  map[uuid.UUID]*models.Report
	evidence []*models.Evidence
	related  map[uuid.UUID][]models.RelatedEntity
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entities: make(map[uuid.UUID]*models.Entity),
		byKey:    make(map[string]uuid.UUID),
		reports:  make(map[uuid.UUID]*models.Report),
		related:  make(map[uuid.UUID][]models.RelatedEntity),
	}
}

func (s *fakeStore) seedEntity(entityType models.EntityType, identifier string) *models.Entity {
	e := &models.Entity{
		ID:              uuid.New(),
		Type:            entityType,
		Identifier:      identifier,
		RiskStatus:      models.RiskStatusInsufficientData,
		ConfidenceLevel: models.ConfidenceLow,
		CreatedAt:       time.Now(),
	}
	s.entities[e.ID] = e
	s.byKey[key(entityType, identifier)] = e.ID
	return e
}

func key(t models.EntityType, identifier string) string {
	return fmt.Sprintf("%s|%s", t, identifier)
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for id, e := range s.entities {
		c := *e
		cp.entities[id] = &c
	}
	for k, v := range s.byKey {
		cp.byKey[k] = v
	}
	for id, r := range s.reports {
		c := *r
		cp.reports[id] = &c
	}
	cp.evidence = append(cp.evidence, s.evidence...)
	return cp
}

func (s *fakeStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	backup := s.snapshot()
	if err := fn(s); err != nil {
		s.entities = backup.entities
		s.byKey = backup.byKey
		s.reports = backup.reports
		s.evidence = backup.evidence
		return err
	}
	return nil
}

func (s *fakeStore) GetEntity(_ context.Context, id uuid.UUID) (*models.Entity, error) {
	e, ok := s.entities[id]
	if !ok {
		return nil, models.ErrEntityNotFound
	}
	c := *e
	return &c, nil
}

func (s *fakeStore) GetEntityByKey(_ context.Context, t models.EntityType, identifier string) (*models.Entity, error) {
	id, ok := s.byKey[key(t, identifier)]
	if !ok {
		return nil, models.ErrEntityNotFound
	}
	c := *s.entities[id]
	return &c, nil
}

func (s *fakeStore) GetOrCreateEntity(ctx context.Context, t models.EntityType, identifier string) (*models.Entity, error) {
	if e, err := s.GetEntityByKey(ctx, t, identifier); err == nil {
		return e, nil
	}
	c := *s.seedEntity(t, identifier)
	return &c, nil
}

func (s *fakeStore) TouchLastChecked(_ context.Context, id uuid.UUID) error {
	e, ok := s.entities[id]
	if !ok {
		return models.ErrEntityNotFound
	}
	now := time.Now()
	e.LastCheckedAt = &now
	return nil
}

func (s *fakeStore) UpdateTrust(_ context.Context, id uuid.UUID, status models.RiskStatus, confidence models.ConfidenceLevel) error {
	e, ok := s.entities[id]
	if !ok {
		return models.ErrEntityNotFound
	}
	e.RiskStatus = status
	e.ConfidenceLevel = confidence
	return nil
}

func (s *fakeStore) CountRecentReports(_ context.Context, entityID uuid.UUID, since time.Time) (int, error) {
	n := 0
	for _, r := range s.reports {
		if r.EntityID == entityID && r.Status != models.ReportStatusSpam && !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) FindRelated(_ context.Context, entityID uuid.UUID) ([]models.RelatedEntity, error) {
	return append([]models.RelatedEntity(nil), s.related[entityID]...), nil
}

func (s *fakeStore) GetReport(_ context.Context, id uuid.UUID) (*models.Report, error) {
	r, ok := s.reports[id]
	if !ok {
		return nil, models.ErrReportNotFound
	}
	c := *r
	return &c, nil
}

func (s *fakeStore) ListEntityReports(_ context.Context, entityID uuid.UUID, limit, offset int) ([]*models.Report, error) {
	var out []*models.Report
	for _, r := range s.reports {
		if r.EntityID == entityID {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

// Tx methods (the fake runs transactions directly against itself)

func (s *fakeStore) InsertReport(_ context.Context, rep *models.Report) error {
	c := *rep
	s.reports[rep.ID] = &c
	return nil
}

func (s *fakeStore) InsertEvidence(_ context.Context, ev *models.Evidence) error {
	c := *ev
	s.evidence = append(s.evidence, &c)
	return nil
}

func (s *fakeStore) GetReportForUpdate(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return s.GetReport(ctx, id)
}

func (s *fakeStore) UpdateReportStatus(_ context.Context, id uuid.UUID, status models.ReportStatus) error {
	r, ok := s.reports[id]
	if !ok {
		return models.ErrReportNotFound
	}
	r.Status = status
	return nil
}

func (s *fakeStore) ApplySubmit(_ context.Context, entityID uuid.UUID, at time.Time) (*models.Entity, error) {
	e, ok := s.entities[entityID]
	if !ok {
		return nil, models.ErrEntityNotFound
	}
	e.TotalReports++
	e.ScamReports++
	e.LastReportedAt = &at
	c := *e
	return &c, nil
}

func (s *fakeStore) ApplyVerify(_ context.Context, entityID uuid.UUID) (*models.Entity, error) {
	e, ok := s.entities[entityID]
	if !ok {
		return nil, models.ErrEntityNotFound
	}
	e.VerifiedReports++
	c := *e
	return &c, nil
}

func (s *fakeStore) ApplySpam(_ context.Context, entityID uuid.UUID, wasVerified bool) (*models.Entity, error) {
	e, ok := s.entities[entityID]
	if !ok {
		return nil, models.ErrEntityNotFound
	}
	e.TotalReports = max(e.TotalReports-1, 0)
	e.ScamReports = max(e.ScamReports-1, 0)
	if wasVerified {
		e.VerifiedReports = max(e.VerifiedReports-1, 0)
	}
	c := *e
	return &c, nil
}

// fakeCache is an in-memory EntityCache
type fakeCache struct {
	data map[string][]byte
	sets int
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) GetCachedEntityCheck(_ context.Context, entityType, identifier string, dest any) error {
	raw, ok := c.data[entityType+":"+identifier]
	if !ok {
		return fmt.Errorf("cache miss")
	}
	c.hits++
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) CacheEntityCheck(_ context.Context, entityType, identifier string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.data[entityType+":"+identifier] = raw
	c.sets++
	return nil
}

func (c *fakeCache) InvalidateEntityCheck(_ context.Context, entityType, identifier string) error {
	delete(c.data, entityType+":"+identifier)
	return nil
}

// fakeMessageStore records Create calls and can be told to fail
type fakeMessageStore struct {
	messages []*models.Message
	err      error
	ctxErr   error
}

func (s *fakeMessageStore) Create(ctx context.Context, m *models.Message) error {
	s.ctxErr = ctx.Err()
	if s.err != nil {
		return s.err
	}
	c := *m
	s.messages = append(s.messages, &c)
	return nil
}
