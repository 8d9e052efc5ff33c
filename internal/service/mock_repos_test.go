package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/internal/model"
	"github.com/Kredenk/shiguang-warehouse/internal/repository"
)

var errMockDB = errors.New("mock db failure")

// ── Mock CourseSessionRepository ──

type termKey struct {
	owner, year, semester string
}

type mockCourseSessionRepo struct {
	mu       sync.Mutex
	sessions map[termKey][]model.CourseSession
	records  *mockImportRecordRepo
	failNext bool
}

func newMockCourseSessionRepo(records *mockImportRecordRepo) *mockCourseSessionRepo {
	return &mockCourseSessionRepo{sessions: make(map[termKey][]model.CourseSession), records: records}
}

func (m *mockCourseSessionRepo) ListByOwnerAndTerm(_ context.Context, ownerID, academicYear, semester string) ([]model.CourseSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.sessions[termKey{ownerID, academicYear, semester}]
	out := make([]model.CourseSession, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (m *mockCourseSessionRepo) CountByOwnerAndTerm(_ context.Context, ownerID, academicYear, semester string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sessions[termKey{ownerID, academicYear, semester}])), nil
}

func (m *mockCourseSessionRepo) ReplaceByOwnerAndTerm(_ context.Context, ownerID, academicYear, semester string, sessions []model.CourseSession, record *model.ImportRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errMockDB
	}
	stored := make([]model.CourseSession, len(sessions))
	for i, s := range sessions {
		if s.CourseSessionID == "" {
			s.CourseSessionID = s.ImportID + "-" + string(rune('a'+i))
		}
		stored[i] = s
	}
	m.sessions[termKey{ownerID, academicYear, semester}] = stored
	if record != nil && m.records != nil {
		m.records.add(*record)
	}
	return nil
}

// ── Mock PresetTimeSlotRepository ──

type mockPresetTimeSlotRepo struct {
	mu    sync.Mutex
	slots map[string][]model.PresetTimeSlot
}

func newMockPresetTimeSlotRepo() *mockPresetTimeSlotRepo {
	return &mockPresetTimeSlotRepo{slots: make(map[string][]model.PresetTimeSlot)}
}

func (m *mockPresetTimeSlotRepo) ListByOwner(_ context.Context, ownerID string) ([]model.PresetTimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PresetTimeSlot, len(m.slots[ownerID]))
	copy(out, m.slots[ownerID])
	return out, nil
}

func (m *mockPresetTimeSlotRepo) ReplaceByOwner(_ context.Context, ownerID string, slots []model.PresetTimeSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[ownerID] = append([]model.PresetTimeSlot(nil), slots...)
	return nil
}

// ── Mock ImportRecordRepository ──

type mockImportRecordRepo struct {
	mu       sync.Mutex
	records  []model.ImportRecord
	sessions *mockCourseSessionRepo
}

func newMockImportRecordRepo() *mockImportRecordRepo {
	return &mockImportRecordRepo{}
}

func (m *mockImportRecordRepo) add(r model.ImportRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().Add(time.Duration(len(m.records)) * time.Millisecond)
	}
	m.records = append(m.records, r)
}

func (m *mockImportRecordRepo) ListByOwner(_ context.Context, ownerID string, offset, limit int) ([]model.ImportRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var owned []model.ImportRecord
	for _, r := range m.records {
		if r.OwnerID == ownerID {
			owned = append(owned, r)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	total := int64(len(owned))
	if offset >= len(owned) {
		return []model.ImportRecord{}, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

func (m *mockImportRecordRepo) DeleteSupersededBefore(_ context.Context, before time.Time) (int64, error) {
	// 先收集仍被引用的导入批次，避免与 ReplaceByOwnerAndTerm 的加锁顺序相反
	live := make(map[string]bool)
	if m.sessions != nil {
		m.sessions.mu.Lock()
		for _, list := range m.sessions.sessions {
			for _, s := range list {
				live[s.ImportID] = true
			}
		}
		m.sessions.mu.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	var n int64
	for _, r := range m.records {
		if r.CreatedAt.Before(before) && !live[r.ImportID] {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return n, nil
}

// ── Mock JwxtClient ──

type mockJwxtClient struct {
	mu       sync.Mutex
	body     []byte
	err      error
	calls    int
	lastReq  JwxtFetchRequest
	loginURL string
}

func (m *mockJwxtClient) FetchTimetable(_ context.Context, req JwxtFetchRequest) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.body, nil
}

func (m *mockJwxtClient) IsLoginPage(rawURL string) bool {
	return rawURL == m.loginURL
}

// ── Mock PayloadCache ──

type mockPayloadCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	sets    int
	lastTTL time.Duration
}

func newMockPayloadCache() *mockPayloadCache {
	return &mockPayloadCache{data: make(map[string][]byte)}
}

func (m *mockPayloadCache) GetPayload(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *mockPayloadCache) CachePayload(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.lastTTL = ttl
	m.data[key] = payload
	return nil
}

// ── 测试装配 ──

type testRepos struct {
	sessions *mockCourseSessionRepo
	slots    *mockPresetTimeSlotRepo
	records  *mockImportRecordRepo
	repo     *repository.Repository
}

func newTestRepos() *testRepos {
	records := newMockImportRecordRepo()
	sessions := newMockCourseSessionRepo(records)
	records.sessions = sessions
	slots := newMockPresetTimeSlotRepo()
	return &testRepos{
		sessions: sessions,
		slots:    slots,
		records:  records,
		repo: &repository.Repository{
			CourseSession:  sessions,
			PresetTimeSlot: slots,
			ImportRecord:   records,
		},
	}
}

func intPtr(v int) *int { return &v }

var testLogger = zap.NewNop()
