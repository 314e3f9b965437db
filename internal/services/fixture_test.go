package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mixing-service/internal/metrics"
	"mixing-service/internal/models"
	"mixing-service/internal/payments"
	"mixing-service/internal/storage"
	"mixing-service/internal/testsupport"
)

const testPriceCents = 1000

type fixture struct {
	db        *gorm.DB
	store     *storage.MemoryStore
	metrics   *metrics.Metrics
	files     *FileService
	ledger    *LedgerService
	projects  *ProjectService
	songs     *SongService
	comments  *CommentService
	purchases *PurchaseService
	users     *UserService
	archives  *ArchiveService
	charger   *fakeCharger
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	db   *gorm.DB
	wrap func(*storage.MemoryStore) storage.FileStore
}

// withDB runs the fixture on db instead of a single-connection memory database.
func withDB(db *gorm.DB) fixtureOption {
	return func(c *fixtureConfig) { c.db = db }
}

// withStore puts wrap between the services and the memory store.
func withStore(wrap func(*storage.MemoryStore) storage.FileStore) fixtureOption {
	return func(c *fixtureConfig) { c.wrap = wrap }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	var cfg fixtureConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	db := cfg.db
	if db == nil {
		db = testsupport.NewTestDB(t)
	}
	store := storage.NewMemoryStore()
	var fileStore storage.FileStore = store
	if cfg.wrap != nil {
		fileStore = cfg.wrap(store)
	}
	logger := zap.NewNop()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	files := NewFileService(fileStore, logger)
	ledger := NewLedgerService(db, files, logger, m)
	charger := &fakeCharger{}
	return &fixture{
		db:        db,
		store:     store,
		metrics:   m,
		files:     files,
		ledger:    ledger,
		projects:  NewProjectService(db, files, logger, m),
		songs:     NewSongService(db, files, logger, m),
		comments:  NewCommentService(db, files, logger),
		purchases: NewPurchaseService(db, ledger, charger, testPriceCents, "usd", logger, m),
		users:     NewUserService(db, logger),
		archives:  NewArchiveService(db, files, logger),
		charger:   charger,
	}
}

func upload(name, content string) Upload {
	return Upload{
		Filename:    name,
		ContentType: "audio/wav",
		Size:        int64(len(content)),
		Reader:      bytes.NewReader([]byte(content)),
	}
}

func (f *fixture) addTrack(t *testing.T, owner *models.User, group *models.Group, name string) *models.Track {
	t.Helper()
	track, err := f.ledger.CreateTrack(context.Background(), owner, group.ID, upload(name, "data:"+name))
	if err != nil {
		t.Fatalf("create track %s: %v", name, err)
	}
	return track
}

type fakeCharger struct {
	mu    sync.Mutex
	calls []payments.ChargeRequest
	err   error
}

func (c *fakeCharger) Charge(ctx context.Context, req payments.ChargeRequest) (*payments.Charge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req)
	if c.err != nil {
		return nil, c.err
	}
	return &payments.Charge{ID: "ch_test", Details: `{"id":"ch_test"}`}, nil
}

func (c *fakeCharger) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// statBarrier holds the first n Stat calls until all of them have arrived,
// so n uploads of the same name all see the key as free.
type statBarrier struct {
	*storage.MemoryStore
	n       int32
	calls   atomic.Int32
	arrived sync.WaitGroup
}

func newStatBarrier(n int) func(*storage.MemoryStore) storage.FileStore {
	return func(store *storage.MemoryStore) storage.FileStore {
		b := &statBarrier{MemoryStore: store, n: int32(n)}
		b.arrived.Add(n)
		return b
	}
}

func (b *statBarrier) Stat(ctx context.Context, key string) (storage.ObjectInfo, error) {
	if b.calls.Add(1) <= b.n {
		b.arrived.Done()
		b.arrived.Wait()
	}
	return b.MemoryStore.Stat(ctx, key)
}

// slowStore blocks every Put until release is closed.
type slowStore struct {
	*storage.MemoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *slowStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return s.MemoryStore.Put(ctx, key, r, size, contentType)
}
