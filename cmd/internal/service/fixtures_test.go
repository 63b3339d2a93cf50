package service

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/domain/sqlite/repository"
	"portalmunicipal/cmd/internal/infrastructure/aws/storage"
	"portalmunicipal/cmd/internal/tester"
	"portalmunicipal/cmd/internal/utils/validators"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	admin    = &entity.Actor{UserID: 1, Role: entity.RoleAdmin}
	editor   = &entity.Actor{UserID: 2, Role: entity.RoleEditor}
	approver = &entity.Actor{UserID: 3, Role: entity.RoleApprover}
	author   = &entity.Actor{UserID: 4, Role: entity.RoleAuthor}
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

type fixture struct {
	db       *gorm.DB
	cache    *memoryCache
	files    storage.FileStorage
	filesDir string

	publicCache *PublicCache
	validate    *validator.Validate
	docRepo     *repository.DefaultDocumentRepository
	areaRepo    *repository.DefaultAreaRepository
	biddingRepo *repository.DefaultBiddingRepository

	documents *DefaultDocumentService
	versions  *DefaultVersionService
	areas     *DefaultAreaService
	biddings  *DefaultBiddingService
	news      *DefaultNewsService
	catalog   *DefaultCatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := tester.TestDB(t)
	dir := t.TempDir()
	files, err := storage.NewDiskStorage(dir, "/files")
	require.NoError(t, err)

	mem := newMemoryCache()
	publicCache := NewPublicCache(mem, time.Minute)
	validate := validators.New()

	docRepo := repository.NewDocumentRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	biddingRepo := repository.NewBiddingRepository(db)

	return &fixture{
		db:          db,
		cache:       mem,
		files:       files,
		filesDir:    dir,
		publicCache: publicCache,
		validate:    validate,
		docRepo:     docRepo,
		areaRepo:    areaRepo,
		biddingRepo: biddingRepo,
		documents:   NewDocumentService(docRepo, areaRepo, files, publicCache, validate),
		versions:    NewVersionService(docRepo, files, publicCache, validate),
		areas:       NewAreaService(areaRepo, docRepo, publicCache, validate),
		biddings:    NewBiddingService(biddingRepo, files, publicCache, validate),
		news:        NewNewsService(repository.NewNewsRepository(db), publicCache, validate),
		catalog:     NewCatalogService(repository.NewCatalogRepository(db), publicCache, validate),
	}
}

// fileHeader builds a real multipart header, as echo hands it to handlers.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

// memoryCache is a cache.Cache kept in a map, recording invalidated prefixes.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	dropped []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = data
	return nil
}

func (m *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropped = append(m.dropped, prefix)
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCache) droppedPrefixes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.dropped...)
}

func (m *memoryCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// racingDocuments runs meanwhile once, right after the first plain read of a
// document, standing in for a request that commits in between.
type racingDocuments struct {
	repository.DocumentStore
	meanwhile func()
}

func (r *racingDocuments) FindByID(ctx context.Context, id int64) (*entity.Document, error) {
	doc, err := r.DocumentStore.FindByID(ctx, id)
	if r.meanwhile != nil {
		run := r.meanwhile
		r.meanwhile = nil
		run()
	}
	return doc, err
}

type racingBiddings struct {
	repository.BiddingStore
	meanwhile func()
}

func (r *racingBiddings) FindByID(ctx context.Context, id int64) (*entity.Bidding, error) {
	bidding, err := r.BiddingStore.FindByID(ctx, id)
	if r.meanwhile != nil {
		run := r.meanwhile
		r.meanwhile = nil
		run()
	}
	return bidding, err
}
