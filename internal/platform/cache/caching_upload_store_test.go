package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"

	"ohlcv_dashboard/internal/feature/ohlcv/domain/entity"
	"ohlcv_dashboard/internal/feature/ohlcv/usecase"
)

// mockUploadStore はテスト用のUploadStoreモック実装です。
type mockUploadStore struct {
	putFn    func(ctx context.Context, u *entity.Upload) error
	getFn    func(ctx context.Context, sessionID string) (*entity.Upload, error)
	deleteFn func(ctx context.Context, sessionID string) error
	sweepFn  func(ctx context.Context, cutoff time.Time) ([]string, error)
	getCalls int
}

func (m *mockUploadStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	if m.sweepFn != nil {
		return m.sweepFn(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockUploadStore) Put(ctx context.Context, u *entity.Upload) error {
	if m.putFn != nil {
		return m.putFn(ctx, u)
	}
	return nil
}

func (m *mockUploadStore) Get(ctx context.Context, sessionID string) (*entity.Upload, error) {
	m.getCalls++
	if m.getFn != nil {
		return m.getFn(ctx, sessionID)
	}
	return nil, usecase.ErrUploadNotFound
}

func (m *mockUploadStore) Delete(ctx context.Context, sessionID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, sessionID)
	}
	return nil
}

func testUpload() *entity.Upload {
	return &entity.Upload{
		SessionID:  "sid",
		Filename:   "prices.csv",
		Data:       []byte("Date,Symbol,Open,High,Low,Close,Volume\n"),
		UploadedAt: time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC),
	}
}

// TestNewCachingUploadStore_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingUploadStore_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			expectedTTL:       DefaultTTL,
			expectedNamespace: "uploads",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			expectedTTL:       DefaultTTL,
			expectedNamespace: "uploads",
		},
		{
			name:              "custom values preserved",
			ttl:               time.Minute,
			namespace:         "custom",
			expectedTTL:       time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := NewCachingUploadStore(nil, tt.ttl, &mockUploadStore{}, tt.namespace)

			if store.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, store.ttl)
			}
			if store.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, store.namespace)
			}
		})
	}
}

// TestCachingUploadStore_Get_NilRedis はRedisがnilの場合に内部ストアを直接呼び出すことを検証します。
func TestCachingUploadStore_Get_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockUploadStore{
		getFn: func(ctx context.Context, sessionID string) (*entity.Upload, error) {
			return testUpload(), nil
		},
	}

	store := NewCachingUploadStore(nil, time.Minute, inner, "uploads")
	got, err := store.Get(context.Background(), "sid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Filename != "prices.csv" {
		t.Errorf("expected prices.csv, got %q", got.Filename)
	}
}

// TestCachingUploadStore_Get_CacheHit はキャッシュヒット時に内部ストアを呼ばないことを検証します。
func TestCachingUploadStore_Get_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(testUpload())
	mock.ExpectGet("uploads:sid").SetVal(string(cached))

	inner := &mockUploadStore{}
	store := NewCachingUploadStore(rdb, time.Minute, inner, "uploads")

	got, err := store.Get(context.Background(), "sid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.getCalls != 0 {
		t.Error("inner store should not be called on cache hit")
	}
	if string(got.Data) != string(testUpload().Data) {
		t.Errorf("unexpected data %q", got.Data)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUploadStore_Get_CacheMiss はキャッシュミス時に内部ストアから取得しキャッシュに保存することを検証します。
func TestCachingUploadStore_Get_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(testUpload())
	mock.ExpectGet("uploads:sid").RedisNil()
	mock.ExpectSet("uploads:sid", expected, time.Minute).SetVal("OK")

	inner := &mockUploadStore{
		getFn: func(ctx context.Context, sessionID string) (*entity.Upload, error) {
			return testUpload(), nil
		},
	}

	store := NewCachingUploadStore(rdb, time.Minute, inner, "uploads")
	if _, err := store.Get(context.Background(), "sid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUploadStore_Get_NotFound は内部ストアのErrUploadNotFoundがキャッシュされずに伝播されることを検証します。
func TestCachingUploadStore_Get_NotFound(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("uploads:sid").RedisNil()

	store := NewCachingUploadStore(rdb, time.Minute, &mockUploadStore{}, "uploads")
	_, err := store.Get(context.Background(), "sid")

	if !errors.Is(err, usecase.ErrUploadNotFound) {
		t.Errorf("expected ErrUploadNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUploadStore_Get_CorruptedCache は破損したキャッシュを削除し内部ストアにフォールバックすることを検証します。
func TestCachingUploadStore_Get_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(testUpload())
	mock.ExpectGet("uploads:sid").SetVal("invalid json")
	mock.ExpectDel("uploads:sid").SetVal(1)
	mock.ExpectSet("uploads:sid", expected, time.Minute).SetVal("OK")

	inner := &mockUploadStore{
		getFn: func(ctx context.Context, sessionID string) (*entity.Upload, error) {
			return testUpload(), nil
		},
	}

	store := NewCachingUploadStore(rdb, time.Minute, inner, "uploads")
	if _, err := store.Get(context.Background(), "sid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUploadStore_Put_InvalidatesCache はPut後にキャッシュが無効化されることを検証します。
func TestCachingUploadStore_Put_InvalidatesCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectDel("uploads:sid").SetVal(1)

	store := NewCachingUploadStore(rdb, time.Minute, &mockUploadStore{}, "uploads")
	if err := store.Put(context.Background(), testUpload()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUploadStore_Put_InnerError は内部ストアのエラーが伝播され、キャッシュに触れないことを検証します。
func TestCachingUploadStore_Put_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("insert failed")
	inner := &mockUploadStore{
		putFn: func(ctx context.Context, u *entity.Upload) error { return expectedErr },
	}

	store := NewCachingUploadStore(rdb, time.Minute, inner, "uploads")
	err := store.Put(context.Background(), testUpload())

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUploadStore_Delete はDeleteが内部ストアとキャッシュの両方から削除することを検証します。
func TestCachingUploadStore_Delete(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectDel("uploads:sid").SetVal(1)

	deleted := ""
	inner := &mockUploadStore{
		deleteFn: func(ctx context.Context, sessionID string) error {
			deleted = sessionID
			return nil
		},
	}

	store := NewCachingUploadStore(rdb, time.Minute, inner, "uploads")
	if err := store.Delete(context.Background(), "sid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "sid" {
		t.Errorf("expected inner delete for sid, got %q", deleted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUploadStore_Miniredis は実際のRedisプロトコルでキャッシュが機能しTTLで失効することを検証します。
func TestCachingUploadStore_Miniredis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	inner := &mockUploadStore{
		getFn: func(ctx context.Context, sessionID string) (*entity.Upload, error) {
			return testUpload(), nil
		},
	}
	store := NewCachingUploadStore(rdb, time.Minute, inner, "uploads")

	for i := 0; i < 3; i++ {
		if _, err := store.Get(context.Background(), "sid"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if inner.getCalls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.getCalls)
	}

	mr.FastForward(time.Minute + time.Second)
	if _, err := store.Get(context.Background(), "sid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.getCalls != 2 {
		t.Errorf("expected cache entry to expire, got %d inner calls", inner.getCalls)
	}
}

// TestCachingUploadStore_DeleteOlderThan_EvictsCache は掃除されたアップロードがキャッシュからも消えることを検証します。
func TestCachingUploadStore_DeleteOlderThan_EvictsCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	swept := false
	inner := &mockUploadStore{
		getFn: func(ctx context.Context, sessionID string) (*entity.Upload, error) {
			if swept && sessionID == "sid" {
				return nil, usecase.ErrUploadNotFound
			}
			u := testUpload()
			u.SessionID = sessionID
			return u, nil
		},
		sweepFn: func(ctx context.Context, cutoff time.Time) ([]string, error) {
			swept = true
			return []string{"sid"}, nil
		},
	}
	store := NewCachingUploadStore(rdb, time.Hour, inner, "uploads")
	ctx := context.Background()

	// 両セッションをキャッシュに載せる
	for _, id := range []string{"sid", "other"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	n, err := store.DeleteOlderThan(ctx, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted upload, got %d", n)
	}
	if mr.Exists("uploads:sid") {
		t.Error("expected swept upload to be evicted from cache")
	}
	if !mr.Exists("uploads:other") {
		t.Error("expected other upload to stay cached")
	}
	if _, err := store.Get(ctx, "sid"); !errors.Is(err, usecase.ErrUploadNotFound) {
		t.Errorf("expected ErrUploadNotFound after sweep, got %v", err)
	}
}

// TestCachingUploadStore_DeleteOlderThan_InnerError は内部ストアのエラーがそのまま返ることを検証します。
func TestCachingUploadStore_DeleteOlderThan_InnerError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("db down")
	inner := &mockUploadStore{
		sweepFn: func(ctx context.Context, cutoff time.Time) ([]string, error) {
			return nil, wantErr
		},
	}
	store := NewCachingUploadStore(nil, time.Minute, inner, "uploads")

	n, err := store.DeleteOlderThan(context.Background(), time.Now())
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
	if n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"abc123", "abc123"},
		{"a b", "a_b"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if result := safe(tt.input); result != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
