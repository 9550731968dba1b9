package session

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()

	require.NoError(t, s.Save(ctx, &models.Session{ID: "old", UserID: "u", ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, s.Save(ctx, &models.Session{ID: "new", UserID: "u", ExpiresAt: now.Add(time.Hour)}))

	n, err := s.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Load(ctx, "old")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Load(ctx, "new")
	assert.NoError(t, err)
}

func newPostgresStoreWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresStore(db), mock
}

func TestPostgresStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store, mock := newPostgresStoreWithMock(t)
	exp := time.Now().Add(time.Hour).UTC()

	mock.ExpectExec(`INSERT\s+INTO\s+sessions\s*\(id,\s*user_id,\s*expires_at\)`).
		WithArgs("sid", "u-1", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*expires_at\s+FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("sid").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at"}).AddRow("sid", "u-1", exp))
	mock.ExpectExec(`DELETE\s+FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("sid").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(ctx, &models.Session{ID: "sid", UserID: "u-1", ExpiresAt: exp}))
	s, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "u-1", s.UserID)
	assert.Equal(t, exp, s.ExpiresAt)
	require.NoError(t, store.Delete(ctx, "sid"))
}

func TestPostgresStore_LoadMissing(t *testing.T) {
	store, mock := newPostgresStoreWithMock(t)

	mock.ExpectQuery(`FROM\s+sessions`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresStore_LoadDBError(t *testing.T) {
	store, mock := newPostgresStoreWithMock(t)

	mock.ExpectQuery(`FROM\s+sessions`).WithArgs("sid").WillReturnError(errors.New("conn reset"))

	_, err := store.Load(context.Background(), "sid")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestPostgresStore_DeleteExpired(t *testing.T) {
	store, mock := newPostgresStoreWithMock(t)
	now := time.Now()

	mock.ExpectExec(`DELETE\s+FROM\s+sessions\s+WHERE\s+expires_at\s*<=\s*\$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	require.NoError(t, store.Save(ctx, &models.Session{ID: "sid", UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)}))

	s, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "u-1", s.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, time.Minute)

	require.NoError(t, store.Delete(ctx, "sid"))
	_, err = store.Load(ctx, "sid")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, store.Delete(ctx, "sid"))
}

func TestRedisStore_TTLExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Save(ctx, &models.Session{ID: "sid", UserID: "u-1", ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "sid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRedisStore_SkipsAlreadyExpired(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Save(ctx, &models.Session{ID: "sid", UserID: "u-1", ExpiresAt: time.Now().Add(-time.Minute)}))
	assert.False(t, mr.Exists(redisKeyPrefix+"sid"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Load(context.Background(), "sid")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestManagerWithRedisStore(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	m := NewManager(store, "secret", time.Hour)

	token, err := m.Create(ctx, "u-1")
	require.NoError(t, err)
	uid, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)

	require.NoError(t, m.Destroy(ctx, token))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestSweeper(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	log := logrus.New()
	log.SetOutput(io.Discard)

	require.NoError(t, store.Save(ctx, &models.Session{ID: "old", UserID: "u", ExpiresAt: time.Now().Add(-time.Minute)}))

	sw, err := NewSweeper(store, "@every 1h", log)
	require.NoError(t, err)
	sw.Start()
	defer sw.Stop()

	assert.Equal(t, int64(1), sw.Sweep(ctx))
	assert.Zero(t, sw.Sweep(ctx))
}

func TestSweeper_InvalidSchedule(t *testing.T) {
	_, err := NewSweeper(NewMemoryStore(), "every now and then", logrus.New())
	assert.Error(t, err)
}
