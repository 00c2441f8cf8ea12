package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebook/internal/config"
	"gradebook/internal/model"
	"gradebook/internal/store"
)

func TestInitDBMemoryNeedsNoDatabase(t *testing.T) {
	db, err := InitDB(&config.Config{StoreDriver: "memory"})
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestInitDBSqliteMigrates(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := InitDB(&config.Config{StoreDriver: "sqlite", DBDSN: dsn})
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.True(t, db.Migrator().HasTable(&store.RecordRow{}))

	st := store.NewGormStore(db, "s1")
	rec, err := model.NewRecord("Ann", "1", []int{90, 80}, model.Alternate)
	require.NoError(t, err)
	require.NoError(t, st.Add(rec))

	recs, err := st.Records()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Pass", recs[0].Grade())
}

func TestInitDBPurgesRowsFromEarlierRun(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg := &config.Config{StoreDriver: "sqlite", DBDSN: dsn}

	first, err := InitDB(cfg)
	require.NoError(t, err)
	for _, id := range []string{"old-1", "old-2"} {
		rec, err := model.NewRecord("Ann", "1", []int{70}, model.Standard)
		require.NoError(t, err)
		require.NoError(t, store.NewGormStore(first, id).Add(rec))
	}

	// first stays open, which keeps the shared in-memory database alive.
	second, err := InitDB(cfg)
	require.NoError(t, err)

	var count int64
	require.NoError(t, second.Model(&store.RecordRow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInitDBUnknownDriver(t *testing.T) {
	_, err := InitDB(&config.Config{StoreDriver: "mongo"})
	assert.Error(t, err)
}
