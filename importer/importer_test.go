package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petert82/go-linguist-api/config"
	"github.com/petert82/go-linguist-api/datastore"
)

func newTestStore(t *testing.T) *datastore.DataStore {
	t.Helper()
	db, err := sqlx.Connect(config.DbDriverSqlite3, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ds, err := datastore.New(db, config.DbDriverSqlite3)
	require.NoError(t, err)
	_, err = ds.MigrateUp()
	require.NoError(t, err)
	return ds
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"vial_zh.ts", "features.ts"} {
		data, err := os.ReadFile(filepath.Join("..", "ts", "testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	ds := newTestStore(t)
	count, err := Run(ds, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	names, err := ds.GetCatalogList()
	require.NoError(t, err)
	assert.Equal(t, []string{"features", "vial"}, names)
}

func TestRunBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken_de.ts"), []byte("<TS><context>"), 0o644))

	count, err := Run(newTestStore(t), dir)
	assert.Error(t, err)
	assert.Equal(t, 0, count)
}
