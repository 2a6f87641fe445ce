package datastore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petert82/go-linguist-api/catalog"
	"github.com/petert82/go-linguist-api/config"
	"github.com/petert82/go-linguist-api/trans"
	"github.com/petert82/go-linguist-api/ts"
	"github.com/petert82/go-linguist-api/xliff"
)

var (
	vialFile     = filepath.Join("..", "ts", "testdata", "vial_zh.ts")
	featuresFile = filepath.Join("..", "ts", "testdata", "features.ts")
)

func newTestStore(t *testing.T) *DataStore {
	t.Helper()
	db, err := sqlx.Connect(config.DbDriverSqlite3, ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ds, err := New(db, config.DbDriverSqlite3)
	require.NoError(t, err)
	version, err := ds.MigrateUp()
	require.NoError(t, err)
	require.EqualValues(t, 2, version)
	return ds
}

func importVial(t *testing.T, ds *DataStore) *Catalog {
	t.Helper()
	_, err := ds.ImportFile(vialFile)
	require.NoError(t, err)
	c, err := ds.GetFullCatalog("vial")
	require.NoError(t, err)
	return c
}

func findMessage(t *testing.T, c *Catalog, k trans.Key) *Message {
	t.Helper()
	for _, m := range c.Messages {
		if m.Key == k {
			return m
		}
	}
	t.Fatalf("message %v not found", k)
	return nil
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(nil, "mysql")
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	ds := newTestStore(t)

	version, err := ds.MigrateUp()
	require.NoError(t, err)
	assert.EqualValues(t, 2, version, "already migrated")

	ls, err := ds.GetLanguageList()
	require.NoError(t, err)
	codes := make([]string, len(ls))
	for i, l := range ls {
		codes[i] = l.Code
	}
	assert.Contains(t, codes, "nl")
	assert.Contains(t, codes, "zh-CN")

	version, err = ds.MigrateDown()
	require.NoError(t, err)
	assert.EqualValues(t, 0, version)

	version, err = ds.MigrateUp()
	require.NoError(t, err)
	assert.EqualValues(t, 2, version)
}

func TestImportDocument(t *testing.T) {
	ds := newTestStore(t)

	res, err := ds.ImportFile(vialFile)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Catalog: "vial", Language: "zh-CN", Messages: 6, NewMessages: 6}, res)

	res, err = ds.ImportFile(vialFile)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewMessages, "re-import updates existing messages")

	names, err := ds.GetCatalogList()
	require.NoError(t, err)
	assert.Equal(t, []string{"vial"}, names)

	c, err := ds.GetFullCatalog("vial")
	require.NoError(t, err)
	assert.Equal(t, "en", c.SourceLanguage)
	assert.Equal(t, []string{"zh-CN"}, c.Languages)
	require.Len(t, c.Messages, 6)
	assert.Equal(t, "刷新", c.Messages[2].Translations["zh-CN"].Content)
	assert.Equal(t, []trans.Location{{File: "main_window.py", Line: 55}}, c.Messages[2].Locations)

	want, err := ts.ParseFile(vialFile)
	require.NoError(t, err)
	got := c.Document("zh-CN")
	assert.Equal(t, "zh_CN", got.Language)
	if diff := cmp.Diff(want.Records(), got.Records()); diff != "" {
		t.Errorf("records differ (-want +got):\n%s", diff)
	}
}

func TestImportCreatesLanguage(t *testing.T) {
	ds := newTestStore(t)

	res, err := ds.ImportFile(featuresFile)
	require.NoError(t, err)
	assert.Equal(t, "features", res.Catalog)
	assert.Equal(t, "ru-RU", res.Language)

	l, err := ds.getLanguage(ds.db, "ru-RU")
	require.NoError(t, err)
	assert.Contains(t, l.Name, "Russian")

	want, err := ts.ParseFile(featuresFile)
	require.NoError(t, err)
	got, err := ds.GetCatalogDocument("features", "ru_RU")
	require.NoError(t, err)
	assert.Equal(t, "en_US", got.SourceLanguage)
	if diff := cmp.Diff(want.Records(), got.Records()); diff != "" {
		t.Errorf("records differ (-want +got):\n%s", diff)
	}
}

func TestImportDocumentRejectsInvalid(t *testing.T) {
	ds := newTestStore(t)

	doc := ts.New("", "")
	doc.AddContext("Menu").Messages = []*ts.Message{{Source: "File"}}
	_, err := ds.ImportDocument("app", doc)
	assert.Equal(t, ErrInvalid, errors.Cause(err), "missing language")

	doc.Language = "de"
	doc.Contexts[0].Messages = append(doc.Contexts[0].Messages, &ts.Message{Source: "File"})
	_, err = ds.ImportDocument("app", doc)
	assert.Equal(t, ErrInvalid, errors.Cause(err), "duplicate message")

	names, err := ds.GetCatalogList()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCreateOrUpdateTranslation(t *testing.T) {
	ds := newTestStore(t)
	c := importVial(t, ds)
	m := findMessage(t, c, trans.Key{Context: "@default", Source: "MainWindow"})

	err := ds.CreateOrUpdateTranslation("vial", m.Id, "de", Translation{Content: "Hauptfenster"}, false)
	assert.Equal(t, ErrNotFound, errors.Cause(err), "update requires an existing translation")

	err = ds.CreateOrUpdateTranslation("vial", m.Id, "de_AT", Translation{Content: "Hauptfenster"}, true)
	require.NoError(t, err)
	err = ds.CreateOrUpdateTranslation("vial", m.Id, "zh_CN", Translation{Content: "主窗口", TranslatorComment: "title"}, false)
	require.NoError(t, err)

	c, err = ds.GetFullCatalog("vial")
	require.NoError(t, err)
	assert.Equal(t, []string{"de-AT", "zh-CN"}, c.Languages)
	m = findMessage(t, c, m.Key)
	assert.Equal(t, "Hauptfenster", m.Translations["de-AT"].Content)
	assert.Equal(t, trans.StatusFinished, m.Translations["de-AT"].Status)
	assert.Equal(t, "主窗口", m.Translations["zh-CN"].Content)
	assert.Equal(t, "title", m.Translations["zh-CN"].TranslatorComment)

	doc := c.Document("de-AT")
	assert.Equal(t, 6, doc.Len())
	assert.Equal(t, trans.StatusUnfinished, doc.Find(trans.Key{Context: "@default", Source: "Menu", Comment: "File"}).Type)

	err = ds.CreateOrUpdateTranslation("vial", m.Id, "de", Translation{Status: "reviewed"}, true)
	assert.Equal(t, ErrInvalid, errors.Cause(err))
	err = ds.CreateOrUpdateTranslation("vial", m.Id, "de", Translation{NumerusForms: []string{"a", "b"}}, true)
	assert.Equal(t, ErrInvalid, errors.Cause(err))
	err = ds.CreateOrUpdateTranslation("nope", m.Id, "de", Translation{Content: "x"}, true)
	assert.Equal(t, ErrNotFound, errors.Cause(err))
	err = ds.CreateOrUpdateTranslation("vial", m.Id+1000, "de", Translation{Content: "x"}, true)
	assert.Equal(t, ErrNotFound, errors.Cause(err))
}

func TestNumerusTranslation(t *testing.T) {
	ds := newTestStore(t)
	_, err := ds.ImportFile(featuresFile)
	require.NoError(t, err)
	c, err := ds.GetFullCatalog("features")
	require.NoError(t, err)

	var numerus *Message
	for _, m := range c.Messages {
		if m.Numerus {
			numerus = m
			break
		}
	}
	require.NotNil(t, numerus)

	forms := []string{"%n datei", "%n dateien"}
	require.NoError(t, ds.CreateOrUpdateTranslation("features", numerus.Id, "de", Translation{NumerusForms: forms}, true))

	cat, err := ds.GetTranslator("features", "de", catalog.Options{})
	require.NoError(t, err)
	assert.Equal(t, "3 dateien", cat.TranslateN(numerus.Context, numerus.Source, numerus.Comment, 3))
}

func TestDelete(t *testing.T) {
	ds := newTestStore(t)
	c := importVial(t, ds)
	menu := findMessage(t, c, trans.Key{Context: "@default", Source: "Menu", Comment: "File"})
	refresh := findMessage(t, c, trans.Key{Context: "@default", Source: "MainWindow", Comment: "Refresh"})

	require.NoError(t, ds.DeleteTranslation("vial", menu.Id, "zh_CN"))
	err := ds.DeleteTranslation("vial", menu.Id, "zh_CN")
	assert.Equal(t, ErrNotFound, errors.Cause(err))

	require.NoError(t, ds.DeleteMessage("vial", refresh.Id))
	err = ds.DeleteMessage("vial", refresh.Id)
	assert.Equal(t, ErrNotFound, errors.Cause(err))

	c, err = ds.GetFullCatalog("vial")
	require.NoError(t, err)
	assert.Len(t, c.Messages, 5)
	assert.Empty(t, findMessage(t, c, menu.Key).Translations)
}

func TestDeleteMessageOnPooledConnections(t *testing.T) {
	db, err := sqlx.Connect(config.DbDriverSqlite3, filepath.Join(t.TempDir(), "linguist.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	t.Cleanup(func() { db.Close() })

	ds, err := New(db, config.DbDriverSqlite3)
	require.NoError(t, err)
	_, err = ds.MigrateUp()
	require.NoError(t, err)
	c := importVial(t, ds)
	refresh := findMessage(t, c, trans.Key{Context: "@default", Source: "MainWindow", Comment: "Refresh"})

	countTranslations := func() (n int) {
		require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM translation WHERE message_id = ?", refresh.Id))
		return n
	}
	require.Equal(t, 1, countTranslations())

	// Keep the idle connection busy so the delete runs on a fresh one.
	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, ds.DeleteMessage("vial", refresh.Id))
	assert.Equal(t, 0, countTranslations())
}

func TestOpenEnablesForeignKeys(t *testing.T) {
	ds, err := Open(config.DbConfig{Driver: config.DbDriverSqlite3, File: filepath.Join(t.TempDir(), "linguist.db")})
	require.NoError(t, err)
	t.Cleanup(func() { ds.db.Close() })

	ctx := context.Background()
	first, err := ds.db.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := ds.db.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []*sql.Conn{first, second} {
		var on int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on))
		assert.Equal(t, 1, on)
	}
}

func TestCreateLanguage(t *testing.T) {
	ds := newTestStore(t)

	l, err := ds.CreateLanguage("sv", "")
	require.NoError(t, err)
	assert.Equal(t, "sv", l.Code)
	assert.Equal(t, "Swedish", l.Name)

	l, err = ds.CreateLanguage("pt_PT", "Português")
	require.NoError(t, err)
	assert.Equal(t, "pt-PT", l.Code)
	assert.Equal(t, "Português", l.Name)

	_, err = ds.CreateLanguage("sv", "")
	assert.Equal(t, ErrAlreadyExists, errors.Cause(err))
	_, err = ds.CreateLanguage("zh_CN", "")
	assert.Equal(t, ErrAlreadyExists, errors.Cause(err))
	_, err = ds.CreateLanguage("", "")
	assert.Equal(t, ErrInvalid, errors.Cause(err))
}

func TestGetFullCatalogNotFound(t *testing.T) {
	ds := newTestStore(t)
	_, err := ds.GetFullCatalog("nope")
	assert.Equal(t, ErrNotFound, errors.Cause(err))
}

func TestExportCatalog(t *testing.T) {
	ds := newTestStore(t)
	importVial(t, ds)

	dir := filepath.Join(t.TempDir(), "out")
	files, err := ds.ExportCatalog("vial", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "vial_zh_CN.ts")}, files)

	want, err := ts.ParseFile(vialFile)
	require.NoError(t, err)
	got, err := ts.ParseFile(files[0])
	require.NoError(t, err)
	if diff := cmp.Diff(want.Records(), got.Records()); diff != "" {
		t.Errorf("records differ (-want +got):\n%s", diff)
	}
}

func TestImportDir(t *testing.T) {
	ds := newTestStore(t)
	dir := t.TempDir()

	data, err := os.ReadFile(vialFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vial_zh_CN.ts"), data, 0o644))

	doc := ts.New("de", "en")
	doc.AddContext("Menu").Messages = []*ts.Message{{Source: "File", Translation: "Datei"}}
	_, err = xliff.Export(doc, "app", dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	notify := make(chan string, 10)
	count, err := ds.ImportDir(dir, notify)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	close(notify)
	var seen []string
	for f := range notify {
		seen = append(seen, f)
	}
	assert.Equal(t, []string{"app.de.xliff", "vial_zh_CN.ts"}, seen)

	names, err := ds.GetCatalogList()
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "vial"}, names)

	cat, err := ds.GetTranslator("app", "de", catalog.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Datei", cat.Tr("Menu", "File"))
}

func TestCatalogName(t *testing.T) {
	cases := []struct {
		file, lang, want string
	}{
		{"vial_zh_CN.ts", "zh_CN", "vial"},
		{"vial_zh.ts", "zh_CN", "vial"},
		{"app-de.ts", "de", "app"},
		{filepath.Join("i18n", "zh.ts"), "zh_CN", "i18n"},
		{"features.ts", "ru_RU", "features"},
		{"app.ts", "", "app"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CatalogName(c.file, c.lang), c.file)
	}
}

func TestStats(t *testing.T) {
	ds := newTestStore(t)
	importVial(t, ds)
	out := ds.Stats.String()
	assert.Contains(t, out, "message 'insert'")
	assert.Contains(t, out, "catalog 'get'")
}

func TestPostgresRebind(t *testing.T) {
	assert.Equal(t, "SELECT id FROM catalog WHERE name = $1 AND id = $2", PostgresAdapter{}.Rebind("SELECT id FROM catalog WHERE name = ? AND id = ?"))
	assert.False(t, PostgresAdapter{}.SupportsLastInsertId())
}
