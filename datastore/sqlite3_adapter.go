package datastore

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

// Sqlite3Adapter provides support for SQLite3 databases.
type Sqlite3Adapter struct{}

func (s Sqlite3Adapter) EnsureVersionTableExists(db *sqlx.DB) (err error) {
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS "schema_migrations" ("version" INTEGER PRIMARY KEY NOT NULL)`)
	if err != nil {
		return err
	}

	var count int
	err = db.Get(&count, `SELECT COUNT(*) FROM schema_migrations`)
	if err != nil {
		return err
	}
	switch {
	case count == 0:
		_, err = db.Exec(`INSERT INTO schema_migrations (version) VALUES (0)`)
	case count > 1:
		err = errors.New("too many rows in schema_migrations table")
	}

	return err
}

func (s Sqlite3Adapter) PostCreate(db *sqlx.DB) (err error) {
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return err
	}
	// Faster than using default journal file
	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return err
	}
	// Default (full) is slower
	_, err = db.Exec("PRAGMA synchronous = NORMAL")
	if err != nil {
		return err
	}

	return nil
}

func (s Sqlite3Adapter) Up() []string {
	return []string{
		// 1
		`
CREATE TABLE "catalog" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "name" TEXT NOT NULL UNIQUE,
    "source_language" TEXT NOT NULL DEFAULT ''
);
CREATE TABLE "language" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "name" TEXT,
    "code" TEXT UNIQUE
);
CREATE TABLE "message" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "catalog_id" INTEGER NOT NULL REFERENCES "catalog"("id") ON UPDATE CASCADE ON DELETE CASCADE,
    "context" TEXT NOT NULL,
    "source" TEXT NOT NULL,
    "comment" TEXT NOT NULL DEFAULT '',
    "extra_comment" TEXT NOT NULL DEFAULT '',
    "locations" TEXT NOT NULL DEFAULT '',
    "numerus" INTEGER NOT NULL DEFAULT 0,
    "position" INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX "catalog_id" ON "message" ("catalog_id");
CREATE UNIQUE INDEX "message_key" ON "message" ("catalog_id", "context", "source", "comment");
CREATE TABLE "translation" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "language_id" INTEGER NOT NULL REFERENCES "language"("id") ON UPDATE CASCADE ON DELETE CASCADE,
    "message_id" INTEGER NOT NULL REFERENCES "message"("id") ON UPDATE CASCADE ON DELETE CASCADE,
    "content" TEXT NOT NULL DEFAULT '',
    "numerus_forms" TEXT NOT NULL DEFAULT '',
    "status" TEXT NOT NULL DEFAULT '',
    "translator_comment" TEXT NOT NULL DEFAULT ''
);
CREATE INDEX "language_id" ON "translation" ("language_id");
CREATE UNIQUE INDEX "message_id_language_id" ON "translation" ("message_id", "language_id");
INSERT INTO language (name, code) VALUES
    ('Chinese (China)', 'zh-CN'),
    ('Chinese (Taiwan)', 'zh-TW'),
    ('English', 'en'),
    ('English (US)', 'en-US'),
    ('German', 'de'),
    ('Spanish', 'es'),
    ('French', 'fr'),
    ('Italian', 'it'),
    ('Japanese', 'ja'),
    ('Korean', 'ko'),
    ('Polish', 'pl'),
    ('Portuguese (Brazil)', 'pt-BR'),
    ('Russian', 'ru'),
    ('Ukrainian', 'uk'),
    ('Czech', 'cs'),
    ('Turkish', 'tr');
`,
		// 2
		`INSERT INTO language (code, name) VALUES ('nl', 'Dutch')`,
	}
}

func (s Sqlite3Adapter) Down() []string {
	return []string{
		// 1
		`
DROP TABLE translation;
DROP TABLE message;
DROP TABLE language;
DROP TABLE catalog;
`,
		// 2
		`DELETE FROM language WHERE code = 'nl'`,
	}
}

func (s Sqlite3Adapter) SupportsLastInsertId() bool {
	return true
}

func (s Sqlite3Adapter) Rebind(query string) string {
	return query
}
