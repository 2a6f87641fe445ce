package datastore

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

// PostgresAdapter provides support for PostgreSQL databases.
type PostgresAdapter struct{}

func (a PostgresAdapter) EnsureVersionTableExists(db *sqlx.DB) (err error) {
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version integer PRIMARY KEY NOT NULL)`)
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

func (a PostgresAdapter) PostCreate(db *sqlx.DB) (err error) {
	return nil
}

func (a PostgresAdapter) Up() []string {
	return []string{
		// 1
		`
CREATE TABLE catalog (
    id SERIAL PRIMARY KEY,
    name varchar NOT NULL UNIQUE,
    source_language varchar NOT NULL DEFAULT ''
);
CREATE TABLE language (
    id SERIAL PRIMARY KEY,
    name varchar,
    code varchar UNIQUE
);
CREATE TABLE message (
    id SERIAL PRIMARY KEY,
    catalog_id integer NOT NULL REFERENCES catalog(id) ON DELETE CASCADE ON UPDATE CASCADE,
    context TEXT NOT NULL,
    source TEXT NOT NULL,
    comment TEXT NOT NULL DEFAULT '',
    extra_comment TEXT NOT NULL DEFAULT '',
    locations TEXT NOT NULL DEFAULT '',
    numerus integer NOT NULL DEFAULT 0,
    position integer NOT NULL DEFAULT 0
);
CREATE INDEX catalog_id_idx ON message (catalog_id);
CREATE UNIQUE INDEX message_key_idx ON message (catalog_id, context, source, comment);
CREATE TABLE translation (
    id SERIAL PRIMARY KEY,
    language_id integer NOT NULL REFERENCES language(id) ON DELETE CASCADE ON UPDATE CASCADE,
    message_id integer NOT NULL REFERENCES message(id) ON DELETE CASCADE ON UPDATE CASCADE,
    content TEXT NOT NULL DEFAULT '',
    numerus_forms TEXT NOT NULL DEFAULT '',
    status varchar NOT NULL DEFAULT '',
    translator_comment TEXT NOT NULL DEFAULT ''
);
CREATE INDEX language_id_idx ON translation (language_id);
CREATE UNIQUE INDEX message_id_language_id_idx ON translation (message_id, language_id);
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
    ('Turkish', 'tr');`,
		// 2
		`INSERT INTO language (code, name) VALUES ('nl', 'Dutch');`,
	}
}

func (a PostgresAdapter) Down() []string {
	return []string{
		// 1
		`
DROP TABLE IF EXISTS translation;
DROP TABLE IF EXISTS message;
DROP TABLE IF EXISTS language;
DROP TABLE IF EXISTS catalog;
`,
		// 2
		`DELETE FROM language WHERE code = 'nl';`,
	}
}

func (a PostgresAdapter) SupportsLastInsertId() bool {
	return false
}

func (a PostgresAdapter) Rebind(query string) string {
	return sqlx.Rebind(sqlx.DOLLAR, query)
}
