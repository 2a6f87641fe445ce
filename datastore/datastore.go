/*
Package datastore persists translation catalogs in a SQL database.

A catalog holds the messages of one application. Each message may be translated into any
number of languages. TS documents are imported into the store one language at a time and
exported back out the same way.
*/
package datastore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/petert82/go-linguist-api/catalog"
	"github.com/petert82/go-linguist-api/config"
	"github.com/petert82/go-linguist-api/trans"
	"github.com/petert82/go-linguist-api/ts"
	"github.com/petert82/go-linguist-api/xliff"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrInvalid       = errors.New("invalid")
)

// Adapter provides database-driver-specific migrations, placeholder syntax, etc.
type Adapter interface {
	PostCreate(*sqlx.DB) error
	EnsureVersionTableExists(*sqlx.DB) error
	Up() []string
	Down() []string
	SupportsLastInsertId() bool
	Rebind(query string) string
}

type DataStore struct {
	adapter      Adapter
	db           *sqlx.DB
	catalogCache map[string]int64
	Stats        Stats
}

type Stats map[StatKey]StatItem

type StatKey struct {
	Name   string
	Action string
}

type StatItem struct {
	Duration time.Duration
	Count    int
}

func (s Stats) Log(name, action string, d time.Duration) {
	item := s[StatKey{Name: name, Action: action}]
	item.Count++
	item.Duration += d
	s[StatKey{Name: name, Action: action}] = item
}

func (s Stats) String() (out string) {
	keys := make([]StatKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Action < keys[j].Action
	})
	for _, k := range keys {
		v := s[k]
		out += fmt.Sprintf("%v  %v '%v' actions took %v total, %v avg\n", v.Count, k.Name, k.Action, v.Duration, v.Duration/time.Duration(v.Count))
	}

	return out
}

// Open connects to the database described by c and creates a datastore for it.
func Open(c config.DbConfig) (*DataStore, error) {
	db, err := sqlx.Connect(c.Driver, c.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "datastore: connect")
	}
	return New(db, c.Driver)
}

// Creates a new datastore using the given database connection. The driver parameter is used to
// select the appropriate database adapter, and should be one of the config.DbDriver* constants.
func New(db *sqlx.DB, driver string) (ds *DataStore, err error) {
	adp, err := newAdapter(driver)
	if err != nil {
		return &DataStore{}, err
	}

	ds = &DataStore{
		adapter:      adp,
		db:           db,
		catalogCache: make(map[string]int64),
		Stats:        make(map[StatKey]StatItem),
	}

	err = ds.adapter.PostCreate(ds.db)
	if err != nil {
		return ds, err
	}

	return ds, nil
}

func newAdapter(driver string) (adp Adapter, err error) {
	switch driver {
	case config.DbDriverSqlite3:
		adp = &Sqlite3Adapter{}
	case config.DbDriverPostgresql:
		adp = &PostgresAdapter{}
	}

	if adp == nil {
		return nil, errors.Errorf("no adapter available for database driver '%v'", driver)
	}

	return adp, nil
}

// Catalog is a stored catalog with all of its messages and translations.
type Catalog struct {
	Name           string
	SourceLanguage string
	// Codes of every language with at least one translation, sorted.
	Languages []string
	Messages  []*Message
}

type Message struct {
	Id int64
	trans.Key
	ExtraComment string
	Locations    []trans.Location
	Numerus      bool
	// Keyed by language code.
	Translations map[string]*Translation
}

type Translation struct {
	Id                int64
	Content           string
	NumerusForms      []string
	Status            trans.Status
	TranslatorComment string
}

// Document builds the TS document for one language of the catalog. Messages without a
// translation in that language are included as unfinished.
func (c *Catalog) Document(code string) *ts.Document {
	recs := make([]trans.Record, 0, len(c.Messages))
	for _, m := range c.Messages {
		r := trans.Record{
			Key:          m.Key,
			Locations:    m.Locations,
			ExtraComment: m.ExtraComment,
			Numerus:      m.Numerus,
			Status:       trans.StatusUnfinished,
		}
		if t, ok := m.Translations[code]; ok {
			r.Translation = t.Content
			r.NumerusForms = t.NumerusForms
			r.Status = t.Status
			r.TranslatorComment = t.TranslatorComment
		}
		recs = append(recs, r)
	}
	return ts.FromRecords(QtCode(code), QtCode(c.SourceLanguage), recs)
}

// NormalizeLanguage converts a language code such as "zh_CN" or "EN-us" to its canonical
// BCP 47 form, which is how languages are stored.
func NormalizeLanguage(code string) (string, error) {
	tag, err := catalog.ParseLanguage(code)
	if err != nil {
		return "", errors.Wrap(ErrInvalid, err.Error())
	}
	if tag == language.Und {
		return "", errors.Wrap(ErrInvalid, "empty language code")
	}
	return tag.String(), nil
}

// QtCode converts a stored language code to the underscore form used in TS files.
func QtCode(code string) string {
	return strings.ReplaceAll(code, "-", "_")
}

func displayName(code string) string {
	name := display.English.Tags().Name(language.Make(code))
	if name == "" {
		return code
	}
	return name
}

func encodeList(v interface{}, empty bool) (string, error) {
	if empty {
		return "", nil
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func decodeList(s string, v interface{}) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func notFound(err error, format string, args ...interface{}) error {
	if err == sql.ErrNoRows {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return err
}

// insert runs an INSERT and returns the id of the new row.
func (ds *DataStore) insert(q sqlx.Ext, query string, args ...interface{}) (id int64, err error) {
	if ds.adapter.SupportsLastInsertId() {
		result, err := q.Exec(ds.adapter.Rebind(query), args...)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}

	err = q.QueryRowx(ds.adapter.Rebind(query+" RETURNING id"), args...).Scan(&id)
	return id, err
}

func (ds *DataStore) getLanguage(q sqlx.Queryer, code string) (l trans.Language, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("language", "get", time.Since(start)) }()

	err = sqlx.Get(q, &l, ds.adapter.Rebind(getSingleLanguageQuery), code)
	return l, notFound(err, "language '%v'", code)
}

func (ds *DataStore) createLanguage(q sqlx.Ext, code, name string) (l trans.Language, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("language", "insert", time.Since(start)) }()

	if name == "" {
		name = displayName(code)
	}
	id, err := ds.insert(q, createLanguageQuery, code, name)
	if err != nil {
		return l, err
	}
	log.WithFields(log.Fields{"code": code, "name": name}).Info("created language")

	return trans.Language{Id: id, Code: code, Name: name}, nil
}

func (ds *DataStore) createOrGetLanguage(q sqlx.Ext, code string) (l trans.Language, err error) {
	l, err = ds.getLanguage(q, code)
	if errors.Cause(err) == ErrNotFound {
		return ds.createLanguage(q, code, "")
	}

	return l, err
}

func (ds *DataStore) getCatalogId(q sqlx.Queryer, name string) (id int64, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("catalog", "get", time.Since(start)) }()

	err = sqlx.Get(q, &id, ds.adapter.Rebind(getSingleCatalogIdQuery), name)
	return id, notFound(err, "catalog '%v'", name)
}

// catalogId looks up a catalog outside of any transaction, caching the result.
func (ds *DataStore) catalogId(name string) (id int64, err error) {
	if id, ok := ds.catalogCache[name]; ok {
		return id, nil
	}
	id, err = ds.getCatalogId(ds.db, name)
	if err != nil {
		return 0, err
	}
	ds.catalogCache[name] = id

	return id, nil
}

func (ds *DataStore) createOrUpdateCatalog(q sqlx.Ext, name, sourceLanguage string) (id int64, err error) {
	id, err = ds.getCatalogId(q, name)
	if errors.Cause(err) == ErrNotFound {
		start := time.Now()
		defer func() { ds.Stats.Log("catalog", "insert", time.Since(start)) }()

		return ds.insert(q, createCatalogQuery, name, sourceLanguage)
	}
	if err != nil || sourceLanguage == "" {
		return id, err
	}

	_, err = q.Exec(ds.adapter.Rebind(updateCatalogQuery), sourceLanguage, id)
	return id, err
}

// saveMessage creates or updates the message for r and reports whether it was created.
func (ds *DataStore) saveMessage(q sqlx.Ext, catalogId int64, position int, r trans.Record) (id int64, created bool, err error) {
	locations, err := encodeList(r.Locations, len(r.Locations) == 0)
	if err != nil {
		return 0, false, err
	}

	start := time.Now()
	err = sqlx.Get(q, &id, ds.adapter.Rebind(getSingleMessageIdQuery), catalogId, r.Context, r.Source, r.Comment)
	ds.Stats.Log("message", "get", time.Since(start))

	switch {
	case err == sql.ErrNoRows:
		start = time.Now()
		defer func() { ds.Stats.Log("message", "insert", time.Since(start)) }()

		id, err = ds.insert(q, createMessageQuery, catalogId, r.Context, r.Source, r.Comment, r.ExtraComment, locations, boolInt(r.Numerus), position)
		return id, true, err
	case err != nil:
		return 0, false, err
	}

	start = time.Now()
	defer func() { ds.Stats.Log("message", "update", time.Since(start)) }()

	_, err = q.Exec(ds.adapter.Rebind(updateMessageQuery), r.ExtraComment, locations, boolInt(r.Numerus), position, id)
	return id, false, err
}

func (ds *DataStore) getTranslationId(q sqlx.Queryer, messageId, langId int64) (id int64, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("translation", "get", time.Since(start)) }()

	err = sqlx.Get(q, &id, ds.adapter.Rebind(getSingleTranslationIdQuery), messageId, langId)
	return id, err
}

func (ds *DataStore) saveTranslation(q sqlx.Ext, messageId, langId int64, t Translation, allowCreate bool) (err error) {
	forms, err := encodeList(t.NumerusForms, t.NumerusForms == nil)
	if err != nil {
		return err
	}

	transId, err := ds.getTranslationId(q, messageId, langId)
	switch {
	case err == sql.ErrNoRows && allowCreate:
		start := time.Now()
		defer func() { ds.Stats.Log("translation", "insert", time.Since(start)) }()

		_, err = ds.insert(q, createTranslationQuery, langId, messageId, t.Content, forms, string(t.Status), t.TranslatorComment)
		return err
	case err != nil:
		return notFound(err, "translation of message %v", messageId)
	}

	start := time.Now()
	defer func() { ds.Stats.Log("translation", "update", time.Since(start)) }()

	_, err = q.Exec(ds.adapter.Rebind(updateTranslationQuery), t.Content, forms, string(t.Status), t.TranslatorComment, transId)
	return err
}

// Gets all available languages
func (ds *DataStore) GetLanguageList() (languages []trans.Language, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("language", "get", time.Since(start)) }()

	err = ds.db.Select(&languages, ds.adapter.Rebind(getAllLanguagesQuery))

	return languages, err
}

// CreateLanguage adds a language to the store. When name is empty, the English display name of
// the language is used. Returns ErrAlreadyExists if the language is already known.
func (ds *DataStore) CreateLanguage(code, name string) (l trans.Language, err error) {
	code, err = NormalizeLanguage(code)
	if err != nil {
		return l, err
	}

	_, err = ds.getLanguage(ds.db, code)
	switch {
	case err == nil:
		return l, errors.Wrapf(ErrAlreadyExists, "language '%v'", code)
	case errors.Cause(err) != ErrNotFound:
		return l, err
	}

	return ds.createLanguage(ds.db, code, name)
}

// Gets the names of all catalogs.
func (ds *DataStore) GetCatalogList() (names []string, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("catalog", "get", time.Since(start)) }()

	names = make([]string, 0)
	err = ds.db.Select(&names, ds.adapter.Rebind(getAllCatalogsQuery))

	return names, err
}

// Gets all data for the catalog with the given name.
// Returns ErrNotFound when the given name cannot be found.
func (ds *DataStore) GetFullCatalog(name string) (c *Catalog, err error) {
	start := time.Now()
	defer func() { ds.Stats.Log("catalog", "get", time.Since(start)) }()

	var row struct {
		Id             int64  `db:"id"`
		Name           string `db:"name"`
		SourceLanguage string `db:"source_language"`
	}
	err = ds.db.Get(&row, ds.adapter.Rebind(getSingleCatalogQuery), name)
	if err != nil {
		return nil, notFound(err, "catalog '%v'", name)
	}

	var messages []struct {
		Id           int64  `db:"id"`
		Context      string `db:"context"`
		Source       string `db:"source"`
		Comment      string `db:"comment"`
		ExtraComment string `db:"extra_comment"`
		Locations    string `db:"locations"`
		Numerus      bool   `db:"numerus"`
	}
	err = ds.db.Select(&messages, ds.adapter.Rebind(getCatalogMessagesQuery), row.Id)
	if err != nil {
		return nil, err
	}

	var translations []struct {
		Id                int64  `db:"id"`
		MessageId         int64  `db:"message_id"`
		Code              string `db:"code"`
		Content           string `db:"content"`
		NumerusForms      string `db:"numerus_forms"`
		Status            string `db:"status"`
		TranslatorComment string `db:"translator_comment"`
	}
	err = ds.db.Select(&translations, ds.adapter.Rebind(getCatalogTranslationsQuery), row.Id)
	if err != nil {
		return nil, err
	}

	c = &Catalog{Name: row.Name, SourceLanguage: row.SourceLanguage, Languages: make([]string, 0), Messages: make([]*Message, 0, len(messages))}
	messageIndex := make(map[int64]*Message, len(messages))
	for _, r := range messages {
		m := &Message{
			Id:           r.Id,
			Key:          trans.Key{Context: r.Context, Source: r.Source, Comment: r.Comment},
			ExtraComment: r.ExtraComment,
			Numerus:      r.Numerus,
			Translations: make(map[string]*Translation),
		}
		if err = decodeList(r.Locations, &m.Locations); err != nil {
			return nil, errors.Wrapf(err, "message %v locations", r.Id)
		}
		c.Messages = append(c.Messages, m)
		messageIndex[r.Id] = m
	}

	seen := make(map[string]bool)
	for _, r := range translations {
		m, ok := messageIndex[r.MessageId]
		if !ok {
			continue
		}
		t := &Translation{Id: r.Id, Content: r.Content, Status: trans.Status(r.Status), TranslatorComment: r.TranslatorComment}
		if err = decodeList(r.NumerusForms, &t.NumerusForms); err != nil {
			return nil, errors.Wrapf(err, "translation %v numerus forms", r.Id)
		}
		m.Translations[r.Code] = t
		if !seen[r.Code] {
			seen[r.Code] = true
			c.Languages = append(c.Languages, r.Code)
		}
	}
	sort.Strings(c.Languages)

	return c, nil
}

// GetCatalogDocument gets the TS document for one language of a catalog.
func (ds *DataStore) GetCatalogDocument(name, code string) (*ts.Document, error) {
	code, err := NormalizeLanguage(code)
	if err != nil {
		return nil, err
	}
	c, err := ds.GetFullCatalog(name)
	if err != nil {
		return nil, err
	}
	return c.Document(code), nil
}

// GetTranslator builds a runtime lookup table for one language of a catalog.
func (ds *DataStore) GetTranslator(name, code string, opts catalog.Options) (*catalog.Catalog, error) {
	doc, err := ds.GetCatalogDocument(name, code)
	if err != nil {
		return nil, err
	}
	return catalog.New(doc, opts)
}

// checkMessage confirms the message with the given id belongs to the named catalog and
// reports whether it is a numerus message.
func (ds *DataStore) checkMessage(catalogName string, messageId int64) (numerus bool, err error) {
	catId, err := ds.catalogId(catalogName)
	if err != nil {
		return false, err
	}

	var row struct {
		Id      int64 `db:"id"`
		Numerus bool  `db:"numerus"`
	}
	err = ds.db.Get(&row, ds.adapter.Rebind(getCatalogMessageQuery), catId, messageId)
	if err != nil {
		return false, notFound(err, "message %v in catalog '%v'", messageId, catalogName)
	}
	return row.Numerus, nil
}

// Updates the translation of a message into the given language.
// When allowCreate is false, will return ErrNotFound if the message is not yet translated into
// the given language. If allowCreate is true, both the language and the translation will be
// created if either does not exist.
func (ds *DataStore) CreateOrUpdateTranslation(catalogName string, messageId int64, langCode string, t Translation, allowCreate bool) (err error) {
	numerus, err := ds.checkMessage(catalogName, messageId)
	if err != nil {
		return err
	}
	if !t.Status.Valid() {
		return errors.Wrapf(ErrInvalid, "translation status '%v'", t.Status)
	}
	if numerus {
		if len(t.NumerusForms) == 0 && t.Content != "" {
			t.NumerusForms = []string{t.Content}
		}
		t.Content = ""
	} else {
		if len(t.NumerusForms) > 0 {
			return errors.Wrapf(ErrInvalid, "message %v has no plural forms", messageId)
		}
		t.NumerusForms = nil
	}

	code, err := NormalizeLanguage(langCode)
	if err != nil {
		return err
	}
	var lang trans.Language
	if allowCreate {
		lang, err = ds.createOrGetLanguage(ds.db, code)
	} else {
		lang, err = ds.getLanguage(ds.db, code)
	}
	if err != nil {
		return err
	}

	return ds.saveTranslation(ds.db, messageId, lang.Id, t, allowCreate)
}

// Deletes a single message and all its translations.
func (ds *DataStore) DeleteMessage(catalogName string, messageId int64) (err error) {
	if _, err = ds.checkMessage(catalogName, messageId); err != nil {
		return err
	}

	start := time.Now()
	defer func() { ds.Stats.Log("message", "delete", time.Since(start)) }()

	tx, err := ds.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// foreign_keys is a per-connection setting in SQLite, so the cascade is not relied on
	if _, err = tx.Exec(ds.adapter.Rebind(deleteMessageTranslationsQuery), messageId); err != nil {
		return err
	}
	if _, err = tx.Exec(ds.adapter.Rebind(deleteMessageQuery), messageId); err != nil {
		return err
	}
	return tx.Commit()
}

// Deletes the translation of a single message into the given language.
func (ds *DataStore) DeleteTranslation(catalogName string, messageId int64, langCode string) (err error) {
	if _, err = ds.checkMessage(catalogName, messageId); err != nil {
		return err
	}
	code, err := NormalizeLanguage(langCode)
	if err != nil {
		return err
	}
	lang, err := ds.getLanguage(ds.db, code)
	if err != nil {
		return err
	}
	transId, err := ds.getTranslationId(ds.db, messageId, lang.Id)
	if err != nil {
		return notFound(err, "translation of message %v into '%v'", messageId, code)
	}

	start := time.Now()
	defer func() { ds.Stats.Log("translation", "delete", time.Since(start)) }()

	_, err = ds.db.Exec(ds.adapter.Rebind(deleteTranslationQuery), transId)
	return err
}

type ImportResult struct {
	Catalog     string
	Language    string
	Messages    int
	NewMessages int
}

// ImportDocument stores every message of doc in the named catalog along with its translation
// into the document's language. The document must carry a language and pass Check. The import
// happens in a single transaction.
func (ds *DataStore) ImportDocument(name string, doc *ts.Document) (res ImportResult, err error) {
	if err = doc.Check(); err != nil {
		return res, errors.Wrapf(ErrInvalid, "catalog '%v': %v", name, err)
	}
	code, err := NormalizeLanguage(doc.Language)
	if err != nil {
		return res, errors.Wrapf(err, "catalog '%v'", name)
	}
	var srcCode string
	if doc.SourceLanguage != "" {
		if srcCode, err = NormalizeLanguage(doc.SourceLanguage); err != nil {
			return res, errors.Wrapf(err, "catalog '%v' source language", name)
		}
	}

	tx, err := ds.db.Beginx()
	if err != nil {
		return res, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	catId, err := ds.createOrUpdateCatalog(tx, name, srcCode)
	if err != nil {
		return res, err
	}
	lang, err := ds.createOrGetLanguage(tx, code)
	if err != nil {
		return res, err
	}

	res = ImportResult{Catalog: name, Language: code}
	for i, r := range doc.Records() {
		msgId, created, err := ds.saveMessage(tx, catId, i, r)
		if err != nil {
			return res, errors.Wrapf(err, "message %v", r.Key)
		}
		if created {
			res.NewMessages++
		}

		t := Translation{Content: r.Translation, Status: r.Status, TranslatorComment: r.TranslatorComment}
		if r.Numerus {
			t.Content = ""
			t.NumerusForms = append([]string{}, r.NumerusForms...)
		}
		if err = ds.saveTranslation(tx, msgId, lang.Id, t, true); err != nil {
			return res, errors.Wrapf(err, "translation of %v", r.Key)
		}
		res.Messages++
	}

	if err = tx.Commit(); err != nil {
		return res, err
	}
	log.WithFields(log.Fields{"catalog": name, "language": code, "messages": res.Messages, "new": res.NewMessages}).Debug("imported document")

	return res, nil
}

// CatalogName derives a catalog name from a TS file name by dropping a trailing language
// suffix, so "vial_zh_CN.ts" in zh_CN becomes "vial". Files named after the language alone,
// such as "i18n/zh.ts", take the name of their directory.
func CatalogName(file, lang string) string {
	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	suffixes := []string{lang}
	if code, err := NormalizeLanguage(lang); err == nil {
		b, _ := language.Make(code).Base()
		suffixes = append(suffixes, QtCode(code), code, b.String())
	}
	for _, s := range suffixes {
		if s == "" {
			continue
		}
		if strings.EqualFold(stem, s) {
			return filepath.Base(filepath.Dir(file))
		}
		for _, sep := range []string{"_", "-", "."} {
			if len(stem) > len(s)+1 && strings.EqualFold(stem[len(stem)-len(s)-1:], sep+s) {
				return stem[:len(stem)-len(s)-1]
			}
		}
	}

	return stem
}

// ImportFile imports a single .ts or "name.lang.xliff" file.
func (ds *DataStore) ImportFile(file string) (ImportResult, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".ts":
		doc, err := ts.ParseFile(file)
		if err != nil {
			return ImportResult{}, err
		}
		return ds.ImportDocument(CatalogName(file, doc.Language), doc)
	case ".xliff":
		x, name, err := xliff.NewFromFile(file)
		if err != nil {
			return ImportResult{}, err
		}
		return ds.ImportDocument(name, x.Document())
	}

	return ImportResult{}, errors.Errorf("don't know how to import '%v'", file)
}

// ImportDir imports every .ts and .xliff file in dir, sending the base name of each file to
// notify once it has been imported.
func (ds *DataStore) ImportDir(dir string, notify chan<- string) (count int, err error) {
	var files []string
	for _, pattern := range []string{"*.ts", "*.xliff"} {
		found, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return 0, err
		}
		files = append(files, found...)
	}
	sort.Strings(files)

	for i, file := range files {
		if _, err = ds.ImportFile(file); err != nil {
			return i, errors.Wrap(err, filepath.Base(file))
		}

		if notify != nil {
			notify <- filepath.Base(file)
		}
	}

	return len(files), nil
}

// ExportCatalog writes one "name_lang.ts" file per translated language of the catalog into dir
// and returns the paths written.
func (ds *DataStore) ExportCatalog(name, dir string) (files []string, err error) {
	c, err := ds.GetFullCatalog(name)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	for _, code := range c.Languages {
		file := filepath.Join(dir, fmt.Sprintf("%v_%v.ts", name, QtCode(code)))
		if err = c.Document(code).WriteFile(file); err != nil {
			return files, errors.Wrapf(err, "export '%v'", name)
		}
		files = append(files, file)
	}
	log.WithFields(log.Fields{"catalog": name, "files": len(files)}).Info("exported catalog")

	return files, nil
}

// ExportCatalogXliff writes one "name.lang.xliff" file per language of the catalog to dir.
func (ds *DataStore) ExportCatalogXliff(name, dir string) (files []string, err error) {
	c, err := ds.GetFullCatalog(name)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	for _, code := range c.Languages {
		file, err := xliff.Export(c.Document(code), name, dir)
		if err != nil {
			return files, errors.Wrapf(err, "export '%v'", name)
		}
		files = append(files, file)
	}
	log.WithFields(log.Fields{"catalog": name, "files": len(files), "format": "xliff"}).Info("exported catalog")

	return files, nil
}
