/*
Package server provides the JSON HTTP API over the datastore.

Any change made through the API causes the affected catalog to be re-exported as TS files in
the background.
*/
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/petert82/go-linguist-api/catalog"
	"github.com/petert82/go-linguist-api/config"
	"github.com/petert82/go-linguist-api/datastore"
	"github.com/petert82/go-linguist-api/trans"
)

type api struct {
	db        *sqlx.DB
	driver    string
	exportDir string
	opts      catalog.Options
	export    chan string
}

func checkFatal(err error) {
	if err != nil {
		log.WithError(err).Error("server failed")
		os.Exit(1)
	}
}

func checkHttpWithStatus(e error, w http.ResponseWriter, status int) (hadError bool) {
	if e != nil {
		w.WriteHeader(status)

		jsonErr := struct {
			Error string `json:"error"`
		}{
			Error: e.Error(),
		}
		enc := json.NewEncoder(w)
		enc.Encode(jsonErr)

		if status >= http.StatusInternalServerError {
			log.WithError(e).Error("request failed")
		}

		return true
	}
	return false
}

func checkHttp(e error, w http.ResponseWriter) (hadError bool) {
	status := http.StatusInternalServerError
	switch errors.Cause(e) {
	case datastore.ErrNotFound:
		status = http.StatusNotFound
	case datastore.ErrInvalid:
		status = http.StatusBadRequest
	case datastore.ErrAlreadyExists:
		status = http.StatusConflict
	}
	return checkHttpWithStatus(e, w, status)
}

// Instantiates a datastore for a request using the shared DB connection
func (a *api) handleWithDatastore(f func(http.ResponseWriter, *http.Request, *datastore.DataStore)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := datastore.New(a.db, a.driver)

		if checkHttpWithStatus(err, w, http.StatusServiceUnavailable) {
			return
		}
		f(w, r, ds)
	}
}

func setJsonHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h.ServeHTTP(w, r)
	})
}

func writeOk(w http.ResponseWriter) {
	w.Write([]byte("{\"result\":\"ok\"}\n"))
}

func messageId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(datastore.ErrInvalid, "message id '%v'", mux.Vars(r)["id"])
	}
	return id, nil
}

// Gets list of available languages
func getLanguagesHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	ls, err := ds.GetLanguageList()
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(ls), w)
}

// Creates a new language
func createLanguageHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	code := mux.Vars(r)["lang"]

	var content struct {
		Name string `json:"name"`
	}

	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(&content)
	if err != nil {
		checkHttpWithStatus(fmt.Errorf("could not decode request (%v)", err), w, http.StatusBadRequest)
		return
	}

	_, err = ds.CreateLanguage(code, content.Name)
	if checkHttp(err, w) {
		return
	}

	writeOk(w)
}

// Gets list of available catalog names
func getCatalogsHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	names, err := ds.GetCatalogList()
	if checkHttp(err, w) {
		return
	}

	var output struct {
		Catalogs []string `json:"catalogs"`
	}
	output.Catalogs = names

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(output), w)
}

// Get a catalog and all its messages & translations
func getCatalogHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	name := mux.Vars(r)["name"]

	c, err := ds.GetFullCatalog(name)
	if checkHttp(err, w) {
		return
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(NewCatalog(c)), w)
}

// Export a catalog to TS files on disk, or to XLIFF files with format=xliff
func (a *api) exportCatalogHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	name := mux.Vars(r)["name"]

	var files []string
	var err error
	switch format := r.URL.Query().Get("format"); format {
	case "", "ts":
		files, err = ds.ExportCatalog(name, a.exportDir)
	case "xliff":
		files, err = ds.ExportCatalogXliff(name, a.exportDir)
	default:
		err = errors.Wrapf(datastore.ErrInvalid, "export format '%v'", format)
	}
	if checkHttp(err, w) {
		return
	}

	var output struct {
		Result string   `json:"result"`
		Files  []string `json:"files"`
	}
	output.Result = "ok"
	output.Files = files
	if output.Files == nil {
		output.Files = []string{}
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(output), w)
}

// Looks up a message the way a running application would
func (a *api) translateHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	name := mux.Vars(r)["name"]
	q := r.URL.Query()

	lang := q.Get("lang")
	if lang == "" {
		checkHttp(errors.Wrap(datastore.ErrInvalid, "missing lang parameter"), w)
		return
	}
	ctx := q.Get("context")
	if ctx == "" {
		ctx = trans.DefaultContext
	}
	source, comment := q.Get("source"), q.Get("comment")

	cat, err := ds.GetTranslator(name, lang, a.opts)
	if checkHttp(err, w) {
		return
	}

	var output struct {
		Translation string `json:"translation"`
		Found       bool   `json:"found"`
	}
	_, output.Found = cat.Lookup(ctx, source, comment)
	if n := q.Get("n"); n != "" {
		count, err := strconv.Atoi(n)
		if err != nil {
			checkHttp(errors.Wrapf(datastore.ErrInvalid, "n '%v'", n), w)
			return
		}
		output.Translation = cat.TranslateN(ctx, source, comment, count)
	} else {
		output.Translation = cat.Translate(ctx, source, comment)
	}

	enc := json.NewEncoder(w)
	checkHttp(enc.Encode(output), w)
}

// Update a translation with new content (or create it if we have a POST request)
// On success, the affected catalog will be re-exported to file.
func (a *api) createOrUpdateTranslationHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	name := mux.Vars(r)["name"]
	lang := mux.Vars(r)["lang"]
	id, err := messageId(r)
	if checkHttp(err, w) {
		return
	}

	var content Translation
	decoder := json.NewDecoder(r.Body)
	err = decoder.Decode(&content)
	if err != nil {
		checkHttpWithStatus(fmt.Errorf("could not decode request (%v)", err), w, http.StatusBadRequest)
		return
	}

	allowCreate := false
	if r.Method == "POST" {
		allowCreate = true
	}

	err = ds.CreateOrUpdateTranslation(name, id, lang, content.toStore(), allowCreate)
	if checkHttp(err, w) {
		return
	}

	writeOk(w)

	a.export <- name
}

// Deletes a single message and all its associated translations.
// On success, the affected catalog will be re-exported to file.
func (a *api) deleteMessageHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	name := mux.Vars(r)["name"]
	id, err := messageId(r)
	if checkHttp(err, w) {
		return
	}

	err = ds.DeleteMessage(name, id)
	if checkHttp(err, w) {
		return
	}

	writeOk(w)

	a.export <- name
}

// Delete a single translation.
// On success, the affected catalog will be re-exported to file.
func (a *api) deleteTranslationHandler(w http.ResponseWriter, r *http.Request, ds *datastore.DataStore) {
	name := mux.Vars(r)["name"]
	lang := mux.Vars(r)["lang"]
	id, err := messageId(r)
	if checkHttp(err, w) {
		return
	}

	err = ds.DeleteTranslation(name, id, lang)
	if checkHttp(err, w) {
		return
	}

	writeOk(w)

	a.export <- name
}

func (a *api) router() *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/catalogs", a.handleWithDatastore(getCatalogsHandler)).Methods("GET")
	r.HandleFunc("/catalogs/{name}", a.handleWithDatastore(getCatalogHandler)).Methods("GET")
	r.HandleFunc("/catalogs/{name}/export", a.handleWithDatastore(a.exportCatalogHandler)).Methods("POST")
	r.HandleFunc("/catalogs/{name}/translate", a.handleWithDatastore(a.translateHandler)).Methods("GET")
	r.HandleFunc("/languages", a.handleWithDatastore(getLanguagesHandler)).Methods("GET")
	r.HandleFunc("/languages/{lang}", a.handleWithDatastore(createLanguageHandler)).Methods("POST")
	r.HandleFunc("/catalogs/{name}/messages/{id}", a.handleWithDatastore(a.deleteMessageHandler)).Methods("DELETE")
	r.HandleFunc("/catalogs/{name}/messages/{id}/translations/{lang}", a.handleWithDatastore(a.deleteTranslationHandler)).Methods("DELETE")
	r.HandleFunc("/catalogs/{name}/messages/{id}/translations/{lang}", a.handleWithDatastore(a.createOrUpdateTranslationHandler)).Methods("POST", "PUT")

	return r
}

// exportLoop re-exports each catalog name received until the channel is closed.
func (a *api) exportLoop() {
	ds, err := datastore.New(a.db, a.driver)
	checkFatal(err)

	for name := range a.export {
		_, err := ds.ExportCatalog(name, a.exportDir)
		if err != nil {
			log.WithError(err).WithField("catalog", name).Error("export failed")
		}
	}
}

func Serve(c config.Config) {
	db, err := sqlx.Connect(c.DB.Driver, c.DB.ConnectionString())
	checkFatal(err)

	a := &api{
		db:        db,
		driver:    c.DB.Driver,
		exportDir: c.Linguist.ExportPath,
		opts:      catalog.Options{SkipUnfinished: c.Linguist.SkipUnfinished},
		export:    make(chan string, 100),
	}

	// Listen for catalogs to export to file
	go a.exportLoop()

	rWithMiddleWares := handlers.CombinedLoggingHandler(os.Stdout, setJsonHeaders(a.router()))

	log.WithField("port", c.Server.Port).Info("listening")
	checkFatal(http.ListenAndServe(fmt.Sprintf(":%v", c.Server.Port), rWithMiddleWares))
}
