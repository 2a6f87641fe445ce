/*
Package importer loads every TS and XLIFF file in the configured import directory into the
datastore.
*/
package importer

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/petert82/go-linguist-api/config"
	"github.com/petert82/go-linguist-api/datastore"
)

func checkFatal(err error) {
	if err != nil {
		log.WithError(err).Error("import failed")
		os.Exit(1)
	}
}

// Run imports the files in dir into ds, logging each file as it completes.
func Run(ds *datastore.DataStore, dir string) (count int, err error) {
	results := make(chan string, 100)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for imported := range results {
			log.WithField("file", imported).Info("imported")
		}
	}()

	count, err = ds.ImportDir(dir, results)
	close(results)
	<-done

	return count, err
}

// Import is the 'import' command.
func Import(c config.Config) {
	start := time.Now()

	ds, err := datastore.Open(c.DB)
	checkFatal(err)

	count, err := Run(ds, c.Linguist.ImportPath)
	checkFatal(err)

	log.WithFields(log.Fields{
		"files":   count,
		"elapsed": time.Since(start).Seconds(),
	}).Info("import complete")

	log.Debug("\n" + ds.Stats.String())
}
