package datastore

import (
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MigrateUp applies every migration newer than the current schema version and returns the
// version the database ends up at.
func (ds *DataStore) MigrateUp() (version int64, err error) {
	if err = ds.adapter.EnsureVersionTableExists(ds.db); err != nil {
		return 0, errors.Wrap(err, "datastore: schema_migrations")
	}
	startVer, err := ds.version()
	if err != nil {
		return version, err
	}

	for i, query := range ds.adapter.Up() {
		migTo := int64(i + 1)
		if migTo <= startVer {
			version = migTo
			continue
		}

		_, err = ds.db.Exec(query)
		if err != nil {
			return version, errors.Wrapf(err, "datastore: migration %v", migTo)
		}

		err = ds.updateVersion(migTo)
		if err != nil {
			return version, err
		}
		log.WithField("version", migTo).Debug("applied migration")

		version = migTo
	}

	return version, nil
}

// MigrateDown reverts every applied migration.
func (ds *DataStore) MigrateDown() (version int64, err error) {
	if err = ds.adapter.EnsureVersionTableExists(ds.db); err != nil {
		return 0, errors.Wrap(err, "datastore: schema_migrations")
	}
	startVer, err := ds.version()
	if err != nil {
		return version, err
	}

	version = startVer
	down := ds.adapter.Down()
	for i := len(down) - 1; i >= 0; i-- {
		migVer := int64(i + 1) // The version of the Down migration we will apply
		migTo := int64(i)      // The version we will end up at

		// Skip migrations for newer versions
		if migVer > startVer {
			continue
		}

		_, err = ds.db.Exec(down[i])
		if err != nil {
			return version, errors.Wrapf(err, "datastore: revert migration %v", migVer)
		}

		err = ds.updateVersion(migTo)
		if err != nil {
			return version, err
		}

		version = migTo
	}

	return version, nil
}

func (ds *DataStore) version() (version int64, err error) {
	err = ds.db.Get(&version, "SELECT version FROM schema_migrations")
	switch {
	case err == sql.ErrNoRows:
		return 0, nil
	case err != nil:
		return 0, err
	default:
		return version, nil
	}
}

func (ds *DataStore) updateVersion(version int64) (err error) {
	_, err = ds.db.Exec(ds.adapter.Rebind("UPDATE schema_migrations SET version = ?"), version)

	return err
}
