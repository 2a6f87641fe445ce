/*
Package config implements TOML config file handling for the linguist API.

Normally it will be used by simply passing a config file name to the Load function to obtain a
Config struct.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DbDriverSqlite3    = "sqlite3"
	DbDriverPostgresql = "postgres"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the parsed configuration for the linguist API.
type Config struct {
	DB       DbConfig       `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Linguist LinguistConfig `toml:"linguist"`
	Extract  ExtractConfig  `toml:"extract"`
	Log      LogConfig      `toml:"log"`
}

// valid checks if the Config is valid in its current state.
func (c *Config) valid() error {
	if c.DB.Driver != DbDriverSqlite3 && c.DB.Driver != DbDriverPostgresql {
		drivers := []string{DbDriverPostgresql, DbDriverSqlite3}
		return errors.Errorf("config: invalid database.driver value. (Must be one of: '%v')", strings.Join(drivers, ", "))
	}
	if c.DB.Driver == DbDriverSqlite3 && len(c.DB.File) == 0 {
		return errors.New("config: missing database.file value")
	}
	if c.DB.Driver == DbDriverPostgresql {
		if len(c.DB.Host) == 0 {
			return errors.New("config: missing database.host value")
		}
		if len(c.DB.Name) == 0 {
			return errors.New("config: missing database.name value")
		}
		if len(c.DB.User) == 0 {
			return errors.New("config: missing database.user value")
		}
		if c.DB.Port < 0 {
			return errors.New("config: invalid database.port value")
		}
	}
	if c.Server.Port < 0 {
		return errors.New("config: server.port is invalid")
	}
	if len(c.Linguist.ImportPath) == 0 {
		return errors.New("config: missing linguist.import_path value")
	}
	if len(c.Linguist.ExportPath) == 0 {
		return errors.New("config: missing linguist.export_path value")
	}
	if _, err := os.Stat(filepath.FromSlash(c.Linguist.ImportPath)); os.IsNotExist(err) {
		return errors.New("config: linguist.import_path does not exist")
	}
	for _, p := range c.Extract.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return errors.Errorf("config: invalid extract.patterns entry '%v'", p)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Errorf("config: invalid log.level value '%v'", c.Log.Level)
	}
	if c.Log.Format != LogFormatText && c.Log.Format != LogFormatJSON {
		return errors.Errorf("config: invalid log.format value '%v'", c.Log.Format)
	}
	return nil
}

// DbConfig contains Database connection configuration.
type DbConfig struct {
	// One of 'sqlite3' or 'postgres'
	Driver string
	// When driver is sqlite3, this is the path to the database file
	File     string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port that the server should run on.
	Port int
}

// LinguistConfig contains TS import/export configuration.
type LinguistConfig struct {
	// Path to import .ts (and .xliff) files from
	ImportPath string `toml:"import_path"`
	// Path to export .ts files to
	ExportPath string `toml:"export_path"`
	// Leave unfinished translations out of runtime lookups, like lrelease -nounfinished
	SkipUnfinished bool `toml:"skip_unfinished"`
}

// ExtractConfig controls source string extraction.
type ExtractConfig struct {
	SourcePath string   `toml:"source_path"`
	Patterns   []string `toml:"patterns"`
	Functions  []string `toml:"functions"`
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level  string
	Format string
}

// Gets a connection string for this config.
func (d *DbConfig) ConnectionString() string {
	cStr := ""
	switch d.Driver {
	case DbDriverPostgresql:
		cStr = fmt.Sprintf("postgres://%v:%v@%v:%v/%v?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
	case DbDriverSqlite3:
		// go-sqlite3 runs the foreign_keys pragma on every pooled connection
		cStr = fmt.Sprintf("file:%v?_foreign_keys=on", d.File)
	}
	return cStr
}

// Apply configures the standard logrus logger.
func (l *LogConfig) Apply() {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if l.Format == LogFormatJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Creates a new Config with some default values.
func new() Config {
	c := Config{
		DB: DbConfig{
			Driver: DbDriverSqlite3,
			File:   filepath.FromSlash("./translations.db"),
			Port:   5432, // Postgres default port
		},
		Server: ServerConfig{
			Port: 8181,
		},
		Linguist: LinguistConfig{
			ImportPath: filepath.FromSlash("./ts-in"),
			ExportPath: filepath.FromSlash("./ts-out"),
		},
		Extract: ExtractConfig{
			SourcePath: ".",
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
	return c
}

// Loads config from a TOML file and checks its validity.
func Load(file string) (Config, error) {
	conf := new()
	_, err := toml.DecodeFile(file, &conf)
	if err != nil {
		return conf, errors.Wrap(err, "config")
	}

	if err = conf.valid(); err != nil {
		return conf, err
	}

	return conf, nil
}
