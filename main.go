/*
A tool for managing a database of Qt Linguist translations and providing the means to import and
export these translations to and from TS files.

Various program settings are controlled by a TOML config file, which must be available for the
database commands to run. By default, the program will look for a file called
'linguist-api.toml' in the current directory.

The program must be run with a 'command' argument to indicate what you would like it to do.
Available commands are:

  - init-db: Creates or migrates the database tables.
  - import: Imports translations from TS and XLIFF files in the linguist 'import_path'.
  - serve: Starts an HTTP server providing a JSON API for accessing and modifying the translation data.
  - check FILE...: Validates translation files and reports any problems.
  - stats FILE...: Prints translation progress for each file.
  - convert -to FORMAT [-o OUT] FILE: Converts between TS, XLIFF, JSON and YAML.
  - extract -ts FILE [-lang CODE] [DIR]: Extracts strings from source code and merges them into a TS file.
  - help: Prints usage instructions
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/petert82/go-linguist-api/config"
	"github.com/petert82/go-linguist-api/importer"
	"github.com/petert82/go-linguist-api/server"
)

var (
	configPath string
)

const (
	cmdMissing      = "missing"
	cmdUnrecognised = "unrecognised"
	cmdHelp         = "help"
	cmdInitDb       = "init-db"
	cmdImport       = "import"
	cmdServe        = "serve"
	cmdCheck        = "check"
	cmdStats        = "stats"
	cmdConvert      = "convert"
	cmdExtract      = "extract"
)

func init() {
	defaultConfigPath := filepath.FromSlash("./linguist-api.toml")
	flag.StringVar(&configPath, "config", defaultConfigPath, "Full `path` and file name to the config file")
}

type Command interface {
	Run(c config.Config, args []string)
}

type CommandFunc func(config.Config, []string)

func (f CommandFunc) Run(c config.Config, args []string) {
	f(c, args)
}

// withoutArgs adapts a command that takes no arguments.
func withoutArgs(f func(config.Config)) CommandFunc {
	return func(c config.Config, args []string) {
		f(c)
	}
}

// Gets list of available commands
func availableCommands() []string {
	return []string{cmdCheck, cmdConvert, cmdExtract, cmdHelp, cmdImport, cmdInitDb, cmdServe, cmdStats}
}

// needsConfig reports whether a command can only run with a valid config file.
func needsConfig(command string) bool {
	switch command {
	case cmdInitDb, cmdImport, cmdServe:
		return true
	}
	return false
}

func checkFatal(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Converts os.Args to one of the cmd* constants.
func parseArgs(args []string) (command string) {
	if len(args) < 1 {
		return cmdMissing
	}

	for _, c := range availableCommands() {
		if args[0] == c {
			return c
		}
	}

	return cmdUnrecognised
}

// Prints a normal usage message.
func printUsage(c config.Config, args []string) {
	fmt.Fprintf(os.Stderr, "Usage: %v [-config FILE] COMMAND [ARGS]\n\nCommands: %v\n\n", filepath.Base(os.Args[0]), strings.Join(availableCommands(), ", "))
	flag.PrintDefaults()
}

// Prints a usage message indicating that a command must be given.
func printMissingCommandUsage(c config.Config, args []string) {
	fmt.Fprintf(os.Stderr, "No command given. Command can be one of: %v\n\n", strings.Join(availableCommands(), ", "))
	printUsage(c, args)
}

// Prints a usage message indicating that the given command was not recognised.
func printUnrecognisedCommandUsage(cmd string) CommandFunc {
	return func(c config.Config, args []string) {
		fmt.Fprintf(os.Stderr, "Command '%v' not recognised. Command must be one of: %v\n\n", cmd, strings.Join(availableCommands(), ", "))
		printUsage(c, args)
	}
}

func main() {
	flag.Parse()
	config, cfgErr := config.Load(configPath)
	args := flag.Args()
	var command = parseArgs(args)

	var commandFunc = CommandFunc(printMissingCommandUsage)
	switch command {
	case cmdUnrecognised:
		commandFunc = printUnrecognisedCommandUsage(args[0])
	case cmdHelp:
		commandFunc = CommandFunc(printUsage)
	case cmdInitDb:
		commandFunc = withoutArgs(initDb)
	case cmdImport:
		commandFunc = withoutArgs(importer.Import)
	case cmdServe:
		commandFunc = withoutArgs(server.Serve)
	case cmdCheck:
		commandFunc = CommandFunc(check)
	case cmdStats:
		commandFunc = CommandFunc(stats)
	case cmdConvert:
		commandFunc = CommandFunc(convertFile)
	case cmdExtract:
		commandFunc = CommandFunc(extractStrings)
	}

	if needsConfig(command) {
		checkFatal(cfgErr)
	}
	if cfgErr == nil {
		config.Log.Apply()
	} else {
		log.WithError(cfgErr).Debug("no usable config")
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}
	commandFunc.Run(config, cmdArgs)
}
