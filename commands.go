package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/petert82/go-linguist-api/config"
	"github.com/petert82/go-linguist-api/convert"
	"github.com/petert82/go-linguist-api/datastore"
	"github.com/petert82/go-linguist-api/extract"
	"github.com/petert82/go-linguist-api/ts"
)

// initDb initializes the database with all necessary tables.
func initDb(c config.Config) {
	ds, err := datastore.Open(c.DB)
	checkFatal(err)

	dbVersion, err := ds.MigrateUp()
	if err != nil {
		checkFatal(errors.Wrapf(err, "could not complete database migration, last applied version was %v", dbVersion))
	}

	log.WithField("version", dbVersion).Info("migrated the database")
}

// loadDocument reads a translation file in any format the registry knows about.
func loadDocument(reg *convert.Registry, file string) (*ts.Document, error) {
	codec, ok := reg.ForFile(file)
	if !ok {
		return nil, errors.Errorf("unknown format for '%v'", file)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := codec.Decode(f)
	return doc, errors.Wrap(err, file)
}

// runCheck prints every problem found in the given files and reports whether any of them
// had errors.
func runCheck(w io.Writer, reg *convert.Registry, files []string) (failed bool) {
	for _, file := range files {
		doc, err := loadDocument(reg, file)
		if err != nil {
			fmt.Fprintf(w, "%v: %v\n", file, err)
			failed = true
			continue
		}
		problems := doc.Validate()
		for _, p := range problems {
			fmt.Fprintf(w, "%v: %v\n", file, p)
			if p.Severity == ts.SeverityError {
				failed = true
			}
		}
		if len(problems) == 0 {
			fmt.Fprintf(w, "%v: ok (%v messages)\n", file, doc.Len())
		}
	}
	return failed
}

func check(c config.Config, args []string) {
	if len(args) == 0 {
		checkFatal(errors.New("check needs at least one file"))
	}
	if runCheck(os.Stdout, convert.Default(), args) {
		os.Exit(1)
	}
}

func runStats(w io.Writer, reg *convert.Registry, files []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tLANGUAGE\tMESSAGES\tFINISHED\tUNFINISHED\tUNTRANSLATED\tOBSOLETE\tDONE")
	for _, file := range files {
		doc, err := loadDocument(reg, file)
		if err != nil {
			return err
		}
		s := doc.Stats()
		fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\t%v\t%v\t%.1f%%\n",
			file, doc.Language, s.Messages, s.Finished, s.Unfinished, s.Untranslated, s.Obsolete, s.Percent())
	}
	return tw.Flush()
}

func stats(c config.Config, args []string) {
	if len(args) == 0 {
		checkFatal(errors.New("stats needs at least one file"))
	}
	checkFatal(runStats(os.Stdout, convert.Default(), args))
}

// runConvert converts in to the given format, writing to out or to w when out is empty.
func runConvert(w io.Writer, reg *convert.Registry, in, format, out string) error {
	codec, ok := reg.Get(format)
	if !ok {
		return errors.Errorf("unknown format '%v' (available: %v)", format, reg.Formats())
	}
	doc, err := loadDocument(reg, in)
	if err != nil {
		return err
	}

	if out == "" {
		return codec.Encode(w, doc)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err = codec.Encode(f, doc); err != nil {
		f.Close()
		return errors.Wrap(err, out)
	}
	return f.Close()
}

func convertFile(c config.Config, args []string) {
	fs := flag.NewFlagSet(cmdConvert, flag.ExitOnError)
	to := fs.String("to", "ts", "Output `format`")
	out := fs.String("o", "", "Output `file` (default stdout)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		checkFatal(errors.New("convert needs exactly one input file"))
	}

	checkFatal(runConvert(os.Stdout, convert.Default(), fs.Arg(0), *to, *out))
}

// runExtract scans srcDir and merges the strings found into tsFile, creating it when it
// does not exist yet.
func runExtract(opts extract.Options, srcDir, tsFile, lang string) (res ts.MergeResult, err error) {
	e, err := extract.New(opts)
	if err != nil {
		return res, err
	}
	extracted, err := e.ExtractDir(srcDir)
	if err != nil {
		return res, err
	}

	existing := ts.New(lang, "")
	if _, statErr := os.Stat(tsFile); statErr == nil {
		if existing, err = ts.ParseFile(tsFile); err != nil {
			return res, err
		}
	}

	merged, res := ts.Merge(existing, extracted)
	if merged.Language == "" {
		merged.Language = lang
	}
	if err = merged.Check(); err != nil {
		return res, err
	}
	return res, merged.WriteFile(tsFile)
}

// extractStrings runs without a usable config file, falling back to the extract defaults.
func extractStrings(c config.Config, args []string) {
	fs := flag.NewFlagSet(cmdExtract, flag.ExitOnError)
	tsFile := fs.String("ts", "", "TS `file` to create or update")
	lang := fs.String("lang", "", "Target language of a new TS file")
	fs.Parse(args)
	if *tsFile == "" {
		checkFatal(errors.New("extract needs a -ts file"))
	}
	srcDir := c.Extract.SourcePath
	if fs.NArg() > 0 {
		srcDir = fs.Arg(0)
	}

	opts := extract.Options{Patterns: c.Extract.Patterns, Functions: c.Extract.Functions}
	res, err := runExtract(opts, srcDir, *tsFile, *lang)
	checkFatal(err)

	log.WithFields(log.Fields{
		"file":     *tsFile,
		"added":    res.Added,
		"updated":  res.Updated,
		"vanished": res.Vanished,
		"dropped":  res.Dropped,
	}).Info("updated translation file")
}
