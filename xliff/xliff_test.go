package xliff

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petert82/go-linguist-api/trans"
	"github.com/petert82/go-linguist-api/ts"
)

func features(t *testing.T) *ts.Document {
	doc, err := ts.ParseFile(filepath.Join("..", "ts", "testdata", "features.ts"))
	require.NoError(t, err)
	return doc
}

func TestFromDocument(t *testing.T) {
	x := FromDocument(features(t))

	assert.Equal(t, Version, x.Version)
	require.Len(t, x.Files, 1)
	f := x.Files[0]
	assert.Equal(t, "Flasher", f.Original)
	assert.Equal(t, "ru_RU", f.TargetLang)
	assert.Equal(t, "en_US", f.SourceLang)

	// five plain messages plus three numerus forms
	require.Len(t, f.Units, 8)
	assert.Equal(t, "1", f.Units[0].Id)
	assert.Equal(t, "yes", f.Units[0].Approved)
	assert.Equal(t, stateTranslated, f.Units[0].Target.State)
	assert.Equal(t, stateNew, f.Units[1].Target.State)
	assert.Equal(t, "extra", f.Units[1].Notes[0].From)
	assert.Equal(t, []string{"3[0]", "3[1]", "3[2]"}, []string{f.Units[2].Id, f.Units[3].Id, f.Units[4].Id})
	assert.Equal(t, []trans.Location{{File: "editor/firmware_flasher.py", Line: 143}, {File: "unlocker.py", Line: 40}}, f.Units[2].locations())
	assert.Equal(t, "dialog", f.Units[5].note(noteDeveloper))
	assert.Equal(t, stateObsolete, f.Units[6].Target.State)
}

func TestWriteParseRoundTrip(t *testing.T) {
	doc := features(t)

	var buf bytes.Buffer
	require.NoError(t, FromDocument(doc).Write(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, buf.String(), `xmlns="urn:oasis:names:tc:xliff:document:1.2"`)

	x, err := Parse(&buf)
	require.NoError(t, err)
	back := x.Document()

	assert.Equal(t, "ru_RU", back.Language)
	require.Equal(t, doc.Len(), back.Len())

	orig, got := doc.Records(), back.Records()
	for i := range orig {
		if i == 3 {
			// XML cannot carry the control character in the source
			assert.Equal(t, strings.ReplaceAll(orig[i].Source, "\x01", "\uFFFD"), got[i].Source)
		} else {
			assert.Equal(t, orig[i].Key, got[i].Key)
		}
		assert.Equal(t, orig[i].Translation, got[i].Translation)
		assert.Equal(t, orig[i].NumerusForms, got[i].NumerusForms)
		assert.Equal(t, orig[i].Locations, got[i].Locations)
		assert.Equal(t, orig[i].ExtraComment, got[i].ExtraComment)
	}
	assert.Equal(t, trans.StatusFinished, got[0].Status)
	assert.Equal(t, trans.StatusUnfinished, got[1].Status)
	assert.Equal(t, trans.StatusVanished, got[5].Status)
}

func TestParseRejectsOtherVersions(t *testing.T) {
	_, err := Parse(strings.NewReader(`<xliff version="2.0"></xliff>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")

	_, err = Parse(strings.NewReader(`<TS version="2.1"></TS>`))
	assert.Error(t, err)
}

func TestInfoFromFilename(t *testing.T) {
	name, lang, err := InfoFromFilename("vial.zh_CN.xliff")
	require.NoError(t, err)
	assert.Equal(t, "vial", name)
	assert.Equal(t, "zh_CN", lang)

	_, _, err = InfoFromFilename("vial.xliff")
	assert.Error(t, err)
}

func TestExportAndNewFromFile(t *testing.T) {
	dir := t.TempDir()
	file, err := Export(features(t), "vial", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vial.ru_RU.xliff"), file)

	x, name, err := NewFromFile(file)
	require.NoError(t, err)
	assert.Equal(t, "vial", name)
	assert.Equal(t, 6, x.Document().Len())

	wrong := filepath.Join(dir, "vial.de.xliff")
	require.NoError(t, os.Rename(file, wrong))
	_, _, err = NewFromFile(wrong)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected de")
}
