package trans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyString(t *testing.T) {
	assert.Equal(t, `MainWindow/"Refresh"`, Key{Context: "MainWindow", Source: "Refresh"}.String())
	assert.Equal(t, `@default/"Menu" (File)`, Key{Context: DefaultContext, Source: "Menu", Comment: "File"}.String())
}

func TestStatus(t *testing.T) {
	for _, s := range []Status{StatusFinished, StatusUnfinished} {
		assert.True(t, s.Valid(), s)
		assert.True(t, s.Active(), s)
	}
	for _, s := range []Status{StatusVanished, StatusObsolete} {
		assert.True(t, s.Valid(), s)
		assert.False(t, s.Active(), s)
	}
	assert.False(t, Status("done").Valid())
}

func TestRecordTranslated(t *testing.T) {
	assert.False(t, Record{}.Translated())
	assert.True(t, Record{Translation: "刷新"}.Translated())
	assert.False(t, Record{Numerus: true, NumerusForms: []string{"", ""}}.Translated())
	assert.True(t, Record{Numerus: true, NumerusForms: []string{"", "%n Dateien"}}.Translated())
	assert.False(t, Record{Numerus: true, Translation: "ignored"}.Translated())
}
