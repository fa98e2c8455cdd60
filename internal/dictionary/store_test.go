package dictionary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDict(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStore_MergesForwardAndReverse(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, "es-en.tsv", "# comment\ncorrer\trun\nrápido\tfast\ncorrer\tto run\n")
	writeDict(t, dir, "en-es.tsv", "jump\tsaltar\nrun\tcorrer\n")

	store, err := NewStore(dir)
	require.NoError(t, err)

	d, err := store.Load(context.Background(), "es", "en")
	require.NoError(t, err)

	// Forward entries keep their order; the first gloss is preferred.
	got, ok := d.Lookup("correr")
	require.True(t, ok)
	assert.Equal(t, "run", got)
	assert.Equal(t, []string{"run", "to run"}, d.Candidates("correr"))

	// Reverse entries are read back inverted (en->es keyed by es).
	got, ok = d.Lookup("saltar")
	require.True(t, ok)
	assert.Equal(t, "jump", got)

	// A word present in both directions merges without duplicates.
	assert.Equal(t, []string{"run", "to run"}, d.Candidates("correr"))

	_, ok = d.Lookup("missing")
	assert.False(t, ok)
}

func TestStore_RequiresBothDirections(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, "ja-en.tsv", "猫\tcat\n")
	// No en-ja.tsv.

	store, err := NewStore(dir)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "ja", "en")
	var missing *MissingDictionaryError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ja", missing.Src)
	assert.Equal(t, "en", missing.Dst)
}

func TestStore_MergesJapaneseLexicon(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, "ja-en.tsv", "犬\tdog\n")
	writeDict(t, dir, "en-ja.tsv", "dog\t犬\n")
	writeDict(t, dir, "ja-lexicon.u8",
		"# sample lexicon\n"+
			"走る [はしる] /to run (fast)/to dash/\n"+
			"猫 [ねこ] /cat/\n"+
			"電子計算機 [でんしけいさんき] /electronic digital computer/\n"+
			"劇 /drama/\n")

	store, err := NewStore(dir)
	require.NoError(t, err)

	d, err := store.Load(context.Background(), "ja", "en")
	require.NoError(t, err)

	// Kanji and reading forms both key the shortest gloss; the
	// parenthetical annotation is stripped before comparing lengths.
	got, ok := d.Lookup("走る")
	require.True(t, ok)
	assert.Equal(t, "to run", got)
	got, ok = d.Lookup("はしる")
	require.True(t, ok)
	assert.Equal(t, "to run", got)

	got, ok = d.Lookup("ねこ")
	require.True(t, ok)
	assert.Equal(t, "cat", got)

	// Entries without a reading form still merge.
	got, ok = d.Lookup("劇")
	require.True(t, ok)
	assert.Equal(t, "drama", got)

	// Glosses beyond the threshold are filtered out.
	_, ok = d.Lookup("電子計算機")
	assert.False(t, ok)

	// The plain dictionary files still contribute.
	got, ok = d.Lookup("犬")
	require.True(t, ok)
	assert.Equal(t, "dog", got)
}

func TestStore_LexiconOnlyForJapaneseSource(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, "es-en.tsv", "correr\trun\n")
	writeDict(t, dir, "en-es.tsv", "run\tcorrer\n")
	writeDict(t, dir, "ja-lexicon.u8", "猫 [ねこ] /cat/\n")

	store, err := NewStore(dir)
	require.NoError(t, err)

	d, err := store.Load(context.Background(), "es", "en")
	require.NoError(t, err)
	_, ok := d.Lookup("猫")
	assert.False(t, ok)
}

func TestStore_MemoizesPerPair(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, "es-en.tsv", "correr\trun\n")
	writeDict(t, dir, "en-es.tsv", "run\tcorrer\n")

	store, err := NewStore(dir)
	require.NoError(t, err)

	first, err := store.Load(context.Background(), "es", "en")
	require.NoError(t, err)

	// Deleting the files does not invalidate the memoized dictionary.
	require.NoError(t, os.Remove(filepath.Join(dir, "es-en.tsv")))
	require.NoError(t, os.Remove(filepath.Join(dir, "en-es.tsv")))

	second, err := store.Load(context.Background(), "es", "en")
	require.NoError(t, err)
	got, ok := second.Lookup("correr")
	require.True(t, ok)
	assert.Equal(t, "run", got)
	assert.Equal(t, len(first), len(second))
}

func TestStore_EvictsLeastRecentlyUsedPair(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i <= DefaultCacheSize; i++ {
		src := fmt.Sprintf("x%02d", i)
		writeDict(t, dir, src+"-en.tsv", "hola\thello\n")
		writeDict(t, dir, "en-"+src+".tsv", "hello\thola\n")
	}

	store, err := NewStore(dir)
	require.NoError(t, err)
	for i := 0; i <= DefaultCacheSize; i++ {
		_, err := store.Load(context.Background(), fmt.Sprintf("x%02d", i), "en")
		require.NoError(t, err)
	}

	// Loading one pair past capacity pushes the oldest out; with its files
	// gone the next load has to rebuild from disk and fails.
	require.NoError(t, os.Remove(filepath.Join(dir, "x00-en.tsv")))
	require.NoError(t, os.Remove(filepath.Join(dir, "en-x00.tsv")))
	_, err = store.Load(context.Background(), "x00", "en")
	var missing *MissingDictionaryError
	require.ErrorAs(t, err, &missing)

	// The newest pair is still memoized and survives file removal.
	last := fmt.Sprintf("x%02d", DefaultCacheSize)
	require.NoError(t, os.Remove(filepath.Join(dir, last+"-en.tsv")))
	require.NoError(t, os.Remove(filepath.Join(dir, "en-"+last+".tsv")))
	d, err := store.Load(context.Background(), last, "en")
	require.NoError(t, err)
	got, ok := d.Lookup("hola")
	require.True(t, ok)
	assert.Equal(t, "hello", got)
}

func TestStore_EmptyDictionaryIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, "es-en.tsv", "# nothing here\n")
	writeDict(t, dir, "en-es.tsv", "\n")

	store, err := NewStore(dir)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "es", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty after merge")
}

func TestStore_GlossLengthThresholdConfigurable(t *testing.T) {
	dir := t.TempDir()
	writeDict(t, dir, "ja-en.tsv", "犬\tdog\n")
	writeDict(t, dir, "en-ja.tsv", "dog\t犬\n")
	writeDict(t, dir, "ja-lexicon.u8", "猫 [ねこ] /cat/\n")

	store, err := NewStore(dir, WithMaxGlossLen(2))
	require.NoError(t, err)

	d, err := store.Load(context.Background(), "ja", "en")
	require.NoError(t, err)
	_, ok := d.Lookup("猫")
	assert.False(t, ok)
}
