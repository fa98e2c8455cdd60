package tokenizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	family    Family
	modelLang string

	readyCalls int
	readyErr   error
	tagCalls   int
	tag        func(text string) []EngineToken
}

func (e *fakeEngine) EnsureReady(_ context.Context) error {
	e.readyCalls++
	return e.readyErr
}

func (e *fakeEngine) Tag(_ context.Context, text string) ([]EngineToken, error) {
	e.tagCalls++
	if e.tag != nil {
		return e.tag(text), nil
	}
	tokens := make([]EngineToken, 0)
	for _, word := range strings.Fields(text) {
		tokens = append(tokens, EngineToken{Text: word, Tag: "NOUN"})
	}
	return tokens, nil
}

func fakeProvider(engines *[]*fakeEngine) EngineProvider {
	return func(family Family, modelLang string) Engine {
		e := &fakeEngine{family: family, modelLang: modelLang}
		*engines = append(*engines, e)
		return e
	}
}

func TestRegistry_UnsupportedLanguage(t *testing.T) {
	var engines []*fakeEngine
	r := NewRegistry(fakeProvider(&engines))

	for _, lang := range []string{"ko", "ru", "en-CA", "zh", ""} {
		_, err := r.For(lang)
		var unsupported *UnsupportedLanguageError
		require.ErrorAs(t, err, &unsupported, "lang %q", lang)
		assert.Equal(t, lang, unsupported.Language)
	}
}

func TestRegistry_SharesEngineAcrossRegionalVariants(t *testing.T) {
	var engines []*fakeEngine
	r := NewRegistry(fakeProvider(&engines))

	tokUS, err := r.For("en-US")
	require.NoError(t, err)
	tokGB, err := r.For("en-GB")
	require.NoError(t, err)
	tokEN, err := r.For("en")
	require.NoError(t, err)

	assert.Same(t, tokUS, tokGB)
	assert.Same(t, tokUS, tokEN)
	require.Len(t, engines, 1)
	assert.Equal(t, FamilyLatin, engines[0].family)
	assert.Equal(t, "en", engines[0].modelLang)

	_, err = r.For("zh-TW")
	require.NoError(t, err)
	require.Len(t, engines, 2)
	assert.Equal(t, FamilyChinese, engines[1].family)
	assert.Equal(t, "zh", engines[1].modelLang)
}

func TestTokenizer_EmptyInput(t *testing.T) {
	var engines []*fakeEngine
	r := NewRegistry(fakeProvider(&engines))

	tok, err := r.For("de")
	require.NoError(t, err)

	tokens, err := tok.Tag(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, tokens)
	// The engine is not touched for empty input.
	assert.Zero(t, engines[0].readyCalls)
	assert.Zero(t, engines[0].tagCalls)
}

func TestTokenizer_AcquiresModelOnce(t *testing.T) {
	var engines []*fakeEngine
	r := NewRegistry(fakeProvider(&engines))

	tok, err := r.For("fr")
	require.NoError(t, err)

	_, err = tok.Tag(context.Background(), "bonjour")
	require.NoError(t, err)
	_, err = tok.Tag(context.Background(), "le monde")
	require.NoError(t, err)
	assert.Equal(t, 1, engines[0].readyCalls)
}

func TestTokenizer_RetriesFailedAcquisition(t *testing.T) {
	var engines []*fakeEngine
	r := NewRegistry(fakeProvider(&engines))

	tok, err := r.For("pl")
	require.NoError(t, err)
	engines[0].readyErr = errors.New("model download failed")

	_, err = tok.Tag(context.Background(), "dzień")
	require.Error(t, err)

	engines[0].readyErr = nil
	tokens, err := tok.Tag(context.Background(), "dzień dobry")
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
	assert.Equal(t, 2, engines[0].readyCalls)
}

func TestTokenizer_JapaneseTagTable(t *testing.T) {
	var engines []*fakeEngine
	r := NewRegistry(fakeProvider(&engines))

	tok, err := r.For("ja")
	require.NoError(t, err)
	engines[0].tag = func(string) []EngineToken {
		return []EngineToken{
			{Text: "猫", Tag: "名詞"},
			{Text: "が", Tag: "助詞"},
			{Text: "走る", Tag: "動詞"},
			{Text: "さ", Tag: "接尾辞"},
			{Text: "??", Tag: "未知語"},
		}
	}

	tokens, err := tok.Tag(context.Background(), "猫が走るさ??")
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, "NOUN", tokens[0].Tag)
	assert.Equal(t, "PART", tokens[1].Tag)
	assert.Equal(t, "VERB", tokens[2].Tag)
	assert.Equal(t, "suffix", tokens[3].Tag)
	// Unmapped native tags yield an absent tag, not an error.
	assert.Equal(t, "", tokens[4].Tag)
}

func TestTokenizer_ChineseTagTable(t *testing.T) {
	var engines []*fakeEngine
	r := NewRegistry(fakeProvider(&engines))

	tok, err := r.For("zh-CN")
	require.NoError(t, err)
	engines[0].tag = func(string) []EngineToken {
		return []EngineToken{
			{Text: "我", Tag: "r"},
			{Text: "跑", Tag: "v"},
			{Text: "北京", Tag: "ns"},
			{Text: "一概而论", Tag: "i"},
			{Text: "了", Tag: "y"},
		}
	}

	tokens, err := tok.Tag(context.Background(), "我跑北京一概而论了")
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, "PRON", tokens[0].Tag)
	assert.Equal(t, "VERB", tokens[1].Tag)
	assert.Equal(t, "PROPN", tokens[2].Tag)
	assert.Equal(t, "IDIOM", tokens[3].Tag)
	assert.Equal(t, "", tokens[4].Tag)
}

func TestTokenizer_LatinPassesUniversalTags(t *testing.T) {
	var engines []*fakeEngine
	r := NewRegistry(fakeProvider(&engines))

	tok, err := r.For("en-US")
	require.NoError(t, err)
	engines[0].tag = func(string) []EngineToken {
		return []EngineToken{
			{Text: "I", Tag: "PRON"},
			{Text: "run", Tag: "VERB"},
			{Text: "fast", Tag: "ADV"},
			{Text: "hm", Tag: "WEIRD"},
		}
	}

	tokens, err := tok.Tag(context.Background(), "I run fast hm")
	require.NoError(t, err)
	assert.Equal(t, "PRON", tokens[0].Tag)
	assert.Equal(t, "VERB", tokens[1].Tag)
	assert.Equal(t, "ADV", tokens[2].Tag)
	assert.Equal(t, "", tokens[3].Tag)
}

func TestLanguagesIsSortedAndClosed(t *testing.T) {
	langs := Languages()
	assert.Len(t, langs, 12)
	assert.True(t, Supported("ja"))
	assert.False(t, Supported("ko"))
}
