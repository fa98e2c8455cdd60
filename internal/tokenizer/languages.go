package tokenizer

import (
	"fmt"
	"sort"
)

// Family identifies a tokenizer engine family. Each family owns its own
// native-to-universal tag table.
type Family int

const (
	FamilyLatin Family = iota
	FamilyJapanese
	FamilyChinese
)

func (f Family) String() string {
	switch f {
	case FamilyLatin:
		return "latin"
	case FamilyJapanese:
		return "japanese"
	case FamilyChinese:
		return "chinese"
	default:
		return "unknown"
	}
}

// variant binds a supported language code to its engine family and the
// language the engine model is loaded for.
type variant struct {
	family    Family
	modelLang string
}

// supported is the closed set of caption languages. Regional English
// variants share one engine model, as do the two Chinese variants.
var supported = map[string]variant{
	"en":    {FamilyLatin, "en"},
	"en-US": {FamilyLatin, "en"},
	"en-GB": {FamilyLatin, "en"},
	"de":    {FamilyLatin, "de"},
	"fr":    {FamilyLatin, "fr"},
	"es":    {FamilyLatin, "es"},
	"it":    {FamilyLatin, "it"},
	"nl":    {FamilyLatin, "nl"},
	"pl":    {FamilyLatin, "pl"},
	"ja":    {FamilyJapanese, "ja"},
	"zh-CN": {FamilyChinese, "zh"},
	"zh-TW": {FamilyChinese, "zh"},
}

// Languages returns the sorted closed set of supported language codes.
func Languages() []string {
	ret := make([]string, 0, len(supported))
	for lang := range supported {
		ret = append(ret, lang)
	}
	sort.Strings(ret)
	return ret
}

// Supported reports whether a tokenizer exists for the language code.
func Supported(lang string) bool {
	_, ok := supported[lang]
	return ok
}

// UnsupportedLanguageError indicates a language outside the supported set.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %q", e.Language)
}
