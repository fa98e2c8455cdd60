package tokenizer

// Universal part-of-speech tags plus the language-specific extensions the
// Japanese and Chinese engines can emit. Latin-family engines emit universal
// tags directly; anything outside this set maps to an absent tag.
var universalTags = map[string]struct{}{
	"NOUN":  {},
	"VERB":  {},
	"ADJ":   {},
	"ADV":   {},
	"PRON":  {},
	"PROPN": {},
	"ADP":   {},
	"PART":  {},
	"CONJ":  {},
	"CCONJ": {},
	"SCONJ": {},
	"DET":   {},
	"NUM":   {},
	"AUX":   {},
	"INTJ":  {},
	"SYM":   {},
	"PUNCT": {},
	"X":     {},
}

// japaneseTags maps the Japanese engine's native tags to the universal set.
var japaneseTags = map[string]string{
	"名詞":     "NOUN",
	"動詞":     "VERB",
	"記号":     "SYM",
	"副詞":     "ADV",
	"形容詞":    "ADJ",
	"接尾辞":    "suffix",
	"代名詞":    "PRON",
	"助動詞":    "VERB",
	"助詞":     "PART",
	"補助記号":   "PUNCT",
	"英単語":    "english",
	"漢文":     "chinese",
	"ローマ字文": "romanji",
}

// chineseTags maps the Chinese segmenter's native tags to the universal set.
var chineseTags = map[string]string{
	"c":  "CONJ",
	"v":  "VERB",
	"vn": "VERB",
	"vx": "VERB",
	"n":  "NOUN",
	"a":  "ADJ",
	"d":  "ADV",
	"ad": "ADV",
	"nr": "PROPN",
	"ns": "PROPN",
	"nt": "PROPN",
	"r":  "PRON",
	"u":  "PART",
	"i":  "IDIOM",
}

// tagMapper returns the tag normalization function for an engine family.
// Unmapped native tags yield an empty tag, never an error.
func tagMapper(family Family) func(string) string {
	switch family {
	case FamilyJapanese:
		return func(native string) string { return japaneseTags[native] }
	case FamilyChinese:
		return func(native string) string { return chineseTags[native] }
	default:
		return func(native string) string {
			if _, ok := universalTags[native]; ok {
				return native
			}
			return ""
		}
	}
}
