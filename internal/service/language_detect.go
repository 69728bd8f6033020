package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	// minDetectionSample is the shortest trimmed source (in runes) the heuristic judges.
	minDetectionSample = 20
	// latinForeignThreshold is the Latin-letter share above which a source counts as Latin-script.
	latinForeignThreshold = 0.7
	// detectionSampleRunes caps how much of the source is inspected.
	detectionSampleRunes = 1000
)

// LatinLetterRatio returns the fraction of Latin letters among the non-space runes of sample.
func LatinLetterRatio(sample string) float64 {
	var total, latin int
	for _, r := range sample {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) && unicode.Is(unicode.Latin, r) {
			latin++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(latin) / float64(total)
}

// IsLatinDominant reports whether the sample is long enough to judge and predominantly
// written in Latin letters.
func IsLatinDominant(text string) bool {
	sample := detectionSample(text)
	if len([]rune(sample)) < minDetectionSample {
		return false
	}
	return LatinLetterRatio(sample) > latinForeignThreshold
}

// IsForeignSource reports whether the source text should trigger the language prompt:
// a Latin-dominant source while the default output language is written in another script.
func IsForeignSource(text, defaultLang string) bool {
	return IsLatinDominant(text) && !usesLatinScript(defaultLang)
}

func usesLatinScript(tag string) bool {
	script, _ := language.Make(tag).Script()
	return script == language.MustParseScript("Latn")
}

func detectionSample(text string) string {
	sample := strings.TrimSpace(text)
	runes := []rune(sample)
	if len(runes) > detectionSampleRunes {
		sample = string(runes[:detectionSampleRunes])
	}
	return sample
}

// SameLanguage compares two BCP 47 tags on their base language.
func SameLanguage(a, b string) bool {
	baseA, _ := language.Make(a).Base()
	baseB, _ := language.Make(b).Base()
	return baseA == baseB
}

// ValidLanguageTag reports whether tag parses as a BCP 47 language tag.
func ValidLanguageTag(tag string) bool {
	_, err := language.Parse(tag)
	return err == nil
}

// LanguageName is the English display name of a tag, used in prompts.
func LanguageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Tags().Name(t); name != "" {
		return name
	}
	return tag
}

var trueFalsePairs = map[language.Base][2]string{
	mustBase(language.English):  {"True", "False"},
	mustBase(language.Chinese):  {"是", "否"},
	mustBase(language.Japanese): {"正しい", "誤り"},
	mustBase(language.Korean):   {"참", "거짓"},
}

func mustBase(t language.Tag) language.Base {
	b, _ := t.Base()
	return b
}

// TrueFalseOptions returns the canonical (true, false) option pair for an output language.
// Languages without a dedicated pair use the English one.
func TrueFalseOptions(tag string) []string {
	pair, ok := trueFalsePairs[mustBase(language.Make(tag))]
	if !ok {
		pair = trueFalsePairs[mustBase(language.English)]
	}
	return []string{pair[0], pair[1]}
}
