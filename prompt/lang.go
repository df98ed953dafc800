package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Lang selects the NLP pipeline and the prompt template.
type Lang int

const (
	English Lang = iota
	Chinese
)

var supported = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supported)

func (l Lang) String() string {
	switch l {
	case Chinese:
		return "zh"
	default:
		return "en"
	}
}

// Tag returns the BCP 47 tag of the language.
func (l Lang) Tag() language.Tag {
	return supported[l]
}

// ParseLang maps a language code ("en", "en-US", "zh", "zh-cn", "zh-Hans"...)
// to a supported Lang.
func ParseLang(s string) (Lang, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return English, fmt.Errorf("invalid language %q: %w", s, err)
	}

	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return English, fmt.Errorf("unsupported language %q (supported: en, zh)", s)
	}

	return Lang(idx), nil
}

// Langs returns the codes of the supported languages.
func Langs() []string {
	return []string{English.String(), Chinese.String()}
}
