package ctdf

import "fmt"

type Language string

const (
	LanguageTC Language = "tc"
	LanguageSC Language = "sc"
	LanguageEN Language = "en"
)

func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguageTC, LanguageSC, LanguageEN:
		return Language(s), nil
	case "":
		return LanguageTC, nil
	}

	return "", fmt.Errorf("unknown language %q", s)
}

// Chinese reports whether the language is one of the two Chinese scripts
func (l Language) Chinese() bool {
	return l == LanguageTC || l == LanguageSC
}

type LocalisedName struct {
	TC string `json:"tc,omitempty" groups:"basic"`
	SC string `json:"sc,omitempty" groups:"basic"`
	EN string `json:"en,omitempty" groups:"basic"`
}

// Get returns the name in the requested language. Several feeds only carry a
// single Chinese name so simplified falls back to traditional.
func (n LocalisedName) Get(lang Language) string {
	switch lang {
	case LanguageEN:
		return n.EN
	case LanguageSC:
		if n.SC != "" {
			return n.SC
		}
		return n.TC
	default:
		return n.TC
	}
}

func (n LocalisedName) IsZero() bool {
	return n.TC == "" && n.SC == "" && n.EN == ""
}
