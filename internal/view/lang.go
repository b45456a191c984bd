package view

import (
	"strings"

	"golang.org/x/text/language"
)

var supportedTags = []language.Tag{
	language.English,
	language.Japanese,
}

var tagMatcher = language.NewMatcher(supportedTags)

// DefaultLanguage is used when nothing better matches.
func DefaultLanguage() language.Tag {
	return language.English
}

// ParseLanguage resolves a single tag such as "ja" or "en-GB" to a supported
// language.
func ParseLanguage(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Tag{}, false
	}
	parsed, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	_, idx, conf := tagMatcher.Match(parsed)
	if conf == language.No {
		return language.Tag{}, false
	}
	return supportedTags[idx], true
}

// MatchAcceptLanguage picks a supported language from an Accept-Language
// header value.
func MatchAcceptLanguage(accept string) language.Tag {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return DefaultLanguage()
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage()
	}
	_, idx, _ := tagMatcher.Match(tags...)
	return supportedTags[idx]
}

func isJapanese(tag language.Tag) bool {
	base, _ := tag.Base()
	jaBase, _ := language.Japanese.Base()
	return base == jaBase
}
