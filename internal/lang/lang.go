// Package lang resolves user supplied language codes to the languages the
// feature extractors have resources for.
package lang

import (
	"log/slog"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Fallback is used for every language without stop words or rank tables.
const Fallback = "en"

var supported = []language.Tag{language.English, language.German}

// Supported returns the codes of all supported languages.
func Supported() []string {
	codes := make([]string, len(supported))
	for i, t := range supported {
		codes[i] = code(t)
	}
	return codes
}

// Resolve maps code (e.g. "de", "de-AT", "en_US") to a supported base
// language. Only the base language counts: related languages such as "gsw"
// or "lb" are unsupported. Unsupported or malformed codes resolve to English
// with a warning.
func Resolve(c string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}

	tag, err := language.Parse(c)
	if err != nil {
		logger.Warn("unparseable language, falling back", "lang", c, "fallback", Fallback, "error", err)
		return Fallback
	}

	t, ok := match(tag)
	if !ok {
		logger.Warn("unsupported language, falling back", "lang", c, "fallback", Fallback)
		return Fallback
	}
	return code(t)
}

// IsSupported reports whether c resolves to a supported language without
// falling back.
func IsSupported(c string) bool {
	tag, err := language.Parse(c)
	if err != nil {
		return false
	}
	_, ok := match(tag)
	return ok
}

// match returns the supported language with the same explicit base as tag.
func match(tag language.Tag) (language.Tag, bool) {
	base, conf := tag.Base()
	if conf != language.Exact {
		return language.Und, false
	}
	for _, t := range supported {
		if b, _ := t.Base(); b == base {
			return t, true
		}
	}
	return language.Und, false
}

// Name returns the English display name of a language code.
func Name(c string) string {
	tag, err := language.Parse(c)
	if err != nil {
		return c
	}
	return display.English.Languages().Name(tag)
}

func code(t language.Tag) string {
	base, _ := t.Base()
	return base.String()
}
