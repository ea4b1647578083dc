// Package i18n localizes response messages and lookup labels. Bengali is the
// default language; English is served when Accept-Language prefers it.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported languages
var (
	Bengali = language.Bengali
	English = language.English
)

// Translator resolves message keys for a negotiated language
type Translator struct {
	catalog   catalog.Catalog
	matcher   language.Matcher
	supported []language.Tag
	fallback  language.Tag
}

// New builds a translator whose fallback is defaultLang ("bn" or "en").
// An empty defaultLang means Bengali.
func New(defaultLang string) (*Translator, error) {
	fallback := Bengali
	switch strings.ToLower(strings.TrimSpace(defaultLang)) {
	case "", "bn":
	case "en":
		fallback = English
	default:
		return nil, fmt.Errorf("unsupported default language %q", defaultLang)
	}

	b := catalog.NewBuilder(catalog.Fallback(fallback))
	for key, pair := range messages {
		if err := b.SetString(Bengali, key, pair.bn); err != nil {
			return nil, fmt.Errorf("catalog %s/bn: %w", key, err)
		}
		if err := b.SetString(English, key, pair.en); err != nil {
			return nil, fmt.Errorf("catalog %s/en: %w", key, err)
		}
	}

	supported := []language.Tag{fallback, English}
	if fallback == English {
		supported = []language.Tag{English, Bengali}
	}
	return &Translator{
		catalog:   b,
		matcher:   language.NewMatcher(supported),
		supported: supported,
		fallback:  fallback,
	}, nil
}

// Default returns the fallback language
func (t *Translator) Default() language.Tag {
	return t.fallback
}

// Negotiate picks the supported language that best matches an
// Accept-Language header. Unparseable or unmatched headers get the fallback.
func (t *Translator) Negotiate(acceptLanguage string) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return t.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.fallback
	}
	_, index, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.fallback
	}
	return t.supported[index]
}

// T formats key in lang. Unknown keys are returned as-is.
func (t *Translator) T(lang language.Tag, key string, args ...any) string {
	if _, ok := messages[key]; !ok {
		return key
	}
	return message.NewPrinter(lang, message.Catalog(t.catalog)).Sprintf(key, args...)
}

// Has reports whether key has a translation
func (t *Translator) Has(key string) bool {
	_, ok := messages[key]
	return ok
}

// Action renders a mutation outcome such as "Department created successfully"
func (t *Translator) Action(lang language.Tag, entity Entity, action Action) string {
	return t.T(lang, "action."+string(action), t.T(lang, "entity."+string(entity)))
}

// Label returns the localized label of an enumerated value, e.g.
// Label(lang, "account_type", "asset"). Unknown values are returned as-is.
func (t *Translator) Label(lang language.Tag, group, value string) string {
	key := group + "." + value
	if !t.Has(key) {
		return value
	}
	return t.T(lang, key)
}

// Error returns the localized text for an error code, or fallback when the
// catalog has none.
func (t *Translator) Error(lang language.Tag, code, fallback string) string {
	key := "error." + code
	if !t.Has(key) {
		return fallback
	}
	return t.T(lang, key)
}
