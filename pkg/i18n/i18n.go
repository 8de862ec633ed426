package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message IDs against the embedded locale files.
type Translator struct {
	bundle *goi18n.Bundle
}

// New loads active.<lang>.json for every requested language. English is
// the fallback and is always loaded.
func New(langs ...string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	seen := map[string]bool{}
	for _, lang := range append([]string{"en"}, langs...) {
		if seen[lang] {
			continue
		}
		seen[lang] = true

		file := path.Join("locales", fmt.Sprintf("active.%s.json", lang))
		data, err := localeFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", lang, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
	}
	return &Translator{bundle: bundle}, nil
}

// Translate localizes messageID for the given Accept-Language header value.
// Unknown IDs come back unchanged so callers always have something to show.
func (t *Translator) Translate(acceptLanguage, messageID string, data map[string]interface{}) string {
	if t == nil {
		return messageID
	}
	loc := goi18n.NewLocalizer(t.bundle, acceptLanguage)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil && msg == "" {
		return messageID
	}
	return msg
}
