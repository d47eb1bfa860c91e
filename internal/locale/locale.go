// Package locale loads the embedded translation catalogs and renders the
// labels shared by the window and terminal front ends.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/format"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves translation keys for one language at a time.
// It is safe for concurrent use.
type Translator struct {
	bundle    *i18n.Bundle
	languages []string

	mu        sync.RWMutex
	lang      string
	localizer *i18n.Localizer
}

// New loads every embedded catalog and selects lang.
func New(lang string) *Translator {
	bundle, langs := loadBundle()
	t := &Translator{bundle: bundle, languages: langs}
	t.SetLanguage(lang)
	return t
}

func loadBundle() (*i18n.Bundle, []string) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return bundle, nil
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		detected = append(detected, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}
	return bundle, detected
}

// Languages returns the language codes that have a catalog.
func (t *Translator) Languages() []string {
	return t.languages
}

// SetLanguage switches the active language. Unknown codes fall back to the
// bundle default when a key is looked up.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.mu.Lock()
	t.lang = lang
	t.localizer = i18n.NewLocalizer(t.bundle, lang)
	t.mu.Unlock()
}

// Lang returns the active language code.
func (t *Translator) Lang() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// T translates key. A missing key is returned unchanged.
func (t *Translator) T(key string) string {
	return t.TData(key, nil)
}

// TData translates key, filling its template with data.
func (t *Translator) TData(key string, data map[string]any) string {
	t.mu.RLock()
	loc := t.localizer
	t.mu.RUnlock()

	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		// A key missing from the active catalog still resolves to English.
		if msg == "" {
			return key
		}
	}
	return msg
}

// FieldLabel returns the display name of a snapshot field.
func (t *Translator) FieldLabel(key engine.FieldKey) string {
	return t.T(config.TKeyFieldPrefix + string(key))
}

// Weekday returns the translated name of d.
func (t *Translator) Weekday(d time.Weekday) string {
	return t.T(config.TKeyWeekdayPrefix + strings.ToLower(d.String()))
}

// Number groups the digits of n for the active language.
func (t *Translator) Number(n int64) string {
	return format.Number(t.Lang(), n)
}

// Compact abbreviates n with K, M or B for narrow layouts.
func (t *Translator) Compact(n int64) string {
	return format.Large(t.Lang(), n)
}

// OrdinalSuffix returns the suffix written after a rank.
func (t *Translator) OrdinalSuffix(n int64) string {
	if t.Lang() == "fr" {
		if n == 1 {
			return "re"
		}
		return "e"
	}
	return format.Ordinal(n)
}

// Summary titles a calendar milestone. It matches the signature of
// engine.CalendarGenerator.FormatSummary.
func (t *Translator) Summary(name string, m engine.Milestone) string {
	var key string
	data := map[string]any{"Name": name}

	switch m.Kind {
	case engine.KindBirthday:
		if m.Value == 0 {
			key = config.TKeyEvtBirth
		} else {
			key = config.TKeyEvtBirthday
			data["Age"] = m.Value
		}
	case engine.KindDays:
		key = config.TKeyEvtDays
	case engine.KindWeeks:
		key = config.TKeyEvtWeeks
	case engine.KindSeconds:
		key = config.TKeyEvtSeconds
	default:
		return engine.FallbackSummary(name, m)
	}
	if m.Kind != engine.KindBirthday {
		data["Value"] = t.Number(m.Value)
	}

	if msg := t.TData(key, data); msg != key {
		return msg
	}
	return engine.FallbackSummary(name, m)
}
