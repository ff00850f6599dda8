package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Locale represents a supported language
type Locale string

const (
	LocaleKo Locale = "ko"
	LocaleEn Locale = "en"
	LocaleJa Locale = "ja"
)

var defaultLocale = LocaleEn

// knownLocales are the locales Accept-Language can resolve to
var knownLocales = []Locale{LocaleKo, LocaleEn, LocaleJa}

// Bundle holds the integrity and API messages for every locale
type Bundle struct {
	mu           sync.RWMutex
	translations map[Locale]map[string]string
	fallback     Locale
}

// NewBundle creates an empty bundle. An empty fallback means English.
func NewBundle(fallback Locale) *Bundle {
	if fallback == "" {
		fallback = defaultLocale
	}
	return &Bundle{
		translations: make(map[Locale]map[string]string),
		fallback:     fallback,
	}
}

// NewDefaultBundle returns a bundle preloaded with DefaultMessages
func NewDefaultBundle(fallback Locale) *Bundle {
	b := NewBundle(fallback)
	for locale, msgs := range DefaultMessages() {
		b.LoadMessages(locale, msgs)
	}
	return b
}

// LoadDir overlays message files from dir. Files are named after their
// locale: ko.yaml, en.yml or ja.json. Other files are ignored.
func (b *Bundle) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read i18n dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		var unmarshal func([]byte, any) error
		switch ext {
		case ".yaml", ".yml":
			unmarshal = yaml.Unmarshal
		case ".json":
			unmarshal = json.Unmarshal
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var msgs map[string]string
		if err := unmarshal(data, &msgs); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		b.LoadMessages(Locale(strings.TrimSuffix(entry.Name(), ext)), msgs)
	}
	return nil
}

// LoadMessages merges messages into locale. Later loads win per key.
func (b *Bundle) LoadMessages(locale Locale, messages map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, ok := b.translations[locale]
	if !ok {
		existing = make(map[string]string, len(messages))
		b.translations[locale] = existing
	}
	for k, v := range messages {
		existing[k] = v
	}
}

// T translates key for locale, falling back to the bundle's fallback
// locale and then to the key itself. args are applied with fmt.Sprintf.
func (b *Bundle) T(locale Locale, key string, args ...interface{}) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if msg, ok := b.lookup(locale, key); ok {
		return format(msg, args)
	}
	if locale != b.fallback {
		if msg, ok := b.lookup(b.fallback, key); ok {
			return format(msg, args)
		}
	}
	return key
}

// Has reports whether key is translated for locale (without fallback)
func (b *Bundle) Has(locale Locale, key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.lookup(locale, key)
	return ok
}

func (b *Bundle) lookup(locale Locale, key string) (string, bool) {
	msg, ok := b.translations[locale][key]
	return msg, ok
}

func format(msg string, args []interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// SupportedLocales returns the locales with loaded messages, sorted
func (b *Bundle) SupportedLocales() []Locale {
	b.mu.RLock()
	defer b.mu.RUnlock()

	locales := make([]Locale, 0, len(b.translations))
	for l := range b.translations {
		locales = append(locales, l)
	}
	sort.Slice(locales, func(i, j int) bool { return locales[i] < locales[j] })
	return locales
}

// ParseAcceptLanguage returns the known locale with the highest q-value in
// header. Ties keep header order; no match gives English.
func ParseAcceptLanguage(header string) Locale {
	best := defaultLocale
	bestQ := -1.0

	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		tag := strings.ToLower(strings.TrimSpace(fields[0]))
		if tag == "" {
			continue
		}
		q := 1.0
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if v, ok := strings.CutPrefix(param, "q="); ok {
				if parsed, err := strconv.ParseFloat(v, 64); err == nil {
					q = parsed
				}
			}
		}
		if q <= 0 || q <= bestQ {
			continue
		}

		base, _, _ := strings.Cut(tag, "-")
		for _, l := range knownLocales {
			if base == string(l) {
				best, bestQ = l, q
				break
			}
		}
	}
	return best
}
