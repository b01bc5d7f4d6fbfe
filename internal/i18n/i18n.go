// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides the Arabic and English message catalogues used for
// API messages.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

// catalog is the global catalog instance.
var catalog *Catalog

// SupportedLanguages lists the site languages.
var SupportedLanguages = []string{"ar", "en"}

// DefaultLanguage is used when Init is given no default.
const DefaultLanguage = "ar"

// Init loads the catalogues. defaultLang must be one of SupportedLanguages;
// an empty value selects DefaultLanguage.
func Init(logger *slog.Logger, defaultLang string) error {
	if defaultLang == "" {
		defaultLang = DefaultLanguage
	}
	if !IsSupported(defaultLang) {
		return fmt.Errorf("unsupported default language %q", defaultLang)
	}
	defaultLang = strings.ToLower(defaultLang)

	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  defaultLang,
		logger:       logger,
	}

	// The matcher falls back to its first tag, so the default goes first.
	ordered := append([]string{defaultLang}, slices.DeleteFunc(slices.Clone(SupportedLanguages), func(l string) bool {
		return l == defaultLang
	})...)
	for _, lang := range ordered {
		c.supported = append(c.supported, language.MustParse(lang))
	}
	c.matcher = language.NewMatcher(c.supported)

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(lang); err != nil {
			return fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages, "default", defaultLang)
	}

	return nil
}

func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgFile.Messages))
	}

	return nil
}

// T translates key into lang, falling back to the default language and then
// to the key itself. Args are applied with fmt.Sprintf.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	translation, ok := catalog.translations[lang][key]
	if !ok && lang != catalog.defaultLang {
		translation, ok = catalog.translations[catalog.defaultLang][key]
		if ok && catalog.logger != nil {
			catalog.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
	}
	if !ok {
		return key
	}

	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// Default returns the configured default language.
func Default() string {
	if catalog == nil {
		return DefaultLanguage
	}
	return catalog.defaultLang
}

// MatchLanguage finds the best supported language for an Accept-Language
// header or a single language code.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return catalog.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, confidence := catalog.matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(catalog.supported) {
		return catalog.defaultLang
	}
	return catalog.supported[idx].String()
}

// IsSupported checks if a language code is supported.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, strings.ToLower(lang))
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	return len(catalog.translations[lang])
}
