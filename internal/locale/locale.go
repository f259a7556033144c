// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package locale maps local langcodes to TMS locale codes and back.
package locale

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnmappableLocale is returned when no configured language matches a
// locale or langcode.
var ErrUnmappableLocale = errors.New("unmappable locale")

// defaultLocales lists langcodes whose default region is not the
// uppercased langcode.
var defaultLocales = map[string]string{
	"ar":      "ar_AE",
	"cs":      "cs_CZ",
	"da":      "da_DK",
	"el":      "el_GR",
	"en":      "en_US",
	"he":      "he_IL",
	"hi":      "hi_IN",
	"ja":      "ja_JP",
	"ko":      "ko_KR",
	"nb":      "nb_NO",
	"pt":      "pt_BR",
	"sv":      "sv_SE",
	"uk":      "uk_UA",
	"vi":      "vi_VN",
	"zh-hans": "zh_CN",
	"zh-hant": "zh_TW",
}

// Language is a configured local language and its TMS locale.
type Language struct {
	Langcode string `yaml:"langcode"`
	Locale   string `yaml:"locale"`
	Disabled bool   `yaml:"disabled"`
}

// TMSLocale returns the TMS locale of the language, derived from the
// langcode when no locale is configured.
func (l Language) TMSLocale() string {
	locale := Normalize(l.Locale)
	if locale == "" {
		return DefaultLocale(l.Langcode)
	}
	return locale
}

// Mapper translates between langcodes and TMS locales for the configured
// languages.
type Mapper struct {
	toLocale   map[string]string
	toLangcode map[string]string
}

// NewMapper builds a Mapper from the configured languages. Disabled
// languages are not mapped.
func NewMapper(languages []Language) *Mapper {
	m := &Mapper{
		toLocale:   make(map[string]string),
		toLangcode: make(map[string]string),
	}
	for _, language := range languages {
		if language.Disabled {
			continue
		}
		locale := language.TMSLocale()
		m.toLocale[language.Langcode] = locale
		m.toLangcode[locale] = language.Langcode
	}
	return m
}

// ToTMSLocale returns the TMS locale for a langcode.
func (m *Mapper) ToTMSLocale(langcode string) (string, error) {
	locale, ok := m.toLocale[langcode]
	if !ok {
		return "", errors.Wrapf(ErrUnmappableLocale, "langcode %s is not configured", langcode)
	}
	return locale, nil
}

// ToLangcode returns the langcode configured for a TMS locale. Both es_ES
// and es-ES forms are accepted.
func (m *Mapper) ToLangcode(locale string) (string, error) {
	langcode, ok := m.toLangcode[Normalize(locale)]
	if !ok {
		return "", errors.Wrapf(ErrUnmappableLocale, "locale %s is not configured", locale)
	}
	return langcode, nil
}

// Langcodes returns every mapped langcode.
func (m *Mapper) Langcodes() []string {
	langcodes := make([]string, 0, len(m.toLocale))
	for langcode := range m.toLocale {
		langcodes = append(langcodes, langcode)
	}
	return langcodes
}

// Normalize converts a locale to the lang_REGION form.
func Normalize(locale string) string {
	locale = strings.TrimSpace(strings.Replace(locale, "-", "_", -1))
	parts := strings.SplitN(locale, "_", 2)
	if len(parts) != 2 {
		return locale
	}
	return strings.ToLower(parts[0]) + "_" + strings.ToUpper(parts[1])
}

// DefaultLocale derives the TMS locale for a langcode with no explicit
// mapping.
func DefaultLocale(langcode string) string {
	langcode = strings.ToLower(strings.TrimSpace(langcode))
	if locale, ok := defaultLocales[langcode]; ok {
		return locale
	}
	if strings.ContainsAny(langcode, "-_") {
		return Normalize(langcode)
	}
	return langcode + "_" + strings.ToUpper(langcode)
}
