// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package locale

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLocale(t *testing.T) {
	var testCases = []struct {
		langcode string
		expected string
	}{
		{"es", "es_ES"},
		{"de", "de_DE"},
		{"en", "en_US"},
		{"pt-br", "pt_BR"},
		{"pt", "pt_BR"},
		{"zh-hans", "zh_CN"},
		{"ca", "ca_CA"},
	}

	for _, tc := range testCases {
		t.Run(tc.langcode, func(t *testing.T) {
			assert.Equal(t, tc.expected, DefaultLocale(tc.langcode))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "es_ES", Normalize("es-ES"))
	assert.Equal(t, "es_MX", Normalize("ES_mx"))
	assert.Equal(t, "es", Normalize("es"))
}

func TestLanguageTMSLocale(t *testing.T) {
	assert.Equal(t, "es_MX", Language{Langcode: "es", Locale: "es-mx"}.TMSLocale())
	assert.Equal(t, "pt_BR", Language{Langcode: "pt"}.TMSLocale())
}

func TestMapper(t *testing.T) {
	mapper := NewMapper([]Language{
		{Langcode: "en"},
		{Langcode: "es", Locale: "es-MX"},
		{Langcode: "de"},
		{Langcode: "it", Disabled: true},
	})

	t.Run("explicit override", func(t *testing.T) {
		locale, err := mapper.ToTMSLocale("es")
		require.NoError(t, err)
		assert.Equal(t, "es_MX", locale)
	})

	t.Run("default derivation", func(t *testing.T) {
		locale, err := mapper.ToTMSLocale("de")
		require.NoError(t, err)
		assert.Equal(t, "de_DE", locale)
	})

	t.Run("inbound locale in both forms", func(t *testing.T) {
		langcode, err := mapper.ToLangcode("es_MX")
		require.NoError(t, err)
		assert.Equal(t, "es", langcode)

		langcode, err = mapper.ToLangcode("es-MX")
		require.NoError(t, err)
		assert.Equal(t, "es", langcode)
	})

	t.Run("unknown locale", func(t *testing.T) {
		_, err := mapper.ToLangcode("es_ES")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnmappableLocale))
	})

	t.Run("disabled language", func(t *testing.T) {
		_, err := mapper.ToTMSLocale("it")
		assert.True(t, errors.Is(err, ErrUnmappableLocale))
	})

	assert.ElementsMatch(t, []string{"en", "es", "de"}, mapper.Langcodes())
}
