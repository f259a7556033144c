// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package config loads the service configuration file.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mattermost/tmsync/internal/locale"
	"github.com/mattermost/tmsync/model"
)

const (
	// DefaultStaleUploadThreshold is how long an import may stay
	// incomplete before a status check treats it as failed.
	DefaultStaleUploadThreshold = time.Hour
	defaultTMSTimeout           = 30 * time.Second
)

// Config is the complete service configuration.
type Config struct {
	Settings  Settings        `yaml:"settings"`
	Languages []Language      `yaml:"languages"`
	Profiles  []model.Profile `yaml:"profiles"`
	TMS       TMS             `yaml:"tms"`
}

// Settings are module-wide behaviour switches.
type Settings struct {
	EnableDownloadInterim bool          `yaml:"enable_download_interim"`
	StaleUploadThreshold  time.Duration `yaml:"stale_upload_threshold"`
	DefaultProfile        string        `yaml:"default_profile"`
	ProjectID             string        `yaml:"project_id"`
}

// Language is a configured local language and its TMS locale.
type Language = locale.Language

// TMS holds the connection settings of the remote TMS.
type TMS struct {
	URL         string        `yaml:"url"`
	Token       string        `yaml:"token"`
	CommunityID string        `yaml:"community_id"`
	ProjectID   string        `yaml:"project_id"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Default returns a configuration with every default applied and no
// languages or custom profiles.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	return Parse(data)
}

// Parse parses configuration from YAML.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(data, c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	c.applyDefaults()

	err = c.normalizeOverrides()
	if err != nil {
		return nil, errors.Wrap(err, "config failed validation")
	}

	err = c.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "config failed validation")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Settings.StaleUploadThreshold <= 0 {
		c.Settings.StaleUploadThreshold = DefaultStaleUploadThreshold
	}
	if c.Settings.DefaultProfile == "" {
		c.Settings.DefaultProfile = model.ProfileManual
	}
	if c.Settings.ProjectID == "" {
		c.Settings.ProjectID = c.TMS.ProjectID
	}
	if c.TMS.Timeout <= 0 {
		c.TMS.Timeout = defaultTMSTimeout
	}
}

// tmsLocales maps the TMS locale of every configured language to its
// langcode.
func (c *Config) tmsLocales() map[string]string {
	locales := make(map[string]string, len(c.Languages))
	for _, language := range c.Languages {
		locales[language.TMSLocale()] = language.Langcode
	}
	return locales
}

// normalizeOverrides rewrites language override keys to the lang_REGION
// form. A key may also name a configured langcode.
func (c *Config) normalizeOverrides() error {
	locales := c.tmsLocales()
	langcodes := make(map[string]string, len(c.Languages))
	for _, language := range c.Languages {
		langcodes[language.Langcode] = language.TMSLocale()
	}

	for i, profile := range c.Profiles {
		if len(profile.LanguageOverrides) == 0 {
			continue
		}
		overrides := make(map[string]model.LanguageOverride, len(profile.LanguageOverrides))
		for key, override := range profile.LanguageOverrides {
			normalized := locale.Normalize(key)
			if _, ok := locales[normalized]; !ok {
				mapped, ok := langcodes[key]
				if !ok {
					return errors.Errorf("profile %s: override %s matches no configured language", profile.ID, key)
				}
				normalized = mapped
			}
			if _, ok := overrides[normalized]; ok {
				return errors.Errorf("profile %s: locale %s is overridden twice", profile.ID, normalized)
			}
			overrides[normalized] = override
		}
		c.Profiles[i].LanguageOverrides = overrides
	}

	return nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	langcodes := make(map[string]bool)
	locales := make(map[string]string)
	for _, language := range c.Languages {
		if language.Langcode == "" {
			return errors.New("language without langcode")
		}
		if langcodes[language.Langcode] {
			return errors.Errorf("language %s configured twice", language.Langcode)
		}
		langcodes[language.Langcode] = true

		if language.Disabled {
			continue
		}
		tmsLocale := language.TMSLocale()
		if other, ok := locales[tmsLocale]; ok {
			return errors.Errorf("languages %s and %s both map to locale %s", other, language.Langcode, tmsLocale)
		}
		locales[tmsLocale] = language.Langcode
	}
	configured := c.tmsLocales()

	profiles := map[string]bool{
		model.ProfileAutomatic: true,
		model.ProfileManual:    true,
		model.ProfileDisabled:  true,
	}
	for _, profile := range c.Profiles {
		if profile.ID == "" {
			return errors.New("profile without id")
		}
		if profiles[profile.ID] {
			return errors.Errorf("profile %s is already defined", profile.ID)
		}
		profiles[profile.ID] = true

		for key, override := range profile.LanguageOverrides {
			if _, ok := configured[locale]; !ok {
				return errors.Errorf("profile %s: override %s matches no configured language", profile.ID, key)
			}
			switch override.Mode {
			case "", model.OverrideInherit, model.OverrideDisabled:
			case model.OverrideCustom:
				if override.Custom == nil {
					return errors.Errorf("profile %s: custom override for %s has no flags", profile.ID, key)
				}
			default:
				return errors.Errorf("profile %s: unknown override mode %q for %s", profile.ID, override.Mode, key)
			}
		}
	}

	if !profiles[c.Settings.DefaultProfile] {
		return errors.Errorf("default profile %s is not defined", c.Settings.DefaultProfile)
	}

	return nil
}
