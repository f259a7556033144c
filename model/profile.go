// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

// Built-in profile identifiers.
const (
	ProfileAutomatic = "automatic"
	ProfileManual    = "manual"
	ProfileDisabled  = "disabled"
)

// OverrideMode selects how a per-locale override combines with the base
// profile flags.
type OverrideMode string

// Override modes.
const (
	OverrideInherit  OverrideMode = "inherit"
	OverrideCustom   OverrideMode = "custom"
	OverrideDisabled OverrideMode = "disabled"
)

// Flags controls which lifecycle steps happen automatically.
type Flags struct {
	AutoUpload         bool `yaml:"auto_upload"`
	AutoRequest        bool `yaml:"auto_request"`
	AutoDownload       bool `yaml:"auto_download"`
	AutoDownloadWorker bool `yaml:"auto_download_worker"`
}

// PartialFlags holds the flags set by a custom override. Nil fields
// inherit the base profile value.
type PartialFlags struct {
	AutoUpload         *bool `yaml:"auto_upload"`
	AutoRequest        *bool `yaml:"auto_request"`
	AutoDownload       *bool `yaml:"auto_download"`
	AutoDownloadWorker *bool `yaml:"auto_download_worker"`
}

// LanguageOverride is a per-locale profile override.
type LanguageOverride struct {
	Mode   OverrideMode  `yaml:"mode"`
	Custom *PartialFlags `yaml:"custom"`
}

// Profile is a named policy controlling automation.
type Profile struct {
	ID                string                      `yaml:"id"`
	Label             string                      `yaml:"label"`
	Flags             Flags                       `yaml:",inline"`
	LanguageOverrides map[string]LanguageOverride `yaml:"language_overrides"`
}

// EffectiveFlags is the result of resolving a profile for one locale.
type EffectiveFlags struct {
	AutoUpload         bool
	AutoRequest        bool
	AutoDownload       bool
	AutoDownloadWorker bool
	Disabled           bool
}

// Bool returns a pointer to b, for building PartialFlags.
func Bool(b bool) *bool {
	return &b
}
