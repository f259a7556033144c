// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package profile resolves translation profiles into the effective
// automation flags for a target locale.
package profile

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/mattermost/tmsync/internal/locale"
	"github.com/mattermost/tmsync/model"
)

// ErrUnknownProfile is returned when an entity references a profile that
// is not defined.
var ErrUnknownProfile = errors.New("unknown profile")

// Builtins returns the built-in profiles.
func Builtins() []model.Profile {
	return []model.Profile{
		{
			ID:    model.ProfileAutomatic,
			Label: "Automatic",
			Flags: model.Flags{
				AutoUpload:   true,
				AutoRequest:  true,
				AutoDownload: true,
			},
		},
		{
			ID:    model.ProfileManual,
			Label: "Manual",
		},
		{
			ID:    model.ProfileDisabled,
			Label: "Disabled",
		},
	}
}

// EffectiveFlags computes the flags that apply to one locale. A per-locale
// override always wins over the base profile flags.
func EffectiveFlags(profile *model.Profile, locale string) model.EffectiveFlags {
	if profile == nil || profile.ID == model.ProfileDisabled {
		return model.EffectiveFlags{Disabled: true}
	}

	flags := model.EffectiveFlags{
		AutoUpload:         profile.Flags.AutoUpload,
		AutoRequest:        profile.Flags.AutoRequest,
		AutoDownload:       profile.Flags.AutoDownload,
		AutoDownloadWorker: profile.Flags.AutoDownloadWorker,
	}

	override, ok := profile.LanguageOverrides[locale]
	if !ok {
		return flags
	}

	switch override.Mode {
	case model.OverrideDisabled:
		return model.EffectiveFlags{Disabled: true}
	case model.OverrideCustom:
		if override.Custom == nil {
			return flags
		}
		merge(&flags.AutoUpload, override.Custom.AutoUpload)
		merge(&flags.AutoRequest, override.Custom.AutoRequest)
		merge(&flags.AutoDownload, override.Custom.AutoDownload)
		merge(&flags.AutoDownloadWorker, override.Custom.AutoDownloadWorker)
	}

	return flags
}

func merge(base *bool, custom *bool) {
	if custom != nil {
		*base = *custom
	}
}

// Registry holds the built-in and configured profiles.
type Registry struct {
	profiles       map[string]*model.Profile
	defaultProfile string
}

// NewRegistry creates a Registry from the configured custom profiles.
// Override keys are stored in the lang_REGION form.
func NewRegistry(profiles []model.Profile, defaultProfile string) *Registry {
	r := &Registry{
		profiles:       make(map[string]*model.Profile),
		defaultProfile: defaultProfile,
	}
	for _, profile := range append(Builtins(), profiles...) {
		p := profile
		if len(p.LanguageOverrides) > 0 {
			p.LanguageOverrides = make(map[string]model.LanguageOverride, len(profile.LanguageOverrides))
			for key, override := range profile.LanguageOverrides {
				p.LanguageOverrides[locale.Normalize(key)] = override
			}
		}
		r.profiles[p.ID] = &p
	}
	if r.defaultProfile == "" {
		r.defaultProfile = model.ProfileManual
	}
	return r
}

// Get returns the profile with the given id.
func (r *Registry) Get(id string) (*model.Profile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProfile, "profile %s", id)
	}
	return profile, nil
}

// Resolve returns the profile assigned to an entity, falling back to the
// default profile.
func (r *Registry) Resolve(entity model.TrackableEntity) (*model.Profile, error) {
	id := entity.ProfileID()
	if id == "" {
		id = r.defaultProfile
	}
	return r.Get(id)
}

// IDs returns every known profile id, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
