// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// TrackableEntity is any content or configuration unit whose translations
// are managed through the TMS. The host application adapts its own entity
// types to this interface.
type TrackableEntity interface {
	Key() string
	Label() string
	SourceLangcode() string
	TargetLangcodes() []string
	ProfileID() string
	Content() []byte
	Revision() string
}

// Entity is the stored form of a TrackableEntity.
type Entity struct {
	EntityKey   string
	Title       string
	Langcode    string
	Targets     []string
	Profile     string
	Body        string
	BodyVersion string
	CreateAt    int64
	UpdateAt    int64
}

var _ TrackableEntity = (*Entity)(nil)

func (e *Entity) Key() string            { return e.EntityKey }
func (e *Entity) Label() string          { return e.Title }
func (e *Entity) SourceLangcode() string { return e.Langcode }
func (e *Entity) ProfileID() string      { return e.Profile }
func (e *Entity) Content() []byte        { return []byte(e.Body) }

// TargetLangcodes returns the enabled target languages, excluding the
// source language.
func (e *Entity) TargetLangcodes() []string {
	var langcodes []string
	for _, langcode := range e.Targets {
		if langcode == "" || langcode == e.Langcode {
			continue
		}
		langcodes = append(langcodes, langcode)
	}
	return langcodes
}

// Revision identifies the current source content.
func (e *Entity) Revision() string {
	if e.BodyVersion == "" {
		return ContentRevision([]byte(e.Body))
	}
	return e.BodyVersion
}

// ContentRevision returns an opaque marker that changes whenever content
// changes.
func ContentRevision(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:16])
}

// LocalTranslation is the downloaded, possibly locally edited, translation
// of an entity.
type LocalTranslation struct {
	EntityKey string
	Langcode  string
	Content   string
	Revision  string
	UpdateAt  int64
}

// EntityRequest registers or updates an entity through the API.
type EntityRequest struct {
	Label           string
	SourceLangcode  string
	TargetLangcodes []string
	Profile         string
	Content         string
}

// Validate validates the values of an entity request.
func (r *EntityRequest) Validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return errors.New("must specify a label")
	}
	if r.SourceLangcode == "" {
		return errors.New("must specify a source langcode")
	}
	for _, langcode := range r.TargetLangcodes {
		if langcode == r.SourceLangcode {
			return errors.Errorf("target langcode %s is the source langcode", langcode)
		}
	}
	return nil
}

// ToEntity converts the request into an Entity with the given key.
func (r *EntityRequest) ToEntity(key string) *Entity {
	now := GetMillis()
	return &Entity{
		EntityKey:   key,
		Title:       r.Label,
		Langcode:    r.SourceLangcode,
		Targets:     r.TargetLangcodes,
		Profile:     r.Profile,
		Body:        r.Content,
		BodyVersion: ContentRevision([]byte(r.Content)),
		CreateAt:    now,
		UpdateAt:    now,
	}
}

// NewEntityRequestFromReader creates an EntityRequest from a Reader and
// validates it.
func NewEntityRequestFromReader(reader io.Reader) (*EntityRequest, error) {
	var request EntityRequest
	err := json.NewDecoder(reader).Decode(&request)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode entity request")
	}

	err = request.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "entity request failed validation")
	}

	return &request, nil
}

// NewEntityFromReader decodes an Entity from a Reader.
func NewEntityFromReader(reader io.Reader) (*Entity, error) {
	var entity Entity
	err := json.NewDecoder(reader).Decode(&entity)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode entity")
	}

	return &entity, nil
}

// NewLocalTranslationFromReader decodes a LocalTranslation from a Reader.
func NewLocalTranslationFromReader(reader io.Reader) (*LocalTranslation, error) {
	var translation LocalTranslation
	err := json.NewDecoder(reader).Decode(&translation)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode translation")
	}

	return &translation, nil
}

// NewEntityListFromReader decodes a list of entities from a Reader.
func NewEntityListFromReader(reader io.Reader) ([]*Entity, error) {
	var entities []*Entity
	err := json.NewDecoder(reader).Decode(&entities)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode entity list")
	}

	return entities, nil
}
