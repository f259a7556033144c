// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/mattermost/tmsync/model"
)

// MemoryStore keeps documents, entities and translations in memory. It
// implements the same contract as SQLStore and is used when no database
// is configured and in tests.
type MemoryStore struct {
	mu           sync.RWMutex
	documents    map[string]*model.Document
	entities     map[string]*model.Entity
	translations map[string]map[string]*model.LocalTranslation
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents:    make(map[string]*model.Document),
		entities:     make(map[string]*model.Entity),
		translations: make(map[string]map[string]*model.LocalTranslation),
	}
}

// GetDocument returns a copy of the document of an entity.
func (s *MemoryStore) GetDocument(entityKey string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[entityKey].Clone(), nil
}

// GetDocumentByDocumentID returns a copy of the document holding the given
// TMS document id.
func (s *MemoryStore) GetDocumentByDocumentID(documentID string) (*model.Document, error) {
	if documentID == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, document := range s.documents {
		if document.DocumentID == documentID {
			return document.Clone(), nil
		}
	}

	return nil, nil
}

// GetDocuments returns copies of every document sorted by entity key.
func (s *MemoryStore) GetDocuments() ([]*model.Document, error) {
	return s.filterDocuments(func(*model.Document) bool { return true }), nil
}

// GetDocumentsToSupervise returns the documents with an import or a
// translation in progress.
func (s *MemoryStore) GetDocumentsToSupervise() ([]*model.Document, error) {
	return s.filterDocuments(func(document *model.Document) bool {
		if !document.HasDocumentID() {
			return false
		}
		if document.SourceStatus == model.SourceStatusImporting {
			return true
		}
		for _, target := range document.Targets {
			if target.Status == model.TargetStatusPending || target.Status == model.TargetStatusReady {
				return true
			}
		}
		return false
	}), nil
}

func (s *MemoryStore) filterDocuments(keep func(*model.Document) bool) []*model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	documents := []*model.Document{}
	for _, document := range s.documents {
		if keep(document) {
			documents = append(documents, document.Clone())
		}
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].EntityKey < documents[j].EntityKey
	})

	return documents
}

// SaveDocument stores a copy of the document, failing with ErrConflict if
// the stored version moved since it was read.
func (s *MemoryStore) SaveDocument(document *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var storedVersion int64
	if stored, ok := s.documents[document.EntityKey]; ok {
		storedVersion = stored.Version
	}
	if storedVersion != document.Version {
		return errors.Wrapf(ErrConflict, "document for %s is at version %d, not %d", document.EntityKey, storedVersion, document.Version)
	}

	if document.HasDocumentID() {
		err := s.checkDocumentIDFree(document.EntityKey, document.DocumentID)
		if err != nil {
			return err
		}
	}

	now := model.GetMillis()
	if document.CreateAt == 0 {
		document.CreateAt = now
	}
	document.UpdateAt = now
	document.Version++
	s.documents[document.EntityKey] = document.Clone()

	return nil
}

// CompareAndSwapDocumentID replaces the document id of an entity only if
// it still equals expectedOld.
func (s *MemoryStore) CompareAndSwapDocumentID(entityKey, expectedOld, newID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	document, ok := s.documents[entityKey]
	if !ok || document.DocumentID != expectedOld {
		return false, nil
	}
	if newID != "" {
		err := s.checkDocumentIDFree(entityKey, newID)
		if err != nil {
			return false, err
		}
	}

	document.DocumentID = newID
	document.Version++
	document.UpdateAt = model.GetMillis()

	return true, nil
}

// checkDocumentIDFree fails when another entity holds documentID. The
// caller must hold the lock.
func (s *MemoryStore) checkDocumentIDFree(entityKey, documentID string) error {
	for key, other := range s.documents {
		if key != entityKey && other.DocumentID == documentID {
			return errors.Errorf("document id %s is already held by %s", documentID, key)
		}
	}
	return nil
}

// DeleteDocument removes the document of an entity.
func (s *MemoryStore) DeleteDocument(entityKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, entityKey)

	return nil
}

// UpdateDocument applies fn to the current document of an entity and saves
// the result, retrying on concurrent modification.
func (s *MemoryStore) UpdateDocument(entityKey string, fn func(*model.Document) error) (*model.Document, error) {
	return updateDocument(s, entityKey, fn)
}

// GetEntity returns a copy of an entity.
func (s *MemoryStore) GetEntity(entityKey string) (*model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[entityKey]
	if !ok {
		return nil, nil
	}

	return copyEntity(entity), nil
}

// GetEntities returns copies of every entity sorted by key.
func (s *MemoryStore) GetEntities() ([]*model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entities := make([]*model.Entity, 0, len(s.entities))
	for _, entity := range s.entities {
		entities = append(entities, copyEntity(entity))
	}
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].EntityKey < entities[j].EntityKey
	})

	return entities, nil
}

// SaveEntity stores a copy of an entity.
func (s *MemoryStore) SaveEntity(entity *model.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := model.GetMillis()
	if existing, ok := s.entities[entity.EntityKey]; ok {
		entity.CreateAt = existing.CreateAt
	}
	if entity.CreateAt == 0 {
		entity.CreateAt = now
	}
	entity.UpdateAt = now
	s.entities[entity.EntityKey] = copyEntity(entity)

	return nil
}

func copyEntity(entity *model.Entity) *model.Entity {
	clone := *entity
	clone.Targets = append([]string(nil), entity.Targets...)
	return &clone
}

// SaveTranslation stores a local translation and returns its revision.
func (s *MemoryStore) SaveTranslation(entityKey, langcode string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.translations[entityKey] == nil {
		s.translations[entityKey] = make(map[string]*model.LocalTranslation)
	}
	revision := model.ContentRevision(content)
	s.translations[entityKey][langcode] = &model.LocalTranslation{
		EntityKey: entityKey,
		Langcode:  langcode,
		Content:   string(content),
		Revision:  revision,
		UpdateAt:  model.GetMillis(),
	}

	return revision, nil
}

// GetTranslation returns a copy of a local translation.
func (s *MemoryStore) GetTranslation(entityKey, langcode string) (*model.LocalTranslation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	translation, ok := s.translations[entityKey][langcode]
	if !ok {
		return nil, nil
	}
	clone := *translation

	return &clone, nil
}

// DeleteTranslation removes a local translation.
func (s *MemoryStore) DeleteTranslation(entityKey, langcode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.translations[entityKey], langcode)

	return nil
}
