// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"github.com/pkg/errors"

	"github.com/mattermost/tmsync/model"
)

// ErrConflict is returned when a document changed between read and write.
var ErrConflict = errors.New("document was modified concurrently")

const maxUpdateAttempts = 10

type documentGetSaver interface {
	GetDocument(entityKey string) (*model.Document, error)
	SaveDocument(document *model.Document) error
}

// updateDocument is the read-modify-write loop shared by the stores. A new
// untracked document is passed to fn when the entity has none yet.
func updateDocument(s documentGetSaver, entityKey string, fn func(*model.Document) error) (*model.Document, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		document, err := s.GetDocument(entityKey)
		if err != nil {
			return nil, err
		}
		if document == nil {
			document = model.NewDocument(entityKey)
		}

		err = fn(document)
		if err != nil {
			return nil, err
		}

		err = s.SaveDocument(document)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return document, nil
	}

	return nil, errors.Wrapf(ErrConflict, "gave up updating %s after %d attempts", entityKey, maxUpdateAttempts)
}
