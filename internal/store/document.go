// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/mattermost/tmsync/model"
)

const (
	documentTableName = "Document"
	targetTableName   = "Target"
)

var documentSelect sq.SelectBuilder
var targetSelect sq.SelectBuilder

func init() {
	documentSelect = sq.
		Select(lowerAliases(
			"EntityKey",
			"DocumentID",
			"PreviousDocumentID",
			"SourceStatus",
			"SourceRevision",
			"UploadedAt",
			"CheckedAt",
			"Version",
			"CreateAt",
			"UpdateAt",
		)...).
		From(documentTableName)

	targetSelect = sq.
		Select(lowerAliases(
			"EntityKey",
			"Locale",
			"Langcode",
			"Status",
			"RequestedAt",
			"CheckedAt",
			"DownloadedRevision",
		)...).
		From(targetTableName)
}

// lowerAliases aliases each column to its lowercase name so rows map onto
// struct fields the same way with every driver.
func lowerAliases(columns ...string) []string {
	aliased := make([]string, 0, len(columns))
	for _, column := range columns {
		aliased = append(aliased, column+" AS "+strings.ToLower(column))
	}
	return aliased
}

type targetRow struct {
	EntityKey string
	model.TargetRecord
}

// GetDocument fetches the document of an entity, or nil if the entity was
// never tracked.
func (sqlStore *SQLStore) GetDocument(entityKey string) (*model.Document, error) {
	return sqlStore.getDocument(sqlStore.db, documentSelect.Where("EntityKey = ?", entityKey))
}

// GetDocumentByDocumentID fetches the document with the given TMS document
// id, or nil if no entity holds it.
func (sqlStore *SQLStore) GetDocumentByDocumentID(documentID string) (*model.Document, error) {
	if documentID == "" {
		return nil, nil
	}
	return sqlStore.getDocument(sqlStore.db, documentSelect.Where("DocumentID = ?", documentID))
}

func (sqlStore *SQLStore) getDocument(db dbInterface, query sq.SelectBuilder) (*model.Document, error) {
	document := &model.Document{}
	err := sqlStore.getBuilder(db, document, query)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get document")
	}

	err = sqlStore.loadTargets(db, []*model.Document{document})
	if err != nil {
		return nil, err
	}

	return document, nil
}

// GetDocuments fetches every tracked document.
func (sqlStore *SQLStore) GetDocuments() ([]*model.Document, error) {
	return sqlStore.getDocuments(documentSelect.OrderBy("EntityKey ASC"))
}

// GetDocumentsToSupervise fetches the documents with an import or a
// translation in progress.
func (sqlStore *SQLStore) GetDocumentsToSupervise() ([]*model.Document, error) {
	return sqlStore.getDocuments(documentSelect.
		Where("DocumentID <> ''").
		Where(sq.Or{
			sq.Eq{"SourceStatus": string(model.SourceStatusImporting)},
			sq.Expr("EntityKey IN (SELECT EntityKey FROM Target WHERE Status IN (?, ?))",
				string(model.TargetStatusPending), string(model.TargetStatusReady)),
		}).
		OrderBy("UpdateAt ASC"),
	)
}

func (sqlStore *SQLStore) getDocuments(query sq.SelectBuilder) ([]*model.Document, error) {
	var documents []*model.Document
	err := sqlStore.selectBuilder(sqlStore.db, &documents, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query documents")
	}

	err = sqlStore.loadTargets(sqlStore.db, documents)
	if err != nil {
		return nil, err
	}

	return documents, nil
}

func (sqlStore *SQLStore) loadTargets(db dbInterface, documents []*model.Document) error {
	if len(documents) == 0 {
		return nil
	}

	byKey := make(map[string]*model.Document, len(documents))
	keys := make([]string, 0, len(documents))
	for _, document := range documents {
		document.Targets = make(map[string]*model.TargetRecord)
		byKey[document.EntityKey] = document
		keys = append(keys, document.EntityKey)
	}

	var rows []*targetRow
	err := sqlStore.selectBuilder(db, &rows, targetSelect.Where(sq.Eq{"EntityKey": keys}))
	if err != nil {
		return errors.Wrap(err, "failed to query targets")
	}

	for _, row := range rows {
		target := row.TargetRecord
		byKey[row.EntityKey].Targets[target.Locale] = &target
	}

	return nil
}

// SaveDocument stores a document and its targets. The write fails with
// ErrConflict when the stored version no longer matches document.Version;
// on success document.Version is advanced.
func (sqlStore *SQLStore) SaveDocument(document *model.Document) error {
	tx, err := sqlStore.beginTransaction(sqlStore.db)
	if err != nil {
		return err
	}
	defer tx.RollbackUnlessCommitted()

	now := model.GetMillis()
	values := map[string]interface{}{
		"DocumentID":         document.DocumentID,
		"PreviousDocumentID": document.PreviousDocumentID,
		"SourceStatus":       string(document.SourceStatus),
		"SourceRevision":     document.SourceRevision,
		"UploadedAt":         document.UploadedAt,
		"CheckedAt":          document.CheckedAt,
		"Version":            document.Version + 1,
		"UpdateAt":           now,
	}

	if document.Version == 0 {
		var count int
		err = sqlStore.getBuilder(tx, &count, sq.
			Select("COUNT(*)").
			From(documentTableName).
			Where("EntityKey = ?", document.EntityKey))
		if err != nil {
			return errors.Wrap(err, "failed to check for existing document")
		}
		if count > 0 {
			return errors.Wrapf(ErrConflict, "document for %s already exists", document.EntityKey)
		}

		createAt := document.CreateAt
		if createAt == 0 {
			createAt = now
		}
		values["EntityKey"] = document.EntityKey
		values["CreateAt"] = createAt

		_, err = sqlStore.execBuilder(tx, sq.Insert(documentTableName).SetMap(values))
		if err != nil {
			return errors.Wrap(err, "failed to insert document")
		}
	} else {
		var result sql.Result
		result, err = sqlStore.execBuilder(tx, sq.
			Update(documentTableName).
			SetMap(values).
			Where("EntityKey = ?", document.EntityKey).
			Where("Version = ?", document.Version))
		if err != nil {
			return errors.Wrap(err, "failed to update document")
		}
		var rows int64
		rows, err = result.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "failed to count updated documents")
		}
		if rows != 1 {
			return errors.Wrapf(ErrConflict, "document for %s changed since version %d", document.EntityKey, document.Version)
		}
	}

	_, err = sqlStore.execBuilder(tx, sq.
		Delete(targetTableName).
		Where("EntityKey = ?", document.EntityKey))
	if err != nil {
		return errors.Wrap(err, "failed to clear targets")
	}

	for _, locale := range document.TrackedLocales() {
		target := document.Targets[locale]
		_, err = sqlStore.execBuilder(tx, sq.
			Insert(targetTableName).
			SetMap(map[string]interface{}{
				"EntityKey":          document.EntityKey,
				"Locale":             locale,
				"Langcode":           target.Langcode,
				"Status":             string(target.Status),
				"RequestedAt":        target.RequestedAt,
				"CheckedAt":          target.CheckedAt,
				"DownloadedRevision": target.DownloadedRevision,
			}))
		if err != nil {
			return errors.Wrapf(err, "failed to store target %s", locale)
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	if document.CreateAt == 0 {
		document.CreateAt = now
	}
	document.UpdateAt = now
	document.Version++

	return nil
}

// CompareAndSwapDocumentID replaces the document id of an entity only if
// it still equals expectedOld. It reports whether the swap happened.
func (sqlStore *SQLStore) CompareAndSwapDocumentID(entityKey, expectedOld, newID string) (bool, error) {
	result, err := sqlStore.execBuilder(sqlStore.db, sq.
		Update(documentTableName).
		Set("DocumentID", newID).
		Set("Version", sq.Expr("Version + 1")).
		Set("UpdateAt", model.GetMillis()).
		Where("EntityKey = ?", entityKey).
		Where("DocumentID = ?", expectedOld))
	if err != nil {
		return false, errors.Wrapf(err, "failed to swap document id of %s", entityKey)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to count updated documents")
	}

	return rows == 1, nil
}

// DeleteDocument removes the document of an entity and all its targets.
func (sqlStore *SQLStore) DeleteDocument(entityKey string) error {
	tx, err := sqlStore.beginTransaction(sqlStore.db)
	if err != nil {
		return err
	}
	defer tx.RollbackUnlessCommitted()

	_, err = sqlStore.execBuilder(tx, sq.Delete(targetTableName).Where("EntityKey = ?", entityKey))
	if err != nil {
		return errors.Wrap(err, "failed to delete targets")
	}

	_, err = sqlStore.execBuilder(tx, sq.Delete(documentTableName).Where("EntityKey = ?", entityKey))
	if err != nil {
		return errors.Wrap(err, "failed to delete document")
	}

	return tx.Commit()
}

// UpdateDocument applies fn to the current document of an entity and saves
// the result, retrying on concurrent modification.
func (sqlStore *SQLStore) UpdateDocument(entityKey string, fn func(*model.Document) error) (*model.Document, error) {
	return updateDocument(sqlStore, entityKey, fn)
}
