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
	entityTableName      = "Entity"
	translationTableName = "LocalTranslation"
	targetsSeparator     = ","
)

var entitySelect sq.SelectBuilder

func init() {
	entitySelect = sq.
		Select(lowerAliases(
			"EntityKey",
			"Title",
			"Langcode",
			"Profile",
			"Body",
			"BodyVersion",
			"CreateAt",
			"UpdateAt",
		)...).
		Column("Targets AS targetlist").
		From(entityTableName)
}

type entityRow struct {
	model.Entity
	TargetList string
}

func (r *entityRow) toEntity() *model.Entity {
	entity := r.Entity
	entity.Targets = nil
	if r.TargetList != "" {
		entity.Targets = strings.Split(r.TargetList, targetsSeparator)
	}
	return &entity
}

// GetEntity fetches an entity, or nil if it does not exist.
func (sqlStore *SQLStore) GetEntity(entityKey string) (*model.Entity, error) {
	row := &entityRow{}
	err := sqlStore.getBuilder(sqlStore.db, row, entitySelect.Where("EntityKey = ?", entityKey))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get entity")
	}

	return row.toEntity(), nil
}

// GetEntities fetches every entity.
func (sqlStore *SQLStore) GetEntities() ([]*model.Entity, error) {
	var rows []*entityRow
	err := sqlStore.selectBuilder(sqlStore.db, &rows, entitySelect.OrderBy("EntityKey ASC"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query entities")
	}

	entities := make([]*model.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, row.toEntity())
	}

	return entities, nil
}

// SaveEntity creates or replaces an entity.
func (sqlStore *SQLStore) SaveEntity(entity *model.Entity) error {
	now := model.GetMillis()
	if entity.CreateAt == 0 {
		entity.CreateAt = now
	}
	entity.UpdateAt = now

	_, err := sqlStore.execBuilder(sqlStore.db, sq.
		Insert(entityTableName).
		SetMap(map[string]interface{}{
			"EntityKey":   entity.EntityKey,
			"Title":       entity.Title,
			"Langcode":    entity.Langcode,
			"Targets":     strings.Join(entity.Targets, targetsSeparator),
			"Profile":     entity.Profile,
			"Body":        entity.Body,
			"BodyVersion": entity.BodyVersion,
			"CreateAt":    entity.CreateAt,
			"UpdateAt":    entity.UpdateAt,
		}).
		Suffix(`ON CONFLICT (EntityKey) DO UPDATE SET
			Title = excluded.Title,
			Langcode = excluded.Langcode,
			Targets = excluded.Targets,
			Profile = excluded.Profile,
			Body = excluded.Body,
			BodyVersion = excluded.BodyVersion,
			UpdateAt = excluded.UpdateAt`),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to store entity %s", entity.EntityKey)
	}

	return nil
}

// SaveTranslation stores the local translation of an entity and returns
// its revision marker.
func (sqlStore *SQLStore) SaveTranslation(entityKey, langcode string, content []byte) (string, error) {
	revision := model.ContentRevision(content)
	_, err := sqlStore.execBuilder(sqlStore.db, sq.
		Insert(translationTableName).
		SetMap(map[string]interface{}{
			"EntityKey": entityKey,
			"Langcode":  langcode,
			"Content":   string(content),
			"Revision":  revision,
			"UpdateAt":  model.GetMillis(),
		}).
		Suffix(`ON CONFLICT (EntityKey, Langcode) DO UPDATE SET
			Content = excluded.Content,
			Revision = excluded.Revision,
			UpdateAt = excluded.UpdateAt`),
	)
	if err != nil {
		return "", errors.Wrapf(err, "failed to store %s translation of %s", langcode, entityKey)
	}

	return revision, nil
}

// GetTranslation fetches a local translation, or nil if there is none.
func (sqlStore *SQLStore) GetTranslation(entityKey, langcode string) (*model.LocalTranslation, error) {
	translation := &model.LocalTranslation{}
	err := sqlStore.getBuilder(sqlStore.db, translation, sq.
		Select(lowerAliases("EntityKey", "Langcode", "Content", "Revision", "UpdateAt")...).
		From(translationTableName).
		Where("EntityKey = ?", entityKey).
		Where("Langcode = ?", langcode))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get translation")
	}

	return translation, nil
}

// DeleteTranslation removes a local translation.
func (sqlStore *SQLStore) DeleteTranslation(entityKey, langcode string) error {
	_, err := sqlStore.execBuilder(sqlStore.db, sq.
		Delete(translationTableName).
		Where("EntityKey = ?", entityKey).
		Where("Langcode = ?", langcode))
	if err != nil {
		return errors.Wrapf(err, "failed to delete %s translation of %s", langcode, entityKey)
	}

	return nil
}
