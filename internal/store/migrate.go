// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/blang/semver"
	"github.com/pkg/errors"
)

const (
	systemTableName      = "System"
	currentVersionKey    = "CurrentVersion"
	initialSchemaVersion = "0.0.0"
)

// LatestVersion returns the schema version the migrations lead to.
func LatestVersion() semver.Version {
	return migrations[len(migrations)-1].toVersion
}

// GetCurrentVersion returns the schema version of the database.
func (sqlStore *SQLStore) GetCurrentVersion() (semver.Version, error) {
	exists, err := sqlStore.tableExists(systemTableName)
	if err != nil {
		return semver.Version{}, err
	}
	if !exists {
		return semver.MustParse(initialSchemaVersion), nil
	}

	var value string
	err = sqlStore.getBuilder(sqlStore.db, &value,
		sq.Select("Value").From(systemTableName).Where("Key = ?", currentVersionKey),
	)
	if err == sql.ErrNoRows {
		return semver.MustParse(initialSchemaVersion), nil
	} else if err != nil {
		return semver.Version{}, errors.Wrap(err, "failed to query current schema version")
	}

	version, err := semver.Parse(value)
	if err != nil {
		return semver.Version{}, errors.Wrapf(err, "failed to parse schema version %s", value)
	}

	return version, nil
}

// Migrate advances the schema to the latest version, one transaction per
// migration.
func (sqlStore *SQLStore) Migrate() error {
	currentSchemaVersion, err := sqlStore.GetCurrentVersion()
	if err != nil {
		return errors.Wrap(err, "failed to get current schema version")
	}

	for _, migration := range migrations {
		if !currentSchemaVersion.EQ(migration.fromVersion) {
			continue
		}

		err = sqlStore.applyMigration(migration)
		if err != nil {
			return errors.Wrapf(err, "failed to migrate from %s to %s", migration.fromVersion, migration.toVersion)
		}

		sqlStore.logger.Infof("Schema migrated to version %s", migration.toVersion)
		currentSchemaVersion = migration.toVersion
	}

	return nil
}

func (sqlStore *SQLStore) applyMigration(m migration) error {
	tx, err := sqlStore.beginTransaction(sqlStore.db)
	if err != nil {
		return err
	}
	defer tx.RollbackUnlessCommitted()

	err = m.migrationFunc(tx)
	if err != nil {
		return err
	}

	_, err = sqlStore.execBuilder(tx, sq.
		Insert(systemTableName).
		SetMap(map[string]interface{}{
			"Key":   currentVersionKey,
			"Value": m.toVersion.String(),
		}).
		Suffix("ON CONFLICT (Key) DO UPDATE SET Value = excluded.Value"),
	)
	if err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}

	return tx.Commit()
}
