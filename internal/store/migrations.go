// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"github.com/blang/semver"
)

type migration struct {
	fromVersion   semver.Version
	toVersion     semver.Version
	migrationFunc func(execer) error
}

// execAll runs each statement separately; not every driver accepts
// several statements in one call.
func execAll(e execer, statements ...string) error {
	for _, statement := range statements {
		_, err := e.Exec(statement)
		if err != nil {
			return err
		}
	}
	return nil
}

// migrations defines the set of migrations necessary to advance the database to the latest
// expected version.
//
// Note that the canonical schema is currently obtained by applying all migrations to an empty
// database. Every statement must be valid for both postgres and sqlite.
var migrations = []migration{
	{semver.MustParse("0.0.0"), semver.MustParse("0.1.0"),
		func(e execer) error {
			return execAll(e, `
				CREATE TABLE System (
						Key    VARCHAR(64) PRIMARY KEY,
						Value  VARCHAR(1024) NULL
				);
			`, `
				CREATE TABLE Document (
						EntityKey           TEXT PRIMARY KEY NOT NULL,
						DocumentID          TEXT NOT NULL DEFAULT '',
						PreviousDocumentID  TEXT NOT NULL DEFAULT '',
						SourceStatus        TEXT NOT NULL,
						SourceRevision      TEXT NOT NULL DEFAULT '',
						UploadedAt          BIGINT NOT NULL DEFAULT 0,
						CheckedAt           BIGINT NOT NULL DEFAULT 0,
						Version             BIGINT NOT NULL,
						CreateAt            BIGINT NOT NULL,
						UpdateAt            BIGINT NOT NULL
				);
			`, `
				CREATE UNIQUE INDEX Document_DocumentID ON Document (DocumentID) WHERE DocumentID <> '';
			`, `
				CREATE TABLE Target (
						EntityKey           TEXT NOT NULL REFERENCES Document(EntityKey) ON DELETE CASCADE,
						Locale              TEXT NOT NULL,
						Langcode            TEXT NOT NULL,
						Status              TEXT NOT NULL,
						RequestedAt         BIGINT NOT NULL DEFAULT 0,
						CheckedAt           BIGINT NOT NULL DEFAULT 0,
						DownloadedRevision  TEXT NOT NULL DEFAULT '',
						PRIMARY KEY (EntityKey, Locale)
				);
			`, `
				CREATE INDEX Target_Status ON Target (Status);
			`)
		},
	},
	{semver.MustParse("0.1.0"), semver.MustParse("0.2.0"),
		func(e execer) error {
			return execAll(e, `
				CREATE TABLE Entity (
						EntityKey    TEXT PRIMARY KEY NOT NULL,
						Title        TEXT NOT NULL,
						Langcode     TEXT NOT NULL,
						Targets      TEXT NOT NULL DEFAULT '',
						Profile      TEXT NOT NULL DEFAULT '',
						Body         TEXT NOT NULL DEFAULT '',
						BodyVersion  TEXT NOT NULL DEFAULT '',
						CreateAt     BIGINT NOT NULL,
						UpdateAt     BIGINT NOT NULL
				);
			`, `
				CREATE TABLE LocalTranslation (
						EntityKey  TEXT NOT NULL,
						Langcode   TEXT NOT NULL,
						Content    TEXT NOT NULL,
						Revision   TEXT NOT NULL,
						UpdateAt   BIGINT NOT NULL,
						PRIMARY KEY (EntityKey, Langcode)
				);
			`)
		},
	},
}
