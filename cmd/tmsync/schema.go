// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"github.com/spf13/cobra"

	"github.com/mattermost/tmsync/internal/store"
)

func init() {
	schemaCmd.AddCommand(schemaMigrateCmd)
	schemaCmd.AddCommand(schemaVersionCmd)
	schemaCmd.PersistentFlags().String(databaseFlag, defaultDatabase, "The database backing the tmsync server.")
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manipulate the schema used by the tmsync server.",
}

func sqlStore(command *cobra.Command) (*store.SQLStore, error) {
	database, _ := command.Flags().GetString(databaseFlag)
	sqlStore, err := store.New(database, logger)
	if err != nil {
		return nil, err
	}

	return sqlStore, nil
}

var schemaMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the schema to the latest supported version.",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		sqlStore, err := sqlStore(command)
		if err != nil {
			return err
		}
		defer sqlStore.Close()

		return sqlStore.Migrate()
	},
}

var schemaVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version.",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		sqlStore, err := sqlStore(command)
		if err != nil {
			return err
		}
		defer sqlStore.Close()

		version, err := sqlStore.GetCurrentVersion()
		if err != nil {
			return err
		}
		logger.Infof("Schema version %s, latest %s", version, store.LatestVersion())

		return nil
	},
}
