// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/tmsync/model"
)

func init() {
	entityCmd.PersistentFlags().String(serverFlag, defaultServer, "The tmsync server to communicate with")

	entityPutCmd.Flags().String("label", "", "Human readable label of the entity")
	entityPutCmd.Flags().String("source", "", "Source langcode")
	entityPutCmd.Flags().StringSlice("target", nil, "Target langcodes")
	entityPutCmd.Flags().String("profile", "", "Translation profile; the configured default when empty")
	entityPutCmd.Flags().String("file", "", "File holding the source content")
	entityPutCmd.MarkFlagRequired("label")
	entityPutCmd.MarkFlagRequired("source")
	entityPutCmd.MarkFlagRequired("file")

	entityTranslationCmd.Flags().String("file", "", "File holding the edited translation")
	entityTranslationCmd.Flags().Bool("delete", false, "Report the translation as deleted")
	entityTranslationCmd.Flags().String("revision", "", "Print an archived revision instead of the local translation")

	entityCmd.AddCommand(entityGetCmd)
	entityCmd.AddCommand(entityListCmd)
	entityCmd.AddCommand(entityPutCmd)
	entityCmd.AddCommand(entityTranslationCmd)
	for _, action := range model.Actions {
		entityCmd.AddCommand(newEntityActionCmd(action))
	}
}

var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "Register entities and run synchronization actions on a tmsync server",
}

var entityGetCmd = &cobra.Command{
	Use:   "get <entity-key>",
	Short: "Print a registered entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		entity, err := client(command).GetEntity(args[0])
		if err != nil {
			return err
		}
		if entity == nil {
			return errors.Errorf("entity %s not found", args[0])
		}

		return printJSON(entity)
	},
}

var entityListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every registered entity",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		entities, err := client(command).GetEntities()
		if err != nil {
			return err
		}

		return printJSON(entities)
	},
}

var entityPutCmd = &cobra.Command{
	Use:   "put <entity-key>",
	Short: "Register or update an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		flags := command.Flags()
		label, _ := flags.GetString("label")
		source, _ := flags.GetString("source")
		targets, _ := flags.GetStringSlice("target")
		profileID, _ := flags.GetString("profile")
		file, _ := flags.GetString("file")

		content, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", file)
		}

		request := &model.EntityRequest{
			Label:           label,
			SourceLangcode:  source,
			TargetLangcodes: targets,
			Profile:         profileID,
			Content:         string(content),
		}
		err = request.Validate()
		if err != nil {
			return err
		}

		result, err := client(command).PutEntity(args[0], request)
		if err != nil {
			return err
		}

		return printJSON(result)
	},
}

var entityTranslationCmd = &cobra.Command{
	Use:   "translation <entity-key> <langcode>",
	Short: "Print a translation, or report its local edit or deletion",
	Args:  cobra.ExactArgs(2),
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		deleted, _ := command.Flags().GetBool("delete")
		if deleted {
			result, err := client(command).DeleteTranslation(args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(result)
		}

		file, _ := command.Flags().GetString("file")
		if file == "" {
			revision, _ := command.Flags().GetString("revision")
			translation, err := client(command).GetTranslation(args[0], args[1], revision)
			if err != nil {
				return err
			}
			if translation == nil {
				return errors.Errorf("no translation to %s of %s", args[1], args[0])
			}
			return printJSON(translation)
		}
		content, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", file)
		}

		result, err := client(command).UpdateTranslation(args[0], args[1], content)
		if err != nil {
			return err
		}

		return printJSON(result)
	},
}

func newEntityActionCmd(action string) *cobra.Command {
	command := &cobra.Command{
		Use:   action + " <entity-key>",
		Short: "Run the " + action + " action on an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			command.SilenceUsage = true

			langcode, _ := command.Flags().GetString("langcode")
			result, err := client(command).RunAction(args[0], action, langcode)
			if err != nil {
				return err
			}

			return printJSON(result)
		},
	}
	command.Flags().String("langcode", "", "Limit the action to one target language")

	return command
}
