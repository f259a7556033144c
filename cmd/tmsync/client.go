// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/tmsync/model"
)

const defaultServer = "http://localhost:8078"

func client(command *cobra.Command) *model.Client {
	server, _ := command.Flags().GetString(serverFlag)
	return model.NewClient(server)
}

func printJSON(data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	_, err = fmt.Fprintln(os.Stdout, string(encoded))
	return err
}

func init() {
	documentCmd.PersistentFlags().String(serverFlag, defaultServer, "The tmsync server to communicate with")
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentListCmd)

	notifyCmd.PersistentFlags().String(serverFlag, defaultServer, "The tmsync server to communicate with")
	notifyCmd.Flags().String("document-id", "", "TMS document id")
	notifyCmd.Flags().String("prev-document-id", "", "Previous TMS document id, for import failures")
	notifyCmd.Flags().String("project-id", "", "TMS project id")
	notifyCmd.Flags().String("locale", "", "Target locale")
	notifyCmd.Flags().String("type", string(model.NotificationTarget), "Notification type")
	notifyCmd.Flags().Bool("complete", false, "Whether the target is complete")
	notifyCmd.Flags().String("progress", "", "Target progress, 0 to 100")
	notifyCmd.MarkFlagRequired("document-id")
}

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect the documents tracked by a tmsync server",
}

var documentGetCmd = &cobra.Command{
	Use:   "get <entity-key>",
	Short: "Print the status of the document of an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		status, err := client(command).GetDocument(args[0])
		if err != nil {
			return err
		}
		if status == nil {
			return errors.Errorf("entity %s not found", args[0])
		}

		return printJSON(status)
	},
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the status of every tracked document",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		statuses, err := client(command).GetDocuments()
		if err != nil {
			return err
		}

		return printJSON(statuses)
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send a TMS webhook notification to a tmsync server",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		flags := command.Flags()
		documentID, _ := flags.GetString("document-id")
		prevDocumentID, _ := flags.GetString("prev-document-id")
		projectID, _ := flags.GetString("project-id")
		locale, _ := flags.GetString("locale")
		notificationType, _ := flags.GetString("type")
		complete, _ := flags.GetBool("complete")
		progress, _ := flags.GetString("progress")

		response, err := client(command).Notify(&model.Notification{
			DocumentID:     documentID,
			PrevDocumentID: prevDocumentID,
			ProjectID:      projectID,
			Locale:         locale,
			Type:           model.NotificationType(notificationType),
			Complete:       complete,
			Progress:       progress,
		})
		if err != nil {
			return err
		}
		if response == nil {
			logger.Info("Notification ignored")
			return nil
		}

		return printJSON(response)
	},
}
