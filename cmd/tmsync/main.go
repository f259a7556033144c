// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tmsync",
	Short: "Keeps local content and its translations in sync with a translation management system",
	Long:  "tmsync uploads source content to a translation management system, tracks every translation target through its lifecycle and downloads finished translations, driven by user actions, TMS webhooks and a polling supervisor.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serverCmd.RunE(serverCmd, args)
	},
	// SilenceErrors allows us to explicitly log the error returned from rootCmd below.
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(entityCmd)
	rootCmd.AddCommand(notifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
