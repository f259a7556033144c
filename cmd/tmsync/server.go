// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	cloudModel "github.com/mattermost/mattermost-cloud/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mattermost/tmsync/internal/api"
	"github.com/mattermost/tmsync/internal/archive"
	"github.com/mattermost/tmsync/internal/config"
	"github.com/mattermost/tmsync/internal/engine"
	"github.com/mattermost/tmsync/internal/locale"
	"github.com/mattermost/tmsync/internal/lock"
	"github.com/mattermost/tmsync/internal/notification"
	"github.com/mattermost/tmsync/internal/profile"
	"github.com/mattermost/tmsync/internal/store"
	"github.com/mattermost/tmsync/internal/supervisor"
	"github.com/mattermost/tmsync/internal/tms"
)

const (
	databaseFlag          = "database"
	listenFlag            = "listen"
	configFlag            = "config"
	redisFlag             = "redis"
	archiveBucketFlag     = "archive-bucket"
	archivePrefixFlag     = "archive-prefix"
	superviseFlag         = "supervise"
	superviseIntervalFlag = "supervise-interval"
	superviseWorkersFlag  = "supervise-workers"
	serverFlag            = "server"
	debugFlag             = "debug"

	defaultDatabase = "sqlite://tmsync.db"
)

func init() {
	serverCmd.PersistentFlags().String(listenFlag, "localhost:8078", "Local interface and port to listen on")
	serverCmd.PersistentFlags().String(databaseFlag, defaultDatabase, "Location of a Postgres (postgres://) or SQLite (sqlite://) database for the server to use")
	serverCmd.PersistentFlags().String(configFlag, "", "Path of the YAML configuration with the TMS connection, languages and profiles")
	serverCmd.PersistentFlags().String(redisFlag, "", "Redis URL used to share document locks between instances; locks are kept in memory when empty")
	serverCmd.PersistentFlags().String(archiveBucketFlag, "", "S3 bucket receiving a copy of every downloaded translation; archiving is off when empty")
	serverCmd.PersistentFlags().String(archivePrefixFlag, "translations", "Key prefix of archived translations")
	serverCmd.PersistentFlags().Bool(superviseFlag, true, "Whether to poll the TMS for documents in progress")
	serverCmd.PersistentFlags().Duration(superviseIntervalFlag, supervisor.DefaultInterval, "Pause between two supervision passes")
	serverCmd.PersistentFlags().Int(superviseWorkersFlag, supervisor.DefaultConcurrency, "Documents checked at once by the supervisor")
	serverCmd.PersistentFlags().Bool(debugFlag, false, "Whether to output debug logs")
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the tmsync server.",
	RunE: func(command *cobra.Command, args []string) error {
		command.SilenceUsage = true

		debug, _ := command.Flags().GetBool(debugFlag)
		if debug {
			logger.SetLevel(logrus.DebugLevel)
		}

		listen, _ := command.Flags().GetString(listenFlag)
		if listen == "" {
			return errors.New("the server command requires the --listen flag not be empty")
		}

		cfg := config.Default()
		configPath, _ := command.Flags().GetString(configFlag)
		if configPath != "" {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
		}
		if cfg.TMS.URL == "" {
			logger.Warn("No TMS url configured; every TMS call will fail")
		}

		sqlStore, err := sqlStore(command)
		if err != nil {
			return err
		}
		defer sqlStore.Close()

		err = sqlStore.Migrate()
		if err != nil {
			return errors.Wrap(err, "failed to migrate the database schema")
		}

		var locker lock.Locker = lock.NewMemoryLocker()
		redisURL, _ := command.Flags().GetString(redisFlag)
		if redisURL != "" {
			locker, err = lock.NewRedisLocker(redisURL, logger)
			if err != nil {
				return err
			}
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var translationArchive engine.Archive
		bucket, _ := command.Flags().GetString(archiveBucketFlag)
		if bucket != "" {
			prefix, _ := command.Flags().GetString(archivePrefixFlag)
			translationArchive, err = archive.New(ctx, bucket, prefix, logger)
			if err != nil {
				return err
			}
		}

		supervise, _ := command.Flags().GetBool(superviseFlag)
		logger.WithFields(logrus.Fields{
			"listen":     listen,
			"languages":  len(cfg.Languages),
			"profiles":   len(cfg.Profiles),
			"redis":      redisURL != "",
			"archive":    bucket,
			"supervise":  supervise,
			"debug":      debug,
			"build-hash": cloudModel.BuildHash,
			"schema":     store.LatestVersion().String(),
		}).Info("Starting tmsync server")

		locales := locale.NewMapper(cfg.Languages)
		profiles := profile.NewRegistry(cfg.Profiles, cfg.Settings.DefaultProfile)

		syncEngine := engine.New(engine.Params{
			Documents: sqlStore,
			Entities:  sqlStore,
			Client: tms.NewRESTClient(tms.RESTConfig{
				URL:         cfg.TMS.URL,
				Token:       cfg.TMS.Token,
				CommunityID: cfg.TMS.CommunityID,
				ProjectID:   cfg.TMS.ProjectID,
				Timeout:     cfg.TMS.Timeout,
			}),
			Locales:  locales,
			Profiles: profiles,
			Locker:   locker,
			Archive:  translationArchive,
			Settings: cfg.Settings,
			Logger:   logger,
		})

		dispatcher := notification.New(notification.Params{
			Documents: sqlStore,
			Entities:  sqlStore,
			Engine:    syncEngine,
			Locales:   locales,
			Profiles:  profiles,
			Locker:    locker,
			Settings:  cfg.Settings,
			Logger:    logger,
		})

		if supervise {
			interval, _ := command.Flags().GetDuration(superviseIntervalFlag)
			workers, _ := command.Flags().GetInt(superviseWorkersFlag)
			supervisor.NewStatusSupervisor(sqlStore, syncEngine, logger, interval, workers).Start(ctx)
		}

		router := mux.NewRouter()
		api.Register(router,
			&api.Context{
				Store:      sqlStore,
				Engine:     syncEngine,
				Dispatcher: dispatcher,
				Logger:     logger,
			})

		srv := &http.Server{
			Addr:           listen,
			Handler:        router,
			ReadTimeout:    180 * time.Second,
			WriteTimeout:   180 * time.Second,
			IdleTimeout:    time.Second * 180,
			MaxHeaderBytes: 1 << 20,
		}

		go func() {
			logger.WithField("addr", srv.Addr).Info("Listening")
			err := srv.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Error("Failed to listen and serve")
			}
		}()

		c := make(chan os.Signal, 1)
		// We'll accept graceful shutdowns when quit via:
		//  - SIGINT (Ctrl+C)
		//  - SIGTERM (Ctrl+/) (Kubernetes pod rolling termination)
		// SIGKILL and SIGQUIT will not be caught.
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		sig := <-c
		logger.WithField("shutdown-signal", sig.String()).Info("Shutting down")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	},
}
