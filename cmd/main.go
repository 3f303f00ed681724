package main

import (
	"context"
	"errors"
	"os"

	"medcare-api/cmd/bootstrap"
	"medcare-api/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := func(cmd *cobra.Command, args []string) error {
		// Initialize application with all dependencies
		app, err := bootstrap.New(configPath)
		if err != nil {
			logrus.Fatalf("Failed to initialize application: %v", err)
		}

		// Run the application
		app.Run()
		return nil
	}

	root := &cobra.Command{
		Use:           "medcare",
		Short:         "MedCare clinic booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".env", "path to the env config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  serve,
	})

	root.AddCommand(&cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			if err := bootstrap.Migrate(configPath, direction); err != nil {
				logrus.Errorf("Migration failed: %v", err)
				return err
			}
			return nil
		},
	})

	root.AddCommand(newCreateAdminCmd(&configPath))

	return root
}

func newCreateAdminCmd(configPath *string) *cobra.Command {
	var account bootstrap.AdminAccount

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a verified admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := bootstrap.CreateAdmin(context.Background(), *configPath, account)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, usecase.ErrEmailAlreadyExists):
				logrus.Errorf("An account with email %s already exists", account.Email)
			default:
				logrus.Errorf("Failed to create admin: %v", err)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&account.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&account.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&account.FirstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&account.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
