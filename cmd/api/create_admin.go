package main

import (
	"fmt"
	"time"

	"github.com/linskybing/csdesk/internal/application"
	"github.com/linskybing/csdesk/internal/auth"
	"github.com/linskybing/csdesk/internal/config"
	"github.com/linskybing/csdesk/internal/config/db"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/linskybing/csdesk/internal/repository"
	"github.com/spf13/cobra"
)

func newCreateAdminCommand() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			log, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.Migrate(db.DB); err != nil {
				return err
			}

			repos := repository.NewRepositories(db.DB)
			authSvc := auth.NewService(repos.Identity, auth.NewMemorySessionStore(), auth.NewTokenManager(config.JwtSecret, config.Issuer), nil, time.Minute)
			admin := application.NewAdminService(repos, authSvc)

			created, err := admin.CreateUser(user.User{}, user.CreateUserInput{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     user.RoleAdmin,
			}, application.RequestMeta{UserAgent: "csdesk-cli"})
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			log.Info("administrator created", "id", created.ID, "email", created.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password (min 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
