package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"addressbook-backend/internal/domains/auth"
	authRepo "addressbook-backend/internal/domains/auth/repository"
	authService "addressbook-backend/internal/domains/auth/service"
	"addressbook-backend/internal/infrastructure/database"
	"addressbook-backend/pkg/jwt"
)

var adminFlags struct {
	username string
	email    string
	password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Register an admin account without going through HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db := database.NewPostgresDB(cfg.Database.PoolConfig())
		if err := db.Connect(ctx); err != nil {
			return err
		}
		defer db.Close()

		tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience,
			time.Duration(cfg.JWT.ExpirationMinutes)*time.Minute)
		svc := authService.NewAuthService(authRepo.NewPostgresRepository(db.Pool), tokens, cfg.App.BcryptCost)

		admin, err := svc.Register(ctx, auth.RegisterRequest{
			Username: adminFlags.username,
			Email:    adminFlags.email,
			Password: adminFlags.password,
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created admin %d (%s)\n", admin.ID, admin.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.username, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "admin email (login)")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	_ = createAdminCmd.MarkFlagRequired("username")
}
