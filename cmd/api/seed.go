package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the initial ADMIN account when no users exist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.close()
		if !rt.postgres.Enabled() {
			rt.logger.Warn("seeding the in-memory store; the account is lost on exit")
		}

		admin, created, err := rt.authService().EnsureBootstrapAdmin(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if !created {
			rt.logger.Info("users already exist; nothing to seed")
			return nil
		}
		rt.logger.Info("created initial admin", zap.String("email", admin.Email), zap.String("id", admin.ID))
		return nil
	},
}
