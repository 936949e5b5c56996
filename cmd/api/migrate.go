package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.close()
		if !rt.postgres.Enabled() {
			return errors.New("POSTGRES_DSN is required to run migrations")
		}
		return nil
	},
}
