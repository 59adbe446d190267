package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/autolink/internal/observability/logger"
	"github.com/dropDatabas3/autolink/internal/store/pg"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de Postgres embebidas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOrBackground(cmd)
			if dsn == "" {
				cfg, err := loadConfig(*configPath)
				if err != nil {
					return err
				}
				dsn = cfg.Storage.DSN
			}
			if dsn == "" {
				return fmt.Errorf("--dsn o STORAGE_DSN es requerido")
			}

			st, err := pg.New(ctx, dsn, pg.Options{})
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Migrate(ctx)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.L().Info("migrations applied", logger.Int("count", n))
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", os.Getenv("STORAGE_DSN"), "DSN de Postgres (env STORAGE_DSN)")
	return cmd
}
