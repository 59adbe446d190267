package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env es opcional; en producción las variables vienen del entorno.
	_ = godotenv.Load()

	var configPath string
	root := &cobra.Command{
		Use:           "autolink",
		Short:         "Backend de AutoLink: conexión con LinkedIn y automatización de posts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("AUTOLINK_CONFIG"), "Archivo YAML de configuración (env AUTOLINK_CONFIG)")

	root.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newAuthorizeURLCmd(&configPath),
		newStateCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
