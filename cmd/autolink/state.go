package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/autolink/internal/cache"
	"github.com/dropDatabas3/autolink/internal/http/server"
	"github.com/dropDatabas3/autolink/internal/http/services/connect"
	"github.com/dropDatabas3/autolink/internal/oauth/state"
)

// newAuthorizeURLCmd imprime una URL de autorización para un usuario. Con
// cache redis el nonce queda registrado y el callback real la acepta.
func newAuthorizeURLCmd(configPath *string) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Genera la URL de autorización de LinkedIn para un usuario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return fmt.Errorf("--user es requerido")
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			codec, err := server.NewCodec(cfg)
			if err != nil {
				return err
			}
			cc, err := cache.New(cache.Config{
				Driver:   cfg.Cache.Kind,
				Addr:     cfg.Cache.Redis.Addr,
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
				Prefix:   cfg.Cache.Redis.Prefix,
			})
			if err != nil {
				return err
			}
			defer cc.Close()

			start := connect.NewStartService(connect.StartDeps{
				Codec:    codec,
				Nonces:   state.NewCacheNonceStore(cc),
				AuthURL:  server.NewLinkedIn(cfg, nil),
				NonceTTL: cfg.State.NonceTTL,
			})
			res, err := start.AuthorizeURL(contextOrBackground(cmd), userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "ID del usuario dueño del state")
	return cmd
}

func newStateCmd() *cobra.Command {
	stateCmd := &cobra.Command{Use: "state", Short: "Utilidades del parámetro state"}

	var signingKey string
	decodeCmd := &cobra.Command{
		Use:   "decode <state>",
		Short: "Decodifica un state (firmado si se pasa --signing-key)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var codec state.Codec = state.PlainCodec{}
			if signingKey != "" {
				sc, err := state.NewSignedCodec([]byte(signingKey), 10*time.Minute)
				if err != nil {
					return err
				}
				codec = sc
			}
			st, err := codec.Decode(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}
	decodeCmd.Flags().StringVar(&signingKey, "signing-key", os.Getenv("STATE_SIGNING_KEY"), "Clave del codec firmado (env STATE_SIGNING_KEY)")

	stateCmd.AddCommand(decodeCmd)
	return stateCmd
}
