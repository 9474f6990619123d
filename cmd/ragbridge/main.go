package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/ragbridge/config"
	srv "github.com/mohammad-safakhou/ragbridge/internal/server"
)

func main() {
	var root = &cobra.Command{Use: "ragbridge"}

	var serveAddr string
	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serveAddr == "" {
				serveAddr = os.Getenv("RAGBRIDGE_HTTP_ADDR")
			}
			cfg := config.LoadConfig(cfgPath)
			return srv.Run(cfg, serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	root.AddCommand(serve)
	_ = root.Execute()
}
