package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"fleetd/internal/catalog"
	"fleetd/internal/hardware"
)

type serveOptions struct {
	configPath  string
	addr        string
	runtimeURL  string
	catalogPath string
	auditDBPath string
	logLevel    string
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fleetd",
		Short:         "Resource-aware scheduler for a fleet of AI models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts := &serveOptions{}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler daemon",
		Example: "  fleetd serve --addr :8090 --runtime-url http://127.0.0.1:11434\n" +
			"  fleetd serve --config /etc/fleetd/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serveCmd.Flags().StringVar(&opts.configPath, "config", envOr("FLEETD_CONFIG", ""), "Config file (.yaml, .json or .toml)")
	serveCmd.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address, e.g. :8090")
	serveCmd.Flags().StringVar(&opts.runtimeURL, "runtime-url", "", "Base URL of the model runtime")
	serveCmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Extension catalog file merged over the builtin models")
	serveCmd.Flags().StringVar(&opts.auditDBPath, "audit-db", "", "SQLite file for the decision audit trail")
	serveCmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	root.AddCommand(serveCmd)

	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Probe hardware and print the detected profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.Context())
		},
	}
	root.AddCommand(detectCmd)

	var modelsCatalogPath string
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Print the model catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(modelsCatalogPath)
		},
	}
	modelsCmd.Flags().StringVar(&modelsCatalogPath, "catalog", "", "Extension catalog file merged over the builtin models")
	root.AddCommand(modelsCmd)

	return root
}

func runDetect(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	profile := hardware.NewProfiler(newLogger("warn")).Detect(ctx)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(profile)
}

func runModels(catalogPath string) error {
	cat := catalog.New(catalog.Builtin())
	if catalogPath != "" {
		var err error
		cat, err = catalog.NewWithFile(catalog.Builtin(), catalogPath)
		if err != nil {
			return err
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(cat.All())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
