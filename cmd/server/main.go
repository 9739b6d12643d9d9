// Package main implements the care companion API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFlag string
	seedFlag   bool
	rootCmd    = &cobra.Command{
		Use:   "carecompanion",
		Short: "Care companion API server for patients and caretakers",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to a YAML, JSON or TOML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configFlag, seedFlag)
		},
	}
	serveCmd.Flags().BoolVar(&seedFlag, "seed-demo", false, "Create the demo patient and caretaker on start")
	rootCmd.AddCommand(serveCmd)

	checkCmd := &cobra.Command{
		Use:   "check-config",
		Short: "Validate configuration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig(configFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok (port %d)\n", cfg.Server.Port)
			return nil
		},
	}
	rootCmd.AddCommand(checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
