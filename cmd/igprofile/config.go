package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igprofile/pkg/config"
)

const defaultConfigPath = ".igprofile.yaml"

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long: `Manage igprofile configuration files.

Configuration is loaded from, in increasing priority:
  - Default values
  - Configuration file
  - .env files and environment variables (IGPROFILE_*)
  - Command line flags`,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to a file",
		Long: `Write the default configuration with every option to .igprofile.yaml,
or to the path given with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configFile
			if path == "" {
				path = defaultConfigPath
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			root.printer(cmd, nil).PrintSuccess("Configuration file created: " + path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.setup(cmd, nil)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to format configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.setup(cmd, nil)
			if err != nil {
				return err
			}
			printer := root.printer(cmd, cfg)
			printer.PrintSuccess("Configuration is valid")
			printer.PrintInfo("Base URL", cfg.Instagram.BaseURL)
			printer.PrintInfo("Source order", fmt.Sprint(cfg.Pipeline.SourceOrder))
			printer.PrintInfo("Strategies", fmt.Sprint(cfg.Pipeline.Strategies))
			printer.PrintInfo("Request delay", cfg.Delay.BetweenRequests.String())
			printer.PrintInfo("Concurrency", fmt.Sprint(cfg.Fetch.Concurrency))
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd, validateCmd)
	return cmd
}
