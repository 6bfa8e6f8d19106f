package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gopresence/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gopresence configuration file values.",
	Long: `Create, edit, display, and delete the gopresence configuration file.

The configuration stores:
- upstream.url / upstream.token / upstream.concurrency / upstream.timeout
- database.path
- attendance.not_marked and leave.approved_statuses
- holidays.file and holidays.entries
- schedule.groups[].name / entry / tolerance / members / fallback
- views[].name / sources

Every key can be overridden by a GOPRESENCE_* environment variable, e.g.
GOPRESENCE_UPSTREAM_TOKEN for upstream.token.`,
	Example: `
  # Create default config in $HOME/.gopresence.yaml
  gopresence config create

  # Show active config and source file
  gopresence config show

  # Open active config in editor (creates example if missing)
  gopresence config edit

  # Delete active config file
  gopresence config delete
`,
}

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

If a configuration file is already in use, no new file is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := ensureConfigFileWithTemplate(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "New config file created at: %s\n", configPath)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists at: %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. The upstream
token is never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Config file loaded from:", configPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No config file loaded; showing defaults.")
		}
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by gopresence.

If no configuration file is active, the command returns an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}
		if err := os.Remove(configPath); err != nil {
			return fmt.Errorf("delete configuration file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file deleted: %s\n", configPath)
		return nil
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	token := "(not set)"
	if strings.TrimSpace(cfg.Upstream.Token) != "" {
		token = "(set)"
	}

	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "upstream.url: %s\n", cfg.Upstream.URL)
	fmt.Fprintf(w, "upstream.token: %s\n", token)
	fmt.Fprintf(w, "upstream.concurrency: %d\n", cfg.Upstream.Concurrency)
	fmt.Fprintf(w, "upstream.timeout: %s\n", cfg.Upstream.Timeout)
	fmt.Fprintf(w, "database.path: %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "attendance.not_marked: %s\n", strings.Join(cfg.Attendance.NotMarked, ", "))
	fmt.Fprintf(w, "leave.approved_statuses: %s\n", strings.Join(cfg.Leave.ApprovedStatuses, ", "))
	fmt.Fprintf(w, "holidays.file: %s\n", cfg.Holidays.File)
	fmt.Fprintf(w, "holidays.entries: %d\n", len(cfg.Holidays.Entries))
	fmt.Fprintf(w, "schedule.groups: %d\n", len(cfg.Schedule.Groups))
	for i, group := range cfg.Schedule.Groups {
		fallback := ""
		if group.Fallback {
			fallback = " (fallback)"
		}
		fmt.Fprintf(w, "schedule.groups[%d]: %s entry=%s tolerance=%d members=%d%s\n",
			i, group.Name, group.Entry, group.Tolerance, len(group.Members), fallback)
	}
	fmt.Fprintf(w, "views: %d\n", len(cfg.Views))
	for i, view := range cfg.Views {
		fmt.Fprintf(w, "views[%d]: %s [%s]\n", i, view.Name, strings.Join(view.Sources, ", "))
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCreateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configDeleteCmd)
}
