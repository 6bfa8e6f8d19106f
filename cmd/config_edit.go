package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gopresence/config"
)

var configEditCheckOnly bool

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active gopresence config file in your editor.

Editor selection order: $VISUAL, then $EDITOR, then vi.

If no config file exists yet, this command creates one from the example
template first. After the editor exits, the content is validated: schedule
entry clocks, exactly one fallback group, view source names, and holiday
dates. With --check the file is only validated.`,
	Example: `
  # Edit active config
  gopresence config edit

  # Edit a project-local config with a specific editor
  EDITOR="code --wait" gopresence --configFile ./.gopresence.yaml config edit

  # Validate the active config without opening an editor
  gopresence config edit --check
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		if !configEditCheckOnly {
			created, err := ensureConfigFileWithTemplate(configPath)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "No config file found. Created example config at: %s\n", configPath)
			}

			editor, err := editorCommand(os.Getenv, configPath)
			if err != nil {
				return err
			}
			editor.Stdin = os.Stdin
			editor.Stdout = os.Stdout
			editor.Stderr = os.Stderr
			if err := editor.Run(); err != nil {
				return fmt.Errorf("run editor: %w", err)
			}
		}

		return reportConfigFile(cmd.OutOrStdout(), configPath)
	},
}

// reportConfigFile validates the file at path and prints a one-line summary.
func reportConfigFile(w io.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return fmt.Errorf("validate config %s: %w", path, err)
	}

	fallback := ""
	for _, group := range cfg.Schedule.Groups {
		if group.Fallback {
			fallback = group.Name
		}
	}
	fmt.Fprintf(w, "Configuration valid: %s (%d schedule groups, fallback %q, %d views, %d holidays)\n",
		path, len(cfg.Schedule.Groups), fallback, len(cfg.Views), len(cfg.Holidays.Entries))
	return nil
}

// resolveConfigEditPath prefers the --configFile flag, then the file viper
// loaded, then $HOME/.gopresence.yaml.
func resolveConfigEditPath(flagPath, loadedPath string) (string, error) {
	for _, candidate := range []string{flagPath, loadedPath} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".gopresence.yaml"), nil
}

// ensureConfigFileWithTemplate writes the example config to path unless a
// file already exists there. It reports whether a file was created.
func ensureConfigFileWithTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	return true, nil
}

// editorCommand builds the editor invocation for path from $VISUAL or
// $EDITOR, which may carry arguments such as "code --wait".
func editorCommand(getenv func(string) string, path string) (*exec.Cmd, error) {
	value := "vi"
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if candidate := strings.TrimSpace(getenv(name)); candidate != "" {
			value = candidate
			break
		}
	}

	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return exec.Command(fields[0], append(fields[1:], path)...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)

	configEditCmd.Flags().BoolVar(&configEditCheckOnly, "check", false, "Only validate the config file, do not open an editor")
}
