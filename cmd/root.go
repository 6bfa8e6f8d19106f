/*
Copyright © 2026 The gopresence Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"gopresence/config"
)

var (
	cfgFile string
	verbose bool
	envFile string
	logger  = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gopresence",
	Short: "Reconcile employee attendance, leave, and home office into a monthly matrix.",
	Long: `
**********************************************
*               GO PRESENCE                  *
**********************************************

This CLI collects attendance punches, approved vacation and medical leave,
home office declarations, and public holidays, and reconciles them into one
status per employee per day. Late arrivals are classified against the
configured schedule groups.

Sources are read either from a local SQLite snapshot (filled by "import")
or from the upstream HR service over HTTP.
`,
	Example: `
  # Create configuration file
  gopresence config create

  # Import raw exports into the local snapshot
  gopresence import --kind directory -i employees.xlsx
  gopresence import --kind attendance -i punches-2026-01.csv

  # Build the January matrix from the snapshot as Excel
  gopresence matrix --month 2026-01 --format excel --output ./matrix-2026-01.xlsx

  # Build an attendance-only matrix from the upstream service
  gopresence matrix --month 2026-01 --source upstream --view attendance

  # Serve the matrix as JSON for calendar UIs
  gopresence serve --port 8080
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		built, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.gopresence.yaml, then ./.gopresence.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file loaded before reading GOPRESENCE_* variables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable development logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gopresence")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Using defaults; create one with: gopresence config create")
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	var (
		built *zap.Logger
		err   error
	)
	if development {
		built, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		built, err = cfg.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return built.Named("gopresence"), nil
}
