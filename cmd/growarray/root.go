/*
 * Growarray - Growable Arrays over Raw Storage
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/onflow/growarray"
)

const (
	// The prefix for configuration keys inside environment.
	envPrefix = "GROWARRAY"
	// The default name for config file.
	defaultConfigFile = "config.yaml"
	// The default home directory.
	defaultHomeDir = "$HOME/.growarray"
)

type rootConfiguration struct {
	// The growarray home directory
	HomeDir string
	// Configuration file path. If it's relative, then it's relative from the HomeDir.
	CfgFile string
	// Log level: trace, debug, info, warn, error
	LogLevel string
	// Max size in bytes of a single raw storage allocation, 0 means no limit.
	MaxAllocationSize uint64

	out io.Writer
	log zerolog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	config := &rootConfiguration{out: out}

	rootCmd := &cobra.Command{
		Use:          "growarray",
		Short:        "Growable array demo and stress tool",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(cmd, config); err != nil {
				return err
			}
			return config.apply(errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringVar(&config.HomeDir, "home", defaultHomeDir, "home directory (default is $HOME/.growarray)")
	rootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "", "config file location (default is $GROWARRAY_HOME/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Uint64Var(&config.MaxAllocationSize, "max-allocation-size", 0, "max raw storage allocation in bytes (0 is no limit)")

	rootCmd.AddCommand(
		newDemoCmd(config),
		newStressCmd(config),
		newReplayCmd(config),
	)

	return rootCmd
}

// apply sets up logger and library settings from configuration.
func (c *rootConfiguration) apply(errOut io.Writer) error {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	c.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        errOut,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()

	growarray.SetMaxAllocationSize(c.MaxAllocationSize)
	return nil
}

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig(cmd *cobra.Command, rootConfig *rootConfiguration) error {
	v := viper.New()

	homeDir := os.ExpandEnv(rootConfig.HomeDir)

	cfgFile := rootConfig.CfgFile
	if cfgFile == "" {
		cfgFile = defaultConfigFile
	}
	if !filepath.IsAbs(cfgFile) {
		cfgFile = filepath.Join(homeDir, cfgFile)
	}
	if fileExists(cfgFile) {
		v.SetConfigFile(cfgFile)

		// It's okay if there isn't a config file, but an existing one must parse.
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s failed: %w", cfgFile, err)
		}
	}

	// Flags bind to environment variables prefixed with envPrefix,
	// e.g. --log-level binds to GROWARRAY_LOG_LEVEL.
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := bindFlags(cmd, v); err != nil {
		return fmt.Errorf("bind flags failed: %w", err)
	}

	return nil
}

// bindFlags binds each cobra flag to its associated viper configuration
// (config file and environment variable).
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindFlagErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindFlagErr != nil {
			return
		}

		// Environment variables can't have dashes in them.
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				bindFlagErr = fmt.Errorf("could not bind env to flag %s: %w", f.Name, err)
				return
			}
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				bindFlagErr = fmt.Errorf("could not set flag %s from config: %w", f.Name, err)
				return
			}
		}
	})
	return bindFlagErr
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
