// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cv-ingest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cv-ingest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds one file per API key.
const secretsDir = ".secrets/"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// rootCmd is the base command for the cv-ingest CLI.
var rootCmd = &cobra.Command{
	Use:   "cv-ingest",
	Short: "Prepare CV documents for embedding",
	Long: `cv-ingest converts a CV or resume to Markdown, asks a language model for
the name of the person it describes, splits the document into chunks sized
for an embedding model's tokenizer, and tags every chunk with the document
identifier, the person's name and the chunk's position.

API keys are read from .secrets/google-api-key and .secrets/anthropic-api-key,
then from GOOGLE_API_KEY and ANTHROPIC_API_KEY in the environment or a .env
file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secretsDir, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cv-ingest.yaml or ~/.config/cv-ingest/cv-ingest.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "diagnostic log level: debug, info, warn, error")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cv-ingest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cv-ingest"))
		}
	}

	viper.SetEnvPrefix("CV_INGEST")
	viper.AutomaticEnv()
	bindCredentials(viper.GetViper())

	if err := loadDotEnv(viper.GetViper(), ".env"); err == nil {
		fmt.Fprintln(os.Stderr, "Using .env file")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindCredentials binds the credential keys to their conventional
// unprefixed environment variables.
func bindCredentials(v *viper.Viper) {
	_ = v.BindEnv(keyGoogleAPIKey, "GOOGLE_API_KEY")
	_ = v.BindEnv(keyAnthropicAPIKey, "ANTHROPIC_API_KEY")
}

// loadDotEnv reads KEY=VALUE pairs from path into v as defaults, so real
// environment variables and the config file take precedence.
func loadDotEnv(v *viper.Viper, path string) error {
	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return err
	}
	for _, k := range env.AllKeys() {
		v.SetDefault(k, env.Get(k))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
