// Package main is the entry point for the pdfmd CLI.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pyhub-apps/pdfmarkdown/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	settings = config.New()
	cfg      config.Config
	logger   = logrus.New()
)

// rootCmd is the base command for the pdfmd CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfmd",
	Short: "Convert PDF documents into layout-aware Markdown",
	Long: `pdfmd turns PDF files into Markdown reports. Headings are derived from the
document's font sizes, multi-column pages are read column by column, ruled
tables become pipe tables and images are saved next to the report.

Settings come from pdfmd.yaml (working directory or ~/.config/pdfmd),
PDFMD_* environment variables and command-line flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfmd.yaml or ~/.config/pdfmd/pdfmd.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	mustBind("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// loadConfig reads the configuration and sets up logging
func loadConfig(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")

	loaded, err := config.Load(settings, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if used := settings.ConfigFileUsed(); used != "" {
		logger.WithField("file", used).Debug("Using config file")
	}
	return nil
}

// mustBind ties a config key to a flag so an explicit flag wins over file
// and environment values
func mustBind(key string, flag *pflag.Flag) {
	if err := settings.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
