package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/markdocx/markdocx/pkg/markdocx"
)

var (
	cfgFile  string
	logLevel string
	strict   bool
)

var rootCmd = &cobra.Command{
	Use:   "markdocx",
	Short: "Assemble Markdown documents into Word (.docx) files",
	Long: `markdocx converts a Markdown document tree into a complete
WordprocessingML package: styled body text, chapter-relative figure and
table numbering, cross-references, footnotes, a table of contents,
headers and footers, embedded fonts, math and diagrams.

Document metadata and layout come from YAML frontmatter; tool-level
defaults come from a markdocx.yaml config file or MARKDOCX_* environment
variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./markdocx.yaml or ~/.markdocx/markdocx.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log verbosity: debug, info, warn, error",
	)
	rootCmd.PersistentFlags().BoolVar(
		&strict, "strict", false, "fail the build on content errors instead of degrading",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	}

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig layers configuration: built-in defaults, then the config
// file, then MARKDOCX_* environment variables, then explicit flags.
func initConfig(cmd *cobra.Command) error {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("strict", false)
	viper.SetDefault("max_include_depth", 10)
	viper.SetDefault("math_mode", "omml")
	viper.SetDefault("mermaid_command", "")
	viper.SetDefault("diagram_scale", 0)
	viper.SetDefault("body_font", "")
	viper.SetDefault("body_font_size", 0)
	viper.SetDefault("language", "")

	viper.SetEnvPrefix("MARKDOCX")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("markdocx")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.markdocx")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	cfg := &markdocx.Config{
		LogLevel:        viper.GetString("log_level"),
		MaxIncludeDepth: viper.GetInt("max_include_depth"),
		StrictMode:      viper.GetBool("strict"),
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("strict") {
		cfg.StrictMode = strict
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	markdocx.SetGlobalConfig(cfg)
	markdocx.UpdateLoggerFromConfig()
	return nil
}

// baseDocumentConfig builds the tool-level document defaults that
// frontmatter can override per document.
func baseDocumentConfig() *markdocx.DocumentConfig {
	return &markdocx.DocumentConfig{
		Language:       viper.GetString("language"),
		BodyFont:       viper.GetString("body_font"),
		BodyFontSize:   viper.GetInt("body_font_size"),
		MathMode:       markdocx.MathMode(viper.GetString("math_mode")),
		MermaidCommand: viper.GetString("mermaid_command"),
		DiagramScale:   viper.GetInt("diagram_scale"),
	}
}
