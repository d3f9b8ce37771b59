// Package config loads pdfmd settings from defaults, an optional YAML file
// and PDFMD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pyhub-apps/pdfmarkdown/pkg/layout"
	"github.com/pyhub-apps/pdfmarkdown/pkg/markdown"
)

// EnvPrefix is the prefix of environment variables overriding config keys.
// Dots in keys become underscores: PDFMD_LAYOUT_FOOTER_ZONE.
const EnvPrefix = "PDFMD"

// Config is the complete pdfmd configuration
type Config struct {
	Font       FontConfig       `mapstructure:"font" yaml:"font"`
	Heading    HeadingConfig    `mapstructure:"heading" yaml:"heading"`
	Layout     LayoutConfig     `mapstructure:"layout" yaml:"layout"`
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction"`
	Images     ImagesConfig     `mapstructure:"images" yaml:"images"`
	OutputDir  string           `mapstructure:"output_dir" yaml:"output_dir"`
	Workers    int              `mapstructure:"workers" yaml:"workers"`
	LogLevel   string           `mapstructure:"log_level" yaml:"log_level"`
}

type FontConfig struct {
	SamplePages int `mapstructure:"sample_pages" yaml:"sample_pages"`
}

type HeadingConfig struct {
	BoldMarkers        []string `mapstructure:"bold_markers" yaml:"bold_markers"`
	ParagraphGapFactor float64  `mapstructure:"paragraph_gap_factor" yaml:"paragraph_gap_factor"`
	SectionRules       bool     `mapstructure:"section_rules" yaml:"section_rules"`
}

type LayoutConfig struct {
	LineTolerance float64 `mapstructure:"line_tolerance" yaml:"line_tolerance"`
	FooterZone    float64 `mapstructure:"footer_zone" yaml:"footer_zone"`
	FooterMinGap  float64 `mapstructure:"footer_min_gap" yaml:"footer_min_gap"`
	ColumnMinGap  float64 `mapstructure:"column_min_gap" yaml:"column_min_gap"`
	ColumnMargin  float64 `mapstructure:"column_margin" yaml:"column_margin"`
	MaxDividers   int     `mapstructure:"max_dividers" yaml:"max_dividers"`
}

type ExtractionConfig struct {
	WordXTolerance     float64 `mapstructure:"word_x_tolerance" yaml:"word_x_tolerance"`
	WordYTolerance     float64 `mapstructure:"word_y_tolerance" yaml:"word_y_tolerance"`
	TableSnapTolerance float64 `mapstructure:"table_snap_tolerance" yaml:"table_snap_tolerance"`
	TableTextTolerance float64 `mapstructure:"table_text_tolerance" yaml:"table_text_tolerance"`
	TableMinRows       int     `mapstructure:"table_min_rows" yaml:"table_min_rows"`
}

type ImagesConfig struct {
	MinWidth     float64  `mapstructure:"min_width" yaml:"min_width"`
	MinHeight    float64  `mapstructure:"min_height" yaml:"min_height"`
	JunkKeywords []string `mapstructure:"junk_keywords" yaml:"junk_keywords"`
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	conv := markdown.DefaultConfig()

	v.SetDefault("font.sample_pages", conv.Font.SamplePages)

	v.SetDefault("heading.bold_markers", conv.Heading.BoldMarkers)
	v.SetDefault("heading.paragraph_gap_factor", conv.Heading.ParagraphGapFactor)
	v.SetDefault("heading.section_rules", conv.Heading.SectionRules)

	v.SetDefault("layout.line_tolerance", conv.LineTolerance)
	v.SetDefault("layout.footer_zone", conv.Footer.ZoneStart)
	v.SetDefault("layout.footer_min_gap", conv.Footer.MinGap)
	v.SetDefault("layout.column_min_gap", conv.Columns.MinGapWidth)
	v.SetDefault("layout.column_margin", conv.Columns.EdgeMargin)
	v.SetDefault("layout.max_dividers", conv.Columns.MaxDividers)

	v.SetDefault("extraction.word_x_tolerance", conv.Extraction.WordXTolerance)
	v.SetDefault("extraction.word_y_tolerance", conv.Extraction.WordYTolerance)
	v.SetDefault("extraction.table_snap_tolerance", conv.Extraction.TableSnapTolerance)
	v.SetDefault("extraction.table_text_tolerance", conv.Extraction.TableTextTolerance)
	v.SetDefault("extraction.table_min_rows", conv.Extraction.TableMinRows)

	v.SetDefault("images.min_width", conv.Images.MinWidth)
	v.SetDefault("images.min_height", conv.Images.MinHeight)
	v.SetDefault("images.junk_keywords", conv.Images.JunkKeywords)

	v.SetDefault("output_dir", "")
	v.SetDefault("workers", conv.Workers)
	v.SetDefault("log_level", "info")
}

// New returns a viper instance with defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path into v and decodes the result. With an
// empty path, pdfmd.yaml is looked up in the working directory and in
// ~/.config/pdfmd; a missing file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pdfmd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pdfmd"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return Decode(v)
}

// Decode unmarshals the current settings of v
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration with every key at its default value
func Default() Config {
	cfg, err := Decode(New())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Markdown converts the settings into converter configuration
func (c Config) Markdown() markdown.Config {
	conv := markdown.DefaultConfig()

	conv.Font.SamplePages = c.Font.SamplePages

	conv.Heading.BoldMarkers = c.Heading.BoldMarkers
	conv.Heading.ParagraphGapFactor = c.Heading.ParagraphGapFactor
	conv.Heading.SectionRules = c.Heading.SectionRules

	conv.LineTolerance = c.Layout.LineTolerance
	conv.Footer = layout.FooterConfig{
		ZoneStart:     c.Layout.FooterZone,
		LineTolerance: c.Layout.LineTolerance,
		MinGap:        c.Layout.FooterMinGap,
	}
	conv.Columns.MinGapWidth = c.Layout.ColumnMinGap
	conv.Columns.EdgeMargin = c.Layout.ColumnMargin
	conv.Columns.MaxDividers = c.Layout.MaxDividers

	conv.Extraction = markdown.ExtractionConfig{
		WordXTolerance:     c.Extraction.WordXTolerance,
		WordYTolerance:     c.Extraction.WordYTolerance,
		TableSnapTolerance: c.Extraction.TableSnapTolerance,
		TableTextTolerance: c.Extraction.TableTextTolerance,
		TableMinRows:       c.Extraction.TableMinRows,
	}

	conv.Images = markdown.ImageFilterConfig{
		MinWidth:     c.Images.MinWidth,
		MinHeight:    c.Images.MinHeight,
		JunkKeywords: c.Images.JunkKeywords,
	}

	conv.Workers = c.Workers
	return conv
}

// Level parses the configured log level
func (c Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("failed to parse log level: %w", err)
	}
	return level, nil
}

// YAML renders the configuration as a YAML document
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}
