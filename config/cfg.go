package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// LayoutConfig holds fixed constants used by layout translation.
	LayoutConfig struct {
		BlockGap     float64 `yaml:"block_gap" validate:"gte=0"`
		BlockPadding float64 `yaml:"block_padding" validate:"gte=0"`
		ManualGap    float64 `yaml:"manual_gap" validate:"gte=0"`
		FlexGap      float64 `yaml:"flex_gap" validate:"gte=0"`
		ListGap      float64 `yaml:"list_gap" validate:"gte=0"`
		WideWidth    float64 `yaml:"wide_width" validate:"gt=0"`
		BlockWidth   float64 `yaml:"block_width" validate:"gt=0"`
		DefaultWidth float64 `yaml:"default_width" validate:"gt=0"`
	}

	// BoxDefaults describes default look of elements without explicit style.
	BoxDefaults struct {
		Width     float64 `yaml:"width" validate:"gt=0"`
		Height    float64 `yaml:"height" validate:"gt=0"`
		Fill      string  `yaml:"fill,omitempty" validate:"omitempty,hexcolor"`
		Stroke    string  `yaml:"stroke,omitempty" validate:"omitempty,hexcolor"`
		TextColor string  `yaml:"text_color,omitempty" validate:"omitempty,hexcolor"`
	}

	ElementDefaults struct {
		Button   BoxDefaults `yaml:"button"`
		Input    BoxDefaults `yaml:"input"`
		Textarea BoxDefaults `yaml:"textarea"`
		Image    BoxDefaults `yaml:"image"`
	}

	TextConfig struct {
		// OwnText makes text-only containers use text which excludes nested
		// elements instead of full inner text.
		OwnText    bool    `yaml:"own_text"`
		LineHeight float64 `yaml:"line_height" validate:"gt=0"`
		MaxWidth   float64 `yaml:"max_width" validate:"gt=0"`
		FontFamily string  `yaml:"font_family" validate:"required"`
		Color      string  `yaml:"color" validate:"omitempty,hexcolor"`
	}

	CompilerConfig struct {
		MaxDepth int             `yaml:"max_depth" validate:"min=1,max=1024"`
		Layout   LayoutConfig    `yaml:"layout"`
		Defaults ElementDefaults `yaml:"defaults"`
		Text     TextConfig      `yaml:"text"`
	}

	PreviewConfig struct {
		Scale      float64 `yaml:"scale" validate:"gt=0,lte=8"`
		Background string  `yaml:"background" validate:"omitempty,hexcolor"`
		Margin     int     `yaml:"margin" validate:"gte=0"`
	}

	// OutputConfig controls naming of produced files.
	OutputConfig struct {
		// NameTemplate is text/template expanded to get output file name
		// without extension, may contain path separators.
		NameTemplate  string `yaml:"name_template,omitempty"`
		Transliterate bool   `yaml:"transliterate"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Compiler  CompilerConfig `yaml:"compiler"`
		Preview   PreviewConfig  `yaml:"preview"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// Defaults returns compiler configuration matching embedded template, so the
// compiler could be used as a library without configuration processing.
func Defaults() *CompilerConfig {
	return &CompilerConfig{
		MaxDepth: 64,
		Layout: LayoutConfig{
			BlockGap:     16,
			BlockPadding: 16,
			ManualGap:    16,
			FlexGap:      16,
			ListGap:      8,
			WideWidth:    1200,
			BlockWidth:   800,
			DefaultWidth: 400,
		},
		Defaults: ElementDefaults{
			Button:   BoxDefaults{Width: 120, Height: 40, Fill: "#3b82f6", TextColor: "#ffffff"},
			Input:    BoxDefaults{Width: 240, Height: 40, Fill: "#ffffff", Stroke: "#d1d5db", TextColor: "#9ca3af"},
			Textarea: BoxDefaults{Width: 320, Height: 96, Fill: "#ffffff", Stroke: "#d1d5db", TextColor: "#9ca3af"},
			Image:    BoxDefaults{Width: 200, Height: 150, Fill: "#e5e7eb", Stroke: "#9ca3af"},
		},
		Text: TextConfig{
			LineHeight: 1.2,
			MaxWidth:   600,
			FontFamily: "Inter",
			Color:      "#000000",
		},
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

// Dump returns actual configuration as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
