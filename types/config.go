package types

import (
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
	"qualibot.com/qualifier/logger"
)

const (
	VerbSelectionPermissive = "permissive"
	VerbSelectionStrict     = "strict"

	DefaultMaxClauses = 12
	// 2^MaxClausesLimit alternates is the most a sentence may produce
	MaxClausesLimit = 20
)

type ReplyConfig struct {
	Lead        string `yaml:"lead" json:"lead"`
	Alternative string `yaml:"alternative" json:"alternative"`
	More        string `yaml:"more" json:"more"`
	Fallback    string `yaml:"fallback" json:"fallback"`
}

type Configuration struct {
	Name          string      `json:"name"`
	FilePath      string      `json:"file_path"`
	TerminalMarks []string    `yaml:"terminal_marks" json:"terminal_marks"`
	VerbSelection string      `yaml:"verb_selection" json:"verb_selection"`
	MaxClauses    int         `yaml:"max_clauses" json:"max_clauses"`
	Reply         ReplyConfig `yaml:"reply" json:"reply"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Name:          "default",
		TerminalMarks: []string{".", "!"},
		VerbSelection: VerbSelectionPermissive,
		MaxClauses:    DefaultMaxClauses,
		Reply: ReplyConfig{
			Lead:        "So, you believe: ",
			Alternative: "\nHave you considered that maybe: ",
			More:        "\nor maybe: ",
			Fallback:    "Hi! I believe that all things are true, unless they are not true! What is something that you believe?",
		},
	}
}

func (cfg Configuration) IsTerminal(text string) bool {
	for _, mark := range cfg.TerminalMarks {
		if text == mark {
			return true
		}
	}
	return false
}

// LoadConfiguration reads a YAML behaviour file on top of the defaults. An
// empty path yields the defaults.
func LoadConfiguration(filePath string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if filePath == "" {
		return cfg, nil
	}

	cfgLogger := logger.NewLogger("LoadConfiguration")

	buf, err := os.ReadFile(filePath)
	if err != nil {
		cfgLogger.Err(err).Str("file_path", filePath).Msg("Could not read configuration")
		return cfg, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		cfgLogger.Err(err).Str("file_path", filePath).Msg("Could not parse configuration")
		return cfg, err
	}
	cfg.FilePath = filePath
	if cfg.Name == "default" {
		cfg.Name = strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	}

	if err := cfg.Validate(); err != nil {
		cfgLogger.Err(err).Str("file_path", filePath).Msg("Invalid configuration")
		return cfg, err
	}
	return cfg, nil
}

func (cfg Configuration) Validate() error {
	if cfg.VerbSelection != VerbSelectionPermissive && cfg.VerbSelection != VerbSelectionStrict {
		return fmt.Errorf("wrong verb selection %q", cfg.VerbSelection)
	}
	if len(cfg.TerminalMarks) == 0 {
		return fmt.Errorf("at least one terminal mark is required")
	}
	if cfg.MaxClauses < 0 || cfg.MaxClauses > MaxClausesLimit {
		return fmt.Errorf("max_clauses must be in [0, %d], got %d", MaxClausesLimit, cfg.MaxClauses)
	}
	return nil
}
