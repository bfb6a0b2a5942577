// Package editorcfg loads the per-Mode tunables spec.md §4.10 leaves to
// the embedder: indent width, tabs-vs-spaces, the Token_Cache
// check-point interval, which tokenizer a Mode drives, and the default
// search case policy.
//
// Grounded on internal/ticket/config.go: the same JWCC
// (JSON-with-comments, via github.com/tailscale/hujson)
// global/project/CLI layering, a validation pass over the merged result
// (which rejects only a negative indent width), and the same
// ConfigSources provenance bookkeeping for diagnostics.
package editorcfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/mag/pkg/buffer"
	"github.com/calvinalkan/mag/pkg/overlay"
	"github.com/calvinalkan/mag/pkg/search"
	"github.com/calvinalkan/mag/pkg/tokenizer"
	"github.com/calvinalkan/mag/pkg/tokenizer/cpptok"
	"github.com/calvinalkan/mag/pkg/tokenizer/mdtok"
	"github.com/calvinalkan/mag/pkg/tokenizer/nametok"
)

// Config holds the serialized form of a Mode's configuration, as loaded
// from a JWCC config file. Zero values mean "use the default" except
// where noted.
type Config struct {
	// Language selects the tokenizer a Mode drives its Token_Cache with.
	// One of "cpp", "markdown", "buffer-name", or "" (none).
	Language string `json:"language,omitempty"`

	IndentWidth   int  `json:"indent_width,omitempty"`
	TabsNotSpaces bool `json:"tabs_not_spaces,omitempty"`

	CheckPointInterval int `json:"check_point_interval,omitempty"`

	// SearchPromptCase and SearchContinueCase are one of "sensitive",
	// "insensitive", "uppercase_sticky", "smart", or "" (default).
	SearchPromptCase   string `json:"search_prompt_case,omitempty"`
	SearchContinueCase string `json:"search_continue_case,omitempty"`

	// Sources tracks which config files were loaded (for diagnostics).
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string
	Project string
}

// DefaultConfig returns the default configuration: 4-wide spaces, no
// language tokenizer, case-sensitive search.
func DefaultConfig() Config {
	return Config{
		IndentWidth: 4,
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".mag.json"

func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "mag", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "mag", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	LanguageOverride string           // --language flag value; empty means no override
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest
// wins):
//  1. Defaults
//  2. Global user config (~/.config/mag/config.json or $XDG_CONFIG_HOME/mag/config.json)
//  3. Project config: the explicit file named by ConfigPath if non-empty
//     (it must exist), otherwise .mag.json in the working directory if it
//     exists; the two are never both loaded
//  4. CLI overrides.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if input.LanguageOverride != "" {
		cfg.Language = input.LanguageOverride
	}

	if validateErr := validateConfig(cfg); validateErr != nil {
		return Config{}, validateErr
	}

	return cfg, nil
}

func loadGlobalConfig(env map[string]string) (Config, string, error) {
	path := getGlobalConfigPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadConfigFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		if _, statErr := os.Stat(cfgFile); statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	cfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, cfgFile, nil
}

func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if unmarshalErr := json.Unmarshal(standardized, &cfg); unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Language != "" {
		base.Language = overlay.Language
	}

	if overlay.IndentWidth != 0 {
		base.IndentWidth = overlay.IndentWidth
	}

	if overlay.TabsNotSpaces {
		base.TabsNotSpaces = true
	}

	if overlay.CheckPointInterval != 0 {
		base.CheckPointInterval = overlay.CheckPointInterval
	}

	if overlay.SearchPromptCase != "" {
		base.SearchPromptCase = overlay.SearchPromptCase
	}

	if overlay.SearchContinueCase != "" {
		base.SearchContinueCase = overlay.SearchContinueCase
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.IndentWidth < 0 {
		return ErrIndentWidthInvalid
	}

	return nil
}

var tokenizersByLanguage = map[string]tokenizer.TokenizeFunc{
	"cpp":         cpptok.NextToken,
	"markdown":    mdtok.NextToken,
	"buffer-name": nametok.NextToken,
}

func caseHandlingByName(name string) (search.CaseHandling, error) {
	switch name {
	case "", "sensitive":
		return search.CaseSensitive, nil
	case "insensitive":
		return search.CaseInsensitive, nil
	case "uppercase_sticky":
		return search.UppercaseSticky, nil
	case "smart":
		return search.SmartCase, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCaseHandling, name)
	}
}

// ResolveMode turns a loaded Config into a buffer.Mode, selecting the
// tokenizer named by cfg.Language from the tokenizers this module
// ships (pkg/tokenizer/cpptok, pkg/tokenizer/mdtok,
// pkg/tokenizer/nametok) and the overlay pipeline the caller built for
// it. A Config with an empty Language resolves to a Mode with no
// tokenizer (buffer.Mode.Tokenize stays nil; the Token_Cache never
// advances for such a buffer).
func ResolveMode(cfg Config, overlays *overlay.Pipeline) (buffer.Mode, error) {
	var tokenize tokenizer.TokenizeFunc

	if cfg.Language != "" {
		fn, ok := tokenizersByLanguage[cfg.Language]
		if !ok {
			return buffer.Mode{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, cfg.Language)
		}

		tokenize = fn
	}

	promptCase, err := caseHandlingByName(cfg.SearchPromptCase)
	if err != nil {
		return buffer.Mode{}, err
	}

	continueCase, err := caseHandlingByName(cfg.SearchContinueCase)
	if err != nil {
		return buffer.Mode{}, err
	}

	return buffer.Mode{
		Tokenize:                   tokenize,
		CheckPointInterval:         cfg.CheckPointInterval,
		Overlays:                   overlays,
		SearchPromptCaseHandling:   promptCase,
		SearchContinueCaseHandling: continueCase,
		IndentWidth:                cfg.IndentWidth,
		TabsNotSpaces:              cfg.TabsNotSpaces,
	}, nil
}
