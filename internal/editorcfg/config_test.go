package editorcfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/mag/internal/editorcfg"
	"github.com/calvinalkan/mag/pkg/search"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := editorcfg.LoadConfig(editorcfg.LoadConfigInput{
		WorkDirOverride: dir,
		Env:             map[string]string{},
	})
	require.NoError(t, err)
	require.Equal(t, 4, cfg.IndentWidth)
	require.Equal(t, "", cfg.Language)
}

func TestLoadConfigProjectOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config", "mag"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(home, ".config", "mag", "config.json"),
		[]byte(`{"indent_width": 2, "language": "cpp"}`),
		0o644,
	))

	project := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(project, editorcfg.ConfigFileName),
		[]byte(`{
			// project prefers tabs
			"tabs_not_spaces": true,
			"language": "markdown",
		}`),
		0o644,
	))

	cfg, err := editorcfg.LoadConfig(editorcfg.LoadConfigInput{
		WorkDirOverride: project,
		Env:             map[string]string{"HOME": home},
	})
	require.NoError(t, err)
	require.Equal(t, 2, cfg.IndentWidth) // from global, untouched by project
	require.True(t, cfg.TabsNotSpaces)
	require.Equal(t, "markdown", cfg.Language) // project wins over global
	require.Equal(t, filepath.Join(home, ".config", "mag", "config.json"), cfg.Sources.Global)
	require.Equal(t, filepath.Join(project, editorcfg.ConfigFileName), cfg.Sources.Project)
}

func TestLoadConfigLanguageOverrideWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, editorcfg.ConfigFileName),
		[]byte(`{"language": "cpp"}`),
		0o644,
	))

	cfg, err := editorcfg.LoadConfig(editorcfg.LoadConfigInput{
		WorkDirOverride:  dir,
		LanguageOverride: "markdown",
		Env:              map[string]string{},
	})
	require.NoError(t, err)
	require.Equal(t, "markdown", cfg.Language)
}

func TestLoadConfigExplicitPathMustExist(t *testing.T) {
	dir := t.TempDir()

	_, err := editorcfg.LoadConfig(editorcfg.LoadConfigInput{
		WorkDirOverride: dir,
		ConfigPath:      "missing.json",
		Env:             map[string]string{},
	})
	require.ErrorIs(t, err, editorcfg.ErrConfigFileNotFound)
}

func TestResolveModeSelectsTokenizer(t *testing.T) {
	mode, err := editorcfg.ResolveMode(editorcfg.Config{Language: "cpp", CheckPointInterval: 128}, nil)
	require.NoError(t, err)
	require.NotNil(t, mode.Tokenize)
	require.Equal(t, 128, mode.CheckPointInterval)
}

func TestResolveModeUnknownLanguage(t *testing.T) {
	_, err := editorcfg.ResolveMode(editorcfg.Config{Language: "cobol"}, nil)
	require.ErrorIs(t, err, editorcfg.ErrUnknownLanguage)
}

func TestResolveModeCaseHandling(t *testing.T) {
	mode, err := editorcfg.ResolveMode(editorcfg.Config{
		SearchPromptCase:   "smart",
		SearchContinueCase: "uppercase_sticky",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, search.SmartCase, mode.SearchPromptCaseHandling)
	require.Equal(t, search.UppercaseSticky, mode.SearchContinueCaseHandling)
}

func TestResolveModeUnknownCaseHandling(t *testing.T) {
	_, err := editorcfg.ResolveMode(editorcfg.Config{SearchPromptCase: "loud"}, nil)
	require.ErrorIs(t, err, editorcfg.ErrUnknownCaseHandling)
}
