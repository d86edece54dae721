package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franzcode/bootstrap/pkg/probe"
	"github.com/franzcode/bootstrap/pkg/testutil"
)

// isolate points the user config dir at an empty temp dir and clears FRANZ_* overrides.
func isolate(t *testing.T) {
	t.Helper()
	homedir.DisableCache = true
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData", "Roaming"))
	for _, key := range []string{"SOURCE_DIR", "SYSTEM_DIR", "USER_DIR", "LAUNCHER_NAME", "RUNTIMES", "MIN_RUNTIME", "ELEVATION_COMMAND", "VERIFY", "VERBOSE"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+"_"+key))
	}
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("source-dir", "", "")
	flags.String("system-dir", "", "")
	flags.String("user-dir", "", "")
	flags.StringSlice("runtime", nil, "")
	flags.String("min-runtime", "", "")
	flags.Bool("verify", true, "")
	flags.Bool("verbose", false, "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	checkout := testutil.WriteCheckout(t)

	cfg, err := Load(LoadOptions{WorkDir: checkout})

	require.NoError(t, err)
	assert.Equal(t, checkout, cfg.SourceDir)
	assert.Equal(t, probe.DefaultCandidates(), cfg.Runtimes)
	assert.True(t, cfg.Verify)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.File)
	assert.True(t, filepath.IsAbs(cfg.UserDir))
	if runtime.GOOS != "windows" {
		assert.Equal(t, "/usr/local/bin", cfg.SystemDir)
		assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".local", "bin"), cfg.UserDir)
		assert.Equal(t, "franz", cfg.LauncherName)
		assert.Equal(t, "sudo", cfg.ElevationCommand)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	sys := t.TempDir()
	t.Setenv("FRANZ_SYSTEM_DIR", sys)
	t.Setenv("FRANZ_RUNTIMES", "python3.12,python3")
	t.Setenv("FRANZ_VERIFY", "false")

	cfg, err := Load(LoadOptions{WorkDir: t.TempDir()})

	require.NoError(t, err)
	assert.Equal(t, sys, cfg.SystemDir)
	assert.Equal(t, []string{"python3.12", "python3"}, cfg.Runtimes)
	assert.False(t, cfg.Verify)
}

func TestLoad_FlagsBeatEnv(t *testing.T) {
	isolate(t)
	t.Setenv("FRANZ_USER_DIR", "/from/env")
	flags := newFlags()
	userDir := t.TempDir()
	require.NoError(t, flags.Parse([]string{"--user-dir", userDir, "--runtime", "pypy3", "--min-runtime", "3.8"}))

	cfg, err := Load(LoadOptions{Flags: flags, WorkDir: t.TempDir()})

	require.NoError(t, err)
	assert.Equal(t, userDir, cfg.UserDir)
	assert.Equal(t, []string{"pypy3"}, cfg.Runtimes)
	v, err := cfg.MinVersion()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "3.8.0", v.String())
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "install.toml")
	content := `system_dir = "` + filepath.ToSlash(filepath.Join(dir, "sys")) + `"
runtimes = ["python3"]
verbose = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(LoadOptions{ConfigFile: path, WorkDir: dir})

	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, filepath.Join(dir, "sys"), cfg.SystemDir)
	assert.Equal(t, []string{"python3"}, cfg.Runtimes)
	assert.True(t, cfg.Verbose)
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	isolate(t)
	cfgDir, err := os.UserConfigDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(cfgDir, AppDir), 0o755))
	path := filepath.Join(cfgDir, AppDir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`elevation_command = "doas"`+"\n"), 0o644))

	cfg, err := Load(LoadOptions{WorkDir: t.TempDir()})

	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "doas", cfg.ElevationCommand)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	isolate(t)

	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.toml")})

	assert.ErrorContains(t, err, "config file not found")
}

func TestLoad_InvalidValues(t *testing.T) {
	isolate(t)
	t.Setenv("FRANZ_LAUNCHER_NAME", "bin/franz")
	t.Setenv("FRANZ_MIN_RUNTIME", "three")

	_, err := Load(LoadOptions{WorkDir: t.TempDir()})

	require.Error(t, err)
	assert.ErrorContains(t, err, KeyLauncherName)
	assert.ErrorContains(t, err, KeyMinRuntime)
}

func TestFindSourceDir(t *testing.T) {
	checkout := testutil.WriteCheckout(t)
	elsewhere := t.TempDir()
	installer := filepath.Join(checkout, "franz-install")
	require.NoError(t, os.WriteFile(installer, nil, 0o755))
	resolvedCheckout, err := filepath.EvalSymlinks(checkout)
	require.NoError(t, err)

	assert.Equal(t, checkout, FindSourceDir(checkout, "", ""))
	assert.Equal(t, resolvedCheckout, FindSourceDir(elsewhere, installer, ""))
	assert.Equal(t, elsewhere, FindSourceDir(elsewhere, filepath.Join(elsewhere, "franz-install"), ""))
}
