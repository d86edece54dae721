// Package config resolves installer settings from flags, FRANZ_*
// environment variables and an optional TOML file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/franzcode/bootstrap/pkg/launcher"
	"github.com/franzcode/bootstrap/pkg/probe"
	"github.com/franzcode/bootstrap/pkg/version"
)

const (
	// EnvPrefix prefixes every environment override, e.g. FRANZ_SYSTEM_DIR.
	EnvPrefix = "FRANZ"
	// AppDir is the directory name used under the user config dir.
	AppDir = "franzcode"
	// FileName is the config file looked up when --config is not given.
	FileName = "install.toml"
)

// Keys shared by viper, the TOML file and the environment.
const (
	KeySourceDir    = "source_dir"
	KeySystemDir    = "system_dir"
	KeyUserDir      = "user_dir"
	KeyLauncherName = "launcher_name"
	KeyRuntimes     = "runtimes"
	KeyMinRuntime   = "min_runtime"
	KeyElevation    = "elevation_command"
	KeyVerify       = "verify"
	KeyVerbose      = "verbose"
)

// Config is the installer configuration. It is read once per command and
// passed down by value; nothing mutates the process environment.
type Config struct {
	SourceDir        string   `mapstructure:"source_dir" toml:"source_dir" json:"source_dir"`
	SystemDir        string   `mapstructure:"system_dir" toml:"system_dir" json:"system_dir"`
	UserDir          string   `mapstructure:"user_dir" toml:"user_dir" json:"user_dir"`
	LauncherName     string   `mapstructure:"launcher_name" toml:"launcher_name" json:"launcher_name"`
	Runtimes         []string `mapstructure:"runtimes" toml:"runtimes" json:"runtimes"`
	MinRuntime       string   `mapstructure:"min_runtime" toml:"min_runtime,omitempty" json:"min_runtime,omitempty"`
	ElevationCommand string   `mapstructure:"elevation_command" toml:"elevation_command" json:"elevation_command"`
	Verify           bool     `mapstructure:"verify" toml:"verify" json:"verify"`
	Verbose          bool     `mapstructure:"verbose" toml:"verbose" json:"verbose"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" toml:"-" json:"-"`
}

// MinVersion parses MinRuntime; nil means no minimum.
func (c Config) MinVersion() (*version.Version, error) {
	v, err := version.ParseOptional(c.MinRuntime)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyMinRuntime, err)
	}
	return v, nil
}

// Defaults returns the platform defaults.
func Defaults() Config {
	cfg := Config{
		LauncherName:     launcher.DefaultName(),
		Runtimes:         probe.DefaultCandidates(),
		ElevationCommand: "sudo",
		Verify:           true,
	}
	if runtime.GOOS == "windows" {
		programFiles := os.Getenv("ProgramFiles")
		if programFiles == "" {
			programFiles = `C:\Program Files`
		}
		cfg.SystemDir = filepath.Join(programFiles, "FranzCode", "bin")
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join("~", "AppData", "Local")
		}
		cfg.UserDir = filepath.Join(localAppData, "Programs", "FranzCode", "bin")
		cfg.ElevationCommand = ""
		return cfg
	}
	cfg.SystemDir = "/usr/local/bin"
	cfg.UserDir = filepath.Join("~", ".local", "bin")
	return cfg
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	ConfigFile string         // explicit --config path; must exist when set
	Flags      *pflag.FlagSet // flags bound by name, e.g. --system-dir
	WorkDir    string         // used to find a checkout when source_dir is unset
	Executable string         // installer binary path, second place to look for a checkout
	Entry      string         // entry point marking a checkout (default: main.py)
}

// Load merges defaults, the config file, FRANZ_* variables and flags.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault(KeySourceDir, defaults.SourceDir)
	v.SetDefault(KeySystemDir, defaults.SystemDir)
	v.SetDefault(KeyUserDir, defaults.UserDir)
	v.SetDefault(KeyLauncherName, defaults.LauncherName)
	v.SetDefault(KeyRuntimes, defaults.Runtimes)
	v.SetDefault(KeyMinRuntime, defaults.MinRuntime)
	v.SetDefault(KeyElevation, defaults.ElevationCommand)
	v.SetDefault(KeyVerify, defaults.Verify)
	v.SetDefault(KeyVerbose, defaults.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	file, err := configFile(opts.ConfigFile)
	if err != nil {
		return Config{}, err
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = file

	if err := cfg.normalize(opts); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the installer cannot act on.
func (c Config) Validate() error {
	var errs []error
	if c.LauncherName == "" || c.LauncherName != filepath.Base(c.LauncherName) || c.LauncherName == "." || c.LauncherName == ".." {
		errs = append(errs, fmt.Errorf("%s must be a plain file name, got %q", KeyLauncherName, c.LauncherName))
	}
	if len(c.Runtimes) == 0 {
		errs = append(errs, fmt.Errorf("%s must list at least one runtime", KeyRuntimes))
	}
	if c.SystemDir == "" {
		errs = append(errs, fmt.Errorf("%s is empty", KeySystemDir))
	}
	if c.UserDir == "" {
		errs = append(errs, fmt.Errorf("%s is empty", KeyUserDir))
	}
	if _, err := c.MinVersion(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"source-dir":    KeySourceDir,
	"system-dir":    KeySystemDir,
	"user-dir":      KeyUserDir,
	"launcher-name": KeyLauncherName,
	"runtime":       KeyRuntimes,
	"min-runtime":   KeyMinRuntime,
	"elevation":     KeyElevation,
	"verify":        KeyVerify,
	"verbose":       KeyVerbose,
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

// configFile returns the file to read: the explicit path, or the user's
// default file when it exists.
func configFile(explicit string) (string, error) {
	if explicit != "" {
		path, err := homedir.Expand(explicit)
		if err != nil {
			return "", fmt.Errorf("expand config path: %w", err)
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %w", err)
		}
		return path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", nil
	}
	path := filepath.Join(dir, AppDir, FileName)
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// normalize expands ~ and makes every directory absolute.
func (c *Config) normalize(opts LoadOptions) error {
	var err error
	if c.SystemDir, err = absDir(c.SystemDir); err != nil {
		return fmt.Errorf("%s: %w", KeySystemDir, err)
	}
	if c.UserDir, err = absDir(c.UserDir); err != nil {
		return fmt.Errorf("%s: %w", KeyUserDir, err)
	}
	c.Runtimes = compact(c.Runtimes)
	c.LauncherName = strings.TrimSpace(c.LauncherName)

	if c.SourceDir != "" {
		if c.SourceDir, err = absDir(c.SourceDir); err != nil {
			return fmt.Errorf("%s: %w", KeySourceDir, err)
		}
		return nil
	}
	c.SourceDir = FindSourceDir(opts.WorkDir, opts.Executable, opts.Entry)
	return nil
}

// FindSourceDir picks the FranzCode checkout: the working directory when it
// holds the entry point, else the directory of the installer binary, else
// the working directory so the missing entry point is reported there.
func FindSourceDir(workDir, executable, entry string) string {
	if entry == "" {
		entry = launcher.DefaultEntry
	}
	if workDir != "" && isFile(filepath.Join(workDir, entry)) {
		return workDir
	}
	if executable != "" {
		if dir, err := launcher.SelfDir(executable); err == nil && isFile(filepath.Join(dir, entry)) {
			return dir
		}
	}
	return workDir
}

func absDir(dir string) (string, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(dir))
	if err != nil {
		return "", err
	}
	if expanded == "" {
		return "", nil
	}
	return filepath.Abs(expanded)
}

func compact(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
