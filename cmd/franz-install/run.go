package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/franzcode/bootstrap/pkg/check"
	"github.com/franzcode/bootstrap/pkg/config"
	"github.com/franzcode/bootstrap/pkg/output"
)

var (
	// ErrCheckFailed is returned when probe or verify fails.
	ErrCheckFailed = errors.New("check failed")
	// ErrInstallFailed is returned when the install did not complete.
	ErrInstallFailed = errors.New("install failed")
)

// runCheck executes a check, prints the result, and returns an error if failed.
// The returned error causes main to exit with code 1.
func runCheck(cmd *cobra.Command, c check.Checker) error {
	result := c.Run()
	output.New(cmd.OutOrStdout()).Result(result)

	if !result.OK() {
		return ErrCheckFailed
	}
	return nil
}

// loadConfig resolves the configuration once for the running command.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	exe, _ := os.Executable()
	return config.Load(config.LoadOptions{
		ConfigFile: configPath,
		Flags:      cmd.Flags(),
		WorkDir:    wd,
		Executable: exe,
	})
}

func newLogger(cmd *cobra.Command, cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "franz-install",
		Level:  log.InfoLevel,
	})
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if cfg.File != "" {
		logger.Debug("loaded config", "file", cfg.File)
	}
	return logger
}
