package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		// failed checks and installs have already been reported
		if !errors.Is(err, ErrCheckFailed) && !errors.Is(err, ErrInstallFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "franz-install",
	Short: "Install the franz launcher for FranzCode",
	Long: `franz-install puts the franz launcher on your command path.

It writes to the system bin directory when it can, uses sudo when that
works without a password, and otherwise installs for the current user
only. The FranzCode interpreter is then run once to check the install.`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInstall,
}

var (
	configPath   string
	sourceDir    string
	systemDir    string
	userDir      string
	launcherName string
	runtimes     []string
	minRuntime   string
	elevation    string
	verify       bool
	verbose      bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default: <user config dir>/franzcode/install.toml)")
	flags.StringVar(&sourceDir, "source-dir", "", "FranzCode checkout containing main.py (default: current directory)")
	flags.StringVar(&systemDir, "system-dir", "", "system-wide bin directory")
	flags.StringVar(&userDir, "user-dir", "", "per-user bin directory")
	flags.StringVar(&launcherName, "launcher-name", "", "file name of the installed launcher")
	flags.StringSliceVar(&runtimes, "runtime", nil, "runtime candidates in priority order (repeatable)")
	flags.StringVar(&minRuntime, "min-runtime", "", "skip runtimes older than this version")
	flags.StringVar(&elevation, "elevation", "", "non-interactive elevation command (empty string disables)")
	flags.BoolVar(&verify, "verify", true, "run the interpreter smoke test after installing")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every decision")
}
