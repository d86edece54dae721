package main

import (
	"github.com/spf13/cobra"

	"github.com/franzcode/bootstrap/pkg/install"
	"github.com/franzcode/bootstrap/pkg/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Find the runtime the launcher would use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, err := newInstaller(cmd)
		if err != nil {
			return err
		}
		return runCheck(cmd, &probe.Check{Prober: in.Prober})
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func newInstaller(cmd *cobra.Command) (*install.Installer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return install.New(cfg, newLogger(cmd, cfg), cmd.OutOrStdout())
}
