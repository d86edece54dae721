package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/franzcode/bootstrap/pkg/install"
	"github.com/franzcode/bootstrap/pkg/output"
	"github.com/franzcode/bootstrap/pkg/probe"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the franz launcher (default command)",
	Args:  cobra.NoArgs,
	RunE:  runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	in, err := install.New(cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	report, err := in.Install(cmd.Context())
	if err != nil {
		p := output.New(cmd.ErrOrStderr())
		logger.Error("installation failed", "kind", install.KindOf(err), "err", err)
		var nf *probe.NotFoundError
		if errors.As(err, &nf) {
			p.Line("%s", nf.Remediation())
		}
		return ErrInstallFailed
	}

	if report.Degraded() {
		logger.Warn("installed with warnings", "destination", report.Plan.Destination)
	}
	return nil
}
