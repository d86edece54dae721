package main

import (
	"github.com/spf13/cobra"

	"github.com/franzcode/bootstrap/pkg/install"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the interpreter smoke test without installing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, err := newInstaller(cmd)
		if err != nil {
			return err
		}
		return runCheck(cmd, &install.VerifyCheck{
			Prober:    in.Prober,
			Verifier:  in.Verifier(),
			SourceDir: in.Config.SourceDir,
		})
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
