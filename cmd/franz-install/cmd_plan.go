package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/franzcode/bootstrap/pkg/install"
	"github.com/franzcode/bootstrap/pkg/output"
)

var planFormat string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what install would do without writing anything",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFormat, "format", "text", "output format: text, json or toml")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	switch planFormat {
	case "text", "json", "toml":
	default:
		return fmt.Errorf("unknown --format %q (want text, json or toml)", planFormat)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	in, err := install.New(cfg, newLogger(cmd, cfg), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	plan, err := in.Plan(cmd.Context())
	if err != nil {
		return err
	}
	view := plan.View(runtime.GOOS)

	w := cmd.OutOrStdout()
	switch planFormat {
	case "json":
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "toml":
		data, err := toml.Marshal(view)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	p := output.New(w)
	p.Headline("Install plan")
	p.Line("  target:       %s", view.Target)
	p.Line("  destination:  %s", view.Destination)
	p.Line("  source dir:   %s", view.SourceDir)
	p.Line("  launcher:     %s", view.Launcher)
	p.Line("  runtime:      %s", plan.Runtime)
	if view.Existing != "" {
		p.Line("  existing:     %s", view.Existing)
	}
	if view.PathInstruction != "" {
		p.Line("  PATH:         %s", view.PathInstruction)
	}
	return nil
}
