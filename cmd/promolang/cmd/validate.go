package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promolang/promolang/internal/parser"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check promotion definitions for syntax and consistency problems",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, path := range args {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			failed++
			continue
		}

		def, err := parser.ParseSource(string(source))
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			failed++
			continue
		}

		issues := def.Lint()
		for _, c := range def.Conditions {
			if !c.IsValid() {
				issues = append(issues, fmt.Sprintf("condition %q uses unknown function %q", c.Name, c.Function))
			}
		}
		for _, r := range def.Rewards {
			if !r.IsValid() {
				issues = append(issues, fmt.Sprintf("reward for condition %q has unsupported type %q", r.ConditionName, r.Type))
			}
		}

		if len(issues) > 0 {
			for _, issue := range issues {
				fmt.Fprintf(out, "%s: %s\n", path, issue)
			}
			failed++
			continue
		}

		fmt.Fprintf(out, "%s: ok (%s, %d conditions, %d rewards)\n",
			path, def.Name, len(def.Conditions), len(def.Rewards))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d definitions failed validation", failed, len(args))
	}
	return nil
}
