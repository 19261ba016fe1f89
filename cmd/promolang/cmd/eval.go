package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promolang/promolang/internal/engine"
	"github.com/promolang/promolang/internal/parser"
	"github.com/promolang/promolang/internal/types"
)

var evalCmd = &cobra.Command{
	Use:   "eval FILE",
	Short: "Evaluate a promotion definition against a cart",
	Long: `Eval parses the promotion definition in FILE and applies it to the
cart and configuration given as JSON. The full evaluation result is
printed as JSON on stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().String("cart", "", "cart JSON (inline or @file)")
	evalCmd.Flags().String("config", "{}", "promotion configuration JSON (inline or @file)")
}

func runEval(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read definition: %w", err)
	}

	def, err := parser.ParseSource(string(source))
	if err != nil {
		return fmt.Errorf("failed to parse definition: %w", err)
	}

	cartJSON, _ := cmd.Flags().GetString("cart")
	if cartJSON == "" {
		return fmt.Errorf("--cart required")
	}
	configJSON, _ := cmd.Flags().GetString("config")

	var cart types.Cart
	if err := decodeJSONArg(cartJSON, &cart); err != nil {
		return fmt.Errorf("invalid cart: %w", err)
	}
	var cfg types.Config
	if err := decodeJSONArg(configJSON, &cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx := &types.Context{Cart: &cart, Config: cfg}
	result := engine.Apply(def, ctx)

	out := struct {
		Promotion      string                 `json:"promotion"`
		Result         *types.PromotionResult `json:"result"`
		PotentialValue float64                `json:"potential_value"`
	}{
		Promotion:      def.Name,
		Result:         result,
		PotentialValue: engine.PotentialValue(def, ctx),
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if !result.Applicable {
		// Nonzero exit lets scripts branch on the outcome.
		return fmt.Errorf("promotion %q did not apply", def.Name)
	}
	return nil
}

// decodeJSONArg decodes a flag value that is either inline JSON or a
// @file reference.
func decodeJSONArg(arg string, v any) error {
	data := []byte(arg)
	if len(arg) > 0 && arg[0] == '@' {
		fileData, err := os.ReadFile(arg[1:])
		if err != nil {
			return err
		}
		data = fileData
	}
	return json.Unmarshal(data, v)
}
