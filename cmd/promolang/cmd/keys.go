package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promolang/promolang/internal/core/auth"
	"github.com/promolang/promolang/internal/core/config"
	"github.com/promolang/promolang/internal/core/db"
	"github.com/promolang/promolang/internal/types"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys",
}

var keysCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Issue a new API key",
	Long: `Create generates an API key, stores its HMAC hash, and prints the
plaintext key exactly once. The key cannot be recovered afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runKeysCreate,
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke KEY_ID",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysRevoke,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysCreateCmd)
	keysCmd.AddCommand(keysRevokeCmd)
	keysCreateCmd.Flags().String("secret-id", "", "HMAC secret to sign with (defaults to the only configured secret)")
}

func runKeysCreate(cmd *cobra.Command, args []string) error {
	secrets, err := config.HMACSecrets()
	if err != nil {
		return fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	if len(secrets) == 0 {
		return fmt.Errorf("no HMAC secrets configured (set PROMO_HMAC_SECRET)")
	}

	secretID, _ := cmd.Flags().GetString("secret-id")
	if secretID == "" {
		if len(secrets) > 1 {
			return fmt.Errorf("multiple HMAC secrets configured, pass --secret-id")
		}
		for id := range secrets {
			secretID = id
		}
	}
	secret, ok := secrets[secretID]
	if !ok {
		return fmt.Errorf("unknown secret_id %q", secretID)
	}

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}
	store := db.NewStore(queries)

	key, err := auth.GenerateAPIKey(secretID)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	id, err := store.CreateAPIKey(args[0], auth.ComputeHMAC(secret, key))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "key_id: %s\n", id)
	fmt.Fprintf(out, "api_key: %s\n", key)
	fmt.Fprintln(out, "store this key now; it is not recoverable")
	return nil
}

func runKeysRevoke(cmd *cobra.Command, args []string) error {
	id, err := types.ParseAPIKeyID(args[0])
	if err != nil {
		return fmt.Errorf("invalid key ID: %w", err)
	}

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	if err := db.NewStore(queries).RevokeAPIKey(id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "key %s revoked\n", id)
	return nil
}
