// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage registration keys",
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a registration key",
	Long: `Provision a registration key.

The full key, including the configured prefix, is printed to STDOUT. When
no id is given a random one is generated.

Example:
  mercuryctl keys create --uses 5
  mercuryctl keys create --id invite-42 --copy`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		uses, _ := cmd.Flags().GetInt("uses")
		copyKey, _ := cmd.Flags().GetBool("copy")

		storages, cfg, err := openStorages(cmd.Context())
		if err != nil {
			return err
		}
		defer storages.Close()

		var copyFn func(string) error
		if copyKey {
			copyFn = clipboard.WriteAll
		}

		return createKey(cmd.Context(), storages.Keys, keyRequest{
			Prefix: cfg.Registration.Keys.Prefix,
			ID:     id,
			Uses:   uses,
		}, copyFn, cmd.OutOrStdout())
	},
}

func init() {
	keysCreateCmd.Flags().String("id", "", "Key id without the prefix (default: random)")
	keysCreateCmd.Flags().IntP("uses", "u", 1, "Number of registrations the key allows")
	keysCreateCmd.Flags().Bool("copy", false, "Copy the full key to the clipboard")

	keysCmd.AddCommand(keysCreateCmd)
	rootCmd.AddCommand(keysCmd)
}

type keyRequest struct {
	Prefix string
	ID     string
	Uses   int
}

// createKey provisions the key and prints it. copyFn, when set, receives
// the full key; a clipboard failure is reported but the key stays
// provisioned.
func createKey(ctx context.Context, keys store.KeyLedger, req keyRequest, copyFn func(string) error, out io.Writer) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	key, err := keys.Provision(ctx, req.ID, req.Uses)
	if errors.Is(err, store.ErrKeyExists) {
		return fmt.Errorf("key %q already exists", req.ID)
	}
	if err != nil {
		return fmt.Errorf("provisioning key: %w", err)
	}

	full := req.Prefix + key.ID
	fmt.Fprintf(out, "%s (uses: %d)\n", full, key.UsesLeft)

	if copyFn != nil {
		if err := copyFn(full); err != nil {
			return fmt.Errorf("key created but not copied to clipboard: %w", err)
		}
		fmt.Fprintln(out, "Copied to clipboard")
	}

	return nil
}
