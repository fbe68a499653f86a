package main

import (
	"encoding/json"
	"fmt"

	"confidential-lending/config"
	"confidential-lending/internal/service"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

func newEncryptInputCmd(cfgPath *string) *cobra.Command {
	var (
		owner  string
		amount uint64
	)

	cmd := &cobra.Command{
		Use:   "encrypt-input",
		Short: "Encrypt an amount for /lend or /withdraw",
		Long: "Produces a ciphertext and proof bound to the engine address and the owner.\n" +
			"The output is the JSON body expected by the lend and withdraw endpoints.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			engineAddr, err := parseAddress("engine.address", cfg.Engine.Address)
			if err != nil {
				return err
			}
			ownerAddr, err := parseAddress("--owner", owner)
			if err != nil {
				return err
			}

			keys, err := service.DeriveKeySet(cfg.Crypto.MasterKey)
			if err != nil {
				return fmt.Errorf("derive keys: %w", err)
			}
			enc, err := service.NewInputEncryptor(keys, engineAddr)
			if err != nil {
				return err
			}
			in, err := enc.Encrypt(ownerAddr, amount)
			if err != nil {
				return err
			}

			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(map[string]string{
				"ciphertext": hexutil.Encode(in.Ciphertext),
				"proof":      hexutil.Encode(in.Proof),
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "0x address submitting the input")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "plaintext amount")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
