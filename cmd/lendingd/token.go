package main

import (
	"fmt"
	"time"

	"confidential-lending/config"
	"confidential-lending/internal/core/ports"
	"confidential-lending/internal/service"

	"github.com/spf13/cobra"
)

func newTokenCmd(cfgPath *string) *cobra.Command {
	var (
		account string
		role    string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an account or operator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt.secret is not set")
			}
			addr, err := parseAddress("--account", account)
			if err != nil {
				return err
			}
			r := ports.Role(role)
			if r != ports.RoleAccount && r != ports.RoleOperator {
				return fmt.Errorf("--role must be %q or %q", ports.RoleAccount, ports.RoleOperator)
			}

			svc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
			tok, exp, err := svc.Generate(addr, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "0x address the token is issued to")
	cmd.Flags().StringVar(&role, "role", string(ports.RoleAccount), "account or operator")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
