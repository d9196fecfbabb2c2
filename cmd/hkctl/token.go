package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/hotelops/housekeeping/internal/api/dto"
	"github.com/hotelops/housekeeping/internal/service"
)

var tokenUserID string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a registered user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID == "" {
			return errors.New("--user is required")
		}
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		authService := service.NewAuthService(e.cfg.Auth, e.store.Users)
		user, token, exp, err := authService.IssueToken(cmd.Context(), tokenUserID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dto.AuthResponse{UserID: user.ID, Role: user.Role, Token: token, ExpiresAt: exp})
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id the token is issued for")
	rootCmd.AddCommand(tokenCmd)
}
