package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the backend",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: todo auth <login|logout|status|whoami>")
		},
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Delete the stored token",
		Args:  noArgs,
		RunE:  runAuthLogout,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  noArgs,
		RunE:  runAuthStatus,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Decode the token's claims locally",
		Args:  noArgs,
		RunE:  runAuthWhoAmI,
	})
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a token in ~/.tada/credentials.json",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("token") {
				fmt.Fprint(cmd.OutOrStdout(), "Paste your token: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = line
			}
			if err := auth.SetToken(token, nil); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			app.log.Debug("token stored")
			ui.OK(cmd.OutOrStdout(), "logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Token to store (read from stdin when omitted)")
	return cmd
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	ti, _ := auth.GetToken()
	if ti != nil && ti.Source == "env" {
		ui.OK(cmd.OutOrStdout(), "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
		return nil
	}
	if err := auth.DeleteToken(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	ui.OK(cmd.OutOrStdout(), "logged out")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ti, err := auth.GetToken()
	if err != nil {
		return err
	}
	if ti == nil {
		fmt.Fprintln(out, ui.Current().Muted.Render("not logged in"))
		fmt.Fprintln(out, "Run: todo auth login")
		return nil
	}
	fmt.Fprintf(out, "source: %s\n", ti.Source)
	switch {
	case ti.ExpiresAt == nil:
		fmt.Fprintln(out, "expires: (unknown)")
	case time.Now().After(*ti.ExpiresAt):
		fmt.Fprintf(out, "expires: %s %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), ui.Current().Error.Render("(expired)"))
	default:
		fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(out, "env override: "+auth.EnvToken)
	return nil
}

// runAuthWhoAmI decodes a JWT locally (unverified); opaque tokens print basic info.
func runAuthWhoAmI(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ti, _ := auth.GetToken()
	if ti == nil || strings.TrimSpace(ti.Token) == "" {
		return usageError{msg: "not logged in", hint: "Run: todo auth login"}
	}
	claims, err := auth.Inspect(ti.Token)
	if errors.Is(err, auth.ErrOpaqueToken) {
		fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
		fmt.Fprintln(out, "source:", ti.Source)
		return nil
	}
	if err != nil {
		return err
	}
	if claims.Subject != "" {
		fmt.Fprintln(out, "subject:", claims.Subject)
	}
	if claims.ExpiresAt != nil {
		state := ""
		if claims.Expired(time.Now()) {
			state = " " + ui.Current().Error.Render("(expired)")
		}
		fmt.Fprintf(out, "expires: %s%s\n", claims.ExpiresAt.Format(time.RFC3339), state)
	}
	fmt.Fprintln(out, "JWT payload:")
	return writeJSON(out, claims.Raw)
}
