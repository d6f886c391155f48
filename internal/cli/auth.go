package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/ui"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Token authentication",
		Args:  exactArgs(0, "todo auth <login|logout|status|whoami>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: todo auth <login|logout|status|whoami>")
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login",
			Short: "Save a bearer token",
			Args:  exactArgs(0, "todo auth login"),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(cmd.OutOrStdout(), "Paste your token: ")
				token, err := readToken(a.stdin)
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("read token: %w", err)
				}
				if err := a.tokens.Set(token); err != nil {
					return fmt.Errorf("save token: %w", err)
				}
				ui.OK("logged in")
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the saved token",
			Args:  exactArgs(0, "todo auth logout"),
			RunE: func(cmd *cobra.Command, args []string) error {
				ti, _ := a.tokens.Get()
				if ti != nil && ti.Source == "env" {
					ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
					return nil
				}
				if err := a.tokens.Delete(); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				ui.OK("logged out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from and when it expires",
			Args:  exactArgs(0, "todo auth status"),
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				ti, err := a.tokens.Get()
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
				case ti.Expired(time.Now()):
					fmt.Fprintf(out, "expires: %s %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), ui.Current().Error.Render("(expired)"))
				default:
					fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
				}
				fmt.Fprintln(out, "env override: "+auth.EnvToken)
				return nil
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Print the token's claims (JWT only, not verified)",
			Args:  exactArgs(0, "todo auth whoami"),
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				ti, err := a.tokens.Get()
				if err != nil {
					return err
				}
				if ti == nil {
					return usagef("not logged in. Run: todo auth login")
				}
				claims, err := auth.Claims(ti.Token)
				if err != nil {
					fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
					fmt.Fprintln(out, "source:", ti.Source)
					return nil
				}
				b, err := json.MarshalIndent(claims, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "JWT payload:")
				fmt.Fprintln(out, string(b))
				return nil
			},
		},
	)
	return cmd
}

// readToken reads without echo from a terminal, or one line otherwise.
func readToken(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return strings.TrimSpace(string(b)), err
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
