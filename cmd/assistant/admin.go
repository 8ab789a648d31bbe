package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abc-assistant/assistant/internal/auth"
	"github.com/abc-assistant/assistant/internal/database"
	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/render"
	"github.com/abc-assistant/assistant/internal/server"
)

// Output formats of the admin commands.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var errNotSignedIn = errors.New("not signed in: run 'assistant admin login' first")

type adminStatus struct {
	Authenticated bool           `json:"authenticated" yaml:"authenticated"`
	User          *auth.UserInfo `json:"user,omitempty" yaml:"user,omitempty"`
}

func newAdminCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator sign-in and interaction log",
	}
	cmd.AddCommand(
		newLoginCmd(opts),
		newPasswordCmd(opts),
		newLogoutCmd(opts),
		newStatusCmd(opts),
		newLogsCmd(opts),
	)
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			gate, err := a.gate(ctx)
			if err != nil {
				return err
			}

			if password == "" {
				password, err = prompt(cmd.InOrStdin(), cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return err
				}
			}
			return printSignIn(cmd.OutOrStdout(), gate.SignIn(ctx, username, password))
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Administrator username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newPasswordCmd(opts *rootOptions) *cobra.Command {
	var username, session, newPassword, confirm string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Set a new password after a NEW_PASSWORD_REQUIRED challenge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			gate, err := a.gate(ctx)
			if err != nil {
				return err
			}
			return printSignIn(cmd.OutOrStdout(), gate.SetNewPassword(ctx, username, newPassword, confirm, session))
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Administrator username")
	cmd.Flags().StringVar(&session, "session", "", "Challenge session returned by login")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "New password again")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored administrator tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			gate, err := a.gate(ctx)
			if err != nil {
				return err
			}
			if err := gate.SignOut(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether an administrator is signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			gate, err := a.gate(ctx)
			if err != nil {
				return err
			}
			st := adminStatus{Authenticated: gate.IsAuthenticated(ctx)}
			if st.Authenticated {
				st.User = gate.UserInfo(ctx)
			}
			return writeOutput(cmd.OutOrStdout(), format, st, func(w io.Writer) {
				printStatus(w, st)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	return cmd
}

func newLogsCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		limit  int
		lang   string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List recent interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var target language.Code
			if lang != "" {
				c, err := language.Parse(lang)
				if err != nil {
					return err
				}
				target = c
			}

			a, err := openApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			gate, err := a.gate(ctx)
			if err != nil {
				return err
			}
			if !gate.IsAuthenticated(ctx) {
				return errNotSignedIn
			}

			items, err := a.store.GetRecentInteractions(ctx, limit)
			if err != nil {
				return err
			}
			if target != "" {
				tr, err := a.translator(ctx)
				if err != nil {
					return err
				}
				server.TranslateInteractions(ctx, tr, items, target)
			}
			if items == nil {
				items = []*database.Interaction{}
			}

			return writeOutput(cmd.OutOrStdout(), format, items, func(w io.Writer) {
				render.Interactions(w, items)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of interactions to show")
	cmd.Flags().StringVar(&lang, "lang", "", "Translate questions and answers into this language (en, es)")
	return cmd
}

// writeOutput encodes v as JSON or YAML, or calls table for the table format.
func writeOutput(w io.Writer, format string, v any, table func(io.Writer)) error {
	switch strings.ToLower(format) {
	case formatTable, "":
		table(w)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (use table, json or yaml)", format)
	}
}

func printStatus(w io.Writer, st adminStatus) {
	if !st.Authenticated {
		fmt.Fprintln(w, "Not signed in.")
		return
	}
	if st.User == nil {
		fmt.Fprintln(w, "Signed in.")
		return
	}
	fmt.Fprintf(w, "Signed in as %s\n", st.User.Username)
	if st.User.Name != "" {
		fmt.Fprintf(w, "  name:  %s\n", st.User.Name)
	}
	if st.User.Email != "" {
		fmt.Fprintf(w, "  email: %s\n", st.User.Email)
	}
}

// printSignIn reports a sign-in outcome; failures become the command error.
func printSignIn(w io.Writer, res auth.SignInResult) error {
	switch {
	case res.Success:
		fmt.Fprintln(w, "Signed in.")
		return nil
	case res.ChallengeName == auth.ChallengeNewPassword && res.Error == "":
		fmt.Fprintln(w, "A new password is required. Run:")
		fmt.Fprintf(w, "  assistant admin password --username %s --session %s --new-password <password> --confirm <password>\n",
			res.Username, res.Session)
		return nil
	default:
		return errors.New(res.Error)
	}
}

func prompt(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(sc.Text()), nil
}
