package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/naveenspark/xpboard/internal/dashboard"
	"github.com/naveenspark/xpboard/internal/profile"
	"github.com/naveenspark/xpboard/internal/session"
	"github.com/naveenspark/xpboard/internal/tui"
)

var errMissingCredentials = errors.New("username/email and password are required")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xpboard",
		Short:         "Terminal dashboard for your campus XP, skills and audits",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	root.SetVersionTemplate("xpboard {{.Version}}\n")
	root.AddCommand(newLoginCmd(), newLogoutCmd(), newShowCmd(), newVersionCmd())
	return root
}

func runTUI(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(e.svc, tui.Options{SiteURL: e.cfg.SiteURL, Override: e.override()})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "xpboard "+version)
		},
	}
}

func newLoginCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your campus username or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			user, pass, err := promptCredentials(cmd.InOrStdin(), cmd.ErrOrStderr(), username)
			if err != nil {
				return err
			}
			cred, err := e.svc.Login(cmd.Context(), user, pass)
			if err != nil {
				return errors.New(dashboard.UserMessage(err))
			}
			if err := e.svc.Persist(cmd.Context(), cred); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", cred.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username or email (prompted when empty)")
	return cmd
}

// promptCredentials asks for whatever is missing. The password is read
// without echo when in is a terminal.
func promptCredentials(in io.Reader, out io.Writer, username string) (string, string, error) {
	r := bufio.NewReader(in)
	if username == "" {
		fmt.Fprint(out, "Username or email: ")
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return "", "", fmt.Errorf("read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	fmt.Fprint(out, "Password: ")
	var password string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	} else {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if username == "" || password == "" {
		return "", "", errMissingCredentials
	}
	return username, password, nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			if _, ok := e.svc.Credential(cmd.Context()); !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Already logged out.")
				return nil
			}
			if err := e.svc.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the dashboard once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			cred, ok := e.credential(cmd.Context())
			if !ok {
				printGreeting(cmd.OutOrStdout())
				return nil
			}
			m, err := loadOnce(cmd, e, cred)
			if err != nil {
				return err
			}
			if asJSON {
				return writeReport(cmd.OutOrStdout(), newReport(m, cred.Username, time.Now()))
			}
			fmt.Fprint(cmd.OutOrStdout(), m.Text(cred.Username))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print machine-readable JSON")
	return cmd
}

// loadOnce runs a restored-session chain through the phase machine.
func loadOnce(cmd *cobra.Command, e *env, cred session.Credential) (*profile.Metrics, error) {
	machine := dashboard.NewMachine()
	t, err := machine.Restore()
	if err != nil {
		return nil, err
	}
	if err := machine.BeginFetch(t); err != nil {
		return nil, err
	}
	m, err := e.svc.Load(cmd.Context(), cred)
	if err != nil {
		machine.Fail(t, err)
		if dashboard.Unauthorized(err) {
			e.svc.Reject(cmd.Context(), cred) //nolint:errcheck
		}
		return nil, errors.New(dashboard.UserMessage(err))
	}
	machine.FetchSucceeded(t)
	return m, nil
}

// report is the JSON form of the dashboard.
type report struct {
	Welcome    string             `json:"welcome"`
	Fields     []profile.Field    `json:"fields"`
	Categories []profile.Point    `json:"categories"`
	Skills     []profile.Point    `json:"skills"`
	Daily      []profile.DayTotal `json:"daily"`
	Generated  time.Time          `json:"generated_at"`
}

func newReport(m *profile.Metrics, username string, now time.Time) report {
	return report{
		Welcome:    m.WelcomeName(username),
		Fields:     m.Fields(),
		Categories: m.CategorySeries(),
		Skills:     m.SkillSeries(),
		Daily:      m.Daily,
		Generated:  now.UTC(),
	}
}

func writeReport(w io.Writer, r report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
