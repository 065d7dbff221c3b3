package cli

import (
	"fmt"
	"io"
	"os"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
	"github.com/jrsteele09/go-inventory-dashboard/session"
	"github.com/spf13/cobra"
)

// PasswordEnv is read when --password is not given
const PasswordEnv = "INVENTARIO_PASSWORD"

type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the tokens",
		Long: `Log in with email and password. The access and refresh tokens are written
to the credentials file and used by every other command.

Example:
  INVENTARIO_PASSWORD=admin123 inventario login --email admin@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password (or "+PasswordEnv+")")
	return cmd
}

func runLogin(cmd *cobra.Command, opts *LoginOptions) error {
	password := opts.Password
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}

	e := opts.env(cmd)
	if err := e.store.Login(cmd.Context(), opts.Email, password); err != nil {
		msg := e.store.Snapshot().Error
		if msg == "" {
			msg = session.MsgLoginFailed
		}
		if apperrors.Is(err, apperrors.ErrValidation) {
			return NewExitError(ExitCommandError, msg)
		}
		return WrapExitError(ExitAuth, msg, err)
	}

	user := e.store.Snapshot().User
	return e.out.Print(user, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Sesión iniciada como %s\n", user.Email)
		return err
	})
}

func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := rootOpts.env(cmd)
			if err := e.store.Logout(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "failed to clear credentials", err)
			}
			e.out.Notice("Sesión cerrada")
			return nil
		},
	}
}

func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := rootOpts.env(cmd)
			if err := e.store.CheckAuth(cmd.Context()); err != nil {
				return backendError("failed to load profile", err)
			}
			snap := e.store.Snapshot()
			if !snap.IsAuthenticated() {
				return NewExitError(ExitAuth, "not logged in, run 'inventario login'")
			}
			user := snap.User
			return e.out.Print(user, func(w io.Writer) error {
				if _, err := fmt.Fprintf(w, "%s <%s>\nEmpresa: %s\n", user.DisplayName(), user.Email, empresaLabel(user.EmpresaNombre, user.Empresa)); err != nil {
					return err
				}
				if exp, ok := snap.AccessExpiry(); ok {
					_, err := fmt.Fprintf(w, "Token expira: %s\n", exp.Local().Format("02/01/2006 15:04"))
					return err
				}
				return nil
			})
		},
	}
}

func NewRefreshCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Trade the refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := rootOpts.env(cmd)
			if err := e.store.Refresh(cmd.Context()); err != nil {
				if apperrors.Is(err, apperrors.ErrNoCredentials) {
					return NewExitError(ExitAuth, "not logged in, run 'inventario login'")
				}
				return backendError("refresh failed", err)
			}
			e.out.Notice("Token renovado")
			return nil
		},
	}
}

func empresaLabel(name string, id int64) string {
	if name != "" {
		return name
	}
	if id == 0 {
		return "-"
	}
	return fmt.Sprintf("#%d", id)
}
