// Package cli is the inventario command line client. It shares the gateway
// and the session store with the web dashboard and keeps its credentials in
// a local file.
package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/jrsteele09/go-inventory-dashboard/credentials"
	"github.com/jrsteele09/go-inventory-dashboard/gateway"
	"github.com/jrsteele09/go-inventory-dashboard/internal/config"
	"github.com/jrsteele09/go-inventory-dashboard/internal/logging"
	"github.com/jrsteele09/go-inventory-dashboard/metrics"
	"github.com/jrsteele09/go-inventory-dashboard/session"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL      string
	Credentials string
	Format      string // "text" | "json" | "yaml"
	Timeout     time.Duration
	Verbose     bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command. Flag defaults come from the same
// environment the dashboard reads.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	apiURL, timeout := gateway.DefaultBaseURL, gateway.DefaultTimeout
	if cfg, err := config.Load(""); err == nil {
		apiURL, timeout = cfg.GetAPIURL(), cfg.GetRequestTimeout()
	}

	cmd := &cobra.Command{
		Use:           "inventario",
		Short:         "Inventario SaaS command line client",
		Long:          "Log in to the inventory backend and read or record products, movements and categories.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			level := "error"
			if opts.Verbose {
				level = "debug"
			}
			logging.Setup(cmd.ErrOrStderr(), config.EnvDev, level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", apiURL, "backend API base URL")
	cmd.PersistentFlags().StringVar(&opts.Credentials, "credentials", credentials.DefaultFilePath(), "credentials file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", timeout, "per request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log backend calls to stderr")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewRefreshCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewMovementsCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))

	return cmd
}

// env is what a command needs to talk to the backend
type env struct {
	vault  *credentials.Vault
	client *gateway.Client
	store  *session.Store
	out    *OutputFormatter
}

func (o *RootOptions) env(cmd *cobra.Command) *env {
	vault := credentials.NewVault(credentials.NewFileStorage(o.Credentials))
	m := metrics.Nop()
	client := gateway.New(o.APIURL, vault,
		gateway.WithTimeout(o.Timeout),
		gateway.WithMetrics(m),
	)
	return &env{
		vault:  vault,
		client: client,
		store:  session.NewStore(client, vault, m),
		out: &OutputFormatter{
			Format:    o.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
		},
	}
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}
