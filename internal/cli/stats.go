package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := rootOpts.env(cmd)
			stats, err := e.client.Stats(cmd.Context())
			if err != nil {
				return backendError("Error al cargar estadísticas", err)
			}
			return e.out.Print(stats, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Total de Productos: %d\nMovimientos: %d\nUsuarios Activos: %d\n",
					stats.Products, stats.Movements, stats.Users)
				return err
			})
		},
	}
}
