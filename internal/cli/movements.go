package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jrsteele09/go-inventory-dashboard/inventory"
	"github.com/spf13/cobra"
)

func NewMovementsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movements",
		Short: "List and record stock movements",
	}
	cmd.AddCommand(newMovementsListCommand(rootOpts))
	cmd.AddCommand(newMovementsCreateCommand(rootOpts))
	return cmd
}

func newMovementsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List movements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := rootOpts.env(cmd)
			page, err := e.client.ListMovements(cmd.Context(), nil)
			if err != nil {
				return backendError("Error al cargar movimientos", err)
			}
			return e.out.Print(page, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
				fmt.Fprintln(tw, "FECHA\tPRODUCTO\tTIPO\tCANTIDAD\tRAZON")
				for _, m := range page.Results {
					date := "-"
					if !m.CreatedAt.IsZero() {
						date = m.CreatedAt.Format("02/01/2006")
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", date, m.ProductLabel(), m.Tipo, m.Cantidad, m.Razon)
				}
				return tw.Flush()
			})
		},
	}
}

func newMovementsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var form inventory.MovementForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a movement",
		Long: `Record an ENTRADA or SALIDA for a product. An omitted or unparseable
quantity is sent as 1.

Example:
  inventario movements create --producto 3 --tipo SALIDA --cantidad 5 --razon venta`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := form.Input()
			if err != nil {
				return WrapExitError(ExitCommandError, "Error al registrar movimiento", err)
			}
			e := rootOpts.env(cmd)
			m, err := e.client.CreateMovement(cmd.Context(), input)
			if err != nil {
				return backendError("Error al registrar movimiento", err)
			}
			return e.out.Print(m, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Movimiento registrado: %s %d de %s\n", m.Tipo, m.Cantidad, m.ProductLabel())
				return err
			})
		},
	}
	cmd.Flags().StringVar(&form.Producto, "producto", "", "product id")
	cmd.Flags().StringVar(&form.Tipo, "tipo", string(inventory.MovementIn), "ENTRADA or SALIDA")
	cmd.Flags().StringVar(&form.Cantidad, "cantidad", "", "quantity")
	cmd.Flags().StringVar(&form.Razon, "razon", "", "reason")
	return cmd
}
