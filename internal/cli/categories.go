package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jrsteele09/go-inventory-dashboard/inventory"
	"github.com/spf13/cobra"
)

func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List and create categories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := rootOpts.env(cmd)
			page, err := e.client.ListCategories(cmd.Context(), nil)
			if err != nil {
				return backendError("Error al cargar categorías", err)
			}
			return e.out.Print(page, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNOMBRE\tDESCRIPCION")
				for _, c := range page.Results {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Nombre, c.Descripcion)
				}
				return tw.Flush()
			})
		},
	})

	var in inventory.NewCategory
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.Validate(); err != nil {
				return WrapExitError(ExitCommandError, "Error al crear categoría", err)
			}
			e := rootOpts.env(cmd)
			c, err := e.client.CreateCategory(cmd.Context(), in)
			if err != nil {
				return backendError("Error al crear categoría", err)
			}
			return e.out.Print(c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Categoría creada: %d %s\n", c.ID, c.Nombre)
				return err
			})
		},
	}
	create.Flags().StringVar(&in.Nombre, "nombre", "", "category name")
	create.Flags().StringVar(&in.Descripcion, "descripcion", "", "description")
	cmd.AddCommand(create)

	return cmd
}
