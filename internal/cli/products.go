package cli

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/jrsteele09/go-inventory-dashboard/inventory"
	"github.com/spf13/cobra"
)

func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List, show and create products",
	}
	cmd.AddCommand(newProductsListCommand(rootOpts))
	cmd.AddCommand(newProductsGetCommand(rootOpts))
	cmd.AddCommand(newProductsCreateCommand(rootOpts))
	return cmd
}

func newProductsListCommand(rootOpts *RootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := rootOpts.env(cmd)
			var query url.Values
			if search != "" {
				query = url.Values{"search": {search}}
			}
			page, err := e.client.ListProducts(cmd.Context(), query)
			if err != nil {
				return backendError("Error al cargar productos", err)
			}
			return e.out.Print(page, func(w io.Writer) error {
				return writeProducts(w, page)
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by code or name")
	return cmd
}

func writeProducts(w io.Writer, page inventory.Page[inventory.Product]) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODIGO\tNOMBRE\tPRECIO VENTA\tPRECIO COSTO")
	for _, p := range page.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Codigo, p.Nombre, p.PrecioVenta, p.PrecioCosto)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d de %d productos\n", len(page.Results), page.Count)
	return err
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", arg))
	}
	return id, nil
}

func newProductsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e := rootOpts.env(cmd)
			p, err := e.client.GetProduct(cmd.Context(), id)
			if err != nil {
				return backendError("Error al cargar productos", err)
			}
			return e.out.Print(p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s\nDescripción: %s\nPrecio venta: %s\nPrecio costo: %s\nCategoría: %d\n",
					p.Label(), p.Descripcion, p.PrecioVenta, p.PrecioCosto, p.Categoria)
				return err
			})
		},
	}
}

func newProductsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var form inventory.ProductForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Long: `Create a product. codigo, nombre and categoria are required; prices that
do not parse are sent as 0.

Example:
  inventario products create --codigo PROD-002 --nombre Ibuprofeno --categoria 1 --precio-venta 9.90`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := form.Input()
			if err != nil {
				return WrapExitError(ExitCommandError, "Error al crear producto", err)
			}
			e := rootOpts.env(cmd)
			p, err := e.client.CreateProduct(cmd.Context(), input)
			if err != nil {
				return backendError("Error al crear producto", err)
			}
			return e.out.Print(p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Producto creado: %d %s\n", p.ID, p.Label())
				return err
			})
		},
	}
	cmd.Flags().StringVar(&form.Codigo, "codigo", "", "product code")
	cmd.Flags().StringVar(&form.Nombre, "nombre", "", "product name")
	cmd.Flags().StringVar(&form.Descripcion, "descripcion", "", "description")
	cmd.Flags().StringVar(&form.PrecioVenta, "precio-venta", "0", "sale price")
	cmd.Flags().StringVar(&form.PrecioCosto, "precio-costo", "0", "cost price")
	cmd.Flags().StringVar(&form.Categoria, "categoria", "", "category id")
	return cmd
}
