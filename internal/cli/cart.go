package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"storefront-shell/internal/domain"
	"storefront-shell/internal/importer"
)

func newCartCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the persisted cart",
	}
	cmd.AddCommand(
		newCartListCommand(rt),
		newCartAddCommand(rt),
		newCartRemoveCommand(rt),
		newCartClearCommand(rt),
		newCartQtyCommand(rt),
		newCartValidateCommand(rt),
		newCartPayloadCommand(rt),
		newCartImportCommand(rt),
	)
	return cmd
}

func newCartListCommand(rt *runtime) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cart lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				return writeJSON(cmd, rt.app.Cart.Summary())
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPRICE\tQTY\tSUBTOTAL")
			for _, it := range rt.app.Cart.Items() {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%.2f\n", it.ID, it.Title, it.Price, it.Quantity, it.Subtotal())
			}
			fmt.Fprintf(w, "\t\t\t%d\t%.2f\n", rt.app.Cart.Count(), rt.app.Cart.Total())
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the cart summary as JSON")
	return cmd
}

func newCartAddCommand(rt *runtime) *cobra.Command {
	var (
		quantity int
		title    string
		price    float64
		image    string
	)
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product, fetching it from the storefront API unless --title and --price are given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ID(args[0])
			product := domain.Product{ID: id, Title: title, Price: price, ImageURL: image}
			if title == "" || price <= 0 {
				fetched, err := rt.app.Catalog.GetProduct(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("fetch product %s: %w", id, err)
				}
				product = *fetched
			}
			line, err := rt.app.Cart.AddItem(product, quantity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s x%d\n", line.Title, line.Quantity)
			return nil
		},
	}
	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "quantity to add")
	cmd.Flags().StringVar(&title, "title", "", "product title")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")
	cmd.Flags().StringVar(&image, "image", "", "image URL")
	return cmd
}

func newCartRemoveCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rt.app.Cart.RemoveItem(domain.ID(args[0])) {
				return fmt.Errorf("product %s: %w", args[0], domain.ErrNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "removed", args[0])
			return nil
		},
	}
}

func newCartClearCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.app.Cart.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
			return nil
		},
	}
}

func newCartQtyCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <product-id> <quantity>",
		Short: "Set a line's quantity (values below 1 become 1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			id := domain.ID(args[0])
			if !rt.app.Cart.SetQuantity(id, n) {
				return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
			}
			line, _ := rt.app.Cart.Get(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s x%d\n", line.Title, line.Quantity)
			return nil
		},
	}
}

func newCartValidateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report problems that would block checkout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Cart.Validate()
			for _, problem := range v.Errors {
				fmt.Fprintln(cmd.OutOrStdout(), problem)
			}
			if !v.IsValid {
				return errInvalidCart
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newCartPayloadCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "payload",
		Short: "Print the order payload the cart would submit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd, rt.app.Cart.ToOrderPayload())
		},
	}
}

func newCartImportCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Add rows of product_id,title,price,image_url,quantity to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			count, err := importer.NewCSVImporter(f, rt.app.Cart, rt.app.Catalog).Run(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows\n", count)
			return err
		},
	}
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
