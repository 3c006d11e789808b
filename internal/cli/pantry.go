package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savorhq/savor/internal/savor"
)

func (a *app) newPantryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Track pantry inventory",
	}
	cmd.AddCommand(
		a.newPantryListCmd(),
		a.newPantryAddCmd(),
		a.newPantryUpdateCmd(),
		a.newPantryDeleteCmd(),
		a.newPantryExpiringCmd(),
		a.newPantrySuggestCmd(),
		a.newPantryDeductCmd(),
		a.newPantryBarcodeCmd(),
	)
	return cmd
}

func (a *app) newPantryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pantry items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.client.Pantry(cmd.Context())
			if err != nil {
				return err
			}
			a.print(items)
			return nil
		},
	}
}

func (a *app) newPantryAddCmd() *cobra.Command {
	var item savor.PantryItemInput
	cmd := &cobra.Command{
		Use:   "add <name>...",
		Short: "Add items to the pantry",
		Long: `Add one or more items to the pantry.

Detail flags (--quantity, --category, --location, --expires) apply to
every item named, so batch adds work best for items sharing a shelf.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]savor.PantryItemInput, len(args))
			for i, name := range args {
				it := item
				it.Name = name
				items[i] = it
			}
			result, err := a.client.AddToPantry(cmd.Context(), items)
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&item.Quantity, "quantity", "q", "", "quantity, e.g. \"2 lbs\"")
	cmd.Flags().StringVar(&item.Category, "category", "", "category, e.g. produce")
	cmd.Flags().StringVar(&item.StorageLocation, "location", "", "storage location, e.g. fridge")
	cmd.Flags().StringVar(&item.ExpirationDate, "expires", "", "expiration date (YYYY-MM-DD)")
	return cmd
}

func (a *app) newPantryUpdateCmd() *cobra.Command {
	var update savor.PantryItemUpdate
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a pantry item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if update == (savor.PantryItemUpdate{}) {
				return fmt.Errorf("nothing to update; pass at least one of --quantity, --category, --location, --expires")
			}
			item, err := a.client.UpdatePantryItem(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			a.print(item)
			return nil
		},
	}
	cmd.Flags().StringVarP(&update.Quantity, "quantity", "q", "", "new quantity")
	cmd.Flags().StringVar(&update.Category, "category", "", "new category")
	cmd.Flags().StringVar(&update.StorageLocation, "location", "", "new storage location")
	cmd.Flags().StringVar(&update.ExpirationDate, "expires", "", "new expiration date")
	return cmd
}

func (a *app) newPantryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a pantry item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeletePantryItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Removed pantry item %s\n", args[0])
			return nil
		},
	}
}

func (a *app) newPantryExpiringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expiring",
		Short: "Show items at or past their expiration date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.ExpiringPantryItems(cmd.Context())
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
}

func (a *app) newPantrySuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Suggest meals you can cook from what you have",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			err := a.spin(cmd.Context(), "checking your pantry", func() error {
				var err error
				result, err = a.client.PantrySuggestions(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
}

func (a *app) newPantryDeductCmd() *cobra.Command {
	var quantity string
	cmd := &cobra.Command{
		Use:   "deduct <name>...",
		Short: "Deduct used items from the pantry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]savor.PantryItemInput, len(args))
			for i, name := range args {
				items[i] = savor.PantryItemInput{Name: name, Quantity: quantity}
			}
			result, err := a.client.DeductFromPantry(cmd.Context(), items)
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "", "amount used, e.g. \"1 cup\"")
	return cmd
}

func (a *app) newPantryBarcodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "barcode <code>",
		Short: "Look up a product by barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.LookupBarcode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
}
