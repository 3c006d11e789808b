package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savorhq/savor/internal/savor"
)

func (a *app) newLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Generate product labels",
	}
	cmd.AddCommand(a.newLabelsCottageCmd())
	return cmd
}

func (a *app) newLabelsCottageCmd() *cobra.Command {
	var in savor.CottageLabelInput
	cmd := &cobra.Command{
		Use:   "cottage <product>",
		Short: "Generate a cottage-food label with allergen warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ProductName = args[0]
			if len(in.Ingredients) == 0 {
				return fmt.Errorf("at least one --ingredient is required")
			}
			var label *savor.CottageLabel
			err := a.spin(cmd.Context(), "building label", func() error {
				var err error
				label, err = a.client.GenerateCottageLabel(cmd.Context(), in)
				return err
			})
			if err != nil {
				return err
			}
			a.print(label)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&in.Ingredients, "ingredient", "i", nil, "ingredient in descending weight order (repeatable)")
	cmd.Flags().StringVar(&in.NetWeight, "weight", "", "net weight, e.g. \"12 oz\"")
	cmd.Flags().StringVar(&in.BusinessName, "business", "", "producer business name")
	cmd.Flags().StringVar(&in.BusinessAddress, "address", "", "producer address")
	cmd.Flags().BoolVar(&in.IsRefrigerated, "refrigerated", false, "product requires refrigeration")
	return cmd
}
