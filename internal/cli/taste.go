package cli

import (
	"github.com/spf13/cobra"

	"github.com/savorhq/savor/internal/savor"
)

func (a *app) newTasteCmd() *cobra.Command {
	var (
		ingredients []string
		allergies   []string
		diet        []string
	)
	cmd := &cobra.Command{
		Use:   "taste <dish>",
		Short: "Check a dish against your allergies and diet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *savor.TasteBuddyResult
			err := a.spin(cmd.Context(), "checking dish", func() error {
				var err error
				result, err = a.client.CheckTasteBuddy(cmd.Context(), args[0], ingredients, allergies, diet)
				return err
			})
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&ingredients, "ingredient", "i", nil, "known ingredient (repeatable)")
	cmd.Flags().StringArrayVar(&allergies, "allergy", nil, "allergy (repeatable)")
	cmd.Flags().StringArrayVar(&diet, "diet", nil, "dietary restriction (repeatable)")
	return cmd
}
