package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newSafetyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "safety",
		Short: "Food safety checks",
	}
	cmd.AddCommand(
		a.newSafetyRecallsCmd(),
		a.newSafetyInteractionsCmd(),
		a.newSafetyAllergensCmd(),
		a.newSafetyRestaurantCmd(),
	)
	return cmd
}

func (a *app) newSafetyRecallsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalls [food]...",
		Short: "Check active recalls, optionally for specific foods",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			err := a.spin(cmd.Context(), "checking recalls", func() error {
				var err error
				result, err = a.client.CheckRecalls(cmd.Context(), args)
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

func (a *app) newSafetyInteractionsCmd() *cobra.Command {
	var (
		foods []string
		meds  []string
	)
	cmd := &cobra.Command{
		Use:   "interactions",
		Short: "Check food and medication interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(foods) == 0 || len(meds) == 0 {
				return fmt.Errorf("at least one --food and one --med are required")
			}
			var result map[string]any
			err := a.spin(cmd.Context(), "checking interactions", func() error {
				var err error
				result, err = a.client.CheckDrugInteractions(cmd.Context(), foods, meds)
				return err
			})
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&foods, "food", nil, "food item (repeatable)")
	cmd.Flags().StringArrayVar(&meds, "med", nil, "medication (repeatable)")
	return cmd
}

func (a *app) newSafetyAllergensCmd() *cobra.Command {
	var allergies []string
	cmd := &cobra.Command{
		Use:   "allergens <food>...",
		Short: "Check foods against your allergies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			err := a.spin(cmd.Context(), "checking allergens", func() error {
				var err error
				result, err = a.client.CheckAllergens(cmd.Context(), args, allergies)
				return err
			})
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&allergies, "allergy", nil, "allergy to check against (repeatable)")
	return cmd
}

func (a *app) newSafetyRestaurantCmd() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "restaurant <name>",
		Short: "Look up restaurant inspection history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			err := a.spin(cmd.Context(), "looking up inspections", func() error {
				var err error
				result, err = a.client.RestaurantSafety(cmd.Context(), args[0], location)
				return err
			})
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "city or area to narrow the search")
	return cmd
}
