package cli

import (
	"github.com/spf13/cobra"

	"github.com/savorhq/savor/internal/savor"
)

func (a *app) newSuggestCmd() *cobra.Command {
	var (
		hint        string
		excludeDays int
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest meals based on your taste profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var suggestions []savor.MealSuggestion
			err := a.spin(cmd.Context(), "thinking about your next meal", func() error {
				var err error
				suggestions, err = a.client.SuggestMeals(cmd.Context(), hint, excludeDays)
				return err
			})
			if err != nil {
				return err
			}
			a.print(suggestions)
			return nil
		},
	}
	cmd.Flags().StringVar(&hint, "hint", "", "free-form hint, e.g. \"something light\"")
	cmd.Flags().IntVar(&excludeDays, "exclude-days", 0, "avoid dishes logged in the past N days")
	return cmd
}
