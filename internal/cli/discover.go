package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover food, recipes, and trends",
	}
	cmd.AddCommand(
		a.newDiscoverInsightCmd(),
		a.newDiscoverRestaurantsCmd(),
		a.newDiscoverRecipesCmd(),
		a.newDiscoverTrendsCmd(),
		a.newDiscoverTipCmd(),
		a.newDiscoverPairingsCmd(),
	)
	return cmd
}

func (a *app) newDiscoverInsightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insight",
		Short: "Daily insight from your eating history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			err := a.spin(cmd.Context(), "generating insight", func() error {
				var err error
				result, err = a.client.DailyInsight(cmd.Context())
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

func (a *app) newDiscoverRestaurantsCmd() *cobra.Command {
	var (
		lat      float64
		lon      float64
		location string
	)
	cmd := &cobra.Command{
		Use:   "restaurants",
		Short: "Research restaurants near you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := geoPoint(lat, lon)
			if err != nil {
				return err
			}
			if point == nil && location == "" {
				return fmt.Errorf("either --lat/--lon or --location is required")
			}
			var result map[string]any
			var resolved string
			err = a.spin(cmd.Context(), "researching restaurants", func() error {
				var err error
				result, resolved, err = a.client.DiscoverRestaurants(cmd.Context(), point, location)
				return err
			})
			if err != nil {
				return err
			}
			if resolved != "" {
				fmt.Fprintf(a.stdout, "Near %s\n", resolved)
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", unsetCoord, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", unsetCoord, "longitude")
	cmd.Flags().StringVar(&location, "location", "", "named location, e.g. \"Portland, OR\"")
	return cmd
}

func (a *app) newDiscoverRecipesCmd() *cobra.Command {
	var ingredients []string
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Find recipe ideas for given ingredients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ingredients) == 0 {
				return fmt.Errorf("at least one --ingredient is required")
			}
			var result map[string]any
			err := a.spin(cmd.Context(), "finding recipes", func() error {
				var err error
				result, err = a.client.DiscoverRecipes(cmd.Context(), ingredients)
				return err
			})
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&ingredients, "ingredient", "i", nil, "ingredient to build around (repeatable)")
	return cmd
}

func (a *app) newDiscoverTrendsCmd() *cobra.Command {
	var (
		region  string
		cuisine string
	)
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Current food trends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			err := a.spin(cmd.Context(), "researching trends", func() error {
				var err error
				result, err = a.client.FoodTrends(cmd.Context(), region, cuisine)
				return err
			})
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "region to focus on")
	cmd.Flags().StringVar(&cuisine, "cuisine", "", "cuisine to focus on")
	return cmd
}

func (a *app) newDiscoverTipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "A random cooking tip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tip, err := a.client.RandomTip(cmd.Context())
			if err != nil {
				return err
			}
			a.print(tip)
			return nil
		},
	}
}

func (a *app) newDiscoverPairingsCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "pairings <ingredient>",
		Short: "Flavor pairings for an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 || count > 50 {
				return fmt.Errorf("--count must be between 1 and 50, got %d", count)
			}
			pairings, err := a.client.FlavorPairings(cmd.Context(), args[0], count)
			if err != nil {
				return err
			}
			a.print(pairings)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 5, "number of pairings")
	return cmd
}
