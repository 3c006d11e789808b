package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Taste profile and eating analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			a.print(profile)
			return nil
		},
	}
	cmd.AddCommand(
		a.newProfileLifetimeCmd(),
		a.newProfileStatsCmd(),
		a.newProfileStreakCmd(),
	)
	return cmd
}

func (a *app) newProfileLifetimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lifetime",
		Short: "Lifetime eating statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.client.LifetimeStats(cmd.Context())
			if err != nil {
				return err
			}
			a.print(stats)
			return nil
		},
	}
}

func (a *app) newProfileStatsCmd() *cobra.Command {
	var (
		period string
		days   int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Food stats for a period, or nutrition analytics for a day window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days > 0 {
				stats, err := a.client.NutritionAnalytics(cmd.Context(), days)
				if err != nil {
					return err
				}
				a.print(stats)
				return nil
			}
			switch period {
			case "week", "month", "year":
			default:
				return fmt.Errorf("invalid period %q; must be week, month, or year", period)
			}
			stats, err := a.client.FoodStats(cmd.Context(), period)
			if err != nil {
				return err
			}
			a.print(stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "week", "stats period: week, month, or year")
	cmd.Flags().IntVar(&days, "days", 0, "nutrition analytics over the past N days instead")
	return cmd
}

func (a *app) newProfileStreakCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Logging streak over recent days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
			streak, err := a.client.Streak(cmd.Context(), days)
			if err != nil {
				return err
			}
			a.print(streak)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "window size in days")
	return cmd
}
