package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savorhq/savor/internal/dates"
)

func (a *app) newSearchCmd() *cobra.Command {
	var (
		limit int
		date  string
		from  string
		to    string
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search meal history by text or date",
		Long: `Search meal history.

With a query argument, searches dish names, descriptions, and
ingredients. With --date or --from/--to, returns logs from the given
day or range. Dates accept YYYY-MM-DD, MM/DD/YYYY, MM-DD-YYYY,
"today", "yesterday", or -N for N days ago.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLimit(limit); err != nil {
				return err
			}

			byDate := date != "" || from != "" || to != ""
			if byDate {
				if date != "" && (from != "" || to != "") {
					return fmt.Errorf("--date cannot be combined with --from/--to")
				}
				start, end := from, to
				if date != "" {
					start, end = date, date
				}
				if end == "" {
					end = "today"
				}
				if start == "" {
					return fmt.Errorf("--from is required when --to is given")
				}
				startDay, err := dates.Parse(start)
				if err != nil {
					return err
				}
				endDay, err := dates.Parse(end)
				if err != nil {
					return err
				}
				result, err := a.client.SearchMealsByDate(cmd.Context(), startDay, endDay, limit)
				if err != nil {
					return err
				}
				a.print(mealRows(result.Logs))
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("a search query or a date flag is required")
			}
			result, err := a.client.SearchMeals(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			a.print(mealRows(result.Logs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results")
	cmd.Flags().StringVar(&date, "date", "", "single day to search")
	cmd.Flags().StringVar(&from, "from", "", "range start date")
	cmd.Flags().StringVar(&to, "to", "", "range end date (default today)")
	return cmd
}
