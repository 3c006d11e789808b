package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/savorhq/savor/internal/dates"
	"github.com/savorhq/savor/internal/imagefile"
	"github.com/savorhq/savor/internal/output"
	"github.com/savorhq/savor/internal/savor"
)

// mealRow is the table shape for meal-log listings.
type mealRow struct {
	ID     string
	Dish   string
	Type   string
	Logged string
}

func mealRows(logs []savor.MealLog) []mealRow {
	rows := make([]mealRow, len(logs))
	for i, l := range logs {
		rows[i] = mealRow{
			ID:     l.ID,
			Dish:   l.DishName,
			Type:   l.MealType,
			Logged: dates.Relative(l.Timestamp),
		}
	}
	return rows
}

func (a *app) newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record and manage meal logs",
	}
	cmd.AddCommand(
		a.newLogAddCmd(),
		a.newLogBatchCmd(),
		a.newLogListCmd(),
		a.newLogShowCmd(),
		a.newLogEditCmd(),
		a.newLogDeleteCmd(),
	)
	return cmd
}

// batchOutcome records one image's fate during a batch upload.
type batchOutcome struct {
	Image string
	Err   error
}

func (a *app) newLogBatchCmd() *cobra.Command {
	var (
		parallel int
		mealType string
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Log every meal photo in a directory",
		Long: `Log every meal photo in a directory, uploading in parallel.

Each image becomes one meal log: the file name (without extension) is
the dish name. Files that fail validation are reported and skipped;
the rest still upload.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if parallel < 1 || parallel > 10 {
				return fmt.Errorf("--parallel must be between 1 and 10, got %d", parallel)
			}
			images, err := imagefile.FindImages(args[0])
			if err != nil {
				return err
			}
			if len(images) == 0 {
				fmt.Fprintf(a.stdout, "No images found in %s\n", args[0])
				return nil
			}

			outcomes := make([]batchOutcome, len(images))
			err = a.client.Session(cmd.Context(), func(ctx context.Context) error {
				g, gctx := errgroup.WithContext(ctx)
				g.SetLimit(parallel)
				for i, path := range images {
					g.Go(func() error {
						outcomes[i] = batchOutcome{
							Image: filepath.Base(path),
							Err:   a.logImage(gctx, path, mealType),
						}
						return nil
					})
				}
				return g.Wait()
			})
			if err != nil {
				return err
			}

			logged := 0
			for _, o := range outcomes {
				if o.Err == nil {
					logged++
				}
			}
			fmt.Fprintln(a.stdout, output.Successf("%d/%d meals logged", logged, len(images)))
			if logged < len(images) {
				fmt.Fprintln(a.stdout, output.Warnf("%d failed:", len(images)-logged))
				for _, o := range outcomes {
					if o.Err != nil {
						fmt.Fprintf(a.stdout, "  %s: %v\n", o.Image, o.Err)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 5, "maximum concurrent uploads (1-10)")
	cmd.Flags().StringVarP(&mealType, "type", "t", "", "meal type applied to every image")
	return cmd
}

// logImage uploads one photo as a meal log named after the file.
func (a *app) logImage(ctx context.Context, path, mealType string) error {
	encoded, err := imagefile.ReadBase64(path)
	if err != nil {
		return err
	}
	base := filepath.Base(path)
	_, err = a.client.CreateMealLog(ctx, savor.MealLogInput{
		DishName:    strings.TrimSuffix(base, filepath.Ext(base)),
		Description: fmt.Sprintf("Logged from %s", base),
		MealType:    mealType,
		ImageBase64: encoded,
	})
	return err
}

func (a *app) newLogAddCmd() *cobra.Command {
	var (
		description string
		mealType    string
		imagePath   string
		resolution  string
		calories    int
		protein     int
		carbs       int
		fat         int
	)
	cmd := &cobra.Command{
		Use:   "add <dish>",
		Short: "Log a meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := savor.MealLogInput{
				DishName:    args[0],
				Description: description,
				MealType:    mealType,
			}

			nutrition := map[string]int{}
			for k, v := range map[string]int{"calories": calories, "protein": protein, "carbs": carbs, "fat": fat} {
				if v > 0 {
					nutrition[k] = v
				}
			}
			if len(nutrition) > 0 {
				in.Nutrition = nutrition
			}

			if imagePath != "" {
				encoded, err := imagefile.ReadBase64(imagePath)
				if err != nil {
					return err
				}
				in.ImageBase64 = encoded
				if resolution == "" {
					if resolution, err = imagefile.AutoResolution(imagePath); err != nil {
						return err
					}
				} else if resolution, err = imagefile.ValidResolution(resolution); err != nil {
					return err
				}
				// Run analysis first so the log carries detected nutrition.
				var analysis map[string]any
				err = a.spin(cmd.Context(), "analyzing image", func() error {
					analysis, err = a.client.AnalyzeImage(cmd.Context(), encoded, resolution)
					return err
				})
				if err != nil {
					return err
				}
				if desc, ok := analysis["description"].(string); ok && in.Description == "" {
					in.Description = desc
				}
			}

			log, err := a.client.CreateMealLog(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.print(log)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "notes about the meal")
	cmd.Flags().StringVarP(&mealType, "type", "t", "", "meal type (breakfast, lunch, dinner, snack)")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to a photo of the meal")
	cmd.Flags().StringVar(&resolution, "resolution", "", "image analysis resolution (low, medium, high; auto by size)")
	cmd.Flags().IntVar(&calories, "calories", 0, "calories")
	cmd.Flags().IntVar(&protein, "protein", 0, "protein in grams")
	cmd.Flags().IntVar(&carbs, "carbs", 0, "carbohydrates in grams")
	cmd.Flags().IntVar(&fat, "fat", 0, "fat in grams")
	return cmd
}

func (a *app) newLogListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent meal logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLimit(limit); err != nil {
				return err
			}
			logs, err := a.client.MealLogs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			a.print(mealRows(logs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of logs")
	return cmd
}

func (a *app) newLogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one meal log in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := a.client.MealLogByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.print(log)
			return nil
		},
	}
}

func (a *app) newLogEditCmd() *cobra.Command {
	var update savor.MealLogUpdate
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a meal log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if update == (savor.MealLogUpdate{}) {
				return fmt.Errorf("nothing to update; pass at least one of --dish, --notes, --type, --venue")
			}
			log, err := a.client.UpdateMealLog(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			a.print(log)
			return nil
		},
	}
	cmd.Flags().StringVar(&update.DishName, "dish", "", "new dish name")
	cmd.Flags().StringVar(&update.Notes, "notes", "", "new notes")
	cmd.Flags().StringVar(&update.MealType, "type", "", "new meal type")
	cmd.Flags().StringVar(&update.VenueName, "venue", "", "new venue name")
	return cmd
}

func (a *app) newLogDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a meal log",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteMealLog(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Deleted meal log %s\n", args[0])
			return nil
		},
	}
}
