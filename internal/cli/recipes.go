package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savorhq/savor/internal/imagefile"
	"github.com/savorhq/savor/internal/savor"
)

// recipeRow is the table shape for recipe listings.
type recipeRow struct {
	ID       string
	Name     string
	Servings int
	Favorite string
	Source   string
}

func recipeRows(recipes []savor.Recipe) []recipeRow {
	rows := make([]recipeRow, len(recipes))
	for i, r := range recipes {
		fav := ""
		if r.IsFavorite {
			fav = "*"
		}
		rows[i] = recipeRow{ID: r.ID, Name: r.Name, Servings: r.Servings, Favorite: fav, Source: r.Source}
	}
	return rows
}

func (a *app) newRecipesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage your recipe collection",
	}
	cmd.AddCommand(
		a.newRecipesListCmd(),
		a.newRecipesShowCmd(),
		a.newRecipesAddCmd(),
		a.newRecipesGenerateCmd(),
		a.newRecipesScaleCmd(),
		a.newRecipesStandardizeCmd(),
		a.newRecipesImportImageCmd(),
		a.newRecipesFavoriteCmd(),
		a.newRecipesArchiveCmd(),
		a.newRecipesDeleteCmd(),
	)
	return cmd
}

func (a *app) newRecipesListCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch filter {
			case "", "all", "favorites", "archived":
			default:
				return fmt.Errorf("invalid filter %q; must be all, favorites, or archived", filter)
			}
			recipes, err := a.client.Recipes(cmd.Context(), filter)
			if err != nil {
				return err
			}
			a.print(recipeRows(recipes))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "filter: all, favorites, or archived")
	return cmd
}

func (a *app) newRecipesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recipe in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := a.client.RecipeByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.print(recipe)
			return nil
		},
	}
}

func (a *app) newRecipesAddCmd() *cobra.Command {
	var in savor.RecipeInput
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Save a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			recipe, err := a.client.CreateRecipe(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.print(recipe)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&in.Ingredients, "ingredient", "i", nil, "ingredient (repeatable)")
	cmd.Flags().StringArrayVar(&in.Instructions, "step", nil, "instruction step (repeatable)")
	cmd.Flags().IntVar(&in.Servings, "servings", 0, "number of servings")
	cmd.Flags().StringVar(&in.Source, "source", "", "where the recipe came from")
	return cmd
}

func (a *app) newRecipesGenerateCmd() *cobra.Command {
	var in savor.GenerateRecipeInput
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a recipe from ingredients and constraints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var recipe *savor.Recipe
			err := a.spin(cmd.Context(), "generating recipe", func() error {
				var err error
				recipe, err = a.client.GenerateRecipe(cmd.Context(), in)
				return err
			})
			if err != nil {
				return err
			}
			a.print(recipe)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&in.Ingredients, "ingredient", "i", nil, "ingredient to use (repeatable)")
	cmd.Flags().StringVar(&in.Cuisine, "cuisine", "", "cuisine style")
	cmd.Flags().StringArrayVar(&in.DietaryRestrictions, "diet", nil, "dietary restriction (repeatable)")
	cmd.Flags().StringVar(&in.MealType, "type", "", "meal type")
	cmd.Flags().StringVar(&in.Difficulty, "difficulty", "", "difficulty: easy, medium, or hard")
	return cmd
}

func (a *app) newRecipesScaleCmd() *cobra.Command {
	var servings int
	cmd := &cobra.Command{
		Use:   "scale <id>",
		Short: "Scale a recipe to a serving count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if servings < 1 {
				return fmt.Errorf("--servings must be positive, got %d", servings)
			}
			recipe, err := a.client.ScaleRecipe(cmd.Context(), args[0], servings)
			if err != nil {
				return err
			}
			a.print(recipe)
			return nil
		},
	}
	cmd.Flags().IntVar(&servings, "servings", 0, "target serving count")
	cmd.MarkFlagRequired("servings")
	return cmd
}

func (a *app) newRecipesStandardizeCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "standardize [text]",
		Short: "Turn free-form recipe text into a structured recipe",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			switch {
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read recipe text: %w", err)
				}
				raw = string(data)
			case len(args) == 1:
				raw = args[0]
			default:
				return fmt.Errorf("pass recipe text as an argument or with --file")
			}
			if strings.TrimSpace(raw) == "" {
				return fmt.Errorf("recipe text is empty")
			}

			var recipe *savor.Recipe
			err := a.spin(cmd.Context(), "standardizing recipe", func() error {
				var err error
				recipe, err = a.client.StandardizeRecipe(cmd.Context(), raw)
				return err
			})
			if err != nil {
				return err
			}
			a.print(recipe)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read recipe text from a file")
	return cmd
}

func (a *app) newRecipesImportImageCmd() *cobra.Command {
	var resolution string
	cmd := &cobra.Command{
		Use:   "import-image <path>",
		Short: "Extract a recipe from a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded, err := imagefile.ReadBase64(args[0])
			if err != nil {
				return err
			}
			if resolution == "" {
				if resolution, err = imagefile.AutoResolution(args[0]); err != nil {
					return err
				}
			} else if resolution, err = imagefile.ValidResolution(resolution); err != nil {
				return err
			}

			var extracted map[string]any
			err = a.spin(cmd.Context(), "reading recipe from image", func() error {
				extracted, err = a.client.ExtractRecipeFromImage(cmd.Context(), encoded, resolution)
				return err
			})
			if err != nil {
				return err
			}
			a.print(extracted)
			return nil
		},
	}
	cmd.Flags().StringVar(&resolution, "resolution", "", "analysis resolution (low, medium, high; auto by size)")
	return cmd
}

func (a *app) newRecipesFavoriteCmd() *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Mark a recipe as a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := a.client.SetRecipeFavorite(cmd.Context(), args[0], !remove)
			if err != nil {
				return err
			}
			a.print(recipe)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "unmark instead")
	return cmd
}

func (a *app) newRecipesArchiveCmd() *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := a.client.SetRecipeArchived(cmd.Context(), args[0], !remove)
			if err != nil {
				return err
			}
			a.print(recipe)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "unarchive instead")
	return cmd
}

func (a *app) newRecipesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a recipe",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteRecipe(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Deleted recipe %s\n", args[0])
			return nil
		},
	}
}
