package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savorhq/savor/internal/savor"
)

// draftRow is the table shape for draft listings.
type draftRow struct {
	ID     string
	Title  string
	Type   string
	Status string
}

func draftRows(drafts []savor.Draft) []draftRow {
	rows := make([]draftRow, len(drafts))
	for i, d := range drafts {
		rows[i] = draftRow{ID: d.ID, Title: d.Title, Type: d.ContentType, Status: d.Status}
	}
	return rows
}

func (a *app) newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Generate and publish content from your meal logs",
	}
	cmd.AddCommand(
		a.newPublishGenerateCmd(),
		a.newPublishDraftsCmd(),
		a.newPublishShowCmd(),
		a.newPublishEditCmd(),
		a.newPublishDeleteCmd(),
		a.newPublishPostCmd(),
		a.newPublishPublishedCmd(),
	)
	return cmd
}

func (a *app) newPublishGenerateCmd() *cobra.Command {
	var (
		contentType string
		logIDs      []string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a content draft from meal logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch contentType {
			case "blog", "social", "newsletter":
			default:
				return fmt.Errorf("invalid content type %q; must be blog, social, or newsletter", contentType)
			}
			if len(logIDs) == 0 {
				return fmt.Errorf("at least one --log is required")
			}
			var result map[string]any
			err := a.spin(cmd.Context(), "writing draft", func() error {
				var err error
				result, err = a.client.GenerateContent(cmd.Context(), contentType, logIDs)
				return err
			})
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&contentType, "type", "t", "blog", "content type: blog, social, or newsletter")
	cmd.Flags().StringArrayVar(&logIDs, "log", nil, "meal log ID to draw from (repeatable)")
	return cmd
}

func (a *app) newPublishDraftsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drafts",
		Short: "List content drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := a.client.Drafts(cmd.Context())
			if err != nil {
				return err
			}
			a.print(draftRows(drafts))
			return nil
		},
	}
}

func (a *app) newPublishShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a draft in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := a.client.DraftByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.print(draft)
			return nil
		},
	}
}

func (a *app) newPublishEditCmd() *cobra.Command {
	var update savor.DraftUpdate
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if update == (savor.DraftUpdate{}) {
				return fmt.Errorf("nothing to update; pass at least one of --title, --content, --status")
			}
			draft, err := a.client.UpdateDraft(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			a.print(draft)
			return nil
		},
	}
	cmd.Flags().StringVar(&update.Title, "title", "", "new title")
	cmd.Flags().StringVar(&update.Content, "content", "", "new body text")
	cmd.Flags().StringVar(&update.Status, "status", "", "new status, e.g. ready")
	return cmd
}

func (a *app) newPublishDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a draft",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteDraft(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Deleted draft %s\n", args[0])
			return nil
		},
	}
}

func (a *app) newPublishPostCmd() *cobra.Command {
	var platforms []string
	cmd := &cobra.Command{
		Use:   "post <id>",
		Short: "Publish a draft to platforms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(platforms) == 0 {
				return fmt.Errorf("at least one --platform is required")
			}
			var result map[string]any
			err := a.spin(cmd.Context(), "publishing", func() error {
				var err error
				result, err = a.client.PublishDraft(cmd.Context(), args[0], platforms)
				return err
			})
			if err != nil {
				return err
			}
			a.print(result)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&platforms, "platform", nil, "target platform (repeatable)")
	return cmd
}

func (a *app) newPublishPublishedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "published",
		Short: "List published content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			published, err := a.client.PublishedContent(cmd.Context())
			if err != nil {
				return err
			}
			a.print(published)
			return nil
		},
	}
}
