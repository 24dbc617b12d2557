package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteflow-ai/noteflow/internal/model"
	"github.com/noteflow-ai/noteflow/internal/service/content"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List processed content",
	Long:  `List previously processed content records, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")

		return withService(func(ctx context.Context, svc content.Service, owner string) error {
			records, err := svc.History(ctx, owner, model.ContentKind(kind), limit, 0)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No content found.")
				return nil
			}
			for _, record := range records {
				fmt.Printf("#%d  %-10s  %s  %s\n",
					record.ID, record.Kind, record.CreatedAt.Format("2006-01-02 15:04"), record.Title)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("kind", "", "filter by kind (audio, book, video, video_url)")
	historyCmd.Flags().Int("limit", 20, "maximum number of records")
}
