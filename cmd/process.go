package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/noteflow-ai/noteflow/internal/config"
	"github.com/noteflow-ai/noteflow/internal/model"
	contentrepo "github.com/noteflow-ai/noteflow/internal/repository/content"
	"github.com/noteflow-ai/noteflow/internal/service/content"
	"github.com/noteflow-ai/noteflow/internal/service/media"
)

// processTimeout bounds a single pipeline run; audio transcription of long
// videos is the slow path
const processTimeout = 30 * time.Minute

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process content from the command line",
	Long:  `Run the full ingestion pipeline on a YouTube URL or a local file.`,
}

// processYoutubeCmd processes a YouTube URL
var processYoutubeCmd = &cobra.Command{
	Use:   "youtube [URL]",
	Short: "Process a YouTube video URL",
	Long:  `Obtain a transcript for the video, summarize it, and store the result.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc content.Service, owner string) error {
			record, err := svc.ProcessVideoURL(ctx, owner, args[0])
			if err != nil {
				return err
			}
			printRecord(record)
			return nil
		})
	},
}

// processFileCmd processes a local audio, video or document file
var processFileCmd = &cobra.Command{
	Use:   "file [PATH]",
	Short: "Process a local audio, video or document file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()

		return withService(func(ctx context.Context, svc content.Service, owner string) error {
			filename := filepath.Base(path)
			var record *model.Content
			switch {
			case media.IsAllowedAudio(filename):
				record, err = svc.ProcessAudioUpload(ctx, owner, filename, f)
			case media.IsAllowedVideo(filename):
				record, err = svc.ProcessVideoUpload(ctx, owner, filename, f)
			case media.IsAllowedBook(filename):
				record, err = svc.ProcessBookUpload(ctx, owner, filename, f)
			default:
				return fmt.Errorf("unsupported file type: %s", filename)
			}
			if err != nil {
				return err
			}
			printRecord(record)
			return nil
		})
	},
}

// withService loads configuration, connects to the database and runs fn
// with an assembled pipeline
func withService(fn func(ctx context.Context, svc content.Service, owner string) error) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	pool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	svc, err := newContentService(cfg, contentrepo.NewRepository(pool))
	if err != nil {
		return err
	}

	return fn(ctx, svc, ownerFlag)
}

func printRecord(record *model.Content) {
	fmt.Printf("Saved content #%d: %s\n\n", record.ID, record.Title)
	if record.Summary != nil {
		fmt.Println("Summary:")
		fmt.Println(*record.Summary)
	}
	if record.ActionItems != nil {
		fmt.Println("\nAction items:")
		fmt.Println(*record.ActionItems)
	}
}

var ownerFlag string

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.AddCommand(processYoutubeCmd)
	processCmd.AddCommand(processFileCmd)
	processCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "default", "owner id to record content under")
}
