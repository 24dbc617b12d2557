package cmd

import (
	"github.com/rs/zerolog/log"

	"github.com/noteflow-ai/noteflow/internal/config"
	contentrepo "github.com/noteflow-ai/noteflow/internal/repository/content"
	"github.com/noteflow-ai/noteflow/internal/service/caption"
	"github.com/noteflow-ai/noteflow/internal/service/common"
	"github.com/noteflow-ai/noteflow/internal/service/content"
	"github.com/noteflow-ai/noteflow/internal/service/media"
	"github.com/noteflow-ai/noteflow/internal/service/summary"
	"github.com/noteflow-ai/noteflow/internal/service/transcription"
)

// newContentService assembles the full ingestion pipeline from configuration
func newContentService(cfg *config.Config, repo contentrepo.Repository) (content.Service, error) {
	store, err := media.NewStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	cmdRunner := common.NewCmdRunner()
	transcriber := transcription.NewAssemblyAITranscriber(cfg.AssemblyAIAPIKey)

	// The audio fallback only makes sense with a transcription credential
	var fallbackTranscriber transcription.Transcriber
	if cfg.AssemblyAIAPIKey != "" {
		fallbackTranscriber = transcriber
	}

	scrapingClient := caption.NewTimedTextClient()
	resolver := caption.NewResolver([]caption.Strategy{
		caption.NewCaptionsAPIStrategy(caption.NewYouTubeCaptionsAPI(cfg.YouTubeAPIKey)),
		caption.NewYtDlpStrategy(cmdRunner),
		caption.NewScrapingStrategy(scrapingClient, caption.DefaultRetryPolicy()),
		caption.NewAudioStrategy(cmdRunner, fallbackTranscriber),
	}, scrapingClient)

	return content.NewService(
		repo,
		store,
		media.NewAudioExtractor(cmdRunner),
		transcriber,
		resolver,
		summary.NewSummarizer(cfg.OpenAIAPIKey),
		log.Logger,
	), nil
}
