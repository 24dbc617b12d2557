package caption

import (
	"context"
	"fmt"
	"strings"

	"github.com/noteflow-ai/noteflow/internal/errors"
	"github.com/noteflow-ai/noteflow/internal/model"
)

// Strategy source tags recorded on the resolved transcript
const (
	SourceCaptionsAPI        = "captions-api"
	SourceYtDlp              = "yt-dlp"
	SourceScrapingAPI        = "scraping-api"
	SourceScrapingTranslated = "scraping-api-translated"
	SourceAudioTranscription = "audio-transcription"
)

// maxListedTracks caps the available-caption-track list in failure messages
const maxListedTracks = 5

// Strategy is one method of obtaining a transcript for a video. Attempt
// never returns an error: every failure mode is expressed as an Outcome so
// the resolver can decide whether to fall through or stop.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, videoID string) model.Outcome
}

// TrackLister enumerates available caption tracks; used only to enrich the
// final failure message.
type TrackLister interface {
	ListTranscripts(ctx context.Context, videoID string) ([]model.CaptionTrack, error)
}

// Resolver obtains a transcript for a remote video through an ordered chain
// of acquisition strategies, stopping at the first success.
type Resolver interface {
	Resolve(ctx context.Context, videoURL string) (*model.ResolvedTranscript, error)
}

// resolver implements Resolver over an ordered strategy chain
type resolver struct {
	strategies []Strategy
	lister     TrackLister // may be nil
}

// NewResolver creates a Resolver that runs the given strategies in order.
// lister may be nil; when set it is consulted only while composing the
// final failure message.
func NewResolver(strategies []Strategy, lister TrackLister) Resolver {
	return &resolver{
		strategies: strategies,
		lister:     lister,
	}
}

// Resolve runs the strategy chain and returns the first non-empty transcript.
// Strategies are never combined; the chain stops at the first success.
func (r *resolver) Resolve(ctx context.Context, videoURL string) (*model.ResolvedTranscript, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	disabledSeen := false

	for _, strategy := range r.strategies {
		outcome := strategy.Attempt(ctx, videoID)

		switch outcome.Status {
		case model.OutcomeSuccess:
			if strings.TrimSpace(outcome.Text) != "" {
				return &model.ResolvedTranscript{
					Text:   outcome.Text,
					Source: outcome.Strategy,
				}, nil
			}
			// An empty success is treated as no result

		case model.OutcomeUnavailable:
			// Terminal: nothing further can work on an unavailable video
			return nil, errors.New(errors.CodeUnavailable, unavailableMessage)

		case model.OutcomeDisabled:
			// Terminal for caption strategies, but the audio fallback later
			// in the chain may still succeed
			disabledSeen = true
		}
		// OutcomeNotFound and OutcomeTransient fall through to the next strategy
	}

	if disabledSeen {
		return nil, errors.New(errors.CodeDisabled, disabledMessage)
	}

	return nil, errors.New(errors.CodeNoTranscript, r.composeFailureMessage(ctx, videoID))
}

// composeFailureMessage builds the multi-cause explanation returned when
// every strategy came up empty
func (r *resolver) composeFailureMessage(ctx context.Context, videoID string) string {
	if r.lister != nil {
		tracks, err := r.lister.ListTranscripts(ctx, videoID)
		if err == nil && len(tracks) > 0 {
			var available []string
			for _, track := range tracks {
				kind := "manual"
				if track.Generated {
					kind = "auto"
				}
				available = append(available, fmt.Sprintf("• %s (%s)", track.LanguageName, kind))
				if len(available) == maxListedTracks {
					break
				}
			}
			return "⚠️ Could not find supported language transcript.\n\n" +
				"Available transcripts:\n" + strings.Join(available, "\n") +
				"\n\n💡 Try uploading the video file directly for better results!"
		}
	}

	return noCaptionsMessage
}

const disabledMessage = "⚠️ This video has transcripts disabled.\n\n" +
	"Please try:\n" +
	"1. A different video with captions enabled\n" +
	"2. Uploading the video file directly"

const unavailableMessage = "⚠️ This video is unavailable.\n\n" +
	"It might be:\n" +
	"• Private or deleted\n" +
	"• Region-restricted\n" +
	"• Age-restricted\n\n" +
	"Try a different public video."

const noCaptionsMessage = "⚠️ No captions/transcripts available for this video.\n\n" +
	"This could be because:\n" +
	"• The video has no captions\n" +
	"• YouTube is blocking automated access\n" +
	"• The video is region-restricted\n\n" +
	"📹 **Solution:** Download the video and upload it directly!\n" +
	"This works 100% of the time and gives better quality."
