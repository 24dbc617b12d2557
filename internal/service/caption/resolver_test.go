package caption

import (
	"context"
	"testing"

	"github.com/noteflow-ai/noteflow/internal/errors"
	"github.com/noteflow-ai/noteflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockStrategy for testing
type mockStrategy struct {
	mock.Mock
	name string
}

func (m *mockStrategy) Name() string {
	return m.name
}

func (m *mockStrategy) Attempt(ctx context.Context, videoID string) model.Outcome {
	args := m.Called(ctx, videoID)
	return args.Get(0).(model.Outcome)
}

// mockTrackLister for testing
type mockTrackLister struct {
	mock.Mock
}

func (m *mockTrackLister) ListTranscripts(ctx context.Context, videoID string) ([]model.CaptionTrack, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CaptionTrack), args.Error(1)
}

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func TestResolver_FirstSuccessShortCircuits(t *testing.T) {
	first := &mockStrategy{name: SourceCaptionsAPI}
	second := &mockStrategy{name: SourceYtDlp}

	first.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceCaptionsAPI,
		Status:   model.OutcomeSuccess,
		Text:     "hello from captions",
	})

	resolver := NewResolver([]Strategy{first, second}, nil)
	result, err := resolver.Resolve(context.Background(), testVideoURL)

	require.NoError(t, err)
	assert.Equal(t, "hello from captions", result.Text)
	assert.Equal(t, SourceCaptionsAPI, result.Source)
	// The second strategy must never run once a transcript is found
	second.AssertNotCalled(t, "Attempt", mock.Anything, mock.Anything)
}

func TestResolver_EmptySuccessFallsThrough(t *testing.T) {
	first := &mockStrategy{name: SourceCaptionsAPI}
	second := &mockStrategy{name: SourceYtDlp}

	first.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceCaptionsAPI,
		Status:   model.OutcomeSuccess,
		Text:     "   ",
	})
	second.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceYtDlp,
		Status:   model.OutcomeSuccess,
		Text:     "real transcript",
	})

	resolver := NewResolver([]Strategy{first, second}, nil)
	result, err := resolver.Resolve(context.Background(), testVideoURL)

	require.NoError(t, err)
	assert.Equal(t, SourceYtDlp, result.Source)
}

func TestResolver_InvalidURLSkipsAllStrategies(t *testing.T) {
	strategy := &mockStrategy{name: SourceCaptionsAPI}

	resolver := NewResolver([]Strategy{strategy}, nil)
	result, err := resolver.Resolve(context.Background(), "https://example.com/not-youtube")

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidRef, errors.Code(err))
	strategy.AssertNotCalled(t, "Attempt", mock.Anything, mock.Anything)
}

func TestResolver_UnavailableIsTerminal(t *testing.T) {
	first := &mockStrategy{name: SourceScrapingAPI}
	second := &mockStrategy{name: SourceAudioTranscription}

	first.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceScrapingAPI,
		Status:   model.OutcomeUnavailable,
	})

	resolver := NewResolver([]Strategy{first, second}, nil)
	result, err := resolver.Resolve(context.Background(), testVideoURL)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnavailable, errors.Code(err))
	assert.Contains(t, err.Error(), "unavailable")
	second.AssertNotCalled(t, "Attempt", mock.Anything, mock.Anything)
}

func TestResolver_DisabledStillRunsAudioFallback(t *testing.T) {
	scraping := &mockStrategy{name: SourceScrapingAPI}
	audio := &mockStrategy{name: SourceAudioTranscription}

	scraping.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceScrapingAPI,
		Status:   model.OutcomeDisabled,
	})
	audio.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceAudioTranscription,
		Status:   model.OutcomeSuccess,
		Text:     "transcribed from audio",
	})

	resolver := NewResolver([]Strategy{scraping, audio}, nil)
	result, err := resolver.Resolve(context.Background(), testVideoURL)

	require.NoError(t, err)
	assert.Equal(t, SourceAudioTranscription, result.Source)
	assert.Equal(t, "transcribed from audio", result.Text)
}

func TestResolver_ScrapingSuccessSkipsAudioFallback(t *testing.T) {
	scraping := &mockStrategy{name: SourceScrapingAPI}
	audio := &mockStrategy{name: SourceAudioTranscription}

	scraping.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy:  SourceScrapingAPI,
		Languages: []string{"a.en"},
		Status:    model.OutcomeSuccess,
		Text:      "auto-generated english",
	})

	resolver := NewResolver([]Strategy{scraping, audio}, nil)
	result, err := resolver.Resolve(context.Background(), testVideoURL)

	require.NoError(t, err)
	assert.Equal(t, SourceScrapingAPI, result.Source)
	audio.AssertNotCalled(t, "Attempt", mock.Anything, mock.Anything)
}

func TestResolver_DisabledAfterExhaustion(t *testing.T) {
	scraping := &mockStrategy{name: SourceScrapingAPI}
	audio := &mockStrategy{name: SourceAudioTranscription}

	scraping.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceScrapingAPI,
		Status:   model.OutcomeDisabled,
	})
	audio.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceAudioTranscription,
		Status:   model.OutcomeNotFound,
	})

	resolver := NewResolver([]Strategy{scraping, audio}, nil)
	result, err := resolver.Resolve(context.Background(), testVideoURL)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, errors.CodeDisabled, errors.Code(err))
	assert.Contains(t, err.Error(), "transcripts disabled")
}

func TestResolver_FullMissListsAvailableTracks(t *testing.T) {
	strategy := &mockStrategy{name: SourceScrapingAPI}
	lister := &mockTrackLister{}

	strategy.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceScrapingAPI,
		Status:   model.OutcomeNotFound,
	})
	lister.On("ListTranscripts", mock.Anything, "dQw4w9WgXcQ").Return([]model.CaptionTrack{
		{Language: "zh", LanguageName: "Chinese", Generated: false},
		{Language: "th", LanguageName: "Thai", Generated: true},
		{Language: "vi", LanguageName: "Vietnamese", Generated: false},
		{Language: "id", LanguageName: "Indonesian", Generated: false},
		{Language: "tr", LanguageName: "Turkish", Generated: true},
		{Language: "pl", LanguageName: "Polish", Generated: false},
	}, nil)

	resolver := NewResolver([]Strategy{strategy}, lister)
	result, err := resolver.Resolve(context.Background(), testVideoURL)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNoTranscript, errors.Code(err))
	assert.Contains(t, err.Error(), "• Chinese (manual)")
	assert.Contains(t, err.Error(), "• Thai (auto)")
	assert.Contains(t, err.Error(), "• Turkish (auto)")
	// The list is capped at five tracks
	assert.NotContains(t, err.Error(), "Polish")
	assert.Contains(t, err.Error(), "uploading the video file directly")
}

func TestResolver_FullMissWithoutTracks(t *testing.T) {
	strategy := &mockStrategy{name: SourceScrapingAPI}
	lister := &mockTrackLister{}

	strategy.On("Attempt", mock.Anything, "dQw4w9WgXcQ").Return(model.Outcome{
		Strategy: SourceScrapingAPI,
		Status:   model.OutcomeNotFound,
	})
	lister.On("ListTranscripts", mock.Anything, "dQw4w9WgXcQ").Return(nil, ErrNoTranscriptFound)

	resolver := NewResolver([]Strategy{strategy}, lister)
	result, err := resolver.Resolve(context.Background(), testVideoURL)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNoTranscript, errors.Code(err))
	assert.Contains(t, err.Error(), "No captions/transcripts available")
	assert.Contains(t, err.Error(), "blocking automated access")
	assert.Contains(t, err.Error(), "region-restricted")
	assert.Contains(t, err.Error(), "upload it directly")
}
