package caption

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/noteflow-ai/noteflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockScrapingClient for testing
type mockScrapingClient struct {
	mock.Mock
}

func (m *mockScrapingClient) Fetch(ctx context.Context, videoID, language string) ([]model.TranscriptSegment, error) {
	args := m.Called(ctx, videoID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TranscriptSegment), args.Error(1)
}

func (m *mockScrapingClient) ListTranscripts(ctx context.Context, videoID string) ([]model.CaptionTrack, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CaptionTrack), args.Error(1)
}

func (m *mockScrapingClient) FetchTranslated(ctx context.Context, videoID, sourceLanguage, targetLanguage string) ([]model.TranscriptSegment, error) {
	args := m.Called(ctx, videoID, sourceLanguage, targetLanguage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TranscriptSegment), args.Error(1)
}

// noSleepPolicy records requested delays instead of sleeping
func noSleepPolicy(maxAttempts int, slept *[]time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Delay: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt)) * time.Second
		},
		Sleep: func(d time.Duration) {
			*slept = append(*slept, d)
		},
	}
}

func segments(texts ...string) []model.TranscriptSegment {
	out := make([]model.TranscriptSegment, 0, len(texts))
	for i, text := range texts {
		out = append(out, model.TranscriptSegment{Text: text, Start: float64(i), End: float64(i + 1)})
	}
	return out
}

func TestScrapingStrategy_EnglishSucceedsFirst(t *testing.T) {
	client := &mockScrapingClient{}
	client.On("Fetch", mock.Anything, "vid12345678", "en").
		Return(segments("hello", "world"), nil)

	var slept []time.Duration
	strategy := NewScrapingStrategy(client, noSleepPolicy(3, &slept))
	outcome := strategy.Attempt(context.Background(), "vid12345678")

	assert.Equal(t, model.OutcomeSuccess, outcome.Status)
	assert.Equal(t, SourceScrapingAPI, outcome.Strategy)
	assert.Equal(t, "hello world", outcome.Text)
	assert.Equal(t, []string{"en"}, outcome.Languages)
	// No other language is tried once English succeeds
	client.AssertNumberOfCalls(t, "Fetch", 1)
	assert.Empty(t, slept)
}

func TestScrapingStrategy_FallsBackToAutoGeneratedEnglish(t *testing.T) {
	client := &mockScrapingClient{}
	client.On("Fetch", mock.Anything, "vid12345678", "en").
		Return(nil, ErrNoTranscriptFound)
	client.On("Fetch", mock.Anything, "vid12345678", "a.en").
		Return(segments("auto captions"), nil)

	var slept []time.Duration
	strategy := NewScrapingStrategy(client, noSleepPolicy(3, &slept))
	outcome := strategy.Attempt(context.Background(), "vid12345678")

	assert.Equal(t, model.OutcomeSuccess, outcome.Status)
	assert.Equal(t, SourceScrapingAPI, outcome.Strategy)
	assert.Equal(t, []string{"a.en"}, outcome.Languages)
	client.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestScrapingStrategy_DisabledStopsLanguageSweep(t *testing.T) {
	client := &mockScrapingClient{}
	client.On("Fetch", mock.Anything, "vid12345678", "en").
		Return(nil, ErrTranscriptsDisabled)

	var slept []time.Duration
	strategy := NewScrapingStrategy(client, noSleepPolicy(3, &slept))
	outcome := strategy.Attempt(context.Background(), "vid12345678")

	assert.Equal(t, model.OutcomeDisabled, outcome.Status)
	// No point trying other languages or retrying
	client.AssertNumberOfCalls(t, "Fetch", 1)
	assert.Empty(t, slept)
}

func TestScrapingStrategy_UnavailableStopsLanguageSweep(t *testing.T) {
	client := &mockScrapingClient{}
	client.On("Fetch", mock.Anything, "vid12345678", "en").
		Return(nil, ErrVideoUnavailable)

	var slept []time.Duration
	strategy := NewScrapingStrategy(client, noSleepPolicy(3, &slept))
	outcome := strategy.Attempt(context.Background(), "vid12345678")

	assert.Equal(t, model.OutcomeUnavailable, outcome.Status)
	client.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestScrapingStrategy_TransientFailureContinuesToNextLanguage(t *testing.T) {
	client := &mockScrapingClient{}
	client.On("Fetch", mock.Anything, "vid12345678", "en").
		Return(nil, &FetchError{Err: fmt.Errorf("connection reset")})
	client.On("Fetch", mock.Anything, "vid12345678", "a.en").
		Return(segments("recovered"), nil)

	var slept []time.Duration
	strategy := NewScrapingStrategy(client, noSleepPolicy(3, &slept))
	outcome := strategy.Attempt(context.Background(), "vid12345678")

	assert.Equal(t, model.OutcomeSuccess, outcome.Status)
	assert.Equal(t, "recovered", outcome.Text)
}

func TestScrapingStrategy_UnexpectedErrorIsNotMasked(t *testing.T) {
	client := &mockScrapingClient{}
	client.On("Fetch", mock.Anything, "vid12345678", "en").
		Return(nil, fmt.Errorf("unexpected response shape"))

	var slept []time.Duration
	strategy := NewScrapingStrategy(client, noSleepPolicy(3, &slept))
	outcome := strategy.Attempt(context.Background(), "vid12345678")

	assert.Equal(t, model.OutcomeTransient, outcome.Status)
	assert.Contains(t, outcome.Detail, "unexpected response shape")
	client.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestScrapingStrategy_RetriesWithDoublingBackoff(t *testing.T) {
	client := &mockScrapingClient{}
	client.On("Fetch", mock.Anything, "vid12345678", mock.Anything).
		Return(nil, ErrNoTranscriptFound)
	client.On("ListTranscripts", mock.Anything, "vid12345678").
		Return(nil, ErrNoTranscriptFound)

	var slept []time.Duration
	strategy := NewScrapingStrategy(client, noSleepPolicy(3, &slept))
	outcome := strategy.Attempt(context.Background(), "vid12345678")

	assert.Equal(t, model.OutcomeNotFound, outcome.Status)
	// Every language, every round
	client.AssertNumberOfCalls(t, "Fetch", 3*len(languageCandidates))
	// Backoff doubles between rounds and there is no sleep after the last
	require.Len(t, slept, 2)
	assert.Equal(t, 1*time.Second, slept[0])
	assert.Equal(t, 2*time.Second, slept[1])
}

func TestScrapingStrategy_TranslationFallback(t *testing.T) {
	client := &mockScrapingClient{}
	client.On("Fetch", mock.Anything, "vid12345678", mock.Anything).
		Return(nil, ErrNoTranscriptFound)
	client.On("ListTranscripts", mock.Anything, "vid12345678").
		Return([]model.CaptionTrack{
			{Language: "zh", LanguageName: "Chinese", Translatable: false},
			{Language: "fr", LanguageName: "French", Translatable: true},
		}, nil)
	client.On("FetchTranslated", mock.Anything, "vid12345678", "fr", "en").
		Return(segments("translated text"), nil)

	var slept []time.Duration
	strategy := NewScrapingStrategy(client, noSleepPolicy(1, &slept))
	outcome := strategy.Attempt(context.Background(), "vid12345678")

	assert.Equal(t, model.OutcomeSuccess, outcome.Status)
	assert.Equal(t, SourceScrapingTranslated, outcome.Strategy)
	assert.Equal(t, "translated text", outcome.Text)
}

func TestScrapingStrategy_TranslationFallbackFailure(t *testing.T) {
	client := &mockScrapingClient{}
	client.On("Fetch", mock.Anything, "vid12345678", mock.Anything).
		Return(nil, ErrNoTranscriptFound)
	client.On("ListTranscripts", mock.Anything, "vid12345678").
		Return([]model.CaptionTrack{
			{Language: "fr", LanguageName: "French", Translatable: true},
		}, nil)
	client.On("FetchTranslated", mock.Anything, "vid12345678", "fr", "en").
		Return(nil, &FetchError{Err: fmt.Errorf("blocked")})

	var slept []time.Duration
	strategy := NewScrapingStrategy(client, noSleepPolicy(1, &slept))
	outcome := strategy.Attempt(context.Background(), "vid12345678")

	assert.Equal(t, model.OutcomeNotFound, outcome.Status)
}
