package content

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/noteflow-ai/noteflow/internal/errors"
	"github.com/noteflow-ai/noteflow/internal/model"
	contentrepo "github.com/noteflow-ai/noteflow/internal/repository/content"
	"github.com/noteflow-ai/noteflow/internal/service/caption"
	"github.com/noteflow-ai/noteflow/internal/service/media"
	"github.com/noteflow-ai/noteflow/internal/service/summary"
	"github.com/noteflow-ai/noteflow/internal/service/transcription"
)

// maxStoredTranscript caps the transcript column. Summarization always sees
// the full text; truncation happens only at persistence.
const maxStoredTranscript = 50000

// uploadRetention is how long stored uploads are kept before cleanup
const uploadRetention = 24 * time.Hour

// Service orchestrates the full ingestion pipeline: acquire a transcript,
// summarize it, persist the record. A record is only ever written complete;
// any failure before persistence leaves no partial row behind.
type Service interface {
	ProcessAudioUpload(ctx context.Context, ownerID, filename string, r io.Reader) (*model.Content, error)
	ProcessVideoUpload(ctx context.Context, ownerID, filename string, r io.Reader) (*model.Content, error)
	ProcessBookUpload(ctx context.Context, ownerID, filename string, r io.Reader) (*model.Content, error)
	ProcessVideoURL(ctx context.Context, ownerID, videoURL string) (*model.Content, error)

	Get(ctx context.Context, id int64, ownerID string) (*model.Content, error)
	History(ctx context.Context, ownerID string, kind model.ContentKind, limit, offset int) ([]*model.Content, error)
	Delete(ctx context.Context, id int64, ownerID string) error
	Chat(ctx context.Context, id int64, ownerID, question string) (string, error)
}

type service struct {
	repo        contentrepo.Repository
	store       media.Store
	extractor   media.AudioExtractor
	transcriber transcription.Transcriber
	resolver    caption.Resolver
	summarizer  summary.Summarizer
	logger      zerolog.Logger
}

// NewService wires the ingestion pipeline together
func NewService(
	repo contentrepo.Repository,
	store media.Store,
	extractor media.AudioExtractor,
	transcriber transcription.Transcriber,
	resolver caption.Resolver,
	summarizer summary.Summarizer,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:        repo,
		store:       store,
		extractor:   extractor,
		transcriber: transcriber,
		resolver:    resolver,
		summarizer:  summarizer,
		logger:      logger,
	}
}

func (s *service) ProcessAudioUpload(ctx context.Context, ownerID, filename string, r io.Reader) (*model.Content, error) {
	if !media.IsAllowedAudio(filename) {
		return nil, errors.New(errors.CodeInvalidArg, "unsupported audio format")
	}

	path, err := s.saveUpload(filename, r)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	transcript, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("audio transcription failed")
		return nil, s.friendly(err)
	}

	return s.summarizeAndPersist(ctx, &model.Content{
		OwnerID:    ownerID,
		Kind:       model.KindAudio,
		Title:      titleFromFilename(filename),
		SourceName: filepath.Base(path),
		Transcript: transcript,
	}, summary.SchemaMeeting)
}

func (s *service) ProcessVideoUpload(ctx context.Context, ownerID, filename string, r io.Reader) (*model.Content, error) {
	if !media.IsAllowedVideo(filename) {
		return nil, errors.New(errors.CodeInvalidArg, "unsupported video format")
	}

	path, err := s.saveUpload(filename, r)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	mp3Path, err := s.extractor.ExtractAudio(ctx, path)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("audio extraction failed")
		return nil, err
	}
	defer os.Remove(mp3Path)

	transcript, err := s.transcriber.Transcribe(ctx, mp3Path)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("video transcription failed")
		return nil, s.friendly(err)
	}

	return s.summarizeAndPersist(ctx, &model.Content{
		OwnerID:    ownerID,
		Kind:       model.KindVideo,
		Title:      titleFromFilename(filename),
		SourceName: filepath.Base(path),
		Transcript: transcript,
	}, summary.SchemaMeeting)
}

func (s *service) ProcessBookUpload(ctx context.Context, ownerID, filename string, r io.Reader) (*model.Content, error) {
	if !media.IsAllowedBook(filename) {
		return nil, errors.New(errors.CodeInvalidArg, "unsupported document format")
	}

	path, err := s.saveUpload(filename, r)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	text, err := media.ExtractBookText(path)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("book text extraction failed")
		return nil, err
	}

	return s.summarizeAndPersist(ctx, &model.Content{
		OwnerID:    ownerID,
		Kind:       model.KindBook,
		Title:      titleFromFilename(filename),
		SourceName: filepath.Base(path),
		Transcript: text,
	}, summary.SchemaDocument)
}

func (s *service) ProcessVideoURL(ctx context.Context, ownerID, videoURL string) (*model.Content, error) {
	videoID, err := caption.ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, videoURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("video_id", videoID).Msg("transcript resolution failed")
		return nil, err
	}

	s.logger.Info().
		Str("video_id", videoID).
		Str("source", resolved.Source).
		Int("transcript_chars", len(resolved.Text)).
		Msg("transcript resolved")

	return s.summarizeAndPersist(ctx, &model.Content{
		OwnerID:    ownerID,
		Kind:       model.KindVideoURL,
		Title:      "YouTube Video (" + videoID + ")",
		SourceName: videoURL,
		Transcript: resolved.Text,
	}, summary.SchemaMeeting)
}

func (s *service) Get(ctx context.Context, id int64, ownerID string) (*model.Content, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

func (s *service) History(ctx context.Context, ownerID string, kind model.ContentKind, limit, offset int) ([]*model.Content, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByOwner(ctx, ownerID, kind, limit, offset)
}

func (s *service) Delete(ctx context.Context, id int64, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}

func (s *service) Chat(ctx context.Context, id int64, ownerID, question string) (string, error) {
	record, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return "", err
	}

	summaryText := ""
	if record.Summary != nil {
		summaryText = *record.Summary
	}

	answer, err := s.summarizer.Chat(ctx, record.Transcript, summaryText, question)
	if err != nil {
		s.logger.Error().Err(err).Int64("content_id", id).Msg("chat completion failed")
		return "", s.friendly(err)
	}
	return answer, nil
}

// summarizeAndPersist runs the tail of every pipeline: summarize the full
// transcript, extract action items for spoken content, then write the record
// in one shot.
func (s *service) summarizeAndPersist(ctx context.Context, record *model.Content, schema summary.Schema) (*model.Content, error) {
	summaryText, err := s.summarizer.Summarize(ctx, record.Transcript, schema)
	if err != nil {
		s.logger.Error().Err(err).Str("title", record.Title).Msg("summarization failed")
		return nil, s.friendly(err)
	}
	record.Summary = &summaryText

	if schema == summary.SchemaMeeting {
		items, err := s.summarizer.ExtractActionItems(ctx, record.Transcript)
		if err != nil {
			// Action items are best-effort; the summary alone is still useful
			s.logger.Warn().Err(err).Str("title", record.Title).Msg("action item extraction failed")
		} else {
			record.ActionItems = &items
		}
	}

	if len(record.Transcript) > maxStoredTranscript {
		record.Transcript = record.Transcript[:maxStoredTranscript]
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("content_id", record.ID).
		Str("kind", string(record.Kind)).
		Str("title", record.Title).
		Msg("content processed")

	return record, nil
}

// saveUpload stores the stream and opportunistically sweeps stale uploads
func (s *service) saveUpload(filename string, r io.Reader) (string, error) {
	if err := s.store.CleanOldFiles(uploadRetention); err != nil {
		s.logger.Warn().Err(err).Msg("upload cleanup failed")
	}
	return s.store.SaveUpload(filename, r)
}

// friendly converts raw provider failures into the user-facing template.
// Shaped domain errors pass through untouched.
func (s *service) friendly(err error) error {
	switch errors.Code(err) {
	case errors.CodeSummarization, errors.CodeTranscription:
		return errors.New(errors.CodeExternal, errors.UserMessage(err))
	}
	return err
}

// titleFromFilename derives a display title from the original filename
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return base[:len(base)-len(filepath.Ext(base))]
}
