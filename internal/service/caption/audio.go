package caption

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/noteflow-ai/noteflow/internal/model"
	"github.com/noteflow-ai/noteflow/internal/service/common"
	"github.com/noteflow-ai/noteflow/internal/service/transcription"
)

// audioStrategy is the last line of defense: download the audio track with
// yt-dlp, convert it to mp3, and run it through speech-to-text. Slower and
// more expensive than every caption source, so it always runs last.
type audioStrategy struct {
	cmdRunner   common.CmdRunner
	transcriber transcription.Transcriber
}

// NewAudioStrategy creates the audio-transcription fallback strategy
func NewAudioStrategy(cmdRunner common.CmdRunner, transcriber transcription.Transcriber) Strategy {
	return &audioStrategy{
		cmdRunner:   cmdRunner,
		transcriber: transcriber,
	}
}

func (s *audioStrategy) Name() string {
	return SourceAudioTranscription
}

func (s *audioStrategy) Attempt(ctx context.Context, videoID string) model.Outcome {
	if s.transcriber == nil {
		return s.miss("transcription credential not configured")
	}

	workDir, err := os.MkdirTemp("", "noteflow-audio-*")
	if err != nil {
		return s.miss("failed to create working directory: " + err.Error())
	}
	defer os.RemoveAll(workDir)

	audioPath, err := s.downloadAudio(ctx, videoID, workDir)
	if err != nil {
		return s.miss("audio download failed: " + err.Error())
	}

	mp3Path, err := s.convertToMP3(ctx, audioPath, workDir)
	if err != nil {
		return s.miss("audio conversion failed: " + err.Error())
	}

	text, err := s.transcriber.Transcribe(ctx, mp3Path)
	if err != nil {
		return s.miss("transcription failed: " + err.Error())
	}
	if text == "" {
		return s.miss("transcription produced no text")
	}

	return model.Outcome{
		Strategy: s.Name(),
		Status:   model.OutcomeSuccess,
		Text:     text,
	}
}

// downloadAudio pulls the audio-only stream with yt-dlp
func (s *audioStrategy) downloadAudio(ctx context.Context, videoID, outputDir string) (string, error) {
	args := []string{
		"-x", // Extract audio only
		"--audio-format", "best",
		"--audio-quality", "0",
		"--output", filepath.Join(outputDir, "%(id)s.%(ext)s"),
		"https://www.youtube.com/watch?v=" + videoID,
	}

	if _, err := s.cmdRunner.Run(ctx, "yt-dlp", args...); err != nil {
		return "", err
	}

	return findAudioFile(outputDir)
}

// convertToMP3 normalizes whatever yt-dlp produced into a 128k mp3 that the
// transcription provider accepts
func (s *audioStrategy) convertToMP3(ctx context.Context, audioPath, outputDir string) (string, error) {
	if filepath.Ext(audioPath) == ".mp3" {
		return audioPath, nil
	}

	mp3Path := filepath.Join(outputDir, "audio.mp3")
	args := []string{
		"-y",
		"-i", audioPath,
		"-vn",
		"-b:a", "128k",
		"-ar", "44100",
		mp3Path,
	}

	if _, err := s.cmdRunner.Run(ctx, "ffmpeg", args...); err != nil {
		return "", err
	}
	return mp3Path, nil
}

func (s *audioStrategy) miss(detail string) model.Outcome {
	return model.Outcome{
		Strategy: s.Name(),
		Status:   model.OutcomeNotFound,
		Detail:   detail,
	}
}

// findAudioFile locates the downloaded audio file in the output directory.
// yt-dlp picks the container, so the extension is not predictable.
func findAudioFile(outputDir string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", err
	}

	audioExtensions := map[string]bool{
		".m4a": true, ".mp3": true, ".webm": true,
		".ogg": true, ".wav": true, ".opus": true,
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if audioExtensions[filepath.Ext(entry.Name())] {
			return filepath.Join(outputDir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no audio files found in %s", outputDir)
}
