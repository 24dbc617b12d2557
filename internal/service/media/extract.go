package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/noteflow-ai/noteflow/internal/errors"
	"github.com/noteflow-ai/noteflow/internal/service/common"
)

// AudioExtractor pulls the audio track out of a video file
type AudioExtractor interface {
	// ExtractAudio converts the video at videoPath to an mp3 next to it and
	// returns the mp3 path
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
}

type audioExtractor struct {
	cmdRunner common.CmdRunner
}

// NewAudioExtractor creates an AudioExtractor backed by ffmpeg
func NewAudioExtractor(cmdRunner common.CmdRunner) AudioExtractor {
	return &audioExtractor{cmdRunner: cmdRunner}
}

func (e *audioExtractor) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	mp3Path := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"

	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-b:a", "128k",
		"-ar", "44100",
		mp3Path,
	}

	if _, err := e.cmdRunner.Run(ctx, "ffmpeg", args...); err != nil {
		return "", errors.Wrap(err, errors.CodeExternal, "failed to extract audio from video")
	}
	return mp3Path, nil
}

// ExtractBookText reads the text content of an uploaded document. PDF and
// plain-text formats are extracted locally; binary document formats are
// rejected with a conversion hint.
func ExtractBookText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDFText(path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(err, errors.CodeInternal, "failed to read text file")
		}
		return string(data), nil
	case ".epub", ".docx", ".doc":
		return "", errors.New(errors.CodeInvalidArg,
			"this document format is not supported yet; please convert it to PDF or plain text")
	default:
		return "", errors.New(errors.CodeInvalidArg, "unsupported document format")
	}
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidArg, "failed to open PDF")
	}
	defer f.Close()

	var b strings.Builder
	totalPage := r.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to decode rather than losing the book
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New(errors.CodeInvalidArg, "PDF contains no extractable text")
	}
	return text, nil
}
