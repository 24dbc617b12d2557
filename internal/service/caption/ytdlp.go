package caption

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/noteflow-ai/noteflow/internal/model"
	"github.com/noteflow-ai/noteflow/internal/service/common"
)

// subtitleLangs is the yt-dlp language preference list: English variants
// first, then the other supported languages
const subtitleLangs = "en.*,en,ar,es,fr,de,pt,ru,hi,ja,ko"

// ytDlpStrategy extracts caption tracks with yt-dlp without downloading any
// media. All failures fall through silently.
type ytDlpStrategy struct {
	cmdRunner common.CmdRunner
}

// NewYtDlpStrategy creates the local caption-extraction strategy
func NewYtDlpStrategy(cmdRunner common.CmdRunner) Strategy {
	return &ytDlpStrategy{cmdRunner: cmdRunner}
}

func (s *ytDlpStrategy) Name() string {
	return SourceYtDlp
}

func (s *ytDlpStrategy) Attempt(ctx context.Context, videoID string) model.Outcome {
	tempDir, err := os.MkdirTemp("", "noteflow-subs-*")
	if err != nil {
		return s.miss(err)
	}
	defer os.RemoveAll(tempDir)

	videoURL := "https://www.youtube.com/watch?v=" + videoID
	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", subtitleLangs,
		"--sub-format", "vtt/srt",
		"--output", filepath.Join(tempDir, "%(id)s.%(ext)s"),
		videoURL,
	}

	if _, err := s.cmdRunner.Run(ctx, "yt-dlp", args...); err != nil {
		return s.miss(err)
	}

	subtitlePath, language, err := findSubtitleFile(tempDir)
	if err != nil {
		return s.miss(err)
	}

	raw, err := os.ReadFile(subtitlePath)
	if err != nil {
		return s.miss(err)
	}

	text := StripSubtitleText(string(raw))
	if text == "" {
		return s.miss(nil)
	}

	outcome := model.Outcome{
		Strategy: s.Name(),
		Status:   model.OutcomeSuccess,
		Text:     text,
	}
	if language != "" {
		outcome.Languages = []string{language}
	}
	return outcome
}

func (s *ytDlpStrategy) miss(err error) model.Outcome {
	outcome := model.Outcome{
		Strategy: s.Name(),
		Status:   model.OutcomeNotFound,
	}
	if err != nil {
		outcome.Detail = err.Error()
	}
	return outcome
}

// findSubtitleFile locates the first subtitle file yt-dlp wrote and derives
// its language code from the filename (<id>.<lang>.vtt)
func findSubtitleFile(dir string) (path, language string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".vtt" && ext != ".srt" {
			continue
		}

		// filename shape: <videoID>.<lang>.<ext>
		parts := strings.Split(strings.TrimSuffix(name, ext), ".")
		lang := ""
		if len(parts) >= 2 {
			lang = parts[len(parts)-1]
		}
		return filepath.Join(dir, name), lang, nil
	}

	return "", "", os.ErrNotExist
}
