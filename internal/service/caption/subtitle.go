package caption

import (
	"regexp"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	timingPattern = regexp.MustCompile(`-->`)
	cueNumPattern = regexp.MustCompile(`^\d+$`)
)

// headerPrefixes are metadata lines emitted at the top of VTT files
var headerPrefixes = []string{"WEBVTT", "Kind:", "Language:", "NOTE", "STYLE", "REGION"}

// StripSubtitleText converts raw VTT or SRT subtitle content to plain text:
// header/metadata lines, cue counters, timing lines and inline markup are
// dropped, consecutive duplicate cue lines are collapsed (auto-generated
// captions repeat the active line), and the remaining cue text is joined
// with single spaces.
func StripSubtitleText(raw string) string {
	lines := strings.Split(raw, "\n")
	var cues []string
	var prev string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if timingPattern.MatchString(line) {
			continue
		}
		if cueNumPattern.MatchString(line) {
			continue
		}
		if isHeaderLine(line) {
			continue
		}

		line = tagPattern.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" || line == prev {
			continue
		}

		cues = append(cues, line)
		prev = line
	}

	return strings.Join(cues, " ")
}

func isHeaderLine(line string) bool {
	for _, prefix := range headerPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
