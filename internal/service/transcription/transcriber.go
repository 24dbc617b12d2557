package transcription

import (
	"context"
	stderrors "errors"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/noteflow-ai/noteflow/internal/errors"
)

// Transcriber converts an audio file into text via an external
// speech-to-text provider. There is no partial or streaming result.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// assemblyAITranscriber implements Transcriber using the AssemblyAI API
type assemblyAITranscriber struct {
	client *aai.Client
}

// NewAssemblyAITranscriber creates a Transcriber backed by AssemblyAI.
// Automatic language detection is enabled so uploads in any of the
// provider's supported languages work without a language hint.
func NewAssemblyAITranscriber(apiKey string) Transcriber {
	return &assemblyAITranscriber{
		client: aai.NewClient(apiKey),
	}
}

// Transcribe uploads the audio file and waits for the finished transcript
func (t *assemblyAITranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if audioPath == "" {
		return "", errors.New(errors.CodeInvalidArg, "audio path is required")
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to open audio file")
	}
	defer f.Close()

	params := &aai.TranscriptOptionalParams{
		LanguageDetection: aai.Bool(true),
	}

	transcript, err := t.client.Transcripts.TranscribeFromReader(ctx, f, params)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeTranscription, "transcription request failed")
	}

	if transcript.Status == aai.TranscriptStatusError {
		return "", errors.Wrap(
			stderrors.New(aai.ToString(transcript.Error)),
			errors.CodeTranscription, "transcription failed")
	}

	return aai.ToString(transcript.Text), nil
}
