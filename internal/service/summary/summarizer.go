package summary

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/noteflow-ai/noteflow/internal/errors"
)

// Schema selects the summary shape for the content being summarized
type Schema string

const (
	// SchemaMeeting fits transcripts of spoken content: meetings, talks,
	// videos
	SchemaMeeting Schema = "meeting"
	// SchemaDocument fits long-form written content: books, papers
	SchemaDocument Schema = "document"
)

const (
	summaryModel       = openai.GPT4
	summaryTemperature = 0.7
	summaryMaxTokens   = 1000

	// Action item extraction runs cooler and shorter than the summary
	actionItemsTemperature = 0.5
	actionItemsMaxTokens   = 500
)

// Summarizer produces structured summaries and answers follow-up questions
// about previously summarized content.
type Summarizer interface {
	Summarize(ctx context.Context, text string, schema Schema) (string, error)
	ExtractActionItems(ctx context.Context, text string) (string, error)
	Chat(ctx context.Context, transcript, summary, question string) (string, error)
}

// chatCompleter is the slice of the OpenAI client we use; narrowed for
// testing
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type summarizer struct {
	client chatCompleter
}

// NewSummarizer creates a Summarizer backed by the OpenAI API
func NewSummarizer(apiKey string) Summarizer {
	return &summarizer{client: openai.NewClient(apiKey)}
}

// NewSummarizerWithClient creates a Summarizer with a custom client (for testing)
func NewSummarizerWithClient(client chatCompleter) Summarizer {
	return &summarizer{client: client}
}

func (s *summarizer) Summarize(ctx context.Context, text string, schema Schema) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New(errors.CodeInvalidArg, "no text to summarize")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: summaryModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPromptFor(schema),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeSummarization, "summarization failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.CodeSummarization, "summarization returned no output")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (s *summarizer) ExtractActionItems(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New(errors.CodeInvalidArg, "no text to extract action items from")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: summaryModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: actionItemsPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: actionItemsTemperature,
		MaxTokens:   actionItemsMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeSummarization, "action item extraction failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.CodeSummarization, "action item extraction returned no output")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (s *summarizer) Chat(ctx context.Context, transcript, summary, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", errors.New(errors.CodeInvalidArg, "question is required")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: summaryModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: chatSystemPrompt(transcript, summary),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: question,
			},
		},
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeSummarization, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.CodeSummarization, "chat completion returned no output")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// systemPromptFor returns the summary instructions for the given schema
func systemPromptFor(schema Schema) string {
	if schema == SchemaDocument {
		return "You are a helpful assistant that summarizes long-form documents. " +
			"Provide:\n" +
			"1. A brief summary\n" +
			"2. Key points\n" +
			"3. Main takeaways"
	}
	return "You are a helpful assistant that summarizes transcripts. " +
		"Provide:\n" +
		"1. A brief summary\n" +
		"2. Key points discussed\n" +
		"3. Action items (if any)\n" +
		"4. Decisions made (if any)\n" +
		"5. Next steps (if any)"
}

const actionItemsPrompt = "Extract all action items from the transcript. " +
	"For each item include who is responsible (if mentioned) and any deadline. " +
	"Answer with a bullet list; answer 'No action items found.' when there are none."

func chatSystemPrompt(transcript, summary string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant answering questions about the following content. " +
		"Base your answers only on the provided transcript and summary.\n\n")
	if summary != "" {
		b.WriteString("Summary:\n")
		b.WriteString(summary)
		b.WriteString("\n\n")
	}
	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	return b.String()
}
