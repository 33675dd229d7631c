package services

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/alimgiray/daybrief/pkg/logger"
)

// NarrativeClient turns a serialized context bundle into a stream of prose
// chunks. The engine is indifferent to the wording, it only joins the chunks.
type NarrativeClient interface {
	Summarize(ctx context.Context, contextBundle string) (<-chan string, error)
}

const narrativeSystemPrompt = "You are a concise executive assistant. " +
	"Summarize the following daily context into a short narrative briefing of at most four sentences. " +
	"Mention only what is present in the context."

// OpenAINarrativeClient implements NarrativeClient with a streaming chat completion
type OpenAINarrativeClient struct {
	client openai.Client
	model  string
}

func NewOpenAINarrativeClient(apiKey, model string) *OpenAINarrativeClient {
	return &OpenAINarrativeClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Summarize streams completion chunks into the returned channel. The channel
// closes when the stream ends, errors, or the context is cancelled.
func (c *OpenAINarrativeClient) Summarize(ctx context.Context, contextBundle string) (<-chan string, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(narrativeSystemPrompt),
			openai.UserMessage(contextBundle),
		},
	})
	if err := stream.Err(); err != nil {
		return nil, err
	}

	chunks := make(chan string)
	go func() {
		defer close(chunks)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}

			select {
			case chunks <- delta:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && !isRetryableNarrativeError(err) {
			logger.WithError(err).Warnf("Narrative stream ended with error")
		}
	}()

	return chunks, nil
}

// isRetryableNarrativeError classifies transient provider failures. The
// engine never retries within a cycle, but transient errors are logged at a
// lower level since the next cycle will try again anyway.
func isRetryableNarrativeError(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "429") ||
		strings.Contains(message, "rate limit") ||
		strings.Contains(message, "too many requests") ||
		strings.Contains(message, "500") ||
		strings.Contains(message, "server_error")
}
