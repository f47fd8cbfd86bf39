// Package labeling sends grid collages to an OpenAI vision model and records
// the returned labels as JSON next to the grids.
package labeling

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const maxAttempts = 3

const labelPrompt = `Analyze the provided image grid and generate detailed labels identifying all visible objects, actions, icons, and visible text.
This is intended to help researchers efficiently review video content and determine which segments warrant further examination.

Core Requirements:
1. Object Identification
- Label all distinct visible objects individually (e.g., "man," "sunglasses," "hat," rather than "man wearing sunglasses and a hat").
- If an object appears multiple times across different frames, label it only once.

2. Action Recognition
- Identify visible actions (e.g., "protesting," "speaking into microphone," "holding flag," "walking").
- Where possible, associate actions with subjects (e.g., "man speaking into microphone").

3. Visible Text Extraction
- Extract all visible text using the format: "visible text: [text]".
- If text is non-English, provide both the original and a translation using the format:
  "visible text: [original] (translation from [language]: [translation])".

4. UI & Functional Elements
- Label interface elements such as icons (e.g., "YouTube Like button," "Subscribe button").
- Identify platform-specific elements (e.g., "video timestamp," "news channel logo").

Output Format:
Return a JSON object with a single key "labels" containing an array of categorized entries.`

// Labels is the vision model's response schema for one grid.
type Labels struct {
	Labels []string `json:"labels"`
}

// ChatClient is the slice of the OpenAI client the labeler needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Labeler struct {
	client ChatClient
	model  string
	logger *slog.Logger

	// Overridable in tests so retries don't sleep for real.
	backoff func(attempt int)
}

func New(apiKey, model string, logger *slog.Logger) *Labeler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Labeler{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
		backoff: func(attempt int) {
			time.Sleep(time.Duration(2*(attempt+1)) * time.Second)
		},
	}
}

// LabelImage labels one grid image file. Transient failures are retried with
// linear backoff; a response that is not the expected JSON shape is surfaced
// as a single warning label rather than an error.
func (l *Labeler) LabelImage(ctx context.Context, imagePath string) (Labels, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return Labels{}, fmt.Errorf("failed to read grid image: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model:     l.model,
		MaxTokens: 4096,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: labelPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:image/jpeg;base64,%s",
								base64.StdEncoding.EncodeToString(data)),
						},
					},
				},
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := l.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			l.logger.Warn("label request failed",
				"attempt", attempt+1, "image", imagePath, "error", err)
			if attempt < maxAttempts-1 {
				l.backoff(attempt)
			}
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty response from model")
			continue
		}
		return parseLabels(resp.Choices[0].Message.Content), nil
	}

	return Labels{}, fmt.Errorf("label request failed after %d attempts: %w", maxAttempts, lastErr)
}

// parseLabels tolerates off-schema model output by folding it into a warning
// label, mirroring how refusals are reported.
func parseLabels(content string) Labels {
	var out Labels
	if err := json.Unmarshal([]byte(content), &out); err != nil || out.Labels == nil {
		return Labels{Labels: []string{
			fmt.Sprintf("Warning: model returned unexpected output: %.200s", content),
		}}
	}
	return out
}
