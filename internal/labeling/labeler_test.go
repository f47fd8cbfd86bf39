package labeling

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/visualscout/visualscout/internal/grid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockChatClient struct {
	responses []string
	errs      []error
	calls     int
}

func (m *mockChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return openai.ChatCompletionResponse{}, m.errs[i]
	}
	content := ""
	if i < len(m.responses) {
		content = m.responses[i]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}, nil
}

func newTestLabeler(client ChatClient) *Labeler {
	return &Labeler{
		client:  client,
		model:   "gpt-4o-mini",
		logger:  discardLogger(),
		backoff: func(int) {},
	}
}

func writeFakeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid_0-00-00_0-00-16.jpg")
	if err := os.WriteFile(path, []byte("fake jpeg bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLabelImage(t *testing.T) {
	client := &mockChatClient{responses: []string{`{"labels": ["man", "hat", "visible text: 'News'"]}`}}
	labeler := newTestLabeler(client)

	labels, err := labeler.LabelImage(context.Background(), writeFakeImage(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(labels.Labels) != 3 {
		t.Fatalf("expected 3 labels, got %v", labels.Labels)
	}
	if labels.Labels[0] != "man" {
		t.Errorf("first label %q", labels.Labels[0])
	}
	if client.calls != 1 {
		t.Errorf("expected 1 API call, got %d", client.calls)
	}
}

func TestLabelImageRetriesTransientFailures(t *testing.T) {
	client := &mockChatClient{
		errs:      []error{errors.New("rate limited"), errors.New("rate limited"), nil},
		responses: []string{"", "", `{"labels": ["crowd"]}`},
	}
	labeler := newTestLabeler(client)

	labels, err := labeler.LabelImage(context.Background(), writeFakeImage(t))
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if client.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", client.calls)
	}
	if len(labels.Labels) != 1 || labels.Labels[0] != "crowd" {
		t.Errorf("unexpected labels: %v", labels.Labels)
	}
}

func TestLabelImageGivesUpAfterMaxAttempts(t *testing.T) {
	boom := errors.New("service down")
	client := &mockChatClient{errs: []error{boom, boom, boom}}
	labeler := newTestLabeler(client)

	if _, err := labeler.LabelImage(context.Background(), writeFakeImage(t)); !errors.Is(err, boom) {
		t.Errorf("expected the final attempt error, got %v", err)
	}
	if client.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", client.calls)
	}
}

func TestLabelImageOffSchemaResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain text", "I cannot process this image."},
		{"wrong shape", `{"things": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockChatClient{responses: []string{tt.content}}
			labeler := newTestLabeler(client)

			labels, err := labeler.LabelImage(context.Background(), writeFakeImage(t))
			if err != nil {
				t.Fatalf("off-schema output must not be an error: %v", err)
			}
			if len(labels.Labels) != 1 {
				t.Fatalf("expected a single warning label, got %v", labels.Labels)
			}
		})
	}
}

func TestLabelManifest(t *testing.T) {
	gridPath := writeFakeImage(t)
	outDir := t.TempDir()

	m := grid.Manifest{
		Source: "/videos/clip.mp4",
		Grids: []grid.ManifestEntry{
			{Index: 0, TileSize: 3, Timestamps: []float64{0, 2, 4}, Path: gridPath},
		},
	}

	client := &mockChatClient{responses: []string{`{"labels": ["flag", "crowd"]}`}}
	labeler := newTestLabeler(client)

	combinedPath, err := labeler.LabelManifest(context.Background(), m, outDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	perGrid := filepath.Join(outDir, "visual_content_0-00-00_0-00-04.json")
	data, err := os.ReadFile(perGrid)
	if err != nil {
		t.Fatalf("per-grid label file missing: %v", err)
	}
	var labels Labels
	if err := json.Unmarshal(data, &labels); err != nil {
		t.Fatalf("per-grid file is not valid JSON: %v", err)
	}
	if len(labels.Labels) != 2 {
		t.Errorf("expected 2 labels, got %v", labels.Labels)
	}

	combinedData, err := os.ReadFile(combinedPath)
	if err != nil {
		t.Fatalf("combined label file missing: %v", err)
	}
	var combined map[string][]string
	if err := json.Unmarshal(combinedData, &combined); err != nil {
		t.Fatalf("combined file is not valid JSON: %v", err)
	}
	if got := combined["0-00-00_0-00-04"]; len(got) != 2 {
		t.Errorf("combined labels missing for time key: %v", combined)
	}
	if filepath.Base(combinedPath) != "clip.json" {
		t.Errorf("combined file named %q, want clip.json", filepath.Base(combinedPath))
	}
}
