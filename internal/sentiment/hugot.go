package sentiment

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// HugotScorer runs a local text-classification model (e.g. a FinBERT export)
// and turns its top label into a signed polarity.
type HugotScorer struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.Mutex
}

func NewHugotScorer(modelPath string) (*HugotScorer, error) {
	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[HugotScorer] failed to create session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "tickerSentimentPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("[HugotScorer] failed to create pipeline: %w", err)
	}

	slog.Info("[HugotScorer] Text classification pipeline ready", slog.String("model", modelPath))
	return &HugotScorer{session: session, pipeline: pipeline}, nil
}

func (h *HugotScorer) Score(text string) float64 {
	plainText := ConvertMarkdownToText(text)
	if plainText == "" {
		return 0
	}

	h.mu.Lock()
	output, err := h.pipeline.RunPipeline([]string{plainText})
	h.mu.Unlock()
	if err != nil {
		slog.Warn("[HugotScorer] Classification failed, scoring as neutral",
			slog.String("error", err.Error()))
		return 0
	}
	if len(output.ClassificationOutputs) == 0 {
		return 0
	}

	var (
		best      string
		bestScore float32
	)
	for _, c := range output.ClassificationOutputs[0] {
		if c.Score > bestScore {
			best, bestScore = c.Label, c.Score
		}
	}

	return LabelPolarity(best, float64(bestScore))
}

func (h *HugotScorer) Close() error {
	return h.session.Destroy()
}

// LabelPolarity converts a classifier label and its confidence into a score in
// [-1, 1]. Unknown labels count as neutral.
func LabelPolarity(label string, confidence float64) float64 {
	if confidence > 1 {
		confidence = 1
	}
	switch l := strings.ToLower(label); {
	case strings.Contains(l, "pos"), l == "label_2":
		return confidence
	case strings.Contains(l, "neg"), l == "label_0":
		return -confidence
	default:
		return 0
	}
}
