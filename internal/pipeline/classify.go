package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/model"
)

var longHorizonYear = regexp.MustCompile(`20[3-9]\d`)

func classifyStage(ctx context.Context, e *llm.Engine, text string) model.DocumentProfile {
	return llm.Call(ctx, e, llm.Request{
		Stage:  "classify",
		Prompt: prompts["classify"],
		Input:  map[string]any{"text": truncRunes(text, 6000)},
		Schema: classifySchema,
	}, func() model.DocumentProfile {
		return fallbackProfile(text)
	})
}

// fallbackProfile classifies by surface features alone. It is deliberately
// coarse; the point is a usable profile, not an accurate one.
func fallbackProfile(text string) model.DocumentProfile {
	lower := strings.ToLower(text)

	domain := "general"
	switch {
	case containsAny(lower, "artificial intelligence", " ai ", "machine learning", "هوش مصنوعی"):
		domain = "artificial intelligence"
	case containsAny(lower, "energy", "oil", "gas", "electricity", "انرژی", "نفت"):
		domain = "energy"
	case containsAny(lower, "defense", "defence", "military", "security", "دفاع", "امنیت"):
		domain = "defense and security"
	case containsAny(lower, "health", "medical", "disease", "سلامت", "درمان"):
		domain = "health"
	}

	docType := "analytical note"
	if len([]rune(text)) > 1500 {
		docType = "policy report"
	}

	horizon := "mid-term"
	switch {
	case longHorizonYear.MatchString(text) || containsAny(lower, "decade", "دهه"):
		horizon = "long-term"
	case containsAny(lower, "next year", "سال آینده"):
		horizon = "short-term"
	}

	level := "analytical"
	if containsAny(lower, "should", "must", "باید") {
		level = "normative"
	}

	return model.DocumentProfile{
		DocumentType:    docType,
		Domain:          domain,
		Horizon:         horizon,
		AnalyticalLevel: level,
	}
}
