package insight

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/harvestlabs/farmpulse/internal/models"
)

// normalize coerces a provider's raw text into a fully populated Insight.
// Providers are asked for JSON but return it in many shapes: fenced code
// blocks, prose around an object, content as a mapping, recommendations as a
// bare string. Every coercion path here is explicit so each is independently
// testable. The second return is false when no JSON object can be found, in
// which case the caller moves to the static fallback.
func normalize(raw string, category models.Target) (models.Insight, bool) {
	obj, ok := extractJSON(raw)
	if !ok {
		return models.Insight{}, false
	}
	parsed := gjson.Parse(obj)
	if !parsed.IsObject() {
		return models.Insight{}, false
	}

	ins := models.Insight{
		InsightType:     insightTypes[category],
		Content:         normalizeContent(parsed, obj),
		Recommendations: toStringList(parsed.Get("recommendations")),
		Warnings:        toStringList(parsed.Get("warnings")),
		Confidence:      normalizeConfidence(parsed.Get("confidence")),
		Timestamp:       time.Now().UTC(),
	}
	if t := parsed.Get("insight_type"); t.Type == gjson.String && t.String() != "" {
		ins.InsightType = t.String()
	}
	return ins, true
}

// extractJSON pulls a JSON object out of raw provider text: a fenced
// ```json block wins, otherwise the span from the first '{' to the last '}'.
func extractJSON(raw string) (string, bool) {
	if idx := strings.Index(raw, "```json"); idx >= 0 {
		rest := raw[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			candidate := strings.TrimSpace(rest[:end])
			if gjson.Valid(candidate) {
				return candidate, true
			}
		}
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	candidate := raw[start : end+1]
	if !gjson.Valid(candidate) {
		return "", false
	}
	return candidate, true
}

// normalizeContent guarantees a non-empty human-readable sentence. A mapping
// is flattened in document order to "key: value; key: value"; an absent or
// blank content is synthesized from recognized secondary keys, falling back
// to the whole object.
func normalizeContent(parsed gjson.Result, obj string) string {
	content := parsed.Get("content")
	switch {
	case content.IsObject():
		var parts []string
		content.ForEach(func(key, value gjson.Result) bool {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.ReplaceAll(key.String(), "_", " "), value.String()))
			return true
		})
		return strings.Join(parts, "; ")
	case content.Type == gjson.String && strings.TrimSpace(content.String()) != "":
		return content.String()
	}

	var parts []string
	if v := parsed.Get("current_crop_health"); v.Exists() {
		parts = append(parts, fmt.Sprintf("Current crop health score is %s.", v.String()))
	}
	if v := parsed.Get("yield_prediction_analysis"); v.Exists() {
		parts = append(parts, v.String())
	}
	if len(parts) == 0 {
		parts = append(parts, obj)
	}
	return strings.Join(parts, " ")
}

// toStringList coerces string | list | missing into a list of strings.
func toStringList(v gjson.Result) []string {
	switch {
	case !v.Exists(), v.Type == gjson.Null:
		return []string{}
	case v.IsArray():
		items := v.Array()
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, item.String())
		}
		return out
	default:
		return []string{v.String()}
	}
}

func normalizeConfidence(v gjson.Result) float64 {
	if !v.Exists() || v.Type != gjson.Number {
		return fallbackConfidence
	}
	f := v.Float()
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
