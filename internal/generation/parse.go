package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/desertthunder/grand/internal/shared"
)

var (
	fenceOpen   = regexp.MustCompile("```json\\n?")
	fenceClose  = regexp.MustCompile("```\\n?")
	outerObject = regexp.MustCompile(`\{[\s\S]*\}`)
)

// StripFences trims raw and removes Markdown code fences anywhere in it.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Decode parses a model reply into v.
//
// Attempts, in order: the fence-stripped text, the outermost {...} span, and a repaired version
// of each. The first that unmarshals wins.
func Decode(raw string, v any) error {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return fmt.Errorf("%w: empty reply", shared.ErrUnparseable)
	}

	candidates := []string{cleaned}
	if m := outerObject.FindString(cleaned); m != "" && m != cleaned {
		candidates = append(candidates, m)
	}

	var lastErr error
	for _, c := range candidates {
		if lastErr = json.Unmarshal([]byte(c), v); lastErr == nil {
			return nil
		}
	}

	for _, c := range candidates {
		repaired, err := jsonrepair.JSONRepair(c)
		if err != nil {
			lastErr = err
			continue
		}
		if lastErr = json.Unmarshal([]byte(repaired), v); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: %w", shared.ErrUnparseable, lastErr)
}
