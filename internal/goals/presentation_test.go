package goals

import (
	"testing"

	"github.com/fdg312/health-diary/internal/storage"
)

func TestEveryGoalTypeHasPresentation(t *testing.T) {
	for _, gt := range storage.GoalTypes {
		p, ok := presentations[gt]
		if !ok {
			t.Errorf("missing presentation for %s", gt)
			continue
		}
		if p.Label == "" || p.DefaultUnit == "" || p.Emoji == "" || p.Color == "" {
			t.Errorf("incomplete presentation for %s: %+v", gt, p)
		}
	}
	if len(presentations) != len(storage.GoalTypes) {
		t.Errorf("presentation table has %d entries for %d types", len(presentations), len(storage.GoalTypes))
	}
}

func TestPresentationFallback(t *testing.T) {
	p := PresentationFor("MEDITATION")
	if p.Label != "MEDITATION" || p.Emoji == "" {
		t.Errorf("unexpected fallback %+v", p)
	}
}
