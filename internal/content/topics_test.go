package content

import (
	"strings"
	"testing"
)

func TestExtractTopics(t *testing.T) {
	text := "Photosynthesis converts light energy into chemical energy. " +
		"Short one. " +
		"Chlorophyll absorbs mostly blue and red wavelengths! " +
		"Why do leaves change colour in autumn? " +
		"The Calvin cycle fixes carbon dioxide into sugars. " +
		"Stomata regulate gas exchange and water loss."

	tests := []struct {
		name  string
		count int
		want  []string
	}{
		{"zero count", 0, nil},
		{"one topic", 1, []string{"Photosynthesis converts light energy into chemical energy"}},
		{"two topics evenly spaced", 2, []string{
			"Photosynthesis converts light energy into chemical energy",
			"Why do leaves change colour in autumn",
		}},
		{"more than available", 10, []string{
			"Photosynthesis converts light energy into chemical energy",
			"Chlorophyll absorbs mostly blue and red wavelengths",
			"Why do leaves change colour in autumn",
			"The Calvin cycle fixes carbon dioxide into sugars",
			"Stomata regulate gas exchange and water loss",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTopics(text, tt.count)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d topics, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("topic %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestExtractTopics_DropsShortSentences(t *testing.T) {
	got := ExtractTopics("Too short. Also short! Nope?", 3)
	if len(got) != 0 {
		t.Errorf("expected no topics, got %v", got)
	}
}

func TestExtractTopics_CollapsesWhitespace(t *testing.T) {
	got := ExtractTopics("  Mitochondria\n   produce   most of the cell's ATP.  ", 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(got))
	}
	if strings.Contains(got[0], "  ") || strings.Contains(got[0], "\n") {
		t.Errorf("expected collapsed whitespace, got %q", got[0])
	}
}
