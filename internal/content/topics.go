package content

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// MinTopicLength is the shortest sentence (in characters) kept as a topic.
const MinTopicLength = 20

// ExtractTopics picks up to count representative sentences from chunk,
// evenly spaced across the qualifying sentences. The result is only used to
// steer prompts, so fewer topics than requested is fine.
func ExtractTopics(chunk string, count int) []string {
	if count <= 0 {
		return nil
	}

	sentences := strings.FieldsFunc(chunk, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	qualifying := lo.FilterMap(sentences, func(s string, _ int) (string, bool) {
		s = strings.Join(strings.Fields(s), " ")
		return s, utf8.RuneCountInString(s) >= MinTopicLength
	})

	if len(qualifying) <= count {
		return qualifying
	}

	topics := make([]string, 0, count)
	for i := 0; i < count; i++ {
		topics = append(topics, qualifying[i*len(qualifying)/count])
	}
	return topics
}
