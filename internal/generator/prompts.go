package generator

import (
	"fmt"
	"strings"

	"github.com/notequiz/backend/internal/models"
)

var typeRules = map[models.QuestionType]string{
	models.TypeMCQ: `
STRUCTURE RULES (MCQ):
- Provide exactly 4 entries in "options"
- "answer" must be copied verbatim from one of the options
- Distractors must be plausible and drawn from the same notes
- Do not use "All of the above" or "None of the above"`,

	models.TypeTF: `
STRUCTURE RULES (TF):
- "answer" must be exactly "True" or "False"
- Make roughly half of the statements false by altering one specific detail
- Do not set "options"`,

	models.TypeMatching: `
STRUCTURE RULES (MATCHING):
- Provide exactly 4 "leftItems" and 4 "rightItems", each {"id", "text"}
- Use ids L1-L4 for left items and R1-R4 for right items
- "correctMatches" maps every right item id to its left item id, e.g. {"R1": "L3"}
- "answer" lists the pairs as "L1-R2, L2-R4, L3-R1, L4-R3"
- Shuffle the right column so position does not reveal the match`,

	models.TypeEssay: `
STRUCTURE RULES (ESSAY):
- Ask an open question that needs a paragraph-length answer
- "answer" is a model answer of 3-6 sentences grounded in the notes
- Do not set "options" or matching fields`,
}

// BatchSystemPrompt is shared by every question batch.
func BatchSystemPrompt() string {
	return `You are an experienced teacher writing quiz questions from a student's own study notes.

Every question must be answerable from the supplied notes alone. Prefer questions that test
understanding over recall of trivial wording. Keep language clear and unambiguous.

Return your questions by calling the ` + batchToolName + ` tool. Every question object must include
"id", "type", "question", "answer" and "difficulty".`
}

// PromptInput carries everything a batch prompt is built from.
type PromptInput struct {
	Type       models.QuestionType
	Count      int
	Subject    string
	Difficulty models.Difficulty
	StartID    int
	Chunk      string
	Topics     []string
	Avoid      []string
}

func BuildBatchUserPrompt(in PromptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly %d %s questions about %q at %s difficulty.\n", in.Count, in.Type, in.Subject, in.Difficulty)
	fmt.Fprintf(&b, "Number the ids sequentially starting at q%d.\n", in.StartID)
	fmt.Fprintf(&b, "Set \"type\" to %q and \"difficulty\" to %q on every question.\n", in.Type, in.Difficulty)

	if rules, ok := typeRules[in.Type]; ok {
		b.WriteString(rules)
		b.WriteString("\n")
	}

	if len(in.Topics) > 0 {
		b.WriteString("\nFOCUS TOPICS (spread questions across these):\n")
		for _, topic := range in.Topics {
			fmt.Fprintf(&b, "- %s\n", topic)
		}
	}

	if len(in.Avoid) > 0 {
		b.WriteString("\nALREADY ASKED (do not repeat or paraphrase these):\n")
		for _, q := range in.Avoid {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	b.WriteString("\nSTUDY NOTES:\n\"\"\"\n")
	b.WriteString(in.Chunk)
	b.WriteString("\n\"\"\"\n")

	return b.String()
}

func FeedbackSystemPrompt() string {
	return `You are a supportive tutor giving feedback on a student's written answer.
Be specific and honest. Refer to the student's own wording where possible.`
}

func BuildFeedbackPrompt(req models.FeedbackRequest) string {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "general studies"
	}

	return fmt.Sprintf(`Subject: %s

Question:
%s

Student answer:
%s

Give feedback in four short sections:
1. Strengths: what the answer gets right
2. Areas for improvement: gaps, errors or vague points
3. Suggestions: concrete steps to strengthen the answer
4. Broader connections: related ideas in %s worth exploring`, subject, req.Question, req.UserAnswer, subject)
}
