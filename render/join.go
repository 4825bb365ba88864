package render

import (
	"strings"

	"qualibot.com/qualifier/types"
)

// characters that attach a token to the previous one
const attached = ".?!,-()[]'\""

// Join reassembles token texts into a sentence. A token containing any
// punctuation character from the attached set is written without the
// preceding space.
func Join(texts []string) string {
	var builder strings.Builder
	for i, text := range texts {
		if i > 0 && !strings.ContainsAny(text, attached) {
			builder.WriteByte(' ')
		}
		builder.WriteString(text)
	}
	return builder.String()
}

// Reply formats the alternates of one message into the text sent back to the
// user: the first alternate is what the user said, the others are offered as
// things to consider.
func Reply(templates types.ReplyConfig, alternates []string) string {
	if len(alternates) == 0 {
		return templates.Fallback
	}

	var builder strings.Builder
	builder.WriteString(templates.Lead)
	builder.WriteString(alternates[0])
	for i, alternate := range alternates[1:] {
		if i == 0 {
			builder.WriteString(templates.Alternative)
		} else {
			builder.WriteString(templates.More)
		}
		builder.WriteString(alternate)
	}
	return builder.String()
}
