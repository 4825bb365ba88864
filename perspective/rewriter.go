package perspective

import (
	"qualibot.com/qualifier/types"
)

// agreement of the copula with the swapped subject
var (
	toSecondPerson = map[string]string{"am": "are", "was": "were"}
	toFirstPerson  = map[string]string{"are": "am", "were": "was"}
)

// Rewrite swaps first and second person pronouns and fixes the agreement of
// a copular head whose subject was swapped. The sentence is not modified.
func Rewrite(sent *types.Sentence) []string {
	texts := sent.Texts()

	for _, token := range sent.Tokens() {
		subject := token.Dep == types.DepNsubj

		switch token.Lower() {
		case "i", "me":
			if token.Index == 0 {
				texts[token.Index] = "You"
			} else {
				texts[token.Index] = "you"
			}
			if subject {
				agree(texts, sent.Head(token), toSecondPerson)
			}
		case "you":
			if !subject {
				texts[token.Index] = "me"
				continue
			}
			texts[token.Index] = "I"
			agree(texts, sent.Head(token), toFirstPerson)
		}
	}
	return texts
}

func agree(texts []string, head types.Token, forms map[string]string) {
	if form, ok := forms[head.Lower()]; ok {
		texts[head.Index] = form
	}
}
