package lemmatizer

import "strings"

const (
	VBD = "VBD"
	VBP = "VBP"
	VBZ = "VBZ"
	VBG = "VBG"
)

type MorphologicalRules struct {
	// inflected form -> lemma
	VerbExc map[string]string
	// known verb lemmas
	VerbBase map[string]bool
	// suffix, replacement
	VerbRule [][]string
	// lemma -> tag -> forms, for verbs that do not follow the spelling rules
	VerbIrregular map[string]map[string][]string
}

func (rules *MorphologicalRules) getException(form string) (string, bool) {
	exc, hasExc := rules.VerbExc[form]
	return exc, hasExc
}

func (rules *MorphologicalRules) getBase(form string) (string, bool) {
	if rules.VerbBase[form] {
		return form, true
	}
	for _, stem := range rules.candidates(form) {
		if rules.VerbBase[stem] {
			return stem, true
		}
	}
	return "", false
}

// guess returns the first rule candidate whose regular inflection reproduces
// the form. Used for words missing from the lexicon.
func (rules *MorphologicalRules) guess(form string) (string, bool) {
	tag := suffixTag(form)
	if tag == "" || !inflectedShape(form, tag) {
		return "", false
	}
	for _, stem := range rules.candidates(form) {
		if !plausibleStem(stem) {
			continue
		}
		for _, inflected := range regularInflection(stem, tag) {
			if inflected == form {
				return stem, true
			}
		}
	}
	return "", false
}

func (rules *MorphologicalRules) candidates(form string) []string {
	var stems []string
	for _, rule := range rules.VerbRule {
		if !strings.HasSuffix(form, rule[0]) {
			continue
		}
		stem := form[:len(form)-len(rule[0])]
		if rule[1] == "" && (rule[0] == "ed" || rule[0] == "ing") && hasDoubledEnding(stem) {
			stems = append(stems, stem[:len(stem)-1])
		}
		stems = append(stems, stem+rule[1])
	}
	return stems
}

func (rules *MorphologicalRules) inflections(lemma string, tag string) []string {
	if forms, ok := rules.VerbIrregular[lemma][tag]; ok {
		return forms
	}
	return regularInflection(lemma, tag)
}

// inflectedShape rejects base forms that only look inflected ("proceed",
// "focus").
func inflectedShape(form string, tag string) bool {
	switch tag {
	case VBD:
		return !strings.HasSuffix(form, "eed")
	case VBZ:
		return !endsWithAny(form, "ss", "us", "is")
	}
	return true
}

// plausibleStem needs a vowel after the first letter, not counting a final
// "e" added by a rule ("fl", "fle", "str", "emb" are no verbs).
func plausibleStem(stem string) bool {
	if len(stem) < 3 {
		return false
	}
	core := strings.TrimSuffix(stem, "e")
	return strings.ContainsAny(core[1:], "aeiouy")
}

func suffixTag(form string) string {
	switch {
	case strings.HasSuffix(form, "ing"):
		return VBG
	case strings.HasSuffix(form, "ed"):
		return VBD
	case strings.HasSuffix(form, "s"):
		return VBZ
	}
	return ""
}

func regularInflection(lemma string, tag string) []string {
	switch tag {
	case VBP:
		return []string{lemma}
	case VBZ:
		switch {
		case endsWithAny(lemma, "s", "x", "z", "ch", "sh", "o"):
			return []string{lemma + "es"}
		case consonantY(lemma):
			return []string{lemma[:len(lemma)-1] + "ies"}
		}
		return []string{lemma + "s"}
	case VBD:
		switch {
		case strings.HasSuffix(lemma, "e"):
			return []string{lemma + "d"}
		case consonantY(lemma):
			return []string{lemma[:len(lemma)-1] + "ied"}
		case doublesFinal(lemma):
			return []string{lemma + lemma[len(lemma)-1:] + "ed"}
		}
		return []string{lemma + "ed"}
	case VBG:
		switch {
		case strings.HasSuffix(lemma, "ie"):
			return []string{lemma[:len(lemma)-2] + "ying"}
		case strings.HasSuffix(lemma, "e") && !endsWithAny(lemma, "ee", "ye", "oe"):
			return []string{lemma[:len(lemma)-1] + "ing"}
		case doublesFinal(lemma):
			return []string{lemma + lemma[len(lemma)-1:] + "ing"}
		}
		return []string{lemma + "ing"}
	}
	return nil
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}

func endsWithAny(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func consonantY(s string) bool {
	n := len(s)
	return n >= 2 && s[n-1] == 'y' && !isVowel(s[n-2])
}

// doublesFinal reports a single-syllable consonant-vowel-consonant ending
// ("stop" -> "stopped").
func doublesFinal(s string) bool {
	n := len(s)
	if n < 3 || strings.IndexByte("wxy", s[n-1]) >= 0 {
		return false
	}
	if isVowel(s[n-1]) || !isVowel(s[n-2]) || isVowel(s[n-3]) {
		return false
	}
	return vowelGroups(s) == 1
}

func vowelGroups(s string) int {
	groups := 0
	inGroup := false
	for i := 0; i < len(s); i++ {
		if isVowel(s[i]) {
			if !inGroup {
				groups++
			}
			inGroup = true
			continue
		}
		inGroup = false
	}
	return groups
}

func hasDoubledEnding(s string) bool {
	n := len(s)
	return n >= 2 && s[n-1] == s[n-2] && !isVowel(s[n-1])
}
