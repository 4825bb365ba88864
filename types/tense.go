package types

type Tense string

const (
	TenseAux     Tense = "AUX"
	TensePast    Tense = "VBD"
	TensePresent Tense = "VBP"
	TenseThird   Tense = "VBZ"
	TenseUnknown Tense = "?"
)

// Inflected lists the tense tags the morphology service is queried for, in
// the order they are tried.
func Inflected() []Tense {
	return []Tense{TensePast, TensePresent, TenseThird}
}
