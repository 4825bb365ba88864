package types

// VerbClause is the verb phrase of one predication: the head verb plus the
// contiguous span covering its auxiliaries and negation particles.
type VerbClause struct {
	Verb  Token
	Begin int
	End   int
	Span  []Token
}

func (clause VerbClause) Overlaps(other VerbClause) bool {
	return clause.Begin <= other.End && other.Begin <= clause.End
}

// NegationChoice holds one flag per clause, in clause discovery order.
type NegationChoice []bool

// NewNegationChoice reads the flags of combination k: clause i is negated
// when bit i of k is set.
func NewNegationChoice(k uint64, n int) NegationChoice {
	choice := make(NegationChoice, n)
	for i := 0; i < n; i++ {
		choice[i] = k&(1<<uint(i)) != 0
	}
	return choice
}
