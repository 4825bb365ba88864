package negation

import (
	"qualibot.com/qualifier/types"
)

// LocateClauses finds the verb clauses of a sentence: the ROOT predicate and
// every verb reachable from it through ccomp/conj links, in breadth-first
// discovery order. Each clause spans the verb together with its direct
// aux/auxpass/neg dependents. A clause whose span overlaps one discovered
// earlier is dropped.
func LocateClauses(sent *types.Sentence) []types.VerbClause {
	var clauses []types.VerbClause

	queue := []types.Token{sent.Root()}
	for len(queue) > 0 {
		verb := queue[0]
		queue = queue[1:]

		clause := types.VerbClause{Verb: verb, Begin: verb.Index, End: verb.Index}
		for _, child := range sent.Children(verb.Index) {
			switch {
			case child.HasDep(types.DepAux, types.DepAuxPass, types.DepNeg):
				if child.Index < clause.Begin {
					clause.Begin = child.Index
				}
				if child.Index > clause.End {
					clause.End = child.Index
				}
			case child.HasDep(types.DepCcomp, types.DepConj):
				queue = append(queue, child)
			}
		}
		clause.Span = sent.Slice(clause.Begin, clause.End)

		if overlapsAny(clause, clauses) {
			continue
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

func overlapsAny(clause types.VerbClause, clauses []types.VerbClause) bool {
	for _, other := range clauses {
		if clause.Overlaps(other) {
			return true
		}
	}
	return false
}
