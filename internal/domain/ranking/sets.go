package ranking

import "github.com/aushadhiai/screening-console/pkg/types/screening"

// HitSet sorts hits by potency or by disease protein name.
func HitSet(c *Collation) *Set[screening.MolecularHit] {
	return NewSet[screening.MolecularHit]().
		With(FieldPotency, ByPotency(screening.MolecularHit.IC50)).
		With(FieldName, ByName(c, screening.MolecularHit.Label))
}

// AlternateSet sorts alternate structures by potency or molecule name.
func AlternateSet(c *Collation) *Set[screening.AlternateStructure] {
	return NewSet[screening.AlternateStructure]().
		With(FieldPotency, ByPotency(func(a screening.AlternateStructure) float64 { return a.Potency })).
		With(FieldName, ByName(c, screening.AlternateStructure.Label))
}

// EvaluationSet sorts reports by potency or molecule name.
func EvaluationSet(c *Collation) *Set[screening.EvaluationReport] {
	return NewSet[screening.EvaluationReport]().
		With(FieldPotency, ByPotency(screening.EvaluationReport.IC50)).
		With(FieldName, ByName(c, screening.EvaluationReport.Label))
}

// TargetSet sorts targets by match fraction or protein name.
func TargetSet(c *Collation) *Set[screening.TargetCandidate] {
	return NewSet[screening.TargetCandidate]().
		With(FieldMatch, ByPotency(func(t screening.TargetCandidate) float64 { return t.MatchFraction })).
		With(FieldName, ByName(c, screening.TargetCandidate.Label))
}
