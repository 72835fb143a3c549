package viewmodel

import (
	"context"

	"github.com/aushadhiai/screening-console/internal/domain/ranking"
	"github.com/aushadhiai/screening-console/pkg/types/screening"
)

// Screen names, used for logging and metrics labels.
const (
	ScreenTargets     = "targets"
	ScreenHits        = "hits"
	ScreenAlternates  = "alternates"
	ScreenEvaluations = "evaluations"
)

// HitsBy selects the parameter a hits page is keyed on.
type HitsBy int

const (
	HitsByDisease HitsBy = iota
	HitsByTarget
)

// Backend is the subset of the screening client the pages use.
type Backend interface {
	FindTargetProteins(ctx context.Context, disease string) ([]screening.TargetCandidate, error)
	FindHitsByDisease(ctx context.Context, disease string) ([]screening.MolecularHit, error)
	FindHitsByTarget(ctx context.Context, pdbID string) ([]screening.MolecularHit, error)
	GenerateAlternates(ctx context.Context, disease string) ([]screening.AlternateStructure, error)
	FetchEvaluation(ctx context.Context, smiles string) ([]screening.EvaluationReport, error)
}

var potencyAsc = ranking.SortState{Field: ranking.FieldPotency, Direction: ranking.Asc}

// NewTargetsPage keys on disease and keeps the backend's order until sorted.
func NewTargetsPage(b Backend, c *ranking.Collation, opts ...Option) (*Page[screening.TargetCandidate], error) {
	return NewPage(ScreenTargets, b.FindTargetProteins, ranking.TargetSet(c), ranking.SortState{}, opts...)
}

// NewHitsPage keys on a disease name or a target structure id.
func NewHitsPage(b Backend, by HitsBy, c *ranking.Collation, opts ...Option) (*Page[screening.MolecularHit], error) {
	fetch := b.FindHitsByDisease
	if by == HitsByTarget {
		fetch = b.FindHitsByTarget
	}
	return NewPage(ScreenHits, fetch, ranking.HitSet(c), potencyAsc, opts...)
}

// NewAlternatesPage keys on disease.
func NewAlternatesPage(b Backend, c *ranking.Collation, opts ...Option) (*Page[screening.AlternateStructure], error) {
	return NewPage(ScreenAlternates, b.GenerateAlternates, ranking.AlternateSet(c), potencyAsc, opts...)
}

// NewEvaluationPage keys on a SMILES string.
func NewEvaluationPage(b Backend, c *ranking.Collation, opts ...Option) (*Page[screening.EvaluationReport], error) {
	return NewPage(ScreenEvaluations, b.FetchEvaluation, ranking.EvaluationSet(c), potencyAsc, opts...)
}
