package handlers

import (
	"github.com/aushadhiai/screening-console/internal/domain/potency"
	"github.com/aushadhiai/screening-console/pkg/types/screening"
)

// ScreenResponse is the body of every screen endpoint.  A failed load still
// answers 200 with State "failed", no items and ErrorCode set.
type ScreenResponse[I any] struct {
	State      string               `json:"state"`
	Query      string               `json:"query"`
	Generation uint64               `json:"generation"`
	Sort       SortView             `json:"sort"`
	Fields     []string             `json:"sortable_fields"`
	Count      int                  `json:"count"`
	Items      []I                  `json:"items"`
	Chart      []potency.ChartPoint `json:"chart,omitempty"`
	ErrorCode  string               `json:"error_code,omitempty"`
}

// SortView is the active ordering.  Field is "" for insertion order.
type SortView struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// TierBadge is the potency badge rendered next to a compound.
type TierBadge struct {
	Tier      potency.Tier `json:"tier"`
	TierLabel string       `json:"tier_label"`
	TierColor string       `json:"tier_color"`
}

func badge(ic50 float64) TierBadge {
	t := potency.Classify(ic50)
	return TierBadge{Tier: t, TierLabel: t.Label(), TierColor: t.Color()}
}

// TargetItem is a target with its confidence badge.
type TargetItem struct {
	screening.TargetCandidate
	MatchPercent int               `json:"match_percent"`
	MatchTier    potency.MatchTier `json:"match_tier"`
	MatchColor   string            `json:"match_color"`
}

func renderTarget(t screening.TargetCandidate) TargetItem {
	m := potency.ClassifyMatch(t.MatchFraction)
	return TargetItem{TargetCandidate: t, MatchPercent: t.MatchPercent(), MatchTier: m, MatchColor: m.Color()}
}

// HitItem is a hit with its potency badge and image URI.
type HitItem struct {
	screening.MolecularHit
	TierBadge
	Image string `json:"image,omitempty"`
}

func renderHit(h screening.MolecularHit) HitItem {
	return HitItem{MolecularHit: h, TierBadge: badge(h.Potency), Image: h.ImageDataURI()}
}

// AlternateItem is an alternate structure with its potency badge.
type AlternateItem struct {
	screening.AlternateStructure
	TierBadge
	Image string `json:"image,omitempty"`
}

func renderAlternate(a screening.AlternateStructure) AlternateItem {
	return AlternateItem{AlternateStructure: a, TierBadge: badge(a.Potency), Image: a.ImageDataURI()}
}

// EvaluationItem is a report with its potency badge.
type EvaluationItem struct {
	screening.EvaluationReport
	TierBadge
}

func renderEvaluation(e screening.EvaluationReport) EvaluationItem {
	return EvaluationItem{EvaluationReport: e, TierBadge: badge(e.Potency)}
}

func hitPoint(h screening.MolecularHit) potency.ChartPoint {
	return potency.ChartPoint{Label: h.Label(), IC50: h.Potency}
}

func alternatePoint(a screening.AlternateStructure) potency.ChartPoint {
	return potency.ChartPoint{Label: a.Label(), IC50: a.Potency}
}

func evaluationPoint(e screening.EvaluationReport) potency.ChartPoint {
	return potency.ChartPoint{Label: e.Label(), IC50: e.Potency}
}
