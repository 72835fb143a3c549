// Package screening defines the records returned by the AushadhiAI screening
// backend and their wire schemas.  Records are immutable values: the console
// reorders collections of them but never edits a field after decoding.
//
// The backend's JSON field names (including "protien" and "percentage_contro")
// are part of its contract and are kept verbatim in the wire structs only.
package screening

import (
	"fmt"
	"math"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// TargetCandidate
// ─────────────────────────────────────────────────────────────────────────────

// TargetCandidate is a protein identified as a plausible drug target for a
// disease.
type TargetCandidate struct {
	ProteinName        string   `json:"protein_name"`
	ProteinID          string   `json:"protein_id"`
	MatchFraction      float64  `json:"match_fraction"`
	AssociatedPathways []string `json:"associated_pathways"`
}

// MatchPercent returns MatchFraction as a rounded percentage.
func (t TargetCandidate) MatchPercent() int {
	return int(math.Round(t.MatchFraction * 100))
}

// Label is the name targets are ordered by.
func (t TargetCandidate) Label() string { return t.ProteinName }

// ─────────────────────────────────────────────────────────────────────────────
// MolecularHit
// ─────────────────────────────────────────────────────────────────────────────

// MolecularHit is a candidate molecule returned for a disease or target.
//
// DiseaseProteinID is used as the display key by the web pages but is
// not unique across hits for the same target; never index by it.
type MolecularHit struct {
	MoleculeIdentifier      string  `json:"molecule"`
	CanonicalRepresentation string  `json:"canonical_smiles"`
	Potency                 float64 `json:"ic50"`
	DiseaseName             string  `json:"disease_name"`
	DiseaseProteinID        string  `json:"disease_protein_id"`
	DiseaseProteinName      string  `json:"disease_protein_name"`
	StructureImage          string  `json:"structure_image,omitempty"`
}

// Label is the name hits are ordered by.
func (h MolecularHit) Label() string { return h.DiseaseProteinName }

// IC50 returns the potency in nanomolar.
func (h MolecularHit) IC50() float64 { return h.Potency }

// ImageDataURI renders StructureImage as a PNG data URI, or "" when absent.
func (h MolecularHit) ImageDataURI() string {
	if h.StructureImage == "" {
		return ""
	}
	return "data:image/png;base64," + h.StructureImage
}

// ─────────────────────────────────────────────────────────────────────────────
// AlternateStructure
// ─────────────────────────────────────────────────────────────────────────────

// AlternateStructure is a structural variant of a parent compound.
type AlternateStructure struct {
	MolecularHit
	MoleculeName string `json:"molecule_name"`
}

// Label is the name alternate structures are ordered by.
func (a AlternateStructure) Label() string { return a.MoleculeName }

// ─────────────────────────────────────────────────────────────────────────────
// EvaluationReport
// ─────────────────────────────────────────────────────────────────────────────

// EvaluationReport is the backend's narrative assessment of one compound.
type EvaluationReport struct {
	MoleculeIdentifier string  `json:"molecule"`
	MoleculeName       string  `json:"molecule_name"`
	Potency            float64 `json:"ic50"`
	DiseaseName        string  `json:"disease_name"`
	DiseaseProteinID   string  `json:"disease_protein_id"`
	DiseaseProteinName string  `json:"disease_protein_name"`
	NarrativeReport    string  `json:"narrative_report"`
}

// Label is the name reports are ordered by.
func (e EvaluationReport) Label() string { return e.MoleculeName }

// IC50 returns the potency in nanomolar.
func (e EvaluationReport) IC50() float64 { return e.Potency }

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// FieldError describes the first schema violation found in a record.
type FieldError struct {
	Index int
	Field string
	Issue string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("record %d: %s %s", e.Index, e.Field, e.Issue)
}

func validatePotency(index int, v *float64) error {
	switch {
	case v == nil:
		return &FieldError{Index: index, Field: "ic50", Issue: "is missing"}
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		return &FieldError{Index: index, Field: "ic50", Issue: "is not finite"}
	case *v < 0:
		return &FieldError{Index: index, Field: "ic50", Issue: "is negative"}
	}
	return nil
}

func required(index int, field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &FieldError{Index: index, Field: field, Issue: "is missing"}
	}
	return nil
}
