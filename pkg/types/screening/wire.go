package screening

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotAList is returned when a response body is valid JSON but not an array.
var ErrNotAList = errors.New("response body is not a JSON array")

// pathwayList accepts the backend's space-separated pathway string as well as
// a JSON array of strings.
type pathwayList []string

func (p *pathwayList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = strings.Fields(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	*p = out
	return nil
}

type targetWire struct {
	ProteinName   string      `json:"disease_protien"`
	ProteinID     string      `json:"protien_id"`
	MatchFraction *float64    `json:"percentage_contro"`
	Pathways      pathwayList `json:"Associated_pathway"`
}

func (w targetWire) toRecord(i int) (TargetCandidate, error) {
	if err := required(i, "protien_id", w.ProteinID); err != nil {
		return TargetCandidate{}, err
	}
	if err := required(i, "disease_protien", w.ProteinName); err != nil {
		return TargetCandidate{}, err
	}
	if w.MatchFraction == nil {
		return TargetCandidate{}, &FieldError{Index: i, Field: "percentage_contro", Issue: "is missing"}
	}
	if f := *w.MatchFraction; f < 0 || f > 1 {
		return TargetCandidate{}, &FieldError{Index: i, Field: "percentage_contro", Issue: "is outside [0,1]"}
	}
	pathways := []string(w.Pathways)
	if pathways == nil {
		pathways = []string{}
	}
	return TargetCandidate{
		ProteinName:        w.ProteinName,
		ProteinID:          w.ProteinID,
		MatchFraction:      *w.MatchFraction,
		AssociatedPathways: pathways,
	}, nil
}

type hitWire struct {
	Molecule           string   `json:"molecule"`
	CanonicalSMILES    string   `json:"canonical_smiles"`
	SmileString        string   `json:"smile_string"`
	IC50               *float64 `json:"ic50"`
	DiseaseName        string   `json:"disease_name"`
	DiseasePID         string   `json:"disease_pid"`
	DiseaseProteinName string   `json:"disease_protien_name"`
	MoleculeImage      string   `json:"molecule_image"`
}

func (w hitWire) toRecord(i int) (MolecularHit, error) {
	if err := validatePotency(i, w.IC50); err != nil {
		return MolecularHit{}, err
	}
	smiles := w.CanonicalSMILES
	if smiles == "" {
		smiles = w.SmileString
	}
	return MolecularHit{
		MoleculeIdentifier:      w.Molecule,
		CanonicalRepresentation: smiles,
		Potency:                 *w.IC50,
		DiseaseName:             w.DiseaseName,
		DiseaseProteinID:        w.DiseasePID,
		DiseaseProteinName:      w.DiseaseProteinName,
		StructureImage:          w.MoleculeImage,
	}, nil
}

type alternateWire struct {
	hitWire
	MoleculeName string `json:"molecule_name"`
}

type evaluationWire struct {
	Molecule           string   `json:"molecule"`
	MoleculeName       string   `json:"molecule_name"`
	IC50               *float64 `json:"ic50"`
	DiseaseName        string   `json:"disease_name"`
	DiseasePID         string   `json:"disease_pid"`
	DiseaseProteinName string   `json:"disease_protien_name"`
	Report             string   `json:"data_analysis_report"`
}

// decodeList unmarshals a JSON array body.  An empty body or literal null is
// an empty list; anything other than an array is ErrNotAList.
func decodeList[W any](data []byte) ([]W, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, errors.New("response body is not valid JSON")
		}
		return nil, ErrNotAList
	}
	var out []W
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeTargets decodes and validates a /find_protien/ response body.
func DecodeTargets(data []byte) ([]TargetCandidate, error) {
	wires, err := decodeList[targetWire](data)
	if err != nil {
		return nil, err
	}
	out := make([]TargetCandidate, 0, len(wires))
	for i, w := range wires {
		rec, err := w.toRecord(i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeHits decodes and validates a hit-list response body.
func DecodeHits(data []byte) ([]MolecularHit, error) {
	wires, err := decodeList[hitWire](data)
	if err != nil {
		return nil, err
	}
	out := make([]MolecularHit, 0, len(wires))
	for i, w := range wires {
		if err := required(i, "molecule", w.Molecule); err != nil {
			return nil, err
		}
		rec, err := w.toRecord(i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeAlternates decodes and validates an /alternate_molecule_generator/
// response body.
func DecodeAlternates(data []byte) ([]AlternateStructure, error) {
	wires, err := decodeList[alternateWire](data)
	if err != nil {
		return nil, err
	}
	out := make([]AlternateStructure, 0, len(wires))
	for i, w := range wires {
		if err := required(i, "molecule_name", w.MoleculeName); err != nil {
			return nil, err
		}
		hit, err := w.toRecord(i)
		if err != nil {
			return nil, err
		}
		out = append(out, AlternateStructure{MolecularHit: hit, MoleculeName: w.MoleculeName})
	}
	return out, nil
}

// DecodeEvaluations decodes and validates a /find_data_evaluation_report/
// response body.
func DecodeEvaluations(data []byte) ([]EvaluationReport, error) {
	wires, err := decodeList[evaluationWire](data)
	if err != nil {
		return nil, err
	}
	out := make([]EvaluationReport, 0, len(wires))
	for i, w := range wires {
		if err := required(i, "molecule", w.Molecule); err != nil {
			return nil, err
		}
		if err := validatePotency(i, w.IC50); err != nil {
			return nil, err
		}
		out = append(out, EvaluationReport{
			MoleculeIdentifier: w.Molecule,
			MoleculeName:       w.MoleculeName,
			Potency:            *w.IC50,
			DiseaseName:        w.DiseaseName,
			DiseaseProteinID:   w.DiseasePID,
			DiseaseProteinName: w.DiseaseProteinName,
			NarrativeReport:    w.Report,
		})
	}
	return out, nil
}
