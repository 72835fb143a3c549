package client

import (
	"context"
	"strings"

	apperrors "github.com/aushadhiai/screening-console/pkg/errors"
	"github.com/aushadhiai/screening-console/pkg/types/screening"
)

// Endpoint identifies one backend operation.
type Endpoint int

const (
	EndpointFindTargets Endpoint = iota + 1
	EndpointHitsByDisease
	EndpointHitsByTarget
	EndpointAlternates
	EndpointEvaluation
)

var endpointPaths = map[Endpoint]string{
	EndpointFindTargets:   "/find_protien/",
	EndpointHitsByDisease: "/aushadhi_lelo/",
	EndpointHitsByTarget:  "/fetch_chambl_data/",
	EndpointAlternates:    "/alternate_molecule_generator/",
	EndpointEvaluation:    "/find_data_evaluation_report/",
}

var endpointNames = map[Endpoint]string{
	EndpointFindTargets:   "find_targets",
	EndpointHitsByDisease: "hits_by_disease",
	EndpointHitsByTarget:  "hits_by_target",
	EndpointAlternates:    "alternates",
	EndpointEvaluation:    "evaluation",
}

// Path is the URL path of the endpoint, relative to the base URL.
func (e Endpoint) Path() string {
	if p, ok := endpointPaths[e]; ok {
		return p
	}
	return "/"
}

// Name is a stable label for logs and metrics.
func (e Endpoint) Name() string {
	if n, ok := endpointNames[e]; ok {
		return n
	}
	return "unknown"
}

func (e Endpoint) String() string { return e.Name() }

type diseaseRequest struct {
	Disease string `json:"disease"`
}

type targetRequest struct {
	PDBID string `json:"pdb_id_input"`
}

type smilesRequest struct {
	SMILES string `json:"smiles"`
}

func requireArg(name, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperrors.InvalidParam(name + " is required")
	}
	return v, nil
}

// FindTargetProteins returns the proteins identified as targets for disease.
func (c *Client) FindTargetProteins(ctx context.Context, disease string) ([]screening.TargetCandidate, error) {
	disease, err := requireArg("disease", disease)
	if err != nil {
		return nil, err
	}
	var out []screening.TargetCandidate
	err = c.call(ctx, EndpointFindTargets, diseaseRequest{Disease: disease}, func(raw []byte) (derr error) {
		out, derr = screening.DecodeTargets(raw)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindHitsByDisease returns candidate molecules for disease.
func (c *Client) FindHitsByDisease(ctx context.Context, disease string) ([]screening.MolecularHit, error) {
	disease, err := requireArg("disease", disease)
	if err != nil {
		return nil, err
	}
	return c.hits(ctx, EndpointHitsByDisease, diseaseRequest{Disease: disease})
}

// FindHitsByTarget returns candidate molecules for a protein structure id.
func (c *Client) FindHitsByTarget(ctx context.Context, pdbID string) ([]screening.MolecularHit, error) {
	pdbID, err := requireArg("target id", pdbID)
	if err != nil {
		return nil, err
	}
	return c.hits(ctx, EndpointHitsByTarget, targetRequest{PDBID: pdbID})
}

func (c *Client) hits(ctx context.Context, endpoint Endpoint, body interface{}) ([]screening.MolecularHit, error) {
	var out []screening.MolecularHit
	err := c.call(ctx, endpoint, body, func(raw []byte) (derr error) {
		out, derr = screening.DecodeHits(raw)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateAlternates returns structural variants generated for disease.
func (c *Client) GenerateAlternates(ctx context.Context, disease string) ([]screening.AlternateStructure, error) {
	disease, err := requireArg("disease", disease)
	if err != nil {
		return nil, err
	}
	var out []screening.AlternateStructure
	err = c.call(ctx, EndpointAlternates, diseaseRequest{Disease: disease}, func(raw []byte) (derr error) {
		out, derr = screening.DecodeAlternates(raw)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchEvaluation returns the evaluation reports for a SMILES string.
func (c *Client) FetchEvaluation(ctx context.Context, smiles string) ([]screening.EvaluationReport, error) {
	smiles, err := requireArg("smiles", smiles)
	if err != nil {
		return nil, err
	}
	var out []screening.EvaluationReport
	err = c.call(ctx, EndpointEvaluation, smilesRequest{SMILES: smiles}, func(raw []byte) (derr error) {
		out, derr = screening.DecodeEvaluations(raw)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
