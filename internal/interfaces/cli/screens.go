package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aushadhiai/screening-console/internal/application/viewmodel"
	"github.com/aushadhiai/screening-console/internal/domain/potency"
	"github.com/aushadhiai/screening-console/internal/domain/ranking"
	"github.com/aushadhiai/screening-console/pkg/errors"
	"github.com/aushadhiai/screening-console/pkg/types/screening"
)

// sortFlags are the ordering flags shared by every screen command.
type sortFlags struct {
	field string
	desc  bool
}

func (f *sortFlags) register(cmd *cobra.Command, fields string) {
	cmd.Flags().StringVar(&f.field, "sort", "", "sort by field ("+fields+")")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
}

// apply sets the page ordering.  --desc alone reverses the page's default
// field.
func apply[T any](page *viewmodel.Page[T], f sortFlags) error {
	dir := ranking.Asc
	if f.desc {
		dir = ranking.Desc
	}
	if f.field == "" {
		if !f.desc {
			return nil
		}
		current := page.Snapshot().Sort
		if current.IsZero() {
			return errors.InvalidParam("--desc requires --sort on this screen")
		}
		return page.SetSort(ranking.SortState{Field: current.Field, Direction: dir})
	}
	field, err := ranking.ParseField(f.field)
	if err != nil {
		return err
	}
	return page.SetSort(ranking.SortState{Field: field, Direction: dir})
}

func requireParam(flag, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", errors.InvalidParam("--" + flag + " is required")
	}
	return v, nil
}

// runScreen loads page once and prints it.  A failed load prints the empty
// state and is not an error: the failure has been logged.
func runScreen[T any](cmd *cobra.Command, cliCtx *CLIContext, page *viewmodel.Page[T], param string, f sortFlags, r renderer[T]) error {
	if err := apply(page, f); err != nil {
		return err
	}
	_ = page.Load(cmd.Context(), param)
	return printScreen(cmd.OutOrStdout(), cliCtx.OutputFormat, cliCtx.NoColor, page.Snapshot(), r)
}

func pageOptions(cliCtx *CLIContext) []viewmodel.Option {
	return []viewmodel.Option{viewmodel.WithLogger(cliCtx.Logger)}
}

// ─────────────────────────────────────────────────────────────────────────────
// targets
// ─────────────────────────────────────────────────────────────────────────────

var targetRenderer = renderer[screening.TargetCandidate]{
	title:   "Targets",
	headers: []string{"Protein", "ID", "Match", "Confidence", "Pathways"},
	cells: func(t screening.TargetCandidate, paint painter) []string {
		m := potency.ClassifyMatch(t.MatchFraction)
		return []string{
			t.ProteinName,
			t.ProteinID,
			fmt.Sprintf("%d%%", t.MatchPercent()),
			paint(string(m), m.Color()),
			truncate(strings.Join(t.AssociatedPathways, ", "), 60),
		}
	},
}

func newTargetsCmd() *cobra.Command {
	var (
		disease string
		sf      sortFlags
	)
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Find candidate target proteins for a disease",
		Example: `  aushadhi targets --disease "Alzheimer's disease"
  aushadhi targets --disease tuberculosis --sort match --desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			param, err := requireParam("disease", disease)
			if err != nil {
				return err
			}
			page, err := viewmodel.NewTargetsPage(cliCtx.Backend, cliCtx.Collation, pageOptions(cliCtx)...)
			if err != nil {
				return err
			}
			return runScreen(cmd, cliCtx, page, param, sf, targetRenderer)
		},
	}
	cmd.Flags().StringVarP(&disease, "disease", "d", "", "disease name")
	sf.register(cmd, "match, name")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// hits
// ─────────────────────────────────────────────────────────────────────────────

var hitRenderer = renderer[screening.MolecularHit]{
	title:   "Hits",
	headers: []string{"Molecule", "IC50", "Potency", "Target", "SMILES"},
	cells: func(h screening.MolecularHit, paint painter) []string {
		return []string{
			h.MoleculeIdentifier,
			formatIC50(h.Potency),
			tierCell(h.Potency, paint),
			h.DiseaseProteinName,
			truncate(h.CanonicalRepresentation, 40),
		}
	},
}

func newHitsCmd() *cobra.Command {
	var (
		disease  string
		targetID string
		sf       sortFlags
	)
	cmd := &cobra.Command{
		Use:   "hits",
		Short: "Generate molecular hits for a disease or a target structure",
		Example: `  aushadhi hits --disease malaria
  aushadhi hits --target-id 1M17 --sort name`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			by, flag, value := viewmodel.HitsByDisease, "disease", disease
			if cmd.Flags().Changed("target-id") {
				by, flag, value = viewmodel.HitsByTarget, "target-id", targetID
			}
			param, err := requireParam(flag, value)
			if err != nil {
				return err
			}
			page, err := viewmodel.NewHitsPage(cliCtx.Backend, by, cliCtx.Collation, pageOptions(cliCtx)...)
			if err != nil {
				return err
			}
			return runScreen(cmd, cliCtx, page, param, sf, hitRenderer)
		},
	}
	cmd.Flags().StringVarP(&disease, "disease", "d", "", "disease name")
	cmd.Flags().StringVarP(&targetID, "target-id", "t", "", "target structure id (PDB)")
	cmd.MarkFlagsMutuallyExclusive("disease", "target-id")
	cmd.MarkFlagsOneRequired("disease", "target-id")
	sf.register(cmd, "potency, name")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// alternates
// ─────────────────────────────────────────────────────────────────────────────

var alternateRenderer = renderer[screening.AlternateStructure]{
	title:   "Alternate structures",
	headers: []string{"Name", "Molecule", "IC50", "Potency", "SMILES"},
	cells: func(a screening.AlternateStructure, paint painter) []string {
		return []string{
			a.MoleculeName,
			a.MoleculeIdentifier,
			formatIC50(a.Potency),
			tierCell(a.Potency, paint),
			truncate(a.CanonicalRepresentation, 40),
		}
	},
}

func newAlternatesCmd() *cobra.Command {
	var (
		disease string
		sf      sortFlags
	)
	cmd := &cobra.Command{
		Use:     "alternates",
		Short:   "Generate alternate structures for a disease",
		Example: `  aushadhi alternates --disease malaria --sort name`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			param, err := requireParam("disease", disease)
			if err != nil {
				return err
			}
			page, err := viewmodel.NewAlternatesPage(cliCtx.Backend, cliCtx.Collation, pageOptions(cliCtx)...)
			if err != nil {
				return err
			}
			return runScreen(cmd, cliCtx, page, param, sf, alternateRenderer)
		},
	}
	cmd.Flags().StringVarP(&disease, "disease", "d", "", "disease name")
	sf.register(cmd, "potency, name")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// evaluate
// ─────────────────────────────────────────────────────────────────────────────

var evaluationRenderer = renderer[screening.EvaluationReport]{
	title:   "Evaluation",
	headers: []string{"Name", "Molecule", "IC50", "Potency", "Target"},
	cells: func(e screening.EvaluationReport, paint painter) []string {
		return []string{
			e.MoleculeName,
			truncate(e.MoleculeIdentifier, 40),
			formatIC50(e.Potency),
			tierCell(e.Potency, paint),
			e.DiseaseProteinName,
		}
	},
	detail: func(e screening.EvaluationReport) string { return e.NarrativeReport },
}

func newEvaluateCmd() *cobra.Command {
	var (
		smiles string
		sf     sortFlags
	)
	cmd := &cobra.Command{
		Use:     "evaluate",
		Short:   "Fetch the evaluation report for a compound",
		Example: `  aushadhi evaluate --smiles "CC(=O)OC1=CC=CC=C1C(=O)O"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			param, err := requireParam("smiles", smiles)
			if err != nil {
				return err
			}
			page, err := viewmodel.NewEvaluationPage(cliCtx.Backend, cliCtx.Collation, pageOptions(cliCtx)...)
			if err != nil {
				return err
			}
			return runScreen(cmd, cliCtx, page, param, sf, evaluationRenderer)
		},
	}
	cmd.Flags().StringVarP(&smiles, "smiles", "s", "", "SMILES string of the compound")
	sf.register(cmd, "potency, name")
	return cmd
}
