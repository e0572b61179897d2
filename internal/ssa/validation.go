package ssa

import (
	"strconv"
	"strings"
)

// ValidationError aggregates every issue found while validating a
// ModelConfig, mirroring daniacca-achemdb's internal/achem/validation.go
// ValidationError.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "invalid model config: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) { e.Issues = append(e.Issues, issue) }
func (e *ValidationError) HasIssues() bool  { return len(e.Issues) > 0 }

// ValidateModelConfig checks species/reaction/diffusion/compartment/patch
// references for internal consistency before Build compiles them,
// following the teacher's validate-before-build discipline.
func ValidateModelConfig(cfg ModelConfig) error {
	ve := &ValidationError{}

	if cfg.Name == "" {
		ve.Add("model name must not be empty")
	}

	species := map[string]bool{}
	for _, s := range cfg.Species {
		if species[s] {
			ve.Add("duplicate species: " + s)
		}
		species[s] = true
	}

	reacs := map[string]ReacConfig{}
	for _, r := range cfg.Reactions {
		if r.ID == "" {
			ve.Add("reaction with empty id")
			continue
		}
		if _, dup := reacs[r.ID]; dup {
			ve.Add("duplicate reaction id: " + r.ID)
		}
		reacs[r.ID] = r
		validateStoich(ve, "reaction "+r.ID+" lhs", r.Lhs, species)
		validateStoich(ve, "reaction "+r.ID+" rhs", r.Rhs, species)
		if order(r.Lhs) > 4 {
			ve.Add("reaction " + r.ID + ": lhs order > 4 is unsupported")
		}
	}

	sreacs := map[string]SReacConfig{}
	for _, r := range cfg.SurfaceReactions {
		if r.ID == "" {
			ve.Add("surface reaction with empty id")
			continue
		}
		if _, dup := sreacs[r.ID]; dup {
			ve.Add("duplicate surface reaction id: " + r.ID)
		}
		sreacs[r.ID] = r
		if r.Inside && r.Outside {
			ve.Add("surface reaction " + r.ID + ": inside and outside are mutually exclusive")
		}
		validateStoich(ve, "surface reaction "+r.ID+" lhs_s", r.LhsS, species)
		validateStoich(ve, "surface reaction "+r.ID+" lhs_i", r.LhsI, species)
		validateStoich(ve, "surface reaction "+r.ID+" lhs_o", r.LhsO, species)
		totalOrder := order(r.LhsS) + order(r.LhsI) + order(r.LhsO)
		if totalOrder > 4 {
			ve.Add("surface reaction " + r.ID + ": combined lhs order > 4 is unsupported")
		}
	}

	diffs := map[string]DiffConfig{}
	for _, d := range cfg.Diffusions {
		if d.ID == "" {
			ve.Add("diffusion with empty id")
			continue
		}
		if _, dup := diffs[d.ID]; dup {
			ve.Add("duplicate diffusion id: " + d.ID)
		}
		diffs[d.ID] = d
		if !species[d.Ligand] {
			ve.Add("diffusion " + d.ID + ": ligand species not declared: " + d.Ligand)
		}
	}

	numTets := len(cfg.Mesh.Tets)
	numTris := len(cfg.Mesh.Tris)

	comps := map[string]CompartmentConfig{}
	tetOwner := map[int]string{}
	for _, c := range cfg.Compartments {
		if c.ID == "" {
			ve.Add("compartment with empty id")
			continue
		}
		if _, dup := comps[c.ID]; dup {
			ve.Add("duplicate compartment id: " + c.ID)
		}
		comps[c.ID] = c
		for _, ti := range c.TetIndices {
			if ti < 0 || ti >= numTets {
				ve.Add("compartment " + c.ID + ": tet index out of range: " + strconv.Itoa(ti))
				continue
			}
			if owner, ok := tetOwner[ti]; ok {
				ve.Add("tet " + strconv.Itoa(ti) + " assigned to both compartment " + owner + " and " + c.ID)
			}
			tetOwner[ti] = c.ID
		}
		for _, rid := range c.Reactions {
			if _, ok := reacs[rid]; !ok {
				ve.Add("compartment " + c.ID + ": unknown reaction " + rid)
			}
		}
		for _, did := range c.Diffusions {
			if _, ok := diffs[did]; !ok {
				ve.Add("compartment " + c.ID + ": unknown diffusion " + did)
			}
		}
	}

	triOwner := map[int]string{}
	for _, p := range cfg.Patches {
		if p.ID == "" {
			ve.Add("patch with empty id")
			continue
		}
		if _, ok := comps[p.InnerComp]; !ok {
			ve.Add("patch " + p.ID + ": unknown inner compartment " + p.InnerComp)
		}
		if p.OuterComp != "" {
			if _, ok := comps[p.OuterComp]; !ok {
				ve.Add("patch " + p.ID + ": unknown outer compartment " + p.OuterComp)
			}
		}
		for _, ti := range p.TriIndices {
			if ti < 0 || ti >= numTris {
				ve.Add("patch " + p.ID + ": tri index out of range: " + strconv.Itoa(ti))
				continue
			}
			if owner, ok := triOwner[ti]; ok {
				ve.Add("tri " + strconv.Itoa(ti) + " assigned to both patch " + owner + " and " + p.ID)
			}
			triOwner[ti] = p.ID
		}
		for _, sid := range p.SurfaceReactions {
			sr, ok := sreacs[sid]
			if !ok {
				ve.Add("patch " + p.ID + ": unknown surface reaction " + sid)
				continue
			}
			if sr.Inside && p.InnerComp == "" {
				ve.Add("patch " + p.ID + ": surface reaction " + sid + " requires an inner compartment")
			}
			if sr.Outside && p.OuterComp == "" {
				ve.Add("patch " + p.ID + ": surface reaction " + sid + " requires an outer compartment")
			}
		}
	}

	for _, b := range cfg.DiffBoundaries {
		if b.ID == "" {
			ve.Add("diffusion boundary with empty id")
			continue
		}
		if _, ok := comps[b.CompA]; !ok {
			ve.Add("diffusion boundary " + b.ID + ": unknown compartment " + b.CompA)
		}
		if _, ok := comps[b.CompB]; !ok {
			ve.Add("diffusion boundary " + b.ID + ": unknown compartment " + b.CompB)
		}
		for _, ti := range b.TriIndices {
			if ti < 0 || ti >= numTris {
				ve.Add("diffusion boundary " + b.ID + ": tri index out of range: " + strconv.Itoa(ti))
			}
		}
	}

	for i, t := range cfg.Mesh.Tets {
		if t.Vol <= 0 {
			ve.Add("tet " + strconv.Itoa(i) + ": volume must be positive")
		}
	}
	for i, tr := range cfg.Mesh.Tris {
		if tr.Area <= 0 {
			ve.Add("tri " + strconv.Itoa(i) + ": area must be positive")
		}
	}

	if ve.HasIssues() {
		return ve
	}
	return nil
}

func validateStoich(ve *ValidationError, ctx string, stoich map[string]int, species map[string]bool) {
	for s, n := range stoich {
		if !species[s] {
			ve.Add(ctx + ": unknown species " + s)
		}
		if n < 0 {
			ve.Add(ctx + ": negative multiplicity for " + s)
		}
		if n > 4 {
			ve.Add(ctx + ": multiplicity for " + s + " exceeds the supported maximum of 4")
		}
	}
}

func order(stoich map[string]int) int {
	total := 0
	for _, n := range stoich {
		total += n
	}
	return total
}

