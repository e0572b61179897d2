package ssa

// This file defines the JSON-tagged configuration surface that compiles
// into a StateDef plus arena-allocated mesh topology (see builder.go),
// grounded on daniacca-achemdb's SchemaConfig/ReactionConfig pattern
// (internal/achem/config.go), generalized from a single flat reaction
// list to the spec's per-compartment/per-patch model.

// ReacConfig is one volume reaction definition: species multiplicities
// on each side of the arrow, and its macroscopic rate constant.
type ReacConfig struct {
	ID  string         `json:"id"`
	Lhs map[string]int `json:"lhs"`
	Rhs map[string]int `json:"rhs"`
	K   float64        `json:"k"`
}

// SReacConfig is one surface reaction definition. At most one of
// Inside/Outside may be true; when both are false the reaction is
// surface-surface only.
type SReacConfig struct {
	ID      string         `json:"id"`
	LhsS    map[string]int `json:"lhs_s"`
	RhsS    map[string]int `json:"rhs_s"`
	LhsI    map[string]int `json:"lhs_i,omitempty"`
	RhsI    map[string]int `json:"rhs_i,omitempty"`
	LhsO    map[string]int `json:"lhs_o,omitempty"`
	RhsO    map[string]int `json:"rhs_o,omitempty"`
	Inside  bool           `json:"inside,omitempty"`
	Outside bool           `json:"outside,omitempty"`
	K       float64        `json:"k"`
}

// DiffConfig is one diffusion definition: the diffusing ligand species
// and its default diffusion constant.
type DiffConfig struct {
	ID     string  `json:"id"`
	Ligand string  `json:"ligand"`
	Dcst   float64 `json:"dcst"`
}

// TetConfig is one mesh tetrahedron: its volume and the per-face
// geometry spec.md §3 requires (area, barycenter distance, neighbor Tet,
// neighbor Tri). -1 marks an absent neighbor.
type TetConfig struct {
	Vol          float64    `json:"vol"`
	Area         [4]float64 `json:"area"`
	Dist         [4]float64 `json:"dist"`
	NeighbTet    [4]int     `json:"neighb_tet"`
	NeighbTri    [4]int     `json:"neighb_tri"`
}

// TriConfig is one mesh triangle: its area and optional inner/outer Tet
// indices (-1 if absent).
type TriConfig struct {
	Area     float64 `json:"area"`
	InnerTet int     `json:"inner_tet"`
	OuterTet int     `json:"outer_tet"`
}

// MeshConfig is the complete set of Tets and Tris, indexed by position
// in these slices; all other configs reference mesh elements by index.
type MeshConfig struct {
	Tets []TetConfig `json:"tets"`
	Tris []TriConfig `json:"tris"`
}

// CompartmentConfig assigns a set of Tets to a Compartment and lists
// which reactions/diffusions are instantiated in every one of them.
type CompartmentConfig struct {
	ID         string   `json:"id"`
	TetIndices []int    `json:"tet_indices"`
	Reactions  []string `json:"reactions,omitempty"`
	Diffusions []string `json:"diffusions,omitempty"`
}

// PatchConfig assigns a set of Tris to a Patch, bound to an inner and
// optional outer compartment, with its surface reactions.
type PatchConfig struct {
	ID               string   `json:"id"`
	TriIndices       []int    `json:"tri_indices"`
	InnerComp        string   `json:"inner_comp"`
	OuterComp        string   `json:"outer_comp,omitempty"`
	SurfaceReactions []string `json:"surface_reactions,omitempty"`
}

// DiffBoundaryConfig links two compartments across a shared set of Tris.
type DiffBoundaryConfig struct {
	ID         string `json:"id"`
	TriIndices []int  `json:"tri_indices"`
	CompA      string `json:"comp_a"`
	CompB      string `json:"comp_b"`
}

// ModelConfig is the top-level, JSON-serializable model+mesh description
// that Build compiles into an Engine.
type ModelConfig struct {
	Name             string               `json:"name"`
	Species          []string             `json:"species"`
	Reactions        []ReacConfig         `json:"reactions,omitempty"`
	SurfaceReactions []SReacConfig        `json:"surface_reactions,omitempty"`
	Diffusions       []DiffConfig         `json:"diffusions,omitempty"`
	Mesh             MeshConfig           `json:"mesh"`
	Compartments     []CompartmentConfig  `json:"compartments"`
	Patches          []PatchConfig        `json:"patches,omitempty"`
	DiffBoundaries   []DiffBoundaryConfig `json:"diff_boundaries,omitempty"`
}
