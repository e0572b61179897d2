// Package client provides a fluent API for assembling tetexact ModelConfig
// values in Go, mirroring daniacca-achemdb's pkg/client SchemaBuilder/
// ReactionBuilder pattern but generalized from a flat reaction list to the
// compartment/patch/mesh model tetexact compiles.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tetexact/ssacore/internal/ssa"
)

// ModelBuilder assembles a ssa.ModelConfig one piece at a time.
type ModelBuilder struct {
	name           string
	species        []string
	reactions      []*ReactionBuilder
	sreactions     []*SurfaceReactionBuilder
	diffusions     []*DiffusionBuilder
	mesh           *MeshBuilder
	compartments   []*CompartmentBuilder
	patches        []*PatchBuilder
	diffBoundaries []*DiffBoundaryBuilder
}

// NewModel creates a new model builder with the given name.
func NewModel(name string) *ModelBuilder {
	return &ModelBuilder{
		name: name,
		mesh: NewMesh(),
	}
}

// Species registers one or more species names with the model.
func (mb *ModelBuilder) Species(names ...string) *ModelBuilder {
	mb.species = append(mb.species, names...)
	return mb
}

// Reaction adds a volume reaction to the model.
func (mb *ModelBuilder) Reaction(rb *ReactionBuilder) *ModelBuilder {
	mb.reactions = append(mb.reactions, rb)
	return mb
}

// SurfaceReaction adds a surface reaction to the model.
func (mb *ModelBuilder) SurfaceReaction(sb *SurfaceReactionBuilder) *ModelBuilder {
	mb.sreactions = append(mb.sreactions, sb)
	return mb
}

// Diffusion adds a diffusing ligand definition to the model.
func (mb *ModelBuilder) Diffusion(db *DiffusionBuilder) *ModelBuilder {
	mb.diffusions = append(mb.diffusions, db)
	return mb
}

// Mesh replaces the model's mesh builder.
func (mb *ModelBuilder) Mesh(m *MeshBuilder) *ModelBuilder {
	mb.mesh = m
	return mb
}

// Compartment adds a compartment to the model.
func (mb *ModelBuilder) Compartment(cb *CompartmentBuilder) *ModelBuilder {
	mb.compartments = append(mb.compartments, cb)
	return mb
}

// Patch adds a patch to the model.
func (mb *ModelBuilder) Patch(pb *PatchBuilder) *ModelBuilder {
	mb.patches = append(mb.patches, pb)
	return mb
}

// DiffBoundary adds a diffusion boundary to the model.
func (mb *ModelBuilder) DiffBoundary(db *DiffBoundaryBuilder) *ModelBuilder {
	mb.diffBoundaries = append(mb.diffBoundaries, db)
	return mb
}

// Build converts the builder into a ssa.ModelConfig suitable for ssa.Build.
// The tetexact server has no endpoint that accepts a model.
func (mb *ModelBuilder) Build() ssa.ModelConfig {
	reactions := make([]ssa.ReacConfig, 0, len(mb.reactions))
	for _, rb := range mb.reactions {
		reactions = append(reactions, rb.Build())
	}

	sreactions := make([]ssa.SReacConfig, 0, len(mb.sreactions))
	for _, sb := range mb.sreactions {
		sreactions = append(sreactions, sb.Build())
	}

	diffusions := make([]ssa.DiffConfig, 0, len(mb.diffusions))
	for _, db := range mb.diffusions {
		diffusions = append(diffusions, db.Build())
	}

	compartments := make([]ssa.CompartmentConfig, 0, len(mb.compartments))
	for _, cb := range mb.compartments {
		compartments = append(compartments, cb.Build())
	}

	patches := make([]ssa.PatchConfig, 0, len(mb.patches))
	for _, pb := range mb.patches {
		patches = append(patches, pb.Build())
	}

	diffBoundaries := make([]ssa.DiffBoundaryConfig, 0, len(mb.diffBoundaries))
	for _, db := range mb.diffBoundaries {
		diffBoundaries = append(diffBoundaries, db.Build())
	}

	var mesh ssa.MeshConfig
	if mb.mesh != nil {
		mesh = mb.mesh.Build()
	}

	return ssa.ModelConfig{
		Name:             mb.name,
		Species:          mb.species,
		Reactions:        reactions,
		SurfaceReactions: sreactions,
		Diffusions:       diffusions,
		Mesh:             mesh,
		Compartments:     compartments,
		Patches:          patches,
		DiffBoundaries:   diffBoundaries,
	}
}

// ReactionBuilder assembles one volume reaction definition.
type ReactionBuilder struct {
	id  string
	lhs map[string]int
	rhs map[string]int
	k   float64
}

// NewReaction creates a reaction builder with the given ID.
func NewReaction(id string) *ReactionBuilder {
	return &ReactionBuilder{id: id, lhs: map[string]int{}, rhs: map[string]int{}}
}

// Lhs adds n molecules of species to the reactant side.
func (rb *ReactionBuilder) Lhs(species string, n int) *ReactionBuilder {
	rb.lhs[species] = n
	return rb
}

// Rhs adds n molecules of species to the product side.
func (rb *ReactionBuilder) Rhs(species string, n int) *ReactionBuilder {
	rb.rhs[species] = n
	return rb
}

// Rate sets the macroscopic rate constant.
func (rb *ReactionBuilder) Rate(k float64) *ReactionBuilder {
	rb.k = k
	return rb
}

// Build converts the builder to a ssa.ReacConfig.
func (rb *ReactionBuilder) Build() ssa.ReacConfig {
	return ssa.ReacConfig{ID: rb.id, Lhs: rb.lhs, Rhs: rb.rhs, K: rb.k}
}

// SurfaceReactionBuilder assembles one surface reaction definition.
type SurfaceReactionBuilder struct {
	id      string
	lhsS    map[string]int
	rhsS    map[string]int
	lhsI    map[string]int
	rhsI    map[string]int
	lhsO    map[string]int
	rhsO    map[string]int
	inside  bool
	outside bool
	k       float64
}

// NewSurfaceReaction creates a surface reaction builder with the given ID.
func NewSurfaceReaction(id string) *SurfaceReactionBuilder {
	return &SurfaceReactionBuilder{id: id, lhsS: map[string]int{}, rhsS: map[string]int{}}
}

// LhsS adds a surface-species reactant.
func (sb *SurfaceReactionBuilder) LhsS(species string, n int) *SurfaceReactionBuilder {
	sb.lhsS[species] = n
	return sb
}

// RhsS adds a surface-species product.
func (sb *SurfaceReactionBuilder) RhsS(species string, n int) *SurfaceReactionBuilder {
	sb.rhsS[species] = n
	return sb
}

// LhsInner adds a reactant drawn from the patch's inner compartment.
func (sb *SurfaceReactionBuilder) LhsInner(species string, n int) *SurfaceReactionBuilder {
	if sb.lhsI == nil {
		sb.lhsI = map[string]int{}
	}
	sb.lhsI[species] = n
	sb.inside = true
	return sb
}

// RhsInner adds a product deposited into the patch's inner compartment.
func (sb *SurfaceReactionBuilder) RhsInner(species string, n int) *SurfaceReactionBuilder {
	if sb.rhsI == nil {
		sb.rhsI = map[string]int{}
	}
	sb.rhsI[species] = n
	sb.inside = true
	return sb
}

// LhsOuter adds a reactant drawn from the patch's outer compartment.
func (sb *SurfaceReactionBuilder) LhsOuter(species string, n int) *SurfaceReactionBuilder {
	if sb.lhsO == nil {
		sb.lhsO = map[string]int{}
	}
	sb.lhsO[species] = n
	sb.outside = true
	return sb
}

// RhsOuter adds a product deposited into the patch's outer compartment.
func (sb *SurfaceReactionBuilder) RhsOuter(species string, n int) *SurfaceReactionBuilder {
	if sb.rhsO == nil {
		sb.rhsO = map[string]int{}
	}
	sb.rhsO[species] = n
	sb.outside = true
	return sb
}

// Rate sets the macroscopic rate constant.
func (sb *SurfaceReactionBuilder) Rate(k float64) *SurfaceReactionBuilder {
	sb.k = k
	return sb
}

// Build converts the builder to a ssa.SReacConfig.
func (sb *SurfaceReactionBuilder) Build() ssa.SReacConfig {
	return ssa.SReacConfig{
		ID:      sb.id,
		LhsS:    sb.lhsS,
		RhsS:    sb.rhsS,
		LhsI:    sb.lhsI,
		RhsI:    sb.rhsI,
		LhsO:    sb.lhsO,
		RhsO:    sb.rhsO,
		Inside:  sb.inside,
		Outside: sb.outside,
		K:       sb.k,
	}
}

// DiffusionBuilder assembles one diffusion definition.
type DiffusionBuilder struct {
	id     string
	ligand string
	dcst   float64
}

// NewDiffusion creates a diffusion builder for ligand species, given an ID.
func NewDiffusion(id, ligand string) *DiffusionBuilder {
	return &DiffusionBuilder{id: id, ligand: ligand}
}

// Dcst sets the diffusion constant.
func (db *DiffusionBuilder) Dcst(d float64) *DiffusionBuilder {
	db.dcst = d
	return db
}

// Build converts the builder to a ssa.DiffConfig.
func (db *DiffusionBuilder) Build() ssa.DiffConfig {
	return ssa.DiffConfig{ID: db.id, Ligand: db.ligand, Dcst: db.dcst}
}

// MeshBuilder accumulates Tets and Tris by append order; the index assigned
// to each element is returned so callers can wire neighbor/compartment
// references.
type MeshBuilder struct {
	tets []ssa.TetConfig
	tris []ssa.TriConfig
}

// NewMesh creates an empty mesh builder.
func NewMesh() *MeshBuilder {
	return &MeshBuilder{}
}

// AddTet appends a tetrahedron and returns its index in the mesh.
func (mb *MeshBuilder) AddTet(vol float64, area, dist [4]float64, neighbTet, neighbTri [4]int) int {
	mb.tets = append(mb.tets, ssa.TetConfig{
		Vol:       vol,
		Area:      area,
		Dist:      dist,
		NeighbTet: neighbTet,
		NeighbTri: neighbTri,
	})
	return len(mb.tets) - 1
}

// AddTri appends a triangle and returns its index in the mesh. Pass -1 for
// innerTet/outerTet when the respective side is absent.
func (mb *MeshBuilder) AddTri(area float64, innerTet, outerTet int) int {
	mb.tris = append(mb.tris, ssa.TriConfig{Area: area, InnerTet: innerTet, OuterTet: outerTet})
	return len(mb.tris) - 1
}

// Build converts the builder to a ssa.MeshConfig.
func (mb *MeshBuilder) Build() ssa.MeshConfig {
	return ssa.MeshConfig{Tets: mb.tets, Tris: mb.tris}
}

// CompartmentBuilder assembles one compartment's Tet membership and the
// reactions/diffusions instantiated in every one of its Tets.
type CompartmentBuilder struct {
	id         string
	tetIndices []int
	reactions  []string
	diffusions []string
}

// NewCompartment creates a compartment builder with the given ID.
func NewCompartment(id string) *CompartmentBuilder {
	return &CompartmentBuilder{id: id}
}

// Tets adds Tet indices to the compartment.
func (cb *CompartmentBuilder) Tets(indices ...int) *CompartmentBuilder {
	cb.tetIndices = append(cb.tetIndices, indices...)
	return cb
}

// Reaction instantiates the named volume reactions in every Tet of the
// compartment.
func (cb *CompartmentBuilder) Reaction(ids ...string) *CompartmentBuilder {
	cb.reactions = append(cb.reactions, ids...)
	return cb
}

// Diffusion instantiates the named diffusions in every Tet of the
// compartment.
func (cb *CompartmentBuilder) Diffusion(ids ...string) *CompartmentBuilder {
	cb.diffusions = append(cb.diffusions, ids...)
	return cb
}

// Build converts the builder to a ssa.CompartmentConfig.
func (cb *CompartmentBuilder) Build() ssa.CompartmentConfig {
	return ssa.CompartmentConfig{
		ID:         cb.id,
		TetIndices: cb.tetIndices,
		Reactions:  cb.reactions,
		Diffusions: cb.diffusions,
	}
}

// PatchBuilder assembles one patch's Tri membership, adjacent compartments,
// and surface reactions.
type PatchBuilder struct {
	id               string
	triIndices       []int
	innerComp        string
	outerComp        string
	surfaceReactions []string
}

// NewPatch creates a patch builder with the given ID.
func NewPatch(id string) *PatchBuilder {
	return &PatchBuilder{id: id}
}

// Tris adds Tri indices to the patch.
func (pb *PatchBuilder) Tris(indices ...int) *PatchBuilder {
	pb.triIndices = append(pb.triIndices, indices...)
	return pb
}

// Inner sets the patch's inner compartment ID.
func (pb *PatchBuilder) Inner(comp string) *PatchBuilder {
	pb.innerComp = comp
	return pb
}

// Outer sets the patch's outer compartment ID.
func (pb *PatchBuilder) Outer(comp string) *PatchBuilder {
	pb.outerComp = comp
	return pb
}

// SurfaceReaction instantiates the named surface reactions in every Tri of
// the patch.
func (pb *PatchBuilder) SurfaceReaction(ids ...string) *PatchBuilder {
	pb.surfaceReactions = append(pb.surfaceReactions, ids...)
	return pb
}

// Build converts the builder to a ssa.PatchConfig.
func (pb *PatchBuilder) Build() ssa.PatchConfig {
	return ssa.PatchConfig{
		ID:               pb.id,
		TriIndices:       pb.triIndices,
		InnerComp:        pb.innerComp,
		OuterComp:        pb.outerComp,
		SurfaceReactions: pb.surfaceReactions,
	}
}

// DiffBoundaryBuilder assembles one diffusion boundary linking two
// compartments across a shared set of Tris.
type DiffBoundaryBuilder struct {
	id         string
	triIndices []int
	compA      string
	compB      string
}

// NewDiffBoundary creates a diffusion boundary builder with the given ID.
func NewDiffBoundary(id, compA, compB string) *DiffBoundaryBuilder {
	return &DiffBoundaryBuilder{id: id, compA: compA, compB: compB}
}

// Tris adds Tri indices to the boundary.
func (db *DiffBoundaryBuilder) Tris(indices ...int) *DiffBoundaryBuilder {
	db.triIndices = append(db.triIndices, indices...)
	return db
}

// Build converts the builder to a ssa.DiffBoundaryConfig.
func (db *DiffBoundaryBuilder) Build() ssa.DiffBoundaryConfig {
	return ssa.DiffBoundaryConfig{
		ID:         db.id,
		TriIndices: db.triIndices,
		CompA:      db.compA,
		CompB:      db.compB,
	}
}

// Client talks to a running "tetexact serve" instance over HTTP, mirroring
// daniacca-achemdb's pkg/client ApplySchema request/response shape.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the tetexact server at baseURL (e.g.
// "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{}}
}

// Status is the decoded form of the server's /status, /step, and /run
// responses.
type Status struct {
	Time   float64 `json:"time"`
	NSteps uint64  `json:"nsteps"`
	A0     float64 `json:"a0"`
}

// Step asks the server to fire a single event and returns the resulting
// status.
func (c *Client) Step(ctx context.Context) (Status, error) {
	return c.post(ctx, "step", nil)
}

// Run asks the server to advance the simulation to endTime and returns the
// resulting status.
func (c *Client) Run(ctx context.Context, endTime float64) (Status, error) {
	body, err := json.Marshal(struct {
		EndTime float64 `json:"end_time"`
	}{EndTime: endTime})
	if err != nil {
		return Status{}, fmt.Errorf("marshal run request: %w", err)
	}
	return c.post(ctx, "run", body)
}

// Status fetches the server's current status without advancing it.
func (c *Client) Status(ctx context.Context) (Status, error) {
	u, err := url.JoinPath(c.baseURL, "status")
	if err != nil {
		return Status{}, fmt.Errorf("build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Status{}, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (Status, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return Status{}, fmt.Errorf("build url: %w", err)
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, reader)
	if err != nil {
		return Status{}, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (Status, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return Status{}, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(msg))
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return Status{}, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}
