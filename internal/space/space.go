// Package space implements the orbital space registry: the set of spaces
// (occupied, unoccupied, general) an expression is built from, their
// printable labels, and the maximum cumulant rank allowed for general
// spaces. Registries are loaded from a YAML document the way the rest of
// the engine's ambient configuration is, via gopkg.in/yaml.v3.
package space

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/nsc-wicked/wicked/internal/index"
	"github.com/nsc-wicked/wicked/internal/vertex"
	"github.com/nsc-wicked/wicked/internal/wickederr"
)

// Kind classifies how a space's occupation is treated by the enumerator.
type Kind int

const (
	// Occupied spaces contract pairwise only: a creation leg at position i
	// with an annihilation leg at position j, i<j. The pair adds no sign
	// factor beyond the Fermi permutation parity.
	Occupied Kind = iota
	// Unoccupied spaces contract pairwise only: an annihilation leg at
	// position i with a creation leg at position j, i<j. Each such pair
	// multiplies the term's sign by -1.
	Unoccupied
	// General spaces admit k-body cumulant contractions up to MaxCumulant
	// legs on each side.
	General
)

func (k Kind) String() string {
	switch k {
	case Occupied:
		return "occupied"
	case Unoccupied:
		return "unoccupied"
	case General:
		return "general"
	default:
		return "unknown"
	}
}

// Def is one orbital space's static definition, as loaded from config.
type Def struct {
	Name   string   `yaml:"name"`
	Kind   string   `yaml:"kind"`
	Labels []string `yaml:"labels"`
}

// File is the top-level shape of a space configuration document.
type File struct {
	Spaces      []Def `yaml:"spaces"`
	MaxCumulant int   `yaml:"max_cumulant"`
}

// Registry holds the fixed set of orbital spaces an expression is defined
// over, plus the maximum cumulant rank used for General spaces. It is built
// once per run and passed by reference to every component that needs to
// resolve a space name, kind, or label.
type Registry struct {
	names       []string
	kinds       []Kind
	labels      [][]string
	maxCumulant int
}

// NewRegistry builds an empty registry; spaces are added with AddSpace.
func NewRegistry() *Registry {
	return &Registry{maxCumulant: 2}
}

// Load reads a Registry from a YAML file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("space: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("space: parse %s: %w", path, err)
	}
	return FromFile(f)
}

// FromFile builds a Registry from an already-parsed File document.
func FromFile(f File) (*Registry, error) {
	r := NewRegistry()
	if f.MaxCumulant > 0 {
		r.maxCumulant = f.MaxCumulant
	}
	for _, d := range f.Spaces {
		var k Kind
		switch d.Kind {
		case "occupied":
			k = Occupied
		case "unoccupied":
			k = Unoccupied
		case "general":
			k = General
		default:
			return nil, wickederr.Unsupportedf("space: unknown kind %q for space %q", d.Kind, d.Name)
		}
		if _, err := r.AddSpace(d.Name, k, d.Labels); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddSpace registers a new space and returns its index.Space identifier.
func (r *Registry) AddSpace(name string, kind Kind, labels []string) (index.Space, error) {
	if len(r.names) >= vertex.MaxSpaces {
		return 0, wickederr.Unsupportedf("space: registry already holds the maximum of %d spaces", vertex.MaxSpaces)
	}
	if len(labels) == 0 {
		return 0, wickederr.Unsupportedf("space: %q declares no labels", name)
	}
	r.names = append(r.names, name)
	r.kinds = append(r.kinds, kind)
	r.labels = append(r.labels, labels)
	return index.Space(len(r.names) - 1), nil
}

// NumSpaces reports how many spaces are registered.
func (r *Registry) NumSpaces() int { return len(r.names) }

// SetMaxCumulant sets the maximum cumulant rank k used for General spaces
// (k creation and k annihilation legs per cumulant).
func (r *Registry) SetMaxCumulant(k int) { r.maxCumulant = k }

// MaxCumulant returns the maximum cumulant rank k used for General spaces
// (k creation and k annihilation legs per cumulant).
func (r *Registry) MaxCumulant() int { return r.maxCumulant }

// Name returns the registered name of space s.
func (r *Registry) Name(s index.Space) string { return r.names[s] }

// SpaceKind returns the Kind of space s.
func (r *Registry) SpaceKind(s index.Space) Kind { return r.kinds[s] }

// IndexLabel renders an index within space s using the registry's label
// list, cycling through primed labels once the plain list is exhausted
// (label, label', label''...) the same way the original printer avoided
// ever running out of names.
func (r *Registry) IndexLabel(idx index.Index) string {
	labels := r.labels[idx.Space]
	n := len(labels)
	cycle := idx.N / n
	base := labels[idx.N%n]
	for i := 0; i < cycle; i++ {
		base += "'"
	}
	return base
}

// Labels returns the configured label list for space s.
func (r *Registry) Labels(s index.Space) []string {
	return r.labels[s]
}

// FindByLabel returns the space whose label set contains lbl, and ok=false
// if no space owns it.
func (r *Registry) FindByLabel(lbl string) (index.Space, bool) {
	for s, labels := range r.labels {
		if slices.Index(labels, lbl) >= 0 {
			return index.Space(s), true
		}
	}
	return 0, false
}

// FindByName returns the space registered under name.
func (r *Registry) FindByName(name string) (index.Space, bool) {
	for s, n := range r.names {
		if n == name {
			return index.Space(s), true
		}
	}
	return 0, false
}

// ParseVertexString parses a "o->v"-style descriptor into a Vertex: tokens
// before "->" name annihilation-space labels (in order), tokens after name
// creation-space labels. Each token increments the matching space's Ann or
// Cre count.
func (r *Registry) ParseVertexString(s string) (vertex.Vertex, error) {
	left, right, err := splitArrow(s)
	if err != nil {
		return vertex.Vertex{}, err
	}
	var v vertex.Vertex
	for _, lbl := range left {
		sp, ok := r.FindByLabel(lbl)
		if !ok {
			return vertex.Vertex{}, wickederr.Unsupportedf("space: unknown label %q", lbl)
		}
		c := v[sp]
		c.Ann++
		v[sp] = c
	}
	for _, lbl := range right {
		sp, ok := r.FindByLabel(lbl)
		if !ok {
			return vertex.Vertex{}, wickederr.Unsupportedf("space: unknown label %q", lbl)
		}
		c := v[sp]
		c.Cre++
		v[sp] = c
	}
	return v, nil
}

func splitArrow(s string) (left, right []string, err error) {
	l, r, ok := strings.Cut(s, "->")
	if !ok {
		return nil, nil, wickederr.Unsupportedf("space: descriptor %q missing \"->\"", s)
	}
	return strings.Fields(l), strings.Fields(r), nil
}

// Spaces returns every registered space identifier in registration order.
func (r *Registry) Spaces() []index.Space {
	out := make([]index.Space, r.NumSpaces())
	for i := range out {
		out[i] = index.Space(i)
	}
	return out
}
