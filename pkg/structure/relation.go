package structure

import "github.com/voxelforge/shapecorr/pkg/vecutil"

// RelationKind classifies why a set of parts was grouped together: by
// a detected symmetry (with a specific geometric operator) or by
// spatial proximity.
type RelationKind int

const (
	RelationProximity RelationKind = iota
	RelationTranslation
	RelationRotation
	RelationReflection
)

func (k RelationKind) IsSymmetry() bool { return k != RelationProximity }

// SymmetryOperator is the geometric transform that maps a symmetry
// group's representative onto its other members: a translation vector,
// or a rotation/reflection about an axis/point, depending on Kind.
type SymmetryOperator struct {
	Translation vecutil.Vec
	Axis        vecutil.Vec
	Point       vecutil.Vec
	AngleRad    float64
}

// Relation is a set of parts sharing a symmetry type or a proximity
// cluster (spec.md §3). Representative, when set, is the part whose
// pose/shape drives propagation for a symmetry relation.
type Relation struct {
	ID             string
	Kind           RelationKind
	Parts          []string
	Representative string
	Operator       *SymmetryOperator
}

// Contains reports whether partID belongs to the relation.
func (r *Relation) Contains(partID string) bool {
	for _, p := range r.Parts {
		if p == partID {
			return true
		}
	}
	return false
}

// Remove drops partID from the relation, if present.
func (r *Relation) Remove(partID string) {
	out := r.Parts[:0]
	for _, p := range r.Parts {
		if p != partID {
			out = append(out, p)
		}
	}
	r.Parts = out
}

func (r *Relation) Clone() *Relation {
	parts := make([]string, len(r.Parts))
	copy(parts, r.Parts)
	clone := &Relation{
		ID:             r.ID,
		Kind:           r.Kind,
		Parts:          parts,
		Representative: r.Representative,
	}
	if r.Operator != nil {
		op := *r.Operator
		clone.Operator = &op
	}
	return clone
}
