package structure

import "fmt"

// ValidationSeverity tiers a finding as blocking or advisory.
type ValidationSeverity int

const (
	SeverityError ValidationSeverity = iota
	SeverityWarning
)

// ValidationError describes one structural problem found in a graph.
type ValidationError struct {
	Severity ValidationSeverity
	PartID   string
	EdgeID   string
	Message  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s", e.Message)
}

// ValidationResult splits findings into blocking errors and advisory
// warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate checks every invariant spec.md §3/§4.4 places on a
// structure graph: edge coordinates land in their node's parametric
// domain, relations only reference existing parts, and edges only
// reference existing parts.
func Validate(g *Graph) ValidationResult {
	var res ValidationResult

	for _, e := range g.Edges {
		a, b := g.Part(e.A), g.Part(e.B)
		if a == nil {
			res.Errors = append(res.Errors, ValidationError{
				Severity: SeverityError, EdgeID: e.ID,
				Message: fmt.Sprintf("edge %s references missing part %s", e.ID, e.A),
			})
		} else {
			checkCoord(&res, e.ID, a, e.CoordA)
		}
		if b == nil {
			res.Errors = append(res.Errors, ValidationError{
				Severity: SeverityError, EdgeID: e.ID,
				Message: fmt.Sprintf("edge %s references missing part %s", e.ID, e.B),
			})
		} else {
			checkCoord(&res, e.ID, b, e.CoordB)
		}
	}

	for _, r := range g.Relations {
		for _, id := range r.Parts {
			if g.Part(id) == nil {
				res.Errors = append(res.Errors, ValidationError{
					Severity: SeverityError, PartID: id,
					Message: fmt.Sprintf("relation %s references missing part %s", r.ID, id),
				})
			}
		}
	}

	for id, p := range g.Parts {
		if len(p.Spokes) == 0 && !p.IsAssignedNull() && !p.IsMerged() {
			res.Warnings = append(res.Warnings, ValidationError{
				Severity: SeverityWarning, PartID: id,
				Message: fmt.Sprintf("part %s has no sampled spokes", id),
			})
		}
	}

	return res
}

func checkCoord(res *ValidationResult, edgeID string, p *Part, c Coord) {
	ok := c[0] >= 0 && c[0] <= 1
	if p.Type == Sheet {
		ok = ok && c[1] >= 0 && c[1] <= 1
	}
	if !ok {
		res.Errors = append(res.Errors, ValidationError{
			Severity: SeverityError, PartID: p.ID, EdgeID: edgeID,
			Message: fmt.Sprintf("edge %s coordinate %v out of domain for %s %s", edgeID, c, p.Type, p.ID),
		})
	}
}

// PartitionRelations reports relations that overlap: a part appearing
// in more than one symmetry relation violates the partition invariant
// (spec.md §3). Proximity relations are excluded, since a part may
// legitimately sit in several proximity clusters.
func PartitionRelations(g *Graph) ValidationResult {
	var res ValidationResult
	seen := make(map[string]string)
	for _, r := range g.Relations {
		if !r.Kind.IsSymmetry() {
			continue
		}
		for _, id := range r.Parts {
			if prev, ok := seen[id]; ok && prev != r.ID {
				res.Errors = append(res.Errors, ValidationError{
					Severity: SeverityError, PartID: id,
					Message: fmt.Sprintf("part %s belongs to symmetry relations %s and %s", id, prev, r.ID),
				})
				continue
			}
			seen[id] = r.ID
		}
	}
	return res
}
