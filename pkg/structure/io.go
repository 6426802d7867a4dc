package structure

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// LabelEntry is one flat taxonomy entry of a labels JSON file
// (spec.md §6).
type LabelEntry struct {
	Title  string `json:"title"`
	Parent string `json:"parent"`
}

// CrossLabelEntry is an acceptable coarse equivalence the evaluator may
// use; the search driver ignores it.
type CrossLabelEntry struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Labels is the parsed contents of a labels JSON file.
type Labels struct {
	Labels      []LabelEntry      `json:"labels"`
	CrossLabels []CrossLabelEntry `json:"cross-labels"`
}

// LoadLabels reads and parses a labels JSON file. A missing file is
// reported to the caller, who per spec.md §7 logs and continues with
// the next shape pair rather than treating it as fatal.
func LoadLabels(path string) (*Labels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("structure: load labels %s: %w", path, err)
	}
	var l Labels
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("structure: parse labels %s: %w", path, err)
	}
	return &l, nil
}

// partFile and edgeFile mirror the external structure-graph file
// format (spec.md §6): consumed read-only, every node carries a label
// and a mesh reference in its meta block.
type partFile struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"` // "curve" | "sheet"
	ControlPoints [][]float64 `json:"controlPoints"`
	Rows          int         `json:"rows"`
	Cols          int         `json:"cols"`
	Meta          struct {
		Label string `json:"label"`
		Mesh  string `json:"mesh"`
	} `json:"meta"`
}

type edgeFile struct {
	ID     string     `json:"id"`
	A      string     `json:"a"`
	B      string     `json:"b"`
	CoordA [4]float64 `json:"coordA"`
	CoordB [4]float64 `json:"coordB"`
}

type graphFile struct {
	Parts []partFile `json:"parts"`
	Edges []edgeFile `json:"edges"`
}

// PartMeta holds the read-only metadata an external structure-graph
// file attaches to each node.
type PartMeta struct {
	Label string
	Mesh  string
}

// LoadGraphFile reads an external structure-graph file and returns the
// resulting graph plus each part's meta.label/meta.mesh, keyed by part
// id (spec.md §6). The file is consumed read-only; this package never
// writes one back out.
func LoadGraphFile(path string) (*Graph, map[string]PartMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("structure: load graph file %s: %w", path, err)
	}
	var gf graphFile
	if err := json.Unmarshal(data, &gf); err != nil {
		return nil, nil, fmt.Errorf("structure: parse graph file %s: %w", path, err)
	}

	g := New()
	meta := make(map[string]PartMeta, len(gf.Parts))
	for _, pf := range gf.Parts {
		part, err := decodePart(pf)
		if err != nil {
			return nil, nil, fmt.Errorf("structure: graph file %s: %w", path, err)
		}
		g.AddPart(part)
		meta[pf.ID] = PartMeta{Label: pf.Meta.Label, Mesh: pf.Meta.Mesh}
	}
	for _, ef := range gf.Edges {
		g.AddEdge(ef.A, ef.B, Coord(ef.CoordA), Coord(ef.CoordB))
	}
	return g, meta, nil
}

func decodePart(pf partFile) (*Part, error) {
	toVecs := func(flat [][]float64) ([]vecutil.Vec, error) {
		out := make([]vecutil.Vec, len(flat))
		for i, v := range flat {
			if len(v) != 3 {
				return nil, fmt.Errorf("control point %d of part %s is not 3D", i, pf.ID)
			}
			out[i] = vecutil.Vec{X: v[0], Y: v[1], Z: v[2]}
		}
		return out, nil
	}

	switch pf.Type {
	case "curve":
		pts, err := toVecs(pf.ControlPoints)
		if err != nil {
			return nil, err
		}
		return NewCurve(pf.ID, pts), nil
	case "sheet":
		flat, err := toVecs(pf.ControlPoints)
		if err != nil {
			return nil, err
		}
		if pf.Rows <= 0 || pf.Cols <= 0 || pf.Rows*pf.Cols != len(flat) {
			return nil, fmt.Errorf("part %s: rows*cols does not match control point count", pf.ID)
		}
		rows := make([][]vecutil.Vec, pf.Rows)
		for r := 0; r < pf.Rows; r++ {
			rows[r] = flat[r*pf.Cols : (r+1)*pf.Cols]
		}
		return NewSheet(pf.ID, rows), nil
	default:
		return nil, fmt.Errorf("part %s: unknown type %q", pf.ID, pf.Type)
	}
}
