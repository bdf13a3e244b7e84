// Package topojson decodes TopoJSON topologies into GeoJSON features and
// derives new topological products from them: bounding boxes, polygon merges,
// boundary meshes, neighbour adjacency and lossy quantization.
//
// Arcs are stored once and referenced by signed index: a non-negative index i
// references Arcs[i] in stored order, a negative index references Arcs[^i]
// traversed in reverse. When a Transform is present, arc coordinates are
// delta-encoded integers.
package topojson

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Transform describes the affine decode from stored deltas to plane
// coordinates: real = stored * scale + translate.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Topology is a parsed TopoJSON document. Objects and Arcs are treated as
// immutable by every operation; Quantize returns a fresh topology.
type Topology struct {
	Type        string
	BoundingBox []float64
	Transform   *Transform
	Objects     map[string]*Geometry
	Arcs        [][][]float64
}

type topologyJSON struct {
	Type      string               `json:"type"`
	BBox      []float64            `json:"bbox,omitempty"`
	Transform *Transform           `json:"transform,omitempty"`
	Objects   map[string]*Geometry `json:"objects"`
	Arcs      [][][]float64        `json:"arcs"`
}

// UnmarshalTopology parses a TopoJSON document.
func UnmarshalTopology(data []byte) (*Topology, error) {
	t := &Topology{}
	if err := jsoniter.Unmarshal(data, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Topology) UnmarshalJSON(data []byte) error {
	raw := &topologyJSON{}
	if err := jsoniter.Unmarshal(data, raw); err != nil {
		return err
	}
	if raw.Type != "Topology" {
		return fmt.Errorf("topojson: unexpected type %q, want \"Topology\"", raw.Type)
	}
	if raw.Objects == nil {
		return fmt.Errorf("topojson: missing \"objects\"")
	}
	if raw.Arcs == nil {
		return fmt.Errorf("topojson: missing \"arcs\"")
	}
	t.Type = raw.Type
	t.BoundingBox = raw.BBox
	t.Transform = raw.Transform
	t.Objects = raw.Objects
	t.Arcs = raw.Arcs
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t *Topology) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(&topologyJSON{
		Type:      "Topology",
		BBox:      t.BoundingBox,
		Transform: t.Transform,
		Objects:   t.Objects,
		Arcs:      t.Arcs,
	})
}

// Object returns the named object, or ErrKeyNotFound.
func (t *Topology) Object(key string) (*Geometry, error) {
	o, ok := t.Objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return o, nil
}

// index resolves a signed arc index to its canonical (unsigned) form.
func index(i int) int {
	if i < 0 {
		return ^i
	}
	return i
}
