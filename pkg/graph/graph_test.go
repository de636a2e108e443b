package graph

import (
	"encoding/json"
	"testing"
)

func TestNewDetectorGraph(t *testing.T) {
	g := New()
	if g.Nodes == nil {
		t.Fatal("Nodes map should be initialized")
	}
	if g.NameIndex == nil {
		t.Fatal("NameIndex map should be initialized")
	}
	if g.NodeCount() != 0 {
		t.Errorf("empty graph should have 0 nodes, got %d", g.NodeCount())
	}
	if len(g.Volumes()) != 0 {
		t.Errorf("empty graph should have no volumes")
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	g := New()

	shapeID := NewNodeID("shape/1")
	volID := NewNodeID("volume/pixel")
	g.AddNode(&Node{
		ID:   shapeID,
		Kind: NodeShape,
		Data: ShapeData{Shape: ShapeBox, Size: Vec3{10, 10, 10}},
	})
	g.AddNode(&Node{
		ID:       volID,
		Kind:     NodeVolume,
		Name:     "pixel",
		Children: []NodeID{shapeID},
		Data:     VolumeData{},
	})
	g.AddRoot(volID)

	if g.NodeCount() != 2 {
		t.Errorf("node count = %d, want 2", g.NodeCount())
	}

	found := g.Lookup("pixel")
	if found == nil {
		t.Fatal("Lookup('pixel') returned nil")
	}
	if found.ID != volID {
		t.Errorf("lookup returned wrong node")
	}
	if g.MustLookup("pixel").ID != volID {
		t.Errorf("MustLookup returned wrong node")
	}
	if g.Lookup("strips") != nil {
		t.Error("Lookup of unknown name should return nil")
	}

	children := g.Children(found)
	if len(children) != 1 || children[0].ID != shapeID {
		t.Errorf("Children = %v, want the box", children)
	}
	if g.Get(shapeID) == nil {
		t.Error("Get(shapeID) returned nil")
	}
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup of unknown name should panic")
		}
	}()
	New().MustLookup("nope")
}

func TestVolumesKeepDeclarationOrder(t *testing.T) {
	g := New()
	names := []string{"pixel", "strips", "calo", "muon"}
	for _, name := range names {
		id := NewNodeID("volume/" + name)
		g.AddNode(&Node{ID: id, Kind: NodeVolume, Name: name, Data: VolumeData{}})
		g.AddRoot(id)
	}

	vols := g.Volumes()
	if len(vols) != len(names) {
		t.Fatalf("got %d volumes, want %d", len(vols), len(names))
	}
	for i, v := range vols {
		if v.Name != names[i] {
			t.Errorf("volume %d = %q, want %q", i, v.Name, names[i])
		}
	}
}

func TestNodeID(t *testing.T) {
	a := NewNodeID("volume/calo")
	b := NewNodeID("volume/calo")
	c := NewNodeID("volume/muon")

	if a != b {
		t.Error("same path should give the same ID")
	}
	if a == c {
		t.Error("different paths should give different IDs")
	}
	if a.IsZero() {
		t.Error("derived ID should not be zero")
	}
	if !ZeroID.IsZero() {
		t.Error("ZeroID should be zero")
	}
	if len(a.Short()) != 8 {
		t.Errorf("Short() = %q, want 8 characters", a.Short())
	}
}

func TestGraphJSON(t *testing.T) {
	g := New()
	id := NewNodeID("volume/calo")
	g.AddNode(&Node{ID: id, Kind: NodeVolume, Name: "calo", Data: VolumeData{}})
	g.AddRoot(id)

	b, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out struct {
		Roots     []NodeID          `json:"roots"`
		NameIndex map[string]NodeID `json:"name_index"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(out.Roots) != 1 || out.Roots[0] != id {
		t.Errorf("roots = %v, want [%s]", out.Roots, id)
	}
	if out.NameIndex["calo"] != id {
		t.Errorf("name index = %v", out.NameIndex)
	}
}

func TestKindStrings(t *testing.T) {
	if NodeTransform.String() != "transform" {
		t.Errorf("NodeTransform = %q", NodeTransform.String())
	}
	if NodeKind(42).String() != "unknown" {
		t.Errorf("unknown kind = %q", NodeKind(42).String())
	}
	if ShapeTube.String() != "tube" {
		t.Errorf("ShapeTube = %q", ShapeTube.String())
	}
	if OpDifference.String() != "difference" {
		t.Errorf("OpDifference = %q", OpDifference.String())
	}
	if (Vec3{1, 2.5, -3}).String() != "(1, 2.5, -3)" {
		t.Errorf("Vec3 = %q", Vec3{1, 2.5, -3}.String())
	}
}
