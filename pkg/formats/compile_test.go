package formats

import (
	"testing"

	"github.com/Faultbox/blockyforge/pkg/math"
	"github.com/Faultbox/blockyforge/pkg/scene"
)

func TestCompileNodeIDsArePreOrder(t *testing.T) {
	s := scene.New()
	a := scene.NewBone("a", math.Vec3{}, math.Vec3{})
	b := scene.NewBone("b", math.Vec3{}, math.Vec3{})
	c := scene.NewBone("c", math.Vec3{}, math.Vec3{})
	d := scene.NewBone("d", math.Vec3{}, math.Vec3{})
	s.AddRoot(a)
	a.Add(b)
	b.Add(c)
	s.AddRoot(d)

	m, err := Compile(s, CompileOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var got []string
	m.Walk(func(n *Node, _ int) { got = append(got, n.Name+"="+n.ID) })
	want := []string{"a=1", "b=2", "c=3", "d=4"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node %d = %s, want %s", i, got[i], want[i])
		}
	}

	// Ids restart for every call.
	again, _ := Compile(s, CompileOptions{})
	if again.Nodes[0].ID != "1" {
		t.Errorf("second compile starts at id %s, want 1", again.Nodes[0].ID)
	}
}

func TestCompileEmptyBone(t *testing.T) {
	s := scene.New()
	b := scene.NewBone("pivot", math.Vec3{X: 1}, math.Vec3{})
	b.IsPiece = true
	s.AddRoot(b)

	m, err := Compile(s, CompileOptions{Format: FormatProp})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if m.Format != FormatProp || m.LOD != "auto" {
		t.Errorf("model header = %s/%s, want prop/auto", m.Format, m.LOD)
	}

	n := m.Nodes[0]
	if n.Position != (Vector{X: 1}) {
		t.Errorf("root position = %+v, want scene origin", n.Position)
	}
	if *n.Orientation != (Quaternion{W: 1}) {
		t.Errorf("orientation = %+v, want identity", *n.Orientation)
	}
	sh := n.Shape
	if sh.Type != ShapeNone {
		t.Errorf("type = %s, want none", sh.Type)
	}
	if *sh.Stretch != (Vector{}) || sh.Offset != (Vector{}) {
		t.Errorf("empty shape stretch/offset = %+v/%+v, want zero", *sh.Stretch, sh.Offset)
	}
	if !sh.Settings.IsPiece || sh.Settings.Size != nil || sh.Settings.IsStaticBox {
		t.Errorf("settings = %+v", sh.Settings)
	}
	if sh.UnwrapMode != "custom" || !sh.Visible || sh.DoubleSided || sh.ShadingMode != scene.ShadingFlat {
		t.Errorf("shape defaults = %+v", sh)
	}
	if sh.TextureLayout.Len() != 0 {
		t.Errorf("empty shape has %d layouts", sh.TextureLayout.Len())
	}
}

func TestCompileFoldsMainShape(t *testing.T) {
	s := scene.New()
	arm := scene.NewBone("arm", math.Vec3{X: 4, Y: 10}, math.Vec3{Z: 30})
	s.AddRoot(arm)
	main := box("armbox", math.Vec3{X: 3, Y: 4, Z: -1}, math.Vec3{X: 5, Y: 10, Z: 1})
	main.ShadingMode = scene.ShadingFullbright
	main.DoubleSided = true
	arm.Add(main)
	hand := scene.NewBone("hand", math.Vec3{X: 4, Y: 3}, math.Vec3{})
	arm.Add(hand)

	m, _ := Compile(s, CompileOptions{})
	n := m.Nodes[0]
	if n.Shape.Type != ShapeBox {
		t.Fatalf("arm shape = %s, want box", n.Shape.Type)
	}
	if n.Shape.Settings.IsStaticBox {
		t.Error("folded shape must not be a static box")
	}
	if n.Shape.Offset != (Vector{X: 0, Y: -3, Z: 0}) {
		t.Errorf("offset = %+v, want centre minus bone origin", n.Shape.Offset)
	}
	if *n.Shape.Settings.Size != (Vector{X: 2, Y: 6, Z: 2}) {
		t.Errorf("size = %+v", *n.Shape.Settings.Size)
	}
	if n.Shape.ShadingMode != scene.ShadingFullbright || !n.Shape.DoubleSided {
		t.Errorf("shading = %s doubleSided = %v", n.Shape.ShadingMode, n.Shape.DoubleSided)
	}
	if len(n.Children) != 1 || n.Children[0].Name != "hand" {
		t.Fatalf("children = %+v, want only hand", n.Children)
	}
	// hand origin minus the arm's main shape centre (4, 7, 0).
	if got := n.Children[0].Position; got != (Vector{X: 0, Y: -4, Z: 0}) {
		t.Errorf("hand position = %+v", got)
	}
}

func TestCompileStandalonePrimitive(t *testing.T) {
	s := scene.New()
	root := scene.NewBone("root", math.Vec3{}, math.Vec3{})
	s.AddRoot(root)
	p := box("fin", math.Vec3{X: 0, Y: 0, Z: 0}, math.Vec3{X: 1, Y: 4, Z: 2})
	p.Rotation = math.Vec3{Y: 45}
	p.Origin = math.Vec3{X: 0, Y: 0, Z: 0}
	root.Add(p)

	m, _ := Compile(s, CompileOptions{})
	if len(m.Nodes[0].Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(m.Nodes[0].Children))
	}
	n := m.Nodes[0].Children[0]
	if !n.Shape.Settings.IsStaticBox {
		t.Error("rotated primitive should compile to a static box")
	}
	if n.Shape.Offset != (Vector{X: 0.5, Y: 2, Z: 1}) {
		t.Errorf("offset = %+v, want centre minus pivot", n.Shape.Offset)
	}
	want := math.QuatFromEuler(math.Vec3{Y: 45})
	if !n.Orientation.Quat().SameRotation(want, 1e-12) {
		t.Errorf("orientation = %+v, want %+v", *n.Orientation, want)
	}
}

func TestCompileCollections(t *testing.T) {
	s := scene.New()
	body := scene.NewBone("body", math.Vec3{}, math.Vec3{})
	hat := scene.NewBone("Hat:head", math.Vec3{}, math.Vec3{})
	brim := scene.NewBone("brim", math.Vec3{}, math.Vec3{})
	s.AddRoot(body)
	body.Add(hat)
	hat.Add(brim)
	col := s.Collection("Hat")
	col.Add(hat)

	m, _ := Compile(s, CompileOptions{})
	if m.Count() != 1 {
		t.Errorf("full compile has %d nodes, want collection members skipped", m.Count())
	}

	m, _ = Compile(s, CompileOptions{Attachment: col})
	if len(m.Nodes) != 1 || m.Nodes[0].Name != "head" {
		t.Fatalf("attachment roots = %+v, want head with prefix removed", m.Nodes)
	}
	if len(m.Nodes[0].Children) != 1 || m.Nodes[0].Children[0].Name != "brim" {
		t.Errorf("attachment children = %+v", m.Nodes[0].Children)
	}
}

func TestCompileSkipsNoExport(t *testing.T) {
	s := scene.New()
	root := scene.NewBone("root", math.Vec3{}, math.Vec3{})
	hidden := scene.NewBone("hidden", math.Vec3{}, math.Vec3{})
	hidden.NoExport = true
	s.AddRoot(root)
	root.Add(hidden)
	hidden.Add(scene.NewBone("inner", math.Vec3{}, math.Vec3{}))

	m, _ := Compile(s, CompileOptions{})
	if m.Count() != 1 {
		t.Errorf("got %d nodes, want hidden subtree skipped", m.Count())
	}
	if CountNodes(s, DefaultPolicy) != m.Count() {
		t.Errorf("CountNodes = %d, compile emitted %d", CountNodes(s, DefaultPolicy), m.Count())
	}
}

func TestExportName(t *testing.T) {
	tests := map[string]string{
		"head":          "head",
		"Hat:head":      "head",
		"a:b:c":         "c",
		":leading":      ":leading",
		"Sword:hand:01": "01",
	}
	for in, want := range tests {
		if got := exportName(in); got != want {
			t.Errorf("exportName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompileNilScene(t *testing.T) {
	if _, err := Compile(nil, CompileOptions{}); err != ErrNilScene {
		t.Errorf("err = %v, want ErrNilScene", err)
	}
}
