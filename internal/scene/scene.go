package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Scene owns the root node and the background color.
type Scene struct {
	Root       *Node
	Background colorful.Color
}

func New() *Scene {
	bg, _ := colorful.Hex("#202533")
	return &Scene{Root: NewNode("root"), Background: bg}
}

// Hit is one picked mesh.
type Hit struct {
	Node   *Node
	Point  mgl64.Vec2
	Local  mgl64.Vec2
	Normal mgl64.Vec2
}

// Walk visits visible meshes in draw order: ascending Depth, then tree
// order. Returning false stops the walk.
func (s *Scene) Walk(fn func(*Node) bool) {
	for _, n := range s.drawList() {
		if !fn(n) {
			return
		}
	}
}

// Pick returns every visible mesh containing the world point, nearest first.
func (s *Scene) Pick(world mgl64.Vec2) []Hit {
	list := s.drawList()
	var hits []Hit
	for i := len(list) - 1; i >= 0; i-- {
		n := list[i]
		local := n.ToLocal(world)
		if !n.Mesh.Contains(local) {
			continue
		}
		hits = append(hits, Hit{
			Node:   n,
			Point:  world,
			Local:  local,
			Normal: n.Mesh.EdgeNormal(local),
		})
	}
	return hits
}

// Advance moves every running color fade forward by dt seconds.
func (s *Scene) Advance(dt float64) {
	var walk func(*Node)
	walk = func(n *Node) {
		n.advanceFade(float32(dt))
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(s.Root)
}

// Meshes counts every mesh node, visible or not.
func (s *Scene) Meshes() int {
	count := 0
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Mesh != nil {
			count++
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(s.Root)
	return count
}

func (s *Scene) drawList() []*Node {
	var list []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Mesh != nil {
			list = append(list, n)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(s.Root)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Depth < list[j].Depth })
	return list
}
