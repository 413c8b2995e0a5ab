// Package scene is a small 2D scene graph: named nodes with transforms,
// box meshes carrying a glyph and a color, point picking and color fades.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Mesh is the drawable payload of a node: a glyph box of half extents Half
// centered at Offset in the node frame.
type Mesh struct {
	Rune   rune
	Half   mgl64.Vec2
	Offset mgl64.Vec2
	Color  colorful.Color
}

// Contains reports whether a node-local point lies inside the box.
func (m *Mesh) Contains(local mgl64.Vec2) bool {
	d := local.Sub(m.Offset)
	return math.Abs(d.X()) <= m.Half.X() && math.Abs(d.Y()) <= m.Half.Y()
}

// EdgeNormal returns the outward normal of the box edge closest to local.
func (m *Mesh) EdgeNormal(local mgl64.Vec2) mgl64.Vec2 {
	d := local.Sub(m.Offset)
	right := m.Half.X() - d.X()
	left := m.Half.X() + d.X()
	top := m.Half.Y() - d.Y()
	bottom := m.Half.Y() + d.Y()

	normal, best := mgl64.Vec2{1, 0}, right
	if left < best {
		normal, best = mgl64.Vec2{-1, 0}, left
	}
	if top < best {
		normal, best = mgl64.Vec2{0, 1}, top
	}
	if bottom < best {
		normal = mgl64.Vec2{0, -1}
	}
	return normal
}

type Node struct {
	Name     string
	Position mgl64.Vec2
	Rotation float64
	Scale    float64
	Visible  bool

	// Depth orders drawing and picking. Higher is nearer the viewer.
	Depth float64

	Mesh *Mesh

	parent   *Node
	children []*Node
	fade     *fade
}

func NewNode(name string) *Node {
	return &Node{Name: name, Scale: 1, Visible: true}
}

func NewMesh(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// Add attaches child under n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It is a no-op if child is not attached to n.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Local returns the node's transform relative to its parent.
func (n *Node) Local() mgl64.Mat3 {
	s := n.Scale
	if s == 0 {
		s = 1
	}
	return mgl64.Translate2D(n.Position.X(), n.Position.Y()).
		Mul3(mgl64.HomogRotate2D(n.Rotation)).
		Mul3(mgl64.Scale2D(s, s))
}

// World returns the node's transform relative to the scene root's parent.
func (n *Node) World() mgl64.Mat3 {
	m := n.Local()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local().Mul3(m)
	}
	return m
}

// WorldPose decomposes World into translation, rotation and uniform scale.
func (n *Node) WorldPose() (pos mgl64.Vec2, angle, scale float64) {
	m := n.World()
	pos = mgl64.Vec2{m.At(0, 2), m.At(1, 2)}
	angle = math.Atan2(m.At(1, 0), m.At(0, 0))
	scale = math.Hypot(m.At(0, 0), m.At(1, 0))
	return pos, angle, scale
}

// ToLocal maps a world point into the node frame.
func (n *Node) ToLocal(world mgl64.Vec2) mgl64.Vec2 {
	return n.World().Inv().Mul3x1(world.Vec3(1)).Vec2()
}

// ToWorld maps a node-local point into world space.
func (n *Node) ToWorld(local mgl64.Vec2) mgl64.Vec2 {
	return n.World().Mul3x1(local.Vec3(1)).Vec2()
}
