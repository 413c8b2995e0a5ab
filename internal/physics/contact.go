package physics

import (
	"reflect"
	"unsafe"

	"github.com/jakecoffman/cp"
)

// cp combines two shapes' coefficients by multiplication and stores the
// result in unexported arbiter fields with no setter. Pair overrides write
// those fields from a pre-solve callback, after cp has filled them and
// before the solver reads them.
var arbiterFriction, arbiterRestitution, arbiterWritable = arbiterOffsets()

func arbiterOffsets() (u, e uintptr, ok bool) {
	t := reflect.TypeOf(cp.Arbiter{})
	fu, okU := t.FieldByName("u")
	fe, okE := t.FieldByName("e")
	if !okU || !okE || fu.Type.Kind() != reflect.Float64 || fe.Type.Kind() != reflect.Float64 {
		return 0, 0, false
	}
	return fu.Offset, fe.Offset, true
}

func setArbiterResponse(arb *cp.Arbiter, friction, restitution float64) {
	p := unsafe.Pointer(arb)
	*(*float64)(unsafe.Add(p, arbiterFriction)) = friction
	*(*float64)(unsafe.Add(p, arbiterRestitution)) = restitution
}

// collisionType returns the cp collision type for mat, assigning the next
// free one on first use. Bodies without a material keep type 0.
func (w *World) collisionType(mat *Material) cp.CollisionType {
	if t, ok := w.types[mat]; ok {
		return t
	}
	t := cp.CollisionType(len(w.types) + 1)
	w.types[mat] = t
	return t
}
