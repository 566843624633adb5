package bridge

import (
	"github.com/amburosesekar/mathoptinterface/pkg/moi"
)

// Bridge realizes one caller-visible variable, constraint or objective with
// artifacts of the model it was created in. The artifacts are owned by the
// bridge and released together by Delete.
type Bridge interface {
	// Variables lists the variables created by the bridge.
	Variables() []moi.VariableIndex
	// Constraints lists the constraints created by the bridge.
	Constraints() []moi.ConstraintIndex
	// Delete removes every artifact of the bridge from m.
	Delete(m moi.ModelLike) error
}

// NumberOf counts the constraints of type t among the artifacts of b.
func NumberOf(b Bridge, t moi.ConstraintType) int {
	n := 0
	for _, ci := range b.Constraints() {
		if ci.Type == t {
			n++
		}
	}
	return n
}

// ListOf lists the constraints of type t among the artifacts of b.
func ListOf(b Bridge, t moi.ConstraintType) []moi.ConstraintIndex {
	var cis []moi.ConstraintIndex
	for _, ci := range b.Constraints() {
		if ci.Type == t {
			cis = append(cis, ci)
		}
	}
	return cis
}

// Keys allocates virtual tags. Tags are strictly negative and never reused
// until Reset.
type Keys struct {
	last int64
}

// Next returns a fresh tag.
func (k *Keys) Next() int64 {
	k.last--
	return k.last
}

// NextN returns n consecutive fresh tags, in decreasing order.
func (k *Keys) NextN(n int) []int64 {
	tags := make([]int64, n)
	for i := range tags {
		tags[i] = k.Next()
	}
	return tags
}

// Reset makes the allocator start over from -1. Only call it once no tag it
// handed out is in use.
func (k *Keys) Reset() {
	k.last = 0
}
