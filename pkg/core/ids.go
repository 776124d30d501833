// pkg/core/ids.go
package core

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

const entityIDPrefix = "entity_"

// IDSequence hands out monotonically increasing entity ids.
type IDSequence struct {
	last atomic.Uint64
}

// NewIDSequence creates a sequence whose first id is start+1.
func NewIDSequence(start uint64) *IDSequence {
	s := &IDSequence{}
	s.last.Store(start)
	return s
}

// Next allocates a fresh id.
func (s *IDSequence) Next() EntityID {
	return EntityID(fmt.Sprintf("%s%d", entityIDPrefix, s.last.Add(1)))
}

// Observe advances the sequence past an id that already exists in a scene,
// so loaded scenes never collide with newly built entities. Ids not produced
// by a sequence are ignored.
func (s *IDSequence) Observe(id EntityID) {
	n, err := strconv.ParseUint(strings.TrimPrefix(string(id), entityIDPrefix), 10, 64)
	if err != nil || !strings.HasPrefix(string(id), entityIDPrefix) {
		return
	}
	for {
		cur := s.last.Load()
		if n <= cur || s.last.CompareAndSwap(cur, n) {
			return
		}
	}
}
