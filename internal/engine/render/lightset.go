package render

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Faultbox/scenecore/internal/engine/scene"
)

// overflowBit marks masks of light sets that contain a light beyond the
// first 63 distinct lights of a frame. Such sets are numbered instead.
const overflowBit = uint64(1) << 63

// lightSets assigns each frame light a bit so that a drawable's light set
// becomes an order-independent mask. Equal sets get equal masks.
type lightSets struct {
	bits     map[*scene.Light]uint
	overflow map[string]uint64
}

func (s *lightSets) reset() {
	if s.bits == nil {
		s.bits = make(map[*scene.Light]uint)
		s.overflow = make(map[string]uint64)
		return
	}
	clear(s.bits)
	clear(s.overflow)
}

func (s *lightSets) mask(lights []*scene.Light) uint64 {
	var m uint64
	spilled := false
	for _, l := range lights {
		bit, ok := s.bits[l]
		if !ok {
			bit = uint(len(s.bits))
			s.bits[l] = bit
		}
		if bit >= 63 {
			spilled = true
			continue
		}
		m |= 1 << bit
	}
	if !spilled {
		return m
	}
	return s.overflowMask(lights)
}

func (s *lightSets) overflowMask(lights []*scene.Light) uint64 {
	ids := make([]int, 0, len(lights))
	for _, l := range lights {
		ids = append(ids, int(s.bits[l]))
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var b strings.Builder
	for _, id := range ids {
		b.WriteString(strconv.Itoa(id))
		b.WriteByte(',')
	}
	key := b.String()
	if m, ok := s.overflow[key]; ok {
		return m
	}
	m := overflowBit | uint64(len(s.overflow))
	s.overflow[key] = m
	return m
}
