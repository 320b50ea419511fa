package scheduler

// mask is a participant bitset, one bit per roster id.
type mask []uint64

// Occupancy records which participants are busy at each unit.
type Occupancy struct {
	slots [][]uint64
	words int
}

// NewOccupancy returns an empty timeline of totalUnits units for up to
// participants distinct people.
func NewOccupancy(totalUnits, participants int) *Occupancy {
	words := (participants + 63) / 64
	if words == 0 {
		words = 1
	}
	backing := make([]uint64, totalUnits*words)
	slots := make([][]uint64, totalUnits)
	for i := range slots {
		slots[i] = backing[i*words : (i+1)*words : (i+1)*words]
	}
	return &Occupancy{slots: slots, words: words}
}

// Units returns the timeline length.
func (o *Occupancy) Units() int { return len(o.slots) }

func (o *Occupancy) newMask(ids ...int) mask {
	m := make(mask, o.words)
	for _, id := range ids {
		m[id/64] |= 1 << (uint(id) % 64)
	}
	return m
}

// Fits reports whether no member of m is busy within [start, start+length).
func (o *Occupancy) Fits(m mask, start, length int) bool {
	for t := start; t < start+length; t++ {
		for w, bits := range o.slots[t] {
			if bits&m[w] != 0 {
				return false
			}
		}
	}
	return true
}

// Mark sets or clears every member of m within [start, start+length). Ranges
// are not checked; clearing is only correct for a range previously marked
// with the same arguments.
func (o *Occupancy) Mark(m mask, start, length int, occupied bool) {
	for t := start; t < start+length; t++ {
		slot := o.slots[t]
		for w := range slot {
			if occupied {
				slot[w] |= m[w]
			} else {
				slot[w] &^= m[w]
			}
		}
	}
}

// Commit marks the range and returns the handle that reverts it.
func (o *Occupancy) Commit(m mask, start, length int) *Commitment {
	o.Mark(m, start, length, true)
	return &Commitment{occ: o, m: m, start: start, length: length}
}

// Empty reports whether no participant is marked anywhere.
func (o *Occupancy) Empty() bool {
	return o.busyCount() == 0
}

func (o *Occupancy) busyCount() int {
	n := 0
	for _, slot := range o.slots {
		for _, bits := range slot {
			for ; bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

// Commitment is one applied mark. Rollback reverts it at most once.
type Commitment struct {
	occ      *Occupancy
	m        mask
	start    int
	length   int
	released bool
}

// Start returns the first unit of the committed range.
func (c *Commitment) Start() int { return c.start }

// Rollback clears the committed range.
func (c *Commitment) Rollback() {
	if c.released {
		return
	}
	c.occ.Mark(c.m, c.start, c.length, false)
	c.released = true
}
