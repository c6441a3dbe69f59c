package buffer

// MaxPoolSlots is the hard ceiling on buffers a Pool will hand out.
const MaxPoolSlots = 255

// Pool recycles Buffers. A returned slot keeps its memory and is marked free
// until the next Acquire picks it up again.
type Pool struct {
	slots []*Buffer
}

// Acquire hands out the free slot with the largest capacity. When no slot is
// free a new one is added, up to MaxPoolSlots.
func (p *Pool) Acquire() (*Buffer, error) {
	var best *Buffer
	for _, slot := range p.slots {
		if slot.size != freeSlot {
			continue
		}
		if best == nil || len(slot.data) > len(best.data) {
			best = slot
		}
	}
	if best != nil {
		best.size = 0
		return best, nil
	}

	if len(p.slots) >= MaxPoolSlots {
		return nil, ErrPoolExhausted
	}
	b := &Buffer{}
	p.slots = append(p.slots, b)
	return b, nil
}

// Return marks b free without releasing its memory.
// Returning a slot twice is not detected.
func (p *Pool) Return(b *Buffer) error {
	for _, slot := range p.slots {
		if slot == b {
			slot.size = freeSlot
			return nil
		}
	}
	return ErrNotPooled
}

// Len returns the number of slots, free or in use.
func (p *Pool) Len() int {
	return len(p.slots)
}

// Free returns the number of free slots.
func (p *Pool) Free() int {
	n := 0
	for _, slot := range p.slots {
		if slot.size == freeSlot {
			n++
		}
	}
	return n
}

// Release frees every slot and reports whether all of them had been returned.
func (p *Pool) Release() bool {
	allFree := true
	for _, slot := range p.slots {
		if slot.size != freeSlot {
			allFree = false
		}
		slot.Release()
	}
	p.slots = nil
	return allFree
}
