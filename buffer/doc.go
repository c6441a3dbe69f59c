// Package buffer provides the growable byte region every marshaling routine
// in hostkit writes into, plus a small slot pool that recycles buffers
// across short-lived calls.
//
// # Overview
//
// A Buffer owns a contiguous byte slice whose capacity is always a power of
// two of at least 2, bounded by MaxCapacity. The logical size grows through
// Append, Extend, PushBack and Resize; capacity only changes when the logical
// size would exceed it.
//
//	var b buffer.Buffer
//	if err := b.Append([]byte("hostfxr")); err != nil {
//	    return err
//	}
//	_ = b.PushBack(0)
//
// # Growth
//
// Resize(n) reallocates to CalculateCapacity(n). Append and Extend grow
// relative to the current capacity: the new capacity is
// CalculateCapacity(Cap()+n). Both paths keep the bytes already written.
//
// # Pool
//
// A Pool hands out at most MaxPoolSlots buffers. A returned buffer keeps its
// memory and is marked free with a negative size; Acquire prefers the free
// slot with the largest capacity.
//
//	var p buffer.Pool
//	tmp, err := p.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer p.Return(tmp)
//
// Neither Buffer nor Pool is safe for concurrent use.
package buffer
