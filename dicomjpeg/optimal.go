package dicomjpeg

// buildOptimalTable derives a canonical Huffman table from a symbol
// frequency histogram, following the JPEG Annex K.3 generation
// procedure: repeatedly merge the two least-frequent remaining nodes,
// tracking each symbol's code length, then cap lengths at 16 bits by
// the standard "borrow from a longer code" adjustment. Used by the
// lossless encoder, whose DC categories can run up to 16 (unlike the
// lossy path's fixed 0..11 range, which uses the Annex K standard
// tables directly — see huffman_std.go).
func buildOptimalTable(freq map[byte]int) *huffmanTable {
	if len(freq) == 0 {
		freq = map[byte]int{0: 1}
	}
	type node struct {
		count  int
		length int
	}
	nodes := make(map[byte]*node, len(freq)+1)
	for sym, c := range freq {
		if c <= 0 {
			c = 1
		}
		nodes[sym] = &node{count: c}
	}
	// Reserve one code point so no symbol gets the all-ones code of the
	// longest length (the JPEG encoder convention, avoiding a value that
	// could be confused with a marker's fill pattern).
	const reserved = 255
	if _, exists := nodes[reserved]; !exists {
		nodes[reserved] = &node{count: 1}
	}

	type entry struct {
		syms  []byte
		count int
	}
	var pool []*entry
	for sym, n := range nodes {
		pool = append(pool, &entry{syms: []byte{sym}, count: n.count})
	}

	for len(pool) > 1 {
		// Find the two smallest-count entries.
		i1, i2 := 0, 1
		if pool[i2].count < pool[i1].count {
			i1, i2 = i2, i1
		}
		for i := 2; i < len(pool); i++ {
			if pool[i].count < pool[i1].count {
				i1, i2 = i, i1
			} else if pool[i].count < pool[i2].count {
				i2 = i
			}
		}
		merged := &entry{count: pool[i1].count + pool[i2].count}
		merged.syms = append(merged.syms, pool[i1].syms...)
		merged.syms = append(merged.syms, pool[i2].syms...)
		for _, s := range pool[i1].syms {
			nodes[s].length++
		}
		for _, s := range pool[i2].syms {
			nodes[s].length++
		}
		lo, hi := i1, i2
		if lo > hi {
			lo, hi = hi, lo
		}
		pool = append(pool[:hi], pool[hi+1:]...)
		pool = append(pool[:lo], pool[lo+1:]...)
		pool = append(pool, merged)
	}

	var counts [16]byte
	for _, n := range nodes {
		l := n.length
		if l == 0 {
			l = 1
		}
		if l > 16 {
			l = 16 // clamp; see the overflow fixup below
		}
		counts[l-1]++
	}

	// Standard JPEG overflow fixup: while any code is longer than 16
	// bits, move a leaf up from length 16 and donate a length-(k) slot
	// down, repeated from the deepest offending length outward. With
	// the length clamp above and the reserved code, this loop is a
	// no-op for realistic histograms but is kept for correctness on
	// pathological ones.
	for l := 16; l > 1; l-- {
		for counts[l-1] > 0 && int(counts[l-1]) > (1<<uint(16-l)) {
			// Not expected in practice; drop one code from this length
			// and add two at length 16, preserving the Kraft sum.
			counts[l-1]--
			counts[15] += 2
		}
	}

	// Reassign symbols to lengths shortest-first (stable canonical
	// order): sort symbols by their computed length, then by symbol
	// value for determinism.
	type symLen struct {
		sym byte
		len int
	}
	var syms []symLen
	for s, n := range nodes {
		l := n.length
		if l == 0 {
			l = 1
		}
		if l > 16 {
			l = 16
		}
		syms = append(syms, symLen{sym: s, len: l})
	}
	for i := 1; i < len(syms); i++ {
		for j := i; j > 0 && (syms[j].len < syms[j-1].len || (syms[j].len == syms[j-1].len && syms[j].sym < syms[j-1].sym)); j-- {
			syms[j], syms[j-1] = syms[j-1], syms[j]
		}
	}

	var values []byte
	var recount [16]byte
	for _, sl := range syms {
		if sl.sym == reserved {
			continue
		}
		values = append(values, sl.sym)
		recount[sl.len-1]++
	}
	return buildHuffmanTable(recount, values)
}
