package topojson

// endpoint is an arc endpoint in stored-coordinate space. Endpoints are
// compared exactly as stored, never through the transform: for delta-encoded
// arcs the end is the running sum of deltas before translation, which keeps
// the comparison free of floating-point decode error.
type endpoint [2]float64

// fragment is a maximal chain of arcs built so far. The same fragment is
// registered in both endpoint maps; it is mutated in place so both views stay
// coherent.
type fragment struct {
	start, end endpoint
	arcs       []int
}

// fragmentMap is an insertion-ordered map from endpoint to fragment. The
// flush order of stitch follows insertion order, so a plain map will not do.
type fragmentMap struct {
	keys  []endpoint
	items map[endpoint]*fragment
}

func newFragmentMap() *fragmentMap {
	return &fragmentMap{items: make(map[endpoint]*fragment)}
}

func (m *fragmentMap) get(k endpoint) *fragment {
	return m.items[k]
}

// set inserts or overwrites. Overwriting keeps the key's original position;
// inserting after a delete re-appends it.
func (m *fragmentMap) set(k endpoint, f *fragment) {
	if _, ok := m.items[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.items[k] = f
}

func (m *fragmentMap) remove(k endpoint) {
	if _, ok := m.items[k]; !ok {
		return
	}
	delete(m.items, k)
	for j, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:j], m.keys[j+1:]...)
			break
		}
	}
}

func (m *fragmentMap) each(fn func(f *fragment)) {
	for _, k := range m.keys {
		if f, ok := m.items[k]; ok {
			fn(f)
		}
	}
}

// arcEnds returns the stored-space endpoints of arc i, swapped for reversed
// traversal.
func (t *Topology) arcEnds(i int) (endpoint, endpoint) {
	arc := t.Arcs[index(i)]
	p0 := endpoint{arc[0][0], arc[0][1]}
	var p1 endpoint
	if t.Transform != nil {
		for _, p := range arc {
			p1[0] += p[0]
			p1[1] += p[1]
		}
	} else {
		last := arc[len(arc)-1]
		p1 = endpoint{last[0], last[1]}
	}
	if i < 0 {
		return p1, p0
	}
	return p0, p1
}

// emptyArc reports whether the stored arc content carries no displacement.
func emptyArc(arc [][]float64) bool {
	if len(arc) >= 3 {
		return false
	}
	if len(arc) < 2 {
		return true
	}
	return arc[1][0] == 0 && arc[1][1] == 0
}

// stitch chains a multiset of signed arc indices into a minimal set of
// maximal paths in which consecutive arcs share an endpoint. Shared
// subroutine of Merge and Mesh.
func stitch(t *Topology, arcs []int) [][]int {
	input := make([]int, len(arcs))
	copy(input, arcs)

	stitchedArcs := make(map[int]bool)
	byStart := newFragmentMap()
	byEnd := newFragmentMap()
	var fragments [][]int

	// Move empty arcs to the front. Their endpoints coincide, so chaining
	// them late would spuriously attach them to anything sharing the point;
	// processed first, they are absorbed by the non-empty arcs instead.
	emptyIndex := -1
	for j, i := range input {
		if emptyArc(t.Arcs[index(i)]) {
			emptyIndex++
			input[emptyIndex], input[j] = i, input[emptyIndex]
		}
	}

	for _, i := range input {
		start, end := t.arcEnds(i)

		if f := byEnd.get(start); f != nil {
			byEnd.remove(f.end)
			f.arcs = append(f.arcs, i)
			f.end = end
			if g := byStart.get(end); g != nil {
				byStart.remove(g.start)
				fg := f
				if g != f {
					fg = &fragment{arcs: concat(f.arcs, g.arcs)}
				}
				fg.start = f.start
				fg.end = g.end
				byStart.set(fg.start, fg)
				byEnd.set(fg.end, fg)
			} else {
				byStart.set(f.start, f)
				byEnd.set(f.end, f)
			}
		} else if f := byStart.get(end); f != nil {
			byStart.remove(f.start)
			f.arcs = append([]int{i}, f.arcs...)
			f.start = start
			if g := byEnd.get(start); g != nil {
				byEnd.remove(g.end)
				gf := f
				if g != f {
					gf = &fragment{arcs: concat(g.arcs, f.arcs)}
				}
				gf.start = g.start
				gf.end = f.end
				byStart.set(gf.start, gf)
				byEnd.set(gf.end, gf)
			} else {
				byStart.set(f.start, f)
				byEnd.set(f.end, f)
			}
		} else {
			f := &fragment{start: start, end: end, arcs: []int{i}}
			byStart.set(start, f)
			byEnd.set(end, f)
		}
	}

	emit := func(f *fragment) {
		for _, i := range f.arcs {
			stitchedArcs[index(i)] = true
		}
		fragments = append(fragments, f.arcs)
	}

	// Flush byEnd first, unregistering each fragment's start so shared
	// fragments are not emitted twice; then flush whatever only byStart
	// still holds (fragments whose end key was overwritten).
	byEnd.each(func(f *fragment) {
		byStart.remove(f.start)
		emit(f)
	})
	byStart.each(emit)

	// Arcs that matched nothing and were not absorbed come out as
	// singleton chains.
	for _, i := range input {
		if !stitchedArcs[index(i)] {
			fragments = append(fragments, []int{i})
		}
	}

	return fragments
}

func concat(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
