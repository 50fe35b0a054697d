package clump

// DisjointSet is a union-find arena over the flat indices 0..n-1 of a grid.
// It is owned by a single clumping call, which keeps the engine re-entrant.
type DisjointSet struct {
	parent []int32
	size   []int32
}

// NewDisjointSet makes n singleton sets.
func NewDisjointSet(n int) *DisjointSet {
	ds := &DisjointSet{
		parent: make([]int32, n),
		size:   make([]int32, n),
	}
	for i := range ds.parent {
		ds.parent[i] = int32(i)
		ds.size[i] = 1
	}
	return ds
}

// Find returns the root of i, halving the path on the way up.
func (ds *DisjointSet) Find(i int) int {
	p := ds.parent
	for int(p[i]) != i {
		p[i] = p[p[i]]
		i = int(p[i])
	}
	return i
}

// Union merges the sets holding a and b and reports whether they were
// distinct. The larger set's root survives; ties keep the lower index.
func (ds *DisjointSet) Union(a, b int) bool {
	ra, rb := ds.Find(a), ds.Find(b)
	if ra == rb {
		return false
	}
	if ds.size[ra] < ds.size[rb] || (ds.size[ra] == ds.size[rb] && rb < ra) {
		ra, rb = rb, ra
	}
	ds.parent[rb] = int32(ra)
	ds.size[ra] += ds.size[rb]
	return true
}

// Size returns the number of members in i's set.
func (ds *DisjointSet) Size(i int) int {
	return int(ds.size[ds.Find(i)])
}

// Len returns the number of elements in the arena.
func (ds *DisjointSet) Len() int { return len(ds.parent) }
