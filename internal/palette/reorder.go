package palette

import "sort"

// ReorderStats tallies how many blocks were offered reorder candidates
// and how many actually adopted a non-default ordering, per §4.2's
// "report trials and adopted counts" requirement.
type ReorderStats struct {
	Trials  int
	Adopted int
}

// reorderCost estimates the byte cost of a palette's color array under a
// simple delta model: |c[0]| + sum(|c[i]-c[i-1]|). The transition-count
// term from §4.2's formula is invariant under any relabeling of color
// order (it depends only on the index stream's adjacency structure, and
// relabeling is an injective remap of index values), so it never affects
// which ordering wins and is omitted here.
func reorderCost(colors []int16) int {
	if len(colors) == 0 {
		return 0
	}
	cost := abs16(colors[0])
	for i := 1; i < len(colors); i++ {
		cost += abs16(colors[i] - colors[i-1])
	}
	return cost
}

func abs16(v int16) int {
	if v < 0 {
		return int(-v)
	}
	return int(v)
}

// permute returns b with its palette relabeled by perm (perm[newIdx] =
// oldIdx) and its indices remapped to match.
func permute(b Block, perm []int) Block {
	var out Block
	out.Size = b.Size
	inv := make([]int, b.Size)
	for newIdx, oldIdx := range perm {
		out.Colors[newIdx] = b.Colors[oldIdx]
		inv[oldIdx] = newIdx
	}
	for i := 0; i < BlockPixels; i++ {
		out.Indices[i] = uint8(inv[b.Indices[i]])
	}
	return out
}

func identityPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	base := identityPerm(n)
	var out [][]int
	var rec func(k int)
	rec = func(k int) {
		if k == n {
			cp := make([]int, n)
			copy(cp, base)
			out = append(out, cp)
			return
		}
		for i := k; i < n; i++ {
			base[k], base[i] = base[i], base[k]
			rec(k + 1)
			base[k], base[i] = base[i], base[k]
		}
	}
	rec(0)
	return out
}

// Reorder evaluates the candidate orderings described in §4.2 (current
// frequency-sorted order, value-ascending, value-descending, and — for
// sizes 3 and 4 — every permutation) and returns the block relabeled
// under whichever minimizes reorderCost.
func Reorder(b Block, stats *ReorderStats) Block {
	if b.Size <= 1 {
		return b
	}
	best := b
	bestCost := reorderCost(b.Colors[:b.Size])
	trials := 1

	tryPerm := func(perm []int) {
		trials++
		cand := permute(b, perm)
		cost := reorderCost(cand.Colors[:cand.Size])
		if cost < bestCost {
			bestCost = cost
			best = cand
		}
	}

	ascending := identityPerm(b.Size)
	sort.Slice(ascending, func(i, j int) bool { return b.Colors[ascending[i]] < b.Colors[ascending[j]] })
	tryPerm(ascending)

	descending := identityPerm(b.Size)
	sort.Slice(descending, func(i, j int) bool { return b.Colors[descending[i]] > b.Colors[descending[j]] })
	tryPerm(descending)

	if b.Size == 3 || b.Size == 4 {
		for _, perm := range permutations(b.Size) {
			tryPerm(perm)
		}
	}

	if stats != nil {
		stats.Trials += trials
		if !best.Equal(b) {
			stats.Adopted++
		}
	}
	return best
}
