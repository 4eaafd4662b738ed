package detection

import (
	"image"
	"sort"
)

// DefaultMergeOverlap is the mutual overlap at which two proposals are
// treated as the same face.
const DefaultMergeOverlap = 0.3

// MutualOverlap returns |a∩b| / max(|a|,|b|): the fraction that both
// rectangles share with each other. Zero for disjoint or empty rectangles.
func MutualOverlap(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	areaA := a.Dx() * a.Dy()
	areaB := b.Dx() * b.Dy()
	larger := areaA
	if areaB > larger {
		larger = areaB
	}
	if larger == 0 {
		return 0
	}
	return float64(inter.Dx()*inter.Dy()) / float64(larger)
}

// Merge groups near-duplicate candidates and returns one averaged region per
// group. Grouping is transitive: if a~b and b~c then a, b and c merge even when
// a and c do not overlap. A group of one survives unchanged.
//
// A group's rectangle is the rounded mean of all its candidates. Grouping
// repeats on those means until no two of them reach overlap, so the result
// never holds a near-duplicate pair.
func Merge(candidates []Region, overlap float64) Set {
	if len(candidates) == 0 {
		return Set{}
	}

	// members are candidate indexes in input order; groups stay sorted by
	// their first member.
	groups := make([][]int, len(candidates))
	for i := range candidates {
		groups[i] = []int{i}
	}
	rects := make([]image.Rectangle, len(candidates))
	for i, c := range candidates {
		rects[i] = c.Rect
	}

	for {
		next := unite(rects, overlap)
		if len(next) == len(rects) {
			break
		}
		merged := make([][]int, len(next))
		rects = make([]image.Rectangle, len(next))
		for i, idx := range next {
			for _, g := range idx {
				merged[i] = append(merged[i], groups[g]...)
			}
			sort.Ints(merged[i])
			rects[i] = meanRect(candidates, merged[i])
		}
		groups = merged
	}

	out := make(Set, 0, len(groups))
	for i, g := range groups {
		out = append(out, Region{Rect: rects[i], Profile: candidates[g[0]].Profile})
	}
	return out
}

// unite partitions rects into transitive near-duplicate classes with a
// union-find. Each class lists rect indexes ascending; classes are ordered by
// their lowest index.
func unite(rects []image.Rectangle, overlap float64) [][]int {
	parent := make([]int, len(rects))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if MutualOverlap(rects[i], rects[j]) < overlap {
				continue
			}
			ri, rj := find(i), find(j)
			if ri == rj {
				continue
			}
			// the lower index stays root so classes keep input order
			if rj < ri {
				ri, rj = rj, ri
			}
			parent[rj] = ri
		}
	}

	slot := make(map[int]int)
	var classes [][]int
	for i := range rects {
		root := find(i)
		k, ok := slot[root]
		if !ok {
			k = len(classes)
			slot[root] = k
			classes = append(classes, nil)
		}
		classes[k] = append(classes[k], i)
	}
	return classes
}

func meanRect(candidates []Region, members []int) image.Rectangle {
	var minX, minY, maxX, maxY int
	for _, i := range members {
		r := candidates[i].Rect
		minX += r.Min.X
		minY += r.Min.Y
		maxX += r.Max.X
		maxY += r.Max.Y
	}
	n := len(members)
	return image.Rect(roundDiv(minX, n), roundDiv(minY, n), roundDiv(maxX, n), roundDiv(maxY, n))
}

// roundDiv divides and rounds half away from zero.
func roundDiv(sum, n int) int {
	if sum >= 0 {
		return (sum + n/2) / n
	}
	return -((-sum + n/2) / n)
}
