package domain

import "sort"

// ItemTotals are the sums of the items directly assigned to one category
type ItemTotals struct {
	Count int64
	Stock int64
	Value float64
}

// Stats are the aggregated statistics of a category: its own items plus the
// recursively aggregated values of all descendants. Always derived, never
// stored.
type Stats struct {
	ItemCount  int64   `json:"item_count"`
	TotalStock int64   `json:"total_stock"`
	TotalValue float64 `json:"total_value"`
}

// TreeNode is one annotated node of an assembled category tree
type TreeNode struct {
	Category
	Children []*TreeNode `json:"children"`
	Stats    *Stats      `json:"stats,omitempty"`
}

// Snapshot is an immutable in-memory view of the whole category graph,
// an arena of nodes indexed by id with parent/children kept as id references.
// A snapshot is built per read so concurrent moves are never observed
// half-applied.
type Snapshot struct {
	nodes    map[uint]*Category
	children map[uint][]uint
	roots    []uint
}

// NewSnapshot builds a snapshot from a flat category list. Children are
// ordered by SortOrder, ties broken by ID ascending.
func NewSnapshot(categories []Category) *Snapshot {
	s := &Snapshot{
		nodes:    make(map[uint]*Category, len(categories)),
		children: make(map[uint][]uint),
	}

	for i := range categories {
		c := categories[i]
		s.nodes[c.ID] = &c
	}

	for id, c := range s.nodes {
		if c.ParentID == nil {
			s.roots = append(s.roots, id)
			continue
		}
		if _, ok := s.nodes[*c.ParentID]; !ok {
			// Parent filtered out (soft-deleted); treat as root
			s.roots = append(s.roots, id)
			continue
		}
		s.children[*c.ParentID] = append(s.children[*c.ParentID], id)
	}

	less := func(ids []uint) func(i, j int) bool {
		return func(i, j int) bool {
			a, b := s.nodes[ids[i]], s.nodes[ids[j]]
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return a.ID < b.ID
		}
	}

	sort.Slice(s.roots, less(s.roots))
	for _, ids := range s.children {
		sort.Slice(ids, less(ids))
	}

	return s
}

// Get returns the category with the given id
func (s *Snapshot) Get(id uint) (*Category, bool) {
	c, ok := s.nodes[id]
	return c, ok
}

// Roots returns the ids of all root categories in display order
func (s *Snapshot) Roots() []uint {
	return s.roots
}

// Children returns the ids of the direct children of id in display order
func (s *Snapshot) Children(id uint) []uint {
	return s.children[id]
}

// IsAncestor reports whether ancestorID appears on the parent chain of id,
// walking from id up to its root. A category is not its own ancestor.
func (s *Snapshot) IsAncestor(ancestorID, id uint) bool {
	c, ok := s.nodes[id]
	if !ok {
		return false
	}
	for c.ParentID != nil {
		if *c.ParentID == ancestorID {
			return true
		}
		c, ok = s.nodes[*c.ParentID]
		if !ok {
			return false
		}
	}
	return false
}

// SubtreeIDs returns rootID and all of its descendants in depth-first order
func (s *Snapshot) SubtreeIDs(rootID uint) []uint {
	if _, ok := s.nodes[rootID]; !ok {
		return nil
	}
	ids := []uint{rootID}
	for i := 0; i < len(ids); i++ {
		ids = append(ids, s.children[ids[i]]...)
	}
	return ids
}

// SubtreeLevels computes the level of every node in the subtree rooted at
// rootID, with rootID placed at baseLevel. Used when a move or reassignment
// shifts a whole subtree up or down.
func (s *Snapshot) SubtreeLevels(rootID uint, baseLevel int) map[uint]int {
	levels := make(map[uint]int)
	var walk func(id uint, level int)
	walk = func(id uint, level int) {
		levels[id] = level
		for _, child := range s.children[id] {
			walk(child, level+1)
		}
	}
	if _, ok := s.nodes[rootID]; ok {
		walk(rootID, baseLevel)
	}
	return levels
}

// Aggregate computes the stats of every category by explicit post-order
// traversal: a node's aggregate is its own item totals plus the sum of all
// children's aggregates. O(nodes + items).
func (s *Snapshot) Aggregate(totals map[uint]ItemTotals) map[uint]Stats {
	stats := make(map[uint]Stats, len(s.nodes))

	var visit func(id uint) Stats
	visit = func(id uint) Stats {
		own := totals[id]
		agg := Stats{
			ItemCount:  own.Count,
			TotalStock: own.Stock,
			TotalValue: own.Value,
		}
		for _, child := range s.children[id] {
			childAgg := visit(child)
			agg.ItemCount += childAgg.ItemCount
			agg.TotalStock += childAgg.TotalStock
			agg.TotalValue += childAgg.TotalValue
		}
		stats[id] = agg
		return agg
	}

	for _, root := range s.roots {
		visit(root)
	}
	return stats
}

// Build assembles the subtree rooted at rootID (or all roots when rootID is
// nil), limited to maxDepth levels below each requested root (0 means no
// limit). When stats is non-nil each node is annotated with its aggregate.
func (s *Snapshot) Build(rootID *uint, maxDepth int, stats map[uint]Stats) []*TreeNode {
	var build func(id uint, depth int) *TreeNode
	build = func(id uint, depth int) *TreeNode {
		c := s.nodes[id]
		node := &TreeNode{Category: *c, Children: []*TreeNode{}}
		if stats != nil {
			agg := stats[id]
			node.Stats = &agg
		}
		if maxDepth > 0 && depth >= maxDepth {
			return node
		}
		for _, child := range s.children[id] {
			node.Children = append(node.Children, build(child, depth+1))
		}
		return node
	}

	if rootID != nil {
		if _, ok := s.nodes[*rootID]; !ok {
			return nil
		}
		return []*TreeNode{build(*rootID, 0)}
	}

	trees := make([]*TreeNode, 0, len(s.roots))
	for _, root := range s.roots {
		trees = append(trees, build(root, 0))
	}
	return trees
}
