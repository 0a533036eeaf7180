// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"fmt"

	"orgchart/internal/models"
)

// Node is an employee together with its direct subordinates. A tree of
// nodes is built for a single fetch and never shared between callers.
type Node struct {
	ID           int64   `json:"id"`
	ManagerID    *int64  `json:"managerId"`
	Name         string  `json:"name"`
	Subordinates []*Node `json:"subordinates"`
}

func newNode(e models.Employee) *Node {
	var managerID *int64
	if e.ManagerID != nil {
		managerID = models.ManagerRef(*e.ManagerID)
	}
	return &Node{
		ID:           e.ID,
		ManagerID:    managerID,
		Name:         e.Name,
		Subordinates: []*Node{},
	}
}

// Size returns the number of nodes in the tree rooted at n.
func (n *Node) Size() int {
	size := 0
	n.Walk(func(*Node, int) { size++ })
	return size
}

// Walk visits every node of the tree depth-first, parents before children,
// passing each node's depth (the root is at depth 0).
func (n *Node) Walk(fn func(node *Node, depth int)) {
	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(top.node, top.depth)
		for i := len(top.node.Subordinates) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: top.node.Subordinates[i], depth: top.depth + 1})
		}
	}
}

// Dedupe drops repeated ids, keeping the first occurrence of each.
func Dedupe(rows []models.Employee) []models.Employee {
	seen := make(map[int64]struct{}, len(rows))
	out := make([]models.Employee, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Build assembles the rows of one subtree into a tree rooted at rootID.
// Children keep the order in which they appear in rows. Every row other
// than the root must have its manager in rows and be reachable from the
// root; otherwise Build fails rather than return a partial tree.
func Build(rows []models.Employee, rootID int64) (*Node, error) {
	rows = Dedupe(rows)

	nodes := make(map[int64]*Node, len(rows))
	for _, r := range rows {
		nodes[r.ID] = newNode(r)
	}

	root, ok := nodes[rootID]
	if !ok {
		return nil, fmt.Errorf("%w: root %d missing from result", ErrInconsistent, rootID)
	}

	// manager id -> ordered child ids
	children := make(map[int64][]int64, len(rows))
	for _, r := range rows {
		if r.ID == rootID {
			continue
		}
		if r.IsRoot() {
			return nil, fmt.Errorf("%w: employee %d has no manager inside subtree of %d", ErrInconsistent, r.ID, rootID)
		}
		if _, ok := nodes[*r.ManagerID]; !ok {
			return nil, fmt.Errorf("%w: employee %d references manager %d outside result", ErrInconsistent, r.ID, *r.ManagerID)
		}
		children[*r.ManagerID] = append(children[*r.ManagerID], r.ID)
	}

	for managerID, ids := range children {
		manager := nodes[managerID]
		for _, id := range ids {
			manager.Subordinates = append(manager.Subordinates, nodes[id])
		}
	}

	if size := root.Size(); size != len(nodes) {
		return nil, fmt.Errorf("%w: %d of %d rows unreachable from %d", ErrInconsistent, len(nodes)-size, len(nodes), rootID)
	}

	return root, nil
}

// Stats summarises a set of employee rows.
type Stats struct {
	Total    int
	Roots    int
	Managers int
	MaxDepth int
}

// Summarize counts roots, distinct managers and the deepest chain in rows.
func Summarize(rows []models.Employee) Stats {
	managers := make(map[int64]struct{})
	s := Stats{Total: len(rows), MaxDepth: MaxDepth(rows)}
	for _, r := range rows {
		if r.IsRoot() {
			s.Roots++
			continue
		}
		managers[*r.ManagerID] = struct{}{}
	}
	s.Managers = len(managers)
	return s
}

// MaxDepth returns the number of levels of the deepest tree in the forest
// described by rows. A lone root counts as one level; no rows is zero.
func MaxDepth(rows []models.Employee) int {
	children := make(map[int64][]int64, len(rows))
	var level []int64
	for _, r := range rows {
		if r.IsRoot() {
			level = append(level, r.ID)
			continue
		}
		children[*r.ManagerID] = append(children[*r.ManagerID], r.ID)
	}

	depth := 0
	for len(level) > 0 {
		depth++
		var next []int64
		for _, id := range level {
			next = append(next, children[id]...)
		}
		level = next
	}
	return depth
}
