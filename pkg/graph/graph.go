// Package graph derives a directed table adjacency from a relationship
// snapshot and resolves minimal-hop join paths over it.
package graph

import (
	"fmt"

	"github.com/ekaya-inc/databridge/pkg/apperrors"
	"github.com/ekaya-inc/databridge/pkg/models"
)

// Graph is the directed adjacency from foreign-key tables to the tables
// they reference. It is rebuilt wholesale whenever the relationship set
// changes.
type Graph struct {
	adjacency map[string][]string
	tables    map[string]struct{}
}

// New builds a graph from a relationship snapshot. Parallel relationships
// between the same ordered table pair collapse into a single edge; edge
// order follows first appearance in the snapshot so traversal stays
// deterministic.
func New(set models.RelationshipSet) *Graph {
	g := &Graph{
		adjacency: make(map[string][]string),
		tables:    make(map[string]struct{}),
	}
	seen := make(map[[2]string]bool)
	for _, r := range set.All() {
		g.tables[r.FromTable] = struct{}{}
		g.tables[r.ToTable] = struct{}{}
		key := [2]string{r.FromTable, r.ToTable}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.adjacency[r.FromTable] = append(g.adjacency[r.FromTable], r.ToTable)
	}
	return g
}

// Neighbors returns the tables directly referenced by the given table.
func (g *Graph) Neighbors(table string) []string {
	return g.adjacency[table]
}

// Tables returns the number of tables known to the graph.
func (g *Graph) Tables() int {
	return len(g.tables)
}

// FindPath returns the shortest directed path from start to end as an
// ordered list of table names, both endpoints included. start == end yields
// the trivial single-table path. Breadth-first search over the unweighted
// edges gives the fewest-hops answer without enumerating all simple paths,
// and the visited set makes cycles harmless.
func (g *Graph) FindPath(start, end string) ([]string, error) {
	if start == end {
		return []string{start}, nil
	}

	parent := make(map[string]string)
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.adjacency[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current
			if next == end {
				return assemblePath(parent, start, end), nil
			}
			queue = append(queue, next)
		}
	}

	return nil, &apperrors.NoPathError{From: start, To: end}
}

func assemblePath(parent map[string]string, start, end string) []string {
	var reversed []string
	for at := end; ; at = parent[at] {
		reversed = append(reversed, at)
		if at == start {
			break
		}
	}
	path := make([]string, len(reversed))
	for i, t := range reversed {
		path[len(reversed)-1-i] = t
	}
	return path
}

// FindMultiPath links the requested tables into an ordered list of
// sub-paths. The first two tables are connected directly; each further
// table not already covered is reached by the shortest path from any
// already-covered table, ties going to the earliest-covered source. A
// requested table already inside an earlier sub-path adds nothing.
func (g *Graph) FindMultiPath(tables []string) ([][]string, error) {
	if len(tables) < 2 {
		return nil, fmt.Errorf("need at least 2 tables, got %d", len(tables))
	}

	first, err := g.FindPath(tables[0], tables[1])
	if err != nil {
		return nil, err
	}

	paths := [][]string{first}
	covered := make([]string, 0, len(first))
	coveredSet := make(map[string]bool)
	cover := func(path []string) {
		for _, t := range path {
			if !coveredSet[t] {
				coveredSet[t] = true
				covered = append(covered, t)
			}
		}
	}
	cover(first)

	for _, target := range tables[2:] {
		if coveredSet[target] {
			continue
		}
		var best []string
		for _, source := range covered {
			path, err := g.FindPath(source, target)
			if err != nil {
				continue
			}
			if best == nil || len(path) < len(best) {
				best = path
			}
		}
		if best == nil {
			return nil, &apperrors.NoPathError{From: covered[0], To: target}
		}
		paths = append(paths, best)
		cover(best)
	}

	return paths, nil
}
