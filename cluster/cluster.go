// Package cluster implements the Cluster Engine of spec.md §4.9: turning a
// stream of scored candidate pairs into entity clusters (dedup mode) or a
// one-to-one record alignment (linkage/gazetteer mode).
//
// Dedup clustering is single-linkage hierarchical clustering cut at
// tau_cluster, grounded on dedupe/clustering/hierarchical.py's
// dupesToCondensedDistance+fcluster(method='single') shape: cutting single
// linkage at a distance threshold is exactly connected components of the
// graph whose edges are the pairs at or above the corresponding similarity
// threshold, which is how union-find is used here instead of requiring a
// full condensed distance matrix and an external clustering library.
// Node/edge bookkeeping follows pkg/graph's adjacency-list ConceptGraph
// style, adapted to an undirected weighted similarity graph.
package cluster

import (
	"sort"

	"github.com/kittclouds/matchkit/record"
	"github.com/kittclouds/matchkit/scorer"
)

// clusterDecayFactor is the ratio of tau_cluster to tau_match. Every edge is
// judged against the same tau_cluster.
const clusterDecayFactor = 0.7

// TauCluster derives the clustering threshold from the match threshold.
func TauCluster(tauMatch float64) float64 {
	return clusterDecayFactor * tauMatch
}

// unionFind is a standard disjoint-set structure over record ids.
type unionFind struct {
	parent map[record.ID]record.ID
	rank   map[record.ID]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[record.ID]record.ID), rank: make(map[record.ID]int)}
}

func (u *unionFind) find(x record.ID) record.ID {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
		return x
	}
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		u.parent[x], x = root, u.parent[x]
	}
	return root
}

func (u *unionFind) union(a, b record.ID) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// Member is one record's membership in a cluster, carrying the mean
// probability of its own scored edges at or above tau_cluster (spec.md §4.9
// Output). A singleton cluster's sole member always carries Score == 1.
type Member struct {
	ID    record.ID
	Score float64
}

// Dedup groups every id in allIDs into entity clusters: records join the
// same cluster whenever a chain of pairwise scores at or above tauCluster
// connects them, which is single-linkage clustering cut at tauCluster.
// allIDs is a full cover of the partition's input (spec.md §8: "every input
// record appears in exactly one cluster (singletons count)") — a record
// with no surviving edge becomes its own size-1 cluster with Score 1, and
// every other record's Score is the mean probability of its surviving
// edges to the rest of its cluster.
func Dedup(allIDs []record.ID, scored []scorer.Scored, tauCluster float64) [][]Member {
	uf := newUnionFind()
	for _, id := range allIDs {
		uf.find(id)
	}

	incident := make(map[record.ID][]float64)
	for _, s := range scored {
		if s.Probability < tauCluster {
			continue
		}
		uf.union(s.Pair.A, s.Pair.B)
		incident[s.Pair.A] = append(incident[s.Pair.A], s.Probability)
		incident[s.Pair.B] = append(incident[s.Pair.B], s.Probability)
	}

	groups := make(map[record.ID][]record.ID)
	for _, id := range allIDs {
		root := uf.find(id)
		groups[root] = append(groups[root], id)
	}

	clusters := make([][]Member, 0, len(groups))
	for _, ids := range groups {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		members := make([]Member, len(ids))
		for i, id := range ids {
			if len(ids) == 1 {
				members[i] = Member{ID: id, Score: 1}
				continue
			}
			probs := incident[id]
			var sum float64
			for _, p := range probs {
				sum += p
			}
			members[i] = Member{ID: id, Score: sum / float64(len(probs))}
		}
		clusters = append(clusters, members)
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i][0].ID < clusters[j][0].ID })
	return clusters
}

// Link pairs a "left" set of ids (e.g. the match-list side) against a
// "right" set (e.g. the canonical side) one-to-one, greedily: scored pairs
// are consumed highest-probability first, each accepted pair consuming both
// endpoints so neither can match again. This is the gazetteer/linkage mode
// of spec.md §4.9, as opposed to Dedup's many-to-many entity grouping.
func Link(scored []scorer.Scored, tauMatch float64) []scorer.Scored {
	candidates := make([]scorer.Scored, 0, len(scored))
	for _, s := range scored {
		if s.Probability >= tauMatch {
			candidates = append(candidates, s)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Probability != candidates[j].Probability {
			return candidates[i].Probability > candidates[j].Probability
		}
		if candidates[i].Pair.A != candidates[j].Pair.A {
			return candidates[i].Pair.A < candidates[j].Pair.A
		}
		return candidates[i].Pair.B < candidates[j].Pair.B
	})

	used := make(map[record.ID]struct{})
	var out []scorer.Scored
	for _, c := range candidates {
		if _, ok := used[c.Pair.A]; ok {
			continue
		}
		if _, ok := used[c.Pair.B]; ok {
			continue
		}
		used[c.Pair.A] = struct{}{}
		used[c.Pair.B] = struct{}{}
		out = append(out, c)
	}
	return out
}
