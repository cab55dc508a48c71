// Package labeledstore holds the two ordered training-pair sequences of
// spec.md §3: matches and distincts, insertion-order preserved, deduplicated
// by structural equality.
package labeledstore

import (
	"sort"

	"github.com/zeebo/blake3"

	"github.com/kittclouds/matchkit/record"
)

// Pair is one training example: two records and their label.
type Pair struct {
	A, B  record.Record
	AID   record.ID
	BID   record.ID
	Match bool
}

// Store holds insertion-ordered match and distinct sequences. Duplicate
// pairs (by structural equality of the canonicalised record contents, not
// just id) are dropped at insertion time.
type Store struct {
	matches   []Pair
	distincts []Pair
	seen      map[string]struct{}
}

// New returns an empty Store.
func New() *Store {
	return &Store{seen: make(map[string]struct{})}
}

// Add appends a training pair, skipping it if structurally identical to one
// already present with the same label. The label is part of the identity: a
// pair recorded once as match and once as distinct is stored twice, and
// that conflict is left for the caller to resolve.
func (s *Store) Add(aID, bID record.ID, a, b record.Record, match bool) bool {
	key := canonicalKey(aID, bID, a, b, match)
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}

	p := Pair{A: a, B: b, AID: aID, BID: bID, Match: match}
	if match {
		s.matches = append(s.matches, p)
	} else {
		s.distincts = append(s.distincts, p)
	}
	return true
}

// Matches returns the ordered match sequence.
func (s *Store) Matches() []Pair { return s.matches }

// Distincts returns the ordered distinct sequence.
func (s *Store) Distincts() []Pair { return s.distincts }

// Len returns the total number of retained training pairs.
func (s *Store) Len() int { return len(s.matches) + len(s.distincts) }

// canonicalKey hashes a structural, order-independent encoding of the pair
// with blake3, so identical content under swapped record order or swapped
// field-map iteration order collides to the same key.
func canonicalKey(aID, bID record.ID, a, b record.Record, match bool) string {
	ea := canonicalRecord(aID, a)
	eb := canonicalRecord(bID, b)
	if ea > eb {
		ea, eb = eb, ea
	}

	h := blake3.New()
	h.Write([]byte(ea))
	h.Write([]byte{0})
	h.Write([]byte(eb))
	h.Write([]byte{0})
	if match {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return string(h.Sum(nil))
}

func canonicalRecord(id record.ID, r record.Record) string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf []byte
	buf = append(buf, []byte(id)...)
	for _, name := range names {
		buf = append(buf, ';')
		buf = append(buf, []byte(name)...)
		buf = append(buf, '=')
		buf = append(buf, []byte(r[name].String())...)
	}
	return string(buf)
}
