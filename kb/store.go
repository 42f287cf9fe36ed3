package kb

import (
	"strings"
	"sync"
)

// Document is one stored knowledge entry.
type Document struct {
	Content string
	Topics  []string
}

// Store holds documents and answers topic queries. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs []Document
}

// NewStore creates a store pre-seeded with the given documents.
func NewStore(docs ...Document) *Store {
	s := &Store{}
	s.docs = append(s.docs, docs...)
	return s
}

// Add appends a document.
func (s *Store) Add(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
}

// Retrieve returns up to k document contents whose topics or text match the
// query, in insertion order.
func (s *Store) Retrieve(query string, k int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, d := range s.docs {
		if len(out) >= k {
			break
		}
		if matches(d, query) {
			out = append(out, d.Content)
		}
	}
	return out
}

func matches(d Document, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, t := range d.Topics {
		if strings.Contains(strings.ToLower(t), q) || strings.Contains(q, strings.ToLower(t)) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(d.Content), q)
}
