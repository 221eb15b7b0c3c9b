package state

import "github.com/atomicstack/siyuan-tui/internal/siyuan"

// DocumentStore tracks the documents open in the viewer and which one is
// focused. It is only touched from the UI goroutine.
type DocumentStore interface {
	Entries() []siyuan.Document
	Get(id string) (siyuan.Document, bool)
	Put(siyuan.Document)
	Remove(id string) bool
	Current() string
	SetCurrent(string)
	CurrentDocument() (siyuan.Document, bool)
}

type documentStore struct {
	entries []siyuan.Document
	current string
}

func NewDocumentStore() DocumentStore {
	return &documentStore{}
}

func (s *documentStore) Entries() []siyuan.Document {
	return cloneDocuments(s.entries)
}

func (s *documentStore) Get(id string) (siyuan.Document, bool) {
	if i := s.index(id); i >= 0 {
		return s.entries[i], true
	}
	return siyuan.Document{}, false
}

// Put replaces a document with the same id in place, or appends it.
func (s *documentStore) Put(doc siyuan.Document) {
	if i := s.index(doc.ID); i >= 0 {
		s.entries[i] = doc
		return
	}
	s.entries = append(s.entries, doc)
}

func (s *documentStore) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	if s.current == id {
		s.current = ""
		if len(s.entries) > 0 {
			s.current = s.entries[min(i, len(s.entries)-1)].ID
		}
	}
	return true
}

func (s *documentStore) Current() string {
	return s.current
}

func (s *documentStore) SetCurrent(id string) {
	s.current = id
}

func (s *documentStore) CurrentDocument() (siyuan.Document, bool) {
	return s.Get(s.current)
}

func (s *documentStore) index(id string) int {
	for i, doc := range s.entries {
		if doc.ID == id {
			return i
		}
	}
	return -1
}

func cloneDocuments(entries []siyuan.Document) []siyuan.Document {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]siyuan.Document, len(entries))
	copy(dup, entries)
	return dup
}
