// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/siyuan-tui/internal/siyuan"
)

// Query is one search received by a FakeBackend.
type Query struct {
	Text string
	At   time.Time
}

// FakeBackend is a scripted siyuan.Backend. Unknown queries return no
// results; unknown documents return siyuan.ErrNotFound.
type FakeBackend struct {
	mu        sync.Mutex
	results   map[string][]siyuan.Result
	searchErr map[string]error
	docs      map[string]siyuan.Document
	docErr    map[string]error
	gates     map[string]chan struct{}
	queries   []Query
	loads     []string
	issued    chan string
}

// NewFakeBackend returns an empty fake.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		results:   make(map[string][]siyuan.Result),
		searchErr: make(map[string]error),
		docs:      make(map[string]siyuan.Document),
		docErr:    make(map[string]error),
		gates:     make(map[string]chan struct{}),
		issued:    make(chan string, 64),
	}
}

// SetResults scripts the answer for query.
func (f *FakeBackend) SetResults(query string, results ...siyuan.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[query] = results
}

// SetSearchError makes query fail with err.
func (f *FakeBackend) SetSearchError(query string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchErr[query] = err
}

// AddDocument makes doc loadable by its id.
func (f *FakeBackend) AddDocument(doc siyuan.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ID] = doc
}

// SetDocumentError makes loading id fail with err.
func (f *FakeBackend) SetDocumentError(id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docErr[id] = err
}

// Gate holds searches for query until the returned release func is called.
func (f *FakeBackend) Gate(query string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[query] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Issued delivers the text of every search as it arrives.
func (f *FakeBackend) Issued() <-chan string {
	return f.issued
}

// Search records query and answers from the script.
func (f *FakeBackend) Search(ctx context.Context, query string) ([]siyuan.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, Query{Text: query, At: time.Now()})
	gate := f.gates[query]
	results := append([]siyuan.Result(nil), f.results[query]...)
	err := f.searchErr[query]
	f.mu.Unlock()

	select {
	case f.issued <- query:
	default:
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Document returns a scripted document.
func (f *FakeBackend) Document(ctx context.Context, id string) (siyuan.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, id)
	if err := f.docErr[id]; err != nil {
		return siyuan.Document{}, err
	}
	doc, ok := f.docs[id]
	if !ok {
		return siyuan.Document{}, fmt.Errorf("%w: document %s", siyuan.ErrNotFound, id)
	}
	return doc, nil
}

// Queries returns every search received so far.
func (f *FakeBackend) Queries() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Query(nil), f.queries...)
}

// QueryTexts returns the text of every search received so far.
func (f *FakeBackend) QueryTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queries))
	for i, q := range f.queries {
		out[i] = q.Text
	}
	return out
}

// Loads returns the ids of every document load so far.
func (f *FakeBackend) Loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loads...)
}

// Doc builds a document whose blocks hold the given paragraphs.
func Doc(id, title string, paragraphs ...string) siyuan.Document {
	doc := siyuan.Document{ID: id, BoxID: "box", HPath: "/" + title, Title: title}
	for i, p := range paragraphs {
		doc.Blocks = append(doc.Blocks, siyuan.Block{
			ID:       fmt.Sprintf("%s-%d", id, i),
			ParentID: id,
			RootID:   id,
			Box:      "box",
			HPath:    doc.HPath,
			Content:  strings.TrimSpace(p),
			Markdown: p,
			Type:     "p",
		})
	}
	return doc
}

var _ siyuan.Backend = (*FakeBackend)(nil)
