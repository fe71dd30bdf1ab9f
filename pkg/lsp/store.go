package lsp

import (
	"sync"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
)

// Document is an open text document and the findings of its last analysis.
type Document struct {
	Text     string
	Findings []analysis.Finding
	Version  int32
}

// DocumentStore is a thread-safe store for open documents keyed by URI.
type DocumentStore struct {
	documents map[string]Document
	mu        sync.RWMutex
}

// NewDocumentStore creates a new empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]Document),
	}
}

// Set replaces the text of uri and drops its findings.
func (ds *DocumentStore) Set(uri, text string, version int32) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = Document{Text: text, Version: version}
}

// SetFindings records findings for uri if its text is still text.
func (ds *DocumentStore) SetFindings(uri, text string, findings []analysis.Finding) bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	doc, ok := ds.documents[uri]
	if !ok || doc.Text != text {
		return false
	}

	doc.Findings = findings
	ds.documents[uri] = doc

	return true
}

// Get retrieves a document by URI.
func (ds *DocumentStore) Get(uri string) (Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]

	return doc, ok
}

// Delete removes a document by URI.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// Len is the number of open documents.
func (ds *DocumentStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	return len(ds.documents)
}
