package siyuan

import (
	"context"
	"path"
	"strings"
)

// Block mirrors the subset of SiYuan's blocks table used by the viewer.
type Block struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	RootID   string `json:"root_id"`
	Box      string `json:"box"`
	Path     string `json:"path"`
	HPath    string `json:"hpath"`
	Content  string `json:"content"`
	Markdown string `json:"markdown"`
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
}

// Result is one row of a search response.
type Result struct {
	ID      string
	BoxID   string
	RootID  string
	Content string
	Path    string
	HPath   string
}

// ResultFromBlock projects a block row onto a search result.
func ResultFromBlock(b Block) Result {
	root := b.RootID
	if root == "" {
		root = b.ID
	}
	return Result{
		ID:      b.ID,
		BoxID:   b.Box,
		RootID:  root,
		Content: b.Content,
		Path:    b.Path,
		HPath:   b.HPath,
	}
}

// Reference renders the block reference syntax SiYuan accepts when pasted.
func (r Result) Reference() string {
	anchor := strings.ReplaceAll(strings.TrimSpace(r.Content), `"`, `'`)
	if anchor == "" {
		return "((" + r.ID + "))"
	}
	return "((" + r.ID + ` "` + anchor + `"))`
}

// Document is a root block together with its top-level children in order.
type Document struct {
	ID     string
	BoxID  string
	HPath  string
	Title  string
	Blocks []Block
}

// TitleFromHPath returns the final segment of a human-readable path.
func TitleFromHPath(hpath string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(hpath), "/")
	if trimmed == "" {
		return ""
	}
	return path.Base(trimmed)
}

// IndexOf returns the position of the block with the given id, falling back
// to the first block whose content contains fallback. -1 when neither matches.
func (d Document) IndexOf(id, fallback string) int {
	if id != "" {
		for i, b := range d.Blocks {
			if b.ID == id {
				return i
			}
		}
	}
	needle := strings.TrimSpace(fallback)
	if needle == "" {
		return -1
	}
	for i, b := range d.Blocks {
		if strings.Contains(b.Content, needle) || strings.Contains(b.Markdown, needle) {
			return i
		}
	}
	return -1
}

// Searcher runs free-text queries against the block index.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Loader fetches a whole document by its root block id.
type Loader interface {
	Document(ctx context.Context, id string) (Document, error)
}

// Backend is the remote search/query collaborator consumed by the UI.
type Backend interface {
	Searcher
	Loader
}
