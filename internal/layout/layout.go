// Package layout turns document blocks into wrapped terminal lines. It is a
// pure function of the document and the width, called by the editor during
// render.
package layout

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/atomicstack/siyuan-tui/internal/siyuan"
)

const (
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"

	minWidth      = 10
	maxCacheLines = 4096
)

// Block is a laid-out document block.
type Block struct {
	Index int
	ID    string
	Lines []string
}

// Height is the number of rows the block occupies.
func (b Block) Height() int {
	return len(b.Lines)
}

// Provider lays out a document at a given width.
type Provider interface {
	Layout(doc siyuan.Document, width int) []Block
}

// Lines flattens blocks into rows and returns, for each row, the index of the
// block it belongs to.
func Lines(blocks []Block) ([]string, []int) {
	var (
		rows   []string
		owners []int
	)
	for _, b := range blocks {
		for _, l := range b.Lines {
			rows = append(rows, l)
			owners = append(owners, b.Index)
		}
	}
	return rows, owners
}

// Markdown renders blocks with glamour. Renderers are cached per width and
// rendered blocks per width and source.
type Markdown struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
	rendered  map[string][]string
}

// NewMarkdown returns a provider using the named glamour style. An empty
// style is resolved with DetectStyle.
func NewMarkdown(style string) *Markdown {
	if strings.TrimSpace(style) == "" {
		style = DetectStyle()
	}
	return &Markdown{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		rendered:  make(map[string][]string),
	}
}

// Style reports the glamour style in use.
func (m *Markdown) Style() string {
	return m.style
}

// Layout renders each block separately so block heights are known. Blocks are
// separated by one blank row.
func (m *Markdown) Layout(doc siyuan.Document, width int) []Block {
	if width < minWidth {
		width = minWidth
	}
	out := make([]Block, 0, len(doc.Blocks))
	for i, b := range doc.Blocks {
		src := b.Markdown
		if strings.TrimSpace(src) == "" {
			src = b.Content
		}
		lines := m.renderBlock(src, width)
		if i < len(doc.Blocks)-1 {
			lines = append(lines, "")
		}
		out = append(out, Block{Index: i, ID: b.ID, Lines: lines})
	}
	return out
}

func (m *Markdown) renderBlock(src string, width int) []string {
	src = strings.TrimSpace(src)
	if src == "" {
		return []string{""}
	}
	key := strconv.Itoa(width) + "\x00" + src

	m.mu.Lock()
	defer m.mu.Unlock()
	if lines, ok := m.rendered[key]; ok {
		return append([]string(nil), lines...)
	}

	var lines []string
	r, err := m.renderer(width)
	if err == nil {
		var out string
		if out, err = r.Render(src); err == nil {
			lines = trimLines(out)
		}
	}
	if err != nil || len(lines) == 0 {
		lines = strings.Split(wordwrap.String(src, width), "\n")
	}

	if len(m.rendered) >= maxCacheLines {
		m.rendered = make(map[string][]string)
	}
	m.rendered[key] = lines
	return append([]string(nil), lines...)
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	if r := m.renderers[width]; r != nil {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(compactStyle(m.style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}

// compactStyle strips vertical margins so the gutter lines up with content.
func compactStyle(name string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	switch name {
	case StyleLight:
		cfg = styles.LightStyleConfig
	case StylePlain:
		cfg = styles.NoTTYStyleConfig
	default:
		cfg = styles.DarkStyleConfig
	}
	zero := uint(0)
	cfg.Document.Margin = &zero
	cfg.Paragraph.Margin = &zero
	cfg.List.Margin = &zero
	cfg.Heading.Margin = &zero
	cfg.CodeBlock.Margin = &zero
	cfg.BlockQuote.Margin = &zero
	return cfg
}

// trimLines drops leading and trailing blank rows from glamour output.
func trimLines(out string) []string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	blank := func(s string) bool {
		return strings.TrimSpace(xansi.Strip(s)) == ""
	}
	for len(lines) > 0 && blank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && blank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

// DetectStyle picks a glamour style without querying the terminal when the
// environment already answers the question.
func DetectStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SIYUAN_TUI_MD_STYLE"))) {
	case StyleLight:
		return StyleLight
	case StyleDark:
		return StyleDark
	case StylePlain, "plain":
		return StylePlain
	}
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return StylePlain
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg >= 7 {
				return StyleLight
			}
			return StyleDark
		}
	}
	if termenv.HasDarkBackground() {
		return StyleDark
	}
	return StyleLight
}
