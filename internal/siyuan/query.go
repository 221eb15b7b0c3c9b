package siyuan

import (
	"fmt"
	"strings"
)

const DefaultSearchLimit = 20

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps the query for a substring LIKE match, escaping wildcards.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// quoteLiteral renders s as a single-quoted SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// searchStatement builds the SQL sent to the kernel's query endpoint. The
// HTTP API does not take bind parameters, so the query is inlined as a
// literal.
func searchStatement(query string, limit int) string {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return fmt.Sprintf(
		`SELECT * FROM blocks WHERE content LIKE %s ESCAPE '\' LIMIT %d`,
		quoteLiteral(likePattern(query)), limit,
	)
}

// splitMarkdownBlocks breaks exported Markdown into top-level blocks on blank
// lines, keeping fenced code blocks intact.
func splitMarkdownBlocks(markdown string) []string {
	var (
		blocks  []string
		current []string
		fence   string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		blocks = append(blocks, strings.Join(current, "\n"))
		current = nil
	}
	for _, line := range strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			current = append(current, line)
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			current = append(current, line)
			continue
		}
		if trimmed == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}
