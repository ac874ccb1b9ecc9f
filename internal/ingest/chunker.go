package ingest

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	minChunkRunes = 50
	// Sized for a 512-token embedding model (~450 tokens of text).
	maxChunkRunes = 700
)

// Chunk is one embeddable slice of a document.
type Chunk struct {
	Index   int
	Section string
	Text    string
}

// Chunker splits uploaded documents into section-aligned chunks using the
// goldmark AST. Plain text uploads parse as a sequence of paragraphs, so the
// same path covers both.
type Chunker struct {
	parser goldmark.Markdown
}

// NewChunker creates a new Chunker.
func NewChunker() *Chunker {
	return &Chunker{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// ChunkDocument parses the content and returns the document title and its
// chunks. The title is the first level-1 or level-2 heading, falling back to
// the filename.
func (c *Chunker) ChunkDocument(content []byte, filename string) (string, []Chunk, error) {
	if len(strings.TrimSpace(string(content))) == 0 {
		return titleFromFilename(filename), nil, nil
	}

	doc := c.parser.Parser().Parse(text.NewReader(content))

	title := firstHeading(doc, content)
	if title == "" {
		title = titleFromFilename(filename)
	}

	sections := collectSections(doc, content, title)
	chunks := sizeChunks(sections)
	return title, chunks, nil
}

// firstHeading returns the text of the first H1, or the first H2 when no H1
// exists.
func firstHeading(doc ast.Node, content []byte) string {
	var h1, h2 string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		switch {
		case heading.Level == 1 && h1 == "":
			h1 = nodeText(heading, content)
			return ast.WalkStop, nil
		case heading.Level == 2 && h2 == "":
			h2 = nodeText(heading, content)
		}
		return ast.WalkContinue, nil
	})
	if h1 != "" {
		return h1
	}
	return h2
}

// titleFromFilename strips the extension and capitalizes each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// collectSections walks the AST and accumulates text per heading. Content
// before the first heading lands in a section named after the title.
func collectSections(doc ast.Node, content []byte, title string) []Chunk {
	var sections []Chunk
	var current *Chunk

	flush := func() {
		if current != nil && strings.TrimSpace(current.Text) != "" {
			current.Text = strings.TrimSpace(current.Text)
			sections = append(sections, *current)
		}
	}
	appendText := func(s string) {
		if current == nil {
			current = &Chunk{Section: title}
		}
		current.Text += s
	}
	breakLine := func() {
		if current != nil && current.Text != "" && !strings.HasSuffix(current.Text, "\n") {
			current.Text += "\n"
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			flush()
			current = &Chunk{Section: nodeText(node, content)}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			appendText(string(node.Segment.Value(content)))
		case *ast.String:
			appendText(string(node.Value))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			breakLine()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				appendText(string(seg.Value(content)))
			}
		case *ast.Paragraph, *ast.List, *ast.ListItem:
			breakLine()
		default:
			// Table rows render as pipe-separated cell text.
			kind := n.Kind().String()
			if kind == "TableRow" || kind == "TableHeader" {
				breakLine()
				appendText(tableRowText(n, content) + "\n")
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	flush()

	if len(sections) == 0 {
		sections = append(sections, Chunk{
			Section: title,
			Text:    strings.TrimSpace(string(content)),
		})
	}
	return sections
}

// sizeChunks merges undersized sections forward and splits oversized ones at
// paragraph, line, or sentence boundaries. Sizes are measured in runes.
func sizeChunks(sections []Chunk) []Chunk {
	var result []Chunk

	for i := 0; i < len(sections); i++ {
		current := sections[i]

		for utf8.RuneCountInString(current.Text) < minChunkRunes && i+1 < len(sections) {
			next := sections[i+1]
			merged := current.Text + "\n\n" + next.Text
			if utf8.RuneCountInString(merged) > maxChunkRunes {
				break
			}
			current.Text = merged
			i++
		}

		if utf8.RuneCountInString(current.Text) > maxChunkRunes {
			result = append(result, splitChunk(current)...)
		} else {
			result = append(result, current)
		}
	}

	for i := range result {
		result[i].Index = i
	}
	return result
}

// splitChunk cuts an oversized chunk into pieces no larger than maxChunkRunes,
// preferring paragraph breaks, then line breaks, then sentence breaks.
func splitChunk(chunk Chunk) []Chunk {
	runes := []rune(chunk.Text)
	var splits []Chunk

	start := 0
	for start < len(runes) {
		end := start + maxChunkRunes
		if end >= len(runes) {
			splits = append(splits, Chunk{Section: chunk.Section, Text: string(runes[start:])})
			break
		}

		window := string(runes[start:end])
		cut := end
		if at := strings.LastIndex(window, "\n\n"); at != -1 {
			cut = start + utf8.RuneCountInString(window[:at+2])
		} else if at := strings.LastIndex(window, "\n"); at != -1 {
			cut = start + utf8.RuneCountInString(window[:at+1])
		} else if at := strings.LastIndex(window, ". "); at != -1 {
			cut = start + utf8.RuneCountInString(window[:at+2])
		}

		splits = append(splits, Chunk{Section: chunk.Section, Text: string(runes[start:cut])})
		start = cut
	}
	return splits
}

// nodeText extracts the plain text beneath a node.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// tableRowText joins a row's cells with pipe separators.
func tableRowText(row ast.Node, content []byte) string {
	var b strings.Builder
	cells := 0
	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind().String() == "TableCell" {
			if cells > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(nodeText(node, content))
			cells++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
