package service

import "strings"

// DocBlock is one body block of a rendered proposal: either a paragraph
// or a bullet list, never both.
type DocBlock struct {
	Text    string
	Bullets []string
}

// DocSection is one "## " heading with its body blocks.
type DocSection struct {
	Heading string
	Blocks  []DocBlock
}

// ProposalDocument is the renderer-independent shape of a compiled
// proposal. Building it from markdown is pure and deterministic:
// compiling the same draft twice yields the same structure even though
// storage keys differ per run.
type ProposalDocument struct {
	Title       string
	FrontMatter []DocBlock
	Sections    []DocSection
}

// BuildDocument converts proposal markdown into document structure.
// Split on level-2 heading markers; text before the first heading is
// front matter; within a segment the first line is the heading and
// blank-line-separated blocks are paragraphs, with "- " blocks becoming
// bullet lists.
func BuildDocument(title, markdown string) *ProposalDocument {
	doc := &ProposalDocument{Title: title}

	segments := strings.Split(markdown, "## ")
	for i, segment := range segments {
		if i == 0 {
			doc.FrontMatter = parseBlocks(segment)
			continue
		}

		lines := strings.SplitN(segment, "\n", 2)
		section := DocSection{Heading: strings.TrimSpace(lines[0])}
		if len(lines) > 1 {
			section.Blocks = parseBlocks(lines[1])
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc
}

// Paragraphs flattens the document back into its ordered heading and
// paragraph sequence.
func (d *ProposalDocument) Paragraphs() []string {
	var out []string
	for _, b := range d.FrontMatter {
		out = append(out, blockText(b)...)
	}
	for _, sec := range d.Sections {
		out = append(out, sec.Heading)
		for _, b := range sec.Blocks {
			out = append(out, blockText(b)...)
		}
	}
	return out
}

// HeadingCount returns how many section headings the document carries.
func (d *ProposalDocument) HeadingCount() int {
	return len(d.Sections)
}

func blockText(b DocBlock) []string {
	if len(b.Bullets) > 0 {
		return b.Bullets
	}
	return []string{b.Text}
}

func parseBlocks(body string) []DocBlock {
	var blocks []DocBlock
	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if strings.HasPrefix(para, "- ") {
			var bullets []string
			for _, item := range strings.Split(para, "- ") {
				item = strings.TrimSpace(item)
				if item != "" {
					bullets = append(bullets, item)
				}
			}
			blocks = append(blocks, DocBlock{Bullets: bullets})
			continue
		}
		blocks = append(blocks, DocBlock{Text: para})
	}
	return blocks
}
