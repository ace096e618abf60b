package analyzer

import (
	"strings"

	"reposcope/internal/tokens"
)

// Zone identifies which tier of the context document a section belongs to.
type Zone int

const (
	ZoneTier1 Zone = iota
	ZoneGuided
)

type section struct {
	label   string
	content string
}

// Context accumulates the document sent to the summarizer: the rendered
// tree, then Tier-1 files, then guided-tier files, each zone in
// insertion order. It owns the running budget counter for one analysis
// run and is never shared across runs.
//
// AddSection records and accounts unconditionally. Callers must check
// Remaining before adding and stop when it hits zero; a single section
// may therefore push consumption past the limit. That overshoot is
// accepted, not corrected.
type Context struct {
	limit    int
	consumed int

	treeText string
	tier1    []section
	guided   []section
	seen     map[string]bool
}

func NewContext(limit int) *Context {
	return &Context{limit: limit, seen: make(map[string]bool)}
}

// SetTree stores the rendered tree block and returns the tokens it
// consumed.
func (c *Context) SetTree(text string) int {
	c.treeText = text
	n := tokens.Estimate(text)
	c.consumed += n
	return n
}

// AddSection records content under label in the given zone and returns
// the tokens it consumed.
func (c *Context) AddSection(label, content string, zone Zone) int {
	s := section{label: label, content: content}
	switch zone {
	case ZoneGuided:
		c.guided = append(c.guided, s)
	default:
		c.tier1 = append(c.tier1, s)
	}
	c.seen[label] = true
	n := tokens.Estimate(content)
	c.consumed += n
	return n
}

// Has reports whether a path was already added in any zone.
func (c *Context) Has(path string) bool { return c.seen[path] }

func (c *Context) Limit() int    { return c.limit }
func (c *Context) Consumed() int { return c.consumed }

// Remaining is the unconsumed budget, floored at zero.
func (c *Context) Remaining() int {
	if r := c.limit - c.consumed; r > 0 {
		return r
	}
	return 0
}

func (c *Context) Tier1Count() int  { return len(c.tier1) }
func (c *Context) GuidedCount() int { return len(c.guided) }

// Render builds the final context string: tree block first, then each
// file as a labeled block, zones in fixed order, insertion order within
// each zone.
func (c *Context) Render() string {
	var sections []string
	if c.treeText != "" {
		sections = append(sections, "## Directory Structure\n\n```\n"+c.treeText+"\n```")
	}
	for _, s := range c.tier1 {
		sections = append(sections, "## "+s.label+"\n\n"+s.content)
	}
	for _, s := range c.guided {
		sections = append(sections, "## "+s.label+"\n\n"+s.content)
	}
	return strings.Join(sections, "\n\n---\n\n")
}
