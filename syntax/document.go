//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package syntax

import (
	"fmt"
	"sort"
	"strings"
)

// TextRange is a half open byte range [Start, End).
type TextRange struct {
	Start int
	End   int
}

// Contains reports whether o lies inside r.
func (r TextRange) Contains(o TextRange) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Len returns the byte length of the range.
func (r TextRange) Len() int { return r.End - r.Start }

// LinePosition is a zero based line and column.
type LinePosition struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
}

// Before reports whether p comes strictly before o.
func (p LinePosition) Before(o LinePosition) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Offset < o.Offset)
}

func (p LinePosition) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Offset)
}

// LineRange locates a node inside a named file.
type LineRange struct {
	FileName  string       `json:"fileName"`
	StartLine LinePosition `json:"startLine"`
	EndLine   LinePosition `json:"endLine"`
}

// Overlaps reports whether both ranges share at least one position.
func (r LineRange) Overlaps(o LineRange) bool {
	if r.FileName != o.FileName {
		return false
	}
	return !r.EndLine.Before(o.StartLine) && !o.EndLine.Before(r.StartLine)
}

func (r LineRange) String() string {
	return fmt.Sprintf("%s:(%s,%s)", r.FileName, r.StartLine, r.EndLine)
}

// Position is the wire position of a text edit.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is the wire range of a text edit.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextEdit replaces Range with NewText. An empty range is an insertion.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// ToPosition converts a line position to a wire position.
func ToPosition(p LinePosition) Position {
	return Position{Line: p.Line, Character: p.Offset}
}

// ToLinePosition converts a wire position to a line position.
func ToLinePosition(p Position) LinePosition {
	return LinePosition{Line: p.Line, Offset: p.Character}
}

// TextDocument is an immutable source text with line bookkeeping.
type TextDocument struct {
	name       string
	text       string
	lineStarts []int
}

// NewTextDocument indexes text for position lookups.
func NewTextDocument(name, text string) *TextDocument {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &TextDocument{name: name, text: text, lineStarts: starts}
}

// Name returns the file name of the document.
func (d *TextDocument) Name() string { return d.name }

// Text returns the full source.
func (d *TextDocument) Text() string { return d.text }

// LineCount returns the number of lines.
func (d *TextDocument) LineCount() int { return len(d.lineStarts) }

// Slice returns the source covered by r.
func (d *TextDocument) Slice(r TextRange) string {
	start, end := clamp(r.Start, len(d.text)), clamp(r.End, len(d.text))
	if start > end {
		return ""
	}
	return d.text[start:end]
}

// PositionOf converts a byte offset to a line position.
func (d *TextDocument) PositionOf(offset int) LinePosition {
	offset = clamp(offset, len(d.text))
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
	return LinePosition{Line: line, Offset: offset - d.lineStarts[line]}
}

// OffsetOf converts a line position to a byte offset, clamping positions
// past the end of a line or the document.
func (d *TextDocument) OffsetOf(p LinePosition) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(d.lineStarts) {
		return len(d.text)
	}
	start := d.lineStarts[p.Line]
	end := len(d.text)
	if p.Line+1 < len(d.lineStarts) {
		end = d.lineStarts[p.Line+1] - 1
	}
	return clamp(start+p.Offset, end)
}

// LineRangeOf converts a byte range to a line range of this document.
func (d *TextDocument) LineRangeOf(r TextRange) LineRange {
	return LineRange{
		FileName:  d.name,
		StartLine: d.PositionOf(r.Start),
		EndLine:   d.PositionOf(r.End),
	}
}

// TextRangeOf converts a line range back to byte offsets.
func (d *TextDocument) TextRangeOf(r LineRange) TextRange {
	return TextRange{Start: d.OffsetOf(r.StartLine), End: d.OffsetOf(r.EndLine)}
}

// EndPosition returns the position just past the last character.
func (d *TextDocument) EndPosition() LinePosition {
	return d.PositionOf(len(d.text))
}

// Apply returns the text produced by applying edits. Edits must not
// overlap; they are applied from the end of the document backwards.
func (d *TextDocument) Apply(edits ...TextEdit) (string, error) {
	type span struct {
		r    TextRange
		text string
	}
	spans := make([]span, 0, len(edits))
	for _, e := range edits {
		r := TextRange{
			Start: d.OffsetOf(ToLinePosition(e.Range.Start)),
			End:   d.OffsetOf(ToLinePosition(e.Range.End)),
		}
		if r.End < r.Start {
			return "", fmt.Errorf("%w: end %v before start %v", ErrInvalidEdit, e.Range.End, e.Range.Start)
		}
		spans = append(spans, span{r: r, text: e.NewText})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].r.Start > spans[j].r.Start })
	for i := 1; i < len(spans); i++ {
		if spans[i].r.End > spans[i-1].r.Start {
			return "", fmt.Errorf("%w: overlapping edits", ErrInvalidEdit)
		}
	}
	var b strings.Builder
	text := d.text
	for _, s := range spans {
		b.Reset()
		b.WriteString(text[:s.r.Start])
		b.WriteString(s.text)
		b.WriteString(text[s.r.End:])
		text = b.String()
	}
	return text, nil
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
