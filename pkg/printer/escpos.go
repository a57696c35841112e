package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
	FontWide   = 0x10 // Double width only
	FontTall   = 0x01 // Double height only
)

// Common paper widths in characters.
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds a receipt either as an ESC/POS byte stream for thermal
// printers or, in text mode, as plain fixed-width text with the same layout.
type Document struct {
	buf   bytes.Buffer
	width int
	plain bool
	align int
}

// NewDocument creates a new ESC/POS document with the given character width.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// NewTextDocument creates a plain-text document. Printer commands are dropped
// and alignment is done with spaces.
func NewTextDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width80mm
	}
	return &Document{width: charWidth, plain: true}
}

func (d *Document) Width() int { return d.width }

func (d *Document) command(b ...byte) {
	if d.plain {
		return
	}
	d.buf.Write(b)
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.command(ESC, '@')
	return d
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.align = align
	d.command(ESC, 'a', byte(align))
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.command(ESC, 'E', b)
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide, or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.command(GS, '!', size)
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	if d.plain {
		s = d.pad(s)
	}
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= d.width {
		return s
	}
	switch d.align {
	case AlignCenter:
		return strings.Repeat(" ", (d.width-n)/2) + s
	case AlignRight:
		return strings.Repeat(" ", d.width-n) + s
	}
	return s
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width separator line.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Subtotal           $100.00"
func (d *Document) KeyValue(key, value string) *Document {
	d.columns(key, value)
	return d
}

// ItemLine prints a receipt item line: name, quantity column, then right-aligned total.
// Example: "Classic Cut           2      $40.00"
func (d *Document) ItemLine(qty int, name, total string) *Document {
	right := fmt.Sprintf("%4d %10s", qty, total)
	maxName := d.width - utf8.RuneCountInString(right) - 1
	d.columns(truncate(name, maxName), right)
	return d
}

func (d *Document) columns(left, right string) {
	spaces := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(right)
	d.buf.WriteByte(LF)
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.command(GS, 'V', 0x00)
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.command(GS, 'V', 0x01)
	return d
}

// Bytes returns the accumulated byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// String returns the document as text. Useful for text documents.
func (d *Document) String() string {
	return d.buf.String()
}

// Reset clears the buffer and reinitializes the document.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.align = AlignLeft
	d.Init()
	return d
}
