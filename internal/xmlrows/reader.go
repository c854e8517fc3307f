// Package xmlrows parses the row-oriented XML documents produced by the trace
// export tool, transparently resolving id/ref element deduplication.
package xmlrows

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Row maps an element name to its resolved values, in document order.
// Repeated element names inside one row keep every occurrence so callers can
// join free-text metadata families.
type Row map[string][]string

// First returns the first resolved value for name, or "" when absent.
func (r Row) First(name string) string {
	vals := r[name]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// Has reports whether the row contains at least one value for name.
func (r Row) Has(name string) bool {
	return len(r[name]) > 0
}

// Join concatenates every non-empty value of the given element names with a
// single space, preserving name order then document order.
func (r Row) Join(names ...string) string {
	var parts []string
	for _, name := range names {
		for _, v := range r[name] {
			if v != "" {
				parts = append(parts, v)
			}
		}
	}
	return strings.Join(parts, " ")
}

// frame tracks one open element while decoding.
type frame struct {
	name   string
	id     string
	ref    string
	fmtVal string
	hasFmt bool
	text   strings.Builder
}

// Reader streams rows out of one exported XML document. Each Reader owns a
// fresh id cache; readers must not be shared across table parses.
type Reader struct {
	table   string
	dec     *xml.Decoder
	cache   map[string]string
	frames  []*frame
	inRow   bool
	current Row
}

// NewReader creates a Reader over one exported document. The table name is
// used only to contextualize parse errors.
func NewReader(r io.Reader, table string) *Reader {
	return &Reader{
		table: table,
		dec:   xml.NewDecoder(r),
		cache: make(map[string]string),
	}
}

// Next returns the next row in document order, or io.EOF when the document is
// exhausted. Well-formedness errors abort the parse and name the table.
func (rd *Reader) Next() (Row, error) {
	for {
		tok, err := rd.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("xmlrows: parsing %s table: %w", rd.table, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "row" {
				rd.inRow = true
				rd.current = make(Row)
				continue
			}
			rd.push(t)
		case xml.CharData:
			if n := len(rd.frames); n > 0 {
				rd.frames[n-1].text.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "row" {
				rd.inRow = false
				row := rd.current
				rd.current = nil
				return row, nil
			}
			rd.pop()
		}
	}
}

// ReadAll drains the reader into a slice.
func (rd *Reader) ReadAll() ([]Row, error) {
	var rows []Row
	for {
		row, err := rd.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func (rd *Reader) push(t xml.StartElement) {
	f := &frame{name: t.Name.Local}
	for _, attr := range t.Attr {
		switch attr.Name.Local {
		case "id":
			f.id = attr.Value
		case "ref":
			f.ref = attr.Value
		case "fmt":
			f.fmtVal = attr.Value
			f.hasFmt = true
		}
	}
	rd.frames = append(rd.frames, f)
}

func (rd *Reader) pop() {
	n := len(rd.frames)
	if n == 0 {
		return
	}
	f := rd.frames[n-1]
	rd.frames = rd.frames[:n-1]

	value := rd.resolve(f)

	// First definition wins; ref-only elements never write the cache.
	if f.id != "" && f.ref == "" {
		if _, ok := rd.cache[f.id]; !ok {
			rd.cache[f.id] = value
		}
	}

	if rd.inRow {
		rd.current[f.name] = append(rd.current[f.name], value)
	}
}

// resolve picks the element's value: a ref substitutes the cached definition
// (missing refs resolve empty rather than failing the parse), raw text content
// wins over the display-formatted fmt attribute so numeric fields keep their
// exported precision.
func (rd *Reader) resolve(f *frame) string {
	if f.ref != "" {
		return rd.cache[f.ref]
	}
	if text := strings.TrimSpace(f.text.String()); text != "" {
		return text
	}
	if f.hasFmt {
		return f.fmtVal
	}
	return ""
}
