package avatar

import (
	"bytes"
	"html"
	"html/template"
	"sort"
	"strconv"
	"strings"
)

const (
	// RootClass carries the structural rule of an avatar cell: no left
	// padding unless first in the row, fixed right spacing, minimal width.
	RootClass = "TableCellAvatar-root"
	// TestID identifies avatar cells for UI automation.
	TestID = "table-cell-avatar"
)

// CellProps are the accepted table cell attributes.
type CellProps struct {
	Align   string
	ColSpan int
	Padding string
	Variant string
	Class   string
	Attrs   map[string]string
}

// TableCellAvatarProps combines cell and avatar props. The cell class comes
// from CellProps.Class; Props.Class styles the inner avatar.
type TableCellAvatarProps struct {
	CellProps
	Props
}

// Attr is a rendered attribute pair.
type Attr struct {
	Name  string
	Value string
}

// Cell is the view model of a table cell holding exactly one avatar.
type Cell struct {
	Class  string
	TestID string
	Attrs  []Attr
	Avatar Avatar
}

// TableCellAvatar builds the cell for p.
func TableCellAvatar(p TableCellAvatarProps) Cell {
	return Cell{
		Class:  ClassNames(RootClass, p.CellProps.Class),
		TestID: TestID,
		Attrs:  cellAttrs(p.CellProps),
		Avatar: NewAvatar(p.Props),
	}
}

func cellAttrs(p CellProps) []Attr {
	var attrs []Attr
	if p.Align != "" {
		attrs = append(attrs, Attr{Name: "align", Value: p.Align})
	}
	if p.ColSpan > 1 {
		attrs = append(attrs, Attr{Name: "colspan", Value: strconv.Itoa(p.ColSpan)})
	}
	if p.Padding != "" {
		attrs = append(attrs, Attr{Name: "data-padding", Value: p.Padding})
	}
	if p.Variant != "" {
		attrs = append(attrs, Attr{Name: "data-variant", Value: p.Variant})
	}
	extra := make([]string, 0, len(p.Attrs))
	for name := range p.Attrs {
		if !allowedAttr(name) {
			continue
		}
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		attrs = append(attrs, Attr{Name: name, Value: p.Attrs[name]})
	}
	return attrs
}

// allowedAttr keeps pass-through attributes to plain lower-case names and
// refuses anything that would override the cell identity or run script.
func allowedAttr(name string) bool {
	switch name {
	case "", "class", "data-test-id", "style":
		return false
	}
	if strings.HasPrefix(name, "on") {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// Rendered returns the cell attributes as escaped name="value" pairs.
func (c Cell) Rendered() []template.HTMLAttr {
	out := make([]template.HTMLAttr, 0, len(c.Attrs))
	for _, a := range c.Attrs {
		out = append(out, template.HTMLAttr(a.Name+`="`+html.EscapeString(a.Value)+`"`))
	}
	return out
}

var cellTemplate = template.Must(template.New("cell").Parse(
	`<td class="{{.Class}}" data-test-id="{{.TestID}}"{{range .Rendered}} {{.}}{{end}}>` +
		`{{with .Avatar}}<div class="{{.Class}}" style="width:{{.Size}}px;height:{{.Size}}px">` +
		`{{if .HasThumbnail}}<img src="{{.Thumbnail}}" alt="{{.Alt}}" width="{{.Size}}" height="{{.Size}}">` +
		`{{else}}<span class="avatar-initials" aria-label="{{.Alt}}">{{.Initials}}</span>{{end}}</div>{{end}}</td>`,
))

// HTML renders the cell markup.
func (c Cell) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := cellTemplate.Execute(&buf, c); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
