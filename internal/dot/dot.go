// Package dot draws search trees as graphviz digraphs.
package dot

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

// Field is one labelled row of a node's table.
type Field struct {
	Name, Value string
}

// Graph is a directed graph of search nodes.
type Graph struct {
	g   *gographviz.Graph
	buf bytes.Buffer
}

// New creates an empty directed graph.
func New(name string) (*Graph, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(name); err != nil {
		return nil, errors.Wrapf(err, "Unable to name graph %q", name)
	}
	if err := g.SetDir(true); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Graph{g: g}, nil
}

// Board renders a multi line board so that it fits in a table cell.
func Board(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = html.EscapeString(lines[i])
	}
	return "<FONT FACE=\"Monaco\">" + strings.Join(lines, "<BR />") + "</FONT>"
}

// AddNode adds a node drawn as a table of fields. Values are inserted verbatim, so they must be valid HTML labels.
func (g *Graph) AddNode(id int, fields ...Field) error {
	g.buf.Reset()
	if err := tmpl.Execute(&g.buf, fields); err != nil {
		return errors.WithStack(err)
	}
	attrs := map[string]string{
		"fontname": "Monaco",
		"shape":    "none",
		"label":    g.buf.String(),
	}
	return errors.WithStack(g.g.AddNode(g.g.Name, nodeID(id), attrs))
}

// AddEdge adds an edge between two nodes that were added before.
func (g *Graph) AddEdge(from, to int) error {
	return errors.WithStack(g.g.AddEdge(nodeID(from), nodeID(to), true, nil))
}

func (g *Graph) String() string { return g.g.String() }

func nodeID(id int) string { return fmt.Sprintf("%d", id) }

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
{{range .}}<TR><TD>{{.Name}}</TD><TD>{{.Value}}</TD></TR>
{{end}}</TABLE>
>`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("node").Parse(tmplRaw))
}
