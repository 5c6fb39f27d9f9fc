package ifvertex

import (
	"fmt"
	"io"
)

// Graphviz writes the if-vertex as a DOT digraph to w: the if-vertex node
// itself, fanning into its then- and else-path sub-vertices, in the style
// of the teacher's pgraph.Graphviz. Both paths are drawn regardless of the
// condition's current value, since this is elaboration-time diagnostic
// tooling, not a simulation trace.
func (iv *IfVertex) Graphviz(w io.Writer) error {
	var err error
	fprintf := func(format string, args ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	fprintf("digraph %q {\n", iv.name)
	fprintf("\tlabel=%q;\n", iv.name)
	fprintf("\t%q [label=%q];\n", iv.name, "if["+iv.name+"]")
	for _, sub := range iv.then.sortedVertices() {
		fprintf("\t%q [label=%q];\n", sub.Name(), sub.Kind()+"["+sub.Name()+"]")
		fprintf("\t%q -> %q [label=then];\n", iv.name, sub.Name())
	}
	for _, sub := range iv.els.sortedVertices() {
		fprintf("\t%q [label=%q];\n", sub.Name(), sub.Kind()+"["+sub.Name()+"]")
		fprintf("\t%q -> %q [label=else];\n", iv.name, sub.Name())
	}
	fprintf("}\n")
	return err
}
