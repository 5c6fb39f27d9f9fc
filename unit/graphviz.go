package unit

import (
	"fmt"
	"io"
)

// Graphviz writes the unit's owned vertices as a DOT digraph to w, in the
// style of the teacher's pgraph.Graphviz: one node per vertex, labeled
// kind[name]. A ProcessingUnit does not itself track inter-vertex wiring
// (that lives in each vertex's Subject registrations), so this is a
// membership diagram rather than a dataflow one — still useful for
// eyeballing which vertices arbitrate for the same core before running the
// kernel.
func (u *ProcessingUnit) Graphviz(w io.Writer) error {
	var err error
	fprintf := func(format string, args ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	fprintf("digraph %q {\n", u.name)
	fprintf("\tlabel=%q;\n", u.name)
	for _, v := range u.Vertices() {
		fprintf("\t%q [label=%q];\n", v.Name(), v.Kind()+"["+v.Name()+"]")
	}
	fprintf("}\n")
	return err
}
