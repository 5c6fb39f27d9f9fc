package ifvertex

import "github.com/tgsim/tgsim/internal/errwrap"

func duplicateSubVertexError(tag Tag, id uint64) error {
	return errwrap.Errorf("if-vertex: duplicate vertex id %d in %s-path", id, tag)
}

func unknownSubVertexError(tag Tag, id uint64) error {
	return errwrap.Errorf("if-vertex: unknown %s-path vertex id %d", tag, id)
}
