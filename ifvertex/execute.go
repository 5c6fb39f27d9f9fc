package ifvertex

import "github.com/tgsim/tgsim/kernel"

// run implements the if-vertex state machine from spec.md §4.7:
//
//	Idle -> Dispatching -> {ThenRunning,ElseRunning} -> JoinPublishing -> Idle
//
// The inbound AND-list already covers "Idle -> Dispatching" (it includes
// the condition event and every data edge event). Dispatching applies the
// if-vertex's own latency, copies inbound into outbound, and fans the
// chosen path's nodes into that path's Subject. ThenRunning/ElseRunning is
// implicit in waiting on the chosen path's join AND-list; JoinPublishing
// is the final loop over outbound, publishing to external successors.
func (iv *IfVertex) run(t *kernel.Task) {
	for {
		t.WaitAll(iv.inbound)

		t.Sleep(iv.latency)

		condTrue := iv.condValue.Bytes()[0] != 0
		for i, slot := range iv.inboundSlots {
			iv.outbound[i].Set(slot.Get())
		}

		path, nodes := iv.els, iv.elseNodes
		if condTrue {
			path, nodes = iv.then, iv.thenNodes
		}
		for id := range nodes {
			_ = path.subject.NotifyObservers(id, iv.outbound[id].Get())
		}

		t.WaitAll(path.join)

		for i, slot := range iv.outbound {
			ref := slot.Get()
			if err := iv.outSubj.NotifyObservers(i, ref); err != nil {
				iv.Logf("publish outbound %d: %v", i, err)
			}
		}
	}
}
