package vertex

import (
	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/observer"
)

// Spawn starts the vertex's execute task on k, implementing unit.Vertex.
func (v *ComputeVertex) Spawn(k *kernel.Kernel) {
	k.Go(v.name, v.run)
}

// run is the generic compute-vertex loop from spec.md §4.4:
//
//  1. wait for every input to have arrived at least once (inbound AND-list)
//  2. arbitrate for the owning processing unit's core
//  3. compute the output from the current input values
//  4. hold the core for latency, then release it
//  5. publish the output to every registered observer
//
// The loop never terminates; a vertex re-arms for its next activation as
// soon as it publishes.
func (v *ComputeVertex) run(t *kernel.Task) {
	for {
		t.WaitAll(v.inbound)

		if !v.unit.RequestCore(v.coreFree) {
			t.Wait(v.coreFree)
		}

		result := v.compute()
		v.writeOutput(0, result)

		t.Sleep(v.latency)
		v.unit.ReleaseCore()

		v.publish()
	}
}

func (v *ComputeVertex) compute() uint64 {
	in := make([]uint64, len(v.inputs))
	for i, slot := range v.inputs {
		in[i] = decodeWord(slot.Bytes())
	}
	return v.op(in)
}

func (v *ComputeVertex) writeOutput(j int, val uint64) {
	if err := v.outputs[j].Write(encodeWord(val, v.width)); err != nil {
		panic(err)
	}
}

func (v *ComputeVertex) publish() {
	for j := range v.outputs {
		ref := observer.DataRef{Src: v.outputs[j], Len: v.width}
		if err := v.subject.NotifyObservers(j, ref); err != nil {
			v.Logf("publish output %d: %v", j, err)
		}
	}
}
