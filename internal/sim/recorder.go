package sim

import "github.com/san-kum/attractor/internal/dynamo"

// Recorder keeps every Every-th state for storage and plotting.
type Recorder struct {
	Every  int
	Times  []float64
	States []dynamo.State
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

func (r *Recorder) OnStep(i int, t float64, y dynamo.State) {
	if i%r.Every != 0 {
		return
	}
	r.Times = append(r.Times, t)
	r.States = append(r.States, y.Clone())
}

func (r *Recorder) Len() int { return len(r.States) }

// Component returns the j-th component of every recorded state.
func (r *Recorder) Component(j int) []float64 {
	out := make([]float64, 0, len(r.States))
	for _, s := range r.States {
		if j < len(s) {
			out = append(out, s[j])
		}
	}
	return out
}

// Progress calls fn each time another tenth of total iterations completes.
func Progress(total int, fn func(done, total int)) Observer {
	step := total / 10
	if step < 1 {
		step = 1
	}
	return ObserverFunc(func(i int, _ float64, _ dynamo.State) {
		if (i+1)%step == 0 {
			fn(i+1, total)
		}
	})
}
