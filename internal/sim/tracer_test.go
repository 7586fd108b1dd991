package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/integrators"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
	"github.com/san-kum/attractor/internal/viz"
)

// nanAfter is a 2-D map that produces NaN once its counter reaches n.
type nanAfter struct{ n, calls int }

func (m *nanAfter) Name() string      { return "nan-after" }
func (m *nanAfter) Dim() int          { return 2 }
func (m *nanAfter) Mode() dynamo.Mode { return dynamo.Iterate }
func (m *nanAfter) Next(y, next dynamo.State) {
	m.calls++
	next[0], next[1] = y[0]+1, y[1]
	if m.calls >= m.n {
		next[1] = math.NaN()
	}
}

func lorenzConfig(n int) sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Iterations = n
	cfg.StepSize = 0.02
	cfg.Initial = dynamo.State{0.1, 0.1, 0.1}
	cfg.Viewport = viz.Viewport{XLeft: -20, XRight: 20, YBottom: -30, YTop: 30}
	cfg.Width, cfg.Height = 1200, 1200
	return cfg
}

func deJongConfig(n int) sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Iterations = n
	cfg.Initial = dynamo.State{0.5, 0.5}
	cfg.Viewport = viz.Viewport{XLeft: -2.1, XRight: 2.1, YBottom: -2.1, YTop: 2.1}
	cfg.Width, cfg.Height = 900, 900
	cfg.Emission = sim.Stamps
	cfg.Background = viz.Black
	cfg.Color = sim.Constant(viz.White)
	return cfg
}

var _ = Describe("Tracer", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("bounding box", func() {
		It("only ever grows and contains every visited state", func() {
			tr := sim.New(physics.NewLorenz(), integrators.NewRK4(3))
			xs := []float64{0.1}
			zs := []float64{0.1}

			tr.AddObserver(sim.ObserverFunc(func(_ int, _ float64, y dynamo.State) {
				xs = append(xs, y[0])
				zs = append(zs, y[2])
			}))

			var boxes []dynamo.Box
			s, err := tr.Start(nil, lorenzConfig(2000))
			Expect(err).NotTo(HaveOccurred())
			for !s.Done() {
				_, err := s.Advance(100)
				Expect(err).NotTo(HaveOccurred())
				boxes = append(boxes, s.Bounds().Clone())
			}

			for k := 1; k < len(boxes); k++ {
				for j := 0; j < 3; j++ {
					Expect(boxes[k].Min[j]).To(BeNumerically("<=", boxes[k-1].Min[j]))
					Expect(boxes[k].Max[j]).To(BeNumerically(">=", boxes[k-1].Max[j]))
				}
			}

			res := s.Finish()
			Expect(res.Steps).To(Equal(2000))
			Expect(res.Bounds.Min[0]).To(Equal(floats.Min(xs)))
			Expect(res.Bounds.Max[0]).To(Equal(floats.Max(xs)))
			Expect(res.Bounds.Min[2]).To(Equal(floats.Min(zs)))
			Expect(res.Bounds.Max[2]).To(Equal(floats.Max(zs)))
		})

		It("starts at the initial state for a single iteration", func() {
			tr := sim.New(physics.NewDeJong(), nil)
			res, err := tr.Run(ctx, nil, deJongConfig(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Final[0]).To(BeNumerically("~", -1.3817732906760363, 1e-15))
			Expect(res.Final[1]).To(BeNumerically("~", -1.104944779263175, 1e-15))
			Expect(res.Bounds.Min).To(Equal(res.Final))
			Expect(res.Bounds.Max).To(Equal(dynamo.State{0.5, 0.5}))
		})
	})

	It("is deterministic", func() {
		a, err := sim.New(physics.NewLorenz(), integrators.NewRK4(3)).Run(ctx, &recordingSurface{}, lorenzConfig(1000))
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.New(physics.NewLorenz(), integrators.NewRK4Scalar(3)).Run(ctx, nil, lorenzConfig(1000))
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Final).To(Equal(b.Final))
		Expect(a.Bounds).To(Equal(b.Bounds))
		Expect(a.Final[0]).To(BeNumerically("~", -0.9739127698676027, 1e-6))
		Expect(a.Final[2]).To(BeNumerically("~", 14.962928086122673, 1e-6))
	})

	Describe("drawing", func() {
		It("paints, sizes the pen and strokes one segment per step", func() {
			surf := &recordingSurface{}
			cfg := lorenzConfig(50)
			_, err := sim.New(physics.NewLorenz(), integrators.NewRK4(3)).Run(ctx, surf, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(surf.ops[0].kind).To(Equal("paint"))
			Expect(surf.ops[0].color).To(Equal(viz.White))
			Expect(surf.ops[1].kind).To(Equal("width"))
			Expect(surf.ops[1].width).To(BeNumerically("~", 0.002*math.Sqrt(30*20), 1e-12))
			Expect(surf.count("stroke")).To(Equal(50))
			Expect(surf.count("move")).To(Equal(50))
			Expect(surf.count("line")).To(Equal(50))
		})

		It("begins the first segment at the mapped initial state", func() {
			surf := &recordingSurface{}
			cfg := lorenzConfig(1)
			_, err := sim.New(physics.NewLorenz(), integrators.NewRK4(3)).Run(ctx, surf, cfg)
			Expect(err).NotTo(HaveOccurred())

			aff, err := viz.NewAffine(cfg.Viewport, cfg.Width, cfg.Height)
			Expect(err).NotTo(HaveOccurred())
			x, y := aff.Apply(0.1, 0.1)
			move := surf.ops[3]
			Expect(move.kind).To(Equal("move"))
			Expect(move.x).To(Equal(x))
			Expect(move.y).To(Equal(y))
		})

		It("batches stamps into few strokes", func() {
			surf := &recordingSurface{}
			n := 2*sim.StampBatch + 10
			_, err := sim.New(physics.NewDeJong(), nil).Run(ctx, surf, deJongConfig(n))
			Expect(err).NotTo(HaveOccurred())

			Expect(surf.count("move")).To(Equal(n))
			Expect(surf.count("line")).To(Equal(n))
			Expect(surf.count("stroke")).To(Equal(3))
			Expect(surf.count("color")).To(Equal(3))
		})

		It("draws each stamp as a short diagonal", func() {
			surf := &recordingSurface{}
			cfg := deJongConfig(1)
			_, err := sim.New(physics.NewDeJong(), nil).Run(ctx, surf, cfg)
			Expect(err).NotTo(HaveOccurred())

			aff, _ := viz.NewAffine(cfg.Viewport, cfg.Width, cfg.Height)
			x0, y0 := aff.Apply(-1.3817732906760363, -1.104944779263175)
			x1, y1 := aff.Apply(-1.3817732906760363+sim.DefaultStampSize, -1.104944779263175+sim.DefaultStampSize)
			var move, line op
			for _, o := range surf.ops {
				switch o.kind {
				case "move":
					move = o
				case "line":
					line = o
				}
			}
			Expect(move.x).To(BeNumerically("~", x0, 1e-9))
			Expect(move.y).To(BeNumerically("~", y0, 1e-9))
			Expect(line.x).To(BeNumerically("~", x1, 1e-9))
			Expect(line.y).To(BeNumerically("~", y1, 1e-9))
		})

		It("rejects an axis beyond the system dimension", func() {
			cfg := deJongConfig(10)
			cfg.Axes = [2]int{0, 2}
			_, err := sim.New(physics.NewDeJong(), nil).Run(ctx, &recordingSurface{}, cfg)
			Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(BeTrue())
		})

		It("ignores axes when nothing is drawn", func() {
			cfg := deJongConfig(10)
			cfg.Axes = [2]int{0, 2}
			_, err := sim.New(physics.NewDeJong(), nil).Run(ctx, nil, cfg)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("configuration errors", func() {
		DescribeTable("are reported before any step",
			func(mut func(*sim.Config), stepper dynamo.Stepper) {
				cfg := lorenzConfig(10)
				mut(&cfg)
				surf := &recordingSurface{}
				_, err := sim.New(physics.NewLorenz(), stepper).Run(ctx, surf, cfg)
				Expect(err).To(HaveOccurred())
				Expect(surf.ops).To(BeEmpty())
			},
			Entry("zero iterations", func(c *sim.Config) { c.Iterations = 0 }, integrators.NewRK4(3)),
			Entry("short initial state", func(c *sim.Config) { c.Initial = dynamo.State{1, 2} }, integrators.NewRK4(3)),
			Entry("non-positive step", func(c *sim.Config) { c.StepSize = 0 }, integrators.NewRK4(3)),
			Entry("missing stepper", func(c *sim.Config) {}, nil),
			Entry("degenerate viewport", func(c *sim.Config) { c.Viewport.XRight = c.Viewport.XLeft }, integrators.NewRK4(3)),
			Entry("empty canvas", func(c *sim.Config) { c.Width = 0 }, integrators.NewRK4(3)),
		)
	})

	Describe("invalid states", func() {
		It("stops with a simulation error", func() {
			m := &nanAfter{n: 5}
			res, err := sim.New(m, nil).Run(ctx, nil, deJongConfig(100))
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())

			var serr *dynamo.SimulationError
			Expect(errors.As(err, &serr)).To(BeTrue())
			Expect(serr.Step).To(Equal(4))
			Expect(res.Steps).To(Equal(4))
			Expect(res.Bounds.Max[0]).To(Equal(4.5))
		})

		It("passes them through when validation is off", func() {
			cfg := deJongConfig(10)
			cfg.ValidateState = false
			res, err := sim.New(&nanAfter{n: 5}, nil).Run(ctx, nil, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(10))
		})
	})

	Describe("cancellation", func() {
		It("returns the partial result", func() {
			cctx, cancel := context.WithCancel(ctx)
			tr := sim.New(physics.NewLorenz(), integrators.NewRK4(3))
			tr.AddObserver(sim.ObserverFunc(func(i int, _ float64, _ dynamo.State) {
				if i == 99 {
					cancel()
				}
			}))

			res, err := tr.Run(cctx, nil, lorenzConfig(10000))
			Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(res.Steps).To(Equal(100))
		})
	})

	Describe("session", func() {
		It("walks the lifecycle phases", func() {
			s, err := sim.New(physics.NewRossler(), integrators.NewRK4(3)).Start(nil, lorenzConfig(10))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Phase()).To(Equal(sim.Stepping))

			n, err := s.Advance(4)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(4))
			Expect(s.Time()).To(BeNumerically("~", 0.08, 1e-12))

			n, _ = s.Advance(100)
			Expect(n).To(Equal(6))
			Expect(s.Done()).To(BeTrue())

			s.Finish()
			Expect(s.Phase()).To(Equal(sim.Done))
			Expect(sim.Done.String()).To(Equal("done"))
		})
	})

	Describe("color policies", func() {
		It("pulses between red and blue", func() {
			p := sim.SinePulse(0.4)
			Expect(p(0, 0)).To(Equal(viz.Color{R: 1, G: 0, B: 0, A: 0.4}))
			c := p(0, 0.25)
			Expect(c.R).To(BeNumerically("~", 0, 1e-12))
			Expect(c.B).To(BeNumerically("~", 1, 1e-12))
		})
	})
})

var _ = Describe("Recorder", func() {
	It("keeps every k-th state", func() {
		tr := sim.New(physics.NewDeJong(), nil)
		rec := sim.NewRecorder(10)
		tr.AddObserver(rec)

		_, err := tr.Run(context.Background(), nil, deJongConfig(100))
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Len()).To(Equal(10))
		Expect(rec.Component(0)).To(HaveLen(10))
		Expect(rec.States[0][0]).To(BeNumerically("~", -1.3817732906760363, 1e-15))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs jobs concurrently and keeps their order", func() {
		e := sim.NewEnsemble(2)
		var saved []string
		for _, name := range []string{"a", "b", "c"} {
			e.Add(sim.Job{
				Name:   name,
				Tracer: sim.New(physics.NewDeJong(), nil),
				Config: deJongConfig(1000),
			})
		}
		e.Add(sim.Job{
			Name:   "lorenz",
			Tracer: sim.New(physics.NewLorenz(), integrators.NewRK4(3)),
			Config: lorenzConfig(100),
			Finish: func(r *sim.Result) error {
				saved = append(saved, r.System)
				return nil
			},
		})

		res, err := e.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(HaveLen(4))
		Expect(res[0].Final).To(Equal(res[1].Final))
		Expect(res[3].System).To(Equal("lorenz"))
		Expect(saved).To(Equal([]string{"lorenz"}))
	})

	It("reports the first failure", func() {
		e := sim.NewEnsemble(0)
		e.Add(sim.Job{Tracer: sim.New(&nanAfter{n: 3}, nil), Config: deJongConfig(10)})
		_, err := e.Run(context.Background())
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
	})
})
