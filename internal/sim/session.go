package sim

import (
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/viz"
)

// Session is one trace in progress. Run drives a session to completion;
// interactive views advance it a batch at a time.
type Session struct {
	tr    *Tracer
	cfg   Config
	phase Phase

	flow dynamo.Flow
	iter dynamo.Map

	y, buf dynamo.State
	box    dynamo.Box
	i      int

	surf    viz.Surface
	aff     viz.Affine
	color   ColorPolicy
	stamped int
	ink     viz.Color
}

// Start validates cfg and performs the initializing phase: seed the state
// and bounding box, paint the background and fix the viewport transform.
func (tr *Tracer) Start(surf viz.Surface, cfg Config) (*Session, error) {
	if err := tr.validateConfig(cfg, surf != nil); err != nil {
		return nil, err
	}
	s := &Session{
		tr:    tr,
		cfg:   cfg,
		phase: Initializing,
		y:     cfg.Initial.Clone(),
		buf:   make(dynamo.State, len(cfg.Initial)),
		box:   dynamo.NewBox(cfg.Initial),
		surf:  surf,
		color: cfg.Color,
	}
	if f, ok := tr.sys.(dynamo.Flow); ok && tr.sys.Mode() == dynamo.Integrate {
		s.flow = f
	} else {
		s.iter = tr.sys.(dynamo.Map)
	}
	if s.color == nil {
		s.color = Constant(viz.Black)
	}
	if s.cfg.StampSize <= 0 {
		s.cfg.StampSize = DefaultStampSize
	}

	if surf != nil {
		aff, err := viz.NewAffine(cfg.Viewport, cfg.Width, cfg.Height)
		if err != nil {
			return nil, err
		}
		s.aff = aff
		surf.Paint(cfg.Background)
		surf.SetLineWidth(aff.ScaleLength(cfg.LineWidth))
	}

	s.phase = Stepping
	return s, nil
}

func (s *Session) Phase() Phase          { return s.phase }
func (s *Session) Done() bool            { return s.i >= s.cfg.Iterations }
func (s *Session) Steps() int            { return s.i }
func (s *Session) Total() int            { return s.cfg.Iterations }
func (s *Session) Time() float64         { return float64(s.i) * s.cfg.StepSize }
func (s *Session) State() dynamo.State   { return s.y }
func (s *Session) Bounds() dynamo.Box    { return s.box }
func (s *Session) Transform() viz.Affine { return s.aff }

// Advance performs up to n iterations and returns how many ran.
func (s *Session) Advance(n int) (int, error) {
	done := 0
	for done < n && !s.Done() {
		if err := s.step(); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

func (s *Session) step() error {
	t := s.Time()
	if s.flow != nil {
		s.tr.stepper.Step(s.flow, t, s.cfg.StepSize, s.y, s.buf)
	} else {
		s.iter.Next(s.y, s.buf)
	}

	if s.cfg.ValidateState && !s.buf.IsValid() {
		return &dynamo.SimulationError{Step: s.i, Time: t, State: s.buf.Clone(), Wrapped: dynamo.ErrInvalidState}
	}

	s.box.Extend(s.buf)
	if s.surf != nil {
		s.emit(t)
	}
	for _, o := range s.tr.observers {
		o.OnStep(s.i, t, s.buf)
	}

	s.y, s.buf = s.buf, s.y
	s.i++
	return nil
}

func (s *Session) emit(t float64) {
	ax, ay := s.cfg.Axes[0], s.cfg.Axes[1]
	c := s.color(s.i, t)

	if s.cfg.Emission == Stamps {
		if s.stamped > 0 && c != s.ink {
			s.flushStamps()
		}
		if s.stamped == 0 {
			s.surf.SetColor(c)
			s.ink = c
		}
		x, y := s.buf[ax], s.buf[ay]
		x0, y0 := s.aff.Apply(x, y)
		x1, y1 := s.aff.Apply(x+s.cfg.StampSize, y+s.cfg.StampSize)
		s.surf.MoveTo(x0, y0)
		s.surf.LineTo(x1, y1)
		s.stamped++
		if s.stamped == StampBatch {
			s.flushStamps()
		}
		return
	}

	s.surf.SetColor(c)
	x0, y0 := s.aff.Apply(s.y[ax], s.y[ay])
	x1, y1 := s.aff.Apply(s.buf[ax], s.buf[ay])
	s.surf.MoveTo(x0, y0)
	s.surf.LineTo(x1, y1)
	s.surf.Stroke()
}

func (s *Session) flushStamps() {
	if s.stamped > 0 {
		s.surf.Stroke()
		s.stamped = 0
	}
}

// Finish performs the finalizing phase and reports the result. The session
// may be finished early; Steps reflects the iterations actually taken.
func (s *Session) Finish() *Result {
	s.phase = Finalizing
	if s.surf != nil {
		s.flushStamps()
	}
	res := &Result{
		System: s.tr.sys.Name(),
		Bounds: s.box.Clone(),
		Final:  s.y.Clone(),
		Steps:  s.i,
	}
	s.phase = Done
	return res
}
