package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/attractor/internal/dynamo"
)

func TestFlowDerivatives(t *testing.T) {
	tests := []struct {
		name string
		sys  dynamo.Flow
		t    float64
		y    dynamo.State
		want dynamo.State
	}{
		{
			name: "duffing at rest is forced",
			sys:  NewDuffing(),
			t:    0,
			y:    dynamo.State{0, 0},
			want: dynamo.State{0, 0.3},
		},
		{
			name: "duffing cubic term",
			sys:  NewDuffing(),
			t:    math.Pi / 2,
			y:    dynamo.State{2, 1},
			want: dynamo.State{1, 2*(1-4) - 0.25},
		},
		{
			name: "lorenz",
			sys:  NewLorenz(),
			t:    0,
			y:    dynamo.State{1, 2, 3},
			want: dynamo.State{10, 1*(28-3) - 2, 2 - 8.0},
		},
		{
			name: "rossler",
			sys:  NewRossler(),
			t:    0,
			y:    dynamo.State{1, 2, 3},
			want: dynamo.State{-5, 1 + 0.4, 0.2 + 3*(1-5.7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dy := make(dynamo.State, tt.sys.Dim())
			tt.sys.Eval(tt.t, tt.y, dy)
			for i := range tt.want {
				if math.Abs(dy[i]-tt.want[i]) > 1e-12 {
					t.Errorf("dy[%d] = %v, want %v", i, dy[i], tt.want[i])
				}
			}
		})
	}
}

func TestComponentsMatchEval(t *testing.T) {
	systems := []dynamo.Flow{NewDuffing(), NewLorenz(), NewRossler()}
	points := []dynamo.State{
		{0.1, 0.1, 0.1},
		{-3.2, 7.5, 21.0},
		{1e-3, -2, 0.5},
	}

	for _, sys := range systems {
		ss, ok := sys.(dynamo.ScalarSystem)
		if !ok {
			t.Fatalf("%s does not expose scalar components", sys.Name())
		}
		fs := ss.Components()
		if len(fs) != sys.Dim() {
			t.Fatalf("%s: %d components for dimension %d", sys.Name(), len(fs), sys.Dim())
		}
		for _, p := range points {
			y := p[:sys.Dim()]
			dy := make(dynamo.State, sys.Dim())
			sys.Eval(0.7, y, dy)
			for i, f := range fs {
				if got := f(0.7, y); got != dy[i] {
					t.Errorf("%s component %d at %v = %v, want %v", sys.Name(), i, y, got, dy[i])
				}
			}
		}
	}
}

func TestLorenzIsAutonomous(t *testing.T) {
	l := NewLorenz()
	y := dynamo.State{1, 2, 3}
	a, b := make(dynamo.State, 3), make(dynamo.State, 3)
	l.Eval(0, y, a)
	l.Eval(1234.5, y, b)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("component %d depends on time: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDeJongNext(t *testing.T) {
	p := NewDeJong()
	next := make(dynamo.State, 2)
	p.Next(dynamo.State{0.5, 0.5}, next)

	wantX := math.Sin(-1) - math.Cos(-1)
	wantY := math.Sin(-0.6) - math.Cos(1)
	if next[0] != wantX || next[1] != wantY {
		t.Errorf("Next = %v, want (%v, %v)", next, wantX, wantY)
	}
	if math.Abs(next[0]-(-1.3818)) > 1e-4 || math.Abs(next[1]-(-1.1050)) > 1e-4 {
		t.Errorf("Next = %v, want about (-1.3818, -1.1050)", next)
	}
}

func TestDeJongStaysBounded(t *testing.T) {
	p := NewDeJong()
	y, next := p.DefaultState(), make(dynamo.State, 2)
	for i := 0; i < 10000; i++ {
		p.Next(y, next)
		y, next = next, y
		if math.Abs(y[0]) > 2 || math.Abs(y[1]) > 2 {
			t.Fatalf("iterate %d left [-2,2]²: %v", i, y)
		}
	}
}

func TestModes(t *testing.T) {
	tests := []struct {
		sys  dynamo.System
		mode dynamo.Mode
		dim  int
	}{
		{NewDuffing(), dynamo.Integrate, 2},
		{NewLorenz(), dynamo.Integrate, 3},
		{NewRossler(), dynamo.Integrate, 3},
		{NewDeJong(), dynamo.Iterate, 2},
	}
	for _, tt := range tests {
		if tt.sys.Mode() != tt.mode {
			t.Errorf("%s: mode %v, want %v", tt.sys.Name(), tt.sys.Mode(), tt.mode)
		}
		if tt.sys.Dim() != tt.dim {
			t.Errorf("%s: dim %d, want %d", tt.sys.Name(), tt.sys.Dim(), tt.dim)
		}
		init, ok := tt.sys.(dynamo.Initializer)
		if !ok {
			t.Fatalf("%s has no default state", tt.sys.Name())
		}
		if len(init.DefaultState()) != tt.dim {
			t.Errorf("%s: default state has %d components", tt.sys.Name(), len(init.DefaultState()))
		}
	}
}

func TestSetParam(t *testing.T) {
	l := NewLorenz()
	if err := l.SetParam("b", 46.92); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if got := l.GetParams()["b"]; got != 46.92 {
		t.Errorf("b = %v, want 46.92", got)
	}
	if err := l.SetParam("rho", 28); err != nil || l.GetParams()["b"] != 28 {
		t.Errorf("rho alias not applied: err=%v params=%v", err, l.GetParams())
	}

	models := []dynamo.Configurable{NewDuffing(), NewLorenz(), NewRossler(), NewDeJong()}
	for _, m := range models {
		if err := m.SetParam("nope", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
			t.Errorf("%T: SetParam(nope) = %v, want ErrUnknownParam", m, err)
		}
		if err := m.SetParam("a", math.NaN()); !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("%T: SetParam(a, NaN) = %v, want ErrParameterBounds", m, err)
		}
	}
}
