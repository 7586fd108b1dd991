package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

func checkParam(model, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s %s=%v", dynamo.ErrParameterBounds, model, name, v)
	}
	return nil
}
