package physics

import (
	"context"
)

// Relax steps with a fixed dt until the network settles, maxSteps is reached
// or ctx is cancelled. It returns the number of steps taken.
func Relax(ctx context.Context, s *Stepper, maxSteps int, dt float64) (int, error) {
	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		default:
		}
		s.Step(dt)
		if s.Settled() {
			return i + 1, nil
		}
	}
	return maxSteps, nil
}
