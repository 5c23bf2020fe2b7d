package flappy

import (
	"math"
	"testing"

	"github.com/thxaman/flappy-lidar/internal/core"
)

func TestBodyReset(t *testing.T) {
	b := NewBody(false)
	b.Jump()
	b.Integrate(10)
	b.Reset()

	if c := b.Center(); c != core.V(100, 269) {
		t.Errorf("Center() after Reset = %v, expected (100, 269)", c)
	}
	if b.Velocity() != 0 {
		t.Errorf("Velocity() after Reset = %v, expected 0", b.Velocity())
	}
}

func TestBodyIntegrateOrder(t *testing.T) {
	b := NewBody(false)
	b.Integrate(1)

	// Gravity is applied to velocity before velocity moves the body.
	if math.Abs(b.Velocity()-0.2) > 1e-9 {
		t.Errorf("Velocity() = %v, expected 0.2", b.Velocity())
	}
	if math.Abs(b.Center().Y-269.2) > 1e-9 {
		t.Errorf("Center().Y = %v, expected 269.2", b.Center().Y)
	}
}

func TestBodyFallsWithoutJump(t *testing.T) {
	b := NewBody(false)
	prevY, prevVel := b.Center().Y, b.Velocity()

	for i := 0; i < 200; i++ {
		b.Integrate(1)
		y, vel := b.Center().Y, b.Velocity()
		if vel < prevVel {
			t.Fatalf("tick %d: velocity decreased from %v to %v", i, prevVel, vel)
		}
		if y <= prevY {
			t.Fatalf("tick %d: position did not increase (%v -> %v)", i, prevY, y)
		}
		if b.Center().X != BodyX {
			t.Fatalf("tick %d: x moved to %v", i, b.Center().X)
		}
		prevY, prevVel = y, vel
	}
}

func TestBodyJumpOverwrites(t *testing.T) {
	tests := []struct {
		name  string
		ticks int
		jumps int
	}{
		{"at rest", 0, 1},
		{"falling fast", 60, 1},
		{"already rising", 0, 3},
		{"after a long fall", 500, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBody(false)
			b.Integrate(float64(tc.ticks))
			for i := 0; i < tc.jumps; i++ {
				b.Jump()
			}
			if b.Velocity() != JumpVelocity {
				t.Errorf("Velocity() = %v, expected %v", b.Velocity(), JumpVelocity)
			}
		})
	}
}

func TestBodyAngle(t *testing.T) {
	b := NewBody(false)
	b.Jump()
	if b.Angle() != 16 {
		t.Errorf("Angle() after jump = %v, expected 16", b.Angle())
	}

	b.Reset()
	if b.Angle() != 0 {
		t.Errorf("Angle() at rest = %v, expected 0", b.Angle())
	}
}

func TestBodyShape(t *testing.T) {
	expected := core.NewRect(83, 257, 34, 24)

	for _, rect := range []bool{false, true} {
		b := NewBody(rect)
		if got := b.Shape().Bounds(); got != expected {
			t.Errorf("Shape(rect=%v).Bounds() = %v, expected %v", rect, got, expected)
		}
	}

	if _, ok := NewBody(false).Shape().(*core.Mask); !ok {
		t.Error("Shape() should be a pixel mask by default")
	}
	if _, ok := NewBody(true).Shape().(core.Rect); !ok {
		t.Error("Shape() should be a rectangle in rect mode")
	}
}
