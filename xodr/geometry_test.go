package xodr_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xodr"
)

func TestLineEndData(t *testing.T) {
	line := xodr.NewLine(100)
	assert.InDelta(t, 100, line.Length(), 1e-12)

	x, y, h, l := line.EndData(0, 0, 0)
	assert.InDelta(t, 100, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 0, h, 1e-12)
	assert.InDelta(t, 100, l, 1e-12)

	x, y, h, _ = line.EndData(1, 2, math.Pi/2)
	assert.InDelta(t, 1, x, 1e-12)
	assert.InDelta(t, 102, y, 1e-12)
	assert.InDelta(t, math.Pi/2, h, 1e-12)
}

func TestArcByAngle(t *testing.T) {
	// quarter circle of radius 100, turning left
	arc, err := xodr.NewArc(0.01, xodr.WithAngle(math.Pi/2))
	assert.NoError(t, err)
	assert.InDelta(t, math.Pi/2*100, arc.Length(), 1e-9)

	x, y, h, _ := arc.EndData(0, 0, 0)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)
	assert.InDelta(t, math.Pi/2, h, 1e-9)

	// negative curvature turns right
	arc, err = xodr.NewArc(-0.01, xodr.WithAngle(math.Pi/2))
	assert.NoError(t, err)
	x, y, h, _ = arc.EndData(0, 0, 0)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, -100, y, 1e-9)
	assert.InDelta(t, -math.Pi/2, h, 1e-9)
}

func TestArcByLength(t *testing.T) {
	byAngle, err := xodr.NewArc(0.01, xodr.WithAngle(math.Pi/2))
	assert.NoError(t, err)
	byLength, err := xodr.NewArc(0.01, xodr.WithLength(byAngle.Length()))
	assert.NoError(t, err)

	x1, y1, h1, _ := byAngle.EndData(3, -2, 0.3)
	x2, y2, h2, _ := byLength.EndData(3, -2, 0.3)
	assert.InDelta(t, x1, x2, 1e-12)
	assert.InDelta(t, y1, y2, 1e-12)
	assert.InDelta(t, h1, h2, 1e-12)
}

func TestArcStartData(t *testing.T) {
	// walking back from the reversed end pose lands on the reversed start pose
	arc, err := xodr.NewArc(0.01, xodr.WithAngle(math.Pi/2))
	assert.NoError(t, err)
	ex, ey, eh, _ := arc.EndData(0, 0, 0)
	sx, sy, sh, _ := arc.StartData(ex, ey, eh+math.Pi)
	assert.InDelta(t, 0, sx, 1e-9)
	assert.InDelta(t, 0, sy, 1e-9)
	assert.InDelta(t, math.Pi, sh, 1e-9)
}

func TestArcErrors(t *testing.T) {
	_, err := xodr.NewArc(0, xodr.WithLength(10))
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	_, err = xodr.NewArc(0.01)
	assert.ErrorIs(t, err, xodr.ErrNotEnoughInputArguments)

	_, err = xodr.NewArc(0.01, xodr.WithLength(10), xodr.WithAngle(1))
	assert.ErrorIs(t, err, xodr.ErrTooManyOptionalArguments)

	_, err = xodr.NewArc(0.01, xodr.WithAngle(0))
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	_, err = xodr.NewArc(0.01, xodr.WithCDot(0.001))
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)
}

func TestSpiralEndData(t *testing.T) {
	// curvature 0 -> 0.01 over 100m
	spiral, err := xodr.NewSpiral(0, 0.01, xodr.WithLength(100))
	assert.NoError(t, err)
	x, y, h, _ := spiral.EndData(0, 0, 0)
	assert.InDelta(t, 0.5, h, 1e-12)
	assert.InDelta(t, 97.52877, x, 1e-3)
	assert.InDelta(t, 16.37140, y, 1e-3)

	// equal curvatures degenerate to an arc
	length := math.Pi / 2 / 0.01
	spiral, err = xodr.NewSpiral(0.01, 0.01, xodr.WithLength(length))
	assert.NoError(t, err)
	x, y, h, _ = spiral.EndData(0, 0, 0)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)
	assert.InDelta(t, math.Pi/2, h, 1e-9)

	// zero curvatures degenerate to a line
	spiral, err = xodr.NewSpiral(0, 0, xodr.WithLength(50))
	assert.NoError(t, err)
	x, y, h, _ = spiral.EndData(0, 0, 0)
	assert.InDelta(t, 50, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 0, h, 1e-12)
}

func TestSpiralStartData(t *testing.T) {
	spiral, err := xodr.NewSpiral(0.002, 0.01, xodr.WithLength(80))
	assert.NoError(t, err)
	ex, ey, eh, _ := spiral.EndData(0, 0, 0)
	sx, sy, sh, _ := spiral.StartData(ex, ey, eh+math.Pi)
	assert.InDelta(t, 0, sx, 1e-6)
	assert.InDelta(t, 0, sy, 1e-6)
	assert.InDelta(t, math.Pi, sh, 1e-6)
}

func TestSpiralOptions(t *testing.T) {
	// angle and cdot are alternative ways to fix the length
	byLength, err := xodr.NewSpiral(0, 0.01, xodr.WithLength(100))
	assert.NoError(t, err)
	byAngle, err := xodr.NewSpiral(0, 0.01, xodr.WithAngle(0.5))
	assert.NoError(t, err)
	byCDot, err := xodr.NewSpiral(0, 0.01, xodr.WithCDot(0.0001))
	assert.NoError(t, err)
	assert.InDelta(t, byLength.Length(), byAngle.Length(), 1e-12)
	assert.InDelta(t, byLength.Length(), byCDot.Length(), 1e-12)
}

func TestSpiralErrors(t *testing.T) {
	_, err := xodr.NewSpiral(0, 0.01)
	assert.ErrorIs(t, err, xodr.ErrNotEnoughInputArguments)

	_, err = xodr.NewSpiral(0, 0.01, xodr.WithLength(100), xodr.WithAngle(0.5))
	assert.ErrorIs(t, err, xodr.ErrTooManyOptionalArguments)

	_, err = xodr.NewSpiral(0, 0, xodr.WithAngle(0.5))
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	_, err = xodr.NewSpiral(0, 0.01, xodr.WithCDot(0))
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	// cdot with the wrong sign gives a negative length
	_, err = xodr.NewSpiral(0, 0.01, xodr.WithCDot(-0.0001))
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)
}

func TestParamPoly3(t *testing.T) {
	// u = 100p, v = 0, a straight 100m segment
	pp, err := xodr.NewParamPoly3(0, 100, 0, 0, 0, 0, 0, 0, xodr.PRangeNormalized)
	assert.NoError(t, err)
	assert.InDelta(t, 100, pp.Length(), 1e-6)
	x, y, h, _ := pp.EndData(0, 0, 0)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
	assert.InDelta(t, 0, h, 1e-9)

	// u = 100p, v = 50p^2 ends at (100, 50) pointing along atan2(100, 100)
	pp, err = xodr.NewParamPoly3(0, 100, 0, 0, 0, 0, 50, 0, xodr.PRangeNormalized)
	assert.NoError(t, err)
	x, y, h, _ = pp.EndData(0, 0, 0)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	assert.InDelta(t, math.Pi/4, h, 1e-9)
}

func TestParamPoly3Errors(t *testing.T) {
	_, err := xodr.NewParamPoly3(0, 100, 0, 0, 0, 0, 0, 0, xodr.PRangeArcLength)
	assert.ErrorIs(t, err, xodr.ErrNotEnoughInputArguments)

	_, err = xodr.NewParamPoly3(0, 100, 0, 0, 0, 0, 0, 0, xodr.PRange("unknown"))
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	_, err = xodr.NewParamPoly3(0, 100, 0, 0, 0, 0, 0, 0, xodr.PRangeNormalized, xodr.WithAngle(1))
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)
}
