package xodr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xodr"
)

func TestCoeffsForPoly3(t *testing.T) {
	// test: split, width grows 0 -> 3 with flat ends

	coeffs, err := xodr.CoeffsForPoly3(100, 3, true)
	assert.NoError(t, err)
	assert.InDelta(t, 0, coeffs[0], 1e-9)
	assert.InDelta(t, 0, coeffs[1], 1e-9)
	assert.InDelta(t, 9e-4, coeffs[2], 1e-9)
	assert.InDelta(t, -6e-6, coeffs[3], 1e-9)

	// test: merge, width shrinks 3 -> 0

	coeffs, err = xodr.CoeffsForPoly3(100, 3, false)
	assert.NoError(t, err)
	assert.InDelta(t, 3, coeffs[0], 1e-9)
	assert.InDelta(t, 0, coeffs[1], 1e-9)
	assert.InDelta(t, -9e-4, coeffs[2], 1e-9)
	assert.InDelta(t, 6e-6, coeffs[3], 1e-9)

	// test: explicit end width 3 -> 5

	coeffs, err = xodr.CoeffsForPoly3(100, 3, false, 5)
	assert.NoError(t, err)
	assert.InDelta(t, 3, coeffs[0], 1e-9)
	assert.InDelta(t, 0, coeffs[1], 1e-9)
	assert.InDelta(t, 6e-4, coeffs[2], 1e-9)
	assert.InDelta(t, -4e-6, coeffs[3], 1e-9)

	_, err = xodr.CoeffsForPoly3(0, 3, true)
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)
}

func TestNewLaneDef(t *testing.T) {
	// empty end widths fall back to the start widths
	def := xodr.NewLaneDef(0, 50, 2, 2, 0, []float64{3, 4}, nil)
	assert.Equal(t, []float64{3, 4}, def.LaneEndWidths)

	def = xodr.NewLaneDef(0, 50, 2, 2, 0, []float64{3, 4}, []float64{5, 6})
	assert.Equal(t, []float64{5, 6}, def.LaneEndWidths)
}

func TestCreateLanesConstant(t *testing.T) {
	lanes, err := xodr.CreateLanesMergeSplit(
		xodr.ConstantLanes(2), xodr.ConstantLanes(1), 100, xodr.StdRoadMarkSolid(), 3)
	assert.NoError(t, err)

	sections := lanes.LaneSections()
	assert.Len(t, sections, 1)
	assert.Zero(t, sections[0].S())
	assert.Len(t, sections[0].RightLanes(), 2)
	assert.Len(t, sections[0].LeftLanes(), 1)

	assert.Equal(t, -1, sections[0].RightLanes()[0].ID())
	assert.Equal(t, -2, sections[0].RightLanes()[1].ID())
	assert.Equal(t, 1, sections[0].LeftLanes()[0].ID())

	for _, lane := range sections[0].RightLanes() {
		assert.InDelta(t, 3, lane.WidthAt(0), 1e-9)
		assert.InDelta(t, 3, lane.WidthAt(50), 1e-9)
	}
}

func TestCreateLanesWidthTransition(t *testing.T) {
	lanes, err := xodr.CreateLanesMergeSplit(
		xodr.ConstantLanes(1), xodr.ConstantLanes(1), 100, nil, 3, 5)
	assert.NoError(t, err)

	sections := lanes.LaneSections()
	assert.Len(t, sections, 1)
	lane := sections[0].RightLanes()[0]
	assert.InDelta(t, 3, lane.WidthAt(0), 1e-9)
	assert.InDelta(t, 4, lane.WidthAt(50), 1e-9)
	assert.InDelta(t, 5, lane.WidthAt(100), 1e-9)
}

func TestCreateLanesSplit(t *testing.T) {
	// the second right lane grows from zero width over the first half
	lanes, err := xodr.CreateLanesMergeSplit(
		xodr.ChangingLanes(xodr.NewLaneDef(0, 50, 1, 2, -2, nil, nil)),
		xodr.ConstantLanes(1), 100, xodr.StdRoadMarkSolid(), 3)
	assert.NoError(t, err)

	sections := lanes.LaneSections()
	assert.Len(t, sections, 2)
	assert.Zero(t, sections[0].S())
	assert.InDelta(t, 50, sections[1].S(), 1e-12)

	assert.Len(t, sections[0].RightLanes(), 2)
	assert.Len(t, sections[1].RightLanes(), 2)

	grown := sections[0].RightLanes()[1]
	assert.InDelta(t, 0, grown.WidthAt(0), 1e-9)
	assert.InDelta(t, 3, grown.WidthAt(50), 1e-9)
	kept := sections[0].RightLanes()[0]
	assert.InDelta(t, 3, kept.WidthAt(0), 1e-9)
	assert.InDelta(t, 3, kept.WidthAt(50), 1e-9)

	// test: both lanes continue straight into the second section

	next, ok := sections[0].RightLanes()[0].LinkedLaneID(xodr.LinkTypeSuccessor)
	assert.True(t, ok)
	assert.Equal(t, -1, next)
	prev, ok := sections[1].RightLanes()[1].LinkedLaneID(xodr.LinkTypePredecessor)
	assert.True(t, ok)
	assert.Equal(t, -2, prev)
}

func TestCreateLanesMerge(t *testing.T) {
	// the innermost right lane shrinks away over the first half
	lanes, err := xodr.CreateLanesMergeSplit(
		xodr.ChangingLanes(xodr.NewLaneDef(0, 50, 2, 1, -1, nil, nil)),
		xodr.ConstantLanes(0), 100, xodr.StdRoadMarkSolid(), 3)
	assert.NoError(t, err)

	sections := lanes.LaneSections()
	assert.Len(t, sections, 2)
	assert.Len(t, sections[0].RightLanes(), 2)
	assert.Len(t, sections[1].RightLanes(), 1)
	assert.Empty(t, sections[0].LeftLanes())

	gone := sections[0].RightLanes()[0]
	assert.InDelta(t, 3, gone.WidthAt(0), 1e-9)
	assert.InDelta(t, 0, gone.WidthAt(50), 1e-9)

	// the disappearing lane has no successor, its neighbor shifts inwards
	_, ok := gone.LinkedLaneID(xodr.LinkTypeSuccessor)
	assert.False(t, ok)
	next, ok := sections[0].RightLanes()[1].LinkedLaneID(xodr.LinkTypeSuccessor)
	assert.True(t, ok)
	assert.Equal(t, -1, next)
}

func TestCreateLanesErrors(t *testing.T) {
	_, err := xodr.CreateLanesMergeSplit(
		xodr.ChangingLanes(), xodr.ConstantLanes(1), 100, nil, 3)
	assert.ErrorIs(t, err, xodr.ErrNotEnoughInputArguments)

	// a lane count change needs a sub lane
	_, err = xodr.CreateLanesMergeSplit(
		xodr.ChangingLanes(xodr.NewLaneDef(0, 50, 1, 2, 0, nil, nil)),
		xodr.ConstantLanes(1), 100, nil, 3)
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	// definitions must advance along the road
	_, err = xodr.CreateLanesMergeSplit(
		xodr.ChangingLanes(xodr.NewLaneDef(0, 0, 1, 1, 0, nil, nil)),
		xodr.ConstantLanes(1), 100, nil, 3)
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	_, err = xodr.CreateLanesMergeSplit(
		xodr.ConstantLanes(1), xodr.ConstantLanes(1), 100, nil, 3, 4, 5)
	assert.ErrorIs(t, err, xodr.ErrTooManyOptionalArguments)
}
