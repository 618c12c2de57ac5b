package xodr_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xodr"
)

// fourWayCreator builds a crossing with four single lane roads on a
// circle of radius 15, the first one entering with its end
func fourWayCreator(t *testing.T) (*xodr.CommonJunctionCreator, []*xodr.Road) {
	jc := xodr.NewCommonJunctionCreator(10, "crossing")
	var roads []*xodr.Road
	for i := 1; i <= 4; i++ {
		road, err := xodr.CreateStraightRoad(i, 100, -1, 1, 3)
		assert.NoError(t, err)
		roads = append(roads, road)
	}
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(roads[0], 15, 0, xodr.LinkTypeSuccessor))
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(roads[1], 15, math.Pi/2, xodr.LinkTypePredecessor))
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(roads[2], 15, math.Pi, xodr.LinkTypePredecessor))
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(roads[3], 15, 3*math.Pi/2, xodr.LinkTypePredecessor))
	return jc, roads
}

func TestCommonJunctionCircular(t *testing.T) {
	jc, _ := fourWayCreator(t)
	assert.NoError(t, jc.AddConnection(1, 3))
	assert.NoError(t, jc.AddConnection(1, 2))
	assert.NoError(t, jc.AddConnection(2, 3))

	connecting := jc.ConnectingRoads()
	assert.Len(t, connecting, 3)
	assert.Equal(t, 100, connecting[0].ID())
	assert.Equal(t, 101, connecting[1].ID())
	assert.Equal(t, 102, connecting[2].ID())
	for _, road := range connecting {
		assert.Equal(t, 10, road.RoadType())
	}

	// test: opposite roads get a straight connector, perpendicular
	// ones a quarter circle spiral chain

	assert.InDelta(t, 30, connecting[0].PlanView().TotalLength(), 1e-12)
	assert.InDelta(t, 7.5*math.Pi, connecting[1].PlanView().TotalLength(), 1e-6)
	assert.InDelta(t, 7.5*math.Pi, connecting[2].PlanView().TotalLength(), 1e-6)

	// the lane widths come from the incoming roads, not the default
	section := connecting[0].Lanes().LaneSections()[0]
	assert.Len(t, section.LeftLanes(), 1)
	assert.Len(t, section.RightLanes(), 1)
	assert.InDelta(t, 3, section.RightLanes()[0].WidthAt(0), 1e-9)

	// test: road links and connection records

	elem := connecting[0].Element()
	pred := elem.FindElement("link/predecessor")
	assert.Equal(t, "1", pred.SelectAttrValue("elementId", ""))
	assert.Equal(t, "end", pred.SelectAttrValue("contactPoint", ""))
	suc := elem.FindElement("link/successor")
	assert.Equal(t, "3", suc.SelectAttrValue("elementId", ""))
	assert.Equal(t, "start", suc.SelectAttrValue("contactPoint", ""))

	junction := jc.Junction().Element()
	assert.Equal(t, "crossing", junction.SelectAttrValue("name", ""))
	assert.Equal(t, "default", junction.SelectAttrValue("type", ""))
	conns := junction.SelectElements("connection")
	assert.Len(t, conns, 6)
	first := conns[0]
	assert.Equal(t, "3", first.SelectAttrValue("incomingRoad", ""))
	assert.Equal(t, "100", first.SelectAttrValue("connectingRoad", ""))
	assert.Equal(t, "end", first.SelectAttrValue("contactPoint", ""))
	links := first.SelectElements("laneLink")
	assert.Len(t, links, 2)
	assert.Equal(t, "1", links[0].SelectAttrValue("from", ""))
	assert.Equal(t, "1", links[0].SelectAttrValue("to", ""))
	assert.Equal(t, "-1", links[1].SelectAttrValue("from", ""))
	assert.Equal(t, "-1", links[1].SelectAttrValue("to", ""))
}

func TestCommonJunctionPlacementErrors(t *testing.T) {
	jc, _ := fourWayCreator(t)

	stray, err := xodr.CreateStraightRoad(9, 100, -1, 1, 3)
	assert.NoError(t, err)
	err = jc.AddIncomingRoadCartesianGeometry(stray, 20, 0, math.Pi)
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	// a road without any link to the junction cannot be placed
	err = jc.AddIncomingRoadCircularGeometry(stray, 15, math.Pi/4)
	assert.ErrorIs(t, err, xodr.ErrUndefinedRoadNetwork)

	err = jc.AddIncomingRoadCircularGeometry(stray, 15, math.Pi/4,
		xodr.LinkTypeSuccessor, xodr.LinkTypePredecessor)
	assert.ErrorIs(t, err, xodr.ErrTooManyOptionalArguments)

	err = jc.AddIncomingRoadCircularGeometry(stray, 15, math.Pi/4, xodr.LinkTypeNeighbor)
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	err = jc.AddConnection(1, 9)
	assert.ErrorIs(t, err, xodr.ErrUndefinedRoadNetwork)

	err = jc.AddConnection(1, 2, []int{-1})
	assert.ErrorIs(t, err, xodr.ErrNotEnoughInputArguments)
	err = jc.AddConnection(1, 2, []int{-1}, []int{-1}, []int{-1})
	assert.ErrorIs(t, err, xodr.ErrTooManyOptionalArguments)
	err = jc.AddConnection(1, 2, []int{-1, 1}, []int{-1})
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)
}

func TestCommonJunctionCartesian(t *testing.T) {
	jc := xodr.NewCommonJunctionCreator(2, "cartesian crossing", 200)
	road1, err := xodr.CreateStraightRoad(1, 100, -1, 1, 3)
	assert.NoError(t, err)
	road2, err := xodr.CreateStraightRoad(2, 100, -1, 1, 3)
	assert.NoError(t, err)
	assert.NoError(t, jc.AddIncomingRoadCartesianGeometry(road1, -20, 0, 0, xodr.LinkTypeSuccessor))
	assert.NoError(t, jc.AddIncomingRoadCartesianGeometry(road2, 20, 0, math.Pi, xodr.LinkTypePredecessor))

	circular, err := xodr.CreateStraightRoad(3, 100, -1, 1, 3)
	assert.NoError(t, err)
	err = jc.AddIncomingRoadCircularGeometry(circular, 20, math.Pi/2, xodr.LinkTypePredecessor)
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	assert.NoError(t, jc.AddConnection(1, 2))
	connecting := jc.ConnectingRoads()
	assert.Len(t, connecting, 1)
	assert.Equal(t, 200, connecting[0].ID())
	assert.InDelta(t, 40, connecting[0].PlanView().TotalLength(), 1e-6)
}

func TestCommonJunctionUnequalLanes(t *testing.T) {
	jc := xodr.NewCommonJunctionCreator(3, "asymmetric crossing")
	road1, err := xodr.CreateStraightRoad(1, 100, -1, 1, 3)
	assert.NoError(t, err)
	road2, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(100)}, 2,
		xodr.WithRightLanes(xodr.ConstantLanes(2)))
	assert.NoError(t, err)
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(road1, 15, 0, xodr.LinkTypeSuccessor))
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(road2, 15, math.Pi, xodr.LinkTypePredecessor))

	assert.NoError(t, jc.AddConnection(1, 2))
	connecting := jc.ConnectingRoads()
	assert.Len(t, connecting, 1)

	// only the common lanes are carried by the connecting road
	section := connecting[0].Lanes().LaneSections()[0]
	assert.Len(t, section.LeftLanes(), 1)
	assert.Len(t, section.RightLanes(), 1)

	conns := jc.Junction().Element().SelectElements("connection")
	assert.Len(t, conns, 2)
	assert.Equal(t, "1", conns[0].SelectAttrValue("incomingRoad", ""))
	assert.Equal(t, "start", conns[0].SelectAttrValue("contactPoint", ""))
	links := conns[0].SelectElements("laneLink")
	assert.Len(t, links, 2)
	assert.Equal(t, "1", links[0].SelectAttrValue("from", ""))
	assert.Equal(t, "-1", links[1].SelectAttrValue("from", ""))
	assert.Equal(t, "2", conns[1].SelectAttrValue("incomingRoad", ""))
	assert.Equal(t, "end", conns[1].SelectAttrValue("contactPoint", ""))
}

func TestCommonJunctionLaneInput(t *testing.T) {
	jc := xodr.NewCommonJunctionCreator(4, "lane pairs")
	road1, err := xodr.CreateStraightRoad(1, 100, -1, 1, 3)
	assert.NoError(t, err)
	road2, err := xodr.CreateStraightRoad(2, 100, -1, 1, 3)
	assert.NoError(t, err)
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(road1, 15, 0, xodr.LinkTypeSuccessor))
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(road2, 15, math.Pi, xodr.LinkTypePredecessor))

	err = jc.AddConnection(1, 2, []int{-1}, []int{1})
	assert.ErrorIs(t, err, xodr.ErrMixingDrivingDirection)

	assert.NoError(t, jc.AddConnection(1, 2, []int{-1}, []int{-1}))
	connecting := jc.ConnectingRoads()
	assert.Len(t, connecting, 1)

	// a single lane connector only carries the right lane
	section := connecting[0].Lanes().LaneSections()[0]
	assert.Len(t, section.LeftLanes(), 0)
	assert.Len(t, section.RightLanes(), 1)
	assert.InDelta(t, 3, section.RightLanes()[0].WidthAt(0), 1e-9)

	conns := jc.Junction().Element().SelectElements("connection")
	assert.Len(t, conns, 1)
	links := conns[0].SelectElements("laneLink")
	assert.Len(t, links, 1)
	assert.Equal(t, "-1", links[0].SelectAttrValue("from", ""))
	assert.Equal(t, "-1", links[0].SelectAttrValue("to", ""))
}

func TestCommonJunctionElevation(t *testing.T) {
	jc := xodr.NewCommonJunctionCreator(5, "elevated crossing")
	road1, err := xodr.CreateStraightRoad(1, 100, -1, 1, 3)
	assert.NoError(t, err)
	road2, err := xodr.CreateStraightRoad(2, 100, -1, 1, 3)
	assert.NoError(t, err)
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(road1, 15, 0, xodr.LinkTypeSuccessor))
	assert.NoError(t, jc.AddIncomingRoadCircularGeometry(road2, 15, math.Pi, xodr.LinkTypePredecessor))
	assert.NoError(t, jc.AddConnection(1, 2))

	// already created connecting roads pick up the elevation as well
	jc.AddConstantElevation(0.5)
	elem := jc.ConnectingRoads()[0].Element()
	elevation := elem.FindElement("elevationProfile/elevation")
	assert.NotNil(t, elevation)
	assert.Equal(t, "0.5", elevation.SelectAttrValue("a", ""))
}

func TestDirectJunction(t *testing.T) {
	road1, err := xodr.CreateStraightRoad(1, 100, -1, 2, 3)
	assert.NoError(t, err)
	road2, err := xodr.CreateStraightRoad(2, 100, -1, 2, 3)
	assert.NoError(t, err)
	assert.NoError(t, road1.AddSuccessor(xodr.ElementTypeJunction, 5, xodr.ContactPointNone))
	assert.NoError(t, road2.AddPredecessor(xodr.ElementTypeJunction, 5, xodr.ContactPointNone))

	dc := xodr.NewDirectJunctionCreator(5, "highway exit")
	assert.Nil(t, dc.ConnectingRoads())
	assert.NoError(t, dc.AddConnection(road1, road2))

	elem := dc.Junction().Element()
	assert.Equal(t, "direct", elem.SelectAttrValue("type", ""))
	conns := elem.SelectElements("connection")
	assert.Len(t, conns, 1)
	first := conns[0]
	assert.Equal(t, "1", first.SelectAttrValue("incomingRoad", ""))
	assert.Equal(t, "2", first.SelectAttrValue("linkedRoad", ""))
	assert.Equal(t, "", first.SelectAttrValue("connectingRoad", ""))
	assert.Equal(t, "start", first.SelectAttrValue("contactPoint", ""))

	// all common lanes are paired, listed from left to right
	links := first.SelectElements("laneLink")
	assert.Len(t, links, 4)
	assert.Equal(t, "2", links[0].SelectAttrValue("from", ""))
	assert.Equal(t, "2", links[0].SelectAttrValue("to", ""))
	assert.Equal(t, "-2", links[3].SelectAttrValue("from", ""))
	assert.Equal(t, "-2", links[3].SelectAttrValue("to", ""))
}

func TestDirectJunctionLaneInput(t *testing.T) {
	road1, err := xodr.CreateStraightRoad(1, 100, -1, 2, 3)
	assert.NoError(t, err)
	road2, err := xodr.CreateStraightRoad(2, 100, -1, 1, 3)
	assert.NoError(t, err)
	assert.NoError(t, road1.AddSuccessor(xodr.ElementTypeJunction, 6, xodr.ContactPointNone))
	assert.NoError(t, road2.AddPredecessor(xodr.ElementTypeJunction, 6, xodr.ContactPointNone))

	dc := xodr.NewDirectJunctionCreator(6, "ramp")
	err = dc.AddConnection(road1, road2, []int{-1}, []int{1})
	assert.ErrorIs(t, err, xodr.ErrMixingDrivingDirection)
	err = dc.AddConnection(road1, road2, []int{-1})
	assert.ErrorIs(t, err, xodr.ErrNotEnoughInputArguments)
	err = dc.AddConnection(road1, road2, []int{}, []int{})
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)

	// the outer lane of the wide road continues as the only lane
	assert.NoError(t, dc.AddConnection(road1, road2, []int{-2}, []int{-1}))
	conns := dc.Junction().Element().SelectElements("connection")
	assert.Len(t, conns, 1)
	links := conns[0].SelectElements("laneLink")
	assert.Len(t, links, 1)
	assert.Equal(t, "-2", links[0].SelectAttrValue("from", ""))
	assert.Equal(t, "-1", links[0].SelectAttrValue("to", ""))
}

func TestDirectJunctionNotConnected(t *testing.T) {
	road1, err := xodr.CreateStraightRoad(1, 100, -1, 1, 3)
	assert.NoError(t, err)
	road2, err := xodr.CreateStraightRoad(2, 100, -1, 1, 3)
	assert.NoError(t, err)

	dc := xodr.NewDirectJunctionCreator(7, "unlinked")
	err = dc.AddConnection(road1, road2)
	assert.ErrorIs(t, err, xodr.ErrUndefinedRoadNetwork)
}
