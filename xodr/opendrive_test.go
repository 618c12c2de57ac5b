package xodr_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xodr"
)

// chainedRoads builds three straight roads linked head to tail:
// 1 -> 2 -> 3, each 10m long, no start point on any of them.
func chainedRoads(t *testing.T) (*xodr.Road, *xodr.Road, *xodr.Road) {
	t.Helper()
	road1, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 1)
	assert.NoError(t, err)
	road2, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 2)
	assert.NoError(t, err)
	road3, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 3)
	assert.NoError(t, err)

	assert.NoError(t, road1.AddSuccessor(xodr.ElementTypeRoad, 2, xodr.ContactPointStart))
	assert.NoError(t, road2.AddPredecessor(xodr.ElementTypeRoad, 1, xodr.ContactPointEnd))
	assert.NoError(t, road2.AddSuccessor(xodr.ElementTypeRoad, 3, xodr.ContactPointStart))
	assert.NoError(t, road3.AddPredecessor(xodr.ElementTypeRoad, 2, xodr.ContactPointEnd))
	return road1, road2, road3
}

func assertPose(t *testing.T, wantX, wantY, wantH, x, y, h float64) {
	t.Helper()
	assert.InDelta(t, wantX, x, 1e-9)
	assert.InDelta(t, wantY, y, 1e-9)
	assert.InDelta(t, wantH, h, 1e-9)
}

func TestAdjustChain(t *testing.T) {
	road1, road2, road3 := chainedRoads(t)
	odr := xodr.NewOpenDrive("chain")
	assert.NoError(t, odr.AddRoad(road1))
	assert.NoError(t, odr.AddRoad(road2))
	assert.NoError(t, odr.AddRoad(road3))

	assert.NoError(t, odr.AdjustRoadsAndLanes())

	// the first road anchors the network at the origin
	x, y, h := road1.PlanView().StartPoint()
	assertPose(t, 0, 0, 0, x, y, h)
	x, y, h = road2.PlanView().StartPoint()
	assertPose(t, 10, 0, 0, x, y, h)
	x, y, h = road3.PlanView().EndPoint()
	assertPose(t, 30, 0, 0, x, y, h)

	// test: lane links fall out of the adjustment

	sec1 := road1.Lanes().LaneSections()[0]
	id, ok := sec1.RightLanes()[0].LinkedLaneID(xodr.LinkTypeSuccessor)
	assert.True(t, ok)
	assert.Equal(t, -1, id)
	sec2 := road2.Lanes().LaneSections()[0]
	id, ok = sec2.LeftLanes()[0].LinkedLaneID(xodr.LinkTypePredecessor)
	assert.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestAdjustAnchoredInTheMiddle(t *testing.T) {
	// pinning the middle road pulls the first one in backwards
	road1, road2, road3 := chainedRoads(t)
	road2.PlanView().SetStartPoint(100, 50, math.Pi/2)

	odr := xodr.NewOpenDrive("anchored")
	assert.NoError(t, odr.AddRoad(road1))
	assert.NoError(t, odr.AddRoad(road2))
	assert.NoError(t, odr.AddRoad(road3))
	assert.NoError(t, odr.AdjustStartpoints())

	x, y, h := road1.PlanView().StartPoint()
	assertPose(t, 100, 40, math.Pi/2, x, y, h)
	x, y, h = road2.PlanView().EndPoint()
	assertPose(t, 100, 60, math.Pi/2, x, y, h)
	x, y, h = road3.PlanView().EndPoint()
	assertPose(t, 100, 70, math.Pi/2, x, y, h)
}

func TestAdjustDisconnected(t *testing.T) {
	road1, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 1)
	assert.NoError(t, err)
	road2, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 2)
	assert.NoError(t, err)

	odr := xodr.NewOpenDrive("disconnected")
	assert.NoError(t, odr.AddRoad(road1))
	assert.NoError(t, odr.AddRoad(road2))
	err = odr.AdjustStartpoints()
	assert.ErrorIs(t, err, xodr.ErrUndefinedRoadNetwork)
}

func TestAdjustEstimatedRoad(t *testing.T) {
	// road 2 has no geometry of its own, the solver fills the gap
	// between (10, 0) and (30, 10) with an s-shaped spiral chain
	road1, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 1)
	assert.NoError(t, err)
	road1.PlanView().SetStartPoint(0, 0, 0)
	road2, err := xodr.CreateAdjustableRoad(2)
	assert.NoError(t, err)
	road3, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 3)
	assert.NoError(t, err)
	road3.PlanView().SetStartPoint(30, 10, 0)

	assert.NoError(t, road1.AddSuccessor(xodr.ElementTypeRoad, 2, xodr.ContactPointStart))
	assert.NoError(t, road2.AddPredecessor(xodr.ElementTypeRoad, 1, xodr.ContactPointEnd))
	assert.NoError(t, road2.AddSuccessor(xodr.ElementTypeRoad, 3, xodr.ContactPointStart))
	assert.NoError(t, road3.AddPredecessor(xodr.ElementTypeRoad, 2, xodr.ContactPointEnd))

	odr := xodr.NewOpenDrive("estimated")
	assert.NoError(t, odr.AddRoad(road1))
	assert.NoError(t, odr.AddRoad(road2))
	assert.NoError(t, odr.AddRoad(road3))
	assert.NoError(t, odr.AdjustRoadsAndLanes())

	assert.True(t, road2.PlanView().Adjusted())
	x, y, h := road2.PlanView().StartPoint()
	assertPose(t, 10, 0, 0, x, y, h)
	x, y, h = road2.PlanView().EndPoint()
	assert.InDelta(t, 30, x, 1e-4)
	assert.InDelta(t, 10, y, 1e-4)
	assert.InDelta(t, 0, h, 1e-4)

	// the spiral chain is longer than the straight gap
	gap := math.Hypot(20, 10)
	assert.Greater(t, road2.PlanView().TotalLength(), gap)

	// the rebuilt lanes cover the solved length
	assert.Len(t, road2.Lanes().LaneSections(), 1)
	lane := road2.Lanes().LaneSections()[0].RightLanes()[0]
	assert.InDelta(t, 3, lane.WidthAt(0), 1e-9)
}

func TestAdjustEstimatedRoadMissingLink(t *testing.T) {
	road1, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 1)
	assert.NoError(t, err)
	road1.PlanView().SetStartPoint(0, 0, 0)
	road2, err := xodr.CreateAdjustableRoad(2)
	assert.NoError(t, err)
	assert.NoError(t, road1.AddSuccessor(xodr.ElementTypeRoad, 2, xodr.ContactPointStart))
	assert.NoError(t, road2.AddPredecessor(xodr.ElementTypeRoad, 1, xodr.ContactPointEnd))

	odr := xodr.NewOpenDrive("estimated")
	assert.NoError(t, odr.AddRoad(road1))
	assert.NoError(t, odr.AddRoad(road2))
	err = odr.AdjustStartpoints()
	assert.ErrorIs(t, err, xodr.ErrUndefinedRoadNetwork)
}

func TestAdjustElevations(t *testing.T) {
	road1, road2, road3 := chainedRoads(t)
	road1.AddElevation(0, 5, 0.1, 0, 0)

	odr := xodr.NewOpenDrive("elevations")
	assert.NoError(t, odr.AddRoad(road1))
	assert.NoError(t, odr.AddRoad(road2))
	assert.NoError(t, odr.AddRoad(road3))
	assert.NoError(t, odr.AdjustRoadsAndLanes())

	assert.True(t, road2.IsAdjusted(xodr.DomainElevation))
	assert.True(t, road3.IsAdjusted(xodr.DomainElevation))
}

func TestAddRoadDuplicate(t *testing.T) {
	odr := xodr.NewOpenDrive("dup")
	road1, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 1)
	assert.NoError(t, err)
	assert.NoError(t, odr.AddRoad(road1))
	again, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 1)
	assert.NoError(t, err)
	assert.ErrorIs(t, odr.AddRoad(again), xodr.ErrIDAlreadyExists)

	assert.NoError(t, odr.AddJunction(xodr.NewJunction("j", 100)))
	assert.ErrorIs(t, odr.AddJunction(xodr.NewJunction("j", 100)), xodr.ErrIDAlreadyExists)
}

func TestOpenDriveElement(t *testing.T) {
	road1, road2, road3 := chainedRoads(t)
	odr := xodr.NewOpenDrive("mynetwork")
	assert.NoError(t, odr.AddRoad(road1))
	assert.NoError(t, odr.AddRoad(road2))
	assert.NoError(t, odr.AddRoad(road3))
	assert.NoError(t, odr.AdjustRoadsAndLanes())

	root := odr.Element()
	assert.Equal(t, "OpenDRIVE", root.Tag)

	header := root.SelectElement("header")
	assert.NotNil(t, header)
	assert.Equal(t, "mynetwork", header.SelectAttrValue("name", ""))
	assert.Equal(t, "1", header.SelectAttrValue("revMajor", ""))
	assert.Equal(t, "5", header.SelectAttrValue("revMinor", ""))
	assert.NotEmpty(t, header.SelectAttrValue("date", ""))

	roads := root.SelectElements("road")
	assert.Len(t, roads, 3)
	first := roads[0]
	assert.Equal(t, "1", first.SelectAttrValue("id", ""))
	assert.Equal(t, "-1", first.SelectAttrValue("junction", ""))
	assert.Equal(t, "10", first.SelectAttrValue("length", ""))

	// test: the reference line carries the adjusted pose

	geom := first.FindElement("planView/geometry")
	assert.NotNil(t, geom)
	assert.Equal(t, "0", geom.SelectAttrValue("s", ""))
	assert.Equal(t, "0", geom.SelectAttrValue("x", ""))
	assert.Equal(t, "0", geom.SelectAttrValue("y", ""))
	assert.Equal(t, "10", geom.SelectAttrValue("length", ""))
	assert.NotNil(t, geom.SelectElement("line"))

	second := roads[1]
	geom = second.FindElement("planView/geometry")
	assert.NotNil(t, geom)
	assert.Equal(t, "10", geom.SelectAttrValue("x", ""))

	// test: road links and lanes are serialized

	link := first.SelectElement("link")
	assert.NotNil(t, link)
	suc := link.SelectElement("successor")
	assert.NotNil(t, suc)
	assert.Equal(t, "road", suc.SelectAttrValue("elementType", ""))
	assert.Equal(t, "2", suc.SelectAttrValue("elementId", ""))
	assert.Equal(t, "start", suc.SelectAttrValue("contactPoint", ""))

	section := first.FindElement("lanes/laneSection")
	assert.NotNil(t, section)
	assert.NotNil(t, section.SelectElement("center"))
	right := section.FindElement("right/lane")
	assert.NotNil(t, right)
	assert.Equal(t, "-1", right.SelectAttrValue("id", ""))
	assert.NotNil(t, right.SelectElement("width"))
}

func TestWriteXML(t *testing.T) {
	road1, err := xodr.CreateRoad([]xodr.Geometry{xodr.NewLine(10)}, 1)
	assert.NoError(t, err)
	odr := xodr.NewOpenDrive("written")
	assert.NoError(t, odr.AddRoad(road1))
	assert.NoError(t, odr.AdjustRoadsAndLanes())

	assert.ErrorIs(t, odr.WriteXML("a", "b"), xodr.ErrTooManyOptionalArguments)

	path := filepath.Join(t.TempDir(), "net.xodr")
	assert.NoError(t, odr.WriteXML(path))
	_, err = os.Stat(path)
	assert.NoError(t, err)

	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromFile(path))
	assert.Equal(t, "OpenDRIVE", doc.Root().Tag)
	assert.Len(t, doc.Root().SelectElements("road"), 1)
}
