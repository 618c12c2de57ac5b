package xodr_test

import (
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xodr"
)

func TestExportGeoJSON(t *testing.T) {
	road1, err := xodr.CreateStraightRoad(1, 10, -1, 1, 3)
	assert.NoError(t, err)
	road2, err := xodr.CreateStraightRoad(2, 20, -1, 1, 3)
	assert.NoError(t, err)
	road2.SetName("main street")
	assert.NoError(t, road1.AddSuccessor(xodr.ElementTypeRoad, 2, xodr.ContactPointStart))
	assert.NoError(t, road2.AddPredecessor(xodr.ElementTypeRoad, 1, xodr.ContactPointEnd))

	odr := xodr.NewOpenDrive("export")
	assert.NoError(t, odr.AddRoad(road1))
	assert.NoError(t, odr.AddRoad(road2))
	assert.NoError(t, odr.AdjustRoadsAndLanes())

	data, err := xodr.ExportGeoJSON(odr, 1)
	assert.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	assert.NoError(t, err)
	assert.Len(t, fc.Features, 2)

	// test: one line string per road with the sampling step applied

	first := fc.Features[0]
	assert.True(t, first.Geometry.IsLineString())
	assert.Len(t, first.Geometry.LineString, 11)
	assert.InDelta(t, 0, first.Geometry.LineString[0][0], 1e-9)
	assert.InDelta(t, 10, first.Geometry.LineString[10][0], 1e-9)

	second := fc.Features[1]
	assert.Len(t, second.Geometry.LineString, 21)
	assert.InDelta(t, 30, second.Geometry.LineString[20][0], 1e-9)

	// test: road attributes travel along as properties

	id, err := first.PropertyInt("id")
	assert.NoError(t, err)
	assert.Equal(t, 1, id)
	junction, err := first.PropertyInt("junction")
	assert.NoError(t, err)
	assert.Equal(t, -1, junction)
	left, err := first.PropertyInt("leftLanes")
	assert.NoError(t, err)
	assert.Equal(t, 1, left)
	right, err := first.PropertyInt("rightLanes")
	assert.NoError(t, err)
	assert.Equal(t, 1, right)
	length, err := first.PropertyFloat64("length")
	assert.NoError(t, err)
	assert.InDelta(t, 10, length, 1e-9)
	_, hasName := first.Properties["name"]
	assert.False(t, hasName)

	name, err := second.PropertyString("name")
	assert.NoError(t, err)
	assert.Equal(t, "main street", name)
	length, err = second.PropertyFloat64("length")
	assert.NoError(t, err)
	assert.InDelta(t, 20, length, 1e-9)
}

func TestExportGeoJSONUnadjusted(t *testing.T) {
	road, err := xodr.CreateStraightRoad(1, 10, -1, 1, 3)
	assert.NoError(t, err)
	odr := xodr.NewOpenDrive("unadjusted")
	assert.NoError(t, odr.AddRoad(road))

	_, err = xodr.ExportGeoJSON(odr, 1)
	assert.ErrorIs(t, err, xodr.ErrRoadsAndLanesNotAdjusted)
}

func TestExportGeoJSONBadStep(t *testing.T) {
	road, err := xodr.CreateStraightRoad(1, 10, -1, 1, 3)
	assert.NoError(t, err)
	odr := xodr.NewOpenDrive("steps")
	assert.NoError(t, odr.AddRoad(road))
	assert.NoError(t, odr.AdjustRoadsAndLanes())

	_, err = xodr.ExportGeoJSON(odr, 0)
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)
	_, err = xodr.ExportGeoJSON(odr, -5)
	assert.ErrorIs(t, err, xodr.ErrGeneralIssueInputArguments)
}
