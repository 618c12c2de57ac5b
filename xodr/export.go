package xodr

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// ExportGeoJSON 把路网参考线导出为GeoJSON
// 功能：按步长采样每条道路的参考线，生成FeatureCollection，
// 道路编号、所属junction与车道数写入feature属性，可直接在
// 常规GIS工具中查看
// 参数：
//
//	odr: 已完成调整的路网
//	step: 采样步长，单位与路网坐标一致
//
// 返回：GeoJSON文本
func ExportGeoJSON(odr *OpenDrive, step float64) ([]byte, error) {
	if step <= 0 {
		return nil, errors.Wrapf(ErrGeneralIssueInputArguments, "sampling step must be positive, got %v", step)
	}
	fc := geojson.NewFeatureCollection()
	for _, id := range odr.roadOrder {
		road := odr.roads[id]
		if road.adjustable != nil || !road.planview.Adjusted() {
			return nil, errors.Wrapf(ErrRoadsAndLanesNotAdjusted,
				"road %d still has an unadjusted planview, run AdjustRoadsAndLanes before exporting", road.id)
		}
		line := sampleReferenceLine(road.planview, step)
		coords := make([][]float64, len(line))
		for i, pt := range line {
			coords[i] = []float64{pt.X(), pt.Y()}
		}
		feature := geojson.NewLineStringFeature(coords)
		feature.SetProperty("id", road.id)
		feature.SetProperty("junction", road.roadType)
		section := road.lanes.laneSections[0]
		feature.SetProperty("leftLanes", len(section.leftLanes))
		feature.SetProperty("rightLanes", len(section.rightLanes))
		feature.SetProperty("length", planar.Length(line))
		if road.name != "" {
			feature.SetProperty("name", road.name)
		}
		fc.AddFeature(feature)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal the road network to GeoJSON")
	}
	return data, nil
}

// sampleReferenceLine 按步长沿参考线采样，末端点必含
func sampleReferenceLine(pv *PlanView, step float64) orb.LineString {
	total := pv.TotalLength()
	line := make(orb.LineString, 0, int(total/step)+2)
	for s := 0.0; s < total; s += step {
		x, y, _ := pv.PositionAt(s)
		line = append(line, orb.Point{x, y})
	}
	x, y, _ := pv.PositionAt(total)
	line = append(line, orb.Point{x, y})
	return line
}
