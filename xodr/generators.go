package xodr

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// StandardLane 标准行车道，宽度恒定
// 参数：
//
//	width: 车道宽度
//	roadMark: 可选路标线，缺省为虚线
func StandardLane(width float64, roadMark ...*RoadMark) *Lane {
	lane := NewLane(LaneTypeDriving, width)
	if len(roadMark) > 0 {
		if roadMark[0] != nil {
			lane.AddRoadMark(roadMark[0])
		}
	} else {
		lane.AddRoadMark(StdRoadMarkBroken())
	}
	return lane
}

type roadParams struct {
	leftLanes      LaneSpec
	rightLanes     LaneSpec
	roadType       int
	centerRoadMark *RoadMark
	laneWidth      float64
	laneWidthEnd   float64
	hasWidthEnd    bool
}

// RoadOption CreateRoad系列生成器的可选参数
type RoadOption func(*roadParams)

// WithLeftLanes 左侧车道描述，缺省为恒定1条
func WithLeftLanes(spec LaneSpec) RoadOption {
	return func(p *roadParams) { p.leftLanes = spec }
}

// WithRightLanes 右侧车道描述，缺省为恒定1条
func WithRightLanes(spec LaneSpec) RoadOption {
	return func(p *roadParams) { p.rightLanes = spec }
}

// WithRoadType 标记道路属于junction，参数为junction编号
func WithRoadType(junctionID int) RoadOption {
	return func(p *roadParams) { p.roadType = junctionID }
}

// WithCenterRoadMark 中心线路标，传nil则不画中心线
func WithCenterRoadMark(roadMark *RoadMark) RoadOption {
	return func(p *roadParams) { p.centerRoadMark = roadMark }
}

// WithLaneWidth 车道宽度，缺省3米
func WithLaneWidth(width float64) RoadOption {
	return func(p *roadParams) { p.laneWidth = width }
}

// WithLaneWidthEnd 道路末端的车道宽度，给定后全路段线性过渡
func WithLaneWidthEnd(width float64) RoadOption {
	return func(p *roadParams) {
		p.laneWidthEnd = width
		p.hasWidthEnd = true
	}
}

func applyRoadOptions(opts []RoadOption) *roadParams {
	p := &roadParams{
		leftLanes:      ConstantLanes(1),
		rightLanes:     ConstantLanes(1),
		roadType:       -1,
		centerRoadMark: StdRoadMarkSolid(),
		laneWidth:      3,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *roadParams) buildLanes(roadLength float64) (*Lanes, error) {
	if p.hasWidthEnd {
		if p.leftLanes.changing || p.rightLanes.changing {
			return nil, errors.Wrap(ErrGeneralIssueInputArguments,
				"an end lane width cannot be combined with changing lane numbers")
		}
		return CreateLanesMergeSplit(p.rightLanes, p.leftLanes, roadLength,
			p.centerRoadMark, p.laneWidth, p.laneWidthEnd)
	}
	return CreateLanesMergeSplit(p.rightLanes, p.leftLanes, roadLength,
		p.centerRoadMark, p.laneWidth)
}

// CreateRoad 由几何段序列生成单车道段道路
// 功能：把几何段依次装入平面图，并按车道描述生成车道结构，
// 车道侧边为虚线、最外侧为实线
// 参数：
//
//	geometries: 平面几何段，按行进顺序排列
//	roadID: 道路编号
//	opts: 车道数、车道宽、中心线路标等可选参数
func CreateRoad(geometries []Geometry, roadID int, opts ...RoadOption) (*Road, error) {
	p := applyRoadOptions(opts)
	pv := NewPlanView()
	for _, geom := range geometries {
		if err := pv.AddGeometry(geom); err != nil {
			return nil, err
		}
	}
	lanes, err := p.buildLanes(pv.TotalLength())
	if err != nil {
		return nil, err
	}
	road := NewRoad(roadID, pv, lanes)
	road.roadType = p.roadType
	return road, nil
}

// CreateAdjustableRoad 生成几何待定的道路
// 功能：道路只记录车道描述与路标，平面几何与车道结构留到路网
// 调整阶段由两端邻接道路的位姿反解
func CreateAdjustableRoad(roadID int, opts ...RoadOption) (*Road, error) {
	p := applyRoadOptions(opts)
	if p.hasWidthEnd && (p.leftLanes.changing || p.rightLanes.changing) {
		return nil, errors.Wrap(ErrGeneralIssueInputArguments,
			"an end lane width cannot be combined with changing lane numbers")
	}
	adjustable := &AdjustablePlanview{
		LeftLanes:      p.leftLanes,
		RightLanes:     p.rightLanes,
		LaneWidth:      p.laneWidth,
		CenterRoadMark: p.centerRoadMark,
	}
	if p.hasWidthEnd {
		adjustable.LaneWidthEnd = p.laneWidthEnd
	}
	road := NewAdjustableRoad(roadID, adjustable)
	road.roadType = p.roadType
	return road, nil
}

// CreateStraightRoad 生成直线道路，两侧车道数相同且全部虚线
func CreateStraightRoad(roadID int, length float64, junction, nLanes int, laneWidth float64) (*Road, error) {
	pv := NewPlanView()
	if err := pv.AddGeometry(NewLine(length)); err != nil {
		return nil, err
	}
	section := NewLaneSection(0, StandardLane(laneWidth))
	for i := 0; i < nLanes; i++ {
		section.AddRightLane(StandardLane(laneWidth))
		section.AddLeftLane(StandardLane(laneWidth))
	}
	lanes := NewLanes()
	if err := lanes.AddLaneSection(section); err != nil {
		return nil, err
	}
	road := NewRoad(roadID, pv, lanes)
	road.roadType = junction
	return road, nil
}

// CreateClothArcCloth 生成螺线-圆弧-螺线组合的弯道
// 参数：
//
//	arcCurv: 圆弧曲率，同时为螺线的最大曲率
//	arcAngle: 圆弧承担的转角
//	clothAngle: 单条螺线承担的转角，两条共计两倍
//	roadID: 道路编号
//	junction: 所属junction编号，-1为普通道路
//	clothStart: 螺线起始曲率
//	nLanes: 单侧车道数
//	laneWidth: 车道宽度
func CreateClothArcCloth(arcCurv, arcAngle, clothAngle float64, roadID, junction int,
	clothStart float64, nLanes int, laneWidth float64) (*Road, error) {
	// 负转角时整体换侧
	if clothAngle < 0 && arcCurv > 0 {
		clothAngle = -clothAngle
		arcCurv = -arcCurv
		clothStart = -clothStart
		arcAngle = -arcAngle
	}
	spiral1, err := NewSpiral(clothStart, arcCurv, WithAngle(clothAngle))
	if err != nil {
		return nil, err
	}
	arc, err := NewArc(arcCurv, WithAngle(arcAngle))
	if err != nil {
		return nil, err
	}
	spiral2, err := NewSpiral(arcCurv, clothStart, WithAngle(clothAngle))
	if err != nil {
		return nil, err
	}

	pv := NewPlanView()
	for _, geom := range []Geometry{spiral1, arc, spiral2} {
		if err := pv.AddGeometry(geom); err != nil {
			return nil, err
		}
	}
	section := NewLaneSection(0, StandardLane(laneWidth))
	for i := 0; i < nLanes; i++ {
		section.AddRightLane(StandardLane(laneWidth))
		section.AddLeftLane(StandardLane(laneWidth))
	}
	lanes := NewLanes()
	if err := lanes.AddLaneSection(section); err != nil {
		return nil, err
	}
	road := NewRoad(roadID, pv, lanes)
	road.roadType = junction
	return road, nil
}

// Create3Cloths 生成三段螺线组合的弯道
// 参数：
//
//	c1Start..c3Length: 三段螺线各自的起终曲率与弧长
//	roadID: 道路编号
//	junction: 所属junction编号
//	nLanes: 单侧车道数
//	laneWidth: 车道宽度
//	roadMark: 全部车道线的路标，传nil则不画
func Create3Cloths(c1Start, c1End, c1Length, c2Start, c2End, c2Length, c3Start, c3End, c3Length float64,
	roadID, junction, nLanes int, laneWidth float64, roadMark *RoadMark) (*Road, error) {
	pv := NewPlanView()
	for _, seg := range [][3]float64{
		{c1Start, c1End, c1Length},
		{c2Start, c2End, c2Length},
		{c3Start, c3End, c3Length},
	} {
		spiral, err := NewSpiral(seg[0], seg[1], WithLength(seg[2]))
		if err != nil {
			return nil, err
		}
		if err := pv.AddGeometry(spiral); err != nil {
			return nil, err
		}
	}

	newLane := func() *Lane {
		lane := NewLane(LaneTypeDriving, laneWidth)
		if roadMark != nil {
			lane.AddRoadMark(roadMark.clone())
		}
		return lane
	}
	center := NewLane(LaneTypeDriving, 0)
	if roadMark != nil {
		center.AddRoadMark(roadMark.clone())
	}
	section := NewLaneSection(0, center)
	for i := 0; i < nLanes; i++ {
		section.AddRightLane(newLane())
		section.AddLeftLane(newLane())
	}
	lanes := NewLanes()
	if err := lanes.AddLaneSection(section); err != nil {
		return nil, err
	}
	road := NewRoad(roadID, pv, lanes)
	road.roadType = junction
	return road, nil
}

// laneOffsetBetween 两条道路相接处的车道数与车道宽度
// 说明：要求两侧车道数一致，road1按接触点取对应车道段，
// road2取首段
func laneOffsetBetween(road1, road2 *Road, contactPoint ContactPoint) (int, float64, error) {
	sections1 := road1.lanes.laneSections
	sec1 := sections1[0]
	if contactPoint == ContactPointEnd {
		sec1 = sections1[len(sections1)-1]
	}
	sec2 := road2.lanes.laneSections[0]
	if len(sec1.leftLanes) != len(sec2.leftLanes) || len(sec1.rightLanes) != len(sec2.rightLanes) {
		return 0, 0, errors.Wrapf(ErrNotSameAmountOfLanes,
			"incoming road %d and outgoing road %d have different lane counts", road1.id, road2.id)
	}
	nLanes := len(sec1.leftLanes)
	laneOffset := sec1.leftLanes[0].widths[0].a
	return nLanes, laneOffset, nil
}

// createJunctionLinks 为连接填充一侧车道的laneLink
// 参数：
//
//	connection: 待填充的连接
//	nLanes: 该侧车道数
//	rOrL: 该侧车道编号符号，右侧-1左侧1
//	sign: 两条道路车道编号方向是否相反
//	fromOffset: 起始端车道错位
//	toOffset: 末端车道错位
func createJunctionLinks(connection *Connection, nLanes, rOrL, sign, fromOffset, toOffset int) {
	for i := 1; i <= nLanes; i++ {
		connection.AddLaneLink(rOrL*i+fromOffset, rOrL*sign*i+toOffset)
	}
}

type junctionRoadsParams struct {
	junctionID    int
	startNum      int
	innerRoadMark *RoadMark
	outerRoadMark *RoadMark
}

// JunctionRoadsOption CreateJunctionRoads的可选参数
type JunctionRoadsOption func(*junctionRoadsParams)

// WithJunctionID junction编号，缺省为1
func WithJunctionID(id int) JunctionRoadsOption {
	return func(p *junctionRoadsParams) { p.junctionID = id }
}

// WithStartNum 连接道路的起始编号，缺省为100
func WithStartNum(num int) JunctionRoadsOption {
	return func(p *junctionRoadsParams) { p.startNum = num }
}

// WithInnerRoadMark junction内部车道线路标，缺省不改动
func WithInnerRoadMark(roadMark *RoadMark) JunctionRoadsOption {
	return func(p *junctionRoadsParams) { p.innerRoadMark = roadMark }
}

// WithOuterRoadMark junction边缘车道线路标，缺省为实线
func WithOuterRoadMark(roadMark *RoadMark) JunctionRoadsOption {
	return func(p *junctionRoadsParams) { p.outerRoadMark = roadMark }
}

// replaceFirstRoadMark 替换车道的首条路标，没有路标时直接挂接
func replaceFirstRoadMark(lane *Lane, roadMark *RoadMark) {
	if len(lane.roadMarks) > 0 {
		lane.roadMarks[0] = roadMark
	} else {
		lane.AddRoadMark(roadMark)
	}
}

// CreateJunctionRoads 为一组进出口道路生成全部两两相连的连接道路
// 功能：各道路按角度布置在junction圆周上，第一条在其终点接入，
// 其余在起点接入；任意两条道路之间生成一条连接道路，角度相对时
// 为直线，否则由G2求解器给出三段螺线
// 参数：
//
//	roads: 进出口道路，本函数会写入它们与junction的连接关系
//	angles: 各道路接入junction的方位角，数学正方向递增
//	radii: 各道路到junction中心的距离，长度1时全部通用
//	opts: junction编号、起始道路编号与路标可选参数
//
// 说明：连接道路的前驱固定为编号较小的一侧，后继接触点固定为start
func CreateJunctionRoads(roads []*Road, angles, radii []float64, opts ...JunctionRoadsOption) ([]*Road, error) {
	p := &junctionRoadsParams{
		junctionID:    1,
		startNum:      100,
		outerRoadMark: StdRoadMarkSolid(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if len(roads) != len(angles) {
		return nil, errors.Wrap(ErrGeneralIssueInputArguments, "roads and angles do not have the same size")
	}
	switch {
	case len(radii) == 1:
		radii = lo.Map(roads, func(_ *Road, _ int) float64 { return radii[0] })
	case len(radii) != len(roads):
		return nil, errors.Wrap(ErrGeneralIssueInputArguments, "roads and radii do not have the same size")
	}

	solver := defaultClothoidSolver()
	var junctionRoads []*Road
	startNum := p.startNum
	for i := 0; i < len(roads)-1; i++ {
		var cp ContactPoint
		if i == 0 {
			cp = ContactPointEnd
			if err := roads[i].AddSuccessor(ElementTypeJunction, p.junctionID, ContactPointNone); err != nil {
				return nil, err
			}
		} else {
			cp = ContactPointStart
			if err := roads[i].AddPredecessor(ElementTypeJunction, p.junctionID, ContactPointNone); err != nil {
				return nil, err
			}
		}
		for j := i + 1; j < len(roads); j++ {
			delta := angles[j] - angles[i] - math.Pi
			if delta > math.Pi {
				delta = -(2*math.Pi - delta)
			}
			nLanes, laneWidth, err := laneOffsetBetween(roads[i], roads[j], cp)
			if err != nil {
				return nil, err
			}

			var connecting *Road
			if delta == 0 {
				connecting, err = CreateStraightRoad(startNum, radii[i]+radii[j], p.junctionID, nLanes, laneWidth)
				if err != nil {
					return nil, err
				}
				if p.innerRoadMark != nil {
					section := connecting.lanes.laneSections[0]
					for _, lane := range section.leftLanes {
						replaceFirstRoadMark(lane, p.innerRoadMark.clone())
					}
					for _, lane := range section.rightLanes {
						replaceFirstRoadMark(lane, p.innerRoadMark.clone())
					}
					replaceFirstRoadMark(section.centerLane, p.innerRoadMark.clone())
				}
				if len(roads) == 3 {
					section := connecting.lanes.laneSections[0]
					k := 3 - i - j
					switch {
					case angles[k] > angles[j] || angles[k] < angles[i]:
						replaceFirstRoadMark(section.rightLanes[len(section.rightLanes)-1], p.outerRoadMark.clone())
					case angles[i] < angles[j]:
						replaceFirstRoadMark(section.leftLanes[len(section.leftLanes)-1], p.outerRoadMark.clone())
					default:
						replaceFirstRoadMark(section.rightLanes[len(section.rightLanes)-1], p.outerRoadMark.clone())
					}
				}
			} else {
				segments, err := solver.SolveG2(
					-radii[i], 0, 0, stdStartCloth,
					radii[j]*math.Cos(delta), radii[j]*math.Sin(delta), delta, stdStartCloth)
				if err != nil {
					return nil, err
				}
				if len(segments) != 3 {
					return nil, errors.Wrapf(ErrGeneralIssueInputArguments,
						"the G2 solver returned %d segments, three are needed", len(segments))
				}
				connecting, err = Create3Cloths(
					segments[0].KappaStart, segments[0].KappaEnd, segments[0].Length,
					segments[1].KappaStart, segments[1].KappaEnd, segments[1].Length,
					segments[2].KappaStart, segments[2].KappaEnd, segments[2].Length,
					startNum, p.junctionID, nLanes, laneWidth, p.innerRoadMark)
				if err != nil {
					return nil, err
				}
				section := connecting.lanes.laneSections[0]
				if middle, ok := connecting.planview.rawGeometries[1].(*Spiral); ok {
					if middle.curvStart > 0 {
						section.leftLanes[len(section.leftLanes)-1].AddRoadMark(p.outerRoadMark.clone())
					} else if middle.curvStart < 0 {
						section.rightLanes[len(section.rightLanes)-1].AddRoadMark(p.outerRoadMark.clone())
					}
				}
			}
			if err := connecting.AddPredecessor(ElementTypeRoad, roads[i].id, cp); err != nil {
				return nil, err
			}
			if err := connecting.AddSuccessor(ElementTypeRoad, roads[j].id, ContactPointStart); err != nil {
				return nil, err
			}
			startNum++
			junctionRoads = append(junctionRoads, connecting)
		}
	}
	if err := roads[len(roads)-1].AddPredecessor(ElementTypeJunction, p.junctionID, ContactPointNone); err != nil {
		return nil, err
	}
	return junctionRoads, nil
}

// CreateJunction 为连接道路生成junction记录
// 参数：
//
//	junctionRoads: junction内的全部连接道路
//	junctionID: junction编号
//	roads: 全部进出口道路
//	name: 可选junction名称
func CreateJunction(junctionRoads []*Road, junctionID int, roads []*Road, name ...string) (*Junction, error) {
	junctionName := "junction " + itoa(junctionID)
	if len(name) > 0 {
		junctionName = name[0]
	}
	junction := NewJunction(junctionName, junctionID)
	for _, jr := range junctionRoads {
		if jr.successor == nil || jr.predecessor == nil {
			return nil, errors.Wrapf(ErrUndefinedRoadNetwork,
				"connecting road %d needs both a predecessor and a successor", jr.id)
		}

		sucConn := NewConnection(jr.successor.elementID, jr.id, ContactPointEnd)
		sucRoad := GetRoadByID(roads, jr.successor.elementID)
		if sucRoad == nil {
			return nil, errors.Wrapf(ErrUndefinedRoadNetwork,
				"road %d linked by connecting road %d is not among the incoming roads", jr.successor.elementID, jr.id)
		}
		_, sign, _ := relatedLaneSection(jr, sucRoad)
		lastSec := jr.lanes.laneSections[len(jr.lanes.laneSections)-1]
		sucOffset := jr.laneOffsetSuc[jr.successor.elementID]
		createJunctionLinks(sucConn, len(lastSec.rightLanes), -1, sign, 0, sucOffset)
		createJunctionLinks(sucConn, len(lastSec.leftLanes), 1, sign, 0, sucOffset)
		junction.AddConnection(sucConn)

		predConn := NewConnection(jr.predecessor.elementID, jr.id, ContactPointStart)
		predRoad := GetRoadByID(roads, jr.predecessor.elementID)
		if predRoad == nil {
			return nil, errors.Wrapf(ErrUndefinedRoadNetwork,
				"road %d linked by connecting road %d is not among the incoming roads", jr.predecessor.elementID, jr.id)
		}
		_, sign, _ = relatedLaneSection(jr, predRoad)
		firstSec := jr.lanes.laneSections[0]
		predOffset := jr.laneOffsetPred[jr.predecessor.elementID]
		createJunctionLinks(predConn, len(firstSec.rightLanes), -1, sign, predOffset, 0)
		createJunctionLinks(predConn, len(firstSec.leftLanes), 1, sign, predOffset, 0)
		junction.AddConnection(predConn)
	}
	return junction, nil
}

// GetRoadByID 在道路列表中按编号查找，找不到返回nil
func GetRoadByID(roads []*Road, id int) *Road {
	road, ok := lo.Find(roads, func(r *Road) bool { return r.id == id })
	if !ok {
		return nil
	}
	return road
}
