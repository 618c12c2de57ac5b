package xodr

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// CommonJunctionCreator 普通路口构造器
// 功能：在路口局部坐标系内布置各驶入道路，按需生成两两之间的
// 连接道路与connection记录。驶入道路的布置方式二选一：
// 圆周式给出半径与方位角，笛卡尔式给出位姿，两种不能混用。
// 说明：连接道路几何由G2求解器给出三段螺线，方位角相对（差为π）
// 时退化为直线；车道错位会回写到驶入道路的链接上
type CommonJunctionCreator struct {
	id       int
	startNum int
	junction *Junction
	solver   ClothoidSolver

	incomingRoads []*Road
	nLeftLanes    []int
	nRightLanes   []int

	radii   []float64
	angles  []float64
	x, y, h []float64

	junctionRoads []*Road
	circular      bool
	cartesian     bool
	height        float64
	hasHeight     bool
}

// NewCommonJunctionCreator 创建普通路口构造器
// 参数：
//
//	junctionID: 路口编号
//	name: 路口名称
//	startNum: 可选，连接道路的起始编号，缺省为100
func NewCommonJunctionCreator(junctionID int, name string, startNum ...int) *CommonJunctionCreator {
	num := 100
	if len(startNum) > 0 {
		num = startNum[0]
	}
	return &CommonJunctionCreator{
		id:       junctionID,
		startNum: num,
		junction: NewJunction(name, junctionID),
		solver:   defaultClothoidSolver(),
	}
}

// SetClothoidSolver 替换连接道路几何所用的G2求解器
func (jc *CommonJunctionCreator) SetClothoidSolver(solver ClothoidSolver) *CommonJunctionCreator {
	jc.solver = solver
	return jc
}

// Junction 路口记录
func (jc *CommonJunctionCreator) Junction() *Junction {
	return jc.junction
}

// ConnectingRoads 已生成的全部连接道路
func (jc *CommonJunctionCreator) ConnectingRoads() []*Road {
	return jc.junctionRoads
}

// AddIncomingRoadCircularGeometry 以圆周式布置一条驶入道路
// 功能：道路放在以路口原点为圆心、radius为半径的圆周上，
// angle为其方位角，朝向路口中心
// 参数：
//
//	road: 驶入道路
//	radius: 道路端点到路口中心的距离
//	angle: 道路的方位角，按数学正方向
//	roadConnection: 可选，道路以何种链接接入路口
//	（LinkTypeSuccessor或LinkTypePredecessor），不给时要求
//	道路已有指向本路口的链接
func (jc *CommonJunctionCreator) AddIncomingRoadCircularGeometry(road *Road, radius, angle float64, roadConnection ...LinkType) error {
	if jc.cartesian {
		return errors.Wrapf(ErrGeneralIssueInputArguments,
			"junction %d already has roads with cartesian geometry, the two placements cannot be mixed", jc.id)
	}
	left, right, err := jc.handleConnectionInput(road, roadConnection)
	if err != nil {
		return err
	}
	jc.incomingRoads = append(jc.incomingRoads, road)
	jc.nLeftLanes = append(jc.nLeftLanes, left)
	jc.nRightLanes = append(jc.nRightLanes, right)
	jc.radii = append(jc.radii, radius)
	jc.angles = append(jc.angles, angle)
	jc.circular = true
	return nil
}

// AddIncomingRoadCartesianGeometry 以笛卡尔式布置一条驶入道路
// 参数：
//
//	road: 驶入道路
//	x, y: 道路端点在路口局部坐标系内的位置
//	heading: 道路航向，指向路口内部
//	roadConnection: 可选，含义同AddIncomingRoadCircularGeometry
func (jc *CommonJunctionCreator) AddIncomingRoadCartesianGeometry(road *Road, x, y, heading float64, roadConnection ...LinkType) error {
	if jc.circular {
		return errors.Wrapf(ErrGeneralIssueInputArguments,
			"junction %d already has roads with circular geometry, the two placements cannot be mixed", jc.id)
	}
	left, right, err := jc.handleConnectionInput(road, roadConnection)
	if err != nil {
		return err
	}
	jc.incomingRoads = append(jc.incomingRoads, road)
	jc.nLeftLanes = append(jc.nLeftLanes, left)
	jc.nRightLanes = append(jc.nRightLanes, right)
	jc.x = append(jc.x, x)
	jc.y = append(jc.y, y)
	jc.h = append(jc.h, heading)
	jc.cartesian = true
	return nil
}

// AddConstantElevation 给路口设置恒定高程
// 说明：已生成和后续生成的连接道路都会带上该高程与零超高程
func (jc *CommonJunctionCreator) AddConstantElevation(height float64) {
	jc.height = height
	jc.hasHeight = true
	for _, road := range jc.junctionRoads {
		road.AddElevation(0, height, 0, 0, 0)
	}
}

// AddConnection 在两条驶入道路之间生成连接
// 功能：不给车道编号时自动连接两条道路的公共车道，两侧车道数
// 对称时整体生成一条连接道路，不对称时只连公共部分；给出车道
// 编号列表时逐对生成单车道连接道路，并处理车道错位
// 参数：
//
//	roadOneID, roadTwoID: 待连接的两条驶入道路编号
//	laneIDs: 可选，两组一一对应的车道编号，第一组属roadOne，
//	第二组属roadTwo，只给一组返回错误
func (jc *CommonJunctionCreator) AddConnection(roadOneID, roadTwoID int, laneIDs ...[]int) error {
	switch len(laneIDs) {
	case 0:
		idx1, err := jc.listIndex(roadOneID)
		if err != nil {
			return err
		}
		idx2, err := jc.listIndex(roadTwoID)
		if err != nil {
			return err
		}
		if jc.nLeftLanes[idx1] == jc.nRightLanes[idx1] &&
			jc.nLeftLanes[idx2] == jc.nRightLanes[idx2] &&
			jc.nLeftLanes[idx1] == jc.nRightLanes[idx2] {
			return jc.createConnectingRoadsWithEqualLanes(roadOneID, roadTwoID)
		}
		return jc.createConnectingRoadsUnequalLanes(roadOneID, roadTwoID)
	case 1:
		return errors.Wrap(ErrNotEnoughInputArguments, "lane ids have to be given for both roads")
	case 2:
		laneOneIDs, laneTwoIDs := laneIDs[0], laneIDs[1]
		if len(laneOneIDs) != len(laneTwoIDs) {
			return errors.Wrapf(ErrGeneralIssueInputArguments,
				"lane id lists must pair up, got %d and %d ids", len(laneOneIDs), len(laneTwoIDs))
		}
		for i := range laneOneIDs {
			if err := jc.createConnectingRoadWithLaneInput(roadOneID, roadTwoID, laneOneIDs[i], laneTwoIDs[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Wrap(ErrTooManyOptionalArguments, "AddConnection takes at most two lane id lists")
	}
}

// connectsVia 道路以哪种链接指向本路口
func (jc *CommonJunctionCreator) connectsVia(road *Road) (LinkType, bool) {
	if road.successor != nil && road.successor.elementType == ElementTypeJunction &&
		road.successor.elementID == jc.id {
		return LinkTypeSuccessor, true
	}
	if road.predecessor != nil && road.predecessor.elementType == ElementTypeJunction &&
		road.predecessor.elementID == jc.id {
		return LinkTypePredecessor, true
	}
	return "", false
}

// handleConnectionInput 校验并补全驶入道路与路口的链接，
// 返回道路在接触端的左右车道数
func (jc *CommonJunctionCreator) handleConnectionInput(road *Road, roadConnection []LinkType) (int, int, error) {
	if len(roadConnection) > 1 {
		return 0, 0, errors.Wrap(ErrTooManyOptionalArguments, "at most one road connection can be given")
	}
	if len(roadConnection) == 1 {
		switch roadConnection[0] {
		case LinkTypeSuccessor:
			if err := road.AddSuccessor(ElementTypeJunction, jc.id, ContactPointNone); err != nil {
				return 0, 0, err
			}
		case LinkTypePredecessor:
			if err := road.AddPredecessor(ElementTypeJunction, jc.id, ContactPointNone); err != nil {
				return 0, 0, err
			}
		default:
			return 0, 0, errors.Wrapf(ErrGeneralIssueInputArguments,
				"a road can only connect to a junction as successor or predecessor, got %s", roadConnection[0])
		}
	}
	linkType, ok := jc.connectsVia(road)
	if !ok {
		return 0, 0, errors.Wrapf(ErrUndefinedRoadNetwork,
			"road %d is not connected to junction %d", road.id, jc.id)
	}
	section := road.lanes.laneSections[0]
	if linkType == LinkTypeSuccessor {
		section = road.lanes.laneSections[len(road.lanes.laneSections)-1]
	}
	return len(section.leftLanes), len(section.rightLanes), nil
}

// listIndex 道路编号在驶入道路列表中的下标
func (jc *CommonJunctionCreator) listIndex(roadID int) (int, error) {
	for i, road := range jc.incomingRoads {
		if road.id == roadID {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrUndefinedRoadNetwork,
		"road %d has not been added to junction %d", roadID, jc.id)
}

// connectionType 驶入道路接入路口的链接类型
func (jc *CommonJunctionCreator) connectionType(idx int) LinkType {
	if linkType, ok := jc.connectsVia(jc.incomingRoads[idx]); ok {
		return linkType
	}
	return LinkTypePredecessor
}

// setOffsetForIncomingRoad 把车道错位回写到驶入道路
func (jc *CommonJunctionCreator) setOffsetForIncomingRoad(roadIdx, connectingRoadID, offset int) {
	if jc.connectionType(roadIdx) == LinkTypeSuccessor {
		jc.incomingRoads[roadIdx].laneOffsetSuc[connectingRoadID] = offset
	} else {
		jc.incomingRoads[roadIdx].laneOffsetPred[connectingRoadID] = offset
	}
}

// contactPointOfIncoming 连接道路与该驶入道路相接的接触点
func (jc *CommonJunctionCreator) contactPointOfIncoming(roadID int) (ContactPoint, error) {
	idx, err := jc.listIndex(roadID)
	if err != nil {
		return ContactPointNone, err
	}
	switch jc.connectionType(idx) {
	case LinkTypeSuccessor:
		return ContactPointEnd, nil
	default:
		return ContactPointStart, nil
	}
}

// contactSection 驶入道路在接触端的车道段
func (jc *CommonJunctionCreator) contactSection(idx int) *LaneSection {
	road := jc.incomingRoads[idx]
	if jc.connectionType(idx) == LinkTypeSuccessor {
		return road.lanes.laneSections[len(road.lanes.laneSections)-1]
	}
	return road.lanes.laneSections[0]
}

// contactLaneWidths 各车道在接触端的宽度
// 说明：后继接入时取末段在道路末端处的宽度，前驱接入时取首段s=0处
func (jc *CommonJunctionCreator) contactLaneWidths(idx int, lanes []*Lane) []float64 {
	road := jc.incomingRoads[idx]
	s := 0.0
	if jc.connectionType(idx) == LinkTypeSuccessor {
		sections := road.lanes.laneSections
		s = road.planview.TotalLength() - sections[len(sections)-1].s
	}
	return lo.Map(lanes, func(lane *Lane, _ int) float64 { return lane.WidthAt(s) })
}

// laneDefsBetween 构造连接道路的左右车道描述
// 功能：车道宽度从roadOne接触端的实测值渐变到roadTwo接触端的
// 实测值；前驱接入的道路行进方向与连接道路相反，左右互换。
// 两端车道数不同时，allowEmptyLane为true则截到公共数量，
// 否则该侧不生成车道
func (jc *CommonJunctionCreator) laneDefsBetween(idx1, idx2 int, connectingRoadLength float64, allowEmptyLane bool) (LaneSpec, LaneSpec) {
	sec1 := jc.contactSection(idx1)
	var leftStartWidths, rightStartWidths []float64
	if jc.connectionType(idx1) == LinkTypeSuccessor {
		leftStartWidths = jc.contactLaneWidths(idx1, sec1.leftLanes)
		rightStartWidths = jc.contactLaneWidths(idx1, sec1.rightLanes)
	} else {
		leftStartWidths = jc.contactLaneWidths(idx1, sec1.rightLanes)
		rightStartWidths = jc.contactLaneWidths(idx1, sec1.leftLanes)
	}

	sec2 := jc.contactSection(idx2)
	var leftEndWidths, rightEndWidths []float64
	if jc.connectionType(idx2) == LinkTypeSuccessor {
		leftEndWidths = jc.contactLaneWidths(idx2, sec2.rightLanes)
		rightEndWidths = jc.contactLaneWidths(idx2, sec2.leftLanes)
	} else {
		leftEndWidths = jc.contactLaneWidths(idx2, sec2.leftLanes)
		rightEndWidths = jc.contactLaneWidths(idx2, sec2.rightLanes)
	}

	side := func(startWidths, endWidths []float64) LaneSpec {
		if len(startWidths) == len(endWidths) {
			n := len(startWidths)
			return ChangingLanes(NewLaneDef(0, connectingRoadLength, n, n, 0, startWidths, endWidths))
		}
		if !allowEmptyLane {
			return ConstantLanes(0)
		}
		n := len(startWidths)
		if len(endWidths) < n {
			n = len(endWidths)
		}
		return ChangingLanes(NewLaneDef(0, connectingRoadLength, n, n, 0, startWidths[:n], endWidths[:n]))
	}
	return side(leftStartWidths, leftEndWidths), side(rightStartWidths, rightEndWidths)
}

// connectorGeometry 两条驶入道路之间连接道路的平面几何
func (jc *CommonJunctionCreator) connectorGeometry(idx1, idx2 int) ([]Geometry, error) {
	if jc.circular {
		return jc.circularGeometry(idx1, idx2)
	}
	return jc.cartesianGeometry(idx1, idx2)
}

// circularGeometry 圆周式布置下的连接几何
// 说明：两条道路方位角正好相对时用直线，否则以规范到(-π, π]
// 的转角差做G2求解
func (jc *CommonJunctionCreator) circularGeometry(idx1, idx2 int) ([]Geometry, error) {
	delta := jc.angles[idx2] - jc.angles[idx1] - math.Pi
	if delta > math.Pi {
		delta = -(2*math.Pi - delta)
	}
	if delta == 0 {
		return []Geometry{NewLine(jc.radii[idx1] + jc.radii[idx2])}, nil
	}
	segments, err := jc.solver.SolveG2(
		-jc.radii[idx1], 0, 0, stdStartCloth,
		jc.radii[idx2]*math.Cos(delta), jc.radii[idx2]*math.Sin(delta), delta, stdStartCloth)
	if err != nil {
		return nil, err
	}
	return spiralsFromSegments(segments)
}

// cartesianGeometry 笛卡尔式布置下的连接几何
func (jc *CommonJunctionCreator) cartesianGeometry(idx1, idx2 int) ([]Geometry, error) {
	segments, err := jc.solver.SolveG2(
		jc.x[idx1], jc.y[idx1], jc.h[idx1], stdStartCloth,
		jc.x[idx2], jc.y[idx2], jc.h[idx2]-math.Pi, stdStartCloth)
	if err != nil {
		return nil, err
	}
	return spiralsFromSegments(segments)
}

func spiralsFromSegments(segments []ClothoidSegment) ([]Geometry, error) {
	geoms := make([]Geometry, 0, len(segments))
	for _, seg := range segments {
		spiral, err := NewSpiral(seg.KappaStart, seg.KappaEnd, WithLength(seg.Length))
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, spiral)
	}
	return geoms, nil
}

func totalGeometryLength(geoms []Geometry) float64 {
	return lo.SumBy(geoms, func(g Geometry) float64 { return g.Length() })
}

// createConnectingRoadsWithEqualLanes 两侧车道数对称时整体连接
func (jc *CommonJunctionCreator) createConnectingRoadsWithEqualLanes(roadOneID, roadTwoID int) error {
	idx1, err := jc.listIndex(roadOneID)
	if err != nil {
		return err
	}
	idx2, err := jc.listIndex(roadTwoID)
	if err != nil {
		return err
	}
	geoms, err := jc.connectorGeometry(idx1, idx2)
	if err != nil {
		return err
	}
	leftLanes, rightLanes := jc.laneDefsBetween(idx1, idx2, totalGeometryLength(geoms), false)
	road, err := CreateRoad(geoms, jc.startNum,
		WithLeftLanes(leftLanes), WithRightLanes(rightLanes),
		WithLaneWidth(1), WithRoadType(jc.id))
	if err != nil {
		return err
	}
	if jc.hasHeight {
		road.AddElevation(0, jc.height, 0, 0, 0)
		road.AddSuperelevation(0, 0, 0, 0, 0)
	}
	if err := jc.linkConnectingRoad(road, roadOneID, roadTwoID, 0, 0); err != nil {
		return err
	}
	if err := jc.addConnectionFull(road); err != nil {
		return err
	}
	jc.junctionRoads = append(jc.junctionRoads, road)
	jc.startNum++
	return nil
}

// createConnectingRoadsUnequalLanes 两侧车道数不对称时只连公共车道
func (jc *CommonJunctionCreator) createConnectingRoadsUnequalLanes(roadOneID, roadTwoID int) error {
	idx1, err := jc.listIndex(roadOneID)
	if err != nil {
		return err
	}
	idx2, err := jc.listIndex(roadTwoID)
	if err != nil {
		return err
	}
	geoms, err := jc.connectorGeometry(idx1, idx2)
	if err != nil {
		return err
	}
	leftLanes, rightLanes := jc.laneDefsBetween(idx1, idx2, totalGeometryLength(geoms), true)
	road, err := CreateRoad(geoms, jc.startNum,
		WithLeftLanes(leftLanes), WithRightLanes(rightLanes),
		WithRoadType(jc.id))
	if err != nil {
		return err
	}
	if jc.hasHeight {
		road.AddElevation(0, jc.height, 0, 0, 0)
		road.AddSuperelevation(0, 0, 0, 0, 0)
	}
	if err := jc.linkConnectingRoad(road, roadOneID, roadTwoID, 0, 0); err != nil {
		return err
	}

	firstRoadLaneIDs, connectingLaneIDs := minimumLanesToConnect(jc.incomingRoads[idx1], road)
	connection := NewConnection(roadOneID, road.id, ContactPointStart)
	for i := range firstRoadLaneIDs {
		connection.AddLaneLink(firstRoadLaneIDs[i], connectingLaneIDs[i])
	}
	jc.junction.AddConnection(connection)

	secondRoadLaneIDs, connectingLaneIDs := minimumLanesToConnect(jc.incomingRoads[idx2], road)
	connection = NewConnection(roadTwoID, road.id, ContactPointEnd)
	for i := range secondRoadLaneIDs {
		connection.AddLaneLink(secondRoadLaneIDs[i], connectingLaneIDs[i])
	}
	jc.junction.AddConnection(connection)

	jc.junctionRoads = append(jc.junctionRoads, road)
	jc.startNum++
	return nil
}

// linkConnectingRoad 连接道路挂接前驱roadOne与后继roadTwo
func (jc *CommonJunctionCreator) linkConnectingRoad(road *Road, roadOneID, roadTwoID, predLaneOffset, succLaneOffset int) error {
	cp1, err := jc.contactPointOfIncoming(roadOneID)
	if err != nil {
		return err
	}
	if err := road.AddPredecessor(ElementTypeRoad, roadOneID, cp1, predLaneOffset); err != nil {
		return err
	}
	cp2, err := jc.contactPointOfIncoming(roadTwoID)
	if err != nil {
		return err
	}
	return road.AddSuccessor(ElementTypeRoad, roadTwoID, cp2, succLaneOffset)
}

// laneWidthAtContact 指定车道在接触端s=0处的宽度
func (jc *CommonJunctionCreator) laneWidthAtContact(laneID, roadIdx int) float64 {
	section := jc.contactSection(roadIdx)
	if laneID < 0 {
		return section.rightLanes[absInt(laneID)-1].WidthAt(0)
	}
	return section.leftLanes[absInt(laneID)-1].WidthAt(0)
}

// innerLaneOffset 与车道之间所有更靠内车道的宽度和
func (jc *CommonJunctionCreator) innerLaneOffset(laneID, roadIdx int) float64 {
	section := jc.contactSection(roadIdx)
	lanes := section.leftLanes
	if laneID < 0 {
		lanes = section.rightLanes
	}
	offset := 0.0
	for i := 0; i < absInt(laneID)-1; i++ {
		offset += lanes[i].WidthAt(0)
	}
	return offset
}

// createConnectingRoadWithLaneInput 两条道路间指定车道对的单车道连接
// 功能：连接道路只含一条车道，起终点横移到两条车道的中线位置，
// 宽度从起始车道实测值渐变到目标车道实测值；车道错位写入连接
// 道路及两条驶入道路的链接
func (jc *CommonJunctionCreator) createConnectingRoadWithLaneInput(roadOneID, roadTwoID, laneOneID, laneTwoID int) error {
	idx1, err := jc.listIndex(roadOneID)
	if err != nil {
		return err
	}
	idx2, err := jc.listIndex(roadTwoID)
	if err != nil {
		return err
	}
	typeOne, typeTwo := jc.connectionType(idx1), jc.connectionType(idx2)
	if (typeOne == typeTwo && signInt(laneOneID) == signInt(laneTwoID)) ||
		(typeOne != typeTwo && signInt(laneOneID) != signInt(laneTwoID)) {
		return errors.Wrapf(ErrMixingDrivingDirection,
			"the driving direction is not consistent when connecting roads %d and %d", roadOneID, roadTwoID)
	}

	startOffset := jc.innerLaneOffset(laneOneID, idx1)
	endOffset := jc.innerLaneOffset(laneTwoID, idx2)
	startWidth := jc.laneWidthAtContact(laneOneID, idx1)
	endWidth := jc.laneWidthAtContact(laneTwoID, idx2)

	angleOffsetStart := float64(signInt(laneOneID)) * math.Pi / 2
	if typeOne != LinkTypeSuccessor {
		angleOffsetStart = -angleOffsetStart
	}
	angleOffsetEnd := float64(signInt(laneTwoID)) * math.Pi / 2
	if typeTwo != LinkTypeSuccessor {
		angleOffsetEnd = -angleOffsetEnd
	}

	var startX, startY, startH, endX, endY, endH float64
	if jc.circular {
		delta := jc.angles[idx2] - jc.angles[idx1] - math.Pi
		if delta > math.Pi {
			delta = -(2*math.Pi - delta)
		}
		startX = -jc.radii[idx1]
		startY = startOffset
		startH = 0
		endX = jc.radii[idx2]*math.Cos(delta) + endOffset*math.Cos(jc.angles[idx2]+angleOffsetEnd)
		endY = jc.radii[idx2]*math.Sin(delta) + endOffset*math.Sin(jc.angles[idx2]+angleOffsetEnd)
		endH = delta
	} else {
		startX = jc.x[idx1] + startOffset*math.Cos(jc.h[idx1]+angleOffsetStart)
		startY = jc.y[idx1] + startOffset*math.Sin(jc.h[idx1]+angleOffsetStart)
		startH = jc.h[idx1]
		endX = jc.x[idx2] + endOffset*math.Cos(jc.h[idx2]+angleOffsetEnd)
		endY = jc.y[idx2] + endOffset*math.Sin(jc.h[idx2]+angleOffsetEnd)
		endH = jc.h[idx2] - math.Pi
	}
	segments, err := jc.solver.SolveG2(startX, startY, startH, stdStartCloth, endX, endY, endH, stdStartCloth)
	if err != nil {
		return err
	}
	geoms, err := spiralsFromSegments(segments)
	if err != nil {
		return err
	}

	// 连接道路上该车道落在哪一侧
	numLeftLanes, numRightLanes := 0, 1
	if (typeOne == LinkTypeSuccessor) == (laneOneID > 0) {
		numLeftLanes, numRightLanes = 1, 0
	}

	road, err := CreateRoad(geoms, jc.startNum,
		WithLeftLanes(ConstantLanes(numLeftLanes)), WithRightLanes(ConstantLanes(numRightLanes)),
		WithLaneWidth(startWidth), WithLaneWidthEnd(endWidth), WithRoadType(jc.id))
	if err != nil {
		return err
	}
	if jc.hasHeight {
		road.AddElevation(0, jc.height, 0, 0, 0)
		road.AddSuperelevation(0, 0, 0, 0, 0)
	}

	predLaneOffset := signInt(laneOneID) * (absInt(laneOneID) - 1)
	if typeOne == LinkTypePredecessor {
		predLaneOffset = -predLaneOffset
	}
	succLaneOffset := signInt(laneTwoID) * (absInt(laneTwoID) - 1)
	if typeTwo == LinkTypePredecessor {
		succLaneOffset = -succLaneOffset
	}
	if err := jc.linkConnectingRoad(road, roadOneID, roadTwoID, predLaneOffset, succLaneOffset); err != nil {
		return err
	}
	jc.setOffsetForIncomingRoad(idx1, road.id, -predLaneOffset)
	jc.setOffsetForIncomingRoad(idx2, road.id, -succLaneOffset)

	jc.junctionRoads = append(jc.junctionRoads, road)
	connection := NewConnection(roadOneID, road.id, ContactPointStart)
	if numLeftLanes > 0 {
		connection.AddLaneLink(laneOneID, 1)
	} else {
		connection.AddLaneLink(laneOneID, -1)
	}
	jc.junction.AddConnection(connection)
	jc.startNum++
	return nil
}

// addConnectionFull 为整体连接道路生成两端connection记录，
// 两侧全部车道一一对应
func (jc *CommonJunctionCreator) addConnectionFull(road *Road) error {
	sucIdx, err := jc.listIndex(road.successor.elementID)
	if err != nil {
		return err
	}
	_, sign, _ := relatedLaneSection(road, jc.incomingRoads[sucIdx])
	sucConn := NewConnection(road.successor.elementID, road.id, ContactPointEnd)
	lastSec := road.lanes.laneSections[len(road.lanes.laneSections)-1]
	sucOffset := road.laneOffsetSuc[road.successor.elementID]
	createJunctionLinks(sucConn, len(lastSec.rightLanes), -1, sign, 0, sucOffset)
	createJunctionLinks(sucConn, len(lastSec.leftLanes), 1, sign, 0, sucOffset)
	jc.junction.AddConnection(sucConn)

	predIdx, err := jc.listIndex(road.predecessor.elementID)
	if err != nil {
		return err
	}
	_, sign, _ = relatedLaneSection(road, jc.incomingRoads[predIdx])
	predConn := NewConnection(road.predecessor.elementID, road.id, ContactPointStart)
	firstSec := road.lanes.laneSections[0]
	predOffset := road.laneOffsetPred[road.predecessor.elementID]
	createJunctionLinks(predConn, len(firstSec.rightLanes), -1, sign, predOffset, 0)
	createJunctionLinks(predConn, len(firstSec.leftLanes), 1, sign, predOffset, 0)
	jc.junction.AddConnection(predConn)
	return nil
}

// minimumLanesToConnect 两条道路能两两对应的车道编号
// 说明：sign为正表示两条道路车道编号方向一致，同号车道互连；
// 为负表示方向相反，左右互换互连
func minimumLanesToConnect(incomingRoad, linkedRoad *Road) ([]int, []int) {
	_, _, incomingSecIdx := relatedLaneSection(incomingRoad, linkedRoad)
	_, sign, linkedSecIdx := relatedLaneSection(linkedRoad, incomingRoad)
	incomingSec := incomingRoad.lanes.laneSections[incomingSecIdx]
	linkedSec := linkedRoad.lanes.laneSections[linkedSecIdx]

	var incomingIDs, linkedIDs []int
	if sign > 0 {
		nLeft := minInt(len(incomingSec.leftLanes), len(linkedSec.leftLanes))
		for i := 1; i <= nLeft; i++ {
			incomingIDs = append(incomingIDs, i)
			linkedIDs = append(linkedIDs, i)
		}
		nRight := minInt(len(incomingSec.rightLanes), len(linkedSec.rightLanes))
		for i := 1; i <= nRight; i++ {
			incomingIDs = append(incomingIDs, -i)
			linkedIDs = append(linkedIDs, -i)
		}
	} else {
		nLeft := minInt(len(incomingSec.leftLanes), len(linkedSec.rightLanes))
		for i := 1; i <= nLeft; i++ {
			incomingIDs = append(incomingIDs, i)
			linkedIDs = append(linkedIDs, -i)
		}
		nRight := minInt(len(incomingSec.rightLanes), len(linkedSec.leftLanes))
		for i := 1; i <= nRight; i++ {
			incomingIDs = append(incomingIDs, -i)
			linkedIDs = append(linkedIDs, i)
		}
	}
	return incomingIDs, linkedIDs
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// DirectJunctionCreator 直连路口构造器
// 功能：把直接相接的道路对登记为直连路口的connection记录，
// 不生成实体连接道路；车道数或车道编号不对齐时推算车道错位
// 并写入两条道路的直连错位表，供路网调整时横移定位
type DirectJunctionCreator struct {
	id       int
	junction *Junction
}

// NewDirectJunctionCreator 创建直连路口构造器
func NewDirectJunctionCreator(junctionID int, name string) *DirectJunctionCreator {
	return &DirectJunctionCreator{
		id:       junctionID,
		junction: NewDirectJunction(name, junctionID),
	}
}

// Junction 路口记录
func (dc *DirectJunctionCreator) Junction() *Junction {
	return dc.junction
}

// ConnectingRoads 直连路口没有实体连接道路
func (dc *DirectJunctionCreator) ConnectingRoads() []*Road {
	return nil
}

// contactPointOfLinked 道路与直连路口相接的接触点
func (dc *DirectJunctionCreator) contactPointOfLinked(road *Road) (ContactPoint, error) {
	if road.successor != nil && road.successor.elementType == ElementTypeJunction &&
		road.successor.elementID == dc.id {
		return ContactPointEnd, nil
	}
	if road.predecessor != nil && road.predecessor.elementType == ElementTypeJunction &&
		road.predecessor.elementID == dc.id {
		return ContactPointStart, nil
	}
	return ContactPointNone, errors.Wrapf(ErrUndefinedRoadNetwork,
		"road %d is not connected to junction %d", road.id, dc.id)
}

// directMinimumLanes 按公共车道数推算两条道路的互连车道编号
func (dc *DirectJunctionCreator) directMinimumLanes(incomingRoad, linkedRoad *Road) ([]int, []int) {
	_, _, incomingSecIdx := relatedLaneSection(incomingRoad, linkedRoad)
	_, sign, linkedSecIdx := relatedLaneSection(linkedRoad, incomingRoad)
	incomingSec := incomingRoad.lanes.laneSections[incomingSecIdx]
	linkedSec := linkedRoad.lanes.laneSections[linkedSecIdx]

	var incomingIDs, linkedIDs []int
	if sign > 0 {
		nRight := minInt(len(incomingSec.rightLanes), len(linkedSec.rightLanes))
		for i := -nRight; i < 0; i++ {
			incomingIDs = append(incomingIDs, i)
			linkedIDs = append(linkedIDs, i)
		}
		nLeft := minInt(len(incomingSec.leftLanes), len(linkedSec.leftLanes))
		for i := 1; i <= nLeft; i++ {
			incomingIDs = append(incomingIDs, i)
			linkedIDs = append(linkedIDs, i)
		}
	} else {
		nLeft := minInt(len(incomingSec.leftLanes), len(linkedSec.rightLanes))
		for i := -nLeft; i < 0; i++ {
			incomingIDs = append(incomingIDs, -i)
			linkedIDs = append(linkedIDs, i)
		}
		nRight := minInt(len(incomingSec.rightLanes), len(linkedSec.leftLanes))
		for i := 1; i <= nRight; i++ {
			incomingIDs = append(incomingIDs, -i)
			linkedIDs = append(linkedIDs, i)
		}
	}
	return incomingIDs, linkedIDs
}

// AddConnection 登记两条道路的直连关系
// 功能：不给车道编号时自动连接公共车道；给出两组编号时逐对
// 登记，并由第一对编号差推算车道错位。被连道路的最小车道
// 编号绝对值为1时视其为主路，错位的符号基准取主路一侧
// 参数：
//
//	incomingRoad: 驶入道路
//	linkedRoad: 被连道路
//	laneIDs: 可选，两组一一对应的车道编号，第一组属驶入道路
func (dc *DirectJunctionCreator) AddConnection(incomingRoad, linkedRoad *Road, laneIDs ...[]int) error {
	incomingContact, err := dc.contactPointOfLinked(incomingRoad)
	if err != nil {
		return err
	}
	linkedContact, err := dc.contactPointOfLinked(linkedRoad)
	if err != nil {
		return err
	}

	incLaneOffset, linkedLaneOffset := 0, 0
	var incomingIDs, linkedIDs []int
	switch len(laneIDs) {
	case 0:
		incomingIDs, linkedIDs = dc.directMinimumLanes(incomingRoad, linkedRoad)
	case 1:
		return errors.Wrap(ErrNotEnoughInputArguments, "lane ids have to be given for both roads")
	case 2:
		incomingIDs, linkedIDs = laneIDs[0], laneIDs[1]
		if len(incomingIDs) != len(linkedIDs) || len(incomingIDs) == 0 {
			return errors.Wrapf(ErrGeneralIssueInputArguments,
				"lane id lists must pair up, got %d and %d ids", len(incomingIDs), len(linkedIDs))
		}
		for i := range incomingIDs {
			sameSign := signInt(incomingIDs[i]) == signInt(linkedIDs[i])
			if (incomingContact == linkedContact) == sameSign {
				return errors.Wrapf(ErrMixingDrivingDirection,
					"the driving direction is not consistent when connecting roads %d and %d",
					incomingRoad.id, linkedRoad.id)
			}
		}
		if absInt(incomingIDs[0]) != absInt(linkedIDs[0]) {
			offset := absInt(absInt(incomingIDs[0]) - absInt(linkedIDs[0]))
			minLinked := lo.MinBy(linkedIDs, func(a, b int) bool { return absInt(a) < absInt(b) })
			if absInt(minLinked) == 1 {
				linkedLaneOffset = signInt(linkedIDs[0]) * offset
				incLaneOffset = -signInt(incomingIDs[0]*linkedIDs[0]) * linkedLaneOffset
			} else {
				incLaneOffset = signInt(incomingIDs[0]) * offset
				linkedLaneOffset = -signInt(incomingIDs[0]*linkedIDs[0]) * incLaneOffset
			}
		}
	default:
		return errors.Wrap(ErrTooManyOptionalArguments, "AddConnection takes at most two lane id lists")
	}

	if incomingContact == ContactPointStart {
		incomingRoad.predDirectJunction[linkedRoad.id] = incLaneOffset
	} else {
		incomingRoad.succDirectJunction[linkedRoad.id] = incLaneOffset
	}
	if linkedContact == ContactPointStart {
		linkedRoad.predDirectJunction[incomingRoad.id] = linkedLaneOffset
	} else {
		linkedRoad.succDirectJunction[incomingRoad.id] = linkedLaneOffset
	}

	connection := NewConnection(incomingRoad.id, linkedRoad.id, linkedContact)
	for i := range incomingIDs {
		connection.AddLaneLink(incomingIDs[i], linkedIDs[i])
	}
	dc.junction.AddConnection(connection)
	return nil
}
