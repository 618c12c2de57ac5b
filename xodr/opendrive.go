package xodr

import (
	"math"
	"sort"
	"time"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// JunctionCreator 能产出路口及其内部连接道路的构造器
type JunctionCreator interface {
	Junction() *Junction
	ConnectingRoads() []*Road
}

// OpenDrive 一份完整的OpenDRIVE路网文档
// 功能：按加入顺序收纳道路与路口，提供路网级的几何一致性调整、
// 车道连接推定、高程传播与XML序列化
// 说明：道路几何以相对关系描述，序列化前必须经过调整把位姿
// 推定为绝对坐标；道路上信号与物体的编号冲突在加入时统一处理
type OpenDrive struct {
	additionalData
	name     string
	revMajor string
	revMinor string

	roads     map[int]*Road
	roadOrder []int

	junctions      []*Junction
	junctionGroups []*JunctionGroup

	idAlloc        *IDAllocator
	strictLinks    bool
	clothoidSolver ClothoidSolver
}

// NewOpenDrive 构造空路网文档，OpenDRIVE版本默认1.5
func NewOpenDrive(name string) *OpenDrive {
	return &OpenDrive{
		name:           name,
		revMajor:       "1",
		revMinor:       "5",
		roads:          make(map[int]*Road),
		idAlloc:        NewIDAllocator(),
		clothoidSolver: defaultClothoidSolver(),
	}
}

// SetRevision 设置OpenDRIVE主次版本号
func (odr *OpenDrive) SetRevision(major, minor string) *OpenDrive {
	odr.revMajor = major
	odr.revMinor = minor
	return odr
}

// SetStrictLaneLinking 车道数不一致的相接道路是否视为错误
// 说明：非严格模式下只连接编号能对上的车道并告警
func (odr *OpenDrive) SetStrictLaneLinking(strict bool) *OpenDrive {
	odr.strictLinks = strict
	return odr
}

// SetClothoidSolver 更换待定几何使用的G2求解器
func (odr *OpenDrive) SetClothoidSolver(solver ClothoidSolver) *OpenDrive {
	odr.clothoidSolver = solver
	return odr
}

// AddRoad 把道路加入路网
// 说明：道路编号重复返回错误；道路携带的信号与物体在此统一编号
func (odr *OpenDrive) AddRoad(road *Road) error {
	if _, ok := odr.roads[road.id]; ok {
		return errors.Wrapf(ErrIDAlreadyExists, "road %d has already been added", road.id)
	}
	if len(odr.roads) == 0 && road.predecessor != nil {
		log.Warnf("the first added road %d already declares a predecessor, add roads in connection order starting from the predecessor", road.id)
	}
	road.assignEntityIDs(odr.idAlloc)
	odr.roads[road.id] = road
	odr.roadOrder = append(odr.roadOrder, road.id)
	return nil
}

// RoadByID 按编号取道路，不存在时返回nil
func (odr *OpenDrive) RoadByID(id int) *Road {
	return odr.roads[id]
}

// Roads 全部道路，按加入顺序
func (odr *OpenDrive) Roads() []*Road {
	return lo.Map(odr.roadOrder, func(id int, _ int) *Road { return odr.roads[id] })
}

// AddJunction 把路口加入路网，编号重复返回错误
func (odr *OpenDrive) AddJunction(junction *Junction) error {
	for _, j := range odr.junctions {
		if j.id == junction.id {
			return errors.Wrapf(ErrIDAlreadyExists, "junction %d has already been added", junction.id)
		}
	}
	odr.junctions = append(odr.junctions, junction)
	return nil
}

// AddJunctionGroup 把路口组加入路网，编号重复返回错误
func (odr *OpenDrive) AddJunctionGroup(group *JunctionGroup) error {
	for _, g := range odr.junctionGroups {
		if g.groupID == group.groupID {
			return errors.Wrapf(ErrIDAlreadyExists, "junction group %d has already been added", group.groupID)
		}
	}
	odr.junctionGroups = append(odr.junctionGroups, group)
	return nil
}

// AddJunctionCreator 把构造器生成的路口并入路网
// 说明：default类型路口的连接道路一并加入；direct类型路口
// 没有实体连接道路，只登记路口记录本身
func (odr *OpenDrive) AddJunctionCreator(creator JunctionCreator) error {
	if creator.Junction().junctionType == JunctionTypeDefault {
		for _, road := range creator.ConnectingRoads() {
			if err := odr.AddRoad(road); err != nil {
				return err
			}
		}
	}
	return odr.AddJunction(creator.Junction())
}

// roadAdjusted 指定编号的道路是否已完成平面几何定位
func (odr *OpenDrive) roadAdjusted(roadID int) bool {
	road, ok := odr.roads[roadID]
	return ok && road.adjustable == nil && road.planview.Adjusted()
}

func sortedIntKeys(m map[int]int) []int {
	keys := lo.Keys(m)
	sort.Ints(keys)
	return keys
}

// AdjustStartpoints 推定全部道路参考线的绝对位姿
// 功能：以定桩道路为锚点，沿前驱后继关系把位姿逐条传播到全网；
// 待定几何道路在两端邻接道路定位后由G2求解器补全
// 说明：没有任何定桩道路时，最先加入的道路取默认原点位姿；
// 一轮传播没有任何进展说明路网不连通，返回错误
func (odr *OpenDrive) AdjustStartpoints() error {
	countTotal := 0
	anchored := false
	for _, id := range odr.roadOrder {
		road := odr.roads[id]
		if road.adjustable != nil {
			continue
		}
		if road.planview.Adjusted() {
			countTotal++
			anchored = true
		} else if road.planview.Fixed() {
			road.planview.AdjustGeometries(false)
			countTotal++
			anchored = true
		}
	}
	if len(odr.roads) > 0 && !anchored {
		first := -1
		for _, id := range odr.roadOrder {
			if odr.roads[id].adjustable == nil {
				first = id
				break
			}
		}
		if first == -1 {
			return errors.Wrap(ErrUndefinedRoadNetwork,
				"all roads have geometries to be estimated, at least one road needs a defined planview")
		}
		odr.roads[first].planview.AdjustGeometries(false)
		countTotal++
	}
	for countTotal < len(odr.roads) {
		countAdjusted := 0
		for _, id := range odr.roadOrder {
			road := odr.roads[id]
			if road.adjustable != nil {
				ok, err := odr.resolveAdjustablePlanview(road)
				if err != nil {
					return err
				}
				if ok {
					countAdjusted++
				}
				continue
			}
			if road.planview.Adjusted() {
				continue
			}
			switch {
			case road.predecessor != nil && road.predecessor.elementType != ElementTypeJunction &&
				odr.roadAdjusted(road.predecessor.elementID):
				odr.adjustRoadWrtNeighbor(road.id, road.predecessor.elementID, road.predecessor.contactPoint, LinkTypePredecessor)
				countAdjusted++
				countAdjusted += odr.chainAdjustJunctionNeighbor(road, true)
			case road.successor != nil && road.successor.elementType != ElementTypeJunction &&
				odr.roadAdjusted(road.successor.elementID):
				odr.adjustRoadWrtNeighbor(road.id, road.successor.elementID, road.successor.contactPoint, LinkTypeSuccessor)
				countAdjusted++
				countAdjusted += odr.chainAdjustJunctionNeighbor(road, false)
			case len(road.succDirectJunction) > 0 || len(road.predDirectJunction) > 0:
				n, err := odr.adjustViaDirectJunction(road)
				if err != nil {
					return err
				}
				countAdjusted += n
			}
		}
		countTotal += countAdjusted
		if countTotal != len(odr.roads) && countAdjusted == 0 {
			return errors.Wrap(ErrUndefinedRoadNetwork,
				"roads are missing successors or predecessors to connect to, a disconnected network needs a start position on one of its planviews")
		}
	}
	return nil
}

// chainAdjustJunctionNeighbor 连接道路定位后顺带定位其另一端的邻接道路
// 参数：
//
//	road: 刚完成定位的junction内部连接道路
//	towardSuccessor: 为true时顺延其后继，否则顺延其前驱
//
// 返回：顺延定位的道路数（0或1）
// 说明：连接道路两端固定接在进出口道路上，一端定了另一端随即可定，
// 不必等下一轮传播
func (odr *OpenDrive) chainAdjustJunctionNeighbor(road *Road, towardSuccessor bool) int {
	if road.roadType == -1 {
		return 0
	}
	var l *link
	var cp ContactPoint
	if towardSuccessor {
		l = road.successor
		cp = ContactPointEnd
	} else {
		l = road.predecessor
		cp = ContactPointStart
	}
	if l == nil || l.elementType != ElementTypeRoad {
		return 0
	}
	neighbor, ok := odr.roads[l.elementID]
	if !ok || neighbor.adjustable != nil || neighbor.planview.Adjusted() {
		return 0
	}
	if l.contactPoint == ContactPointStart {
		odr.adjustRoadWrtNeighbor(neighbor.id, road.id, cp, LinkTypePredecessor)
	} else {
		odr.adjustRoadWrtNeighbor(neighbor.id, road.id, cp, LinkTypeSuccessor)
	}
	return 1
}

// adjustViaDirectJunction 借助direct junction对侧已定位的道路完成定位
// 返回：完成定位的道路数（0或1）与接触点无法判定时的错误
func (odr *OpenDrive) adjustViaDirectJunction(road *Road) (int, error) {
	if road.successor != nil && road.successor.elementType == ElementTypeJunction {
		for _, dr := range sortedIntKeys(road.succDirectJunction) {
			if !odr.roadAdjusted(dr) {
				continue
			}
			cp, err := odr.directJunctionContactPoint(odr.roads[dr], road)
			if err != nil {
				return 0, err
			}
			odr.adjustRoadWrtNeighbor(road.id, dr, cp, LinkTypeSuccessor)
			return 1, nil
		}
	}
	if road.predecessor != nil && road.predecessor.elementType == ElementTypeJunction {
		for _, dr := range sortedIntKeys(road.predDirectJunction) {
			if !odr.roadAdjusted(dr) {
				continue
			}
			cp, err := odr.directJunctionContactPoint(odr.roads[dr], road)
			if err != nil {
				return 0, err
			}
			odr.adjustRoadWrtNeighbor(road.id, dr, cp, LinkTypePredecessor)
			return 1, nil
		}
	}
	return 0, nil
}

// directJunctionContactPoint 从邻接道路的direct junction记录反查接触点
func (odr *OpenDrive) directJunctionContactPoint(neighbor, road *Road) (ContactPoint, error) {
	if _, ok := neighbor.succDirectJunction[road.id]; ok {
		return ContactPointEnd, nil
	}
	if _, ok := neighbor.predDirectJunction[road.id]; ok {
		return ContactPointStart, nil
	}
	return ContactPointNone, errors.Wrapf(ErrUndefinedRoadNetwork,
		"the direct junction between roads %d and %d is not properly defined", road.id, neighbor.id)
}

// adjustRoadWrtNeighbor 以已定位的邻接道路为基准定位目标道路
// 参数：
//
//	roadID: 待定位道路
//	neighborID: 基准道路，平面几何已定位
//	contactPoint: 与基准道路相接的接触点
//	linkType: 基准道路相对目标道路是前驱还是后继
//
// 说明：基准为前驱时自接触位姿正向铺设目标道路，基准为后继时
// 反向铺设；接触处有车道错位时按错位车道宽度横向平移锚点
func (odr *OpenDrive) adjustRoadWrtNeighbor(roadID, neighborID int, contactPoint ContactPoint, linkType LinkType) {
	road := odr.roads[roadID]
	neighbor := odr.roads[neighborID]

	var x, y, h float64
	switch contactPoint {
	case ContactPointStart:
		x, y, h = neighbor.planview.StartPoint()
		h += math.Pi
	case ContactPointEnd:
		x, y, h = neighbor.planview.EndPoint()
	default:
		log.Panicf("unknown contact point %q between roads %d and %d", contactPoint, roadID, neighborID)
	}

	if linkType == LinkTypePredecessor {
		numLaneOffsets := 0
		if len(road.predDirectJunction) > 0 {
			numLaneOffsets = road.predDirectJunction[neighborID]
		} else {
			numLaneOffsets = road.laneOffsetPred[neighborID]
		}
		offsetWidth := odr.calculateLaneOffsetWidth(neighborID, numLaneOffsets, contactPoint)
		x += -offsetWidth * math.Sin(h)
		y += offsetWidth * math.Cos(h)
		road.planview.SetStartPoint(x, y, h)
		road.planview.AdjustGeometries(false)
	} else {
		numLaneOffsets := 0
		if len(road.succDirectJunction) > 0 {
			numLaneOffsets = road.succDirectJunction[neighborID]
		} else {
			numLaneOffsets = road.laneOffsetSuc[neighborID]
		}
		offsetWidth := odr.calculateLaneOffsetWidth(neighborID, numLaneOffsets, contactPoint)
		x += offsetWidth * math.Sin(h)
		y += -offsetWidth * math.Cos(h)
		road.planview.SetStartPoint(x, y, h)
		road.planview.AdjustGeometries(true)
	}
}

// calculateLaneOffsetWidth 车道错位对应的横向偏移宽度
// 参数：
//
//	neighborID: 基准道路编号
//	numLaneOffsets: 错位车道数，负值取右侧车道，正值取左侧车道
//	contactPoint: 在基准道路哪一端取车道宽度
func (odr *OpenDrive) calculateLaneOffsetWidth(neighborID, numLaneOffsets int, contactPoint ContactPoint) float64 {
	if numLaneOffsets == 0 {
		return 0
	}
	neighbor := odr.roads[neighborID]
	secIdx, relevantS := laneSecAndSForLaneCalc(neighbor, contactPoint)
	section := neighbor.lanes.laneSections[secIdx]

	offsetWidth := 0.0
	if numLaneOffsets < 0 {
		n := -numLaneOffsets
		if n > len(section.rightLanes) {
			n = len(section.rightLanes)
		}
		for _, lane := range section.rightLanes[:n] {
			offsetWidth -= lane.WidthAt(relevantS)
		}
	} else {
		n := numLaneOffsets
		if n > len(section.leftLanes) {
			n = len(section.leftLanes)
		}
		for _, lane := range section.leftLanes[:n] {
			offsetWidth += lane.WidthAt(relevantS)
		}
	}
	return offsetWidth
}

// estimationNeighbor 待定几何道路一端实际相接的道路及接触点
// 说明：junction类link只支持direct junction；对侧道路尚未定位时
// 返回nil道路，等待后续轮次
func (odr *OpenDrive) estimationNeighbor(road *Road, l *link, directJunction map[int]int) (*Road, ContactPoint, error) {
	if l.elementType == ElementTypeRoad {
		if !odr.roadAdjusted(l.elementID) {
			return nil, ContactPointNone, nil
		}
		return odr.roads[l.elementID], l.contactPoint, nil
	}
	if len(directJunction) == 0 {
		return nil, ContactPointNone, errors.Wrapf(ErrUndefinedRoadNetwork,
			"road %d has a geometry to be estimated and cannot connect through a common junction", road.id)
	}
	for _, dr := range sortedIntKeys(directJunction) {
		if !odr.roadAdjusted(dr) {
			continue
		}
		cp, err := odr.directJunctionContactPoint(odr.roads[dr], road)
		if err != nil {
			return nil, ContactPointNone, err
		}
		return odr.roads[dr], cp, nil
	}
	return nil, ContactPointNone, nil
}

// resolveAdjustablePlanview 为待定几何道路反解平面图与车道
// 功能：两端邻接道路均已定位时，取两端接触位姿（含车道错位补偿）
// 交给G2求解器生成回旋线组，再按保存的车道描述重建车道
// 返回：本次是否完成求解，邻接道路未就绪时返回false等待下一轮
func (odr *OpenDrive) resolveAdjustablePlanview(road *Road) (bool, error) {
	if road.predecessor == nil || road.successor == nil {
		return false, errors.Wrapf(ErrUndefinedRoadNetwork,
			"road %d has a geometry to be estimated and needs both a predecessor and a successor", road.id)
	}
	predRoad, predCP, err := odr.estimationNeighbor(road, road.predecessor, road.predDirectJunction)
	if err != nil {
		return false, err
	}
	sucRoad, sucCP, err := odr.estimationNeighbor(road, road.successor, road.succDirectJunction)
	if err != nil {
		return false, err
	}
	if predRoad == nil || sucRoad == nil {
		return false, nil
	}

	var xStart, yStart, hStart float64
	if predCP == ContactPointStart {
		xStart, yStart, hStart = predRoad.planview.StartPoint()
		hStart += math.Pi
	} else {
		xStart, yStart, hStart = predRoad.planview.EndPoint()
	}
	predOffsets := 0
	if len(road.predDirectJunction) > 0 {
		predOffsets = road.predDirectJunction[predRoad.id]
	} else {
		predOffsets = road.laneOffsetPred[predRoad.id]
	}
	wPred := odr.calculateLaneOffsetWidth(predRoad.id, predOffsets, predCP)
	xStart += -wPred * math.Sin(hStart)
	yStart += wPred * math.Cos(hStart)

	// 终点航向取道路行进方向，接触在对侧道路终点时翻转其位姿航向
	var xEnd, yEnd, hEnd float64
	if sucCP == ContactPointStart {
		xEnd, yEnd, hEnd = sucRoad.planview.StartPoint()
	} else {
		xEnd, yEnd, hEnd = sucRoad.planview.EndPoint()
		hEnd += math.Pi
	}
	sucOffsets := 0
	if len(road.succDirectJunction) > 0 {
		sucOffsets = road.succDirectJunction[sucRoad.id]
	} else {
		sucOffsets = road.laneOffsetSuc[sucRoad.id]
	}
	wSuc := odr.calculateLaneOffsetWidth(sucRoad.id, sucOffsets, sucCP)
	xEnd += -wSuc * math.Sin(hEnd)
	yEnd += wSuc * math.Cos(hEnd)

	segments, err := odr.clothoidSolver.SolveG2(xStart, yStart, hStart, stdStartCloth, xEnd, yEnd, hEnd, stdStartCloth)
	if err != nil {
		return false, errors.Wrapf(err, "cannot estimate a geometry for road %d", road.id)
	}
	pv := NewPlanView()
	pv.SetStartPoint(xStart, yStart, hStart)
	for _, seg := range segments {
		spiral, err := NewSpiral(seg.KappaStart, seg.KappaEnd, WithLength(seg.Length))
		if err != nil {
			return false, errors.Wrapf(err, "cannot build the estimated geometry for road %d", road.id)
		}
		if err := pv.AddGeometry(spiral); err != nil {
			return false, err
		}
	}
	pv.AdjustGeometries(false)

	spec := road.adjustable
	var lanes *Lanes
	if spec.LaneWidthEnd > 0 {
		lanes, err = CreateLanesMergeSplit(spec.RightLanes, spec.LeftLanes, pv.TotalLength(),
			spec.CenterRoadMark, spec.LaneWidth, spec.LaneWidthEnd)
	} else {
		lanes, err = CreateLanesMergeSplit(spec.RightLanes, spec.LeftLanes, pv.TotalLength(),
			spec.CenterRoadMark, spec.LaneWidth)
	}
	if err != nil {
		return false, errors.Wrapf(err, "cannot rebuild lanes for road %d", road.id)
	}
	road.planview = pv
	road.lanes = lanes
	road.adjustable = nil
	return true, nil
}

// AdjustRoadsAndLanes 路网一致性调整总入口
// 功能：先推定全部道路位姿，再为所有相接的道路两两建立车道连接，
// 最后把高程与超高程剖面传播到未设置的道路
func (odr *OpenDrive) AdjustRoadsAndLanes() error {
	if err := odr.AdjustStartpoints(); err != nil {
		return err
	}
	for i := 0; i < len(odr.roadOrder); i++ {
		for j := i + 1; j < len(odr.roadOrder); j++ {
			if err := createLaneLinks(odr.roads[odr.roadOrder[i]], odr.roads[odr.roadOrder[j]], odr.strictLinks); err != nil {
				return err
			}
		}
	}
	return odr.AdjustRoadElevations()
}

// linksToRoad link是否为指向给定道路的道路类link
func linksToRoad(l *link, roadID int) bool {
	return l != nil && l.elementType == ElementTypeRoad && l.elementID == roadID
}

// neighborRoadsViaLink 枚举一条link实际相接的全部道路
// 说明：junction类link按direct junction记录展开，没有记录时
// 视为common junction，相接道路为该junction内链接到本道路的
// 连接道路
func (odr *OpenDrive) neighborRoadsViaLink(road *Road, l *link, directJunction map[int]int) []*Road {
	if l == nil {
		return nil
	}
	switch l.elementType {
	case ElementTypeRoad:
		if neighbor, ok := odr.roads[l.elementID]; ok {
			return []*Road{neighbor}
		}
	case ElementTypeJunction:
		var out []*Road
		if len(directJunction) > 0 {
			for _, id := range sortedIntKeys(directJunction) {
				if neighbor, ok := odr.roads[id]; ok {
					out = append(out, neighbor)
				}
			}
			return out
		}
		for _, id := range odr.roadOrder {
			neighbor := odr.roads[id]
			if neighbor.roadType == l.elementID &&
				(linksToRoad(neighbor.predecessor, road.id) || linksToRoad(neighbor.successor, road.id)) {
				out = append(out, neighbor)
			}
		}
		return out
	}
	return nil
}

// AdjustRoadElevations 把高程与超高程剖面传播到未设置的道路
// 功能：对两个剖面域分别做固定点迭代，每轮用已确定剖面的邻接
// 道路推算未确定道路，直到全网确定
// 说明：超高程先于高程处理，direct junction处的高程横向补偿
// 依赖对侧道路的超高程；某个域内没有任何道路设置过剖面时该域
// 整体跳过，全网保持平坦
func (odr *OpenDrive) AdjustRoadElevations() error {
	for _, domain := range []AdjustmentDomain{DomainSuperelevation, DomainElevation} {
		adjusted := 0
		for _, id := range odr.roadOrder {
			if odr.roads[id].IsAdjusted(domain) {
				adjusted++
			}
		}
		if adjusted == 0 {
			continue
		}
		for adjusted < len(odr.roads) {
			progress := 0
			for _, id := range odr.roadOrder {
				road := odr.roads[id]
				if road.IsAdjusted(domain) {
					continue
				}
				calc := NewElevationCalculator(road)
				for _, neighbor := range odr.neighborRoadsViaLink(road, road.successor, road.succDirectJunction) {
					if !neighbor.IsAdjusted(domain) {
						continue
					}
					if err := calc.AddSuccessor(neighbor); err != nil {
						return err
					}
				}
				for _, neighbor := range odr.neighborRoadsViaLink(road, road.predecessor, road.predDirectJunction) {
					if !neighbor.IsAdjusted(domain) {
						continue
					}
					if err := calc.AddPredecessor(neighbor); err != nil {
						return err
					}
				}
				calc.CreateProfile(domain)
				if road.IsAdjusted(domain) {
					progress++
					adjusted++
				}
			}
			if progress == 0 {
				return errors.Wrapf(ErrUndefinedRoadNetwork,
					"cannot spread the %s profile to all roads, disconnected roads need their own profile", domain)
			}
		}
	}
	return nil
}

func (odr *OpenDrive) headerElement() *etree.Element {
	elem := etree.NewElement("header")
	elem.CreateAttr("name", odr.name)
	elem.CreateAttr("revMajor", odr.revMajor)
	elem.CreateAttr("revMinor", odr.revMinor)
	elem.CreateAttr("date", time.Now().Format("2006-01-02 15:04:05"))
	elem.CreateAttr("north", "0.0")
	elem.CreateAttr("south", "0.0")
	elem.CreateAttr("east", "0.0")
	elem.CreateAttr("west", "0.0")
	return elem
}

// Element 输出OpenDRIVE根元素
// 说明：道路按加入顺序序列化；调整后补加的信号与物体在此完成编号
func (odr *OpenDrive) Element() *etree.Element {
	elem := etree.NewElement("OpenDRIVE")
	odr.appendAdditionalData(elem)
	elem.AddChild(odr.headerElement())
	for _, id := range odr.roadOrder {
		road := odr.roads[id]
		road.assignEntityIDs(odr.idAlloc)
		elem.AddChild(road.Element())
	}
	for _, junction := range odr.junctions {
		elem.AddChild(junction.Element())
	}
	for _, group := range odr.junctionGroups {
		elem.AddChild(group.Element())
	}
	return elem
}

// WriteXML 把路网写入.xodr文件
// 参数：
//
//	filename: 目标路径，缺省为路网名加.xodr后缀
func (odr *OpenDrive) WriteXML(filename ...string) error {
	if len(filename) > 1 {
		return errors.Wrap(ErrTooManyOptionalArguments, "WriteXML takes at most one filename")
	}
	path := odr.name + ".xodr"
	if len(filename) == 1 {
		path = filename[0]
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(odr.Element())
	doc.Indent(4)
	if err := doc.WriteToFile(path); err != nil {
		return errors.Wrapf(err, "cannot write OpenDRIVE file %s", path)
	}
	return nil
}
