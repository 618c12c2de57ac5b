package xodr

import (
	"math"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// AdjustmentDomain 道路几何调整的域，平面几何、高程与超高程
// 各自独立推算与标记
type AdjustmentDomain string

const (
	DomainPlanview       AdjustmentDomain = "planview"
	DomainElevation      AdjustmentDomain = "elevation"
	DomainSuperelevation AdjustmentDomain = "superelevation"
)

// RoadTypeRecord 道路类型记录，对应road下的type元素，可附带限速
type RoadTypeRecord struct {
	additionalData
	roadType  RoadType
	s         float64
	country   string
	speedMax  string
	speedUnit SpeedUnit
}

// NewRoadTypeRecord 创建类型记录，默认从s=0生效，限速单位m/s
func NewRoadTypeRecord(roadType RoadType) *RoadTypeRecord {
	return &RoadTypeRecord{roadType: roadType, speedUnit: SpeedUnitMS}
}

func (t *RoadTypeRecord) SetS(s float64) *RoadTypeRecord {
	t.s = s
	return t
}

func (t *RoadTypeRecord) SetCountry(country string) *RoadTypeRecord {
	t.country = country
	return t
}

// SetMaxSpeed 设置数值限速
func (t *RoadTypeRecord) SetMaxSpeed(speed float64, unit SpeedUnit) *RoadTypeRecord {
	t.speedMax = ftoa(speed)
	t.speedUnit = unit
	return t
}

// SetMaxSpeedText 设置非数值限速，仅允许"no limit"与"undefined"
func (t *RoadTypeRecord) SetMaxSpeedText(text string, unit SpeedUnit) *RoadTypeRecord {
	if text != "no limit" && text != "undefined" {
		log.Panicf("speed text can only be \"no limit\" or \"undefined\", not %q", text)
	}
	t.speedMax = text
	t.speedUnit = unit
	return t
}

func (t *RoadTypeRecord) Element() *etree.Element {
	elem := etree.NewElement("type")
	elem.CreateAttr("s", ftoa(t.s))
	elem.CreateAttr("type", string(t.roadType))
	if t.country != "" {
		elem.CreateAttr("country", t.country)
	}
	t.appendAdditionalData(elem)
	if t.speedMax != "" {
		speed := elem.CreateElement("speed")
		speed.CreateAttr("max", t.speedMax)
		speed.CreateAttr("unit", string(t.speedUnit))
	}
	return elem
}

// Road 道路实体，对应road元素
// 功能：组合平面几何、车道、纵横断面与前后链接，是路网的基本单元
// 说明：roadType为-1表示普通道路，非负值表示junction内部连接道路
// 且取值为junction编号；前驱与后继各至多一条，旁路链接至多两条
type Road struct {
	additionalData
	id       int
	name     string
	rule     TrafficRule
	planview *PlanView
	lanes    *Lanes
	roadType int
	// adjustable 非nil时道路几何待定，由路网调整器按两端邻接
	// 道路的位姿生成平面几何并重建车道
	adjustable *AdjustablePlanview

	links         links
	neighborCount int
	successor     *link
	predecessor   *link
	// laneOffsetSuc laneOffsetPred 按邻接元素编号记录车道错位数
	laneOffsetSuc  map[int]int
	laneOffsetPred map[int]int
	// succDirectJunction predDirectJunction 直连junction下按邻接
	// 道路编号记录车道错位数
	succDirectJunction map[int]int
	predDirectJunction map[int]int

	elevationAdjusted      bool
	superelevationAdjusted bool

	objects          []*Object
	tunnels          []*Tunnel
	signals          []*Signal
	signalReferences []*SignalReference
	types            []*RoadTypeRecord
	elevationProfile *ElevationProfile
	lateralProfile   *LateralProfile
}

// NewRoad 创建道路
// 参数：
//
//	roadID: 道路编号，路网内唯一
//	planview: 平面几何
//	lanes: 车道结构
func NewRoad(roadID int, planview *PlanView, lanes *Lanes) *Road {
	return &Road{
		id:                 roadID,
		planview:           planview,
		lanes:              lanes,
		roadType:           -1,
		rule:               TrafficRuleRHT,
		laneOffsetSuc:      make(map[int]int),
		laneOffsetPred:     make(map[int]int),
		succDirectJunction: make(map[int]int),
		predDirectJunction: make(map[int]int),
		elevationProfile:   NewElevationProfile(),
		lateralProfile:     NewLateralProfile(),
	}
}

// NewAdjustableRoad 创建几何待定的道路
// 说明：平面几何与车道在路网调整阶段由两端邻接道路的位姿反解，
// 调整前对道路几何的任何查询都是错误用法
func NewAdjustableRoad(roadID int, adjustable *AdjustablePlanview) *Road {
	road := NewRoad(roadID, nil, nil)
	road.adjustable = adjustable
	return road
}

// ID 返回道路编号
func (r *Road) ID() int {
	return r.id
}

func (r *Road) SetName(name string) *Road {
	r.name = name
	return r
}

func (r *Road) SetRule(rule TrafficRule) *Road {
	r.rule = rule
	return r
}

// SetRoadType 标记道路为junction内部连接道路，参数为junction编号
func (r *Road) SetRoadType(junctionID int) *Road {
	r.roadType = junctionID
	return r
}

// RoadType 返回所属junction编号，普通道路为-1
func (r *Road) RoadType() int {
	return r.roadType
}

// PlanView 返回道路平面几何
func (r *Road) PlanView() *PlanView {
	return r.planview
}

// Lanes 返回道路车道结构
func (r *Road) Lanes() *Lanes {
	return r.lanes
}

// ElevationProfile 返回道路纵断面
func (r *Road) ElevationProfile() *ElevationProfile {
	return r.elevationProfile
}

// LateralProfile 返回道路横断面
func (r *Road) LateralProfile() *LateralProfile {
	return r.lateralProfile
}

// AddSuccessor 设置道路的后继链接
// 参数：
//
//	elementType: 后继元素类型，道路或junction
//	elementID: 后继元素编号
//	contactPoint: 与后继相接的接触点，junction链接时可为ContactPointNone
//	laneOffset: 可选，与后继道路的车道错位数
func (r *Road) AddSuccessor(elementType ElementType, elementID int, contactPoint ContactPoint, laneOffset ...int) error {
	if r.successor != nil {
		return errors.Wrapf(ErrGeneralIssueInputArguments, "road %d already has a successor", r.id)
	}
	if len(laneOffset) > 1 {
		return errors.Wrap(ErrTooManyOptionalArguments, "AddSuccessor takes at most one lane offset")
	}
	suc := link{
		linkType:     LinkTypeSuccessor,
		elementID:    elementID,
		elementType:  elementType,
		contactPoint: contactPoint,
	}
	if err := r.links.add(suc); err != nil {
		return err
	}
	r.successor = &suc
	offset := 0
	if len(laneOffset) == 1 {
		offset = laneOffset[0]
	}
	r.laneOffsetSuc[elementID] = offset
	return nil
}

// AddPredecessor 设置道路的前驱链接，参数含义同AddSuccessor
func (r *Road) AddPredecessor(elementType ElementType, elementID int, contactPoint ContactPoint, laneOffset ...int) error {
	if r.predecessor != nil {
		return errors.Wrapf(ErrGeneralIssueInputArguments, "road %d already has a predecessor", r.id)
	}
	if len(laneOffset) > 1 {
		return errors.Wrap(ErrTooManyOptionalArguments, "AddPredecessor takes at most one lane offset")
	}
	pre := link{
		linkType:     LinkTypePredecessor,
		elementID:    elementID,
		elementType:  elementType,
		contactPoint: contactPoint,
	}
	if err := r.links.add(pre); err != nil {
		return err
	}
	r.predecessor = &pre
	offset := 0
	if len(laneOffset) == 1 {
		offset = laneOffset[0]
	}
	r.laneOffsetPred[elementID] = offset
	return nil
}

// AddNeighbor 添加旁路链接，至多两条
func (r *Road) AddNeighbor(elementType ElementType, elementID int, direction Direction) error {
	if r.neighborCount > 1 {
		return errors.Wrapf(ErrGeneralIssueInputArguments, "road %d already has two neighbors", r.id)
	}
	nb := link{
		linkType:    LinkTypeNeighbor,
		elementID:   elementID,
		elementType: elementType,
		direction:   direction,
	}
	if err := r.links.add(nb); err != nil {
		return err
	}
	r.neighborCount++
	return nil
}

// AddElevation 追加一条高程记录并标记高程已确定
func (r *Road) AddElevation(s, a, b, c, d float64) *Road {
	r.elevationProfile.AddElevation(s, a, b, c, d)
	r.elevationAdjusted = true
	return r
}

// AddSuperelevation 追加一条超高程记录并标记超高程已确定
func (r *Road) AddSuperelevation(s, a, b, c, d float64) *Road {
	r.lateralProfile.AddSuperelevation(s, a, b, c, d)
	r.superelevationAdjusted = true
	return r
}

// AddShape 追加一条横断面形状记录
func (r *Road) AddShape(s, t, a, b, c, d float64) *Road {
	r.lateralProfile.AddShape(s, t, a, b, c, d)
	return r
}

// IsAdjusted 查询指定域的几何是否已确定
func (r *Road) IsAdjusted(domain AdjustmentDomain) bool {
	switch domain {
	case DomainPlanview:
		return r.planview.Adjusted()
	case DomainElevation:
		return r.elevationAdjusted
	case DomainSuperelevation:
		return r.superelevationAdjusted
	}
	log.Panicf("unknown adjustment domain %s", domain)
	return false
}

// AddObject 添加道路物体，编号在道路加入路网时统一分配
func (r *Road) AddObject(objects ...*Object) *Road {
	r.objects = append(r.objects, objects...)
	return r
}

// AddTunnel 添加隧道记录
func (r *Road) AddTunnel(tunnels ...*Tunnel) *Road {
	r.tunnels = append(r.tunnels, tunnels...)
	return r
}

// AddSignal 添加信号，编号在道路加入路网时统一分配
func (r *Road) AddSignal(signals ...*Signal) *Road {
	r.signals = append(r.signals, signals...)
	return r
}

// AddSignalReference 添加信号引用
func (r *Road) AddSignalReference(refs ...*SignalReference) *Road {
	r.signalReferences = append(r.signalReferences, refs...)
	return r
}

// AddType 添加道路类型记录
func (r *Road) AddType(records ...*RoadTypeRecord) *Road {
	r.types = append(r.types, records...)
	return r
}

// AddObjectRoadside 沿道路两侧重复放置物体
// 功能：以prototype为原型在车道外边缘放置一列重复物体，
// t坐标取各车道段宽度之和加tOffset，车道段宽度变化处自动
// 拆分重复区间
// 参数：
//
//	prototype: 物体原型，每一侧各深拷贝一份
//	repeatDistance: 相邻物体间距，0表示连续
//	sOffset: 起始s坐标
//	tOffset: 在车道宽度之外追加的t偏移，符号自动按侧别确定
//	side: 放置侧别
//	dims: 可选的重复记录尺寸属性
//
// 说明：只能在路网调整完成后调用
func (r *Road) AddObjectRoadside(prototype *Object, repeatDistance, sOffset, tOffset float64, side RoadSide, dims ...RepeatOption) error {
	if !r.planview.Adjusted() {
		return errors.Wrap(ErrRoadsAndLanesNotAdjusted,
			"roadside objects require an adjusted road network, call AdjustRoadsAndLanes first")
	}
	secs := r.lanes.laneSections
	secLengths := make([]float64, len(secs))
	secStarts := make([]float64, len(secs))
	for i, sec := range secs {
		secStarts[i] = sec.s
		if i == len(secs)-1 {
			secLengths[i] = r.planview.TotalLength() - sec.s
		} else {
			secLengths[i] = secs[i+1].s - sec.s
		}
	}
	for _, roadSide := range []RoadSide{RoadSideLeft, RoadSideRight} {
		if side != RoadSideBoth && side != roadSide {
			continue
		}
		hdgFactor := 1.0
		if roadSide == RoadSideRight {
			hdgFactor = -1.0
		}
		totalWidths := make([]float64, len(secs))
		for i, sec := range secs {
			sideLanes := sec.leftLanes
			if roadSide == RoadSideRight {
				sideLanes = sec.rightLanes
			}
			for _, lane := range sideLanes {
				totalWidths[i] += lane.widths[0].a
			}
		}
		obj := prototype.clone()
		obj.t = (totalWidths[0] + tOffset) * hdgFactor
		obj.hdg = math.Pi * (1 + hdgFactor) / 2
		obj.s = sOffset
		var repeatLengths, repeatStarts, repeatTs []float64
		accumulated := 0.0
		for i, length := range secLengths {
			accumulated += length
			switch {
			case i == 0:
				repeatLengths = append(repeatLengths, accumulated-sOffset)
				repeatStarts = append(repeatStarts, sOffset)
				repeatTs = append(repeatTs, (totalWidths[i]+tOffset)*hdgFactor)
			case totalWidths[i] != totalWidths[i-1]:
				// 宽度变化处另起一条重复记录
				repeatLengths = append(repeatLengths, length)
				repeatStarts = append(repeatStarts, secStarts[i])
				repeatTs = append(repeatTs, (totalWidths[i]+tOffset)*hdgFactor)
			default:
				repeatLengths[len(repeatLengths)-1] += length
			}
		}
		for i, repeatLength := range repeatLengths {
			if repeatLength < 0 {
				return errors.Wrapf(ErrGeneralIssueInputArguments,
					"negative repeat length for roadside object %q, sOffset must be smaller than the road length", obj.name)
			}
			rec := &repeatRecord{
				length:   repeatLength,
				distance: repeatDistance,
				s:        repeatStarts[i],
				hasS:     true,
				tStart:   repeatTs[i],
				tEnd:     repeatTs[i],
				hasT:     true,
			}
			for _, opt := range dims {
				opt(rec)
			}
			obj.addRepeatRecord(rec)
		}
		r.AddObject(obj)
	}
	return nil
}

// EndPoint 返回道路终点的位姿，需在平面几何调整后调用
func (r *Road) EndPoint() (x, y, h float64) {
	return r.planview.EndPoint()
}

// assignEntityIDs 为道路上的信号与物体统一分配编号
func (r *Road) assignEntityIDs(alloc *IDAllocator) {
	for _, sig := range r.signals {
		sig.assignID(alloc)
	}
	for _, obj := range r.objects {
		obj.assignID(alloc)
	}
}

func (r *Road) Element() *etree.Element {
	elem := etree.NewElement("road")
	if r.name != "" {
		elem.CreateAttr("name", r.name)
	}
	if r.rule != "" {
		elem.CreateAttr("rule", string(r.rule))
	}
	elem.CreateAttr("id", itoa(r.id))
	elem.CreateAttr("junction", itoa(r.roadType))
	elem.CreateAttr("length", ftoa(r.planview.TotalLength()))
	r.appendAdditionalData(elem)
	elem.AddChild(r.links.Element())
	for _, t := range r.types {
		elem.AddChild(t.Element())
	}
	elem.AddChild(r.planview.Element())
	elem.AddChild(r.elevationProfile.Element())
	elem.AddChild(r.lateralProfile.Element())
	elem.AddChild(r.lanes.Element())
	if len(r.objects) > 0 || len(r.tunnels) > 0 {
		objectsElem := elem.CreateElement("objects")
		for _, obj := range r.objects {
			objectsElem.AddChild(obj.Element())
		}
		for _, tunnel := range r.tunnels {
			objectsElem.AddChild(tunnel.Element())
		}
	}
	if len(r.signals) > 0 || len(r.signalReferences) > 0 {
		signalsElem := elem.CreateElement("signals")
		for _, sig := range r.signals {
			signalsElem.AddChild(sig.Element())
		}
		for _, ref := range r.signalReferences {
			signalsElem.AddChild(ref.Element())
		}
	}
	return elem
}
