package xodr

import (
	"math"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// profileKind 剖面记录的种类，同时也是序列化时的元素名
type profileKind string

const (
	profileElevation      profileKind = "elevation"
	profileSuperelevation profileKind = "superelevation"
	profileShape          profileKind = "shape"
)

// Poly3Profile 沿s方向的三次多项式剖面记录
// 功能：以elev(ds)=a+b*ds+c*ds^2+d*ds^3描述道路纵断面高程、
// 超高程或横断面形状，三类记录共用此结构
// 说明：仅shape记录携带t坐标
type Poly3Profile struct {
	s, a, b, c, d float64
	t             float64
	kind          profileKind
}

// S 返回记录的起始s坐标
func (p *Poly3Profile) S() float64 {
	return p.s
}

// Coeffs 返回多项式系数[a b c d]
func (p *Poly3Profile) Coeffs() [4]float64 {
	return [4]float64{p.a, p.b, p.c, p.d}
}

// EvalAt 求s处的剖面值
// 说明：s不得小于记录起点，越界属调用方错误
func (p *Poly3Profile) EvalAt(s float64) float64 {
	if s < p.s {
		log.Panicf("evaluating %s profile at s=%v before its start s=%v", p.kind, s, p.s)
	}
	ds := s - p.s
	return p.a + p.b*ds + p.c*ds*ds + p.d*ds*ds*ds
}

// EvalDerivativeAt 求s处剖面值对s的导数
func (p *Poly3Profile) EvalDerivativeAt(s float64) float64 {
	if s < p.s {
		log.Panicf("evaluating %s profile derivative at s=%v before its start s=%v", p.kind, s, p.s)
	}
	ds := s - p.s
	return p.b + 2*p.c*ds + 3*p.d*ds*ds
}

// evalTAt 求(s,t)处由剖面引起的高程偏移
// 说明：高程记录与t无关，超高程按横坡角的正弦换算，shape暂不支持
func (p *Poly3Profile) evalTAt(s, t float64) float64 {
	switch p.kind {
	case profileElevation:
		return p.EvalAt(s)
	case profileSuperelevation:
		return t * math.Sin(p.EvalAt(s))
	default:
		log.Panicf("t evaluation is not supported for %s profiles", p.kind)
		return 0
	}
}

// Element 序列化为对应种类的XML元素
func (p *Poly3Profile) Element() *etree.Element {
	elem := etree.NewElement(string(p.kind))
	elem.CreateAttr("s", ftoa(p.s))
	if p.kind == profileShape {
		elem.CreateAttr("t", ftoa(p.t))
	}
	elem.CreateAttr("a", ftoa(p.a))
	elem.CreateAttr("b", ftoa(p.b))
	elem.CreateAttr("c", ftoa(p.c))
	elem.CreateAttr("d", ftoa(p.d))
	return elem
}

// lastProfileBefore 取records中最后一条s起点不超过s的记录
func lastProfileBefore(records []*Poly3Profile, s float64) *Poly3Profile {
	var found *Poly3Profile
	for _, r := range records {
		if r.s <= s {
			found = r
		}
	}
	if found == nil {
		log.Panicf("no profile record covers s=%v", s)
	}
	return found
}

// ElevationProfile 道路纵断面，对应elevationProfile元素
type ElevationProfile struct {
	additionalData
	elevations []*Poly3Profile
}

// NewElevationProfile 创建空的纵断面
func NewElevationProfile() *ElevationProfile {
	return &ElevationProfile{}
}

// AddElevation 追加一条高程记录
func (e *ElevationProfile) AddElevation(s, a, b, c, d float64) *ElevationProfile {
	e.elevations = append(e.elevations, &Poly3Profile{
		s: s, a: a, b: b, c: c, d: d,
		kind: profileElevation,
	})
	return e
}

// Elevations 返回全部高程记录
func (e *ElevationProfile) Elevations() []*Poly3Profile {
	return e.elevations
}

// EvalAt 求s处的高程
func (e *ElevationProfile) EvalAt(s float64) float64 {
	return lastProfileBefore(e.elevations, s).EvalAt(s)
}

// EvalDerivativeAt 求s处的高程导数（纵坡）
func (e *ElevationProfile) EvalDerivativeAt(s float64) float64 {
	return lastProfileBefore(e.elevations, s).EvalDerivativeAt(s)
}

func (e *ElevationProfile) Element() *etree.Element {
	elem := etree.NewElement("elevationProfile")
	e.appendAdditionalData(elem)
	for _, rec := range e.elevations {
		elem.AddChild(rec.Element())
	}
	return elem
}

// LateralProfile 道路横断面，对应lateralProfile元素，
// 由超高程记录与shape记录组成
type LateralProfile struct {
	additionalData
	superelevations []*Poly3Profile
	shapes          []*Poly3Profile
}

// NewLateralProfile 创建空的横断面
func NewLateralProfile() *LateralProfile {
	return &LateralProfile{}
}

// AddSuperelevation 追加一条超高程记录
func (lp *LateralProfile) AddSuperelevation(s, a, b, c, d float64) *LateralProfile {
	lp.superelevations = append(lp.superelevations, &Poly3Profile{
		s: s, a: a, b: b, c: c, d: d,
		kind: profileSuperelevation,
	})
	return lp
}

// AddShape 追加一条横断面形状记录
func (lp *LateralProfile) AddShape(s, t, a, b, c, d float64) *LateralProfile {
	lp.shapes = append(lp.shapes, &Poly3Profile{
		s: s, a: a, b: b, c: c, d: d, t: t,
		kind: profileShape,
	})
	return lp
}

// Superelevations 返回全部超高程记录
func (lp *LateralProfile) Superelevations() []*Poly3Profile {
	return lp.superelevations
}

// Shapes 返回全部形状记录
func (lp *LateralProfile) Shapes() []*Poly3Profile {
	return lp.shapes
}

// SuperelevationAt 求s处的超高程（横坡角），无记录时为0
func (lp *LateralProfile) SuperelevationAt(s float64) float64 {
	if len(lp.superelevations) == 0 {
		return 0
	}
	return lastProfileBefore(lp.superelevations, s).EvalAt(s)
}

// TSuperelevationAt 求(s,t)处由超高程引起的高程偏移，无记录时为0
func (lp *LateralProfile) TSuperelevationAt(s, t float64) float64 {
	if len(lp.superelevations) == 0 {
		return 0
	}
	return lastProfileBefore(lp.superelevations, s).evalTAt(s, t)
}

// SuperelevationDerivativeAt 求s处的超高程导数，无记录时为0
func (lp *LateralProfile) SuperelevationDerivativeAt(s float64) float64 {
	if len(lp.superelevations) == 0 {
		return 0
	}
	return lastProfileBefore(lp.superelevations, s).EvalDerivativeAt(s)
}

func (lp *LateralProfile) Element() *etree.Element {
	elem := etree.NewElement("lateralProfile")
	lp.appendAdditionalData(elem)
	for _, rec := range lp.superelevations {
		elem.AddChild(rec.Element())
	}
	for _, rec := range lp.shapes {
		elem.AddChild(rec.Element())
	}
	return elem
}

// solveProfileCoeffs 按两端的值与导数约束求解三次多项式系数
// 参数：
//
//	length: 多项式定义域长度
//	v0, d0: ds=0处的值与导数
//	v1, d1: ds=length处的值与导数
//
// 返回：[a b c d]系数数组
func solveProfileCoeffs(length, v0, d0, v1, d1 float64) [4]float64 {
	a := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		1, length, length * length, length * length * length,
		0, 1, 2 * length, 3 * length * length,
	})
	b := mat.NewVecDense(4, []float64{v0, d0, v1, d1})
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		log.Panicf("profile boundary system over length %v is singular: %v", length, err)
	}
	return [4]float64{x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3)}
}

// elevationConnection 参与高程推算的一条邻接关系
type elevationConnection struct {
	road         *Road
	contactPoint ContactPoint
	// lateralOffset 直连junction下因车道错位产生的高程偏移
	lateralOffset float64
}

// ElevationCalculator 基于邻接道路推算道路高程与超高程剖面
// 功能：收集主路前后邻接道路中已确定剖面的道路，按接触点读出
// 边界处的值与导数，双侧邻接时拟合三次多项式、单侧邻接时线性
// 延伸，并处理直连junction车道错位引起的横向高程偏移
// 说明：junction内部道路两侧均有邻接时结果存在歧义，只告警不报错
type ElevationCalculator struct {
	mainRoad     *Road
	successors   []*elevationConnection
	predecessors []*elevationConnection

	elevationNeeded      bool
	superelevationNeeded bool

	activeSuccessor   *elevationConnection
	activePredecessor *elevationConnection
}

// NewElevationCalculator 创建针对mainRoad的高程推算器
func NewElevationCalculator(mainRoad *Road) *ElevationCalculator {
	return &ElevationCalculator{
		mainRoad:             mainRoad,
		elevationNeeded:      !mainRoad.IsAdjusted(DomainElevation),
		superelevationNeeded: !mainRoad.IsAdjusted(DomainSuperelevation),
	}
}

func (ec *ElevationCalculator) resetActiveRoads() {
	ec.activeSuccessor = nil
	ec.activePredecessor = nil
}

// SetZeroElevation 为主路写入全零高程剖面
func (ec *ElevationCalculator) SetZeroElevation() {
	ec.mainRoad.AddElevation(0, 0, 0, 0, 0)
	ec.elevationNeeded = false
}

// linksToMain 判断邻接道路的某端链接是否指回主路
// 说明：直连junction场景通过offset映射里是否含主路编号判定，
// 普通junction的连接道路通过其所属junction编号判定
func (ec *ElevationCalculator) linksToMain(l *link, directJunction map[int]int) bool {
	if l == nil {
		return false
	}
	switch l.elementType {
	case ElementTypeRoad:
		return l.elementID == ec.mainRoad.id
	case ElementTypeJunction:
		if len(directJunction) > 0 {
			_, ok := directJunction[ec.mainRoad.id]
			return ok
		}
		return ec.mainRoad.roadType == l.elementID
	}
	return false
}

// AddSuccessor 登记一条后继邻接道路，junction场景可多次调用
func (ec *ElevationCalculator) AddSuccessor(successor *Road) error {
	var cp ContactPoint
	switch {
	case ec.linksToMain(successor.predecessor, successor.predDirectJunction):
		cp = ContactPointStart
	case ec.linksToMain(successor.successor, successor.succDirectJunction):
		cp = ContactPointEnd
	default:
		return errors.Wrapf(ErrUndefinedRoadNetwork,
			"cannot determine the contact point between road %d and its successor road %d",
			ec.mainRoad.id, successor.id)
	}
	ec.successors = append(ec.successors, &elevationConnection{road: successor, contactPoint: cp})
	ec.calculateLateralOffsets()
	return nil
}

// AddPredecessor 登记一条前驱邻接道路，junction场景可多次调用
func (ec *ElevationCalculator) AddPredecessor(predecessor *Road) error {
	var cp ContactPoint
	switch {
	case ec.linksToMain(predecessor.predecessor, predecessor.predDirectJunction):
		cp = ContactPointStart
	case ec.linksToMain(predecessor.successor, predecessor.succDirectJunction):
		cp = ContactPointEnd
	default:
		return errors.Wrapf(ErrUndefinedRoadNetwork,
			"cannot determine the contact point between road %d and its predecessor road %d",
			ec.mainRoad.id, predecessor.id)
	}
	ec.predecessors = append(ec.predecessors, &elevationConnection{road: predecessor, contactPoint: cp})
	ec.calculateLateralOffsets()
	return nil
}

// sectionByIdx 取道路的车道段，idx为负表示末段
func sectionByIdx(road *Road, idx int) *LaneSection {
	secs := road.lanes.laneSections
	if idx < 0 {
		return secs[len(secs)-1]
	}
	return secs[idx]
}

// lateralElevationOffset 求直连junction下车道错位引起的高程偏移
// 功能：沿错位跨过的车道累加宽度得到t坐标，再按该道路的超高程
// 将t换算为高程偏移；错位侧车道数不足时改按主路另一端的车道计算
// 参数：
//
//	road: 邻接道路
//	sectionIdx: 邻接道路上相连的车道段下标，负值表示末段
//	offsets: 错位的车道数，符号区分左右
//	mainSectionIdx: 主路上相连的车道段下标
func (ec *ElevationCalculator) lateralElevationOffset(road *Road, sectionIdx, offsets, mainSectionIdx int) float64 {
	if offsets == 0 {
		return 0
	}
	target, idx := road, sectionIdx
	if offsets < 0 && len(sectionByIdx(road, sectionIdx).rightLanes) < absInt(offsets) {
		target, idx, offsets = ec.mainRoad, mainSectionIdx, -offsets
	} else if offsets > 0 && len(sectionByIdx(road, sectionIdx).leftLanes) < absInt(offsets) {
		target, idx, offsets = ec.mainRoad, mainSectionIdx, -offsets
	}
	sValue := 0.0
	if idx < 0 {
		sValue = target.planview.TotalLength()
	}
	sec := sectionByIdx(target, idx)
	tValue := 0.0
	if offsets < 0 {
		for i := 0; i < absInt(offsets); i++ {
			tValue += sec.rightLanes[i].WidthAt(sValue)
		}
	} else {
		for i := 0; i < absInt(offsets); i++ {
			tValue -= sec.leftLanes[i].WidthAt(sValue)
		}
	}
	return target.lateralProfile.TSuperelevationAt(sValue, tValue)
}

// calculateLateralOffsets 刷新所有直连junction邻接道路的高程偏移
// 说明：任何道路的超高程更新后偏移都可能变化，需在推算前重算
func (ec *ElevationCalculator) calculateLateralOffsets() {
	for _, sc := range ec.successors {
		predOff, inPred := sc.road.predDirectJunction[ec.mainRoad.id]
		succOff, inSucc := sc.road.succDirectJunction[ec.mainRoad.id]
		switch {
		case sc.road.predecessor != nil && sc.road.predecessor.elementType == ElementTypeJunction && inPred:
			sc.lateralOffset = ec.lateralElevationOffset(sc.road, 0, predOff, -1)
		case sc.road.successor != nil && sc.road.successor.elementType == ElementTypeJunction && inSucc:
			sc.lateralOffset = ec.lateralElevationOffset(sc.road, -1, succOff, -1)
		}
	}
	for _, pc := range ec.predecessors {
		succOff, inSucc := pc.road.succDirectJunction[ec.mainRoad.id]
		predOff, inPred := pc.road.predDirectJunction[ec.mainRoad.id]
		switch {
		case pc.road.successor != nil && pc.road.successor.elementType == ElementTypeJunction && inSucc:
			pc.lateralOffset = ec.lateralElevationOffset(pc.road, -1, succOff, 0)
		case pc.road.predecessor != nil && pc.road.predecessor.elementType == ElementTypeJunction && inPred:
			pc.lateralOffset = ec.lateralElevationOffset(pc.road, -1, predOff, 0)
		}
	}
}

// setActiveRoads 在邻接道路中挑出指定域已确定剖面的道路作为推算基准
func (ec *ElevationCalculator) setActiveRoads(domain AdjustmentDomain) {
	for _, sc := range ec.successors {
		if sc.road.IsAdjusted(domain) {
			ec.activeSuccessor = sc
		}
	}
	for _, pc := range ec.predecessors {
		if pc.road.IsAdjusted(domain) {
			ec.activePredecessor = pc
		}
	}
}

// relatedDataForSingle 单侧邻接时的推算参数
// 返回：
//
//	related: 作为基准的邻接关系
//	neighborS: 在邻接道路上取值的s坐标
//	sign: 导数方向换算符号
//	mainS: 主路上与邻接道路相接处的s坐标
func (ec *ElevationCalculator) relatedDataForSingle() (related *elevationConnection, neighborS, sign, mainS float64) {
	if ec.activeSuccessor != nil {
		mainS = ec.mainRoad.planview.TotalLength()
		related = ec.activeSuccessor
		if related.contactPoint == ContactPointStart {
			neighborS, sign = 0, 1
		} else {
			neighborS, sign = related.road.planview.TotalLength(), -1
		}
		return related, neighborS, sign, mainS
	}
	mainS = 0
	related = ec.activePredecessor
	if related.contactPoint == ContactPointStart {
		neighborS, sign = 0, -1
	} else {
		neighborS, sign = related.road.planview.TotalLength(), 1
	}
	return related, neighborS, sign, mainS
}

// relatedDataForDouble 双侧邻接时两端的s坐标与导数符号
func (ec *ElevationCalculator) relatedDataForDouble() (preS, preSign, sucS, sucSign float64) {
	if ec.activePredecessor.contactPoint == ContactPointStart {
		preS, preSign = 0, -1
	} else {
		preS, preSign = ec.activePredecessor.road.planview.TotalLength(), 1
	}
	if ec.activeSuccessor.contactPoint == ContactPointStart {
		sucS, sucSign = 0, 1
	} else {
		sucS, sucSign = ec.activeSuccessor.road.planview.TotalLength(), -1
	}
	return preS, preSign, sucS, sucSign
}

// createElevation 推算并写入主路的高程剖面
func (ec *ElevationCalculator) createElevation() {
	ec.calculateLateralOffsets()
	ec.setActiveRoads(DomainElevation)
	pred, succ := ec.activePredecessor, ec.activeSuccessor
	switch {
	case pred != nil && succ != nil:
		if ec.mainRoad.roadType != -1 {
			log.Warnf("automatic elevation of junction road %d can be ambiguous, set the elevation of connecting roads explicitly", ec.mainRoad.id)
		}
		preS, preSign, sucS, sucSign := ec.relatedDataForDouble()
		coeffs := solveProfileCoeffs(ec.mainRoad.planview.TotalLength(),
			pred.road.elevationProfile.EvalAt(preS)+pred.lateralOffset,
			preSign*pred.road.elevationProfile.EvalDerivativeAt(preS),
			succ.road.elevationProfile.EvalAt(sucS)+succ.lateralOffset,
			sucSign*succ.road.elevationProfile.EvalDerivativeAt(sucS))
		ec.mainRoad.AddElevation(0, coeffs[0], coeffs[1], coeffs[2], coeffs[3])
		ec.elevationNeeded = false
	case pred != nil || succ != nil:
		if ec.mainRoad.roadType != -1 {
			log.Warnf("automatic elevation of junction road %d can be ambiguous, set the elevation of connecting roads explicitly", ec.mainRoad.id)
		}
		related, neighborS, sign, mainS := ec.relatedDataForSingle()
		b := sign * related.road.elevationProfile.EvalDerivativeAt(neighborS)
		a := related.road.elevationProfile.EvalAt(neighborS) - b*mainS + related.lateralOffset
		ec.mainRoad.AddElevation(0, a, b, 0, 0)
		ec.elevationNeeded = false
	}
	ec.resetActiveRoads()
}

// createSuperelevation 推算并写入主路的超高程剖面
// 说明：超高程为横坡角，接触方向反转时值取反而导数不变，
// 与高程的符号规则相反
func (ec *ElevationCalculator) createSuperelevation() {
	ec.setActiveRoads(DomainSuperelevation)
	pred, succ := ec.activePredecessor, ec.activeSuccessor
	switch {
	case pred != nil && succ != nil:
		if ec.mainRoad.roadType != -1 {
			log.Warnf("automatic superelevation of junction road %d can be ambiguous, set the superelevation of connecting roads explicitly", ec.mainRoad.id)
		}
		preS, preSign, sucS, sucSign := ec.relatedDataForDouble()
		coeffs := solveProfileCoeffs(ec.mainRoad.planview.TotalLength(),
			preSign*pred.road.lateralProfile.SuperelevationAt(preS),
			pred.road.lateralProfile.SuperelevationDerivativeAt(preS),
			sucSign*succ.road.lateralProfile.SuperelevationAt(sucS),
			succ.road.lateralProfile.SuperelevationDerivativeAt(sucS))
		ec.mainRoad.AddSuperelevation(0, coeffs[0], coeffs[1], coeffs[2], coeffs[3])
		ec.superelevationNeeded = false
	case pred != nil || succ != nil:
		if ec.mainRoad.roadType != -1 {
			log.Warnf("automatic superelevation of junction road %d can be ambiguous, set the superelevation of connecting roads explicitly", ec.mainRoad.id)
		}
		related, neighborS, sign, _ := ec.relatedDataForSingle()
		a := sign * related.road.lateralProfile.SuperelevationAt(neighborS)
		ec.mainRoad.AddSuperelevation(0, a, 0, 0, 0)
		ec.superelevationNeeded = false
	}
	ec.resetActiveRoads()
}

// CreateProfile 尝试为主路推算指定域的剖面
// 说明：已确定剖面的域不会重复推算；无任何已确定剖面的邻接
// 道路时本次调用不产生变化，待邻接道路确定后可再次调用
func (ec *ElevationCalculator) CreateProfile(domain AdjustmentDomain) {
	switch domain {
	case DomainElevation:
		if ec.elevationNeeded {
			ec.createElevation()
		}
	case DomainSuperelevation:
		if ec.superelevationNeeded {
			ec.createSuperelevation()
			ec.calculateLateralOffsets()
		}
	default:
		log.Panicf("elevation adjustment does not support domain %s", domain)
	}
}
