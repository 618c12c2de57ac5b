package xodr

import (
	"math"
	"sort"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// addMode 平面图的几何添加模式
type addMode uint8

const (
	addModeNone addMode = iota
	// addModeNormal 相对添加，位姿在调整阶段推算
	addModeNormal
	// addModeFixed 固定添加，位姿随几何直接给出
	addModeFixed
)

// adjustedGeometry 已定位的几何段，持有段起点处的绝对位姿与s坐标
type adjustedGeometry struct {
	s, x, y, h float64
	geom       Geometry
}

func (g *adjustedGeometry) Element() *etree.Element {
	elem := etree.NewElement("geometry")
	elem.CreateAttr("s", ftoa(g.s))
	elem.CreateAttr("x", ftoa(g.x))
	elem.CreateAttr("y", ftoa(g.y))
	elem.CreateAttr("hdg", ftoa(g.h))
	elem.CreateAttr("length", ftoa(g.geom.Length()))
	elem.AddChild(g.geom.Element())
	return elem
}

// interiorEvaluator 可在段内任意弧长处求位姿的几何
type interiorEvaluator interface {
	positionAt(s, x, y, h float64) (float64, float64, float64)
}

func (l *Line) positionAt(s, x, y, h float64) (float64, float64, float64) {
	return x + s*math.Cos(h), y + s*math.Sin(h), h
}

func (a *Arc) positionAt(s, x, y, h float64) (float64, float64, float64) {
	return arcEnd(x, y, h, a.curvature, s)
}

func (sp *Spiral) positionAt(s, x, y, h float64) (float64, float64, float64) {
	es := newEulerSpiral(sp.length, sp.curvStart, sp.curvEnd)
	return es.PositionAt(s, x, y, h, sp.curvStart)
}

// positionAt 段内求值，normalized时近似认为p与弧长成正比
func (pp *ParamPoly3) positionAt(s, x, y, h float64) (float64, float64, float64) {
	p := s
	if pp.pRange == PRangeNormalized {
		p = s / pp.length
	}
	u, v := pp.at(p)
	du, dv := pp.derivative(p)
	px := x + u*math.Cos(h) - v*math.Sin(h)
	py := y + u*math.Sin(h) + v*math.Cos(h)
	return px, py, h + math.Atan2(dv, du)
}

// PlanView 道路参考线平面图
// 功能：按添加顺序持有参考线几何段，并在路网调整阶段把各段定位到绝对坐标
// 说明：两种使用方式不可混用，AddGeometry只给出几何形状，
// 位姿待AdjustGeometries自起点（或终点）逐段推算；
// AddFixedGeometry则随几何直接给出绝对位姿，无需推算
type PlanView struct {
	rawGeometries      []Geometry
	adjustedGeometries []adjustedGeometry
	mode               addMode
	anchored           bool
	adjusted           bool

	startX, startY, startH float64
	endX, endY, endH       float64

	length  float64
	sCoords []float64
}

// NewPlanView 构造空平面图，调整前的默认起点位姿为原点朝向x轴正向
func NewPlanView() *PlanView {
	return &PlanView{}
}

// AddGeometry 追加一段待定位几何
func (pv *PlanView) AddGeometry(geom Geometry) error {
	if pv.mode == addModeFixed {
		return errors.Wrap(ErrMixOfGeometryAddition, "planview already has fixed geometries")
	}
	pv.mode = addModeNormal
	pv.rawGeometries = append(pv.rawGeometries, geom)
	pv.length += geom.Length()
	return nil
}

// AddFixedGeometry 追加一段已定位几何，(x, y, h)为该段起点的绝对位姿
func (pv *PlanView) AddFixedGeometry(geom Geometry, x, y, h float64) error {
	if pv.mode == addModeNormal {
		return errors.Wrap(ErrMixOfGeometryAddition, "planview already has non-fixed geometries")
	}
	pv.mode = addModeFixed
	pv.adjustedGeometries = append(pv.adjustedGeometries, adjustedGeometry{
		s: pv.length, x: x, y: y, h: h, geom: geom,
	})
	pv.length += geom.Length()
	return nil
}

// SetStartPoint 设置调整用的锚定位姿，仅在调整前有效
// 说明：正向调整时锚定道路起点，反向调整时锚定道路终点；
// 设置后道路视为已定桩，路网调整时作为推算起点之一
func (pv *PlanView) SetStartPoint(x, y, h float64) {
	if pv.adjusted {
		log.Panicf("set start point on an adjusted planview")
	}
	pv.startX, pv.startY, pv.startH = x, y, h
	pv.anchored = true
}

// Fixed 平面图是否已定桩（显式设置过锚定位姿，或由固定几何构成）
func (pv *PlanView) Fixed() bool {
	return pv.mode == addModeFixed || pv.anchored
}

// Adjusted 几何是否已定位
func (pv *PlanView) Adjusted() bool {
	return pv.adjusted
}

// AdjustGeometries 把全部几何段定位到绝对坐标
// 参数：
//
//	fromEnd: 为true时锚定位姿视作道路终点位姿，自末段反向推算
func (pv *PlanView) AdjustGeometries(fromEnd bool) {
	if pv.adjusted {
		log.Panicf("planview already adjusted")
	}
	switch {
	case pv.mode == addModeFixed:
		first := &pv.adjustedGeometries[0]
		pv.startX, pv.startY, pv.startH = first.x, first.y, first.h
		last := &pv.adjustedGeometries[len(pv.adjustedGeometries)-1]
		pv.endX, pv.endY, pv.endH, _ = last.geom.EndData(last.x, last.y, last.h)
	case !fromEnd:
		x, y, h := pv.startX, pv.startY, pv.startH
		s := 0.0
		for _, geom := range pv.rawGeometries {
			pv.adjustedGeometries = append(pv.adjustedGeometries, adjustedGeometry{
				s: s, x: x, y: y, h: h, geom: geom,
			})
			var l float64
			x, y, h, l = geom.EndData(x, y, h)
			s += l
		}
		pv.endX, pv.endY, pv.endH = x, y, h
	default:
		// 锚定位姿为道路终点，翻转航向后自末段向首段推算各段起点
		pv.endX, pv.endY, pv.endH = pv.startX, pv.startY, pv.startH
		x, y, h := pv.startX, pv.startY, pv.startH+math.Pi
		n := len(pv.rawGeometries)
		poses := make([][3]float64, n)
		for i := n - 1; i >= 0; i-- {
			sx, sy, sh, _ := pv.rawGeometries[i].StartData(x, y, h)
			poses[i] = [3]float64{sx, sy, sh}
			x, y, h = sx, sy, sh
		}
		s := 0.0
		for i, geom := range pv.rawGeometries {
			fh := normalizeAngle(poses[i][2] + math.Pi)
			pv.adjustedGeometries = append(pv.adjustedGeometries, adjustedGeometry{
				s: s, x: poses[i][0], y: poses[i][1], h: fh, geom: geom,
			})
			s += geom.Length()
		}
		pv.startX, pv.startY = poses[0][0], poses[0][1]
		pv.startH = normalizeAngle(poses[0][2] + math.Pi)
	}
	pv.sCoords = make([]float64, len(pv.adjustedGeometries))
	for i := range pv.adjustedGeometries {
		pv.sCoords[i] = pv.adjustedGeometries[i].s
	}
	pv.adjusted = true
}

// StartPoint 道路起点位姿，调整完成后可用
func (pv *PlanView) StartPoint() (x, y, h float64) {
	if !pv.adjusted {
		log.Panicf("planview is not adjusted")
	}
	return pv.startX, pv.startY, pv.startH
}

// EndPoint 道路终点位姿，调整完成后可用
func (pv *PlanView) EndPoint() (x, y, h float64) {
	if !pv.adjusted {
		log.Panicf("planview is not adjusted")
	}
	return pv.endX, pv.endY, pv.endH
}

// TotalLength 参考线总长
func (pv *PlanView) TotalLength() float64 {
	return pv.length
}

// PositionAt 求参考线上s处的位姿，调整完成后可用
// 说明：s越界时钳制到[0, TotalLength]
func (pv *PlanView) PositionAt(s float64) (x, y, h float64) {
	if !pv.adjusted {
		log.Panicf("planview is not adjusted")
	}
	s = math.Max(0, math.Min(s, pv.length))
	i := sort.SearchFloat64s(pv.sCoords, s)
	if i == len(pv.sCoords) || pv.sCoords[i] > s {
		i--
	}
	g := &pv.adjustedGeometries[i]
	if ev, ok := g.geom.(interiorEvaluator); ok {
		return ev.positionAt(s-g.s, g.x, g.y, g.h)
	}
	// 未知几何实现退化为按弦线插值
	return g.x + (s-g.s)*math.Cos(g.h), g.y + (s-g.s)*math.Sin(g.h), g.h
}

func (pv *PlanView) Element() *etree.Element {
	elem := etree.NewElement("planView")
	for i := range pv.adjustedGeometries {
		elem.AddChild(pv.adjustedGeometries[i].Element())
	}
	return elem
}

// AdjustablePlanview 待定几何平面图
// 功能：占位平面图，路网调整阶段由两端邻接道路的位姿反解出一组回旋线几何，
// 几何确定后按保存的车道描述重建车道
type AdjustablePlanview struct {
	LeftLanes      LaneSpec
	RightLanes     LaneSpec
	LaneWidth      float64
	LaneWidthEnd   float64
	CenterRoadMark *RoadMark
}
