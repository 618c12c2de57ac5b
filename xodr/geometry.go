package xodr

import (
	"math"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate/quad"
)

// Geometry 平面参考线几何段
// 功能：描述一段参考线几何（直线、圆弧、螺线或参数三次曲线），
// 可由任一端的位姿推算另一端的位姿
// 说明：EndData由起点位姿推算终点位姿；StartData用于反向调整，
// 输入为几何终点处的反向位姿（航向翻转pi），输出为几何起点处的反向位姿
type Geometry interface {
	// EndData 由起点位姿(x, y, h)求终点位姿与段长
	EndData(x, y, h float64) (ex, ey, eh, length float64)
	// StartData 由终点反向位姿(x, y, h)求起点反向位姿与段长
	StartData(x, y, h float64) (sx, sy, sh, length float64)
	// Length 求段长
	Length() float64
	// Element 生成几何类型子元素（geometry元素由平面图负责）
	Element() *etree.Element
}

// PRange paramPoly3的参数区间语义
type PRange string

const (
	// PRangeNormalized 参数p在[0,1]内取值
	PRangeNormalized PRange = "normalized"
	// PRangeArcLength 参数p为弧长，在[0,length]内取值
	PRangeArcLength PRange = "arcLength"
)

// geomParams 几何构造的可选参数集合
type geomParams struct {
	length, angle, cDot          float64
	hasLength, hasAngle, hasCDot bool
}

// GeomOption 几何构造可选参数
type GeomOption func(*geomParams)

// WithLength 指定几何段长度
func WithLength(length float64) GeomOption {
	return func(p *geomParams) {
		p.length = length
		p.hasLength = true
	}
}

// WithAngle 指定几何段扫过的角度
func WithAngle(angle float64) GeomOption {
	return func(p *geomParams) {
		p.angle = angle
		p.hasAngle = true
	}
}

// WithCDot 指定螺线的曲率变化率
func WithCDot(cDot float64) GeomOption {
	return func(p *geomParams) {
		p.cDot = cDot
		p.hasCDot = true
	}
}

func applyGeomOptions(opts []GeomOption) geomParams {
	var p geomParams
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Line 直线几何段
type Line struct {
	length float64
}

// NewLine 构造长度为length的直线段
func NewLine(length float64) *Line {
	return &Line{length: length}
}

func (l *Line) EndData(x, y, h float64) (float64, float64, float64, float64) {
	return x + l.length*math.Cos(h), y + l.length*math.Sin(h), h, l.length
}

func (l *Line) StartData(x, y, h float64) (float64, float64, float64, float64) {
	return x + l.length*math.Cos(h), y + l.length*math.Sin(h), h, l.length
}

func (l *Line) Length() float64 {
	return l.length
}

func (l *Line) Element() *etree.Element {
	return etree.NewElement("line")
}

// Arc 恒定曲率圆弧几何段
// 说明：曲率为正时左转，为负时右转
type Arc struct {
	curvature float64
	length    float64
	angle     float64
	hasAngle  bool
}

// NewArc 构造圆弧段
// 参数：
//
//	curvature: 圆弧曲率，不可为0
//	opts: WithLength与WithAngle二选一
//
// 返回：圆弧与可能的参数错误
func NewArc(curvature float64, opts ...GeomOption) (*Arc, error) {
	p := applyGeomOptions(opts)
	if curvature == 0 {
		return nil, errors.Wrap(ErrGeneralIssueInputArguments, "arc requires a nonzero curvature")
	}
	if p.hasCDot {
		return nil, errors.Wrap(ErrGeneralIssueInputArguments, "arc does not take a curvature rate")
	}
	if !p.hasLength && !p.hasAngle {
		return nil, errors.Wrap(ErrNotEnoughInputArguments, "arc requires either length or angle")
	}
	if p.hasLength && p.hasAngle {
		return nil, errors.Wrap(ErrTooManyOptionalArguments, "arc takes either length or angle, not both")
	}
	a := &Arc{curvature: curvature}
	if p.hasAngle {
		if p.angle == 0 {
			return nil, errors.Wrap(ErrGeneralIssueInputArguments, "arc angle cannot be 0")
		}
		a.angle = p.angle
		a.hasAngle = true
		a.length = math.Abs(p.angle / curvature)
	} else {
		a.length = p.length
	}
	return a, nil
}

func (a *Arc) EndData(x, y, h float64) (float64, float64, float64, float64) {
	ex, ey, eh := arcEnd(x, y, h, a.curvature, a.length)
	return ex, ey, eh, a.length
}

// StartData 反向推算，等价于以相反曲率自反向位姿正向行进
func (a *Arc) StartData(x, y, h float64) (float64, float64, float64, float64) {
	sx, sy, sh := arcEnd(x, y, h, -a.curvature, a.length)
	return sx, sy, sh, a.length
}

func (a *Arc) Length() float64 {
	return a.length
}

func (a *Arc) Element() *etree.Element {
	elem := etree.NewElement("arc")
	elem.CreateAttr("curvature", ftoa(a.curvature))
	return elem
}

// arcEnd 恒定曲率下的圆弧终点闭式解
func arcEnd(x, y, h, curvature, length float64) (float64, float64, float64) {
	eh := h + curvature*length
	ex := x + (math.Sin(eh)-math.Sin(h))/curvature
	ey := y + (math.Cos(h)-math.Cos(eh))/curvature
	return ex, ey, eh
}

// Spiral 欧拉螺线几何段，曲率随弧长线性变化
type Spiral struct {
	curvStart float64
	curvEnd   float64
	length    float64
}

// NewSpiral 构造螺线段
// 功能：按首末曲率构造曲率线性变化的螺线
// 参数：
//
//	curvStart/curvEnd: 首末曲率
//	opts: WithLength、WithAngle与WithCDot三选一；
//	      WithAngle按2*|angle|/max(|curvStart|,|curvEnd|)换算长度，
//	      WithCDot按(curvEnd-curvStart)/cDot换算长度
//
// 返回：螺线与可能的参数错误
func NewSpiral(curvStart, curvEnd float64, opts ...GeomOption) (*Spiral, error) {
	p := applyGeomOptions(opts)
	n := 0
	for _, has := range []bool{p.hasLength, p.hasAngle, p.hasCDot} {
		if has {
			n++
		}
	}
	if n == 0 {
		return nil, errors.Wrap(ErrNotEnoughInputArguments, "spiral requires length, angle or cdot")
	}
	if n > 1 {
		return nil, errors.Wrap(ErrTooManyOptionalArguments, "spiral takes only one of length, angle and cdot")
	}
	s := &Spiral{curvStart: curvStart, curvEnd: curvEnd}
	switch {
	case p.hasLength:
		s.length = p.length
	case p.hasAngle:
		maxCurv := math.Max(math.Abs(curvStart), math.Abs(curvEnd))
		if maxCurv == 0 {
			return nil, errors.Wrap(ErrGeneralIssueInputArguments, "spiral with angle requires a nonzero curvature")
		}
		s.length = 2 * math.Abs(p.angle) / maxCurv
	default:
		if p.cDot == 0 {
			return nil, errors.Wrap(ErrGeneralIssueInputArguments, "spiral cdot cannot be 0")
		}
		s.length = (curvEnd - curvStart) / p.cDot
	}
	if s.length <= 0 {
		return nil, errors.Wrap(ErrGeneralIssueInputArguments, "spiral length must be positive")
	}
	return s, nil
}

func (s *Spiral) EndData(x, y, h float64) (float64, float64, float64, float64) {
	es := newEulerSpiral(s.length, s.curvStart, s.curvEnd)
	ex, ey, eh := es.PositionAt(s.length, x, y, h, s.curvStart)
	return ex, ey, eh, s.length
}

// StartData 反向推算，等价于镜像螺线自反向位姿正向行进
func (s *Spiral) StartData(x, y, h float64) (float64, float64, float64, float64) {
	es := newEulerSpiral(s.length, -s.curvEnd, -s.curvStart)
	sx, sy, sh := es.PositionAt(s.length, x, y, h, -s.curvEnd)
	return sx, sy, sh, s.length
}

func (s *Spiral) Length() float64 {
	return s.length
}

func (s *Spiral) Element() *etree.Element {
	elem := etree.NewElement("spiral")
	elem.CreateAttr("curvStart", ftoa(s.curvStart))
	elem.CreateAttr("curvEnd", ftoa(s.curvEnd))
	return elem
}

// ParamPoly3 参数三次曲线几何段
// 说明：局部坐标(u, v)均为参数p的三次多项式，p按pRange解释
type ParamPoly3 struct {
	aU, bU, cU, dU float64
	aV, bV, cV, dV float64
	pRange         PRange
	length         float64
}

// NewParamPoly3 构造参数三次曲线段
// 参数：
//
//	aU..dV: u/v两方向的多项式系数
//	pRange: 参数区间语义；PRangeArcLength时必须用WithLength给出长度，
//	        PRangeNormalized未给出长度时按速度数值积分求长
//
// 返回：曲线与可能的参数错误
func NewParamPoly3(aU, bU, cU, dU, aV, bV, cV, dV float64, pRange PRange, opts ...GeomOption) (*ParamPoly3, error) {
	p := applyGeomOptions(opts)
	if p.hasAngle || p.hasCDot {
		return nil, errors.Wrap(ErrGeneralIssueInputArguments, "paramPoly3 takes only length as optional input")
	}
	pp := &ParamPoly3{
		aU: aU, bU: bU, cU: cU, dU: dU,
		aV: aV, bV: bV, cV: cV, dV: dV,
		pRange: pRange,
	}
	switch pRange {
	case PRangeArcLength:
		if !p.hasLength {
			return nil, errors.Wrap(ErrNotEnoughInputArguments, "paramPoly3 with arcLength requires length")
		}
		pp.length = p.length
	case PRangeNormalized:
		if p.hasLength {
			pp.length = p.length
		} else {
			pp.length = quad.Fixed(func(u float64) float64 {
				du, dv := pp.derivative(u)
				return math.Hypot(du, dv)
			}, 0, 1, 100, nil, 0)
		}
	default:
		return nil, errors.Wrapf(ErrGeneralIssueInputArguments, "unknown pRange %v", pRange)
	}
	if pp.length <= 0 {
		return nil, errors.Wrap(ErrGeneralIssueInputArguments, "paramPoly3 length must be positive")
	}
	return pp, nil
}

// at 求参数p处的局部坐标
func (pp *ParamPoly3) at(p float64) (u, v float64) {
	u = pp.aU + pp.bU*p + pp.cU*p*p + pp.dU*p*p*p
	v = pp.aV + pp.bV*p + pp.cV*p*p + pp.dV*p*p*p
	return u, v
}

// derivative 求参数p处的局部坐标导数
func (pp *ParamPoly3) derivative(p float64) (du, dv float64) {
	du = pp.bU + 2*pp.cU*p + 3*pp.dU*p*p
	dv = pp.bV + 2*pp.cV*p + 3*pp.dV*p*p
	return du, dv
}

// pEnd 参数终值，normalized为1，arcLength为长度
func (pp *ParamPoly3) pEnd() float64 {
	if pp.pRange == PRangeNormalized {
		return 1
	}
	return pp.length
}

func (pp *ParamPoly3) EndData(x, y, h float64) (float64, float64, float64, float64) {
	u, v := pp.at(pp.pEnd())
	du, dv := pp.derivative(pp.pEnd())
	ex := x + u*math.Cos(h) - v*math.Sin(h)
	ey := y + u*math.Sin(h) + v*math.Cos(h)
	eh := h + math.Atan2(dv, du)
	return ex, ey, eh, pp.length
}

// StartData 反向推算，先回退航向再在反向坐标系内施加位移
func (pp *ParamPoly3) StartData(x, y, h float64) (float64, float64, float64, float64) {
	u, v := pp.at(pp.pEnd())
	du, dv := pp.derivative(pp.pEnd())
	sh := h - math.Atan2(dv, du)
	sx := x + u*math.Cos(sh) - v*math.Sin(sh)
	sy := y + u*math.Sin(sh) + v*math.Cos(sh)
	return sx, sy, sh, pp.length
}

func (pp *ParamPoly3) Length() float64 {
	return pp.length
}

func (pp *ParamPoly3) Element() *etree.Element {
	elem := etree.NewElement("paramPoly3")
	elem.CreateAttr("aU", ftoa(pp.aU))
	elem.CreateAttr("bU", ftoa(pp.bU))
	elem.CreateAttr("cU", ftoa(pp.cU))
	elem.CreateAttr("dU", ftoa(pp.dU))
	elem.CreateAttr("aV", ftoa(pp.aV))
	elem.CreateAttr("bV", ftoa(pp.bV))
	elem.CreateAttr("cV", ftoa(pp.cV))
	elem.CreateAttr("dV", ftoa(pp.dV))
	elem.CreateAttr("pRange", string(pp.pRange))
	return elem
}
