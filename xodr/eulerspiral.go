package xodr

import "math"

// eulerSpiral 欧拉螺线（回旋线）求值器
// 功能：按曲率变化率gamma对螺线上任意弧长处的位姿做闭式求值
// 算法说明：曲率kappa(s)=kappa0+gamma*s，航向theta(s)=theta0+kappa0*s+gamma*s^2/2；
// gamma不为0时位置由Fresnel积分给出，gamma为0退化为圆弧，曲率也为0时退化为直线
type eulerSpiral struct {
	gamma float64
}

// newEulerSpiral 由长度与首末曲率构造螺线求值器
func newEulerSpiral(length, curvStart, curvEnd float64) *eulerSpiral {
	if length == 0 {
		return &eulerSpiral{}
	}
	return &eulerSpiral{gamma: (curvEnd - curvStart) / length}
}

// PositionAt 求弧长s处的位姿
// 参数：
//
//	s: 自起点起算的弧长
//	x0/y0/h0: 起点位姿
//	kappa0: 起点曲率
//
// 返回：(x, y, heading)
func (e *eulerSpiral) PositionAt(s, x0, y0, h0, kappa0 float64) (float64, float64, float64) {
	h := h0 + kappa0*s + e.gamma*s*s/2
	switch {
	case e.gamma == 0 && kappa0 == 0:
		return x0 + s*math.Cos(h0), y0 + s*math.Sin(h0), h
	case e.gamma == 0:
		// 圆弧闭式解
		x := x0 + (math.Sin(h0+kappa0*s)-math.Sin(h0))/kappa0
		y := y0 + (math.Cos(h0)-math.Cos(h0+kappa0*s))/kappa0
		return x, y, h
	default:
		root := math.Sqrt(math.Pi * math.Abs(e.gamma))
		s1, c1 := fresnel((kappa0 + e.gamma*s) / root)
		s0, c0 := fresnel(kappa0 / root)
		scale := math.Sqrt(math.Pi / math.Abs(e.gamma))
		phi := h0 - kappa0*kappa0/(2*e.gamma)
		dc := math.Copysign(1, e.gamma) * (c1 - c0)
		ds := s1 - s0
		x := x0 + scale*(dc*math.Cos(phi)-ds*math.Sin(phi))
		y := y0 + scale*(dc*math.Sin(phi)+ds*math.Cos(phi))
		return x, y, h
	}
}

// fresnelSeriesLimit 幂级数与渐近展开的分界点
// 说明：3.5附近两种方法的截断误差都在1e-9量级，取其为分界
const fresnelSeriesLimit = 3.5

// fresnel 计算Fresnel积分S(t)=∫sin(pi*u^2/2)du与C(t)=∫cos(pi*u^2/2)du
// 说明：|t|较小时用幂级数，较大时用辅助函数渐近展开；两者均为奇函数
func fresnel(t float64) (s, c float64) {
	at := math.Abs(t)
	if at < fresnelSeriesLimit {
		s, c = fresnelSeries(at)
	} else {
		s, c = fresnelAsymptotic(at)
	}
	if t < 0 {
		return -s, -c
	}
	return s, c
}

// fresnelSeries 幂级数求值，t在分界点以内时精度接近机器精度
func fresnelSeries(t float64) (float64, float64) {
	x := math.Pi / 2 * t * t
	x2 := x * x
	// C = t*Σ p_k/(4k+1), p_0 = 1,  p_{k+1} = -p_k*x^2/((2k+1)(2k+2))
	// S = t*Σ q_k/(4k+3), q_0 = x,  q_{k+1} = -q_k*x^2/((2k+2)(2k+3))
	p, q := 1.0, x
	sumC := p
	sumS := q / 3
	for k := 0; k < 80; k++ {
		p = -p * x2 / float64((2*k+1)*(2*k+2))
		q = -q * x2 / float64((2*k+2)*(2*k+3))
		sumC += p / float64(4*k+5)
		sumS += q / float64(4*k+7)
		if math.Abs(p) < 1e-18 && math.Abs(q) < 1e-18 {
			break
		}
	}
	return t * sumS, t * sumC
}

// fresnelAsymptotic 辅助函数渐近展开
// 说明：C = 1/2 + f*sin(pi*t^2/2) - g*cos(pi*t^2/2)，
// S = 1/2 - f*cos(pi*t^2/2) - g*sin(pi*t^2/2)；
// 渐近级数在项开始增大时截断（最优截断）
func fresnelAsymptotic(t float64) (float64, float64) {
	u := math.Pi * t * t
	u2 := u * u
	fSum, gSum := 1.0, 1.0
	fTerm, gTerm := 1.0, 1.0
	for k := 0; k < 40; k++ {
		nf := -fTerm * float64((4*k+1)*(4*k+3)) / u2
		ng := -gTerm * float64((4*k+3)*(4*k+5)) / u2
		if math.Abs(nf) >= math.Abs(fTerm) {
			break
		}
		fSum += nf
		gSum += ng
		fTerm, gTerm = nf, ng
		if math.Abs(nf) < 1e-18 {
			break
		}
	}
	f := fSum / (math.Pi * t)
	g := gSum / (math.Pi * t * u)
	arg := math.Pi / 2 * t * t
	sin, cos := math.Sincos(arg)
	c := 0.5 + f*sin - g*cos
	s := 0.5 - f*cos - g*sin
	return s, c
}
