package xodr

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate/quad"
)

// stdStartCloth 连接道路两端回旋线曲率的近零默认值
const stdStartCloth = 1e-9

// ClothoidSegment 曲率线性变化的一段回旋线
type ClothoidSegment struct {
	KappaStart float64
	KappaEnd   float64
	Length     float64
}

// ClothoidSolver G2 Hermite插值求解器
// 功能：给定两端位姿与端点曲率，求一组首尾相接的回旋线段，
// 自起点位姿依次铺设后恰好到达终点位姿
// 说明：路网调整与路口连接道生成所需的端点曲率均为近零值，
// 默认实现面向该场景；需要精确满足任意端点曲率时可通过
// SetClothoidSolver换用外部求解器
type ClothoidSolver interface {
	SolveG2(x0, y0, h0, k0, x1, y1, h1, k1 float64) ([]ClothoidSegment, error)
}

func defaultClothoidSolver() ClothoidSolver {
	return hermiteSolver{}
}

// hermiteSolver 默认G2求解器
// 说明：按Bertolazzi-Frego方法做G1 Hermite拟合得到单段回旋线，
// 再等分为三段曲率连续的子段；端点曲率取拟合结果，
// 与调用方给定的近零值之间的偏差不做修正
type hermiteSolver struct{}

func (hermiteSolver) SolveG2(x0, y0, h0, k0, x1, y1, h1, k1 float64) ([]ClothoidSegment, error) {
	if math.Abs(k0) > 1e-3 || math.Abs(k1) > 1e-3 {
		log.Warnf("clothoid fit treats boundary curvatures as zero, got %v and %v", k0, k1)
	}
	kappa, cDot, length, err := fitClothoidG1(x0, y0, h0, x1, y1, h1)
	if err != nil {
		return nil, err
	}
	third := length / 3
	segments := make([]ClothoidSegment, 0, 3)
	for i := 0; i < 3; i++ {
		sA := float64(i) * third
		sB := float64(i+1) * third
		segments = append(segments, ClothoidSegment{
			KappaStart: kappa + cDot*sA,
			KappaEnd:   kappa + cDot*sB,
			Length:     third,
		})
	}
	return segments, nil
}

// fitClothoidG1 单段回旋线G1 Hermite拟合
// 功能：求一段曲率线性变化的回旋线，自(x0, y0, h0)出发恰好以
// 航向h1到达(x1, y1)
// 返回：起点曲率、曲率变化率、弧长与可能的求解失败
// 说明：把位姿差规格化到单位弦长坐标后，问题归结为对单参数A求
// 方程Y(2A, delta-A, phi0)=0的根，Y为广义Fresnel正弦矩；
// 初值多项式与Newton迭代按Bertolazzi-Frego给出的形式实现
func fitClothoidG1(x0, y0, h0, x1, y1, h1 float64) (kappa, cDot, length float64, err error) {
	dx := x1 - x0
	dy := y1 - y0
	r := math.Hypot(dx, dy)
	if r < 1e-12 {
		return 0, 0, 0, errors.Wrap(ErrGeneralIssueInputArguments, "clothoid fit endpoints coincide")
	}
	phi := math.Atan2(dy, dx)
	phi0 := normalizeAngle(h0 - phi)
	phi1 := normalizeAngle(h1 - phi)
	delta := phi1 - phi0

	a := guessA(phi0, phi1)
	solved := false
	var chordRatio float64
	for i := 0; i < 100; i++ {
		c0, s0, c1, c2 := fresnelMoments(2*a, delta-a, phi0)
		if math.Abs(s0) < 1e-12 {
			solved = true
			chordRatio = c0
			break
		}
		dg := c2 - c1
		if dg == 0 {
			break
		}
		a -= s0 / dg
	}
	if !solved {
		return 0, 0, 0, errors.Wrapf(ErrGeneralIssueInputArguments,
			"clothoid fit did not converge for headings %v and %v", h0, h1)
	}
	if chordRatio <= 0 {
		return 0, 0, 0, errors.Wrap(ErrGeneralIssueInputArguments, "clothoid fit produced a non-positive length")
	}
	length = r / chordRatio
	kappa = (delta - a) / length
	cDot = 2 * a / (length * length)
	return kappa, cDot, length, nil
}

// guessA Newton迭代初值
// 说明：Bertolazzi-Frego对根的多项式近似，系数取自原文
func guessA(phi0, phi1 float64) float64 {
	x := phi0 / math.Pi
	y := phi1 / math.Pi
	xy := x * y
	return (phi0 + phi1) * (2.989696028701907 +
		xy*(0.716228953608281+xy*(-0.458969738821509)) +
		(-0.502821153340377+xy*0.261062141752652)*(x*x+y*y) -
		0.045854475238709*(x*x*x*x+y*y*y*y))
}

// fresnelMoments 广义Fresnel矩
// 返回：区间[0, 1]上相位a/2*t^2+b*t+c的余弦矩C0、正弦矩S0
// 与一阶、二阶余弦矩C1、C2
func fresnelMoments(a, b, c float64) (c0, s0, c1, c2 float64) {
	phase := func(t float64) float64 {
		return (a/2*t+b)*t + c
	}
	c0 = quad.Fixed(func(t float64) float64 { return math.Cos(phase(t)) }, 0, 1, 64, nil, 0)
	s0 = quad.Fixed(func(t float64) float64 { return math.Sin(phase(t)) }, 0, 1, 64, nil, 0)
	c1 = quad.Fixed(func(t float64) float64 { return t * math.Cos(phase(t)) }, 0, 1, 64, nil, 0)
	c2 = quad.Fixed(func(t float64) float64 { return t * t * math.Cos(phase(t)) }, 0, 1, 64, nil, 0)
	return c0, s0, c1, c2
}
