package xodr

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// StdRoadMarkSolid 标准实线
func StdRoadMarkSolid() *RoadMark {
	return NewRoadMark(RoadMarkTypeSolid, 0.2)
}

// StdRoadMarkBroken 标准虚线，3米线9米空
func StdRoadMarkBroken() *RoadMark {
	return NewRoadMark(RoadMarkTypeBroken, 0.2).
		AddLine(NewRoadLine(0.15, 3, 9, 0, 0))
}

// StdRoadMarkBrokenLongLine 长线虚线，9米线3米空
func StdRoadMarkBrokenLongLine() *RoadMark {
	return NewRoadMark(RoadMarkTypeBroken, 0.2).
		AddLine(NewRoadLine(0.15, 9, 3, 0, 0))
}

// StdRoadMarkBrokenTight 密集虚线，3米线3米空
func StdRoadMarkBrokenTight() *RoadMark {
	return NewRoadMark(RoadMarkTypeBroken, 0.2).
		AddLine(NewRoadLine(0.15, 3, 3, 0, 0))
}

// StdRoadMarkBrokenBroken 双虚线
func StdRoadMarkBrokenBroken() *RoadMark {
	return NewRoadMark(RoadMarkTypeBrokenBroken).
		AddLine(NewRoadLine(0.2, 3, 3, 0.2, 0)).
		AddLine(NewRoadLine(0.2, 3, 3, -0.2, 0))
}

// StdRoadMarkSolidSolid 双实线
func StdRoadMarkSolidSolid() *RoadMark {
	return NewRoadMark(RoadMarkTypeSolidSolid).
		AddLine(NewRoadLine(0.2, 0, 0, 0.2, 0)).
		AddLine(NewRoadLine(0.2, 0, 0, -0.2, 0))
}

// StdRoadMarkSolidBroken 实虚线，实线在左
func StdRoadMarkSolidBroken() *RoadMark {
	return NewRoadMark(RoadMarkTypeSolidBroken).
		AddLine(NewRoadLine(0.2, 0, 0, 0.2, 0)).
		AddLine(NewRoadLine(0.2, 3, 3, -0.2, 0))
}

// StdRoadMarkBrokenSolid 虚实线，实线在右
func StdRoadMarkBrokenSolid() *RoadMark {
	return NewRoadMark(RoadMarkTypeBrokenSolid).
		AddLine(NewRoadLine(0.2, 0, 0, -0.2, 0)).
		AddLine(NewRoadLine(0.2, 3, 3, 0.2, 0))
}

// LaneDef 单次车道增减的描述
// 功能：描述[SStart, SEnd]内一侧车道数自NLanesStart到NLanesEnd的变化，
// SubLane为被增减的车道编号（右侧为负，左侧为正），0表示数量不变
// 说明：这不是OpenDRIVE标准的一部分，只是生成车道段的辅助描述；
// 宽度列表为空时按默认车道宽补齐
type LaneDef struct {
	SStart          float64
	SEnd            float64
	NLanesStart     int
	NLanesEnd       int
	SubLane         int
	LaneStartWidths []float64
	LaneEndWidths   []float64
}

// NewLaneDef 构造车道增减描述，endWidths为空时沿用startWidths
func NewLaneDef(sStart, sEnd float64, nLanesStart, nLanesEnd, subLane int, startWidths, endWidths []float64) *LaneDef {
	if len(endWidths) == 0 {
		endWidths = append([]float64(nil), startWidths...)
	}
	return &LaneDef{
		SStart:          sStart,
		SEnd:            sEnd,
		NLanesStart:     nLanesStart,
		NLanesEnd:       nLanesEnd,
		SubLane:         subLane,
		LaneStartWidths: startWidths,
		LaneEndWidths:   endWidths,
	}
}

func (d *LaneDef) clone() *LaneDef {
	c := *d
	c.LaneStartWidths = append([]float64(nil), d.LaneStartWidths...)
	c.LaneEndWidths = append([]float64(nil), d.LaneEndWidths...)
	return &c
}

// fillDefaultWidths 把空的宽度列表补齐为默认车道宽
func (d *LaneDef) fillDefaultWidths(width float64) {
	if len(d.LaneStartWidths) == 0 {
		d.LaneStartWidths = defaultWidths(d.NLanesStart, width)
	}
	if len(d.LaneEndWidths) == 0 {
		d.LaneEndWidths = defaultWidths(d.NLanesEnd, width)
	}
}

// adjustWidths 为增减的车道在较少的一侧插入0宽占位
func (d *LaneDef) adjustWidths() {
	if d.SubLane == 0 {
		return
	}
	if len(d.LaneEndWidths) > 0 && len(d.LaneEndWidths) < d.NLanesStart {
		d.LaneEndWidths = slices.Insert(d.LaneEndWidths, absInt(d.SubLane)-1, 0)
	} else if len(d.LaneStartWidths) > 0 && len(d.LaneStartWidths) < d.NLanesEnd {
		d.LaneStartWidths = slices.Insert(d.LaneStartWidths, absInt(d.SubLane)-1, 0)
	}
}

// LaneSpec 一侧车道的数量描述，取恒定车道数或一组增减定义之一
type LaneSpec struct {
	constant int
	defs     []*LaneDef
	changing bool
}

// ConstantLanes 恒定n条车道
func ConstantLanes(n int) LaneSpec {
	return LaneSpec{constant: n}
}

// ChangingLanes 按给定增减定义变化的车道
func ChangingLanes(defs ...*LaneDef) LaneSpec {
	return LaneSpec{defs: defs, changing: true}
}

func defaultWidths(n int, width float64) []float64 {
	return lo.Times(n, func(int) float64 { return width })
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// laneSideState 车道定义展开时一侧的游标状态
type laneSideState struct {
	isConst bool
	constN  int
	defs    []*LaneDef
	it      int
}

func newLaneSideState(spec LaneSpec) (*laneSideState, error) {
	if !spec.changing {
		return &laneSideState{isConst: true, constN: spec.constant}, nil
	}
	if len(spec.defs) == 0 {
		return nil, errors.Wrap(ErrNotEnoughInputArguments, "changing lanes requires at least one lane definition")
	}
	defs := lo.Map(spec.defs, func(d *LaneDef, _ int) *LaneDef { return d.clone() })
	for _, d := range defs {
		if d.NLanesStart != d.NLanesEnd && d.SubLane == 0 {
			return nil, errors.Wrap(ErrGeneralIssueInputArguments, "lane definition changes the lane count without a sub lane")
		}
	}
	return &laneSideState{defs: defs}, nil
}

// probe 探测当前s处是否轮到本侧的下一条定义
// 返回：(立即使用定义, 下一变化点s, 维持的车道数)
func (s *laneSideState) probe(presentS, totLength float64) (add bool, next float64, n int) {
	if s.it < len(s.defs) {
		if s.defs[s.it].SStart == presentS {
			return true, 0, 0
		}
		return false, s.defs[s.it].SStart, s.defs[s.it].NLanesStart
	}
	if s.isConst {
		return false, totLength, s.constN
	}
	return false, totLength, s.defs[len(s.defs)-1].NLanesEnd
}

// carryDef 生成无增减路段的定义，宽度从相邻定义延续
func (s *laneSideState) carryDef(sStart, sEnd float64, n int, width float64) *LaneDef {
	d := NewLaneDef(sStart, sEnd, n, n, 0, defaultWidths(n, width), defaultWidths(n, width))
	if s.isConst {
		return d
	}
	if s.it == len(s.defs) {
		if last := s.defs[len(s.defs)-1]; len(last.LaneEndWidths) > 0 {
			d.LaneStartWidths = append([]float64(nil), last.LaneEndWidths...)
			d.LaneEndWidths = append([]float64(nil), last.LaneEndWidths...)
		}
	} else if next := s.defs[s.it]; len(next.LaneStartWidths) > 0 {
		d.LaneStartWidths = append([]float64(nil), next.LaneStartWidths...)
		d.LaneEndWidths = append([]float64(nil), next.LaneStartWidths...)
	}
	return d
}

// plainDef 生成无增减路段的定义，宽度取默认车道宽
func plainDef(sStart, sEnd float64, n int, width float64) *LaneDef {
	return NewLaneDef(sStart, sEnd, n, n, 0, defaultWidths(n, width), defaultWidths(n, width))
}

// expandLaneSpecs 把左右车道描述展开为覆盖全路长且分段对齐的定义序列
// 功能：沿s扫描，在每个变化点切分路段，未给出定义的一侧补上车道数不变的定义，
// 两侧返回的定义序列等长且分段一致
// 返回：(右侧定义, 左侧定义, 错误)
func expandLaneSpecs(right, left LaneSpec, totLength, defaultLaneWidth float64) ([]*LaneDef, []*LaneDef, error) {
	rightSide, err := newLaneSideState(right)
	if err != nil {
		return nil, nil, err
	}
	leftSide, err := newLaneSideState(left)
	if err != nil {
		return nil, nil, err
	}

	var outRight, outLeft []*LaneDef
	presentS := 0.0
	for presentS < totLength {
		addRight, nextRight, nRight := rightSide.probe(presentS, totLength)
		addLeft, nextLeft, nLeft := leftSide.probe(presentS, totLength)
		prevS := presentS
		switch {
		case !addLeft && !addRight:
			sEnd := math.Min(nextLeft, nextRight)
			outRight = append(outRight, rightSide.carryDef(presentS, sEnd, nRight, defaultLaneWidth))
			outLeft = append(outLeft, leftSide.carryDef(presentS, sEnd, nLeft, defaultLaneWidth))
			presentS = sEnd
		case addLeft && addRight:
			l := leftSide.defs[leftSide.it]
			r := rightSide.defs[rightSide.it]
			l.fillDefaultWidths(defaultLaneWidth)
			r.fillDefaultWidths(defaultLaneWidth)
			outLeft = append(outLeft, l)
			outRight = append(outRight, r)
			presentS = l.SEnd
			leftSide.it++
			rightSide.it++
		case addRight:
			r := rightSide.defs[rightSide.it]
			r.fillDefaultWidths(defaultLaneWidth)
			outRight = append(outRight, r)
			outLeft = append(outLeft, plainDef(presentS, r.SEnd, nLeft, defaultLaneWidth))
			presentS = r.SEnd
			rightSide.it++
		default:
			l := leftSide.defs[leftSide.it]
			l.fillDefaultWidths(defaultLaneWidth)
			outLeft = append(outLeft, l)
			outRight = append(outRight, plainDef(presentS, l.SEnd, nRight, defaultLaneWidth))
			presentS = l.SEnd
			leftSide.it++
		}
		if presentS <= prevS {
			return nil, nil, errors.Wrap(ErrGeneralIssueInputArguments, "lane definitions do not advance along the road")
		}
	}
	for _, d := range outRight {
		d.adjustWidths()
	}
	for _, d := range outLeft {
		d.adjustWidths()
	}
	return outRight, outLeft, nil
}

// CreateLanesMergeSplit 生成可含车道增减的车道容器
// 功能：按左右车道描述展开车道段，为增减车道生成首末导数为0的三次宽度多项式，
// 外侧车道标实线、内侧标虚线，并自动建立相邻车道段的车道关联
// 参数：
//
//	rightLanes/leftLanes: 左右车道描述，增减方向按道路方向而非行驶方向
//	roadLength: 道路全长
//	centerRoadMark: 中心线标线，每个车道段各持有一份拷贝
//	laneWidth: 默认车道宽
//	laneWidthEnd: 可选的终点车道宽，给出且不等于laneWidth时全路做宽度过渡
//
// 返回：车道容器与可能的错误
func CreateLanesMergeSplit(rightLanes, leftLanes LaneSpec, roadLength float64, centerRoadMark *RoadMark, laneWidth float64, laneWidthEnd ...float64) (*Lanes, error) {
	if len(laneWidthEnd) > 1 {
		return nil, errors.Wrap(ErrTooManyOptionalArguments, "only one end lane width can be given")
	}
	hasWidthEnd := len(laneWidthEnd) == 1
	widthEnd := 0.0
	if hasWidthEnd {
		widthEnd = laneWidthEnd[0]
	}

	rightDefs, leftDefs, err := expandLaneSpecs(rightLanes, leftLanes, roadLength, laneWidth)
	if err != nil {
		return nil, err
	}

	polyLane := func(length, widthStart float64, zeroStart bool, widthStop float64) (*Lane, error) {
		coeff, err := CoeffsForPoly3(length, widthStart, zeroStart, widthStop)
		if err != nil {
			return nil, err
		}
		return NewPolyLane(LaneTypeDriving, coeff[0], coeff[1], coeff[2], coeff[3]), nil
	}

	sections := make([]*LaneSection, 0, len(leftDefs))
	for ls := range leftDefs {
		center := NewLane(LaneTypeDriving, 0)
		if rm := centerRoadMark.clone(); rm != nil {
			center.AddRoadMark(rm)
		}
		lsec := NewLaneSection(leftDefs[ls].SStart, center)

		rd := rightDefs[ls]
		nRight := maxInt(rd.NLanesStart, rd.NLanesEnd)
		for i := 0; i < nRight; i++ {
			rm := StdRoadMarkBroken()
			if i == nRight-1 {
				rm = StdRoadMarkSolid()
			}
			var lane *Lane
			switch {
			case rd.NLanesStart > rd.NLanesEnd && i == absInt(rd.SubLane)-1:
				// 车道合并
				lane, err = polyLane(rd.SEnd-rd.SStart, rd.LaneStartWidths[i], false, rd.LaneEndWidths[i])
			case rd.NLanesStart < rd.NLanesEnd && i == absInt(rd.SubLane)-1:
				// 车道分出
				lane, err = polyLane(rd.SEnd-rd.SStart, rd.LaneStartWidths[i], true, rd.LaneEndWidths[i])
			case hasWidthEnd && laneWidth != widthEnd:
				lane, err = polyLane(rd.SEnd-rd.SStart, laneWidth, false, widthEnd)
			case len(rd.LaneStartWidths) > 0:
				lane, err = polyLane(rd.SEnd-rd.SStart, rd.LaneStartWidths[i], false, rd.LaneEndWidths[i])
			default:
				lane = NewLane(LaneTypeDriving, laneWidth)
			}
			if err != nil {
				return nil, err
			}
			lane.AddRoadMark(rm)
			lsec.AddRightLane(lane)
		}

		ld := leftDefs[ls]
		nLeft := maxInt(ld.NLanesStart, ld.NLanesEnd)
		for i := 0; i < nLeft; i++ {
			rm := StdRoadMarkBroken()
			if i == nLeft-1 {
				rm = StdRoadMarkSolid()
			}
			var lane *Lane
			switch {
			case ld.NLanesStart < ld.NLanesEnd && i == ld.SubLane-1:
				// 车道分出
				lane, err = polyLane(ld.SEnd-ld.SStart, ld.LaneStartWidths[i], true, ld.LaneEndWidths[i])
			case ld.NLanesStart > ld.NLanesEnd && i == ld.SubLane-1:
				// 车道合并
				lane, err = polyLane(ld.SEnd-ld.SStart, ld.LaneStartWidths[i], false, ld.LaneEndWidths[i])
			case hasWidthEnd && laneWidth != widthEnd:
				lane, err = polyLane(ld.SEnd-ld.SStart, laneWidth, false, widthEnd)
			case len(ld.LaneStartWidths) > 0:
				lane, err = polyLane(ld.SEnd-ld.SStart, ld.LaneStartWidths[i], false, ld.LaneEndWidths[i])
			default:
				lane = NewLane(LaneTypeDriving, laneWidth)
			}
			if err != nil {
				return nil, err
			}
			lane.AddRoadMark(rm)
			lsec.AddLeftLane(lane)
		}

		sections = append(sections, lsec)
	}

	linker := NewLaneLinker()
	for i := 1; i < len(rightDefs); i++ {
		cur, prev := rightDefs[i], rightDefs[i-1]
		switch {
		case cur.NLanesEnd > cur.NLanesStart:
			// 分出，跳过新车道
			for j := 0; j <= prev.NLanesEnd; j++ {
				if cur.SubLane < -(j + 1) {
					linker.AddLink(sections[i-1].rightLanes[j], sections[i].rightLanes[j])
				} else if cur.SubLane > -(j + 1) {
					linker.AddLink(sections[i-1].rightLanes[j-1], sections[i].rightLanes[j])
				}
			}
		case prev.NLanesEnd < prev.NLanesStart:
			// 合并，跳过消失的车道
			for j := 0; j <= prev.NLanesEnd; j++ {
				if prev.SubLane < -(j + 1) {
					linker.AddLink(sections[i-1].rightLanes[j], sections[i].rightLanes[j])
				} else if prev.SubLane > -(j + 1) {
					linker.AddLink(sections[i-1].rightLanes[j], sections[i].rightLanes[j-1])
				}
			}
		default:
			for j := 0; j < prev.NLanesEnd; j++ {
				linker.AddLink(sections[i-1].rightLanes[j], sections[i].rightLanes[j])
			}
		}
	}
	for i := 1; i < len(leftDefs); i++ {
		cur, prev := leftDefs[i], leftDefs[i-1]
		switch {
		case cur.NLanesEnd > cur.NLanesStart:
			for j := 0; j <= prev.NLanesEnd; j++ {
				if cur.SubLane < j+1 {
					linker.AddLink(sections[i-1].leftLanes[j-1], sections[i].leftLanes[j])
				} else if cur.SubLane > j+1 {
					linker.AddLink(sections[i-1].leftLanes[j], sections[i].leftLanes[j])
				}
			}
		case prev.NLanesEnd < prev.NLanesStart:
			for j := 0; j <= prev.NLanesEnd; j++ {
				if prev.SubLane < j+1 {
					linker.AddLink(sections[i-1].leftLanes[j], sections[i].leftLanes[j-1])
				} else if prev.SubLane > j+1 {
					linker.AddLink(sections[i-1].leftLanes[j], sections[i].leftLanes[j])
				}
			}
		default:
			for j := 0; j < prev.NLanesEnd; j++ {
				linker.AddLink(sections[i-1].leftLanes[j], sections[i].leftLanes[j])
			}
		}
	}

	lanes := NewLanes()
	for _, lsec := range sections {
		if err := lanes.AddLaneSection(lsec, linker); err != nil {
			return nil, err
		}
	}
	return lanes, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
