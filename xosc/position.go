package xosc

import (
	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Position 场景中某个位置的描述
// 说明：Element输出带Position外层的完整元素，供动作直接挂接
type Position interface {
	Element() *etree.Element
}

// WorldPosition 世界坐标系下的绝对位置
// 说明：x与y必填，z与三个欧拉角可单独缺省
type WorldPosition struct {
	x, y                   float64
	z, h, p, r             float64
	hasZ, hasH, hasP, hasR bool
}

func NewWorldPosition(x, y float64) *WorldPosition {
	return &WorldPosition{x: x, y: y}
}

func (wp *WorldPosition) SetZ(z float64) *WorldPosition {
	wp.z = z
	wp.hasZ = true
	return wp
}

func (wp *WorldPosition) SetHeading(h float64) *WorldPosition {
	wp.h = h
	wp.hasH = true
	return wp
}

func (wp *WorldPosition) SetPitch(p float64) *WorldPosition {
	wp.p = p
	wp.hasP = true
	return wp
}

func (wp *WorldPosition) SetRoll(r float64) *WorldPosition {
	wp.r = r
	wp.hasR = true
	return wp
}

func (wp *WorldPosition) Element() *etree.Element {
	elem := etree.NewElement("Position")
	pos := elem.CreateElement("WorldPosition")
	pos.CreateAttr("x", ftoa(wp.x))
	pos.CreateAttr("y", ftoa(wp.y))
	if wp.hasZ {
		pos.CreateAttr("z", ftoa(wp.z))
	}
	if wp.hasH {
		pos.CreateAttr("h", ftoa(wp.h))
	}
	if wp.hasP {
		pos.CreateAttr("p", ftoa(wp.p))
	}
	if wp.hasR {
		pos.CreateAttr("r", ftoa(wp.r))
	}
	return elem
}

// RoadPosition 道路参考线坐标系下的位置
// 说明：与路网侧的道路编号及s/t坐标约定一致
type RoadPosition struct {
	roadID      int
	s, t        float64
	orientation *Orientation
}

func NewRoadPosition(roadID int, s, t float64) *RoadPosition {
	return &RoadPosition{roadID: roadID, s: s, t: t}
}

func (rp *RoadPosition) SetOrientation(orientation *Orientation) *RoadPosition {
	rp.orientation = orientation
	return rp
}

func (rp *RoadPosition) Element() *etree.Element {
	elem := etree.NewElement("Position")
	pos := elem.CreateElement("RoadPosition")
	pos.CreateAttr("roadId", itoa(rp.roadID))
	pos.CreateAttr("s", ftoa(rp.s))
	pos.CreateAttr("t", ftoa(rp.t))
	if rp.orientation.filled() {
		pos.AddChild(rp.orientation.Element())
	}
	return elem
}

// LanePosition 车道坐标系下的位置
// 说明：车道编号沿用路网侧的约定，左正右负，offset为相对车道中心的横向偏移
type LanePosition struct {
	roadID      int
	laneID      int
	s, offset   float64
	orientation *Orientation
}

func NewLanePosition(roadID, laneID int, s, offset float64) *LanePosition {
	return &LanePosition{roadID: roadID, laneID: laneID, s: s, offset: offset}
}

func (lp *LanePosition) SetOrientation(orientation *Orientation) *LanePosition {
	lp.orientation = orientation
	return lp
}

func (lp *LanePosition) Element() *etree.Element {
	elem := etree.NewElement("Position")
	pos := elem.CreateElement("LanePosition")
	pos.CreateAttr("roadId", itoa(lp.roadID))
	pos.CreateAttr("laneId", itoa(lp.laneID))
	pos.CreateAttr("s", ftoa(lp.s))
	pos.CreateAttr("offset", ftoa(lp.offset))
	if lp.orientation.filled() {
		pos.AddChild(lp.orientation.Element())
	}
	return elem
}

// RelativeLanePositionOption 相对车道位置的纵向距离选项
type RelativeLanePositionOption func(*RelativeLanePosition)

// WithDS 沿道路参考线度量的纵向距离
func WithDS(ds float64) RelativeLanePositionOption {
	return func(rlp *RelativeLanePosition) {
		rlp.ds = ds
		rlp.hasDS = true
	}
}

// WithDSLane 沿车道中心线度量的纵向距离
func WithDSLane(dsLane float64) RelativeLanePositionOption {
	return func(rlp *RelativeLanePosition) {
		rlp.dsLane = dsLane
		rlp.hasDSLane = true
	}
}

// RelativeLanePosition 相对于某实体的车道位置
type RelativeLanePosition struct {
	entity      string
	dLane       int
	offset      float64
	ds, dsLane  float64
	hasDS       bool
	hasDSLane   bool
	orientation *Orientation
}

// NewRelativeLanePosition 构造相对车道位置
// 功能：以entity当前位置为基准，偏移dLane条车道，
// 纵向距离经由WithDS或WithDSLane二选一给出
// 参数：
//
//	entity: 基准实体名
//	dLane: 相对车道数，左正右负
//	offset: 相对车道中心的横向偏移
func NewRelativeLanePosition(entity string, dLane int, offset float64, opts ...RelativeLanePositionOption) (*RelativeLanePosition, error) {
	rlp := &RelativeLanePosition{entity: entity, dLane: dLane, offset: offset}
	for _, opt := range opts {
		opt(rlp)
	}
	if rlp.hasDS && rlp.hasDSLane {
		return nil, errors.Wrap(ErrTooManyOptionalArguments, "relative lane position takes either ds or dsLane, not both")
	}
	if !rlp.hasDS && !rlp.hasDSLane {
		return nil, errors.Wrap(ErrNotEnoughInputArguments, "relative lane position needs ds or dsLane")
	}
	return rlp, nil
}

func (rlp *RelativeLanePosition) SetOrientation(orientation *Orientation) *RelativeLanePosition {
	rlp.orientation = orientation
	return rlp
}

func (rlp *RelativeLanePosition) Element() *etree.Element {
	elem := etree.NewElement("Position")
	pos := elem.CreateElement("RelativeLanePosition")
	pos.CreateAttr("entityRef", rlp.entity)
	if rlp.hasDS {
		pos.CreateAttr("ds", ftoa(rlp.ds))
	}
	if rlp.hasDSLane {
		pos.CreateAttr("dsLane", ftoa(rlp.dsLane))
	}
	pos.CreateAttr("offset", ftoa(rlp.offset))
	pos.CreateAttr("dLane", itoa(rlp.dLane))
	if rlp.orientation.filled() {
		pos.AddChild(rlp.orientation.Element())
	}
	return elem
}
