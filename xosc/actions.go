package xosc

import "github.com/beevik/etree"

// PrivateAction 作用于单个实体的动作
// 说明：Element输出带PrivateAction外层的完整元素，
// 可直接放入Init或事件中
type PrivateAction interface {
	Element() *etree.Element
}

// TeleportAction 把实体瞬移到给定位置
type TeleportAction struct {
	position Position
}

func NewTeleportAction(position Position) *TeleportAction {
	return &TeleportAction{position: position}
}

func (ta *TeleportAction) Element() *etree.Element {
	elem := etree.NewElement("PrivateAction")
	teleport := elem.CreateElement("TeleportAction")
	teleport.AddChild(ta.position.Element())
	return elem
}

// AbsoluteSpeedAction 把实体速度过渡到给定绝对值
type AbsoluteSpeedAction struct {
	speed    float64
	dynamics *TransitionDynamics
}

// NewAbsoluteSpeedAction 构造绝对速度动作
// 参数：
//
//	speed: 目标速度（m/s）
//	dynamics: 速度过渡的动态
func NewAbsoluteSpeedAction(speed float64, dynamics *TransitionDynamics) *AbsoluteSpeedAction {
	return &AbsoluteSpeedAction{speed: speed, dynamics: dynamics}
}

func (sa *AbsoluteSpeedAction) Element() *etree.Element {
	elem := etree.NewElement("PrivateAction")
	longitudinal := elem.CreateElement("LongitudinalAction")
	speed := longitudinal.CreateElement("SpeedAction")
	speed.AddChild(sa.dynamics.Element("SpeedActionDynamics"))
	target := speed.CreateElement("SpeedActionTarget")
	absolute := target.CreateElement("AbsoluteTargetSpeed")
	absolute.CreateAttr("value", ftoa(sa.speed))
	return elem
}

// RelativeLaneChangeAction 相对于某实体所在车道的变道动作
type RelativeLaneChangeAction struct {
	lane             int
	entity           string
	dynamics         *TransitionDynamics
	targetLaneOffset float64
	hasTargetOffset  bool
}

// NewRelativeLaneChangeAction 构造相对变道动作
// 参数：
//
//	lane: 相对车道数，左正右负，0表示回到entity所在车道
//	entity: 基准实体名
//	dynamics: 变道过渡的动态
func NewRelativeLaneChangeAction(lane int, entity string, dynamics *TransitionDynamics) *RelativeLaneChangeAction {
	return &RelativeLaneChangeAction{lane: lane, entity: entity, dynamics: dynamics}
}

// SetTargetLaneOffset 变道完成后相对目标车道中心的横向偏移
func (lca *RelativeLaneChangeAction) SetTargetLaneOffset(offset float64) *RelativeLaneChangeAction {
	lca.targetLaneOffset = offset
	lca.hasTargetOffset = true
	return lca
}

func (lca *RelativeLaneChangeAction) Element() *etree.Element {
	elem := etree.NewElement("PrivateAction")
	lateral := elem.CreateElement("LateralAction")
	change := lateral.CreateElement("LaneChangeAction")
	if lca.hasTargetOffset {
		change.CreateAttr("targetLaneOffset", ftoa(lca.targetLaneOffset))
	}
	change.AddChild(lca.dynamics.Element("LaneChangeActionDynamics"))
	target := change.CreateElement("LaneChangeTarget")
	relative := target.CreateElement("RelativeTargetLane")
	relative.CreateAttr("value", itoa(lca.lane))
	relative.CreateAttr("entityRef", lca.entity)
	return elem
}
