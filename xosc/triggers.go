package xosc

import "github.com/beevik/etree"

// ValueCondition 按场景状态取值评估的条件
type ValueCondition interface {
	Element() *etree.Element
}

// SimulationTimeCondition 以仿真时间为判据的条件
type SimulationTimeCondition struct {
	value float64
	rule  Rule
}

func NewSimulationTimeCondition(value float64, rule Rule) *SimulationTimeCondition {
	return &SimulationTimeCondition{value: value, rule: rule}
}

func (sc *SimulationTimeCondition) Element() *etree.Element {
	elem := etree.NewElement("SimulationTimeCondition")
	elem.CreateAttr("value", ftoa(sc.value))
	elem.CreateAttr("rule", string(sc.rule))
	return elem
}

// StoryboardElementStateCondition 以故事板元素状态为判据的条件
// 功能：当被引用的故事板元素进入给定状态时成立，
// 常用于让事件衔接在前一事件完成之后
type StoryboardElementStateCondition struct {
	elementType StoryboardElementType
	reference   string
	state       StoryboardElementState
}

func NewStoryboardElementStateCondition(elementType StoryboardElementType, reference string, state StoryboardElementState) *StoryboardElementStateCondition {
	return &StoryboardElementStateCondition{elementType: elementType, reference: reference, state: state}
}

func (sc *StoryboardElementStateCondition) Element() *etree.Element {
	elem := etree.NewElement("StoryboardElementStateCondition")
	elem.CreateAttr("storyboardElementType", string(sc.elementType))
	elem.CreateAttr("storyboardElementRef", sc.reference)
	elem.CreateAttr("state", string(sc.state))
	return elem
}

// Condition 带名字与触发沿的单个条件
type Condition struct {
	name      string
	delay     float64
	edge      ConditionEdge
	condition ValueCondition
}

// NewCondition 构造条件
// 参数：
//
//	name: 条件名
//	delay: 条件成立到触发之间的延迟（s）
//	edge: 触发沿
//	condition: 实际评估的条件
func NewCondition(name string, delay float64, edge ConditionEdge, condition ValueCondition) *Condition {
	return &Condition{name: name, delay: delay, edge: edge, condition: condition}
}

func (c *Condition) Element() *etree.Element {
	elem := etree.NewElement("Condition")
	elem.CreateAttr("name", c.name)
	elem.CreateAttr("delay", ftoa(c.delay))
	elem.CreateAttr("conditionEdge", string(c.edge))
	byValue := elem.CreateElement("ByValueCondition")
	byValue.AddChild(c.condition.Element())
	return elem
}

// ConditionGroup 条件组，组内所有条件同时成立才触发
type ConditionGroup struct {
	conditions []*Condition
}

func NewConditionGroup(conditions ...*Condition) *ConditionGroup {
	return &ConditionGroup{conditions: conditions}
}

// AddCondition 追加一个条件
func (cg *ConditionGroup) AddCondition(condition *Condition) *ConditionGroup {
	cg.conditions = append(cg.conditions, condition)
	return cg
}

func (cg *ConditionGroup) Element() *etree.Element {
	elem := etree.NewElement("ConditionGroup")
	for _, c := range cg.conditions {
		elem.AddChild(c.Element())
	}
	return elem
}

// Trigger 触发器，任一条件组成立即触发
// 说明：不含条件组的触发器是合法的，序列化为空元素，
// 作为StartTrigger表示立即触发，作为StopTrigger表示从不触发
type Trigger struct {
	groups []*ConditionGroup
}

func NewTrigger(groups ...*ConditionGroup) *Trigger {
	return &Trigger{groups: groups}
}

// NewSingleConditionTrigger 单条件触发器的便捷构造
func NewSingleConditionTrigger(name string, delay float64, edge ConditionEdge, condition ValueCondition) *Trigger {
	return NewTrigger(NewConditionGroup(NewCondition(name, delay, edge, condition)))
}

// AddConditionGroup 追加一个条件组
func (t *Trigger) AddConditionGroup(group *ConditionGroup) *Trigger {
	t.groups = append(t.groups, group)
	return t
}

// Element 输出触发器元素
// 参数：
//
//	point: 用途，决定元素名为StartTrigger还是StopTrigger
func (t *Trigger) Element(point TriggeringPoint) *etree.Element {
	elem := etree.NewElement(point.elementName())
	if t == nil {
		return elem
	}
	for _, g := range t.groups {
		elem.AddChild(g.Element())
	}
	return elem
}
