package xosc

import (
	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Storyboard 场景的故事板
// 功能：由初始化动作、若干故事与一个停止触发器组成，
// 描述场景随时间展开的全部行为
type Storyboard struct {
	init        *Init
	stories     []*Story
	stopTrigger *Trigger
}

// NewStoryboard 构造故事板
// 参数：
//
//	init: 初始化动作集
//	stopTrigger: 可选，整个场景的停止触发器，缺省为从不触发
func NewStoryboard(init *Init, stopTrigger ...*Trigger) *Storyboard {
	sb := &Storyboard{init: init}
	if len(stopTrigger) > 0 {
		sb.stopTrigger = stopTrigger[0]
	}
	return sb
}

// AddStory 追加一个故事
func (sb *Storyboard) AddStory(story *Story) *Storyboard {
	sb.stories = append(sb.stories, story)
	return sb
}

// validate 序列化前的完整性检查，逐层下探到事件
func (sb *Storyboard) validate() error {
	if len(sb.stories) == 0 {
		return errors.Wrap(ErrEmptyStoryboardElement, "storyboard has no stories")
	}
	for _, story := range sb.stories {
		if err := story.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (sb *Storyboard) Element() *etree.Element {
	elem := etree.NewElement("Storyboard")
	elem.AddChild(sb.init.Element())
	for _, story := range sb.stories {
		elem.AddChild(story.Element())
	}
	elem.AddChild(sb.stopTrigger.Element(TriggeringPointStop))
	return elem
}

// Init 故事板的初始化段，场景开始前对各实体执行的动作
type Init struct {
	entityOrder []string
	actions     map[string][]PrivateAction
}

func NewInit() *Init {
	return &Init{actions: make(map[string][]PrivateAction)}
}

// AddInitAction 给实体追加一个初始化动作
// 说明：同一实体的动作按加入顺序执行，实体间按首次出现的顺序输出
func (in *Init) AddInitAction(entity string, action PrivateAction) *Init {
	if _, ok := in.actions[entity]; !ok {
		in.entityOrder = append(in.entityOrder, entity)
	}
	in.actions[entity] = append(in.actions[entity], action)
	return in
}

func (in *Init) Element() *etree.Element {
	elem := etree.NewElement("Init")
	actions := elem.CreateElement("Actions")
	for _, entity := range in.entityOrder {
		private := actions.CreateElement("Private")
		private.CreateAttr("entityRef", entity)
		for _, action := range in.actions[entity] {
			private.AddChild(action.Element())
		}
	}
	return elem
}

// Story 故事，若干并行展开的幕的容器
type Story struct {
	name       string
	parameters *ParameterDeclarations
	acts       []*Act
}

func NewStory(name string) *Story {
	return &Story{name: name, parameters: NewParameterDeclarations()}
}

// AddParameter 追加一条故事级参数声明
func (s *Story) AddParameter(parameter *Parameter) *Story {
	s.parameters.AddParameter(parameter)
	return s
}

// AddAct 追加一幕
func (s *Story) AddAct(act *Act) *Story {
	s.acts = append(s.acts, act)
	return s
}

func (s *Story) validate() error {
	if len(s.acts) == 0 {
		return errors.Wrapf(ErrEmptyStoryboardElement, "story %s has no acts", s.name)
	}
	for _, act := range s.acts {
		if err := act.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Story) Element() *etree.Element {
	elem := etree.NewElement("Story")
	elem.CreateAttr("name", s.name)
	if !s.parameters.empty() {
		elem.AddChild(s.parameters.Element())
	}
	for _, act := range s.acts {
		elem.AddChild(act.Element())
	}
	return elem
}

// Act 幕，带起止触发器的操作组集合
type Act struct {
	name         string
	startTrigger *Trigger
	stopTrigger  *Trigger
	groups       []*ManeuverGroup
}

// NewAct 构造幕
// 参数：
//
//	name: 幕名
//	startTrigger: 起始触发器
//	stopTrigger: 可选，停止触发器，缺省为从不触发
func NewAct(name string, startTrigger *Trigger, stopTrigger ...*Trigger) *Act {
	act := &Act{name: name, startTrigger: startTrigger}
	if len(stopTrigger) > 0 {
		act.stopTrigger = stopTrigger[0]
	}
	return act
}

// AddManeuverGroup 追加一个操作组
func (a *Act) AddManeuverGroup(group *ManeuverGroup) *Act {
	a.groups = append(a.groups, group)
	return a
}

func (a *Act) validate() error {
	if len(a.groups) == 0 {
		return errors.Wrapf(ErrEmptyStoryboardElement, "act %s has no maneuver groups", a.name)
	}
	for _, group := range a.groups {
		if err := group.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (a *Act) Element() *etree.Element {
	elem := etree.NewElement("Act")
	elem.CreateAttr("name", a.name)
	for _, group := range a.groups {
		elem.AddChild(group.Element())
	}
	elem.AddChild(a.startTrigger.Element(TriggeringPointStart))
	elem.AddChild(a.stopTrigger.Element(TriggeringPointStop))
	return elem
}

// ManeuverGroup 操作组，把若干操作施加到一组参与实体上
type ManeuverGroup struct {
	name                     string
	maxExecution             int
	selectTriggeringEntities bool
	actors                   []string
	maneuvers                []*Maneuver
}

// NewManeuverGroup 构造操作组
// 参数：
//
//	name: 组名
//	maxExecution: 可选，最大执行次数，缺省1
func NewManeuverGroup(name string, maxExecution ...int) *ManeuverGroup {
	mg := &ManeuverGroup{name: name, maxExecution: 1}
	if len(maxExecution) > 0 {
		mg.maxExecution = maxExecution[0]
	}
	return mg
}

// SetSelectTriggeringEntities 参与实体是否取触发条件中命中的实体
func (mg *ManeuverGroup) SetSelectTriggeringEntities(selects bool) *ManeuverGroup {
	mg.selectTriggeringEntities = selects
	return mg
}

// AddActor 追加一个参与实体
func (mg *ManeuverGroup) AddActor(entity string) *ManeuverGroup {
	mg.actors = append(mg.actors, entity)
	return mg
}

// AddManeuver 追加一个操作
func (mg *ManeuverGroup) AddManeuver(maneuver *Maneuver) *ManeuverGroup {
	mg.maneuvers = append(mg.maneuvers, maneuver)
	return mg
}

func (mg *ManeuverGroup) validate() error {
	if len(mg.actors) == 0 {
		return errors.Wrapf(ErrEmptyStoryboardElement, "maneuver group %s has no actors", mg.name)
	}
	for _, maneuver := range mg.maneuvers {
		if err := maneuver.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (mg *ManeuverGroup) Element() *etree.Element {
	elem := etree.NewElement("ManeuverGroup")
	elem.CreateAttr("name", mg.name)
	elem.CreateAttr("maximumExecutionCount", itoa(mg.maxExecution))
	actors := elem.CreateElement("Actors")
	actors.CreateAttr("selectTriggeringEntities", btoa(mg.selectTriggeringEntities))
	for _, actor := range mg.actors {
		actors.AddChild(NewEntityRef(actor).Element())
	}
	for _, maneuver := range mg.maneuvers {
		elem.AddChild(maneuver.Element())
	}
	return elem
}

// Maneuver 操作，同一实体组上顺序或并行的事件序列
type Maneuver struct {
	name   string
	events []*Event
}

func NewManeuver(name string) *Maneuver {
	return &Maneuver{name: name}
}

// AddEvent 追加一个事件
func (m *Maneuver) AddEvent(event *Event) *Maneuver {
	m.events = append(m.events, event)
	return m
}

func (m *Maneuver) validate() error {
	if len(m.events) == 0 {
		return errors.Wrapf(ErrEmptyStoryboardElement, "maneuver %s has no events", m.name)
	}
	for _, event := range m.events {
		if err := event.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Maneuver) Element() *etree.Element {
	elem := etree.NewElement("Maneuver")
	elem.CreateAttr("name", m.name)
	for _, event := range m.events {
		elem.AddChild(event.Element())
	}
	return elem
}

// namedAction 事件内带名字的动作
type namedAction struct {
	name   string
	action PrivateAction
}

// Event 事件，由起始触发器引发的一组动作
type Event struct {
	name         string
	priority     Priority
	maxExecution int
	actions      []namedAction
	startTrigger *Trigger
}

// NewEvent 构造事件
// 参数：
//
//	name: 事件名
//	priority: 与同操作内其他事件的优先级关系
//	maxExecution: 可选，最大执行次数，缺省1
func NewEvent(name string, priority Priority, maxExecution ...int) *Event {
	e := &Event{name: name, priority: priority, maxExecution: 1}
	if len(maxExecution) > 0 {
		e.maxExecution = maxExecution[0]
	}
	return e
}

// AddAction 追加一个带名字的动作，多个动作按加入顺序输出
func (e *Event) AddAction(name string, action PrivateAction) *Event {
	e.actions = append(e.actions, namedAction{name: name, action: action})
	return e
}

// SetStartTrigger 设置事件的起始触发器
func (e *Event) SetStartTrigger(trigger *Trigger) *Event {
	e.startTrigger = trigger
	return e
}

func (e *Event) validate() error {
	if len(e.actions) == 0 {
		return errors.Wrapf(ErrEmptyStoryboardElement, "event %s has no actions", e.name)
	}
	if e.startTrigger == nil {
		return errors.Wrapf(ErrEmptyStoryboardElement, "event %s has no start trigger", e.name)
	}
	return nil
}

func (e *Event) Element() *etree.Element {
	elem := etree.NewElement("Event")
	elem.CreateAttr("name", e.name)
	elem.CreateAttr("priority", string(e.priority))
	elem.CreateAttr("maximumExecutionCount", itoa(e.maxExecution))
	for _, na := range e.actions {
		action := elem.CreateElement("Action")
		action.CreateAttr("name", na.name)
		action.AddChild(na.action.Element())
	}
	elem.AddChild(e.startTrigger.Element(TriggeringPointStart))
	return elem
}
