package xosc

// OpenSCENARIO根元素的模式声明
const (
	schemaNamespace = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation  = "OpenScenario.xsd"
)

// ParameterType 参数声明的数据类型
type ParameterType string

const (
	ParameterTypeInteger       ParameterType = "integer"
	ParameterTypeDouble        ParameterType = "double"
	ParameterTypeString        ParameterType = "string"
	ParameterTypeUnsignedInt   ParameterType = "unsignedInt"
	ParameterTypeUnsignedShort ParameterType = "unsignedShort"
	ParameterTypeBoolean       ParameterType = "boolean"
	ParameterTypeDateTime      ParameterType = "dateTime"
)

// DynamicsShape 过渡动态的曲线形状
type DynamicsShape string

const (
	DynamicsShapeLinear     DynamicsShape = "linear"
	DynamicsShapeCubic      DynamicsShape = "cubic"
	DynamicsShapeSinusoidal DynamicsShape = "sinusoidal"
	DynamicsShapeStep       DynamicsShape = "step"
)

// DynamicsDimension 过渡动态value取值的量纲
type DynamicsDimension string

const (
	DynamicsDimensionRate     DynamicsDimension = "rate"
	DynamicsDimensionTime     DynamicsDimension = "time"
	DynamicsDimensionDistance DynamicsDimension = "distance"
)

// Rule 条件判断使用的比较规则
type Rule string

const (
	RuleGreaterThan    Rule = "greaterThan"
	RuleLessThan       Rule = "lessThan"
	RuleEqualTo        Rule = "equalTo"
	RuleGreaterOrEqual Rule = "greaterOrEqual"
	RuleLessOrEqual    Rule = "lessOrEqual"
	RuleNotEqualTo     Rule = "notEqualTo"
)

// ConditionEdge 条件在哪种跳变沿上触发
type ConditionEdge string

const (
	ConditionEdgeRising          ConditionEdge = "rising"
	ConditionEdgeFalling         ConditionEdge = "falling"
	ConditionEdgeRisingOrFalling ConditionEdge = "risingOrFalling"
	ConditionEdgeNone            ConditionEdge = "none"
)

// Priority 事件相对于同一操作内其他事件的优先级
// 说明：overwrite为1.2版之前的写法，1.2版起写作override
type Priority string

const (
	PriorityOverwrite Priority = "overwrite"
	PriorityOverride  Priority = "override"
	PrioritySkip      Priority = "skip"
	PriorityParallel  Priority = "parallel"
)

// StoryboardElementState 故事板元素的运行状态
type StoryboardElementState string

const (
	StateStartTransition StoryboardElementState = "startTransition"
	StateEndTransition   StoryboardElementState = "endTransition"
	StateStopTransition  StoryboardElementState = "stopTransition"
	StateSkipTransition  StoryboardElementState = "skipTransition"
	StateCompleteState   StoryboardElementState = "completeState"
	StateRunningState    StoryboardElementState = "runningState"
	StateStandbyState    StoryboardElementState = "standbyState"
)

// StoryboardElementType 故事板元素的层级类型
type StoryboardElementType string

const (
	StoryboardElementStory         StoryboardElementType = "story"
	StoryboardElementAct           StoryboardElementType = "act"
	StoryboardElementManeuverGroup StoryboardElementType = "maneuverGroup"
	StoryboardElementManeuver      StoryboardElementType = "maneuver"
	StoryboardElementEvent         StoryboardElementType = "event"
	StoryboardElementAction        StoryboardElementType = "action"
)

// VehicleCategory 车辆类别
type VehicleCategory string

const (
	VehicleCategoryCar         VehicleCategory = "car"
	VehicleCategoryVan         VehicleCategory = "van"
	VehicleCategoryTruck       VehicleCategory = "truck"
	VehicleCategoryTrailer     VehicleCategory = "trailer"
	VehicleCategorySemitrailer VehicleCategory = "semitrailer"
	VehicleCategoryBus         VehicleCategory = "bus"
	VehicleCategoryMotorbike   VehicleCategory = "motorbike"
	VehicleCategoryBicycle     VehicleCategory = "bicycle"
	VehicleCategoryTrain       VehicleCategory = "train"
	VehicleCategoryTram        VehicleCategory = "tram"
)

// PedestrianCategory 行人类别
type PedestrianCategory string

const (
	PedestrianCategoryPedestrian PedestrianCategory = "pedestrian"
	PedestrianCategoryWheelchair PedestrianCategory = "wheelchair"
	PedestrianCategoryAnimal     PedestrianCategory = "animal"
)

// ReferenceContext 朝向取值是绝对还是相对
type ReferenceContext string

const (
	ReferenceContextRelative ReferenceContext = "relative"
	ReferenceContextAbsolute ReferenceContext = "absolute"
)

// TriggeringPoint 触发器的用途，决定序列化为StartTrigger还是StopTrigger
type TriggeringPoint string

const (
	TriggeringPointStart TriggeringPoint = "start"
	TriggeringPointStop  TriggeringPoint = "stop"
)

func (tp TriggeringPoint) elementName() string {
	if tp == TriggeringPointStop {
		return "StopTrigger"
	}
	return "StartTrigger"
}
