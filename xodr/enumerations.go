package xodr

// ContactPoint 道路连接端点
type ContactPoint string

const (
	// ContactPointNone 无接触点（连接junction时使用）
	ContactPointNone ContactPoint = ""
	// ContactPointStart 道路起点
	ContactPointStart ContactPoint = "start"
	// ContactPointEnd 道路终点
	ContactPointEnd ContactPoint = "end"
)

// ElementType 道路link指向的元素类型
type ElementType string

const (
	ElementTypeRoad     ElementType = "road"
	ElementTypeJunction ElementType = "junction"
)

// LinkType 连接方向
type LinkType string

const (
	LinkTypePredecessor LinkType = "predecessor"
	LinkTypeSuccessor   LinkType = "successor"
	LinkTypeNeighbor    LinkType = "neighbor"
)

// Direction neighbor连接的相对行驶方向
type Direction string

const (
	DirectionSame     Direction = "same"
	DirectionOpposite Direction = "opposite"
)

// TrafficRule 道路通行规则（右侧/左侧通行）
type TrafficRule string

const (
	TrafficRuleRHT TrafficRule = "RHT"
	TrafficRuleLHT TrafficRule = "LHT"
)

// LaneType 车道类型，取值与OpenDRIVE标准一致
type LaneType string

const (
	LaneTypeNone           LaneType = "none"
	LaneTypeDriving        LaneType = "driving"
	LaneTypeStop           LaneType = "stop"
	LaneTypeShoulder       LaneType = "shoulder"
	LaneTypeBiking         LaneType = "biking"
	LaneTypeSidewalk       LaneType = "sidewalk"
	LaneTypeCurb           LaneType = "curb"
	LaneTypeBorder         LaneType = "border"
	LaneTypeRestricted     LaneType = "restricted"
	LaneTypeParking        LaneType = "parking"
	LaneTypeBidirectional  LaneType = "bidirectional"
	LaneTypeMedian         LaneType = "median"
	LaneTypeRoadWorks      LaneType = "roadWorks"
	LaneTypeTram           LaneType = "tram"
	LaneTypeRail           LaneType = "rail"
	LaneTypeEntry          LaneType = "entry"
	LaneTypeExit           LaneType = "exit"
	LaneTypeOffRamp        LaneType = "offRamp"
	LaneTypeOnRamp         LaneType = "onRamp"
	LaneTypeConnectingRamp LaneType = "connectingRamp"
	LaneTypeBus            LaneType = "bus"
	LaneTypeTaxi           LaneType = "taxi"
	LaneTypeHOV            LaneType = "HOV"
)

// RoadMarkType 路面标线类型
// 说明：组合类型的取值带空格（如"solid solid"），与OpenDRIVE文本值一致
type RoadMarkType string

const (
	RoadMarkTypeNone         RoadMarkType = "none"
	RoadMarkTypeSolid        RoadMarkType = "solid"
	RoadMarkTypeBroken       RoadMarkType = "broken"
	RoadMarkTypeSolidSolid   RoadMarkType = "solid solid"
	RoadMarkTypeSolidBroken  RoadMarkType = "solid broken"
	RoadMarkTypeBrokenSolid  RoadMarkType = "broken solid"
	RoadMarkTypeBrokenBroken RoadMarkType = "broken broken"
	RoadMarkTypeBottsDots    RoadMarkType = "botts dots"
	RoadMarkTypeGrass        RoadMarkType = "grass"
	RoadMarkTypeCurb         RoadMarkType = "curb"
	RoadMarkTypeEdge         RoadMarkType = "edge"
)

// RoadMarkWeight 标线粗细
type RoadMarkWeight string

const (
	RoadMarkWeightStandard RoadMarkWeight = "standard"
	RoadMarkWeightBold     RoadMarkWeight = "bold"
)

// RoadMarkColor 标线颜色
type RoadMarkColor string

const (
	RoadMarkColorStandard RoadMarkColor = "standard"
	RoadMarkColorBlue     RoadMarkColor = "blue"
	RoadMarkColorGreen    RoadMarkColor = "green"
	RoadMarkColorRed      RoadMarkColor = "red"
	RoadMarkColorWhite    RoadMarkColor = "white"
	RoadMarkColorYellow   RoadMarkColor = "yellow"
	RoadMarkColorOrange   RoadMarkColor = "orange"
)

// MarkRule 标线跨越规则
type MarkRule string

const (
	MarkRuleNoPassing MarkRule = "no passing"
	MarkRuleCaution   MarkRule = "caution"
	MarkRuleNone      MarkRule = "none"
)

// LaneChange 允许的变道方向
type LaneChange string

const (
	LaneChangeIncrease LaneChange = "increase"
	LaneChangeDecrease LaneChange = "decrease"
	LaneChangeBoth     LaneChange = "both"
	LaneChangeNone     LaneChange = "none"
)

// RoadType 道路类型（type元素）
type RoadType string

const (
	RoadTypeUnknown    RoadType = "unknown"
	RoadTypeRural      RoadType = "rural"
	RoadTypeMotorway   RoadType = "motorway"
	RoadTypeTown       RoadType = "town"
	RoadTypeLowSpeed   RoadType = "lowSpeed"
	RoadTypePedestrian RoadType = "pedestrian"
	RoadTypeBicycle    RoadType = "bicycle"
)

// SpeedUnit 限速单位
type SpeedUnit string

const (
	SpeedUnitMS  SpeedUnit = "m/s"
	SpeedUnitMPH SpeedUnit = "mph"
	SpeedUnitKPH SpeedUnit = "kph"
)

// JunctionType 路口类型
type JunctionType string

const (
	JunctionTypeDefault JunctionType = "default"
	JunctionTypeVirtual JunctionType = "virtual"
	JunctionTypeDirect  JunctionType = "direct"
)

// JunctionGroupType 路口组类型
type JunctionGroupType string

const (
	JunctionGroupTypeRoundabout JunctionGroupType = "roundabout"
	JunctionGroupTypeUnknown    JunctionGroupType = "unknown"
)

// Orientation 物体/信号相对道路方向
type Orientation string

const (
	OrientationPositive Orientation = "+"
	OrientationNegative Orientation = "-"
	OrientationNone     Orientation = "none"
)

// Dynamic 信号是否动态（交通灯为yes，普通标志为no）
type Dynamic string

const (
	DynamicYes Dynamic = "yes"
	DynamicNo  Dynamic = "no"
)

// ObjectType 道路物体类型
type ObjectType string

const (
	ObjectTypeNone          ObjectType = "none"
	ObjectTypeObstacle      ObjectType = "obstacle"
	ObjectTypePole          ObjectType = "pole"
	ObjectTypeTree          ObjectType = "tree"
	ObjectTypeVegetation    ObjectType = "vegetation"
	ObjectTypeBarrier       ObjectType = "barrier"
	ObjectTypeBuilding      ObjectType = "building"
	ObjectTypeParkingSpace  ObjectType = "parkingSpace"
	ObjectTypeRailing       ObjectType = "railing"
	ObjectTypeTrafficIsland ObjectType = "trafficIsland"
	ObjectTypeCrosswalk     ObjectType = "crosswalk"
	ObjectTypeStreetLamp    ObjectType = "streetLamp"
	ObjectTypeGantry        ObjectType = "gantry"
	ObjectTypeSoundBarrier  ObjectType = "soundBarrier"
	ObjectTypeRoadMark      ObjectType = "roadMark"
)

// TunnelType 隧道类型
type TunnelType string

const (
	TunnelTypeStandard  TunnelType = "standard"
	TunnelTypeUnderpass TunnelType = "underpass"
)

// RoadSide 道路侧别，用于沿路重复放置物体
type RoadSide uint8

const (
	RoadSideBoth RoadSide = iota
	RoadSideLeft
	RoadSideRight
)
