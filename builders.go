package main

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tsinghua-fib-lab/scenariogen-oss/generator"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xodr"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xosc"
)

// optionalFloat 取可选浮点参数，未给出时返回缺省值
func optionalFloat(p *generator.Parameters, key string, fallback float64) (float64, error) {
	if !p.Has(key) {
		return fallback, nil
	}
	return p.Float(key)
}

// optionalInt 取可选整数参数，未给出时返回缺省值
func optionalInt(p *generator.Parameters, key string, fallback int) (int, error) {
	if !p.Has(key) {
		return fallback, nil
	}
	return p.Int(key)
}

// demoCar 标准轿车，包围盒与性能取常见仿真器的轿车模型参数
func demoCar(name string) *xosc.Vehicle {
	return xosc.NewVehicle(name, xosc.VehicleCategoryCar,
		xosc.NewBoundingBox(2, 5, 1.8, 1.4, 0, 0.9),
		xosc.NewAxle(0.523, 0.8, 1.68, 2.98, 0.4),
		xosc.NewAxle(0, 0.8, 1.68, 0, 0.4),
		69.4, 10, 10)
}

// stepTo 立即把速度设为目标值的初始化动作
func stepTo(speed float64) *xosc.AbsoluteSpeedAction {
	return xosc.NewAbsoluteSpeedAction(speed,
		xosc.NewTransitionDynamics(xosc.DynamicsShapeStep, xosc.DynamicsDimensionTime, 1))
}

// immediately 仿真开始即满足的触发器
func immediately(name string) *xosc.Trigger {
	return xosc.NewSingleConditionTrigger(name, 0, xosc.ConditionEdgeNone,
		xosc.NewSimulationTimeCondition(0, xosc.RuleGreaterThan))
}

// highwayBuilder 直路切入场景
// 功能：生成多车道直路，目标车从相邻车道切入自车前方并减速
// 参数：lanes-单侧车道数（至少2）；speed-自车速度；target_speed-目标车速度；
// 可选length-道路长度、cut_in_time-切入时刻、duration-场景时长
type highwayBuilder struct{}

func (b *highwayBuilder) Road(p *generator.Parameters) (*xodr.OpenDrive, error) {
	lanes, err := p.Int("lanes")
	if err != nil {
		return nil, err
	}
	if lanes < 2 {
		return nil, errors.Errorf("highway needs at least 2 lanes per side, got %d", lanes)
	}
	length, err := optionalFloat(p, "length", 500)
	if err != nil {
		return nil, err
	}
	road, err := xodr.CreateStraightRoad(1, length, -1, lanes, 3.5)
	if err != nil {
		return nil, err
	}
	odr := xodr.NewOpenDrive("highway")
	if err := odr.AddRoad(road); err != nil {
		return nil, err
	}
	if err := odr.AdjustRoadsAndLanes(); err != nil {
		return nil, err
	}
	return odr, nil
}

func (b *highwayBuilder) Scenario(p *generator.Parameters) (*xosc.Scenario, error) {
	speed, err := p.Float("speed")
	if err != nil {
		return nil, err
	}
	targetSpeed, err := p.Float("target_speed")
	if err != nil {
		return nil, err
	}
	cutInTime, err := optionalFloat(p, "cut_in_time", 4)
	if err != nil {
		return nil, err
	}
	duration, err := optionalFloat(p, "duration", 30)
	if err != nil {
		return nil, err
	}

	entities := xosc.NewEntities()
	entities.AddScenarioObject("Ego", demoCar("car_white"))
	entities.AddScenarioObject("Target", demoCar("car_red"))

	init := xosc.NewInit()
	init.AddInitAction("Ego", xosc.NewTeleportAction(xosc.NewLanePosition(1, -1, 25, 0)))
	init.AddInitAction("Ego", stepTo(speed))
	init.AddInitAction("Target", xosc.NewTeleportAction(xosc.NewLanePosition(1, -2, 15, 0)))
	init.AddInitAction("Target", stepTo(targetSpeed))

	cutIn := xosc.NewEvent("target_cuts_in", xosc.PriorityOverride)
	cutIn.AddAction("lane_change", xosc.NewRelativeLaneChangeAction(1, "Target",
		xosc.NewTransitionDynamics(xosc.DynamicsShapeSinusoidal, xosc.DynamicsDimensionTime, 3)))
	cutIn.SetStartTrigger(xosc.NewSingleConditionTrigger("cut_in_time", 0, xosc.ConditionEdgeRising,
		xosc.NewSimulationTimeCondition(cutInTime, xosc.RuleGreaterThan)))

	brake := xosc.NewEvent("target_brakes", xosc.PriorityOverride)
	brake.AddAction("slow_down", xosc.NewAbsoluteSpeedAction(0.6*targetSpeed,
		xosc.NewTransitionDynamics(xosc.DynamicsShapeLinear, xosc.DynamicsDimensionRate, 3)))
	brake.SetStartTrigger(xosc.NewSingleConditionTrigger("after_cut_in", 0, xosc.ConditionEdgeRising,
		xosc.NewStoryboardElementStateCondition(xosc.StoryboardElementEvent, "target_cuts_in",
			xosc.StateCompleteState)))

	maneuver := xosc.NewManeuver("cut_in_and_brake")
	maneuver.AddEvent(cutIn)
	maneuver.AddEvent(brake)
	group := xosc.NewManeuverGroup("target_group")
	group.AddActor("Target")
	group.AddManeuver(maneuver)
	act := xosc.NewAct("cut_in_act", immediately("act_start"))
	act.AddManeuverGroup(group)
	story := xosc.NewStory("cut_in_story")
	story.AddAct(act)
	storyboard := xosc.NewStoryboard(init, xosc.NewSingleConditionTrigger("stop", 0,
		xosc.ConditionEdgeNone, xosc.NewSimulationTimeCondition(duration, xosc.RuleGreaterThan)))
	storyboard.AddStory(story)

	return xosc.NewScenario("highway_cut_in", "scenariogen", nil, entities, storyboard,
		xosc.NewRoadNetwork(p.RoadFile)), nil
}

// junctionBuilder 无信控路口让行场景
// 功能：生成多路口字形路口，自车直行通过，垂直方向来车制动让行
// 参数：lanes-单侧车道数；speed-自车速度；target_speed-目标车速度；
// 可选legs-路口分支数、radius-路口半径、yield_time-让行时刻、duration-场景时长
type junctionBuilder struct{}

func (b *junctionBuilder) Road(p *generator.Parameters) (*xodr.OpenDrive, error) {
	lanes, err := p.Int("lanes")
	if err != nil {
		return nil, err
	}
	legs, err := optionalInt(p, "legs", 4)
	if err != nil {
		return nil, err
	}
	if legs < 3 || legs > 8 {
		return nil, errors.Errorf("junction needs 3 to 8 legs, got %d", legs)
	}
	radius, err := optionalFloat(p, "radius", 15)
	if err != nil {
		return nil, err
	}

	incoming := make([]*xodr.Road, 0, legs)
	angles := make([]float64, 0, legs)
	for i := 0; i < legs; i++ {
		road, err := xodr.CreateStraightRoad(i+1, 100, -1, lanes, 3.5)
		if err != nil {
			return nil, err
		}
		incoming = append(incoming, road)
		angles = append(angles, 2*math.Pi*float64(i)/float64(legs))
	}
	junctionRoads, err := xodr.CreateJunctionRoads(incoming, angles, []float64{radius})
	if err != nil {
		return nil, err
	}

	odr := xodr.NewOpenDrive("junction")
	for _, road := range incoming {
		if err := odr.AddRoad(road); err != nil {
			return nil, err
		}
	}
	for _, road := range junctionRoads {
		if err := odr.AddRoad(road); err != nil {
			return nil, err
		}
	}
	junction, err := xodr.CreateJunction(junctionRoads, 1, incoming)
	if err != nil {
		return nil, err
	}
	if err := odr.AddJunction(junction); err != nil {
		return nil, err
	}
	if err := odr.AdjustRoadsAndLanes(); err != nil {
		return nil, err
	}
	return odr, nil
}

func (b *junctionBuilder) Scenario(p *generator.Parameters) (*xosc.Scenario, error) {
	speed, err := p.Float("speed")
	if err != nil {
		return nil, err
	}
	targetSpeed, err := p.Float("target_speed")
	if err != nil {
		return nil, err
	}
	yieldTime, err := optionalFloat(p, "yield_time", 3)
	if err != nil {
		return nil, err
	}
	duration, err := optionalFloat(p, "duration", 20)
	if err != nil {
		return nil, err
	}

	entities := xosc.NewEntities()
	entities.AddScenarioObject("Ego", demoCar("car_white"))
	entities.AddScenarioObject("Target", demoCar("car_red"))

	// 1号路的后继是路口，-1车道朝路口行驶；2号路的前驱是路口，
	// 朝路口行驶要用+1车道
	init := xosc.NewInit()
	init.AddInitAction("Ego", xosc.NewTeleportAction(xosc.NewLanePosition(1, -1, 60, 0)))
	init.AddInitAction("Ego", stepTo(speed))
	init.AddInitAction("Target", xosc.NewTeleportAction(xosc.NewLanePosition(2, 1, 40, 0)))
	init.AddInitAction("Target", stepTo(targetSpeed))

	yield := xosc.NewEvent("target_yields", xosc.PriorityOverride)
	yield.AddAction("brake_to_stop", xosc.NewAbsoluteSpeedAction(0,
		xosc.NewTransitionDynamics(xosc.DynamicsShapeLinear, xosc.DynamicsDimensionRate, 4)))
	yield.SetStartTrigger(xosc.NewSingleConditionTrigger("yield_time", 0, xosc.ConditionEdgeRising,
		xosc.NewSimulationTimeCondition(yieldTime, xosc.RuleGreaterThan)))

	maneuver := xosc.NewManeuver("yield_for_ego")
	maneuver.AddEvent(yield)
	group := xosc.NewManeuverGroup("target_group")
	group.AddActor("Target")
	group.AddManeuver(maneuver)
	act := xosc.NewAct("junction_act", immediately("act_start"))
	act.AddManeuverGroup(group)
	story := xosc.NewStory("junction_story")
	story.AddAct(act)
	storyboard := xosc.NewStoryboard(init, xosc.NewSingleConditionTrigger("stop", 0,
		xosc.ConditionEdgeNone, xosc.NewSimulationTimeCondition(duration, xosc.RuleGreaterThan)))
	storyboard.AddStory(story)

	return xosc.NewScenario("junction_yield", "scenariogen", nil, entities, storyboard,
		xosc.NewRoadNetwork(p.RoadFile)), nil
}
