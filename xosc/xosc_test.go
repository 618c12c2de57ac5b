package xosc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xosc"
)

// testVehicle builds a standard two axle passenger car.
func testVehicle(t *testing.T, name string) *xosc.Vehicle {
	t.Helper()
	bb := xosc.NewBoundingBox(2, 5, 1.8, 1.4, 0, 0.9)
	front := xosc.NewAxle(0.523, 0.8, 1.68, 2.98, 0.4)
	rear := xosc.NewAxle(0, 0.8, 1.68, 0, 0.4)
	return xosc.NewVehicle(name, xosc.VehicleCategoryCar, bb, front, rear, 69.4, 10, 10)
}

// fullScenario builds a complete two vehicle cut-in scenario.
func fullScenario(t *testing.T) *xosc.Scenario {
	t.Helper()
	entities := xosc.NewEntities().
		AddScenarioObject("Ego", testVehicle(t, "car_white")).
		AddScenarioObject("Target", testVehicle(t, "car_red"))

	init := xosc.NewInit().
		AddInitAction("Ego", xosc.NewTeleportAction(xosc.NewLanePosition(1, -1, 25, 0))).
		AddInitAction("Ego", xosc.NewAbsoluteSpeedAction(30,
			xosc.NewTransitionDynamics(xosc.DynamicsShapeStep, xosc.DynamicsDimensionTime, 1))).
		AddInitAction("Target", xosc.NewTeleportAction(xosc.NewLanePosition(1, -2, 15, 0))).
		AddInitAction("Target", xosc.NewAbsoluteSpeedAction(40,
			xosc.NewTransitionDynamics(xosc.DynamicsShapeStep, xosc.DynamicsDimensionTime, 1)))

	cutIn := xosc.NewEvent("target_cuts_in", xosc.PriorityOverride).
		AddAction("lane_change", xosc.NewRelativeLaneChangeAction(1, "Target",
			xosc.NewTransitionDynamics(xosc.DynamicsShapeSinusoidal, xosc.DynamicsDimensionTime, 3))).
		SetStartTrigger(xosc.NewSingleConditionTrigger("cut_in_time", 0, xosc.ConditionEdgeRising,
			xosc.NewSimulationTimeCondition(4, xosc.RuleGreaterThan)))

	brake := xosc.NewEvent("target_brakes", xosc.PriorityOverride).
		AddAction("slow_down", xosc.NewAbsoluteSpeedAction(20,
			xosc.NewTransitionDynamics(xosc.DynamicsShapeLinear, xosc.DynamicsDimensionRate, -3))).
		SetStartTrigger(xosc.NewSingleConditionTrigger("after_cut_in", 0, xosc.ConditionEdgeRising,
			xosc.NewStoryboardElementStateCondition(xosc.StoryboardElementEvent, "target_cuts_in", xosc.StateCompleteState)))

	maneuver := xosc.NewManeuver("cut_in_and_brake").AddEvent(cutIn).AddEvent(brake)
	group := xosc.NewManeuverGroup("target_group").AddActor("Target").AddManeuver(maneuver)
	act := xosc.NewAct("cut_in_act",
		xosc.NewSingleConditionTrigger("act_start", 0, xosc.ConditionEdgeNone,
			xosc.NewSimulationTimeCondition(0, xosc.RuleGreaterThan)))
	act.AddManeuverGroup(group)

	storyboard := xosc.NewStoryboard(init,
		xosc.NewSingleConditionTrigger("scenario_end", 0, xosc.ConditionEdgeRising,
			xosc.NewSimulationTimeCondition(20, xosc.RuleGreaterThan)))
	storyboard.AddStory(xosc.NewStory("cut_in_story").AddAct(act))

	parameters := xosc.NewParameterDeclarations(
		xosc.NewParameter("HostSpeed", xosc.ParameterTypeDouble, "30"))

	return xosc.NewScenario("cut_in", "scenariogen", parameters, entities, storyboard,
		xosc.NewRoadNetwork("cut_in.xodr"))
}

func TestScenarioElement(t *testing.T) {
	scn := fullScenario(t)
	root := scn.Element()

	assert.Equal(t, "OpenSCENARIO", root.Tag)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema-instance", root.SelectAttrValue("xmlns:xsi", ""))
	assert.Equal(t, "OpenScenario.xsd", root.SelectAttrValue("xsi:noNamespaceSchemaLocation", ""))

	// test: document level children come in schema order

	var tags []string
	for _, child := range root.ChildElements() {
		tags = append(tags, child.Tag)
	}
	assert.Equal(t, []string{"FileHeader", "ParameterDeclarations", "CatalogLocations",
		"RoadNetwork", "Entities", "Storyboard"}, tags)

	header := root.SelectElement("FileHeader")
	assert.Equal(t, "cut_in", header.SelectAttrValue("description", ""))
	assert.Equal(t, "scenariogen", header.SelectAttrValue("author", ""))
	assert.Equal(t, "1", header.SelectAttrValue("revMajor", ""))
	assert.Equal(t, "2", header.SelectAttrValue("revMinor", ""))
	assert.NotEmpty(t, header.SelectAttrValue("date", ""))

	param := root.FindElement("ParameterDeclarations/ParameterDeclaration")
	assert.NotNil(t, param)
	assert.Equal(t, "HostSpeed", param.SelectAttrValue("name", ""))
	assert.Equal(t, "double", param.SelectAttrValue("parameterType", ""))
	assert.Equal(t, "30", param.SelectAttrValue("value", ""))

	logic := root.FindElement("RoadNetwork/LogicFile")
	assert.NotNil(t, logic)
	assert.Equal(t, "cut_in.xodr", logic.SelectAttrValue("filepath", ""))

	assert.Len(t, root.FindElements("Entities/ScenarioObject"), 2)
	assert.Equal(t, "cut_in", scn.Name())
}

func TestScenarioRevisionAndOptionalParts(t *testing.T) {
	scn := fullScenario(t)
	scn.SetRevision("1", "0")
	header := scn.Element().SelectElement("FileHeader")
	assert.Equal(t, "0", header.SelectAttrValue("revMinor", ""))

	// test: nil parameter declarations are left out entirely

	entities := xosc.NewEntities().AddScenarioObject("Ego", testVehicle(t, "car_white"))
	sb := xosc.NewStoryboard(xosc.NewInit())
	bare := xosc.NewScenario("bare", "scenariogen", nil, entities, sb, xosc.NewRoadNetwork("bare.xodr"))
	assert.Nil(t, bare.Element().SelectElement("ParameterDeclarations"))

	// test: scene graph file shows up next to the logic file

	network := xosc.NewRoadNetwork("r.xodr").SetSceneGraphFile("r.osgb")
	scene := network.Element().SelectElement("SceneGraphFile")
	assert.NotNil(t, scene)
	assert.Equal(t, "r.osgb", scene.SelectAttrValue("filepath", ""))
}

func TestScenarioWriteXML(t *testing.T) {
	scn := fullScenario(t)
	assert.ErrorIs(t, scn.WriteXML("a", "b"), xosc.ErrTooManyOptionalArguments)

	path := filepath.Join(t.TempDir(), "scenario.xosc")
	assert.NoError(t, scn.WriteXML(path))
	_, err := os.Stat(path)
	assert.NoError(t, err)

	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromFile(path))
	assert.Equal(t, "OpenSCENARIO", doc.Root().Tag)
	assert.NotNil(t, doc.Root().FindElement("Storyboard/Story/Act/ManeuverGroup"))
}

func TestWorldPosition(t *testing.T) {
	pos := xosc.NewWorldPosition(10, -4).Element()
	assert.Equal(t, "Position", pos.Tag)
	world := pos.SelectElement("WorldPosition")
	assert.NotNil(t, world)
	assert.Equal(t, "10", world.SelectAttrValue("x", ""))
	assert.Equal(t, "-4", world.SelectAttrValue("y", ""))
	assert.Nil(t, world.SelectAttr("z"))
	assert.Nil(t, world.SelectAttr("h"))

	world = xosc.NewWorldPosition(0, 0).SetZ(1.5).SetHeading(3.14).SetPitch(0.1).SetRoll(0.2).
		Element().SelectElement("WorldPosition")
	assert.Equal(t, "1.5", world.SelectAttrValue("z", ""))
	assert.Equal(t, "3.14", world.SelectAttrValue("h", ""))
	assert.Equal(t, "0.1", world.SelectAttrValue("p", ""))
	assert.Equal(t, "0.2", world.SelectAttrValue("r", ""))
}

func TestRoadAndLanePositions(t *testing.T) {
	road := xosc.NewRoadPosition(3, 50, -1.75).Element().SelectElement("RoadPosition")
	assert.NotNil(t, road)
	assert.Equal(t, "3", road.SelectAttrValue("roadId", ""))
	assert.Equal(t, "50", road.SelectAttrValue("s", ""))
	assert.Equal(t, "-1.75", road.SelectAttrValue("t", ""))
	assert.Nil(t, road.SelectElement("Orientation"))

	lane := xosc.NewLanePosition(3, -2, 25, 0.5).Element().SelectElement("LanePosition")
	assert.NotNil(t, lane)
	assert.Equal(t, "3", lane.SelectAttrValue("roadId", ""))
	assert.Equal(t, "-2", lane.SelectAttrValue("laneId", ""))
	assert.Equal(t, "25", lane.SelectAttrValue("s", ""))
	assert.Equal(t, "0.5", lane.SelectAttrValue("offset", ""))

	// test: the orientation child only shows up once something is set

	lanePos := xosc.NewLanePosition(3, -2, 25, 0)
	lanePos.SetOrientation(xosc.NewOrientation())
	assert.Nil(t, lanePos.Element().FindElement("LanePosition/Orientation"))

	lanePos.SetOrientation(xosc.NewOrientation().SetHeading(0.3).SetReference(xosc.ReferenceContextRelative))
	orientation := lanePos.Element().FindElement("LanePosition/Orientation")
	assert.NotNil(t, orientation)
	assert.Equal(t, "0.3", orientation.SelectAttrValue("h", ""))
	assert.Equal(t, "relative", orientation.SelectAttrValue("type", ""))
	assert.Nil(t, orientation.SelectAttr("p"))
}

func TestRelativeLanePosition(t *testing.T) {
	_, err := xosc.NewRelativeLanePosition("Ego", 1, 0)
	assert.ErrorIs(t, err, xosc.ErrNotEnoughInputArguments)

	_, err = xosc.NewRelativeLanePosition("Ego", 1, 0, xosc.WithDS(10), xosc.WithDSLane(10))
	assert.ErrorIs(t, err, xosc.ErrTooManyOptionalArguments)

	rel, err := xosc.NewRelativeLanePosition("Ego", 1, 0.25, xosc.WithDS(10))
	assert.NoError(t, err)
	elem := rel.Element().SelectElement("RelativeLanePosition")
	assert.Equal(t, "Ego", elem.SelectAttrValue("entityRef", ""))
	assert.Equal(t, "10", elem.SelectAttrValue("ds", ""))
	assert.Nil(t, elem.SelectAttr("dsLane"))
	assert.Equal(t, "0.25", elem.SelectAttrValue("offset", ""))
	assert.Equal(t, "1", elem.SelectAttrValue("dLane", ""))

	rel, err = xosc.NewRelativeLanePosition("Ego", -1, 0, xosc.WithDSLane(-5))
	assert.NoError(t, err)
	elem = rel.Element().SelectElement("RelativeLanePosition")
	assert.Equal(t, "-5", elem.SelectAttrValue("dsLane", ""))
	assert.Nil(t, elem.SelectAttr("ds"))
}

func TestTeleportAction(t *testing.T) {
	action := xosc.NewTeleportAction(xosc.NewWorldPosition(5, 5)).Element()
	assert.Equal(t, "PrivateAction", action.Tag)
	world := action.FindElement("TeleportAction/Position/WorldPosition")
	assert.NotNil(t, world)
	assert.Equal(t, "5", world.SelectAttrValue("x", ""))
}

func TestAbsoluteSpeedAction(t *testing.T) {
	action := xosc.NewAbsoluteSpeedAction(30,
		xosc.NewTransitionDynamics(xosc.DynamicsShapeStep, xosc.DynamicsDimensionTime, 1)).Element()

	dynamics := action.FindElement("LongitudinalAction/SpeedAction/SpeedActionDynamics")
	assert.NotNil(t, dynamics)
	assert.Equal(t, "step", dynamics.SelectAttrValue("dynamicsShape", ""))
	assert.Equal(t, "1", dynamics.SelectAttrValue("value", ""))
	assert.Equal(t, "time", dynamics.SelectAttrValue("dynamicsDimension", ""))

	target := action.FindElement("LongitudinalAction/SpeedAction/SpeedActionTarget/AbsoluteTargetSpeed")
	assert.NotNil(t, target)
	assert.Equal(t, "30", target.SelectAttrValue("value", ""))
}

func TestRelativeLaneChangeAction(t *testing.T) {
	change := xosc.NewRelativeLaneChangeAction(-1, "Ego",
		xosc.NewTransitionDynamics(xosc.DynamicsShapeSinusoidal, xosc.DynamicsDimensionDistance, 40))
	action := change.Element()

	lane := action.FindElement("LateralAction/LaneChangeAction")
	assert.NotNil(t, lane)
	assert.Nil(t, lane.SelectAttr("targetLaneOffset"))

	dynamics := lane.SelectElement("LaneChangeActionDynamics")
	assert.NotNil(t, dynamics)
	assert.Equal(t, "sinusoidal", dynamics.SelectAttrValue("dynamicsShape", ""))
	assert.Equal(t, "distance", dynamics.SelectAttrValue("dynamicsDimension", ""))

	target := lane.FindElement("LaneChangeTarget/RelativeTargetLane")
	assert.NotNil(t, target)
	assert.Equal(t, "-1", target.SelectAttrValue("value", ""))
	assert.Equal(t, "Ego", target.SelectAttrValue("entityRef", ""))

	// test: targetLaneOffset appears once set

	change.SetTargetLaneOffset(0.2)
	lane = change.Element().FindElement("LateralAction/LaneChangeAction")
	assert.Equal(t, "0.2", lane.SelectAttrValue("targetLaneOffset", ""))
}

func TestTriggers(t *testing.T) {
	// test: an empty trigger serializes to a bare element

	empty := xosc.NewTrigger()
	assert.Equal(t, "StartTrigger", empty.Element(xosc.TriggeringPointStart).Tag)
	stop := empty.Element(xosc.TriggeringPointStop)
	assert.Equal(t, "StopTrigger", stop.Tag)
	assert.Empty(t, stop.ChildElements())

	trigger := xosc.NewSingleConditionTrigger("at_four", 0.5, xosc.ConditionEdgeRising,
		xosc.NewSimulationTimeCondition(4, xosc.RuleGreaterThan))
	elem := trigger.Element(xosc.TriggeringPointStart)

	condition := elem.FindElement("ConditionGroup/Condition")
	assert.NotNil(t, condition)
	assert.Equal(t, "at_four", condition.SelectAttrValue("name", ""))
	assert.Equal(t, "0.5", condition.SelectAttrValue("delay", ""))
	assert.Equal(t, "rising", condition.SelectAttrValue("conditionEdge", ""))

	sim := condition.FindElement("ByValueCondition/SimulationTimeCondition")
	assert.NotNil(t, sim)
	assert.Equal(t, "4", sim.SelectAttrValue("value", ""))
	assert.Equal(t, "greaterThan", sim.SelectAttrValue("rule", ""))

	state := xosc.NewStoryboardElementStateCondition(
		xosc.StoryboardElementEvent, "first_event", xosc.StateCompleteState).Element()
	assert.Equal(t, "event", state.SelectAttrValue("storyboardElementType", ""))
	assert.Equal(t, "first_event", state.SelectAttrValue("storyboardElementRef", ""))
	assert.Equal(t, "completeState", state.SelectAttrValue("state", ""))

	// test: groups OR together, conditions within a group AND together

	or := xosc.NewTrigger(
		xosc.NewConditionGroup(
			xosc.NewCondition("a", 0, xosc.ConditionEdgeNone, xosc.NewSimulationTimeCondition(1, xosc.RuleGreaterThan)),
			xosc.NewCondition("b", 0, xosc.ConditionEdgeNone, xosc.NewSimulationTimeCondition(2, xosc.RuleLessThan))),
		xosc.NewConditionGroup(
			xosc.NewCondition("c", 0, xosc.ConditionEdgeNone, xosc.NewSimulationTimeCondition(9, xosc.RuleGreaterThan))))
	elem = or.Element(xosc.TriggeringPointStart)
	groups := elem.SelectElements("ConditionGroup")
	assert.Len(t, groups, 2)
	assert.Len(t, groups[0].SelectElements("Condition"), 2)
	assert.Len(t, groups[1].SelectElements("Condition"), 1)
}

func TestVehicleElement(t *testing.T) {
	vehicle := testVehicle(t, "car_white")
	elem := vehicle.Element()

	assert.Equal(t, "Vehicle", elem.Tag)
	assert.Equal(t, "car_white", elem.SelectAttrValue("name", ""))
	assert.Equal(t, "car", elem.SelectAttrValue("vehicleCategory", ""))

	// test: empty parameter declarations stay out of the vehicle

	var tags []string
	for _, child := range elem.ChildElements() {
		tags = append(tags, child.Tag)
	}
	assert.Equal(t, []string{"BoundingBox", "Performance", "Axles", "Properties"}, tags)

	center := elem.FindElement("BoundingBox/Center")
	assert.Equal(t, "1.4", center.SelectAttrValue("x", ""))
	assert.Equal(t, "0.9", center.SelectAttrValue("z", ""))
	dims := elem.FindElement("BoundingBox/Dimensions")
	assert.Equal(t, "2", dims.SelectAttrValue("width", ""))
	assert.Equal(t, "5", dims.SelectAttrValue("length", ""))
	assert.Equal(t, "1.8", dims.SelectAttrValue("height", ""))

	perf := elem.SelectElement("Performance")
	assert.Equal(t, "69.4", perf.SelectAttrValue("maxSpeed", ""))
	assert.Equal(t, "10", perf.SelectAttrValue("maxAcceleration", ""))
	assert.Equal(t, "10", perf.SelectAttrValue("maxDeceleration", ""))

	front := elem.FindElement("Axles/FrontAxle")
	assert.Equal(t, "0.523", front.SelectAttrValue("maxSteering", ""))
	assert.Equal(t, "1.68", front.SelectAttrValue("trackWidth", ""))
	assert.Equal(t, "2.98", front.SelectAttrValue("positionX", ""))
	rear := elem.FindElement("Axles/RearAxle")
	assert.Equal(t, "0", rear.SelectAttrValue("positionX", ""))

	// test: parameters, properties and extra axles show up once added

	vehicle.AddParameter(xosc.NewParameter("MaxSpeed", xosc.ParameterTypeDouble, "69.4"))
	vehicle.AddProperty("model_id", "1")
	vehicle.AddPropertyFile("car_white.json")
	vehicle.AddAxle(xosc.NewAxle(0, 0.8, 1.68, 1.5, 0.4))
	elem = vehicle.Element()

	assert.Equal(t, "ParameterDeclarations", elem.ChildElements()[0].Tag)
	prop := elem.FindElement("Properties/Property")
	assert.Equal(t, "model_id", prop.SelectAttrValue("name", ""))
	assert.Equal(t, "1", prop.SelectAttrValue("value", ""))
	file := elem.FindElement("Properties/File")
	assert.Equal(t, "car_white.json", file.SelectAttrValue("filepath", ""))
	assert.NotNil(t, elem.FindElement("Axles/AdditionalAxle"))
}

func TestPedestrianElement(t *testing.T) {
	ped := xosc.NewPedestrian("walker", "walker_model", 80, xosc.PedestrianCategoryPedestrian,
		xosc.NewBoundingBox(0.6, 0.6, 1.8, 0, 0, 0.9))
	ped.AddProperty("speed_profile", "casual")
	elem := ped.Element()

	assert.Equal(t, "Pedestrian", elem.Tag)
	assert.Equal(t, "walker", elem.SelectAttrValue("name", ""))
	assert.Equal(t, "pedestrian", elem.SelectAttrValue("pedestrianCategory", ""))
	assert.Equal(t, "walker_model", elem.SelectAttrValue("model", ""))
	assert.Equal(t, "80", elem.SelectAttrValue("mass", ""))
	assert.NotNil(t, elem.SelectElement("BoundingBox"))
	assert.NotNil(t, elem.FindElement("Properties/Property"))
}

func TestEntitiesElement(t *testing.T) {
	entities := xosc.NewEntities().
		AddScenarioObject("Ego", testVehicle(t, "car_white")).
		AddScenarioObject("Walker", xosc.NewPedestrian("walker", "walker_model", 80,
			xosc.PedestrianCategoryPedestrian, xosc.NewBoundingBox(0.6, 0.6, 1.8, 0, 0, 0.9)))

	objects := entities.Element().SelectElements("ScenarioObject")
	assert.Len(t, objects, 2)
	assert.Equal(t, "Ego", objects[0].SelectAttrValue("name", ""))
	assert.NotNil(t, objects[0].SelectElement("Vehicle"))
	assert.Equal(t, "Walker", objects[1].SelectAttrValue("name", ""))
	assert.NotNil(t, objects[1].SelectElement("Pedestrian"))
}

func TestInitElement(t *testing.T) {
	init := xosc.NewInit().
		AddInitAction("Ego", xosc.NewTeleportAction(xosc.NewWorldPosition(0, 0))).
		AddInitAction("Target", xosc.NewTeleportAction(xosc.NewWorldPosition(10, 0))).
		AddInitAction("Ego", xosc.NewAbsoluteSpeedAction(30,
			xosc.NewTransitionDynamics(xosc.DynamicsShapeStep, xosc.DynamicsDimensionTime, 1)))

	privates := init.Element().FindElements("Actions/Private")
	assert.Len(t, privates, 2)

	// test: entities keep first-seen order, actions group under one Private

	assert.Equal(t, "Ego", privates[0].SelectAttrValue("entityRef", ""))
	assert.Len(t, privates[0].SelectElements("PrivateAction"), 2)
	assert.Equal(t, "Target", privates[1].SelectAttrValue("entityRef", ""))
	assert.Len(t, privates[1].SelectElements("PrivateAction"), 1)
}

func TestStoryboardElement(t *testing.T) {
	root := fullScenario(t).Element()
	storyboard := root.SelectElement("Storyboard")

	var tags []string
	for _, child := range storyboard.ChildElements() {
		tags = append(tags, child.Tag)
	}
	assert.Equal(t, []string{"Init", "Story", "StopTrigger"}, tags)

	story := storyboard.SelectElement("Story")
	assert.Equal(t, "cut_in_story", story.SelectAttrValue("name", ""))

	act := story.SelectElement("Act")
	assert.Equal(t, "cut_in_act", act.SelectAttrValue("name", ""))
	tags = nil
	for _, child := range act.ChildElements() {
		tags = append(tags, child.Tag)
	}
	assert.Equal(t, []string{"ManeuverGroup", "StartTrigger", "StopTrigger"}, tags)

	group := act.SelectElement("ManeuverGroup")
	assert.Equal(t, "target_group", group.SelectAttrValue("name", ""))
	assert.Equal(t, "1", group.SelectAttrValue("maximumExecutionCount", ""))
	actors := group.SelectElement("Actors")
	assert.Equal(t, "false", actors.SelectAttrValue("selectTriggeringEntities", ""))
	ref := actors.SelectElement("EntityRef")
	assert.Equal(t, "Target", ref.SelectAttrValue("entityRef", ""))

	maneuver := group.SelectElement("Maneuver")
	assert.Equal(t, "cut_in_and_brake", maneuver.SelectAttrValue("name", ""))
	events := maneuver.SelectElements("Event")
	assert.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "target_cuts_in", first.SelectAttrValue("name", ""))
	assert.Equal(t, "override", first.SelectAttrValue("priority", ""))
	assert.Equal(t, "1", first.SelectAttrValue("maximumExecutionCount", ""))
	action := first.SelectElement("Action")
	assert.Equal(t, "lane_change", action.SelectAttrValue("name", ""))
	assert.NotNil(t, action.FindElement("PrivateAction/LateralAction/LaneChangeAction"))
	assert.NotNil(t, first.SelectElement("StartTrigger"))

	// test: the second event waits on the first through the state condition

	second := events[1]
	state := second.FindElement("StartTrigger/ConditionGroup/Condition/ByValueCondition/StoryboardElementStateCondition")
	assert.NotNil(t, state)
	assert.Equal(t, "target_cuts_in", state.SelectAttrValue("storyboardElementRef", ""))
}

// minimalScenario wraps a storyboard with just enough context to call WriteXML.
func minimalScenario(t *testing.T, storyboard *xosc.Storyboard) *xosc.Scenario {
	t.Helper()
	entities := xosc.NewEntities().AddScenarioObject("Ego", testVehicle(t, "car_white"))
	return xosc.NewScenario("minimal", "scenariogen", nil, entities, storyboard,
		xosc.NewRoadNetwork("minimal.xodr"))
}

func TestStoryboardValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.xosc")

	// test: every level of an incomplete storyboard is rejected

	empty := xosc.NewStoryboard(xosc.NewInit())
	assert.ErrorIs(t, minimalScenario(t, empty).WriteXML(path), xosc.ErrEmptyStoryboardElement)

	noActs := xosc.NewStoryboard(xosc.NewInit()).AddStory(xosc.NewStory("story"))
	assert.ErrorIs(t, minimalScenario(t, noActs).WriteXML(path), xosc.ErrEmptyStoryboardElement)

	immediate := xosc.NewSingleConditionTrigger("start", 0, xosc.ConditionEdgeNone,
		xosc.NewSimulationTimeCondition(0, xosc.RuleGreaterThan))

	noGroups := xosc.NewStoryboard(xosc.NewInit()).
		AddStory(xosc.NewStory("story").AddAct(xosc.NewAct("act", immediate)))
	assert.ErrorIs(t, minimalScenario(t, noGroups).WriteXML(path), xosc.ErrEmptyStoryboardElement)

	noActors := xosc.NewStoryboard(xosc.NewInit()).
		AddStory(xosc.NewStory("story").AddAct(
			xosc.NewAct("act", immediate).AddManeuverGroup(xosc.NewManeuverGroup("group"))))
	assert.ErrorIs(t, minimalScenario(t, noActors).WriteXML(path), xosc.ErrEmptyStoryboardElement)

	noEvents := xosc.NewStoryboard(xosc.NewInit()).
		AddStory(xosc.NewStory("story").AddAct(
			xosc.NewAct("act", immediate).AddManeuverGroup(
				xosc.NewManeuverGroup("group").AddActor("Ego").AddManeuver(xosc.NewManeuver("maneuver")))))
	assert.ErrorIs(t, minimalScenario(t, noEvents).WriteXML(path), xosc.ErrEmptyStoryboardElement)

	noActions := xosc.NewEvent("event", xosc.PriorityOverride).SetStartTrigger(immediate)
	broken := xosc.NewStoryboard(xosc.NewInit()).
		AddStory(xosc.NewStory("story").AddAct(
			xosc.NewAct("act", immediate).AddManeuverGroup(
				xosc.NewManeuverGroup("group").AddActor("Ego").AddManeuver(
					xosc.NewManeuver("maneuver").AddEvent(noActions)))))
	assert.ErrorIs(t, minimalScenario(t, broken).WriteXML(path), xosc.ErrEmptyStoryboardElement)

	noTrigger := xosc.NewEvent("event", xosc.PriorityOverride).
		AddAction("speed", xosc.NewAbsoluteSpeedAction(10,
			xosc.NewTransitionDynamics(xosc.DynamicsShapeStep, xosc.DynamicsDimensionTime, 1)))
	broken = xosc.NewStoryboard(xosc.NewInit()).
		AddStory(xosc.NewStory("story").AddAct(
			xosc.NewAct("act", immediate).AddManeuverGroup(
				xosc.NewManeuverGroup("group").AddActor("Ego").AddManeuver(
					xosc.NewManeuver("maneuver").AddEvent(noTrigger)))))
	assert.ErrorIs(t, minimalScenario(t, broken).WriteXML(path), xosc.ErrEmptyStoryboardElement)

	// nothing got written along the way
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestTransitionDynamicsDefaultName(t *testing.T) {
	dynamics := xosc.NewTransitionDynamics(xosc.DynamicsShapeCubic, xosc.DynamicsDimensionRate, 2.5)
	elem := dynamics.Element()
	assert.Equal(t, "TransitionDynamics", elem.Tag)
	assert.Equal(t, "cubic", elem.SelectAttrValue("dynamicsShape", ""))
	assert.Equal(t, "2.5", elem.SelectAttrValue("value", ""))
	assert.Equal(t, "rate", elem.SelectAttrValue("dynamicsDimension", ""))
	assert.Equal(t, "SpeedActionDynamics", dynamics.Element("SpeedActionDynamics").Tag)
}
