package generator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/scenariogen-oss/generator"
	"github.com/tsinghua-fib-lab/scenariogen-oss/utils/config"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xodr"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xosc"
)

// straightBuilder builds a straight road whose lane count and the ego
// target speed come from the swept parameters.
type straightBuilder struct {
	seen []map[string]any // parameter sets in builder call order
}

func (b *straightBuilder) Road(p *generator.Parameters) (*xodr.OpenDrive, error) {
	lanes, err := p.Int("lanes")
	if err != nil {
		return nil, err
	}
	road, err := xodr.CreateStraightRoad(1, 200, -1, lanes, 3.5)
	if err != nil {
		return nil, err
	}
	odr := xodr.NewOpenDrive("straight")
	if err := odr.AddRoad(road); err != nil {
		return nil, err
	}
	if err := odr.AdjustRoadsAndLanes(); err != nil {
		return nil, err
	}
	return odr, nil
}

func (b *straightBuilder) Scenario(p *generator.Parameters) (*xosc.Scenario, error) {
	b.seen = append(b.seen, p.Values)
	speed, err := p.Float("speed")
	if err != nil {
		return nil, err
	}
	return testScenario(p.RoadFile, speed), nil
}

// testScenario builds the smallest storyboard that passes validation.
func testScenario(roadFile string, speed float64) *xosc.Scenario {
	ego := xosc.NewVehicle("car", xosc.VehicleCategoryCar,
		xosc.NewBoundingBox(2, 5, 1.8, 1.4, 0, 0.9),
		xosc.NewAxle(0.523, 0.8, 1.68, 2.98, 0.4),
		xosc.NewAxle(0, 0.8, 1.68, 0, 0.4),
		69.4, 10, 10)
	entities := xosc.NewEntities()
	entities.AddScenarioObject("Ego", ego)

	init := xosc.NewInit()
	init.AddInitAction("Ego", xosc.NewTeleportAction(xosc.NewLanePosition(1, -1, 10, 0)))

	event := xosc.NewEvent("speed_up", xosc.PriorityOverwrite)
	event.AddAction("set_speed", xosc.NewAbsoluteSpeedAction(speed,
		xosc.NewTransitionDynamics(xosc.DynamicsShapeStep, xosc.DynamicsDimensionTime, 1)))
	event.SetStartTrigger(xosc.NewSingleConditionTrigger("start", 0, xosc.ConditionEdgeNone,
		xosc.NewSimulationTimeCondition(0, xosc.RuleGreaterThan)))
	maneuver := xosc.NewManeuver("drive")
	maneuver.AddEvent(event)
	group := xosc.NewManeuverGroup("ego_group")
	group.AddActor("Ego")
	group.AddManeuver(maneuver)
	act := xosc.NewAct("main_act", xosc.NewSingleConditionTrigger("act_start", 0,
		xosc.ConditionEdgeNone, xosc.NewSimulationTimeCondition(0, xosc.RuleGreaterThan)))
	act.AddManeuverGroup(group)
	story := xosc.NewStory("main")
	story.AddAct(act)
	storyboard := xosc.NewStoryboard(init)
	storyboard.AddStory(story)

	return xosc.NewScenario("generated", "scenariogen", nil, entities, storyboard,
		xosc.NewRoadNetwork(roadFile))
}

func runtimeConfig(t *testing.T, c config.Config) *config.RuntimeConfig {
	t.Helper()
	rc, err := config.NewRuntimeConfig(c)
	assert.NoError(t, err)
	return rc
}

func TestRunCartesian(t *testing.T) {
	dir := t.TempDir()
	rc := runtimeConfig(t, config.Config{
		Job:    "straight",
		Output: config.Output{Dir: dir},
		Sweep: config.Sweep{
			Parameters: map[string][]any{
				"lanes": {1, 2},
				"speed": {10.0, 20.0, 30.0},
			},
		},
	})
	b := &straightBuilder{}
	g := generator.New(rc, b)
	defer g.Close()
	results, err := g.Run()
	assert.NoError(t, err)
	assert.Len(t, results, 6)

	// test: numerical naming and paired files

	assert.Equal(t, "straight_0", results[0].Name)
	assert.Equal(t, "straight_5", results[5].Name)
	for _, r := range results {
		assert.FileExists(t, r.RoadFile)
		assert.FileExists(t, r.ScenarioFile)
	}

	// test: keys are swept in sorted order, lanes outermost

	assert.Equal(t, map[string]any{"lanes": 1, "speed": 10.0}, b.seen[0])
	assert.Equal(t, map[string]any{"lanes": 1, "speed": 30.0}, b.seen[2])
	assert.Equal(t, map[string]any{"lanes": 2, "speed": 10.0}, b.seen[3])

	// test: the scenario references its paired road file

	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromFile(results[0].ScenarioFile))
	logic := doc.FindElement("//RoadNetwork/LogicFile")
	assert.NotNil(t, logic)
	assert.Equal(t, "../xodr/straight_0.xodr", logic.SelectAttrValue("filepath", ""))
}

func TestRunVariantsParameterNaming(t *testing.T) {
	dir := t.TempDir()
	rc := runtimeConfig(t, config.Config{
		Job:    "cutin",
		Output: config.Output{Dir: dir, Naming: config.NamingParameter},
		Sweep: config.Sweep{
			Variants: []map[string]any{
				{"lanes": 2, "speed": 15.5},
				{"lanes": 3, "speed": 25.0},
			},
		},
	})
	b := &straightBuilder{}
	g := generator.New(rc, b)
	defer g.Close()
	results, err := g.Run()
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	// test: variant order is kept and names carry the parameter values

	assert.Equal(t, "cutin_lanes-2_speed-15.5", results[0].Name)
	assert.Equal(t, "cutin_lanes-3_speed-25", results[1].Name)
	assert.FileExists(t, filepath.Join(dir, "xodr", "cutin_lanes-2_speed-15.5.xodr"))
	assert.FileExists(t, filepath.Join(dir, "xosc", "cutin_lanes-3_speed-25.xosc"))
}

func TestRunRandomDeterministic(t *testing.T) {
	run := func(dir string) []map[string]any {
		rc := runtimeConfig(t, config.Config{
			Job:    "rand",
			Output: config.Output{Dir: dir},
			Sweep: config.Sweep{
				Mode:  config.SweepRandom,
				Count: 5,
				Seed:  77,
				Parameters: map[string][]any{
					"lanes": {1, 2, 3},
					"speed": {10.0, 20.0, 30.0},
				},
			},
		})
		b := &straightBuilder{}
		g := generator.New(rc, b)
		defer g.Close()
		results, err := g.Run()
		assert.NoError(t, err)
		assert.Len(t, results, 5)
		return b.seen
	}

	// test: the same seed samples the same parameter sets

	first := run(t.TempDir())
	second := run(t.TempDir())
	assert.Equal(t, first, second)

	// test: sampled values come from the candidate lists

	for _, values := range first {
		assert.Contains(t, []any{1, 2, 3}, values["lanes"])
		assert.Contains(t, []any{10.0, 20.0, 30.0}, values["speed"])
	}
}

func TestRunReuseRoads(t *testing.T) {
	dir := t.TempDir()
	rc := runtimeConfig(t, config.Config{
		Job:    "reuse",
		Output: config.Output{Dir: dir, ReuseRoads: true},
		Sweep: config.Sweep{
			Variants: []map[string]any{
				{"lanes": 2, "speed": 10.0},
				{"lanes": 2, "speed": 20.0},
				{"lanes": 3, "speed": 10.0},
			},
		},
	})
	b := &straightBuilder{}
	g := generator.New(rc, b)
	defer g.Close()
	results, err := g.Run()
	assert.NoError(t, err)
	assert.Len(t, results, 3)

	// test: identical roads share one file, different roads get their own

	assert.Equal(t, results[0].RoadFile, results[1].RoadFile)
	assert.NotEqual(t, results[0].RoadFile, results[2].RoadFile)
	entries, err := os.ReadDir(filepath.Join(dir, "xodr"))
	assert.NoError(t, err)
	assert.Len(t, entries, 2)

	// test: the second scenario points at the first road file

	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromFile(results[1].ScenarioFile))
	logic := doc.FindElement("//RoadNetwork/LogicFile")
	assert.NotNil(t, logic)
	assert.Equal(t, "../xodr/reuse_0.xodr", logic.SelectAttrValue("filepath", ""))
}

func TestRunAfterClose(t *testing.T) {
	rc := runtimeConfig(t, config.Config{Output: config.Output{Dir: t.TempDir()}})
	g := generator.New(rc, &straightBuilder{})
	g.Close()
	g.Close()
	_, err := g.Run()
	assert.ErrorIs(t, err, generator.ErrGeneratorClosed)
}

func TestRunErrors(t *testing.T) {
	// test: a missing parameter surfaces the builder error

	rc := runtimeConfig(t, config.Config{Output: config.Output{Dir: t.TempDir()}})
	g := generator.New(rc, &straightBuilder{})
	defer g.Close()
	_, err := g.Run()
	assert.ErrorIs(t, err, generator.ErrBadParameter)

	// test: an empty candidate list fails the sweep

	rc = runtimeConfig(t, config.Config{
		Output: config.Output{Dir: t.TempDir()},
		Sweep:  config.Sweep{Parameters: map[string][]any{"lanes": {}}},
	})
	g = generator.New(rc, &straightBuilder{})
	defer g.Close()
	_, err = g.Run()
	assert.ErrorIs(t, err, generator.ErrNothingToGenerate)
}

func TestParameters(t *testing.T) {
	p := &generator.Parameters{Values: map[string]any{
		"lanes": 3,
		"speed": 27.5,
		"name":  "ego",
		"flag":  true,
	}}

	// test: typed getters

	lanes, err := p.Int("lanes")
	assert.NoError(t, err)
	assert.Equal(t, 3, lanes)
	speed, err := p.Float("speed")
	assert.NoError(t, err)
	assert.Equal(t, 27.5, speed)
	fromInt, err := p.Float("lanes")
	assert.NoError(t, err)
	assert.Equal(t, 3.0, fromInt)
	name, err := p.String("name")
	assert.NoError(t, err)
	assert.Equal(t, "ego", name)
	flag, err := p.Bool("flag")
	assert.NoError(t, err)
	assert.True(t, flag)
	assert.True(t, p.Has("lanes"))
	assert.False(t, p.Has("missing"))

	// test: missing keys and type mismatches

	_, err = p.Float("missing")
	assert.ErrorIs(t, err, generator.ErrBadParameter)
	_, err = p.Int("speed")
	assert.ErrorIs(t, err, generator.ErrBadParameter)
	_, err = p.String("lanes")
	assert.ErrorIs(t, err, generator.ErrBadParameter)
	_, err = p.Bool("name")
	assert.ErrorIs(t, err, generator.ErrBadParameter)
}
