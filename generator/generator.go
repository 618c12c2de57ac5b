// 批量场景生成，按参数扫描配置把构造器产出的路网与场景写成
// 成对的OpenDRIVE/OpenSCENARIO文件
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/tsinghua-fib-lab/scenariogen-oss/utils/config"
	"github.com/tsinghua-fib-lab/scenariogen-oss/utils/randengine"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xodr"
	"github.com/tsinghua-fib-lab/scenariogen-oss/xosc"
)

// ScenarioBuilder 场景构造器
// 功能：由使用方实现，按给定参数组合产出路网与场景
// 说明：Road返回的路网应已完成位姿调整；返回nil表示本组合不生成
// 路网文件，场景需自带路网引用。Scenario返回nil表示只生成路网
type ScenarioBuilder interface {
	Road(p *Parameters) (*xodr.OpenDrive, error)
	Scenario(p *Parameters) (*xosc.Scenario, error)
}

// Result 一个参数组合的生成结果
type Result struct {
	Name         string // 本组合的文件基础名
	RoadFile     string // 路网文件路径，未生成时为空
	ScenarioFile string // 场景文件路径，未生成时为空
}

// Generator 批量场景生成任务
// 功能：按配置展开参数组合，逐一调用构造器生成路网与场景，
// 把成对的.xodr/.xosc文件写入输出目录的xodr/与xosc/子目录
type Generator struct {
	job     string
	cfg     *config.RuntimeConfig
	builder ScenarioBuilder
	engine  *randengine.Engine
	closed  atomic.Bool

	roadCache map[string]string // 路网序列化内容 -> 已写入的文件路径
}

// New 创建生成任务
// 参数：rc-运行时配置；builder-场景构造器
// 说明：随机采样引擎以配置中的种子初始化，相同配置产生相同的扫描序列
func New(rc *config.RuntimeConfig, builder ScenarioBuilder) *Generator {
	return &Generator{
		job:       rc.All.Job,
		cfg:       rc,
		builder:   builder,
		engine:    randengine.New(rc.Sw.Seed),
		roadCache: make(map[string]string),
	}
}

// Run 执行全部生成
// 返回：每个参数组合的生成结果，任一环节失败立即返回错误
// 算法说明：
// 1. 创建输出目录：<dir>/xodr与<dir>/xosc
// 2. 展开参数组合：all为全部组合，random为种子采样
// 3. 逐组合生成：先Road后Scenario，路网文件相对路径经
//    Parameters传给Scenario供RoadNetwork引用
// 4. 复用路网：reuse_roads开启时按序列化内容判重，
//    相同路网只写首个文件
func (g *Generator) Run() ([]Result, error) {
	if g.closed.Load() {
		return nil, ErrGeneratorClosed
	}
	xodrDir := filepath.Join(g.cfg.Out.Dir, "xodr")
	xoscDir := filepath.Join(g.cfg.Out.Dir, "xosc")
	for _, dir := range []string{xodrDir, xoscDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "cannot create output dir %s", dir)
		}
	}
	perms, err := permutations(g.cfg.Sw, g.engine)
	if err != nil {
		return nil, err
	}
	log.Infof("job %s: generating %d permutations into %s", g.job, len(perms), g.cfg.Out.Dir)
	results := make([]Result, 0, len(perms))
	for i, values := range perms {
		p := &Parameters{Values: values, Index: i}
		name := g.permutationName(i, values)
		result := Result{Name: name}
		road, err := g.builder.Road(p)
		if err != nil {
			return nil, errors.Wrapf(err, "road of %s", name)
		}
		if road != nil {
			roadFile, err := g.writeRoad(road, xodrDir, name)
			if err != nil {
				return nil, err
			}
			result.RoadFile = roadFile
			p.RoadFile = "../xodr/" + filepath.Base(roadFile)
		}
		scenario, err := g.builder.Scenario(p)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario of %s", name)
		}
		if scenario != nil {
			path := filepath.Join(xoscDir, name+".xosc")
			if err := scenario.WriteXML(path); err != nil {
				return nil, err
			}
			result.ScenarioFile = path
			log.Debugf("wrote scenario %s", path)
		}
		results = append(results, result)
	}
	log.Infof("job %s: generated %d road/scenario pairs", g.job, len(results))
	return results, nil
}

// Close 结束生成任务
// 说明：可重复调用，Close之后的Run返回错误
func (g *Generator) Close() {
	if g.closed.Load() {
		return
	}
	g.closed.Store(true)
	log.Debugf("job %s: generator closed", g.job)
}

// permutationName 生成一个组合的文件基础名
// 说明：numerical方式为任务名加下标，parameter方式按键名排序拼接
// 键值对，值里的路径分隔符替换为连字符
func (g *Generator) permutationName(index int, values map[string]any) string {
	if g.cfg.Out.Naming == config.NamingParameter && len(values) > 0 {
		keys := lo.Keys(values)
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(g.job)
		for _, key := range keys {
			value := fmt.Sprintf("%v", values[key])
			value = strings.ReplaceAll(value, "/", "-")
			value = strings.ReplaceAll(value, `\`, "-")
			b.WriteString("_" + key + "-" + value)
		}
		return b.String()
	}
	return fmt.Sprintf("%s_%d", g.job, index)
}

// writeRoad 写出路网文件，开启复用时内容相同的路网直接返回已有文件
func (g *Generator) writeRoad(road *xodr.OpenDrive, dir, name string) (string, error) {
	path := filepath.Join(dir, name+".xodr")
	if g.cfg.Out.ReuseRoads {
		key, err := roadKey(road)
		if err != nil {
			return "", err
		}
		if existing, ok := g.roadCache[key]; ok {
			log.Debugf("road of %s matches %s, reusing it", name, filepath.Base(existing))
			return existing, nil
		}
		g.roadCache[key] = path
	}
	if err := road.WriteXML(path); err != nil {
		return "", err
	}
	log.Debugf("wrote road %s", path)
	return path, nil
}

// roadKey 序列化路网用作判重依据，header中的生成时间不参与比较
func roadKey(road *xodr.OpenDrive) (string, error) {
	elem := road.Element()
	if header := elem.SelectElement("header"); header != nil {
		header.RemoveAttr("date")
	}
	doc := etree.NewDocument()
	doc.SetRoot(elem)
	s, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(err, "cannot serialize road network")
	}
	return s, nil
}
