package xosc

import (
	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// RoadNetwork 场景引用的路网
// 说明：logicFile为.xodr路网文件路径，另可附带场景图文件
type RoadNetwork struct {
	logicFile      string
	sceneGraphFile string
}

func NewRoadNetwork(logicFile string) *RoadNetwork {
	return &RoadNetwork{logicFile: logicFile}
}

// SetSceneGraphFile 附带的三维场景图文件
func (rn *RoadNetwork) SetSceneGraphFile(filepath string) *RoadNetwork {
	rn.sceneGraphFile = filepath
	return rn
}

func (rn *RoadNetwork) Element() *etree.Element {
	elem := etree.NewElement("RoadNetwork")
	logic := elem.CreateElement("LogicFile")
	logic.CreateAttr("filepath", rn.logicFile)
	if rn.sceneGraphFile != "" {
		scene := elem.CreateElement("SceneGraphFile")
		scene.CreateAttr("filepath", rn.sceneGraphFile)
	}
	return elem
}

// Scenario 一份完整的OpenSCENARIO场景文档
// 功能：收纳文件头、参数、路网引用、实体与故事板，
// 负责整体校验与XML序列化
// 说明：OpenSCENARIO版本默认1.2
type Scenario struct {
	header      *fileHeader
	parameters  *ParameterDeclarations
	roadNetwork *RoadNetwork
	entities    *Entities
	storyboard  *Storyboard
}

// NewScenario 构造场景文档
// 参数：
//
//	name: 场景名，写入文件头描述，也是缺省的输出文件名
//	author: 作者，写入文件头
//	parameters: 场景级参数声明，可为nil
//	entities: 场景实体
//	storyboard: 故事板
//	roadNetwork: 路网引用
func NewScenario(name, author string, parameters *ParameterDeclarations, entities *Entities, storyboard *Storyboard, roadNetwork *RoadNetwork) *Scenario {
	return &Scenario{
		header: &fileHeader{
			description: name,
			author:      author,
			revMajor:    "1",
			revMinor:    "2",
		},
		parameters:  parameters,
		roadNetwork: roadNetwork,
		entities:    entities,
		storyboard:  storyboard,
	}
}

// SetRevision 设置OpenSCENARIO主次版本号
func (scn *Scenario) SetRevision(major, minor string) *Scenario {
	scn.header.revMajor = major
	scn.header.revMinor = minor
	return scn
}

// Name 场景名（文件头描述）
func (scn *Scenario) Name() string {
	return scn.header.description
}

// Element 输出OpenSCENARIO根元素
func (scn *Scenario) Element() *etree.Element {
	elem := etree.NewElement("OpenSCENARIO")
	elem.CreateAttr("xmlns:xsi", schemaNamespace)
	elem.CreateAttr("xsi:noNamespaceSchemaLocation", schemaLocation)
	elem.AddChild(scn.header.Element())
	if !scn.parameters.empty() {
		elem.AddChild(scn.parameters.Element())
	}
	elem.CreateElement("CatalogLocations")
	elem.AddChild(scn.roadNetwork.Element())
	elem.AddChild(scn.entities.Element())
	elem.AddChild(scn.storyboard.Element())
	return elem
}

// WriteXML 把场景写入.xosc文件
// 参数：
//
//	filename: 目标路径，缺省为场景名加.xosc后缀
func (scn *Scenario) WriteXML(filename ...string) error {
	if len(filename) > 1 {
		return errors.Wrap(ErrTooManyOptionalArguments, "WriteXML takes at most one filename")
	}
	if err := scn.storyboard.validate(); err != nil {
		return err
	}
	path := scn.header.description + ".xosc"
	if len(filename) == 1 {
		path = filename[0]
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(scn.Element())
	doc.Indent(4)
	if err := doc.WriteToFile(path); err != nil {
		return errors.Wrapf(err, "cannot write OpenSCENARIO file %s", path)
	}
	log.Debugf("scenario %s written to %s", scn.header.description, path)
	return nil
}
