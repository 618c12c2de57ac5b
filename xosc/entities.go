package xosc

import "github.com/beevik/etree"

// EntityObject 可放入ScenarioObject的实体描述（车辆或行人）
type EntityObject interface {
	Element() *etree.Element
}

// Entities 场景实体集合
type Entities struct {
	objects []*ScenarioObject
}

func NewEntities() *Entities {
	return &Entities{}
}

// AddScenarioObject 以给定名字加入一个实体
// 说明：实体名是动作与触发器引用实体的唯一标识，重名时告警并保留两者
func (e *Entities) AddScenarioObject(name string, object EntityObject) *Entities {
	for _, so := range e.objects {
		if so.name == name {
			log.Warnf("entity name %s is already used in the scenario, references to it are ambiguous", name)
			break
		}
	}
	e.objects = append(e.objects, &ScenarioObject{name: name, object: object})
	return e
}

func (e *Entities) Element() *etree.Element {
	elem := etree.NewElement("Entities")
	for _, so := range e.objects {
		elem.AddChild(so.Element())
	}
	return elem
}

// ScenarioObject 带名字的场景实体
type ScenarioObject struct {
	name   string
	object EntityObject
}

func (so *ScenarioObject) Element() *etree.Element {
	elem := etree.NewElement("ScenarioObject")
	elem.CreateAttr("name", so.name)
	elem.AddChild(so.object.Element())
	return elem
}

// Vehicle 车辆实体描述
// 功能：收纳包围盒、前后轴、性能上限与附加属性，
// 输出OpenSCENARIO的Vehicle元素
type Vehicle struct {
	name            string
	category        VehicleCategory
	boundingBox     *BoundingBox
	frontAxle       *Axle
	rearAxle        *Axle
	additionalAxles []*Axle
	maxSpeed        float64
	maxAcceleration float64
	maxDeceleration float64
	parameters      *ParameterDeclarations
	properties      *Properties
}

// NewVehicle 构造车辆
// 参数：
//
//	name: 实体类型名（非场景内实体名，后者在加入Entities时给定）
//	category: 车辆类别
//	boundingBox: 包围盒
//	frontAxle/rearAxle: 前后轴
//	maxSpeed/maxAcceleration/maxDeceleration: 性能上限
func NewVehicle(name string, category VehicleCategory, boundingBox *BoundingBox, frontAxle, rearAxle *Axle, maxSpeed, maxAcceleration, maxDeceleration float64) *Vehicle {
	return &Vehicle{
		name:            name,
		category:        category,
		boundingBox:     boundingBox,
		frontAxle:       frontAxle,
		rearAxle:        rearAxle,
		maxSpeed:        maxSpeed,
		maxAcceleration: maxAcceleration,
		maxDeceleration: maxDeceleration,
		parameters:      NewParameterDeclarations(),
		properties:      NewProperties(),
	}
}

// AddAxle 追加一根附加轴（前后轴之外）
func (v *Vehicle) AddAxle(axle *Axle) *Vehicle {
	v.additionalAxles = append(v.additionalAxles, axle)
	return v
}

// AddParameter 追加一条参数声明
func (v *Vehicle) AddParameter(parameter *Parameter) *Vehicle {
	v.parameters.AddParameter(parameter)
	return v
}

// AddProperty 追加一条键值属性
func (v *Vehicle) AddProperty(name, value string) *Vehicle {
	v.properties.AddProperty(name, value)
	return v
}

// AddPropertyFile 追加一个属性文件引用
func (v *Vehicle) AddPropertyFile(filepath string) *Vehicle {
	v.properties.AddFile(filepath)
	return v
}

func (v *Vehicle) Element() *etree.Element {
	elem := etree.NewElement("Vehicle")
	elem.CreateAttr("name", v.name)
	elem.CreateAttr("vehicleCategory", string(v.category))
	if !v.parameters.empty() {
		elem.AddChild(v.parameters.Element())
	}
	elem.AddChild(v.boundingBox.Element())
	perf := elem.CreateElement("Performance")
	perf.CreateAttr("maxSpeed", ftoa(v.maxSpeed))
	perf.CreateAttr("maxAcceleration", ftoa(v.maxAcceleration))
	perf.CreateAttr("maxDeceleration", ftoa(v.maxDeceleration))
	axles := elem.CreateElement("Axles")
	axles.AddChild(v.frontAxle.Element("FrontAxle"))
	axles.AddChild(v.rearAxle.Element("RearAxle"))
	for _, axle := range v.additionalAxles {
		axles.AddChild(axle.Element("AdditionalAxle"))
	}
	elem.AddChild(v.properties.Element())
	return elem
}

// Pedestrian 行人实体描述
type Pedestrian struct {
	name        string
	model       string
	mass        float64
	category    PedestrianCategory
	boundingBox *BoundingBox
	parameters  *ParameterDeclarations
	properties  *Properties
}

// NewPedestrian 构造行人
// 参数：
//
//	name: 实体类型名
//	model: 行人模型标识
//	mass: 质量（kg）
//	category: 行人类别
//	boundingBox: 包围盒
func NewPedestrian(name, model string, mass float64, category PedestrianCategory, boundingBox *BoundingBox) *Pedestrian {
	return &Pedestrian{
		name:        name,
		model:       model,
		mass:        mass,
		category:    category,
		boundingBox: boundingBox,
		parameters:  NewParameterDeclarations(),
		properties:  NewProperties(),
	}
}

// AddParameter 追加一条参数声明
func (p *Pedestrian) AddParameter(parameter *Parameter) *Pedestrian {
	p.parameters.AddParameter(parameter)
	return p
}

// AddProperty 追加一条键值属性
func (p *Pedestrian) AddProperty(name, value string) *Pedestrian {
	p.properties.AddProperty(name, value)
	return p
}

func (p *Pedestrian) Element() *etree.Element {
	elem := etree.NewElement("Pedestrian")
	elem.CreateAttr("name", p.name)
	elem.CreateAttr("pedestrianCategory", string(p.category))
	elem.CreateAttr("model", p.model)
	elem.CreateAttr("mass", ftoa(p.mass))
	if !p.parameters.empty() {
		elem.AddChild(p.parameters.Element())
	}
	elem.AddChild(p.boundingBox.Element())
	elem.AddChild(p.properties.Element())
	return elem
}
