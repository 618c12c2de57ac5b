package xosc

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// fileHeader 场景文件头，由Scenario在构造时生成
type fileHeader struct {
	description string
	author      string
	revMajor    string
	revMinor    string
}

func (fh *fileHeader) Element() *etree.Element {
	elem := etree.NewElement("FileHeader")
	elem.CreateAttr("description", fh.description)
	elem.CreateAttr("author", fh.author)
	elem.CreateAttr("revMajor", fh.revMajor)
	elem.CreateAttr("revMinor", fh.revMinor)
	elem.CreateAttr("date", time.Now().Format("2006-01-02T15:04:05"))
	return elem
}

// Parameter 一条参数声明
// 说明：场景内可用$参数名引用，类型与OpenSCENARIO标准一致
type Parameter struct {
	name          string
	parameterType ParameterType
	value         string
}

func NewParameter(name string, parameterType ParameterType, value string) *Parameter {
	return &Parameter{name: name, parameterType: parameterType, value: value}
}

func (p *Parameter) Element() *etree.Element {
	elem := etree.NewElement("ParameterDeclaration")
	elem.CreateAttr("name", p.name)
	elem.CreateAttr("parameterType", string(p.parameterType))
	elem.CreateAttr("value", p.value)
	return elem
}

// ParameterDeclarations 参数声明的集合
type ParameterDeclarations struct {
	parameters []*Parameter
}

func NewParameterDeclarations(parameters ...*Parameter) *ParameterDeclarations {
	return &ParameterDeclarations{parameters: parameters}
}

// AddParameter 追加一条参数声明
func (pd *ParameterDeclarations) AddParameter(parameter *Parameter) *ParameterDeclarations {
	pd.parameters = append(pd.parameters, parameter)
	return pd
}

func (pd *ParameterDeclarations) empty() bool {
	return pd == nil || len(pd.parameters) == 0
}

func (pd *ParameterDeclarations) Element() *etree.Element {
	elem := etree.NewElement("ParameterDeclarations")
	for _, p := range pd.parameters {
		elem.AddChild(p.Element())
	}
	return elem
}

// TransitionDynamics 动作的过渡动态
// 功能：描述速度或横向过渡如何随时间推进，由形状、量纲与取值组成
type TransitionDynamics struct {
	shape     DynamicsShape
	dimension DynamicsDimension
	value     float64
}

func NewTransitionDynamics(shape DynamicsShape, dimension DynamicsDimension, value float64) *TransitionDynamics {
	return &TransitionDynamics{shape: shape, dimension: dimension, value: value}
}

// Element 输出过渡动态元素
// 参数：
//
//	name: 元素名，缺省为TransitionDynamics，动作内使用时
//	由动作指定（如SpeedActionDynamics）
func (td *TransitionDynamics) Element(name ...string) *etree.Element {
	elemName := "TransitionDynamics"
	if len(name) > 0 {
		elemName = name[0]
	}
	elem := etree.NewElement(elemName)
	elem.CreateAttr("dynamicsShape", string(td.shape))
	elem.CreateAttr("value", ftoa(td.value))
	elem.CreateAttr("dynamicsDimension", string(td.dimension))
	return elem
}

// Orientation 实体朝向，三个欧拉角均可单独缺省
type Orientation struct {
	h, p, r             float64
	hasH, hasP, hasR    bool
	reference           ReferenceContext
	hasReferenceContext bool
}

func NewOrientation() *Orientation {
	return &Orientation{}
}

func (o *Orientation) SetHeading(h float64) *Orientation {
	o.h = h
	o.hasH = true
	return o
}

func (o *Orientation) SetPitch(p float64) *Orientation {
	o.p = p
	o.hasP = true
	return o
}

func (o *Orientation) SetRoll(r float64) *Orientation {
	o.r = r
	o.hasR = true
	return o
}

func (o *Orientation) SetReference(reference ReferenceContext) *Orientation {
	o.reference = reference
	o.hasReferenceContext = true
	return o
}

// filled 是否有任一属性被显式设置，未设置时位置元素不输出朝向
func (o *Orientation) filled() bool {
	return o != nil && (o.hasH || o.hasP || o.hasR || o.hasReferenceContext)
}

func (o *Orientation) Element() *etree.Element {
	elem := etree.NewElement("Orientation")
	if o.hasH {
		elem.CreateAttr("h", ftoa(o.h))
	}
	if o.hasP {
		elem.CreateAttr("p", ftoa(o.p))
	}
	if o.hasR {
		elem.CreateAttr("r", ftoa(o.r))
	}
	if o.hasReferenceContext {
		elem.CreateAttr("type", string(o.reference))
	}
	return elem
}

// EntityRef 对场景实体的引用
type EntityRef struct {
	entity string
}

func NewEntityRef(entity string) *EntityRef {
	return &EntityRef{entity: entity}
}

func (er *EntityRef) Element() *etree.Element {
	elem := etree.NewElement("EntityRef")
	elem.CreateAttr("entityRef", er.entity)
	return elem
}

// Properties 实体的键值属性与属性文件
type Properties struct {
	properties [][2]string
	files      []string
}

func NewProperties() *Properties {
	return &Properties{}
}

// AddProperty 追加一条键值属性
func (p *Properties) AddProperty(name, value string) *Properties {
	p.properties = append(p.properties, [2]string{name, value})
	return p
}

// AddFile 追加一个属性文件引用
func (p *Properties) AddFile(filepath string) *Properties {
	p.files = append(p.files, filepath)
	return p
}

func (p *Properties) Element() *etree.Element {
	elem := etree.NewElement("Properties")
	for _, prop := range p.properties {
		child := elem.CreateElement("Property")
		child.CreateAttr("name", prop[0])
		child.CreateAttr("value", prop[1])
	}
	for _, file := range p.files {
		child := elem.CreateElement("File")
		child.CreateAttr("filepath", file)
	}
	return elem
}

// BoundingBox 实体的包围盒，由中心偏移与三维尺寸组成
type BoundingBox struct {
	width, length, height     float64
	xCenter, yCenter, zCenter float64
}

// NewBoundingBox 构造包围盒
// 参数：
//
//	width/length/height: 包围盒尺寸
//	xCenter/yCenter/zCenter: 包围盒中心相对实体参考点的偏移
func NewBoundingBox(width, length, height, xCenter, yCenter, zCenter float64) *BoundingBox {
	return &BoundingBox{
		width: width, length: length, height: height,
		xCenter: xCenter, yCenter: yCenter, zCenter: zCenter,
	}
}

func (bb *BoundingBox) Element() *etree.Element {
	elem := etree.NewElement("BoundingBox")
	center := elem.CreateElement("Center")
	center.CreateAttr("x", ftoa(bb.xCenter))
	center.CreateAttr("y", ftoa(bb.yCenter))
	center.CreateAttr("z", ftoa(bb.zCenter))
	dim := elem.CreateElement("Dimensions")
	dim.CreateAttr("width", ftoa(bb.width))
	dim.CreateAttr("length", ftoa(bb.length))
	dim.CreateAttr("height", ftoa(bb.height))
	return elem
}

// Axle 车轴描述，元素名由所在位置决定（FrontAxle/RearAxle/AdditionalAxle）
type Axle struct {
	maxSteering   float64
	wheelDiameter float64
	trackWidth    float64
	positionX     float64
	positionZ     float64
}

func NewAxle(maxSteering, wheelDiameter, trackWidth, positionX, positionZ float64) *Axle {
	return &Axle{
		maxSteering:   maxSteering,
		wheelDiameter: wheelDiameter,
		trackWidth:    trackWidth,
		positionX:     positionX,
		positionZ:     positionZ,
	}
}

func (a *Axle) Element(name string) *etree.Element {
	elem := etree.NewElement(name)
	elem.CreateAttr("maxSteering", ftoa(a.maxSteering))
	elem.CreateAttr("wheelDiameter", ftoa(a.wheelDiameter))
	elem.CreateAttr("trackWidth", ftoa(a.trackWidth))
	elem.CreateAttr("positionX", ftoa(a.positionX))
	elem.CreateAttr("positionZ", ftoa(a.positionZ))
	return elem
}

// ftoa 浮点数转XML属性文本，使用最短可逆表示
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// itoa int转XML属性文本
func itoa(v int) string {
	return strconv.Itoa(v)
}

// btoa bool转XML属性文本
func btoa(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
