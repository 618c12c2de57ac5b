package xodr

import (
	"strings"

	"github.com/beevik/etree"
)

// Validity 信号或物体的车道有效范围
type Validity struct {
	additionalData
	fromLane int
	toLane   int
}

func NewValidity(fromLane, toLane int) *Validity {
	return &Validity{fromLane: fromLane, toLane: toLane}
}

func (v *Validity) Element() *etree.Element {
	elem := etree.NewElement("validity")
	elem.CreateAttr("fromLane", itoa(v.fromLane))
	elem.CreateAttr("toLane", itoa(v.toLane))
	v.appendAdditionalData(elem)
	return elem
}

// Dependency 信号间的依赖关系，置于signal元素内
type Dependency struct {
	additionalData
	id      string
	depType string
}

func NewDependency(id, depType string) *Dependency {
	return &Dependency{id: id, depType: depType}
}

func (d *Dependency) Element() *etree.Element {
	elem := etree.NewElement("dependency")
	elem.CreateAttr("id", d.id)
	elem.CreateAttr("type", d.depType)
	d.appendAdditionalData(elem)
	return elem
}

// Signal 道路信号，对应signal元素
// 功能：描述交通标志或交通灯，由国家代码、类型与子类型共同标识
// 说明：编号留空时由路网容器在道路加入时统一分配
type Signal struct {
	additionalData
	s, t            float64
	country         string
	countryRevision string
	signalType      string
	subtype         string
	id              string
	idAssigned      bool
	name            string
	dynamic         Dynamic
	value           float64
	hasValue        bool
	unit            string
	zOffset         float64
	orientation     Orientation
	hOffset         float64
	pitch, roll     float64
	width, height   float64
	hasWidth        bool
	hasHeight       bool
	validity        *Validity
	dependencies    []*Dependency
}

// NewSignal 创建信号
// 参数：
//
//	s, t: 信号在道路上的坐标
//	country: ISO 3166-1国家代码
//	signalType: 信号类型编码
//
// 说明：默认子类型"-1"、静态、zOffset 1.5、正向朝向
func NewSignal(s, t float64, country, signalType string) *Signal {
	return &Signal{
		s:           s,
		t:           t,
		country:     country,
		signalType:  signalType,
		subtype:     "-1",
		dynamic:     DynamicNo,
		zOffset:     1.5,
		orientation: OrientationPositive,
	}
}

// ID 返回信号编号，未分配时为空串
func (sig *Signal) ID() string {
	return sig.id
}

// SetID 指定期望编号，与已有编号冲突时会被改为自动分配
func (sig *Signal) SetID(id string) *Signal {
	sig.id = id
	return sig
}

func (sig *Signal) SetSubtype(subtype string) *Signal {
	sig.subtype = subtype
	return sig
}

func (sig *Signal) SetCountryRevision(revision string) *Signal {
	sig.countryRevision = revision
	return sig
}

func (sig *Signal) SetName(name string) *Signal {
	sig.name = name
	return sig
}

func (sig *Signal) SetDynamic(dynamic Dynamic) *Signal {
	sig.dynamic = dynamic
	return sig
}

// SetValue 设置信号值及其单位，例如限速值
func (sig *Signal) SetValue(value float64, unit string) *Signal {
	sig.value = value
	sig.unit = unit
	sig.hasValue = true
	return sig
}

func (sig *Signal) SetZOffset(zOffset float64) *Signal {
	sig.zOffset = zOffset
	return sig
}

func (sig *Signal) SetOrientation(orientation Orientation) *Signal {
	sig.orientation = orientation
	return sig
}

func (sig *Signal) SetHOffset(hOffset float64) *Signal {
	sig.hOffset = hOffset
	return sig
}

func (sig *Signal) SetPitch(pitch float64) *Signal {
	sig.pitch = pitch
	return sig
}

func (sig *Signal) SetRoll(roll float64) *Signal {
	sig.roll = roll
	return sig
}

func (sig *Signal) SetWidth(width float64) *Signal {
	sig.width = width
	sig.hasWidth = true
	return sig
}

func (sig *Signal) SetHeight(height float64) *Signal {
	sig.height = height
	sig.hasHeight = true
	return sig
}

// AddValidity 设置车道有效范围，每个信号至多一条
func (sig *Signal) AddValidity(fromLane, toLane int) *Signal {
	if sig.validity != nil {
		log.Panicf("signal %s already has a validity record", sig.id)
	}
	sig.validity = NewValidity(fromLane, toLane)
	return sig
}

// AddDependency 登记受本信号控制的信号
func (sig *Signal) AddDependency(id, depType string) *Signal {
	sig.dependencies = append(sig.dependencies, NewDependency(id, depType))
	return sig
}

// assignID 由路网容器统一分配编号，重复调用无效果
func (sig *Signal) assignID(alloc *IDAllocator) {
	if sig.idAssigned {
		return
	}
	sig.id = alloc.Allocate(IDCategorySignal, sig.id)
	sig.idAssigned = true
}

func (sig *Signal) Element() *etree.Element {
	elem := etree.NewElement("signal")
	elem.CreateAttr("id", sig.id)
	elem.CreateAttr("s", ftoa(sig.s))
	elem.CreateAttr("t", ftoa(sig.t))
	elem.CreateAttr("subtype", sig.subtype)
	elem.CreateAttr("dynamic", string(sig.dynamic))
	elem.CreateAttr("zOffset", ftoa(sig.zOffset))
	elem.CreateAttr("pitch", ftoa(sig.pitch))
	elem.CreateAttr("roll", ftoa(sig.roll))
	if sig.hasWidth {
		elem.CreateAttr("width", ftoa(sig.width))
	}
	if sig.hasHeight {
		elem.CreateAttr("height", ftoa(sig.height))
	}
	if sig.name != "" {
		elem.CreateAttr("name", sig.name)
	}
	elem.CreateAttr("type", sig.signalType)
	elem.CreateAttr("orientation", string(sig.orientation))
	elem.CreateAttr("country", strings.ToUpper(sig.country))
	if sig.countryRevision != "" {
		elem.CreateAttr("countryRevision", sig.countryRevision)
	}
	elem.CreateAttr("hOffset", ftoa(sig.hOffset))
	if sig.hasValue {
		elem.CreateAttr("value", ftoa(sig.value))
		elem.CreateAttr("unit", sig.unit)
	}
	sig.appendAdditionalData(elem)
	if sig.validity != nil {
		elem.AddChild(sig.validity.Element())
	}
	for _, dep := range sig.dependencies {
		elem.AddChild(dep.Element())
	}
	return elem
}

// SignalReference 对已有信号的引用，在另一位置复用其定义
type SignalReference struct {
	additionalData
	s, t        float64
	referenceID string
	orientation Orientation
	validity    *Validity
}

func NewSignalReference(s, t float64, referenceID string) *SignalReference {
	return &SignalReference{s: s, t: t, referenceID: referenceID, orientation: OrientationPositive}
}

func (sr *SignalReference) SetOrientation(orientation Orientation) *SignalReference {
	sr.orientation = orientation
	return sr
}

// AddValidity 设置车道有效范围，至多一条
func (sr *SignalReference) AddValidity(fromLane, toLane int) *SignalReference {
	if sr.validity != nil {
		log.Panicf("signal reference to %s already has a validity record", sr.referenceID)
	}
	sr.validity = NewValidity(fromLane, toLane)
	return sr
}

func (sr *SignalReference) Element() *etree.Element {
	elem := etree.NewElement("signalReference")
	elem.CreateAttr("s", ftoa(sr.s))
	elem.CreateAttr("t", ftoa(sr.t))
	elem.CreateAttr("id", sr.referenceID)
	elem.CreateAttr("orientation", string(sr.orientation))
	sr.appendAdditionalData(elem)
	if sr.validity != nil {
		elem.AddChild(sr.validity.Element())
	}
	return elem
}

// repeatRecord 物体沿s方向的重复放置记录
// 说明：s、t与zOffset未显式给出时回落到父物体的取值，
// 高度仅在父物体有高度时回落
type repeatRecord struct {
	length, distance         float64
	s                        float64
	hasS                     bool
	tStart, tEnd             float64
	hasT                     bool
	zOffsetStart, zOffsetEnd float64
	hasZOffset               bool
	heightStart, heightEnd   float64
	hasHeight                bool
	widthStart, widthEnd     float64
	hasWidth                 bool
	lengthStart, lengthEnd   float64
	hasLength                bool
	radiusStart, radiusEnd   float64
	hasRadius                bool
}

// RepeatOption 重复记录的可选属性
type RepeatOption func(*repeatRecord)

// RepeatS 重复区间的起始s坐标
func RepeatS(s float64) RepeatOption {
	return func(r *repeatRecord) {
		r.s = s
		r.hasS = true
	}
}

// RepeatT 重复区间两端的t坐标
func RepeatT(tStart, tEnd float64) RepeatOption {
	return func(r *repeatRecord) {
		r.tStart, r.tEnd = tStart, tEnd
		r.hasT = true
	}
}

// RepeatZOffset 重复区间两端的垂直偏移
func RepeatZOffset(start, end float64) RepeatOption {
	return func(r *repeatRecord) {
		r.zOffsetStart, r.zOffsetEnd = start, end
		r.hasZOffset = true
	}
}

// RepeatHeight 重复区间两端的物体高度
func RepeatHeight(start, end float64) RepeatOption {
	return func(r *repeatRecord) {
		r.heightStart, r.heightEnd = start, end
		r.hasHeight = true
	}
}

// RepeatWidth 重复区间两端的物体宽度
func RepeatWidth(start, end float64) RepeatOption {
	return func(r *repeatRecord) {
		r.widthStart, r.widthEnd = start, end
		r.hasWidth = true
	}
}

// RepeatLength 重复区间两端的物体长度
func RepeatLength(start, end float64) RepeatOption {
	return func(r *repeatRecord) {
		r.lengthStart, r.lengthEnd = start, end
		r.hasLength = true
	}
}

// RepeatRadius 重复区间两端的物体半径
func RepeatRadius(start, end float64) RepeatOption {
	return func(r *repeatRecord) {
		r.radiusStart, r.radiusEnd = start, end
		r.hasRadius = true
	}
}

func (r *repeatRecord) Element() *etree.Element {
	elem := etree.NewElement("repeat")
	elem.CreateAttr("length", ftoa(r.length))
	elem.CreateAttr("distance", ftoa(r.distance))
	elem.CreateAttr("s", ftoa(r.s))
	elem.CreateAttr("tStart", ftoa(r.tStart))
	elem.CreateAttr("tEnd", ftoa(r.tEnd))
	if r.hasHeight {
		elem.CreateAttr("heightStart", ftoa(r.heightStart))
		elem.CreateAttr("heightEnd", ftoa(r.heightEnd))
	}
	elem.CreateAttr("zOffsetStart", ftoa(r.zOffsetStart))
	elem.CreateAttr("zOffsetEnd", ftoa(r.zOffsetEnd))
	if r.hasWidth {
		elem.CreateAttr("widthStart", ftoa(r.widthStart))
		elem.CreateAttr("widthEnd", ftoa(r.widthEnd))
	}
	if r.hasLength {
		elem.CreateAttr("lengthStart", ftoa(r.lengthStart))
		elem.CreateAttr("lengthEnd", ftoa(r.lengthEnd))
	}
	if r.hasRadius {
		elem.CreateAttr("radiusStart", ftoa(r.radiusStart))
		elem.CreateAttr("radiusEnd", ftoa(r.radiusEnd))
	}
	return elem
}

// Object 道路物体，对应object元素
// 功能：描述路侧或路面上的静态物体，尺寸用宽·长或半径二选一描述
// 说明：编号留空时由路网容器在道路加入时统一分配
type Object struct {
	additionalData
	s, t             float64
	objectType       ObjectType
	subtype          string
	id               string
	idAssigned       bool
	name             string
	dynamic          Dynamic
	zOffset          float64
	orientation      Orientation
	hdg, pitch, roll float64
	width, length    float64
	hasDims          bool
	height           float64
	hasHeight        bool
	radius           float64
	hasRadius        bool
	validLength      float64
	hasValidLength   bool
	repeats          []*repeatRecord
	validity         *Validity
}

// NewObject 创建道路物体，默认类型none、静态、无朝向
func NewObject(s, t float64, objectType ObjectType) *Object {
	return &Object{
		s:           s,
		t:           t,
		objectType:  objectType,
		dynamic:     DynamicNo,
		orientation: OrientationNone,
	}
}

// ID 返回物体编号，未分配时为空串
func (o *Object) ID() string {
	return o.id
}

// SetID 指定期望编号，与已有编号冲突时会被改为自动分配
func (o *Object) SetID(id string) *Object {
	o.id = id
	return o
}

func (o *Object) SetSubtype(subtype string) *Object {
	o.subtype = subtype
	return o
}

func (o *Object) SetName(name string) *Object {
	o.name = name
	return o
}

func (o *Object) SetDynamic(dynamic Dynamic) *Object {
	o.dynamic = dynamic
	return o
}

func (o *Object) SetZOffset(zOffset float64) *Object {
	o.zOffset = zOffset
	return o
}

func (o *Object) SetOrientation(orientation Orientation) *Object {
	o.orientation = orientation
	return o
}

func (o *Object) SetHdg(hdg float64) *Object {
	o.hdg = hdg
	return o
}

func (o *Object) SetPitch(pitch float64) *Object {
	o.pitch = pitch
	return o
}

func (o *Object) SetRoll(roll float64) *Object {
	o.roll = roll
	return o
}

// SetDimensions 以宽度与长度描述物体尺寸，与半径互斥，后设者生效
func (o *Object) SetDimensions(width, length float64) *Object {
	if o.hasRadius {
		log.Warnf("object %s was given both radius and width/length, using width/length", o.id)
		o.hasRadius = false
	}
	o.width, o.length = width, length
	o.hasDims = true
	return o
}

// SetRadius 以半径描述物体尺寸，与宽度/长度互斥，后设者生效
func (o *Object) SetRadius(radius float64) *Object {
	if o.hasDims {
		log.Warnf("object %s was given both width/length and radius, using radius", o.id)
		o.hasDims = false
	}
	o.radius = radius
	o.hasRadius = true
	return o
}

func (o *Object) SetHeight(height float64) *Object {
	o.height = height
	o.hasHeight = true
	return o
}

func (o *Object) SetValidLength(validLength float64) *Object {
	o.validLength = validLength
	o.hasValidLength = true
	return o
}

// AddValidity 设置车道有效范围，每个物体至多一条
func (o *Object) AddValidity(fromLane, toLane int) *Object {
	if o.validity != nil {
		log.Panicf("object %s already has a validity record", o.id)
	}
	o.validity = NewValidity(fromLane, toLane)
	return o
}

// AddRepeat 追加一条重复放置记录
// 参数：
//
//	length: 重复区间的长度
//	distance: 相邻两个物体的间距，0表示连续
//	opts: 未给出的定位属性回落到物体自身的取值
func (o *Object) AddRepeat(length, distance float64, opts ...RepeatOption) *Object {
	rec := &repeatRecord{length: length, distance: distance}
	for _, opt := range opts {
		opt(rec)
	}
	o.addRepeatRecord(rec)
	return o
}

func (o *Object) addRepeatRecord(rec *repeatRecord) {
	if !rec.hasS {
		rec.s = o.s
	}
	if !rec.hasT {
		rec.tStart, rec.tEnd = o.t, o.t
	}
	if !rec.hasZOffset {
		rec.zOffsetStart, rec.zOffsetEnd = o.zOffset, o.zOffset
	}
	if !rec.hasHeight && o.hasHeight {
		rec.heightStart, rec.heightEnd = o.height, o.height
		rec.hasHeight = true
	}
	o.repeats = append(o.repeats, rec)
}

// assignID 由路网容器统一分配编号，重复调用无效果
func (o *Object) assignID(alloc *IDAllocator) {
	if o.idAssigned {
		return
	}
	o.id = alloc.Allocate(IDCategoryObject, o.id)
	o.idAssigned = true
}

// clone 深拷贝物体，作为沿路重复放置的原型使用
func (o *Object) clone() *Object {
	c := *o
	c.repeats = make([]*repeatRecord, 0, len(o.repeats))
	for _, rec := range o.repeats {
		recCopy := *rec
		c.repeats = append(c.repeats, &recCopy)
	}
	if o.validity != nil {
		validityCopy := *o.validity
		c.validity = &validityCopy
	}
	return &c
}

func (o *Object) Element() *etree.Element {
	elem := etree.NewElement("object")
	elem.CreateAttr("id", o.id)
	elem.CreateAttr("s", ftoa(o.s))
	elem.CreateAttr("t", ftoa(o.t))
	if o.subtype != "" {
		elem.CreateAttr("subtype", o.subtype)
	}
	elem.CreateAttr("dynamic", string(o.dynamic))
	elem.CreateAttr("zOffset", ftoa(o.zOffset))
	elem.CreateAttr("pitch", ftoa(o.pitch))
	elem.CreateAttr("roll", ftoa(o.roll))
	if o.hasDims {
		elem.CreateAttr("width", ftoa(o.width))
	}
	if o.hasHeight {
		elem.CreateAttr("height", ftoa(o.height))
	}
	if o.name != "" {
		elem.CreateAttr("name", o.name)
	}
	elem.CreateAttr("type", string(o.objectType))
	elem.CreateAttr("orientation", string(o.orientation))
	if o.hasValidLength {
		elem.CreateAttr("validLength", ftoa(o.validLength))
	}
	elem.CreateAttr("hdg", ftoa(o.hdg))
	if o.hasRadius {
		elem.CreateAttr("radius", ftoa(o.radius))
	} else if o.hasDims {
		elem.CreateAttr("length", ftoa(o.length))
	}
	o.appendAdditionalData(elem)
	for _, rec := range o.repeats {
		elem.AddChild(rec.Element())
	}
	if o.validity != nil {
		elem.AddChild(o.validity.Element())
	}
	return elem
}

// Tunnel 隧道记录，挂在道路的objects元素下
type Tunnel struct {
	additionalData
	s, length  float64
	id, name   string
	tunnelType TunnelType
	daylight   float64
	lighting   float64
}

// NewTunnel 创建隧道，默认标准隧道，采光与照明系数0.5
func NewTunnel(s, length float64, id, name string) *Tunnel {
	return &Tunnel{
		s:          s,
		length:     length,
		id:         id,
		name:       name,
		tunnelType: TunnelTypeStandard,
		daylight:   0.5,
		lighting:   0.5,
	}
}

func (t *Tunnel) SetType(tunnelType TunnelType) *Tunnel {
	t.tunnelType = tunnelType
	return t
}

// SetDaylight 设置采光系数，取值0到1
func (t *Tunnel) SetDaylight(daylight float64) *Tunnel {
	t.daylight = daylight
	return t
}

// SetLighting 设置照明系数，取值0到1
func (t *Tunnel) SetLighting(lighting float64) *Tunnel {
	t.lighting = lighting
	return t
}

func (t *Tunnel) Element() *etree.Element {
	elem := etree.NewElement("tunnel")
	elem.CreateAttr("s", ftoa(t.s))
	elem.CreateAttr("length", ftoa(t.length))
	elem.CreateAttr("id", t.id)
	elem.CreateAttr("name", t.name)
	elem.CreateAttr("type", string(t.tunnelType))
	elem.CreateAttr("daylight", ftoa(t.daylight))
	elem.CreateAttr("lighting", ftoa(t.lighting))
	t.appendAdditionalData(elem)
	return elem
}
