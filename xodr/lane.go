package xodr

import (
	"sort"

	"github.com/beevik/etree"
	"github.com/samber/lo"
)

// Lanes 道路的车道容器，持有全部车道段与车道中心线偏移
type Lanes struct {
	laneSections []*LaneSection
	laneOffsets  []*LaneOffset
}

// NewLanes 构造空车道容器
func NewLanes() *Lanes {
	return &Lanes{}
}

// AddLaneSection 追加一个车道段
// 功能：追加车道段，并消费给定连接器中暂存的车道连接，
// 把前后车道的successor/predecessor关联写入车道本身
// 参数：
//
//	laneSection: 待追加的车道段
//	linkers: 可选的车道连接器，其中暂存的连接被取出并清空
func (ls *Lanes) AddLaneSection(laneSection *LaneSection, linkers ...*LaneLinker) error {
	for _, linker := range linkers {
		for _, l := range linker.drain() {
			if err := l.predecessor.AddLink(LinkTypeSuccessor, l.successor.ID()); err != nil {
				return err
			}
			if err := l.successor.AddLink(LinkTypePredecessor, l.predecessor.ID()); err != nil {
				return err
			}
		}
	}
	ls.laneSections = append(ls.laneSections, laneSection)
	return nil
}

// AddLaneOffset 追加一条车道中心线偏移记录
func (ls *Lanes) AddLaneOffset(offset *LaneOffset) {
	ls.laneOffsets = append(ls.laneOffsets, offset)
}

// LaneSections 全部车道段，按追加顺序
func (ls *Lanes) LaneSections() []*LaneSection {
	return ls.laneSections
}

func (ls *Lanes) Element() *etree.Element {
	elem := etree.NewElement("lanes")
	for _, o := range ls.laneOffsets {
		elem.AddChild(o.Element())
	}
	for _, s := range ls.laneSections {
		elem.AddChild(s.Element())
	}
	return elem
}

// LaneOffset 车道中心线相对参考线的横向偏移，三次多项式
type LaneOffset struct {
	s, a, b, c, d float64
}

// NewLaneOffset 构造自s起的偏移记录，系数为a+b*ds+c*ds^2+d*ds^3
func NewLaneOffset(s, a, b, c, d float64) *LaneOffset {
	return &LaneOffset{s: s, a: a, b: b, c: c, d: d}
}

func (lo *LaneOffset) Element() *etree.Element {
	elem := etree.NewElement("laneOffset")
	elem.CreateAttr("s", ftoa(lo.s))
	elem.CreateAttr("a", ftoa(lo.a))
	elem.CreateAttr("b", ftoa(lo.b))
	elem.CreateAttr("c", ftoa(lo.c))
	elem.CreateAttr("d", ftoa(lo.d))
	return elem
}

// LaneSection 车道段
// 功能：自s起的一段横断面，持有中心车道与向外排序的左右车道
// 说明：左右车道一律自中心向外添加，编号自动分配（左侧1,2,...，右侧-1,-2,...）；
// 中心车道编号恒为0且类型置为none
type LaneSection struct {
	s          float64
	centerLane *Lane
	leftLanes  []*Lane
	rightLanes []*Lane
	leftID     int
	rightID    int
}

// NewLaneSection 构造自s起的车道段
func NewLaneSection(s float64, centerLane *Lane) *LaneSection {
	centerLane.setID(0)
	return &LaneSection{
		s:          s,
		centerLane: centerLane,
		leftID:     1,
		rightID:    -1,
	}
}

// AddLeftLane 自中心向外追加一条左侧车道
func (ls *LaneSection) AddLeftLane(lane *Lane) *LaneSection {
	lane.setID(ls.leftID)
	ls.leftID++
	ls.leftLanes = append(ls.leftLanes, lane)
	return ls
}

// AddRightLane 自中心向外追加一条右侧车道
func (ls *LaneSection) AddRightLane(lane *Lane) *LaneSection {
	lane.setID(ls.rightID)
	ls.rightID--
	ls.rightLanes = append(ls.rightLanes, lane)
	return ls
}

// S 车道段起始s坐标
func (ls *LaneSection) S() float64 {
	return ls.s
}

// CenterLane 中心车道
func (ls *LaneSection) CenterLane() *Lane {
	return ls.centerLane
}

// LeftLanes 左侧车道，自中心向外
func (ls *LaneSection) LeftLanes() []*Lane {
	return ls.leftLanes
}

// RightLanes 右侧车道，自中心向外
func (ls *LaneSection) RightLanes() []*Lane {
	return ls.rightLanes
}

func (ls *LaneSection) Element() *etree.Element {
	elem := etree.NewElement("laneSection")
	elem.CreateAttr("s", ftoa(ls.s))
	if len(ls.leftLanes) > 0 {
		left := elem.CreateElement("left")
		// 左侧序列化时自外向内排列
		for i := len(ls.leftLanes) - 1; i >= 0; i-- {
			left.AddChild(ls.leftLanes[i].Element())
		}
	}
	center := elem.CreateElement("center")
	center.AddChild(ls.centerLane.Element())
	if len(ls.rightLanes) > 0 {
		right := elem.CreateElement("right")
		for _, l := range ls.rightLanes {
			right.AddChild(l.Element())
		}
	}
	return elem
}

// widthRecord 车道宽度多项式记录
type widthRecord struct {
	a, b, c, d float64
	sOffset    float64
}

// widthAt 求段内s处的宽度值
func (w *widthRecord) widthAt(s float64) float64 {
	ds := s - w.sOffset
	return w.a + w.b*ds + w.c*ds*ds + w.d*ds*ds*ds
}

// heightRecord 车道独立于道路高程的抬升记录
type heightRecord struct {
	sOffset, inner, outer float64
}

// Lane 车道
// 功能：描述一条车道的类型、宽度多项式、路面标线与前后车道关联
// 说明：编号在加入车道段时分配，编号为0的中心车道不序列化宽度与关联
type Lane struct {
	id        int
	idSet     bool
	laneType  LaneType
	widths    []widthRecord
	heights   []heightRecord
	roadMarks []*RoadMark
	links     links
}

// NewLane 构造常宽车道，宽度记录为a=width
func NewLane(laneType LaneType, width float64) *Lane {
	return &Lane{
		laneType: laneType,
		widths:   []widthRecord{{a: width}},
	}
}

// NewPolyLane 构造多项式宽度车道
func NewPolyLane(laneType LaneType, a, b, c, d float64) *Lane {
	return &Lane{
		laneType: laneType,
		widths:   []widthRecord{{a: a, b: b, c: c, d: d}},
	}
}

// AddWidthRecord 追加一条自sOffset起的宽度记录
func (l *Lane) AddWidthRecord(a, b, c, d, sOffset float64) *Lane {
	l.widths = append(l.widths, widthRecord{a: a, b: b, c: c, d: d, sOffset: sOffset})
	return l
}

// WidthAt 求车道段内s处的车道宽度
// 说明：取sOffset不超过s的最后一条宽度记录求值，s是否在段内由调用方保证
func (l *Lane) WidthAt(s float64) float64 {
	idx := 0
	for i := range l.widths {
		if s >= l.widths[i].sOffset {
			idx = i
		} else {
			break
		}
	}
	return l.widths[idx].widthAt(s)
}

// AddRoadMark 追加一条路面标线
func (l *Lane) AddRoadMark(roadMark *RoadMark) *Lane {
	if roadMark != nil {
		l.roadMarks = append(l.roadMarks, roadMark)
	}
	return l
}

// AddHeight 追加一条自sOffset起的抬升记录
func (l *Lane) AddHeight(sOffset, inner, outer float64) *Lane {
	l.heights = append(l.heights, heightRecord{sOffset: sOffset, inner: inner, outer: outer})
	return l
}

// AddLink 追加与前后车道段中车道的关联
func (l *Lane) AddLink(linkType LinkType, laneID int) error {
	return l.links.add(link{linkType: linkType, elementID: laneID})
}

// LinkedLaneID 查询指定方向关联的车道编号
func (l *Lane) LinkedLaneID(linkType LinkType) (int, bool) {
	for _, lk := range l.links.links {
		if lk.linkType == linkType {
			return lk.elementID, true
		}
	}
	return 0, false
}

// ID 车道编号，加入车道段前不可用
func (l *Lane) ID() int {
	if !l.idSet {
		log.Panicf("lane id is not set, add the lane to a lane section first")
	}
	return l.id
}

func (l *Lane) setID(id int) {
	l.id = id
	l.idSet = true
	if id == 0 {
		l.laneType = LaneTypeNone
	}
}

func (l *Lane) Element() *etree.Element {
	if !l.idSet {
		log.Panicf("lane id is not set, add the lane to a lane section first")
	}
	elem := etree.NewElement("lane")
	elem.CreateAttr("id", itoa(l.id))
	elem.CreateAttr("type", string(l.laneType))
	elem.CreateAttr("level", "false")
	if l.id != 0 {
		elem.AddChild(l.links.Element())
		widths := make([]widthRecord, len(l.widths))
		copy(widths, l.widths)
		sort.SliceStable(widths, func(i, j int) bool { return widths[i].sOffset < widths[j].sOffset })
		for _, w := range widths {
			width := elem.CreateElement("width")
			width.CreateAttr("a", ftoa(w.a))
			width.CreateAttr("b", ftoa(w.b))
			width.CreateAttr("c", ftoa(w.c))
			width.CreateAttr("d", ftoa(w.d))
			width.CreateAttr("sOffset", ftoa(w.sOffset))
		}
	}
	marks := make([]*RoadMark, len(l.roadMarks))
	copy(marks, l.roadMarks)
	sort.SliceStable(marks, func(i, j int) bool { return marks[i].sOffset < marks[j].sOffset })
	for _, r := range marks {
		elem.AddChild(r.Element())
	}
	for _, h := range l.heights {
		height := elem.CreateElement("height")
		height.CreateAttr("sOffset", ftoa(h.sOffset))
		height.CreateAttr("inner", ftoa(h.inner))
		height.CreateAttr("outer", ftoa(h.outer))
	}
	return elem
}

// RoadMark 路面标线
// 功能：描述车道边界标线的类型、宽度与颜色等，复合标线由若干线条构成
// 说明：未显式给出宽度时，序列化按线条横向范围推算整体宽度
type RoadMark struct {
	markType   RoadMarkType
	weight     RoadMarkWeight
	color      RoadMarkColor
	sOffset    float64
	height     float64
	width      float64
	hasWidth   bool
	laneChange LaneChange

	lines         []*RoadLine
	explicitLines []*ExplicitRoadLine
}

// NewRoadMark 构造路面标线，width最多给一个
func NewRoadMark(markType RoadMarkType, width ...float64) *RoadMark {
	if len(width) > 1 {
		log.Panicf("too many width values for road mark: %v", width)
	}
	r := &RoadMark{
		markType: markType,
		weight:   RoadMarkWeightStandard,
		color:    RoadMarkColorStandard,
		height:   0.02,
	}
	if len(width) == 1 {
		r.width = width[0]
		r.hasWidth = true
	}
	return r
}

// NewRoadMarkWithLine 构造带单一线条的路面标线
// 说明：length与space为0时按标线类型补默认周期，
// solid补(3, 0)，broken补(3, 3)，其他类型无默认并生成空线条
func NewRoadMarkWithLine(markType RoadMarkType, width, length, space, tOffset float64, rule MarkRule) *RoadMark {
	r := NewRoadMark(markType)
	switch markType {
	case RoadMarkTypeBroken:
		if length == 0 {
			length = 3
		}
		if space == 0 {
			space = 3
		}
	case RoadMarkTypeSolid:
		if length == 0 {
			length = 3
		}
	default:
		if length == 0 && space == 0 {
			log.Warnf("no default line period for road mark type %v, creating an empty line", markType)
		}
	}
	if width == 0 {
		width = 0.2
	}
	if rule == "" {
		rule = MarkRuleNone
	}
	r.width = width
	r.hasWidth = true
	r.AddLine(NewRoadLine(width, length, space, tOffset, 0).SetRule(rule))
	return r
}

// SetWeight 设置标线粗细等级
func (r *RoadMark) SetWeight(weight RoadMarkWeight) *RoadMark {
	r.weight = weight
	return r
}

// SetColor 设置标线颜色
func (r *RoadMark) SetColor(color RoadMarkColor) *RoadMark {
	r.color = color
	return r
}

// SetHeight 设置标线厚度
func (r *RoadMark) SetHeight(height float64) *RoadMark {
	r.height = height
	return r
}

// SetSOffset 设置标线起始s偏移
func (r *RoadMark) SetSOffset(sOffset float64) *RoadMark {
	r.sOffset = sOffset
	return r
}

// SetLaneChange 设置允许变道方向
func (r *RoadMark) SetLaneChange(laneChange LaneChange) *RoadMark {
	r.laneChange = laneChange
	return r
}

// AddLine 追加一条构成线条
func (r *RoadMark) AddLine(line *RoadLine) *RoadMark {
	r.lines = append(r.lines, line)
	return r
}

// AddExplicitLine 追加一条显式线条
func (r *RoadMark) AddExplicitLine(line *ExplicitRoadLine) *RoadMark {
	r.explicitLines = append(r.explicitLines, line)
	return r
}

// clone 深拷贝标线，线条一并复制
func (r *RoadMark) clone() *RoadMark {
	if r == nil {
		return nil
	}
	c := *r
	c.lines = make([]*RoadLine, len(r.lines))
	for i, l := range r.lines {
		cl := *l
		c.lines[i] = &cl
	}
	c.explicitLines = make([]*ExplicitRoadLine, len(r.explicitLines))
	for i, l := range r.explicitLines {
		cl := *l
		c.explicitLines[i] = &cl
	}
	return &c
}

// typeWidth 序列化type元素用的整体宽度
func (r *RoadMark) typeWidth() float64 {
	if r.hasWidth {
		return r.width
	}
	offsets := lo.Map(r.lines, func(l *RoadLine, _ int) float64 { return l.tOffset })
	maxOff := lo.Max(offsets)
	minOff := lo.Min(offsets)
	width := maxOff - minOff
	for _, l := range r.lines {
		if l.tOffset == maxOff || l.tOffset == minOff {
			width += l.width
		}
	}
	return width
}

func (r *RoadMark) Element() *etree.Element {
	elem := etree.NewElement("roadMark")
	elem.CreateAttr("sOffset", ftoa(r.sOffset))
	elem.CreateAttr("type", string(r.markType))
	elem.CreateAttr("weight", string(r.weight))
	elem.CreateAttr("color", string(r.color))
	elem.CreateAttr("height", ftoa(r.height))
	if r.hasWidth {
		elem.CreateAttr("width", ftoa(r.width))
	}
	if r.laneChange != "" {
		elem.CreateAttr("laneChange", string(r.laneChange))
	}
	if len(r.lines) > 0 {
		typeElem := elem.CreateElement("type")
		typeElem.CreateAttr("name", string(r.markType))
		typeElem.CreateAttr("width", ftoa(r.typeWidth()))
		for _, l := range r.lines {
			typeElem.AddChild(l.Element())
		}
	}
	if len(r.explicitLines) > 0 {
		explicit := elem.CreateElement("explicit")
		for _, l := range r.explicitLines {
			explicit.AddChild(l.Element())
		}
	}
	return elem
}

// RoadLine 路面标线的构成线条，length与space描述虚线周期
type RoadLine struct {
	width   float64
	length  float64
	space   float64
	tOffset float64
	sOffset float64
	rule    MarkRule
}

// NewRoadLine 构造线条
func NewRoadLine(width, length, space, tOffset, sOffset float64) *RoadLine {
	return &RoadLine{
		width:   width,
		length:  length,
		space:   space,
		tOffset: tOffset,
		sOffset: sOffset,
	}
}

// SetRule 设置标线规则
func (r *RoadLine) SetRule(rule MarkRule) *RoadLine {
	r.rule = rule
	return r
}

func (r *RoadLine) Element() *etree.Element {
	elem := etree.NewElement("line")
	elem.CreateAttr("length", ftoa(r.length))
	elem.CreateAttr("space", ftoa(r.space))
	elem.CreateAttr("tOffset", ftoa(r.tOffset))
	elem.CreateAttr("width", ftoa(r.width))
	elem.CreateAttr("sOffset", ftoa(r.sOffset))
	if r.rule != "" {
		elem.CreateAttr("rule", string(r.rule))
	}
	return elem
}

// ExplicitRoadLine 显式给出的单根线条，不随周期重复
type ExplicitRoadLine struct {
	width   float64
	length  float64
	tOffset float64
	sOffset float64
	rule    MarkRule
}

// NewExplicitRoadLine 构造显式线条
func NewExplicitRoadLine(width, length, tOffset, sOffset float64) *ExplicitRoadLine {
	return &ExplicitRoadLine{
		width:   width,
		length:  length,
		tOffset: tOffset,
		sOffset: sOffset,
	}
}

// SetRule 设置标线规则
func (e *ExplicitRoadLine) SetRule(rule MarkRule) *ExplicitRoadLine {
	e.rule = rule
	return e
}

func (e *ExplicitRoadLine) Element() *etree.Element {
	elem := etree.NewElement("line")
	elem.CreateAttr("length", ftoa(e.length))
	elem.CreateAttr("tOffset", ftoa(e.tOffset))
	elem.CreateAttr("width", ftoa(e.width))
	elem.CreateAttr("sOffset", ftoa(e.sOffset))
	if e.rule != "" {
		elem.CreateAttr("rule", string(e.rule))
	}
	return elem
}
