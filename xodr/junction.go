package xodr

import (
	"sort"

	"github.com/beevik/etree"
)

// Connection 路口内的一条连接
// 功能：描述某条驶入道路经由连接道路（直连路口为被连道路）通过路口的关系，
// 并持有两侧车道编号的对应表
type Connection struct {
	incomingRoad   int
	connectingRoad int
	contactPoint   ContactPoint
	id             int
	idSet          bool
	laneLinks      [][2]int
}

// NewConnection 构造连接，id不给时由路口在加入时分配
func NewConnection(incomingRoad, connectingRoad int, contactPoint ContactPoint, id ...int) *Connection {
	c := &Connection{
		incomingRoad:   incomingRoad,
		connectingRoad: connectingRoad,
		contactPoint:   contactPoint,
	}
	if len(id) > 0 {
		c.id = id[0]
		c.idSet = true
	}
	return c
}

// AddLaneLink 追加一对车道编号对应
func (c *Connection) AddLaneLink(inLane, outLane int) *Connection {
	c.laneLinks = append(c.laneLinks, [2]int{inLane, outLane})
	return c
}

func (c *Connection) setID(id int) {
	if !c.idSet {
		c.id = id
		c.idSet = true
	}
}

func (c *Connection) Element(junctionType JunctionType) *etree.Element {
	elem := etree.NewElement("connection")
	elem.CreateAttr("incomingRoad", itoa(c.incomingRoad))
	elem.CreateAttr("id", itoa(c.id))
	elem.CreateAttr("contactPoint", string(c.contactPoint))
	if junctionType == JunctionTypeDirect {
		elem.CreateAttr("linkedRoad", itoa(c.connectingRoad))
	} else {
		elem.CreateAttr("connectingRoad", itoa(c.connectingRoad))
	}
	sorted := make([][2]int, len(c.laneLinks))
	copy(sorted, c.laneLinks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i][0] > sorted[j][0] })
	for _, l := range sorted {
		laneLink := elem.CreateElement("laneLink")
		laneLink.CreateAttr("from", itoa(l[0]))
		laneLink.CreateAttr("to", itoa(l[1]))
	}
	return elem
}

// Junction 路口
// 说明：普通路口经连接道路相接，直连路口两条道路直接相接，
// 虚拟路口附着在主路的一段s区间上
type Junction struct {
	name         string
	id           int
	junctionType JunctionType
	orientation  Orientation
	sStart       float64
	sEnd         float64
	mainRoad     int
	connections  []*Connection
	idCounter    int
}

// NewJunction 构造普通路口
func NewJunction(name string, id int) *Junction {
	return &Junction{name: name, id: id, junctionType: JunctionTypeDefault}
}

// NewDirectJunction 构造直连路口
func NewDirectJunction(name string, id int) *Junction {
	return &Junction{name: name, id: id, junctionType: JunctionTypeDirect}
}

// NewVirtualJunction 构造附着在主路[sStart, sEnd]上的虚拟路口
func NewVirtualJunction(name string, id, mainRoad int, sStart, sEnd float64, orientation Orientation) *Junction {
	return &Junction{
		name:         name,
		id:           id,
		junctionType: JunctionTypeVirtual,
		orientation:  orientation,
		sStart:       sStart,
		sEnd:         sEnd,
		mainRoad:     mainRoad,
	}
}

// ID 路口编号
func (j *Junction) ID() int {
	return j.id
}

// AddConnection 追加一条连接，未显式编号时按加入顺序分配
func (j *Junction) AddConnection(connection *Connection) *Junction {
	connection.setID(j.idCounter)
	j.idCounter++
	j.connections = append(j.connections, connection)
	return j
}

func (j *Junction) Element() *etree.Element {
	elem := etree.NewElement("junction")
	elem.CreateAttr("name", j.name)
	elem.CreateAttr("id", itoa(j.id))
	elem.CreateAttr("type", string(j.junctionType))
	if j.junctionType == JunctionTypeVirtual {
		if j.orientation == OrientationPositive || j.orientation == OrientationNegative {
			elem.CreateAttr("orientation", string(j.orientation))
		}
		elem.CreateAttr("sEnd", ftoa(j.sEnd))
		elem.CreateAttr("sStart", ftoa(j.sStart))
		elem.CreateAttr("mainRoad", itoa(j.mainRoad))
	}
	for _, c := range j.connections {
		elem.AddChild(c.Element(j.junctionType))
	}
	return elem
}

// JunctionGroup 路口组，把若干路口归为一个整体（如环岛）
type JunctionGroup struct {
	name      string
	groupID   int
	groupType JunctionGroupType
	junctions []int
}

// NewJunctionGroup 构造路口组
func NewJunctionGroup(name string, groupID int, groupType JunctionGroupType) *JunctionGroup {
	return &JunctionGroup{name: name, groupID: groupID, groupType: groupType}
}

// AddJunction 把路口编号加入组
func (jg *JunctionGroup) AddJunction(junctionID int) *JunctionGroup {
	jg.junctions = append(jg.junctions, junctionID)
	return jg
}

func (jg *JunctionGroup) Element() *etree.Element {
	elem := etree.NewElement("junctionGroup")
	elem.CreateAttr("name", jg.name)
	elem.CreateAttr("id", itoa(jg.groupID))
	elem.CreateAttr("type", string(jg.groupType))
	for _, id := range jg.junctions {
		ref := elem.CreateElement("junctionReference")
		ref.CreateAttr("junction", itoa(id))
	}
	return elem
}
