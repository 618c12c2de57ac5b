package xodr

import (
	"sort"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// link 单条道路或车道关联
// 说明：elementType为空时按车道关联序列化（只带id），
// 否则按道路关联序列化（elementType/elementId/contactPoint）
type link struct {
	linkType     LinkType
	elementID    int
	elementType  ElementType
	contactPoint ContactPoint
	direction    Direction
}

func (l link) Element() *etree.Element {
	elem := etree.NewElement(string(l.linkType))
	if l.elementType == "" {
		elem.CreateAttr("id", itoa(l.elementID))
	} else {
		elem.CreateAttr("elementType", string(l.elementType))
		elem.CreateAttr("elementId", itoa(l.elementID))
	}
	if l.contactPoint != "" {
		elem.CreateAttr("contactPoint", string(l.contactPoint))
	} else if l.linkType == LinkTypeNeighbor {
		elem.CreateAttr("direction", string(l.direction))
	}
	return elem
}

// links 关联容器
// 说明：同类型的重复关联保留先加入的一条并返回ErrDuplicateLink，
// 由调用方决定告警或报错；neighbor允许多条
type links struct {
	links []link
}

func (l *links) add(newLink link) error {
	for i := range l.links {
		if l.links[i] == newLink {
			return errors.Wrapf(ErrDuplicateLink, "identical %v link to %d already exists", newLink.linkType, newLink.elementID)
		}
		if l.links[i].linkType == newLink.linkType && newLink.linkType != LinkTypeNeighbor {
			return errors.Wrapf(ErrDuplicateLink, "a %v link already exists, keeping the first one", newLink.linkType)
		}
	}
	l.links = append(l.links, newLink)
	return nil
}

// get 查找指定类型的关联，不存在时返回nil
func (l *links) get(linkType LinkType) *link {
	for i := range l.links {
		if l.links[i].linkType == linkType {
			return &l.links[i]
		}
	}
	return nil
}

func (l *links) Element() *etree.Element {
	elem := etree.NewElement("link")
	sorted := make([]link, len(l.links))
	copy(sorted, l.links)
	// 按类型名排序保证predecessor先于successor，符合schema要求
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].linkType < sorted[j].linkType })
	for _, lk := range sorted {
		elem.AddChild(lk.Element())
	}
	return elem
}

// laneLink 一对前后车道
type laneLink struct {
	predecessor *Lane
	successor   *Lane
}

// LaneLinker 相邻车道段车道关联的暂存器
// 功能：在车道段尚未加入车道容器时先记录车道配对，
// 待AddLaneSection时一次性取出并写入车道的前后关联
// 说明：这不是OpenDRIVE标准的一部分，只是车道关联的辅助工具
type LaneLinker struct {
	pending []laneLink
}

// NewLaneLinker 构造空的车道关联暂存器
func NewLaneLinker() *LaneLinker {
	return &LaneLinker{}
}

// AddLink 暂存一对前后车道
func (l *LaneLinker) AddLink(predecessor, successor *Lane) *LaneLinker {
	l.pending = append(l.pending, laneLink{predecessor: predecessor, successor: successor})
	return l
}

// drain 取出全部暂存的配对并清空
func (l *LaneLinker) drain() []laneLink {
	out := l.pending
	l.pending = nil
	return out
}

// AreRoadsConsecutive 判断road2是否紧随road1（road1终点接road2起点）
func AreRoadsConsecutive(road1, road2 *Road) bool {
	return road1.successor != nil && road2.predecessor != nil &&
		road1.successor.elementType == ElementTypeRoad &&
		road2.predecessor.elementType == ElementTypeRoad &&
		road1.successor.elementID == road2.id &&
		road2.predecessor.elementID == road1.id
}

// AreRoadsConnected 判断两条道路是否以同向端相接
// 返回：(是否相接, 相接端successor或predecessor)
func AreRoadsConnected(road1, road2 *Road) (bool, LinkType) {
	if road1.successor != nil && road2.successor != nil &&
		road1.successor.elementType == ElementTypeRoad &&
		road2.successor.elementType == ElementTypeRoad &&
		road1.successor.elementID == road2.id &&
		road2.successor.elementID == road1.id {
		return true, LinkTypeSuccessor
	}
	if road1.predecessor != nil && road2.predecessor != nil &&
		road1.predecessor.elementType == ElementTypeRoad &&
		road2.predecessor.elementType == ElementTypeRoad &&
		road1.predecessor.elementID == road2.id &&
		road2.predecessor.elementID == road1.id {
		return true, LinkTypePredecessor
	}
	return false, ""
}

// relatedLaneSection 求road相对connected的连接关系
// 功能：给出road连向connected的方向、车道编号换算符号与road上相关车道段的下标
// 返回：linkType为空表示road自身的链接未直接指向connected；
// sectionIdx为-1表示无法确定
func relatedLaneSection(road, connected *Road) (linkType LinkType, sign, sectionIdx int) {
	lastIdx := len(road.lanes.laneSections) - 1
	if road.successor != nil && road.successor.elementID == connected.id {
		if road.successor.contactPoint == ContactPointStart {
			return LinkTypeSuccessor, 1, lastIdx
		}
		return LinkTypeSuccessor, -1, lastIdx
	}
	if road.predecessor != nil && road.predecessor.elementID == connected.id {
		if road.predecessor.contactPoint == ContactPointStart {
			return LinkTypePredecessor, -1, 0
		}
		return LinkTypePredecessor, 1, 0
	}

	// 两条道路经同一直连路口相接
	if road.predecessor != nil && connected.predecessor != nil &&
		road.predecessor.elementType == ElementTypeJunction &&
		connected.predecessor.elementType == ElementTypeJunction &&
		road.predecessor.elementID == connected.predecessor.elementID {
		return LinkTypePredecessor, -1, 0
	}
	if road.successor != nil && connected.predecessor != nil &&
		road.successor.elementType == ElementTypeJunction &&
		connected.predecessor.elementType == ElementTypeJunction &&
		road.successor.elementID == connected.predecessor.elementID {
		return LinkTypeSuccessor, 1, lastIdx
	}
	if road.successor != nil && connected.successor != nil &&
		road.successor.elementType == ElementTypeJunction &&
		connected.successor.elementType == ElementTypeJunction &&
		road.successor.elementID == connected.successor.elementID {
		return LinkTypeSuccessor, -1, lastIdx
	}
	if road.predecessor != nil && connected.successor != nil &&
		road.predecessor.elementType == ElementTypeJunction &&
		connected.successor.elementType == ElementTypeJunction &&
		road.predecessor.elementID == connected.successor.elementID {
		return LinkTypePredecessor, 1, 0
	}

	// 对端是路口连接道路时，按其链接的接触点反推本路的相关车道段
	if connected.predecessor != nil && connected.predecessor.elementID == road.id && connected.roadType != -1 {
		if connected.predecessor.contactPoint == ContactPointStart {
			return "", -1, 0
		}
		return "", 1, lastIdx
	}
	if connected.successor != nil && connected.successor.elementID == road.id && connected.roadType != -1 {
		if connected.successor.contactPoint == ContactPointStart {
			return "", 1, 0
		}
		return "", -1, lastIdx
	}
	return "", 0, -1
}

// addLaneLink 写入车道关联，重复时按严格模式报错或告警后保留已有关联
func addLaneLink(lane *Lane, linkType LinkType, id int, strict bool) error {
	if err := lane.AddLink(linkType, id); err != nil {
		if strict {
			return err
		}
		log.Warnf("duplicate %v lane link to %d ignored, keeping the first one", linkType, id)
	}
	return nil
}

// CreateLaneLinks 按两条道路的连接关系自动生成车道关联
// 功能：两条普通道路相接时按同序车道两两关联；
// 一方为路口连接道路时按其左右车道生成带偏移的单向关联
func CreateLaneLinks(road1, road2 *Road) error {
	return createLaneLinks(road1, road2, false)
}

func createLaneLinks(road1, road2 *Road, strict bool) error {
	switch {
	case road1.roadType == -1 && road2.roadType == -1:
		if AreRoadsConsecutive(road1, road2) {
			return createLinksRoads(road1, road2, "", strict)
		}
		if AreRoadsConsecutive(road2, road1) {
			return createLinksRoads(road2, road1, "", strict)
		}
		if connected, connType := AreRoadsConnected(road1, road2); connected {
			return createLinksRoads(road1, road2, connType, strict)
		}
		return nil
	case road1.roadType != -1:
		return createLinksConnectingRoad(road1, road2, strict)
	default:
		return createLinksConnectingRoad(road2, road1, strict)
	}
}

// CreateLaneLinksFromIDs 按给定的车道编号对照表关联两条道路的车道
// 功能：车道数不等或有零宽新车道时，显式给出两侧车道编号的对应关系
// 说明：编号0的中心车道不可关联，也不支持路口连接道路
func CreateLaneLinksFromIDs(road1, road2 *Road, road1LaneIDs, road2LaneIDs []int) error {
	if len(road1LaneIDs) != len(road2LaneIDs) {
		return errors.Wrap(ErrGeneralIssueInputArguments, "lane id lists do not have the same length")
	}
	for _, ids := range [][]int{road1LaneIDs, road2LaneIDs} {
		for _, id := range ids {
			if id == 0 {
				return errors.Wrap(ErrGeneralIssueInputArguments, "the center lane cannot be linked")
			}
		}
	}
	if road1.roadType != -1 || road2.roadType != -1 {
		return errors.Wrap(ErrGeneralIssueInputArguments, "junction connecting roads cannot be linked by lane ids")
	}
	firstLinkType, _, firstSec := relatedLaneSection(road1, road2)
	secondLinkType, _, secondSec := relatedLaneSection(road2, road1)
	if firstLinkType == "" || secondLinkType == "" {
		return errors.Wrapf(ErrUndefinedRoadNetwork,
			"roads %d and %d do not have reciprocal links", road1.id, road2.id)
	}
	laneByID := func(road *Road, sec, id int) *Lane {
		if id > 0 {
			return road.lanes.laneSections[sec].leftLanes[id-1]
		}
		return road.lanes.laneSections[sec].rightLanes[absInt(id)-1]
	}
	for i := range road1LaneIDs {
		if err := laneByID(road1, firstSec, road1LaneIDs[i]).AddLink(firstLinkType, road2LaneIDs[i]); err != nil {
			return err
		}
		if err := laneByID(road2, secondSec, road2LaneIDs[i]).AddLink(secondLinkType, road1LaneIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

// createLinksRoads 关联两条普通道路的车道
// 参数：
//
//	sameType: 两条道路同向端相接时为相接端类型，首尾相接时为空
func createLinksRoads(preRoad, sucRoad *Road, sameType LinkType, strict bool) error {
	if sameType != "" {
		secOf := func(road *Road) int {
			if sameType == LinkTypeSuccessor {
				return len(road.lanes.laneSections) - 1
			}
			return 0
		}
		preSec := preRoad.lanes.laneSections[secOf(preRoad)]
		sucSec := sucRoad.lanes.laneSections[secOf(sucRoad)]
		if len(preSec.leftLanes) != len(sucSec.rightLanes) {
			return errors.Wrapf(ErrNotSameAmountOfLanes,
				"roads %d and %d cannot be connected as %v/%v", preRoad.id, sucRoad.id, sameType, sameType)
		}
		for i := range preSec.leftLanes {
			linkID := preSec.leftLanes[i].ID()
			if err := addLaneLink(preSec.leftLanes[i], sameType, -linkID, strict); err != nil {
				return err
			}
			if err := addLaneLink(sucSec.rightLanes[i], sameType, linkID, strict); err != nil {
				return err
			}
		}
		if len(preSec.rightLanes) != len(sucSec.leftLanes) {
			return errors.Wrapf(ErrNotSameAmountOfLanes,
				"roads %d and %d cannot be connected as %v/%v", preRoad.id, sucRoad.id, sameType, sameType)
		}
		for i := range preSec.rightLanes {
			linkID := preSec.rightLanes[i].ID()
			if err := addLaneLink(preSec.rightLanes[i], sameType, -linkID, strict); err != nil {
				return err
			}
			if err := addLaneLink(sucSec.leftLanes[i], sameType, linkID, strict); err != nil {
				return err
			}
		}
		return nil
	}

	preLinkType, preSign, preSecIdx := relatedLaneSection(preRoad, sucRoad)
	sucLinkType, _, sucSecIdx := relatedLaneSection(sucRoad, preRoad)
	preSec := preRoad.lanes.laneSections[preSecIdx]
	sucSec := sucRoad.lanes.laneSections[sucSecIdx]
	if len(preSec.leftLanes) != len(sucSec.leftLanes) {
		return errors.Wrapf(ErrNotSameAmountOfLanes,
			"roads %d and %d do not have the same number of left lanes", preRoad.id, sucRoad.id)
	}
	for i := range preSec.leftLanes {
		linkID := preSec.leftLanes[i].ID() * preSign
		if err := addLaneLink(preSec.leftLanes[i], preLinkType, linkID, strict); err != nil {
			return err
		}
		if err := addLaneLink(sucSec.leftLanes[i], sucLinkType, linkID*preSign, strict); err != nil {
			return err
		}
	}
	if len(preSec.rightLanes) != len(sucSec.rightLanes) {
		return errors.Wrapf(ErrNotSameAmountOfLanes,
			"roads %d and %d do not have the same number of right lanes", preRoad.id, sucRoad.id)
	}
	for i := range preSec.rightLanes {
		linkID := preSec.rightLanes[i].ID()
		if err := addLaneLink(preSec.rightLanes[i], preLinkType, linkID, strict); err != nil {
			return err
		}
		if err := addLaneLink(sucSec.rightLanes[i], sucLinkType, linkID, strict); err != nil {
			return err
		}
	}
	return nil
}

// createLinksConnectingRoad 为路口连接道路的车道生成指向相邻道路的关联
func createLinksConnectingRoad(connecting, road *Road, strict bool) error {
	linkType, sign, connectingSec := relatedLaneSection(connecting, road)
	if connectingSec < 0 {
		return nil
	}
	// 关联编号在车道编号之外再叠加车道偏移
	linkIDOf := func(lane *Lane) int {
		linkID := lane.ID() * sign
		if linkType == LinkTypePredecessor {
			if off, ok := connecting.laneOffsetPred[road.id]; ok {
				linkID += signInt(linkID) * absInt(off)
			}
		} else if off, ok := connecting.laneOffsetSuc[road.id]; ok {
			linkID += signInt(linkID) * absInt(off)
		}
		return linkID
	}
	sec := connecting.lanes.laneSections[connectingSec]
	for _, lane := range sec.leftLanes {
		if err := addLaneLink(lane, linkType, linkIDOf(lane), strict); err != nil {
			return err
		}
	}
	for _, lane := range sec.rightLanes {
		if err := addLaneLink(lane, linkType, linkIDOf(lane), strict); err != nil {
			return err
		}
	}
	return nil
}

func signInt(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
