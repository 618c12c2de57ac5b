package xodr

// IDCategory 编号分配的类别，各类别的编号空间相互独立
type IDCategory string

const (
	IDCategorySignal     IDCategory = "signal"
	IDCategoryObject     IDCategory = "object"
	IDCategoryController IDCategory = "controller"
)

// IDAllocator 路网内信号、物体等实体的编号分配器
// 功能：按类别维护已用编号集合与自增计数器，外部给定的编号
// 冲突时告警并改为自动分配，保证同一路网内编号唯一
// 说明：由OpenDrive容器持有，不同路网之间互不影响
type IDAllocator struct {
	used     map[IDCategory]map[string]struct{}
	counters map[IDCategory]int
}

func NewIDAllocator() *IDAllocator {
	ia := &IDAllocator{}
	ia.Reset()
	return ia
}

// Reset 清空全部类别的分配状态
func (ia *IDAllocator) Reset() {
	ia.used = make(map[IDCategory]map[string]struct{})
	ia.counters = make(map[IDCategory]int)
}

// Allocate 为一个实体分配编号
// 参数：
//
//	category: 编号类别
//	requested: 外部期望的编号，空串表示自动分配
//
// 返回：最终编号，期望编号可用时原样返回
func (ia *IDAllocator) Allocate(category IDCategory, requested string) string {
	used, ok := ia.used[category]
	if !ok {
		used = make(map[string]struct{})
		ia.used[category] = used
	}
	if requested != "" {
		if _, taken := used[requested]; !taken {
			used[requested] = struct{}{}
			return requested
		}
		log.Warnf("%s id %s has already been used, auto-generating a unique id", category, requested)
	}
	for {
		candidate := itoa(ia.counters[category])
		if _, taken := used[candidate]; !taken {
			used[candidate] = struct{}{}
			return candidate
		}
		ia.counters[category]++
	}
}
