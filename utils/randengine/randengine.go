// 随机数引擎，包装了golang.org/x/exp/rand，提供参数采样所需的随机数生成方法
package randengine

import (
	"flag"
	"log"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：为参数采样提供可复现的随机数生成
// 说明：基于golang.org/x/exp/rand库，相同种子产生相同的采样序列
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下整体调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Float64Range 在[low, high)范围内生成随机浮点数
func (e *Engine) Float64Range(low, high float64) float64 {
	return low + (high-low)*e.Float64()
}

// IntRange 在[low, high)范围内生成随机整数
func (e *Engine) IntRange(low, high int) int {
	return low + e.Intn(high-low)
}

// PTrue 以指定概率返回true
// 参数：p-返回true的概率（0.0到1.0之间）
// 说明：实现伯努利分布，用于模拟概率事件
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// DiscreteDistribution 按给定概率分布生成随机下标
// 功能：根据权重数组生成离散分布的随机数
// 参数：weight-权重数组，每个元素表示对应下标的概率权重
// 返回：随机生成的下标值（0到len(weight)-1）
// 算法说明：
// 1. 计算总权重并在[0, 总权重)范围内生成随机数
// 2. 遍历权重数组累积概率，返回首个累积值超过随机数的下标
// 说明：使用累积分布函数的方法实现离散概率分布
func (e *Engine) DiscreteDistribution(weight []float64) int {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return i
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// Choice 从候选列表中等概率选取一个
func Choice[T any](e *Engine, options []T) T {
	return options[e.Intn(len(options))]
}
