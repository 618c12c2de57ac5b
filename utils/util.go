package utils

// 求若干组候选值的笛卡尔积。
// 空输入返回单个空组合，
// 任意一组为空则整体结果为空，
// 组合按各组下标的字典序排列。
func Product[T any](sets [][]T) [][]T {
	result := [][]T{{}}
	for _, set := range sets {
		next := make([][]T, 0, len(result)*len(set))
		for _, prefix := range result {
			for _, v := range set {
				combo := make([]T, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, v))
			}
		}
		result = next
	}
	return result
}
