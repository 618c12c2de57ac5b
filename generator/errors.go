package generator

import "github.com/pkg/errors"

// 批量生成过程中可能出现的错误
// 说明：均可通过errors.Is与下列哨兵错误匹配
var (
	// ErrBadParameter 参数缺失或类型不符
	ErrBadParameter = errors.New("parameter is missing or of unexpected type")

	// ErrNothingToGenerate 参数扫描展开不出任何组合
	ErrNothingToGenerate = errors.New("no parameter permutations to generate")

	// ErrGeneratorClosed 在Close之后调用了Run
	ErrGeneratorClosed = errors.New("generator is closed")
)
