package xosc

import "github.com/pkg/errors"

// 构建OpenSCENARIO场景时可能出现的错误
// 说明：构造期错误在调用时立即返回，结构完整性错误在序列化前的
// 校验阶段返回，均可通过errors.Is与下列哨兵错误匹配
var (
	// ErrNotEnoughInputArguments 必选参数不足（如相对位置缺少ds与dsLane）
	ErrNotEnoughInputArguments = errors.New("not enough input arguments")

	// ErrTooManyOptionalArguments 互斥可选参数给出了多个
	ErrTooManyOptionalArguments = errors.New("too many optional arguments")

	// ErrGeneralIssueInputArguments 输入参数不满足约束
	ErrGeneralIssueInputArguments = errors.New("unusable input arguments")

	// ErrEmptyStoryboardElement 故事板元素缺少必需的子内容（如无事件的操作）
	ErrEmptyStoryboardElement = errors.New("storyboard element has no content")
)
