package xodr

import "github.com/pkg/errors"

// 构建OpenDRIVE路网时可能出现的错误
// 说明：构造期错误在调用时立即返回，拓扑类错误在adjust阶段返回，
// 均可通过errors.Is与下列哨兵错误匹配
var (
	// ErrNotEnoughInputArguments 必选参数不足（如Arc/Spiral缺少length与angle）
	ErrNotEnoughInputArguments = errors.New("not enough input arguments")

	// ErrTooManyOptionalArguments 互斥可选参数给出了多个
	ErrTooManyOptionalArguments = errors.New("too many optional arguments")

	// ErrGeneralIssueInputArguments 输入参数不满足约束
	ErrGeneralIssueInputArguments = errors.New("unusable input arguments")

	// ErrMixOfGeometryAddition 同一PlanView混用顺序追加与固定位置追加
	ErrMixOfGeometryAddition = errors.New("mix of fixed and non-fixed geometry addition")

	// ErrUndefinedRoadNetwork 路网拓扑不完整，无法完成位姿推定
	ErrUndefinedRoadNetwork = errors.New("road network is not properly defined")

	// ErrNotSameAmountOfLanes 相邻道路车道数不一致，无法建立车道连接
	ErrNotSameAmountOfLanes = errors.New("roads do not have the same amount of lanes")

	// ErrRoadsAndLanesNotAdjusted 在adjust之前调用了依赖绝对位姿的操作
	ErrRoadsAndLanesNotAdjusted = errors.New("roads and lanes are not adjusted")

	// ErrIDAlreadyExists 道路或路口ID重复
	ErrIDAlreadyExists = errors.New("id already exists")

	// ErrMixingDrivingDirection 连接的两条车道行驶方向冲突
	ErrMixingDrivingDirection = errors.New("mixing driving directions")

	// ErrDuplicateLink 重复声明了同一predecessor/successor连接
	ErrDuplicateLink = errors.New("duplicate link")
)
