package config

import "github.com/pkg/errors"

// 命名方式与扫描方式的取值
const (
	NamingNumerical = "numerical" // 文件名为任务名加递增编号
	NamingParameter = "parameter" // 文件名为任务名加参数键值

	SweepAll    = "all"    // 遍历全部参数组合
	SweepRandom = "random" // 从参数空间随机采样
)

// RuntimeConfig 运行时配置
// 功能：补全默认值并通过一致性检查后的配置
type RuntimeConfig struct {
	All Config // 全部配置
	Out Output // 输出配置
	Sw  Sweep  // 参数扫描配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，补全默认值并做合法性检查
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针，配置不合法时返回错误
// 算法说明：
// 1. 填充默认值：任务名scenario、输出目录generated、numerical命名、all扫描
// 2. 校验命名方式与扫描方式的取值，random方式要求采样数量为正
// 3. 校验参数来源：parameters与variants不能同时给出
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{}

	if config.Job == "" {
		config.Job = "scenario"
	}
	if config.Output.Dir == "" {
		config.Output.Dir = "generated"
	}
	if config.Output.Naming == "" {
		config.Output.Naming = NamingNumerical
	}
	if config.Sweep.Mode == "" {
		config.Sweep.Mode = SweepAll
	}
	switch config.Output.Naming {
	case NamingNumerical, NamingParameter:
	default:
		return nil, errors.Errorf("unknown naming mode %q", config.Output.Naming)
	}
	switch config.Sweep.Mode {
	case SweepAll:
	case SweepRandom:
		if config.Sweep.Count <= 0 {
			return nil, errors.Errorf("sweep mode %q requires a positive count", SweepRandom)
		}
	default:
		return nil, errors.Errorf("unknown sweep mode %q", config.Sweep.Mode)
	}
	if len(config.Sweep.Parameters) > 0 && len(config.Sweep.Variants) > 0 {
		return nil, errors.New("parameters and variants cannot both be set")
	}

	rc.All = config
	rc.Out = config.Output
	rc.Sw = config.Sweep

	return rc, nil
}
