package config

// Output 生成文件的输出配置
// 功能：定义输出目录结构与文件命名方式
// 说明：路网与场景文件分别写入dir下的xodr/与xosc/子目录
type Output struct {
	Dir        string `yaml:"dir"`                   // 输出根目录
	Naming     string `yaml:"naming,omitempty"`      // 命名方式：numerical（递增编号）或parameter（参数键值拼接）
	ReuseRoads bool   `yaml:"reuse_roads,omitempty"` // 内容相同的路网只写一份文件
}

// Sweep 参数扫描配置
// 功能：定义参数空间及其遍历方式
// 说明：parameters与variants只能指定其一
type Sweep struct {
	Mode       string           `yaml:"mode,omitempty"`       // 扫描方式：all（全部组合）或random（随机采样）
	Count      int              `yaml:"count,omitempty"`      // random方式下的采样数量
	Seed       uint64           `yaml:"seed,omitempty"`       // 随机种子
	Parameters map[string][]any `yaml:"parameters,omitempty"` // 参数候选值列表，按键名排序后展开为全部组合
	Variants   []map[string]any `yaml:"variants,omitempty"`   // 显式给出的参数组合列表
}

// Config YAML配置文件的根结构
// 功能：定义场景生成任务的全部配置项
type Config struct {
	Job     string `yaml:"job,omitempty"` // 任务名，用作输出文件的基础名
	Builder string `yaml:"builder"`       // 场景构造器名
	Log     string `yaml:"log,omitempty"` // 日志级别
	Output  Output `yaml:"output"`        // 输出
	Sweep   Sweep  `yaml:"sweep"`         // 参数扫描
}
