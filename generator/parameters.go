package generator

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/tsinghua-fib-lab/scenariogen-oss/utils"
	"github.com/tsinghua-fib-lab/scenariogen-oss/utils/config"
	"github.com/tsinghua-fib-lab/scenariogen-oss/utils/randengine"
)

// Parameters 一次生成所用的参数组合
// 功能：携带一组参数取值供构造器查取
// 说明：RoadFile由生成器在调用Scenario前填入，指向本组合对应的
// 路网文件（相对场景文件所在目录），供场景的RoadNetwork引用
type Parameters struct {
	Values   map[string]any // 参数取值
	RoadFile string         // 本组合路网文件的相对路径
	Index    int            // 组合在扫描序列中的下标
}

// Has 判断参数是否给出
func (p *Parameters) Has(key string) bool {
	_, ok := p.Values[key]
	return ok
}

// Float 取浮点参数
// 说明：YAML中不带小数点的数解析为整数，这里放宽为浮点
func (p *Parameters) Float(key string) (float64, error) {
	v, ok := p.Values[key]
	if !ok {
		return 0, errors.Wrapf(ErrBadParameter, "no parameter %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, errors.Wrapf(ErrBadParameter, "parameter %q is %T, want a number", key, v)
}

// Int 取整数参数
func (p *Parameters) Int(key string) (int, error) {
	v, ok := p.Values[key]
	if !ok {
		return 0, errors.Wrapf(ErrBadParameter, "no parameter %q", key)
	}
	if n, ok := v.(int); ok {
		return n, nil
	}
	return 0, errors.Wrapf(ErrBadParameter, "parameter %q is %T, want an int", key, v)
}

// String 取字符串参数
func (p *Parameters) String(key string) (string, error) {
	v, ok := p.Values[key]
	if !ok {
		return "", errors.Wrapf(ErrBadParameter, "no parameter %q", key)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", errors.Wrapf(ErrBadParameter, "parameter %q is %T, want a string", key, v)
}

// Bool 取布尔参数
func (p *Parameters) Bool(key string) (bool, error) {
	v, ok := p.Values[key]
	if !ok {
		return false, errors.Wrapf(ErrBadParameter, "no parameter %q", key)
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, errors.Wrapf(ErrBadParameter, "parameter %q is %T, want a bool", key, v)
}

// permutations 把参数扫描配置展开为参数组合序列
// 算法说明：
// 1. variants直接按原序使用
// 2. parameters按键名排序后求笛卡尔积，保证展开顺序与YAML键序无关
// 3. random方式从参数空间采样count组：variants整组选取，
//    parameters按键独立等概率选取
// 4. 两者都未给出时返回单个空组合，此时仍会生成一次
func permutations(sw config.Sweep, engine *randengine.Engine) ([]map[string]any, error) {
	for key, values := range sw.Parameters {
		if len(values) == 0 {
			return nil, errors.Wrapf(ErrNothingToGenerate, "parameter %q has no candidate values", key)
		}
	}
	random := sw.Mode == config.SweepRandom
	switch {
	case len(sw.Variants) > 0:
		if random {
			sampled := make([]map[string]any, 0, sw.Count)
			for i := 0; i < sw.Count; i++ {
				sampled = append(sampled, randengine.Choice(engine, sw.Variants))
			}
			return sampled, nil
		}
		return sw.Variants, nil
	case len(sw.Parameters) > 0:
		keys := lo.Keys(sw.Parameters)
		sort.Strings(keys)
		if random {
			sampled := make([]map[string]any, 0, sw.Count)
			for i := 0; i < sw.Count; i++ {
				values := make(map[string]any, len(keys))
				for _, key := range keys {
					values[key] = randengine.Choice(engine, sw.Parameters[key])
				}
				sampled = append(sampled, values)
			}
			return sampled, nil
		}
		sets := make([][]any, 0, len(keys))
		for _, key := range keys {
			sets = append(sets, sw.Parameters[key])
		}
		combos := utils.Product(sets)
		all := make([]map[string]any, 0, len(combos))
		for _, combo := range combos {
			values := make(map[string]any, len(keys))
			for i, key := range keys {
				values[key] = combo[i]
			}
			all = append(all, values)
		}
		return all, nil
	}
	return []map[string]any{{}}, nil
}
