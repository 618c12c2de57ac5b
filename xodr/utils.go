package xodr

import (
	"math"
	"strconv"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// CoeffsForPoly3 求解车道宽度三次多项式系数
// 功能：给定段长与两端宽度，求w(ds)=a+b*ds+c*ds^2+d*ds^3的系数，
// 两端导数约束为0，使宽度过渡平滑
// 参数：
//
//	length: 过渡段长度
//	width: 边界宽度，zeroStart为false时作用于ds=0处，否则作用于ds=length处
//	zeroStart: true表示宽度从0渐变到width（车道新增），false表示从width渐变到0（车道消失）
//	widthEnd: 可选，显式给出ds=length处的宽度，覆盖默认的0/width
//
// 返回：[a b c d]系数数组
func CoeffsForPoly3(length, width float64, zeroStart bool, widthEnd ...float64) ([4]float64, error) {
	var coeffs [4]float64
	if length <= 0 {
		return coeffs, errors.Wrapf(ErrGeneralIssueInputArguments, "poly3 over non-positive length %v", length)
	}
	// 行顺序: w'(0), w'(L), w(0), w(L)
	a := mat.NewDense(4, 4, []float64{
		0, 1, 0, 0,
		0, 1, 2 * length, 3 * length * length,
		1, 0, 0, 0,
		1, length, length * length, length * length * length,
	})
	b := mat.NewVecDense(4, nil)
	if zeroStart {
		b.SetVec(3, width)
	} else {
		b.SetVec(2, width)
	}
	if len(widthEnd) > 0 {
		b.SetVec(3, widthEnd[0])
	}
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return coeffs, errors.Wrap(ErrGeneralIssueInputArguments, "poly3 boundary system is singular")
	}
	for i := 0; i < 4; i++ {
		coeffs[i] = x.AtVec(i)
	}
	return coeffs, nil
}

// laneSecAndSForLaneCalc 取宽度计算所用的车道段下标与s坐标
// 说明：接触点为start时用首段与s=0，为end时用末段与道路全长
func laneSecAndSForLaneCalc(road *Road, cp ContactPoint) (int, float64) {
	if cp == ContactPointStart {
		return 0, 0
	}
	return len(road.lanes.laneSections) - 1, road.planview.TotalLength()
}

// normalizeAngle 将角度规范化到(-pi, pi]
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// ftoa 浮点数转XML属性文本，使用最短可逆表示
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// itoa int转XML属性文本
func itoa(v int) string {
	return strconv.Itoa(v)
}

// btoa bool转XML属性文本
func btoa(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// UserData OpenDRIVE扩展数据，可挂接任意自定义XML内容
type UserData struct {
	code     string
	value    string
	contents []*etree.Element
}

// NewUserData 创建userData元素
// 参数：code为数据标识，value为可选的数据内容属性
func NewUserData(code, value string) *UserData {
	return &UserData{code: code, value: value}
}

// AddContent 向userData追加自定义子元素
func (u *UserData) AddContent(elem *etree.Element) *UserData {
	u.contents = append(u.contents, elem)
	return u
}

// Element 生成userData的XML元素
func (u *UserData) Element() *etree.Element {
	e := etree.NewElement("userData")
	e.CreateAttr("code", u.code)
	if u.value != "" {
		e.CreateAttr("value", u.value)
	}
	for _, c := range u.contents {
		e.AddChild(c)
	}
	return e
}

// DataQuality 数据质量描述（dataQuality元素）
type DataQuality struct {
	date           string
	postProcessing string
	source         string
	comment        string

	hasError                 bool
	xyAbs, zAbs, xyRel, zRel float64
}

// NewDataQuality 创建dataQuality描述
func NewDataQuality(date, postProcessing, source, comment string) *DataQuality {
	return &DataQuality{date: date, postProcessing: postProcessing, source: source, comment: comment}
}

// SetError 设置绝对/相对误差（error子元素）
func (d *DataQuality) SetError(xyAbsolute, zAbsolute, xyRelative, zRelative float64) *DataQuality {
	d.hasError = true
	d.xyAbs, d.zAbs, d.xyRel, d.zRel = xyAbsolute, zAbsolute, xyRelative, zRelative
	return d
}

// Element 生成dataQuality的XML元素
func (d *DataQuality) Element() *etree.Element {
	e := etree.NewElement("dataQuality")
	raw := e.CreateElement("rawData")
	raw.CreateAttr("date", d.date)
	raw.CreateAttr("postProcessing", d.postProcessing)
	raw.CreateAttr("source", d.source)
	if d.comment != "" {
		raw.CreateAttr("sourceComment", d.comment)
	}
	if d.hasError {
		errElem := e.CreateElement("error")
		errElem.CreateAttr("xyAbsolute", ftoa(d.xyAbs))
		errElem.CreateAttr("zAbsolute", ftoa(d.zAbs))
		errElem.CreateAttr("xyRelative", ftoa(d.xyRel))
		errElem.CreateAttr("zRelative", ftoa(d.zRel))
	}
	return e
}

// additionalData 可嵌入各实体的扩展数据容器
type additionalData struct {
	userData    []*UserData
	dataQuality *DataQuality
}

// AddUserData 挂接一份userData
func (a *additionalData) AddUserData(u *UserData) {
	a.userData = append(a.userData, u)
}

// SetDataQuality 设置dataQuality
func (a *additionalData) SetDataQuality(d *DataQuality) {
	a.dataQuality = d
}

// appendAdditionalData 将扩展数据写入父元素
func (a *additionalData) appendAdditionalData(parent *etree.Element) {
	for _, u := range a.userData {
		parent.AddChild(u.Element())
	}
	if a.dataQuality != nil {
		parent.AddChild(a.dataQuality.Element())
	}
}
