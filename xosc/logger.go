package xosc

import "github.com/sirupsen/logrus"

// log OpenSCENARIO构建模块的日志记录器
// 说明：使用logrus库，并添加"module"字段标识为"xosc"模块
var log = logrus.WithField("module", "xosc")
