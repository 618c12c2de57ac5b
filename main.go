package main

import (
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/tsinghua-fib-lab/scenariogen-oss/generator"
	"github.com/tsinghua-fib-lab/scenariogen-oss/utils/config"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 输出根目录，设置后覆盖配置文件中的output.dir
	outputDir = flag.String("output", "", "output dir (overrides output.dir in the config)")
	// 随机种子，设置后覆盖配置文件中的sweep.seed
	seed = flag.Uint64("seed", 0, "random seed (overrides sweep.seed in the config)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log", "", "日志级别，设置后覆盖配置文件取值（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "scenariogen")

	// builders 可在配置中按名字选择的场景构造器
	builders = map[string]generator.ScenarioBuilder{
		"highway":  &highwayBuilder{},
		"junction": &junctionBuilder{},
	}
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// 获取配置
	if *configPath == "" {
		log.Panic("config file must be specified")
	}
	file, err := os.ReadFile(*configPath)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	var c config.Config
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	// 命令行覆盖配置文件
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["output"] {
		c.Output.Dir = *outputDir
	}
	if set["seed"] {
		c.Sweep.Seed = *seed
	}
	if set["log"] {
		c.Log = *logLevel
	}
	if c.Log == "" {
		c.Log = "info"
	}
	// log: 运行时才修改
	if level, ok := logLevels[c.Log]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log must be one of %v", logLevels)
	}
	log.Infof("%+v", c)

	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		log.Panicf("config err: %v", err)
	}
	builder, ok := builders[rc.All.Builder]
	if !ok {
		log.Panicf("unknown builder %q (available: highway junction)", rc.All.Builder)
	}

	g := generator.New(rc, builder)
	defer g.Close()
	results, err := g.Run()
	if err != nil {
		log.Panicf("generate err: %v", err)
	}
	log.Infof("wrote %d road/scenario pairs under %s", len(results), rc.Out.Dir)
}
