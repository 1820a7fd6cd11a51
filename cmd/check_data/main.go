// check_data 检查 data/ 和 assets/ 下的文本配置
//
// 验证 message_buffer.yaml 能被加载，字符串表包含场景需要的键，
// 并按配置的阅读速度列出每条文本的阅读时间。
//
// 用法：
//
//	go run ./cmd/check_data [-config data/message_buffer.yaml] [-strings assets/properties/Strings.txt] [-max 4]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gonewx/msgpace/pkg/config"
	"github.com/gonewx/msgpace/pkg/game"
	"github.com/gonewx/msgpace/pkg/msgbuf"
	"github.com/gonewx/msgpace/pkg/scenes"
)

var (
	configPath  = flag.String("config", config.MessageBufferConfigPath, "消息缓冲配置文件")
	stringsPath = flag.String("strings", game.StringsPath, "字符串表文件")
	maxRead     = flag.Float64("max", 4, "单条文本阅读时间上限（秒），超过时给出警告")
)

func main() {
	flag.Parse()
	if !run(*configPath, *stringsPath, *maxRead) {
		os.Exit(1)
	}
}

// run 执行所有检查，返回是否全部通过
func run(configPath, stringsPath string, maxRead float64) bool {
	cfg, err := config.LoadMessageBufferConfig(configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return false
	}
	fmt.Printf("✅ %s 格式正确（%.3fs/字符，最短 %.2fs）\n", configPath, cfg.LetterReadDuration, cfg.MinReadDuration)

	f, err := os.Open(stringsPath)
	if err != nil {
		fmt.Printf("❌ 读取字符串表失败: %v\n", err)
		return false
	}
	defer f.Close()

	table, err := game.ParseStringTable(f)
	if err != nil {
		fmt.Printf("❌ 字符串表解析失败: %v\n", err)
		return false
	}
	fmt.Printf("✅ 字符串表包含 %d 条文本\n", table.Len())

	ok := true
	if !table.Has(scenes.CaptionLevelStart) {
		fmt.Printf("❌ 缺少开场字幕 [%s]\n", scenes.CaptionLevelStart)
		ok = false
	}
	if len(table.Keys("LOG_")) == 0 {
		fmt.Printf("❌ 没有 LOG_ 开头的日志文本\n")
		ok = false
	}

	// 只用于计算阅读时间，不绘制
	buffer := msgbuf.NewBuffer(nil, cfg.ToBufferConfig(config.GameWindowWidth))
	for _, key := range table.Keys("") {
		d := buffer.ReadDuration(table.Get(key))
		mark := "  "
		if d > maxRead {
			mark = "⚠️"
		}
		fmt.Printf("%s %-24s %5.2fs\n", mark, key, d)
	}
	return ok
}
