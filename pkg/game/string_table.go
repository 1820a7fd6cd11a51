package game

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gonewx/msgpace/pkg/embedded"
)

// StringsPath 游戏文本文件的嵌入路径
const StringsPath = "assets/properties/Strings.txt"

// StringTable 游戏文本字符串表
// 日志消息和字幕都按键从这里取文本
type StringTable struct {
	strings map[string]string // 键 -> 文本映射
}

// LoadStringTable 从嵌入资源加载文本字符串表
//
// 文件格式：
//
//	[KEY]
//	文本内容
//
// 示例：
//
//	[LOG_DOOR]
//	A door creaks open somewhere to the east.
func LoadStringTable(path string) (*StringTable, error) {
	file, err := embedded.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open strings file %s: %w", path, err)
	}
	defer file.Close()

	st, err := ParseStringTable(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read strings file %s: %w", path, err)
	}
	return st, nil
}

// ParseStringTable 解析 [KEY] / 文本 格式的字符串表
func ParseStringTable(r io.Reader) (*StringTable, error) {
	st := &StringTable{
		strings: make(map[string]string),
	}

	scanner := bufio.NewScanner(r)
	var currentKey string
	for scanner.Scan() {
		line := scanner.Text()

		// 跳过空行
		if strings.TrimSpace(line) == "" {
			continue
		}

		// 检查是否为键定义（格式：[KEY]）
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentKey = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		// 键后的第一行是值
		if currentKey != "" {
			st.strings[currentKey] = line
			currentKey = ""
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return st, nil
}

// Get 根据键获取文本，键不存在时返回 "[key]"（调试用）
func (st *StringTable) Get(key string) string {
	if text, ok := st.strings[key]; ok {
		return text
	}
	return "[" + key + "]"
}

// Has 检查键是否存在
func (st *StringTable) Has(key string) bool {
	_, ok := st.strings[key]
	return ok
}

// Keys 返回以 prefix 开头的所有键，按字母排序
func (st *StringTable) Keys(prefix string) []string {
	var keys []string
	for k := range st.strings {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Len 返回字符串数量
func (st *StringTable) Len() int {
	return len(st.strings)
}
