//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设置为 1 时桌面端也按移动端处理（用于本地调试触摸界面）
const MobileEmulateEnv = "MSGPACE_MOBILE_EMULATE"

// IsMobile 检测当前是否在移动设备上运行
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}

// PointerVerb 返回提示文字里描述点击的动词
func PointerVerb() string {
	if IsMobile() {
		return "Tap"
	}
	return "Click"
}
