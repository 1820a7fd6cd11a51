//go:build android

package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 在 gdata 打开之前创建 Android 应用的 saves 目录
// gdata 在 Android 上写入 /data/data/{package}/saves，但不会自己创建它
func EnsureStorageDir() error {
	pkg, err := androidPackage()
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}

	dir := filepath.Join("/data/data", pkg, "saves")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create saves directory %s: %w", dir, err)
	}
	return nil
}

// androidPackage 从 /proc/self/cmdline 读取包名
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	name := string(bytes.TrimSpace(data))
	if name == "" {
		return "", errors.New("empty /proc/self/cmdline")
	}
	return name, nil
}
