//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 确保 Android 存档目录存在并可写
//
// gdata 在 Android 上把 /data/data/{package}/ 当作存储根，
// 但不会预创建子目录。必须在 gdata 初始化前调用一次，
// 否则首次存档会静默失败。
func EnsureStorageDir() error {
	pkg, err := androidPackageName()
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}

	savesDir := filepath.Join("/data/data", pkg, "saves")
	if err := os.MkdirAll(savesDir, 0755); err != nil {
		return fmt.Errorf("failed to create saves directory %s: %w", savesDir, err)
	}

	// 写探针：目录存在不代表可写（SELinux/权限问题在这里暴露）
	probe := filepath.Join(savesDir, ".write_test")
	if err := os.WriteFile(probe, []byte("probe"), 0644); err != nil {
		return fmt.Errorf("saves directory %s is not writable: %w", savesDir, err)
	}
	os.Remove(probe)

	return nil
}

// androidPackageName 从 /proc/self/cmdline 读取应用包名
func androidPackageName() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}

	// cmdline 以 null 字节分隔并结尾，包名是第一段
	cleaned := make([]byte, 0, len(data))
	for _, ch := range data {
		if ch == 0 || ch == '\n' {
			continue
		}
		cleaned = append(cleaned, ch)
	}
	if len(cleaned) == 0 {
		return "", fmt.Errorf("got empty output from /proc/self/cmdline")
	}
	return string(cleaned), nil
}

// GetStoragePath 获取 Android 存储根路径（用于调试日志）
func GetStoragePath() string {
	pkg, err := androidPackageName()
	if err != nil {
		return ""
	}
	return filepath.Join("/data/data", pkg)
}
