//go:build !android

package utils

// EnsureStorageDir 确保存档目录存在（非 Android 平台为空实现）
// gdata 在桌面平台会自行创建存储目录，这里无需额外处理
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 获取存档路径（非 Android 平台返回空字符串）
func GetStoragePath() string {
	return ""
}
