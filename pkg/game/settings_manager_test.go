package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}

	// 验证详细日志默认值
	if settings.VerboseLogging {
		t.Error("VerboseLogging: got true, want false")
	}

	// 验证时制默认值
	if !settings.Clock24Hour {
		t.Error("Clock24Hour: got false, want true")
	}

	// 验证网格辅助线默认值
	if !settings.ShowGridOverlay {
		t.Error("ShowGridOverlay: got false, want true")
	}

	// 验证减少动态效果默认值
	if settings.ReducedMotion {
		t.Error("ReducedMotion: got true, want false")
	}
}

// TestNewSettingsManager 测试正常初始化 SettingsManager
func TestNewSettingsManager(t *testing.T) {
	// 使用临时目录创建 gdata manager
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_settings",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}

	if sm == nil {
		t.Fatal("NewSettingsManager() returned nil")
	}

	// 验证初始化后使用默认设置
	settings := sm.GetSettings()
	if settings == nil {
		t.Fatal("GetSettings() returned nil after initialization")
	}

	if !settings.Clock24Hour {
		t.Error("Initial Clock24Hour: got false, want true")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}

	if sm == nil {
		t.Fatal("NewSettingsManager(nil) returned nil")
	}

	// 验证使用默认设置
	settings := sm.GetSettings()
	if settings == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}

	if !settings.ShowGridOverlay {
		t.Error("Degraded mode ShowGridOverlay: got false, want true")
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	// 使用临时目录创建 gdata manager
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_settings_load_save",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}

	// 创建设置管理器并修改设置
	sm1, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}

	sm1.SetVerboseLogging(true)
	sm1.SetClock24Hour(false)
	sm1.SetShowGridOverlay(false)
	sm1.SetReducedMotion(true)

	// 保存设置
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// 创建新的设置管理器，验证加载
	sm2, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error on reload: %v", err)
	}

	settings := sm2.GetSettings()

	if !settings.VerboseLogging {
		t.Error("Loaded VerboseLogging: got false, want true")
	}

	if settings.Clock24Hour {
		t.Error("Loaded Clock24Hour: got true, want false")
	}

	if settings.ShowGridOverlay {
		t.Error("Loaded ShowGridOverlay: got true, want false")
	}

	if !settings.ReducedMotion {
		t.Error("Loaded ReducedMotion: got false, want true")
	}
}

// TestSetVerboseLogging 测试 SetVerboseLogging 功能
func TestSetVerboseLogging(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	// 默认为 false
	if sm.GetSettings().VerboseLogging {
		t.Error("Initial VerboseLogging: got true, want false")
	}

	// 设置为 true
	sm.SetVerboseLogging(true)
	if !sm.GetSettings().VerboseLogging {
		t.Error("After SetVerboseLogging(true): got false, want true")
	}

	// 设置为 false
	sm.SetVerboseLogging(false)
	if sm.GetSettings().VerboseLogging {
		t.Error("After SetVerboseLogging(false): got true, want false")
	}
}

// TestSetClock24Hour 测试 SetClock24Hour 功能
func TestSetClock24Hour(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	// 默认为 true
	if !sm.GetSettings().Clock24Hour {
		t.Error("Initial Clock24Hour: got false, want true")
	}

	// 设置为 false
	sm.SetClock24Hour(false)
	if sm.GetSettings().Clock24Hour {
		t.Error("After SetClock24Hour(false): got true, want false")
	}

	// 设置为 true
	sm.SetClock24Hour(true)
	if !sm.GetSettings().Clock24Hour {
		t.Error("After SetClock24Hour(true): got false, want true")
	}
}

// TestSetShowGridOverlay 测试 SetShowGridOverlay 功能
func TestSetShowGridOverlay(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	// 默认为 true
	if !sm.GetSettings().ShowGridOverlay {
		t.Error("Initial ShowGridOverlay: got false, want true")
	}

	// 设置为 false
	sm.SetShowGridOverlay(false)
	if sm.GetSettings().ShowGridOverlay {
		t.Error("After SetShowGridOverlay(false): got true, want false")
	}

	// 设置为 true
	sm.SetShowGridOverlay(true)
	if !sm.GetSettings().ShowGridOverlay {
		t.Error("After SetShowGridOverlay(true): got false, want true")
	}
}

// TestSetReducedMotion 测试 SetReducedMotion 功能
func TestSetReducedMotion(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	// 默认为 false
	if sm.GetSettings().ReducedMotion {
		t.Error("Initial ReducedMotion: got true, want false")
	}

	// 设置为 true
	sm.SetReducedMotion(true)
	if !sm.GetSettings().ReducedMotion {
		t.Error("After SetReducedMotion(true): got false, want true")
	}

	// 设置为 false
	sm.SetReducedMotion(false)
	if sm.GetSettings().ReducedMotion {
		t.Error("After SetReducedMotion(false): got true, want false")
	}
}

// TestGetSettings 测试 GetSettings() 返回正确实例
func TestGetSettings(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	settings1 := sm.GetSettings()
	settings2 := sm.GetSettings()

	// 应该返回相同的实例
	if settings1 != settings2 {
		t.Error("GetSettings() should return the same instance")
	}

	// 修改 settings1，settings2 也应该改变（同一实例）
	settings1.VerboseLogging = true
	if !settings2.VerboseLogging {
		t.Error("Settings should be the same instance")
	}
}

// TestSaveNilGdataManager 测试降级模式下 Save() 不报错
func TestSaveNilGdataManager(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	// 降级模式下 Save() 应该返回 nil（不报错）
	err := sm.Save()
	if err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}
}

// TestLoadNilGdataManager 测试降级模式下 Load() 使用默认设置
func TestLoadNilGdataManager(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	// 修改设置
	sm.SetClock24Hour(false)

	// 重新 Load()
	err := sm.Load()
	if err != nil {
		t.Errorf("Load() in degraded mode should return nil, got: %v", err)
	}

	// 应该恢复为默认值
	if !sm.GetSettings().Clock24Hour {
		t.Error("After Load() in degraded mode, Clock24Hour: got false, want true")
	}
}

// TestSettingsLoadCorrupt 测试损坏的设置数据回退到默认值
func TestSettingsLoadCorrupt(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_settings_corrupt",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}

	// 写入无法解析的设置数据
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("{{{ not yaml :::")); err != nil {
		t.Fatalf("Failed to plant corrupt settings: %v", err)
	}

	sm := &SettingsManager{gdataManager: gdataManager, settings: DefaultSettings()}
	if err := sm.Load(); err == nil {
		t.Error("Load() should report unmarshal failure for corrupt data")
	}

	// 损坏数据不破坏运行：回退到默认设置
	if !sm.GetSettings().Clock24Hour {
		t.Error("Corrupt load must fall back to defaults")
	}
}
