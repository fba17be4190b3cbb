package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/garden/pkg/config"
)

// WidgetInstance 悬浮部件实例
// Row/Col 是部件在悬浮层粗网格上的吸附位置，Settings 已经过模式清洗
type WidgetInstance struct {
	ID       int
	Kind     string
	Row      int
	Col      int
	Settings map[string]interface{}
}

// savedWidget 部件实例的存档记录
type savedWidget struct {
	Kind     string                 `yaml:"kind"`
	Row      int                    `yaml:"row"`
	Col      int                    `yaml:"col"`
	Settings map[string]interface{} `yaml:"settings,omitempty"`
}

// 存储路径常量
const (
	widgetsObject   = "widgets"
	widgetsProperty = "layout"
)

// 部件布局相关错误
var (
	// ErrUnknownWidgetKind 部件种类不在目录中
	ErrUnknownWidgetKind = fmt.Errorf("unknown widget kind")
	// ErrWidgetOutOfBounds 部件放不进悬浮层网格
	ErrWidgetOutOfBounds = fmt.Errorf("widget position out of bounds")
)

// WidgetManager 悬浮部件管理器
// 维护部件实例的网格吸附布局和设置，所有设置负载在入口处按模式清洗；
// 拖拽交互本身由界面层实现，这里只负责合法性与持久化
type WidgetManager struct {
	gdataManager *gdata.Manager        // gdata 跨平台存储管理器，可为 nil（降级模式）
	catalog      *config.WidgetCatalog // 部件种类目录
	widgets      []*WidgetInstance     // 当前布局（按创建顺序）
	nextID       int                   // 下一个实例 ID，会话内单调递增
}

// NewWidgetManager 创建新的部件管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存布局）
//   - catalog: 部件种类目录，可为 nil（使用内置目录）
//
// 返回：
//   - *WidgetManager: 部件管理器实例
//   - error: 如果加载布局失败返回错误（不影响创建）
func NewWidgetManager(gdataManager *gdata.Manager, catalog *config.WidgetCatalog) (*WidgetManager, error) {
	if catalog == nil {
		catalog = config.DefaultWidgetCatalog()
	}
	wm := &WidgetManager{
		gdataManager: gdataManager,
		catalog:      catalog,
		nextID:       1,
	}
	wm.seedDefaultLayout()

	if err := wm.Load(); err != nil {
		log.Printf("[WidgetManager] Warning: Failed to load widget layout: %v (using defaults)", err)
	}

	return wm, nil
}

// seedDefaultLayout 构建新档案的初始布局：右上角一个时钟
func (wm *WidgetManager) seedDefaultLayout() {
	wm.widgets = nil
	wm.nextID = 1
	if _, err := wm.AddWidget("clock", 0, config.WidgetGridCols-3); err != nil {
		// 内置目录必含 clock；走到这里说明外部目录裁掉了它
		log.Printf("[WidgetManager] Default layout unavailable: %v", err)
	}
}

// Load 从 gdata 加载部件布局
//
// 无法识别的部件种类被丢弃，设置负载逐条过模式清洗；
// 如果 gdataManager 为 nil 或文件不存在，保留初始布局
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (wm *WidgetManager) Load() error {
	if wm.gdataManager == nil {
		return nil
	}

	if !wm.gdataManager.ObjectPropExists(widgetsObject, widgetsProperty) {
		return nil
	}

	data, err := wm.gdataManager.LoadObjectProp(widgetsObject, widgetsProperty)
	if err != nil {
		return fmt.Errorf("failed to load widget layout: %w", err)
	}

	var saved []savedWidget
	if err := yaml.Unmarshal(data, &saved); err != nil {
		wm.seedDefaultLayout()
		return fmt.Errorf("failed to unmarshal widget layout: %w", err)
	}

	wm.widgets = nil
	wm.nextID = 1
	for _, record := range saved {
		if _, err := wm.AddWidget(record.Kind, record.Row, record.Col); err != nil {
			log.Printf("[WidgetManager] Dropping saved widget %q at (%d,%d): %v",
				record.Kind, record.Row, record.Col, err)
			continue
		}
		// AddWidget 追加在尾部；设置负载在这里过一遍模式清洗
		inst := wm.widgets[len(wm.widgets)-1]
		def, _ := wm.catalog.Get(record.Kind)
		inst.Settings = def.SanitizeSettings(record.Settings)
	}
	log.Printf("[WidgetManager] Widget layout loaded: %d widgets", len(wm.widgets))
	return nil
}

// Save 保存部件布局到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (wm *WidgetManager) Save() error {
	if wm.gdataManager == nil {
		return nil
	}

	saved := make([]savedWidget, 0, len(wm.widgets))
	for _, inst := range wm.widgets {
		saved = append(saved, savedWidget{
			Kind:     inst.Kind,
			Row:      inst.Row,
			Col:      inst.Col,
			Settings: inst.Settings,
		})
	}

	data, err := yaml.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to marshal widget layout: %w", err)
	}

	if err := wm.gdataManager.SaveObjectProp(widgetsObject, widgetsProperty, data); err != nil {
		return fmt.Errorf("failed to save widget layout: %w", err)
	}

	return nil
}

// Widgets 获取当前全部部件实例（按创建顺序）
func (wm *WidgetManager) Widgets() []*WidgetInstance {
	return wm.widgets
}

// Catalog 返回部件种类目录
func (wm *WidgetManager) Catalog() *config.WidgetCatalog {
	return wm.catalog
}

// AddWidget 在悬浮层网格上新建一个部件实例
//
// 参数：
//   - kind: 部件种类标识
//   - row, col: 吸附位置（部件左上角所在格）
//
// 返回：
//   - *WidgetInstance: 新建的实例，设置为该种类的默认值
//   - error: 种类未知或位置放不下时返回错误
func (wm *WidgetManager) AddWidget(kind string, row, col int) (*WidgetInstance, error) {
	def, ok := wm.catalog.Get(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidgetKind, kind)
	}
	if !widgetFits(def, row, col) {
		return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrWidgetOutOfBounds, kind, row, col)
	}

	inst := &WidgetInstance{
		ID:       wm.nextID,
		Kind:     kind,
		Row:      row,
		Col:      col,
		Settings: def.DefaultSettings(),
	}
	wm.nextID++
	wm.widgets = append(wm.widgets, inst)
	return inst, nil
}

// MoveWidget 移动部件到新的吸附位置
//
// 参数：
//   - id: 部件实例 ID
//   - row, col: 新位置
//
// 返回：
//   - error: 实例不存在或新位置放不下时返回错误
func (wm *WidgetManager) MoveWidget(id int, row, col int) error {
	inst := wm.findWidget(id)
	if inst == nil {
		return fmt.Errorf("widget %d not found", id)
	}
	def, _ := wm.catalog.Get(inst.Kind)
	if !widgetFits(def, row, col) {
		return fmt.Errorf("%w: %q at (%d,%d)", ErrWidgetOutOfBounds, inst.Kind, row, col)
	}
	inst.Row, inst.Col = row, col
	return nil
}

// RemoveWidget 删除部件实例
//
// 参数：
//   - id: 部件实例 ID
//
// 返回：
//   - bool: 实例存在并被删除返回 true
func (wm *WidgetManager) RemoveWidget(id int) bool {
	for i, inst := range wm.widgets {
		if inst.ID == id {
			wm.widgets = append(wm.widgets[:i], wm.widgets[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateSetting 修改部件的单项设置
//
// 新值连同现有设置一起过一遍模式清洗：未知键被丢弃，
// 类型不符或越界的值回退为默认值
//
// 参数：
//   - id: 部件实例 ID
//   - key: 设置键名
//   - value: 新值
//
// 返回：
//   - error: 实例不存在时返回错误
func (wm *WidgetManager) UpdateSetting(id int, key string, value interface{}) error {
	inst := wm.findWidget(id)
	if inst == nil {
		return fmt.Errorf("widget %d not found", id)
	}
	def, _ := wm.catalog.Get(inst.Kind)

	merged := make(map[string]interface{}, len(inst.Settings)+1)
	for k, v := range inst.Settings {
		merged[k] = v
	}
	merged[key] = value
	inst.Settings = def.SanitizeSettings(merged)
	return nil
}

// findWidget 按 ID 查找部件实例
func (wm *WidgetManager) findWidget(id int) *WidgetInstance {
	for _, inst := range wm.widgets {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

// widgetFits 检查部件在该位置能否完整落在悬浮层网格内
func widgetFits(def *config.WidgetKindDefinition, row, col int) bool {
	if row < 0 || col < 0 {
		return false
	}
	return row+def.SpanRows <= config.WidgetGridRows &&
		col+def.SpanCols <= config.WidgetGridCols
}
