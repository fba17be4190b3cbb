package game

import (
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// InventoryManager 管理玩家拥有的可放置对象库存
// 放置扣减、移除返还，数量通过 gdata 跨平台持久化
type InventoryManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	counts       map[string]int // typeID -> 剩余数量
}

// 存储路径常量
const (
	inventoryObject   = "inventory"
	inventoryProperty = "counts"
)

// DefaultInventory 返回新档案的初始库存
// 参考默认目录中的对象类型：植物给多些，装饰给少些
func DefaultInventory() map[string]int {
	return map[string]int{
		"fern":          6,
		"daisy":         4,
		"bush":          2,
		"hedge":         3,
		"gnome":         2,
		"stone_lantern": 1,
		"bench":         1,
		"fountain":      1,
	}
}

// NewInventoryManager 创建新的库存管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存库存）
//
// 返回：
//   - *InventoryManager: 库存管理器实例
//   - error: 如果加载库存失败返回错误（不影响创建）
func NewInventoryManager(gdataManager *gdata.Manager) (*InventoryManager, error) {
	im := &InventoryManager{
		gdataManager: gdataManager,
		counts:       DefaultInventory(),
	}

	if err := im.Load(); err != nil {
		// 加载失败不是致命错误，使用初始库存
		log.Printf("[InventoryManager] Warning: Failed to load inventory: %v (using defaults)", err)
	}

	return im, nil
}

// Load 从 gdata 加载库存
//
// 如果 gdataManager 为 nil 或文件不存在，使用初始库存；
// 加载到的非正数量在边界处被丢弃
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (im *InventoryManager) Load() error {
	if im.gdataManager == nil {
		im.counts = DefaultInventory()
		return nil
	}

	if !im.gdataManager.ObjectPropExists(inventoryObject, inventoryProperty) {
		im.counts = DefaultInventory()
		return nil
	}

	data, err := im.gdataManager.LoadObjectProp(inventoryObject, inventoryProperty)
	if err != nil {
		im.counts = DefaultInventory()
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	var loaded map[string]int
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		im.counts = DefaultInventory()
		return fmt.Errorf("failed to unmarshal inventory: %w", err)
	}

	// 边界清洗：非正数量直接丢弃
	counts := make(map[string]int, len(loaded))
	for typeID, n := range loaded {
		if n <= 0 {
			log.Printf("[InventoryManager] Dropping invalid count %d for %q", n, typeID)
			continue
		}
		counts[typeID] = n
	}
	im.counts = counts
	log.Printf("[InventoryManager] Inventory loaded: %d types", len(counts))
	return nil
}

// Save 保存库存到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (im *InventoryManager) Save() error {
	if im.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(im.counts)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	if err := im.gdataManager.SaveObjectProp(inventoryObject, inventoryProperty, data); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}

	return nil
}

// CountOf 查询指定类型的剩余数量
//
// 参数：
//   - typeID: 对象类型 ID
//
// 返回：
//   - int: 剩余数量，未拥有返回 0
func (im *InventoryManager) CountOf(typeID string) int {
	return im.counts[typeID]
}

// Debit 放置时扣减一个指定类型
//
// 参数：
//   - typeID: 对象类型 ID
//
// 返回：
//   - bool: 库存不足时返回 false，不产生扣减
func (im *InventoryManager) Debit(typeID string) bool {
	if im.counts[typeID] <= 0 {
		return false
	}
	im.counts[typeID]--
	if im.counts[typeID] == 0 {
		// 归零后从表中移除，保持 OwnedTypes 只列出还拥有的类型
		delete(im.counts, typeID)
	}
	return true
}

// Credit 移除对象时返还一个指定类型
//
// 参数：
//   - typeID: 对象类型 ID
func (im *InventoryManager) Credit(typeID string) {
	im.counts[typeID]++
}

// OwnedTypes 获取所有剩余数量大于零的类型 ID 列表
//
// 返回：
//   - []string: 类型 ID 列表（按字母顺序排序，保证输出稳定）
func (im *InventoryManager) OwnedTypes() []string {
	types := make([]string, 0, len(im.counts))
	for typeID := range im.counts {
		types = append(types, typeID)
	}
	sort.Strings(types)
	return types
}
