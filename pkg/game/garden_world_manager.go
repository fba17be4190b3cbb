package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GardenWorldManager 花园存档管理器
// 负责网格世界在 gdata 跨平台存储上的加载与保存
type GardenWorldManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存运行）
	world        *GardenWorld
}

// 存储路径常量
const (
	gardenObject  = "garden"
	worldProperty = "world"
)

// NewGardenWorldManager 创建存档管理器
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式，不持久化）
//   - world: 要托管的花园世界
func NewGardenWorldManager(gdataManager *gdata.Manager, world *GardenWorld) *GardenWorldManager {
	return &GardenWorldManager{
		gdataManager: gdataManager,
		world:        world,
	}
}

// Load 从 gdata 加载存档并重建网格
//
// 任何失败（文件缺失、读取错误、YAML 损坏、版本过新）都落到
// 空网格继续运行，绝不硬失败：存档问题不该挡住玩家进门。
// 损坏时返回 error 仅供上层记日志用
//
// 返回：
//   - error: 存档存在但无法使用时返回原因
func (gm *GardenWorldManager) Load() error {
	// 降级模式：无法持久化，保持空网格
	if gm.gdataManager == nil {
		return nil
	}

	if !gm.gdataManager.ObjectPropExists(gardenObject, worldProperty) {
		log.Printf("[GardenWorldManager] No save found, starting with an empty garden")
		return nil
	}

	data, err := gm.gdataManager.LoadObjectProp(gardenObject, worldProperty)
	if err != nil {
		return fmt.Errorf("failed to load garden save: %w", err)
	}

	var saved GardenSaveData
	if err := yaml.Unmarshal(data, &saved); err != nil {
		log.Printf("[GardenWorldManager] Corrupt save, starting fresh: %v", err)
		gm.world.Clear()
		return fmt.Errorf("failed to unmarshal garden save: %w", err)
	}
	if saved.Version > GardenSaveVersion {
		log.Printf("[GardenWorldManager] Save version %d is newer than supported %d, starting fresh", saved.Version, GardenSaveVersion)
		gm.world.Clear()
		return fmt.Errorf("unsupported save version %d", saved.Version)
	}

	gm.world.Restore(&saved)
	// 请求一帧：载入后的首个模拟帧会对所有植物做一次离线追帧
	gm.world.MarkChanged()
	log.Printf("[GardenWorldManager] Garden loaded successfully")
	return nil
}

// Save 序列化当前网格并写入 gdata
//
// 返回：
//   - error: 序列化或写入失败时返回错误
func (gm *GardenWorldManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if gm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(gm.world.Serialize())
	if err != nil {
		return fmt.Errorf("failed to marshal garden save: %w", err)
	}

	if err := gm.gdataManager.SaveObjectProp(gardenObject, worldProperty, data); err != nil {
		return fmt.Errorf("failed to save garden: %w", err)
	}

	log.Printf("[GardenWorldManager] Garden saved (%d bytes)", len(data))
	return nil
}
