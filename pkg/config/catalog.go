package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/decker502/garden/pkg/types"
)

// ObjectTypeDefinition 对象类型定义（目录条目）
// 目录在启动时加载一次，之后只读。放置系统按 TypeID 查询定义
type ObjectTypeDefinition struct {
	// TypeID 对象类型的唯一标识，如 "fern"、"stone_lantern"
	TypeID string `yaml:"id"`
	// Name 显示名称
	Name string `yaml:"name"`
	// Category 对象大类："plant" 或 "decor"
	Category string `yaml:"category"`

	// FootprintRows / FootprintCols 占地尺寸（格子数）
	// 多格对象以左上角为原点格，其余覆盖格记为别名格
	FootprintRows int `yaml:"footprintRows"`
	FootprintCols int `yaml:"footprintCols"`

	// 以下字段仅对植物有效，装饰物忽略

	// GrowthRatePerSecond 每秒生长进度（进度满值为 1.0）
	// 例如 0.004 表示约 250 秒长满
	GrowthRatePerSecond float64 `yaml:"growthRatePerSecond"`
	// MinScale / MaxScale 视觉缩放范围，随生长进度线性插值
	MinScale float64 `yaml:"minScale"`
	MaxScale float64 `yaml:"maxScale"`
	// ThirstThresholdSeconds 距上次浇水多少秒后进入缺水状态
	ThirstThresholdSeconds float64 `yaml:"thirstThresholdSeconds"`

	// 程序化贴图配色（hex 颜色串，如 "#2e7d32"）
	BodyColor   string `yaml:"bodyColor"`
	AccentColor string `yaml:"accentColor"`
}

// CategoryKind 返回解析后的对象类别
func (d *ObjectTypeDefinition) CategoryKind() types.ObjectCategory {
	return types.ParseObjectCategory(d.Category)
}

// IsPlant 判断该类型是否为植物
func (d *ObjectTypeDefinition) IsPlant() bool {
	return d.CategoryKind() == types.CategoryPlant
}

// Footprint 返回占地尺寸
func (d *ObjectTypeDefinition) Footprint() types.Footprint {
	return types.Footprint{Rows: d.FootprintRows, Cols: d.FootprintCols}
}

// ObjectCatalog 对象类型目录
// 持有全部已注册的类型定义，按 TypeID 索引
type ObjectCatalog struct {
	defs  map[string]*ObjectTypeDefinition
	order []string // 保持加载顺序，用于稳定遍历
}

// catalogDocument 目录 YAML 文件的顶层结构
type catalogDocument struct {
	Objects []*ObjectTypeDefinition `yaml:"objects"`
}

// LoadObjectCatalog 从 YAML 数据解析对象目录
//
// 参数：
//   - data: 目录 YAML 文件内容
//
// 返回：
//   - *ObjectCatalog: 解析后的目录
//   - error: 解析失败或任一条目校验失败时返回错误
func LoadObjectCatalog(data []byte) (*ObjectCatalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse object catalog YAML: %w", err)
	}
	if len(doc.Objects) == 0 {
		return nil, fmt.Errorf("object catalog is empty")
	}

	catalog := &ObjectCatalog{
		defs:  make(map[string]*ObjectTypeDefinition, len(doc.Objects)),
		order: make([]string, 0, len(doc.Objects)),
	}
	for _, def := range doc.Objects {
		applyObjectDefaults(def)
		if err := validateObjectDefinition(def); err != nil {
			return nil, fmt.Errorf("invalid object definition %q: %w", def.TypeID, err)
		}
		if _, exists := catalog.defs[def.TypeID]; exists {
			return nil, fmt.Errorf("duplicate object definition %q", def.TypeID)
		}
		catalog.defs[def.TypeID] = def
		catalog.order = append(catalog.order, def.TypeID)
	}
	return catalog, nil
}

// Get 按 TypeID 查询类型定义
func (c *ObjectCatalog) Get(typeID string) (*ObjectTypeDefinition, bool) {
	def, ok := c.defs[typeID]
	return def, ok
}

// All 返回全部类型定义（加载顺序）
func (c *ObjectCatalog) All() []*ObjectTypeDefinition {
	result := make([]*ObjectTypeDefinition, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.defs[id])
	}
	return result
}

// Count 返回目录中的类型数量
func (c *ObjectCatalog) Count() int {
	return len(c.order)
}

// applyObjectDefaults 为缺失的可选字段设置默认值
func applyObjectDefaults(def *ObjectTypeDefinition) {
	if def.FootprintRows == 0 {
		def.FootprintRows = 1
	}
	if def.FootprintCols == 0 {
		def.FootprintCols = 1
	}
	if def.IsPlant() {
		if def.MinScale == 0 {
			def.MinScale = 0.35
		}
		if def.MaxScale == 0 {
			def.MaxScale = 1.0
		}
	}
	if def.BodyColor == "" {
		def.BodyColor = "#5d8a4a"
	}
	if def.AccentColor == "" {
		def.AccentColor = "#9ccc65"
	}
}

// validateObjectDefinition 校验单个类型定义
func validateObjectDefinition(def *ObjectTypeDefinition) error {
	if def.TypeID == "" {
		return fmt.Errorf("missing id")
	}
	if def.CategoryKind() == types.CategoryUnknown {
		return fmt.Errorf("unknown category %q", def.Category)
	}
	if def.FootprintRows < 1 || def.FootprintRows > GridDivisions ||
		def.FootprintCols < 1 || def.FootprintCols > GridDivisions {
		return fmt.Errorf("footprint %dx%d out of range (1..%d)",
			def.FootprintRows, def.FootprintCols, GridDivisions)
	}
	if def.IsPlant() {
		if def.GrowthRatePerSecond <= 0 {
			return fmt.Errorf("plant growthRatePerSecond must be positive, got %f", def.GrowthRatePerSecond)
		}
		if def.ThirstThresholdSeconds <= 0 {
			return fmt.Errorf("plant thirstThresholdSeconds must be positive, got %f", def.ThirstThresholdSeconds)
		}
		if def.MinScale <= 0 || def.MaxScale < def.MinScale {
			return fmt.Errorf("invalid scale range [%f, %f]", def.MinScale, def.MaxScale)
		}
	}
	return nil
}

// DefaultObjectCatalog 返回内置对象目录
// 嵌入的目录文件缺失或损坏时作为后备，保证应用总能启动
func DefaultObjectCatalog() *ObjectCatalog {
	defs := []*ObjectTypeDefinition{
		{
			TypeID: "fern", Name: "Fern", Category: "plant",
			FootprintRows: 1, FootprintCols: 1,
			GrowthRatePerSecond:    0.004,
			ThirstThresholdSeconds: 120,
			BodyColor:              "#2e7d32", AccentColor: "#81c784",
		},
		{
			TypeID: "daisy", Name: "Daisy", Category: "plant",
			FootprintRows: 1, FootprintCols: 1,
			GrowthRatePerSecond:    0.005,
			ThirstThresholdSeconds: 90,
			BodyColor:              "#558b2f", AccentColor: "#fff176",
		},
		{
			TypeID: "bush", Name: "Bush", Category: "plant",
			FootprintRows: 2, FootprintCols: 2,
			GrowthRatePerSecond:    0.002,
			ThirstThresholdSeconds: 180,
			BodyColor:              "#33691e", AccentColor: "#7cb342",
		},
		{
			TypeID: "hedge", Name: "Hedge", Category: "plant",
			FootprintRows: 1, FootprintCols: 2,
			GrowthRatePerSecond:    0.0025,
			ThirstThresholdSeconds: 150,
			BodyColor:              "#2f5d2f", AccentColor: "#66bb6a",
		},
		{
			TypeID: "gnome", Name: "Garden Gnome", Category: "decor",
			FootprintRows: 1, FootprintCols: 1,
			BodyColor: "#8d6e63", AccentColor: "#d32f2f",
		},
		{
			TypeID: "stone_lantern", Name: "Stone Lantern", Category: "decor",
			FootprintRows: 1, FootprintCols: 1,
			BodyColor: "#9e9e9e", AccentColor: "#fdd835",
		},
		{
			TypeID: "bench", Name: "Bench", Category: "decor",
			FootprintRows: 1, FootprintCols: 2,
			BodyColor: "#795548", AccentColor: "#a1887f",
		},
		{
			TypeID: "fountain", Name: "Fountain", Category: "decor",
			FootprintRows: 2, FootprintCols: 2,
			BodyColor: "#78909c", AccentColor: "#4fc3f7",
		},
	}

	catalog := &ObjectCatalog{
		defs:  make(map[string]*ObjectTypeDefinition, len(defs)),
		order: make([]string, 0, len(defs)),
	}
	for _, def := range defs {
		applyObjectDefaults(def)
		catalog.defs[def.TypeID] = def
		catalog.order = append(catalog.order, def.TypeID)
	}
	return catalog
}
