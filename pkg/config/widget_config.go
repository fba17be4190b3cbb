package config

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v3"
)

// 悬浮部件配置
// 每种部件（时钟、天气、便签）声明自己的设置模式(schema)，
// 所有进入系统的设置负载——无论来自界面还是存档——都先经过模式清洗，
// 防止拖拽层或旧存档塞入未知键、越界值

// 部件设置项的取值类型
const (
	WidgetSettingBool   = "bool"
	WidgetSettingNumber = "number"
	WidgetSettingText   = "text"
	WidgetSettingChoice = "choice"
)

// WidgetSettingDef 单个设置项的模式定义
type WidgetSettingDef struct {
	// Key 设置键名
	Key string `yaml:"key"`
	// Type 取值类型：bool / number / text / choice
	Type string `yaml:"type"`

	// DefaultBool / DefaultNumber / DefaultText 各类型的默认值
	DefaultBool   bool    `yaml:"defaultBool"`
	DefaultNumber float64 `yaml:"defaultNumber"`
	DefaultText   string  `yaml:"defaultText"`

	// Min / Max number 类型的取值范围（含端点）
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	// MaxLength text 类型的最大长度（字符数），0 表示不限制
	MaxLength int `yaml:"maxLength"`
	// Choices choice 类型的合法取值列表，首项为默认值
	Choices []string `yaml:"choices"`
}

// defaultValue 返回该设置项的默认值
func (d *WidgetSettingDef) defaultValue() interface{} {
	switch d.Type {
	case WidgetSettingBool:
		return d.DefaultBool
	case WidgetSettingNumber:
		return d.DefaultNumber
	case WidgetSettingChoice:
		if len(d.Choices) > 0 {
			return d.Choices[0]
		}
		return ""
	default:
		return d.DefaultText
	}
}

// sanitizeValue 清洗单个设置值
// 返回合法值；类型不符或越界时回退到默认值
func (d *WidgetSettingDef) sanitizeValue(raw interface{}) interface{} {
	switch d.Type {
	case WidgetSettingBool:
		if b, ok := raw.(bool); ok {
			return b
		}
	case WidgetSettingNumber:
		if n, ok := coerceNumber(raw); ok {
			if n >= d.Min && n <= d.Max {
				return n
			}
		}
	case WidgetSettingText:
		if s, ok := raw.(string); ok {
			if d.MaxLength > 0 && len([]rune(s)) > d.MaxLength {
				return string([]rune(s)[:d.MaxLength])
			}
			return s
		}
	case WidgetSettingChoice:
		if s, ok := raw.(string); ok {
			for _, c := range d.Choices {
				if s == c {
					return s
				}
			}
		}
	}
	return d.defaultValue()
}

// coerceNumber 将 YAML 反序列化出的任意数字类型统一为 float64
// yaml.v3 对整数字面量给出 int，对小数给出 float64
func coerceNumber(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// WidgetKindDefinition 部件种类定义
type WidgetKindDefinition struct {
	// Kind 部件种类标识，如 "clock"
	Kind string `yaml:"kind"`
	// Name 显示名称
	Name string `yaml:"name"`
	// SpanRows / SpanCols 部件在悬浮层网格上的跨度（格子数）
	SpanRows int `yaml:"spanRows"`
	SpanCols int `yaml:"spanCols"`
	// Settings 设置模式
	Settings []WidgetSettingDef `yaml:"settings"`
}

// DefaultSettings 返回该部件种类的默认设置
func (d *WidgetKindDefinition) DefaultSettings() map[string]interface{} {
	result := make(map[string]interface{}, len(d.Settings))
	for i := range d.Settings {
		result[d.Settings[i].Key] = d.Settings[i].defaultValue()
	}
	return result
}

// SanitizeSettings 按模式清洗设置负载
//
// 清洗规则：
//   - 未知键丢弃（记录日志）
//   - 类型不符或越界的值回退为默认值
//   - 缺失的键补默认值
//
// 参数：
//   - raw: 待清洗的设置负载，可为 nil
//
// 返回：
//   - map[string]interface{}: 清洗后的完整设置（每个模式键都有值）
func (d *WidgetKindDefinition) SanitizeSettings(raw map[string]interface{}) map[string]interface{} {
	clean := d.DefaultSettings()
	for key, value := range raw {
		def := d.settingDef(key)
		if def == nil {
			log.Printf("[WidgetConfig] Dropping unknown setting %q for widget kind %q", key, d.Kind)
			continue
		}
		clean[key] = def.sanitizeValue(value)
	}
	return clean
}

// settingDef 按键名查找设置项定义
func (d *WidgetKindDefinition) settingDef(key string) *WidgetSettingDef {
	for i := range d.Settings {
		if d.Settings[i].Key == key {
			return &d.Settings[i]
		}
	}
	return nil
}

// WidgetCatalog 部件种类目录
type WidgetCatalog struct {
	kinds map[string]*WidgetKindDefinition
	order []string
}

// widgetDocument 部件目录 YAML 文件的顶层结构
type widgetDocument struct {
	Widgets []*WidgetKindDefinition `yaml:"widgets"`
}

// LoadWidgetCatalog 从 YAML 数据解析部件目录
func LoadWidgetCatalog(data []byte) (*WidgetCatalog, error) {
	var doc widgetDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse widget catalog YAML: %w", err)
	}
	if len(doc.Widgets) == 0 {
		return nil, fmt.Errorf("widget catalog is empty")
	}

	catalog := &WidgetCatalog{
		kinds: make(map[string]*WidgetKindDefinition, len(doc.Widgets)),
		order: make([]string, 0, len(doc.Widgets)),
	}
	for _, def := range doc.Widgets {
		if err := validateWidgetKind(def); err != nil {
			return nil, fmt.Errorf("invalid widget kind %q: %w", def.Kind, err)
		}
		if _, exists := catalog.kinds[def.Kind]; exists {
			return nil, fmt.Errorf("duplicate widget kind %q", def.Kind)
		}
		catalog.kinds[def.Kind] = def
		catalog.order = append(catalog.order, def.Kind)
	}
	return catalog, nil
}

// Get 按种类标识查询部件定义
func (c *WidgetCatalog) Get(kind string) (*WidgetKindDefinition, bool) {
	def, ok := c.kinds[kind]
	return def, ok
}

// All 返回全部部件定义（加载顺序）
func (c *WidgetCatalog) All() []*WidgetKindDefinition {
	result := make([]*WidgetKindDefinition, 0, len(c.order))
	for _, kind := range c.order {
		result = append(result, c.kinds[kind])
	}
	return result
}

// validateWidgetKind 校验部件种类定义
func validateWidgetKind(def *WidgetKindDefinition) error {
	if def.Kind == "" {
		return fmt.Errorf("missing kind")
	}
	if def.SpanRows < 1 || def.SpanCols < 1 {
		return fmt.Errorf("span %dx%d must be at least 1x1", def.SpanRows, def.SpanCols)
	}
	for i := range def.Settings {
		s := &def.Settings[i]
		if s.Key == "" {
			return fmt.Errorf("setting #%d missing key", i)
		}
		switch s.Type {
		case WidgetSettingBool, WidgetSettingText:
			// 无额外约束
		case WidgetSettingNumber:
			if s.Max < s.Min {
				return fmt.Errorf("setting %q range [%f, %f] is inverted", s.Key, s.Min, s.Max)
			}
		case WidgetSettingChoice:
			if len(s.Choices) == 0 {
				return fmt.Errorf("setting %q has no choices", s.Key)
			}
		default:
			return fmt.Errorf("setting %q has unknown type %q", s.Key, s.Type)
		}
	}
	return nil
}

// DefaultWidgetCatalog 返回内置部件目录
// 嵌入的部件配置缺失或损坏时作为后备
func DefaultWidgetCatalog() *WidgetCatalog {
	kinds := []*WidgetKindDefinition{
		{
			Kind: "clock", Name: "Clock", SpanRows: 1, SpanCols: 3,
			Settings: []WidgetSettingDef{
				{Key: "use24Hour", Type: WidgetSettingBool, DefaultBool: true},
				{Key: "showSeconds", Type: WidgetSettingBool, DefaultBool: false},
			},
		},
		{
			Kind: "weather", Name: "Weather", SpanRows: 1, SpanCols: 2,
			Settings: []WidgetSettingDef{
				{Key: "unit", Type: WidgetSettingChoice, Choices: []string{"celsius", "fahrenheit"}},
			},
		},
		{
			Kind: "note", Name: "Note", SpanRows: 2, SpanCols: 3,
			Settings: []WidgetSettingDef{
				{Key: "text", Type: WidgetSettingText, DefaultText: "", MaxLength: 140},
			},
		},
	}

	catalog := &WidgetCatalog{
		kinds: make(map[string]*WidgetKindDefinition, len(kinds)),
		order: make([]string, 0, len(kinds)),
	}
	for _, def := range kinds {
		catalog.kinds[def.Kind] = def
		catalog.order = append(catalog.order, def.Kind)
	}
	return catalog
}
