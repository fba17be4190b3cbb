package scenes

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"cogentcore.org/core/colors"

	"github.com/decker502/garden/pkg/config"
	"github.com/decker502/garden/pkg/game"
	"github.com/decker502/garden/pkg/systems"
	"github.com/decker502/garden/pkg/utils"
)

// Draw 把场景画到屏幕上
//
// 只有模拟帧产生过新画面时才真正重绘；空闲 tick 直接把缓存画布上屏，
// 这是调度器省电语义在渲染侧的另一半
func (s *GardenScene) Draw(screen *ebiten.Image) {
	if s.canvas == nil {
		s.canvas = ebiten.NewImage(config.GameWindowWidth, config.GameWindowHeight)
		s.redraw = true
	}
	if s.redraw {
		s.renderCanvas()
		s.redraw = false
	}
	screen.DrawImage(s.canvas, nil)
}

// renderCanvas 重绘整个画布
func (s *GardenScene) renderCanvas() {
	s.drawBackdrop()
	s.drawGridOverlay()
	s.drawPlacementPreview()
	s.provider.Draw(s.canvas)
	s.drawToolbar()
	s.drawStatusCaption()
	s.drawWidgets()
}

// drawBackdrop 画天空、太阳和地面
func (s *GardenScene) drawBackdrop() {
	s.canvas.Fill(s.lighting.Sky)

	// 太阳沿轨道投到天空带上，落到地平线以下就不画
	fx := float64(s.lighting.SunDirection.X) / config.SunOrbitDistance
	fy := float64(s.lighting.SunDirection.Y) / config.SunOrbitDistance
	if fy > 0 {
		sunX := config.PlaneScreenOriginX + (0.5+0.5*fx)*config.PlaneSize
		sunY := 30.0 - 18.0*fy
		vector.DrawFilledCircle(s.canvas, float32(sunX), float32(sunY), 9,
			color.RGBA{0xff, 0xe8, 0x9a, 0xff}, true)
	}

	startX, startY, _, _ := config.GetPlaneScreenBounds()
	vector.DrawFilledRect(s.canvas, float32(startX), float32(startY),
		float32(config.PlaneSize), float32(config.PlaneSize), s.lighting.Ground, false)
	vector.StrokeRect(s.canvas, float32(startX), float32(startY),
		float32(config.PlaneSize), float32(config.PlaneSize), 2,
		color.RGBA{0x00, 0x00, 0x00, 0x50}, false)
}

// drawGridOverlay 画网格辅助线（可在设置中关闭）
func (s *GardenScene) drawGridOverlay() {
	if !s.settings.GetSettings().ShowGridOverlay {
		return
	}

	lineColor := color.RGBA{0xff, 0xff, 0xff, 0x22}
	startX, startY, endX, endY := config.GetPlaneScreenBounds()
	for i := 0; i <= config.GridDivisions; i++ {
		offset := float64(i) * config.CellSize
		vector.StrokeLine(s.canvas, float32(startX+offset), float32(startY),
			float32(startX+offset), float32(endY), 1, lineColor, false)
		vector.StrokeLine(s.canvas, float32(startX), float32(startY+offset),
			float32(endX), float32(startY+offset), 1, lineColor, false)
	}
}

// drawPlacementPreview 画放置预览底色：合法绿、非法红
func (s *GardenScene) drawPlacementPreview() {
	p := s.input.Preview()
	if !p.Visible {
		return
	}

	tint := color.RGBA{0x4c, 0xc8, 0x5a, 0x5a}
	if !p.Legal {
		tint = color.RGBA{0xdc, 0x46, 0x3c, 0x5a}
	}
	x := config.PlaneScreenOriginX + float64(p.Col)*config.CellSize
	y := config.PlaneScreenOriginY + float64(p.Row)*config.CellSize
	w := float64(p.FootprintCols) * config.CellSize
	h := float64(p.FootprintRows) * config.CellSize
	// 预览区域可能探出地面右/下边缘，裁掉出界部分
	if over := x + w - (config.PlaneScreenOriginX + config.PlaneSize); over > 0 {
		w -= over
	}
	if over := y + h - (config.PlaneScreenOriginY + config.PlaneSize); over > 0 {
		h -= over
	}
	vector.DrawFilledRect(s.canvas, float32(x), float32(y), float32(w), float32(h), tint, false)
}

// drawToolbar 画底部工具栏：库存槽位 + 移除/浇水工具
func (s *GardenScene) drawToolbar() {
	vector.DrawFilledRect(s.canvas, 0, ToolbarY, config.GameWindowWidth, ToolbarHeight,
		color.RGBA{0x17, 0x1a, 0x14, 0xd2}, false)

	for _, slot := range s.toolbar {
		b := slot.bounds
		x, y := float32(b.Min.X), float32(b.Min.Y)
		w, h := float32(b.Dx()), float32(b.Dy())

		vector.DrawFilledRect(s.canvas, x, y, w, h, color.RGBA{0x2b, 0x30, 0x28, 0xff}, false)

		switch slot.kind {
		case "place":
			s.drawPlaceSlot(slot, x, y, w, h)
		case "remove":
			// 铲除：交叉线
			cross := color.RGBA{0xd8, 0x9a, 0x6a, 0xff}
			vector.StrokeLine(s.canvas, x+12, y+12, x+w-12, y+h-12, 3, cross, true)
			vector.StrokeLine(s.canvas, x+w-12, y+12, x+12, y+h-12, 3, cross, true)
		case "water":
			// 浇水：水滴
			drop := color.RGBA{0x58, 0xa8, 0xe8, 0xff}
			vector.DrawFilledCircle(s.canvas, x+w/2, y+h/2+6, 9, drop, true)
			vector.StrokeLine(s.canvas, x+w/2, y+10, x+w/2, y+h/2, 3, drop, true)
		}

		if s.slotSelected(slot) {
			vector.StrokeRect(s.canvas, x-2, y-2, w+4, h+4, 2,
				color.RGBA{0xff, 0xd7, 0x5e, 0xff}, false)
		}
	}
}

// drawPlaceSlot 画库存槽位：类型主配色方块与剩余数量
func (s *GardenScene) drawPlaceSlot(slot toolbarSlot, x, y, w, h float32) {
	body := color.RGBA{0x88, 0x88, 0x88, 0xff}
	if def, ok := s.world.Catalog().Get(slot.typeID); ok {
		body = hexColor(def.BodyColor, body)
	}
	vector.DrawFilledRect(s.canvas, x+8, y+6, w-16, h-22, body, false)

	count := fmt.Sprintf("%d", s.inventory.CountOf(slot.typeID))
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x)+float64(w)/2-text.Advance(count, s.hudFace)/2, float64(y+h-15))
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(s.canvas, count, s.hudFace, op)
}

// slotSelected 判断槽位是否对应当前工具
func (s *GardenScene) slotSelected(slot toolbarSlot) bool {
	switch slot.kind {
	case "place":
		return s.input.Tool() == systems.ToolPlace && s.input.PlaceTypeID() == slot.typeID
	case "remove":
		return s.input.Tool() == systems.ToolRemove
	case "water":
		return s.input.Tool() == systems.ToolWater
	}
	return false
}

// drawStatusCaption 画左上角状态行：昼夜阶段与本地时间
func (s *GardenScene) drawStatusCaption() {
	now := s.clock.Now()
	layout := "15:04"
	if !s.settings.GetSettings().Clock24Hour {
		layout = "3:04 PM"
	}
	caption := fmt.Sprintf("%s  %s", s.lighting.Phase, now.Format(layout))
	s.drawShadowedText(caption, StatusCaptionX, StatusCaptionY, color.White)
}

// drawWidgets 画悬浮部件
func (s *GardenScene) drawWidgets() {
	for _, inst := range s.widgets.Widgets() {
		def, ok := s.widgets.Catalog().Get(inst.Kind)
		if !ok {
			continue
		}
		x := float64(inst.Col) * config.WidgetCellSize
		y := float64(inst.Row) * config.WidgetCellSize
		w := float64(def.SpanCols) * config.WidgetCellSize
		h := float64(def.SpanRows) * config.WidgetCellSize

		vector.DrawFilledRect(s.canvas, float32(x), float32(y), float32(w), float32(h),
			color.RGBA{0x10, 0x14, 0x1e, 0xaa}, false)
		vector.StrokeRect(s.canvas, float32(x), float32(y), float32(w), float32(h), 1,
			color.RGBA{0xff, 0xff, 0xff, 0x38}, false)

		switch inst.Kind {
		case "clock":
			s.drawClockWidget(inst, x, y, w, h)
		case "weather":
			s.drawWeatherWidget(inst, x, y, w, h)
		case "note":
			s.drawNoteWidget(inst, x, y, w, h)
		}
	}
}

// drawClockWidget 时钟部件：按部件设置格式化当前时间
func (s *GardenScene) drawClockWidget(inst *game.WidgetInstance, x, y, w, h float64) {
	use24 := boolSetting(inst.Settings, "use24Hour", true)
	showSeconds := boolSetting(inst.Settings, "showSeconds", false)
	caption := formatClockTime(s.clock.Now(), use24, showSeconds)

	tx := x + w/2 - text.Advance(caption, s.hudFace)/2
	s.drawShadowedText(caption, tx, y+h/2-7, color.White)
}

// drawWeatherWidget 天气部件：按日照强度给出虚拟温度
func (s *GardenScene) drawWeatherWidget(inst *game.WidgetInstance, x, y, w, h float64) {
	daylight := 0.0
	if config.DirLumensMax > 0 {
		daylight = float64(s.lighting.DirectionalIntensity) / config.DirLumensMax
	}
	celsius := 8.0 + 16.0*daylight

	var caption string
	if stringSetting(inst.Settings, "unit", "celsius") == "fahrenheit" {
		caption = fmt.Sprintf("%.0f°F", celsius*9/5+32)
	} else {
		caption = fmt.Sprintf("%.0f°C", celsius)
	}

	tx := x + w/2 - text.Advance(caption, s.hudFace)/2
	s.drawShadowedText(caption, tx, y+h/2-7, color.White)
}

// drawNoteWidget 便签部件：显示用户文本，超宽自动换行，竖向放不下的行丢弃
func (s *GardenScene) drawNoteWidget(inst *game.WidgetInstance, x, y, w, h float64) {
	note := stringSetting(inst.Settings, "text", "")
	if note == "" {
		note = "..."
	}

	const lineHeight = 14
	lines := utils.WrapText(note, s.hudFace, w-12)
	maxLines := int((h - 12) / lineHeight)
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	ink := color.RGBA{0xf0, 0xe6, 0xc8, 0xff}
	for i, line := range lines {
		s.drawShadowedText(line, x+6, y+6+float64(i*lineHeight), ink)
	}
}

// drawShadowedText 带一像素投影的文本，浅色底上也能读清
func (s *GardenScene) drawShadowedText(str string, x, y float64, clr color.Color) {
	shadowOp := &text.DrawOptions{}
	shadowOp.GeoM.Translate(x+1, y+1)
	shadowOp.ColorScale.ScaleWithColor(color.RGBA{0x00, 0x00, 0x00, 0xb4})
	text.Draw(s.canvas, str, s.hudFace, shadowOp)

	mainOp := &text.DrawOptions{}
	mainOp.GeoM.Translate(x, y)
	mainOp.ColorScale.ScaleWithColor(clr)
	text.Draw(s.canvas, str, s.hudFace, mainOp)
}

// formatClockTime 按 12/24 小时制与秒开关格式化时间
func formatClockTime(now time.Time, use24, showSeconds bool) string {
	switch {
	case use24 && showSeconds:
		return now.Format("15:04:05")
	case use24:
		return now.Format("15:04")
	case showSeconds:
		return now.Format("3:04:05 PM")
	default:
		return now.Format("3:04 PM")
	}
}

// boolSetting 从部件设置中取布尔值
func boolSetting(settings map[string]interface{}, key string, fallback bool) bool {
	if v, ok := settings[key].(bool); ok {
		return v
	}
	return fallback
}

// stringSetting 从部件设置中取字符串值
func stringSetting(settings map[string]interface{}, key string, fallback string) string {
	if v, ok := settings[key].(string); ok {
		return v
	}
	return fallback
}

// hexColor 解析 hex 配色串，失败时返回后备色
func hexColor(hex string, fallback color.RGBA) color.RGBA {
	c, err := colors.FromHex(hex)
	if err != nil {
		return fallback
	}
	return c
}
