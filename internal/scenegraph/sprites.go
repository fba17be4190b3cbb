package scenegraph

import (
	"image/color"
	"log"

	"cogentcore.org/core/colors"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/garden/pkg/components"
	"github.com/decker502/garden/pkg/config"
)

// 程序化精灵
//
// 花园对象没有外部美术资源，全部贴图在运行期用矢量图元画出来。
// 形状由类型的占地与配色决定，已知的装饰类型有各自的造型，
// 未知类型退化为描边色块，保证目录扩展后画面仍然可用。

// spriteKey 精灵缓存键：同类型同变体共享一张贴图
type spriteKey struct {
	typeID  string
	variant components.VisualVariant
}

type spriteCache struct {
	images map[spriteKey]*ebiten.Image
	defs   map[string]*config.ObjectTypeDefinition
}

func newSpriteCache() *spriteCache {
	return &spriteCache{
		images: make(map[spriteKey]*ebiten.Image),
		defs:   make(map[string]*config.ObjectTypeDefinition),
	}
}

// get 取出（必要时构建）某类型某变体的共享精灵
func (c *spriteCache) get(def *config.ObjectTypeDefinition, variant components.VisualVariant) *ebiten.Image {
	c.defs[def.TypeID] = def
	key := spriteKey{typeID: def.TypeID, variant: variant}
	if img, ok := c.images[key]; ok {
		return img
	}
	img := buildSprite(def, variant)
	c.images[key] = img
	return img
}

// lookupDef 返回之前见过的类型定义（变体切换时复用）
func (c *spriteCache) lookupDef(typeID string) (*config.ObjectTypeDefinition, bool) {
	def, ok := c.defs[typeID]
	return def, ok
}

func (c *spriteCache) clear() {
	c.images = make(map[spriteKey]*ebiten.Image)
	c.defs = make(map[string]*config.ObjectTypeDefinition)
}

// buildSprite 按类型定义画出一张精灵
func buildSprite(def *config.ObjectTypeDefinition, variant components.VisualVariant) *ebiten.Image {
	w := float32(config.CellSize) * float32(def.FootprintCols)
	h := float32(config.CellSize) * float32(def.FootprintRows)
	img := ebiten.NewImage(int(w), int(h))

	body := parseSpriteColor(def.BodyColor, color.RGBA{R: 0x5d, G: 0x8a, B: 0x4a, A: 0xff})
	accent := parseSpriteColor(def.AccentColor, color.RGBA{R: 0x9c, G: 0xcc, B: 0x65, A: 0xff})

	if def.IsPlant() {
		drawPlant(img, w, h, body, accent, variant == components.VariantThirsty)
	} else {
		drawDecor(img, def.TypeID, w, h, body, accent)
	}
	return img
}

func parseSpriteColor(hex string, fallback color.RGBA) color.RGBA {
	if hex == "" {
		return fallback
	}
	clr, err := colors.FromHex(hex)
	if err != nil {
		log.Printf("[SceneGraph] Bad sprite color %q: %v, using fallback", hex, err)
		return fallback
	}
	return clr
}

// drawPlant 画植物：下方茎干 + 三团叶簇
// 缺水变体整体褪色并下垂，加两笔枯叶
func drawPlant(img *ebiten.Image, w, h float32, body, accent color.RGBA, thirsty bool) {
	droop := float32(0)
	if thirsty {
		body = desaturate(body)
		accent = desaturate(accent)
		droop = h * 0.08
	}

	stem := shade(body, 0.55)
	vector.DrawFilledRect(img, w/2-w*0.04, h*0.45, w*0.08, h*0.5, stem, true)

	// 叶簇：中间一团大的，两侧各一团小的
	cy := h*0.38 + droop
	vector.DrawFilledCircle(img, w*0.30, cy+h*0.08, w*0.20, body, true)
	vector.DrawFilledCircle(img, w*0.70, cy+h*0.08, w*0.20, body, true)
	vector.DrawFilledCircle(img, w*0.50, cy, w*0.28, accent, true)
	// 高光
	vector.DrawFilledCircle(img, w*0.42, cy-h*0.08, w*0.09, shade(accent, 1.25), true)

	if thirsty {
		wilt := shade(body, 0.45)
		vector.StrokeLine(img, w*0.30, cy+h*0.16, w*0.18, h*0.88, 2, wilt, true)
		vector.StrokeLine(img, w*0.70, cy+h*0.16, w*0.82, h*0.88, 2, wilt, true)
	}
}

// drawDecor 画装饰物：已知类型有专属造型，未知类型画描边色块
func drawDecor(img *ebiten.Image, typeID string, w, h float32, body, accent color.RGBA) {
	switch typeID {
	case "gnome":
		// 身体、胡子、尖帽
		vector.DrawFilledCircle(img, w/2, h*0.62, w*0.26, body, true)
		vector.DrawFilledCircle(img, w/2, h*0.46, w*0.16, accent, true)
		fillTriangle(img, w/2, h*0.08, w*0.30, h*0.42, w*0.70, h*0.42, shade(body, 1.2))
	case "stone_lantern":
		// 底座、灯柱、灯罩与暖光
		vector.DrawFilledRect(img, w*0.25, h*0.82, w*0.5, h*0.12, shade(body, 0.8), true)
		vector.DrawFilledRect(img, w*0.42, h*0.40, w*0.16, h*0.44, body, true)
		vector.DrawFilledRect(img, w*0.20, h*0.22, w*0.60, h*0.18, shade(body, 1.1), true)
		vector.DrawFilledCircle(img, w/2, h*0.31, w*0.10, accent, true)
	case "bench":
		// 座板、靠背、两条腿
		vector.DrawFilledRect(img, w*0.06, h*0.40, w*0.88, h*0.16, body, true)
		vector.DrawFilledRect(img, w*0.06, h*0.18, w*0.88, h*0.10, shade(body, 1.15), true)
		vector.DrawFilledRect(img, w*0.12, h*0.56, w*0.08, h*0.34, shade(body, 0.7), true)
		vector.DrawFilledRect(img, w*0.80, h*0.56, w*0.08, h*0.34, shade(body, 0.7), true)
	case "fountain":
		// 外沿、水面、中央喷口
		vector.DrawFilledCircle(img, w/2, h/2, w*0.46, shade(body, 0.9), true)
		vector.DrawFilledCircle(img, w/2, h/2, w*0.38, accent, true)
		vector.DrawFilledCircle(img, w/2, h/2, w*0.10, shade(body, 1.2), true)
		vector.StrokeCircle(img, w/2, h/2, w*0.46, 2, shade(body, 0.6), true)
	default:
		vector.DrawFilledRect(img, w*0.12, h*0.12, w*0.76, h*0.76, body, true)
		vector.StrokeRect(img, w*0.12, h*0.12, w*0.76, h*0.76, 2, shade(body, 0.6), true)
		vector.DrawFilledCircle(img, w/2, h/2, w*0.16, accent, true)
	}
}

// fillTriangle 用路径填充画一个三角形
func fillTriangle(dst *ebiten.Image, x0, y0, x1, y1, x2, y2 float32, clr color.RGBA) {
	path := &vector.Path{}
	path.MoveTo(x0, y0)
	path.LineTo(x1, y1)
	path.LineTo(x2, y2)
	path.Close()

	var vertices []ebiten.Vertex
	var indices []uint16
	vertices, indices = path.AppendVerticesAndIndicesForFilling(vertices, indices)
	r := float32(clr.R) / 255
	g := float32(clr.G) / 255
	b := float32(clr.B) / 255
	a := float32(clr.A) / 255
	for i := range vertices {
		vertices[i].ColorR = r
		vertices[i].ColorG = g
		vertices[i].ColorB = b
		vertices[i].ColorA = a
	}
	dst.DrawTriangles(vertices, indices, whiteTexture(), nil)
}

var whitePixel *ebiten.Image

// whiteTexture 1x1 白色贴图，路径填充的纹理源
func whiteTexture() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// shade 按系数调亮/调暗颜色
func shade(c color.RGBA, f float64) color.RGBA {
	scale := func(v uint8) uint8 {
		s := float64(v) * f
		if s > 255 {
			s = 255
		}
		return uint8(s)
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// desaturate 把颜色压向枯黄的土色，用于缺水变体
func desaturate(c color.RGBA) color.RGBA {
	mix := func(v, target uint8) uint8 {
		return uint8((int(v)*2 + int(target)*3) / 5)
	}
	return color.RGBA{R: mix(c.R, 0xb0), G: mix(c.G, 0x9a), B: mix(c.B, 0x6a), A: c.A}
}
