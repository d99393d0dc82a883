package main

import (
	"fmt"
	"image/color"

	"github.com/FranklyNathan/BrambleWars-sub002/battle"
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

var (
	colorGrass    = color.RGBA{R: 0x4a, G: 0x7a, B: 0x3a, A: 0xff}
	colorWater    = color.RGBA{R: 0x2a, G: 0x5a, B: 0xa0, A: 0xff}
	colorIce      = color.RGBA{R: 0xb0, G: 0xe0, B: 0xf0, A: 0xff}
	colorMud      = color.RGBA{R: 0x6a, G: 0x50, B: 0x30, A: 0xff}
	colorGrid     = color.RGBA{R: 0x20, G: 0x30, B: 0x20, A: 0xff}
	colorShop     = color.RGBA{R: 0xe0, G: 0xc0, B: 0x40, A: 0xff}
	colorWin      = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	colorMove     = color.RGBA{R: 0x40, G: 0x80, B: 0xff, A: 0x70}
	colorPass     = color.RGBA{R: 0x40, G: 0x80, B: 0xff, A: 0x30}
	colorTarget   = color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0x80}
	colorCursor   = color.RGBA{R: 0xff, G: 0xff, B: 0x80, A: 0xff}
	colorPlayer   = color.RGBA{R: 0x40, G: 0x90, B: 0xe0, A: 0xff}
	colorEnemy    = color.RGBA{R: 0xd0, G: 0x40, B: 0x40, A: 0xff}
	colorNeutral  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	colorActed    = color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff}
	colorHPBack   = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	colorHP       = color.RGBA{R: 0x60, G: 0xe0, B: 0x60, A: 0xff}
	colorHPDrain  = color.RGBA{R: 0xe0, G: 0x80, B: 0x40, A: 0xff}
	colorHUDPanel = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}
)

var tintColors = map[string]color.RGBA{
	component.TintDamage:    {R: 0xff, G: 0x30, B: 0x30, A: 0xa0},
	component.TintHeal:      {R: 0x60, G: 0xff, B: 0x80, A: 0xa0},
	component.TintParalyzed: {R: 0xf0, G: 0xe0, B: 0x40, A: 0xa0},
}

var obstacleQuery = query.NewQuery(filter.Contains(component.ObstacleComponent, component.PositionComponent))

func fillTile(screen *ebiten.Image, t core.Tile, size int, clr color.Color) {
	vector.DrawFilledRect(screen, float32(t.X*size), float32(t.Y*size), float32(size), float32(size), clr, false)
}

func strokeTile(screen *ebiten.Image, t core.Tile, size int, width float32, clr color.Color) {
	vector.StrokeRect(screen, float32(t.X*size)+1, float32(t.Y*size)+1, float32(size)-2, float32(size)-2, width, clr, false)
}

// drawBoard は地形と特殊マスを描画します。
func drawBoard(screen *ebiten.Image, r *system.Rules) {
	m := entity.GetMap(r.World)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := core.Tile{X: x, Y: y}
			clr := colorGrass
			switch m.TerrainAt(t) {
			case core.TerrainWater:
				clr = colorWater
				if m.Frozen[t] {
					clr = colorIce
				}
			case core.TerrainMud:
				clr = colorMud
			}
			fillTile(screen, t, m.TileSize, clr)
			strokeTile(screen, t, m.TileSize, 1, colorGrid)
			if m.ShopTiles[t] {
				strokeTile(screen, t, m.TileSize, 2, colorShop)
			}
			if m.WinTiles[t] {
				strokeTile(screen, t, m.TileSize, 2, colorWin)
			}
		}
	}
	for edge := range m.Ledges {
		x1, y1 := float32(edge.From.X*m.TileSize+m.TileSize/2), float32(edge.From.Y*m.TileSize+m.TileSize/2)
		x2, y2 := float32(edge.To.X*m.TileSize+m.TileSize/2), float32(edge.To.Y*m.TileSize+m.TileSize/2)
		vector.StrokeLine(screen, x1, y1, x2, y2, 3, colorGrid, false)
	}
}

// drawOverlay は入力状態に応じて移動範囲・対象候補・カーソルを重ねます。
func drawOverlay(screen *ebiten.Image, r *system.Rules, c *battle.Controller) {
	size := entity.GetMap(r.World).TileSize
	ctx := c.Context()

	moveRange := ctx.Range
	if moveRange == nil {
		moveRange = ctx.Hover
	}
	if moveRange != nil {
		for t, info := range moveRange.Reachable {
			clr := colorMove
			if !info.Landable {
				clr = colorPass
			}
			fillTile(screen, t, size, clr)
		}
	}
	for _, t := range ctx.Trail {
		strokeTile(screen, t, size, 1, colorCursor)
	}
	for _, e := range ctx.Targets {
		if e.Valid() {
			fillTile(screen, system.TileOf(e), size, colorTarget)
		}
	}
	for _, t := range ctx.Tiles {
		fillTile(screen, t, size, colorTarget)
	}
	for _, t := range ctx.Secondary {
		strokeTile(screen, t, size, 2, colorTarget)
	}
	if c.State() == core.StateGroundAiming && ctx.Attack != nil {
		for _, t := range r.Query.TilesInRange(ctx.Aim, 0, ctx.Attack.AreaRadius) {
			fillTile(screen, t, size, colorTarget)
		}
	}
	strokeTile(screen, ctx.Cursor, size, 2, colorCursor)
}

// drawUnits は障害物とユニット、HPバーを描画します。
func drawUnits(screen *ebiten.Image, r *system.Rules) {
	size := float32(entity.GetMap(r.World).TileSize)
	drainTicks := r.Config.Timers.HPDrainTicks

	obstacleQuery.Each(r.World, func(e *donburi.Entry) {
		if e.HasComponent(component.DeleteMarkTag) {
			return
		}
		p := component.PositionComponent.Get(e).Pixel
		clr := colorNeutral
		if e.HasComponent(component.FadeOutComponent) {
			clr.A = uint8(0xff * component.FadeOutComponent.Get(e).Timer / max(r.Config.Timers.FadeOutTicks, 1))
		}
		vector.DrawFilledRect(screen, float32(p.X)+6, float32(p.Y)+6, size-12, size-12, clr, false)
	})

	for _, e := range r.Query.UnitsOnBoard() {
		u := component.UnitComponent.Get(e)
		p := component.PositionComponent.Get(e).Pixel
		x, y := float32(p.X), float32(p.Y)
		if e.HasComponent(component.ShakeComponent) && component.ShakeComponent.Get(e).Timer%4 < 2 {
			x += 2
		}
		if e.HasComponent(component.LungeComponent) {
			d := core.Tile{}.Step(component.LungeComponent.Get(e).Direction)
			x += float32(d.X * 4)
			y += float32(d.Y * 4)
		}

		clr := colorEnemy
		switch {
		case u.HasActed || e.HasComponent(component.PendingActedComponent):
			clr = colorActed
		case u.Team == core.TeamPlayer:
			clr = colorPlayer
		}
		vector.DrawFilledCircle(screen, x+size/2, y+size/2, size/2-4, clr, true)
		if e.HasComponent(component.TintComponent) {
			if tint, ok := tintColors[component.TintComponent.Get(e).Color]; ok {
				vector.DrawFilledCircle(screen, x+size/2, y+size/2, size/2-4, tint, true)
			}
		}
		if system.IsCarrying(e) {
			vector.StrokeCircle(screen, x+size/2, y+size/2, size/2-2, 2, colorShop, true)
		}

		shown := u.HP
		if e.HasComponent(component.PendingDamageComponent) && drainTicks > 0 {
			pd := component.PendingDamageComponent.Get(e)
			shown = pd.ToHP + (pd.FromHP-pd.ToHP)*pd.Timer/drainTicks
		}
		ratio := float32(shown) / float32(max(u.Final.MaxHP, 1))
		vector.DrawFilledRect(screen, x+2, y+size-5, size-4, 3, colorHPBack, false)
		barClr := colorHP
		if shown != u.HP {
			barClr = colorHPDrain
		}
		vector.DrawFilledRect(screen, x+2, y+size-5, (size-4)*ratio, 3, barClr, false)
		if u.Name != "" {
			ebitenutil.DebugPrintAt(screen, u.Name[:1], int(x)+int(size)/2-3, int(y)+int(size)/2-8)
		}
	}
}

// drawHUD はフェイズ、入力状態、メニュー、カーソル下のユニット情報を表示します。
func drawHUD(screen *ebiten.Image, g *Game) {
	m := entity.GetMap(g.rules.World)
	top := m.Height * m.TileSize
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	vector.DrawFilledRect(screen, 0, float32(top), float32(w), float32(h-top), colorHUDPanel, false)

	phase := entity.GetPhase(g.rules.World)
	gold := entity.GetRegistry(g.rules.World).Gold[core.TeamPlayer]
	ctx := g.controller.Context()
	ebitenutil.DebugPrintAt(screen, g.messages.FormatMessage("hud.status", map[string]any{
		"turn": phase.Turn, "team": phase.Active, "gold": gold, "state": g.controller.State(),
	}), 4, top+2)

	if unit := g.rules.Query.UnitAt(ctx.Cursor, nil); unit != nil {
		u := component.UnitComponent.Get(unit)
		ebitenutil.DebugPrintAt(screen, g.messages.FormatMessage("hud.unit", map[string]any{
			"name": u.Name, "level": u.Level, "hp": u.HP, "max_hp": u.Final.MaxHP,
			"wisp": u.Wisp, "max_wisp": u.Final.MaxWisp, "attack": u.Final.Attack, "defense": u.Final.Defense,
			"magic": u.Final.Magic, "resistance": u.Final.Resistance, "wit": u.Final.Wit,
		}), 4, top+16)
	}

	if len(ctx.Menu) > 0 {
		line := ""
		for i, opt := range ctx.Menu {
			mark := " "
			if i == ctx.MenuIndex {
				mark = ">"
			}
			line += mark + opt.Label + " "
		}
		ebitenutil.DebugPrintAt(screen, line, 4, top+30)
	}
	if list := listLabels(ctx); len(list) > 0 {
		line := ""
		for i, label := range list {
			mark := " "
			if i == ctx.ListIndex {
				mark = ">"
			}
			line += mark + label + " "
		}
		ebitenutil.DebugPrintAt(screen, line, 4, top+44)
	}

	switch {
	case g.winner == core.TeamPlayer:
		ebitenutil.DebugPrintAt(screen, g.messages.FormatMessage("hud.victory", nil), w/2-20, top/2)
	case g.winner == core.TeamEnemy:
		ebitenutil.DebugPrintAt(screen, g.messages.FormatMessage("hud.defeat", nil), w/2-18, top/2)
	case g.rejectTimer > 0:
		ebitenutil.DebugPrintAt(screen, "! "+g.lastRejection, w-200, top+2)
	}
}

// listLabels は武器・ショップ・クラスチェンジの一覧表示用ラベルを返します。
func listLabels(ctx *battle.InputContext) []string {
	var labels []string
	switch {
	case len(ctx.Weapons) > 0:
		labels = append(labels, ctx.Weapons...)
	case len(ctx.Stock) > 0:
		for _, w := range ctx.Stock {
			labels = append(labels, fmt.Sprintf("%s(%dG)", w.Name, w.Price))
		}
	case len(ctx.Promotions) > 0:
		for _, p := range ctx.Promotions {
			labels = append(labels, p.Name)
		}
	}
	return labels
}
