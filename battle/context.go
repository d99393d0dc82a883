package battle

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"
	"github.com/FranklyNathan/BrambleWars-sub002/event"

	"github.com/yohamta/donburi"
)

// MenuOptionKind は行動メニュー項目の種類です。
type MenuOptionKind string

const (
	OptionAttack  MenuOptionKind = "attack"
	OptionWait    MenuOptionKind = "wait"
	OptionShop    MenuOptionKind = "shop"
	OptionRescue  MenuOptionKind = "rescue"
	OptionDrop    MenuOptionKind = "drop"
	OptionShove   MenuOptionKind = "shove"
	OptionTake    MenuOptionKind = "take"
	OptionEquip   MenuOptionKind = "equip"
	OptionPromote MenuOptionKind = "promote"
	OptionBurrow  MenuOptionKind = "burrow"

	OptionEndTurn MenuOptionKind = "end_turn"
	OptionDraft   MenuOptionKind = "draft"
)

// MenuOption は行動メニュー・マップメニューの1項目です。
type MenuOption struct {
	Kind   MenuOptionKind
	Label  string
	Attack *core.AttackDefinition
}

// Scratch は入力状態ごとの作業データです。選択解除や行動確定でまとめて捨てます。
type Scratch struct {
	Selected *donburi.Entry
	Range    *system.MoveRange
	Trail    []core.Tile

	Menu      []MenuOption
	MenuIndex int

	Attack *core.AttackDefinition
	// Targets は対象ユニットを選ぶ状態の候補、Tiles はマスを選ぶ状態の候補です。
	Targets []*donburi.Entry
	Tiles   []core.Tile
	Index   int

	Secondary      []core.Tile
	SecondaryIndex int
	Aim            core.Tile

	// 一覧から選ぶメニュー(武器・ショップ・クラスチェンジ)の候補です。
	Weapons    []string
	Stock      []*core.WeaponDefinition
	Promotions []*core.PromotionDefinition
	ListIndex  int

	Hover     *system.MoveRange
	Inspected *donburi.Entry
	InfoNode  InfoNode
	DraftPick *donburi.Entry
}

// InputContext は状態ハンドラが共有する依存関係と作業データです。
// カーソル位置は作業データとは別に保持し、選択解除後も残します。
type InputContext struct {
	Rules  *system.Rules
	Cursor core.Tile
	Scratch

	controller *Controller
}

func (ctx *InputContext) query() *system.WorldQuery {
	return ctx.Rules.Query
}

// State は現在の入力状態です。
func (ctx *InputContext) State() core.PlayerTurnState {
	return ctx.controller.State()
}

func (ctx *InputContext) clearScratch() {
	ctx.Scratch = Scratch{}
}

// moveCursor はカーソルを1マス動かします。マップ外には出ません。動いた場合は true を返します。
func (ctx *InputContext) moveCursor(key core.Key) bool {
	dir, ok := core.DirectionFromKey(key)
	if !ok {
		return false
	}
	next := ctx.Cursor.Step(dir)
	if !ctx.query().Map().InBounds(next) {
		return false
	}
	ctx.setCursor(next)
	return true
}

// setCursor はカーソルを tile に置き、CursorMoved を発行します。
func (ctx *InputContext) setCursor(tile core.Tile) {
	if tile == ctx.Cursor {
		return
	}
	from := ctx.Cursor
	ctx.Cursor = tile
	event.Publish(ctx.Rules.World, event.CursorMoved{From: from, To: tile})
}

// wrap は n 個の候補の中で index を delta だけ循環させます。
func wrap(index, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((index+delta)%n + n) % n
}

// cycleDelta は左右(と上下)キーを循環方向に変換します。
func cycleDelta(key core.Key) int {
	switch key {
	case core.KeyRight, core.KeyDown:
		return 1
	case core.KeyLeft, core.KeyUp:
		return -1
	}
	return 0
}

// menuDelta は上下キーだけを循環方向に変換します。
func menuDelta(key core.Key) int {
	switch key {
	case core.KeyDown:
		return 1
	case core.KeyUp:
		return -1
	}
	return 0
}

func (ctx *InputContext) publishListSelection(index int, label string) {
	event.Publish(ctx.Rules.World, event.ActionMenuSelectionChanged{Index: index, Option: label})
}

// focusTarget は state で選択中の index 番目の対象にカーソルを合わせます。
// 技の対象選択中は使用者の向きも対象へ向けます。
func (ctx *InputContext) focusTarget(state core.PlayerTurnState, tile core.Tile, index int, face bool) {
	ctx.setCursor(tile)
	if face && ctx.Selected != nil {
		from := system.TileOf(ctx.Selected)
		if from != tile {
			unitOf(ctx.Selected).Facing = core.FacingToward(from, tile)
		}
	}
	event.Publish(ctx.Rules.World, event.CycleTargetChanged{State: state, Index: index, Tile: tile})
}
