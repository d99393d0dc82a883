package event

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"

	"github.com/yohamta/donburi"
)

// GameEvent は、ゲームロジックから発行されるすべてのイベントを示すマーカーインターフェースです。
type GameEvent interface {
	isGameEvent()
}

// UnitDied はユニットのHPが0になったときに発行されます。クエスト・パッシブ・ライフサイクル処理が購読します。
type UnitDied struct {
	Victim donburi.Entity
	Killer donburi.Entity // 攻撃者不明の場合は donburi.Null
	Cause  string
}

func (e UnitDied) isGameEvent() {}

// CursorMoved はマップカーソルが移動したときに発行されます。
type CursorMoved struct {
	From core.Tile
	To   core.Tile
}

func (e CursorMoved) isGameEvent() {}

// UnitTileChanged はユニットのマス位置が変わったときに発行されます。
type UnitTileChanged struct {
	Unit donburi.Entity
	From core.Tile
	To   core.Tile
}

func (e UnitTileChanged) isGameEvent() {}

// MoveFinished は移動システムが経路の最後まで進めたときに発行されます。
type MoveFinished struct {
	Unit donburi.Entity
}

func (e MoveFinished) isGameEvent() {}

// ActionFinalized は行動済みフラグが実際に立った(演出完了後)ときに発行されます。
type ActionFinalized struct {
	Unit donburi.Entity
}

func (e ActionFinalized) isGameEvent() {}

// PlayerStateChanged はプレイヤーターンの入力状態が遷移したときに発行されます。
type PlayerStateChanged struct {
	From core.PlayerTurnState
	To   core.PlayerTurnState
}

func (e PlayerStateChanged) isGameEvent() {}

// ExpGainStarted は経験値バーの演出を開始(または延長)したときに発行されます。
type ExpGainStarted struct {
	Unit   donburi.Entity
	Amount int
}

func (e ExpGainStarted) isGameEvent() {}

// WeaponEquipped は武器の装備を変更したときに発行されます。
type WeaponEquipped struct {
	Unit     donburi.Entity
	WeaponID string
}

func (e WeaponEquipped) isGameEvent() {}

// CycleTargetChanged はターゲット選択中に選択対象が変わったときに発行されます。
type CycleTargetChanged struct {
	State core.PlayerTurnState
	Index int
	Tile  core.Tile
}

func (e CycleTargetChanged) isGameEvent() {}

// ActionMenuSelectionChanged は行動メニューのカーソルが動いたときに発行されます。
type ActionMenuSelectionChanged struct {
	Index  int
	Option string
}

func (e ActionMenuSelectionChanged) isGameEvent() {}

// UnitInfoMenuSelectionChanged はユニット情報パネルの選択項目が変わったときに発行されます。
type UnitInfoMenuSelectionChanged struct {
	Unit donburi.Entity
	Node string
}

func (e UnitInfoMenuSelectionChanged) isGameEvent() {}

// DamageNumberShown はダメージ数値の表示を要求します。
type DamageNumberShown struct {
	Unit     donburi.Entity
	Tile     core.Tile
	Amount   int
	Critical bool
}

func (e DamageNumberShown) isGameEvent() {}

// DamageBlocked はシールドでダメージを防いだ表示を要求します。
type DamageBlocked struct {
	Unit donburi.Entity
	Tile core.Tile
}

func (e DamageBlocked) isGameEvent() {}

// InputRejected は入力が無視されたことを示します。UI側でブザー音を鳴らします。
type InputRejected struct {
	State  core.PlayerTurnState
	Reason string
}

func (e InputRejected) isGameEvent() {}

// TurnEnded はプレイヤーフェイズが終了したときに発行されます。
type TurnEnded struct {
	Team core.TeamID
}

func (e TurnEnded) isGameEvent() {}

// LevelUp はレベルアップが適用されたときに発行されます。
type LevelUp struct {
	Unit  donburi.Entity
	Level int
}

func (e LevelUp) isGameEvent() {}
