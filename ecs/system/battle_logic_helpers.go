package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"

	"github.com/yohamta/donburi"
)

// CombatSnapshot は計算式に渡すユニットの読み取り専用コピーです。
// 計算式はワールドを参照せず、このスナップショットだけで結果を決めます。
type CombatSnapshot struct {
	Name      string
	Team      core.TeamID
	Origin    core.Origin
	Level     int
	ExpReward int

	Stats core.Stats
	HP    int
	Wisp  int

	Passives   []core.PassiveID
	Invincible bool
	Weapons    []*core.WeaponDefinition

	AdjacentAllies int
	OnWinTile      bool
}

// HasPassive はスナップショットがパッシブを持つかを返します。
func (s CombatSnapshot) HasPassive(id core.PassiveID) bool {
	for _, p := range s.Passives {
		if p == id {
			return true
		}
	}
	return false
}

// HPRatio は現在HPの割合です。最大HPが0以下なら1として扱います。
func (s CombatSnapshot) HPRatio() float64 {
	if s.Stats.MaxHP <= 0 {
		return 1
	}
	return float64(s.HP) / float64(s.Stats.MaxHP)
}

// Snapshot はユニットの現在の状態から CombatSnapshot を作ります。
func (q *WorldQuery) Snapshot(entry *donburi.Entry) CombatSnapshot {
	u := component.UnitComponent.Get(entry)
	snap := CombatSnapshot{
		Name:       u.Name,
		Team:       u.Team,
		Origin:     u.Origin,
		Level:      u.Level,
		ExpReward:  u.ExpReward,
		Stats:      u.Final,
		HP:         u.HP,
		Wisp:       u.Wisp,
		Passives:   u.Passives,
		Invincible: q.HasStatus(entry, core.StatusInvincible),
		Weapons:    q.EquippedWeapons(entry),
	}
	if entry.HasComponent(component.PositionComponent) && !entry.HasComponent(component.CarriedTag) {
		snap.AdjacentAllies = q.AdjacentAllyCount(entry)
		snap.OnWinTile = q.OnWinTile(entry)
	}
	return snap
}
