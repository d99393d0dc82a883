package system

import (
	"math"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/data"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/event"
	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// DamageOptions は ApplyDirectDamage の呼び出し側オプションです。
type DamageOptions struct {
	SuppressMarker bool   // ダメージ数値を表示しない
	Cause          string // 撃破時の UnitDied.Cause
}

// ConvertOptions は ConvertUnitAllegiance の呼び出し側オプションです。
type ConvertOptions struct {
	PreRecalc   func(entry *donburi.Entry) // 能力値の再計算前に呼ばれるフック
	SkipRestore bool                       // true の場合 HP/Wisp を全回復しない
}

// ActionExecutor はユニットへのダメージ・回復・経験値・所属変更を適用します。
// 演出用のコンポーネントには初期タイマーを設定するだけで、減算は毎フレームのシステムが行います。
type ActionExecutor struct {
	world  donburi.World
	config *data.Config
	query  *WorldQuery
	logger data.BattleLogger
}

// NewActionExecutor は新しい ActionExecutor を生成します。
func NewActionExecutor(world donburi.World, config *data.Config, q *WorldQuery, logger data.BattleLogger) *ActionExecutor {
	return &ActionExecutor{world: world, config: config, query: q, logger: logger}
}

func unitName(entry *donburi.Entry) string {
	if entry == nil || !entry.Valid() || !entry.HasComponent(component.UnitComponent) {
		return ""
	}
	return component.UnitComponent.Get(entry).Name
}

// ApplyDirectDamage は target に amount のダメージを与えます。実際にHPを減らした場合に true を返します。
// 既に倒れている対象には何もしません。シールドを持つ対象はシールドを消費して無傷で終わります。
func (ae *ActionExecutor) ApplyDirectDamage(target *donburi.Entry, amount float64, isCrit bool, attacker *donburi.Entry, opts DamageOptions) bool {
	if target == nil || !target.Valid() || !target.HasComponent(component.UnitComponent) {
		return false
	}
	u := component.UnitComponent.Get(target)
	if u.HP <= 0 {
		return false
	}
	tile := TileOf(target)

	if target.HasComponent(component.ShieldComponent) {
		target.RemoveComponent(component.ShieldComponent)
		event.Publish(ae.world, event.DamageBlocked{Unit: target.Entity(), Tile: tile})
		logger.For("combat").WithField("unit", u.Name).Debug("シールドがダメージを防ぎました")
		return false
	}

	dmg := int(math.Floor(amount))
	if dmg < 0 {
		dmg = 0
	}
	before := u.HP
	u.HP -= dmg
	if u.HP < 0 {
		u.HP = 0
	}

	ae.seedHPDrain(target, before, u.HP)
	if !target.HasComponent(component.ShakeComponent) {
		target.AddComponent(component.ShakeComponent)
	}
	component.ShakeComponent.SetValue(target, component.Shake{Timer: ae.config.Timers.ShakeTicks})
	ae.setTint(target, component.TintDamage)

	if !opts.SuppressMarker {
		event.Publish(ae.world, event.DamageNumberShown{Unit: target.Entity(), Tile: tile, Amount: dmg, Critical: isCrit})
	}
	ae.logger.LogDamage(unitName(attacker), u.Name, dmg, before, u.HP)

	if before > 0 && u.HP == 0 {
		ae.handleLethal(target, attacker, opts.Cause)
	}
	if u.HasPassive(core.PassiveParalysisAura) {
		ae.applyParalysisAura(target)
	}
	return true
}

// seedHPDrain はHPバー減少演出を開始します。演出中に再度ダメージを受けた場合は開始値を引き継ぎます。
func (ae *ActionExecutor) seedHPDrain(target *donburi.Entry, from, to int) {
	if target.HasComponent(component.PendingDamageComponent) {
		pd := component.PendingDamageComponent.Get(target)
		pd.ToHP = to
		pd.Timer = ae.config.Timers.HPDrainTicks
		return
	}
	target.AddComponent(component.PendingDamageComponent)
	component.PendingDamageComponent.SetValue(target, component.PendingDamage{
		FromHP: from,
		ToHP:   to,
		Timer:  ae.config.Timers.HPDrainTicks,
	})
}

func (ae *ActionExecutor) handleLethal(target, attacker *donburi.Entry, cause string) {
	killer := donburi.Null
	if attacker != nil && attacker.Valid() {
		killer = attacker.Entity()
	}
	ae.logger.LogDeath(unitName(target), unitName(attacker), cause)

	// 障害物はHPバーの演出を見せてから消えるため、すぐには削除しません。
	if target.HasComponent(component.ObstacleComponent) {
		if !target.HasComponent(component.FadeOutComponent) {
			target.AddComponent(component.FadeOutComponent)
		}
		component.FadeOutComponent.SetValue(target, component.FadeOut{Timer: ae.config.Timers.FadeOutTicks})
		return
	}
	event.Publish(ae.world, event.UnitDied{Victim: target.Entity(), Killer: killer, Cause: cause})
}

// applyParalysisAura は target の敵対陣営のうち範囲内にいるユニットを麻痺させます。
func (ae *ActionExecutor) applyParalysisAura(target *donburi.Entry) {
	radius := ae.config.Balance.ParalysisAuraRadius
	turns := ae.config.Balance.ParalysisTurns
	origin := TileOf(target)
	for _, other := range ae.query.UnitsOnBoard() {
		if other.Entity() == target.Entity() || !AreEnemies(target, other) {
			continue
		}
		if origin.Manhattan(TileOf(other)) > radius {
			continue
		}
		component.StatusComponent.Get(other).Apply(core.StatusParalyzed, turns)
		ae.setTint(other, component.TintParalyzed)
		logger.For("combat").WithFields(logrus.Fields{
			"source": unitName(target),
			"target": unitName(other),
		}).Info("麻痺オーラが発動しました")
	}
}

// ApplyDirectHeal は target のHPを回復します。倒れている対象には何もせず false を返します。
func (ae *ActionExecutor) ApplyDirectHeal(target *donburi.Entry, amount float64) bool {
	if target == nil || !target.Valid() || !target.HasComponent(component.UnitComponent) {
		return false
	}
	u := component.UnitComponent.Get(target)
	if u.HP <= 0 {
		return false
	}
	heal := int(math.Floor(amount))
	if heal < 0 {
		heal = 0
	}
	u.HP += heal
	if u.HP > u.Final.MaxHP {
		u.HP = u.Final.MaxHP
	}
	ae.setTint(target, component.TintHeal)
	return true
}

// setTint は色付け演出を開始します。既に色付け中なら色とタイマーを上書きします。
func (ae *ActionExecutor) setTint(entry *donburi.Entry, color string) {
	if !entry.HasComponent(component.TintComponent) {
		entry.AddComponent(component.TintComponent)
	}
	component.TintComponent.SetValue(entry, component.Tint{Timer: ae.config.Timers.TintTicks, Color: color})
}

// GrantExp はプレイヤーユニットに経験値を与えます。
// 実際の経験値は即座に加算し、経験値バーの演出は遅れて追従します。レベルアップの適用は
// PendingLevelUp を見るレベリングシステムが行います。
func (ae *ActionExecutor) GrantExp(unit *donburi.Entry, amount int) {
	if unit == nil || !unit.Valid() || !unit.HasComponent(component.UnitComponent) {
		return
	}
	u := component.UnitComponent.Get(unit)
	if u.Team != core.TeamPlayer {
		return
	}
	if u.Level >= ae.config.Balance.LevelCap {
		u.Exp = 0
		return
	}
	if amount <= 0 {
		return
	}

	if unit.HasComponent(component.ExpBarComponent) && component.ExpBarComponent.Get(unit).Phase != component.ExpBarIdle {
		bar := component.ExpBarComponent.Get(unit)
		bar.Gain += amount
		bar.Phase = component.ExpBarFilling
		bar.Timer = ae.config.Timers.ExpFillTicks
	} else {
		if !unit.HasComponent(component.ExpBarComponent) {
			unit.AddComponent(component.ExpBarComponent)
		}
		component.ExpBarComponent.SetValue(unit, component.ExpBar{
			Phase: component.ExpBarFilling,
			From:  u.Exp,
			Gain:  amount,
			Timer: ae.config.Timers.ExpFillTicks,
		})
	}

	u.Exp += amount
	ae.logger.LogExpGain(u.Name, amount, u.Exp)
	event.Publish(ae.world, event.ExpGainStarted{Unit: unit.Entity(), Amount: amount})

	if u.Exp >= ae.config.Balance.ExpPerLevel && !unit.HasComponent(component.PendingLevelUpComponent) {
		unit.AddComponent(component.PendingLevelUpComponent)
	}
}

// ConvertUnitAllegiance はユニットの所属陣営を変更します。
// 変更後のユニットは同じターン中でもすぐに行動できます。
// 同じユニットに対して同一tick内で二重に呼ばないことは呼び出し側の責任です。
func (ae *ActionExecutor) ConvertUnitAllegiance(unit *donburi.Entry, newTeam core.TeamID, opts ConvertOptions) bool {
	if unit == nil || !unit.Valid() || !unit.HasComponent(component.UnitComponent) {
		return false
	}
	u := component.UnitComponent.Get(unit)
	oldTeam := u.Team
	if oldTeam == newTeam {
		return false
	}

	reg := entity.GetRegistry(ae.world)
	entity.RemoveFromTeam(reg, oldTeam, unit.Entity())
	reg.Rosters[newTeam] = append(reg.Rosters[newTeam], unit.Entity())
	if len(u.Passives) > 0 {
		reg.PassiveProviders[newTeam] = append(reg.PassiveProviders[newTeam], unit.Entity())
	}

	u.Team = newTeam
	u.HasActed = false
	if unit.HasComponent(component.PendingActedComponent) {
		unit.RemoveComponent(component.PendingActedComponent)
	}
	u.Facing = core.DirDown
	component.StatusComponent.SetValue(unit, component.Statuses{Effects: make(map[core.StatusType]int)})

	if opts.PreRecalc != nil {
		opts.PreRecalc(unit)
	}
	RecalculateStats(ae.query, unit)
	if !opts.SkipRestore {
		u.HP = u.Final.MaxHP
		u.Wisp = u.Final.MaxWisp
	}

	logger.For("combat").WithFields(logrus.Fields{
		"unit": u.Name,
		"from": oldTeam,
		"to":   newTeam,
	}).Info("ユニットの所属が変わりました")
	return true
}
