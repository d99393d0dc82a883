package system

import (
	"math"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/data"
)

// DamageCalculator はダメージ・回復量・経験値の計算式を担当します。
// すべて純粋関数で、ユニットの状態は CombatSnapshot として受け取ります。
type DamageCalculator struct {
	balance data.BalanceConfig
}

// NewDamageCalculator は新しい DamageCalculator のインスタンスを生成します。
func NewDamageCalculator(balance data.BalanceConfig) *DamageCalculator {
	return &DamageCalculator{balance: balance}
}

// beats は各属性が有利を取る相手です。
var beats = map[core.Origin]core.Origin{
	core.OriginFlame:   core.OriginVerdant,
	core.OriginVerdant: core.OriginTide,
	core.OriginTide:    core.OriginFlame,
}

// TypeEffectiveness は技の属性と防御側の属性から倍率を返します。
// どちらかの属性が未設定なら等倍です。
func (dc *DamageCalculator) TypeEffectiveness(moveOrigin, defenderOrigin core.Origin) float64 {
	if moveOrigin == core.OriginNone || defenderOrigin == core.OriginNone {
		return 1.0
	}
	switch {
	case beats[moveOrigin] == defenderOrigin:
		return dc.balance.TypeAdvantage
	case beats[defenderOrigin] == moveOrigin:
		return dc.balance.TypeDisadvantage
	}
	return 1.0
}

// moveOrigin は技の属性です。技に属性がなければ使用者の属性を使います。
func moveOrigin(attacker CombatSnapshot, move *core.AttackDefinition) core.Origin {
	if move.Origin != core.OriginNone {
		return move.Origin
	}
	return attacker.Origin
}

// BaseDamage は補正前のダメージを計算します。
func (dc *DamageCalculator) BaseDamage(attacker, defender CombatSnapshot, move *core.AttackDefinition) int {
	if move == nil {
		return 0
	}
	if defender.Invincible && !move.BypassInvincible {
		return 0
	}
	if move.TrueDamage {
		return move.Power
	}
	if !move.DealsDamage() {
		return 0
	}

	offense, defense := attacker.Stats.Attack, defender.Stats.Defense
	if move.Use == core.UseMagical {
		offense, defense = attacker.Stats.Magic, defender.Stats.Resistance
	}
	// 無頓着: 防御側は攻撃側の武器による上乗せを受けません。
	if defender.HasPassive(core.PassiveOblivious) {
		for _, w := range attacker.Weapons {
			if move.Use == core.UseMagical {
				offense -= w.Bonus.Magic
			} else {
				offense -= w.Bonus.Attack
			}
		}
	}

	adjusted := float64(move.Power+offense) * dc.TypeEffectiveness(moveOrigin(attacker, move), defender.Origin)
	raw := adjusted - float64(defense)
	if raw < 0 {
		return 0
	}
	return int(math.Floor(raw))
}

// FinalDamage は基礎ダメージにパッシブや武器特性の倍率を順に掛けます。
// 順序: 会心 → 背水 → 霊焼 → 共鳴 → 決死 → 無傷(防御側)。
func (dc *DamageCalculator) FinalDamage(attacker, defender CombatSnapshot, move *core.AttackDefinition, isCrit bool) int {
	base := dc.BaseDamage(attacker, defender, move)
	if base <= 0 {
		return 0
	}
	dmg := float64(base)

	if isCrit {
		dmg *= dc.balance.CriticalMultiplier
	}
	if attacker.HasPassive(core.PassiveDesperate) {
		dmg *= 1 + (1 - attacker.HPRatio())
	}
	if attacker.Wisp > 0 {
		for _, w := range attacker.Weapons {
			if w.SpiritBurn > 0 {
				dmg *= w.SpiritBurn
				break
			}
		}
	}
	if attacker.AdjacentAllies > 0 {
		for _, w := range attacker.Weapons {
			if w.HarmonyBonus > 0 {
				dmg *= 1 + float64(attacker.AdjacentAllies)*w.HarmonyBonus
				break
			}
		}
	}
	if attacker.HasPassive(core.PassiveLastStand) && attacker.OnWinTile {
		dmg *= dc.balance.LastStandMultiplier
	}
	if defender.HasPassive(core.PassivePristine) && defender.HP >= defender.Stats.MaxHP {
		dmg *= dc.balance.PristineMultiplier
	}
	return int(math.Floor(dmg))
}

// HealingAmount は回復量を返します。
func (dc *DamageCalculator) HealingAmount(healer CombatSnapshot, move *core.AttackDefinition) int {
	if move == nil {
		return 0
	}
	return int(math.Floor(float64(healer.Stats.Magic + move.Power)))
}

// ExpGain は攻撃で得られる経験値を返します。プレイヤーが敵に攻撃した場合のみ発生し、
// 発生する場合は最低1です。
func (dc *DamageCalculator) ExpGain(attacker, defender CombatSnapshot, isKill bool) int {
	if attacker.Team != core.TeamPlayer || defender.Team != core.TeamEnemy {
		return 0
	}
	if defender.ExpReward <= 0 {
		return 0
	}
	divisor := dc.balance.ExpDivisorHit
	if isKill {
		divisor = dc.balance.ExpDivisorKill
	}
	if divisor <= 0 {
		return 1
	}
	exp := float64(dc.balance.ExpBase+(defender.Level-attacker.Level)) * (float64(defender.ExpReward) / divisor)
	if attacker.HasPassive(core.PassiveFastLearner) {
		exp *= dc.balance.FastLearnerMultiplier
	}
	gained := int(math.Floor(exp))
	if gained < 1 {
		return 1
	}
	return gained
}
