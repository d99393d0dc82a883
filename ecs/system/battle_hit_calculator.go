package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/data"
)

// HitCalculator は命中・会心の判定を担当します。
// 確率の計算式は上下限を持たない比率を返し、判定時にだけ [0, 1] に収めます。
type HitCalculator struct {
	rand   core.Roller
	logger data.BattleLogger
}

// NewHitCalculator は新しい HitCalculator のインスタンスを生成します。
func NewHitCalculator(r core.Roller, logger data.BattleLogger) *HitCalculator {
	return &HitCalculator{rand: r, logger: logger}
}

// HitChance は命中率を返します。知略差が大きいと1を超えたり負になったりします。
func HitChance(attacker, defender CombatSnapshot, move *core.AttackDefinition) float64 {
	return float64(move.Accuracy)/100 + float64(attacker.Stats.Wit-defender.Stats.Wit)/100
}

// CritChance は会心率を返します。HitChance と同じく上下限はありません。
func CritChance(attacker, defender CombatSnapshot, move *core.AttackDefinition) float64 {
	return float64(move.Crit+(attacker.Stats.Wit-defender.Stats.Wit)) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RollHit は命中判定を行います。
func (hc *HitCalculator) RollHit(attacker, defender CombatSnapshot, move *core.AttackDefinition) bool {
	chance := clamp01(HitChance(attacker, defender, move))
	roll := hc.rand.Float64()
	hit := roll < chance
	hc.logger.LogHitCheck(attacker.Name, defender.Name, chance, roll, hit)
	return hit
}

// RollCrit は会心判定を行います。
func (hc *HitCalculator) RollCrit(attacker, defender CombatSnapshot, move *core.AttackDefinition) bool {
	chance := clamp01(CritChance(attacker, defender, move))
	if hc.rand.Float64() < chance {
		hc.logger.LogCriticalHit(attacker.Name, chance)
		return true
	}
	return false
}
