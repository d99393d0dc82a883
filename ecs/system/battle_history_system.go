package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// UpdateHistorySystem は技の結果から敵AIの交戦履歴を更新します。
// ExecuteAttack がすべての対象を処理した後に呼び出します。
func UpdateHistorySystem(r *Rules, attacker *donburi.Entry, outcomes []AttackOutcome) {
	if attacker == nil || !attacker.Valid() {
		return
	}
	for _, out := range outcomes {
		target := out.Target
		if target == nil || !target.Valid() || target.Entity() == attacker.Entity() || AreAllies(attacker, target) {
			continue
		}

		// 攻撃側: 命中した相手を記録します。
		if out.Hit && attacker.HasComponent(component.AIComponent) {
			component.AIComponent.Get(attacker).LastHitTarget = target
			r.Logger.WithFields(logrus.Fields{
				"unit":   unitName(attacker),
				"target": unitName(target),
			}).Debug("履歴更新: 命中した相手を記録しました")
		}

		// 防御側: 外れても攻撃してきた相手として記録します。
		if target.HasComponent(component.AIComponent) {
			component.AIComponent.Get(target).LastAttacker = attacker
			r.Logger.WithFields(logrus.Fields{
				"unit":     unitName(target),
				"attacker": unitName(attacker),
			}).Debug("履歴更新: 攻撃してきた相手を記録しました")
		}
	}
}
