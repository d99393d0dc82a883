package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"

	"github.com/yohamta/donburi"
)

// RecalculateStats は補正後の能力値を計算し直します。
// 補正後 = 基礎値 + 装備武器の補正 + クラスチェンジ補正。重量だけは担いでいるユニットの基礎重量を加えます。
// HP と Wisp は新しい最大値に収めます。
func RecalculateStats(q *WorldQuery, entry *donburi.Entry) {
	if entry == nil || !entry.HasComponent(component.UnitComponent) {
		return
	}
	u := component.UnitComponent.Get(entry)

	final := u.Base.Add(u.PromotionBonus)
	for _, w := range q.EquippedWeapons(entry) {
		final = final.Add(w.Bonus)
	}
	final.Weight = u.Base.Weight
	if carried := q.CarriedUnit(entry); carried != nil {
		final.Weight += component.UnitComponent.Get(carried).Base.Weight
	}
	if final.MaxHP < 1 {
		final.MaxHP = 1
	}
	if final.MaxWisp < 0 {
		final.MaxWisp = 0
	}
	u.Final = final

	if u.HP > final.MaxHP {
		u.HP = final.MaxHP
	}
	if u.Wisp > final.MaxWisp {
		u.Wisp = final.MaxWisp
	}
}
