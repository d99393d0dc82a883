package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/event"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

var pendingLevelUpQuery = query.NewQuery(filter.Contains(component.UnitComponent, component.PendingLevelUpComponent))

// UpdateLevelingSystem は PendingLevelUp の印が付いたユニットのレベルを上げます。
// 1回の経験値で複数レベル上がることもあります。上限レベルに達したら経験値は0に固定します。
func UpdateLevelingSystem(r *Rules) {
	balance := r.Config.Balance
	for _, e := range collect(r.World, pendingLevelUpQuery) {
		e.RemoveComponent(component.PendingLevelUpComponent)
		u := component.UnitComponent.Get(e)

		for u.Exp >= balance.ExpPerLevel && u.Level < balance.LevelCap {
			u.Exp -= balance.ExpPerLevel
			u.Level++
			before := u.Final.MaxHP
			u.Base = rollGrowths(r.Rand, u.Base, u.Growths)
			RecalculateStats(r.Query, e)
			if gained := u.Final.MaxHP - before; gained > 0 {
				u.HP += gained
			}
			r.Logger.WithFields(logrus.Fields{
				"unit":  u.Name,
				"level": u.Level,
			}).Info("レベルアップしました")
			event.Publish(r.World, event.LevelUp{Unit: e.Entity(), Level: u.Level})
		}
		if u.Level >= balance.LevelCap {
			u.Exp = 0
		}
	}
}

// rollGrowths は成長率(%)ごとに判定し、成功した能力値を1上げた値を返します。
func rollGrowths(rnd core.Roller, base, growths core.Stats) core.Stats {
	grow := func(v, rate int) int {
		if rate > 0 && rnd.Intn(100) < rate {
			return v + 1
		}
		return v
	}
	return core.Stats{
		Attack:     grow(base.Attack, growths.Attack),
		Defense:    grow(base.Defense, growths.Defense),
		Magic:      grow(base.Magic, growths.Magic),
		Resistance: grow(base.Resistance, growths.Resistance),
		Wit:        grow(base.Wit, growths.Wit),
		Weight:     base.Weight,
		MaxHP:      grow(base.MaxHP, growths.MaxHP),
		MaxWisp:    grow(base.MaxWisp, growths.MaxWisp),
	}
}
