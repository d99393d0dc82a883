package entity

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// CreateUnit は設計図からユニットエンティティを生成し、名簿に登録します。
// 補正後の能力値は基礎値で初期化されます。武器補正は system.RecalculateStats で反映します。
func CreateUnit(world donburi.World, spec component.UnitSpec) *donburi.Entry {
	m := GetMap(world)

	entry := world.Entry(world.Create(
		component.UnitComponent,
		component.PositionComponent,
		component.StatusComponent,
	))

	level := spec.Level
	if level <= 0 {
		level = 1
	}
	final := spec.Base
	component.UnitComponent.SetValue(entry, component.Unit{
		ID:        uuid.NewString(),
		Name:      spec.Name,
		Team:      spec.Team,
		Class:     spec.Class,
		Origin:    spec.Origin,
		Level:     level,
		ExpReward: spec.ExpReward,
		Base:      spec.Base,
		Final:     final,
		Growths:   spec.Growths,
		HP:        final.MaxHP,
		Wisp:      final.MaxWisp,
		Movement:  spec.Movement,
		CanFly:    spec.CanFly,
		CanSwim:   spec.CanSwim,
		Facing:    core.DirDown,
		Passives:  append([]core.PassiveID(nil), spec.Passives...),
		Attacks:   append([]string(nil), spec.Attacks...),
		Weapons:   append([]string(nil), spec.Weapons...),
	})
	component.PositionComponent.SetValue(entry, component.Position{
		Tile:  spec.Tile,
		Pixel: core.TileToPixel(spec.Tile, m.TileSize),
	})
	component.StatusComponent.SetValue(entry, component.Statuses{Effects: make(map[core.StatusType]int)})

	if spec.AI != "" {
		entry.AddComponent(component.AIComponent)
		component.AIComponent.SetValue(entry, component.AI{Strategy: spec.AI})
	}
	if spec.Obstacle != nil {
		entry.AddComponent(component.ObstacleComponent)
		component.ObstacleComponent.SetValue(entry, *spec.Obstacle)
	} else {
		reg := GetRegistry(world)
		reg.Rosters[spec.Team] = append(reg.Rosters[spec.Team], entry.Entity())
		if len(spec.Passives) > 0 {
			reg.PassiveProviders[spec.Team] = append(reg.PassiveProviders[spec.Team], entry.Entity())
		}
	}

	logger.For("unit_factory").WithFields(logrus.Fields{
		"name": spec.Name,
		"team": spec.Team,
		"tile": spec.Tile.String(),
	}).Debug("ユニットを生成しました")
	return entry
}

// QueueAddEntity はユニットの生成をフレーム末尾のフラッシュまで遅延させます。
// owner は生成の原因となったユニットで、取り消し時の絞り込みに使います。
func QueueAddEntity(world donburi.World, spec component.UnitSpec, owner donburi.Entity, onCreated func(entry *donburi.Entry)) {
	q := GetDeferredQueue(world)
	q.Adds = append(q.Adds, component.PendingAdd{Spec: spec, Owner: owner, OnCreated: onCreated})
}

// CancelQueuedAdds は owner が予約した未生成のユニットを取り消します。
func CancelQueuedAdds(world donburi.World, owner donburi.Entity) int {
	q := GetDeferredQueue(world)
	kept := q.Adds[:0]
	cancelled := 0
	for _, add := range q.Adds {
		if add.Owner == owner {
			cancelled++
			continue
		}
		kept = append(kept, add)
	}
	q.Adds = kept
	return cancelled
}

// MarkForDeletion は次のフラッシュで削除されるよう印を付けます。
func MarkForDeletion(entry *donburi.Entry) {
	if entry == nil || !entry.Valid() || entry.HasComponent(component.DeleteMarkTag) {
		return
	}
	entry.AddComponent(component.DeleteMarkTag)
}
