package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/event"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// SubscribeLifecycle は UnitDied を購読し、倒れたユニットを片付けます。
// 担いでいたユニットは倒れたマスに降ろし、名簿から外して削除印を付けます。
func SubscribeLifecycle(r *Rules) {
	event.UnitDiedEvent.Subscribe(r.World, func(w donburi.World, ev event.UnitDied) {
		if !w.Valid(ev.Victim) {
			return
		}
		victim := w.Entry(ev.Victim)
		if carried := r.Query.CarriedUnit(victim); carried != nil {
			victim.RemoveComponent(component.CarryComponent)
			if carried.HasComponent(component.CarriedTag) {
				carried.RemoveComponent(component.CarriedTag)
			}
			PlaceUnit(w, carried, TileOf(victim))
		}
		u := component.UnitComponent.Get(victim)
		entity.RemoveFromTeam(entity.GetRegistry(w), u.Team, ev.Victim)
		entity.MarkForDeletion(victim)

		r.Logger.WithFields(logrus.Fields{
			"victim": u.Name,
			"cause":  ev.Cause,
		}).Info("ユニットが倒れました")
	})
}
