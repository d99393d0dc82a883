package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/event"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

var pendingActedQuery = query.NewQuery(filter.Contains(component.UnitComponent, component.PendingActedComponent))

// MarkPendingActed は行動確定の印を付けます。HasActed はアニメーション完了後に
// UpdateActionCompletionSystem が立てます。
func MarkPendingActed(entry *donburi.Entry) {
	if entry == nil || !entry.Valid() || entry.HasComponent(component.PendingActedComponent) {
		return
	}
	entry.AddComponent(component.PendingActedComponent)
}

// isAnimating は行動完了を待たせる演出が残っているかを返します。
func isAnimating(entry *donburi.Entry) bool {
	return entry.HasComponent(component.LungeComponent) ||
		entry.HasComponent(component.PendingDamageComponent) ||
		entry.HasComponent(component.MovePathComponent)
}

// UpdateActionCompletionSystem は演出の終わったユニットの HasActed を立て、ActionFinalized を発行します。
func UpdateActionCompletionSystem(r *Rules) {
	for _, e := range collect(r.World, pendingActedQuery) {
		if isAnimating(e) {
			continue
		}
		e.RemoveComponent(component.PendingActedComponent)
		component.UnitComponent.Get(e).HasActed = true
		event.Publish(r.World, event.ActionFinalized{Unit: e.Entity()})
	}
}
