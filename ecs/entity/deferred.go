package entity

import (
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

var deleteMarkQuery = query.NewQuery(filter.Contains(component.DeleteMarkTag))

// FlushDeferred は削除印の付いたエンティティを取り除き、予約されたユニットを生成します。
// 1フレームに1回、全システムの処理後に呼び出します。onCreate は生成直後の初期化
// (能力値の再計算など) に使います。
func FlushDeferred(world donburi.World, onCreate func(entry *donburi.Entry)) {
	var doomed []*donburi.Entry
	deleteMarkQuery.Each(world, func(entry *donburi.Entry) {
		doomed = append(doomed, entry)
	})
	if len(doomed) > 0 {
		reg := GetRegistry(world)
		for _, entry := range doomed {
			if entry.HasComponent(component.UnitComponent) {
				RemoveFromTeam(reg, component.UnitComponent.Get(entry).Team, entry.Entity())
			}
			world.Remove(entry.Entity())
		}
	}

	q := GetDeferredQueue(world)
	adds := q.Adds
	q.Adds = nil
	for _, add := range adds {
		entry := CreateUnit(world, add.Spec)
		if onCreate != nil {
			onCreate(entry)
		}
		if add.OnCreated != nil {
			add.OnCreated(entry)
		}
	}
}
