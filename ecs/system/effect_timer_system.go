package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// collect はクエリの結果を配列に集めます。Each の中でコンポーネントを外さないために使います。
func collect(world donburi.World, q *query.Query) []*donburi.Entry {
	var entries []*donburi.Entry
	q.Each(world, func(entry *donburi.Entry) {
		entries = append(entries, entry)
	})
	return entries
}

var (
	shakeQuery         = query.NewQuery(filter.Contains(component.ShakeComponent))
	tintQuery          = query.NewQuery(filter.Contains(component.TintComponent))
	pendingDamageQuery = query.NewQuery(filter.Contains(component.PendingDamageComponent))
	lungeQuery         = query.NewQuery(filter.Contains(component.LungeComponent))
	fadeOutQuery       = query.NewQuery(filter.Contains(component.FadeOutComponent))
	expBarQuery        = query.NewQuery(filter.Contains(component.ExpBarComponent))
)

// UpdateEffectTimerSystem は演出用コンポーネントのタイマーを1tick進め、終了したものを外します。
// 障害物のフェードアウトが終わると削除印を付けます。
func UpdateEffectTimerSystem(r *Rules) {
	for _, e := range collect(r.World, shakeQuery) {
		s := component.ShakeComponent.Get(e)
		if s.Timer--; s.Timer <= 0 {
			e.RemoveComponent(component.ShakeComponent)
		}
	}
	for _, e := range collect(r.World, tintQuery) {
		t := component.TintComponent.Get(e)
		if t.Timer--; t.Timer <= 0 {
			e.RemoveComponent(component.TintComponent)
		}
	}
	for _, e := range collect(r.World, pendingDamageQuery) {
		pd := component.PendingDamageComponent.Get(e)
		if pd.Timer--; pd.Timer <= 0 {
			e.RemoveComponent(component.PendingDamageComponent)
		}
	}
	for _, e := range collect(r.World, lungeQuery) {
		l := component.LungeComponent.Get(e)
		if l.Timer--; l.Timer <= 0 {
			e.RemoveComponent(component.LungeComponent)
		}
	}
	for _, e := range collect(r.World, fadeOutQuery) {
		f := component.FadeOutComponent.Get(e)
		if f.Timer > 0 {
			f.Timer--
		}
		if f.Timer <= 0 {
			entity.MarkForDeletion(e)
		}
	}
	for _, e := range collect(r.World, expBarQuery) {
		updateExpBar(r, e)
	}
}

// updateExpBar は経験値バーを filling → shrinking → idle の順に進めます。
// レベルの閾値をまたいだ場合だけ shrinking を経由します。
func updateExpBar(r *Rules, e *donburi.Entry) {
	bar := component.ExpBarComponent.Get(e)
	if bar.Phase == component.ExpBarIdle {
		e.RemoveComponent(component.ExpBarComponent)
		return
	}
	if bar.Timer--; bar.Timer > 0 {
		return
	}
	switch bar.Phase {
	case component.ExpBarFilling:
		if bar.From+bar.Gain >= r.Config.Balance.ExpPerLevel {
			bar.Phase = component.ExpBarShrinking
			bar.Timer = r.Config.Timers.ExpShrinkTicks
			return
		}
		e.RemoveComponent(component.ExpBarComponent)
	case component.ExpBarShrinking:
		e.RemoveComponent(component.ExpBarComponent)
	}
}
