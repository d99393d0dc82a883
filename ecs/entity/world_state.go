package entity

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

var worldStateQuery = query.NewQuery(filter.Contains(component.WorldStateTag, component.MapComponent))

// EnsureWorldState はマップ・名簿・遅延キュー・フェイズを持つワールド状態エンティティが
// 存在することを保証します。存在しない場合は作成します。これは通常、セットアップ時に一度だけ呼び出されます。
func EnsureWorldState(world donburi.World, width, height, tileSize int) *donburi.Entry {
	if entry, ok := worldStateQuery.First(world); ok {
		return entry
	}

	logger.For("world_state").WithFields(logrus.Fields{
		"width":  width,
		"height": height,
	}).Info("ワールド状態エンティティを作成します")

	entry := world.Entry(world.Create(
		component.WorldStateTag,
		component.MapComponent,
		component.TeamRegistryComponent,
		component.DeferredQueueComponent,
		component.PhaseComponent,
	))
	component.MapComponent.SetValue(entry, component.MapData{
		Width:     width,
		Height:    height,
		TileSize:  tileSize,
		Terrain:   make(map[core.Tile]core.TerrainType),
		Ledges:    make(map[component.Edge]bool),
		WinTiles:  make(map[core.Tile]bool),
		ShopTiles: make(map[core.Tile]bool),
		Frozen:    make(map[core.Tile]bool),
	})
	component.TeamRegistryComponent.SetValue(entry, component.TeamRegistry{
		Rosters:          make(map[core.TeamID][]donburi.Entity),
		PassiveProviders: make(map[core.TeamID][]donburi.Entity),
		Gold:             make(map[core.TeamID]int),
	})
	component.DeferredQueueComponent.SetValue(entry, component.DeferredQueue{})
	component.PhaseComponent.SetValue(entry, component.Phase{Turn: 1, Active: core.TeamPlayer, DraftAvailable: true})
	return entry
}

func mustWorldState(world donburi.World) *donburi.Entry {
	entry, ok := worldStateQuery.First(world)
	if !ok {
		// これは EnsureWorldState で正しく初期化されていれば起こりません。
		logger.For("world_state").Panic("ワールド状態エンティティが見つかりません。EnsureWorldState で初期化する必要があります。")
	}
	return entry
}

// GetMap はワールド状態エンティティから地形情報を取得します。
func GetMap(world donburi.World) *component.MapData {
	return component.MapComponent.Get(mustWorldState(world))
}

// GetRegistry はチーム名簿を取得します。
func GetRegistry(world donburi.World) *component.TeamRegistry {
	return component.TeamRegistryComponent.Get(mustWorldState(world))
}

// GetPhase は現在のフェイズ情報を取得します。
func GetPhase(world donburi.World) *component.Phase {
	return component.PhaseComponent.Get(mustWorldState(world))
}

// GetDeferredQueue は遅延追加キューを取得します。
func GetDeferredQueue(world donburi.World) *component.DeferredQueue {
	return component.DeferredQueueComponent.Get(mustWorldState(world))
}

// RemoveFromTeam は名簿とパッシブ提供者一覧から entity を取り除きます。
func RemoveFromTeam(reg *component.TeamRegistry, team core.TeamID, e donburi.Entity) {
	reg.Rosters[team] = removeEntity(reg.Rosters[team], e)
	reg.PassiveProviders[team] = removeEntity(reg.PassiveProviders[team], e)
}

func removeEntity(list []donburi.Entity, e donburi.Entity) []donburi.Entity {
	out := list[:0]
	for _, v := range list {
		if v != e {
			out = append(out, v)
		}
	}
	return out
}
