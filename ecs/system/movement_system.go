package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/event"
	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

var movingQuery = query.NewQuery(filter.Contains(component.UnitComponent, component.MovePathComponent))

// PlaceUnit はユニットを tile に置き、位置が変わった場合は UnitTileChanged を発行します。
func PlaceUnit(world donburi.World, entry *donburi.Entry, tile core.Tile) {
	pos := component.PositionComponent.Get(entry)
	from := pos.Tile
	pos.Tile = tile
	pos.Pixel = core.TileToPixel(tile, entity.GetMap(world).TileSize)
	if from != tile {
		event.Publish(world, event.UnitTileChanged{Unit: entry.Entity(), From: from, To: tile})
	}
}

// StartMove は移動経路を設定します。実際の移動は UpdateMovementSystem が1tickに1マスずつ進めます。
func StartMove(entry *donburi.Entry, tiles []core.Tile, waypoints []core.Point) {
	if !entry.HasComponent(component.MovePathComponent) {
		entry.AddComponent(component.MovePathComponent)
	}
	component.MovePathComponent.SetValue(entry, component.MovePath{
		Tiles:     append([]core.Tile(nil), tiles...),
		Waypoints: append([]core.Point(nil), waypoints...),
	})
}

// UpdateMovementSystem は移動中のユニットを経路に沿って1マス進めます。
// 霜踏みは通過した水を凍らせ、囮は出発マスに囮を残します。どちらも移動前スナップショットに記録され、
// 行動メニューからの取り消しで元に戻されます。経路の終点に着くと MoveFinished を発行します。
func UpdateMovementSystem(r *Rules) {
	var moving []*donburi.Entry
	movingQuery.Each(r.World, func(entry *donburi.Entry) {
		moving = append(moving, entry)
	})

	for _, entry := range moving {
		path := component.MovePathComponent.Get(entry)
		if path.Index >= len(path.Tiles) {
			finishMove(r, entry)
			continue
		}
		u := component.UnitComponent.Get(entry)
		from := TileOf(entry)
		next := path.Tiles[path.Index]

		if path.Index == 0 && u.HasPassive(core.PassiveDecoy) {
			spawnDecoy(r, entry, from)
		}
		if u.HasPassive(core.PassiveFrostWalker) && r.Query.IsTileWater(next) {
			freezeTile(r, entry, next)
		}

		u.Facing = core.FacingToward(from, next)
		PlaceUnit(r.World, entry, next)
		if path.Index < len(path.Waypoints) {
			component.PositionComponent.Get(entry).Pixel = path.Waypoints[path.Index]
		}
		path.Index++

		if path.Index >= len(path.Tiles) {
			finishMove(r, entry)
		}
	}
}

func finishMove(r *Rules, entry *donburi.Entry) {
	entry.RemoveComponent(component.MovePathComponent)
	logger.For("movement").WithFields(logrus.Fields{
		"unit": component.UnitComponent.Get(entry).Name,
		"tile": TileOf(entry).String(),
	}).Debug("移動が完了しました")
	event.Publish(r.World, event.MoveFinished{Unit: entry.Entity()})
}

func freezeTile(r *Rules, entry *donburi.Entry, tile core.Tile) {
	r.Query.Map().Frozen[tile] = true
	if entry.HasComponent(component.MoveSnapshotComponent) {
		snap := component.MoveSnapshotComponent.Get(entry)
		snap.FrozenTiles = append(snap.FrozenTiles, tile)
	}
}

func spawnDecoy(r *Rules, entry *donburi.Entry, tile core.Tile) {
	u := component.UnitComponent.Get(entry)
	spec := component.UnitSpec{
		Name:     u.Name + "の囮",
		Team:     u.Team,
		Tile:     tile,
		Base:     core.Stats{MaxHP: 1},
		Obstacle: &component.Obstacle{Kind: "decoy"},
	}
	owner := entry.Entity()
	entity.QueueAddEntity(r.World, spec, owner, func(decoy *donburi.Entry) {
		if !r.World.Valid(owner) {
			return
		}
		ownerEntry := r.World.Entry(owner)
		if ownerEntry.HasComponent(component.MoveSnapshotComponent) {
			snap := component.MoveSnapshotComponent.Get(ownerEntry)
			snap.Spawned = append(snap.Spawned, decoy.Entity())
		}
	})
}
