package system

import (
	"sort"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/data"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// 盤面上にいるユニット(担がれているユニットを除く)を列挙するクエリです。
var onBoardQuery = query.NewQuery(filter.And(
	filter.Contains(component.UnitComponent, component.PositionComponent),
	filter.Not(filter.Contains(component.CarriedTag)),
))

// WorldQuery はゲーム状態に対する読み取り専用の問い合わせをまとめたものです。
// 経路探索・戦闘計算・ターン状態機械のすべてがこれを通して盤面を参照します。
type WorldQuery struct {
	World donburi.World
	Data  *data.GameDataManager
}

// NewWorldQuery は新しい WorldQuery を生成します。
func NewWorldQuery(world donburi.World, gdm *data.GameDataManager) *WorldQuery {
	return &WorldQuery{World: world, Data: gdm}
}

// Map は地形情報を返します。
func (q *WorldQuery) Map() *component.MapData {
	return entity.GetMap(q.World)
}

// TileOf はユニットのマス位置を返します。
func TileOf(entry *donburi.Entry) core.Tile {
	return component.PositionComponent.Get(entry).Tile
}

// isStanding は盤面上で判定対象になるかを返します。
// 障害物は破壊不能なら HP に関係なく残り、フェードアウト中や削除待ちは対象外です。
func isStanding(entry *donburi.Entry) bool {
	if entry.HasComponent(component.FadeOutComponent) || entry.HasComponent(component.DeleteMarkTag) {
		return false
	}
	u := component.UnitComponent.Get(entry)
	if entry.HasComponent(component.ObstacleComponent) && component.ObstacleComponent.Get(entry).Indestructible {
		return true
	}
	return u.IsAlive()
}

// UnitAt は tile にいる生存中の(障害物ではない)ユニットを返します。excluding は無視します。
func (q *WorldQuery) UnitAt(tile core.Tile, excluding *donburi.Entry) *donburi.Entry {
	var found *donburi.Entry
	onBoardQuery.Each(q.World, func(entry *donburi.Entry) {
		if found != nil || entry.HasComponent(component.ObstacleComponent) {
			return
		}
		if excluding != nil && entry.Entity() == excluding.Entity() {
			return
		}
		if TileOf(entry) == tile && isStanding(entry) {
			found = entry
		}
	})
	return found
}

// ObstacleAt は tile にある障害物を返します。
func (q *WorldQuery) ObstacleAt(tile core.Tile) *donburi.Entry {
	var found *donburi.Entry
	onBoardQuery.Each(q.World, func(entry *donburi.Entry) {
		if found != nil || !entry.HasComponent(component.ObstacleComponent) {
			return
		}
		if TileOf(entry) == tile && isStanding(entry) {
			found = entry
		}
	})
	return found
}

// IsTileWater は凍っていない水地形かを返します。
func (q *WorldQuery) IsTileWater(tile core.Tile) bool {
	m := q.Map()
	return m.TerrainAt(tile) == core.TerrainWater && !m.Frozen[tile]
}

// IsTileMud は泥地形かを返します。
func (q *WorldQuery) IsTileMud(tile core.Tile) bool {
	return q.Map().TerrainAt(tile) == core.TerrainMud
}

// IsLedgeBlockingPath は from から to への移動が段差で塞がれているかを返します。
func (q *WorldQuery) IsLedgeBlockingPath(from, to core.Tile) bool {
	return q.Map().Ledges[component.Edge{From: from, To: to}]
}

// HasPassive はユニットがパッシブを持つかを返します。
func (q *WorldQuery) HasPassive(entry *donburi.Entry, id core.PassiveID) bool {
	if entry == nil || !entry.HasComponent(component.UnitComponent) {
		return false
	}
	return component.UnitComponent.Get(entry).HasPassive(id)
}

// HasStatus はユニットに状態異常がかかっているかを返します。
func (q *WorldQuery) HasStatus(entry *donburi.Entry, st core.StatusType) bool {
	if entry == nil || !entry.HasComponent(component.StatusComponent) {
		return false
	}
	return component.StatusComponent.Get(entry).Has(st)
}

// CanCrossWater は水地形を通行できるかを返します。
func (q *WorldQuery) CanCrossWater(entry *donburi.Entry) bool {
	u := component.UnitComponent.Get(entry)
	return u.CanFly || u.CanSwim || u.HasPassive(core.PassiveWaterWalker) || u.HasPassive(core.PassiveFrostWalker)
}

// UnitMovement は補正込みの移動力を返します。麻痺・スタン中は0です。
func (q *WorldQuery) UnitMovement(entry *donburi.Entry) int {
	if entry == nil || !entry.HasComponent(component.UnitComponent) {
		return 0
	}
	if q.HasStatus(entry, core.StatusParalyzed) || q.HasStatus(entry, core.StatusStunned) {
		return 0
	}
	u := component.UnitComponent.Get(entry)
	move := u.Movement + u.PromotionMovement
	for _, w := range q.EquippedWeapons(entry) {
		move += w.Movement
	}
	if q.HasStatus(entry, core.StatusSlowed) {
		move--
	}
	if move < 0 {
		move = 0
	}
	return move
}

// EquippedWeapons は装備中の武器定義を返します。定義が見つからない武器は無視します。
func (q *WorldQuery) EquippedWeapons(entry *donburi.Entry) []*core.WeaponDefinition {
	if q.Data == nil {
		return nil
	}
	var weapons []*core.WeaponDefinition
	for _, id := range component.UnitComponent.Get(entry).EquippedWeapons() {
		if w, ok := q.Data.Weapon(id); ok {
			weapons = append(weapons, w)
		}
	}
	return weapons
}

// UnitAttacks は固有技と装備武器の技を重複なく返します。
func (q *WorldQuery) UnitAttacks(entry *donburi.Entry) []*core.AttackDefinition {
	if q.Data == nil {
		return nil
	}
	u := component.UnitComponent.Get(entry)
	ids := append([]string(nil), u.Attacks...)
	for _, w := range q.EquippedWeapons(entry) {
		ids = append(ids, w.Attacks...)
	}
	seen := make(map[string]bool)
	var attacks []*core.AttackDefinition
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if a, ok := q.Data.Attack(id); ok {
			attacks = append(attacks, a)
		}
	}
	return attacks
}

// AreAllies は同じ陣営かを返します。
func AreAllies(a, b *donburi.Entry) bool {
	return component.UnitComponent.Get(a).Team == component.UnitComponent.Get(b).Team
}

// AreEnemies はプレイヤーと敵のように対立する陣営同士かを返します。中立はどちらの敵でもありません。
func AreEnemies(a, b *donburi.Entry) bool {
	ta, tb := component.UnitComponent.Get(a).Team, component.UnitComponent.Get(b).Team
	return ta != tb && ta != core.TeamNeutral && tb != core.TeamNeutral
}

// StepCost は to に入るときの移動コストです。飛行ユニット以外は泥で2かかります。
func (q *WorldQuery) StepCost(mover *donburi.Entry, to core.Tile) int {
	if q.IsTileMud(to) && !component.UnitComponent.Get(mover).CanFly {
		return 2
	}
	return 1
}

// CanTraverse は from から to へ通過できるかを判定します。着地できるかは IsTileLandable で別に判定します。
// 判定順: 段差 → 水 → 障害物 → ユニット。
func (q *WorldQuery) CanTraverse(mover *donburi.Entry, from, to core.Tile) bool {
	if q.IsLedgeBlockingPath(from, to) {
		return false
	}
	u := component.UnitComponent.Get(mover)
	if q.IsTileWater(to) && !q.CanCrossWater(mover) {
		return false
	}
	if obstacle := q.ObstacleAt(to); obstacle != nil {
		if !component.ObstacleComponent.Get(obstacle).Passable && !u.CanFly {
			return false
		}
	}
	if occupant := q.UnitAt(to, mover); occupant != nil {
		if u.CanFly || AreAllies(mover, occupant) {
			return true
		}
		return u.HasPassive(core.PassiveSlipstream) && AreEnemies(mover, occupant)
	}
	return true
}

// IsTileLandable は unit が tile で移動を終えられるかを返します。通過判定より厳しく、
// 味方が立っているマスや通行不可の障害物の上には止まれません。
func (q *WorldQuery) IsTileLandable(tile core.Tile, unit *donburi.Entry) bool {
	m := q.Map()
	if !m.InBounds(tile) {
		return false
	}
	if q.IsTileWater(tile) && !q.CanCrossWater(unit) {
		return false
	}
	if obstacle := q.ObstacleAt(tile); obstacle != nil && !component.ObstacleComponent.Get(obstacle).Passable {
		return false
	}
	return q.UnitAt(tile, unit) == nil
}

// AdjacentAllyCount は上下左右に隣接する生存中の味方ユニット数を返します。
func (q *WorldQuery) AdjacentAllyCount(entry *donburi.Entry) int {
	count := 0
	for _, n := range TileOf(entry).Neighbors() {
		if other := q.UnitAt(n, entry); other != nil && AreAllies(entry, other) {
			count++
		}
	}
	return count
}

// OnWinTile は勝利マスの上にいるかを返します。
func (q *WorldQuery) OnWinTile(entry *donburi.Entry) bool {
	return q.Map().WinTiles[TileOf(entry)]
}

// UnitsOnBoard は盤面上で生存しているユニット(障害物を除く)を座標順で返します。
func (q *WorldQuery) UnitsOnBoard() []*donburi.Entry {
	var units []*donburi.Entry
	onBoardQuery.Each(q.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(component.ObstacleComponent) && isStanding(entry) {
			units = append(units, entry)
		}
	})
	sortByTile(units)
	return units
}

// TeamUnits は陣営の名簿にいる有効なユニットを返します。担がれているユニットも含みます。
func (q *WorldQuery) TeamUnits(team core.TeamID) []*donburi.Entry {
	var units []*donburi.Entry
	for _, e := range entity.GetRegistry(q.World).Rosters[team] {
		if q.World.Valid(e) {
			units = append(units, q.World.Entry(e))
		}
	}
	return units
}

// TilesInRange は origin からマンハッタン距離 [minRange, maxRange] のマップ内のマスを返します。
func (q *WorldQuery) TilesInRange(origin core.Tile, minRange, maxRange int) []core.Tile {
	m := q.Map()
	var tiles []core.Tile
	for dy := -maxRange; dy <= maxRange; dy++ {
		for dx := -maxRange; dx <= maxRange; dx++ {
			t := origin.Add(dx, dy)
			d := origin.Manhattan(t)
			if d < minRange || d > maxRange || !m.InBounds(t) {
				continue
			}
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// isValidTarget は技の種類から entry を対象にできるかを判定します。射程は見ません。
// 回復技は手負いの味方、威力0の補助技は自分以外の全ユニット、それ以外は敵と破壊可能な障害物が対象です。
func isValidTarget(unit, entry *donburi.Entry, attack *core.AttackDefinition) bool {
	if entry.Entity() == unit.Entity() || !isStanding(entry) {
		return false
	}
	isObstacle := entry.HasComponent(component.ObstacleComponent)
	switch {
	case attack.Heals:
		u := component.UnitComponent.Get(entry)
		return !isObstacle && AreAllies(unit, entry) && u.HP < u.Final.MaxHP
	case !attack.DealsDamage():
		return !isObstacle
	case isObstacle:
		return !component.ObstacleComponent.Get(entry).Indestructible
	}
	return !AreAllies(unit, entry)
}

// findTargets は条件 within を満たすマスにいる有効な対象を座標順で返します。
func (q *WorldQuery) findTargets(unit *donburi.Entry, attack *core.AttackDefinition, within func(core.Tile) bool) []*donburi.Entry {
	if unit == nil || attack == nil {
		return nil
	}
	var targets []*donburi.Entry
	onBoardQuery.Each(q.World, func(entry *donburi.Entry) {
		if within(TileOf(entry)) && isValidTarget(unit, entry, attack) {
			targets = append(targets, entry)
		}
	})
	sortByTile(targets)
	return targets
}

// FindValidTargetsForAttack は技の射程内にいる有効な対象を座標順で返します。
func (q *WorldQuery) FindValidTargetsForAttack(unit *donburi.Entry, attack *core.AttackDefinition) []*donburi.Entry {
	if unit == nil || attack == nil {
		return nil
	}
	origin := TileOf(unit)
	return q.findTargets(unit, attack, func(t core.Tile) bool {
		d := origin.Manhattan(t)
		return d >= attack.MinRange && d <= attack.MaxRange
	})
}

// FindTargetsInArea は center から AreaRadius 以内にいる有効な対象を返します。地点指定技で使います。
func (q *WorldQuery) FindTargetsInArea(unit *donburi.Entry, attack *core.AttackDefinition, center core.Tile) []*donburi.Entry {
	if attack == nil {
		return nil
	}
	return q.findTargets(unit, attack, func(t core.Tile) bool {
		return center.Manhattan(t) <= attack.AreaRadius
	})
}

// FindTargetsOnTiles は tiles のいずれかにいる有効な対象を返します。
func (q *WorldQuery) FindTargetsOnTiles(unit *donburi.Entry, attack *core.AttackDefinition, tiles []core.Tile) []*donburi.Entry {
	set := make(map[core.Tile]bool, len(tiles))
	for _, t := range tiles {
		set[t] = true
	}
	return q.findTargets(unit, attack, func(t core.Tile) bool { return set[t] })
}

// IsCarrying は他のユニットを担いでいるかを返します。
func IsCarrying(entry *donburi.Entry) bool {
	return entry.HasComponent(component.CarryComponent)
}

// CarriedUnit は担いでいるユニットを返します。
func (q *WorldQuery) CarriedUnit(entry *donburi.Entry) *donburi.Entry {
	if !IsCarrying(entry) {
		return nil
	}
	e := component.CarryComponent.Get(entry).Carrying
	if !q.World.Valid(e) {
		return nil
	}
	return q.World.Entry(e)
}

// canLift は救出者の攻撃力で対象の基礎重量を持ち上げられるかを返します。攻撃力0以下なら不可です。
func canLift(carrier, target *donburi.Entry) bool {
	strength := component.UnitComponent.Get(carrier).Final.Attack
	if strength <= 0 {
		return false
	}
	return component.UnitComponent.Get(target).Base.Weight <= strength
}

// FindRescuableUnits は隣接する救出可能な味方を返します。
func (q *WorldQuery) FindRescuableUnits(unit *donburi.Entry) []*donburi.Entry {
	if unit == nil || IsCarrying(unit) {
		return nil
	}
	var targets []*donburi.Entry
	for _, n := range TileOf(unit).Neighbors() {
		other := q.UnitAt(n, unit)
		if other == nil || !AreAllies(unit, other) || IsCarrying(other) {
			continue
		}
		if canLift(unit, other) {
			targets = append(targets, other)
		}
	}
	sortByTile(targets)
	return targets
}

// ShoveDestination は unit が target を押し出した先のマスを返します。
func ShoveDestination(unit, target *donburi.Entry) core.Tile {
	from, to := TileOf(unit), TileOf(target)
	return to.Add(to.X-from.X, to.Y-from.Y)
}

// FindShoveTargets は隣接していて、押し出し先に着地できるユニットを返します。
func (q *WorldQuery) FindShoveTargets(unit *donburi.Entry) []*donburi.Entry {
	if unit == nil {
		return nil
	}
	var targets []*donburi.Entry
	for _, n := range TileOf(unit).Neighbors() {
		other := q.UnitAt(n, unit)
		if other == nil {
			continue
		}
		dest := ShoveDestination(unit, other)
		if q.IsLedgeBlockingPath(n, dest) {
			continue
		}
		if q.IsTileLandable(dest, other) {
			targets = append(targets, other)
		}
	}
	sortByTile(targets)
	return targets
}

// FindTakeTargets は担いでいるユニットを受け取れる隣接の味方を返します。
func (q *WorldQuery) FindTakeTargets(unit *donburi.Entry) []*donburi.Entry {
	if unit == nil || IsCarrying(unit) {
		return nil
	}
	var targets []*donburi.Entry
	for _, n := range TileOf(unit).Neighbors() {
		other := q.UnitAt(n, unit)
		if other == nil || !AreAllies(unit, other) {
			continue
		}
		carried := q.CarriedUnit(other)
		if carried != nil && canLift(unit, carried) {
			targets = append(targets, other)
		}
	}
	sortByTile(targets)
	return targets
}

// FindValidDropTiles は担いでいるユニットを降ろせる隣接マスを返します。
func (q *WorldQuery) FindValidDropTiles(unit *donburi.Entry) []core.Tile {
	if unit == nil {
		return nil
	}
	carried := q.CarriedUnit(unit)
	if carried == nil {
		return nil
	}
	var tiles []core.Tile
	for _, n := range TileOf(unit).Neighbors() {
		if q.IsTileLandable(n, carried) && q.UnitAt(n, unit) == nil {
			tiles = append(tiles, n)
		}
	}
	return tiles
}

// FindBurrowTiles はモグラ塚のうち、今いるマス以外で移動先にできるマスを返します。
func (q *WorldQuery) FindBurrowTiles(unit *donburi.Entry) []core.Tile {
	if unit == nil || !q.HasPassive(unit, core.PassiveBurrow) {
		return nil
	}
	here := TileOf(unit)
	var tiles []core.Tile
	onBoardQuery.Each(q.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(component.ObstacleComponent) {
			return
		}
		if component.ObstacleComponent.Get(entry).Kind != "molehill" {
			return
		}
		t := TileOf(entry)
		if t != here && q.UnitAt(t, unit) == nil {
			tiles = append(tiles, t)
		}
	})
	sort.Slice(tiles, func(i, j int) bool { return tileLess(tiles[i], tiles[j]) })
	return tiles
}

func tileLess(a, b core.Tile) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func sortByTile(entries []*donburi.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return tileLess(TileOf(entries[i]), TileOf(entries[j]))
	})
}
