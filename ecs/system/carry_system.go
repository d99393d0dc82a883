package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/event"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

func containsEntry(list []*donburi.Entry, e *donburi.Entry) bool {
	for _, v := range list {
		if v.Entity() == e.Entity() {
			return true
		}
	}
	return false
}

func containsTile(list []core.Tile, t core.Tile) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

// Rescue は隣接する味方を担ぎます。条件を満たさない場合は何もせず false を返します。
func (r *Rules) Rescue(carrier, target *donburi.Entry) bool {
	if carrier == nil || target == nil || !containsEntry(r.Query.FindRescuableUnits(carrier), target) {
		return false
	}
	carrier.AddComponent(component.CarryComponent)
	component.CarryComponent.SetValue(carrier, component.Carry{Carrying: target.Entity()})
	target.AddComponent(component.CarriedTag)
	RecalculateStats(r.Query, carrier)
	r.logCarry("救出", carrier, target)
	return true
}

// Drop は担いでいるユニットを隣接マスに降ろします。
func (r *Rules) Drop(carrier *donburi.Entry, tile core.Tile) bool {
	if carrier == nil || !containsTile(r.Query.FindValidDropTiles(carrier), tile) {
		return false
	}
	carried := r.Query.CarriedUnit(carrier)
	carrier.RemoveComponent(component.CarryComponent)
	carried.RemoveComponent(component.CarriedTag)
	PlaceUnit(r.World, carried, tile)
	RecalculateStats(r.Query, carrier)
	r.logCarry("降ろす", carrier, carried)
	return true
}

// Take は隣接する味方が担いでいるユニットを受け取ります。
func (r *Rules) Take(taker, giver *donburi.Entry) bool {
	if taker == nil || giver == nil || !containsEntry(r.Query.FindTakeTargets(taker), giver) {
		return false
	}
	carried := r.Query.CarriedUnit(giver)
	giver.RemoveComponent(component.CarryComponent)
	taker.AddComponent(component.CarryComponent)
	component.CarryComponent.SetValue(taker, component.Carry{Carrying: carried.Entity()})
	RecalculateStats(r.Query, giver)
	RecalculateStats(r.Query, taker)
	r.logCarry("受け取り", taker, carried)
	return true
}

// Shove は隣接するユニットを1マス押し出します。
func (r *Rules) Shove(unit, target *donburi.Entry) bool {
	if unit == nil || target == nil || !containsEntry(r.Query.FindShoveTargets(unit), target) {
		return false
	}
	PlaceUnit(r.World, target, ShoveDestination(unit, target))
	r.logCarry("押し出し", unit, target)
	return true
}

// Burrow はモグラ塚の間を移動します。
func (r *Rules) Burrow(unit *donburi.Entry, tile core.Tile) bool {
	if unit == nil || !containsTile(r.Query.FindBurrowTiles(unit), tile) {
		return false
	}
	PlaceUnit(r.World, unit, tile)
	return true
}

// Promote はクラスチェンジを適用します。既にクラスチェンジ済みのユニットには何もしません。
func (r *Rules) Promote(unit *donburi.Entry, promo *core.PromotionDefinition) bool {
	if unit == nil || promo == nil {
		return false
	}
	u := component.UnitComponent.Get(unit)
	if u.Promoted || u.Class != promo.FromClass {
		return false
	}
	u.Promoted = true
	u.Class = promo.ID
	u.PromotionBonus = promo.Bonus
	u.PromotionMovement = promo.Movement
	before := u.Final.MaxHP
	RecalculateStats(r.Query, unit)
	if gained := u.Final.MaxHP - before; gained > 0 {
		u.HP += gained
	}
	r.Logger.WithFields(logrus.Fields{"unit": u.Name, "class": promo.ID}).Info("クラスチェンジしました")
	return true
}

// EquipWeapon は所持武器を先頭の装備スロットに移します。
func (r *Rules) EquipWeapon(unit *donburi.Entry, weaponID string) bool {
	if unit == nil {
		return false
	}
	u := component.UnitComponent.Get(unit)
	idx := -1
	for i, id := range u.Weapons {
		if id == weaponID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	weapons := append([]string{weaponID}, u.Weapons[:idx]...)
	u.Weapons = append(weapons, u.Weapons[idx+1:]...)
	RecalculateStats(r.Query, unit)
	event.Publish(r.World, event.WeaponEquipped{Unit: unit.Entity(), WeaponID: weaponID})
	return true
}

// BuyWeapon は陣営の所持金で武器を購入し、ユニットの所持品に加えます。
func (r *Rules) BuyWeapon(unit *donburi.Entry, weaponID string) bool {
	if unit == nil {
		return false
	}
	w, ok := r.Data.Weapon(weaponID)
	if !ok || w.Price <= 0 {
		return false
	}
	u := component.UnitComponent.Get(unit)
	reg := entity.GetRegistry(r.World)
	if reg.Gold[u.Team] < w.Price {
		return false
	}
	reg.Gold[u.Team] -= w.Price
	u.Weapons = append(u.Weapons, weaponID)
	RecalculateStats(r.Query, unit)
	r.Logger.WithFields(logrus.Fields{
		"unit":   u.Name,
		"weapon": weaponID,
		"gold":   reg.Gold[u.Team],
	}).Info("武器を購入しました")
	return true
}

func (r *Rules) logCarry(action string, actor, target *donburi.Entry) {
	r.Logger.WithFields(logrus.Fields{
		"action": action,
		"actor":  unitName(actor),
		"target": unitName(target),
	}).Info("運搬行動を実行しました")
}
