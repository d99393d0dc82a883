package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// AttackRequest はターン状態機械から渡される技の実行要求です。
type AttackRequest struct {
	Attacker *donburi.Entry
	Attack   *core.AttackDefinition
	Targets  []*donburi.Entry
	// Focus は攻撃者が向くマスです。地点指定技では照準マスになります。
	Focus core.Tile
	// Destination は転移系の補助技で対象を移動させる先です。
	Destination *core.Tile
}

// AttackOutcome は対象1体ごとの結果です。
type AttackOutcome struct {
	Target  *donburi.Entry
	Hit     bool
	Crit    bool
	Blocked bool
	Killed  bool
	Damage  int
	Healed  int
	Exp     int
}

// AttackEffectHandler は技の種類ごとの効果をカプセル化します。
type AttackEffectHandler interface {
	Apply(r *Rules, req AttackRequest, target *donburi.Entry) AttackOutcome
}

// handlerFor は技に対応するハンドラを返します。
func handlerFor(attack *core.AttackDefinition) AttackEffectHandler {
	switch {
	case attack.Heals:
		return &HealEffectHandler{}
	case !attack.DealsDamage():
		return &SupportEffectHandler{}
	}
	return &DamageEffectHandler{}
}

// --- DamageEffectHandler ---

// DamageEffectHandler は命中・会心判定を行い、ダメージと経験値を適用します。
type DamageEffectHandler struct{}

func (h *DamageEffectHandler) Apply(r *Rules, req AttackRequest, target *donburi.Entry) AttackOutcome {
	out := AttackOutcome{Target: target}
	attackerSnap := r.Query.Snapshot(req.Attacker)
	defenderSnap := r.Query.Snapshot(target)

	if !r.Hit.RollHit(attackerSnap, defenderSnap, req.Attack) {
		return out
	}
	out.Hit = true
	out.Crit = r.Hit.RollCrit(attackerSnap, defenderSnap, req.Attack)
	out.Damage = r.Damage.FinalDamage(attackerSnap, defenderSnap, req.Attack, out.Crit)

	applied := r.Actions.ApplyDirectDamage(target, float64(out.Damage), out.Crit, req.Attacker, DamageOptions{Cause: req.Attack.ID})
	if !applied {
		out.Blocked = target.HasComponent(component.UnitComponent) && component.UnitComponent.Get(target).IsAlive()
		out.Damage = 0
		return out
	}
	out.Killed = !component.UnitComponent.Get(target).IsAlive()

	out.Exp = r.Damage.ExpGain(attackerSnap, defenderSnap, out.Killed)
	if out.Exp > 0 {
		r.Actions.GrantExp(req.Attacker, out.Exp)
	}
	return out
}

// --- HealEffectHandler ---

// HealEffectHandler は回復技を処理します。回復技は必ず命中します。
type HealEffectHandler struct{}

func (h *HealEffectHandler) Apply(r *Rules, req AttackRequest, target *donburi.Entry) AttackOutcome {
	out := AttackOutcome{Target: target}
	before := component.UnitComponent.Get(target).HP
	amount := r.Damage.HealingAmount(r.Query.Snapshot(req.Attacker), req.Attack)
	if r.Actions.ApplyDirectHeal(target, float64(amount)) {
		out.Hit = true
		out.Healed = component.UnitComponent.Get(target).HP - before
	}
	return out
}

// --- SupportEffectHandler ---

// SupportEffectHandler は威力0の補助技を処理します。
// 転移先が指定されていれば対象をそこへ移し、そうでなければ対象にシールドを張ります。
type SupportEffectHandler struct{}

func (h *SupportEffectHandler) Apply(r *Rules, req AttackRequest, target *donburi.Entry) AttackOutcome {
	out := AttackOutcome{Target: target, Hit: true}
	if req.Destination != nil {
		if !r.Query.IsTileLandable(*req.Destination, target) {
			out.Hit = false
			return out
		}
		PlaceUnit(r.World, target, *req.Destination)
		return out
	}
	if !target.HasComponent(component.ShieldComponent) {
		target.AddComponent(component.ShieldComponent)
	}
	return out
}

// ExecuteAttack は技を実行します。Wisp が足りない場合は何もせず false を返します。
// 対象を持たない技は使用者自身と隣接する味方が対象になります。
func (r *Rules) ExecuteAttack(req AttackRequest) ([]AttackOutcome, bool) {
	if req.Attacker == nil || req.Attack == nil || !req.Attacker.Valid() {
		return nil, false
	}
	u := component.UnitComponent.Get(req.Attacker)
	if u.Wisp < req.Attack.WispCost {
		r.Logger.WithFields(logrus.Fields{
			"unit":   u.Name,
			"attack": req.Attack.ID,
		}).Warn("Wispが足りないため技を使えません")
		return nil, false
	}
	u.Wisp -= req.Attack.WispCost

	here := TileOf(req.Attacker)
	if req.Focus != here {
		u.Facing = core.FacingToward(here, req.Focus)
	}
	if !req.Attacker.HasComponent(component.LungeComponent) {
		req.Attacker.AddComponent(component.LungeComponent)
	}
	component.LungeComponent.SetValue(req.Attacker, component.Lunge{Direction: u.Facing, Timer: r.Config.Timers.LungeTicks})

	targets := req.Targets
	if len(targets) == 0 && req.Attack.Targeting == core.TargetNone {
		targets = append([]*donburi.Entry{req.Attacker}, r.adjacentAllies(req.Attacker)...)
	}

	handler := handlerFor(req.Attack)
	outcomes := make([]AttackOutcome, 0, len(targets))
	for _, target := range targets {
		if target == nil || !target.Valid() {
			continue
		}
		outcomes = append(outcomes, handler.Apply(r, req, target))
	}
	UpdateHistorySystem(r, req.Attacker, outcomes)

	r.Logger.WithFields(logrus.Fields{
		"unit":    u.Name,
		"attack":  req.Attack.ID,
		"targets": len(outcomes),
	}).Info("技を実行しました")
	return outcomes, true
}

func (r *Rules) adjacentAllies(unit *donburi.Entry) []*donburi.Entry {
	var allies []*donburi.Entry
	for _, n := range TileOf(unit).Neighbors() {
		if other := r.Query.UnitAt(n, unit); other != nil && AreAllies(unit, other) {
			allies = append(allies, other)
		}
	}
	return allies
}
