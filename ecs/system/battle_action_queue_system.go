package system

import (
	"sort"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// EnemyPhaseSystem は敵フェイズの行動キューを処理します。
// 1体ずつ計画・移動・攻撃を行い、演出が終わるまで次の1体には進みません。
type EnemyPhaseSystem struct {
	rules   *Rules
	queue   []donburi.Entity
	started bool
	pending *EnemyPlan
}

// NewEnemyPhaseSystem は EnemyPhaseSystem を作ります。
func NewEnemyPhaseSystem(r *Rules) *EnemyPhaseSystem {
	return &EnemyPhaseSystem{rules: r}
}

// Update は敵フェイズを1tick分進めます。敵フェイズを終えてプレイヤーフェイズに戻した tick に true を返します。
func (s *EnemyPhaseSystem) Update() bool {
	r := s.rules
	if entity.GetPhase(r.World).Active != core.TeamEnemy {
		s.reset()
		return false
	}
	if s.animating() {
		return false
	}
	if !s.started {
		s.queue = s.buildQueue()
		s.started = true
		r.Logger.WithField("units", len(s.queue)).Info("敵フェイズを開始します")
	}

	// 移動を終えたユニットの攻撃
	if s.pending != nil {
		plan := *s.pending
		s.pending = nil
		s.attack(plan)
		return false
	}

	for len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]
		if !r.World.Valid(id) {
			continue
		}
		entry := r.World.Entry(id)
		if !mustAct(r.Query, entry) {
			continue
		}
		plan := aiSelectAction(r, entry)
		if len(plan.Path) > 0 {
			StartMove(entry, plan.Path, plan.Waypoints)
			s.pending = &plan
			return false
		}
		s.attack(plan)
		return false
	}

	EndPhase(r, core.TeamEnemy)
	StartPlayerPhase(r)
	s.reset()
	return true
}

func (s *EnemyPhaseSystem) reset() {
	s.queue = nil
	s.started = false
	s.pending = nil
}

// buildQueue は行動できる敵を Wit の高い順に並べます。同じ Wit なら座標順です。
func (s *EnemyPhaseSystem) buildQueue() []donburi.Entity {
	var units []*donburi.Entry
	for _, e := range s.rules.Query.TeamUnits(core.TeamEnemy) {
		component.UnitComponent.Get(e).HasActed = false
		if mustAct(s.rules.Query, e) {
			units = append(units, e)
		}
	}
	sortByTile(units)
	sort.SliceStable(units, func(i, j int) bool {
		return component.UnitComponent.Get(units[i]).Final.Wit > component.UnitComponent.Get(units[j]).Final.Wit
	})
	queue := make([]donburi.Entity, 0, len(units))
	for _, e := range units {
		queue = append(queue, e.Entity())
	}
	return queue
}

func (s *EnemyPhaseSystem) animating() bool {
	busy := false
	onBoardQuery.Each(s.rules.World, func(e *donburi.Entry) {
		if isAnimating(e) {
			busy = true
		}
	})
	return busy
}

// attack は現在地から計画した技を撃ちます。移動中に状況が変わっていれば対象を選び直します。
func (s *EnemyPhaseSystem) attack(plan EnemyPlan) {
	r := s.rules
	entry := plan.Unit
	if entry == nil || !entry.Valid() {
		return
	}
	component.UnitComponent.Get(entry).HasActed = true
	if plan.Attack == nil {
		return
	}
	var candidates []*donburi.Entry
	for _, t := range r.Query.targetsFrom(entry, plan.Attack, TileOf(entry)) {
		if component.UnitComponent.Get(t).Team != core.TeamNeutral {
			candidates = append(candidates, t)
		}
	}
	target := strategyFor(r, entry).SelectTarget(r, entry, candidates)
	if target == nil {
		r.Logger.WithField("unit", unitName(entry)).Debug("敵AIは攻撃対象がいないため待機します")
		return
	}
	outcomes, ok := r.ExecuteAttack(AttackRequest{
		Attacker: entry,
		Attack:   plan.Attack,
		Targets:  []*donburi.Entry{target},
		Focus:    TileOf(target),
	})
	if ok && len(outcomes) > 0 {
		r.Logger.WithFields(logrus.Fields{
			"unit":   unitName(entry),
			"target": unitName(target),
			"damage": outcomes[0].Damage,
			"hit":    outcomes[0].Hit,
		}).Info("敵AIが攻撃しました")
	}
}
