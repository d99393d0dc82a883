package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/event"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// TurnEndSystem はプレイヤーフェイズの終了を判定します。
// 判定は ActionFinalized を受け取った後の tick の終わりにだけ行います。
type TurnEndSystem struct {
	rules   *Rules
	pending bool
}

// NewTurnEndSystem は ActionFinalized を購読する TurnEndSystem を作ります。
func NewTurnEndSystem(r *Rules) *TurnEndSystem {
	s := &TurnEndSystem{rules: r}
	event.ActionFinalizedEvent.Subscribe(r.World, func(_ donburi.World, _ event.ActionFinalized) {
		s.pending = true
	})
	return s
}

// Update は保留中の判定を実行し、フェイズが終了した場合に true を返します。
func (s *TurnEndSystem) Update() bool {
	if !s.pending {
		return false
	}
	s.pending = false
	return CheckPlayerTurnEnd(s.rules)
}

// mustAct は行動済みでないとフェイズが終わらないユニットかを返します。
func mustAct(q *WorldQuery, e *donburi.Entry) bool {
	u := component.UnitComponent.Get(e)
	if !u.IsAlive() || e.HasComponent(component.CarriedTag) {
		return false
	}
	return !q.HasStatus(e, core.StatusStunned) && !q.HasStatus(e, core.StatusParalyzed)
}

// CheckPlayerTurnEnd は生存していて行動可能なプレイヤーユニットが全員行動済みならフェイズを終了します。
func CheckPlayerTurnEnd(r *Rules) bool {
	phase := entity.GetPhase(r.World)
	if phase.Active != core.TeamPlayer {
		return false
	}
	for _, e := range r.Query.TeamUnits(core.TeamPlayer) {
		if mustAct(r.Query, e) && !component.UnitComponent.Get(e).HasActed {
			return false
		}
	}
	EndPhase(r, core.TeamPlayer)
	return true
}

// EndPhase は team のフェイズを終了し、次の陣営に手番を渡します。
// 状態異常の残りターンはそのユニットの陣営のフェイズ終了時に1減ります。
// 同じフェイズ中に付いたばかりの状態異常は減らさず、次の自陣営フェイズまで残します。
func EndPhase(r *Rules, team core.TeamID) {
	for _, e := range r.Query.TeamUnits(team) {
		tickStatuses(component.StatusComponent.Get(e))
	}
	phase := entity.GetPhase(r.World)
	phase.DraftAvailable = false
	if team == core.TeamPlayer {
		phase.Active = core.TeamEnemy
	} else {
		phase.Active = core.TeamPlayer
		phase.Turn++
	}
	r.Logger.WithFields(logrus.Fields{
		"team": team,
		"turn": phase.Turn,
	}).Info("フェイズが終了しました")
	event.Publish(r.World, event.TurnEnded{Team: team})
}

func tickStatuses(st *component.Statuses) {
	for k, turns := range st.Effects {
		if st.Fresh[k] {
			delete(st.Fresh, k)
			continue
		}
		if turns <= 1 {
			delete(st.Effects, k)
			continue
		}
		st.Effects[k] = turns - 1
	}
}

// StartPlayerPhase はプレイヤーフェイズを開始し、行動済みフラグを戻します。
// ターン数は敵フェイズの終了時に EndPhase が進めます。
func StartPlayerPhase(r *Rules) {
	phase := entity.GetPhase(r.World)
	phase.Active = core.TeamPlayer
	for _, e := range r.Query.TeamUnits(core.TeamPlayer) {
		component.UnitComponent.Get(e).HasActed = false
		if e.HasComponent(component.PendingActedComponent) {
			e.RemoveComponent(component.PendingActedComponent)
		}
	}
	r.Logger.WithField("turn", phase.Turn).Info("プレイヤーフェイズを開始します")
}
