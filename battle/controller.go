package battle

import (
	"context"
	"errors"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"
	"github.com/FranklyNathan/BrambleWars-sub002/event"
	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// Transition は状態ハンドラがキー入力を処理した結果です。
// To が空なら現在の状態を維持し、Reject が空でなければ入力を無視してブザーを鳴らします。
type Transition struct {
	To     core.PlayerTurnState
	Reject string
}

func stay() Transition                          { return Transition{} }
func goTo(state core.PlayerTurnState) Transition { return Transition{To: state} }
func reject(reason string) Transition           { return Transition{Reject: reason} }

// StateHandler はプレイヤーターンの入力状態1つ分の処理です。
type StateHandler interface {
	HandleKey(ctx *InputContext, key core.Key) Transition
}

// Controller はプレイヤーターンの入力状態機械です。
// 遷移の可否は fsm.FSM が判定し、各状態のキー処理は StateHandler に委ねます。
type Controller struct {
	ctx      *InputContext
	fsm      *fsm.FSM
	handlers map[core.PlayerTurnState]StateHandler
	log      *logrus.Entry
}

// NewController は free_roam から始まる Controller を作り、必要なイベントを購読します。
func NewController(r *system.Rules) *Controller {
	c := &Controller{
		ctx:      &InputContext{Rules: r},
		handlers: newHandlers(),
		log:      logger.For("turn_input"),
	}
	c.ctx.controller = c
	c.fsm = fsm.NewFSM(
		string(core.StateFreeRoam),
		buildEvents(),
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				from, to := core.PlayerTurnState(e.Src), core.PlayerTurnState(e.Dst)
				c.log.WithFields(logrus.Fields{"from": from, "to": to}).Info("入力状態が遷移しました")
				event.Publish(r.World, event.PlayerStateChanged{From: from, To: to})
			},
		},
	)

	event.MoveFinishedEvent.Subscribe(r.World, func(_ donburi.World, ev event.MoveFinished) {
		c.onMoveFinished(ev)
	})
	event.TurnEndedEvent.Subscribe(r.World, func(_ donburi.World, ev event.TurnEnded) {
		if ev.Team == core.TeamPlayer {
			c.Reset()
		}
	})
	return c
}

// State は現在の入力状態を返します。
func (c *Controller) State() core.PlayerTurnState {
	return core.PlayerTurnState(c.fsm.Current())
}

// Context はハンドラが共有する作業データを返します。描画側が参照します。
func (c *Controller) Context() *InputContext {
	return c.ctx
}

// HandleKey は1回のキー入力を現在の状態のハンドラに渡し、結果の遷移を適用します。
// プレイヤーフェイズ以外の入力は無視します。
func (c *Controller) HandleKey(key core.Key) {
	if key == core.KeyNone {
		return
	}
	if entity.GetPhase(c.ctx.Rules.World).Active != core.TeamPlayer {
		return
	}
	state := c.State()
	handler, ok := c.handlers[state]
	if !ok {
		c.log.WithField("state", state).Error("状態ハンドラが登録されていません")
		return
	}
	tr := handler.HandleKey(c.ctx, key)
	if tr.Reject != "" {
		c.rejectInput(state, tr.Reject)
		return
	}
	if tr.To != "" {
		c.transition(tr.To)
	}
}

// transition は to へ遷移します。同じ状態への遷移は何もしません。
// 遷移表にない遷移は警告を残して InputRejected を発行し、false を返します。
func (c *Controller) transition(to core.PlayerTurnState) bool {
	from := c.State()
	if from == to {
		return true
	}
	err := c.fsm.Event(context.Background(), eventName(to))
	if err == nil {
		return true
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return true
	}
	c.log.WithFields(logrus.Fields{"from": from, "to": to}).WithError(err).Warn("不正な状態遷移を無視しました")
	event.Publish(c.ctx.Rules.World, event.InputRejected{State: from, Reason: "illegal transition"})
	return false
}

func (c *Controller) rejectInput(state core.PlayerTurnState, reason string) {
	c.log.WithFields(logrus.Fields{"state": state, "reason": reason}).Debug("入力を受け付けませんでした")
	event.Publish(c.ctx.Rules.World, event.InputRejected{State: state, Reason: reason})
}

// onMoveFinished は選択中ユニットの移動完了で行動メニューを開きます。
func (c *Controller) onMoveFinished(ev event.MoveFinished) {
	if c.State() != core.StateUnitMoving {
		return
	}
	sel := c.ctx.Selected
	if sel == nil || !sel.Valid() || sel.Entity() != ev.Unit {
		return
	}
	c.ctx.Cursor = system.TileOf(sel)
	c.ctx.openActionMenu()
	c.transition(core.StateActionMenu)
}

// Reset は作業データを捨てて free_roam に戻します。フェイズ終了時に使います。
func (c *Controller) Reset() {
	c.ctx.clearScratch()
	from := c.State()
	if from == core.StateFreeRoam {
		return
	}
	c.fsm.SetState(string(core.StateFreeRoam))
	c.log.WithField("from", from).Info("入力状態をリセットしました")
	event.Publish(c.ctx.Rules.World, event.PlayerStateChanged{From: from, To: core.StateFreeRoam})
}

func newHandlers() map[core.PlayerTurnState]StateHandler {
	targets := &targetListState{}
	return map[core.PlayerTurnState]StateHandler{
		core.StateFreeRoam:          &freeRoamState{},
		core.StateUnitSelected:      &unitSelectedState{},
		core.StateUnitMoving:        &unitMovingState{},
		core.StateActionMenu:        &actionMenuState{},
		core.StateCycleTargeting:    &cycleTargetingState{},
		core.StateSecondaryTarget:   &secondaryTargetingState{},
		core.StateGroundAiming:      &groundAimingState{},
		core.StateTileCycling:       &tileCyclingState{},
		core.StateRescueTargeting:   targets,
		core.StateDropTargeting:     &dropTargetingState{},
		core.StateShoveTargeting:    targets,
		core.StateTakeTargeting:     targets,
		core.StateEnemyRangeDisplay: &enemyRangeState{},
		core.StateUnitInfoLocked:    &unitInfoState{},
		core.StateWeaponSelect:      &weaponSelectState{},
		core.StateMapMenu:           &mapMenuState{},
		core.StateShopMenu:          &shopMenuState{},
		core.StatePromotionSelect:   &promotionSelectState{},
		core.StateBurrowTeleport:    &burrowState{},
		core.StateDraftMode:         &draftState{},
	}
}
