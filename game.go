package main

import (
	"github.com/FranklyNathan/BrambleWars-sub002/battle"
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/data"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"
	"github.com/FranklyNathan/BrambleWars-sub002/event"
	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// Game は1つの戦闘を動かす Ebitengine のホストです。
// 入力を論理キーに変換して状態機械に渡し、毎フレーム決まった順番でシステムを回します。
type Game struct {
	config     *data.Config
	rules      *system.Rules
	controller *battle.Controller
	turnEnd    *system.TurnEndSystem
	enemyPhase *system.EnemyPhaseSystem
	messages   *data.MessageManager
	log        *logrus.Entry

	lastRejection string
	rejectTimer   int
	winner        core.TeamID
}

// NewGame はワールドを作り、デモ用の戦場を配置して Game を返します。
func NewGame(config *data.Config, gdm *data.GameDataManager, rnd core.Roller) (*Game, error) {
	world := donburi.NewWorld()
	entity.EnsureWorldState(world, config.Grid.Width, config.Grid.Height, config.Grid.TileSize)

	messages, err := data.LoadMessages()
	if err != nil {
		return nil, err
	}
	rules := system.NewRules(world, config, gdm, rnd, nil)
	if err := buildDemoScenario(rules); err != nil {
		return nil, err
	}

	g := &Game{
		config:     config,
		rules:      rules,
		controller: battle.NewController(rules),
		turnEnd:    system.NewTurnEndSystem(rules),
		enemyPhase: system.NewEnemyPhaseSystem(rules),
		messages:   messages,
		log:        logger.For("game"),
	}
	system.SubscribeLifecycle(rules)
	g.subscribe(world)

	g.log.WithFields(logrus.Fields{
		"width":  config.Grid.Width,
		"height": config.Grid.Height,
	}).Info("戦闘を開始します")
	return g, nil
}

// subscribe は画面表示に使うイベントを購読します。
func (g *Game) subscribe(world donburi.World) {
	event.InputRejectedEvent.Subscribe(world, func(_ donburi.World, ev event.InputRejected) {
		g.lastRejection = g.messages.Rejection(ev.Reason)
		g.rejectTimer = 60
	})
	event.TurnEndedEvent.Subscribe(world, func(_ donburi.World, ev event.TurnEnded) {
		g.log.WithField("team", ev.Team).Debug("フェイズ終了を受け取りました")
	})
	event.LevelUpEvent.Subscribe(world, func(w donburi.World, ev event.LevelUp) {
		if !w.Valid(ev.Unit) {
			return
		}
		u := component.UnitComponent.Get(w.Entry(ev.Unit))
		g.log.WithFields(logrus.Fields{"unit": u.Name, "level": ev.Level}).
			Info(g.messages.FormatMessage("log.level_up", map[string]any{"name": u.Name, "level": ev.Level}))
	})
}

// Update は1フレーム分の入力とシステムを処理します。
// 順番: 入力 → 移動 → 演出タイマー → レベルアップ → 行動完了 → ターン終了判定 → 敵フェイズ → 遅延生成・削除
func (g *Game) Update() error {
	if g.winner != "" {
		return nil
	}
	if key := pollKey(); key != core.KeyNone {
		g.controller.HandleKey(key)
	}

	system.UpdateMovementSystem(g.rules)
	system.UpdateEffectTimerSystem(g.rules)
	system.UpdateLevelingSystem(g.rules)
	system.UpdateActionCompletionSystem(g.rules)
	g.turnEnd.Update()
	g.enemyPhase.Update()

	entity.FlushDeferred(g.rules.World, func(entry *donburi.Entry) {
		system.RecalculateStats(g.rules.Query, entry)
	})

	if g.rejectTimer > 0 {
		g.rejectTimer--
	}
	g.checkWinner()
	return nil
}

// checkWinner はどちらかの陣営が全滅していれば勝者を記録します。
func (g *Game) checkWinner() {
	players := len(g.rules.Query.TeamUnits(core.TeamPlayer))
	enemies := len(g.rules.Query.TeamUnits(core.TeamEnemy))
	switch {
	case enemies == 0:
		g.winner = core.TeamPlayer
	case players == 0:
		g.winner = core.TeamEnemy
	default:
		return
	}
	g.log.WithField("winner", g.winner).Info("戦闘が終了しました")
}

// Draw は盤面とカーソル、入力状態を描画します。
func (g *Game) Draw(screen *ebiten.Image) {
	drawBoard(screen, g.rules)
	drawOverlay(screen, g.rules, g.controller)
	drawUnits(screen, g.rules)
	drawHUD(screen, g)
}

// Layout はEbitenのレイアウト計算を行います
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.config.UI.Screen.Width, g.config.UI.Screen.Height
}
