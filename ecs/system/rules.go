package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/data"
	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// Rules は戦闘ルールの各システムが共通して必要とする依存関係をまとめた構造体です。
// ターン状態機械やホストはこれ1つを受け取ってルールを呼び出します。
type Rules struct {
	World   donburi.World
	Config  *data.Config
	Data    *data.GameDataManager
	Query   *WorldQuery
	Damage  *DamageCalculator
	Hit     *HitCalculator
	Actions *ActionExecutor
	Logger  *logrus.Entry
	Rand    core.Roller
}

// NewRules は Rules を組み立てます。battleLogger が nil の場合は既定の BattleLogger を使います。
func NewRules(world donburi.World, config *data.Config, gdm *data.GameDataManager, r core.Roller, battleLogger data.BattleLogger) *Rules {
	if battleLogger == nil {
		battleLogger = data.NewBattleLogger()
	}
	q := NewWorldQuery(world, gdm)
	return &Rules{
		World:   world,
		Config:  config,
		Data:    gdm,
		Query:   q,
		Damage:  NewDamageCalculator(config.Balance),
		Hit:     NewHitCalculator(r, battleLogger),
		Actions: NewActionExecutor(world, config, q, battleLogger),
		Logger:  logger.For("rules"),
		Rand:    r,
	}
}
