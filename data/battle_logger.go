package data

import (
	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/sirupsen/logrus"
)

// BattleLogger は戦闘中の詳細な計算過程などをデバッグ目的で出力するためのインターフェースです。
// UIに表示されるダメージ数値などはイベント経由で描画側が担当します。
type BattleLogger interface {
	LogHitCheck(attackerName, targetName string, chance float64, roll float64, hit bool)
	LogCriticalHit(attackerName string, chance float64)
	LogDamage(attackerName, targetName string, damage int, hpBefore, hpAfter int)
	LogDeath(victimName, killerName, cause string)
	LogExpGain(unitName string, amount, total int)
}

// BattleLoggerImpl は logrus を使った BattleLogger の実装です。
type BattleLoggerImpl struct {
	entry *logrus.Entry
}

// NewBattleLogger は新しい BattleLoggerImpl のインスタンスを生成します。
func NewBattleLogger() BattleLogger {
	return &BattleLoggerImpl{entry: logger.For("battle")}
}

// LogHitCheck は命中判定のロールをログに出力します。
func (l *BattleLoggerImpl) LogHitCheck(attackerName, targetName string, chance float64, roll float64, hit bool) {
	l.entry.WithFields(logrus.Fields{
		"attacker": attackerName,
		"target":   targetName,
		"chance":   chance,
		"roll":     roll,
		"hit":      hit,
	}).Debug("命中判定")
}

// LogCriticalHit はクリティカルヒットの発生と確率をログに出力します。
func (l *BattleLoggerImpl) LogCriticalHit(attackerName string, chance float64) {
	l.entry.WithFields(logrus.Fields{
		"attacker": attackerName,
		"chance":   chance,
	}).Info("クリティカルヒット")
}

// LogDamage はダメージ適用前後のHPを出力します。
func (l *BattleLoggerImpl) LogDamage(attackerName, targetName string, damage int, hpBefore, hpAfter int) {
	l.entry.WithFields(logrus.Fields{
		"attacker":  attackerName,
		"target":    targetName,
		"damage":    damage,
		"hp_before": hpBefore,
		"hp_after":  hpAfter,
	}).Debug("ダメージ適用")
}

// LogDeath はユニットの撃破を出力します。
func (l *BattleLoggerImpl) LogDeath(victimName, killerName, cause string) {
	l.entry.WithFields(logrus.Fields{
		"victim": victimName,
		"killer": killerName,
		"cause":  cause,
	}).Info("ユニット撃破")
}

// LogExpGain は経験値の獲得を出力します。
func (l *BattleLoggerImpl) LogExpGain(unitName string, amount, total int) {
	l.entry.WithFields(logrus.Fields{
		"unit":   unitName,
		"amount": amount,
		"total":  total,
	}).Debug("経験値獲得")
}
