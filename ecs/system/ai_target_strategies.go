package system

import (
	"sort"

	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// TargetingStrategy は攻撃できる候補の中から敵AIが狙う1体を選びます。
// candidates は座標順に並んでいます。候補がなければ nil を返します。
type TargetingStrategy interface {
	SelectTarget(r *Rules, actor *donburi.Entry, candidates []*donburi.Entry) *donburi.Entry
}

// TargetSortFunc は候補を狙いたい順に並べ替えます。
// これにより、各戦略は並べ替えの基準だけを提供すればよくなります。
type TargetSortFunc func(candidates []*donburi.Entry)

// selectTargetWithSort は並べ替えた候補の先頭を選ぶ共通処理です。候補のスライスは変更しません。
func selectTargetWithSort(candidates []*donburi.Entry, sortFunc TargetSortFunc) *donburi.Entry {
	if len(candidates) == 0 {
		return nil
	}
	sorted := append([]*donburi.Entry(nil), candidates...)
	sortFunc(sorted)
	return sorted[0]
}

// pickRemembered は履歴に残るユニットが候補にいればそれを返します。
func pickRemembered(remembered *donburi.Entry, candidates []*donburi.Entry) *donburi.Entry {
	if remembered == nil || !remembered.Valid() {
		return nil
	}
	for _, c := range candidates {
		if c.Entity() == remembered.Entity() {
			return c
		}
	}
	return nil
}

// --- 戦略の実装 ---

// HunterStrategy は残りHPが最も少ない相手を狙います。既定の戦略です。
type HunterStrategy struct{}

func (s *HunterStrategy) SelectTarget(_ *Rules, _ *donburi.Entry, candidates []*donburi.Entry) *donburi.Entry {
	return selectTargetWithSort(candidates, s.GetSortFunction())
}

func (s *HunterStrategy) GetSortFunction() TargetSortFunc {
	return func(c []*donburi.Entry) {
		sort.SliceStable(c, func(i, j int) bool {
			return component.UnitComponent.Get(c[i]).HP < component.UnitComponent.Get(c[j]).HP
		})
	}
}

// CrusherStrategy は防御の最も高い相手を狙います。
type CrusherStrategy struct{}

func (s *CrusherStrategy) SelectTarget(_ *Rules, _ *donburi.Entry, candidates []*donburi.Entry) *donburi.Entry {
	return selectTargetWithSort(candidates, s.GetSortFunction())
}

func (s *CrusherStrategy) GetSortFunction() TargetSortFunc {
	return func(c []*donburi.Entry) {
		sort.SliceStable(c, func(i, j int) bool {
			return component.UnitComponent.Get(c[i]).Final.Defense > component.UnitComponent.Get(c[j]).Final.Defense
		})
	}
}

// JokerStrategy はランダムな相手を狙います。
type JokerStrategy struct{}

func (s *JokerStrategy) SelectTarget(r *Rules, _ *donburi.Entry, candidates []*donburi.Entry) *donburi.Entry {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[r.Rand.Intn(len(candidates))]
}

// --- 履歴ベースの戦略 ---

// CounterStrategy は自分を最後に攻撃してきた相手を狙います。
type CounterStrategy struct{}

func (s *CounterStrategy) SelectTarget(r *Rules, actor *donburi.Entry, candidates []*donburi.Entry) *donburi.Entry {
	if actor.HasComponent(component.AIComponent) {
		if t := pickRemembered(component.AIComponent.Get(actor).LastAttacker, candidates); t != nil {
			r.Logger.WithFields(logrus.Fields{"unit": unitName(actor), "target": unitName(t)}).
				Debug("AI戦略 [カウンター]: 最後に攻撃してきた相手を狙います")
			return t
		}
	}
	return (&HunterStrategy{}).SelectTarget(r, actor, candidates)
}

// FocusStrategy は自分が最後に攻撃を命中させた相手を再度狙います。
type FocusStrategy struct{}

func (s *FocusStrategy) SelectTarget(r *Rules, actor *donburi.Entry, candidates []*donburi.Entry) *donburi.Entry {
	if actor.HasComponent(component.AIComponent) {
		if t := pickRemembered(component.AIComponent.Get(actor).LastHitTarget, candidates); t != nil {
			r.Logger.WithFields(logrus.Fields{"unit": unitName(actor), "target": unitName(t)}).
				Debug("AI戦略 [フォーカス]: 前回攻撃した相手を再度狙います")
			return t
		}
	}
	return (&HunterStrategy{}).SelectTarget(r, actor, candidates)
}

// AssistStrategy は味方が最後に攻撃を命中させた相手を狙います。
type AssistStrategy struct{}

func (s *AssistStrategy) SelectTarget(r *Rules, actor *donburi.Entry, candidates []*donburi.Entry) *donburi.Entry {
	team := component.UnitComponent.Get(actor).Team
	for _, mate := range r.Query.TeamUnits(team) {
		if mate.Entity() == actor.Entity() || !mate.HasComponent(component.AIComponent) {
			continue
		}
		if t := pickRemembered(component.AIComponent.Get(mate).LastHitTarget, candidates); t != nil {
			r.Logger.WithFields(logrus.Fields{"unit": unitName(actor), "target": unitName(t)}).
				Debug("AI戦略 [アシスト]: 味方の攻撃に続きます")
			return t
		}
	}
	return (&HunterStrategy{}).SelectTarget(r, actor, candidates)
}

// StrategyRegistry は UnitSpec.AI の名前と戦略の対応です。
var StrategyRegistry = map[string]TargetingStrategy{
	"hunter":  &HunterStrategy{},
	"crusher": &CrusherStrategy{},
	"joker":   &JokerStrategy{},
	"counter": &CounterStrategy{},
	"focus":   &FocusStrategy{},
	"assist":  &AssistStrategy{},
}

// strategyFor はユニットの戦略を返します。未設定や未知の名前はハンターになります。
func strategyFor(r *Rules, entry *donburi.Entry) TargetingStrategy {
	if !entry.HasComponent(component.AIComponent) {
		return StrategyRegistry["hunter"]
	}
	name := component.AIComponent.Get(entry).Strategy
	s, ok := StrategyRegistry[name]
	if !ok {
		r.Logger.WithFields(logrus.Fields{"unit": unitName(entry), "strategy": name}).
			Warn("AI戦略が見つかりません。ハンターを使います")
		return StrategyRegistry["hunter"]
	}
	return s
}
