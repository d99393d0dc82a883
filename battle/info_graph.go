package battle

import "github.com/FranklyNathan/BrambleWars-sub002/core"

// InfoNode はユニット情報パネルの項目です。
type InfoNode string

const (
	InfoStats    InfoNode = "stats"
	InfoWeapons  InfoNode = "weapons"
	InfoAttacks  InfoNode = "attacks"
	InfoPassives InfoNode = "passives"
	InfoStatus   InfoNode = "status"
)

// infoGraph はパネル上の項目の隣接関係です。
//
//	stats    weapons  attacks
//	passives status
type infoGraph map[InfoNode]map[core.Key]InfoNode

// link は a から key で b へ、b から逆方向のキーで a へ移れるようにします。
// 逆方向が既に登録されている場合は上書きしません。
func (g infoGraph) link(a InfoNode, key core.Key, b InfoNode) {
	g.set(a, key, b, true)
	g.set(b, opposite(key), a, false)
}

func (g infoGraph) set(from InfoNode, key core.Key, to InfoNode, overwrite bool) {
	if g[from] == nil {
		g[from] = make(map[core.Key]InfoNode)
	}
	if _, exists := g[from][key]; exists && !overwrite {
		return
	}
	g[from][key] = to
}

// Next は node から key で移る先を返します。行き先がなければ false です。
func (g infoGraph) Next(node InfoNode, key core.Key) (InfoNode, bool) {
	next, ok := g[node][key]
	return next, ok
}

func opposite(key core.Key) core.Key {
	switch key {
	case core.KeyUp:
		return core.KeyDown
	case core.KeyDown:
		return core.KeyUp
	case core.KeyLeft:
		return core.KeyRight
	case core.KeyRight:
		return core.KeyLeft
	}
	return core.KeyNone
}

var unitInfoGraph = func() infoGraph {
	g := infoGraph{}
	g.link(InfoStats, core.KeyRight, InfoWeapons)
	g.link(InfoWeapons, core.KeyRight, InfoAttacks)
	g.link(InfoPassives, core.KeyRight, InfoStatus)
	g.link(InfoStats, core.KeyDown, InfoPassives)
	g.link(InfoWeapons, core.KeyDown, InfoStatus)
	// attacks の下には項目がないので status に寄せます。戻りは weapons です。
	g.set(InfoAttacks, core.KeyDown, InfoStatus, true)
	return g
}()
