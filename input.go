package main

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyBindings は物理キーと論理キーの対応です。上から順に判定し、1フレームに1キーだけ渡します。
var keyBindings = []struct {
	keys  []ebiten.Key
	logic core.Key
}{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, core.KeyUp},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, core.KeyDown},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, core.KeyLeft},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, core.KeyRight},
	{[]ebiten.Key{ebiten.KeyZ, ebiten.KeyEnter, ebiten.KeySpace}, core.KeyConfirm},
	{[]ebiten.Key{ebiten.KeyX, ebiten.KeyEscape, ebiten.KeyBackspace}, core.KeyCancel},
	{[]ebiten.Key{ebiten.KeyC, ebiten.KeyI}, core.KeyInfo},
}

// pollKey はこのフレームで押された論理キーを返します。
func pollKey() core.Key {
	for _, b := range keyBindings {
		for _, k := range b.keys {
			if inpututil.IsKeyJustPressed(k) {
				return b.logic
			}
		}
	}
	return core.KeyNone
}
