package core

import "fmt"

// Tile はグリッド上のマス座標です。マップのキーとしてそのまま使えます。
type Tile struct {
	X int
	Y int
}

// Point はピクセル座標です。
type Point struct {
	X float64
	Y float64
}

func (t Tile) String() string {
	return fmt.Sprintf("%d,%d", t.X, t.Y)
}

// Add は (dx, dy) だけずらしたマスを返します。
func (t Tile) Add(dx, dy int) Tile {
	return Tile{X: t.X + dx, Y: t.Y + dy}
}

// Step は指定方向に1マス進んだマスを返します。
func (t Tile) Step(d Direction) Tile {
	switch d {
	case DirUp:
		return t.Add(0, -1)
	case DirDown:
		return t.Add(0, 1)
	case DirLeft:
		return t.Add(-1, 0)
	case DirRight:
		return t.Add(1, 0)
	}
	return t
}

// Neighbors は上下左右4方向の隣接マスを返します。斜めは含みません。
func (t Tile) Neighbors() [4]Tile {
	return [4]Tile{t.Add(0, -1), t.Add(1, 0), t.Add(0, 1), t.Add(-1, 0)}
}

// Manhattan はマンハッタン距離を返します。
func (t Tile) Manhattan(o Tile) int {
	return abs(t.X-o.X) + abs(t.Y-o.Y)
}

// IsAdjacent は上下左右で隣接しているかを返します。
func (t Tile) IsAdjacent(o Tile) bool {
	return t.Manhattan(o) == 1
}

// FacingToward は from から to を向く方向を返します。
// |dx| > |dy| のときだけ水平方向を選び、同値は垂直方向になります。
func FacingToward(from, to Tile) Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return DirRight
		}
		return DirLeft
	}
	if dy < 0 {
		return DirUp
	}
	return DirDown
}

// DirectionFromKey は方向キーを方向に変換します。
func DirectionFromKey(k Key) (Direction, bool) {
	switch k {
	case KeyUp:
		return DirUp, true
	case KeyDown:
		return DirDown, true
	case KeyLeft:
		return DirLeft, true
	case KeyRight:
		return DirRight, true
	}
	return "", false
}

// PixelToTile はピクセル座標をマス座標に変換します。
func PixelToTile(p Point, tileSize int) Tile {
	if tileSize <= 0 {
		return Tile{}
	}
	return Tile{X: floorDiv(int(p.X), tileSize), Y: floorDiv(int(p.Y), tileSize)}
}

// TileToPixel はマスの左上のピクセル座標を返します。
func TileToPixel(t Tile, tileSize int) Point {
	return Point{X: float64(t.X * tileSize), Y: float64(t.Y * tileSize)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
