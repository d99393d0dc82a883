package component

// ECSのCに相当するコンポーネント定義を集約します。
// coreパッケージ及びdonburiライブラリへの依存を想定しています。

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"

	"github.com/yohamta/donburi"
)

// --- Unit Component Data ---

// Unit は戦闘ユニット(障害物を含む)の能力と状態を保持します。
// HP は [0, Final.MaxHP] に保たれます。
type Unit struct {
	ID     string
	Name   string
	Team   core.TeamID
	Class  string
	Origin core.Origin

	Level     int
	Exp       int
	ExpReward int // 撃破/命中時に与える経験値の基準値。0なら経験値なし

	Base    core.Stats
	Final   core.Stats
	Growths core.Stats // レベルアップ時の成長率(%)

	HP   int
	Wisp int

	Movement int
	CanFly   bool
	CanSwim  bool
	Facing   core.Direction
	HasActed bool

	Passives []core.PassiveID
	Attacks  []string // 固有技
	Weapons  []string // 所持武器。先頭 core.EquipSlots 個が装備中

	Promoted          bool
	PromotionBonus    core.Stats
	PromotionMovement int
}

// IsAlive はHPが残っているかを返します。
func (u *Unit) IsAlive() bool {
	return u.HP > 0
}

// HasPassive は指定のパッシブを持つかを返します。
func (u *Unit) HasPassive(id core.PassiveID) bool {
	for _, p := range u.Passives {
		if p == id {
			return true
		}
	}
	return false
}

// EquippedWeapons は装備スロットに入っている武器IDを返します。
func (u *Unit) EquippedWeapons() []string {
	if len(u.Weapons) <= core.EquipSlots {
		return u.Weapons
	}
	return u.Weapons[:core.EquipSlots]
}

// Position はユニットのマス位置とピクセル位置です。
type Position struct {
	Tile  core.Tile
	Pixel core.Point
}

// Statuses は状態異常と残りターン数です。
// Fresh は現在のフェイズ中に付いた状態異常で、次のフェイズ終了までは減りません。
type Statuses struct {
	Effects map[core.StatusType]int
	Fresh   map[core.StatusType]bool
}

// Apply は状態異常を turns ターン付与します。既に長く残っている場合は上書きしません。
func (s *Statuses) Apply(st core.StatusType, turns int) {
	if s.Effects == nil {
		s.Effects = make(map[core.StatusType]int)
	}
	if s.Effects[st] >= turns {
		return
	}
	s.Effects[st] = turns
	if s.Fresh == nil {
		s.Fresh = make(map[core.StatusType]bool)
	}
	s.Fresh[st] = true
}

// Has は状態異常が有効かを返します。
func (s *Statuses) Has(st core.StatusType) bool {
	if s == nil || s.Effects == nil {
		return false
	}
	turns, ok := s.Effects[st]
	return ok && turns > 0
}

// Obstacle は岩・罠・モグラ塚などの障害物ユニットを表します。
type Obstacle struct {
	Kind           string
	Passable       bool
	Indestructible bool
}

// Carry は救出して担いでいるユニットです。
type Carry struct {
	Carrying donburi.Entity
}

// AI は敵ユニットの狙い方と、狙い方の判断に使う直近の交戦履歴です。
type AI struct {
	Strategy string
	// LastAttacker は最後に自分を攻撃してきたユニットです。
	LastAttacker *donburi.Entry
	// LastHitTarget は最後に自分の攻撃が命中したユニットです。
	LastHitTarget *donburi.Entry
}

// --- Transient Effect Data ---

type Shake struct {
	Timer int
}

// Tint はユニットを一時的に色付けする演出です。Color は Tint* 定数のいずれかです。
type Tint struct {
	Timer int
	Color string
}

const (
	TintDamage    = "damage"
	TintHeal      = "heal"
	TintParalyzed = "paralyzed"
)

// PendingDamage はHPバーの減少演出です。実際のHPは既に更新済みです。
type PendingDamage struct {
	FromHP int
	ToHP   int
	Timer  int
}

// Shield は次の1回のダメージを無効化します。
type Shield struct{}

type Lunge struct {
	Direction core.Direction
	Timer     int
}

// FadeOut は撃破された障害物のフェードアウト演出です。終了時に削除されます。
type FadeOut struct {
	Timer int
}

type ExpBarPhase string

const (
	ExpBarIdle      ExpBarPhase = "idle"
	ExpBarFilling   ExpBarPhase = "filling"
	ExpBarShrinking ExpBarPhase = "shrinking"
)

// ExpBar は経験値バーの演出状態です。実際の経験値とは独立して遅れて追従します。
type ExpBar struct {
	Phase ExpBarPhase
	From  int
	Gain  int
	Timer int
}

// --- Turn Data ---

// MoveSnapshot は移動確定前の状態です。行動メニューからのキャンセルで復元されます。
type MoveSnapshot struct {
	Tile      core.Tile
	Facing    core.Direction
	HP        int
	Committed bool

	FrozenTiles []core.Tile
	Spawned     []donburi.Entity
}

// MovePath は移動システムが進める経路です。
type MovePath struct {
	Tiles     []core.Tile
	Waypoints []core.Point
	Index     int
}

// --- World State Data ---

// Edge は From から To への一方向の移動です。段差の判定に使います。
type Edge struct {
	From core.Tile
	To   core.Tile
}

// MapData は地形情報です。座標をそのままキーにした疎なマップで保持します。
type MapData struct {
	Width    int
	Height   int
	TileSize int

	Terrain   map[core.Tile]core.TerrainType
	Ledges    map[Edge]bool
	WinTiles  map[core.Tile]bool
	ShopTiles map[core.Tile]bool
	Frozen    map[core.Tile]bool
}

// InBounds はマップ範囲内かを返します。
func (m *MapData) InBounds(t core.Tile) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < m.Width && t.Y < m.Height
}

// TerrainAt は地形を返します。未設定のマスは通常地形です。
func (m *MapData) TerrainAt(t core.Tile) core.TerrainType {
	if terrain, ok := m.Terrain[t]; ok {
		return terrain
	}
	return core.TerrainNormal
}

// TeamRegistry はチームごとの名簿とパッシブ提供者の一覧、所持金です。
type TeamRegistry struct {
	Rosters          map[core.TeamID][]donburi.Entity
	PassiveProviders map[core.TeamID][]donburi.Entity
	Gold             map[core.TeamID]int
}

// UnitSpec はユニット生成時の設計図です。
type UnitSpec struct {
	Name      string
	Team      core.TeamID
	Class     string
	Origin    core.Origin
	Tile      core.Tile
	Level     int
	ExpReward int
	Base      core.Stats
	Growths   core.Stats
	Movement  int
	CanFly    bool
	CanSwim   bool
	Passives  []core.PassiveID
	Attacks   []string
	Weapons   []string
	Obstacle  *Obstacle
	// AI は敵の狙い方です。空ならプレイヤー操作か既定の狙い方になります。
	AI string
}

// PendingAdd は次のフラッシュで生成されるユニットです。
type PendingAdd struct {
	Spec      UnitSpec
	Owner     donburi.Entity
	OnCreated func(entry *donburi.Entry)
}

// DeferredQueue はフレーム末尾でまとめて処理される追加待ちユニットです。
// 削除は DeleteMarkTag で表します。
type DeferredQueue struct {
	Adds []PendingAdd
}

// Phase は現在のターン番号と行動中の陣営です。
type Phase struct {
	Turn           int
	Active         core.TeamID
	DraftAvailable bool
}
