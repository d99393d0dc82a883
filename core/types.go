package core

// --- Enums and Constants ---

type TeamID string
type Origin string
type UseType string
type TargetingStyle string
type TerrainType string
type StatusType string
type PassiveID string
type Direction string
type PlayerTurnState string

const (
	TeamPlayer  TeamID = "player"
	TeamEnemy   TeamID = "enemy"
	TeamNeutral TeamID = "neutral"
)

// 3すくみの属性です。Flame > Verdant > Tide > Flame。
const (
	OriginNone    Origin = ""
	OriginFlame   Origin = "flame"
	OriginVerdant Origin = "verdant"
	OriginTide    Origin = "tide"
)

const (
	UsePhysical UseType = "physical"
	UseMagical  UseType = "magical"
	UseUtility  UseType = "utility"
)

const (
	TargetCycle     TargetingStyle = "cycle_target"
	TargetGroundAim TargetingStyle = "ground_aim"
	TargetTileCycle TargetingStyle = "tile_cycle"
	TargetDirection TargetingStyle = "directional"
	TargetNone      TargetingStyle = "no_target"
	TargetAutoAll   TargetingStyle = "auto_hit_all"
)

const (
	TerrainNormal TerrainType = "normal"
	TerrainWater  TerrainType = "water"
	TerrainMud    TerrainType = "mud"
)

const (
	StatusInvincible StatusType = "invincible"
	StatusParalyzed  StatusType = "paralyzed"
	StatusStunned    StatusType = "stunned"
	StatusSlowed     StatusType = "slowed"
)

// パッシブ能力の識別子です。passives.csv のIDと一致します。
const (
	PassiveWaterWalker   PassiveID = "water_walker"
	PassiveSlipstream    PassiveID = "slipstream"
	PassiveDesperate     PassiveID = "desperate"
	PassiveLastStand     PassiveID = "last_stand"
	PassivePristine      PassiveID = "pristine"
	PassiveFastLearner   PassiveID = "fast_learner"
	PassiveParalysisAura PassiveID = "paralysis_aura"
	PassiveOblivious     PassiveID = "oblivious"
	PassiveFrostWalker   PassiveID = "frost_walker"
	PassiveDecoy         PassiveID = "decoy"
	PassiveBurrow        PassiveID = "burrow"
)

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// プレイヤーターン中の入力状態です。同時にアクティブになるのは1つだけです。
const (
	StateFreeRoam          PlayerTurnState = "free_roam"
	StateUnitSelected      PlayerTurnState = "unit_selected"
	StateUnitMoving        PlayerTurnState = "unit_moving"
	StateActionMenu        PlayerTurnState = "action_menu"
	StateTileCycling       PlayerTurnState = "tile_cycling"
	StateSecondaryTarget   PlayerTurnState = "secondary_targeting"
	StateGroundAiming      PlayerTurnState = "ground_aiming"
	StateCycleTargeting    PlayerTurnState = "cycle_targeting"
	StateRescueTargeting   PlayerTurnState = "rescue_targeting"
	StateDropTargeting     PlayerTurnState = "drop_targeting"
	StateShoveTargeting    PlayerTurnState = "shove_targeting"
	StateTakeTargeting     PlayerTurnState = "take_targeting"
	StateEnemyRangeDisplay PlayerTurnState = "enemy_range_display"
	StateUnitInfoLocked    PlayerTurnState = "unit_info_locked"
	StateWeaponSelect      PlayerTurnState = "weapon_select"
	StateMapMenu           PlayerTurnState = "map_menu"
	StateShopMenu          PlayerTurnState = "shop_menu"
	StatePromotionSelect   PlayerTurnState = "promotion_select"
	StateBurrowTeleport    PlayerTurnState = "burrow_teleport_selecting"
	StateDraftMode         PlayerTurnState = "draft_mode"
)

// AllPlayerTurnStates は状態の閉じた列挙です。
var AllPlayerTurnStates = []PlayerTurnState{
	StateFreeRoam, StateUnitSelected, StateUnitMoving, StateActionMenu,
	StateTileCycling, StateSecondaryTarget, StateGroundAiming, StateCycleTargeting,
	StateRescueTargeting, StateDropTargeting, StateShoveTargeting, StateTakeTargeting,
	StateEnemyRangeDisplay, StateUnitInfoLocked, StateWeaponSelect, StateMapMenu,
	StateShopMenu, StatePromotionSelect, StateBurrowTeleport, StateDraftMode,
}

// Key はホストから渡される論理入力キーです。
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyConfirm
	KeyCancel
	KeyInfo
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyConfirm:
		return "confirm"
	case KeyCancel:
		return "cancel"
	case KeyInfo:
		return "info"
	}
	return "none"
}

// IsArrow は方向キーかどうかを返します。
func (k Key) IsArrow() bool {
	return k == KeyUp || k == KeyDown || k == KeyLeft || k == KeyRight
}

// EquipSlots は装備スロットの固定数です。
const EquipSlots = 2

// --- Data Structures ---

// Stats はユニットの能力値一式です。基礎値と補正後の値の両方に使われます。
type Stats struct {
	Attack     int
	Defense    int
	Magic      int
	Resistance int
	Wit        int
	Weight     int
	MaxHP      int
	MaxWisp    int
}

// Add は2つの能力値を合算した値を返します。
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Attack:     s.Attack + o.Attack,
		Defense:    s.Defense + o.Defense,
		Magic:      s.Magic + o.Magic,
		Resistance: s.Resistance + o.Resistance,
		Wit:        s.Wit + o.Wit,
		Weight:     s.Weight + o.Weight,
		MaxHP:      s.MaxHP + o.MaxHP,
		MaxWisp:    s.MaxWisp + o.MaxWisp,
	}
}
