package component

import (
	"github.com/yohamta/donburi"
)

// --- Componentの型定義 ---
// 各コンポーネントにユニークな型情報を持たせます。
// 演出系の一時コンポーネントは「持っている/いない」がそのまま効果の有無を表します。
var (
	UnitComponent     = donburi.NewComponentType[Unit]()
	PositionComponent = donburi.NewComponentType[Position]()
	StatusComponent   = donburi.NewComponentType[Statuses]()
	ObstacleComponent = donburi.NewComponentType[Obstacle]()
	CarryComponent    = donburi.NewComponentType[Carry]()
	AIComponent       = donburi.NewComponentType[AI]()

	// --- Transient Effect Components ---
	ShakeComponent          = donburi.NewComponentType[Shake]()
	TintComponent           = donburi.NewComponentType[Tint]()
	PendingDamageComponent  = donburi.NewComponentType[PendingDamage]()
	ShieldComponent         = donburi.NewComponentType[Shield]()
	LungeComponent          = donburi.NewComponentType[Lunge]()
	FadeOutComponent        = donburi.NewComponentType[FadeOut]()
	ExpBarComponent         = donburi.NewComponentType[ExpBar]()
	PendingLevelUpComponent = donburi.NewComponentType[struct{}]()

	// --- Turn Components ---
	MoveSnapshotComponent = donburi.NewComponentType[MoveSnapshot]()
	MovePathComponent     = donburi.NewComponentType[MovePath]()
	PendingActedComponent = donburi.NewComponentType[struct{}]()

	// --- Tags ---
	CarriedTag    = donburi.NewComponentType[struct{}]()
	DeleteMarkTag = donburi.NewComponentType[struct{}]()

	// --- World State Components ---
	WorldStateTag          = donburi.NewComponentType[struct{}]()
	MapComponent           = donburi.NewComponentType[MapData]()
	TeamRegistryComponent  = donburi.NewComponentType[TeamRegistry]()
	DeferredQueueComponent = donburi.NewComponentType[DeferredQueue]()
	PhaseComponent         = donburi.NewComponentType[Phase]()
)
