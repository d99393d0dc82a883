package battle

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"

	"github.com/looplab/fsm"
)

// legalTransitions は各状態から遷移できる先の一覧です。
// ハンドラが返す遷移はすべてここに載っている必要があります。
var legalTransitions = map[core.PlayerTurnState][]core.PlayerTurnState{
	core.StateFreeRoam: {
		core.StateUnitSelected, core.StateEnemyRangeDisplay, core.StateMapMenu, core.StateUnitInfoLocked,
	},
	core.StateUnitSelected: {core.StateFreeRoam, core.StateActionMenu, core.StateUnitMoving},
	core.StateUnitMoving:   {core.StateActionMenu},
	core.StateActionMenu: {
		core.StateUnitSelected, core.StateFreeRoam,
		core.StateCycleTargeting, core.StateGroundAiming, core.StateTileCycling,
		core.StateRescueTargeting, core.StateDropTargeting, core.StateShoveTargeting, core.StateTakeTargeting,
		core.StateWeaponSelect, core.StateShopMenu, core.StatePromotionSelect, core.StateBurrowTeleport,
	},
	core.StateCycleTargeting:    {core.StateSecondaryTarget, core.StateActionMenu, core.StateFreeRoam},
	core.StateSecondaryTarget:   {core.StateCycleTargeting, core.StateFreeRoam},
	core.StateGroundAiming:      {core.StateActionMenu, core.StateFreeRoam},
	core.StateTileCycling:       {core.StateActionMenu, core.StateFreeRoam},
	core.StateRescueTargeting:   {core.StateActionMenu, core.StateFreeRoam},
	core.StateDropTargeting:     {core.StateActionMenu, core.StateFreeRoam},
	core.StateShoveTargeting:    {core.StateActionMenu, core.StateFreeRoam},
	core.StateTakeTargeting:     {core.StateActionMenu, core.StateFreeRoam},
	core.StatePromotionSelect:   {core.StateActionMenu, core.StateFreeRoam},
	core.StateBurrowTeleport:    {core.StateActionMenu, core.StateFreeRoam},
	core.StateWeaponSelect:      {core.StateActionMenu},
	core.StateShopMenu:          {core.StateActionMenu},
	core.StateEnemyRangeDisplay: {core.StateFreeRoam},
	core.StateUnitInfoLocked:    {core.StateFreeRoam},
	core.StateMapMenu:           {core.StateFreeRoam, core.StateDraftMode},
	core.StateDraftMode:         {core.StateMapMenu},
}

// eventName は遷移先 state に対応する fsm のイベント名です。
func eventName(state core.PlayerTurnState) string {
	return "to_" + string(state)
}

// buildEvents は遷移表を「遷移先ごとのイベント + 遷移元の一覧」に並べ替えます。
func buildEvents() fsm.Events {
	sources := make(map[core.PlayerTurnState][]string)
	for _, src := range core.AllPlayerTurnStates {
		for _, dst := range legalTransitions[src] {
			sources[dst] = append(sources[dst], string(src))
		}
	}
	var events fsm.Events
	for _, dst := range core.AllPlayerTurnStates {
		if len(sources[dst]) == 0 {
			continue
		}
		events = append(events, fsm.EventDesc{Name: eventName(dst), Src: sources[dst], Dst: string(dst)})
	}
	return events
}
