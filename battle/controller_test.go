package battle

import (
	"testing"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"
	"github.com/FranklyNathan/BrambleWars-sub002/event"
)

func rejections(rec *event.Recorder) []event.InputRejected {
	var out []event.InputRejected
	for _, ev := range rec.Events {
		if r, ok := ev.(event.InputRejected); ok {
			out = append(out, r)
		}
	}
	return out
}

// selectOption は行動メニューのカーソルを kind の項目まで下げます。
func (f *fixture) selectOption(kind MenuOptionKind) {
	f.t.Helper()
	ctx := f.c.Context()
	for i := 0; i < len(ctx.Menu); i++ {
		if ctx.Menu[ctx.MenuIndex].Kind == kind {
			return
		}
		f.press(core.KeyDown)
	}
	f.t.Fatalf("menu %v has no %s", ctx.Menu, kind)
}

func (f *fixture) walk() {
	for i := 0; i < 100 && f.busyMoving(); i++ {
		f.tick()
	}
}

func (f *fixture) busyMoving() bool {
	for _, e := range f.r.Query.UnitsOnBoard() {
		if e.HasComponent(component.MovePathComponent) {
			return true
		}
	}
	return false
}

func TestEveryStateHasHandlerAndTransitions(t *testing.T) {
	handlers := newHandlers()
	for _, s := range core.AllPlayerTurnStates {
		if handlers[s] == nil {
			t.Errorf("no handler for %s", s)
		}
		if len(legalTransitions[s]) == 0 {
			t.Errorf("no transition out of %s", s)
		}
	}
}

func TestIllegalTransitionIsRejected(t *testing.T) {
	f := newFixture(t, 3, 3)
	if f.c.transition(core.StateShopMenu) {
		t.Fatal("free_roam -> shop_menu must be illegal")
	}
	f.expectState(core.StateFreeRoam)
	if rj := rejections(f.rec); len(rj) != 1 || rj[0].Reason != "illegal transition" {
		t.Errorf("rejections = %v", rj)
	}
	if !f.c.transition(core.StateMapMenu) {
		t.Fatal("free_roam -> map_menu is legal")
	}
	if event.Count[event.PlayerStateChanged](f.rec) != 1 {
		t.Error("legal transition should publish player_state_changed")
	}
}

func TestSelectMoveAttackFinalize(t *testing.T) {
	f := newFixture(t, 5, 5)
	h := f.spawn(hero("Hazel", core.Tile{X: 0, Y: 0}, 3, "bramble_sword"))
	f.spawn(hero("Moss", core.Tile{X: 4, Y: 4}, 3))
	foeEntry := f.spawn(foe("Briar", core.Tile{X: 2, Y: 1}))
	if !entity.GetPhase(f.r.World).DraftAvailable {
		t.Fatal("draft should be open before the first action")
	}

	f.press(core.KeyConfirm)
	f.expectState(core.StateUnitSelected)
	f.press(core.KeyRight, core.KeyDown, core.KeyConfirm)
	f.expectState(core.StateUnitMoving)

	f.press(core.KeyCancel)
	f.expectState(core.StateUnitMoving)

	f.walk()
	f.expectState(core.StateActionMenu)
	if got := system.TileOf(h); got != (core.Tile{X: 1, Y: 1}) {
		t.Fatalf("tile = %v", got)
	}
	ctx := f.c.Context()
	if ctx.Menu[0].Kind != OptionAttack || ctx.Menu[len(ctx.Menu)-1].Kind != OptionWait {
		t.Fatalf("menu = %v", ctx.Menu)
	}

	f.press(core.KeyConfirm)
	f.expectState(core.StateCycleTargeting)
	if unitOf(h).Facing != core.DirRight {
		t.Errorf("facing = %s, want right", unitOf(h).Facing)
	}
	f.press(core.KeyConfirm)
	f.expectState(core.StateFreeRoam)

	if !h.HasComponent(component.PendingActedComponent) || unitOf(h).HasActed {
		t.Error("acted flag should wait for the lunge")
	}
	if h.HasComponent(component.MoveSnapshotComponent) {
		t.Error("snapshot should be dropped on finalize")
	}
	if entity.GetPhase(f.r.World).DraftAvailable {
		t.Error("draft closes after the first action")
	}
	if f.c.Context().Cursor != (core.Tile{X: 1, Y: 1}) {
		t.Errorf("cursor = %v", f.c.Context().Cursor)
	}
	if u := unitOf(foeEntry); u.HP >= u.Final.MaxHP {
		t.Error("target should take damage")
	}

	f.settle()
	if !unitOf(h).HasActed {
		t.Fatal("acted flag should be set after animations")
	}
	if entity.GetPhase(f.r.World).Active != core.TeamPlayer {
		t.Error("Moss can still act")
	}
	f.press(core.KeyConfirm)
	f.expectState(core.StateFreeRoam)
	if rj := rejections(f.rec); len(rj) != 1 || rj[0].Reason != "unit cannot act" {
		t.Errorf("rejections = %v", rj)
	}
}

func TestUndoRestoresFrozenWaterAndDecoy(t *testing.T) {
	f := newFixture(t, 5, 1)
	water := core.Tile{X: 1, Y: 0}
	f.r.Query.Map().Terrain[water] = core.TerrainWater
	spec := hero("Rime", core.Tile{X: 0, Y: 0}, 3)
	spec.Passives = []core.PassiveID{core.PassiveFrostWalker, core.PassiveDecoy}
	h := f.spawn(spec)

	f.press(core.KeyConfirm, core.KeyRight, core.KeyRight, core.KeyConfirm)
	f.walk()
	f.expectState(core.StateActionMenu)

	if f.r.Query.IsTileWater(water) {
		t.Fatal("water should be frozen while crossing")
	}
	snap := component.MoveSnapshotComponent.Get(h)
	if len(snap.Spawned) != 1 {
		t.Fatalf("spawned = %v", snap.Spawned)
	}
	decoy := snap.Spawned[0]
	unitOf(h).HP = 12

	f.press(core.KeyCancel)
	f.expectState(core.StateUnitSelected)
	if got := system.TileOf(h); got != (core.Tile{}) {
		t.Errorf("tile = %v, want origin", got)
	}
	if unitOf(h).HP != 30 {
		t.Errorf("hp = %d, want 30", unitOf(h).HP)
	}
	if !f.r.Query.IsTileWater(water) {
		t.Error("frozen tile should thaw on undo")
	}
	if h.HasComponent(component.MoveSnapshotComponent) {
		t.Error("snapshot should be consumed")
	}
	if f.c.Context().Cursor != (core.Tile{}) {
		t.Errorf("cursor = %v", f.c.Context().Cursor)
	}

	f.tick()
	if f.r.World.Valid(decoy) {
		t.Error("decoy should be removed on the next flush")
	}
}

func TestUndoCancelsQueuedDecoy(t *testing.T) {
	f := newFixture(t, 3, 1)
	spec := hero("Wisp", core.Tile{X: 0, Y: 0}, 2)
	spec.Passives = []core.PassiveID{core.PassiveDecoy}
	h := f.spawn(spec)

	f.press(core.KeyConfirm, core.KeyRight, core.KeyConfirm)
	system.UpdateMovementSystem(f.r)
	f.expectState(core.StateActionMenu)
	if n := len(entity.GetDeferredQueue(f.r.World).Adds); n != 1 {
		t.Fatalf("queued adds = %d", n)
	}

	f.press(core.KeyCancel)
	f.expectState(core.StateUnitSelected)
	if n := len(entity.GetDeferredQueue(f.r.World).Adds); n != 0 {
		t.Errorf("queued decoy should be cancelled, %d left", n)
	}
	if system.TileOf(h) != (core.Tile{}) {
		t.Error("unit should return to its origin")
	}
}

func TestPurchaseCommitsMove(t *testing.T) {
	f := newFixture(t, 3, 3)
	f.r.Query.Map().ShopTiles[core.Tile{}] = true
	entity.GetRegistry(f.r.World).Gold[core.TeamPlayer] = 500
	h := f.spawn(hero("Hazel", core.Tile{}, 3, "bramble_sword"))

	f.press(core.KeyConfirm, core.KeyConfirm)
	f.expectState(core.StateActionMenu)
	f.selectOption(OptionShop)
	f.press(core.KeyConfirm)
	f.expectState(core.StateShopMenu)

	f.press(core.KeyConfirm)
	f.expectState(core.StateShopMenu)
	if gold := entity.GetRegistry(f.r.World).Gold[core.TeamPlayer]; gold != 420 {
		t.Errorf("gold = %d, want 420", gold)
	}
	if ws := unitOf(h).Weapons; len(ws) != 2 || ws[1] != "trail_boots" {
		t.Errorf("weapons = %v", ws)
	}

	f.press(core.KeyCancel)
	f.expectState(core.StateActionMenu)
	f.press(core.KeyCancel)
	f.expectState(core.StateActionMenu)
	if rj := rejections(f.rec); len(rj) != 1 || rj[0].Reason != "move already committed" {
		t.Errorf("rejections = %v", rj)
	}

	f.selectOption(OptionWait)
	f.press(core.KeyConfirm)
	f.expectState(core.StateFreeRoam)
	if !h.HasComponent(component.PendingActedComponent) {
		t.Error("wait should finalize the action")
	}
}

func TestCycleTargetingWrapsAndFaces(t *testing.T) {
	f := newFixture(t, 5, 5)
	h := f.spawn(hero("Hazel", core.Tile{X: 2, Y: 2}, 3, "bramble_sword"))
	f.spawn(foe("North", core.Tile{X: 2, Y: 1}))
	f.spawn(foe("West", core.Tile{X: 1, Y: 2}))
	f.spawn(foe("East", core.Tile{X: 3, Y: 2}))
	f.c.Context().Cursor = core.Tile{X: 2, Y: 2}

	f.press(core.KeyConfirm, core.KeyConfirm)
	f.selectOption(OptionAttack)
	f.press(core.KeyConfirm)
	f.expectState(core.StateCycleTargeting)

	steps := []struct {
		key    core.Key
		tile   core.Tile
		facing core.Direction
	}{
		{core.KeyLeft, core.Tile{X: 3, Y: 2}, core.DirRight},
		{core.KeyRight, core.Tile{X: 2, Y: 1}, core.DirUp},
		{core.KeyRight, core.Tile{X: 1, Y: 2}, core.DirLeft},
	}
	for _, s := range steps {
		f.press(s.key)
		if got := f.c.Context().Cursor; got != s.tile {
			t.Errorf("after %s cursor = %v, want %v", s.key, got, s.tile)
		}
		if got := unitOf(h).Facing; got != s.facing {
			t.Errorf("after %s facing = %s, want %s", s.key, got, s.facing)
		}
	}
	if n := event.Count[event.CycleTargetChanged](f.rec); n != 4 {
		t.Errorf("cycle_target_changed = %d, want 4", n)
	}

	f.press(core.KeyCancel)
	f.expectState(core.StateActionMenu)
	if f.c.Context().Attack != nil {
		t.Error("attack should be cleared when returning to the menu")
	}
}

func TestSecondaryTargetingMovesTarget(t *testing.T) {
	f := newFixture(t, 5, 5)
	spec := hero("Sable", core.Tile{}, 3)
	spec.Attacks = []string{"blink"}
	f.spawn(spec)
	fern := f.spawn(hero("Fern", core.Tile{X: 1, Y: 0}, 3))

	f.press(core.KeyConfirm, core.KeyConfirm)
	f.selectOption(OptionAttack)
	f.press(core.KeyConfirm)
	f.expectState(core.StateCycleTargeting)
	f.press(core.KeyConfirm)
	f.expectState(core.StateSecondaryTarget)
	if got := f.c.Context().Cursor; got != (core.Tile{X: 2, Y: 0}) {
		t.Fatalf("first destination = %v", got)
	}

	f.press(core.KeyRight, core.KeyCancel)
	f.expectState(core.StateCycleTargeting)
	if f.c.Context().Secondary != nil {
		t.Error("destinations should be discarded on cancel")
	}

	f.press(core.KeyConfirm, core.KeyRight, core.KeyConfirm)
	f.expectState(core.StateFreeRoam)
	if got := system.TileOf(fern); got != (core.Tile{X: 3, Y: 0}) {
		t.Errorf("target tile = %v, want (3,0)", got)
	}
}

func TestGroundAimingStaysInRange(t *testing.T) {
	f := newFixture(t, 5, 5)
	spec := hero("Thorn", core.Tile{}, 3)
	spec.Attacks = []string{"hurl"}
	f.spawn(spec)
	near := f.spawn(foe("Near", core.Tile{X: 3, Y: 0}))
	side := f.spawn(foe("Side", core.Tile{X: 4, Y: 0}))
	far := f.spawn(foe("Far", core.Tile{X: 0, Y: 4}))

	f.press(core.KeyConfirm, core.KeyConfirm)
	f.selectOption(OptionAttack)
	f.press(core.KeyConfirm)
	f.expectState(core.StateGroundAiming)
	if aim := f.c.Context().Aim; aim != (core.Tile{X: 2, Y: 0}) {
		t.Fatalf("aim = %v", aim)
	}

	f.press(core.KeyLeft)
	if aim := f.c.Context().Aim; aim != (core.Tile{X: 2, Y: 0}) {
		t.Errorf("aim must not go below min range, got %v", aim)
	}
	f.press(core.KeyRight, core.KeyRight)
	if aim := f.c.Context().Aim; aim != (core.Tile{X: 3, Y: 0}) {
		t.Errorf("aim must not go beyond max range, got %v", aim)
	}

	f.press(core.KeyConfirm)
	f.expectState(core.StateFreeRoam)
	for _, e := range []struct {
		name string
		hurt bool
		u    *component.Unit
	}{{"near", true, unitOf(near)}, {"side", true, unitOf(side)}, {"far", false, unitOf(far)}} {
		if hurt := e.u.HP < e.u.Final.MaxHP; hurt != e.hurt {
			t.Errorf("%s hurt = %v, want %v", e.name, hurt, e.hurt)
		}
	}
}

func TestShoveThroughTargetList(t *testing.T) {
	f := newFixture(t, 5, 5)
	f.spawn(hero("Hazel", core.Tile{X: 1, Y: 1}, 3))
	mate := f.spawn(hero("Moss", core.Tile{X: 2, Y: 1}, 3))
	f.c.Context().Cursor = core.Tile{X: 1, Y: 1}

	f.press(core.KeyConfirm, core.KeyConfirm)
	f.selectOption(OptionShove)
	f.press(core.KeyConfirm)
	f.expectState(core.StateShoveTargeting)
	f.press(core.KeyConfirm)
	f.expectState(core.StateFreeRoam)
	if got := system.TileOf(mate); got != (core.Tile{X: 3, Y: 1}) {
		t.Errorf("shoved to %v, want (3,1)", got)
	}
}

func TestUnitInfoNavigation(t *testing.T) {
	f := newFixture(t, 3, 3)
	f.spawn(foe("Briar", core.Tile{}))

	f.press(core.KeyInfo)
	f.expectState(core.StateUnitInfoLocked)
	walk := []struct {
		key  core.Key
		want InfoNode
	}{
		{core.KeyLeft, InfoStats},
		{core.KeyRight, InfoWeapons},
		{core.KeyRight, InfoAttacks},
		{core.KeyDown, InfoStatus},
		{core.KeyLeft, InfoPassives},
		{core.KeyUp, InfoStats},
	}
	for _, w := range walk {
		f.press(w.key)
		if got := f.c.Context().InfoNode; got != w.want {
			t.Fatalf("after %s node = %s, want %s", w.key, got, w.want)
		}
	}
	if n := event.Count[event.UnitInfoMenuSelectionChanged](f.rec); n != 6 {
		t.Errorf("selection events = %d, want 6", n)
	}
	f.press(core.KeyCancel)
	f.expectState(core.StateFreeRoam)
}

func TestInfoGraphReverseEdges(t *testing.T) {
	if next, _ := unitInfoGraph.Next(InfoStatus, core.KeyUp); next != InfoWeapons {
		t.Errorf("status up = %s, want weapons", next)
	}
	if _, ok := unitInfoGraph.Next(InfoAttacks, core.KeyRight); ok {
		t.Error("attacks has nothing to its right")
	}
}

func TestEnemyRangeDisplay(t *testing.T) {
	f := newFixture(t, 3, 3)
	briar := f.spawn(foe("Briar", core.Tile{X: 1, Y: 0}))

	f.press(core.KeyRight)
	if f.c.Context().Hover == nil {
		t.Error("hovering a unit should show its range")
	}
	f.press(core.KeyConfirm)
	f.expectState(core.StateEnemyRangeDisplay)
	ctx := f.c.Context()
	if ctx.Inspected == nil || ctx.Inspected.Entity() != briar.Entity() || ctx.Hover == nil {
		t.Fatal("enemy range should be shown for Briar")
	}
	f.press(core.KeyDown)
	f.expectState(core.StateFreeRoam)
	if ctx.Cursor != (core.Tile{X: 1, Y: 1}) || ctx.Inspected != nil {
		t.Errorf("cursor = %v inspected = %v", ctx.Cursor, ctx.Inspected)
	}
}

func TestEndTurnFromMapMenu(t *testing.T) {
	f := newFixture(t, 4, 4)
	a := f.spawn(hero("Hazel", core.Tile{X: 1, Y: 1}, 3))
	b := f.spawn(hero("Moss", core.Tile{X: 2, Y: 2}, 3))

	f.press(core.KeyConfirm)
	f.expectState(core.StateMapMenu)
	if menu := f.c.Context().Menu; len(menu) != 2 || menu[0].Kind != OptionEndTurn || menu[1].Kind != OptionDraft {
		t.Fatalf("menu = %v", menu)
	}
	f.press(core.KeyConfirm)
	f.expectState(core.StateFreeRoam)
	if !a.HasComponent(component.PendingActedComponent) || !b.HasComponent(component.PendingActedComponent) {
		t.Fatal("every idle unit should be marked")
	}

	f.tick()
	if entity.GetPhase(f.r.World).Active != core.TeamEnemy {
		t.Fatal("enemy phase should begin")
	}
	f.press(core.KeyConfirm)
	f.expectState(core.StateFreeRoam)
}

func TestPhaseEndResetsInputState(t *testing.T) {
	f := newFixture(t, 3, 3)
	f.spawn(hero("Hazel", core.Tile{}, 3))
	f.press(core.KeyConfirm)
	f.expectState(core.StateUnitSelected)

	system.EndPhase(f.r, core.TeamPlayer)
	f.expectState(core.StateFreeRoam)
	if f.c.Context().Selected != nil {
		t.Error("selection should be cleared")
	}
}

func TestDraftSwapsUnits(t *testing.T) {
	f := newFixture(t, 4, 4)
	a := f.spawn(hero("Hazel", core.Tile{X: 1, Y: 1}, 3))
	b := f.spawn(hero("Moss", core.Tile{X: 3, Y: 3}, 3))

	f.press(core.KeyConfirm)
	f.expectState(core.StateMapMenu)
	f.press(core.KeyDown, core.KeyConfirm)
	f.expectState(core.StateDraftMode)

	f.press(core.KeyConfirm)
	if rj := rejections(f.rec); len(rj) != 1 {
		t.Errorf("empty tile should be rejected, got %v", rj)
	}
	f.press(core.KeyRight, core.KeyDown, core.KeyConfirm)
	f.press(core.KeyRight, core.KeyRight, core.KeyDown, core.KeyDown, core.KeyConfirm)
	if system.TileOf(a) != (core.Tile{X: 3, Y: 3}) || system.TileOf(b) != (core.Tile{X: 1, Y: 1}) {
		t.Errorf("a = %v b = %v", system.TileOf(a), system.TileOf(b))
	}

	f.press(core.KeyCancel)
	f.expectState(core.StateMapMenu)
	f.press(core.KeyCancel)
	f.expectState(core.StateFreeRoam)
}
