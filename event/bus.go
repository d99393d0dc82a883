package event

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// トピックごとのイベント型です。購読側は起動時に明示的に Subscribe します。
var (
	UnitDiedEvent                     = events.NewEventType[UnitDied]()
	CursorMovedEvent                  = events.NewEventType[CursorMoved]()
	UnitTileChangedEvent              = events.NewEventType[UnitTileChanged]()
	MoveFinishedEvent                 = events.NewEventType[MoveFinished]()
	ActionFinalizedEvent              = events.NewEventType[ActionFinalized]()
	PlayerStateChangedEvent           = events.NewEventType[PlayerStateChanged]()
	ExpGainStartedEvent               = events.NewEventType[ExpGainStarted]()
	WeaponEquippedEvent               = events.NewEventType[WeaponEquipped]()
	CycleTargetChangedEvent           = events.NewEventType[CycleTargetChanged]()
	ActionMenuSelectionChangedEvent   = events.NewEventType[ActionMenuSelectionChanged]()
	UnitInfoMenuSelectionChangedEvent = events.NewEventType[UnitInfoMenuSelectionChanged]()
	DamageNumberShownEvent            = events.NewEventType[DamageNumberShown]()
	DamageBlockedEvent                = events.NewEventType[DamageBlocked]()
	InputRejectedEvent                = events.NewEventType[InputRejected]()
	TurnEndedEvent                    = events.NewEventType[TurnEnded]()
	LevelUpEvent                      = events.NewEventType[LevelUp]()
)

// Publish はイベントを対応するトピックに積み、同じtick内で即座に配信します。
func Publish(w donburi.World, e GameEvent) {
	switch ev := e.(type) {
	case UnitDied:
		dispatch(w, UnitDiedEvent, ev)
	case CursorMoved:
		dispatch(w, CursorMovedEvent, ev)
	case UnitTileChanged:
		dispatch(w, UnitTileChangedEvent, ev)
	case MoveFinished:
		dispatch(w, MoveFinishedEvent, ev)
	case ActionFinalized:
		dispatch(w, ActionFinalizedEvent, ev)
	case PlayerStateChanged:
		dispatch(w, PlayerStateChangedEvent, ev)
	case ExpGainStarted:
		dispatch(w, ExpGainStartedEvent, ev)
	case WeaponEquipped:
		dispatch(w, WeaponEquippedEvent, ev)
	case CycleTargetChanged:
		dispatch(w, CycleTargetChangedEvent, ev)
	case ActionMenuSelectionChanged:
		dispatch(w, ActionMenuSelectionChangedEvent, ev)
	case UnitInfoMenuSelectionChanged:
		dispatch(w, UnitInfoMenuSelectionChangedEvent, ev)
	case DamageNumberShown:
		dispatch(w, DamageNumberShownEvent, ev)
	case DamageBlocked:
		dispatch(w, DamageBlockedEvent, ev)
	case InputRejected:
		dispatch(w, InputRejectedEvent, ev)
	case TurnEnded:
		dispatch(w, TurnEndedEvent, ev)
	case LevelUp:
		dispatch(w, LevelUpEvent, ev)
	}
}

func dispatch[T any](w donburi.World, et *events.EventType[T], ev T) {
	et.Publish(w, ev)
	et.ProcessEvents(w)
}

// Recorder は発行されたイベントを順番に記録します。テストやデバッグ表示で使います。
type Recorder struct {
	Events []GameEvent
}

// NewRecorder はすべてのトピックを購読する Recorder を作成します。
func NewRecorder(w donburi.World) *Recorder {
	r := &Recorder{}
	record[UnitDied](w, r, UnitDiedEvent)
	record[CursorMoved](w, r, CursorMovedEvent)
	record[UnitTileChanged](w, r, UnitTileChangedEvent)
	record[MoveFinished](w, r, MoveFinishedEvent)
	record[ActionFinalized](w, r, ActionFinalizedEvent)
	record[PlayerStateChanged](w, r, PlayerStateChangedEvent)
	record[ExpGainStarted](w, r, ExpGainStartedEvent)
	record[WeaponEquipped](w, r, WeaponEquippedEvent)
	record[CycleTargetChanged](w, r, CycleTargetChangedEvent)
	record[ActionMenuSelectionChanged](w, r, ActionMenuSelectionChangedEvent)
	record[UnitInfoMenuSelectionChanged](w, r, UnitInfoMenuSelectionChangedEvent)
	record[DamageNumberShown](w, r, DamageNumberShownEvent)
	record[DamageBlocked](w, r, DamageBlockedEvent)
	record[InputRejected](w, r, InputRejectedEvent)
	record[TurnEnded](w, r, TurnEndedEvent)
	record[LevelUp](w, r, LevelUpEvent)
	return r
}

func record[T GameEvent](w donburi.World, r *Recorder, et *events.EventType[T]) {
	et.Subscribe(w, func(_ donburi.World, ev T) {
		r.Events = append(r.Events, ev)
	})
}

// Count は指定した型のイベント数を返します。
func Count[T GameEvent](r *Recorder) int {
	n := 0
	for _, e := range r.Events {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}

// Reset は記録を消去します。
func (r *Recorder) Reset() {
	r.Events = nil
}
