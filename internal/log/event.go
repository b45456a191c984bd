package log

// EventType enumerates all observable session events.
type EventType int

const (
	EventSessionStart EventType = iota
	EventPhaseChange
	EventHandDealt
	EventCardAccepted
	EventCardRejected
	EventLogicGroupSet
	EventUndo
	EventBattlePick
	EventRivalSpeech
	EventHPChange
	EventScore
	EventTimerPenalty
	EventTransitionScheduled
	EventTowerComplete
	EventGameOver
	EventResult
	EventReturnHome
)

func (e EventType) String() string {
	switch e {
	case EventSessionStart:
		return "SessionStart"
	case EventPhaseChange:
		return "PhaseChange"
	case EventHandDealt:
		return "HandDealt"
	case EventCardAccepted:
		return "CardAccepted"
	case EventCardRejected:
		return "CardRejected"
	case EventLogicGroupSet:
		return "LogicGroupSet"
	case EventUndo:
		return "Undo"
	case EventBattlePick:
		return "BattlePick"
	case EventRivalSpeech:
		return "RivalSpeech"
	case EventHPChange:
		return "HPChange"
	case EventScore:
		return "Score"
	case EventTimerPenalty:
		return "TimerPenalty"
	case EventTransitionScheduled:
		return "TransitionScheduled"
	case EventTowerComplete:
		return "TowerComplete"
	case EventGameOver:
		return "GameOver"
	case EventResult:
		return "Result"
	case EventReturnHome:
		return "ReturnHome"
	default:
		return "Unknown"
	}
}

// Side identifies which debater an event concerns.
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

func (s Side) String() string {
	if s == SideOpponent {
		return "Rival"
	}
	return "You"
}

// GameEvent represents a single observable event in a session.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Round   int       // battle round (1-based)
	Phase   string    // phase name at the time of the event
	Side    Side      // debater concerned
	Type    EventType // event type
	Card    string    // card id (if applicable)
	Details string    // human-readable detail string
}
