package game

// ApplyDamage returns hp reduced by amount, clamped to [0, MaxHP].
func ApplyDamage(hp, amount float64) float64 {
	hp -= amount
	if hp < 0 {
		return 0
	}
	if hp > MaxHP {
		return MaxHP
	}
	return hp
}

// Failure classifies a rejected or losing play.
type Failure int

const (
	FailureNone Failure = iota
	FailureWrongStructure
	FailureWeakArgument
	FailureLogicMismatch
	FailureWeakAnswer
)

func (f Failure) String() string {
	switch f {
	case FailureWrongStructure:
		return "Wrong Structure"
	case FailureWeakArgument:
		return "Weak Argument"
	case FailureLogicMismatch:
		return "Logic Mismatch"
	case FailureWeakAnswer:
		return "Weak Answer"
	default:
		return ""
	}
}

// Damage is the HP the player loses for this failure.
func (f Failure) Damage() float64 {
	switch f {
	case FailureWrongStructure:
		return DamageBig
	case FailureWeakArgument, FailureLogicMismatch, FailureWeakAnswer:
		return DamageSmall
	default:
		return 0
	}
}

// Message is the feedback line shown to the player.
func (f Failure) Message() string {
	switch f {
	case FailureWrongStructure:
		return "Wrong Structure! That block does not fit here."
	case FailureWeakArgument:
		return "Weak Argument! That card does not support the motion."
	case FailureLogicMismatch:
		return "Logic Mismatch! Stay on one line of argument."
	case FailureWeakAnswer:
		return "Weak answer. The rival pressed the point."
	default:
		return ""
	}
}
