package rxn

// TriggerKind names one of the trigger entry points.
type TriggerKind uint8

const (
	Unimolecular TriggerKind = iota
	SurfaceUnimolecular
	Bimolecular
	Trimolecular
	Intersect

	NumTriggerKinds = int(Intersect) + 1
)

func (k TriggerKind) String() string {
	switch k {
	case Unimolecular:
		return "unimolecular"
	case SurfaceUnimolecular:
		return "surface_unimolecular"
	case Bimolecular:
		return "bimolecular"
	case Trimolecular:
		return "trimolecular"
	case Intersect:
		return "intersect"
	default:
		return "unknown"
	}
}

// Recorder observes trigger activity. Implementations are called inline from
// the triggers and must neither block nor allocate on the common path.
type Recorder interface {
	// ObserveTrigger reports a finished call and the number of reactions returned.
	ObserveTrigger(kind TriggerKind, matched int)
	// ObserveOverflow reports that a call hit its output capacity with
	// candidates left in the chain.
	ObserveOverflow(kind TriggerKind, limit int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveTrigger(TriggerKind, int)  {}
func (noopRecorder) ObserveOverflow(TriggerKind, int) {}

// MultiRecorder fans observations out to several recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) ObserveTrigger(kind TriggerKind, matched int) {
	for _, r := range m {
		r.ObserveTrigger(kind, matched)
	}
}

func (m MultiRecorder) ObserveOverflow(kind TriggerKind, limit int) {
	for _, r := range m {
		r.ObserveOverflow(kind, limit)
	}
}
