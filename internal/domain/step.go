package domain

import "fmt"

type StepKind string

const (
	KindWork         StepKind = "work"
	KindInterRepRest StepKind = "inter-rep-rest"
	KindInterSetRest StepKind = "inter-set-rest"
)

// Step is one timed unit of a sequence. It is implemented only by Work,
// InterRepRest and InterSetRest.
type Step interface {
	Kind() StepKind
	Label() string
	Duration() int
	isStep()
}

type Work struct {
	Set           int
	Rep           int
	Seconds       int
	FirstRepOfSet bool
}

func (Work) Kind() StepKind  { return KindWork }
func (w Work) Duration() int { return w.Seconds }
func (w Work) Label() string { return fmt.Sprintf("Set %d - Rep %d Work", w.Set, w.Rep) }
func (Work) isStep()         {}

// InterRepRest follows rep Rep of set Set.
type InterRepRest struct {
	Set     int
	Rep     int
	Seconds int
}

func (InterRepRest) Kind() StepKind  { return KindInterRepRest }
func (r InterRepRest) Duration() int { return r.Seconds }
func (r InterRepRest) Label() string { return fmt.Sprintf("Set %d - Rep %d Rest", r.Set, r.Rep) }
func (InterRepRest) isStep()         {}

// InterSetRest sits between two sets and belongs to neither.
type InterSetRest struct {
	AfterSet int
	Seconds  int
}

func (InterSetRest) Kind() StepKind  { return KindInterSetRest }
func (r InterSetRest) Duration() int { return r.Seconds }
func (r InterSetRest) Label() string { return fmt.Sprintf("Rest after Set %d", r.AfterSet) }
func (InterSetRest) isStep()         {}

// SetNumber reports the 1-based set a step belongs to. Inter-set rests
// belong to no set.
func SetNumber(s Step) (int, bool) {
	switch st := s.(type) {
	case Work:
		return st.Set, true
	case InterRepRest:
		return st.Set, true
	default:
		return 0, false
	}
}

// IsFirstRepOfSet is true only for the opening Work step of a set.
func IsFirstRepOfSet(s Step) bool {
	w, ok := s.(Work)
	return ok && w.FirstRepOfSet
}

// Progress is the completed fraction of a step given the displayed seconds
// left. A zero-length step is always fully done.
func Progress(s Step, secondsLeft int) float64 {
	d := s.Duration()
	if d <= 0 {
		return 1
	}
	p := 1 - float64(secondsLeft)/float64(d)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
