package fsm

// State is a node in a Machine. Update runs on the variable-rate tick when no
// transition fired; FixedUpdate runs on every physics step.
type State interface {
	Name() string
	Enter()
	Exit()
	Update(dt float64)
	FixedUpdate(dt float64)
}

// Predicate decides whether a transition fires. Predicates should only read
// state.
type Predicate func() bool

type Transition struct {
	To   State
	When Predicate
}

// Machine is a predicate-driven state graph. Any-state transitions are
// evaluated before the current state's own transitions, each list in
// insertion order.
type Machine struct {
	current State
	nodes   map[State][]Transition
	any     []Transition

	// OnChange is invoked after exit and before enter of a state change.
	OnChange func(from, to State)
}

func New() *Machine {
	return &Machine{nodes: make(map[State][]Transition)}
}

// Current returns the active state, nil before SetInitialState.
func (m *Machine) Current() State {
	if m == nil {
		return nil
	}
	return m.current
}

// CurrentName returns the active state's name or "".
func (m *Machine) CurrentName() string {
	if s := m.Current(); s != nil {
		return s.Name()
	}
	return ""
}

// In reports whether s is the active state.
func (m *Machine) In(s State) bool {
	return m != nil && m.current != nil && m.current == s
}

// SetInitialState enters s without exiting anything.
func (m *Machine) SetInitialState(s State) {
	if m == nil || s == nil {
		return
	}
	m.current = s
	s.Enter()
}

// ChangeState exits the current state and enters s. Changing to the current
// state is a no-op.
func (m *Machine) ChangeState(s State) {
	if m == nil || s == nil || s == m.current {
		return
	}
	prev := m.current
	if prev != nil {
		prev.Exit()
	}
	m.current = s
	if m.OnChange != nil {
		m.OnChange(prev, s)
	}
	s.Enter()
}

func (m *Machine) AddTransition(from, to State, when Predicate) {
	if m == nil || from == nil || to == nil || when == nil {
		return
	}
	if m.nodes == nil {
		m.nodes = make(map[State][]Transition)
	}
	m.nodes[from] = append(m.nodes[from], Transition{To: to, When: when})
}

func (m *Machine) AddAnyTransition(to State, when Predicate) {
	if m == nil || to == nil || when == nil {
		return
	}
	m.any = append(m.any, Transition{To: to, When: when})
}

// Tick fires the first matching transition or, if none match, updates the
// current state. Transitions that target the current state are skipped.
func (m *Machine) Tick(dt float64) {
	if m == nil || m.current == nil {
		return
	}
	if next := m.next(); next != nil {
		m.ChangeState(next)
		return
	}
	m.current.Update(dt)
}

// FixedTick always delegates to the current state.
func (m *Machine) FixedTick(dt float64) {
	if m == nil || m.current == nil {
		return
	}
	m.current.FixedUpdate(dt)
}

func (m *Machine) next() State {
	if to := firstMatch(m.any, m.current); to != nil {
		return to
	}
	return firstMatch(m.nodes[m.current], m.current)
}

func firstMatch(list []Transition, current State) State {
	for _, t := range list {
		if t.To == current {
			continue
		}
		if t.When() {
			return t.To
		}
	}
	return nil
}
