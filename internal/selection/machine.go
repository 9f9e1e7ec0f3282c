package selection

import "bimbuddy/internal/domain"

// State is the outcome of a translation. It is one of FullPhrase, MultiWord,
// SingleWord or NotFound; a nil State means nothing has been translated yet.
type State interface {
	isState()
}

// FullPhrase means the whole input matched a single dictionary entry.
type FullPhrase struct {
	Sign Sign
}

// SingleWord means exactly one entry was found.
type SingleWord struct {
	Sign Sign
}

// MultiWord means several entries were found and can be paged through.
// Sign may be unresolved when the entry under the cursor has no media.
type MultiWord struct {
	Sign   Sign
	Cursor int
	Total  int
}

// NotFound means there is nothing to display.
type NotFound struct {
	Kind    domain.ErrorKind
	Message string
}

func (FullPhrase) isState() {}
func (SingleWord) isState() {}
func (MultiWord) isState()  {}
func (NotFound) isState()   {}

// ViewState is the flat projection of the current State used for rendering.
type ViewState struct {
	Exists       bool
	ImageURL     string
	VideoURL     string
	CurrentWord  string
	Translation  string
	IsFullPhrase bool
	Error        string
	Kind         domain.ErrorKind
}

// Machine selects what to display from a translate response and keeps the
// cursor over multiple matches. It is not safe for concurrent use.
type Machine struct {
	base    string
	results []domain.LookupResult
	cursor  int
	state   State
}

// New creates a machine resolving media paths against base.
func New(base string) *Machine {
	if base == "" {
		base = domain.DefaultBaseURL
	}
	return &Machine{base: base}
}

// Load replaces the current results with a fresh server response and resets
// the cursor to the first found entry.
func (m *Machine) Load(results []domain.LookupResult, fullPhrase bool) State {
	found := make([]domain.LookupResult, 0, len(results))
	for _, r := range results {
		if r.Found {
			found = append(found, r)
		}
	}
	m.cursor = 0
	m.results = nil

	if len(found) == 0 {
		return m.Fail(domain.KindEmpty, domain.MsgNoSign)
	}

	first := resolve(m.base, found[0])
	switch {
	case fullPhrase && first.Resolved():
		m.results = found[:1]
		m.state = FullPhrase{Sign: first}
	case !first.Resolved():
		return m.Fail(domain.KindMedia, domain.MsgNoMedia)
	case len(found) > 1:
		m.results = found
		m.state = MultiWord{Sign: first, Cursor: 0, Total: len(found)}
	default:
		m.results = found
		m.state = SingleWord{Sign: first}
	}
	return m.state
}

// Fail enters NotFound with the given reason and drops any results.
func (m *Machine) Fail(kind domain.ErrorKind, message string) State {
	m.results = nil
	m.cursor = 0
	m.state = NotFound{Kind: kind, Message: message}
	return m.state
}

// Clear forgets the current results and returns to the initial state.
func (m *Machine) Clear() {
	m.results = nil
	m.cursor = 0
	m.state = nil
}

// Advance moves to the next entry. It reports false when not in MultiWord or
// already at the last entry.
func (m *Machine) Advance() bool { return m.move(1) }

// Retreat moves to the previous entry. It reports false when not in
// MultiWord or already at the first entry.
func (m *Machine) Retreat() bool { return m.move(-1) }

func (m *Machine) move(delta int) bool {
	if _, ok := m.state.(MultiWord); !ok {
		return false
	}
	next := m.cursor + delta
	if next < 0 || next >= len(m.results) {
		return false
	}
	m.cursor = next
	m.state = MultiWord{
		Sign:   resolve(m.base, m.results[next]),
		Cursor: next,
		Total:  len(m.results),
	}
	return true
}

// State returns the current state, or nil before the first Load.
func (m *Machine) State() State { return m.state }

// Navigable reports whether Advance and Retreat can have an effect.
func (m *Machine) Navigable() bool {
	_, ok := m.state.(MultiWord)
	return ok && len(m.results) > 1
}

// HasNext reports whether Advance would move the cursor.
func (m *Machine) HasNext() bool { return m.Navigable() && m.cursor < len(m.results)-1 }

// HasPrev reports whether Retreat would move the cursor.
func (m *Machine) HasPrev() bool { return m.Navigable() && m.cursor > 0 }

// Position returns the cursor and the number of navigable entries.
func (m *Machine) Position() (cursor, total int) { return m.cursor, len(m.results) }

// IsFullPhrase reports whether the current state is FullPhrase.
func (m *Machine) IsFullPhrase() bool {
	_, ok := m.state.(FullPhrase)
	return ok
}

// View projects the current state for rendering.
func (m *Machine) View() ViewState {
	switch s := m.state.(type) {
	case FullPhrase:
		v := signView(s.Sign)
		v.IsFullPhrase = true
		return v
	case SingleWord:
		return signView(s.Sign)
	case MultiWord:
		return signView(s.Sign)
	case NotFound:
		return ViewState{Error: s.Message, Kind: s.Kind}
	default:
		return ViewState{}
	}
}

func signView(s Sign) ViewState {
	v := ViewState{CurrentWord: s.Word, Translation: s.Translation}
	switch s.Kind {
	case MediaVideo:
		v.VideoURL = s.URL
	case MediaImage:
		v.ImageURL = s.URL
	default:
		v.Error = domain.MsgNoMedia
		v.Kind = domain.KindMedia
		return v
	}
	v.Exists = true
	return v
}
