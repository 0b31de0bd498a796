package bus

import "sync"

// SimSerial is a scriptable serial bus driver for tests and demo
// scenarios. Values are set per (bus, label); faults can be injected
// per bus or per (bus, label).
type SimSerial struct {
	mu        sync.Mutex
	words     map[serialKey]Word
	busFault  map[uint8]ErrorKind
	wordFault map[serialKey]ErrorKind
}

type serialKey struct {
	bus   uint8
	label uint16
}

// NewSimSerial creates an empty simulator; reads answer NoData until
// values are set.
func NewSimSerial() *SimSerial {
	return &SimSerial{
		words:     make(map[serialKey]Word),
		busFault:  make(map[uint8]ErrorKind),
		wordFault: make(map[serialKey]ErrorKind),
	}
}

// Set stores the word returned for (bus, label) and clears any fault on
// that word.
func (s *SimSerial) Set(busID uint8, label uint16, data uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := serialKey{busID, label}
	s.words[k] = Word{Label: label, Data: data, StatusMatrix: 0}
	delete(s.wordFault, k)
}

// FailBus makes every read on busID answer the given fault kind.
func (s *SimSerial) FailBus(busID uint8, kind ErrorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busFault[busID] = kind
}

// RestoreBus clears a bus-wide fault.
func (s *SimSerial) RestoreBus(busID uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busFault, busID)
}

// FailWord makes reads of one (bus, label) answer the given fault kind.
func (s *SimSerial) FailWord(busID uint8, label uint16, kind ErrorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wordFault[serialKey{busID, label}] = kind
}

func (s *SimSerial) Read(busID uint8, label uint16) (Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind, ok := s.busFault[busID]; ok {
		return Word{}, &Error{Kind: kind, BusID: busID}
	}
	k := serialKey{busID, label}
	if kind, ok := s.wordFault[k]; ok {
		return Word{}, &Error{Kind: kind, BusID: busID}
	}
	w, ok := s.words[k]
	if !ok {
		return Word{}, &Error{Kind: NoData, BusID: busID}
	}
	return w, nil
}

// SimMux is a scriptable multiplex bus driver.
type SimMux struct {
	mu       sync.Mutex
	messages map[uint8]Message
	fault    map[uint8]ErrorKind
}

// NewSimMux creates an empty mux simulator.
func NewSimMux() *SimMux {
	return &SimMux{
		messages: make(map[uint8]Message),
		fault:    make(map[uint8]ErrorKind),
	}
}

// SetWord stores one data word at the given offset of a sub-address.
func (m *SimMux) SetWord(sub uint8, offset int, value uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.messages[sub]
	msg.Data[offset] = value
	m.messages[sub] = msg
	delete(m.fault, sub)
}

// Fail makes reads of a sub-address answer the given fault kind.
func (m *SimMux) Fail(sub uint8, kind ErrorKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fault[sub] = kind
}

func (m *SimMux) ReadSubaddress(sub uint8) (Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind, ok := m.fault[sub]; ok {
		return Message{}, &Error{Kind: kind}
	}
	msg, ok := m.messages[sub]
	if !ok {
		return Message{}, &Error{Kind: NoData}
	}
	return msg, nil
}
