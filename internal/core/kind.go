package core

// Kind distinguishes the three double flavours.
type Kind int

// Kinds.
const (
	KindSpy Kind = iota
	KindStub
	KindMock
)

func (k Kind) String() string {
	switch k {
	case KindSpy:
		return "spy"
	case KindStub:
		return "stub"
	case KindMock:
		return "mock"
	default:
		return "double"
	}
}
