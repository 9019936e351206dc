package core

// Frame is a marshaled outbound event.
type Frame []byte

// SignalConnection abstracts the transport endpoint of one connection.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
