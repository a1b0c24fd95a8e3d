package events

// Message is one event as received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events published by a studio.
type Subscriber interface {
	// Subscribe delivers events matching topic on the returned channel until
	// the returned cancel function is called.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}
