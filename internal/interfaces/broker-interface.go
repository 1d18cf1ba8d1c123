package interfaces

// ConsumerHandler processes one event from the stream.
// eventType มาจาก message key, payload เป็น JSON
type ConsumerHandler interface {
	HandleMessage(eventType string, payload []byte) error
}

// ProducerHandler publishes one event; implementations are nil-safe
// and best-effort.
type ProducerHandler interface {
	PublishMessage(key, value []byte) error
}
