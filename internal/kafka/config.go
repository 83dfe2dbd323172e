package kafka

// Config holds Kafka connection parameters for the event producer.
type Config struct {
	Brokers []string

	// ClientID identifies this service in broker logs.
	ClientID string
}
