package database

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// ConnectNATS dials the message broker. An empty URL is allowed: event
// publishing degrades to a no-op and the API stays fully functional.
func ConnectNATS(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := nats.Connect(url, nats.Name("denik-api"))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
