package repositories

import (
	"encoding/json"
	"fmt"
)

const (
	// Key prefixes for entities kept in Badger
	SessionKeyPrefix = "session:"
)

func sessionKey(key string) []byte {
	return []byte(SessionKeyPrefix + key)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}
