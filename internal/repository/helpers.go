package repository

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Defaults stored for JSON columns left empty by the caller.
var (
	emptyObject = json.RawMessage(`{}`)
	emptyList   = json.RawMessage(`[]`)
)

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func jsonOr(raw, def json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return def
	}
	return raw
}
