package ports

import "github.com/stela-engine/scripthost/domain/entities"

// KeyState answers key queries for the bridge.
type KeyState interface {
	KeyPressed(key entities.Key) bool
}
