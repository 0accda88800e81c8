package pkg

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateGameID - generates a unique identifier for a board session.
func GenerateGameID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
