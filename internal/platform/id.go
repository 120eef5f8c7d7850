package platform

import (
	"github.com/google/uuid"
)

// Version is reported by the /health endpoint of every service.
const Version = "1.0.0"

func NewID() string {
	return uuid.New().String()
}
