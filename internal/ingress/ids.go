package ingress

import "github.com/google/uuid"

func newJobID() string {
	return uuid.NewString()
}
