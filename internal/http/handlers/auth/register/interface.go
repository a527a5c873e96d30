package register

import (
	"context"
)

// Service describes the registration business logic.
type Service interface {
	Register(ctx context.Context, email, password string) error
}
