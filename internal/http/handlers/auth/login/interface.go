package login

import (
	"context"
)

// Service describes the login business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}
