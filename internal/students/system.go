package students

import "context"

// System defines the public contract for student operations.
type System interface {
	Handler() *Handler

	Login(ctx context.Context, registerNo, password string) (*Profile, error)
	Register(ctx context.Context, cmd RegisterCommand) (*Profile, error)
}
