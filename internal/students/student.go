// Package students authenticates students by register number and password.
package students

import (
	"fmt"
	"strings"
)

// Profile is the public view of an authenticated student.
type Profile struct {
	Name       string `json:"name"`
	RegisterNo string `json:"register_no"`
}

// LoginRequest is the JSON body of the login endpoint.
type LoginRequest struct {
	RegisterNo string `json:"register_no"`
	Password   string `json:"password"`
}

// RegisterCommand carries a new student account.
type RegisterCommand struct {
	Name       string
	RegisterNo string
	Password   string
}

func (c *RegisterCommand) validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.RegisterNo = normalizeRegisterNo(c.RegisterNo)

	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if c.RegisterNo == "" {
		return fmt.Errorf("%w: register_no is required", ErrInvalidInput)
	}
	if len(c.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if len(c.Password) > 72 {
		return fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
	}
	return nil
}

func normalizeRegisterNo(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
