package students

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/bulletin/pkg/repository"
)

type repo struct {
	db     repository.DB
	logger *slog.Logger
	cost   int
}

// New creates a student repository implementing the System interface.
// Passwords are hashed with bcrypt at the given cost; a cost outside the
// bcrypt range falls back to bcrypt.DefaultCost.
func New(db repository.DB, logger *slog.Logger, cost int) System {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &repo{
		db:     db,
		logger: logger.With("system", "students"),
		cost:   cost,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

type credentials struct {
	profile Profile
	hash    []byte
}

func scanCredentials(s repository.Scanner) (credentials, error) {
	var c credentials
	err := s.Scan(&c.profile.Name, &c.profile.RegisterNo, &c.hash)
	return c, err
}

func (r *repo) Login(ctx context.Context, registerNo, password string) (*Profile, error) {
	registerNo = normalizeRegisterNo(registerNo)
	if registerNo == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	creds, err := repository.QueryOne(
		ctx, r.db,
		"SELECT name, register_no, password_hash FROM students WHERE register_no = $1",
		[]any{registerNo},
		scanCredentials,
	)
	if err != nil {
		mapped := repository.MapError(err, ErrInvalidCredentials, ErrDuplicate, nil)
		if errors.Is(mapped, ErrInvalidCredentials) {
			r.logger.Info("login rejected", "register_no", registerNo, "reason", "unknown register number")
		}
		return nil, mapped
	}

	if err := bcrypt.CompareHashAndPassword(creds.hash, []byte(password)); err != nil {
		r.logger.Info("login rejected", "register_no", registerNo, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	r.logger.Info("student logged in", "register_no", registerNo)
	return &creds.profile, nil
}

func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*Profile, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), r.cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	p, err := repository.QueryOne(
		ctx, r.db,
		`INSERT INTO students(register_no, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING name, register_no`,
		[]any{cmd.RegisterNo, cmd.Name, hash},
		func(s repository.Scanner) (Profile, error) {
			var p Profile
			err := s.Scan(&p.Name, &p.RegisterNo)
			return p, err
		},
	)
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidInput, ErrDuplicate, ErrInvalidInput)
	}

	r.logger.Info("student registered", "register_no", p.RegisterNo)
	return &p, nil
}
