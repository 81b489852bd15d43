package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"campusbooks/model"
	"campusbooks/util/hash"
	jwtutil "campusbooks/util/jwt"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrBadInput     = errors.New("bad input")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrBadToken     = errors.New("invalid or expired token")
)

const (
	sessionTTLHours = 24
	resetTTL        = 30 * time.Minute
)

type Users interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type Mailer interface {
	SendPasswordReset(to, resetURL string) error
}

type Service interface {
	// Register creates a student account and logs it in.
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)

	// ForgotPassword mails a 30-minute reset link for the account.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type service struct {
	ur      Users
	mail    Mailer
	secret  string
	baseURL string
}

func New(ur Users, mail Mailer, secret, baseURL string) Service {
	return &service{ur: ur, mail: mail, secret: secret, baseURL: baseURL}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || email == "" || len(req.Password) < 6 {
		return nil, "", ErrBadInput
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	u := &model.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleStudent,
		ProfilePic:   "default.png",
	}
	if err := s.ur.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, string(u.Role), sessionTTLHours)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.ur.ByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, "", ErrInvalidCreds
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCreds
	}
	token, err := jwtutil.Issue(s.secret, u.ID, string(u.Role), sessionTTLHours)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.ur.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Do not reveal whether the address exists.
			return nil
		}
		return err
	}

	token, err := jwtutil.IssueReset(s.secret, u.Email, resetTTL)
	if err != nil {
		return err
	}
	resetURL := fmt.Sprintf("%s/v1/auth/reset-password/%s", s.baseURL, token)
	return s.mail.SendPasswordReset(u.Email, resetURL)
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrBadInput
	}
	email, err := jwtutil.ParseReset(s.secret, token)
	if err != nil {
		return ErrBadToken
	}
	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.ur.UpdatePassword(ctx, email, hashed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBadToken
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
