package dealer

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"stressorleads/internal/pkg/utils"
)

type tokenIssuer interface {
	GenerateToken(dealerID int64, email string) (string, error)
}

// Service contains dealer registration and login.
type Service struct {
	repo   Repository
	tokens tokenIssuer
}

func NewService(repo Repository, tokens tokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Dealer, error) {
	email := normalizeEmail(req.Email)

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailExists
	} else if err != nil && !errors.Is(err, ErrDealerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	d := &Dealer{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		ZipCode:      utils.OptionalString(req.ZipCode),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	d, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrDealerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(d.ID, d.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, Dealer: d}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Dealer, error) {
	return s.repo.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
