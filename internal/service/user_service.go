package service

import (
	"context"
	"errors"
	"fmt"

	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
	"avtobot/internal/repository"
)

type UserService interface {
	// Ensure registers the sender if needed. Failures are logged but not
	// returned: registration must never block a chat reply.
	Ensure(ctx context.Context, sender string, username string)
	Get(ctx context.Context, sender string) (*entity.User, error)
	// Balance returns 0 for unknown users.
	Balance(ctx context.Context, sender string) int
	Payments(ctx context.Context, sender string) ([]entity.Payment, error)
	// TopUp credits the sender's balance and records the payment.
	// Returns the new balance.
	TopUp(ctx context.Context, sender string, amount int) (int, error)
}

type userService struct {
	users    repository.UserRepository
	payments repository.PaymentRepository
	log      logger.Logger
}

func NewUserService(users repository.UserRepository, payments repository.PaymentRepository, log logger.Logger) UserService {
	return &userService{users: users, payments: payments, log: log}
}

func (s *userService) Ensure(ctx context.Context, sender string, username string) {
	if sender == "" || sender == "unknown" {
		return
	}
	var name *string
	if username != "" {
		name = &username
	}
	if _, err := s.users.Ensure(ctx, sender, name); err != nil {
		s.log.Errorf("UserService.Ensure: failed for %s: %v", sender, err)
	}
}

func (s *userService) Get(ctx context.Context, sender string) (*entity.User, error) {
	return s.users.GetBySender(ctx, sender)
}

func (s *userService) Balance(ctx context.Context, sender string) int {
	user, err := s.users.GetBySender(ctx, sender)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.log.Errorf("UserService.Balance: failed for %s: %v", sender, err)
		}
		return 0
	}
	return user.Balance
}

func (s *userService) Payments(ctx context.Context, sender string) ([]entity.Payment, error) {
	return s.payments.ListBySender(ctx, sender)
}

var errBadTopUpAmount = errors.New("top-up amount must be positive")

func (s *userService) TopUp(ctx context.Context, sender string, amount int) (int, error) {
	if amount <= 0 {
		return 0, errBadTopUpAmount
	}
	description := "Пополнение через чат"
	if _, err := s.payments.Add(ctx, sender, amount, &description); err != nil {
		return 0, fmt.Errorf("record payment for %s: %w", sender, err)
	}
	if err := s.users.UpdateBalance(ctx, sender, amount); err != nil {
		return 0, fmt.Errorf("credit balance of %s: %w", sender, err)
	}
	user, err := s.users.GetBySender(ctx, sender)
	if err != nil {
		return 0, err
	}
	s.log.Infof("UserService.TopUp: %s credited %d", sender, amount)
	return user.Balance, nil
}
