package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avtobot/internal/domain/entity"
	"avtobot/internal/platform/logger"
	"avtobot/internal/repository"
)

type fakeUserRepo struct {
	balances map[string]int
}

func (f *fakeUserRepo) Ensure(_ context.Context, sender string, _ *string) (*entity.User, error) {
	if _, ok := f.balances[sender]; !ok {
		f.balances[sender] = 0
	}
	return &entity.User{Sender: sender, Balance: f.balances[sender]}, nil
}

func (f *fakeUserRepo) GetBySender(_ context.Context, sender string) (*entity.User, error) {
	balance, ok := f.balances[sender]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &entity.User{Sender: sender, Balance: balance}, nil
}

func (f *fakeUserRepo) UpdateBalance(_ context.Context, sender string, delta int) error {
	if _, ok := f.balances[sender]; !ok {
		return repository.ErrUserNotFound
	}
	f.balances[sender] += delta
	return nil
}

type fakePaymentRepo struct {
	payments []entity.Payment
}

func (f *fakePaymentRepo) Add(_ context.Context, sender string, amount int, description *string) (*entity.Payment, error) {
	p := entity.Payment{ID: int64(len(f.payments) + 1), Sender: sender, Amount: amount, Description: description}
	f.payments = append(f.payments, p)
	return &p, nil
}

func (f *fakePaymentRepo) ListBySender(_ context.Context, sender string) ([]entity.Payment, error) {
	out := []entity.Payment{}
	for _, p := range f.payments {
		if p.Sender == sender {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestTopUpCreditsAndRecordsPayment(t *testing.T) {
	users := &fakeUserRepo{balances: map[string]int{"u@c.us": 100}}
	payments := &fakePaymentRepo{}
	svc := NewUserService(users, payments, logger.NewNop())

	balance, err := svc.TopUp(context.Background(), "u@c.us", 500)

	require.NoError(t, err)
	assert.Equal(t, 600, balance)
	require.Len(t, payments.payments, 1)
	assert.Equal(t, 500, payments.payments[0].Amount)

	history, err := svc.Payments(context.Background(), "u@c.us")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTopUpRejectsNonPositiveAmount(t *testing.T) {
	users := &fakeUserRepo{balances: map[string]int{"u@c.us": 100}}
	svc := NewUserService(users, &fakePaymentRepo{}, logger.NewNop())

	for _, amount := range []int{0, -10} {
		_, err := svc.TopUp(context.Background(), "u@c.us", amount)
		assert.Error(t, err, "amount %d", amount)
	}
	assert.Equal(t, 100, users.balances["u@c.us"])
}

func TestBalanceUnknownUserIsZero(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{balances: map[string]int{}}, &fakePaymentRepo{}, logger.NewNop())

	assert.Equal(t, 0, svc.Balance(context.Background(), "nobody@c.us"))
}
