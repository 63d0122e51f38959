package usecase

import (
	"context"
	"fmt"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/payment"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"
)

type GetPayment struct {
	paymentRepo *postgres.PaymentRepository
}

func NewGetPayment(paymentRepo *postgres.PaymentRepository) *GetPayment {
	return &GetPayment{paymentRepo: paymentRepo}
}

func (uc *GetPayment) Execute(ctx context.Context, userID, paymentID string) (*payment.Payment, error) {
	p, err := uc.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if p == nil || p.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}
