package usecase

import (
	"context"
	"fmt"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/payment"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"
)

type ListPayments struct {
	paymentRepo *postgres.PaymentRepository
}

func NewListPayments(paymentRepo *postgres.PaymentRepository) *ListPayments {
	return &ListPayments{paymentRepo: paymentRepo}
}

func (uc *ListPayments) Execute(ctx context.Context, userID string) ([]*payment.Payment, error) {
	payments, err := uc.paymentRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
