package services

import (
	"fmt"
	"time"

	"hotel/services/logger"
)

// PaymentGateway là contract mà billing engine cần từ cổng thanh toán.
// Tích hợp thật nằm ngoài phạm vi hệ thống này; bản mock bên dưới
// chấp thuận mọi giao dịch card/bank/cash.
type PaymentGateway interface {
	Authorize(method string, amount float64, reference string) (string, error)
	Refund(transactionID string, amount float64) error
	CheckStatus(transactionID string) (string, error)
}

// MockGateway cổng thanh toán giả lập
type MockGateway struct {
	logger logger.Logger
}

func NewMockGateway(l logger.Logger) *MockGateway {
	return &MockGateway{logger: l}
}

func (g *MockGateway) Authorize(method string, amount float64, reference string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("invalid amount: %.2f", amount)
	}
	txID := fmt.Sprintf("mock-%s-%d", method, time.Now().UnixNano())
	g.logger.Info("Mock gateway authorize %s %.2f ref=%s tx=%s", method, amount, reference, txID)
	return txID, nil
}

func (g *MockGateway) Refund(transactionID string, amount float64) error {
	g.logger.Info("Mock gateway refund tx=%s amount=%.2f", transactionID, amount)
	return nil
}

func (g *MockGateway) CheckStatus(transactionID string) (string, error) {
	return "completed", nil
}
