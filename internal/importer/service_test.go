package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

func draft(desc, amount string) api.CreateExpenseInput {
	return api.CreateExpenseInput{Date: "2026-01-30", Description: desc, Type: "Bank statement", Amount: amount, Method: api.PaymentBank}
}

func TestService_Parse(t *testing.T) {
	svc := NewService(nil)

	drafts, err := svc.Parse(BankCGD, strings.NewReader("Data mov.;Descrição;Montante\n30-01-2026;RENT;-500,00\n"))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "500.00", drafts[0].Amount)

	_, err = svc.Parse("other", strings.NewReader(""))
	assert.ErrorContains(t, err, "unknown bank")
}

func TestService_Record(t *testing.T) {
	type testCase struct {
		name        string
		drafts      []api.CreateExpenseInput
		setupMock   func(m *MockExpenseCreator)
		wantCreated int
		wantFailed  []int
	}

	tests := []testCase{
		{
			name:   "AllCreated",
			drafts: []api.CreateExpenseInput{draft("RENT", "500.00"), draft("FUEL", "40.00")},
			setupMock: func(m *MockExpenseCreator) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(&api.Expense{}, nil).Times(2)
			},
			wantCreated: 2,
		},
		{
			name:   "ApiFailureDoesNotStopTheRest",
			drafts: []api.CreateExpenseInput{draft("RENT", "500.00"), draft("FUEL", "40.00")},
			setupMock: func(m *MockExpenseCreator) {
				gomock.InOrder(
					m.EXPECT().CreateExpense(gomock.Any(), draft("RENT", "500.00")).Return(nil, errors.New("duplicate")),
					m.EXPECT().CreateExpense(gomock.Any(), draft("FUEL", "40.00")).Return(&api.Expense{}, nil),
				)
			},
			wantCreated: 1,
			wantFailed:  []int{1},
		},
		{
			name:        "InvalidDraftIsNotSent",
			drafts:      []api.CreateExpenseInput{draft("", "500.00")},
			setupMock:   func(m *MockExpenseCreator) {},
			wantCreated: 0,
			wantFailed:  []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mock := NewMockExpenseCreator(ctrl)
			tt.setupMock(mock)

			res := NewService(mock).Record(context.Background(), tt.drafts)

			assert.Equal(t, tt.wantCreated, res.Created)

			var failed []int
			for _, f := range res.Failed {
				failed = append(failed, f.Row)
			}

			assert.Equal(t, tt.wantFailed, failed)
		})
	}
}
