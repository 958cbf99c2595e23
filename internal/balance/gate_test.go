package balance_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/balance"
	"github.com/MrJamesThe3rd/backoffice/internal/nav"
	"github.com/MrJamesThe3rd/backoffice/internal/role"
	"github.com/MrJamesThe3rd/backoffice/internal/session"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    balance.PeriodStatus
		wantErr bool
	}{
		{"ExplicitOpen", `{"isOpen":true}`, balance.Open, false},
		{"ExplicitClosed", `{"isOpen":false,"cash":500}`, balance.NotOpen, false},
		{"LegacyPositiveBucket", `{"cash":0,"bank":"1250.00"}`, balance.Open, false},
		{"LegacyAllZero", `{"cash":0,"bank":"0.00","receivable":-3}`, balance.NotOpen, false},
		{"LegacyEmpty", `{}`, balance.NotOpen, false},
		{"LegacyIgnoresText", `{"note":"pending","cash":"abc"}`, balance.NotOpen, false},
		{"NotAnObject", `[true]`, balance.NotOpen, true},
		{"BadFlag", `{"isOpen":"yes"}`, balance.NotOpen, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := balance.ParseStatus(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGate_Check(t *testing.T) {
	type testCase struct {
		name      string
		role      role.Role
		failOpen  bool
		setupMock func(m *balance.MockStatusSource)
		want      balance.PeriodStatus
	}

	tests := []testCase{
		{
			name: "AccountantNotOpen",
			role: role.Accountant,
			setupMock: func(m *balance.MockStatusSource) {
				m.EXPECT().BalanceStatus(gomock.Any()).Return(json.RawMessage(`{"isOpen":false}`), nil)
			},
			want: balance.NotOpen,
		},
		{
			name: "ManagerLegacyOpen",
			role: role.Manager,
			setupMock: func(m *balance.MockStatusSource) {
				m.EXPECT().BalanceStatus(gomock.Any()).Return(json.RawMessage(`{"cash":10}`), nil)
			},
			want: balance.Open,
		},
		{
			name:      "SalesSkipsQuery",
			role:      role.SalesGrocery,
			setupMock: func(m *balance.MockStatusSource) {},
			want:      balance.Open,
		},
		{
			name:      "AuditorSkipsQuery",
			role:      role.Auditor,
			setupMock: func(m *balance.MockStatusSource) {},
			want:      balance.Open,
		},
		{
			name:     "FailureFailsOpen",
			role:     role.Accountant,
			failOpen: true,
			setupMock: func(m *balance.MockStatusSource) {
				m.EXPECT().BalanceStatus(gomock.Any()).Return(nil, errors.New("timeout"))
			},
			want: balance.Open,
		},
		{
			name:     "FailureFailsClosed",
			role:     role.Manager,
			failOpen: false,
			setupMock: func(m *balance.MockStatusSource) {
				m.EXPECT().BalanceStatus(gomock.Any()).Return(nil, errors.New("timeout"))
			},
			want: balance.NotOpen,
		},
		{
			name:     "GarbageFailsOpen",
			role:     role.Manager,
			failOpen: true,
			setupMock: func(m *balance.MockStatusSource) {
				m.EXPECT().BalanceStatus(gomock.Any()).Return(json.RawMessage(`"open"`), nil)
			},
			want: balance.Open,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			src := balance.NewMockStatusSource(ctrl)
			tt.setupMock(src)

			g := balance.NewGate(src, tt.failOpen)
			got := g.Check(context.Background(), session.NewIdentity("u1", "Test", tt.role))

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		status    balance.PeriodStatus
		path      string
		navigable bool
		want      balance.Decision
	}{
		{"OpenPasses", balance.Open, nav.PathSales, true, balance.Pass},
		{"NotOpenRedirects", balance.NotOpen, nav.PathHome, true, balance.Redirect},
		{"NotOpenSetupPasses", balance.NotOpen, balance.SetupPath, true, balance.Pass},
		{"NotOpenSetupPostPasses", balance.NotOpen, balance.SetupPath, false, balance.Pass},
		{"NotOpenPostBlocks", balance.NotOpen, nav.PathExpenses, false, balance.Block},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, balance.Decide(tt.status, tt.path, tt.navigable))
		})
	}
}

func TestGate_EveryPathRedirectsForGatedRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := balance.NewMockStatusSource(ctrl)
	src.EXPECT().BalanceStatus(gomock.Any()).Return(json.RawMessage(`{"isOpen":false}`), nil).AnyTimes()

	g := balance.NewGate(src, true)

	for _, e := range nav.Entries {
		accountant := g.Check(context.Background(), session.NewIdentity("a", "A", role.Accountant))
		grocery := g.Check(context.Background(), session.NewIdentity("s", "S", role.SalesGrocery))

		if e.Path == balance.SetupPath {
			assert.Equal(t, balance.Pass, balance.Decide(accountant, e.Path, true))
			continue
		}

		assert.Equal(t, balance.Redirect, balance.Decide(accountant, e.Path, true), e.Path)
		assert.Equal(t, balance.Pass, balance.Decide(grocery, e.Path, true), e.Path)
	}
}
