package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/usecase"
	"github.com/etudesn/notacompta/internal/usecase/mocks"
)

func newTestChart(t *testing.T) (*usecase.ChartUseCase, *mocks.MockAccountRepository) {
	t.Helper()
	repo := mocks.NewMockAccountRepository()
	seedAccount(t, repo, "411", func(a *domain.Account) {
		a.Label = "Clients"
		a.IsSummary = true
		a.Type = domain.AccountTypeActif
	})
	seedAccount(t, repo, "411.0001", func(a *domain.Account) {
		a.Label = "Client - SCI Horizon"
		a.Parent = "411"
		a.Type = domain.AccountTypeActif
	})
	seedAccount(t, repo, "7061", func(a *domain.Account) {
		a.Label = "Honoraires"
		a.Type = domain.AccountTypeProduit
	})
	seedAccount(t, repo, "6325", func(a *domain.Account) {
		a.Label = "Honoraires versés"
		a.IsActive = false
		a.Type = domain.AccountTypeCharge
	})
	return usecase.NewChartUseCase(repo), repo
}

func TestChartUseCase_ValidateAccount(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantValid bool
		wantMsg   string
	}{
		{name: "active detail account", code: "7061", wantValid: true},
		{name: "unknown account", code: "9999", wantValid: false, wantMsg: "compte 9999 inconnu"},
		{name: "inactive account", code: "6325", wantValid: false, wantMsg: "compte 6325 inactif"},
		{name: "summary account", code: "411", wantValid: false, wantMsg: "compte 411 collectif, non imputable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart, _ := newTestChart(t)

			result, err := chart.ValidateAccount(context.Background(), tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Valid != tt.wantValid {
				t.Errorf("expected valid=%v, got %v", tt.wantValid, result.Valid)
			}
			if result.Error != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, result.Error)
			}
		})
	}
}

func TestChartUseCase_ValidateAccountRepoError(t *testing.T) {
	chart, repo := newTestChart(t)
	repoErr := errors.New("connection lost")
	repo.GetByCodeFunc = func(ctx context.Context, code string) (*domain.Account, error) {
		return nil, repoErr
	}

	_, err := chart.ValidateAccount(context.Background(), "7061")
	if !errors.Is(err, repoErr) {
		t.Fatalf("infrastructure errors must propagate, got %v", err)
	}
}

func TestChartUseCase_GetAccountsByClass(t *testing.T) {
	chart, _ := newTestChart(t)
	ctx := context.Background()

	accounts, err := chart.GetAccountsByClass(ctx, "4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("expected 2 class-4 accounts, got %d", len(accounts))
	}

	for _, class := range []string{"", "0", "10", "x"} {
		if _, err := chart.GetAccountsByClass(ctx, class); !errors.Is(err, domain.ErrInvalidClassCode) {
			t.Errorf("class %q: expected ErrInvalidClassCode, got %v", class, err)
		}
	}
}

func TestChartUseCase_SearchAccounts(t *testing.T) {
	chart, _ := newTestChart(t)
	ctx := context.Background()

	byLabel, err := chart.SearchAccounts(ctx, "horizon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byLabel) != 1 || byLabel[0].Code != "411.0001" {
		t.Errorf("expected the client account, got %v", byLabel)
	}

	byCode, err := chart.SearchAccounts(ctx, "706")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byCode) != 1 || byCode[0].Code != "7061" {
		t.Errorf("expected 7061, got %v", byCode)
	}
}

func TestChartUseCase_Hierarchy(t *testing.T) {
	chart, _ := newTestChart(t)
	ctx := context.Background()

	parent, err := chart.GetParentAccount(ctx, "411.0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parent == nil || parent.Code != "411" {
		t.Errorf("expected parent 411, got %v", parent)
	}

	root, err := chart.GetParentAccount(ctx, "7061")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != nil {
		t.Errorf("expected no parent, got %v", root)
	}

	children, err := chart.GetChildAccounts(ctx, "411")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(children) != 1 || children[0].Code != "411.0001" {
		t.Errorf("expected one child 411.0001, got %v", children)
	}

	imputable, err := chart.GetImputableAccounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range imputable {
		if a.Code == "411" || a.Code == "6325" {
			t.Errorf("account %s must not be imputable", a.Code)
		}
	}
}
