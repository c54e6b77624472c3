package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/finapi/internal/domain/errors"
	"github.com/polkiloo/finapi/internal/domain/model"
	"github.com/polkiloo/finapi/internal/storage/memory"
	testhelpers "github.com/polkiloo/finapi/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type statementFixture struct {
	store *memory.Store
	cache *testhelpers.BalanceCacheStub
	uc    *StatementUseCase
}

func newStatementFixture() statementFixture {
	store := memory.New()
	cache := &testhelpers.BalanceCacheStub{}
	return statementFixture{
		store: store,
		cache: cache,
		uc:    NewStatementUseCase(store.Users(), store.Statements(), cache, discardLogger()),
	}
}

func (f statementFixture) createUser(t *testing.T, email string) string {
	t.Helper()
	user, err := f.store.Users().Create(context.Background(), "John Doe", email, "hash")
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user.ID
}

func amount(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCreateStatementDeposit(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")

	st, err := f.uc.CreateStatement(context.Background(), userID, model.OperationTypeDeposit, amount("100"), "deposit")
	if err != nil {
		t.Fatalf("create statement returned error: %v", err)
	}
	if st.ID == "" || st.UserID != userID || st.Type != model.OperationTypeDeposit || !st.Amount.Equal(amount("100")) {
		t.Fatalf("unexpected statement: %+v", st)
	}
}

func TestCreateStatementWithdrawFullBalance(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")
	ctx := context.Background()

	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("100"), "deposit"); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	st, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeWithdraw, amount("100"), "withdraw")
	if err != nil {
		t.Fatalf("withdraw returned error: %v", err)
	}
	if st.Type != model.OperationTypeWithdraw || !st.Amount.Equal(amount("100")) {
		t.Fatalf("unexpected statement: %+v", st)
	}

	balance, err := f.uc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if !balance.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", balance.Balance)
	}
}

func TestCreateStatementInsufficientFunds(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")
	ctx := context.Background()

	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeWithdraw, amount("100"), "withdraw"); !errors.Is(err, domainErrors.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("50"), ""); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeWithdraw, amount("50.01"), ""); !errors.Is(err, domainErrors.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	list, _ := f.store.Statements().ListByUser(ctx, userID)
	if len(list) != 1 {
		t.Fatalf("expected rejected withdrawals to leave no trace, got %d statements", len(list))
	}
}

func TestCreateStatementUnknownUser(t *testing.T) {
	f := newStatementFixture()

	if _, err := f.uc.CreateStatement(context.Background(), "non-existing-user", model.OperationTypeDeposit, amount("100"), "deposit"); !errors.Is(err, domainErrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestCreateStatementValidation(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")

	cases := []struct {
		name   string
		user   string
		opType model.OperationType
		amount decimal.Decimal
		want   error
	}{
		{"unknown type", userID, "transfer", amount("10"), domainErrors.ErrInvalidOperationType},
		{"zero amount", userID, model.OperationTypeDeposit, decimal.Zero, domainErrors.ErrInvalidAmount},
		{"negative amount", userID, model.OperationTypeWithdraw, amount("-5"), domainErrors.ErrInvalidAmount},
		{"sub cent amount", userID, model.OperationTypeDeposit, amount("0.001"), domainErrors.ErrInvalidAmount},
		{"three fractional digits", userID, model.OperationTypeDeposit, amount("10.005"), domainErrors.ErrInvalidAmount},
		{"amount overflows column", userID, model.OperationTypeDeposit, amount("1000000000000000000"), domainErrors.ErrInvalidAmount},
		{"validation before lookup", "missing", model.OperationTypeDeposit, decimal.Zero, domainErrors.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.uc.CreateStatement(context.Background(), tc.user, tc.opType, tc.amount, ""); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateStatementRejectsFractionalCents(t *testing.T) {
	ctx := context.Background()

	t.Run("memory store", func(t *testing.T) {
		f := newStatementFixture()
		userID := f.createUser(t, "john@doe.com")
		for _, v := range []string{"0.001", "10.005"} {
			if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount(v), ""); !errors.Is(err, domainErrors.ErrInvalidAmount) {
				t.Fatalf("amount %s: expected invalid amount, got %v", v, err)
			}
		}
		list, err := f.store.Statements().ListByUser(ctx, userID)
		if err != nil {
			t.Fatalf("list statements failed: %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("expected nothing recorded, got %d statements", len(list))
		}
	})

	t.Run("repository never reached", func(t *testing.T) {
		users := testhelpers.NewUserRepositoryStub()
		user, _ := users.Create(ctx, "Ann", "a@b.c", "hash")
		repo := &testhelpers.StatementRepositoryStub{}
		cache := &testhelpers.BalanceCacheStub{}
		uc := NewStatementUseCase(users, repo, cache, discardLogger())
		if _, err := uc.CreateStatement(ctx, user.ID, model.OperationTypeWithdraw, amount("0.001"), ""); !errors.Is(err, domainErrors.ErrInvalidAmount) {
			t.Fatalf("expected invalid amount, got %v", err)
		}
		if repo.Calls() != 0 || len(cache.Invalidated) != 0 {
			t.Fatalf("expected no store or cache access, got %d store calls and %d invalidations", repo.Calls(), len(cache.Invalidated))
		}
	})

	t.Run("two fractional digits accepted", func(t *testing.T) {
		f := newStatementFixture()
		userID := f.createUser(t, "john@doe.com")
		if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("10.05"), ""); err != nil {
			t.Fatalf("deposit failed: %v", err)
		}
	})
}

func TestCreateStatementRepositoryFailures(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	user, _ := users.Create(context.Background(), "Ann", "a@b.c", "hash")

	t.Run("sum error", func(t *testing.T) {
		repo := &testhelpers.StatementRepositoryStub{SumFn: func(context.Context, string, model.OperationType) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("sum failed")
		}}
		uc := NewStatementUseCase(users, repo, nil, discardLogger())
		if _, err := uc.CreateStatement(context.Background(), user.ID, model.OperationTypeWithdraw, amount("1"), ""); err == nil || domainErrors.KindOf(err) != domainErrors.KindUnknown {
			t.Fatalf("expected unclassified error, got %v", err)
		}
	})

	t.Run("create error", func(t *testing.T) {
		repo := &testhelpers.StatementRepositoryStub{CreateFn: func(context.Context, string, model.OperationType, decimal.Decimal, string) (*model.Statement, error) {
			return nil, errors.New("insert failed")
		}}
		uc := NewStatementUseCase(users, repo, nil, discardLogger())
		if _, err := uc.CreateStatement(context.Background(), user.ID, model.OperationTypeDeposit, amount("1"), ""); err == nil {
			t.Fatal("expected create error")
		}
	})

	t.Run("user vanished on insert", func(t *testing.T) {
		repo := &testhelpers.StatementRepositoryStub{CreateFn: func(context.Context, string, model.OperationType, decimal.Decimal, string) (*model.Statement, error) {
			return nil, domainErrors.ErrNotFound
		}}
		uc := NewStatementUseCase(users, repo, nil, discardLogger())
		if _, err := uc.CreateStatement(context.Background(), user.ID, model.OperationTypeDeposit, amount("1"), ""); !errors.Is(err, domainErrors.ErrUserNotFound) {
			t.Fatalf("expected user not found, got %v", err)
		}
	})

	t.Run("user lookup error", func(t *testing.T) {
		broken := testhelpers.NewUserRepositoryStub()
		broken.GetErr = errors.New("db down")
		uc := NewStatementUseCase(broken, &testhelpers.StatementRepositoryStub{}, nil, discardLogger())
		if _, err := uc.CreateStatement(context.Background(), user.ID, model.OperationTypeDeposit, amount("1"), ""); err == nil || errors.Is(err, domainErrors.ErrUserNotFound) {
			t.Fatalf("expected raw error, got %v", err)
		}
	})
}

func TestCreateStatementConcurrentWithdrawals(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")
	ctx := context.Background()

	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("100"), ""); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeWithdraw, amount("10"), "")
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, domainErrors.ErrInsufficientFunds) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 10 {
		t.Fatalf("expected exactly 10 withdrawals to succeed, got %d", succeeded)
	}
	balance, err := f.uc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if balance.Balance.IsNegative() {
		t.Fatalf("balance went negative: %s", balance.Balance)
	}
	if f.uc.locks.size() != 0 {
		t.Fatalf("expected user locks to be released, got %d", f.uc.locks.size())
	}
}

func TestGetBalance(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")
	otherID := f.createUser(t, "jane@doe.com")
	ctx := context.Background()

	for _, step := range []struct {
		user   string
		opType model.OperationType
		value  string
	}{
		{userID, model.OperationTypeDeposit, "100"},
		{userID, model.OperationTypeWithdraw, "30"},
		{otherID, model.OperationTypeDeposit, "999"},
		{userID, model.OperationTypeDeposit, "5.25"},
	} {
		if _, err := f.uc.CreateStatement(ctx, step.user, step.opType, amount(step.value), ""); err != nil {
			t.Fatalf("create statement failed: %v", err)
		}
	}

	balance, err := f.uc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("get balance returned error: %v", err)
	}
	if !balance.Balance.Equal(amount("75.25")) {
		t.Fatalf("expected balance 75.25, got %s", balance.Balance)
	}
	if len(balance.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(balance.Statements))
	}
	wantOrder := []string{"100", "30", "5.25"}
	for i, st := range balance.Statements {
		if st.UserID != userID {
			t.Fatalf("statement %d belongs to %q", i, st.UserID)
		}
		if !st.Amount.Equal(amount(wantOrder[i])) {
			t.Fatalf("expected statement %d amount %s, got %s", i, wantOrder[i], st.Amount)
		}
	}
}

func TestGetBalanceEmptyAndUnknown(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")
	ctx := context.Background()

	balance, err := f.uc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("get balance returned error: %v", err)
	}
	if len(balance.Statements) != 0 || !balance.Balance.IsZero() {
		t.Fatalf("expected empty balance, got %+v", balance)
	}

	if _, err := f.uc.GetBalance(ctx, "missing"); !errors.Is(err, domainErrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestGetBalanceUsesCache(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	user, _ := users.Create(context.Background(), "Ann", "a@b.c", "hash")
	repo := &testhelpers.StatementRepositoryStub{}
	cache := &testhelpers.BalanceCacheStub{}
	uc := NewStatementUseCase(users, repo, cache, discardLogger())
	ctx := context.Background()

	if _, err := uc.GetBalance(ctx, user.ID); err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if !cache.Cached(user.ID) {
		t.Fatal("expected balance to be cached")
	}
	calls := repo.Calls()

	if _, err := uc.GetBalance(ctx, user.ID); err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if repo.Calls() != calls {
		t.Fatalf("expected cache hit to skip the store, calls went from %d to %d", calls, repo.Calls())
	}

	if _, err := uc.CreateStatement(ctx, user.ID, model.OperationTypeDeposit, amount("1"), ""); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if cache.Cached(user.ID) {
		t.Fatal("expected deposit to invalidate cached balance")
	}
}

func TestGetBalanceIgnoresCacheFailures(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")
	ctx := context.Background()

	f.cache.GetErr = errors.New("redis down")
	f.cache.SetErr = errors.New("redis down")

	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("10"), ""); err != nil {
		t.Fatalf("deposit failed despite cache error: %v", err)
	}
	balance, err := f.uc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("get balance failed despite cache error: %v", err)
	}
	if !balance.Balance.Equal(amount("10")) {
		t.Fatalf("expected balance 10, got %s", balance.Balance)
	}
}

func TestCreateStatementInvalidationFailureRecordsNothing(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")
	ctx := context.Background()

	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("100"), ""); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := f.uc.GetBalance(ctx, userID); err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if !f.cache.Cached(userID) {
		t.Fatal("expected balance to be cached")
	}

	f.cache.InvalidateErr = errors.New("redis down")
	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("50"), ""); err == nil || domainErrors.KindOf(err) != domainErrors.KindUnknown {
		t.Fatalf("expected unclassified error, got %v", err)
	}
	balance, err := f.uc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if !balance.Balance.Equal(amount("100")) || len(balance.Statements) != 1 {
		t.Fatalf("expected untouched balance 100 with one statement, got %s with %d", balance.Balance, len(balance.Statements))
	}

	f.cache.InvalidateErr = nil
	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("50"), ""); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	balance, err = f.uc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if !balance.Balance.Equal(amount("150")) || len(balance.Statements) != 2 {
		t.Fatalf("expected balance 150 with two statements, got %s with %d", balance.Balance, len(balance.Statements))
	}
}

func TestGetBalanceSkipsCacheAfterFailedPostWriteInvalidation(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")
	ctx := context.Background()

	calls := 0
	f.cache.InvalidateFn = func(string) error {
		calls++
		if calls == 2 {
			return errors.New("redis down")
		}
		return nil
	}

	if _, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("100"), ""); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if !f.uc.stale.has(userID) {
		t.Fatal("expected user to be marked stale")
	}

	// An outdated entry written elsewhere must not be served.
	if err := f.cache.Set(ctx, userID, &model.Balance{Balance: amount("1")}); err != nil {
		t.Fatalf("seed cache failed: %v", err)
	}
	balance, err := f.uc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if !balance.Balance.Equal(amount("100")) {
		t.Fatalf("expected balance 100 from store, got %s", balance.Balance)
	}
	if f.uc.stale.has(userID) {
		t.Fatal("expected fresh cache write to clear stale mark")
	}

	cached, ok, err := f.cache.Get(ctx, userID)
	if err != nil || !ok || !cached.Balance.Equal(amount("100")) {
		t.Fatalf("expected refreshed cache entry, got %v %v %v", cached, ok, err)
	}
}

func TestGetBalanceRepositoryFailures(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	user, _ := users.Create(context.Background(), "Ann", "a@b.c", "hash")

	listErr := &testhelpers.StatementRepositoryStub{ListFn: func(context.Context, string) ([]model.Statement, error) {
		return nil, errors.New("list failed")
	}}
	if _, err := NewStatementUseCase(users, listErr, nil, discardLogger()).GetBalance(context.Background(), user.ID); err == nil {
		t.Fatal("expected list error")
	}

	sumErr := &testhelpers.StatementRepositoryStub{SumFn: func(_ context.Context, _ string, opType model.OperationType) (decimal.Decimal, error) {
		if opType == model.OperationTypeWithdraw {
			return decimal.Zero, errors.New("sum failed")
		}
		return decimal.Zero, nil
	}}
	if _, err := NewStatementUseCase(users, sumErr, nil, discardLogger()).GetBalance(context.Background(), user.ID); err == nil {
		t.Fatal("expected sum error")
	}
}

func TestGetStatementOperation(t *testing.T) {
	f := newStatementFixture()
	userID := f.createUser(t, "john@doe.com")
	otherID := f.createUser(t, "jane@doe.com")
	ctx := context.Background()

	created, err := f.uc.CreateStatement(ctx, userID, model.OperationTypeDeposit, amount("100"), "deposit")
	if err != nil {
		t.Fatalf("create statement failed: %v", err)
	}

	st, err := f.uc.GetStatementOperation(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("get statement returned error: %v", err)
	}
	if st.ID != created.ID || st.UserID != userID {
		t.Fatalf("unexpected statement: %+v", st)
	}

	if _, err := f.uc.GetStatementOperation(ctx, "non_existing_id", created.ID); !errors.Is(err, domainErrors.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if _, err := f.uc.GetStatementOperation(ctx, userID, "non_existing_id"); !errors.Is(err, domainErrors.ErrStatementNotFound) {
		t.Fatalf("expected statement not found, got %v", err)
	}
	if _, err := f.uc.GetStatementOperation(ctx, otherID, created.ID); !errors.Is(err, domainErrors.ErrStatementNotFound) {
		t.Fatalf("expected statement not found for foreign statement, got %v", err)
	}
}

func TestGetStatementOperationRepositoryFailure(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	user, _ := users.Create(context.Background(), "Ann", "a@b.c", "hash")
	repo := &testhelpers.StatementRepositoryStub{GetByIDFn: func(context.Context, string) (*model.Statement, error) {
		return nil, errors.New("db down")
	}}
	uc := NewStatementUseCase(users, repo, nil, discardLogger())

	if _, err := uc.GetStatementOperation(context.Background(), user.ID, "s1"); err == nil || errors.Is(err, domainErrors.ErrStatementNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}
}
