package repository_test

import (
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/port"
	"github.com/nikolayk812/grocery-cart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type cartRepositorySuite struct {
	suite.Suite

	repo      port.CartStore
	pool      *pgxpool.Pool
	container *postgres.PostgresContainer
}

// entry point to run the tests in the suite
func TestCartRepositorySuite(t *testing.T) {
	suite.Run(t, new(cartRepositorySuite))
}

// before all tests in the suite
func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo, err = repository.NewCart(suite.pool)
	suite.Require().NoError(err)
}

// after all tests in the suite
func (suite *cartRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(testcontainers.TerminateContainer(suite.container))
	}
}

func (suite *cartRepositorySuite) TestWrite() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		ns        domain.Namespace
		items     []domain.LineItem
		wantError string
	}{
		{
			name:  "write items: ok",
			ns:    randomNamespace(),
			items: []domain.LineItem{randomLineItem(), randomLineItem()},
		},
		{
			name:  "write zero price item: ok",
			ns:    randomNamespace(),
			items: []domain.LineItem{{Product: domain.Product{ProductID: gofakeit.UUID(), Price: decimal.Zero}, Quantity: 1}},
		},
		{
			name:  "write empty list: ok",
			ns:    randomNamespace(),
			items: []domain.LineItem{},
		},
		{
			name:      "write with empty namespace: error",
			ns:        "",
			items:     []domain.LineItem{randomLineItem()},
			wantError: "namespace is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			err := suite.repo.Write(ctx, tt.ns, tt.items)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, err := suite.repo.Read(ctx, tt.ns)
			require.NoError(t, err)
			assertLineItems(t, tt.items, got)
		})
	}
}

func (suite *cartRepositorySuite) TestWriteReplacesPreviousRecord() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ns := randomNamespace()

	first := []domain.LineItem{randomLineItem(), randomLineItem(), randomLineItem()}
	require.NoError(t, suite.repo.Write(ctx, ns, first))

	second := []domain.LineItem{first[2], randomLineItem()}
	second[0].Quantity += 5
	require.NoError(t, suite.repo.Write(ctx, ns, second))

	got, err := suite.repo.Read(ctx, ns)
	require.NoError(t, err)
	assertLineItems(t, second, got)
}

func (suite *cartRepositorySuite) TestWriteDuplicateProductRollsBack() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ns := randomNamespace()

	original := []domain.LineItem{randomLineItem()}
	require.NoError(t, suite.repo.Write(ctx, ns, original))

	dup := randomLineItem()
	err := suite.repo.Write(ctx, ns, []domain.LineItem{dup, dup})
	require.Error(t, err)

	got, err := suite.repo.Read(ctx, ns)
	require.NoError(t, err)
	assertLineItems(t, original, got)
}

func (suite *cartRepositorySuite) TestWriteQuantityOutOfRangeRollsBack() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ns := randomNamespace()

	original := []domain.LineItem{randomLineItem()}
	require.NoError(t, suite.repo.Write(ctx, ns, original))

	huge := randomLineItem()
	huge.Quantity = math.MaxInt32 + 1

	err := suite.repo.Write(ctx, ns, []domain.LineItem{randomLineItem(), huge})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	got, err := suite.repo.Read(ctx, ns)
	require.NoError(t, err)
	assertLineItems(t, original, got)
}

func (suite *cartRepositorySuite) TestNamespacesAreIsolated() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	guest := domain.Guest.Namespace()
	user := domain.NewIdentity(gofakeit.UUID()).Namespace()

	guestItems := []domain.LineItem{randomLineItem()}
	userItems := []domain.LineItem{randomLineItem(), randomLineItem()}

	require.NoError(t, suite.repo.Write(ctx, guest, guestItems))
	require.NoError(t, suite.repo.Write(ctx, user, userItems))

	got, err := suite.repo.Read(ctx, guest)
	require.NoError(t, err)
	assertLineItems(t, guestItems, got)

	got, err = suite.repo.Read(ctx, user)
	require.NoError(t, err)
	assertLineItems(t, userItems, got)
}

func (suite *cartRepositorySuite) TestRemove() {
	defer suite.deleteAll()

	tests := []struct {
		name       string
		ns         domain.Namespace
		setupItems []domain.LineItem
		wantError  string
	}{
		{
			name:       "remove existing record: ok",
			ns:         randomNamespace(),
			setupItems: []domain.LineItem{randomLineItem()},
		},
		{
			name: "remove missing record: ok",
			ns:   randomNamespace(),
		},
		{
			name:      "remove with empty namespace: error",
			ns:        "",
			wantError: "namespace is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			if len(tt.setupItems) > 0 {
				require.NoError(t, suite.repo.Write(ctx, tt.ns, tt.setupItems))
			}

			err := suite.repo.Remove(ctx, tt.ns)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, err := suite.repo.Read(ctx, tt.ns)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func (suite *cartRepositorySuite) TestWriteWithCallerTransaction() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ns := randomNamespace()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	txRepo := repository.NewCartWithTx(tx)
	require.NoError(t, txRepo.Write(ctx, ns, []domain.LineItem{randomLineItem()}))

	got, err := txRepo.Read(ctx, ns)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, tx.Rollback(ctx))

	got, err = suite.repo.Read(ctx, ns)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func (suite *cartRepositorySuite) TestReadEmptyNamespace() {
	_, err := suite.repo.Read(suite.T().Context(), "")
	suite.EqualError(err, "namespace is empty")
}

func (suite *cartRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE cart_items CASCADE")
	suite.NoError(err)
}

func randomNamespace() domain.Namespace {
	return domain.NewIdentity(gofakeit.UUID()).Namespace()
}

func randomLineItem() domain.LineItem {
	return domain.LineItem{
		Product: domain.Product{
			ProductID: gofakeit.UUID(),
			Name:      gofakeit.ProductName(),
			Price:     decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
			Image:     gofakeit.URL(),
			Unit:      "1 sản phẩm",
		},
		Quantity: gofakeit.Number(1, 20),
	}
}

func assertLineItems(t *testing.T, expected, actual []domain.LineItem) {
	t.Helper()

	require.Len(t, actual, len(expected))

	diff := cmp.Diff(expected, actual)
	assert.Empty(t, diff)
}
