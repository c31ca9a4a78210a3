package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/aspectxlol/uprak-pos/internal/domain/catalog"
	"github.com/aspectxlol/uprak-pos/internal/storage/postgres"
)

func startPostgres(ctx context.Context) (*tcpostgres.PostgresContainer, string, error) {
	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

type catalogStoreSuite struct {
	suite.Suite

	pool  *pgxpool.Pool
	store catalog.Store
}

func TestCatalogStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	suite.Run(t, new(catalogStoreSuite))
}

func (s *catalogStoreSuite) SetupSuite() {
	ctx := s.T().Context()

	_, connStr, err := startPostgres(ctx)
	s.Require().NoError(err)

	s.pool, err = postgres.NewPool(ctx, connStr)
	s.Require().NoError(err)

	s.Require().NoError(postgres.RunMigrations(ctx, s.pool))
	s.store = postgres.NewCatalogStore(s.pool)
}

func (s *catalogStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *catalogStoreSuite) TestLoad_EmptyTable() {
	ctx := s.T().Context()

	s.Require().NoError(s.store.Save(ctx, nil))

	products, err := s.store.Load(ctx)
	s.Require().NoError(err)
	s.Empty(products)
}

func (s *catalogStoreSuite) TestSaveLoad_RoundTrip() {
	t := s.T()
	ctx := t.Context()

	in := []catalog.Product{
		{ID: 1, Name: gofakeit.ProductName(), Price: decimal.NewFromInt(2000)},
		{ID: 2, Name: gofakeit.ProductName(), Price: decimal.RequireFromString("1500.50")},
	}
	require.NoError(t, s.store.Save(ctx, in))

	out, err := s.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		require.Equal(t, in[i].ID, out[i].ID)
		require.Equal(t, in[i].Name, out[i].Name)
		require.True(t, in[i].Price.Equal(out[i].Price), "price %s != %s", in[i].Price, out[i].Price)
	}
}

func (s *catalogStoreSuite) TestSave_ReplacesPreviousContents() {
	t := s.T()
	ctx := t.Context()

	require.NoError(t, s.store.Save(ctx, []catalog.Product{
		{ID: 1, Name: gofakeit.ProductName(), Price: decimal.NewFromInt(1000)},
		{ID: 2, Name: gofakeit.ProductName(), Price: decimal.NewFromInt(2000)},
	}))

	replacement := []catalog.Product{
		{ID: 5, Name: gofakeit.ProductName(), Price: decimal.NewFromInt(7000)},
	}
	require.NoError(t, s.store.Save(ctx, replacement))

	out, err := s.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.EqualValues(t, 5, out[0].ID)
}

func (s *catalogStoreSuite) TestLoad_OrderedByID() {
	t := s.T()
	ctx := t.Context()

	require.NoError(t, s.store.Save(ctx, []catalog.Product{
		{ID: 9, Name: gofakeit.ProductName(), Price: decimal.NewFromInt(900)},
		{ID: 3, Name: gofakeit.ProductName(), Price: decimal.NewFromInt(300)},
		{ID: 6, Name: gofakeit.ProductName(), Price: decimal.NewFromInt(600)},
	}))

	out, err := s.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.EqualValues(t, 3, out[0].ID)
	require.EqualValues(t, 6, out[1].ID)
	require.EqualValues(t, 9, out[2].ID)
}
