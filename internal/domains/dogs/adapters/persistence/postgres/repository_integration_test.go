//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
	"github.com/Apurer/dogshouse-service/internal/platform/migrations"
	platformpostgres "github.com/Apurer/dogshouse-service/internal/platform/postgres"
	apierrors "github.com/Apurer/dogshouse-service/internal/shared/errors"
)

func setupDogsPostgresContainer(t *testing.T, driver string) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("dogshouse_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, platformpostgres.Config{DSN: dsn, Driver: driver})
	require.NoError(t, err)

	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func dog(name string, tail, weight int) ports.DogEntity {
	return ports.DogEntity{Name: name, Color: "brown", TailLength: tail, Weight: weight}
}

func TestRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupDogsPostgresContainer(t, platformpostgres.DriverPgx)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	added, err := repo.Add(ctx, ports.DogEntity{Name: "Neo", Color: "red&amber", TailLength: 22, Weight: 32})
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, "Neo")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, added, *fetched)

	_, err = repo.Add(ctx, dog("Neo", 1, 1))
	require.ErrorIs(t, err, ports.ErrAlreadyExists)

	updated, err := repo.Update(ctx, ports.DogEntity{Name: "Neo", Color: "white", TailLength: 0, Weight: 0})
	require.NoError(t, err)
	fetched, err = repo.GetByID(ctx, "Neo")
	require.NoError(t, err)
	assert.Equal(t, updated, *fetched)

	_, err = repo.Update(ctx, dog("Ghost", 1, 1))
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = repo.Add(ctx, dog("Stumpy", -1, 1))
	require.ErrorIs(t, err, ports.ErrNegativeTailLength)

	require.NoError(t, repo.Delete(ctx, "Neo"))
	fetched, err = repo.GetByID(ctx, "Neo")
	require.NoError(t, err)
	assert.Nil(t, fetched)
	require.ErrorIs(t, repo.Delete(ctx, "Neo"), ports.ErrIDNotFound)
}

func TestRepository_PagesInInsertionOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupDogsPostgresContainer(t, platformpostgres.DriverPgx)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	for _, name := range []string{"D", "C", "B", "A"} {
		_, err := repo.Add(ctx, dog(name, 1, 1))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	page, err := repo.GetPage(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "B", page[0].Name)
	assert.Equal(t, "A", page[1].Name)

	page, err = repo.GetPage(ctx, 1<<62+1, 4)
	require.NoError(t, err)
	assert.Empty(t, page)

	_, err = repo.GetPage(ctx, 0, 2)
	require.ErrorIs(t, err, ports.ErrPageNumberOutOfRange)
}

// Concurrent adds of one name can all pass the existence check; the primary key
// then rejects every loser with the constraint message instead of the duplicate one.
func TestRepository_ConcurrentAddRace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	for _, driver := range []string{platformpostgres.DriverPgx, platformpostgres.DriverPQ} {
		t.Run(driver, func(t *testing.T) {
			db, cleanup := setupDogsPostgresContainer(t, driver)
			defer cleanup()

			repo := NewRepository(db)
			ctx := context.Background()

			const contenders = 24
			var (
				wg    sync.WaitGroup
				start = make(chan struct{})
				errs  = make(chan error, contenders)
			)
			for i := 0; i < contenders; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					<-start
					_, err := repo.Add(ctx, dog("Twin", i, 1))
					errs <- err
				}(i)
			}
			close(start)
			wg.Wait()
			close(errs)

			succeeded := 0
			for err := range errs {
				if err == nil {
					succeeded++
					continue
				}
				require.Equal(t, apierrors.KindConflict, apierrors.KindOf(err), fmt.Sprint(err))
				require.True(t,
					errors.Is(err, ports.ErrAlreadyExists) || errors.Is(err, ports.ErrUniqueViolation),
					"unexpected conflict: %v", err)
			}
			require.Equal(t, 1, succeeded)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
		})
	}
}
