package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetracker/database"
	"pricetracker/models"
)

func newTestRepo(t *testing.T) *ProductRepository {
	t.Helper()

	db, err := database.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.CreateTables(db, "sqlite3"))
	return NewProductRepository(db)
}

func seedProduct(t *testing.T, repo *ProductRepository, name string) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:        name,
		URL:         "https://example.com/" + name,
		TargetPrice: 100,
	}
	require.NoError(t, repo.Create(p))
	return p
}

func TestCreateAndGetByID(t *testing.T) {
	repo := newTestRepo(t)

	p := seedProduct(t, repo, "widget")
	assert.NotZero(t, p.ID)
	assert.True(t, p.IsActive)

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "widget", got.Name)
	assert.Equal(t, 100.0, got.TargetPrice)
	assert.False(t, got.HasPrice())
	assert.Nil(t, got.LastChecked)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetActive_SkipsInactiveAndOrdersByID(t *testing.T) {
	repo := newTestRepo(t)

	a := seedProduct(t, repo, "a")
	b := seedProduct(t, repo, "b")
	c := seedProduct(t, repo, "c")

	b.IsActive = false
	require.NoError(t, repo.Update(b))

	active, err := repo.GetActive()
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, a.ID, active[0].ID)
	assert.Equal(t, c.ID, active[1].ID)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)

	p := seedProduct(t, repo, "widget")
	p.Name = "renamed"
	p.TargetPrice = 75
	p.Selector = "#price"
	require.NoError(t, repo.Update(p))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, 75.0, got.TargetPrice)
	assert.Equal(t, "#price", got.Selector)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	p := &models.Product{ID: 999, Name: "ghost", URL: "https://example.com/ghost", TargetPrice: 1}
	assert.ErrorIs(t, repo.Update(p), ErrNotFound)
}

func TestUpdateAfterCheck(t *testing.T) {
	repo := newTestRepo(t)

	p := seedProduct(t, repo, "widget")
	now := time.Now().UTC().Truncate(time.Second)
	p.SetCurrentPrice(89.99)
	p.TargetNotified = true
	p.LastChecked = &now

	require.NoError(t, repo.UpdateAfterCheck(p))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 89.99, got.GetCurrentPrice())
	assert.True(t, got.TargetNotified)
	require.NotNil(t, got.LastChecked)
	assert.True(t, got.LastChecked.Equal(now))
}

func TestMarkChecked_LeavesTrackingStateAlone(t *testing.T) {
	repo := newTestRepo(t)

	p := seedProduct(t, repo, "widget")
	p.SetCurrentPrice(120)
	require.NoError(t, repo.UpdateAfterCheck(p))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkChecked(p.ID, at))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.GetCurrentPrice())
	assert.False(t, got.TargetNotified)
	require.NotNil(t, got.LastChecked)
	assert.True(t, got.LastChecked.Equal(at))
}

func TestDelete_CascadesHistory(t *testing.T) {
	repo := newTestRepo(t)

	p := seedProduct(t, repo, "widget")
	require.NoError(t, repo.AddHistory(&models.PriceHistory{
		ProductID:  p.ID,
		Price:      99,
		RecordedAt: time.Now(),
	}))

	require.NoError(t, repo.Delete(p.ID))

	_, err := repo.GetByID(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := repo.GetHistory(p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDelete_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	assert.ErrorIs(t, repo.Delete(42), ErrNotFound)
}

func TestHistory_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	p := seedProduct(t, repo, "widget")
	base := time.Now().UTC().Truncate(time.Second)

	prices := []float64{100, 95, 90}
	for i, price := range prices {
		require.NoError(t, repo.AddHistory(&models.PriceHistory{
			ProductID:  p.ID,
			Price:      price,
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	history, err := repo.GetHistory(p.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 90.0, history[0].Price)
	assert.Equal(t, 95.0, history[1].Price)
	assert.Equal(t, 100.0, history[2].Price)
}

func TestHistory_LimitApplies(t *testing.T) {
	repo := newTestRepo(t)

	p := seedProduct(t, repo, "widget")
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AddHistory(&models.PriceHistory{
			ProductID:  p.ID,
			Price:      float64(100 + i),
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	history, err := repo.GetHistory(p.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 104.0, history[0].Price)
	assert.Equal(t, 103.0, history[1].Price)
}
