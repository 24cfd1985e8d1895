package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogServiceTest(t *testing.T) (CatalogService, *testEnv) {
	env := setupTestEnv(t)
	return NewCatalogService(env.products, env.reviews), env
}

func TestCatalogService_List(t *testing.T) {
	catalog, env := setupCatalogServiceTest(t)
	ctx := context.Background()
	env.product(t, "Eau de Rose", "parfums", "55.00")
	env.product(t, "Sérum", "soins-visage", "30.00")
	env.product(t, "Musc", "parfums", "40.00")

	all, err := catalog.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all.Products, 3)
	assert.Equal(t, []string{"parfums", "soins-visage"}, all.Categories)

	filtered, err := catalog.List(ctx, "parfums")
	require.NoError(t, err)
	assert.Len(t, filtered.Products, 2)
	assert.Equal(t, "parfums", filtered.Category)
	assert.Len(t, filtered.Categories, 2, "facets always list every category")
}

func TestCatalogService_Highlights(t *testing.T) {
	catalog, env := setupCatalogServiceTest(t)
	ctx := context.Background()

	few, err := catalog.Highlights(ctx)
	require.NoError(t, err)
	assert.Empty(t, few.Newest)

	base := time.Now().Add(-time.Hour)
	var ids []uint
	for i := 0; i < 6; i++ {
		p := env.product(t, fmt.Sprintf("P%d", i), "parfums", "10.00")
		require.NoError(t, env.db.Model(p).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
		ids = append(ids, p.ID)
	}

	h, err := catalog.Highlights(ctx)
	require.NoError(t, err)
	require.Len(t, h.Newest, 4)
	require.Len(t, h.Bestsellers, 4)
	assert.Equal(t, ids[5], h.Newest[0].ID)
	assert.Equal(t, ids[0], h.Bestsellers[3].ID)
}

func TestCatalogService_Detail(t *testing.T) {
	catalog, env := setupCatalogServiceTest(t)
	ctx := context.Background()

	product := env.product(t, "Eau de Rose", "parfums", "55.00")
	for i := 0; i < 5; i++ {
		env.product(t, fmt.Sprintf("Voisin %d", i), "parfums", "20.00")
	}
	env.product(t, "Sérum", "soins-visage", "30.00")

	detail, err := catalog.Detail(ctx, product.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, product.ID, detail.Product.ID)
	assert.Len(t, detail.Similar, 4)
	for _, p := range detail.Similar {
		assert.NotEqual(t, product.ID, p.ID)
		assert.Equal(t, "parfums", p.Category)
	}
	assert.Zero(t, detail.Summary.Count)
	assert.Nil(t, detail.Summary.Average, "no average without reviews")
	assert.Nil(t, detail.OwnReview)

	_, err = catalog.Detail(ctx, 9999, nil)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_DetailReviewSummary(t *testing.T) {
	catalog, env := setupCatalogServiceTest(t)
	ctx := context.Background()
	product := env.product(t, "Eau de Rose", "parfums", "55.00")
	claire := env.user(t, "claire@example.com", "secret")
	paul := env.user(t, "paul@example.com", "secret")

	_, err := catalog.SubmitReview(ctx, product.ID, claire.ID, 4, "Sillage superbe")
	require.NoError(t, err)
	_, err = catalog.SubmitReview(ctx, product.ID, paul.ID, 5, "")
	require.NoError(t, err)

	detail, err := catalog.Detail(ctx, product.ID, &claire.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Summary.Count)
	require.NotNil(t, detail.Summary.Average)
	assert.InDelta(t, 4.5, *detail.Summary.Average, 0.0001)
	assert.Equal(t, paul.ID, detail.Reviews[0].UserID, "newest first")

	require.NotNil(t, detail.OwnReview)
	assert.Equal(t, 4, detail.OwnReview.Rating)
	assert.Equal(t, "Sillage superbe", *detail.OwnReview.Comment)
}

func TestCatalogService_SubmitReview(t *testing.T) {
	catalog, env := setupCatalogServiceTest(t)
	ctx := context.Background()
	product := env.product(t, "Eau de Rose", "parfums", "55.00")
	user := env.user(t, "claire@example.com", "secret")

	t.Run("out of range rejected without touching existing review", func(t *testing.T) {
		_, err := catalog.SubmitReview(ctx, product.ID, user.ID, 3, "Bien")
		require.NoError(t, err)

		for _, rating := range []int{0, 6, -1} {
			_, err := catalog.SubmitReview(ctx, product.ID, user.ID, rating, "Nul")
			assert.ErrorIs(t, err, ErrInvalidRating)
			assert.ErrorIs(t, err, ErrValidation)
		}

		review, err := env.reviews.FindByUserAndProduct(ctx, user.ID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, review.Rating)
		assert.Equal(t, "Bien", *review.Comment)
	})

	t.Run("resubmission updates single row", func(t *testing.T) {
		_, err := catalog.SubmitReview(ctx, product.ID, user.ID, 3, "Encore")
		require.NoError(t, err)
		_, err = catalog.SubmitReview(ctx, product.ID, user.ID, 3, "   ")
		require.NoError(t, err)

		var count int64
		require.NoError(t, env.db.Model(&model.Review{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		review, err := env.reviews.FindByUserAndProduct(ctx, user.ID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, review.Rating)
		assert.Nil(t, review.Comment, "blank comment stored as absent")
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := catalog.SubmitReview(ctx, 9999, user.ID, 4, "")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}
