package impl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink/internal/domain/entity"
	domainerrors "tradelink/internal/domain/errors"
	"tradelink/internal/store"
	"tradelink/internal/usecase"
)

func newCatalogServiceForTest(st *store.Store) *catalogService {
	return &catalogService{
		store:  st,
		logger: testLogger(),
		now:    func() time.Time { return testNow },
	}
}

func wholesalerViewer() usecase.Viewer {
	return usecase.Viewer{UserID: uuid.New(), Role: entity.RoleWholesaler}
}

func productInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:             "Jasmine rice 25kg",
		Price:            42.50,
		Stock:            120,
		MinOrderQuantity: 5,
		Category:         "staples",
		Available:        true,
	}
}

func promotionInput(productIDs ...uuid.UUID) usecase.PromotionInput {
	return usecase.PromotionInput{
		Title:      "Spring sale",
		Discount:   15,
		ValidFrom:  testNow,
		ValidTo:    testNow.Add(7 * 24 * time.Hour),
		ProductIDs: productIDs,
	}
}

func TestCatalogService_CreateProduct(t *testing.T) {
	st := seedStore(t)
	srv := newCatalogServiceForTest(st)
	viewer := wholesalerViewer()

	product, err := srv.CreateProduct(context.Background(), viewer, productInput())

	require.NoError(t, err)
	assert.Equal(t, viewer.UserID, product.WholesalerID)
	assert.Equal(t, testNow, product.CreatedAt)
	assert.Len(t, st.State().Products, 1)
}

func TestCatalogService_CreateProductValidation(t *testing.T) {
	srv := newCatalogServiceForTest(seedStore(t))
	viewer := wholesalerViewer()
	ctx := context.Background()

	_, err := srv.CreateProduct(ctx, usecase.Viewer{UserID: uuid.New(), Role: entity.RoleRetailer}, productInput())
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	bad := productInput()
	bad.Name = ""
	_, err = srv.CreateProduct(ctx, viewer, bad)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	bad = productInput()
	bad.Price = -1
	_, err = srv.CreateProduct(ctx, viewer, bad)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	bad = productInput()
	bad.MinOrderQuantity = 0
	_, err = srv.CreateProduct(ctx, viewer, bad)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCatalogService_CreateProductHonorsCatalogCap(t *testing.T) {
	limit := 1
	st := seedStore(t, store.UpdatePlatformSettings{
		Meta:  store.NewMeta(testNow),
		Patch: entity.PlatformSettingsPatch{MaxProductsPerWholesaler: &limit},
	})
	srv := newCatalogServiceForTest(st)
	viewer := wholesalerViewer()

	_, err := srv.CreateProduct(context.Background(), viewer, productInput())
	require.NoError(t, err)

	_, err = srv.CreateProduct(context.Background(), viewer, productInput())
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// Another wholesaler still has room.
	_, err = srv.CreateProduct(context.Background(), wholesalerViewer(), productInput())
	assert.NoError(t, err)
}

func TestCatalogService_UpdateProductPreservesIdentity(t *testing.T) {
	st := seedStore(t)
	srv := newCatalogServiceForTest(st)
	viewer := wholesalerViewer()

	created, err := srv.CreateProduct(context.Background(), viewer, productInput())
	require.NoError(t, err)

	edit := productInput()
	edit.Price = 39.90
	updated, err := srv.UpdateProduct(context.Background(), viewer, created.ID, edit)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.InDelta(t, 39.90, updated.Price, 0.001)

	_, err = srv.UpdateProduct(context.Background(), wholesalerViewer(), created.ID, edit)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden, "another wholesaler may not edit")

	_, err = srv.UpdateProduct(context.Background(), adminViewer(), created.ID, edit)
	assert.NoError(t, err, "admins may edit any product")
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	st := seedStore(t)
	srv := newCatalogServiceForTest(st)
	viewer := wholesalerViewer()

	created, err := srv.CreateProduct(context.Background(), viewer, productInput())
	require.NoError(t, err)

	assert.ErrorIs(t, srv.DeleteProduct(context.Background(), wholesalerViewer(), created.ID), domainerrors.ErrForbidden)
	require.NoError(t, srv.DeleteProduct(context.Background(), viewer, created.ID))
	assert.Empty(t, st.State().Products)

	assert.ErrorIs(t, srv.DeleteProduct(context.Background(), viewer, created.ID), domainerrors.ErrProductNotFound)
}

func TestCatalogService_SubmitPromotionPendingByDefault(t *testing.T) {
	st := seedStore(t)
	srv := newCatalogServiceForTest(st)
	viewer := wholesalerViewer()

	product, err := srv.CreateProduct(context.Background(), viewer, productInput())
	require.NoError(t, err)

	promotion, err := srv.SubmitPromotion(context.Background(), viewer, promotionInput(product.ID))

	require.NoError(t, err)
	assert.Equal(t, entity.PromotionStatusPending, promotion.Status)
	assert.False(t, promotion.Active)
}

func TestCatalogService_SubmitPromotionAutoApproval(t *testing.T) {
	auto := true
	st := seedStore(t, store.UpdatePlatformSettings{
		Meta:  store.NewMeta(testNow),
		Patch: entity.PlatformSettingsPatch{AutoApprovePromotions: &auto},
	})
	srv := newCatalogServiceForTest(st)

	promotion, err := srv.SubmitPromotion(context.Background(), wholesalerViewer(), promotionInput())

	require.NoError(t, err)
	assert.Equal(t, entity.PromotionStatusApproved, promotion.Status, "the caller observes the auto-approval")
	assert.True(t, promotion.Active)
}

func TestCatalogService_SubmitPromotionValidation(t *testing.T) {
	st := seedStore(t)
	srv := newCatalogServiceForTest(st)
	viewer := wholesalerViewer()
	ctx := context.Background()

	other, err := srv.CreateProduct(ctx, wholesalerViewer(), productInput())
	require.NoError(t, err)

	_, err = srv.SubmitPromotion(ctx, retailerViewer(), promotionInput())
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	bad := promotionInput()
	bad.Discount = 0
	_, err = srv.SubmitPromotion(ctx, viewer, bad)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	bad = promotionInput()
	bad.ValidTo = bad.ValidFrom
	_, err = srv.SubmitPromotion(ctx, viewer, bad)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = srv.SubmitPromotion(ctx, viewer, promotionInput(uuid.New()))
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	_, err = srv.SubmitPromotion(ctx, viewer, promotionInput(other.ID))
	assert.ErrorIs(t, err, domainerrors.ErrForbidden, "covered products must belong to the submitter")
}

func TestCatalogService_UpdatePromotionOnlyWhilePending(t *testing.T) {
	st := seedStore(t)
	srv := newCatalogServiceForTest(st)
	viewer := wholesalerViewer()

	promotion, err := srv.SubmitPromotion(context.Background(), viewer, promotionInput())
	require.NoError(t, err)

	edit := promotionInput()
	edit.Title = "Extended spring sale"
	updated, err := srv.UpdatePromotion(context.Background(), viewer, promotion.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Extended spring sale", updated.Title)

	st.Dispatch(store.ApprovePromotion{Meta: store.NewMeta(testNow), PromotionID: promotion.ID, ReviewedBy: uuid.New()})

	_, err = srv.UpdatePromotion(context.Background(), viewer, promotion.ID, edit)
	assert.ErrorIs(t, err, domainerrors.ErrConflict, "reviewed promotions are frozen for the wholesaler")

	_, err = srv.UpdatePromotion(context.Background(), adminViewer(), promotion.ID, edit)
	assert.NoError(t, err, "admins may still edit")
}

func TestCatalogService_ListPromotionsByRole(t *testing.T) {
	mine := uuid.New()
	promotions := []entity.Promotion{
		{ID: uuid.New(), WholesalerID: mine, Status: entity.PromotionStatusPending},
		{ID: uuid.New(), WholesalerID: mine, Status: entity.PromotionStatusApproved, Active: true},
		{ID: uuid.New(), WholesalerID: uuid.New(), Status: entity.PromotionStatusApproved, Active: true},
		{ID: uuid.New(), WholesalerID: uuid.New(), Status: entity.PromotionStatusRejected},
	}
	actions := make([]store.Action, 0, len(promotions))
	for _, p := range promotions {
		actions = append(actions, store.SyncUpsertPromotion{Meta: store.NewMeta(testNow), Promotion: p})
	}
	srv := newCatalogServiceForTest(seedStore(t, actions...))
	ctx := context.Background()

	assert.Len(t, srv.ListPromotions(ctx, adminViewer()), 4)
	assert.Len(t, srv.ListPromotions(ctx, supportViewer()), 4)
	assert.Len(t, srv.ListPromotions(ctx, usecase.Viewer{UserID: mine, Role: entity.RoleWholesaler}), 2)
	assert.Len(t, srv.ListPromotions(ctx, retailerViewer()), 2, "retailers only see live approved campaigns")
}
