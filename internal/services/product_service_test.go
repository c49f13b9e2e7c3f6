package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"storefront/internal/logs"
	"storefront/internal/media"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// slowHost finishes uploads in reverse order of their delay so tests can
// check that URL order follows input order, not completion order.
type slowHost struct {
	mu      sync.Mutex
	delays  map[string]time.Duration
	fail    map[string]bool
	deleted []string
}

func (h *slowHost) Upload(ctx context.Context, file media.File, folder string) (*media.Upload, error) {
	select {
	case <-time.After(h.delays[file.Name]):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if h.fail[file.Name] {
		return nil, fmt.Errorf("upload %s rejected", file.Name)
	}
	return &media.Upload{FilePath: "/" + folder + "/" + file.Name}, nil
}

func (h *slowHost) URL(filePath string, t media.Transformation) string {
	return "https://cdn/tr:" + t.String() + filePath
}

func (h *slowHost) Delete(ctx context.Context, filePath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted = append(h.deleted, filePath)
	return nil
}

func images(names ...string) []media.File {
	files := make([]media.File, len(names))
	for i, n := range names {
		files[i] = media.File{Name: n, ContentType: "image/jpeg", Data: []byte(n)}
	}
	return files
}

func validProduct(imgs ...media.File) services.ProductInput {
	return services.ProductInput{
		Name:        "Desk Lamp",
		Description: "Warm light",
		MRP:         "49.99",
		Price:       "39.5",
		Category:    "home",
		StoreID:     "store-1",
		Images:      imgs,
	}
}

func TestProductService_Create_PreservesImageOrder(t *testing.T) {
	repo := new(MockProductRepository)
	host := &slowHost{delays: map[string]time.Duration{
		"a.jpg": 30 * time.Millisecond,
		"b.jpg": 10 * time.Millisecond,
		"c.jpg": 0,
	}}
	service := services.NewProductService(repo, host, new(MockSellerResolver), nil, logs.Discard())

	repo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.Create(ctx, validProduct(images("a.jpg", "b.jpg", "c.jpg")...))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn/tr:q-auto,f-webp,w-1024/products/a.jpg",
		"https://cdn/tr:q-auto,f-webp,w-1024/products/b.jpg",
		"https://cdn/tr:q-auto,f-webp,w-1024/products/c.jpg",
	}, product.Images)
	assert.Equal(t, 49.99, product.MRP)
	assert.Equal(t, 39.5, product.Price)
	assert.Equal(t, "store-1", product.StoreID)
	repo.AssertExpectations(t)
}

func TestProductService_Create_Validation(t *testing.T) {
	cases := map[string]func(*services.ProductInput){
		"no images":       func(in *services.ProductInput) { in.Images = nil },
		"empty image":     func(in *services.ProductInput) { in.Images = []media.File{{Name: "x.jpg"}} },
		"missing name":    func(in *services.ProductInput) { in.Name = "" },
		"missing desc":    func(in *services.ProductInput) { in.Description = "" },
		"missing cat":     func(in *services.ProductInput) { in.Category = "" },
		"missing store":   func(in *services.ProductInput) { in.StoreID = "" },
		"zero mrp":        func(in *services.ProductInput) { in.MRP = "0" },
		"zero price":      func(in *services.ProductInput) { in.Price = "0.00" },
		"negative price":  func(in *services.ProductInput) { in.Price = "-5" },
		"non-numeric mrp": func(in *services.ProductInput) { in.MRP = "ten" },
		"NaN price":       func(in *services.ProductInput) { in.Price = "NaN" },
		"Inf mrp":         func(in *services.ProductInput) { in.MRP = "+Inf" },
		"empty price":     func(in *services.ProductInput) { in.Price = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := new(MockProductRepository)
			host := new(MockHost)
			service := services.NewProductService(repo, host, new(MockSellerResolver), nil, logs.Discard())
			in := validProduct(images("a.jpg")...)
			mutate(&in)

			_, err := service.Create(ctx, in)

			assert.ErrorIs(t, err, services.ErrMissingProductDetails)
			host.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_Create_UploadFailureIsAllOrNothing(t *testing.T) {
	repo := new(MockProductRepository)
	host := &slowHost{
		delays: map[string]time.Duration{"b.jpg": 20 * time.Millisecond},
		fail:   map[string]bool{"b.jpg": true},
	}
	service := services.NewProductService(repo, host, new(MockSellerResolver), nil, logs.Discard())

	_, err := service.Create(ctx, validProduct(images("a.jpg", "b.jpg")...))

	assert.ErrorContains(t, err, "upload b.jpg rejected")
	assert.Equal(t, services.KindCollaborator, services.KindOf(err))
	assert.Equal(t, []string{"/products/a.jpg"}, host.deleted)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Create_WriteFailureDeletesImages(t *testing.T) {
	repo := new(MockProductRepository)
	host := &slowHost{}
	pub := new(MockPublisher)
	service := services.NewProductService(repo, host, new(MockSellerResolver), pub, logs.Discard())

	repo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("failed to create product")).Once()

	_, err := service.Create(ctx, validProduct(images("a.jpg", "b.jpg")...))

	assert.EqualError(t, err, "failed to create product")
	assert.ElementsMatch(t, []string{"/products/a.jpg", "/products/b.jpg"}, host.deleted)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestProductService_Create_PublishesEvent(t *testing.T) {
	repo := new(MockProductRepository)
	pub := new(MockPublisher)
	service := services.NewProductService(repo, &slowHost{}, new(MockSellerResolver), pub, logs.Discard())

	repo.On("Create", ctx, mock.Anything).Return(nil).Once()
	pub.On("Publish", services.EventProductCreated, mock.MatchedBy(func(body []byte) bool {
		return assert.Contains(t, string(body), `"storeId":"store-1"`)
	})).Return(nil).Once()

	_, err := service.Create(ctx, validProduct(images("a.jpg")...))

	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestProductService_ListForSeller(t *testing.T) {
	t.Run("authorized", func(t *testing.T) {
		repo := new(MockProductRepository)
		sellers := new(MockSellerResolver)
		service := services.NewProductService(repo, new(MockHost), sellers, nil, logs.Discard())

		expected := []models.Product{{ID: "p1", StoreID: "store-1", Name: "Lamp"}}
		sellers.On("AuthorizeSeller", ctx, "user-1").Return("store-1", nil).Once()
		repo.On("ListByStore", ctx, "store-1").Return(expected, nil).Once()

		products, err := service.ListForSeller(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, expected, products)
		repo.AssertExpectations(t)
	})

	t.Run("no authorized store", func(t *testing.T) {
		repo := new(MockProductRepository)
		sellers := new(MockSellerResolver)
		service := services.NewProductService(repo, new(MockHost), sellers, nil, logs.Discard())

		sellers.On("AuthorizeSeller", ctx, "user-2").Return("", nil).Once()

		_, err := service.ListForSeller(ctx, "user-2")

		assert.ErrorIs(t, err, services.ErrSellerNotAuthorized)
		assert.Equal(t, 401, services.HTTPStatus(err))
		repo.AssertNotCalled(t, "ListByStore", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure", func(t *testing.T) {
		repo := new(MockProductRepository)
		sellers := new(MockSellerResolver)
		service := services.NewProductService(repo, new(MockHost), sellers, nil, logs.Discard())

		sellers.On("AuthorizeSeller", ctx, "user-3").Return("", fmt.Errorf("timeout")).Once()

		_, err := service.ListForSeller(ctx, "user-3")

		assert.EqualError(t, err, "timeout")
		assert.Equal(t, 400, services.HTTPStatus(err))
		repo.AssertNotCalled(t, "ListByStore", mock.Anything, mock.Anything)
	})
}
