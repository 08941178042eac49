package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Kariqs/storefront-api/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUploader struct {
	keys []string
	fail map[string]bool
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if u.fail[key] {
		return "", errors.New("bucket unavailable")
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	u.keys = append(u.keys, key)
	return "https://bucket.example.com/" + key, nil
}

func memFile(name string) ImageFile {
	return ImageFile{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("png"))), nil
		},
	}
}

func TestCreateProduct(t *testing.T) {
	catalog := NewCatalogService(memstore.New().Stores().Products, nil, zap.NewNop())
	ctx := context.Background()

	product, err := catalog.CreateProduct(ctx, CreateProductInput{Code: "TV01", Name: "TV", Category: "TVs", Price: dec("30000")})
	require.NoError(t, err)
	assert.Equal(t, "tvs", product.Category)
	assert.True(t, dec("30000").Equal(product.OriginalPrice))

	_, err = catalog.CreateProduct(ctx, CreateProductInput{Code: "TV01", Name: "TV", Category: "tvs", Price: dec("1")})
	requireKind(t, err, KindValidation)

	_, err = catalog.CreateProduct(ctx, CreateProductInput{Code: "X", Name: "X", Category: "toys", Price: dec("1")})
	requireKind(t, err, KindValidation)

	_, err = catalog.CreateProduct(ctx, CreateProductInput{Code: "Y", Name: "Y", Category: "tvs", Price: dec("1"), Discount: 120})
	requireKind(t, err, KindValidation)

	list, err := catalog.ListByCategory(ctx, "TVS")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = catalog.GetProduct(ctx, "nope")
	requireKind(t, err, KindNotFound)
}

func TestAddImagesKeepsSuccessfulUploads(t *testing.T) {
	uploader := &fakeUploader{fail: map[string]bool{"img/b.png": true}}
	catalog := NewCatalogService(memstore.New().Stores().Products, uploader, zap.NewNop())
	ctx := context.Background()
	_, err := catalog.CreateProduct(ctx, CreateProductInput{Code: "MOB1", Name: "Phone", Category: "mobiles", Price: dec("100")})
	require.NoError(t, err)

	product, failed, err := catalog.AddImages(ctx, "MOB1", []ImageFile{memFile("a.png"), memFile("b.png")},
		func(f ImageFile) string { return "img/" + f.Name })
	require.NoError(t, err)
	assert.Equal(t, []string{"b.png"}, failed)
	assert.Equal(t, []string{"https://bucket.example.com/img/a.png"}, []string(product.Images))

	_, _, err = catalog.AddImages(ctx, "MOB1", nil, nil)
	requireKind(t, err, KindValidation)
}

func TestAddImagesWithoutUploader(t *testing.T) {
	catalog := NewCatalogService(memstore.New().Stores().Products, nil, zap.NewNop())

	_, _, err := catalog.AddImages(context.Background(), "MOB1", []ImageFile{memFile("a.png")}, nil)
	requireKind(t, err, KindUnexpected)
}
