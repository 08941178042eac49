package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Kariqs/storefront-api/services"
	"github.com/gin-gonic/gin"
)

func CreateProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var input services.CreateProductInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}
		product, err := catalog.CreateProduct(ctx.Request.Context(), input)
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusCreated, "Product created successfully", product)
	}
}

func GetProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		product, err := catalog.GetProduct(ctx.Request.Context(), ctx.Param("code"))
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", product)
	}
}

func GetProductsByCategory(catalog *services.CatalogService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		products, err := catalog.ListByCategory(ctx.Request.Context(), ctx.Param("category"))
		if err != nil {
			respondWithError(ctx, err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, "", products)
	}
}

func imageFile(header *multipart.FileHeader) services.ImageFile {
	return services.ImageFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// UploadProductImages stores the multipart "images" files and appends their
// URLs to the product.
func UploadProductImages(catalog *services.CatalogService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		form, err := ctx.MultipartForm()
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid form data")
			return
		}

		code := ctx.Param("code")
		files := make([]services.ImageFile, 0, len(form.File["images"]))
		for _, header := range form.File["images"] {
			files = append(files, imageFile(header))
		}

		stamp := time.Now().Format("20060102150405")
		product, failed, err := catalog.AddImages(ctx.Request.Context(), code, files, func(f services.ImageFile) string {
			return fmt.Sprintf("products/%s/%s-%s", code, stamp, filepath.Base(f.Name))
		})
		if err != nil {
			respondWithError(ctx, err)
			return
		}

		message := "Images uploaded successfully"
		if len(failed) > 0 {
			message = fmt.Sprintf("%d of %d images failed to upload", len(failed), len(files))
		}
		sendJSONResponse(ctx, http.StatusOK, message, gin.H{"product": product, "failed": failed})
	}
}
