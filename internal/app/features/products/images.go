// internal/app/features/products/images.go
package products

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/storeadmin/internal/app/system/apiresp"
	"github.com/dalemusser/storeadmin/internal/app/system/imagestore"
	"github.com/dalemusser/storeadmin/internal/app/system/limits"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// ServeUploadImage handles POST /api/products/{id}/images.
//
// The multipart field "image" must hold an image no larger than 5 MiB. The
// file goes to the image store and its URL is appended to productImages.
func (h *Handler) ServeUploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxImageUpload+limits.MultipartOverhead)
	if err := r.ParseMultipartForm(limits.MaxImageUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			apiresp.Error(w, http.StatusRequestEntityTooLarge, "image exceeds 5 MiB")
			return
		}
		apiresp.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile("image")
	if err != nil {
		apiresp.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	if hdr.Size > limits.MaxImageUpload {
		apiresp.Error(w, http.StatusRequestEntityTooLarge, "image exceeds 5 MiB")
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		apiresp.Error(w, http.StatusBadRequest, "unreadable image file")
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		apiresp.Error(w, http.StatusUnsupportedMediaType, "file is not an image")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Products.GetByID(ctx, id); err != nil {
		h.storeError(w, r, "load product for image", err)
		return
	}

	key := imagestore.Key(id.Hex(), hdr.Filename, time.Now().UTC())
	body := io.MultiReader(bytes.NewReader(head), file)
	url, err := imagestore.Put(ctx, h.Images, key, body, contentType)
	if err != nil {
		apiresp.ServerError(w, r, h.Log, "store product image", err)
		return
	}

	if err := h.Products.AddImage(ctx, id, url); err != nil {
		if delErr := h.Images.Delete(ctx, key); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			h.Log.Warn("orphaned product image", zap.String("key", key), zap.Error(delErr))
		}
		h.storeError(w, r, "record product image", err)
		return
	}

	h.Log.Info("product image stored",
		zap.String("product_id", id.Hex()),
		zap.String("key", key),
		zap.Int64("size", hdr.Size))
	apiresp.JSON(w, http.StatusCreated, map[string]string{"url": url})
}
