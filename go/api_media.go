package storefrontserver

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-gin-storefront-api/internal/shared/errors"
)

// MediaAPI serves uploaded product images from stores that keep their own
// bytes (GridFS, local disk).
type MediaAPI struct {
	images catalogports.ImageReader
}

// NewMediaAPI creates a MediaAPI. A nil reader answers every request with 404.
func NewMediaAPI(images catalogports.ImageReader) MediaAPI {
	return MediaAPI{images: images}
}

// Get /media/*path
func (api *MediaAPI) GetMedia(c *gin.Context) {
	key := strings.TrimPrefix(path.Clean(c.Param("path")), "/")
	if api.images == nil || key == "" || key == "." || strings.HasPrefix(key, "..") {
		respondProblem(c, apierrors.NewNotFoundProblem("media", key))
		return
	}
	body, err := api.images.Open(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}
