package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	platformmongo "github.com/Apurer/go-gin-storefront-api/internal/platform/mongo"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

var (
	_ ports.ImageStore  = (*GridFS)(nil)
	_ ports.ImageReader = (*GridFS)(nil)
)

const bucketName = "images"

// GridFS keeps uploads in the "images" bucket, keyed by file name.
type GridFS struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFS(db *mongo.Database, baseURL string) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, err
	}
	return &GridFS{bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (g *GridFS) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	if deadline, ok := ctx.Deadline(); ok {
		_ = g.bucket.SetWriteDeadline(deadline)
	}
	if _, err := g.bucket.UploadFromStream(key, body, opts); err != nil {
		return "", platformmongo.Translate(err, nil)
	}
	return PublicURL(g.baseURL, key), nil
}

// Open buffers the newest revision of key.
func (g *GridFS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = g.bucket.SetReadDeadline(deadline)
	}
	var buf bytes.Buffer
	if _, err := g.bucket.DownloadToStreamByName(key, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, failure.Wrap(failure.NotFound, err, "image not found")
		}
		return nil, platformmongo.Translate(err, nil)
	}
	return io.NopCloser(&buf), nil
}
