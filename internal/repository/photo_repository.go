package repository

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PhotoRepository keeps listing photos in a GridFS bucket.
type PhotoRepository struct {
	DB *mongo.Database
}

func NewPhotoRepository(client *mongo.Client, dbName string) *PhotoRepository {
	return &PhotoRepository{DB: client.Database(dbName)}
}

// UploadPhoto stores the stream under filename and returns the hex file id.
func (r *PhotoRepository) UploadPhoto(ctx context.Context, src io.Reader, filename, contentType string) (string, error) {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return "", fmt.Errorf("PhotoRepository.UploadPhoto bucket: %w", err)
	}

	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	stream, err := bucket.OpenUploadStream(filename, opts)
	if err != nil {
		return "", fmt.Errorf("PhotoRepository.UploadPhoto open: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetWriteDeadline(deadline)
	}
	if _, err := io.Copy(stream, src); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("PhotoRepository.UploadPhoto copy: %w", err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("PhotoRepository.UploadPhoto close: %w", err)
	}

	id, ok := stream.FileID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("PhotoRepository.UploadPhoto: unexpected file id type %T", stream.FileID)
	}
	return id.Hex(), nil
}

// DownloadPhoto returns the photo bytes and the content type recorded at upload.
func (r *PhotoRepository) DownloadPhoto(ctx context.Context, photoID string) ([]byte, string, error) {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.DownloadPhoto bucket: %w", err)
	}

	objID, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.DownloadPhoto id: %w", err)
	}

	stream, err := bucket.OpenDownloadStream(objID)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("PhotoRepository.DownloadPhoto open: %w", err)
	}
	defer stream.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.DownloadPhoto read: %w", err)
	}

	contentType := "image/jpeg"
	if meta := stream.GetFile().Metadata; meta != nil {
		if v, err := meta.LookupErr("contentType"); err == nil {
			if s, ok := v.StringValueOK(); ok && s != "" {
				contentType = s
			}
		}
	}
	return data, contentType, nil
}
