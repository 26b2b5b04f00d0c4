package storage

import (
	"context"
	"io"
	"strings"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// ResultsKey is the object key of a published results sheet.
func ResultsKey(tournamentID, eventID, ext string) string {
	return "results/" + tournamentID + "/" + eventID + "." + strings.TrimPrefix(ext, ".")
}
