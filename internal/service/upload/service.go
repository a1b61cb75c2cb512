package upload

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/pkg/logger"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxFileSize = 50 << 20
	sniffLen    = 3072
)

type Kind string

const (
	KindAttachment Kind = "attachments"
	KindScreenshot Kind = "screenshots"
)

var imageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

var allowedTypes = map[Kind][]string{
	KindScreenshot: imageTypes,
	KindAttachment: append([]string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"video/mp4",
		"video/webm",
		"audio/mpeg",
		"audio/wav",
		"audio/ogg",
		"text/plain",
	}, imageTypes...),
}

type objectStorage interface {
	Put(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (objectKey string, err error)
	PresignedURL(ctx context.Context, objectKey string) (string, error)
}

type UploadService struct {
	log       logger.Log
	storage   objectStorage
	urlPrefix string
}

// NewUploadService returns a service whose stored files are addressed as
// urlPrefix/<object key>.
func NewUploadService(log logger.Log, storage objectStorage, urlPrefix string) *UploadService {
	return &UploadService{
		log:       log,
		storage:   storage,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

// File is the attachment triple stored in curricula and enrollment requests.
type File struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Upload checks the size and the sniffed content type against the allow
// list of kind, then stores the file.
func (s *UploadService) Upload(ctx context.Context, kind Kind, filename string, reader io.Reader, size int64) (*File, error) {
	allowed, ok := allowedTypes[kind]
	if !ok {
		return nil, app_errors.Validation("unknown upload kind %q", kind)
	}
	if size <= 0 {
		return nil, app_errors.Validation("file is empty")
	}
	if size > MaxFileSize {
		return nil, fmt.Errorf("%w: limit is %d MB", app_errors.ErrFileSize, MaxFileSize>>20)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	mtype := mimetype.Detect(head)
	if allowedMatch(mtype, allowed) == "" {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrFileType, mtype.String())
	}

	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == "/" || name == "" {
		name = "file" + mtype.Extension()
	}
	if filepath.Ext(name) == "" {
		name += mtype.Extension()
	}
	contentType := baseType(mtype.String())

	body := io.MultiReader(bytes.NewReader(head), reader)
	key, err := s.storage.Put(ctx, string(kind), name, body, size, contentType)
	if err != nil {
		s.log.ErrorErr("failed to upload file to storage", err, "kind", string(kind))
		return nil, err
	}
	return &File{
		URL:  s.urlPrefix + "/" + key,
		Name: name,
		Type: contentType,
	}, nil
}

// FileURL resolves an object key to a short-lived download URL.
func (s *UploadService) FileURL(ctx context.Context, objectKey string) (string, error) {
	objectKey = strings.TrimPrefix(objectKey, "/")
	if strings.Contains(objectKey, "..") || !knownFolder(objectKey) {
		return "", fmt.Errorf("file %w", app_errors.ErrNotFound)
	}
	return s.storage.PresignedURL(ctx, objectKey)
}

// allowedMatch returns the allow-list entry mtype matches, or "" when none
// does.
func allowedMatch(mtype *mimetype.MIME, allowed []string) string {
	for _, a := range allowed {
		if mtype.Is(a) {
			return a
		}
	}
	return ""
}

func knownFolder(objectKey string) bool {
	for kind := range allowedTypes {
		if strings.HasPrefix(objectKey, string(kind)+"/") {
			return true
		}
	}
	return false
}

func baseType(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		return strings.TrimSpace(t[:i])
	}
	return t
}
