package upload

import (
	"JapaneseShikhi/internal/app_errors"
	"JapaneseShikhi/pkg/logger"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	pdfBytes = []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	elfBytes = append([]byte("\x7fELF\x02\x01\x01\x00"), make([]byte, 64)...)
)

type storedObject struct {
	folder      string
	filename    string
	body        []byte
	contentType string
}

type fakeStorage struct {
	objects []storedObject
}

func (s *fakeStorage) Put(_ context.Context, folder, filename string, reader io.Reader, _ int64, contentType string) (string, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.objects = append(s.objects, storedObject{folder: folder, filename: filename, body: body, contentType: contentType})
	return folder + "/2026/10/" + filename, nil
}

func (s *fakeStorage) PresignedURL(_ context.Context, objectKey string) (string, error) {
	return "https://minio.local/bucket/" + objectKey + "?X-Amz-Signature=abc", nil
}

func newService() (*UploadService, *fakeStorage) {
	storage := &fakeStorage{}
	return NewUploadService(logger.Discard(), storage, "/v1/files/"), storage
}

func TestUpload_StoresWholeFile(t *testing.T) {
	svc, storage := newService()

	file, err := svc.Upload(context.Background(), KindScreenshot, "bkash receipt.png", bytes.NewReader(pngBytes), int64(len(pngBytes)))
	require.NoError(t, err)

	assert.Equal(t, "/v1/files/screenshots/2026/10/bkash receipt.png", file.URL)
	assert.Equal(t, "image/png", file.Type)
	require.Len(t, storage.objects, 1)
	assert.Equal(t, pngBytes, storage.objects[0].body)
	assert.Equal(t, "screenshots", storage.objects[0].folder)
}

func TestUpload_Validation(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		body    []byte
		size    int64
		wantErr error
	}{
		{name: "pdf attachment", kind: KindAttachment, body: pdfBytes},
		{name: "png attachment", kind: KindAttachment, body: pngBytes},
		{name: "pdf screenshot", kind: KindScreenshot, body: pdfBytes, wantErr: app_errors.ErrFileType},
		{name: "executable", kind: KindAttachment, body: elfBytes, wantErr: app_errors.ErrFileType},
		{name: "too large", kind: KindAttachment, body: pdfBytes, size: MaxFileSize + 1, wantErr: app_errors.ErrFileSize},
		{name: "empty", kind: KindAttachment, body: nil, wantErr: app_errors.ErrValidation},
		{name: "unknown kind", kind: "avatars", body: pngBytes, wantErr: app_errors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, storage := newService()
			size := tt.size
			if size == 0 {
				size = int64(len(tt.body))
			}
			_, err := svc.Upload(context.Background(), tt.kind, "file", bytes.NewReader(tt.body), size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, storage.objects)
				return
			}
			require.NoError(t, err)
			assert.Len(t, storage.objects, 1)
		})
	}
}

func TestUpload_FileNames(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{filename: "../../etc/passwd.png", want: "passwd.png"},
		{filename: "receipt", want: "receipt.png"},
		{filename: "", want: "file.png"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			svc, _ := newService()
			file, err := svc.Upload(context.Background(), KindScreenshot, tt.filename, bytes.NewReader(pngBytes), int64(len(pngBytes)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, file.Name)
		})
	}
}

func TestFileURL(t *testing.T) {
	svc, _ := newService()

	url, err := svc.FileURL(context.Background(), "/screenshots/2026/10/a.png")
	require.NoError(t, err)
	assert.Contains(t, url, "screenshots/2026/10/a.png")

	for _, key := range []string{"attachments/../secrets/a", "logos/a.png", ""} {
		_, err := svc.FileURL(context.Background(), key)
		assert.ErrorIs(t, err, app_errors.ErrNotFound, key)
	}
}
