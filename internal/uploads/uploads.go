package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Limits for post attachments.
const (
	MaxFileSize     = 10 << 20 // 10MB per file
	MaxFilesPerPost = 5
)

// Sentinel errors returned by SaveAll; handlers map them to 400.
var (
	ErrFileTooLarge    = errors.New("file exceeds the 10MB limit")
	ErrUnsupportedType = errors.New("invalid file type, only images and PDFs are allowed")
	ErrTooManyFiles    = errors.New("too many attachments")
)

// allowedTypes maps accepted MIME types to on-disk extensions. Types
// are detected from content, not trusted from the request.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// Saver writes uploaded attachments to a local directory under
// generated names. The generated filename is what gets stored on the
// post and later served from /uploads.
type Saver struct {
	dir string
}

// NewSaver ensures the upload directory exists and returns a Saver for it.
func NewSaver(dir string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Saver{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *Saver) Dir() string {
	return s.dir
}

// SaveAll stores every uploaded file and returns the generated
// filenames in upload order. On any failure the files written so far
// are removed.
func (s *Saver) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	if len(files) > MaxFilesPerPost {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyFiles, len(files), MaxFilesPerPost)
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.save(fh)
		if err != nil {
			s.Remove(names)
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Remove deletes previously saved attachments, ignoring missing files.
func (s *Saver) Remove(names []string) {
	for _, name := range names {
		os.Remove(filepath.Join(s.dir, name))
	}
}

func (s *Saver) save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", fmt.Errorf("%w: %s", ErrFileTooLarge, fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Sniff the real content type from the first bytes.
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	head = head[:n]

	ext, ok := allowedTypes[http.DetectContentType(head)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, fh.Filename)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}
