package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LogoURLPrefix is the public path under which stored logos are served.
const LogoURLPrefix = "/uploads/logos/"

var allowedLogoExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
}

var ErrUnsupportedType = errors.New("logo must be a png, jpg, gif, svg or webp image")

// LocalStore keeps company logos on the local filesystem under
// <root>/logos and hands out paths of the form /uploads/logos/<file>.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "logos"), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Root is the directory served at /uploads.
func (s *LocalStore) Root() string { return s.root }

// SaveLogo writes the uploaded file under a fresh random name and returns its
// public path. An existing file is never overwritten.
func (s *LocalStore) SaveLogo(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedLogoExt[ext] {
		return "", ErrUnsupportedType
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return s.writeLogo(src, ext)
}

// writeLogo copies src into a new file. A partially written file is removed.
func (s *LocalStore) writeLogo(src io.Reader, ext string) (publicPath string, err error) {
	name := uuid.NewString() + ext
	full := filepath.Join(s.root, "logos", name)
	dst, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create logo file: %w", err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close logo file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(full)
			publicPath = ""
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write logo file: %w", err)
	}
	return LogoURLPrefix + name, nil
}

// Remove deletes a file previously returned by SaveLogo. Missing files and
// paths outside the logo directory are ignored.
func (s *LocalStore) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, LogoURLPrefix) {
		return nil
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, "logos", name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
