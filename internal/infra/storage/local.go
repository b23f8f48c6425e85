package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// UploadDir以下に保存し、/static/uploads/<name> を返す
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create upload dir")
	}
	return &LocalStore{dir: dir, urlPrefix: "/static/uploads/"}, nil
}

func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !IsImageFilename(filename) {
		return "", errors.Errorf("unsupported image type %q", filepath.Ext(filename))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uniqueName(filename)
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create image file")
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", errors.Wrap(err, "write image file")
	}
	// 書き込み失敗はCloseで初めて分かることがある
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", errors.Wrap(err, "close image file")
	}
	return s.urlPrefix + name, nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, s.urlPrefix) {
		// 自分が保存したものでなければ触らない
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(ref, s.urlPrefix))
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove image file")
	}
	return nil
}
