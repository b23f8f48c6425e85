package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

const cloudinaryFolder = "bookex/books"

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, errors.New("cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, "init cloudinary")
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !IsImageFilename(filename) {
		return "", errors.Errorf("unsupported image type %q", filepath.Ext(filename))
	}

	publicID := cloudinaryPublicID(uniqueName(filename))
	overwrite := false
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       cloudinaryFolder,
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	if res == nil {
		return "", errors.New("upload image: empty result")
	}

	if res.SecureURL != "" {
		return res.SecureURL, nil
	}
	return forceHTTPS(res.URL), nil
}

// 拡張子はCloudinary側で付くので落とす
func cloudinaryPublicID(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (s *CloudinaryStore) Delete(ctx context.Context, ref string) error {
	publicID := PublicIDFromURL(ref)
	if publicID == "" {
		return nil
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return errors.Wrap(err, "delete image")
	}
	return nil
}

// https://res.cloudinary.com/<cloud>/image/upload/v123/folder/name.jpg → folder/name
func PublicIDFromURL(url string) string {
	parts := strings.Split(url, "/")
	for i, part := range parts {
		if part != "upload" || i+1 >= len(parts) {
			continue
		}
		rest := parts[i+1:]
		// バージョン（v1234567890）は落とす
		if len(rest) > 1 && strings.HasPrefix(rest[0], "v") && isDigits(rest[0][1:]) {
			rest = rest[1:]
		}
		path := strings.Join(rest, "/")
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func forceHTTPS(in string) string {
	out := strings.TrimSpace(in)
	return strings.Replace(out, "http://", "https://", 1)
}
