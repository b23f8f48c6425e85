// Package storage は本の表紙画像の保存先を扱う。
// ローカルディスクとCloudinaryの2実装があり、CLOUDINARY_URLで切り替える。
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 画像の保存・削除
type ImageStore interface {
	// 保存して参照（URLまたは/static/...のパス）を返す
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// 参照で削除。存在しなくてもエラーにしない
	Delete(ctx context.Context, ref string) error
}

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// 拡張子が画像かどうか
func IsImageFilename(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// 衝突しない保存名（元の拡張子は残す）
func uniqueName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString() + ext
}
