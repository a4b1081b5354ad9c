// Package storage 提供生成产物的本地文件存储
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "vision-narrator-api/pkg/errors"
)

// LocalStore 把产物写入本地目录，并按目录的相对路径生成公开 URL
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore 创建本地存储并确保目录存在
func NewLocalStore(dir string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, apperrors.New(apperrors.CodeStorageError, "output directory is empty")
	}
	clean := filepath.Clean(dir)
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "create output directory")
	}
	return &LocalStore{
		dir:       clean,
		urlPrefix: "/" + strings.TrimPrefix(path.Clean(filepath.ToSlash(clean)), "/"),
	}, nil
}

// Dir 输出目录
func (s *LocalStore) Dir() string {
	return s.dir
}

// URLPrefix 输出目录对应的 URL 前缀，如 /static/tts_audio
func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}

// URL 产物的公开地址
func (s *LocalStore) URL(name string) string {
	return s.urlPrefix + "/" + name
}

// Save 先写临时文件再重命名，写入失败不会留下同名的半成品
func (s *LocalStore) Save(ctx context.Context, name string, write func(io.Writer) error) (string, int64, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", 0, apperrors.New(apperrors.CodeStorageError, fmt.Sprintf("invalid artifact name %q", name))
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return "", 0, apperrors.Wrap(err, apperrors.CodeStorageError, "create temp file")
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	cw := &countingWriter{w: tmp}
	if err := write(cw); err != nil {
		cleanup()
		return "", 0, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", 0, apperrors.Wrap(err, apperrors.CodeStorageError, "close temp file")
	}

	final := filepath.Join(s.dir, name)
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return "", 0, apperrors.Wrap(err, apperrors.CodeStorageError, "move artifact into place")
	}
	return final, cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
