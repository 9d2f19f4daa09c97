package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// ErrUnsupportedFormat возвращается, когда содержимое файла не совпадает
// с разрешёнными форматами. Тип определяется по сигнатуре, не по расширению.
var ErrUnsupportedFormat = errors.New("storage: неподдерживаемый формат файла")

// FileStorage — дисковое хранилище загружаемых файлов: изображения вакансий
// и резюме фрилансеров.
type FileStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewFileStorage создаёт хранилище и каталог под него.
func NewFileStorage(rootPath string, maxUploadMB int64) (*FileStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}
	return &FileStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// SaveImage сохраняет изображение (jpeg/png/webp) и возвращает
// относительный путь и формат.
func (s *FileStorage) SaveImage(ctx context.Context, ownerID uuid.UUID, r io.Reader) (string, string, error) {
	return s.save(ctx, ownerID, r, func(t types.Type) bool {
		switch t {
		case filetype.GetType("jpg"), filetype.GetType("png"), filetype.GetType("webp"):
			return true
		}
		return false
	})
}

// SaveDocument сохраняет документ резюме (pdf).
func (s *FileStorage) SaveDocument(ctx context.Context, ownerID uuid.UUID, r io.Reader) (string, string, error) {
	return s.save(ctx, ownerID, r, func(t types.Type) bool {
		return t == filetype.GetType("pdf")
	})
}

func (s *FileStorage) save(ctx context.Context, ownerID uuid.UUID, r io.Reader, allowed func(types.Type) bool) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	head := make([]byte, 261)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("storage: ошибка чтения файла: %w", err)
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown || !allowed(kind) {
		return "", "", ErrUnsupportedFormat
	}

	fileName := fmt.Sprintf("%s_%d.%s", ownerID.String(), time.Now().UnixNano(), kind.Extension)
	ownerDir := filepath.Join(s.rootPath, ownerID.String())
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return "", "", fmt.Errorf("storage: не удалось создать каталог: %w", err)
	}

	targetPath := filepath.Join(ownerDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", "", fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limited := io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), r), N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limited)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", "", fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return "", "", fmt.Errorf("storage: размер файла превышает лимит %d байт", s.maxUploadBytes)
	}

	if err := f.Close(); err != nil {
		return "", "", fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", "", fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return filepath.Join(ownerID.String(), fileName), kind.Extension, nil
}

// Remove удаляет файл из хранилища. Отсутствующий файл не считается ошибкой.
func (s *FileStorage) Remove(relativePath string) error {
	relativePath = strings.ReplaceAll(relativePath, "..", "")
	target := filepath.Join(s.rootPath, relativePath)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// Open открывает файл для отдачи клиенту.
func (s *FileStorage) Open(relativePath string) (*os.File, error) {
	relativePath = strings.ReplaceAll(relativePath, "..", "")
	f, err := os.Open(filepath.Join(s.rootPath, relativePath))
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось открыть файл: %w", err)
	}
	return f, nil
}
