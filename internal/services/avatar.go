package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// AvatarSize is the edge length of the square avatar, in pixels.
	AvatarSize = 250
	// MaxAvatarBytes caps the size of an uploaded avatar.
	MaxAvatarBytes = 5 << 20
)

// ErrUnsupportedImage is returned for uploads whose extension is not an image format we can encode.
var ErrUnsupportedImage = errors.New("unsupported image type")

var avatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// AvatarStore publishes a processed avatar file and returns its public URL.
// The store owns localPath afterwards and may move or delete it.
type AvatarStore interface {
	Save(ctx context.Context, localPath, name string) (string, error)
}

// AvatarService crops uploaded images to a square and hands them to an AvatarStore.
type AvatarService struct {
	tmpDir string
	store  AvatarStore
	now    func() time.Time
}

func NewAvatarService(tmpDir string, store AvatarStore) *AvatarService {
	return &AvatarService{tmpDir: tmpDir, store: store, now: time.Now}
}

// Process stages src in the temp dir, cover-crops it to AvatarSize and publishes it
// under a collision-resistant name.
func (s *AvatarService) Process(ctx context.Context, src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !avatarExtensions[ext] {
		return "", ErrUnsupportedImage
	}

	if err := os.MkdirAll(s.tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	staged, err := os.CreateTemp(s.tmpDir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	defer os.Remove(staged.Name())

	_, err = io.Copy(staged, src)
	if cerr := staged.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}

	img, err := imaging.Open(staged.Name())
	if err != nil {
		return "", fmt.Errorf("decode avatar: %w", err)
	}
	cropped := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	name := fmt.Sprintf("%d-%s%s", s.now().UnixNano(), uuid.NewString(), ext)
	out := filepath.Join(s.tmpDir, name)
	if err := imaging.Save(cropped, out); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}
	defer os.Remove(out)

	return s.store.Save(ctx, out, name)
}

// LocalAvatarStore keeps avatars on disk under dir, served at /avatars/.
type LocalAvatarStore struct {
	dir string
}

func NewLocalAvatarStore(dir string) *LocalAvatarStore {
	return &LocalAvatarStore{dir: dir}
}

func (s *LocalAvatarStore) Save(_ context.Context, localPath, name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create avatar dir: %w", err)
	}

	dst := filepath.Join(s.dir, name)
	if err := os.Rename(localPath, dst); err != nil {
		// temp and public dirs may live on different filesystems
		if err := copyFile(localPath, dst); err != nil {
			return "", fmt.Errorf("move avatar: %w", err)
		}
	}

	return path.Join("/avatars", filepath.ToSlash(name)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
