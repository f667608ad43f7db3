package services

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestAvatarService_ProcessLocal(t *testing.T) {
	root := t.TempDir()
	publicDir := filepath.Join(root, "public", "avatars")
	svc := NewAvatarService(filepath.Join(root, "tmp"), NewLocalAvatarStore(publicDir))

	url, err := svc.Process(context.Background(), bytes.NewReader(pngBytes(t, 400, 300)), "me.PNG")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "/avatars/"), url)
	assert.NotContains(t, url, `\`)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	saved, err := imaging.Open(filepath.Join(publicDir, strings.TrimPrefix(url, "/avatars/")))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, saved.Bounds().Dx())
	assert.Equal(t, AvatarSize, saved.Bounds().Dy())

	// nothing is left behind in the staging dir
	leftovers, err := os.ReadDir(filepath.Join(root, "tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestAvatarService_UniqueNames(t *testing.T) {
	root := t.TempDir()
	svc := NewAvatarService(filepath.Join(root, "tmp"), NewLocalAvatarStore(filepath.Join(root, "avatars")))
	data := pngBytes(t, 10, 10)

	a, err := svc.Process(context.Background(), bytes.NewReader(data), "a.png")
	require.NoError(t, err)
	b, err := svc.Process(context.Background(), bytes.NewReader(data), "a.png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAvatarService_RejectsUnsupportedExtension(t *testing.T) {
	root := t.TempDir()
	svc := NewAvatarService(filepath.Join(root, "tmp"), NewLocalAvatarStore(filepath.Join(root, "avatars")))

	for _, name := range []string{"avatar.svg", "avatar", "avatar.exe"} {
		_, err := svc.Process(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), name)
		assert.ErrorIs(t, err, ErrUnsupportedImage, name)
	}
}

func TestAvatarService_UndecodableImage(t *testing.T) {
	root := t.TempDir()
	svc := NewAvatarService(filepath.Join(root, "tmp"), NewLocalAvatarStore(filepath.Join(root, "avatars")))

	_, err := svc.Process(context.Background(), strings.NewReader("not an image"), "avatar.jpg")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedImage)
}
