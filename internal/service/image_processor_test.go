package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skyhub/internal/config"
	"skyhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageProcessorResizesAndStores(t *testing.T) {
	dir := t.TempDir()
	p := NewImageProcessor(&config.Config{ImageUploadDir: dir, ImageMaxUploadSizeMB: 5})

	out, err := p.Process("drone:1", pngBytes(t, 2560, 640), "image/png")
	require.NoError(t, err)

	assert.Equal(t, ListingMaxSize, out.Width)
	assert.Equal(t, 320, out.Height)
	assert.True(t, strings.HasPrefix(out.PublicPath, "/media/"+out.Hash+"/"))
	assert.FileExists(t, filepath.Join(dir, out.Hash, "image.jpg"))
	assert.FileExists(t, filepath.Join(dir, out.Hash, "image.webp"))

	p.Remove(out.Hash)
	_, statErr := os.Stat(filepath.Join(dir, out.Hash))
	assert.True(t, os.IsNotExist(statErr))
}

func TestImageProcessorRejectsBadInput(t *testing.T) {
	p := NewImageProcessor(&config.Config{ImageUploadDir: t.TempDir(), ImageMaxUploadSizeMB: 1})

	_, err := p.Process("drone:1", nil, "")
	assertValidationError(t, err)

	_, err = p.Process("drone:1", []byte("plain text, not an image"), "image/png")
	assertValidationError(t, err)

	_, err = p.Process("drone:1", pngBytes(t, 16, 16), "image/jpeg")
	assertValidationError(t, err)

	_, err = p.Process("drone:1", make([]byte, 2*1024*1024), "image/png")
	assertValidationError(t, err)
}

func TestImageProcessorHashIsPerOwner(t *testing.T) {
	p := NewImageProcessor(&config.Config{ImageUploadDir: t.TempDir()})
	content := pngBytes(t, 32, 32)

	a, err := p.Process("drone:1", content, "")
	require.NoError(t, err)
	b, err := p.Process("drone:2", content, "")
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestDroneServiceUploadImage(t *testing.T) {
	repo := noopDroneRepo(4)
	var saved *models.Drone
	repo.updateFn = func(_ context.Context, d *models.Drone) error {
		saved = d
		return nil
	}
	images := NewImageProcessor(&config.Config{ImageUploadDir: t.TempDir()})
	svc := NewDroneService(repo, &reviewRepoStub{}, noopUserRepo(), images)
	ctx := context.Background()
	content := pngBytes(t, 64, 48)

	_, err := svc.UploadImage(ctx, UploadDroneImageInput{CallerID: 5, DroneID: 1, Content: content})
	assertCode(t, err, models.CodeForbidden)

	d, err := svc.UploadImage(ctx, UploadDroneImageInput{CallerID: 4, DroneID: 1, Content: content, ContentType: "image/png"})
	require.NoError(t, err)
	require.Len(t, d.Images, 1)
	assert.True(t, strings.HasSuffix(d.Images[0], "/image.jpg"))
	require.NotNil(t, saved)
	assert.Equal(t, d.Images, saved.Images)
}
