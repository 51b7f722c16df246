package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"skyhub/internal/config"
	"skyhub/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultImageUploadDir       = "/tmp/skyhub/uploads"
	DefaultImageMaxUploadSizeMB = 10
	ListingMaxSize              = 1280
	JPEGQuality                 = 82
	WebPQuality                 = 70

	// MediaPrefix is the public URL prefix the upload directory is served under.
	MediaPrefix = "/media"
)

// ProcessedImage describes the files written for one upload.
type ProcessedImage struct {
	Hash       string
	PublicPath string
	Width      int
	Height     int
}

// ImageProcessor normalizes uploaded listing photos into a JPEG and a WebP
// rendition stored under <uploadDir>/<hash>/.
type ImageProcessor struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageProcessor(cfg *config.Config) *ImageProcessor {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB
	if cfg != nil {
		if cfg.ImageUploadDir != "" {
			uploadDir = cfg.ImageUploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}
	return &ImageProcessor{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

func (p *ImageProcessor) UploadDir() string {
	return p.uploadDir
}

// Process validates, resizes and stores one image. ownerKey salts the content
// hash so identical photos on different listings do not share a directory.
func (p *ImageProcessor) Process(ownerKey string, content []byte, contentType string) (*ProcessedImage, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > p.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", p.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	sourceMime := decodedFormatToMime(format)
	if sourceMime == "" {
		return nil, models.NewValidationError("Unsupported image format")
	}
	if provided := normalizeContentType(contentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, sourceMime) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	resized := resizeToFit(decoded, ListingMaxSize, ListingMaxSize)

	jpgBytes, err := encodeJPEG(resized, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	webpBytes, err := encodeWebP(resized, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hash := contentHash(ownerKey, jpgBytes)
	jpgPath := filepath.Join(p.uploadDir, hash, "image.jpg")
	webpPath := filepath.Join(p.uploadDir, hash, "image.webp")

	if err := writeBytesToFile(jpgPath, jpgBytes); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpPath, webpBytes); err != nil {
		cleanupImageFiles([]string{jpgPath})
		return nil, models.NewInternalError(err)
	}

	b := resized.Bounds()
	return &ProcessedImage{
		Hash:       hash,
		PublicPath: fmt.Sprintf("%s/%s/image.jpg", MediaPrefix, hash),
		Width:      b.Dx(),
		Height:     b.Dy(),
	}, nil
}

// Remove deletes the files of a processed image.
func (p *ImageProcessor) Remove(hash string) {
	cleanupImageFiles([]string{
		filepath.Join(p.uploadDir, hash, "image.jpg"),
		filepath.Join(p.uploadDir, hash, "image.webp"),
	})
	_ = os.Remove(filepath.Join(p.uploadDir, hash))
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}
	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p, d := normalizeContentType(provided), normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	}
	return ""
}

func contentHash(ownerKey string, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s:", ownerKey)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func cleanupImageFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
