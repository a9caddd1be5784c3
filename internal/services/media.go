package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	ThumbnailWidth        = 960
	ThumbnailHeight       = 339
	thumbnailQuality      = 82
	postsDir              = "posts"
	cacheDir              = "cache"
)

var (
	ErrUnsupportedImage = errors.New("upload a valid image: gif, png, jpeg or webp")
	ErrImageTooLarge    = errors.New("image is too large")
)

var allowedImageTypes = map[string]bool{
	"image/gif":  true,
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// Upload is an image received from a form, read fully into memory.
type Upload struct {
	Filename string
	Data     []byte
}

// StoredImage holds paths relative to the media root.
type StoredImage struct {
	Image     string
	Thumbnail string
}

// MediaService stores post images under root and renders list thumbnails.
type MediaService struct {
	root     string
	maxBytes int64
}

func NewMediaService(root string, maxBytes int64) *MediaService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &MediaService{root: root, maxBytes: maxBytes}
}

func (m *MediaService) Root() string {
	return m.root
}

// ReadUpload reads a multipart file, refusing anything over the size limit.
func (m *MediaService) ReadUpload(fh *multipart.FileHeader) (*Upload, error) {
	if fh.Size > m.maxBytes {
		return nil, ErrImageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, m.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > m.maxBytes {
		return nil, ErrImageTooLarge
	}
	return &Upload{Filename: fh.Filename, Data: data}, nil
}

// Save checks the upload's content type, writes it to posts/ and renders a
// thumbnail into cache/. A thumbnail failure leaves Thumbnail empty.
func (m *MediaService) Save(up *Upload) (*StoredImage, error) {
	if int64(len(up.Data)) > m.maxBytes {
		return nil, ErrImageTooLarge
	}
	mtype := mimetype.Detect(up.Data)
	if !allowedImageTypes[mtype.String()] {
		return nil, ErrUnsupportedImage
	}

	base := cleanBase(up.Filename)
	rel, err := m.writeUnique(postsDir, base, mtype.Extension(), up.Data)
	if err != nil {
		return nil, err
	}
	stored := &StoredImage{Image: rel}

	thumb, err := m.thumbnail(up.Data, base)
	if err != nil {
		log.Printf("thumbnail %s: %v", rel, err)
	} else {
		stored.Thumbnail = thumb
	}
	return stored, nil
}

func (m *MediaService) thumbnail(data []byte, base string) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	dst := resizeToFit(src, ThumbnailWidth, ThumbnailHeight)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	name := fmt.Sprintf("%s_%dx%d", base, ThumbnailWidth, ThumbnailHeight)
	return m.writeUnique(cacheDir, name, ".jpg", buf.Bytes())
}

// writeUnique creates dir/name+ext, adding a short random suffix when the
// name is already taken. It returns the slash-separated relative path.
func (m *MediaService) writeUnique(dir, name, ext string, data []byte) (string, error) {
	absDir := filepath.Join(m.root, dir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	filename := name + ext
	for attempt := 0; attempt < 5; attempt++ {
		f, err := os.OpenFile(filepath.Join(absDir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			filename = name + "_" + uuid.NewString()[:7] + ext
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", filename, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %w", filename, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", filename, err)
		}
		return dir + "/" + filename, nil
	}
	return "", fmt.Errorf("no free name for %s%s", name, ext)
}

// cleanBase keeps the client file name without extension, limited to
// characters safe in a URL path.
func cleanBase(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return uuid.NewString()[:8]
	}
	return b.String()
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
