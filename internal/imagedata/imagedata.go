// Package imagedata converts uploaded image files into self-contained data URIs
// that can travel inside a JSON body, and back.
package imagedata

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
)

var (
	// ErrUnsupportedType is returned when the content is not a recognised image.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrNotDataURI is returned by Decode for strings that are not base64 data URIs.
	ErrNotDataURI = errors.New("not a base64 data URI")
)

// AllowedExtensions lists the file extensions accepted for upload.
var AllowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
}

// HasAllowedExtension reports whether filename ends in one of AllowedExtensions.
func HasAllowedExtension(filename string) bool {
	return AllowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Encoder builds data URIs. Images wider than MaxWidth are scaled down before
// encoding; a zero MaxWidth keeps the original bytes.
type Encoder struct {
	MaxWidth uint
}

// Encode sniffs the content type of data and returns it as a data URI.
func (e Encoder) Encode(data []byte) (string, error) {
	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}

	data, mime = e.shrink(data, mime)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// EncodeFile reads a local image file and encodes it.
func (e Encoder) EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return e.Encode(data)
}

// shrink scales jpeg and png images down to MaxWidth. Any decoding or encoding
// problem leaves the original bytes untouched.
func (e Encoder) shrink(data []byte, mime string) ([]byte, string) {
	if e.MaxWidth == 0 || (mime != "image/jpeg" && mime != "image/png") {
		return data, mime
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || uint(cfg.Width) <= e.MaxWidth {
		return data, mime
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, mime
	}
	img = resize.Resize(e.MaxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	case "image/png":
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return data, mime
	}
	return buf.Bytes(), mime
}

// Decode splits a base64 data URI into its raw bytes and media type.
func Decode(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrNotDataURI
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", ErrNotDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotDataURI, err)
	}
	if mime == "" {
		mime = mimetype.Detect(data).String()
	}
	return data, mime, nil
}

// Hash calculates the SHA256 hash of s, used as a cache key.
func Hash(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}
