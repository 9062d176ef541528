package covers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/nfnt/resize"
)

const thumbnailWidth uint = 200
const thumbnailHeight uint = 300

// Thumbnail resizes raw cover image data and re-encodes it as JPEG bytes,
// suitable for serving directly over HTTP.
func Thumbnail(imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var resizedImg image.Image
	if img.Bounds().Dy() > img.Bounds().Dx() {
		resizedImg = resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)
	} else {
		resizedImg = resize.Resize(0, thumbnailHeight, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	// Quality 75 is a good balance.
	if err := jpeg.Encode(&buf, resizedImg, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// ThumbnailDataURI resizes raw cover image data and returns it as a Base64
// JPEG data URI string.
func ThumbnailDataURI(imageData []byte) (string, error) {
	data, err := Thumbnail(imageData)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(data)), nil
}
