// URL payload decoding for the GET sync endpoint (§6 "URL payload
// encoding"): base64 then raw DEFLATE, no zlib/gzip wrapper. No
// third-party DEFLATE codec appears anywhere in the pack, so this one
// concern stays on compress/flate.
package lint

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"io"

	"linthub.app/pkg/models"
)

const maxInflatedSize = 10 << 20 // mirrors the workspace policy's MaxFileSize

// decodeURLPayload reverses base64 -> raw DEFLATE -> UTF-8 text,
// mapping any failure to INVALID_CONTENT_ENCODING (§6).
func decodeURLPayload(encoded string) ([]byte, error) {
	compressed, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(encoded)
	if err != nil {
		compressed, err = base64.StdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, models.NewAPIError(models.ErrInvalidContentEncode, "malformed base64 payload", err)
	}

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxInflatedSize+1))
	if err != nil {
		return nil, models.NewAPIError(models.ErrInvalidContentEncode, "malformed DEFLATE payload", err)
	}
	if len(data) > maxInflatedSize {
		return nil, models.NewAPIError(models.ErrContentTooLarge, "decoded payload exceeds max size", nil)
	}
	return data, nil
}
