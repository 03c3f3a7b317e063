// Package attachments turns user-selected image files into the bounded,
// inline-encoded representation stored on an entry.
package attachments

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/harshal4412/ephemeral/internal/client/models"
)

var (
	// ErrTooMany rejects a whole batch that would push an entry past
	// models.MaxAttachments. No partial acceptance.
	ErrTooMany = errors.New("attachment limit exceeded")

	// ErrNotImage marks a selected file whose content is not an image.
	ErrNotImage = errors.New("not an image")
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

type encoded struct {
	att models.Attachment
	err error
}

// Encode validates capacity for the batch and converts each file into a
// self-contained "data:<mime>;base64,..." attachment.
//
// Files are encoded independently and collected as each finishes, so the
// returned order reflects completion order, not selection order. That
// nondeterminism is part of the contract; callers that need a stable order
// must sort themselves. Any single failure fails the whole batch.
func Encode(ctx context.Context, current int, paths []string) ([]models.Attachment, error) {
	if current+len(paths) > models.MaxAttachments {
		return nil, fmt.Errorf("%w: %d stored + %d selected > %d",
			ErrTooMany, current, len(paths), models.MaxAttachments)
	}
	if len(paths) == 0 {
		return nil, nil
	}

	results := make(chan encoded, len(paths))
	for _, p := range paths {
		go func(path string) {
			att, err := encodeFile(path)
			results <- encoded{att: att, err: err}
		}(p)
	}

	out := make([]models.Attachment, 0, len(paths))
	for range paths {
		select {
		case r := <-results:
			if r.err != nil {
				return nil, r.err
			}
			out = append(out, r.att)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}

func encodeFile(path string) (models.Attachment, error) {
	b, err := readFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	mime := http.DetectContentType(b)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s detected as %s", ErrNotImage, path, mime)
	}

	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(mime)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(b))
	return models.Attachment(sb.String()), nil
}
