package forms

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	pb "github.com/cheggaaa/pb/v3"
)

// ErrNotImage is returned when the query file is not an image.
var ErrNotImage = errors.New("not an image")

// EncodeImage reads an image file and returns it in standard base64,
// without data URL prefix.
//
// When progress is not nil, a progress bar is written to it while reading.
func EncodeImage(path string, progress io.Writer) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}
	if stat.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotImage, path)
	}

	var r io.Reader = f
	if progress != nil {
		bar := pb.New64(stat.Size())
		bar.Set(pb.Bytes, true)
		bar.SetWriter(progress)
		if err := bar.Err(); err != nil {
			return "", err
		}
		bar.Start()
		defer bar.Finish()
		r = bar.NewProxyReader(f)
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return "", err
	}

	if ct := http.DetectContentType(buf.Bytes()); !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: %s (%s)", ErrNotImage, path, ct)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
