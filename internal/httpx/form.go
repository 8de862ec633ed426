package httpx

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/pkg/storage"
)

const (
	maxFormBytes   = 64 << 20
	maxMemoryBytes = 16 << 20
)

// DecodeForm reads either a JSON body or a multipart form. In the multipart
// case the JSON lives in jsonField and every file field is returned keyed by
// its field name. The returned func releases the files and must be called.
func DecodeForm(w http.ResponseWriter, r *http.Request, jsonField string, dst interface{}) (map[string]storage.Object, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return nil, noop, Decode(r, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		return nil, noop, invalidBody(err)
	}
	form := r.MultipartForm

	var files []io.Closer
	release := func() {
		for _, f := range files {
			f.Close()
		}
		form.RemoveAll()
	}

	fields := form.Value[jsonField]
	if len(fields) == 0 {
		release()
		return nil, noop, apperr.ErrInvalidBody
	}
	if err := DecodeJSON(strings.NewReader(fields[0]), dst); err != nil {
		release()
		return nil, noop, err
	}

	uploads := make(map[string]storage.Object, len(form.File))
	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			release()
			return nil, noop, invalidBody(err)
		}
		files = append(files, f)
		uploads[field] = storage.Object{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}
	}
	return uploads, release, nil
}

func invalidBody(err error) error {
	return &apperr.Error{Kind: apperr.ErrValidation, MessageID: apperr.ErrInvalidBody.MessageID, Err: err}
}
