package export

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/taxdesk/internal/netx"
)

// PresignedSink uploads to a presigned object-storage URL, for buckets the
// client holds no credentials for.
type PresignedSink struct {
	URL    string
	Client *http.Client
}

// Put returns the URL without its query, so signatures are not echoed.
func (s PresignedSink) Put(ctx context.Context, body io.Reader, size int64) (string, error) {
	if err := netx.PutPresigned(ctx, s.Client, s.URL, body, size, ContentType); err != nil {
		return "", err
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return s.URL, nil
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
