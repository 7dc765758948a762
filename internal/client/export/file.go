package export

import (
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/taxdesk/internal/filex"
)

// FileSink writes to a local path. "-" means Out, or stdout when Out is nil.
type FileSink struct {
	Path string
	Out  io.Writer
}

func (s FileSink) Put(ctx context.Context, body io.Reader, size int64) (string, error) {
	if s.Path == "-" || s.Path == "" {
		out := s.Out
		if out == nil {
			out = os.Stdout
		}
		if _, err := io.Copy(out, body); err != nil {
			return "", err
		}
		return "stdout", nil
	}

	if err := filex.WriteFile(s.Path, body); err != nil {
		return "", err
	}
	return s.Path, nil
}
