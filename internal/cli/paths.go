package cli

import (
	"io"
	"os"
)

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// nopCloser wraps a writer with a no-op Close so stdout survives the
// caller's deferred Close.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
