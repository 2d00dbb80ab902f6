package dataset

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
)

// openDecompressed opens filePath and transparently unpacks gzip, lz4, zstd,
// xz and zip inputs. It returns the reader together with the name of the
// unpacked payload, which decides how the payload is parsed.
func openDecompressed(filePath string) (io.ReadCloser, string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == ".zip" {
		return openZipArchive(filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", err
	}
	inner := strings.TrimSuffix(filePath, filepath.Ext(filePath))

	switch ext {
	case ".gz":
		gr, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &stackedCloser{Reader: gr, closers: []func() error{gr.Close, file.Close}}, inner, nil
	case ".lz4":
		return &stackedCloser{Reader: lz4.NewReader(file), closers: []func() error{file.Close}}, inner, nil
	case ".zst":
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, "", fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return &stackedCloser{Reader: dec, closers: []func() error{func() error { dec.Close(); return nil }, file.Close}}, inner, nil
	case ".xz":
		xr, err := xz.NewReader(file)
		if err != nil {
			file.Close()
			return nil, "", fmt.Errorf("failed to create xz reader: %w", err)
		}
		return &stackedCloser{Reader: xr, closers: []func() error{file.Close}}, inner, nil
	}
	return file, filePath, nil
}

// openZipArchive picks the largest file in the archive.
func openZipArchive(filePath string) (io.ReadCloser, string, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, "", err
	}

	var largestFile *zip.File
	var largestSize uint64
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largestFile == nil || f.UncompressedSize64 > largestSize {
			largestFile = f
			largestSize = f.UncompressedSize64
		}
	}
	if largestFile == nil {
		r.Close()
		return nil, "", fmt.Errorf("%w: zip archive %s has no files", ErrEmptyData, filePath)
	}

	rc, err := largestFile.Open()
	if err != nil {
		r.Close()
		return nil, "", err
	}
	return &stackedCloser{Reader: rc, closers: []func() error{rc.Close, r.Close}}, largestFile.Name, nil
}

type stackedCloser struct {
	io.Reader
	closers []func() error
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
