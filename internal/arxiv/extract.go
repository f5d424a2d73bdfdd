package arxiv

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxExtractedFileSize caps each file written from a source archive.
const MaxExtractedFileSize = 100 * 1024 * 1024

// SingleFileName is used when an e-print is one gzipped TeX file rather than a tarball.
const SingleFileName = "main.tex"

// ExtractSource unpacks an e-print archive into dir. arXiv serves either a
// gzipped tarball, a plain tarball or a single gzipped file.
func ExtractSource(archive, dir string) error {
	f, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("opening source archive: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating source directory: %w", err)
	}

	var br *bufio.Reader
	if gzr, err := gzip.NewReader(bufio.NewReader(f)); err == nil {
		defer gzr.Close()
		br = bufio.NewReader(gzr)
	} else {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewinding source archive: %w", err)
		}
		br = bufio.NewReader(f)
	}

	if isTar(br) {
		return untar(br, dir)
	}
	return writeLimited(filepath.Join(dir, SingleFileName), br)
}

// isTar checks for the "ustar" magic at offset 257 without consuming input.
func isTar(br *bufio.Reader) bool {
	head, err := br.Peek(262)
	if err != nil {
		return false
	}
	return strings.HasPrefix(string(head[257:262]), "ustar")
}

func untar(r io.Reader, dir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return fmt.Errorf("reading source archive: %w", err)
		}

		target, ok := safeJoin(dir, hdr.Name)
		if !ok {
			continue
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := writeLimited(target, tr); err != nil {
				return err
			}
		}
	}
}

// safeJoin joins name under dir, rejecting names that escape it.
func safeJoin(dir, name string) (string, bool) {
	name = filepath.Clean(filepath.FromSlash(name))
	if name == "." || filepath.IsAbs(name) || name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(dir, name), true
}

func writeLimited(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.CopyN(out, r, MaxExtractedFileSize); err != nil && !errors.Is(err, io.EOF) {
		out.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return out.Close()
}
