// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package release names and packages release binaries.
package release

import (
	"archive/tar"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Pick some arbitrary time to set all the time fields.
var arbitraryTime = time.Date(1985, time.October, 26, 8, 15, 0, 0, time.UTC)

// Target is a platform a release binary is built for.
type Target struct {
	GOOS   string
	GOARCH string
}

// HostTarget returns the target of the running binary.
func HostTarget() Target {
	return Target{GOOS: runtime.GOOS, GOARCH: runtime.GOARCH}
}

var triples = map[Target]string{
	{"linux", "amd64"}:   "x86_64-unknown-linux-gnu",
	{"linux", "arm64"}:   "aarch64-unknown-linux-gnu",
	{"darwin", "amd64"}:  "x86_64-apple-darwin",
	{"darwin", "arm64"}:  "aarch64-apple-darwin",
	{"windows", "amd64"}: "x86_64-pc-windows-msvc",
}

// Triple returns the target triple used in archive names.
func (t Target) Triple() string {
	if s, ok := triples[t]; ok {
		return s
	}
	return t.GOARCH + "-" + t.GOOS
}

// BinaryName returns the file name of bin on the target.
func (t Target) BinaryName(bin string) string {
	if t.GOOS == "windows" {
		return bin + ".exe"
	}
	return bin
}

// ArchiveName returns the release archive name, e.g.
// dump-env-v1.2.3-x86_64-unknown-linux-gnu.tar.gz.
func ArchiveName(bin, version string, t Target) string {
	return fmt.Sprintf("%s-%s-%s.tar.gz", bin, version, t.Triple())
}

// WriteArchive writes a gzipped tar holding a single executable named name
// with the size bytes read from src. Headers carry no host metadata so equal
// inputs produce equal archives.
func WriteArchive(dst io.Writer, name string, src io.Reader, size int64) error {
	gw := gzip.NewWriter(dst)
	tw := tar.NewWriter(gw)
	hdr := &tar.Header{
		Typeflag:   tar.TypeReg,
		Name:       name,
		Size:       size,
		Mode:       0755,
		ModTime:    arbitraryTime,
		AccessTime: arbitraryTime,
		Format:     tar.FormatPAX,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return errors.Wrap(err, "writing tar header")
	}
	if n, err := io.Copy(tw, src); err != nil {
		return errors.Wrap(err, "writing tar entry")
	} else if n != size {
		return errors.Errorf("short read: got %d of %d bytes", n, size)
	}
	if err := tw.Close(); err != nil {
		return errors.Wrap(err, "closing tar")
	}
	return errors.Wrap(gw.Close(), "closing gzip")
}
