package ech0217

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"time"
)

// Package holds the transmission archive and the digest it carries.
type Package struct {
	Filename string // <base>.zip
	Digest   string
	Data     []byte
}

// BuildPackage zips the declaration XML together with a <base>.sha256 file
// holding its canonical digest.
func BuildPackage(xmlBytes []byte, base string) (*Package, error) {
	digest, err := Digest(xmlBytes)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct {
		name string
		data []byte
	}{
		{base + ".xml", xmlBytes},
		{base + ".sha256", []byte(AlgC14N + " sha256 " + digest + "\n")},
	}
	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("zip: create entry %s: %w", f.name, err)
		}
		if _, err := fw.Write(f.data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close archive: %w", err)
	}
	return &Package{Filename: base + ".zip", Digest: digest, Data: buf.Bytes()}, nil
}

var nonAlnum = regexp.MustCompile(`[^0-9A-Za-z]`)

// BaseFilename builds "CHE123456788_20250101_20250331" from the UID and
// the period.
func BaseFilename(uid string, start, end time.Time) string {
	id := nonAlnum.ReplaceAllString(uid, "")
	if id == "" {
		id = "declaration"
	}
	return fmt.Sprintf("%s_%s_%s", id, start.Format("20060102"), end.Format("20060102"))
}
