package ech0217

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/ucarion/c14n"
)

// AlgC14N identifies the canonicalisation applied before hashing.
const AlgC14N = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"

// Canonicalize returns the inclusive C14N form of data. The XML
// declaration is not part of the canonical form.
func Canonicalize(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("<?xml")) {
		if i := bytes.Index(data, []byte("?>")); i >= 0 {
			data = bytes.TrimSpace(data[i+2:])
		}
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("ech0217: canonicalize: %w", err)
	}
	return out, nil
}

// Digest is the base64 SHA-256 of the canonical form of data.
func Digest(data []byte) (string, error) {
	canon, err := Canonicalize(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}
