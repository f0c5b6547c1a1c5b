// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/gfxcore/diagfs/lib/codec"
)

// Archive file layout: magic, format version, BLAKE3 digest of the
// compressed payload, then the zstd-compressed CBOR payload.
const (
	fileMagic     = "diagsnap"
	formatVersion = 1
	digestSize    = 32
)

// ErrDigestMismatch reports that an archive's payload does not match
// its recorded digest.
var ErrDigestMismatch = errors.New("archive digest mismatch")

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. Both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

// Write encodes the archive to w.
func Write(w io.Writer, archive *Archive) error {
	encoded, err := codec.Marshal(archive)
	if err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}
	payload := zstdEncoder.EncodeAll(encoded, nil)
	digest := blake3.Sum256(payload)

	header := make([]byte, 0, len(fileMagic)+1+digestSize)
	header = append(header, fileMagic...)
	header = append(header, formatVersion)
	header = append(header, digest[:]...)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing archive header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("writing archive payload: %w", err)
	}
	return nil
}

// Read decodes an archive from r, verifying the payload digest before
// decoding a single payload byte.
func Read(r io.Reader) (*Archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	headerSize := len(fileMagic) + 1 + digestSize
	if len(data) < headerSize {
		return nil, fmt.Errorf("archive truncated: %d bytes", len(data))
	}
	if !bytes.Equal(data[:len(fileMagic)], []byte(fileMagic)) {
		return nil, fmt.Errorf("not a snapshot archive: bad magic")
	}
	if version := data[len(fileMagic)]; version != formatVersion {
		return nil, fmt.Errorf("unsupported archive format version %d", version)
	}

	recorded := data[len(fileMagic)+1 : headerSize]
	payload := data[headerSize:]

	digest := blake3.Sum256(payload)
	if !bytes.Equal(digest[:], recorded) {
		return nil, ErrDigestMismatch
	}

	encoded, err := zstdDecoder.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing archive payload: %w", err)
	}

	archive := &Archive{}
	if err := codec.Unmarshal(encoded, archive); err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	return archive, nil
}

// WriteFile writes the archive to path atomically: the content lands
// under a temporary name and is renamed into place.
func WriteFile(path string, archive *Archive) error {
	temp, err := os.CreateTemp(filepath.Dir(path), ".diagsnap-*")
	if err != nil {
		return fmt.Errorf("creating archive temp file: %w", err)
	}
	tempName := temp.Name()

	if err := Write(temp, archive); err != nil {
		temp.Close()
		os.Remove(tempName)
		return err
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("closing archive temp file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("renaming archive into place: %w", err)
	}
	return nil
}

// Verify checks the archive's digest and decodability without keeping
// the decoded archive.
func Verify(r io.Reader) error {
	_, err := Read(r)
	return err
}

// ReadFile reads and verifies the archive at path.
func ReadFile(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer file.Close()
	return Read(file)
}
