// Package cohort resolves facet states into person-ID sets and carries
// them through the cache as compact opaque tokens.
package cohort

import (
	"bytes"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/zlib"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

// Wire layout: one version byte, one flag byte, then for enumerated
// cohorts the zlib-compressed roaring serialization. The whole-archive
// cohort is carried as a flag so it survives re-ingestion unchanged.
const (
	codecVersion byte = 1

	flagEveryone byte = 1 << 0
)

// Encode serializes a cohort into its opaque token form.
func Encode(c entities.Cohort) ([]byte, error) {
	if c.MatchesAll() {
		return []byte{codecVersion, flagEveryone}, nil
	}

	var buf bytes.Buffer
	buf.WriteByte(codecVersion)
	buf.WriteByte(0)

	zw := zlib.NewWriter(&buf)
	if _, err := c.Bitmap().WriteTo(zw); err != nil {
		return nil, apperrors.NewInternalError("failed to serialize cohort", err)
	}
	if err := zw.Close(); err != nil {
		return nil, apperrors.NewInternalError("failed to compress cohort", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a token produced by Encode. Any malformed input is a
// DECODE error; a bad token never widens into the whole-archive cohort.
func Decode(data []byte) (entities.Cohort, error) {
	if len(data) < 2 {
		return entities.Cohort{}, apperrors.NewDecodeError("cohort token too short", nil)
	}
	if data[0] != codecVersion {
		return entities.Cohort{}, apperrors.NewDecodeError("unsupported cohort token version", nil)
	}
	if data[1]&flagEveryone != 0 {
		return entities.Everyone(), nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(data[2:]))
	if err != nil {
		return entities.Cohort{}, apperrors.NewDecodeError("corrupt cohort token", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return entities.Cohort{}, apperrors.NewDecodeError("corrupt cohort token", err)
	}

	ids := roaring.New()
	if err := ids.UnmarshalBinary(raw); err != nil {
		return entities.Cohort{}, apperrors.NewDecodeError("corrupt cohort bitmap", err)
	}
	return entities.CohortFromBitmap(ids), nil
}
