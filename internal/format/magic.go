// Package format identifies the on-disk SSTable format variant from its
// magic number and parses the fixed header that precedes the column and
// statistics sub-records (spec.md §4.3).
package format

import (
	"fmt"

	"github.com/joshuapare/sstreader/internal/buf"
	"github.com/joshuapare/sstreader/pkg/types"
)

// Variant identifies which on-disk layout a header belongs to; the value
// codec, block framing, and directory scanner all branch on it.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantLegacyOA
	Variant50Alpha
	Variant50Beta
	Variant50Release
)

func (v Variant) String() string {
	switch v {
	case VariantLegacyOA:
		return "oa"
	case Variant50Alpha:
		return "5.0-alpha"
	case Variant50Beta:
		return "5.0-beta"
	case Variant50Release:
		return "5.0-release"
	default:
		return "unknown"
	}
}

// FrameKind reports which block-framing scheme (§4.6) a variant uses.
type FrameKind int

const (
	FrameLegacy FrameKind = iota
	FrameBTI
	FrameNewBig
)

// Frame reports the block-framing scheme associated with v. 5.0 alpha/beta
// share the BTI ("da") framing; legacy "oa" uses the legacy 8-byte header;
// the 5.0 release ("nb", new-big) format frames the whole data section as
// one chunk.
func (v Variant) Frame() FrameKind {
	switch v {
	case VariantLegacyOA:
		return FrameLegacy
	case Variant50Alpha, Variant50Beta:
		return FrameBTI
	default:
		return FrameNewBig
	}
}

const (
	magicLegacyOA    uint32 = 0x6F61_0000
	magic50Alpha     uint32 = 0xAD01_0000
	magic50Beta      uint32 = 0xA007_0000
	magic50Release   uint32 = 0x4316_0000
	magicHeaderBytes        = 6 // 4-byte magic, 2-byte version
)

// DetectVariant inspects the leading magic number of a header and returns
// the corresponding Variant. An unrecognized magic number is reported via
// the returned error so the caller can decide whether filename-based
// fallback (§7) applies.
func DetectVariant(b []byte) (Variant, error) {
	if len(b) < 4 {
		return VariantUnknown, types.ErrTruncated.WithCause(fmt.Errorf("header: need 4 bytes for magic, have %d", len(b)))
	}
	magic := buf.U32BE(b)
	switch magic {
	case magicLegacyOA:
		return VariantLegacyOA, nil
	case magic50Alpha:
		return Variant50Alpha, nil
	case magic50Beta:
		return Variant50Beta, nil
	case magic50Release:
		return Variant50Release, nil
	default:
		return VariantUnknown, types.ErrCorruptHeader.WithCause(fmt.Errorf("unrecognized magic 0x%08X", magic))
	}
}
