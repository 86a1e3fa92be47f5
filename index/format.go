package index

import "fmt"

// Magic identifies an index.bin file. The on-disk header is 128 bytes;
// everything past the last declared field is reserved and zeroed.
const Magic = "MAIIRIDX"

const headerBytes = 128

// Version identifies the docs-section record layout. V1 omits source_id
// (12-byte records + title); V2 (the only version this writer emits)
// includes it. The reader dispatches on this field and never silently
// upgrades a V1 file.
const (
	Version1 uint32 = 1
	Version2 uint32 = 2
)

// ErrBadMagic, ErrTruncated and ErrBadVersion classify MalformedIndex
// failures surfaced while loading an index.bin.
var (
	ErrBadMagic   = fmt.Errorf("index: bad magic")
	ErrTruncated  = fmt.Errorf("index: section out of bounds")
	ErrBadVersion = fmt.Errorf("index: unsupported version")
)

// header mirrors the 128-byte on-disk header verbatim.
type header struct {
	Version        uint32
	Flags          uint32
	DocsCount      uint64
	TermsCount     uint64
	DictOffset     uint64
	DictBytes      uint64
	PostingsOffset uint64
	PostingsBytes  uint64
	DocsOffset     uint64
	DocsBytes      uint64
}
