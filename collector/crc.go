package collector

import (
	"hash/crc32"

	"github.com/aerotechavionics/ehms/model"
)

// snapshotCRC computes the integrity check over the packed payload.
// hash/crc32's IEEE table is the reflected polynomial 0xEDB88320 with
// init 0xFFFFFFFF and final XOR 0xFFFFFFFF, byte-for-byte the reference
// algorithm.
func snapshotCRC(buf []byte, s *model.Snapshot) (uint32, []byte) {
	buf = model.AppendPayload(buf[:0], s)
	return crc32.ChecksumIEEE(buf), buf
}
