package nkeys

import (
	"encoding/binary"

	"github.com/sigurn/crc16"
)

// CRC-16/XMODEM (poly 0x1021, init 0), the checksum shared with the other
// implementations of this encoding.
var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

func checksum(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}

// appendChecksum appends the little-endian checksum of buf to buf.
func appendChecksum(buf []byte) []byte {
	return binary.LittleEndian.AppendUint16(buf, checksum(buf))
}

// splitChecksum verifies the trailing checksum of raw and returns the body.
// raw is wiped on failure since it may hold a seed.
func splitChecksum(raw []byte) ([]byte, error) {
	if len(raw) < 2 {
		wipe(raw)
		return nil, newError(KindDecoding, "encoded value too short")
	}
	body, sum := raw[:len(raw)-2], raw[len(raw)-2:]
	if checksum(body) != binary.LittleEndian.Uint16(sum) {
		wipe(raw)
		return nil, newError(KindInvalidChecksum, "checksum mismatch")
	}
	return body, nil
}
