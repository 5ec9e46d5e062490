package ctfile

import "github.com/sigurn/crc16"

// crcTable is the CRC-16/XMODEM parameter set (poly 0x1021, init 0x0000, no
// reflection, no final XOR). It is computed once and reused for every
// checksum in the process.
var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// checksum computes CRC-16/XMODEM over data. Coverage is the caller's
// responsibility: it is restricted to the row-data region only, excluding
// the preceding row count and the trailing checksum bytes themselves.
func checksum(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}
