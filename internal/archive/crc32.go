package archive

// crcPolynomial is the reflected IEEE 802.3 polynomial
const crcPolynomial = 0xEDB88320

var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 == 1 {
				c = crcPolynomial ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		table[i] = c
	}
	return table
}

// Checksum computes the standard CRC-32 of data
func Checksum(data []byte) uint32 {
	return Update(0, data)
}

// Update continues a CRC-32 computation started with a previous checksum
func Update(crc uint32, data []byte) uint32 {
	crc = ^crc
	for _, b := range data {
		crc = crcTable[byte(crc)^b] ^ (crc >> 8)
	}
	return ^crc
}
