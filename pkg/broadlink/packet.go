package broadlink

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Well-known pre-authentication key material shared by all Broadlink
// devices. Authentication replaces the key with a per-pairing one.
var (
	initialKey = []byte{
		0x09, 0x76, 0x28, 0x34, 0x3f, 0xe9, 0x9e, 0x23,
		0x76, 0x5c, 0x15, 0x13, 0xac, 0xcf, 0x8b, 0x02,
	}
	commonIV = []byte{
		0x56, 0x2e, 0x17, 0x99, 0x6d, 0x09, 0x3d, 0x28,
		0xdd, 0xb3, 0xba, 0x69, 0x5a, 0x2e, 0x6f, 0x58,
	}
)

// checksum is the additive checksum used in every Broadlink frame.
func checksum(data []byte) uint16 {
	sum := uint32(0xbeaf)
	for _, b := range data {
		sum += uint32(b)
	}
	return uint16(sum & 0xffff)
}

// pad extends data to a multiple of the AES block size with zeros.
func pad(data []byte) []byte {
	rem := len(data) % aes.BlockSize
	if rem == 0 {
		return data
	}
	padded := make([]byte, len(data)+aes.BlockSize-rem)
	copy(padded, data)
	return padded
}

func encrypt(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes init: %w", err)
	}
	data = pad(data)
	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, commonIV).CryptBlocks(out, data)
	return out, nil
}

func decrypt(key, data []byte) ([]byte, error) {
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d not block-aligned", len(data))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes init: %w", err)
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, commonIV).CryptBlocks(out, data)
	return out, nil
}
