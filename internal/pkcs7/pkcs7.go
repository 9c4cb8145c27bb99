// Package pkcs7 implements the block padding scheme from RFC 5652 §6.3,
// used by the NIS1 CBC message cipher.
package pkcs7

import "errors"

// ErrInvalidPadding is returned by Unpad for any malformed padding. It does
// not reveal which check failed.
var ErrInvalidPadding = errors.New("pkcs7: invalid padding")

// Pad returns data extended to a multiple of blockSize. A full block of
// padding is added when data is already aligned.
func Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// Unpad strips the padding added by Pad.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
