// Package security implements the client-side password pre-hash the
// BlitzBuy backend expects. The plaintext password never leaves the
// client; only the salted MD5 "mid pass" is transmitted.
package security

import (
	"crypto/md5"
	"encoding/hex"
)

// fixedSalt matches the backend's MD5Util salt. Positions 0 and 6 wrap
// the plaintext before hashing; changing this breaks every stored
// credential, so it is a constant, not configuration.
const fixedSalt = "4tIY5VcX"

// MD5Hex returns the lowercase hex MD5 digest of src.
func MD5Hex(src string) string {
	sum := md5.Sum([]byte(src))
	return hex.EncodeToString(sum[:])
}

// InputPassToMidPass converts a plaintext password to the transmitted
// form: MD5(salt[0] + plaintext + salt[6]).
func InputPassToMidPass(inputPass string) string {
	return MD5Hex(string(fixedSalt[0]) + inputPass + string(fixedSalt[6]))
}
