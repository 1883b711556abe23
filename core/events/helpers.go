package events

import (
	"encoding/hex"

	"github.com/holiman/uint256"
)

func addrHex(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

func amountString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}
