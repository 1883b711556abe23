package state

import "encoding/binary"

var (
	accountPrefix = []byte("acct/")

	tokenStateKey = []byte("loyalty/token")
	rolePrefix    = []byte("loyalty/role/")
	userPrefix    = []byte("loyalty/user/")
	userIndexKey  = []byte("loyalty/users")

	assetPrefix      = []byte("nft/token/")
	assetSeqKey      = []byte("nft/seq")
	ownerIndexPrefix = []byte("nft/owner/")
	forSaleIndexKey  = []byte("nft/forsale")
	creatorPrefix    = []byte("nft/creator/")
	nftStatsKey      = []byte("nft/stats")
)

func accountKey(addr [20]byte) []byte {
	return append(append([]byte{}, accountPrefix...), addr[:]...)
}

func roleKey(role string) []byte {
	return append(append([]byte{}, rolePrefix...), role...)
}

func userKey(addr [20]byte) []byte {
	return append(append([]byte{}, userPrefix...), addr[:]...)
}

func assetKey(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return append(append([]byte{}, assetPrefix...), buf...)
}

func ownerIndexKey(addr [20]byte) []byte {
	return append(append([]byte{}, ownerIndexPrefix...), addr[:]...)
}

func creatorKey(addr [20]byte) []byte {
	return append(append([]byte{}, creatorPrefix...), addr[:]...)
}
