package state

import (
	"moduschain/native/nft"
)

type nftStats struct {
	TotalNFTs     uint64
	TotalCreators uint64
}

func (m *Manager) nftStats() (*nftStats, error) {
	stats := new(nftStats)
	if _, err := m.load(nftStatsKey, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// AssetGet returns the stored asset for the id.
func (m *Manager) AssetGet(id uint64) (*nft.Asset, bool, error) {
	asset := new(nft.Asset)
	ok, err := m.load(assetKey(id), asset)
	if err != nil || !ok {
		return nil, ok, err
	}
	return asset.EnsureDefaults(), true, nil
}

// AssetPut persists the asset and reconciles the per-owner index, the
// for-sale index, the creator counts and the registry aggregates against the
// previous record.
func (m *Manager) AssetPut(asset *nft.Asset) error {
	if asset == nil {
		return nil
	}
	asset.EnsureDefaults()
	prev, existed, err := m.AssetGet(asset.TokenID)
	if err != nil {
		return err
	}
	if err := m.store(assetKey(asset.TokenID), asset); err != nil {
		return err
	}
	if !existed {
		if err := m.ownerIndexAdd(asset.Owner, asset.TokenID); err != nil {
			return err
		}
		if err := m.creatorAdjust(asset.Creator, 1); err != nil {
			return err
		}
		stats, err := m.nftStats()
		if err != nil {
			return err
		}
		stats.TotalNFTs++
		if err := m.store(nftStatsKey, stats); err != nil {
			return err
		}
	} else if prev.Owner != asset.Owner {
		if err := m.ownerIndexRemove(prev.Owner, asset.TokenID); err != nil {
			return err
		}
		if err := m.ownerIndexAdd(asset.Owner, asset.TokenID); err != nil {
			return err
		}
	}
	wasListed := existed && prev.ForSale
	if asset.ForSale && !wasListed {
		return m.forSaleAdd(asset.TokenID)
	}
	if !asset.ForSale && wasListed {
		return m.forSaleRemove(asset.TokenID)
	}
	return nil
}

// AssetDelete removes the asset record and unwinds every index entry it held.
func (m *Manager) AssetDelete(id uint64) error {
	prev, existed, err := m.AssetGet(id)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}
	if err := m.delete(assetKey(id)); err != nil {
		return err
	}
	if err := m.ownerIndexRemove(prev.Owner, id); err != nil {
		return err
	}
	if prev.ForSale {
		if err := m.forSaleRemove(id); err != nil {
			return err
		}
	}
	if err := m.creatorAdjust(prev.Creator, -1); err != nil {
		return err
	}
	stats, err := m.nftStats()
	if err != nil {
		return err
	}
	if stats.TotalNFTs > 0 {
		stats.TotalNFTs--
	}
	return m.store(nftStatsKey, stats)
}

// NextAssetID increments and returns the sequential token id counter. Ids
// start at 1 and are never reused.
func (m *Manager) NextAssetID() (uint64, error) {
	var seq uint64
	if _, err := m.load(assetSeqKey, &seq); err != nil {
		return 0, err
	}
	seq++
	if err := m.store(assetSeqKey, seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// OwnerAssets returns the token ids currently held by the address.
func (m *Manager) OwnerAssets(addr [20]byte) ([]uint64, error) {
	var ids []uint64
	if _, err := m.load(ownerIndexKey(addr), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ForSaleAssets returns the token ids with an active listing.
func (m *Manager) ForSaleAssets() ([]uint64, error) {
	var ids []uint64
	if _, err := m.load(forSaleIndexKey, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// CreatorCount returns the live asset count attributed to the creator.
func (m *Manager) CreatorCount(addr [20]byte) (uint64, error) {
	var count uint64
	if _, err := m.load(creatorKey(addr), &count); err != nil {
		return 0, err
	}
	return count, nil
}

// AssetStats returns the registry aggregates.
func (m *Manager) AssetStats() (*nft.RegistryStats, error) {
	stats, err := m.nftStats()
	if err != nil {
		return nil, err
	}
	forSale, err := m.ForSaleAssets()
	if err != nil {
		return nil, err
	}
	return &nft.RegistryStats{
		TotalNFTs:     stats.TotalNFTs,
		TotalCreators: stats.TotalCreators,
		ForSale:       uint64(len(forSale)),
	}, nil
}

func (m *Manager) ownerIndexAdd(addr [20]byte, id uint64) error {
	ids, err := m.OwnerAssets(addr)
	if err != nil {
		return err
	}
	return m.store(ownerIndexKey(addr), append(ids, id))
}

func (m *Manager) ownerIndexRemove(addr [20]byte, id uint64) error {
	ids, err := m.OwnerAssets(addr)
	if err != nil {
		return err
	}
	for i, existing := range ids {
		if existing == id {
			ids[i] = ids[len(ids)-1]
			return m.store(ownerIndexKey(addr), ids[:len(ids)-1])
		}
	}
	return nil
}

func (m *Manager) forSaleAdd(id uint64) error {
	ids, err := m.ForSaleAssets()
	if err != nil {
		return err
	}
	return m.store(forSaleIndexKey, append(ids, id))
}

func (m *Manager) forSaleRemove(id uint64) error {
	ids, err := m.ForSaleAssets()
	if err != nil {
		return err
	}
	for i, existing := range ids {
		if existing == id {
			ids[i] = ids[len(ids)-1]
			return m.store(forSaleIndexKey, ids[:len(ids)-1])
		}
	}
	return nil
}

// creatorAdjust moves the per-creator live count, floored at zero, and keeps
// the distinct-creator aggregate in step on 0<->1 transitions.
func (m *Manager) creatorAdjust(addr [20]byte, delta int) error {
	count, err := m.CreatorCount(addr)
	if err != nil {
		return err
	}
	stats, err := m.nftStats()
	if err != nil {
		return err
	}
	switch {
	case delta > 0:
		if count == 0 {
			stats.TotalCreators++
		}
		count += uint64(delta)
	case delta < 0:
		dec := uint64(-delta)
		if dec >= count {
			if count > 0 && stats.TotalCreators > 0 {
				stats.TotalCreators--
			}
			count = 0
		} else {
			count -= dec
		}
	}
	if err := m.store(creatorKey(addr), count); err != nil {
		return err
	}
	return m.store(nftStatsKey, stats)
}
