package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextDerivationIndex atomically allocates the next derivation index for
// (coin, addressType), starting at 0 for a fresh counter. The increment is
// a single upsert statement; the surrounding transaction holds the row
// lock until the allocated value has been read back, so two concurrent
// checkouts can never observe the same index.
func NextDerivationIndex(db *gorm.DB, coin string, addressType AddressType) (uint32, error) {
	var allocated uint32
	err := db.Transaction(func(tx *gorm.DB) error {
		counter := DerivationCounter{
			CoinSymbol:  coin,
			AddressType: addressType,
			NextIndex:   1,
			UpdatedAt:   time.Now(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "coin_symbol"}, {Name: "address_type"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"next_index": gorm.Expr("next_index + 1"),
				"updated_at": time.Now(),
			}),
		}).Create(&counter).Error
		if err != nil {
			return err
		}

		var current DerivationCounter
		err = tx.Where("coin_symbol = ? AND address_type = ?", coin, addressType).
			First(&current).Error
		if err != nil {
			return err
		}
		allocated = current.NextIndex - 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return allocated, nil
}
