package settings

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"souq.GO/config"
	"souq.GO/core/cache"
	settingsEntity "souq.GO/model/entity/settings"
)

const (
	ratesCacheKey = "settings:shipping_rates"
	ratesCacheTag = "settings"
	ratesCacheTTL = 60 // seconds
)

// RatesRepository reads and updates the singleton shipping rate table.
// Reads go local cache -> Redis -> DB; updates invalidate both tiers.
type RatesRepository struct {
	db *gorm.DB
}

func NewRatesRepository(db *gorm.DB) *RatesRepository {
	return &RatesRepository{db: db}
}

// Get returns the current rate table. A missing row yields a zeroed
// record rather than an error: pricing then runs on floors of 0, which
// only ever under-floors, never fails a batch.
func (r *RatesRepository) Get() (*settingsEntity.ShippingRate, error) {
	if v, ok := cache.GetInstance().Get(ratesCacheKey); ok {
		if rate, isRate := v.(*settingsEntity.ShippingRate); isRate {
			return rate, nil
		}
	}

	if config.RedisClient != nil {
		if data, err := config.RedisClient.Get(config.RedisCtx(), ratesCacheKey).Bytes(); err == nil {
			var rate settingsEntity.ShippingRate
			if json.Unmarshal(data, &rate) == nil {
				cache.GetInstance().Set(ratesCacheKey, &rate, ratesCacheTTL, []string{ratesCacheTag})
				return &rate, nil
			}
		}
	}

	var rate settingsEntity.ShippingRate
	err := r.db.First(&rate, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rate = settingsEntity.ShippingRate{ID: 1}
	} else if err != nil {
		return nil, err
	}

	cache.GetInstance().Set(ratesCacheKey, &rate, ratesCacheTTL, []string{ratesCacheTag})
	if config.RedisClient != nil {
		if data, err := json.Marshal(&rate); err == nil {
			config.RedisClient.Set(config.RedisCtx(), ratesCacheKey, data, ratesCacheTTL*time.Second)
		}
	}
	return &rate, nil
}

// Update upserts the singleton row and drops all cached copies.
func (r *RatesRepository) Update(rate *settingsEntity.ShippingRate) error {
	rate.ID = 1
	if err := r.db.Save(rate).Error; err != nil {
		return err
	}
	cache.GetInstance().DeleteByTag(ratesCacheTag)
	if config.RedisClient != nil {
		config.RedisClient.Del(config.RedisCtx(), ratesCacheKey)
	}
	return nil
}
