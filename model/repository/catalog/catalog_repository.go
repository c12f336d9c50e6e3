package catalog

import (
	"errors"
	"time"

	"gorm.io/gorm"

	catalogEntity "souq.GO/model/entity/catalog"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreateWithChildren persists a product together with its options and
// variants in one transaction. The importer only assembles the triple;
// atomicity lives here.
func (r *CatalogRepository) CreateWithChildren(p *catalogEntity.Product, opts []catalogEntity.Option, vars []catalogEntity.Variant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for i := range opts {
			opts[i].ProductID = p.ID
			opts[i].Position = i
		}
		if len(opts) > 0 {
			if err := tx.CreateInBatches(opts, 100).Error; err != nil {
				return err
			}
		}
		for i := range vars {
			vars[i].ProductID = p.ID
		}
		if len(vars) > 0 {
			if err := tx.CreateInBatches(vars, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceChildren swaps a product's options and variants wholesale.
// Children are never patched incrementally: a re-save always deletes
// and recreates the full set.
func (r *CatalogRepository) ReplaceChildren(productID uint, opts []catalogEntity.Option, vars []catalogEntity.Variant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&catalogEntity.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&catalogEntity.Variant{}).Error; err != nil {
			return err
		}
		for i := range opts {
			opts[i].ID = 0
			opts[i].ProductID = productID
			opts[i].Position = i
		}
		if len(opts) > 0 {
			if err := tx.CreateInBatches(opts, 100).Error; err != nil {
				return err
			}
		}
		for i := range vars {
			vars[i].ID = 0
			vars[i].ProductID = productID
		}
		if len(vars) > 0 {
			if err := tx.CreateInBatches(vars, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CatalogRepository) FindByID(id uint) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Preload("Options").Preload("Variants").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByPurchaseURL returns (nil, nil) when no product matches.
func (r *CatalogRepository) FindByPurchaseURL(url string) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Where("purchase_url = ? AND status <> ?", url, catalogEntity.StatusDeleted).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ExistingKeys batch-resolves purchase URLs and translated names to
// product ids for duplicate detection. Queries run in chunks so a large
// batch never builds an unbounded IN list.
func (r *CatalogRepository) ExistingKeys(urls, names []string, chunk int) (byURL, byName map[string]uint, err error) {
	if chunk <= 0 {
		chunk = 500
	}
	type keyRow struct {
		ID          uint   `gorm:"column:id"`
		PurchaseURL string `gorm:"column:purchase_url"`
		Name        string `gorm:"column:name"`
	}
	byURL = make(map[string]uint)
	byName = make(map[string]uint)

	for i := 0; i < len(urls); i += chunk {
		end := i + chunk
		if end > len(urls) {
			end = len(urls)
		}
		var rows []keyRow
		q := r.db.Model(&catalogEntity.Product{}).
			Select("id, purchase_url, name").
			Where("purchase_url IN ? AND status <> ?", urls[i:end], catalogEntity.StatusDeleted)
		if err = q.Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			byURL[row.PurchaseURL] = row.ID
		}
	}
	for i := 0; i < len(names); i += chunk {
		end := i + chunk
		if end > len(names) {
			end = len(names)
		}
		var rows []keyRow
		q := r.db.Model(&catalogEntity.Product{}).
			Select("id, purchase_url, name").
			Where("name IN ? AND status <> ?", names[i:end], catalogEntity.StatusDeleted)
		if err = q.Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			byName[row.Name] = row.ID
		}
	}
	return byURL, byName, nil
}

// Page returns one fixed-size page of products ordered by id, with
// variants preloaded. Used by the catalog repricing walker.
func (r *CatalogRepository) Page(offset, limit int) ([]catalogEntity.Product, error) {
	var products []catalogEntity.Product
	err := r.db.Preload("Variants").
		Where("status <> ?", catalogEntity.StatusDeleted).
		Order("id").Offset(offset).Limit(limit).
		Find(&products).Error
	return products, err
}

// UpdatePrice persists a recomputed product price.
func (r *CatalogRepository) UpdatePrice(productID uint, price int, rawPrice float64) error {
	return r.db.Model(&catalogEntity.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{"price": price, "raw_price": rawPrice}).Error
}

// UpdateVariantPrice persists a recomputed variant price.
func (r *CatalogRepository) UpdateVariantPrice(variantID uint, price int, rawPrice float64) error {
	return r.db.Model(&catalogEntity.Variant{}).Where("id = ?", variantID).
		Updates(map[string]interface{}{"price": price, "raw_price": rawPrice}).Error
}

// SoftDelete marks a product deleted and inactive. Options and variants
// stay in place until the hard cleanup removes the product row.
func (r *CatalogRepository) SoftDelete(productID uint) error {
	return r.db.Model(&catalogEntity.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{"status": catalogEntity.StatusDeleted, "is_active": false}).Error
}

// HardDelete removes a product and its children together.
func (r *CatalogRepository) HardDelete(productID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&catalogEntity.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&catalogEntity.Variant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&catalogEntity.Product{}, productID).Error
	})
}

// QueueRefresh records a best-effort re-scrape request for an existing
// product. Failures here never fail an import item.
func (r *CatalogRepository) QueueRefresh(productID uint, purchaseURL string) error {
	sig := catalogEntity.RefreshSignal{
		ProductID:   productID,
		PurchaseURL: purchaseURL,
		RequestedAt: time.Now(),
	}
	return r.db.Create(&sig).Error
}

// PendingRefresh returns unprocessed refresh signals, oldest first.
func (r *CatalogRepository) PendingRefresh(limit int) ([]catalogEntity.RefreshSignal, error) {
	var sigs []catalogEntity.RefreshSignal
	err := r.db.Where("processed_at IS NULL").Order("requested_at").Limit(limit).Find(&sigs).Error
	return sigs, err
}

// MarkRefreshed stamps refresh signals as processed.
func (r *CatalogRepository) MarkRefreshed(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.Model(&catalogEntity.RefreshSignal{}).Where("id IN ?", ids).
		Update("processed_at", now).Error
}

// SearchByName is the LIKE fallback used when Elasticsearch is not
// configured. Each group holds one query word plus its dialect
// synonyms: variants within a group are OR-ed, groups are AND-ed.
func (r *CatalogRepository) SearchByName(groups [][]string, limit int) ([]catalogEntity.Product, error) {
	q := r.db.Where("status = ? AND is_active = ?", catalogEntity.StatusPublished, true)
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		sub := r.db.Where("name LIKE ?", "%"+group[0]+"%")
		for _, alt := range group[1:] {
			sub = sub.Or("name LIKE ?", "%"+alt+"%")
		}
		q = q.Where(sub)
	}
	var products []catalogEntity.Product
	err := q.Limit(limit).Find(&products).Error
	return products, err
}

// FindByIDs loads products preserving the given id order, used to map
// search-engine hits back to catalog rows.
func (r *CatalogRepository) FindByIDs(ids []uint) ([]catalogEntity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalogEntity.Product
	err := r.db.Where("id IN ? AND status <> ?", ids, catalogEntity.StatusDeleted).Find(&products).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]catalogEntity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]catalogEntity.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
