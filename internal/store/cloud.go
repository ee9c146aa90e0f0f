package store

import (
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "nestegg/internal/errors"
	"nestegg/internal/logger"
	"nestegg/internal/models"
	"nestegg/internal/pagination"
)

// CloudStore is the Postgres-backed portfolio backend for one user identity.
// Commands follow write-then-reflect ordering: the durable write happens
// first and the in-memory mirror is updated only when it succeeds, so a
// failed write never corrupts derived metrics. The mirror keeps the 50 most
// recent history entries; History pages the full table.
type CloudStore struct {
	derived

	db     *gorm.DB
	userID string

	mu         sync.RWMutex
	assets     []models.Asset
	categories []models.Category
	history    []models.HistoryEntry

	loading bool
	syncing bool

	clock func() time.Time
}

// NewCloudStore creates a store for the given user identity. The store is in
// the loading state until Load completes.
func NewCloudStore(db *gorm.DB, userID string) *CloudStore {
	s := &CloudStore{
		db:      db,
		userID:  userID,
		loading: true,
		clock:   time.Now,
	}
	s.derived = derived{snapshot: s.snapshot, now: func() time.Time { return s.clock() }}
	return s
}

// Load seeds default categories on first use and hydrates the in-memory
// mirror. It must succeed before the store serves commands or queries.
func (s *CloudStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if err := s.db.Model(&models.Category{}).Where("user_id = ?", s.userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	if count == 0 {
		seed := models.DefaultCategories()
		for i := range seed {
			seed[i].UserID = s.userID
		}
		if err := s.db.Create(&seed).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
		}
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", s.userID).
		Order("created_at, id").Find(&categories).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	var assets []models.Asset
	if err := s.db.Where("user_id = ?", s.userID).
		Order("created_at, id").Find(&assets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	var history []models.HistoryEntry
	if err := s.db.Where("user_id = ?", s.userID).
		Order("timestamp DESC").Limit(localHistoryCap).Find(&history).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	s.categories = categories
	s.assets = assets
	s.history = history
	s.loading = false
	return nil
}

func (s *CloudStore) snapshot() ([]models.Asset, []models.Category) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assets := make([]models.Asset, len(s.assets))
	copy(assets, s.assets)
	categories := make([]models.Category, len(s.categories))
	copy(categories, s.categories)
	return assets, categories
}

// Assets returns a snapshot of all assets in creation order.
func (s *CloudStore) Assets() []models.Asset {
	assets, _ := s.snapshot()
	return assets
}

// Categories returns a snapshot of all categories in creation order.
func (s *CloudStore) Categories() []models.Category {
	_, categories := s.snapshot()
	return categories
}

// History pages the full change history from the database, newest first.
func (s *CloudStore) History(page pagination.PageRequest) (*pagination.PageResponse[models.HistoryEntry], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.HistoryEntry{}).Where("user_id = ?", s.userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	var entries []models.HistoryEntry
	if err := base.Order("timestamp DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// beginSync marks a durable write in flight. Callers must pair it with
// endSync.
func (s *CloudStore) beginSync() {
	s.mu.Lock()
	s.syncing = true
	s.mu.Unlock()
}

func (s *CloudStore) endSync() {
	s.mu.Lock()
	s.syncing = false
	s.mu.Unlock()
}

// recordHistory inserts a history entry and mirrors it. History failures are
// logged but do not fail the command: the primary write is already durable.
func (s *CloudStore) recordHistory(entryType models.HistoryType, assetName, categoryName string, amount float64) {
	entry := models.HistoryEntry{
		UserID:       s.userID,
		Type:         entryType,
		AssetName:    assetName,
		CategoryName: categoryName,
		Amount:       amount,
		Timestamp:    s.clock(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Get().Warnw("failed to record history entry",
			"user_id", s.userID, "type", entryType, "error", err)
		return
	}

	s.mu.Lock()
	history := make([]models.HistoryEntry, 0, len(s.history)+1)
	history = append(history, entry)
	history = append(history, s.history...)
	if len(history) > localHistoryCap {
		history = history[:localHistoryCap]
	}
	s.history = history
	s.mu.Unlock()
}

// refreshStats upserts the per-user summary row. Stats failures are logged
// but do not fail the command.
func (s *CloudStore) refreshStats() {
	assets, categories := s.snapshot()
	stats := models.PortfolioStats{
		UserID:          s.userID,
		TotalValue:      s.TotalValue(),
		AssetsCount:     len(assets),
		CategoriesCount: len(categories),
		LastUpdated:     s.clock(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_value", "assets_count", "categories_count", "last_updated"}),
	}).Create(&stats).Error
	if err != nil {
		logger.Get().Warnw("failed to refresh portfolio stats", "user_id", s.userID, "error", err)
	}
}

// AddAsset creates an asset in the given category and records an "add"
// history entry.
func (s *CloudStore) AddAsset(name string, amount float64, categoryID string, monthlyContribution float64, contributionDay int, origin models.AssetOrigin) (*models.Asset, error) {
	if err := validateNewAsset(name, amount, monthlyContribution, contributionDay); err != nil {
		return nil, err
	}
	if origin == "" {
		origin = models.AssetOriginManual
	}

	s.mu.RLock()
	category, ok := findCategory(s.categories, categoryID)
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	s.beginSync()
	defer s.endSync()

	asset := models.Asset{
		Base:                models.Base{UserID: s.userID},
		CategoryID:          categoryID,
		Name:                name,
		Amount:              amount,
		MonthlyContribution: monthlyContribution,
		ContributionDay:     contributionDay,
		Origin:              origin,
	}
	if err := s.db.Create(&asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	s.mu.Lock()
	s.assets = append(s.assets, asset)
	s.mu.Unlock()

	s.recordHistory(models.HistoryTypeAdd, asset.Name, category.Name, asset.Amount)
	s.refreshStats()
	return &asset, nil
}

// UpdateAsset merges the patch into an existing asset and records an
// "update" history entry with the post-update name, amount, and category.
func (s *CloudStore) UpdateAsset(id string, patch AssetPatch) (*models.Asset, error) {
	if err := validateAssetPatch(patch); err != nil {
		return nil, err
	}

	s.mu.RLock()
	idx, ok := findAsset(s.assets, id)
	if !ok {
		s.mu.RUnlock()
		return nil, apperrors.ErrAssetNotFound
	}
	updated := applyAssetPatch(s.assets[idx], patch)
	category, catOK := findCategory(s.categories, updated.CategoryID)
	s.mu.RUnlock()
	if !catOK {
		return nil, apperrors.ErrCategoryNotFound
	}

	s.beginSync()
	defer s.endSync()

	updated.UpdatedAt = s.clock()
	updates := map[string]interface{}{
		"name":                 updated.Name,
		"amount":               updated.Amount,
		"category_id":          updated.CategoryID,
		"monthly_contribution": updated.MonthlyContribution,
		"contribution_day":     updated.ContributionDay,
		"updated_at":           updated.UpdatedAt,
	}
	err := s.db.Model(&models.Asset{}).
		Where("user_id = ? AND id = ?", s.userID, id).
		Updates(updates).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	s.mu.Lock()
	if idx, ok := findAsset(s.assets, id); ok {
		s.assets[idx] = updated
	}
	s.mu.Unlock()

	s.recordHistory(models.HistoryTypeUpdate, updated.Name, category.Name, updated.Amount)
	s.refreshStats()
	return &updated, nil
}

// DeleteAsset removes an asset and records a "delete" history entry
// capturing its state before removal.
func (s *CloudStore) DeleteAsset(id string) error {
	s.mu.RLock()
	idx, ok := findAsset(s.assets, id)
	if !ok {
		s.mu.RUnlock()
		return apperrors.ErrAssetNotFound
	}
	asset := s.assets[idx]
	categoryName := ""
	if category, ok := findCategory(s.categories, asset.CategoryID); ok {
		categoryName = category.Name
	}
	s.mu.RUnlock()

	s.beginSync()
	defer s.endSync()

	err := s.db.Where("user_id = ? AND id = ?", s.userID, id).Delete(&models.Asset{}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	s.mu.Lock()
	assets := make([]models.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		if a.ID != id {
			assets = append(assets, a)
		}
	}
	s.assets = assets
	s.mu.Unlock()

	s.recordHistory(models.HistoryTypeDelete, asset.Name, categoryName, asset.Amount)
	s.refreshStats()
	return nil
}

// AddContribution confirms a contribution by incrementing the asset's amount.
func (s *CloudStore) AddContribution(assetID string, amount float64) (*models.Asset, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution amount must be positive")
	}

	s.mu.RLock()
	idx, ok := findAsset(s.assets, assetID)
	if !ok {
		s.mu.RUnlock()
		return nil, apperrors.ErrAssetNotFound
	}
	newAmount := s.assets[idx].Amount + amount
	s.mu.RUnlock()

	return s.UpdateAsset(assetID, AssetPatch{Amount: &newAmount})
}

// AddCategory creates a user category, active and non-default.
func (s *CloudStore) AddCategory(name, icon, color string, interestRate float64) (*models.Category, error) {
	if err := validateNewCategory(name, interestRate); err != nil {
		return nil, err
	}

	s.beginSync()
	defer s.endSync()

	category := models.Category{
		Base:         models.Base{UserID: s.userID},
		Name:         name,
		Icon:         icon,
		Color:        color,
		InterestRate: interestRate,
		IsDefault:    false,
		IsActive:     true,
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	s.mu.Lock()
	s.categories = append(s.categories, category)
	s.mu.Unlock()

	s.refreshStats()
	return &category, nil
}

// UpdateCategory merges the patch into an existing category. Category
// updates do not produce history entries.
func (s *CloudStore) UpdateCategory(id string, patch CategoryPatch) (*models.Category, error) {
	if err := validateCategoryPatch(patch); err != nil {
		return nil, err
	}

	s.mu.RLock()
	current, ok := findCategory(s.categories, id)
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	s.beginSync()
	defer s.endSync()

	updated := applyCategoryPatch(current, patch)
	updated.UpdatedAt = s.clock()
	updates := map[string]interface{}{
		"name":          updated.Name,
		"icon":          updated.Icon,
		"color":         updated.Color,
		"interest_rate": updated.InterestRate,
		"is_active":     updated.IsActive,
		"updated_at":    updated.UpdatedAt,
	}
	err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND id = ?", s.userID, id).
		Updates(updates).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	s.mu.Lock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.refreshStats()
	return &updated, nil
}

// DeleteCategory removes a category and every asset in it. The cascade is
// silent: cascaded assets do not produce history entries. Default categories
// are rejected. The migration schema also cascades at the database level;
// the explicit transaction keeps test databases without foreign-key
// enforcement consistent.
func (s *CloudStore) DeleteCategory(id string) error {
	s.mu.RLock()
	category, ok := findCategory(s.categories, id)
	s.mu.RUnlock()
	if !ok {
		return apperrors.ErrCategoryNotFound
	}
	if category.IsDefault {
		return apperrors.ErrDefaultCategory
	}

	s.beginSync()
	defer s.endSync()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND category_id = ?", s.userID, id).Delete(&models.Asset{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", s.userID, id).Delete(&models.Category{}).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	s.mu.Lock()
	categories := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.ID != id {
			categories = append(categories, c)
		}
	}
	assets := make([]models.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		if a.CategoryID != id {
			assets = append(assets, a)
		}
	}
	s.categories = categories
	s.assets = assets
	s.mu.Unlock()

	s.refreshStats()
	return nil
}

// Loading reports whether the initial hydration is still pending.
func (s *CloudStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Syncing reports whether a durable write is in flight.
func (s *CloudStore) Syncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncing
}

var (
	_ Portfolio = (*CloudStore)(nil)
	_ Provider  = (*CloudProvider)(nil)
)

// CloudProvider hydrates and caches one CloudStore per user identity.
type CloudProvider struct {
	db     *gorm.DB
	mu     sync.Mutex
	stores map[string]*CloudStore
}

// NewCloudProvider creates a provider over the given database.
func NewCloudProvider(db *gorm.DB) *CloudProvider {
	return &CloudProvider{db: db, stores: make(map[string]*CloudStore)}
}

// ForUser returns the user's portfolio, hydrating it on first access.
func (p *CloudProvider) ForUser(userID string) (Portfolio, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.stores[userID]; ok {
		return s, nil
	}

	s := NewCloudStore(p.db, userID)
	if err := s.Load(); err != nil {
		return nil, err
	}
	p.stores[userID] = s
	return s, nil
}
