package store

import (
	"encoding/json"
	"sync"
	"time"

	"nestegg/internal/blob"
	apperrors "nestegg/internal/errors"
	"nestegg/internal/logger"
	"nestegg/internal/models"
	"nestegg/internal/pagination"
	"nestegg/internal/uuid"
)

// Blob names are a compatibility contract with previously persisted data.
const (
	assetsBlob     = "portfolio-assets"
	categoriesBlob = "portfolio-categories"
	historyBlob    = "portfolio-history"
)

// localHistoryCap bounds the local backend's history; oldest entries drop first.
const localHistoryCap = 50

// LocalStore is the blob-persisted portfolio backend. It is synchronous:
// hydration happens in NewLocalStore and every command persists before it
// returns. Malformed persisted data degrades to empty collections (assets,
// history) or the default category seed rather than failing hydration.
type LocalStore struct {
	derived

	mu    sync.RWMutex
	blobs blob.Store

	assets     []models.Asset
	categories []models.Category
	history    []models.HistoryEntry

	clock func() time.Time
}

// NewLocalStore hydrates a store from the given blob store, seeding default
// categories on first use.
func NewLocalStore(blobs blob.Store) (*LocalStore, error) {
	s := &LocalStore{
		blobs: blobs,
		clock: time.Now,
	}
	s.derived = derived{snapshot: s.snapshot, now: func() time.Time { return s.clock() }}

	if err := s.hydrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) hydrate() error {
	assets, err := loadBlob[models.Asset](s.blobs, assetsBlob)
	if err != nil {
		return err
	}
	s.assets = assets

	categories, err := loadBlob[models.Category](s.blobs, categoriesBlob)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		// First use (or unreadable data): seed and persist the defaults.
		categories = models.DefaultCategories()
		seededAt := s.clock()
		for i := range categories {
			categories[i].CreatedAt = seededAt
			categories[i].UpdatedAt = seededAt
		}
		if err := persistBlob(s.blobs, categoriesBlob, categories); err != nil {
			return err
		}
	}
	s.categories = categories

	history, err := loadBlob[models.HistoryEntry](s.blobs, historyBlob)
	if err != nil {
		return err
	}
	if len(history) > localHistoryCap {
		history = history[:localHistoryCap]
	}
	s.history = history
	return nil
}

// loadBlob reads and decodes one collection. A missing blob yields an empty
// collection; a malformed one is logged and discarded the same way.
func loadBlob[T any](blobs blob.Store, name string) ([]T, error) {
	data, found, err := blobs.Get(name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	if !found {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		logger.Get().Warnw("discarding malformed blob", "blob", name, "error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func persistBlob[T any](blobs blob.Store, name string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	if err := blobs.Set(name, string(data)); err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	return nil
}

func (s *LocalStore) snapshot() ([]models.Asset, []models.Category) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assets := make([]models.Asset, len(s.assets))
	copy(assets, s.assets)
	categories := make([]models.Category, len(s.categories))
	copy(categories, s.categories)
	return assets, categories
}

// Assets returns a snapshot of all assets in insertion order.
func (s *LocalStore) Assets() []models.Asset {
	assets, _ := s.snapshot()
	return assets
}

// Categories returns a snapshot of all categories in insertion order.
func (s *LocalStore) Categories() []models.Category {
	_, categories := s.snapshot()
	return categories
}

// History pages through the retained entries, newest first.
func (s *LocalStore) History(page pagination.PageRequest) (*pagination.PageResponse[models.HistoryEntry], error) {
	page.Defaults()

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := int64(len(s.history))
	start := page.Offset()
	if start > len(s.history) {
		start = len(s.history)
	}
	end := start + page.PageSize
	if end > len(s.history) {
		end = len(s.history)
	}
	entries := make([]models.HistoryEntry, end-start)
	copy(entries, s.history[start:end])

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, total)
	return &result, nil
}

// newHistory prepends an entry and trims to the cap, without mutating the
// store's current slice.
func (s *LocalStore) newHistory(entryType models.HistoryType, assetName, categoryName string, amount float64) []models.HistoryEntry {
	entry := models.HistoryEntry{
		ID:           uuid.New(),
		Type:         entryType,
		AssetName:    assetName,
		CategoryName: categoryName,
		Amount:       amount,
		Timestamp:    s.clock(),
	}
	history := make([]models.HistoryEntry, 0, len(s.history)+1)
	history = append(history, entry)
	history = append(history, s.history...)
	if len(history) > localHistoryCap {
		history = history[:localHistoryCap]
	}
	return history
}

// AddAsset creates an asset in the given category and records an "add"
// history entry.
func (s *LocalStore) AddAsset(name string, amount float64, categoryID string, monthlyContribution float64, contributionDay int, origin models.AssetOrigin) (*models.Asset, error) {
	if err := validateNewAsset(name, amount, monthlyContribution, contributionDay); err != nil {
		return nil, err
	}
	if origin == "" {
		origin = models.AssetOriginManual
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := findCategory(s.categories, categoryID)
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	now := s.clock()
	asset := models.Asset{
		Base:                models.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		CategoryID:          categoryID,
		Name:                name,
		Amount:              amount,
		MonthlyContribution: monthlyContribution,
		ContributionDay:     contributionDay,
		Origin:              origin,
	}

	assets := append(append([]models.Asset{}, s.assets...), asset)
	history := s.newHistory(models.HistoryTypeAdd, asset.Name, category.Name, asset.Amount)

	if err := persistBlob(s.blobs, assetsBlob, assets); err != nil {
		return nil, err
	}
	if err := persistBlob(s.blobs, historyBlob, history); err != nil {
		return nil, err
	}

	s.assets = assets
	s.history = history
	return &asset, nil
}

// UpdateAsset merges the patch into an existing asset, refreshes its
// updated-at timestamp, and records an "update" history entry with the
// post-update name, amount, and category.
func (s *LocalStore) UpdateAsset(id string, patch AssetPatch) (*models.Asset, error) {
	if err := validateAssetPatch(patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := findAsset(s.assets, id)
	if !ok {
		return nil, apperrors.ErrAssetNotFound
	}

	updated := applyAssetPatch(s.assets[idx], patch)
	updated.UpdatedAt = s.clock()

	category, ok := findCategory(s.categories, updated.CategoryID)
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	assets := append([]models.Asset{}, s.assets...)
	assets[idx] = updated
	history := s.newHistory(models.HistoryTypeUpdate, updated.Name, category.Name, updated.Amount)

	if err := persistBlob(s.blobs, assetsBlob, assets); err != nil {
		return nil, err
	}
	if err := persistBlob(s.blobs, historyBlob, history); err != nil {
		return nil, err
	}

	s.assets = assets
	s.history = history
	return &updated, nil
}

// DeleteAsset removes an asset and records a "delete" history entry
// capturing its name, amount, and category before removal.
func (s *LocalStore) DeleteAsset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := findAsset(s.assets, id)
	if !ok {
		return apperrors.ErrAssetNotFound
	}
	asset := s.assets[idx]

	categoryName := ""
	if category, ok := findCategory(s.categories, asset.CategoryID); ok {
		categoryName = category.Name
	}

	assets := make([]models.Asset, 0, len(s.assets)-1)
	assets = append(assets, s.assets[:idx]...)
	assets = append(assets, s.assets[idx+1:]...)
	history := s.newHistory(models.HistoryTypeDelete, asset.Name, categoryName, asset.Amount)

	if err := persistBlob(s.blobs, assetsBlob, assets); err != nil {
		return err
	}
	if err := persistBlob(s.blobs, historyBlob, history); err != nil {
		return err
	}

	s.assets = assets
	s.history = history
	return nil
}

// AddContribution confirms a contribution by incrementing the asset's amount.
func (s *LocalStore) AddContribution(assetID string, amount float64) (*models.Asset, error) {
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
func (s *LocalStore) AddCategory(name, icon, color string, interestRate float64) (*models.Category, error) {
	if err := validateNewCategory(name, interestRate); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	category := models.Category{
		Base:         models.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         name,
		Icon:         icon,
		Color:        color,
		InterestRate: interestRate,
		IsDefault:    false,
		IsActive:     true,
	}

	categories := append(append([]models.Category{}, s.categories...), category)
	if err := persistBlob(s.blobs, categoriesBlob, categories); err != nil {
		return nil, err
	}

	s.categories = categories
	return &category, nil
}

// UpdateCategory merges the patch into an existing category. Category
// updates do not produce history entries.
func (s *LocalStore) UpdateCategory(id string, patch CategoryPatch) (*models.Category, error) {
	if err := validateCategoryPatch(patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.categories {
		if s.categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	updated := applyCategoryPatch(s.categories[idx], patch)
	updated.UpdatedAt = s.clock()

	categories := append([]models.Category{}, s.categories...)
	categories[idx] = updated
	if err := persistBlob(s.blobs, categoriesBlob, categories); err != nil {
		return nil, err
	}

	s.categories = categories
	return &updated, nil
}

// DeleteCategory removes a category and silently cascades to every asset in
// it. Default categories are rejected. Cascaded assets do not produce
// individual history entries.
func (s *LocalStore) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := findCategory(s.categories, id)
	if !ok {
		return apperrors.ErrCategoryNotFound
	}
	if category.IsDefault {
		return apperrors.ErrDefaultCategory
	}

	categories := make([]models.Category, 0, len(s.categories)-1)
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

	if err := persistBlob(s.blobs, categoriesBlob, categories); err != nil {
		return err
	}
	if err := persistBlob(s.blobs, assetsBlob, assets); err != nil {
		return err
	}

	s.categories = categories
	s.assets = assets
	return nil
}

// Loading is always false: local hydration completes in NewLocalStore.
func (s *LocalStore) Loading() bool { return false }

// Syncing is always false: local persistence is synchronous.
func (s *LocalStore) Syncing() bool { return false }

var (
	_ Portfolio = (*LocalStore)(nil)
	_ Provider  = (*LocalProvider)(nil)
)

// LocalProvider serves the single on-device portfolio for every identity.
type LocalProvider struct {
	store *LocalStore
}

// NewLocalProvider wraps a local store as a Provider.
func NewLocalProvider(store *LocalStore) *LocalProvider {
	return &LocalProvider{store: store}
}

// ForUser returns the on-device portfolio regardless of identity.
func (p *LocalProvider) ForUser(string) (Portfolio, error) {
	return p.store, nil
}
