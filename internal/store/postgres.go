package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gymflow/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore persists documents in a single jsonb table through gorm.
type PostgresStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) scoped(ctx context.Context, c Collection, tenantID string) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Document{}).Where("collection = ?", string(c))
	if tenantID != "" {
		q = q.Where("(tenant_id IS NULL OR tenant_id = ?)", tenantID)
	}
	return q
}

func (s *PostgresStore) Create(ctx context.Context, c Collection, doc Document) (Document, error) {
	record, err := prepareCreate(doc, s.now())
	if err != nil {
		return nil, err
	}
	row, err := toRow(c, record)
	if err != nil {
		return nil, err
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if result.Error != nil {
		return nil, storageError("create", c, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyExists
	}
	return record, nil
}

func (s *PostgresStore) Read(ctx context.Context, c Collection, id, tenantID string) (Document, error) {
	var row models.Document
	err := s.scoped(ctx, c, tenantID).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("read", c, err)
	}
	return fromRow(row)
}

func (s *PostgresStore) Update(ctx context.Context, c Collection, id string, patch Document, tenantID string) (Document, error) {
	var updated Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND id = ?", string(c), id)
		if tenantID != "" {
			q = q.Where("(tenant_id IS NULL OR tenant_id = ?)", tenantID)
		}

		var row models.Document
		if err := q.Take(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		existing, err := fromRow(row)
		if err != nil {
			return err
		}

		now := s.now()
		updated, err = merge(existing, patch, now)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		return tx.Model(&models.Document{}).
			Where("collection = ? AND id = ?", string(c), id).
			Updates(map[string]interface{}{
				"data":       datatypes.JSON(raw),
				"updated_at": now.UTC(),
			}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidRecord) {
			return nil, err
		}
		return nil, storageError("update", c, err)
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, c Collection, id, tenantID string) (string, error) {
	res := s.scoped(ctx, c, tenantID).Where("id = ?", id).Delete(&models.Document{})
	if res.Error != nil {
		return "", storageError("delete", c, res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrNotFound
	}
	return id, nil
}

func (s *PostgresStore) Query(ctx context.Context, c Collection, filter Filter, tenantID string) ([]Document, error) {
	normalized, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	q := s.scoped(ctx, c, tenantID)
	for key, value := range normalized {
		q = q.Where(datatypes.JSONQuery("data").Equals(value, key))
	}

	var rows []models.Document
	if err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, storageError("query", c, err)
	}

	result := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		// json_extract_path_text compares text; recheck typed equality
		if matches(doc, normalized) {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (s *PostgresStore) Health(ctx context.Context) (Health, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return Health{Driver: DriverPostgres, Status: "unhealthy"}, storageError("health", "", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return Health{Driver: DriverPostgres, Status: "unhealthy"}, storageError("health", "", err)
	}

	var counts []struct {
		Collection string
		Count      int
	}
	err = s.db.WithContext(ctx).Model(&models.Document{}).
		Select("collection, count(*) AS count").
		Group("collection").
		Scan(&counts).Error
	if err != nil {
		return Health{Driver: DriverPostgres, Status: "unhealthy"}, storageError("health", "", err)
	}
	health := Health{Driver: DriverPostgres, Status: "healthy", Collections: map[Collection]int{}}
	for _, row := range counts {
		health.Collections[Collection(row.Collection)] = row.Count
	}
	return health, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(c Collection, doc Document) (*models.Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, ErrInvalidRecord
	}
	row := &models.Document{
		Collection: string(c),
		ID:         doc.ID(),
		Data:       datatypes.JSON(raw),
		CreatedAt:  createdAt(doc),
		UpdatedAt:  createdAt(doc),
	}
	if tenantID := doc.TenantID(); tenantID != "" {
		row.TenantID = &tenantID
	}
	return row, nil
}

func fromRow(row models.Document) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(row.Data, &doc); err != nil {
		return nil, storageError("decode", Collection(row.Collection), err)
	}
	return doc, nil
}
