package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/busops_backend/utils"

	_ "github.com/go-sql-driver/mysql"
)

// Document is the MySQL row behind every collection. Payload keeps the
// original string-typed fields exactly as the conductor app submitted them
// (fares stay currency-formatted, timestamps stay decimal strings); ts is a
// denormalized copy of the payload timestamp so range scans can use an index.
type Document struct {
	DocID      string    `gorm:"primaryKey;size:36;column:doc_id" json:"doc_id"`
	Collection string    `gorm:"size:64;not null;index:idx_documents_coll_ts,priority:1" json:"collection"`
	Payload    string    `gorm:"type:json;not null" json:"payload"`
	Ts         int64     `gorm:"column:ts;index:idx_documents_coll_ts,priority:2" json:"ts"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type MySQLStore struct {
	db *gorm.DB
}

func NewMySQLStore(db *gorm.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Migrate() error {
	return s.db.AutoMigrate(&Document{})
}

var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

func (s *MySQLStore) Get(ctx context.Context, collection string, id string) (RawDocument, error) {
	var row Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return RawDocument{}, utils.ErrorRecordNotFound
	}
	if err != nil {
		return RawDocument{}, utils.StoreError(err)
	}
	return rowToDocument(row)
}

func (s *MySQLStore) List(ctx context.Context, collection string, q Query) ([]RawDocument, error) {
	tx := s.db.WithContext(ctx).Model(&Document{}).Where("collection = ?", collection)

	for field, value := range q.Equals {
		if !fieldNamePattern.MatchString(field) {
			return nil, utils.NewValidationError("query", fmt.Sprintf("bad field name %q", field))
		}
		tx = tx.Where("JSON_UNQUOTE(JSON_EXTRACT(payload, ?)) = ?", "$."+field, value)
	}
	if q.GTE != nil {
		tx = tx.Where("ts >= ?", *q.GTE)
	}
	if q.LTE != nil {
		tx = tx.Where("ts <= ?", *q.LTE)
	}
	if q.CursorAfter != "" {
		tx = tx.Where("doc_id > ?", q.CursorAfter).Order("doc_id ASC")
	} else if q.OrderBy != "" {
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		switch q.OrderBy {
		case "timestamp":
			tx = tx.Order("ts " + dir)
		case "createdAt":
			tx = tx.Order("created_at " + dir)
		default:
			tx = tx.Order("doc_id " + dir)
		}
	} else {
		tx = tx.Order("doc_id ASC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []Document
	if err := tx.Find(&rows).Error; err != nil {
		return nil, utils.StoreError(err)
	}

	docs := make([]RawDocument, 0, len(rows))
	for _, row := range rows {
		doc, err := rowToDocument(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MySQLStore) Create(ctx context.Context, collection string, id string, fields map[string]string) (RawDocument, error) {
	if id == "" {
		id = uuid.NewString()
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return RawDocument{}, err
	}
	row := Document{
		DocID:      id,
		Collection: collection,
		Payload:    string(payload),
		Ts:         tsFromFields(fields),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return RawDocument{}, utils.StoreError(err)
	}
	return rowToDocument(row)
}

func (s *MySQLStore) Update(ctx context.Context, collection string, id string, fields map[string]string) (RawDocument, error) {
	var row Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return RawDocument{}, utils.ErrorRecordNotFound
	}
	if err != nil {
		return RawDocument{}, utils.StoreError(err)
	}

	merged := map[string]string{}
	if err := json.Unmarshal([]byte(row.Payload), &merged); err != nil {
		merged = map[string]string{}
	}
	for k, v := range fields {
		merged[k] = v
	}
	payload, err := json.Marshal(merged)
	if err != nil {
		return RawDocument{}, err
	}
	row.Payload = string(payload)
	row.Ts = tsFromFields(merged)
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return RawDocument{}, utils.StoreError(err)
	}
	return rowToDocument(row)
}

func rowToDocument(row Document) (RawDocument, error) {
	fields := map[string]string{}
	if row.Payload != "" {
		if err := json.Unmarshal([]byte(row.Payload), &fields); err != nil {
			return RawDocument{}, fmt.Errorf("document %s: %w", row.DocID, err)
		}
	}
	return RawDocument{
		ID:        row.DocID,
		CreatedAt: row.CreatedAt,
		Fields:    fields,
	}, nil
}

func tsFromFields(fields map[string]string) int64 {
	if raw, ok := fields["timestamp"]; ok {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	}
	return time.Now().UnixMilli()
}
