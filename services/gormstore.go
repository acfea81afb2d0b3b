// services/gormstore.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// GormStoreService implements DocumentStore over a single documents table.
// Each document is one JSON payload keyed by (collection, doc id); query
// filters apply to top-level fields after decode. BatchWrite maps onto a
// gorm transaction, which provides the all-or-nothing semantics the
// structure editor relies on.
type GormStoreService struct {
	appContext.DefaultService
	db *gorm.DB

	driver   string
	database string
}

const GORM_STORE_SVC = "gorm_store_svc"

func (ds GormStoreService) Id() string {
	return GORM_STORE_SVC
}

// Db Access to the raw gorm handle
func (ds GormStoreService) Db() *gorm.DB {
	return ds.db
}

func (ds *GormStoreService) Configure(ctx *appContext.Context) error {
	ds.driver = os.Getenv("DB_DRIVER")
	if ds.driver == "" {
		ds.driver = "sqlite"
	}

	ds.database = os.Getenv("DB_DATABASE")
	if ds.database == "" {
		ds.database = "academy.db"
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *GormStoreService) Start() (err error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	switch ds.driver {
	case "postgres":
		ds.db, err = gorm.Open(postgres.Open(ds.database), cfg)
	case "sqlite":
		ds.db, err = gorm.Open(sqlite.Open(ds.database), cfg)
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", ds.driver)
	}
	if err != nil {
		return err
	}

	if err = ds.db.AutoMigrate(&model.Document{}); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Document store connected and migrated")
	return nil
}

func (ds *GormStoreService) Shutdown() {
}

func (ds *GormStoreService) Get(ctx context.Context, collection, id string, out interface{}) error {
	var doc model.Document
	err := ds.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&doc).Error
	if err != nil {
		return ds.handleError(collection, id, err)
	}

	return shared.Unmarshal(doc.Data, out)
}

func (ds *GormStoreService) Query(ctx context.Context, collection string, where []Where, orderBy string, out interface{}) error {
	var docs []model.Document
	err := ds.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("doc_id").
		Find(&docs).Error
	if err != nil {
		return ds.handleError(collection, "", err)
	}

	type decoded struct {
		raw    []byte
		fields map[string]interface{}
	}

	matched := make([]decoded, 0, len(docs))
	for _, doc := range docs {
		var fields map[string]interface{}
		if err := shared.Unmarshal(doc.Data, &fields); err != nil {
			log.WithFields(log.Fields{"collection": collection, "doc_id": doc.DocID}).
				Warnf("Skipping undecodable document: %v", err)
			continue
		}

		ok := true
		for _, w := range where {
			if fmt.Sprint(fields[w.Field]) != fmt.Sprint(w.Value) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, decoded{raw: doc.Data, fields: fields})
		}
	}

	if orderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			return lessJSONValue(matched[i].fields[orderBy], matched[j].fields[orderBy])
		})
	}

	// Re-marshal the matching payloads as one JSON array so the caller's
	// typed slice gets a single decode pass.
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, m := range matched {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(m.raw)
	}
	buf.WriteByte(']')

	return shared.Unmarshal(buf.Bytes(), out)
}

func (ds *GormStoreService) Set(ctx context.Context, collection, id string, doc interface{}) error {
	data, err := shared.Marshal(doc)
	if err != nil {
		return shared.NewInternalError(err, "failed to encode document")
	}

	row := model.Document{Collection: collection, DocID: id, Data: data}
	err = ds.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return ds.handleError(collection, id, err)
	}
	return nil
}

func (ds *GormStoreService) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	return ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.Document
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&doc).Error
		if err != nil {
			return ds.handleError(collection, id, err)
		}

		var fields map[string]interface{}
		if err := shared.Unmarshal(doc.Data, &fields); err != nil {
			return shared.NewInternalError(err, "failed to decode stored document")
		}
		for k, v := range partial {
			fields[k] = v
		}

		data, err := shared.Marshal(fields)
		if err != nil {
			return shared.NewInternalError(err, "failed to encode document")
		}
		doc.Data = data

		return tx.Save(&doc).Error
	})
}

func (ds *GormStoreService) Delete(ctx context.Context, collection, id string) error {
	err := ds.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&model.Document{}).Error
	if err != nil {
		return ds.handleError(collection, id, err)
	}
	return nil
}

func (ds *GormStoreService) BatchWrite(ctx context.Context, ops []BatchOp) error {
	return ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			switch op.Op {
			case BatchOpSet:
				data, err := shared.Marshal(op.Doc)
				if err != nil {
					return shared.NewInternalError(err, "failed to encode batch document")
				}
				row := model.Document{Collection: op.Collection, DocID: op.ID, Data: data}
				if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
					return ds.handleError(op.Collection, op.ID, err)
				}
			case BatchOpDelete:
				if err := tx.Where("collection = ? AND doc_id = ?", op.Collection, op.ID).
					Delete(&model.Document{}).Error; err != nil {
					return ds.handleError(op.Collection, op.ID, err)
				}
			default:
				return shared.NewBadRequestError(nil, fmt.Sprintf("unknown batch op: %s", op.Op))
			}
		}
		return nil
	})
}

func (ds *GormStoreService) handleError(collection, id string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(err, fmt.Sprintf("%s/%s not found", collection, id))
	}

	log.WithFields(log.Fields{
		"collection": collection,
		"doc_id":     id,
		"error":      err.Error(),
	}).Error("Document store operation failed")

	return shared.NewStoreError(err, "document store operation failed")
}

// lessJSONValue orders decoded JSON values: numbers numerically, everything
// else by string form.
func lessJSONValue(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case interface{ Float64() (float64, error) }: // json.Number
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
