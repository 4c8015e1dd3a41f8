package widecolumn

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const namespaceExistsCode = 48

// MongoBackend 基于 MongoDB 的有序存储，每张表一个集合，_id 为行键
type MongoBackend struct {
	db *mongo.Database
}

type rowDocument struct {
	Key     string            `bson:"_id"`
	Columns map[string]string `bson:"cols"`
}

func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{db: db}
}

// Put 以 upsert 方式写入列，未指定的列保留
func (s *MongoBackend) Put(ctx context.Context, table, key string, cols map[string]string) error {
	_, err := s.db.Collection(table).UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": columnsSet(cols)},
		options.Update().SetUpsert(true),
	)
	return err
}

// PutBatch 使用一次 BulkWrite 写入多行
func (s *MongoBackend) PutBatch(ctx context.Context, table string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": row.Key}).
			SetUpdate(bson.M{"$set": columnsSet(row.Columns)}).
			SetUpsert(true))
	}
	_, err := s.db.Collection(table).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (s *MongoBackend) Get(ctx context.Context, table, key string) (map[string]string, error) {
	var doc rowDocument
	err := s.db.Collection(table).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Columns, nil
}

func (s *MongoBackend) Scan(ctx context.Context, table string, r Range) ([]Row, error) {
	filter := bson.M{}
	cond := bson.M{}
	if lo := r.lower(); lo != "" {
		cond["$gte"] = lo
	}
	if up := r.upper(); up != "" {
		cond["$lt"] = up
	} else if r.Prefix != "" {
		cond["$regex"] = "^" + regexp.QuoteMeta(r.Prefix)
	}
	if len(cond) > 0 {
		filter["_id"] = cond
	}

	dir := 1
	if r.Reverse {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: dir}})
	if r.Limit > 0 {
		opts.SetLimit(int64(r.Limit))
	}

	cursor, err := s.db.Collection(table).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []rowDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, Row{Key: doc.Key, Columns: doc.Columns})
	}
	return rows, nil
}

func (s *MongoBackend) Delete(ctx context.Context, table, key string) error {
	_, err := s.db.Collection(table).DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (s *MongoBackend) CreateTable(ctx context.Context, table string) error {
	err := s.db.CreateCollection(ctx, table)
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == namespaceExistsCode {
		return nil
	}
	return err
}

func (s *MongoBackend) DropTable(ctx context.Context, table string) error {
	return s.db.Collection(table).Drop(ctx)
}

func columnsSet(cols map[string]string) bson.M {
	set := bson.M{}
	for k, v := range cols {
		set["cols."+k] = v
	}
	return set
}
