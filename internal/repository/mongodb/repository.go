package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

const (
	stockCollection        = "stock"
	transactionsCollection = "transactions"
)

// MongoDBRepository stores stock lines and movements in two MongoDB collections.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// EnsureIndexes makes product and transaction IDs unique.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := r.db.Collection(stockCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "product_id", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create stock index: %w", err)
	}

	if _, err := r.db.Collection(transactionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transaction_id", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create transactions index: %w", err)
	}
	return nil
}

// ListStock returns every stock line ordered by product ID.
func (r *MongoDBRepository) ListStock(ctx context.Context) ([]models.StockRecord, error) {
	cursor, err := r.db.Collection(stockCollection).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "product_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}

	var docs []stockDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode stock: %w", err)
	}

	records := make([]models.StockRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// UpsertStock replaces the document of record.ProductID, inserting it when absent.
func (r *MongoDBRepository) UpsertStock(ctx context.Context, record models.StockRecord) error {
	doc, err := newStockDocument(record)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(stockCollection).ReplaceOne(ctx,
		bson.D{{Key: "product_id", Value: record.ProductID}},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert stock %d: %w", record.ProductID, err)
	}
	return nil
}

// ListTransactions returns the movement history ordered by transaction ID.
func (r *MongoDBRepository) ListTransactions(ctx context.Context) ([]models.TransactionRecord, error) {
	cursor, err := r.db.Collection(transactionsCollection).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "transaction_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	var docs []transactionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	txs := make([]models.TransactionRecord, 0, len(docs))
	for _, doc := range docs {
		tx, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// AppendTransaction inserts one movement.
func (r *MongoDBRepository) AppendTransaction(ctx context.Context, tx models.TransactionRecord) error {
	doc, err := newTransactionDocument(tx)
	if err != nil {
		return err
	}

	if _, err := r.db.Collection(transactionsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

type stockDocument struct {
	ProductID   int64                `bson:"product_id"`
	ProductName string               `bson:"product_name"`
	ProductType string               `bson:"product_type"`
	UnitValue   primitive.Decimal128 `bson:"unit_value"`
	Quantity    int64                `bson:"quantity"`
	LastUpdated time.Time            `bson:"last_updated"`
}

type transactionDocument struct {
	TransactionID int64                `bson:"transaction_id"`
	OccurredAt    time.Time            `bson:"occurred_at"`
	ProductID     int64                `bson:"product_id"`
	ProductName   string               `bson:"product_name"`
	ProductType   string               `bson:"product_type"`
	Movement      string               `bson:"movement"`
	Quantity      int64                `bson:"quantity"`
	UnitValue     primitive.Decimal128 `bson:"unit_value"`
	TotalValue    primitive.Decimal128 `bson:"total_value"`
}

func newStockDocument(rec models.StockRecord) (stockDocument, error) {
	unit, err := toDecimal128(rec.UnitValue)
	if err != nil {
		return stockDocument{}, err
	}
	return stockDocument{
		ProductID:   rec.ProductID,
		ProductName: rec.ProductName,
		ProductType: rec.ProductType,
		UnitValue:   unit,
		Quantity:    rec.Quantity,
		LastUpdated: rec.LastUpdated.Time,
	}, nil
}

func (d stockDocument) toModel() (models.StockRecord, error) {
	unit, err := fromDecimal128(d.UnitValue)
	if err != nil {
		return models.StockRecord{}, err
	}
	rec := models.StockRecord{
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		ProductType: d.ProductType,
		UnitValue:   unit,
		Quantity:    d.Quantity,
	}
	if !d.LastUpdated.IsZero() {
		rec.LastUpdated = models.NewDate(d.LastUpdated)
	}
	return rec.WithTotal(), nil
}

func newTransactionDocument(tx models.TransactionRecord) (transactionDocument, error) {
	unit, err := toDecimal128(tx.UnitValue)
	if err != nil {
		return transactionDocument{}, err
	}
	total, err := toDecimal128(tx.TotalValue)
	if err != nil {
		return transactionDocument{}, err
	}
	return transactionDocument{
		TransactionID: tx.TransactionID,
		OccurredAt:    tx.OccurredAt.UTC(),
		ProductID:     tx.ProductID,
		ProductName:   tx.ProductName,
		ProductType:   tx.ProductType,
		Movement:      string(tx.Movement),
		Quantity:      tx.Quantity,
		UnitValue:     unit,
		TotalValue:    total,
	}, nil
}

func (d transactionDocument) toModel() (models.TransactionRecord, error) {
	unit, err := fromDecimal128(d.UnitValue)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	total, err := fromDecimal128(d.TotalValue)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	return models.TransactionRecord{
		TransactionID: d.TransactionID,
		OccurredAt:    d.OccurredAt,
		ProductID:     d.ProductID,
		ProductName:   d.ProductName,
		ProductType:   d.ProductType,
		Movement:      models.MovementType(d.Movement),
		Quantity:      d.Quantity,
		UnitValue:     unit,
		TotalValue:    total,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return out, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %s: %w", d, err)
	}
	return out, nil
}
