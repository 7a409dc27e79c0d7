package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/order-service/internal/core/domain"
)

const collectionPayments = "payments"

// PaymentRepository implements ports.PaymentRepository using MongoDB.
type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

type paymentDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	OrderID       int64                `bson:"order_id"`
	UserID        int64                `bson:"user_id"`
	Amount        primitive.Decimal128 `bson:"amount"`
	Method        string               `bson:"method"`
	TransactionID string               `bson:"transaction_id"`
	Status        string               `bson:"status"`
	CreatedAt     time.Time            `bson:"created_at"`
}

func toPaymentDoc(p *domain.Payment) (paymentDoc, error) {
	amount, err := primitive.ParseDecimal128(p.Amount.String())
	if err != nil {
		return paymentDoc{}, fmt.Errorf("encode amount: %w", err)
	}
	return paymentDoc{
		OrderID:       p.OrderID,
		UserID:        p.UserID,
		Amount:        amount,
		Method:        string(p.Method),
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt.UTC(),
	}, nil
}

func fromPaymentDoc(d paymentDoc) (*domain.Payment, error) {
	amount, err := decimal.NewFromString(d.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("decode amount: %w", err)
	}
	return &domain.Payment{
		ID:            d.ID.Hex(),
		OrderID:       d.OrderID,
		UserID:        d.UserID,
		Amount:        amount,
		Method:        domain.PaymentMethod(d.Method),
		TransactionID: d.TransactionID,
		Status:        domain.PaymentStatus(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
	}, nil
}

// Create inserts a payment document and returns it with its generated id.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toPaymentDoc(p)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	return fromPaymentDoc(doc)
}

// FindByID retrieves a payment by its hex ObjectID. Malformed ids are
// reported as not found.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc paymentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return fromPaymentDoc(doc)
}

// ListByOrder returns the payments of an order, oldest first.
func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"order_id": orderID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	var docs []paymentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}

	payments := make([]*domain.Payment, 0, len(docs))
	for _, d := range docs {
		p, err := fromPaymentDoc(d)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// EnsureIndexes creates necessary indexes on the payments collection.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
