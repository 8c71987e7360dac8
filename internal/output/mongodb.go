// internal/output/mongodb.go
package output

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fundscope/lpcrawler/internal/config"
	"github.com/fundscope/lpcrawler/internal/scraper"
)

// MongoWriter archives records as documents in a MongoDB collection
type MongoWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// NewMongoWriter connects to the configured deployment and verifies it is
// reachable before the run starts.
func NewMongoWriter(cfg *config.MongoConfig) (*MongoWriter, error) {
	timeout := cfg.Timeout.Std()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoWriter{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		timeout:    timeout,
	}, nil
}

// Write inserts one record document, stamped with the scrape time
func (w *MongoWriter) Write(rec *scraper.FundRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	_, err := w.collection.InsertOne(ctx, bson.M{
		"fund_name":              rec.FundName,
		"fund_url":               rec.FundURL,
		"aum":                    rec.AUM,
		"linkedin_url":           rec.LinkedInURL,
		"investment_geographies": rec.Geographies,
		"fund_description":       rec.Description,
		"fund_portfolio":         rec.Portfolio,
		"scraped_at":             time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// Close disconnects from the deployment
func (w *MongoWriter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return w.client.Disconnect(ctx)
}
