// Shipper is an slog.Handler that stores log records in a MongoDB collection
// without ever blocking the caller:
//
//   - records are enqueued into a buffered channel; if it is full the record
//     is dropped, never waited on
//   - one background goroutine drains the channel and writes batches with
//     InsertMany
//   - Close() flushes what remains and disconnects
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	shipQueueSize = 2048
	shipBatchSize = 50
	shipFlushTick = 2 * time.Second
)

type shipRecord struct {
	Time  time.Time `bson:"time"`
	Level string    `bson:"level"`
	Msg   string    `bson:"msg"`
	Attrs bson.M    `bson:"attrs,omitempty"`
}

// Shipper ships slog records to MongoDB asynchronously.
type Shipper struct {
	client *mongo.Client
	col    *mongo.Collection
	queue  chan shipRecord
	done   chan struct{}
	attrs  []slog.Attr
}

// NewShipper connects to uri and targets db/collection. The caller must
// eventually call Close.
func NewShipper(uri, db, collection string) (*Shipper, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})

	s := &Shipper{
		client: client,
		col:    col,
		queue:  make(chan shipRecord, shipQueueSize),
		done:   make(chan struct{}),
	}
	go s.drain()
	return s, nil
}

func (s *Shipper) Enabled(context.Context, slog.Level) bool { return true }

func (s *Shipper) Handle(_ context.Context, r slog.Record) error {
	rec := shipRecord{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}
	for _, a := range s.attrs {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()
		return true
	})

	select {
	case s.queue <- rec:
	default:
		// dropped; logging must never block
	}
	return nil
}

func (s *Shipper) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(s.attrs)+len(attrs))
	merged = append(merged, s.attrs...)
	merged = append(merged, attrs...)
	clone := *s
	clone.attrs = merged
	return &clone
}

func (s *Shipper) WithGroup(string) slog.Handler { return s }

func (s *Shipper) drain() {
	ticker := time.NewTicker(shipFlushTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, shipBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = s.col.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case rec := <-s.queue:
			batch = append(batch, rec)
			if len(batch) >= shipBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for {
				select {
				case rec := <-s.queue:
					batch = append(batch, rec)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close flushes pending records and disconnects. Safe to call more than once.
func (s *Shipper) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}
