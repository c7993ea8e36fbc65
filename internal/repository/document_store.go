package repository

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrDocumentNotFound is returned by Get when the document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// Document is a raw schema-less document and its identity.
type Document struct {
	ID   string
	Data map[string]any
}

// DocumentStore handles Firestore reads and writes for listing data.
type DocumentStore struct {
	client *firestore.Client
}

func NewDocumentStore(client *firestore.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

// Get reads one document by identity.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrDocumentNotFound
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrDocumentNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	if !snap.Exists() {
		return Document{}, ErrDocumentNotFound
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

// Query reads every document matching the constraint set, in constraint order.
func (s *DocumentStore) Query(ctx context.Context, qs QuerySpec) ([]Document, error) {
	q := s.client.Collection(qs.Collection).Query
	for _, c := range qs.Constraints {
		switch c.Kind {
		case ConstraintWhere:
			q = q.Where(c.Field, c.Op, c.Value)
		case ConstraintOrderBy:
			dir := firestore.Asc
			if c.Direction == Desc {
				dir = firestore.Desc
			}
			q = q.OrderBy(c.Field, dir)
		case ConstraintLimit:
			q = q.Limit(c.Limit)
		}
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate %s: %w", qs.Collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

// Add writes a new document with a generated id. A createdAt server timestamp
// is stamped unless the caller already set one.
func (s *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	doc := make(map[string]any, len(data)+1)
	maps.Copy(doc, data)
	if _, ok := doc["createdAt"]; !ok {
		doc["createdAt"] = firestore.ServerTimestamp
	}
	ref, _, err := s.client.Collection(collection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, err)
	}
	return ref.ID, nil
}
