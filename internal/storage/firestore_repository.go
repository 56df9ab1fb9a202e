package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	documentsCollection = "documents"
	relationsCollection = "document_relations"
)

type firestoreDocumentRepository struct {
	client *firestore.Client
}

// NewFirestoreDocumentRepository creates a Firestore-backed document repository.
func NewFirestoreDocumentRepository(client *firestore.Client) DocumentRepository {
	return &firestoreDocumentRepository{client: client}
}

func (r *firestoreDocumentRepository) FindByID(ctx context.Context, id string) (*Document, error) {
	doc, err := r.client.Collection(documentsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var document Document
	if err := doc.DataTo(&document); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	document.ID = doc.Ref.ID
	return &document, nil
}

func (r *firestoreDocumentRepository) FindByUserID(ctx context.Context, userID string) ([]Document, error) {
	iter := r.client.Collection(documentsCollection).
		Where("userId", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	documents := []Document{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var document Document
		if err := doc.DataTo(&document); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		document.ID = doc.Ref.ID
		documents = append(documents, document)
	}
	return documents, nil
}

func (r *firestoreDocumentRepository) Create(ctx context.Context, data CreateDocumentData) (*Document, error) {
	document := Document{
		UserID:       data.UserID,
		Title:        data.Title,
		StoragePath:  data.StoragePath,
		URL:          data.URL,
		DocumentSize: data.DocumentSize,
		MimeType:     data.MimeType,
		UploadedAt:   time.Now().UTC(),
	}

	ref, _, err := r.client.Collection(documentsCollection).Add(ctx, document)
	if err != nil {
		return nil, err
	}
	document.ID = ref.ID
	return &document, nil
}

func (r *firestoreDocumentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(documentsCollection).Doc(id).Delete(ctx)
	return err
}

type firestoreRelationRepository struct {
	client *firestore.Client
}

// NewFirestoreRelationRepository creates a Firestore-backed relation repository.
func NewFirestoreRelationRepository(client *firestore.Client) RelationRepository {
	return &firestoreRelationRepository{client: client}
}

func (r *firestoreRelationRepository) FindByID(ctx context.Context, id string) (*DocumentRelation, error) {
	doc, err := r.client.Collection(relationsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var relation DocumentRelation
	if err := doc.DataTo(&relation); err != nil {
		return nil, fmt.Errorf("unmarshal relation: %w", err)
	}
	relation.ID = doc.Ref.ID
	return &relation, nil
}

func (r *firestoreRelationRepository) FindByDocumentID(ctx context.Context, documentID string) ([]DocumentRelation, error) {
	query := r.client.Collection(relationsCollection).Where("documentId", "==", documentID)
	return r.collectRelations(ctx, query)
}

func (r *firestoreRelationRepository) FindByEntity(ctx context.Context, entityID string, entityType EntityType) ([]DocumentRelation, error) {
	query := r.client.Collection(relationsCollection).
		Where("entityId", "==", entityID).
		Where("entityType", "==", string(entityType))
	return r.collectRelations(ctx, query)
}

func (r *firestoreRelationRepository) collectRelations(ctx context.Context, query firestore.Query) ([]DocumentRelation, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	relations := []DocumentRelation{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var relation DocumentRelation
		if err := doc.DataTo(&relation); err != nil {
			return nil, fmt.Errorf("unmarshal relation: %w", err)
		}
		relation.ID = doc.Ref.ID
		relations = append(relations, relation)
	}
	return relations, nil
}

func (r *firestoreRelationRepository) Create(ctx context.Context, documentID, entityID string, entityType EntityType) (*DocumentRelation, error) {
	relation := DocumentRelation{
		DocumentID: documentID,
		EntityID:   entityID,
		EntityType: entityType,
	}

	ref, _, err := r.client.Collection(relationsCollection).Add(ctx, relation)
	if err != nil {
		return nil, err
	}
	relation.ID = ref.ID
	return &relation, nil
}

func (r *firestoreRelationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(relationsCollection).Doc(id).Delete(ctx)
	return err
}

// DeleteByDocumentID removes all relations referencing a document inside a
// single transaction, so a failing cascade never leaves partial state.
func (r *firestoreRelationRepository) DeleteByDocumentID(ctx context.Context, documentID string) error {
	query := r.client.Collection(relationsCollection).Where("documentId", "==", documentID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		iter := tx.Documents(query)
		defer iter.Stop()

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return err
			}
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		return nil
	})
}
