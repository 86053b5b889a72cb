package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/logging"
	"github.com/dmitrijs2005/ele/internal/server/repositories/repomanager"
)

// DocumentService reads and writes JSON documents. A caller may only touch
// documents whose id is its own user id.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *DocumentService {
	return &DocumentService{db: db, repomanager: m, logger: l.With("module", "document_service")}
}

func checkOwner(userID, collection, id string) error {
	if collection == "" || id == "" {
		return common.ErrorValidation
	}
	if id != userID {
		return common.ErrorForbidden
	}
	return nil
}

// GetDocument reports found=false for a document never written.
func (s *DocumentService) GetDocument(ctx context.Context, userID, collection, id string) (map[string]any, bool, error) {
	if err := checkOwner(userID, collection, id); err != nil {
		return nil, false, err
	}

	doc, err := s.repomanager.Documents(s.db).Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error reading document: %w", err)
	}
	return doc.Fields, true, nil
}

// SetDocument replaces the document, or with merge overwrites only the
// top-level keys present in fields.
func (s *DocumentService) SetDocument(ctx context.Context, userID, collection, id string, fields map[string]any, merge bool) error {
	if err := checkOwner(userID, collection, id); err != nil {
		return err
	}

	repo := s.repomanager.Documents(s.db)
	var err error
	if merge {
		err = repo.Merge(ctx, collection, id, fields)
	} else {
		err = repo.Put(ctx, collection, id, fields)
	}
	if err != nil {
		return fmt.Errorf("error writing document: %w", err)
	}

	s.logger.Debug(ctx, "document written", "collection", collection, "id", id, "merge", merge)
	return nil
}
