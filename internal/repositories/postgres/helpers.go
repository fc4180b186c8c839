package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Repository is the gorm backed repositories.Repository.
type Repository struct {
	db              *gorm.DB
	questions       repositories.CodingQuestionRepository
	assessments     repositories.AssessmentRepository
	responses       repositories.ResponseRepository
	integrityEvents repositories.IntegrityEventRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:              db,
		questions:       NewCodingQuestionPostgreSQL(db),
		assessments:     NewAssessmentPostgreSQL(db),
		responses:       NewResponsePostgreSQL(db),
		integrityEvents: NewIntegrityEventPostgreSQL(db),
	}
}

func (r *Repository) Questions() repositories.CodingQuestionRepository {
	return r.questions
}

func (r *Repository) Assessments() repositories.AssessmentRepository {
	return r.assessments
}

func (r *Repository) Responses() repositories.ResponseRepository {
	return r.responses
}

func (r *Repository) IntegrityEvents() repositories.IntegrityEventRepository {
	return r.integrityEvents
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// getDB returns tx when a transaction is in progress.
func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// applyPaginationAndSort orders by a whitelisted column and pages the query.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, allowed map[string]bool, limit, offset int) *gorm.DB {
	if !allowed[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, order))

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	query = query.Limit(limit)
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
