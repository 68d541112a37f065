package complaints

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/JaimeStill/bulletin/internal/attachments"
	"github.com/JaimeStill/bulletin/internal/records"
	"github.com/JaimeStill/bulletin/internal/sequence"
	"github.com/JaimeStill/bulletin/pkg/pagination"
	"github.com/JaimeStill/bulletin/pkg/query"
	"github.com/JaimeStill/bulletin/pkg/repository"
)

type repo struct {
	db          repository.DB
	records     *records.Service
	attachments *attachments.Store
	logger      *slog.Logger
	pagination  pagination.Config
}

// New creates a complaint repository implementing the System interface.
func New(
	db repository.DB,
	records *records.Service,
	files *attachments.Store,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:          db,
		records:     records,
		attachments: files,
		logger:      logger.With("system", "complaints"),
		pagination:  pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Complaint], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "subject", "description", "student_name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	complaints, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanComplaint)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}

	result := pagination.NewPageResult(complaints, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Complaint, error) {
	q, args := query.NewBuilder(projection).BuildSingle("complaint_id", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanComplaint)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate, ErrInvalidInput)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Complaint, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	prepared, err := r.records.PrepareCreate(ctx, sequence.Complaint, cmd.Classification)
	if err != nil {
		return nil, err
	}

	stored, err := r.attachments.Put(ctx, sequence.Complaint, prepared.ID, cmd.Attachments)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO complaints(complaint_id, student_name, status, subject, description, resolution,
			category_code, category_label, category_free_text,
			department_code, department_label, department_free_text,
			image_key, pdf_key, pdf_pages)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + columns

	args := []any{
		prepared.ID,
		cmd.StudentName,
		string(cmd.Status),
		cmd.Subject,
		cmd.Description,
		cmd.Resolution,
		prepared.Category.Code,
		prepared.Category.Label,
		prepared.Category.FreeText,
		prepared.Department.Code,
		prepared.Department.Label,
		prepared.Department.FreeText,
		stored.ImageKey,
		stored.PDFKey,
		stored.PDFPages,
	}

	c, err := repository.WithTx(ctx, r.db, func(tx pgx.Tx) (Complaint, error) {
		return repository.QueryOne(ctx, tx, q, args, scanComplaint)
	})

	if err != nil {
		r.attachments.Remove(context.WithoutCancel(ctx), stored.Keys()...)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate, ErrInvalidInput)
	}

	r.logger.Info("complaint created", "id", c.ID, "category", c.Category.Code)
	return &c, nil
}

func (r *repo) Update(ctx context.Context, id string, cmd UpdateCommand) (*Complaint, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	patch, err := r.records.PrepareUpdate(sequence.Complaint, cmd.Classification)
	if err != nil {
		return nil, err
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := r.attachments.Put(ctx, sequence.Complaint, id, cmd.Attachments)
	if err != nil {
		return nil, err
	}

	upd := query.NewUpdate("complaints").
		SetIf(cmd.StudentName != nil, "student_name", cmd.StudentName).
		SetIf(cmd.Subject != nil, "subject", cmd.Subject).
		SetIf(cmd.Description != nil, "description", cmd.Description).
		SetIf(cmd.Resolution != nil, "resolution", cmd.Resolution)

	if cmd.Status != nil {
		upd.Set("status", string(*cmd.Status))
	}
	if patch.Category != nil {
		upd.Set("category_code", patch.Category.Code).
			Set("category_label", patch.Category.Label).
			Set("category_free_text", patch.Category.FreeText)
	}
	if patch.Department != nil {
		upd.Set("department_code", patch.Department.Code).
			Set("department_label", patch.Department.Label).
			Set("department_free_text", patch.Department.FreeText)
	}

	upd.SetIf(stored.ImageKey != nil, "image_key", stored.ImageKey).
		SetIf(stored.PDFKey != nil, "pdf_key", stored.PDFKey).
		SetIf(stored.PDFKey != nil, "pdf_pages", stored.PDFPages)

	if upd.Empty() {
		return current, nil
	}

	q, args := upd.Build("complaint_id", id, "updated_at", columns)

	c, err := repository.WithTx(ctx, r.db, func(tx pgx.Tx) (Complaint, error) {
		return repository.QueryOne(ctx, tx, q, args, scanComplaint)
	})

	if err != nil {
		r.attachments.Remove(context.WithoutCancel(ctx), stored.Keys()...)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate, ErrInvalidInput)
	}

	r.attachments.Remove(context.WithoutCancel(ctx), replaced(current, stored)...)

	if c.Status != current.Status {
		r.logger.Info("complaint status changed", "id", c.ID, "from", current.Status, "to", c.Status)
	}
	r.logger.Info("complaint updated", "id", c.ID)
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	c, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM complaints WHERE complaint_id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate, ErrInvalidInput)
	}

	r.attachments.Remove(context.WithoutCancel(ctx), attachments.Stored{ImageKey: c.ImageKey, PDFKey: c.PDFKey}.Keys()...)

	r.logger.Info("complaint deleted", "id", id)
	return nil
}

func replaced(current *Complaint, stored attachments.Stored) []string {
	var old attachments.Stored
	if stored.ImageKey != nil {
		old.ImageKey = current.ImageKey
	}
	if stored.PDFKey != nil {
		old.PDFKey = current.PDFKey
	}
	return old.Keys()
}
