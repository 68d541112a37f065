package notices

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

// New creates a notice repository implementing the System interface.
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
		logger:      logger.With("system", "notices"),
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
) (*pagination.PageResult[Notice], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "title", "content")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count notices: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	notices, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanNotice)
	if err != nil {
		return nil, fmt.Errorf("query notices: %w", err)
	}

	result := pagination.NewPageResult(notices, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Notice, error) {
	q, args := query.NewBuilder(projection).BuildSingle("notice_id", id)

	n, err := repository.QueryOne(ctx, r.db, q, args, scanNotice)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate, ErrInvalidInput)
	}
	return &n, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Notice, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	prepared, err := r.records.PrepareCreate(ctx, sequence.Notice, cmd.Classification)
	if err != nil {
		return nil, err
	}

	stored, err := r.attachments.Put(ctx, sequence.Notice, prepared.ID, cmd.Attachments)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO notices(notice_id, title, content,
			category_code, category_label, category_free_text,
			department_code, department_label, department_free_text,
			image_key, pdf_key, pdf_pages)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + columns

	args := []any{
		prepared.ID,
		cmd.Title,
		cmd.Content,
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

	n, err := repository.WithTx(ctx, r.db, func(tx pgx.Tx) (Notice, error) {
		return repository.QueryOne(ctx, tx, q, args, scanNotice)
	})

	if err != nil {
		r.attachments.Remove(context.WithoutCancel(ctx), stored.Keys()...)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate, ErrInvalidInput)
	}

	r.logger.Info("notice created", "id", n.ID, "category", n.Category.Code)
	return &n, nil
}

func (r *repo) Update(ctx context.Context, id string, cmd UpdateCommand) (*Notice, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	patch, err := r.records.PrepareUpdate(sequence.Notice, cmd.Classification)
	if err != nil {
		return nil, err
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := r.attachments.Put(ctx, sequence.Notice, id, cmd.Attachments)
	if err != nil {
		return nil, err
	}

	upd := query.NewUpdate("notices").
		SetIf(cmd.Title != nil, "title", cmd.Title).
		SetIf(cmd.Content != nil, "content", cmd.Content)

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

	q, args := upd.Build("notice_id", id, "updated_at", columns)

	n, err := repository.WithTx(ctx, r.db, func(tx pgx.Tx) (Notice, error) {
		return repository.QueryOne(ctx, tx, q, args, scanNotice)
	})

	if err != nil {
		r.attachments.Remove(context.WithoutCancel(ctx), stored.Keys()...)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate, ErrInvalidInput)
	}

	r.attachments.Remove(context.WithoutCancel(ctx), replaced(current, stored)...)

	r.logger.Info("notice updated", "id", n.ID)
	return &n, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	n, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM notices WHERE notice_id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate, ErrInvalidInput)
	}

	r.attachments.Remove(context.WithoutCancel(ctx), attachedKeys(n)...)

	r.logger.Info("notice deleted", "id", id)
	return nil
}

func attachedKeys(n *Notice) []string {
	return attachments.Stored{ImageKey: n.ImageKey, PDFKey: n.PDFKey}.Keys()
}

// replaced returns the keys of current attachments superseded by stored.
func replaced(current *Notice, stored attachments.Stored) []string {
	var old attachments.Stored
	if stored.ImageKey != nil {
		old.ImageKey = current.ImageKey
	}
	if stored.PDFKey != nil {
		old.PDFKey = current.PDFKey
	}
	return old.Keys()
}
