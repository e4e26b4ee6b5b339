package runs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/leafscan/pkg/pagination"
	"github.com/JaimeStill/leafscan/pkg/query"
	"github.com/JaimeStill/leafscan/pkg/repository"
)

const (
	insertRun = `
		INSERT INTO training_runs(id, artifact_key, model_id, classifier, samples, accuracy, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, artifact_key, model_id, classifier, samples, accuracy, duration_ms, created_at`

	insertClass = `
		INSERT INTO training_run_classes(run_id, class, samples)
		VALUES ($1, $2, $3)`

	selectClasses = `
		SELECT class, samples
		FROM training_run_classes
		WHERE run_id = $1
		ORDER BY class`
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a training run repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Run, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	args := []any{
		id,
		cmd.ArtifactKey,
		cmd.ModelID,
		cmd.Classifier,
		cmd.Samples,
		cmd.Accuracy,
		cmd.Duration.Milliseconds(),
	}

	classArgs := make([][]any, len(cmd.Classes))
	for i, cc := range cmd.Classes {
		classArgs[i] = []any{id, cc.Class, cc.Samples}
	}

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		run, err := repository.QueryOne(ctx, tx, insertRun, args, scanRun)
		if err != nil {
			return Run{}, err
		}
		if err := repository.ExecEach(ctx, tx, insertClass, classArgs); err != nil {
			return Run{}, err
		}
		run.Classes = cmd.Classes
		return run, nil
	})
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}

	r.logger.Info(
		"training run recorded",
		"id", run.ID,
		"model_id", run.ModelID,
		"samples", run.Samples,
		"accuracy", run.Accuracy,
	)
	return &run, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "artifact_key", "classifier", "model_id")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count training runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	runs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query training runs: %w", err)
	}

	result := pagination.NewPageResult(runs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("id", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}

	classes, err := repository.QueryMany(ctx, r.db, selectClasses, []any{id}, scanClassCount)
	if err != nil {
		return nil, fmt.Errorf("query run classes: %w", err)
	}
	run.Classes = classes

	return &run, nil
}
