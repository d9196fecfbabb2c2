package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotelops/housekeeping/internal/domain"
)

// RequestFilter narrows request listings at the store.
type RequestFilter struct {
	AssigneeID *string
	Statuses   []domain.RequestStatus
}

// RequestRepository encapsulates request persistence.
// Update writes every mutable column in a single statement.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request) error
	Update(ctx context.Context, request *domain.Request) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.Request, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates the Postgres repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, room_number, guest_name, location, request_type, priority, status, description,
               notes, task_category, created_by_id, assigned_to_id, created_at, updated_at, completed_at`

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	const query = `
        INSERT INTO requests (room_number, guest_name, location, request_type, priority, status, description,
            notes, task_category, created_by_id, assigned_to_id, completed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		request.RoomNumber,
		request.GuestName,
		request.Location,
		request.RequestType,
		request.Priority,
		request.Status,
		request.Description,
		request.Notes,
		request.TaskCategory,
		request.CreatedByID,
		request.AssignedToID,
		request.CompletedAt,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) Update(ctx context.Context, request *domain.Request) error {
	if _, err := uuid.Parse(request.ID); err != nil {
		return ErrNotFound
	}
	const query = `
        UPDATE requests SET room_number=$1, guest_name=$2, location=$3, request_type=$4, priority=$5,
            status=$6, description=$7, notes=$8, task_category=$9, assigned_to_id=$10, completed_at=$11,
            updated_at=$12
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		request.RoomNumber,
		request.GuestName,
		request.Location,
		request.RequestType,
		request.Priority,
		request.Status,
		request.Description,
		request.Notes,
		request.TaskCategory,
		request.AssignedToID,
		request.CompletedAt,
		request.UpdatedAt,
		request.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var request domain.Request
	row := r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id=$1`, id)
	if err := scanRequest(row, &request); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	query, args, ok := buildListQuery(filter)
	if !ok {
		return []domain.Request{}, nil
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Request{}
	for rows.Next() {
		var request domain.Request
		if err := scanRequest(rows, &request); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}

// buildListQuery renders the filtered listing. ok is false when the filter cannot
// match any row, such as an assignee id that is not a uuid.
func buildListQuery(filter RequestFilter) (query string, args []any, ok bool) {
	clauses := []string{"1=1"}

	if filter.AssigneeID != nil {
		if _, err := uuid.Parse(*filter.AssigneeID); err != nil {
			return "", nil, false
		}
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query = fmt.Sprintf(`SELECT %s FROM requests WHERE %s ORDER BY created_at DESC`,
		requestColumns, strings.Join(clauses, " AND "))
	return query, args, true
}

func scanRequest(row pgx.Row, request *domain.Request) error {
	return row.Scan(
		&request.ID,
		&request.RoomNumber,
		&request.GuestName,
		&request.Location,
		&request.RequestType,
		&request.Priority,
		&request.Status,
		&request.Description,
		&request.Notes,
		&request.TaskCategory,
		&request.CreatedByID,
		&request.AssignedToID,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.CompletedAt,
	)
}
