package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/housekeeping/internal/domain"
)

// userRecord and requestRecord are the gorm table mappings used by the SQLite backend.
type userRecord struct {
	ID        string  `gorm:"primaryKey;type:text"`
	Name      string  `gorm:"not null"`
	Role      string  `gorm:"not null;index"`
	Email     *string `gorm:"uniqueIndex"`
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRecord) TableName() string { return "users" }

type requestRecord struct {
	ID           string  `gorm:"primaryKey;type:text"`
	RoomNumber   *string `gorm:"index"`
	GuestName    *string
	Location     *string
	RequestType  string `gorm:"not null"`
	Priority     string `gorm:"not null"`
	Status       string `gorm:"not null;index;default:PENDING"`
	Description  string `gorm:"type:text;not null"`
	Notes        *string `gorm:"type:text"`
	TaskCategory *string `gorm:"index"`
	CreatedByID  string  `gorm:"not null;index"`
	AssignedToID *string `gorm:"index"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

func (requestRecord) TableName() string { return "requests" }

// AutoMigrate creates or updates the SQLite schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRecord{}, &requestRecord{})
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository returns a gorm-backed UserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	rec := toUserRecord(user)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	*user = rec.toDomain()
	return nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *domain.User) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", user.ID).Updates(map[string]any{
		"name":       user.Name,
		"role":       string(user.Role),
		"email":      user.Email,
		"phone":      user.Phone,
		"updated_at": now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *gormUserRepository) List(ctx context.Context) ([]domain.User, error) {
	var records []userRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		users = append(users, rec.toDomain())
	}
	return users, nil
}

func (r *gormUserRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user := rec.toDomain()
	return &user, nil
}

type gormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository returns a gorm-backed RequestRepository.
func NewGormRequestRepository(db *gorm.DB) RequestRepository {
	return &gormRequestRepository{db: db}
}

func (r *gormRequestRepository) Create(ctx context.Context, request *domain.Request) error {
	rec := toRequestRecord(request)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	*request = rec.toDomain()
	return nil
}

func (r *gormRequestRepository) Update(ctx context.Context, request *domain.Request) error {
	rec := toRequestRecord(request)
	res := r.db.WithContext(ctx).Model(&requestRecord{}).Where("id = ?", request.ID).Updates(map[string]any{
		"room_number":    rec.RoomNumber,
		"guest_name":     rec.GuestName,
		"location":       rec.Location,
		"request_type":   rec.RequestType,
		"priority":       rec.Priority,
		"status":         rec.Status,
		"description":    rec.Description,
		"notes":          rec.Notes,
		"task_category":  rec.TaskCategory,
		"assigned_to_id": rec.AssignedToID,
		"completed_at":   rec.CompletedAt,
		"updated_at":     rec.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRequestRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&requestRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRequestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	var rec requestRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	request := rec.toDomain()
	return &request, nil
}

func (r *gormRequestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	query := r.db.WithContext(ctx).Model(&requestRecord{})
	if filter.AssigneeID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssigneeID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}

	var records []requestRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Request, 0, len(records))
	for _, rec := range records {
		result = append(result, rec.toDomain())
	}
	return result, nil
}

func toUserRecord(user *domain.User) userRecord {
	return userRecord{
		ID:        user.ID,
		Name:      user.Name,
		Role:      string(user.Role),
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (rec userRecord) toDomain() domain.User {
	return domain.User{
		ID:        rec.ID,
		Name:      rec.Name,
		Role:      domain.UserRole(rec.Role),
		Email:     rec.Email,
		Phone:     rec.Phone,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func toRequestRecord(request *domain.Request) requestRecord {
	rec := requestRecord{
		ID:           request.ID,
		RoomNumber:   request.RoomNumber,
		GuestName:    request.GuestName,
		Location:     request.Location,
		RequestType:  request.RequestType,
		Priority:     string(request.Priority),
		Status:       string(request.Status),
		Description:  request.Description,
		Notes:        request.Notes,
		CreatedByID:  request.CreatedByID,
		AssignedToID: request.AssignedToID,
		CreatedAt:    request.CreatedAt,
		UpdatedAt:    request.UpdatedAt,
		CompletedAt:  request.CompletedAt,
	}
	if request.TaskCategory != nil {
		category := string(*request.TaskCategory)
		rec.TaskCategory = &category
	}
	return rec
}

func (rec requestRecord) toDomain() domain.Request {
	request := domain.Request{
		ID:           rec.ID,
		RoomNumber:   rec.RoomNumber,
		GuestName:    rec.GuestName,
		Location:     rec.Location,
		RequestType:  rec.RequestType,
		Priority:     domain.RequestPriority(rec.Priority),
		Status:       domain.RequestStatus(rec.Status),
		Description:  rec.Description,
		Notes:        rec.Notes,
		CreatedByID:  rec.CreatedByID,
		AssignedToID: rec.AssignedToID,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		CompletedAt:  rec.CompletedAt,
	}
	if rec.TaskCategory != nil {
		category := domain.TaskCategory(*rec.TaskCategory)
		request.TaskCategory = &category
	}
	return request
}
