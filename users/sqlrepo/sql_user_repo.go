package sqlrepo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-account-service/users"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type userModel struct {
	ID                string  `gorm:"primaryKey;size:36"`
	Name              string  `gorm:"not null"`
	Email             string  `gorm:"uniqueIndex;size:320;not null"`
	PasswordHash      string  `gorm:"not null"`
	Verified          bool    `gorm:"not null;default:false"`
	VerificationToken *string `gorm:"index;size:128"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (userModel) TableName() string {
	return "users"
}

// SQLUserRepo stores users through gorm on postgres or sqlite.
type SQLUserRepo struct {
	db *gorm.DB
}

var _ users.UserRepo = (*SQLUserRepo)(nil)

// Open connects with the named driver ("postgres" or "sqlite") and sizes the pool.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database instance")
	}
	if driver == "sqlite" {
		// single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// New migrates the users table and returns the repo.
func New(db *gorm.DB) (*SQLUserRepo, error) {
	if err := db.AutoMigrate(&userModel{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return &SQLUserRepo{db: db}, nil
}

func (r *SQLUserRepo) Create(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	m := toModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		user.ID = ""
		return mapWriteError(err)
	}
	return nil
}

func (r *SQLUserRepo) Update(ctx context.Context, user *users.User) error {
	m := toModel(user)
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", user.ID).
		Select("name", "email", "password_hash", "verified", "verification_token", "updated_at").
		Updates(m)
	if res.Error != nil {
		return mapWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *SQLUserRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&userModel{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *SQLUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *SQLUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *SQLUserRepo) GetByVerificationToken(ctx context.Context, token string) (*users.User, error) {
	if token == "" {
		return nil, users.ErrNotFound
	}
	return r.first(ctx, "verification_token = ?", token)
}

func (r *SQLUserRepo) first(ctx context.Context, query string, arg any) (*users.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return m.toUser(), nil
}

func mapWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return users.ErrDuplicateEmail
	}
	return errors.Wrap(err, "write user")
}

func toModel(user *users.User) *userModel {
	m := &userModel{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Verified:     user.Verified,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if user.VerificationToken != "" {
		token := user.VerificationToken
		m.VerificationToken = &token
	}
	return m
}

func (m *userModel) toUser() *users.User {
	user := &users.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Verified:     m.Verified,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.VerificationToken != nil {
		user.VerificationToken = *m.VerificationToken
	}
	return user
}
