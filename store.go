package main

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskman/models"
)

// UserStore is the user-lookup collaborator of the auth core.
type UserStore interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
}

// TaskStore persists the tasks owned by users.
type TaskStore interface {
	Create(task *models.Task) error
	ListByOwner(userID uint) ([]models.Task, error)
	FindByID(id uint) (*models.Task, error)
	Save(task *models.Task) error
	Delete(task *models.Task) error
}

type gormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) Create(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *gormUserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *gormUserStore) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

type gormTaskStore struct {
	db *gorm.DB
}

func NewGormTaskStore(db *gorm.DB) TaskStore {
	return &gormTaskStore{db: db}
}

func (s *gormTaskStore) Create(task *models.Task) error {
	if err := s.db.Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *gormTaskStore) ListByOwner(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *gormTaskStore) FindByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

func (s *gormTaskStore) Save(task *models.Task) error {
	if err := s.db.Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (s *gormTaskStore) Delete(task *models.Task) error {
	if err := s.db.Delete(task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
