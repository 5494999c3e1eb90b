package main

import (
	"fmt"
	"sync"

	"taskman/models"
)

// In-memory stores for tests, mirroring the gorm-backed implementations.

type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (s *memUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return fmt.Errorf("duplicate email %q", user.Email)
	}
	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.users[user.Email] = &stored
	return nil
}

func (s *memUserStore) FindByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *user
	return &found, nil
}

func (s *memUserStore) ExistsByEmail(email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[email]
	return ok, nil
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type memTaskStore struct {
	mu     sync.Mutex
	nextID uint
	tasks  map[uint]*models.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[uint]*models.Task)}
}

func (s *memTaskStore) Create(task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task.ID = s.nextID
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *memTaskStore) ListByOwner(userID uint) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for id := uint(1); id <= s.nextID; id++ {
		if task, ok := s.tasks[id]; ok && task.UserID == userID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (s *memTaskStore) FindByID(id uint) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	found := *task
	return &found, nil
}

func (s *memTaskStore) Save(task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return ErrTaskNotFound
	}
	stored := *task
	s.tasks[task.ID] = &stored
	return nil
}

func (s *memTaskStore) Delete(task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, task.ID)
	return nil
}
