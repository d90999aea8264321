// Package session хранит состояние чата между обновлениями бота:
// кто вошёл и закэшированный список его смен.
package session

import (
	"context"
	"sync"

	"shiftbook/internal/domain"
)

// LoadFunc загружает смены пользователя из журнала.
type LoadFunc func(ctx context.Context, userID int64) ([]domain.Shift, error)

type entry struct {
	userID  int64
	shifts  []domain.Shift
	dirty   bool
	gen     uint64
	pending *domain.NewShift
}

// Store: сессии по chat id. Безопасен для конкурентного использования.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*entry
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*entry)}
}

// Login привязывает чат к пользователю; кэш смен сбрасывается.
func (s *Store) Login(chatID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = &entry{userID: userID, dirty: true}
}

func (s *Store) Logout(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// UserID: id вошедшего пользователя, false если вход не выполнен.
func (s *Store) UserID(chatID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[chatID]
	if !ok {
		return 0, false
	}
	return e.userID, true
}

// InvalidateUser помечает устаревшим кэш смен во всех чатах, вошедших
// под userID. Вызывается после каждого изменения журнала.
func (s *Store) InvalidateUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.sessions {
		if e.userID == userID {
			e.invalidate()
		}
	}
}

func (e *entry) invalidate() {
	e.dirty = true
	e.gen++
}

// Shifts возвращает закэшированные смены, перечитывая их через load
// только если кэш помечен устаревшим. Ошибка загрузки кэш не трогает.
func (s *Store) Shifts(ctx context.Context, chatID int64, load LoadFunc) ([]domain.Shift, error) {
	s.mu.Lock()
	e, ok := s.sessions[chatID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	if !e.dirty {
		shifts := e.shifts
		s.mu.Unlock()
		return shifts, nil
	}
	userID, gen := e.userID, e.gen
	s.mu.Unlock()

	shifts, err := load(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// за время загрузки чат мог выйти, войти под другим пользователем
	// или журнал мог измениться; тогда кэш остаётся устаревшим
	if cur, ok := s.sessions[chatID]; ok && cur == e && e.gen == gen {
		e.shifts = shifts
		e.dirty = false
	}
	return shifts, nil
}

// SetPending запоминает смену, ожидающую подтверждения перезаписи.
func (s *Store) SetPending(chatID int64, shift domain.NewShift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[chatID]; ok {
		e.pending = &shift
	}
}

// TakePending возвращает и забирает ожидающую смену.
func (s *Store) TakePending(chatID int64) (domain.NewShift, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[chatID]
	if !ok || e.pending == nil {
		return domain.NewShift{}, false
	}
	shift := *e.pending
	e.pending = nil
	return shift, true
}
