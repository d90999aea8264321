package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shiftbook/internal/domain"
	"shiftbook/pkg/metrics"
)

type UserService struct {
	Repo    domain.UserRepo
	Metrics metrics.LedgerRecorder
}

func NewUserService(repo domain.UserRepo, rec metrics.LedgerRecorder) *UserService {
	return &UserService{Repo: repo, Metrics: rec}
}

// SignUp создаёт пользователя. false, неверные данные или имя уже занято.
func (s *UserService) SignUp(ctx context.Context, username, password string, closingDay int, goalAmount int64) (bool, error) {
	u := domain.User{
		Username:   strings.TrimSpace(username),
		Password:   password,
		ClosingDay: closingDay,
		GoalAmount: goalAmount,
	}
	if err := Validate(u); err != nil {
		if isValidationError(err) {
			return false, nil
		}
		return false, err
	}

	taken, err := s.Repo.UsernameTaken(ctx, u.Username, 0)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return false, nil
	}
	if _, err := s.Repo.CreateUser(ctx, u); err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}

// Login сверяет имя и пароль среди действующих пользователей.
func (s *UserService) Login(ctx context.Context, username, password string) (int64, bool, error) {
	id, err := s.Repo.FindUserIDByCredentials(ctx, strings.TrimSpace(username), password)
	if errors.Is(err, domain.ErrNotFound) {
		s.recorder().Login(false)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find user: %w", err)
	}
	s.recorder().Login(true)
	return id, true, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (domain.User, bool, error) {
	u, err := s.Repo.GetUserByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, true, nil
}

// UpdateSettings меняет имя, пароль, день закрытия и цель.
// false: неверные данные, имя занято другим пользователем или пользователя нет.
func (s *UserService) UpdateSettings(ctx context.Context, u domain.User) (bool, error) {
	u.Username = strings.TrimSpace(u.Username)
	if err := Validate(u); err != nil {
		if isValidationError(err) {
			return false, nil
		}
		return false, err
	}

	if _, ok, err := s.GetUser(ctx, u.ID); err != nil || !ok {
		return false, err
	}
	taken, err := s.Repo.UsernameTaken(ctx, u.Username, u.ID)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return false, nil
	}
	if err := s.Repo.UpdateUser(ctx, u); err != nil {
		return false, fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return true, nil
}

// Withdraw помечает пользователя недействительным; имя снова становится свободным.
func (s *UserService) Withdraw(ctx context.Context, id int64) error {
	if err := s.Repo.InvalidateUser(ctx, id); err != nil {
		return fmt.Errorf("withdraw user %d: %w", id, err)
	}
	return nil
}

func (s *UserService) recorder() metrics.LedgerRecorder {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}
