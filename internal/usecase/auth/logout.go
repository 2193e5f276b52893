package auth

import (
	"context"
	"errors"

	"petstore/internal/domain/model"
	"petstore/internal/repository"
)

// ログアウトはtoken_versionを上げて発行済みのトークンを全部無効にする
type LogoutUsecase struct {
	userRepo repository.UserRepository
}

func NewLogoutUsecase(userRepo repository.UserRepository) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidCredentials
	}
	return u.userRepo.IncrementTokenVersion(ctx, userID)
}

type MeUsecase struct {
	userRepo repository.UserRepository
}

func NewMeUsecase(userRepo repository.UserRepository) *MeUsecase {
	return &MeUsecase{userRepo: userRepo}
}

func (u *MeUsecase) Execute(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, err
	}
	if user == nil {
		return model.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return model.User{}, ErrUserInactive
	}
	return *user, nil
}
