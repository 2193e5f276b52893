package usecase

import (
	"context"
	"strings"
	"time"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"
)

type AddressDTO struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	Country     string `json:"country"`
	IsDefault   bool   `json:"isDefault"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// 作成・更新の共通入力
type AddressRequest struct {
	FullName    string `json:"fullName" validate:"required,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"max=30"`
	Street      string `json:"street" validate:"required,max=255"`
	City        string `json:"city" validate:"required,max=100"`
	State       string `json:"state" validate:"max=100"`
	PostalCode  string `json:"postalCode" validate:"required,max=20"`
	Country     string `json:"country" validate:"required,max=100"`
	IsDefault   bool   `json:"isDefault"`
}

func (r AddressRequest) normalized() AddressRequest {
	r.FullName = strings.TrimSpace(r.FullName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Street = strings.TrimSpace(r.Street)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	r.PostalCode = strings.TrimSpace(r.PostalCode)
	r.Country = strings.TrimSpace(r.Country)
	return r
}

func (r AddressRequest) valid() bool {
	return r.FullName != "" && r.Street != "" && r.City != "" && r.PostalCode != "" && r.Country != ""
}

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, req AddressRequest) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}

	//入力チェック
	req = req.normalized()
	if !req.valid() {
		return AddressDTO{}, ErrValidation
	}

	now := time.Now()
	created, err := u.addresses.Create(ctx, model.Address{
		UserID:      userID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Street:      req.Street,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		IsDefault:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return AddressDTO{}, ErrInternal
	}

	//defaultは1つだけなのでSetDefault経由で切り替える
	if req.IsDefault {
		if err := u.addresses.SetDefault(ctx, userID, created.ID); err != nil {
			return AddressDTO{}, ErrInternal
		}
		created.IsDefault = true
	}

	return toAddressDTO(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, req AddressRequest) error {
	if err := u.checkOwner(ctx, userID, addressID); err != nil {
		return err
	}
	req = req.normalized()
	if !req.valid() {
		return ErrValidation
	}

	a := model.Address{
		ID:          addressID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Street:      req.Street,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		UpdatedAt:   time.Now(),
	}
	if err := u.addresses.Update(ctx, a); err != nil {
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if err := u.checkOwner(ctx, userID, addressID); err != nil {
		return err
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		//注文が参照中などで削除できない 409
		return ErrConflict
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	if err := u.checkOwner(ctx, userID, addressID); err != nil {
		return err
	}

	//user内でdefaultは1つ
	if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

// 存在しなければ404、他人の住所なら403
func (u *AddressUsecase) checkOwner(ctx context.Context, userID, addressID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if addressID <= 0 {
		return ErrValidation
	}

	a, err := u.addresses.FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return ErrInternal
	}
	if a.UserID != userID {
		return ErrForbidden
	}
	return nil
}

func toAddressDTO(a *model.Address) AddressDTO {
	return AddressDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		FullName:    a.FullName,
		PhoneNumber: a.PhoneNumber,
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Country:     a.Country,
		IsDefault:   a.IsDefault,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}
