package usecase

import (
	"context"
	"net/http"
	"strings"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"
)

type PetUsecase struct {
	pets repo.PetRepository
}

// DI
func NewPetUsecase(pets repo.PetRepository) *PetUsecase {
	return &PetUsecase{pets: pets}
}

// GET /petsの入力
type ListPetsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Status   string
}

type PetListOutput struct {
	Items []model.Pet `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func (u *PetUsecase) List(ctx context.Context, in ListPetsInput) (PetListOutput, error) {
	if in.Page < 1 {
		return PetListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return PetListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return PetListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	switch model.PetStatus(in.Status) {
	case "", model.PetStatusAvailable, model.PetStatusPending, model.PetStatusSold:
	default:
		return PetListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	items, total, err := u.pets.List(ctx, repo.PetListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
		Status:   in.Status,
	})
	if err != nil {
		return PetListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return PetListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *PetUsecase) Get(ctx context.Context, petID int64) (model.Pet, error) {
	if petID <= 0 {
		return model.Pet{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := u.pets.FindByID(ctx, petID)
	if err == repo.ErrNotFound {
		return model.Pet{}, NewHTTPError(http.StatusNotFound, "pet not found")
	}
	if err != nil {
		return model.Pet{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}
