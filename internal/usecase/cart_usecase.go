package usecase

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"
)

// CartUsecase は /stores/cart の業務ロジック。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	petRepo      repo.PetRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	petRepo repo.PetRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		petRepo:      petRepo,
	}
}

type CartPetOutput struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Status string          `json:"status"`
}

// price は追加時点の価格。
type CartItemOutput struct {
	ID    int64            `json:"id"`
	Pet   CartPetOutput    `json:"pet"`
	Price *decimal.Decimal `json:"price"`
}

type CartOutput struct {
	ID     int64            `json:"id"`
	UserID int64            `json:"userId"`
	Items  []CartItemOutput `json:"items"`
	Total  decimal.Decimal  `json:"total"`
}

// GetCart はカート取得（無ければACTIVEを作って空を返す）。本人のカートのみ。
func (u *CartUsecase) GetCart(ctx context.Context, actorUserID int64, userID int64) (CartOutput, error) {
	if actorUserID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if actorUserID != userID {
		return CartOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartOutput(ctx, cart)
}

// AddPet はペットをカートに入れる。同じペットは1回だけ。
func (u *CartUsecase) AddPet(ctx context.Context, userID int64, petID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if petID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid petId")
	}

	p, err := u.petRepo.FindByID(ctx, petID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "pet not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsAvailable() {
		return CartOutput{}, NewHTTPError(http.StatusConflict, "pet not available")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//価格は追加時点のものを保存
	price := p.Price
	added, err := u.cartItemRepo.AddIfAbsent(ctx, model.CartItem{
		CartID:        cart.ID,
		PetID:         p.ID,
		PriceSnapshot: &price,
	})
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !added {
		return CartOutput{}, NewHTTPError(http.StatusConflict, "pet already in cart")
	}

	return u.buildCartOutput(ctx, cart)
}

// 明細削除
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartOutput(ctx, cart)
}

// カートの明細とペットをまとめる。価格の無い明細は合計で0扱い。
func (u *CartUsecase) buildCartOutput(ctx context.Context, cart model.Cart) (CartOutput, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.PetID)
	}
	pets, err := u.petRepo.FindByIDs(ctx, ids)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	byID := make(map[int64]model.Pet, len(pets))
	for _, p := range pets {
		byID[p.ID] = p
	}

	out := CartOutput{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  make([]CartItemOutput, 0, len(items)),
		Total:  decimal.Zero,
	}
	for _, it := range items {
		p := byID[it.PetID]
		out.Items = append(out.Items, CartItemOutput{
			ID: it.ID,
			Pet: CartPetOutput{
				ID:     it.PetID,
				Name:   p.Name,
				Price:  p.Price,
				Status: string(p.Status),
			},
			Price: it.PriceSnapshot,
		})
		if it.PriceSnapshot != nil {
			out.Total = out.Total.Add(*it.PriceSnapshot)
		}
	}
	return out, nil
}
