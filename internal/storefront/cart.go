package storefront

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"petstore/internal/storefront/api"
)

// CartAPI はカート操作の窓口。
type CartAPI interface {
	GetCart(ctx context.Context, userID int64) (api.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int64) error
	Checkout(ctx context.Context, discountCode string) (api.Order, error)
}

// CartOrchestrator はログイン中ユーザーのカート表示状態を持つ。
// 状態の書き込みは世代番号で守り、古い非同期結果は捨てる（後勝ち）。
type CartOrchestrator struct {
	api       CartAPI
	discounts *DiscountApplier
	session   *Session
	notifier  Notifier
	nav       Navigator
	log       *zap.Logger

	mu    sync.Mutex
	gen   uint64
	state CartState
}

func NewCartOrchestrator(
	client CartAPI,
	discounts *DiscountApplier,
	session *Session,
	notifier Notifier,
	nav Navigator,
	log *zap.Logger,
) *CartOrchestrator {
	return &CartOrchestrator{
		api:       client,
		discounts: discounts,
		session:   session,
		notifier:  notifier,
		nav:       nav,
		log:       log,
	}
}

// View は現在の状態のコピーを返す。
func (c *CartOrchestrator) View() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// begin は新しい世代を開始し、その時点の状態のコピーを返す。
func (c *CartOrchestrator) begin() (uint64, CartState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen, c.state.clone()
}

// commit は世代が変わっていなければ状態を反映する。
func (c *CartOrchestrator) commit(gen uint64, st CartState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.state = st
	return true
}

func (c *CartOrchestrator) fail(err error, fallback string) error {
	c.notifier.Error(UserMessage(err, fallback), DefaultNotifyDuration)
	return err
}

// fetch はカートを取得して新しい状態を作る（割引なし）。
func (c *CartOrchestrator) fetch(ctx context.Context, userID int64) (CartState, error) {
	cart, err := c.api.GetCart(ctx, userID)
	if err != nil {
		return CartState{}, err
	}
	return CartState{
		Items: cart.Items,
		Total: itemsTotal(cart.Items),
	}, nil
}

// Load はカートを読み込む。未ログインなら何もしない。
func (c *CartOrchestrator) Load(ctx context.Context) error {
	userID, ok := c.session.UserID()
	if !ok {
		return nil
	}

	gen, _ := c.begin()
	st, err := c.fetch(ctx, userID)
	if err != nil {
		return c.fail(err, "Failed to load cart")
	}

	if c.commit(gen, st) {
		c.session.SetCartCount(len(st.Items))
	}
	return nil
}

// RemoveItem は明細を削除して再読込し、直前の割引コードを再適用する。
func (c *CartOrchestrator) RemoveItem(ctx context.Context, itemID int64) error {
	userID, ok := c.session.UserID()
	if !ok {
		return ErrNotAuthenticated
	}

	prevCode := c.View().AppliedCode()

	if err := c.api.RemoveCartItem(ctx, itemID); err != nil {
		return c.fail(err, "Failed to remove item")
	}

	gen, _ := c.begin()
	st, err := c.fetch(ctx, userID)
	if err != nil {
		return c.fail(err, "Failed to load cart")
	}
	if !c.commit(gen, st) {
		return nil
	}
	c.session.SetCartCount(len(st.Items))

	if prevCode == "" {
		return nil
	}

	//再適用はコピーに対して行い、同じ世代のままなら反映
	next := st.clone()
	c.discounts.ReapplyAfterReload(ctx, &next, prevCode)
	if !c.commit(gen, next) {
		c.log.Debug("stale discount reapply discarded", zap.String("code", prevCode))
	}
	return nil
}

// ApplyDiscount はコードを検証して割引を置き換える。
func (c *CartOrchestrator) ApplyDiscount(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return c.fail(newValidationError("Please enter a discount code."), "")
	}

	gen, st := c.begin()
	res, err := c.discounts.Apply(ctx, &st, code)
	if err != nil {
		return c.fail(err, "Invalid discount code")
	}
	if !c.commit(gen, st) {
		return nil
	}

	c.notifier.Success(
		fmt.Sprintf(`Discount "%s" applied (%s%% off)!`, res.Code, res.Percentage.String()),
		DefaultNotifyDuration,
	)
	return nil
}

// RemoveDiscount はローカルだけで割引を外す。
func (c *CartOrchestrator) RemoveDiscount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.discounts.Remove(&c.state)
}

// Checkout は適用中の割引コードを付けて注文を作る。
// 成功したらカート件数バッジを0にし、チェックアウト画面へ進む。
func (c *CartOrchestrator) Checkout(ctx context.Context) (api.Order, error) {
	code := c.View().AppliedCode()

	order, err := c.api.Checkout(ctx, code)
	if err != nil {
		return api.Order{}, c.fail(err, "Checkout failed")
	}

	c.mu.Lock()
	c.gen++
	c.state = CartState{}
	c.mu.Unlock()

	c.session.ClearCartCount()
	c.notifier.Success("Order created successfully!", DefaultNotifyDuration)
	c.nav.Navigate(fmt.Sprintf("/checkout/%d", order.ID))
	return order, nil
}
