package storefront

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"petstore/internal/storefront/api"
	"petstore/internal/storefront/payment"
)

// =====================
// Store API mock
// =====================

type StoreAPIMock struct {
	mock.Mock
}

func (m *StoreAPIMock) Login(ctx context.Context, email, password string) (api.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(api.LoginResponse)
	return res, args.Error(1)
}

func (m *StoreAPIMock) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *StoreAPIMock) GetCart(ctx context.Context, userID int64) (api.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(api.Cart)
	return c, args.Error(1)
}

func (m *StoreAPIMock) RemoveCartItem(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *StoreAPIMock) Checkout(ctx context.Context, discountCode string) (api.Order, error) {
	args := m.Called(ctx, discountCode)
	o, _ := args.Get(0).(api.Order)
	return o, args.Error(1)
}

func (m *StoreAPIMock) ValidateDiscount(ctx context.Context, code string, total decimal.Decimal) (api.DiscountValidation, error) {
	args := m.Called(ctx, code, total.String())
	v, _ := args.Get(0).(api.DiscountValidation)
	return v, args.Error(1)
}

func (m *StoreAPIMock) GetOrder(ctx context.Context, orderID int64) (api.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(api.Order)
	return o, args.Error(1)
}

func (m *StoreAPIMock) PayOrder(ctx context.Context, orderID int64, body json.Marshaler) (api.Payment, error) {
	args := m.Called(ctx, orderID, body)
	p, _ := args.Get(0).(api.Payment)
	return p, args.Error(1)
}

func (m *StoreAPIMock) CancelOrder(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *StoreAPIMock) ListAddresses(ctx context.Context) ([]api.Address, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]api.Address)
	return list, args.Error(1)
}

var (
	_ CartAPI     = (*StoreAPIMock)(nil)
	_ DiscountAPI = (*StoreAPIMock)(nil)
	_ CheckoutAPI = (*StoreAPIMock)(nil)
	_ AuthAPI     = (*StoreAPIMock)(nil)
)

// =====================
// UI collaborators
// =====================

type note struct {
	ok  bool
	msg string
	d   time.Duration
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) Success(msg string, d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{ok: true, msg: msg, d: d})
}

func (n *recordingNotifier) Error(msg string, d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{ok: false, msg: msg, d: d})
}

func (n *recordingNotifier) last() note {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return note{}
	}
	return n.notes[len(n.notes)-1]
}

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.paths = append(n.paths, path)
}

type PrompterMock struct {
	mock.Mock
}

func (m *PrompterMock) Confirm(ctx context.Context, d ConfirmDialog) (bool, error) {
	args := m.Called(ctx, d)
	return args.Bool(0), args.Error(1)
}

func (m *PrompterMock) Secret(ctx context.Context, label string) (string, bool, error) {
	args := m.Called(ctx, label)
	return args.String(0), args.Bool(1), args.Error(2)
}

type stubStep struct {
	result ProcessingResult
	err    error
	calls  int
}

func (s *stubStep) Run(ctx context.Context, t payment.PaymentType, wallet string) (ProcessingResult, error) {
	s.calls++
	return s.result, s.err
}

// =====================
// helper
// =====================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func cartItem(id int64, price string) api.CartItem {
	it := api.CartItem{ID: id, Pet: api.Pet{ID: id * 10, Name: "pet"}}
	if price != "" {
		it.Price = decPtr(price)
	}
	return it
}

func validation(code, pct, amount, newTotal string) api.DiscountValidation {
	return api.DiscountValidation{
		Code:           code,
		Percentage:     dec(pct),
		DiscountAmount: dec(amount),
		NewTotal:       dec(newTotal),
	}
}
