package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type txReposMock struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	carts      *CartRepoMock
	pets       *PetRepoMock
	discounts  *DiscountRepoMock
	payments   *PaymentRepoMock
	deliveries *DeliveryRepoMock
	addresses  *AddressRepoMock
	audit      *AuditLogRepoMock
}

func newTxRepos() *txReposMock {
	return &txReposMock{
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		carts:      new(CartRepoMock),
		pets:       new(PetRepoMock),
		discounts:  new(DiscountRepoMock),
		payments:   new(PaymentRepoMock),
		deliveries: new(DeliveryRepoMock),
		addresses:  new(AddressRepoMock),
		audit:      new(AuditLogRepoMock),
	}
}

func (r *txReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposMock) Carts() repo.CartRepository           { return r.carts }
func (r *txReposMock) CartItems() repo.CartItemRepository   { return r.carts }
func (r *txReposMock) Pets() repo.PetRepository             { return r.pets }
func (r *txReposMock) Discounts() repo.DiscountRepository   { return r.discounts }
func (r *txReposMock) Payments() repo.PaymentRepository     { return r.payments }
func (r *txReposMock) Deliveries() repo.DeliveryRepository  { return r.deliveries }
func (r *txReposMock) Addresses() repo.AddressRepository    { return r.addresses }
func (r *txReposMock) AuditLogs() repo.AuditLogRepository   { return r.audit }

func newTx(r *txReposMock) *TxManagerMock {
	tx := &TxManagerMock{Repos: r}
	tx.On("WithinTx", mock.Anything).Return()
	return tx
}

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) SetAddresses(ctx context.Context, orderID int64, shippingID, billingID int64) error {
	args := m.Called(ctx, orderID, shippingID, billingID)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

// CartRepoMock は CartRepository と CartItemRepository の両方を満たす
type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *CartRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartRepoMock) AddIfAbsent(ctx context.Context, item model.CartItem) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}

func (m *CartRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type PetRepoMock struct{ mock.Mock }

func (m *PetRepoMock) List(ctx context.Context, q repo.PetListQuery) ([]model.Pet, int64, error) {
	args := m.Called(ctx, q)
	pets, _ := args.Get(0).([]model.Pet)
	return pets, args.Get(1).(int64), args.Error(2)
}

func (m *PetRepoMock) FindByID(ctx context.Context, id int64) (model.Pet, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Pet)
	return p, args.Error(1)
}

func (m *PetRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Pet, error) {
	args := m.Called(ctx, ids)
	pets, _ := args.Get(0).([]model.Pet)
	return pets, args.Error(1)
}

func (m *PetRepoMock) MarkSold(ctx context.Context, petID int64, ownerID int64) (bool, error) {
	args := m.Called(ctx, petID, ownerID)
	return args.Bool(0), args.Error(1)
}

type DiscountRepoMock struct{ mock.Mock }

func (m *DiscountRepoMock) FindByCode(ctx context.Context, code string) (model.Discount, error) {
	args := m.Called(ctx, code)
	d, _ := args.Get(0).(model.Discount)
	return d, args.Error(1)
}

func (m *DiscountRepoMock) ListActive(ctx context.Context, now time.Time) ([]model.Discount, error) {
	args := m.Called(ctx, now)
	list, _ := args.Get(0).([]model.Discount)
	return list, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Payment)
	return out, args.Error(1)
}

func (m *PaymentRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

type DeliveryRepoMock struct{ mock.Mock }

func (m *DeliveryRepoMock) Create(ctx context.Context, d model.Delivery) (model.Delivery, error) {
	args := m.Called(ctx, d)
	out, _ := args.Get(0).(model.Delivery)
	return out, args.Error(1)
}

func (m *DeliveryRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Delivery, error) {
	args := m.Called(ctx, orderID)
	d, _ := args.Get(0).(model.Delivery)
	return d, args.Error(1)
}

func (m *DeliveryRepoMock) Update(ctx context.Context, d model.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, a model.Address) (model.Address, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(model.Address)
	return out, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Address)
	return list, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, a model.Address) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]model.AuditLog)
	return list, args.Error(1)
}

// 固定の採番
type fixedOrderNumber string

func (f fixedOrderNumber) Next() string { return string(f) }

// audit の action だけで照合する
func auditAction(a model.AuditAction) interface{} {
	return mock.MatchedBy(func(l model.AuditLog) bool { return l.Action == a })
}

func assertHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected *HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
	if msg != "" {
		assert.Equal(t, msg, he.Message)
	}
}
