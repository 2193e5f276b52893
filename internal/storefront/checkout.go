package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petstore/internal/storefront/api"
	"petstore/internal/storefront/payment"
)

// チェックアウト画面での注文状態
type OrderState string

const (
	StatePlaced   OrderState = "PLACED"
	StatePaid     OrderState = "PAID"
	StateCanceled OrderState = "CANCELED"
)

const ordersPath = "/orders"

// CheckoutAPI はチェックアウト画面が使う窓口。
type CheckoutAPI interface {
	GetOrder(ctx context.Context, orderID int64) (api.Order, error)
	PayOrder(ctx context.Context, orderID int64, body json.Marshaler) (api.Payment, error)
	CancelOrder(ctx context.Context, orderID int64) error
	ListAddresses(ctx context.Context) ([]api.Address, error)
}

// CheckoutStatusGuard はPLACED以外の注文でチェックアウトに入らせない。
func CheckoutStatusGuard(o api.Order) error {
	if o.Status != string(StatePlaced) {
		return &InvalidStateError{Status: o.Status, Op: "enter checkout"}
	}
	return nil
}

// CheckoutStateMachine は1つの注文を PLACED から PAID / CANCELED へ進める。
type CheckoutStateMachine struct {
	api      CheckoutAPI
	step     PaymentStep
	prompter Prompter
	notifier Notifier
	nav      Navigator
	log      *zap.Logger

	mu          sync.Mutex
	order       *api.Order
	state       OrderState
	addresses   []api.Address
	shippingID  int64
	billingSame bool
	billingID   int64
	payType     payment.PaymentType
	fields      payment.Fields
	inFlight    bool
}

func NewCheckoutStateMachine(
	client CheckoutAPI,
	step PaymentStep,
	prompter Prompter,
	notifier Notifier,
	nav Navigator,
	log *zap.Logger,
) *CheckoutStateMachine {
	return &CheckoutStateMachine{
		api:         client,
		step:        step,
		prompter:    prompter,
		notifier:    notifier,
		nav:         nav,
		log:         log,
		billingSame: true,
		payType:     payment.TypeCreditCard,
		fields:      payment.Fields{Wallet: string(payment.WalletGrabPay)},
	}
}

func (m *CheckoutStateMachine) fail(err error, fallback string) error {
	m.notifier.Error(UserMessage(err, fallback), DefaultNotifyDuration)
	return err
}

// Enter は注文を読み込み、PLACED以外なら注文一覧へ戻す。
func (m *CheckoutStateMachine) Enter(ctx context.Context, orderID int64) error {
	o, err := m.api.GetOrder(ctx, orderID)
	if err != nil {
		return m.fail(err, "Failed to load order")
	}

	if err := CheckoutStatusGuard(o); err != nil {
		m.nav.Navigate(ordersPath)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = &o
	m.state = StatePlaced
	return nil
}

// LoadAddresses は住所一覧を取得し、デフォルト住所があれば選択する。
func (m *CheckoutStateMachine) LoadAddresses(ctx context.Context) error {
	list, err := m.api.ListAddresses(ctx)
	if err != nil {
		return m.fail(err, "Failed to load addresses")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses = list
	m.shippingID = 0
	for _, a := range list {
		if a.IsDefault {
			m.shippingID = a.ID
			break
		}
	}
	return nil
}

func (m *CheckoutStateMachine) Addresses() []api.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]api.Address(nil), m.addresses...)
}

func (m *CheckoutStateMachine) hasAddress(id int64) bool {
	for _, a := range m.addresses {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (m *CheckoutStateMachine) SelectShippingAddress(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasAddress(id) {
		return newValidationError("Please select a shipping address.")
	}
	m.shippingID = id
	return nil
}

// SetBillingSameAsShipping が true の間、請求先は配送先に追従する。
func (m *CheckoutStateMachine) SetBillingSameAsShipping(same bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.billingSame = same
	if same {
		m.billingID = 0
	}
}

func (m *CheckoutStateMachine) SelectBillingAddress(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasAddress(id) {
		return newValidationError("Please select a billing address.")
	}
	m.billingID = id
	return nil
}

// SetPaymentSelection は支払いフォームの内容を保持する。
func (m *CheckoutStateMachine) SetPaymentSelection(t payment.PaymentType, f payment.Fields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payType = t
	m.fields = f
}

// Selection は現在のフォーム状態。
func (m *CheckoutStateMachine) Selection() payment.Selection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectionLocked()
}

func (m *CheckoutStateMachine) selectionLocked() payment.Selection {
	return payment.Selection{
		Type:                  m.payType,
		Fields:                m.fields,
		ShippingAddressID:     m.shippingID,
		BillingSameAsShipping: m.billingSame,
		BillingAddressID:      m.billingID,
	}
}

func (m *CheckoutStateMachine) State() OrderState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *CheckoutStateMachine) Order() (api.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.order == nil {
		return api.Order{}, false
	}
	return *m.order, true
}

// prepare は送信前のチェックを行い、注文IDと選択内容を返す。
func (m *CheckoutStateMachine) prepare() (int64, payment.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.order == nil || m.state != StatePlaced {
		return 0, payment.Selection{}, &InvalidStateError{Status: string(m.state), Op: "confirm checkout"}
	}
	if m.inFlight {
		return 0, payment.Selection{}, ErrCheckoutInProgress
	}
	if m.shippingID == 0 {
		return 0, payment.Selection{}, newValidationError("Please select a shipping address.")
	}
	if !m.billingSame && m.billingID == 0 {
		return 0, payment.Selection{}, newValidationError("Please select a billing address.")
	}
	if !payment.IsPaymentInfoValid(m.payType, m.fields) {
		return 0, payment.Selection{}, newValidationError("Please check your payment details.")
	}

	m.inFlight = true
	return m.order.ID, m.selectionLocked(), nil
}

func (m *CheckoutStateMachine) done() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

// ConfirmCheckout は支払い処理ステップを経て支払いを送信する。
// 失敗時は PLACED のまま。
func (m *CheckoutStateMachine) ConfirmCheckout(ctx context.Context) error {
	orderID, sel, err := m.prepare()
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			m.notifier.Error(ve.Message, DefaultNotifyDuration)
		}
		return err
	}
	defer m.done()

	res, err := m.step.Run(ctx, sel.Type, sel.Fields.Wallet)
	if err != nil {
		return m.fail(err, "Payment failed")
	}
	if res.Outcome != Confirmed {
		return ErrPaymentDismissed
	}

	req := payment.Build(sel)
	if _, err := m.api.PayOrder(ctx, orderID, req); err != nil {
		m.log.Warn("payment rejected", zap.Int64("order_id", orderID), zap.Error(err))
		return m.fail(err, "Payment failed")
	}

	m.mu.Lock()
	m.state = StatePaid
	m.mu.Unlock()

	m.log.Info("order paid", zap.Int64("order_id", orderID), zap.String("payment_type", string(sel.Type)))
	m.notifier.Success("Payment successful! Order placed.", DefaultNotifyDuration)
	m.nav.Navigate(ordersPath)
	return nil
}

// CancelOrder は確認のうえ注文をキャンセルする。PLACED以外では呼び出さない。
func (m *CheckoutStateMachine) CancelOrder(ctx context.Context) error {
	m.mu.Lock()
	if m.order == nil || m.state != StatePlaced {
		st := m.state
		m.mu.Unlock()
		return &InvalidStateError{Status: string(st), Op: "cancel order"}
	}
	orderID := m.order.ID
	m.mu.Unlock()

	ok, err := m.prompter.Confirm(ctx, cancelOrderDialog)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := m.api.CancelOrder(ctx, orderID); err != nil {
		return m.fail(err, "Failed to cancel order")
	}

	m.mu.Lock()
	m.state = StateCanceled
	m.mu.Unlock()

	m.log.Info("order canceled", zap.Int64("order_id", orderID))
	m.notifier.Success("Order cancelled.", DefaultNotifyDuration)
	m.nav.Navigate(ordersPath)
	return nil
}

// Subtotal は注文明細価格の合計。毎回計算する。
func (m *CheckoutStateMachine) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subtotalLocked()
}

func (m *CheckoutStateMachine) subtotalLocked() decimal.Decimal {
	total := decimal.Zero
	if m.order == nil {
		return total
	}
	for _, it := range m.order.Items {
		total = total.Add(it.Price)
	}
	return total
}

// DiscountAmount は注文に割引スナップショットがあれば subtotal × 割引率。
func (m *CheckoutStateMachine) DiscountAmount() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.order == nil || m.order.Discount == nil {
		return decimal.Zero
	}
	return m.subtotalLocked().Mul(m.order.Discount.Percentage).Div(decimal.NewFromInt(100))
}
