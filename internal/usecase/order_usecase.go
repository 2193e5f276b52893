package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petstore/internal/domain/model"
	repo "petstore/internal/repository"
)

type OrderUsecase struct {
	tx      repo.TransactionManager
	numbers OrderNumberGenerator
	log     *zap.Logger
	now     func() time.Time
}

func NewOrderUsecase(tx repo.TransactionManager, numbers OrderNumberGenerator, log *zap.Logger) *OrderUsecase {
	if numbers == nil {
		numbers = UUIDOrderNumber{}
	}
	return &OrderUsecase{tx: tx, numbers: numbers, log: log, now: time.Now}
}

// 操作しているユーザー
type Actor struct {
	UserID int64
	Role   model.Role
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

type OrderDiscountOutput struct {
	Code           string          `json:"code"`
	Percentage     decimal.Decimal `json:"percentage"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

type OrderItemOutput struct {
	ID      int64           `json:"id"`
	PetID   int64           `json:"petId"`
	PetName string          `json:"petName"`
	Price   decimal.Decimal `json:"price"`
}

type OrderOutput struct {
	ID              int64                `json:"id"`
	OrderNumber     string               `json:"orderNumber"`
	UserID          int64                `json:"userId"`
	Status          string               `json:"status"`
	TotalAmount     decimal.Decimal      `json:"totalAmount"`
	Discount        *OrderDiscountOutput `json:"discount"`
	Items           []OrderItemOutput    `json:"items"`
	Payment         *model.Payment       `json:"payment"`
	Delivery        *model.Delivery      `json:"delivery"`
	ShippingAddress *model.Address       `json:"shippingAddress"`
	BillingAddress  *model.Address       `json:"billingAddress"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// Checkout はACTIVEカートを PLACED の注文にする。カートは空になる。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, discountCode string) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code := normalizeDiscountCode(discountCode)

	var out OrderOutput

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		ids := make([]int64, 0, len(cartItems))
		for _, ci := range cartItems {
			ids = append(ids, ci.PetID)
		}
		pets, err := r.Pets().FindByIDs(ctx, ids)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		byID := make(map[int64]model.Pet, len(pets))
		for _, p := range pets {
			byID[p.ID] = p
		}

		//確定時にもう一度売れていないか確認
		now := u.now()
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero
		for _, ci := range cartItems {
			p, ok := byID[ci.PetID]
			if !ok {
				return NewHTTPError(http.StatusNotFound, "pet not found")
			}
			if !p.IsAvailable() {
				return NewHTTPError(http.StatusConflict, "pet already sold")
			}
			price := p.Price
			if ci.PriceSnapshot != nil {
				price = *ci.PriceSnapshot
			}
			orderItems = append(orderItems, model.OrderItem{
				PetID:           p.ID,
				PetNameSnapshot: p.Name,
				PriceSnapshot:   price,
				CreatedAt:       now,
			})
			total = total.Add(price)
		}

		order := model.Order{
			OrderNumber: u.numbers.Next(),
			UserID:      userID,
			Status:      model.OrderStatusPlaced,
			TotalAmount: total,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		//割引は注文時点の値を保存し、合計は割引後（支払額）にする
		if code != "" {
			d, err := findUsable(ctx, r.Discounts(), code, now)
			if err != nil {
				return err
			}
			pct := d.Percentage
			amount := discountAmountFor(d, total)
			order.DiscountCode = d.Code
			order.DiscountPercentage = &pct
			order.DiscountAmount = &amount
			order.TotalAmount = total.Sub(amount)
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.ID = orderID

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートをCHECKED_OUTにして、明細をクリア（再注文防止）
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := writeAudit(ctx, r, userID, model.AuditActionCreateOrder, model.OrderResource(orderID),
			nil, map[string]any{"orderNumber": order.OrderNumber, "totalAmount": order.TotalAmount, "discountCode": order.DiscountCode}, now); err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.log.Info("order placed",
		zap.Int64("order_id", out.ID),
		zap.String("order_number", out.OrderNumber),
		zap.Int64("user_id", userID),
	)
	return out, nil
}

// List は自分の注文一覧。管理者は全件。
func (u *OrderUsecase) List(ctx context.Context, actor Actor) ([]OrderOutput, error) {
	if actor.UserID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var orders []model.Order
		var err error
		if actor.IsAdmin() {
			orders, _, err = r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{Page: 1, Limit: 100})
		} else {
			orders, _, err = r.Orders().ListByUserID(ctx, actor.UserID, 1, 100)
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			out, err := loadOrderOutput(ctx, r, o)
			if err != nil {
				return err
			}
			outs = append(outs, out)
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) Get(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if actor.UserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findVisibleOrder(ctx, r, actor, orderID)
		if err != nil {
			return err
		}
		out, err = loadOrderOutput(ctx, r, o)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// Pay は PLACED の注文を支払い、ペットを購入者のものにして APPROVED にする。
func (u *OrderUsecase) Pay(ctx context.Context, userID int64, orderID int64, in PayOrderInput) (model.Payment, error) {
	if userID <= 0 {
		return model.Payment{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.ShippingAddressID <= 0 {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "Shipping address is required")
	}

	pt := model.PaymentType(strings.ToUpper(strings.TrimSpace(in.PaymentType)))
	strategy, err := PaymentStrategyFor(pt)
	if err != nil {
		return model.Payment{}, err
	}
	note, err := strategy.Note(in)
	if err != nil {
		return model.Payment{}, err
	}

	//請求先が無ければ配送先と同じ
	billingID := in.BillingAddressID
	if billingID <= 0 {
		billingID = in.ShippingAddressID
	}

	var paid model.Payment

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if o.Status != model.OrderStatusPlaced {
			return NewHTTPError(http.StatusConflict, "order is not placed")
		}

		shipping, err := ownedAddress(ctx, r, userID, in.ShippingAddressID)
		if err != nil {
			return err
		}
		if _, err := ownedAddress(ctx, r, userID, billingID); err != nil {
			return err
		}

		now := u.now()
		paid, err = r.Payments().Create(ctx, model.Payment{
			OrderID:     o.ID,
			Amount:      o.TotalAmount,
			Status:      model.PaymentStatusSuccess,
			PaymentType: pt,
			PaymentNote: note,
			PaidAt:      now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//ペットを購入者に移す。ほかの注文で売れていたら失敗
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			ok, err := r.Pets().MarkSold(ctx, it.PetID, userID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "pet already sold")
			}
			if err := writeAudit(ctx, r, userID, model.AuditActionChangePetStatus, model.PetResource(it.PetID),
				map[string]any{"status": model.PetStatusAvailable},
				map[string]any{"status": model.PetStatusSold, "ownerId": userID}, now); err != nil {
				return err
			}
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusApproved); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().SetAddresses(ctx, o.ID, in.ShippingAddressID, billingID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := r.Deliveries().Create(ctx, model.Delivery{
			OrderID:   o.ID,
			Name:      shipping.FullName,
			Phone:     shipping.PhoneNumber,
			Address:   shipping.OneLine(),
			Status:    model.DeliveryStatusPending,
			CreatedAt: now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return writeAudit(ctx, r, userID, model.AuditActionCheckoutOrder, model.OrderResource(o.ID),
			map[string]any{"status": o.Status},
			map[string]any{"status": model.OrderStatusApproved, "paymentType": pt}, now)
	})
	if err != nil {
		return model.Payment{}, err
	}

	u.log.Info("order paid",
		zap.Int64("order_id", orderID),
		zap.String("payment_type", string(pt)),
		zap.String("amount", paid.Amount.StringFixed(2)),
	)
	return paid, nil
}

// Cancel は PLACED の注文だけ取り消せる。
func (u *OrderUsecase) Cancel(ctx context.Context, actor Actor, orderID int64) error {
	if actor.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findVisibleOrder(ctx, r, actor, orderID)
		if err != nil {
			return err
		}
		if o.Status != model.OrderStatusPlaced {
			return NewHTTPError(http.StatusConflict, "Only placed orders can be canceled")
		}
		if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusCanceled); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return writeAudit(ctx, r, actor.UserID, model.AuditActionCancelOrder, model.OrderResource(o.ID),
			map[string]any{"status": o.Status},
			map[string]any{"status": model.OrderStatusCanceled}, u.now())
	})
}

// 他人の注文は「存在しない扱い」にする。管理者は全部見える
func findVisibleOrder(ctx context.Context, r repo.TxRepos, actor Actor, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != actor.UserID && !actor.IsAdmin() {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	return o, nil
}

func ownedAddress(ctx context.Context, r repo.TxRepos, userID, addressID int64) (model.Address, error) {
	a, err := r.Addresses().FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return model.Address{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if a.UserID != userID {
		return model.Address{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return a, nil
}

// 明細・支払い・配送・住所をまとめて返す
func loadOrderOutput(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	out := toOrderOutput(o, items)

	p, err := r.Payments().FindByOrderID(ctx, o.ID)
	switch {
	case err == nil:
		out.Payment = &p
	case err != repo.ErrNotFound:
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	d, err := r.Deliveries().FindByOrderID(ctx, o.ID)
	switch {
	case err == nil:
		out.Delivery = &d
	case err != repo.ErrNotFound:
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if out.ShippingAddress, err = optionalAddress(ctx, r, o.ShippingAddressID); err != nil {
		return OrderOutput{}, err
	}
	if out.BillingAddress, err = optionalAddress(ctx, r, o.BillingAddressID); err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 住所が後から消えていたら nil
func optionalAddress(ctx context.Context, r repo.TxRepos, id *int64) (*model.Address, error) {
	if id == nil {
		return nil, nil
	}
	a, err := r.Addresses().FindByID(ctx, *id)
	if err == repo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &a, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:      it.ID,
			PetID:   it.PetID,
			PetName: it.PetNameSnapshot,
			Price:   it.PriceSnapshot,
		})
	}

	out := OrderOutput{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Items:       outItems,
		CreatedAt:   o.CreatedAt,
	}
	if o.HasDiscount() {
		d := &OrderDiscountOutput{Code: o.DiscountCode, Percentage: *o.DiscountPercentage}
		if o.DiscountAmount != nil {
			d.DiscountAmount = *o.DiscountAmount
		}
		out.Discount = d
	}
	return out
}

// 監査ログはトランザクション内で書く
func writeAudit(
	ctx context.Context,
	r repo.TxRepos,
	actorID int64,
	action model.AuditAction,
	res model.AuditResource,
	before, after map[string]any,
	at time.Time,
) error {
	log := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: res.Type,
		ResourceID:   res.ID,
		CreatedAt:    at,
	}
	if before != nil {
		b, _ := json.Marshal(before)
		log.BeforeJSON = string(b)
	}
	if after != nil {
		a, _ := json.Marshal(after)
		log.AfterJSON = string(a)
	}
	if err := r.AuditLogs().Create(ctx, log); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
