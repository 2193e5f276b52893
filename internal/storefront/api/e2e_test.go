package api_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petstore/internal/domain/model"
	"petstore/internal/infra/db"
	"petstore/internal/storefront/api"
	"petstore/internal/storefront/payment"
)

// 起動済みのAPIとDBに対して流す。STORE_E2E_URL が無ければスキップ
//
//	STORE_E2E_URL=http://localhost:8080 DATABASE_URL=postgres://... go test ./internal/storefront/api -run E2E
func e2eURL(t *testing.T) string {
	t.Helper()
	u := os.Getenv("STORE_E2E_URL")
	if u == "" {
		t.Skip("STORE_E2E_URL is not set")
	}
	return u
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

// 会員登録してログイン済みのクライアントを返す
func registeredClient(t *testing.T, ctx context.Context, baseURL string) (*api.Client, api.LoginResponse) {
	t.Helper()

	email := fmt.Sprintf("e2e-%d@example.com", time.Now().UnixNano())
	password := "E2ePassword1"

	resp, err := resty.New().R().SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		Post(baseURL + "/auth/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	c := api.NewClient(baseURL, 10*time.Second)
	login, err := c.Login(ctx, email, password)
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	c.SetTokenSource(staticToken(login.Token))
	return c, login
}

// APIにペット登録が無いのでDBへ直接入れる
func seedPetAndDiscount(t *testing.T, name string, code string) {
	t.Helper()

	gdb, err := db.Connect()
	require.NoError(t, err)

	require.NoError(t, gdb.Create(&model.Pet{
		Name:     name,
		Category: "dog",
		Price:    decimal.NewFromInt(120),
		Status:   model.PetStatusAvailable,
	}).Error)
	require.NoError(t, gdb.Create(&model.Discount{
		Code:       code,
		Percentage: decimal.NewFromInt(25),
		Active:     true,
	}).Error)
}

func TestE2E_CheckoutAndPay(t *testing.T) {
	baseURL := e2eURL(t)
	ctx := context.Background()

	suffix := time.Now().UnixNano()
	petName := fmt.Sprintf("e2e-pet-%d", suffix)
	code := fmt.Sprintf("E2E%d", suffix%1000000)
	seedPetAndDiscount(t, petName, code)

	c, login := registeredClient(t, ctx, baseURL)

	//一覧から登録したペットを探す
	pets, err := c.ListPets(ctx, petName)
	require.NoError(t, err)
	require.Len(t, pets, 1)
	pet := pets[0]

	cart, err := c.AddToCart(ctx, pet.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	//同じペットは2回入れられない
	_, err = c.AddToCart(ctx, pet.ID)
	assert.True(t, api.IsKind(err, api.KindInvalidState))

	v, err := c.ValidateDiscount(ctx, code, decimal.NewFromInt(120))
	require.NoError(t, err)
	assert.True(t, v.NewTotal.Equal(decimal.NewFromInt(90)))

	order, err := c.Checkout(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "PLACED", order.Status)
	require.NotNil(t, order.Discount)

	cart, err = c.GetCart(ctx, login.User.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	//住所を登録して支払う
	var addr api.Address
	resp, err := resty.New().R().SetContext(ctx).
		SetAuthToken(login.Token).
		SetBody(map[string]any{
			"fullName": "E2E Buyer", "street": "1 Main St", "city": "Springfield",
			"postalCode": "12345", "country": "US", "isDefault": true,
		}).
		SetResult(&addr).
		Post(baseURL + "/addresses")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	paid, err := c.PayOrder(ctx, order.ID, payment.Build(payment.Selection{
		Type:                  payment.TypeEWallet,
		Fields:                payment.Fields{Wallet: "GRABPAY", GrabPayID: "grab-e2e"},
		ShippingAddressID:     addr.ID,
		BillingSameAsShipping: true,
	}))
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", paid.Status)

	got, err := c.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", got.Status)
	require.NotNil(t, got.Delivery)
	assert.Equal(t, "PENDING", got.Delivery.Status)

	//売れたペットは一覧から消える
	pets, err = c.ListPets(ctx, petName)
	require.NoError(t, err)
	assert.Empty(t, pets)

	//支払い済みは取り消せない
	err = c.CancelOrder(ctx, order.ID)
	assert.True(t, api.IsKind(err, api.KindInvalidState))
}

func TestE2E_LogoutInvalidatesToken(t *testing.T) {
	baseURL := e2eURL(t)
	ctx := context.Background()

	c, login := registeredClient(t, ctx, baseURL)

	_, err := c.GetCart(ctx, login.User.ID)
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))

	_, err = c.GetCart(ctx, login.User.ID)
	assert.True(t, api.IsKind(err, api.KindAuthorization))
}
