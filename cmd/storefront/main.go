package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"petstore/internal/config"
	"petstore/internal/storefront"
	"petstore/internal/storefront/api"
	"petstore/internal/storefront/payment"
)

const help = `commands:
  login <email> <password>   logout
  pets [query]               add <petId>
  cart                       remove <itemId>
  discounts                  discount <code> | undiscount
  checkout                   orders
  pay <orderId>              cancel <orderId>
  help                       quit`

type app struct {
	cfg    config.StorefrontConfig
	client *api.Client
	term   *terminal
	log    *zap.Logger

	session  *storefront.Session
	cart     *storefront.CartOrchestrator
	discount *storefront.DiscountApplier
}

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.LoadStorefront()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	//画面を汚さないようにwarn以上だけ
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	log, err := zcfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		cfg:    cfg,
		client: api.NewClient(cfg.APIURL, cfg.APITimeout),
		term:   newTerminal(os.Stdin, os.Stdout),
		log:    log,
	}
	a.discount = storefront.NewDiscountApplier(a.client, log)

	a.term.printf("pet store (%s)\n%s\n", cfg.APIURL, help)
	for {
		line, ok := a.term.readLine(ctx, "> ")
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		if err := a.run(ctx, fields[0], fields[1:]); err != nil {
			log.Debug("command failed", zap.String("cmd", fields[0]), zap.Error(err))
		}
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.term.printf("%s\n", help)
		return nil
	case "login":
		if len(args) != 2 {
			return a.usage("login <email> <password>")
		}
		return a.login(ctx, args[0], args[1])
	case "pets":
		return a.pets(ctx, strings.Join(args, " "))
	case "discounts":
		return a.activeDiscounts(ctx)
	}

	//以下はログイン必須
	if a.session == nil {
		a.term.Error("Please log in first.", storefront.DefaultNotifyDuration)
		return nil
	}

	switch cmd {
	case "logout":
		err := a.session.Logout(ctx, a.client)
		a.session, a.cart = nil, nil
		a.client.SetTokenSource(nil)
		a.term.Success("Logged out.", storefront.DefaultNotifyDuration)
		return err
	case "add":
		id, err := a.idArg(args, "add <petId>")
		if err != nil {
			return err
		}
		if _, err := a.client.AddToCart(ctx, id); err != nil {
			a.term.Error(storefront.UserMessage(err, "Failed to add pet to cart"), storefront.DefaultNotifyDuration)
			return err
		}
		a.term.Success("Pet added to cart.", storefront.DefaultNotifyDuration)
		return a.showCart(ctx)
	case "cart":
		return a.showCart(ctx)
	case "remove":
		id, err := a.idArg(args, "remove <itemId>")
		if err != nil {
			return err
		}
		if err := a.cart.RemoveItem(ctx, id); err != nil {
			return err
		}
		a.printCart()
		return nil
	case "discount":
		if len(args) != 1 {
			return a.usage("discount <code>")
		}
		if err := a.cart.ApplyDiscount(ctx, args[0]); err != nil {
			return err
		}
		a.printCart()
		return nil
	case "undiscount":
		a.cart.RemoveDiscount()
		a.printCart()
		return nil
	case "checkout":
		order, err := a.cart.Checkout(ctx)
		if err != nil {
			return err
		}
		a.term.takePath()
		return a.pay(ctx, order.ID)
	case "orders":
		return a.orders(ctx)
	case "pay":
		id, err := a.idArg(args, "pay <orderId>")
		if err != nil {
			return err
		}
		return a.pay(ctx, id)
	case "cancel":
		id, err := a.idArg(args, "cancel <orderId>")
		if err != nil {
			return err
		}
		m := a.newCheckout()
		if err := m.Enter(ctx, id); err != nil {
			return err
		}
		return m.CancelOrder(ctx)
	}

	a.term.printf("unknown command %q\n", cmd)
	return nil
}

func (a *app) usage(s string) error {
	a.term.printf("usage: %s\n", s)
	return nil
}

func (a *app) idArg(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		a.term.printf("usage: %s\n", usage)
		return 0, errors.New(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		a.term.printf("usage: %s\n", usage)
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func (a *app) login(ctx context.Context, email, password string) error {
	s, err := storefront.Login(ctx, a.client, email, password)
	if err != nil {
		a.term.Error(storefront.UserMessage(err, "Login failed"), storefront.DefaultNotifyDuration)
		return err
	}
	a.session = s
	a.client.SetTokenSource(s)
	a.cart = storefront.NewCartOrchestrator(a.client, a.discount, s, a.term, a.term, a.log)

	u, _ := s.User()
	a.term.Success("Welcome, "+u.Email, storefront.DefaultNotifyDuration)
	return a.cart.Load(ctx)
}

func (a *app) pets(ctx context.Context, q string) error {
	list, err := a.client.ListPets(ctx, q)
	if err != nil {
		a.term.Error(storefront.UserMessage(err, "Failed to load pets"), storefront.DefaultNotifyDuration)
		return err
	}
	for _, p := range list {
		a.term.printf("  #%d %-20s %10s\n", p.ID, p.Name, p.Price.StringFixed(2))
	}
	return nil
}

func (a *app) activeDiscounts(ctx context.Context) error {
	list, err := a.client.ActiveDiscounts(ctx)
	if err != nil {
		a.term.Error(storefront.UserMessage(err, "Failed to load discounts"), storefront.DefaultNotifyDuration)
		return err
	}
	for _, d := range list {
		a.term.printf("  %-12s %s%%  %s\n", d.Code, d.Percentage.String(), d.Description)
	}
	return nil
}

func (a *app) showCart(ctx context.Context) error {
	if err := a.cart.Load(ctx); err != nil {
		return err
	}
	a.printCart()
	return nil
}

func (a *app) printCart() {
	st := a.cart.View()
	if len(st.Items) == 0 {
		a.term.printf("  (cart is empty)\n")
		return
	}
	for _, it := range st.Items {
		price := "-"
		if it.Price != nil {
			price = it.Price.StringFixed(2)
		}
		a.term.printf("  item #%d  %-20s %10s\n", it.ID, it.Pet.Name, price)
	}
	a.term.printf("  total %s\n", st.Total.StringFixed(2))
	if st.Discount != nil && st.TotalAfterDiscount != nil {
		a.term.printf("  %s (-%s)  → %s\n", st.Discount.Code, st.Discount.DiscountAmount.StringFixed(2), st.TotalAfterDiscount.StringFixed(2))
	}
}

func (a *app) orders(ctx context.Context) error {
	list, err := a.client.ListOrders(ctx)
	if err != nil {
		a.term.Error(storefront.UserMessage(err, "Failed to load orders"), storefront.DefaultNotifyDuration)
		return err
	}
	for _, o := range list {
		a.term.printf("  #%d %s %-9s %10s\n", o.ID, o.OrderNumber, o.Status, o.TotalAmount.StringFixed(2))
	}
	return nil
}

func (a *app) newCheckout() *storefront.CheckoutStateMachine {
	sim := storefront.NewSimulator(a.term, a.log)
	sim.Ticks = a.cfg.PaymentTicks
	sim.TickInterval = a.cfg.PaymentTickInterval
	sim.OnProgress = a.term.progress
	return storefront.NewCheckoutStateMachine(a.client, sim, a.term, a.term, a.term, a.log)
}

// pay はチェックアウト画面の代わりに対話で支払い情報を集める
func (a *app) pay(ctx context.Context, orderID int64) error {
	m := a.newCheckout()
	if err := m.Enter(ctx, orderID); err != nil {
		return err
	}
	if err := m.LoadAddresses(ctx); err != nil {
		return err
	}

	o, _ := m.Order()
	a.term.printf("order %s  subtotal %s  discount %s\n",
		o.OrderNumber, m.Subtotal().StringFixed(2), m.DiscountAmount().StringFixed(2))

	for _, addr := range m.Addresses() {
		mark := " "
		if addr.IsDefault {
			mark = "*"
		}
		a.term.printf(" %s address #%d %s, %s %s\n", mark, addr.ID, addr.Street, addr.City, addr.Country)
	}
	if line, ok := a.term.readLine(ctx, "shipping address id (enter for default): "); ok && line != "" {
		id, _ := strconv.ParseInt(line, 10, 64)
		if err := m.SelectShippingAddress(id); err != nil {
			a.term.Error(storefront.UserMessage(err, "Invalid address"), storefront.DefaultNotifyDuration)
			return err
		}
	}

	t, fields, ok := a.readPayment(ctx)
	if !ok {
		return nil
	}
	m.SetPaymentSelection(t, fields)

	err := m.ConfirmCheckout(ctx)
	if errors.Is(err, storefront.ErrPaymentDismissed) {
		a.term.printf("payment dismissed, order #%d is still placed\n", orderID)
		return nil
	}
	return err
}

func (a *app) readPayment(ctx context.Context) (payment.PaymentType, payment.Fields, bool) {
	var f payment.Fields
	line, ok := a.term.readLine(ctx, "payment [card|debit|paypal|wallet]: ")
	if !ok {
		return "", f, false
	}

	switch strings.ToLower(line) {
	case "paypal":
		f.PayPalContact, _ = a.term.readLine(ctx, "PayPal email or phone: ")
		return payment.TypePayPal, f, true
	case "wallet":
		f.Wallet, _ = a.term.readLine(ctx, "wallet [GRABPAY|BOOSTPAY|TOUCHNGO]: ")
		f.Wallet = strings.ToUpper(f.Wallet)
		id, _ := a.term.readLine(ctx, "wallet id: ")
		f.GrabPayID, f.BoostPayID, f.TouchNGoID = id, id, id
		return payment.TypeEWallet, f, true
	}

	t := payment.TypeCreditCard
	if strings.ToLower(line) == "debit" {
		t = payment.TypeDebitCard
	}
	f.CardNumber, _ = a.term.readLine(ctx, "card number: ")
	f.Expiry, _ = a.term.readLine(ctx, "expiry (MM/YY): ")
	f.CVV, _ = a.term.readLine(ctx, "cvv: ")
	f.CardHolder, _ = a.term.readLine(ctx, "card holder: ")
	return t, f, true
}
