package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"fitmrp-client/internal/cart"
	"fitmrp-client/internal/document"
	"fitmrp-client/internal/order"
	"fitmrp-client/internal/user"
)

type command struct {
	name    string
	usage   string
	session bool
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{name: "login", usage: "-email E -password P: log in and store the session", run: cmdLogin},
	{name: "signup", usage: "-name N -email E -password P: create a customer account", run: cmdSignup},
	{name: "logout", usage: "forget the stored session", run: cmdLogout},
	{name: "whoami", usage: "show the current session", session: true, run: cmdWhoami},
	{name: "cart", usage: "show the cart", session: true, run: cmdCart},
	{name: "add", usage: "<product-id> [qty]: add a product to the cart", session: true, run: cmdAdd},
	{name: "set", usage: "<product-id> <qty>: change a line's quantity", session: true, run: cmdSet},
	{name: "remove", usage: "<product-id>: remove a line", session: true, run: cmdRemove},
	{name: "checkout", usage: "place an order with the cart", session: true, run: cmdCheckout},
	{name: "orders", usage: "list past orders", session: true, run: cmdOrders},
	{name: "refund", usage: "[-reason R] <order-id>: request a refund", session: true, run: cmdRefund},
	{name: "quote", usage: "export a quotation of the cart as HTML", session: true, run: cmdQuote},
	{name: "invoice", usage: "<order-id>: export an order invoice as HTML", session: true, run: cmdInvoice},
	{name: "products", usage: "[query]: list products", run: cmdProducts},
	{name: "inventory", usage: "[query]: list stock levels", run: cmdInventory},
	{name: "materials", usage: "[query]: list raw materials", run: cmdMaterials},
	{name: "movements", usage: "-product ID | -material ID: show a traceability timeline", run: cmdMovements},
}

func commandByName(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func newFlags(name string, a *app) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func argN(args []string, n int, what string) (string, error) {
	if len(args) <= n {
		return "", fmt.Errorf("%w: missing %s", errUsage, what)
	}
	return args[n], nil
}

func intArg(args []string, n int, what string, def int) (int, error) {
	if len(args) <= n {
		return def, nil
	}
	v, err := strconv.Atoi(args[n])
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errUsage, what)
	}
	return v, nil
}

// ----------------- Account -----------------

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login", a)
	email := fs.String("email", a.opts.email, "account email")
	password := fs.String("password", a.opts.password, "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := a.users.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s> (user %s)\n", displayName(s.Name, s.Email), s.Email, s.UserID)
	return nil
}

func cmdSignup(ctx context.Context, a *app, args []string) error {
	fs := newFlags("signup", a)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	err := a.users.Signup(ctx, user.SignupParams{Name: *name, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created for %s. Run `fitmrp login` to sign in.\n", *email)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.users.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func cmdWhoami(_ context.Context, a *app, _ []string) error {
	s := a.session
	fmt.Fprintf(a.out, "%s <%s> (user %s)\n", displayName(s.Name, s.Email), s.Email, s.UserID)
	if s.ExpiresAt != nil {
		fmt.Fprintf(a.out, "Session expires %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// ----------------- Cart -----------------

func cmdCart(ctx context.Context, a *app, _ []string) error {
	svc := a.cart()
	c := svc.LoadCart(ctx)
	if a.raised(cart.FetchFailed) || a.raised(cart.SessionInvalid) {
		return errors.New("cart could not be loaded")
	}
	printCart(a.out, c)
	return nil
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	id, err := argN(args, 0, "product id")
	if err != nil {
		return err
	}
	qty, err := intArg(args, 1, "quantity", 1)
	if err != nil {
		return err
	}

	svc := a.cart()
	if err := svc.AddItem(ctx, id, qty); err != nil {
		return err
	}
	printCart(a.out, svc.Snapshot())
	return nil
}

func cmdSet(ctx context.Context, a *app, args []string) error {
	id, err := argN(args, 0, "product id")
	if err != nil {
		return err
	}
	if _, err := argN(args, 1, "quantity"); err != nil {
		return err
	}
	qty, err := intArg(args, 1, "quantity", 0)
	if err != nil {
		return err
	}

	svc := a.cart()
	if qty < 1 {
		fmt.Fprintln(a.out, "Quantity below 1 ignored; use `fitmrp remove` to drop a line.")
		printCart(a.out, svc.LoadCart(ctx))
		return nil
	}
	if err := svc.SetQuantity(ctx, id, qty); err != nil {
		return err
	}
	printCart(a.out, svc.Snapshot())
	return nil
}

func cmdRemove(ctx context.Context, a *app, args []string) error {
	id, err := argN(args, 0, "product id")
	if err != nil {
		return err
	}

	svc := a.cart()
	if err := svc.RemoveItem(ctx, id); err != nil {
		return err
	}
	printCart(a.out, svc.Snapshot())
	return nil
}

func cmdCheckout(ctx context.Context, a *app, _ []string) error {
	svc := a.cart()
	c := svc.LoadCart(ctx)
	if a.raised(cart.FetchFailed) {
		return errors.New("cart could not be loaded")
	}
	printCart(a.out, c)

	msg, err := svc.Checkout(ctx)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Order placed."
	}
	fmt.Fprintln(a.out, msg)

	if latest, ok := newestOrder(svc.Orders()); ok {
		fmt.Fprintf(a.out, "Order %s total %s\n", latest.ID, latest.TotalDisplay())
	}
	return nil
}

// newestOrder picks the order with the latest date. History order is not
// guaranteed; on equal dates the later entry wins.
func newestOrder(orders []order.Order) (order.Order, bool) {
	if len(orders) == 0 {
		return order.Order{}, false
	}
	newest := orders[0]
	for _, o := range orders[1:] {
		if !o.Date.Before(newest.Date) {
			newest = o
		}
	}
	return newest, true
}

// ----------------- Orders -----------------

func cmdOrders(ctx context.Context, a *app, _ []string) error {
	orders, err := a.cart().LoadOrders(ctx)
	if err != nil {
		return err
	}
	printOrders(a.out, orders)
	return nil
}

func cmdRefund(ctx context.Context, a *app, args []string) error {
	fs := newFlags("refund", a)
	reason := fs.String("reason", "", "reason for the refund")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := argN(fs.Args(), 0, "order id")
	if err != nil {
		return err
	}

	req, err := a.cart().RequestRefund(ctx, id, *reason)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Refund for order %s requested (%s): %s\n", req.OrderID, req.Status, req.Reason)
	return nil
}

// ----------------- Documents -----------------

func cmdQuote(ctx context.Context, a *app, _ []string) error {
	c := a.cart().LoadCart(ctx)
	if a.raised(cart.FetchFailed) {
		return errors.New("cart could not be loaded")
	}
	if c.Empty() {
		return cart.ErrCartEmpty
	}

	return a.export(document.Quotation(c, a.customer(), a.now()))
}

func cmdInvoice(ctx context.Context, a *app, args []string) error {
	id, err := argN(args, 0, "order id")
	if err != nil {
		return err
	}

	orders, err := a.cart().LoadOrders(ctx)
	if err != nil {
		return err
	}
	o, ok := findOrder(orders, id)
	if !ok {
		return fmt.Errorf("%w: %s", order.ErrOrderNotFound, id)
	}

	return a.export(document.Invoice(ctx, o, a.customer(), a.now()))
}

func (a *app) export(d document.Document) error {
	path, err := a.exporter.Export(d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s written to %s\n", d.Title, d.Number, path)
	return nil
}

func findOrder(orders []order.Order, id string) (order.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return order.Order{}, false
}

// ----------------- Catalog -----------------

func query(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func cmdProducts(ctx context.Context, a *app, args []string) error {
	products, err := a.catalog.Products(ctx, query(args))
	if err != nil {
		return err
	}
	printProducts(a.out, products)
	return nil
}

func cmdInventory(ctx context.Context, a *app, args []string) error {
	items, err := a.catalog.Inventory(ctx, query(args))
	if err != nil {
		return err
	}
	printInventory(a.out, items)
	return nil
}

func cmdMaterials(ctx context.Context, a *app, args []string) error {
	materials, err := a.catalog.RawMaterials(ctx, query(args))
	if err != nil {
		return err
	}
	printMaterials(a.out, materials)
	return nil
}

func cmdMovements(ctx context.Context, a *app, args []string) error {
	fs := newFlags("movements", a)
	product := fs.String("product", "", "product id")
	material := fs.String("material", "", "raw material id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *product != "":
		moves, err := a.catalog.ProductMovements(ctx, *product)
		if err != nil {
			return err
		}
		printMovements(a.out, moves)
	case *material != "":
		moves, err := a.catalog.RawMaterialMovements(ctx, *material)
		if err != nil {
			return err
		}
		printMovements(a.out, moves)
	default:
		return fmt.Errorf("%w: -product or -material is required", errUsage)
	}
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
