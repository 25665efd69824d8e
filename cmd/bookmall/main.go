package main

import (
	"Bookmall/config"
	"Bookmall/pkg/log"
	"Bookmall/pkg/utils"
	"Bookmall/types"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)
	cfg := config.New(path)
	app := InitApp(cfg)

	cliApp := &cli.App{
		Name:  "bookmall",
		Usage: "bookstore terminal client",
		Commands: []*cli.Command{
			loginCommand(app),
			logoutCommand(app),
			cartCommand(app),
			checkoutCommand(app),
			ordersCommand(app),
			refundCommand(app),
			closeCommand(app),
			confirmCommand(app),
			booksCommand(app),
			categoriesCommand(app),
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("command failed", zap.Error(err))
	}
}

func loginCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "resolve and cache the user identity",
		Action: func(c *cli.Context) error {
			openid, err := app.Identity.Resolve(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("openid: %s\n", openid)
			return nil
		},
	}
}

func logoutCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "clear the cached identity",
		Action: func(c *cli.Context) error {
			return app.Identity.Clear(c.Context)
		},
	}
}

func cartCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "cart operations",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "show cart lines and totals",
				Action: func(c *cli.Context) error {
					lines, err := app.Cart.Load(c.Context)
					if err != nil {
						return err
					}
					for _, l := range lines {
						mark := " "
						if l.Selected {
							mark = "*"
						}
						fmt.Printf("[%s] #%d %s x%d  %s\n",
							mark, l.Id, l.BookName, l.Quantity, utils.FormatPrice(l.EffectivePrice()))
					}
					t := app.Cart.Totals()
					fmt.Printf("selected total: %s (%d items)\n", utils.FormatPrice(t.TotalAmount), t.TotalCount)
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "add a book to the cart",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "book", Required: true},
					&cli.IntFlag{Name: "qty", Value: 1},
				},
				Action: func(c *cli.Context) error {
					return app.Cart.Add(c.Context, c.Int64("book"), c.Int("qty"))
				},
			},
			{
				Name:  "qty",
				Usage: "change line quantity",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true},
					&cli.IntFlag{Name: "n", Required: true},
				},
				Action: func(c *cli.Context) error {
					if _, err := app.Cart.Load(c.Context); err != nil {
						return err
					}
					return app.Cart.SetQuantity(c.Context, c.Int64("id"), c.Int("n"))
				},
			},
			{
				Name:  "select",
				Usage: "toggle line selection",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: func(c *cli.Context) error {
					if _, err := app.Cart.Load(c.Context); err != nil {
						return err
					}
					return app.Cart.ToggleSelect(c.Context, c.Int64("id"))
				},
			},
			{
				Name:  "select-all",
				Usage: "select or deselect every line",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "on", Value: true}},
				Action: func(c *cli.Context) error {
					if _, err := app.Cart.Load(c.Context); err != nil {
						return err
					}
					return app.Cart.SetAllSelected(c.Context, c.Bool("on"))
				},
			},
			{
				Name:  "rm",
				Usage: "remove a line",
				Flags: []cli.Flag{&cli.Int64Flag{Name: "id", Required: true}},
				Action: func(c *cli.Context) error {
					if _, err := app.Cart.Load(c.Context); err != nil {
						return err
					}
					return app.Cart.Remove(c.Context, c.Int64("id"))
				},
			},
		},
	}
}

func checkoutCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "create an order from the selected lines and pay",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "pickup", Usage: "pick up in store instead of delivery"},
			&cli.StringFlag{Name: "name", Usage: "pickup recipient name"},
			&cli.StringFlag{Name: "phone", Usage: "pickup recipient phone"},
			&cli.StringFlag{Name: "remark"},
		},
		Action: func(c *cli.Context) error {
			if _, err := app.Cart.Load(c.Context); err != nil {
				return err
			}
			set, err := app.Cart.Snapshot()
			if err != nil {
				return err
			}

			info := types.CheckoutInfo{Remark: c.String("remark")}
			if c.Bool("pickup") {
				info.DeliveryType = types.DeliveryPickup
				info.Name = c.String("name")
				info.Phone = c.String("phone")
			} else {
				info.DeliveryType = types.DeliveryExpress
				addr, err := app.Addresses.Default(c.Context)
				if err != nil {
					return err
				}
				info.Address = addr
			}

			result, err := app.Orders.Checkout(c.Context, set, info)
			if err != nil {
				return err
			}
			fmt.Printf("paid, order %s\n", result.OutTradeNo)
			if result.Reconciliation != nil {
				fmt.Println("note: result report did not reach the backend, it will reconcile on its own")
			}
			return nil
		},
	}
}

func ordersCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "list my orders",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status"},
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "size", Value: 10},
		},
		Action: func(c *cli.Context) error {
			status := types.ParseOrderStatus(c.String("status"))
			page, err := app.Queries.List(c.Context, status, c.Int("page"), c.Int("size"))
			if err != nil {
				return err
			}
			for _, o := range page.Orders {
				fmt.Printf("%s  %s  %s\n", o.OutTradeNo, o.Status.Label(), utils.FormatPrice(o.TotalAmount))
			}
			fmt.Printf("total: %d\n", page.Total)
			return nil
		},
	}
}

func refundCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "refund",
		Usage: "apply for a refund",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "order", Usage: "outTradeNo", Required: true},
			&cli.StringFlag{Name: "reason"},
		},
		Action: func(c *cli.Context) error {
			order, err := app.Queries.Detail(c.Context, c.String("order"))
			if err != nil {
				return err
			}
			if !order.Status.CanRefund() {
				return errors.New("order is not refundable in its current status")
			}
			return app.Queries.ApplyRefund(c.Context, order.Id, c.String("reason"))
		},
	}
}

func closeCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "close",
		Usage: "close an unpaid order",
		Flags: []cli.Flag{&cli.StringFlag{Name: "order", Usage: "outTradeNo", Required: true}},
		Action: func(c *cli.Context) error {
			order, err := app.Queries.Detail(c.Context, c.String("order"))
			if err != nil {
				return err
			}
			if !order.Status.CanClose() {
				return errors.New("only unpaid orders can be closed")
			}
			return app.Queries.Close(c.Context, order.OutTradeNo)
		},
	}
}

func confirmCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "confirm",
		Usage: "confirm receipt of a delivered order",
		Flags: []cli.Flag{&cli.StringFlag{Name: "order", Usage: "outTradeNo", Required: true}},
		Action: func(c *cli.Context) error {
			order, err := app.Queries.Detail(c.Context, c.String("order"))
			if err != nil {
				return err
			}
			return app.Orders.ConfirmReceipt(c.Context, order)
		},
	}
}

func booksCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "books",
		Usage: "browse books",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "keyword"},
			&cli.Int64Flag{Name: "category"},
			&cli.IntFlag{Name: "page", Value: 1},
		},
		Action: func(c *cli.Context) error {
			books, total, err := app.Books.List(c.Context, types.BookQuery{
				Keyword:    c.String("keyword"),
				CategoryId: c.Int64("category"),
				Page:       c.Int("page"),
				Size:       20,
			})
			if err != nil {
				return err
			}
			for _, b := range books {
				fmt.Printf("#%d %s - %s  %s\n", b.Id, b.Name, b.Author, utils.FormatPrice(b.Price))
			}
			fmt.Printf("total: %d\n", total)
			return nil
		},
	}
}

func categoriesCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "list enabled categories",
		Action: func(c *cli.Context) error {
			categories, err := app.Categories.Enabled(c.Context)
			if err != nil {
				return err
			}
			for _, cat := range categories {
				fmt.Printf("#%d %s\n", cat.Id, cat.Name)
			}
			return nil
		},
	}
}
