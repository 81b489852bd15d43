// Package main campus bookstore API.
//
// @title           Campus Bookstore API
// @version         1.0
// @description     Catalog, cart, orders, wishlist and book requests for a campus bookstore.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"

	"campusbooks/app/echoServer"
	authctrl "campusbooks/app/echoServer/controller/auth"
	bookctrl "campusbooks/app/echoServer/controller/book"
	cartctrl "campusbooks/app/echoServer/controller/cart"
	orderctrl "campusbooks/app/echoServer/controller/order"
	requestctrl "campusbooks/app/echoServer/controller/request"
	userctrl "campusbooks/app/echoServer/controller/user"
	wishlistctrl "campusbooks/app/echoServer/controller/wishlist"
	"campusbooks/app/echoServer/validation"
	"campusbooks/config"
	bookrepo "campusbooks/repository/book"
	cartrepo "campusbooks/repository/cart"
	inventoryrepo "campusbooks/repository/inventory"
	mailrepo "campusbooks/repository/mail"
	orderrepo "campusbooks/repository/order"
	requestrepo "campusbooks/repository/request"
	userrepo "campusbooks/repository/user"
	wishlistrepo "campusbooks/repository/wishlist"
	authsvc "campusbooks/service/auth"
	booksvc "campusbooks/service/book"
	cartsvc "campusbooks/service/cart"
	ordersvc "campusbooks/service/order"
	requestsvc "campusbooks/service/request"
	usersvc "campusbooks/service/user"
	wishlistsvc "campusbooks/service/wishlist"
	"campusbooks/util/database"
	"campusbooks/util/hash"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	txr := database.NewRunner(db)

	// optional catalog cache
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := cache.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, catalog cache disabled", "err", err)
			cache = nil
		}
	}

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	ir := inventoryrepo.New(db)
	cr := cartrepo.New(db)
	or := orderrepo.New(db)
	rr := requestrepo.New(db)
	wr := wishlistrepo.New(db)
	mr := mailrepo.NewSMTP(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailSender)

	// seed default admin
	if pwHash, err := hash.HashPassword(cfg.AdminPassword); err == nil {
		created, err := ur.EnsureAdmin(ctx, cfg.AdminEmail, pwHash)
		if err != nil {
			log.Error("admin seed failed", "err", err)
			os.Exit(1)
		}
		if created {
			log.Info("created default admin", "email", cfg.AdminEmail)
		}
	}

	// services
	as := authsvc.New(ur, mr, cfg.JWTSecret, cfg.BaseURL)
	bs := booksvc.New(br, cache, log)
	cs := cartsvc.New(txr, ir, cr, br)
	osvc := ordersvc.New(txr, ir, or, cr, br)
	rs := requestsvc.New(txr, rr)
	us := usersvc.New(txr, ur, ir, or, cr)
	ws := wishlistsvc.New(wr, br)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	cartC := &cartctrl.Controller{Svc: cs, V: v, Log: log}
	orderC := &orderctrl.Controller{Svc: osvc, V: v, Log: log}
	requestC := &requestctrl.Controller{Svc: rs, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log, UploadDir: cfg.UploadDir}
	wishlistC := &wishlistctrl.Controller{Svc: ws, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/static/uploads", cfg.UploadDir)

	echoServer.Register(e, echoServer.C{
		Auth:     authC,
		Book:     bookC,
		Cart:     cartC,
		Order:    orderC,
		Request:  requestC,
		User:     userC,
		Wishlist: wishlistC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port)
	e.Logger.Fatal(e.Start(":" + port))
}
