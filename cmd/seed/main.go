package main

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	"github.com/dujiao-next/order-desk/internal/authz"
	"github.com/dujiao-next/order-desk/internal/config"
	"github.com/dujiao-next/order-desk/internal/constants"
	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/models"
	"github.com/dujiao-next/order-desk/internal/repository"
	"github.com/dujiao-next/order-desk/internal/service"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedAttribute struct {
	Name  string
	Unit  string
	Price float64
}

type seedProduct struct {
	Slug       string
	Name       string
	Category   string
	BasePrice  float64
	Tags       []string
	Attributes []seedAttribute
}

func main() {
	var cashierName, cashierPass, disableName string
	flag.StringVar(&cashierName, "cashier", "cashier", "演示收银员账号")
	flag.StringVar(&cashierPass, "cashier-password", "Cashier#2026", "演示收银员密码")
	flag.StringVar(&disableName, "disable", "", "停用指定账号并作废其 token")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.ToDBOptions(cfg.Server.Mode == "debug")); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	categoryIDs := map[string]uint{}
	for _, cat := range []models.Category{
		{Slug: "home", Name: "家居", SortOrder: 2},
		{Slug: "stationery", Name: "文具", SortOrder: 1},
	} {
		item := cat
		if err := models.DB.Where("slug = ?", item.Slug).FirstOrCreate(&item).Error; err != nil {
			stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			continue
		}
		categoryIDs[item.Slug] = item.ID
	}

	products := []seedProduct{
		{
			Slug: "ceramic-vase", Name: "Ceramic vase", Category: "home", BasePrice: 50000,
			Tags: []string{"Ceramic", "Gift"},
			Attributes: []seedAttribute{
				{Name: "S", Unit: "size", Price: 50000},
				{Name: "M", Unit: "size", Price: 70000},
				{Name: "L", Unit: "size", Price: 90000},
			},
		},
		{
			Slug: "linen-cushion", Name: "Linen cushion", Category: "home", BasePrice: 120000,
			Attributes: []seedAttribute{
				{Name: "Beige", Unit: "color", Price: 120000},
				{Name: "Indigo", Unit: "color", Price: 135000},
			},
		},
		{
			Slug: "dot-notebook", Name: "Dot grid notebook", Category: "stationery", BasePrice: 45000,
			Tags: []string{"Paper"},
		},
	}
	for _, p := range products {
		if err := seedCatalogProduct(models.DB, p, categoryIDs[p.Category]); err != nil {
			stdLog.Printf("Failed to seed product %s: %v", p.Slug, err)
			continue
		}
		stdLog.Printf("Seeded product: %s", p.Slug)
	}

	yearEnd := time.Date(time.Now().Year(), 12, 31, 23, 59, 59, 0, time.Local)
	coupons := []models.Coupon{
		{Code: "TEN", Type: constants.DiscountTypePercentage, Value: money(10), MaxDiscount: money(50000), IsActive: true, EndsAt: &yearEnd},
		{Code: "FLAT20K", Type: constants.DiscountTypeFixed, Value: money(20000), IsActive: true},
	}
	for _, coupon := range coupons {
		item := coupon
		if err := models.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
			stdLog.Printf("Failed to seed coupon %s: %v", coupon.Code, err)
			continue
		}
		stdLog.Printf("Seeded coupon: %s", coupon.Code)
	}

	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap roles: %v", err)
	}
	cashier, err := ensureAdmin(models.DB, cashierName, cashierPass)
	if err != nil {
		stdLog.Fatalf("Failed to seed cashier: %v", err)
	}
	if err := authzService.SetAdminRoles(cashier.ID, []string{constants.RoleCashier}); err != nil {
		stdLog.Fatalf("Failed to grant cashier role: %v", err)
	}
	stdLog.Printf("Seeded admin %s with role cashier", cashier.Username)

	if name := strings.TrimSpace(disableName); name != "" {
		if err := disableAdmin(cfg, name); err != nil {
			stdLog.Fatalf("Failed to disable admin %s: %v", name, err)
		}
		stdLog.Printf("Disabled admin %s", name)
	}
}

func disableAdmin(cfg *config.Config, username string) error {
	repo := repository.NewAdminRepository(models.DB)
	admin, err := repo.GetByUsername(username)
	if err != nil {
		return err
	}
	if admin == nil {
		return service.ErrAdminNotFound
	}
	ctx := context.Background()
	auth := service.NewAuthService(cfg, repo)
	if err := auth.SetAdminDisabled(ctx, admin.ID, true); err != nil {
		return err
	}
	return auth.Logout(ctx, admin.ID)
}

func seedCatalogProduct(db *gorm.DB, p seedProduct, categoryID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		product := models.Product{
			Slug:       p.Slug,
			Name:       p.Name,
			CategoryID: categoryID,
			BasePrice:  money(p.BasePrice),
			Tags:       models.StringArray(p.Tags),
			IsActive:   true,
		}
		if err := tx.Where("slug = ?", p.Slug).FirstOrCreate(&product).Error; err != nil {
			return err
		}
		for i, attr := range p.Attributes {
			row := models.ProductAttribute{
				ProductID: product.ID,
				Name:      attr.Name,
				Unit:      attr.Unit,
				Price:     money(attr.Price),
				SortOrder: len(p.Attributes) - i,
			}
			if err := tx.Where("product_id = ? AND name = ?", product.ID, attr.Name).FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureAdmin(db *gorm.DB, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	var admin models.Admin
	err := db.Where("username = ?", username).First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin = models.Admin{Username: username, PasswordHash: string(hash)}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func money(v float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(v))
}
