package service

import (
	"context"
	"fmt"
	"time"

	"mad-factory/internal/bags"
	"mad-factory/internal/logger"
	"mad-factory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fee share percentages on the launch platform: the builder takes the larger
// cut, the idea's original submitter the rest.
const (
	FeeShareBuilder = 70
	FeeShareCreator = 30
)

// LaunchClient is the slice of the Bags API the product service needs.
type LaunchClient interface {
	CreateTokenInfo(ctx context.Context, req bags.TokenInfoRequest) (*bags.TokenInfo, error)
	CreateLaunchTransaction(ctx context.Context, tokenInfoID, creatorPublicKey string) (*bags.LaunchTransaction, error)
	SendTransaction(ctx context.Context, signedTransaction string) (*bags.SendResult, error)
	CreateFeeShareConfig(ctx context.Context, mint string, shares []bags.FeeShare) error
}

type ProductService struct {
	db            *gorm.DB
	launcher      LaunchClient
	builderWallet string
}

func NewProductService(db *gorm.DB, launcher LaunchClient, builderWallet string) *ProductService {
	return &ProductService{db: db, launcher: launcher, builderWallet: builderWallet}
}

// Create promotes an idea into a product. Day numbers are a monotonic
// counter over product creations, starting at 1; removing a product later
// does not renumber the rest.
func (s *ProductService) Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	var idea model.Idea
	err := s.db.WithContext(ctx).First(&idea, "id = ?", req.IdeaID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: idea %s", ErrNotFound, req.IdeaID)
	}
	if err != nil {
		return nil, fmt.Errorf("query idea: %w", err)
	}

	description := req.Description
	if description == "" {
		description = idea.Description
	}
	product := model.Product{
		ID:          uuid.NewString(),
		IdeaID:      idea.ID,
		Name:        idea.Name,
		Description: description,
		GithubURL:   optional(req.GithubURL),
		DemoURL:     optional(req.DemoURL),
		Status:      model.ProductStatusBuilding,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Product{}).Count(&count).Error; err != nil {
			return err
		}
		product.DayNumber = int(count) + 1
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return tx.Model(&model.Idea{}).Where("id = ?", idea.ID).
			Update("status", model.IdeaStatusBuilding).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	logger.Info("product.created", "product", product.ID, "idea", idea.ID, "day", product.DayNumber)
	return &product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Preload("Idea").First(&product, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Preload("Idea").Order("created_at DESC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return products, nil
}

// Launch runs the three-step Bags pipeline and only then commits local state:
// product goes live with its token fields, the idea goes live with it. A
// failure at any step surfaces the step and leaves local rows untouched.
// Steps already taken against Bags are not compensated; the worst case is an
// orphaned token info or an unsubmitted transaction on their side.
func (s *ProductService) Launch(ctx context.Context, req model.LaunchTokenRequest) (*model.Product, error) {
	product, err := s.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	description := req.TokenDescription
	if description == "" {
		description = product.Description
	}

	info, err := s.launcher.CreateTokenInfo(ctx, bags.TokenInfoRequest{
		Name:        req.TokenName,
		Ticker:      req.TokenTicker,
		Description: description,
		Image:       req.TokenImage,
	})
	if err != nil {
		return nil, err
	}

	launchTx, err := s.launcher.CreateLaunchTransaction(ctx, info.ID, s.builderWallet)
	if err != nil {
		return nil, err
	}

	result, err := s.launcher.SendTransaction(ctx, launchTx.Transaction)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"token_ticker": req.TokenTicker,
		"status":       model.ProductStatusLive,
		"launched_at":  now,
	}
	if result.Mint != "" {
		updates["token_mint"] = result.Mint
		updates["bags_url"] = "https://bags.fm/token/" + result.Mint
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&model.Idea{}).Where("id = ?", product.IdeaID).
			Update("status", model.IdeaStatusLive).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record launch: %w", err)
	}

	logger.Info("product.launched", "product", product.ID, "ticker", req.TokenTicker, "mint", result.Mint)
	return s.Get(ctx, product.ID)
}

// ConfigureFeeShare posts the builder/creator revenue split for a launched
// product's token. The product must already have a mint address.
func (s *ProductService) ConfigureFeeShare(ctx context.Context, req model.FeeShareRequest) error {
	product, err := s.Get(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if product.TokenMint == nil || *product.TokenMint == "" {
		return ErrTokenNotMinted
	}

	err = s.launcher.CreateFeeShareConfig(ctx, *product.TokenMint, []bags.FeeShare{
		{Wallet: s.builderWallet, Percentage: FeeShareBuilder},
		{Wallet: req.CreatorWallet, Percentage: FeeShareCreator},
	})
	if err != nil {
		return err
	}

	logger.Info("product.fee_share", "product", product.ID, "creator_wallet", req.CreatorWallet)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
