package service

import (
	"context"
	"errors"
	"testing"

	"mad-factory/internal/bags"
	"mad-factory/internal/model"
)

// fakeLauncher scripts the Bags pipeline: any step listed in failAt returns
// a StepError, everything else succeeds.
type fakeLauncher struct {
	failAt    string
	mint      string
	feeShares []bags.FeeShare
	feeMint   string
	calls     []string
}

func (f *fakeLauncher) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failAt == name {
		return &bags.StepError{Step: name, Status: 500, Detail: "upstream exploded"}
	}
	return nil
}

func (f *fakeLauncher) CreateTokenInfo(ctx context.Context, req bags.TokenInfoRequest) (*bags.TokenInfo, error) {
	if err := f.step(bags.StepCreateTokenInfo); err != nil {
		return nil, err
	}
	return &bags.TokenInfo{ID: "info-1"}, nil
}

func (f *fakeLauncher) CreateLaunchTransaction(ctx context.Context, tokenInfoID, creatorPublicKey string) (*bags.LaunchTransaction, error) {
	if err := f.step(bags.StepCreateLaunchTx); err != nil {
		return nil, err
	}
	return &bags.LaunchTransaction{Transaction: "tx-1"}, nil
}

func (f *fakeLauncher) SendTransaction(ctx context.Context, signedTransaction string) (*bags.SendResult, error) {
	if err := f.step(bags.StepSendTx); err != nil {
		return nil, err
	}
	return &bags.SendResult{Mint: f.mint}, nil
}

func (f *fakeLauncher) CreateFeeShareConfig(ctx context.Context, mint string, shares []bags.FeeShare) error {
	if err := f.step(bags.StepFeeShare); err != nil {
		return err
	}
	f.feeMint = mint
	f.feeShares = shares
	return nil
}

func TestCreateProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, &fakeLauncher{}, "builder-wallet")
	idea := seedIdea(t, db, "winner", model.IdeaStatusBuilding)

	product, err := svc.Create(ctx, model.CreateProductRequest{
		IdeaID:    idea.ID,
		GithubURL: "https://github.com/example/winner",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.DayNumber != 1 {
		t.Errorf("day_number = %d, want 1", product.DayNumber)
	}
	if product.Name != idea.Name || product.Description != idea.Description {
		t.Error("product did not inherit idea name/description")
	}
	if product.GithubURL == nil || *product.GithubURL != "https://github.com/example/winner" {
		t.Error("github url not stored")
	}
	if product.Status != model.ProductStatusBuilding {
		t.Errorf("status = %q, want building", product.Status)
	}

	// Day numbers are sequential by creation order, whatever the ideas are.
	second := seedIdea(t, db, "second", model.IdeaStatusBuilding)
	p2, err := svc.Create(ctx, model.CreateProductRequest{IdeaID: second.ID, Description: "override"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if p2.DayNumber != 2 {
		t.Errorf("second day_number = %d, want 2", p2.DayNumber)
	}
	if p2.Description != "override" {
		t.Errorf("description = %q, want override", p2.Description)
	}

	if got := ideaByID(t, db, idea.ID); got.Status != model.IdeaStatusBuilding {
		t.Errorf("idea status = %q, want building", got.Status)
	}
}

func TestCreateProductIdeaNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db, &fakeLauncher{}, "builder-wallet")

	_, err := svc.Create(ctx, model.CreateProductRequest{IdeaID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLaunchToken(t *testing.T) {
	db := newTestDB(t)
	launcher := &fakeLauncher{mint: "MINT123"}
	svc := NewProductService(db, launcher, "builder-wallet")
	idea := seedIdea(t, db, "winner", model.IdeaStatusBuilding)
	product, err := svc.Create(ctx, model.CreateProductRequest{IdeaID: idea.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	launched, err := svc.Launch(ctx, model.LaunchTokenRequest{
		ProductID:   product.ID,
		TokenName:   "Winner Coin",
		TokenTicker: "WIN",
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}

	if launched.Status != model.ProductStatusLive {
		t.Errorf("status = %q, want live", launched.Status)
	}
	if launched.TokenTicker == nil || *launched.TokenTicker != "WIN" {
		t.Error("ticker not stored")
	}
	if launched.TokenMint == nil || *launched.TokenMint != "MINT123" {
		t.Error("mint not stored")
	}
	if launched.BagsURL == nil || *launched.BagsURL != "https://bags.fm/token/MINT123" {
		t.Errorf("bags_url = %v", launched.BagsURL)
	}
	if launched.LaunchedAt == nil {
		t.Error("launched_at not set")
	}
	if got := ideaByID(t, db, idea.ID); got.Status != model.IdeaStatusLive {
		t.Errorf("idea status = %q, want live", got.Status)
	}

	want := []string{bags.StepCreateTokenInfo, bags.StepCreateLaunchTx, bags.StepSendTx}
	if len(launcher.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", launcher.calls, want)
	}
	for i, step := range want {
		if launcher.calls[i] != step {
			t.Errorf("call %d = %q, want %q", i, launcher.calls[i], step)
		}
	}
}

// A failure mid-pipeline must leave the product and idea exactly as they
// were: no partial launch state is ever committed.
func TestLaunchTokenStepFailure(t *testing.T) {
	for _, failAt := range []string{bags.StepCreateTokenInfo, bags.StepCreateLaunchTx, bags.StepSendTx} {
		t.Run(failAt, func(t *testing.T) {
			db := newTestDB(t)
			svc := NewProductService(db, &fakeLauncher{failAt: failAt}, "builder-wallet")
			idea := seedIdea(t, db, "winner", model.IdeaStatusBuilding)
			product, err := svc.Create(ctx, model.CreateProductRequest{IdeaID: idea.ID})
			if err != nil {
				t.Fatalf("create: %v", err)
			}

			_, err = svc.Launch(ctx, model.LaunchTokenRequest{
				ProductID: product.ID, TokenName: "Winner Coin", TokenTicker: "WIN",
			})
			var stepErr *bags.StepError
			if !errors.As(err, &stepErr) || stepErr.Step != failAt {
				t.Fatalf("err = %v, want StepError at %s", err, failAt)
			}

			got, err := svc.Get(ctx, product.ID)
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if got.Status != model.ProductStatusBuilding || got.TokenTicker != nil || got.LaunchedAt != nil {
				t.Error("product mutated despite failed launch")
			}
			if gotIdea := ideaByID(t, db, idea.ID); gotIdea.Status != model.IdeaStatusBuilding {
				t.Errorf("idea status = %q, want building", gotIdea.Status)
			}
		})
	}
}

func TestConfigureFeeShare(t *testing.T) {
	db := newTestDB(t)
	launcher := &fakeLauncher{mint: "MINT123"}
	svc := NewProductService(db, launcher, "builder-wallet")
	idea := seedIdea(t, db, "winner", model.IdeaStatusBuilding)
	product, _ := svc.Create(ctx, model.CreateProductRequest{IdeaID: idea.ID})

	// Not minted yet.
	err := svc.ConfigureFeeShare(ctx, model.FeeShareRequest{
		ProductID: product.ID, CreatorWallet: "creator-wallet",
	})
	if !errors.Is(err, ErrTokenNotMinted) {
		t.Fatalf("err = %v, want ErrTokenNotMinted", err)
	}

	if _, err := svc.Launch(ctx, model.LaunchTokenRequest{
		ProductID: product.ID, TokenName: "Winner Coin", TokenTicker: "WIN",
	}); err != nil {
		t.Fatalf("launch: %v", err)
	}

	err = svc.ConfigureFeeShare(ctx, model.FeeShareRequest{
		ProductID: product.ID, CreatorWallet: "creator-wallet",
	})
	if err != nil {
		t.Fatalf("fee share: %v", err)
	}
	if launcher.feeMint != "MINT123" {
		t.Errorf("fee share mint = %q, want MINT123", launcher.feeMint)
	}
	want := []bags.FeeShare{
		{Wallet: "builder-wallet", Percentage: FeeShareBuilder},
		{Wallet: "creator-wallet", Percentage: FeeShareCreator},
	}
	if len(launcher.feeShares) != 2 || launcher.feeShares[0] != want[0] || launcher.feeShares[1] != want[1] {
		t.Errorf("shares = %v, want %v", launcher.feeShares, want)
	}
}
