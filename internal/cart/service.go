package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
)

// ChangeAction names a quantity mutation on an existing cart line.
type ChangeAction string

const (
	ActionIncrease ChangeAction = "increase"
	ActionDecrease ChangeAction = "decrease"
	ActionSet      ChangeAction = "set"
	ActionRemove   ChangeAction = "remove"
)

// View is the cart with its derived totals, computed on every read so the
// numbers always reflect current product prices.
type View struct {
	Cart      *models.Cart
	Subtotal  decimal.Decimal
	ItemCount int
}

// Service exposes cart operations keyed by owner identity.
type Service interface {
	GetCart(ctx context.Context, identity Identity) (*View, error)
	AddItem(ctx context.Context, identity Identity, productID uuid.UUID, quantity int) (*View, error)
	ChangeItem(ctx context.Context, identity Identity, itemID uuid.UUID, action ChangeAction, quantity int) (*View, error)
	Clear(ctx context.Context, identity Identity) (*View, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires the cart service. All dependencies are required.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart: repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("cart: tx runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) GetCart(ctx context.Context, identity Identity) (*View, error) {
	if !identity.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a user or session identity is required")
	}

	cart, err := s.repo.FindCart(ctx, identity)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return emptyView(identity), nil
		}
		return nil, err
	}
	return buildView(cart), nil
}

func (s *service) AddItem(ctx context.Context, identity Identity, productID uuid.UUID, quantity int) (*View, error) {
	if !identity.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a user or session identity is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindProduct(ctx, productID)
		if err != nil {
			return err
		}
		if !product.Available {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}

		cart, err := s.ensureCart(ctx, repo, identity)
		if err != nil {
			return err
		}

		existing, err := repo.FindItemByProduct(ctx, cart.ID, productID)
		if err != nil {
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
				return err
			}
			existing = nil
		}

		desired := quantity
		if existing != nil {
			desired += existing.Quantity
		}
		if desired > product.Stock {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for requested quantity").
				WithDetails(map[string]any{"product_id": productID, "stock": product.Stock})
		}

		if existing != nil {
			return repo.UpdateItemQuantity(ctx, existing.ID, desired)
		}
		return repo.CreateItem(ctx, &models.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  desired,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, identity)
}

func (s *service) ChangeItem(ctx context.Context, identity Identity, itemID uuid.UUID, action ChangeAction, quantity int) (*View, error) {
	if !identity.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a user or session identity is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindCart(ctx, identity)
		if err != nil {
			return err
		}

		// scoping the lookup to the owner's cart turns someone else's item
		// into a plain not-found
		item, err := repo.FindItem(ctx, cart.ID, itemID)
		if err != nil {
			return err
		}

		switch action {
		case ActionIncrease:
			return s.applyQuantity(ctx, repo, item, item.Quantity+1)
		case ActionDecrease:
			if item.Quantity <= 1 {
				return repo.DeleteItem(ctx, item.ID)
			}
			return repo.UpdateItemQuantity(ctx, item.ID, item.Quantity-1)
		case ActionSet:
			if quantity < 1 {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
			}
			return s.applyQuantity(ctx, repo, item, quantity)
		case ActionRemove:
			return repo.DeleteItem(ctx, item.ID)
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown cart action").
				WithDetails(map[string]any{"action": string(action)})
		}
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, identity)
}

func (s *service) Clear(ctx context.Context, identity Identity) (*View, error) {
	if !identity.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a user or session identity is required")
	}

	cart, err := s.repo.FindCart(ctx, identity)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return emptyView(identity), nil
		}
		return nil, err
	}

	if err := s.repo.DeleteItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, identity)
}

// applyQuantity writes a new quantity after re-checking stock so a cart can
// never hold more units than the shelf has.
func (s *service) applyQuantity(ctx context.Context, repo Repository, item *models.CartItem, quantity int) error {
	product, err := repo.FindProduct(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for requested quantity").
			WithDetails(map[string]any{"product_id": item.ProductID, "stock": product.Stock})
	}
	return repo.UpdateItemQuantity(ctx, item.ID, quantity)
}

func (s *service) ensureCart(ctx context.Context, repo Repository, identity Identity) (*models.Cart, error) {
	cart, err := repo.FindCart(ctx, identity)
	if err == nil {
		return cart, nil
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		return nil, err
	}

	cart = &models.Cart{ID: uuid.New(), UserID: identity.UserID, SessionID: identity.SessionID}
	if err := repo.CreateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func emptyView(identity Identity) *View {
	return &View{
		Cart:     &models.Cart{UserID: identity.UserID, SessionID: identity.SessionID},
		Subtotal: decimal.Zero,
	}
}

func buildView(cart *models.Cart) *View {
	subtotal := decimal.Zero
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
		if item.Product != nil {
			line := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			subtotal = subtotal.Add(line)
		}
	}
	return &View{Cart: cart, Subtotal: subtotal, ItemCount: count}
}
