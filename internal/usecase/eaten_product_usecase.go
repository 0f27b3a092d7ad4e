package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/google/uuid"
)

// EatenProductUseCase ведёт журнал питания пользователя.
// Каждое изменение записи сопровождается событием в outbox в той же транзакции.
type EatenProductUseCase struct {
	eatenRepo   EatenProductRepository
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	encoder     LedgerEventEncoder
	txManager   TxManager
	metrics     LedgerMetrics
	logger      logger.Logger
	location    *time.Location
	now         func() time.Time
}

func NewEatenProductUC(
	eatenRepo EatenProductRepository,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	encoder LedgerEventEncoder,
	txManager TxManager,
	metrics LedgerMetrics,
	logger logger.Logger,
	location *time.Location,
) *EatenProductUseCase {
	if location == nil {
		location = time.UTC
	}

	return &EatenProductUseCase{
		eatenRepo:   eatenRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		encoder:     encoder,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
		location:    location,
		now:         time.Now,
	}
}

// WithClock подменяет источник времени.
func (u *EatenProductUseCase) WithClock(now func() time.Time) *EatenProductUseCase {
	u.now = now
	return u
}

func (u *EatenProductUseCase) List(ctx context.Context, subject *access.Subject, filter EatenProductFilter) ([]domain.EatenProduct, error) {
	const op = "EatenProductUseCase.List"

	if err := u.check(subject, access.Read, nil); err != nil {
		return nil, e.Wrap(op, err)
	}

	entries, err := u.eatenRepo.List(ctx, subject.UserID, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return entries, nil
}

func (u *EatenProductUseCase) Get(ctx context.Context, subject *access.Subject, id int64) (*domain.EatenProduct, error) {
	const op = "EatenProductUseCase.Get"

	ep, err := u.getOwned(ctx, subject, access.Read, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return ep, nil
}

// Create записывает съеденный продукт на сегодняшнюю дату.
// Калории считаются по продукту в момент записи и дальше не пересчитываются.
func (u *EatenProductUseCase) Create(ctx context.Context, subject *access.Subject, req *CreateEatenProductReq) (*domain.EatenProduct, error) {
	const op = "EatenProductUseCase.Create"

	if err := u.check(subject, access.Write, nil); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := validateEatenWeight(req.Weight); err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.EatenProduct
	err := u.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := u.productRepo.GetByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		ep := &domain.EatenProduct{
			UserID:          subject.UserID,
			Weight:          req.Weight,
			PublicationDate: u.today(),
		}
		if err := ep.Snapshot(product); err != nil {
			return err
		}

		created, err = u.eatenRepo.Create(ctx, ep)
		if err != nil {
			return err
		}
		created.ProductName = product.Name
		created.CategorySlug = product.CategorySlug

		return u.writeEvent(ctx, EventEatenProductCreated, created)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	u.metrics.EatenProductChanged(EventEatenProductCreated)

	return created, nil
}

// Update меняет вес и/или продукт записи. Калории, единица и категория
// снимаются с продукта заново, дата записи не меняется.
func (u *EatenProductUseCase) Update(ctx context.Context, subject *access.Subject, req *UpdateEatenProductReq) (*domain.EatenProduct, error) {
	const op = "EatenProductUseCase.Update"

	if req.Weight != nil {
		if err := validateEatenWeight(*req.Weight); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	var updated *domain.EatenProduct
	err := u.txManager.Do(ctx, func(ctx context.Context) error {
		ep, err := u.getOwned(ctx, subject, access.Write, req.ID)
		if err != nil {
			return err
		}

		productID := ep.ProductID
		if req.ProductID != nil {
			productID = *req.ProductID
		}
		if req.Weight != nil {
			ep.Weight = *req.Weight
		}

		product, err := u.productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := ep.Snapshot(product); err != nil {
			return err
		}

		updated, err = u.eatenRepo.Update(ctx, ep)
		if err != nil {
			return err
		}
		updated.ProductName = product.Name
		updated.CategorySlug = product.CategorySlug

		return u.writeEvent(ctx, EventEatenProductUpdated, updated)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	u.metrics.EatenProductChanged(EventEatenProductUpdated)

	return updated, nil
}

func (u *EatenProductUseCase) Delete(ctx context.Context, subject *access.Subject, id int64) error {
	const op = "EatenProductUseCase.Delete"

	err := u.txManager.Do(ctx, func(ctx context.Context) error {
		ep, err := u.getOwned(ctx, subject, access.Write, id)
		if err != nil {
			return err
		}

		if err := u.eatenRepo.Delete(ctx, ep.ID, subject.UserID); err != nil {
			return err
		}

		return u.writeEvent(ctx, EventEatenProductDeleted, ep)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	u.metrics.EatenProductChanged(EventEatenProductDeleted)

	return nil
}

// getOwned читает запись и проверяет, что она принадлежит субъекту.
func (u *EatenProductUseCase) getOwned(ctx context.Context, subject *access.Subject, action access.Action, id int64) (*domain.EatenProduct, error) {
	if err := u.check(subject, action, nil); err != nil {
		return nil, err
	}

	ep, err := u.eatenRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.check(subject, action, &ep.UserID); err != nil {
		return nil, err
	}

	return ep, nil
}

func (u *EatenProductUseCase) writeEvent(ctx context.Context, eventType string, ep *domain.EatenProduct) error {
	event := &LedgerEvent{
		EventID:         uuid.NewString(),
		Type:            eventType,
		EatenProductID:  ep.ID,
		UserID:          ep.UserID,
		ProductID:       ep.ProductID,
		PublicationDate: ep.PublicationDate,
		Weight:          ep.Weight,
		Kcal:            ep.Kcal,
		OccurredAt:      u.now().UTC(),
	}

	payload, err := u.encoder.Encode(event)
	if err != nil {
		return e.Wrap("encode ledger event", err)
	}

	if _, err := u.outboxRepo.Create(ctx, NewOutboxEvent(event, payload)); err != nil {
		return e.Wrap("create outbox event", err)
	}

	return nil
}

func (u *EatenProductUseCase) today() time.Time {
	return domain.DateOf(u.now().In(u.location))
}

func (u *EatenProductUseCase) check(subject *access.Subject, action access.Action, ownerID *int64) error {
	return access.Check(access.Request{
		Resource: access.EatenProduct,
		Action:   action,
		Subject:  subject,
		OwnerID:  ownerID,
	})
}
