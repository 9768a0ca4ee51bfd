package premium

import (
	"context"
	"errors"
	"log"
	"time"

	"unlockbot/models"
	"unlockbot/pkg/storage"
)

// Store — часть хранилища, нужная для проверки подписок.
type Store interface {
	GetPremium(ctx context.Context, userID int64) (*models.PremiumMembership, error)
	UpsertPremium(ctx context.Context, m models.PremiumMembership) error
	DeletePremium(ctx context.Context, userID int64) (bool, error)
	DeleteExpiredPremium(ctx context.Context, userID int64, now time.Time) (bool, error)
}

// Oracle решает, является ли пользователь премиум-участником.
// Владелец всегда премиум, остальные — пока не истёк срок подписки.
// Просроченная подписка удаляется при первой же проверке.
type Oracle struct {
	Store   Store
	OwnerID int64
	Now     func() time.Time
}

// NewOracle создаёт проверку подписок с системными часами.
func NewOracle(store Store, ownerID int64) *Oracle {
	return &Oracle{Store: store, OwnerID: ownerID, Now: time.Now}
}

// IsOwner сообщает, является ли пользователь владельцем бота.
func (o *Oracle) IsOwner(userID int64) bool {
	return userID == o.OwnerID
}

// IsPremium проверяет подписку. Ошибка хранилища возвращается вызывающему,
// отсутствие записи ошибкой не считается.
func (o *Oracle) IsPremium(ctx context.Context, userID int64) (bool, error) {
	if o.IsOwner(userID) {
		return true, nil
	}
	m, err := o.Store.GetPremium(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	now := o.Now()
	if m.Active(now) {
		return true, nil
	}

	// Удаляется только запись, истёкшая к now: продление, выданное после чтения, сохраняется
	deleted, err := o.Store.DeleteExpiredPremium(ctx, userID, now)
	if err != nil {
		log.Printf("[PREMIUM] не удалось удалить просроченную подписку %d: %v", userID, err)
		return false, nil
	}
	if deleted {
		log.Printf("[PREMIUM] подписка %d истекла %s и удалена", userID, m.ExpiresAt.Format(time.RFC3339))
		return false, nil
	}

	m, err = o.Store.GetPremium(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.Active(now), nil
}

// Grant выдаёт подписку на days дней начиная с текущего момента.
func (o *Oracle) Grant(ctx context.Context, userID int64, days int, plan string) (*models.PremiumMembership, error) {
	m := models.PremiumMembership{
		UserID:    userID,
		Plan:      plan,
		ExpiresAt: o.Now().AddDate(0, 0, days),
	}
	if err := o.Store.UpsertPremium(ctx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Revoke удаляет подписку без подтверждения и без уведомления пользователя.
func (o *Oracle) Revoke(ctx context.Context, userID int64) (bool, error) {
	return o.Store.DeletePremium(ctx, userID)
}
