package checkout

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/pkg/mailer"
	mailtpl "github.com/oksasatya/go-storefront/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier enqueues order emails. Without a publisher it only logs.
type Notifier struct {
	Publisher Publisher
	Store     mailtpl.StoreInfo
	Logger    *logrus.Logger
}

func (n *Notifier) OrderPlaced(ctx context.Context, o entity.Order) {
	if n == nil {
		return
	}
	n.enqueue(ctx, mailtpl.OrderConfirmation, o, mailtpl.NewOrderConfirmationData(n.Store, o))
}

func (n *Notifier) OrderStatusChanged(ctx context.Context, o entity.Order) {
	if n == nil {
		return
	}
	n.enqueue(ctx, mailtpl.OrderStatus, o, mailtpl.NewOrderStatusData(n.Store, o))
}

func (n *Notifier) enqueue(ctx context.Context, template string, o entity.Order, data map[string]any) {
	log := n.Logger.WithFields(logrus.Fields{"order_id": o.ID, "template": template})
	if o.CustomerEmail == "" {
		log.Debug("order has no customer email, skipping notification")
		return
	}
	if n.Publisher == nil {
		log.Debug("email queue disabled")
		return
	}
	job := mailer.EmailJob{To: o.CustomerEmail, Template: template, Data: data}
	if err := n.Publisher.PublishJSON(ctx, job); err != nil {
		log.WithError(err).Error("failed to enqueue order email")
	}
}
