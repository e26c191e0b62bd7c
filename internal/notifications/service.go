package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
)

// ContactForm is a customer enquiry relayed to the store inbox.
type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Service composes and dispatches transactional email.
type Service interface {
	// SendOrderConfirmation delivers asynchronously; failures are logged and
	// never surface to the purchase flow.
	SendOrderConfirmation(ctx context.Context, order *models.Order)
	// SendContactForm delivers synchronously so the caller can report failure.
	SendContactForm(ctx context.Context, inbox string, form ContactForm) error
}

type service struct {
	sender Sender
	logg   *logger.Logger
}

// NewService wires the notification service. All dependencies are required.
func NewService(sender Sender, logg *logger.Logger) (Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("notifications: sender is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("notifications: logger is required")
	}
	return &service{sender: sender, logg: logg}, nil
}

func (s *service) SendOrderConfirmation(ctx context.Context, order *models.Order) {
	msg := Message{
		To:      order.Email,
		Subject: fmt.Sprintf("Confirmación de pedido %s", shortOrderRef(order)),
		Body:    orderConfirmationBody(order),
	}

	// detach from the request context so the send outlives the response
	logCtx := s.logg.WithOrderID(context.Background(), order.ID.String())
	go func() {
		if err := s.sender.Send(logCtx, msg); err != nil {
			s.logg.Error(logCtx, "order confirmation email failed", err)
			return
		}
		s.logg.Info(logCtx, "order confirmation email sent")
	}()
}

func (s *service) SendContactForm(ctx context.Context, inbox string, form ContactForm) error {
	subject := strings.TrimSpace(form.Subject)
	if subject == "" {
		subject = "Nuevo mensaje de contacto"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Nombre: %s\n", form.Name)
	fmt.Fprintf(&b, "Email: %s\n\n", form.Email)
	b.WriteString(form.Message)
	b.WriteString("\n")

	if err := s.sender.Send(ctx, Message{To: inbox, Subject: subject, Body: b.String()}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delivering contact form email")
	}
	return nil
}

func orderConfirmationBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\n", order.FullName)
	fmt.Fprintf(&b, "Recibimos tu pedido %s. Resumen:\n\n", shortOrderRef(order))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %d x %s  $%s\n", item.Quantity, item.Name, item.Total().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nSubtotal: $%s\n", order.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Envío: $%s\n", order.ShippingCost.StringFixed(2))
	fmt.Fprintf(&b, "Total: $%s\n\n", order.Total.StringFixed(2))
	b.WriteString("Tu pedido quedará confirmado en cuanto registremos tu transferencia.\n")
	return b.String()
}

// shortOrderRef is the first UUID block, enough for humans to quote back.
func shortOrderRef(order *models.Order) string {
	id := order.ID.String()
	if i := strings.IndexByte(id, '-'); i > 0 {
		return "#" + strings.ToUpper(id[:i])
	}
	return "#" + strings.ToUpper(id)
}
