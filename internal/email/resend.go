package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Mega4Real/ednascollectionnew/internal/domain"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendSender sends order receipts through the Resend HTTP API. Calls go
// through a circuit breaker so a provider outage doesn't tie up the outbox
// poller with slow failing requests.
type ResendSender struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[struct{}]
}

func NewResendSender(apiKey, from string) *ResendSender {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "resend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &ResendSender{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		breaker:  cb,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *ResendSender) SendOrderReceipt(ctx context.Context, order *domain.Order) error {
	if s.apiKey == "" {
		log.Printf("RESEND_API_KEY is not set, receipt for order %d skipped", order.ID)
		return nil
	}

	body, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{order.Email},
		Subject: "Your Erdnas Collections order receipt",
		HTML:    renderReceipt(order),
	})
	if err != nil {
		return fmt.Errorf("marshal receipt request: %w", err)
	}

	_, err = s.breaker.Execute(func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
		if err != nil {
			return struct{}{}, err
		}
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 300 {
			return struct{}{}, fmt.Errorf("resend returned status %d", resp.StatusCode)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("send receipt for order %d: %w", order.ID, err)
	}
	return nil
}

// renderReceipt builds the receipt HTML. All order fields came in through the
// public checkout endpoint, so they are escaped before interpolation.
func renderReceipt(order *domain.Order) string {
	var b strings.Builder
	b.WriteString("<h1>Thank you for your order!</h1>")
	reference := order.PaymentReference
	if reference == "" {
		reference = fmt.Sprintf("%d", order.ID)
	}
	fmt.Fprintf(&b, "<p>Order number: #%s</p>", html.EscapeString(reference))
	fmt.Fprintf(&b, "<p>Payment method: %s</p>", paymentMethodLabel(order.PaymentMethod))
	b.WriteString("<ul>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<li>Size %s — GH₵%.2f</li>", html.EscapeString(item.Size), item.Price)
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p><strong>Total: GH₵%.2f</strong></p>", order.TotalAmount)
	fmt.Fprintf(&b, "<p>Delivery to: %s, %s, %s</p>",
		html.EscapeString(order.CustomerName),
		html.EscapeString(order.Address),
		html.EscapeString(order.City))
	return b.String()
}

func paymentMethodLabel(m domain.PaymentMethod) string {
	if m == domain.PaymentMethodWhatsApp {
		return "WhatsApp / Manual"
	}
	return "Online (Paystack)"
}
