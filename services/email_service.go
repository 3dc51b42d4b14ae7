package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"njatashiz_server/structs"
	"strings"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

var ErrEmailDisabled = errors.New("email delivery is not configured")

type EmailService struct {
	logger *gecho.Logger
	cfg    structs.EmailConfig
	send   func(params *resend.SendEmailRequest) error
}

func NewEmailService(logger *gecho.Logger, cfg structs.EmailConfig) *EmailService {
	es := &EmailService{
		logger: logger,
		cfg:    cfg,
	}
	if cfg.ApiKey != "" {
		c := getEmailClient(cfg.ApiKey)
		es.send = func(params *resend.SendEmailRequest) error {
			_, err := c.Emails.Send(params)
			return err
		}
	}
	return es
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

func (es *EmailService) Enabled() bool {
	return es.send != nil
}

func (es *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	if !es.Enabled() {
		return ErrEmailDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	if err := es.send(params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// SendInquiry mails a visitor's question about a piece to the studio inbox
func (es *EmailService) SendInquiry(ctx context.Context, piece *structs.PieceDetail, req *structs.InquiryRequest) error {
	subject := fmt.Sprintf("Inquiry: %s", piece.Title)
	if err := es.SendEmail(ctx, []string{es.cfg.InquiryTo}, subject, inquiryBody(piece, req)); err != nil {
		return err
	}

	es.logger.Info("Inquiry sent",
		gecho.Field("piece_id", piece.ID),
		gecho.Field("locale", piece.Locale),
	)
	return nil
}

func inquiryBody(piece *structs.PieceDetail, req *structs.InquiryRequest) string {
	price := "on request"
	if piece.Price.Valid {
		price = piece.Price.Decimal.StringFixed(2) + " RSD"
	}

	phone := req.Phone
	if phone == "" {
		phone = "-"
	}

	message := strings.ReplaceAll(html.EscapeString(req.Message), "\n", "<br>")

	return fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.piece { background-color: #f9f9f9; padding: 15px; margin: 15px 0; border-radius: 5px; }
			</style>
		</head>
		<body>
			<div class="container">
				<h2>New inquiry</h2>
				<div class="piece">
					<p><strong>%s</strong> (%s)</p>
					<p>Category: %s<br>Price: %s<br>Language: %s</p>
					<p>ID: %s</p>
				</div>
				<p><strong>From:</strong> %s &lt;%s&gt;<br><strong>Phone:</strong> %s</p>
				<p>%s</p>
			</div>
		</body>
		</html>
	`,
		html.EscapeString(piece.Title),
		html.EscapeString(string(piece.CategoryKey)),
		html.EscapeString(piece.CategoryName),
		price,
		piece.Locale,
		piece.ID,
		html.EscapeString(req.Name),
		html.EscapeString(req.Email),
		html.EscapeString(phone),
		message,
	)
}
