package utils

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/Kariqs/storefront-api/models"
)

// smtpTimeout bounds a whole send when the caller's context has no deadline.
const smtpTimeout = 15 * time.Second

// SMTPConfig holds the outgoing mail account.
type SMTPConfig struct {
	Address  string // host:port of the SMTP server
	Host     string // host used for PLAIN auth
	From     string
	Password string
}

func (c SMTPConfig) Enabled() bool {
	return c.Address != "" && c.From != ""
}

type OrderEmailLine struct {
	Name     string
	Variant  string
	Quantity int
	Subtotal string
}

type OrderEmailData struct {
	Name           string
	OrderNumber    string
	Items          []OrderEmailLine
	TotalPrice     string
	DeliveryCharge string
	FinalAmount    string
	PaymentMethod  string
	Address        string
}

// NewOrderEmailData flattens order into the values the confirmation template
// prints.
func NewOrderEmailData(order models.Order) OrderEmailData {
	data := OrderEmailData{
		Name:           order.ShippingAddress.Name,
		OrderNumber:    order.OrderNumber,
		TotalPrice:     order.TotalPrice.StringFixed(2),
		DeliveryCharge: order.DeliveryCharge.StringFixed(2),
		FinalAmount:    order.FinalAmount.StringFixed(2),
		PaymentMethod:  string(order.PaymentMethod),
	}
	addr := order.ShippingAddress
	data.Address = fmt.Sprintf("%s, %s, %s - %s", addr.Address, addr.City, addr.State, addr.PinCode)
	for _, item := range order.Items {
		var options []string
		for _, opt := range []string{item.Color, item.Ram, item.Storage} {
			if opt != "" {
				options = append(options, opt)
			}
		}
		data.Items = append(data.Items, OrderEmailLine{
			Name:     item.Name,
			Variant:  strings.Join(options, " / "),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal.StringFixed(2),
		})
	}
	return data
}

func RenderTemplate(templatePath string, data any) (string, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func SendEmail(ctx context.Context, cfg SMTPConfig, emailTo string, emailSubject string, templatePath string, data any) error {
	body, err := RenderTemplate(templatePath, data)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		cfg.From,
		emailTo,
		emailSubject,
		body,
	)

	if err := sendMail(ctx, cfg, emailTo, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// sendMail is smtp.SendMail with the dial and every later exchange bounded by
// ctx.
func sendMail(ctx context.Context, cfg SMTPConfig, to string, msg []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, smtpTimeout)
		defer cancel()
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}

	host := cfg.Host
	if host == "" {
		host, _, _ = net.SplitHostPort(cfg.Address)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if cfg.Password != "" {
		if err := client.Auth(smtp.PlainAuth("", cfg.From, cfg.Password, host)); err != nil {
			return err
		}
	}
	if err := client.Mail(cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
