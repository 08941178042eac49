package utils

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kariqs/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func exportOrder() models.Order {
	return models.Order{
		OrderNumber:     "ORD1714550400000A1B2C3",
		UserID:          "u-1",
		ShippingAddress: models.ShippingAddress{Name: "Asha", Phone: "99", Address: "12 MG Road", City: "Pune", State: "MH", PinCode: "411001"},
		Items: []models.OrderItem{
			{Name: "Phone X", Variant: models.Variant{Color: "Black", Ram: "8GB"}, Quantity: 2, Subtotal: decimal.NewFromInt(20000)},
		},
		TotalItems:     2,
		TotalPrice:     decimal.NewFromInt(20000),
		DeliveryCharge: decimal.NewFromInt(40),
		FinalAmount:    decimal.NewFromInt(20040),
		PaymentMethod:  models.PaymentMethodCOD,
		PaymentStatus:  models.PaymentStatusPending,
		OrderStatus:    models.OrderStatusShipped,
		CreatedAt:      time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestWriteOrdersWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersWorkbook(&buf, []models.Order{exportOrder()}))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet["Orders"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 2)

	header := sheet.Rows[0].Cells
	assert.Equal(t, "Order Number", header[0].Value)
	row := sheet.Rows[1].Cells
	assert.Equal(t, "ORD1714550400000A1B2C3", row[0].Value)
	assert.Equal(t, "20040.00", row[9].Value)
	assert.Equal(t, "Shipped", row[12].Value)
	assert.Equal(t, "2024-05-01 08:00:00", row[13].Value)
}

func TestRenderOrderConfirmation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confirm.html")
	tmpl := `<p>{{.Name}} {{.OrderNumber}} {{.FinalAmount}}</p>{{range .Items}}<li>{{.Name}} ({{.Variant}}) x{{.Quantity}}</li>{{end}}`
	require.NoError(t, os.WriteFile(path, []byte(tmpl), 0o600))

	body, err := RenderTemplate(path, NewOrderEmailData(exportOrder()))
	require.NoError(t, err)
	assert.Contains(t, body, "Asha ORD1714550400000A1B2C3 20040.00")
	assert.Contains(t, body, "Phone X (Black / 8GB) x2")
}

func TestRenderShippedTemplate(t *testing.T) {
	body, err := RenderTemplate(filepath.Join("..", "templates", "order_confirmation.html"), NewOrderEmailData(exportOrder()))
	require.NoError(t, err)
	assert.Contains(t, body, "ORD1714550400000A1B2C3")
	assert.Contains(t, body, "12 MG Road, Pune, MH - 411001")
}

func TestSendEmailGivesUpOnSilentServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// never send the greeting
		time.Sleep(2 * time.Second)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = SendEmail(ctx, SMTPConfig{Address: ln.Addr().String(), From: "shop@example.com"}, "asha@example.com", "Order",
		filepath.Join("..", "templates", "order_confirmation.html"), NewOrderEmailData(exportOrder()))
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("prod", "debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(-1))

	log, err = NewLogger("dev", "not-a-level")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))
}
