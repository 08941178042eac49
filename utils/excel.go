package utils

import (
	"io"

	"github.com/Kariqs/storefront-api/models"
	"github.com/tealeg/xlsx"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderExportHeaders = []string{
	"Order Number", "User ID", "Customer", "Phone", "City", "Pin Code",
	"Items", "Total Price", "Delivery Charge", "Final Amount",
	"Payment Method", "Payment Status", "Order Status", "Created At",
}

// WriteOrdersWorkbook writes one row per order to a single "Orders" sheet.
func WriteOrdersWorkbook(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range orderExportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderNumber)
		row.AddCell().SetValue(o.UserID)
		row.AddCell().SetValue(o.ShippingAddress.Name)
		row.AddCell().SetValue(o.ShippingAddress.Phone)
		row.AddCell().SetValue(o.ShippingAddress.City)
		row.AddCell().SetValue(o.ShippingAddress.PinCode)
		row.AddCell().SetValue(o.TotalItems)
		row.AddCell().SetValue(o.TotalPrice.StringFixed(2))
		row.AddCell().SetValue(o.DeliveryCharge.StringFixed(2))
		row.AddCell().SetValue(o.FinalAmount.StringFixed(2))
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(string(o.PaymentStatus))
		row.AddCell().SetValue(string(o.OrderStatus))
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}
