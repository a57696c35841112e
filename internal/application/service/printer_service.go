package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/sangkips/trimtime-pos/pkg/email"
	"github.com/sangkips/trimtime-pos/pkg/printer"
	"github.com/shopspring/decimal"
)

const walkInClient = "Guest Walk-in"

// PrinterService builds receipts and sends them to the printer, a download
// or an e-mail address
type PrinterService struct {
	printer   printer.Printer
	email     *email.EmailService
	sales     *SaleService
	staff     *StaffService
	customers *CustomerService
	settings  *SettingsService
	width     int
	location  *time.Location
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	emailService *email.EmailService,
	sales *SaleService,
	staff *StaffService,
	customers *CustomerService,
	settings *SettingsService,
	width int,
) *PrinterService {
	if width <= 0 {
		width = printer.Width80mm
	}
	return &PrinterService{
		printer:   p,
		email:     emailService,
		sales:     sales,
		staff:     staff,
		customers: customers,
		settings:  settings,
		width:     width,
		location:  time.Local,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != printer.TypeNone,
		Connected:  s.printer.IsConnected(),
		Type:       s.printer.Type(),
	}
}

// BuildReceipt composes the receipt of a sale with the names and settings
// known now
func (s *PrinterService) BuildReceipt(sale *entity.Sale) *entity.Receipt {
	settings := s.settings.Get()

	professional := "N/A"
	if st, ok := s.staff.Find(sale.StaffID); ok {
		professional = st.Name
	}
	client := walkInClient
	if sale.CustomerID != nil {
		if c, ok := s.customers.Find(*sale.CustomerID); ok {
			client = c.Name
		}
	}

	r := &entity.Receipt{
		Header:        entity.ReceiptHeader{ShopName: settings.ShopName, Phone: settings.WhatsAppNumber},
		TransactionID: sale.ID,
		Date:          sale.CreatedAt.In(s.location).Format("2006-01-02 15:04"),
		Professional:  professional,
		Client:        client,
		PaymentMethod: sale.PaymentMethod.String(),
		Currency:      settings.Currency,
		SubTotal:      sale.Subtotal().Round(2),
		Discount:      sale.Discount,
		TaxRate:       settings.TaxRate,
		TaxIncluded:   sale.TaxType == enum.TaxTypeIncluded,
		Tax:           sale.Tax,
		Total:         sale.Total,
		Footer:        settings.ReceiptFooter,
	}
	if sale.DiscountCode != nil {
		r.DiscountCode = *sale.DiscountCode
	}
	for _, l := range sale.Lines {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.LineTotal().Round(2),
		})
	}
	return r
}

// Receipt loads a sale and builds its receipt
func (s *PrinterService) Receipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	sale, err := s.sales.Get(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return s.BuildReceipt(sale), nil
}

// PrintSaleReceipt sends the receipt of a sale to the thermal printer.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	receipt, err := s.Receipt(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		slog.Error("printer error", "sale_id", saleID, "error", err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// ExportText renders the receipt as plain text with its download file name
func (s *PrinterService) ExportText(ctx context.Context, saleID string) (string, []byte, error) {
	receipt, err := s.Receipt(ctx, saleID)
	if err != nil {
		return "", nil, err
	}
	return ReceiptFilename(receipt.TransactionID), FormatReceiptText(receipt, s.width), nil
}

// ShareByEmail mails the receipt to an address
func (s *PrinterService) ShareByEmail(ctx context.Context, saleID, to string) error {
	if s.email == nil || !s.email.Configured() {
		return apperror.NewCapabilityUnavailable("E-mail sharing", nil)
	}
	receipt, err := s.Receipt(ctx, saleID)
	if err != nil {
		return err
	}

	err = s.email.SendReceipt(to, email.Receipt{
		ShopName:      receipt.Header.ShopName,
		TransactionID: receipt.TransactionID,
		Date:          receipt.Date,
		Total:         money(receipt.Currency, receipt.Total),
		Footer:        receipt.Footer,
		Filename:      ReceiptFilename(receipt.TransactionID),
		Text:          string(FormatReceiptText(receipt, s.width)),
	})
	if err != nil {
		slog.Error("failed to share receipt", "sale_id", saleID, "error", err)
		return apperror.NewBadRequestError(err.Error())
	}
	return nil
}

// ReceiptFilename is the download name of a receipt
func ReceiptFilename(saleID string) string {
	return fmt.Sprintf("Receipt-%s.txt", saleID)
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	layoutReceipt(doc, r)
	doc.FeedLines(3).PartialCut()
	return doc.Bytes()
}

// FormatReceiptText converts a Receipt into fixed-width text.
func FormatReceiptText(r *entity.Receipt, width int) []byte {
	doc := printer.NewTextDocument(width)
	layoutReceipt(doc, r)
	return doc.Bytes()
}

func layoutReceipt(doc *printer.Document, r *entity.Receipt) {
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("OFFICIAL RECEIPT").
		SetFontSize(printer.FontDouble).
		Text(r.Header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		Text("Professional Grooming & Care")
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		TextF("Transaction ID: #%s", r.TransactionID).
		TextF("Date & Time: %s", r.Date).
		TextF("Professional: %s", r.Professional).
		TextF("Client: %s", r.Client)
	if r.PaymentMethod != "" {
		doc.TextF("Payment: %s", r.PaymentMethod)
	}
	doc.Separator('-')

	doc.SetBold(true).
		ItemLine(0, "DESCRIPTION", "AMOUNT").
		SetBold(false)
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(r.Currency, item.Total))
	}
	doc.Separator('-')

	doc.KeyValue("SUBTOTAL:", money(r.Currency, r.SubTotal))
	if r.Discount.IsPositive() {
		code := r.DiscountCode
		if code == "" {
			code = "Applied"
		}
		doc.KeyValue(fmt.Sprintf("DISCOUNT (%s):", code), "-"+money(r.Currency, r.Discount))
	}
	if r.TaxIncluded {
		doc.TextF("Includes %s%% tax of %s", r.TaxRate.String(), money(r.Currency, r.Tax))
	} else {
		doc.KeyValue(fmt.Sprintf("TAX (%s%%):", r.TaxRate.String()), money(r.Currency, r.Tax))
	}
	doc.SetBold(true).
		KeyValue("TOTAL PAID:", money(r.Currency, r.Total)).
		SetBold(false)

	doc.Separator('-').
		SetAlign(printer.AlignCenter)
	if r.Footer != "" {
		doc.Text(r.Footer)
	}
	doc.Text("Thank you for your visit!").
		SetAlign(printer.AlignLeft)
}

func money(currency string, d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}
