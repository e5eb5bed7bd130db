// Package notify renders engine events as localized notifications.
//
// Message keys are the English texts; other locales are registered in a
// golang.org/x/text catalog. Amounts are formatted by the locale printer, so
// 25000 reads "25,000" in English and "25 000" in Russian.
package notify

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/roach88/pvz/internal/domain"
)

// Supported locales.
var (
	English = language.English
	Russian = language.Russian
)

// Message keys, also the English texts.
const (
	keyDeliveryRequestedTitle = "Receiving parcels"
	keyDeliveryRequestedDesc  = "Scanning parcels..."
	keyDeliveryCompletedTitle = "Receiving complete"
	keyDeliveryCompletedDesc  = "Accepted %[1]d orders. Bonus: +%[2]d₽"
	keyIssuedTitle            = "Order issued"
	keyIssuedDesc             = "%[1]s → cell %[2]s. Bonus: +%[3]d₽"
	keyNotReadyTitle          = "Error"
	keyNotReadyDesc           = "Order is not ready for pickup yet"
	keyReturnedTitle          = "Return processed"
	keyReturnedDesc           = "%[1]s sent to the warehouse. Bonus: +%[2]d₽"
	keyPlacedTitle            = "Order placed"
	keyPlacedDesc             = "%[1]s → cell %[2]s"
	keyNotFoundTitle          = "Order not found"
	keyNotFoundDesc           = "Check the code"
	keyBreakStartedTitle      = "Break"
	keyBreakStartedDesc       = `"Break" sign is on the door`
	keyBreakEndedTitle        = "Back to work"
	keyBreakEndedDesc         = "Returning to work"
	keyArrivedTitle           = "Customer arrived"
	keyArrivedDesc            = "%[1]s is waiting for %[2]s"
	keyCustomerName           = "Customer %[1]d"
	keyIncome                 = "%[1]d₽"
)

var russian = map[string]string{
	keyDeliveryRequestedTitle: "Приёмка заказов",
	keyDeliveryRequestedDesc:  "Сканирование посылок...",
	keyDeliveryCompletedTitle: "Приёмка завершена",
	keyDeliveryCompletedDesc:  "Принято %[1]d заказов. Бонус: +%[2]d₽",
	keyIssuedTitle:            "Заказ выдан",
	keyIssuedDesc:             "%[1]s → Ячейка %[2]s. Бонус: +%[3]d₽",
	keyNotReadyTitle:          "Ошибка",
	keyNotReadyDesc:           "Заказ ещё не готов к выдаче",
	keyReturnedTitle:          "Возврат оформлен",
	keyReturnedDesc:           "%[1]s отправлен на склад. Бонус: +%[2]d₽",
	keyPlacedTitle:            "Заказ размещён",
	keyPlacedDesc:             "%[1]s → Ячейка %[2]s",
	keyNotFoundTitle:          "Заказ не найден",
	keyNotFoundDesc:           "Проверьте код",
	keyBreakStartedTitle:      "Перерыв",
	keyBreakStartedDesc:       `Табличка "Перерыв" на двери`,
	keyBreakEndedTitle:        "Рабочий режим",
	keyBreakEndedDesc:         "Возвращаемся к работе",
	keyArrivedTitle:           "Новый клиент",
	keyArrivedDesc:            "%[1]s ждёт заказ %[2]s",
	keyCustomerName:           "Клиент %[1]d",
	keyIncome:                 "%[1]d₽",
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(English))
	for key, text := range russian {
		if err := b.SetString(Russian, key, text); err != nil {
			panic(fmt.Sprintf("notify: register %q: %v", key, err))
		}
	}
	return b
}

// ParseLocale maps a config value ("en", "ru") to a supported tag.
func ParseLocale(s string) (language.Tag, error) {
	switch s {
	case "", "en":
		return English, nil
	case "ru":
		return Russian, nil
	default:
		return language.Und, fmt.Errorf("unsupported locale %q (want en or ru)", s)
	}
}

// Formatter builds notifications in one locale.
type Formatter struct {
	p *message.Printer
}

// NewFormatter creates a Formatter for tag.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag, message.Catalog(cat))}
}

func (f *Formatter) build(kind domain.NotificationKind, sev domain.Severity, subject, title, desc string, args ...any) domain.Notification {
	return domain.Notification{
		Kind:        kind,
		Title:       f.p.Sprintf(title),
		Description: f.p.Sprintf(desc, args...),
		Severity:    sev,
		Subject:     subject,
	}
}

// DeliveryRequested acknowledges a delivery request before it is processed.
func (f *Formatter) DeliveryRequested() domain.Notification {
	return f.build(domain.KindDeliveryRequested, domain.SeverityInfo, "", keyDeliveryRequestedTitle, keyDeliveryRequestedDesc)
}

// DeliveryCompleted reports an applied delivery batch.
func (f *Formatter) DeliveryCompleted(count, bonus int) domain.Notification {
	return f.build(domain.KindDeliveryCompleted, domain.SeverityInfo, "", keyDeliveryCompletedTitle, keyDeliveryCompletedDesc, count, bonus)
}

// OrderIssued reports a completed pickup.
func (f *Formatter) OrderIssued(o domain.Order, bonus int) domain.Notification {
	return f.build(domain.KindOrderIssued, domain.SeverityInfo, o.ID, keyIssuedTitle, keyIssuedDesc, o.ID, o.Cell, bonus)
}

// OrderNotReady reports an issuance attempt on an order that is not on the shelf.
func (f *Formatter) OrderNotReady(o domain.Order) domain.Notification {
	return f.build(domain.KindOrderNotReady, domain.SeverityError, o.ID, keyNotReadyTitle, keyNotReadyDesc)
}

// OrderReturned reports a processed return.
func (f *Formatter) OrderReturned(o domain.Order, bonus int) domain.Notification {
	return f.build(domain.KindOrderReturned, domain.SeverityInfo, o.ID, keyReturnedTitle, keyReturnedDesc, o.ID, bonus)
}

// OrderPlaced reports a pending order moved to its shelf.
func (f *Formatter) OrderPlaced(o domain.Order) domain.Notification {
	return f.build(domain.KindOrderPlaced, domain.SeverityInfo, o.ID, keyPlacedTitle, keyPlacedDesc, o.ID, o.Cell)
}

// OrderNotFound reports a scan or lookup that matched nothing.
func (f *Formatter) OrderNotFound(subject string) domain.Notification {
	return f.build(domain.KindOrderNotFound, domain.SeverityError, subject, keyNotFoundTitle, keyNotFoundDesc)
}

// BreakToggled reports the new break state.
func (f *Formatter) BreakToggled(onBreak bool) domain.Notification {
	if onBreak {
		return f.build(domain.KindBreakStarted, domain.SeverityInfo, "", keyBreakStartedTitle, keyBreakStartedDesc)
	}
	return f.build(domain.KindBreakEnded, domain.SeverityInfo, "", keyBreakEndedTitle, keyBreakEndedDesc)
}

// CustomerArrived reports a new customer at the counter.
func (f *Formatter) CustomerArrived(c domain.Customer) domain.Notification {
	return f.build(domain.KindCustomerArrived, domain.SeverityInfo, c.ID, keyArrivedTitle, keyArrivedDesc, c.Name, c.OrderID)
}

// CustomerName is the display name of the n-th customer in line.
func (f *Formatter) CustomerName(n int) string {
	return f.p.Sprintf(keyCustomerName, n)
}

// Money formats an amount with locale digit grouping.
func (f *Formatter) Money(amount int) string {
	return f.p.Sprintf(keyIncome, amount)
}
